package loader

import (
	"encoding/json"
	"fmt"
	"os"
)

// Column describes one column of a table as declared in the schema file.
type Column struct {
	Name     string `json:"column_name"`
	DataType string `json:"data_type"`
}

// TableSchema is the ordered column list for one table. Column order matters:
// it is the positional key used to line up each tab-separated dump field with
// its converter.
type TableSchema struct {
	Name    string
	Columns []Column
}

// rawSchema mirrors the schema file's JSON shape: a top-level array of
// objects, each wrapping its table under a "create_table" key. Unknown object
// keys (e.g. constraints, primary key info) are ignored by omission.
type rawSchema []struct {
	CreateTable struct {
		TableName string   `json:"table_name"`
		Columns   []Column `json:"columns"`
	} `json:"create_table"`
}

// LoadSchema reads and parses the schema file at path into a map of table
// name to TableSchema.
func LoadSchema(path string) (map[string]TableSchema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading schema file %s: %v", ErrSchema, path, err)
	}

	var parsed rawSchema
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parsing schema file %s: %v", ErrSchema, path, err)
	}

	tables := make(map[string]TableSchema, len(parsed))
	for _, entry := range parsed {
		ct := entry.CreateTable
		if ct.TableName == "" {
			continue
		}
		tables[ct.TableName] = TableSchema{Name: ct.TableName, Columns: ct.Columns}
	}
	return tables, nil
}

// TableSchemaFor looks up table within tables, returning ErrSchema if it is
// not declared.
func TableSchemaFor(tables map[string]TableSchema, table string) (TableSchema, error) {
	ts, ok := tables[table]
	if !ok {
		return TableSchema{}, fmt.Errorf("%w: no create_table entry for %q", ErrSchema, table)
	}
	return ts, nil
}
