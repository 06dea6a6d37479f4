package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConverterKind tags how a column's raw dump text is converted into a BSON
// value. This replaces a function-pointer dispatch table with an explicit
// enum switch: an unrecognized data_type is a distinct, fatal case rather
// than silently falling through to the UTF-8 variant.
type ConverterKind int

const (
	ConvBool ConverterKind = iota
	ConvInt
	ConvTimestamp
	ConvIntArray
	ConvPoint
	ConvUtf8Default
)

// ColumnConverter pairs a column name with the converter kind resolved for
// its declared data_type.
type ColumnConverter struct {
	Name string
	Kind ConverterKind
}

// ColumnMap is the positional, per-column converter list for one table,
// aligned with the table's schema column order.
type ColumnMap []ColumnConverter

// classifyDataType resolves a raw data_type string to a ConverterKind. TEXT,
// UUID, and any VARCHAR(n)/CHAR(n) variant are known non-conversion types and
// fall into ConvUtf8Default explicitly; anything else is unrecognized.
func classifyDataType(dataType string) (ConverterKind, bool) {
	switch dataType {
	case "BOOLEAN":
		return ConvBool, true
	case "INT", "INTEGER", "SERIAL", "SMALLINT":
		return ConvInt, true
	case "TIMESTAMP":
		return ConvTimestamp, true
	case "INTEGER[]":
		return ConvIntArray, true
	case "POINT":
		return ConvPoint, true
	case "TEXT", "UUID":
		return ConvUtf8Default, true
	}
	if strings.HasPrefix(dataType, "VARCHAR") || strings.HasPrefix(dataType, "CHAR") {
		return ConvUtf8Default, true
	}
	return 0, false
}

// BuildColumnMap resolves every column of schema against the type table,
// returning ErrSchema on the first unrecognized data_type.
func BuildColumnMap(schema TableSchema) (ColumnMap, error) {
	cm := make(ColumnMap, len(schema.Columns))
	for i, c := range schema.Columns {
		kind, ok := classifyDataType(c.DataType)
		if !ok {
			return nil, fmt.Errorf("%w: table %q column %q: unknown data_type %q", ErrSchema, schema.Name, c.Name, c.DataType)
		}
		cm[i] = ColumnConverter{Name: c.Name, Kind: kind}
	}
	return cm, nil
}

// ColumnMapFor is the convenience path from a schema file and table name
// straight to a resolved ColumnMap, used by LoadTable and wrapped by
// cache.ColumnMapCache for repeat lookups against the same schema file.
func ColumnMapFor(schemaFile, table string) (ColumnMap, error) {
	tables, err := LoadSchema(schemaFile)
	if err != nil {
		return nil, err
	}
	ts, err := TableSchemaFor(tables, table)
	if err != nil {
		return nil, err
	}
	return BuildColumnMap(ts)
}

// pgNull is PostgreSQL COPY's null marker.
const pgNull = `\N`

// convertField converts one raw dump field according to kind. ok is false
// when the field should be omitted from the document entirely (a PG null, or
// an empty UTF-8-typed field); err is non-nil on a malformed value for a
// non-null field, in which case the column is skipped but the row continues.
func convertField(kind ConverterKind, raw string) (value interface{}, ok bool, err error) {
	if raw == pgNull {
		return nil, false, nil
	}

	switch kind {
	case ConvBool:
		switch raw {
		case "t":
			return true, true, nil
		case "f":
			return false, true, nil
		default:
			return nil, false, fmt.Errorf("invalid BOOLEAN value %q", raw)
		}

	case ConvInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("invalid integer value %q: %w", raw, err)
		}
		return n, true, nil

	case ConvTimestamp:
		t, err := parsePGTimestamp(raw)
		if err != nil {
			return nil, false, err
		}
		return t, true, nil

	case ConvIntArray:
		arr, err := parsePGIntArray(raw)
		if err != nil {
			return nil, false, err
		}
		return arr, true, nil

	case ConvPoint:
		pt, err := parsePGPoint(raw)
		if err != nil {
			return nil, false, err
		}
		return pt, true, nil

	default: // ConvUtf8Default
		if raw == "" {
			return nil, false, nil
		}
		return raw, true, nil
	}
}

// pgTimestampLayouts covers both zone forms PostgreSQL's COPY output uses: a
// two-digit offset ("+00") and a four-digit offset ("+0000"/"-0700").
var pgTimestampLayouts = []string{
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999-0700",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05-0700",
}

func parsePGTimestamp(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range pgTimestampLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("invalid TIMESTAMP value %q: %w", raw, lastErr)
}

// parsePGIntArray parses a PostgreSQL integer array literal "{v1,v2,...}",
// including the empty-array boundary case "{}" -> [].
func parsePGIntArray(raw string) ([]int64, error) {
	if !strings.HasPrefix(raw, "{") || !strings.HasSuffix(raw, "}") {
		return nil, fmt.Errorf("invalid INTEGER[] value %q", raw)
	}
	body := raw[1 : len(raw)-1]
	if body == "" {
		return []int64{}, nil
	}
	parts := strings.Split(body, ",")
	out := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid INTEGER[] element %q in %q: %w", p, raw, err)
		}
		out[i] = n
	}
	return out, nil
}

// parsePGPoint parses a PostgreSQL point literal "(x,y)" into a two-element
// [x, y] slice of doubles.
func parsePGPoint(raw string) ([]float64, error) {
	if !strings.HasPrefix(raw, "(") || !strings.HasSuffix(raw, ")") {
		return nil, fmt.Errorf("invalid POINT value %q", raw)
	}
	body := raw[1 : len(raw)-1]
	parts := strings.Split(body, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid POINT value %q: expected 2 coordinates, got %d", raw, len(parts))
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid POINT x coordinate in %q: %w", raw, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid POINT y coordinate in %q: %w", raw, err)
	}
	return []float64{x, y}, nil
}
