package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gjmurakami-10gen/mongomerge/queryb"
)

// BulkOpsSize is the number of documents accumulated before a bulk insert is
// flushed, matching the merge engine's transport batch size.
const BulkOpsSize = 1000

// ConversionWarning records one column's failed conversion; the row still
// gets inserted with every other column that did convert.
type ConversionWarning struct {
	Table  string
	Row    int
	Column string
	Value  string
	Err    error
}

func (w ConversionWarning) String() string {
	return fmt.Sprintf("%s: row %d column %s value %q: %v", w.Table, w.Row, w.Column, w.Value, w.Err)
}

// Report summarizes one LoadTable call.
type Report struct {
	Inserted int64
	Warnings []ConversionWarning
}

// LoadTable reads tab-separated dump rows from r, converts each row into a
// bson.M document using cm, and bulk-inserts them into dest in batches of
// BulkOpsSize. A column whose value fails to convert is logged as a warning
// and omitted from its document; the row is still inserted with whatever
// fields did convert. Context cancellation is honored between rows and
// before each flush.
func LoadTable(ctx context.Context, dest *queryb.Collection[bson.M], cm ColumnMap, tableName string, r io.Reader) (Report, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	logStart(tableName, cm)

	sink := queryb.NewBatchSink(dest, BulkOpsSize)
	var report Report
	row := 0

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("%w: %v", ErrTransport, err)
		}
		row++

		fields := SplitRow(scanner.Text())
		doc := rowToDocument(cm, fields, tableName, row, &report)

		if err := sink.Add(ctx, doc); err != nil {
			return report, fmt.Errorf("%w: bulk insert into %s: %v", ErrTransport, tableName, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("%w: reading dump for %s: %v", ErrTransport, tableName, err)
	}
	if err := sink.Flush(ctx); err != nil {
		return report, fmt.Errorf("%w: final bulk insert into %s: %v", ErrTransport, tableName, err)
	}

	report.Inserted = sink.Count()
	return report, nil
}

// rowToDocument applies cm positionally against fields, logging and
// recording a ConversionWarning for every column that fails to convert
// instead of failing the whole row. A dump line with fewer fields than cm
// declares columns simply leaves the trailing columns absent, the same as an
// explicit \N would.
func rowToDocument(cm ColumnMap, fields []string, tableName string, row int, report *Report) bson.M {
	doc := bson.M{}
	n := len(fields)
	if len(cm) < n {
		n = len(cm)
	}
	for i := 0; i < n; i++ {
		col := cm[i]
		value, ok, err := convertField(col.Kind, fields[i])
		if err != nil {
			warning := ConversionWarning{Table: tableName, Row: row, Column: col.Name, Value: fields[i], Err: err}
			report.Warnings = append(report.Warnings, warning)
			log.Printf("loader: %s", warning)
			continue
		}
		if !ok {
			continue
		}
		doc[col.Name] = value
	}
	return doc
}
