package loader

import "log"

// Verbose, when set by a caller (the CLI sets it from --verbose), makes
// LoadTable log a line per table before it starts reading.
var Verbose bool

func logStart(table string, cm ColumnMap) {
	if !Verbose {
		return
	}
	log.Printf("loader: loading %s (%d columns)", table, len(cm))
}
