package merge

import (
	"log"

	"github.com/gjmurakami-10gen/mongomerge/queryb"
)

// Verbose, when set by a caller (the CLI sets it from --verbose), makes
// AggCopy and GroupAndUpdate log the composed pipeline JSON before running
// it. It replaces the original tool's per-document collection dump with a
// single line per call.
var Verbose bool

func logPipeline(op, collName string, pipeline queryb.Pipeline) {
	if !Verbose {
		return
	}
	log.Printf("merge: %s on %s: %s", op, collName, pipeline.JSON())
}
