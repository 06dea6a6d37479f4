package queryb

import "errors"

// ErrEmptyPipeline is returned when an empty pipeline is passed to
// AggregateStream rather than silently running a full-collection aggregate.
var ErrEmptyPipeline = errors.New("queryb: empty pipeline")
