package loader

import "errors"

var (
	// ErrSchema is returned for missing schema files, malformed schema JSON,
	// a requested table absent from the schema, or an unrecognized data_type.
	ErrSchema = errors.New("loader: schema error")

	// ErrTransport is returned when a bulk insert into the destination
	// collection fails.
	ErrTransport = errors.New("loader: transport error")
)
