package merge

import "errors"

var (
	// ErrSpecParse is returned when a merge spec string is malformed.
	ErrSpecParse = errors.New("merge: spec parse error")

	// ErrConnection is returned when the database connection cannot be established
	// or the connection URI names no database.
	ErrConnection = errors.New("merge: connection error")

	// ErrTransport is returned when an aggregation cursor or bulk write fails
	// while copying documents between collections.
	ErrTransport = errors.New("merge: transport error")
)
