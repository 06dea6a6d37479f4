package queryb

import (
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// BulkWriteOpt is a functional option for configuring bulk write operations.
type BulkWriteOpt func(*options.BulkWriteOptionsBuilder)

// WithOrdered sets the ordered flag. AggCopy and GroupAndUpdate both pass
// true: an ordered bulk write stops at the first failing operation, which
// keeps the count of documents actually written accurate when a batch fails
// partway through.
func WithOrdered(ordered bool) BulkWriteOpt {
	return func(o *options.BulkWriteOptionsBuilder) {
		o.SetOrdered(ordered)
	}
}

// buildBulkWriteOpts applies functional options to a BulkWriteOptionsBuilder.
func buildBulkWriteOpts(opts []BulkWriteOpt) *options.BulkWriteOptionsBuilder {
	o := options.BulkWrite()
	for _, opt := range opts {
		opt(o)
	}
	return o
}
