package queryb

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Filter represents an immutable MongoDB query predicate. Only the two
// constructors the merge package actually needs are exposed: Eq for the
// per-document $set update filter in GroupAndUpdate, and Raw for the
// hand-built $ne-null match in CopyManyWithParentID-style queries.
//
// See: https://www.mongodb.com/docs/manual/reference/operator/query/
type Filter struct {
	d bson.D
}

// BsonD returns the filter as a bson.D, suitable for passing directly to
// the go-mongodb-driver or wrapping in an UpdateOneModel.
func (f Filter) BsonD() bson.D {
	return f.d
}

// Raw creates a Filter from a raw bson.D. Use this for query shapes not
// covered by a named constructor.
func Raw(d bson.D) Filter {
	return Filter{d: d}
}

// Eq creates a filter that matches documents where field equals value.
//
// MongoDB equivalent:
//
//	{ field: { $eq: value } }
func Eq(field string, value interface{}) Filter {
	return Filter{d: bson.D{{Key: field, Value: bson.D{{Key: "$eq", Value: value}}}}}
}
