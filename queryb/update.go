package queryb

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Updater represents an immutable MongoDB update document. GroupAndUpdate
// chains Set once per accumulated field that survived setFields' null/empty
// filtering, leaving every other field on the parent document untouched.
//
// See: https://www.mongodb.com/docs/manual/reference/operator/update/
type Updater struct {
	ops bson.D
}

// NewUpdate creates an empty Updater ready for chaining.
func NewUpdate() Updater {
	return Updater{}
}

// BsonD returns the update document as a bson.D, suitable for passing to
// an UpdateOneModel.
func (u Updater) BsonD() bson.D {
	return u.ops
}

// addOp adds or merges an operator entry into the update document. If the
// operator already exists, the new field is appended to the existing
// sub-document.
func (u Updater) addOp(op string, field string, value interface{}) Updater {
	newOps := make(bson.D, len(u.ops))
	copy(newOps, u.ops)

	for i, e := range newOps {
		if e.Key == op {
			existing := e.Value.(bson.D)
			merged := make(bson.D, len(existing), len(existing)+1)
			copy(merged, existing)
			merged = append(merged, bson.E{Key: field, Value: value})
			newOps[i] = bson.E{Key: op, Value: merged}
			return Updater{ops: newOps}
		}
	}

	newOps = append(newOps, bson.E{Key: op, Value: bson.D{{Key: field, Value: value}}})
	return Updater{ops: newOps}
}

// Set sets the value of a field in a document. If the field does not exist,
// it is created.
//
// MongoDB equivalent:
//
//	{ $set: { field: value } }
func (u Updater) Set(field string, value interface{}) Updater {
	return u.addOp("$set", field, value)
}
