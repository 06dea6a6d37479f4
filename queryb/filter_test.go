package queryb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestEq(t *testing.T) {
	f := Eq("_id", 1)
	assert.Equal(t, bson.D{{Key: "_id", Value: bson.D{{Key: "$eq", Value: 1}}}}, f.BsonD())
}

func TestRaw(t *testing.T) {
	f := Raw(bson.D{{Key: "parent_id", Value: bson.D{{Key: "$ne", Value: nil}}}})
	assert.Equal(t, bson.D{{Key: "parent_id", Value: bson.D{{Key: "$ne", Value: nil}}}}, f.BsonD())
}
