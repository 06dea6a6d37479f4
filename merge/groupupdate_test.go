package merge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gjmurakami-10gen/mongomerge/merge"
	"github.com/gjmurakami-10gen/mongomerge/queryb"
)

func TestGroupAndUpdate_SkipsNullAndEmptyArrayFields(t *testing.T) {
	ctx := context.Background()
	source := freshCollection(t, "t2")
	dest := freshCollection(t, "parent")

	_, err := dest.InsertMany(ctx, []bson.M{
		{"_id": 1, "name": "Has both"},
		{"_id": 2, "name": "Has neither"},
	})
	require.NoError(t, err)

	_, err = source.InsertMany(ctx, []bson.M{
		{"parent_id": 1, "gender": bson.M{"_id": 1, "name": "Male"}, "pet": bson.M{"_id": 9, "name": "Rex"}},
		{"parent_id": 2, "gender": nil},
	})
	require.NoError(t, err)

	entries := []merge.SpecEntry{
		{Relation: merge.RelationOne, ParentKey: "gender", ChildName: "gender", ChildKey: "_id"},
		{Relation: merge.RelationMany, ParentKey: "pet", ChildName: "pet", ChildKey: "owner"},
	}

	result, err := merge.GroupAndUpdate(ctx, source, dest, entries)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.ParentsUpdated, "an update is attempted for every grouped row, even one with nothing to set")

	p1, err := dest.FindOne(ctx, queryb.Eq("_id", 1))
	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": 1, "name": "Male"}, (*p1)["gender"])
	pets, ok := (*p1)["pet"].(bson.A)
	require.True(t, ok)
	assert.Equal(t, bson.A{bson.M{"_id": 9, "name": "Rex"}}, pets)

	p2, err := dest.FindOne(ctx, queryb.Eq("_id", 2))
	require.NoError(t, err)
	_, hasGender := (*p2)["gender"]
	assert.False(t, hasGender, "a null accumulated value is never written")
	_, hasPet := (*p2)["pet"]
	assert.False(t, hasPet, "an empty-array accumulated value is never written")
}
