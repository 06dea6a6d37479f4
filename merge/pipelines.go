package merge

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gjmurakami-10gen/mongomerge/queryb"
)

// ChildByMergeKey reads from the child collection named child_name and projects
// each document into a row keyed by merge_id, ready to join against the
// parent-side row produced by ParentChildMergeKey.
//
//	{ $project: { _id: 0, child_name: {$literal: child_name}, merge_id: "$<child_key>", <parent_key>: "$$ROOT" } }
func ChildByMergeKey(parentKey, childName, childKey string) queryb.Pipeline {
	return queryb.NewPipeline().Project(bson.D{
		{Key: "_id", Value: 0},
		{Key: "child_name", Value: bson.D{{Key: "$literal", Value: childName}}},
		{Key: "merge_id", Value: "$" + childKey},
		{Key: parentKey, Value: "$$ROOT"},
	})
}

// ParentChildMergeKey reads from the parent collection and projects each
// document into a row keyed by the same merge_id space as ChildByMergeKey. A
// parent may hold either the raw scalar reference or a document that already
// contains the child key, so merge_id falls back from the nested field to the
// bare parent_key via $ifNull.
//
//	{ $project: { _id: 0, child_name: {$literal: child_name},
//	              merge_id: {$ifNull: ["$<parent_key>.<child_key>", "$<parent_key>"]}, parent_id: "$_id" } }
func ParentChildMergeKey(parentKey, childName, childKey string) queryb.Pipeline {
	return queryb.NewPipeline().Project(bson.D{
		{Key: "_id", Value: 0},
		{Key: "child_name", Value: bson.D{{Key: "$literal", Value: childName}}},
		{Key: "merge_id", Value: bson.D{
			{Key: "$ifNull", Value: bson.A{"$" + parentKey + "." + childKey, "$" + parentKey}},
		}},
		{Key: "parent_id", Value: "$_id"},
	})
}

// MergeOneAll reads T1 and collapses it by parent_id into T2, one document per
// parent carrying every "one" child embedded under its parent_key. accumulators
// and projectors are built incrementally across all "one" SpecEntry values by
// OneAccumulator/OneProjector.
//
//	{ $group:   { _id: {child_name: "$child_name", merge_id: "$merge_id"}, parent_id: {$push: "$parent_id"}, <accumulators> } }
//	{ $unwind:  "$parent_id" }
//	{ $group:   { _id: "$parent_id", <accumulators> } }
//	{ $project: { _id: 0, parent_id: "$_id", <projectors> } }
func MergeOneAll(accumulators, projectors bson.D) queryb.Pipeline {
	firstGroup := bson.D{
		{Key: "_id", Value: bson.D{
			{Key: "child_name", Value: "$child_name"},
			{Key: "merge_id", Value: "$merge_id"},
		}},
		{Key: "parent_id", Value: bson.D{{Key: "$push", Value: "$parent_id"}}},
	}
	firstGroup = append(firstGroup, accumulators...)

	secondGroup := bson.D{{Key: "_id", Value: "$parent_id"}}
	secondGroup = append(secondGroup, accumulators...)

	project := bson.D{
		{Key: "_id", Value: 0},
		{Key: "parent_id", Value: "$_id"},
	}
	project = append(project, projectors...)

	return queryb.NewPipeline().
		Group(firstGroup).
		Unwind("$parent_id").
		Group(secondGroup).
		Project(project)
}

// CopyManyWithParentID reads the child collection for a "many" relationship
// and projects each non-null-keyed document into a row keyed by parent_id,
// ready to be grouped alongside the "one" rows in T2.
//
//	{ $match:   { <child_key>: {$ne: null} } }
//	{ $project: { _id: 0, parent_id: "$<child_key>", <parent_key>: "$$ROOT" } }
func CopyManyWithParentID(parentKey, childName, childKey string) queryb.Pipeline {
	return queryb.NewPipeline().
		MatchRaw(bson.D{{Key: childKey, Value: bson.D{{Key: "$ne", Value: nil}}}}).
		Project(bson.D{
			{Key: "_id", Value: 0},
			{Key: "parent_id", Value: "$" + childKey},
			{Key: parentKey, Value: "$$ROOT"},
		})
}

// GroupAndUpdatePipeline reads T2 and produces one accumulated document per
// parent_id, combining every "one" and "many" accumulator.
//
//	{ $group: { _id: "$parent_id", <accumulators> } }
func GroupAndUpdatePipeline(accumulators bson.D) queryb.Pipeline {
	group := bson.D{{Key: "_id", Value: "$parent_id"}}
	group = append(group, accumulators...)
	return queryb.NewPipeline().Group(group)
}

// OneAccumulator returns the $max accumulator entry for a "one" parent_key:
// the collapse phase selects the richer non-null value, because the parent's
// own row emits only the scalar reference while the child's row emits the
// full embedded sub-document, and a document compares greater than a scalar
// under BSON's canonical type ordering.
func OneAccumulator(parentKey string) bson.E {
	return bson.E{Key: parentKey, Value: bson.D{{Key: "$max", Value: "$" + parentKey}}}
}

// OneProjector returns the pass-through projector entry for a "one" parent_key
// used in MergeOneAll's final $project stage.
func OneProjector(parentKey string) bson.E {
	return bson.E{Key: parentKey, Value: "$" + parentKey}
}

// ManyAccumulator returns the $push accumulator entry for a "many" parent_key,
// used in GroupAndUpdatePipeline to collect every embedded child into an array.
func ManyAccumulator(parentKey string) bson.E {
	return bson.E{Key: parentKey, Value: bson.D{{Key: "$push", Value: "$" + parentKey}}}
}
