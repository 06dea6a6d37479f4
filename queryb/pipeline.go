package queryb

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Pipeline represents an immutable MongoDB aggregation pipeline. Each method
// appends a stage and returns a new Pipeline — the original is unchanged,
// which lets the merge package build a pipeline incrementally (one "one"
// SpecEntry's accumulator at a time) without aliasing state between callers.
//
// Only the stages that the merge and loader packages actually compose —
// $match, $project, $group, $unwind — are exposed here.
//
// See: https://www.mongodb.com/docs/manual/reference/operator/aggregation-pipeline/
type Pipeline struct {
	stages []bson.D
}

// NewPipeline creates an empty aggregation pipeline.
func NewPipeline() Pipeline {
	return Pipeline{}
}

// BsonD returns the pipeline as a []bson.D (mongo.Pipeline), suitable for
// passing to mongo.Collection.Aggregate().
func (p Pipeline) BsonD() []bson.D {
	return p.stages
}

// JSON returns the pipeline as a pretty-printed JSON array string, used by
// merge.Verbose logging to show the composed pipeline before it runs.
func (p Pipeline) JSON() string {
	return pipelineToJSON(p.stages)
}

// CompactJSON returns the pipeline as a compact JSON array string.
func (p Pipeline) CompactJSON() string {
	return pipelineToCompactJSON(p.stages)
}

// IsEmpty returns true if the pipeline has no stages. AggregateStream rejects
// an empty pipeline rather than running a no-op full-collection aggregate.
func (p Pipeline) IsEmpty() bool {
	return len(p.stages) == 0
}

// addStage appends a new stage and returns a new Pipeline.
func (p Pipeline) addStage(name string, value interface{}) Pipeline {
	newStages := make([]bson.D, len(p.stages), len(p.stages)+1)
	copy(newStages, p.stages)
	newStages = append(newStages, bson.D{{Key: name, Value: value}})
	return Pipeline{stages: newStages}
}

// MatchRaw filters documents using a raw bson.D query expression.
//
// MongoDB equivalent:
//
//	{ $match: { <query> } }
func (p Pipeline) MatchRaw(filter bson.D) Pipeline {
	return p.addStage("$match", filter)
}

// Project reshapes each document, including, excluding, or computing new
// fields. The spec is a bson.D where field values are 1 (include), 0
// (exclude), or an aggregation expression.
//
// MongoDB equivalent:
//
//	{ $project: { field1: 1, field2: 0, computed: <expression> } }
func (p Pipeline) Project(spec bson.D) Pipeline {
	return p.addStage("$project", spec)
}

// Group groups documents by the _id expression embedded in spec and applies
// spec's accumulator expressions.
//
// MongoDB equivalent:
//
//	{ $group: { _id: <expression>, <field1>: { <accumulator1>: <expr1> }, ... } }
func (p Pipeline) Group(spec bson.D) Pipeline {
	return p.addStage("$group", spec)
}

// Unwind deconstructs an array field, outputting one document per array
// element. MergeOneAll uses it to flatten the parent_id arrays that the
// first $group stage accumulates before the second $group collapses by
// parent_id.
//
// MongoDB equivalent:
//
//	{ $unwind: "$field" }
func (p Pipeline) Unwind(path string) Pipeline {
	return p.addStage("$unwind", path)
}
