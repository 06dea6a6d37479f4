package queryb

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// pipelineToJSON converts a mongo.Pipeline ([]bson.D) to a pretty-printed
// JSON array string, used by Pipeline.JSON for verbose logging.
func pipelineToJSON(stages []bson.D) string {
	result := make([]json.RawMessage, 0, len(stages))
	for _, stage := range stages {
		raw, err := bson.MarshalExtJSON(stage, false, false)
		if err != nil {
			continue
		}
		result = append(result, raw)
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(out)
}

// pipelineToCompactJSON converts a mongo.Pipeline to a compact JSON array string.
func pipelineToCompactJSON(stages []bson.D) string {
	result := make([]json.RawMessage, 0, len(stages))
	for _, stage := range stages {
		raw, err := bson.MarshalExtJSON(stage, false, false)
		if err != nil {
			continue
		}
		result = append(result, raw)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "[]"
	}
	return string(out)
}
