package merge

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gjmurakami-10gen/mongomerge/queryb"
)

// WriteResult reports how many parent documents a GroupAndUpdate call
// actually wrote.
type WriteResult struct {
	ParentsUpdated int64
}

// GroupAndUpdate runs GroupAndUpdatePipeline against source (the collapsed
// "one"/"many" staging collection), and for every grouped result issues an
// ordered $set update against the matching document in dest, batched at
// BulkOpsSize. A parent_key whose accumulated value is null (no "one" child
// matched) or an empty array (no "many" children matched) is omitted from the
// $set rather than written as null/[]; the parent document is left untouched
// for that field.
func GroupAndUpdate(ctx context.Context, source, dest *queryb.Collection[bson.M], entries []SpecEntry) (WriteResult, error) {
	var accumulators bson.D
	for _, e := range entries {
		if e.Relation == RelationMany {
			accumulators = append(accumulators, ManyAccumulator(e.ParentKey))
		} else {
			accumulators = append(accumulators, OneAccumulator(e.ParentKey))
		}
	}

	pipeline := GroupAndUpdatePipeline(accumulators)
	logPipeline("group_and_update", source.Name()+" -> "+dest.Name(), pipeline)

	cursor, err := source.AggregateStream(ctx, pipeline, true)
	if err != nil {
		return WriteResult{}, fmt.Errorf("%w: group-and-update aggregate on %s: %v", ErrTransport, source.Name(), err)
	}
	defer cursor.Close(ctx)

	var result WriteResult
	batch := make([]queryb.WriteModel[bson.M], 0, BulkOpsSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := dest.BulkWrite(ctx, batch, queryb.WithOrdered(true)); err != nil {
			return fmt.Errorf("%w: bulk update on %s: %v", ErrTransport, dest.Name(), err)
		}
		result.ParentsUpdated += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for cursor.Next(ctx) {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("%w: %v", ErrTransport, err)
		}
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return result, fmt.Errorf("%w: decode from %s: %v", ErrTransport, source.Name(), err)
		}

		id, ok := doc["_id"]
		if !ok {
			continue
		}
		delete(doc, "_id")

		update := queryb.NewUpdate()
		fields := 0
		for _, field := range setFields(doc) {
			update = update.Set(field, doc[field])
			fields++
		}
		if fields == 0 {
			continue
		}

		model := queryb.NewUpdateOneModel[bson.M]().
			SetFilter(queryb.Eq("_id", id)).
			SetUpdate(update)
		batch = append(batch, model)

		if len(batch) >= BulkOpsSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return result, fmt.Errorf("%w: cursor on %s: %v", ErrTransport, source.Name(), err)
	}
	if err := flush(); err != nil {
		return result, err
	}

	return result, nil
}

// setFields returns the keys of doc worth $set-ing: every key except those
// holding a nil value or an empty array, in deterministic order so tests and
// logs see a stable field order.
func setFields(doc bson.M) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := keys[:0:0]
	for _, k := range keys {
		v := doc[k]
		if v == nil {
			continue
		}
		if arr, ok := v.(bson.A); ok && len(arr) == 0 {
			continue
		}
		out = append(out, k)
	}
	return out
}
