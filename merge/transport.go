package merge

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/gjmurakami-10gen/mongomerge/queryb"
)

// BulkOpsSize is the maximum number of documents submitted in a single ordered
// bulk write by AggCopy and GroupAndUpdate.
const BulkOpsSize = 1000

// AggCopy runs pipeline against source in cursor mode with disk-spill allowed,
// and streams every result document into dest as ordered bulk inserts batched
// at BulkOpsSize. It returns the number of documents inserted.
//
// Neither source nor destination is dropped or indexed. On a batch failure the
// error is returned and documents already flushed in prior batches remain in
// dest; AggCopy does not roll anything back.
func AggCopy(ctx context.Context, source, dest *queryb.Collection[bson.M], pipeline queryb.Pipeline) (int64, error) {
	logPipeline("agg_copy", source.Name()+" -> "+dest.Name(), pipeline)

	cursor, err := source.AggregateStream(ctx, pipeline, true)
	if err != nil {
		return 0, fmt.Errorf("%w: aggregate on %s: %v", ErrTransport, source.Name(), err)
	}
	defer cursor.Close(ctx)

	sink := queryb.NewBatchSink(dest, BulkOpsSize)
	for cursor.Next(ctx) {
		if err := ctx.Err(); err != nil {
			return sink.Count(), fmt.Errorf("%w: %v", ErrTransport, err)
		}
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return sink.Count(), fmt.Errorf("%w: decode from %s: %v", ErrTransport, source.Name(), err)
		}
		if err := sink.Add(ctx, doc); err != nil {
			return sink.Count(), fmt.Errorf("%w: bulk insert into %s: %v", ErrTransport, dest.Name(), err)
		}
	}
	if err := cursor.Err(); err != nil {
		return sink.Count(), fmt.Errorf("%w: cursor on %s: %v", ErrTransport, source.Name(), err)
	}
	if err := sink.Flush(ctx); err != nil {
		return sink.Count(), fmt.Errorf("%w: final bulk insert into %s: %v", ErrTransport, dest.Name(), err)
	}
	return sink.Count(), nil
}

// dropIfExists drops coll, treating "namespace not found" as success.
func dropIfExists(ctx context.Context, coll *queryb.Collection[bson.M]) error {
	if err := coll.Drop(ctx); err != nil && !isNamespaceNotFound(err) {
		return err
	}
	return nil
}

func isNamespaceNotFound(err error) bool {
	var cmdErr mongo.CommandError
	if ok := asCommandError(err, &cmdErr); ok {
		return cmdErr.Code == 26
	}
	return false
}

func asCommandError(err error, target *mongo.CommandError) bool {
	for err != nil {
		if ce, ok := err.(mongo.CommandError); ok {
			*target = ce
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
