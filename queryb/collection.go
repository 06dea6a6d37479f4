package queryb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection is a type-safe wrapper around mongo.Collection that accepts
// queryb builders (Filter, Pipeline, WriteModel) instead of raw bson.D. The
// type parameter T specifies the document struct type; every caller in this
// repository instantiates it with bson.M, since merge and loader work with
// schemaless MusicBrainz documents rather than a fixed Go struct.
//
// See: https://www.mongodb.com/docs/drivers/go/current/fundamentals/crud/
type Collection[T any] struct {
	coll *mongo.Collection
}

// Wrap creates a typed Collection wrapper around a mongo.Collection.
func Wrap[T any](coll *mongo.Collection) *Collection[T] {
	return &Collection[T]{coll: coll}
}

// FindOne returns a single document matching the filter.
// Returns mongo.ErrNoDocuments if no document matches.
func (c *Collection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	var result T
	if err := c.coll.FindOne(ctx, filter.BsonD()).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InsertMany inserts multiple documents.
func (c *Collection[T]) InsertMany(ctx context.Context, docs []T) (*mongo.InsertManyResult, error) {
	ifaces := make([]interface{}, len(docs))
	for i := range docs {
		ifaces[i] = docs[i]
	}
	return c.coll.InsertMany(ctx, ifaces)
}

// BulkWrite performs multiple write operations in a single batch. AggCopy
// and GroupAndUpdate both use it, by way of BatchSink, to flush a batch of
// inserts or $set updates as one ordered round trip.
func (c *Collection[T]) BulkWrite(ctx context.Context, models []WriteModel[T], opts ...BulkWriteOpt) (*mongo.BulkWriteResult, error) {
	if len(models) == 0 {
		return nil, nil
	}
	mongoModels := make([]mongo.WriteModel, len(models))
	for i, m := range models {
		mongoModels[i] = m.MongoWriteModel()
	}
	bwOpts := buildBulkWriteOpts(opts)
	return c.coll.BulkWrite(ctx, mongoModels, bwOpts)
}

// CountDocuments returns the number of documents matching the filter.
func (c *Collection[T]) CountDocuments(ctx context.Context, filter Filter) (int64, error) {
	return c.coll.CountDocuments(ctx, filter.BsonD())
}

// AggregateStream runs a pipeline and returns the raw cursor instead of
// decoding every result up front. AggCopy and GroupAndUpdate both drive
// large aggregation results this way, streaming each document into a
// BatchSink rather than holding the whole result set in memory.
//
// When allowDiskUse is true, stages that exceed the in-memory aggregation
// limit (e.g. $group over a large MusicBrainz table) are permitted to spill
// to disk.
func (c *Collection[T]) AggregateStream(ctx context.Context, pipeline Pipeline, allowDiskUse bool) (*mongo.Cursor, error) {
	if pipeline.IsEmpty() {
		return nil, fmt.Errorf("%w: AggregateStream requires a non-empty pipeline", ErrEmptyPipeline)
	}
	aggOpts := options.Aggregate()
	if allowDiskUse {
		aggOpts.SetAllowDiskUse(true)
	}
	return c.coll.Aggregate(ctx, pipeline.BsonD(), aggOpts)
}

// Drop drops the underlying collection. Dropping a collection that does not
// exist is not an error; dropIfExists in merge/transport.go relies on this.
//
// See: https://www.mongodb.com/docs/manual/reference/method/db.collection.drop/
func (c *Collection[T]) Drop(ctx context.Context) error {
	return c.coll.Drop(ctx)
}

// Name returns the underlying collection's name, used in log messages and
// error wrapping to identify which collection a transport failure touched.
func (c *Collection[T]) Name() string {
	return c.coll.Name()
}
