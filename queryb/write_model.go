package queryb

import (
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// WriteModel is an interface that wraps mongo.WriteModel, restricted to
// document type T. BatchSink and GroupAndUpdate batch these into a single
// ordered BulkWrite call.
type WriteModel[T any] interface {
	MongoWriteModel() mongo.WriteModel
}

// InsertOneModel is a type-safe wrapper for mongo.InsertOneModel. BatchSink
// uses it to build the insert side of every flush.
type InsertOneModel[T any] struct {
	model *mongo.InsertOneModel
}

// NewInsertOneModel creates a new InsertOneModel.
func NewInsertOneModel[T any]() *InsertOneModel[T] {
	return &InsertOneModel[T]{
		model: mongo.NewInsertOneModel(),
	}
}

// SetDocument sets the document to insert.
func (m *InsertOneModel[T]) SetDocument(doc *T) *InsertOneModel[T] {
	m.model.SetDocument(doc)
	return m
}

// MongoWriteModel implements WriteModel.
func (m *InsertOneModel[T]) MongoWriteModel() mongo.WriteModel {
	return m.model
}

// UpdateOneModel is a type-safe wrapper for mongo.UpdateOneModel.
// GroupAndUpdate uses it to pair each accumulated parent document with the
// $set update built for it.
type UpdateOneModel[T any] struct {
	model *mongo.UpdateOneModel
}

// NewUpdateOneModel creates a new UpdateOneModel.
func NewUpdateOneModel[T any]() *UpdateOneModel[T] {
	return &UpdateOneModel[T]{
		model: mongo.NewUpdateOneModel(),
	}
}

// SetFilter sets the filter that identifies the document to update.
func (m *UpdateOneModel[T]) SetFilter(filter Filter) *UpdateOneModel[T] {
	m.model.SetFilter(filter.BsonD())
	return m
}

// SetUpdate sets the update operations.
func (m *UpdateOneModel[T]) SetUpdate(update Updater) *UpdateOneModel[T] {
	m.model.SetUpdate(update.BsonD())
	return m
}

// MongoWriteModel implements WriteModel.
func (m *UpdateOneModel[T]) MongoWriteModel() mongo.WriteModel {
	return m.model
}
