package queryb

import (
	"context"
)

// BatchSink buffers documents and flushes them to a destination Collection as an
// ordered bulk insert once the buffer reaches BatchSize, and once more at Close
// for any remainder. It generalizes the cursor-then-bulk-insert pattern used to
// copy aggregation results between collections and to load external rows in bulk.
//
// A BatchSink is not safe for concurrent use.
type BatchSink[T any] struct {
	dest      *Collection[T]
	batchSize int
	buf       []T
	inserted  int64
}

// NewBatchSink creates a BatchSink that flushes to dest every batchSize documents.
func NewBatchSink[T any](dest *Collection[T], batchSize int) *BatchSink[T] {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &BatchSink[T]{
		dest:      dest,
		batchSize: batchSize,
		buf:       make([]T, 0, batchSize),
	}
}

// Add appends doc to the buffer, flushing first if the buffer is full.
func (s *BatchSink[T]) Add(ctx context.Context, doc T) error {
	if len(s.buf) >= s.batchSize {
		if err := s.Flush(ctx); err != nil {
			return err
		}
	}
	s.buf = append(s.buf, doc)
	return nil
}

// Flush inserts any buffered documents as a single ordered bulk write and clears
// the buffer. Flushing an empty buffer is a no-op.
func (s *BatchSink[T]) Flush(ctx context.Context) error {
	if len(s.buf) == 0 {
		return nil
	}
	models := make([]WriteModel[T], len(s.buf))
	for i := range s.buf {
		doc := s.buf[i]
		models[i] = NewInsertOneModel[T]().SetDocument(&doc)
	}
	if _, err := s.dest.BulkWrite(ctx, models, WithOrdered(true)); err != nil {
		return err
	}
	s.inserted += int64(len(s.buf))
	s.buf = s.buf[:0]
	return nil
}

// Count returns the number of documents flushed so far (not counting what is
// still buffered and unflushed).
func (s *BatchSink[T]) Count() int64 {
	return s.inserted
}
