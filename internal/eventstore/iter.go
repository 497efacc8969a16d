package eventstore

import (
	"context"

	"github.com/cockroachdb/pebble"

	"github.com/ddvlanck/tree-index-1/internal/sequence"
	pebblestore "github.com/ddvlanck/tree-index-1/internal/storage/pebble"
)

// scanIter adapts a forward Pebble scan to sequence.Iterator. The Pebble
// iterator is opened eagerly and released by Close.
type scanIter[T any] struct {
	it      *pebble.Iterator
	decode  func(key, value []byte) (T, error)
	started bool
	closed  bool
}

func scan[T any](ctx context.Context, db *pebblestore.DB, opts *pebble.IterOptions, decode func(key, value []byte) (T, error)) (sequence.Iterator[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	it, err := db.NewIter(opts)
	if err != nil {
		return nil, err
	}
	return &scanIter[T]{it: it, decode: decode}, nil
}

func (s *scanIter[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if s.closed {
		return zero, sequence.Done
	}
	var valid bool
	if !s.started {
		s.started = true
		valid = s.it.First()
	} else {
		valid = s.it.Next()
	}
	if !valid {
		if err := s.it.Error(); err != nil {
			return zero, err
		}
		return zero, sequence.Done
	}
	return s.decode(s.it.Key(), s.it.Value())
}

func (s *scanIter[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.it.Close()
}
