package sequence

import (
	"context"
	"errors"
)

// Done is returned by Next when the sequence is exhausted.
var Done = errors.New("sequence: no more items")

// Iterator is a lazily produced, pull-based sequence. Consumers may stop at
// any point; Close releases whatever backs the sequence and is safe to call
// more than once. Next returns ctx.Err() once ctx is cancelled.
type Iterator[T any] interface {
	Next(ctx context.Context) (T, error)
	Close() error
}

// FromSlice returns an Iterator over items. Close is tracked so tests can
// assert early release.
func FromSlice[T any](items []T) *SliceIterator[T] {
	return &SliceIterator[T]{items: items}
}

// SliceIterator is an in-memory Iterator.
type SliceIterator[T any] struct {
	items  []T
	pos    int
	pulled int
	closed bool
}

func (s *SliceIterator[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if s.closed {
		return zero, errors.New("sequence: next after close")
	}
	if s.pos >= len(s.items) {
		return zero, Done
	}
	it := s.items[s.pos]
	s.pos++
	s.pulled++
	return it, nil
}

func (s *SliceIterator[T]) Close() error {
	s.closed = true
	return nil
}

// Pulled reports how many items were handed out.
func (s *SliceIterator[T]) Pulled() int { return s.pulled }

// Closed reports whether Close was called.
func (s *SliceIterator[T]) Closed() bool { return s.closed }

// Collect drains it into a slice and closes it.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	defer it.Close()
	var out []T
	for {
		v, err := it.Next(ctx)
		if errors.Is(err, Done) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// Func adapts a pull function and a close function into an Iterator.
type Func[T any] struct {
	NextFn  func(ctx context.Context) (T, error)
	CloseFn func() error
	closed  bool
}

func (f *Func[T]) Next(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	return f.NextFn(ctx)
}

func (f *Func[T]) Close() error {
	if f.closed || f.CloseFn == nil {
		f.closed = true
		return nil
	}
	f.closed = true
	return f.CloseFn()
}
