package viewsvc

import (
	"context"
	"time"

	"github.com/ddvlanck/tree-index-1/internal/sequence"
	"github.com/ddvlanck/tree-index-1/internal/tree"
)

// StreamDirectory resolves streams by any of their names and by identity.
// A missing entry is reported as ok == false, not as an error.
type StreamDirectory interface {
	StreamByName(ctx context.Context, name string) (tree.Stream, bool, error)
	StreamByID(ctx context.Context, streamID string) (tree.Stream, bool, error)
}

// FragmentationDirectory resolves fragmentations regardless of status.
type FragmentationDirectory interface {
	Fragmentation(ctx context.Context, streamID, name string) (tree.Fragmentation, bool, error)
}

// EventSource yields events in non-decreasing timestamp order, starting at
// since (inclusive) when given.
type EventSource interface {
	StreamFrom(ctx context.Context, streamID string, since *time.Time) (sequence.Iterator[tree.Event], error)
	StreamFromBucket(ctx context.Context, streamID, fragmentation, bucket string, since *time.Time) (sequence.Iterator[tree.Event], error)
}

// BucketSource yields the nodes of a fragmentation tree in a stable order.
type BucketSource interface {
	RootBuckets(ctx context.Context, streamID, fragmentation string) (sequence.Iterator[tree.Bucket], error)
	ChildBuckets(ctx context.Context, streamID, fragmentation, bucket string) (sequence.Iterator[tree.Bucket], error)
}

// PayloadConverter turns the statements of a page into JSON-LD nodes.
type PayloadConverter interface {
	Convert(ctx context.Context, events []tree.Event) ([]any, error)
}
