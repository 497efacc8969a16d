package eventstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ddvlanck/tree-index-1/internal/sequence"
	pebblestore "github.com/ddvlanck/tree-index-1/internal/storage/pebble"
	"github.com/ddvlanck/tree-index-1/internal/tree"
	"github.com/ddvlanck/tree-index-1/pkg/id"
)

// ErrCorrupt is returned when a stored record fails its checksum or cannot be
// decoded.
var ErrCorrupt = errors.New("eventstore: corrupt record")

// Placement assigns an event to one bucket of a fragmentation.
type Placement struct {
	Fragmentation string `json:"fragmentation" yaml:"fragmentation"`
	Bucket        string `json:"bucket" yaml:"bucket"`
}

// Store keeps events, bucket memberships and bucket trees in Pebble.
type Store struct {
	db *pebblestore.DB

	mu  sync.Mutex
	gen *id.Generator
}

// New returns a Store over db and restores the last issued sequence.
func New(db *pebblestore.DB) (*Store, error) {
	var last uint64
	meta, err := db.Get(metaSeqKey)
	switch {
	case err == nil && len(meta) >= 8:
		last = binary.BigEndian.Uint64(meta[:8])
	case err != nil && !errors.Is(err, pebblestore.ErrNotFound):
		return nil, fmt.Errorf("load sequence: %w", err)
	}
	return &Store{db: db, gen: id.NewGenerator(last)}, nil
}

// Append stores ev and its bucket memberships as one atomic batch. The
// timestamp is stored with millisecond precision.
func (s *Store) Append(ctx context.Context, ev tree.Event, placements ...Placement) (id.ID, error) {
	if ev.StreamID == "" {
		return id.ID{}, errors.New("eventstore: event without stream")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	eid := s.gen.At(ev.Timestamp.UnixMilli())

	b := s.db.NewBatch()
	defer b.Close()

	if err := b.Set(KeyEvent(ev.StreamID, eid), EncodeRecord([]byte(ev.ID), []byte(ev.Payload)), nil); err != nil {
		return id.ID{}, err
	}
	for _, p := range placements {
		if err := b.Set(KeyBucketEvent(ev.StreamID, p.Fragmentation, p.Bucket, eid), nil, nil); err != nil {
			return id.ID{}, err
		}
	}
	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], eid.Seq())
	if err := b.Set(metaSeqKey, meta[:], nil); err != nil {
		return id.ID{}, err
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return id.ID{}, err
	}
	return eid, nil
}

type bucketRecord struct {
	DataType  string `json:"dataType"`
	Remaining int64  `json:"remaining"`
}

// PutBucket writes a bucket node. An empty parent makes it a root bucket.
func (s *Store) PutBucket(ctx context.Context, streamID, fragmentation, parent string, bucket tree.Bucket) error {
	val, err := json.Marshal(bucketRecord{DataType: bucket.DataType, Remaining: bucket.Remaining})
	if err != nil {
		return err
	}
	key := KeyRootBucket(streamID, fragmentation, bucket.Value)
	if parent != "" {
		key = KeyChildBucket(streamID, fragmentation, parent, bucket.Value)
	}
	return s.db.Set(ctx, key, val)
}

// StreamFrom returns the events of a stream in timestamp order, starting at
// since (inclusive) when given.
func (s *Store) StreamFrom(ctx context.Context, streamID string, since *time.Time) (sequence.Iterator[tree.Event], error) {
	prefix := KeyEventPrefix(streamID)
	opts := pebblestore.PrefixBounds(prefix)
	if since != nil {
		opts.LowerBound = KeyEvent(streamID, id.Make(since.UnixMilli(), 0))
	}
	return scan(ctx, s.db, opts, func(key, value []byte) (tree.Event, error) {
		return decodeEvent(streamID, key[len(prefix):], value)
	})
}

// StreamFromBucket returns the events placed in one bucket, in timestamp
// order, starting at since (inclusive) when given.
func (s *Store) StreamFromBucket(ctx context.Context, streamID, fragmentation, bucket string, since *time.Time) (sequence.Iterator[tree.Event], error) {
	prefix := KeyBucketEventPrefix(streamID, fragmentation, bucket)
	opts := pebblestore.PrefixBounds(prefix)
	if since != nil {
		opts.LowerBound = KeyBucketEvent(streamID, fragmentation, bucket, id.Make(since.UnixMilli(), 0))
	}
	return scan(ctx, s.db, opts, func(key, _ []byte) (tree.Event, error) {
		eid, ok := id.FromBytes(key[len(prefix):])
		if !ok {
			return tree.Event{}, ErrCorrupt
		}
		val, err := s.db.Get(KeyEvent(streamID, eid))
		if err != nil {
			return tree.Event{}, fmt.Errorf("bucket %q member %s: %w", bucket, eid, err)
		}
		return decodeEvent(streamID, eid[:], val)
	})
}

// RootBuckets lists the root buckets of a fragmentation in value byte order.
func (s *Store) RootBuckets(ctx context.Context, streamID, fragmentation string) (sequence.Iterator[tree.Bucket], error) {
	prefix := KeyRootBucketPrefix(streamID, fragmentation)
	return scan(ctx, s.db, pebblestore.PrefixBounds(prefix), bucketDecoder(len(prefix)))
}

// ChildBuckets lists the children of parent in value byte order.
func (s *Store) ChildBuckets(ctx context.Context, streamID, fragmentation, parent string) (sequence.Iterator[tree.Bucket], error) {
	prefix := KeyChildBucketPrefix(streamID, fragmentation, parent)
	return scan(ctx, s.db, pebblestore.PrefixBounds(prefix), bucketDecoder(len(prefix)))
}

func bucketDecoder(prefixLen int) func(key, value []byte) (tree.Bucket, error) {
	return func(key, value []byte) (tree.Bucket, error) {
		var rec bucketRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return tree.Bucket{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return tree.Bucket{Value: string(key[prefixLen:]), DataType: rec.DataType, Remaining: rec.Remaining}, nil
	}
}

func decodeEvent(streamID string, rawID, value []byte) (tree.Event, error) {
	eid, ok := id.FromBytes(rawID)
	if !ok {
		return tree.Event{}, ErrCorrupt
	}
	dec, ok := DecodeRecord(value)
	if !ok {
		return tree.Event{}, fmt.Errorf("%w: event %s", ErrCorrupt, eid)
	}
	return tree.Event{
		StreamID:  streamID,
		ID:        string(dec.Header),
		Timestamp: time.UnixMilli(eid.Ms()).UTC(),
		Payload:   string(dec.Payload),
	}, nil
}
