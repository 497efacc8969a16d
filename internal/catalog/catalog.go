package catalog

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	pebblestore "github.com/ddvlanck/tree-index-1/internal/storage/pebble"
	"github.com/ddvlanck/tree-index-1/internal/tree"
)

var (
	streamNamePrefix = []byte("cat/sn/")
	streamIDPrefix   = []byte("cat/sid/")
	fragPrefix       = []byte("cat/f/")
)

// nameKey derives the lookup key for a stream name. Names are NFC-normalized
// so that visually identical spellings resolve to the same record.
func nameKey(name string) []byte {
	n := norm.NFC.String(name)
	k := make([]byte, 0, len(streamNamePrefix)+len(n))
	k = append(k, streamNamePrefix...)
	return append(k, n...)
}

func idKey(streamID string) []byte {
	k := make([]byte, 0, len(streamIDPrefix)+len(streamID))
	k = append(k, streamIDPrefix...)
	return append(k, streamID...)
}

func fragKey(streamID, name string) []byte {
	k := make([]byte, 0, len(fragPrefix)+4+len(streamID)+len(name))
	k = append(k, fragPrefix...)
	k = binary.BigEndian.AppendUint32(k, uint32(len(streamID)))
	k = append(k, streamID...)
	return append(k, name...)
}

// Catalog stores streams, their aliases and their fragmentations.
//
// Every name ever given to a stream keeps a record; the identity pointer
// selects which of them is canonical.
type Catalog struct {
	db *pebblestore.DB
}

// New returns a Catalog over db.
func New(db *pebblestore.DB) *Catalog { return &Catalog{db: db} }

// PutStream registers s and makes s.Name its canonical name.
func (c *Catalog) PutStream(ctx context.Context, s tree.Stream) error {
	if s.ID == "" || s.Name == "" {
		return errors.New("catalog: stream id and name are required")
	}
	rec, err := json.Marshal(s)
	if err != nil {
		return err
	}
	b := c.db.NewBatch()
	defer b.Close()
	if err := b.Set(nameKey(s.Name), rec, nil); err != nil {
		return err
	}
	if err := b.Set(idKey(s.ID), []byte(s.Name), nil); err != nil {
		return err
	}
	return c.db.CommitBatch(ctx, b)
}

// AddAlias records alias as an additional name of streamID without changing
// the canonical name.
func (c *Catalog) AddAlias(ctx context.Context, streamID, alias string) error {
	s, ok, err := c.StreamByID(ctx, streamID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("catalog: unknown stream %q", streamID)
	}
	s.Name = alias
	rec, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.db.Set(ctx, nameKey(alias), rec)
}

// Rename makes newName canonical. The previous name stays resolvable and
// becomes an alias.
func (c *Catalog) Rename(ctx context.Context, streamID, newName string) error {
	s, ok, err := c.StreamByID(ctx, streamID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("catalog: unknown stream %q", streamID)
	}
	s.Name = newName
	return c.PutStream(ctx, s)
}

// StreamByName looks up a stream by any of its names.
func (c *Catalog) StreamByName(ctx context.Context, name string) (tree.Stream, bool, error) {
	if err := ctx.Err(); err != nil {
		return tree.Stream{}, false, err
	}
	return c.getStream(nameKey(name))
}

// StreamByID returns the canonically named entity of a stream.
func (c *Catalog) StreamByID(ctx context.Context, streamID string) (tree.Stream, bool, error) {
	if err := ctx.Err(); err != nil {
		return tree.Stream{}, false, err
	}
	name, err := c.db.Get(idKey(streamID))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return tree.Stream{}, false, nil
	}
	if err != nil {
		return tree.Stream{}, false, err
	}
	return c.getStream(nameKey(string(name)))
}

func (c *Catalog) getStream(key []byte) (tree.Stream, bool, error) {
	b, err := c.db.Get(key)
	if errors.Is(err, pebblestore.ErrNotFound) {
		return tree.Stream{}, false, nil
	}
	if err != nil {
		return tree.Stream{}, false, err
	}
	var s tree.Stream
	if err := json.Unmarshal(b, &s); err != nil {
		return tree.Stream{}, false, fmt.Errorf("catalog: decode stream: %w", err)
	}
	return s, true, nil
}

// PutFragmentation registers or replaces a fragmentation of f.StreamID.
func (c *Catalog) PutFragmentation(ctx context.Context, f tree.Fragmentation) error {
	if f.StreamID == "" || f.Name == "" {
		return errors.New("catalog: fragmentation stream id and name are required")
	}
	if _, err := f.Kind.RelationType(); err != nil {
		return err
	}
	if _, err := tree.ParseStatus(string(f.Status)); err != nil {
		return err
	}
	rec, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return c.db.Set(ctx, fragKey(f.StreamID, f.Name), rec)
}

// Fragmentation looks up a fragmentation regardless of its status.
func (c *Catalog) Fragmentation(ctx context.Context, streamID, name string) (tree.Fragmentation, bool, error) {
	if err := ctx.Err(); err != nil {
		return tree.Fragmentation{}, false, err
	}
	b, err := c.db.Get(fragKey(streamID, name))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return tree.Fragmentation{}, false, nil
	}
	if err != nil {
		return tree.Fragmentation{}, false, err
	}
	var f tree.Fragmentation
	if err := json.Unmarshal(b, &f); err != nil {
		return tree.Fragmentation{}, false, fmt.Errorf("catalog: decode fragmentation: %w", err)
	}
	return f, true, nil
}
