package fixtures

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ddvlanck/tree-index-1/internal/eventstore"
	"github.com/ddvlanck/tree-index-1/internal/tree"
	"github.com/ddvlanck/tree-index-1/pkg/id"
)

// File is a development data set. JSON files parse as well, being YAML.
type File struct {
	Streams        []Stream             `yaml:"streams"`
	Fragmentations []tree.Fragmentation `yaml:"fragmentations"`
	Buckets        []Bucket             `yaml:"buckets"`
	Events         []Event              `yaml:"events"`
}

// Stream is a stream with its extra names.
type Stream struct {
	tree.Stream `yaml:",inline"`
	Aliases     []string `yaml:"aliases"`
}

// Bucket is a bucket node; an empty Parent makes it a root.
type Bucket struct {
	StreamID      string `yaml:"streamId"`
	Fragmentation string `yaml:"fragmentation"`
	Parent        string `yaml:"parent"`
	tree.Bucket   `yaml:",inline"`
}

// Event is an event with its RFC 3339 timestamp and bucket placements.
type Event struct {
	StreamID   string                 `yaml:"streamId"`
	ID         string                 `yaml:"id"`
	Timestamp  string                 `yaml:"timestamp"`
	Payload    string                 `yaml:"payload"`
	Placements []eventstore.Placement `yaml:"placements"`
}

// Catalog receives streams and fragmentations.
type Catalog interface {
	PutStream(ctx context.Context, s tree.Stream) error
	AddAlias(ctx context.Context, streamID, alias string) error
	PutFragmentation(ctx context.Context, f tree.Fragmentation) error
}

// Store receives buckets and events.
type Store interface {
	PutBucket(ctx context.Context, streamID, fragmentation, parent string, b tree.Bucket) error
	Append(ctx context.Context, ev tree.Event, placements ...eventstore.Placement) (id.ID, error)
}

// Summary counts what was written.
type Summary struct {
	Streams        int
	Aliases        int
	Fragmentations int
	Buckets        int
	Events         int
}

// Parse decodes a fixture document.
func Parse(r io.Reader) (File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return File{}, nil
		}
		return File{}, fmt.Errorf("fixtures: decode: %w", err)
	}
	return f, nil
}

// LoadFile parses path and writes it into cat and st.
func LoadFile(ctx context.Context, path string, cat Catalog, st Store) (Summary, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer fh.Close()
	f, err := Parse(fh)
	if err != nil {
		return Summary{}, err
	}
	return Apply(ctx, f, cat, st)
}

// Apply writes f in dependency order: streams, aliases, fragmentations,
// buckets, events.
func Apply(ctx context.Context, f File, cat Catalog, st Store) (Summary, error) {
	var sum Summary
	for _, s := range f.Streams {
		if err := cat.PutStream(ctx, s.Stream); err != nil {
			return sum, fmt.Errorf("stream %q: %w", s.Name, err)
		}
		sum.Streams++
		for _, a := range s.Aliases {
			if err := cat.AddAlias(ctx, s.ID, a); err != nil {
				return sum, fmt.Errorf("alias %q: %w", a, err)
			}
			sum.Aliases++
		}
	}
	for _, fr := range f.Fragmentations {
		if err := cat.PutFragmentation(ctx, fr); err != nil {
			return sum, fmt.Errorf("fragmentation %q: %w", fr.Name, err)
		}
		sum.Fragmentations++
	}
	for _, b := range f.Buckets {
		if err := st.PutBucket(ctx, b.StreamID, b.Fragmentation, b.Parent, b.Bucket); err != nil {
			return sum, fmt.Errorf("bucket %q: %w", b.Value, err)
		}
		sum.Buckets++
	}
	for i, e := range f.Events {
		ts, err := tree.ParseTime(e.Timestamp)
		if err != nil {
			return sum, fmt.Errorf("event %d: %w", i, err)
		}
		ev := tree.Event{StreamID: e.StreamID, ID: e.ID, Timestamp: ts, Payload: e.Payload}
		if _, err := st.Append(ctx, ev, e.Placements...); err != nil {
			return sum, fmt.Errorf("event %d: %w", i, err)
		}
		sum.Events++
	}
	return sum, nil
}
