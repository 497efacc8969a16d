package viewsvc

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/ddvlanck/tree-index-1/internal/tree"
)

// Relation is a navigation edge from the current view to another view.
type Relation struct {
	Type string
	Node string
	// Remaining is the advisory item count of the target; nil omits it.
	Remaining *int64
	Path      []string
	Value     string
	ValueType string
}

type idRef struct {
	ID string `json:"@id"`
}

type relationNode struct {
	ID        string `json:"@id"`
	Remaining *int64 `json:"https://w3id.org/tree#remainingItems,omitempty"`
}

type typedValue struct {
	Value string `json:"@value"`
	Type  string `json:"@type,omitempty"`
}

type relationJSON struct {
	Type  string       `json:"@type"`
	Node  relationNode `json:"https://w3id.org/tree#node"`
	Path  []idRef      `json:"https://w3id.org/tree#path"`
	Value typedValue   `json:"https://w3id.org/tree#value"`
}

func (r Relation) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(relationJSON{
		Type:  r.Type,
		Node:  relationNode{ID: r.Node, Remaining: r.Remaining},
		Path:  idRefs(r.Path),
		Value: typedValue{Value: r.Value, Type: r.ValueType},
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func idRefs(iris []string) []idRef {
	out := make([]idRef, 0, len(iris))
	for _, iri := range iris {
		out = append(out, idRef{ID: iri})
	}
	return out
}

// BucketRelations emits one relation per bucket, in input order. Targets are
// bucket views under stream and f.
func BucketRelations(base, stream string, f tree.Fragmentation, buckets []tree.Bucket) ([]Relation, error) {
	relType, err := f.Kind.RelationType()
	if err != nil {
		return nil, err
	}
	out := make([]Relation, 0, len(buckets))
	for _, b := range buckets {
		remaining := b.Remaining
		out = append(out, Relation{
			Type:      relType,
			Node:      BucketURL(base, stream, f.Name, b.Value),
			Remaining: &remaining,
			Path:      f.Path,
			Value:     b.Value,
			ValueType: b.DataType,
		})
	}
	return out, nil
}

// ContinuationRelation points at viewURL resumed at last.
func ContinuationRelation(viewURL string, s tree.Stream, last time.Time) Relation {
	ts := tree.FormatTime(last)
	return Relation{
		Type:      tree.GreaterOrEqualThanRelation,
		Node:      WithSince(viewURL, ts),
		Path:      s.TimePath,
		Value:     ts,
		ValueType: tree.XSDDateTime,
	}
}
