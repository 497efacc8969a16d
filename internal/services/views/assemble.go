package viewsvc

import (
	"encoding/json"
	"io"

	"github.com/ddvlanck/tree-index-1/internal/tree"
)

// Document is a TREE view rendered as JSON-LD.
type Document struct {
	ID        string     `json:"@id"`
	Relations []Relation `json:"https://w3id.org/tree#relation"`
	Included  []any      `json:"@included"`
}

type contentPointer struct {
	ID      string  `json:"@id"`
	View    idRef   `json:"https://w3id.org/tree#view"`
	Members []idRef `json:"https://w3id.org/tree#member"`
}

type listingPointer struct {
	ID   string `json:"@id"`
	View idRef  `json:"https://w3id.org/tree#view"`
}

// AssembleContent builds a stream or bucket view. The collection pointer
// comes first in @included and lists every event once, in page order.
func AssembleContent(viewURL, collectionURL string, events []tree.Event, payload []any, relations []Relation) *Document {
	members := make([]idRef, 0, len(events))
	seen := make(map[string]struct{}, len(events))
	for _, ev := range events {
		if ev.ID == "" {
			continue
		}
		if _, dup := seen[ev.ID]; dup {
			continue
		}
		seen[ev.ID] = struct{}{}
		members = append(members, idRef{ID: ev.ID})
	}
	included := make([]any, 0, len(payload)+1)
	included = append(included, contentPointer{ID: collectionURL, View: idRef{ID: viewURL}, Members: members})
	included = append(included, payload...)
	return &Document{ID: viewURL, Relations: nonNil(relations), Included: included}
}

// AssembleListing builds a fragmentation view: the collection pointer and
// the root bucket relations, no members.
func AssembleListing(viewURL, collectionURL string, relations []Relation) *Document {
	return &Document{
		ID:        viewURL,
		Relations: nonNil(relations),
		Included:  []any{listingPointer{ID: collectionURL, View: idRef{ID: viewURL}}},
	}
}

func nonNil(r []Relation) []Relation {
	if r == nil {
		return []Relation{}
	}
	return r
}

// Encode writes d indented with HTML escaping off, so IRIs keep their '&'.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
