package jsonld

import (
	"context"
	"fmt"
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/ddvlanck/tree-index-1/internal/tree"
)

const nquadsFormat = "application/n-quads"

// Converter turns N-Quads event payloads into expanded JSON-LD nodes.
type Converter struct {
	proc *ld.JsonLdProcessor
}

// NewConverter returns a Converter.
func NewConverter() *Converter {
	return &Converter{proc: ld.NewJsonLdProcessor()}
}

// Convert joins the payloads of events into one dataset and converts it.
// Blank node labels are shared across the events of one call.
func (c *Converter) Convert(ctx context.Context, events []tree.Event) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, ev := range events {
		p := strings.TrimSpace(ev.Payload)
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return []any{}, nil
	}

	opts := ld.NewJsonLdOptions("")
	opts.Format = nquadsFormat
	out, err := c.proc.FromRDF(b.String(), opts)
	if err != nil {
		return nil, fmt.Errorf("jsonld: from rdf: %w", err)
	}
	switch v := out.(type) {
	case []any:
		return v, nil
	case nil:
		return []any{}, nil
	default:
		return []any{v}, nil
	}
}
