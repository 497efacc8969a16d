package viewsvc

import (
	"context"
	"fmt"

	"github.com/ddvlanck/tree-index-1/internal/tree"
)

// Resolution is the outcome of resolving a requested stream name.
type Resolution struct {
	Requested string
	// Stream is the entity the requested name points at.
	Stream tree.Stream
	// Canonical is the entity currently selected by the stream's identity.
	Canonical tree.Stream
	// Redirect is set when Requested is not the canonical name.
	Redirect bool
}

// ResolveStream maps a requested name to its stream and canonical entity.
func ResolveStream(ctx context.Context, dir StreamDirectory, requested string) (Resolution, error) {
	s, ok, err := dir.StreamByName(ctx, requested)
	if err != nil {
		return Resolution{}, err
	}
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidStreamName, requested)
	}
	canonical, ok, err := dir.StreamByID(ctx, s.ID)
	if err != nil {
		return Resolution{}, err
	}
	if !ok {
		// A name without a canonical entity breaks the name/identity
		// bijection; serving it would redirect to itself.
		return Resolution{}, fmt.Errorf("stream %q: no canonical entity for %q", requested, s.ID)
	}
	return Resolution{
		Requested: requested,
		Stream:    s,
		Canonical: canonical,
		Redirect:  requested != canonical.Name,
	}, nil
}
