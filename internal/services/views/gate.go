package viewsvc

import (
	"context"
	"fmt"

	"github.com/ddvlanck/tree-index-1/internal/tree"
)

// OpenFragmentation returns a servable fragmentation. Unknown and disabled
// fragmentations yield the same ErrInvalidFragmentation.
func OpenFragmentation(ctx context.Context, dir FragmentationDirectory, streamID, name string) (tree.Fragmentation, error) {
	f, ok, err := dir.Fragmentation(ctx, streamID, name)
	if err != nil {
		return tree.Fragmentation{}, err
	}
	if !ok || !f.Enabled() {
		return tree.Fragmentation{}, fmt.Errorf("%w: %q", ErrInvalidFragmentation, name)
	}
	return f, nil
}
