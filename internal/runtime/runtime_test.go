package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/ddvlanck/tree-index-1/internal/config"
	"github.com/ddvlanck/tree-index-1/internal/eventstore"
	viewsvc "github.com/ddvlanck/tree-index-1/internal/services/views"
	pebblestore "github.com/ddvlanck/tree-index-1/internal/storage/pebble"
	"github.com/ddvlanck/tree-index-1/internal/tree"
)

func openTest(t *testing.T) *Runtime {
	t.Helper()
	rt, err := Open(Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways, Config: cfgpkg.Default()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func TestOpenCloseHealth(t *testing.T) {
	rt := openTest(t)
	require.NoError(t, rt.CheckHealth(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, rt.CheckHealth(ctx), context.Canceled)
}

func TestViewsOverStorage(t *testing.T) {
	rt := openTest(t)
	ctx := context.Background()

	stream := tree.Stream{ID: "urn:src:temps", Name: "temps", TimePath: []string{"http://www.w3.org/ns/sosa/resultTime"}}
	require.NoError(t, rt.Catalog().PutStream(ctx, stream))
	require.NoError(t, rt.Catalog().PutFragmentation(ctx, tree.Fragmentation{
		StreamID: stream.ID, Name: "byYear", Status: tree.StatusEnabled,
		Path: []string{"http://example.org/year"}, Kind: tree.KindIdentity,
	}))
	require.NoError(t, rt.Events().PutBucket(ctx, stream.ID, "byYear", "", tree.Bucket{Value: "2020", Remaining: 1}))

	ts, err := tree.ParseTime("2020-01-01T10:00:00Z")
	require.NoError(t, err)
	_, err = rt.Events().Append(ctx, tree.Event{
		StreamID:  stream.ID,
		ID:        "urn:e:1",
		Timestamp: ts,
		Payload:   `<urn:e:1> <http://example.org/year> "2020" .`,
	}, eventstore.Placement{Fragmentation: "byYear", Bucket: "2020"})
	require.NoError(t, err)

	svc := viewsvc.New("https://example.org", rt.ViewDeps())

	res, err := svc.StreamView(ctx, "temps", "")
	require.NoError(t, err)
	require.NotNil(t, res.Document)
	assert.Len(t, res.Document.Included, 2)

	res, err = svc.FragmentationView(ctx, "temps", "byYear")
	require.NoError(t, err)
	require.Len(t, res.Document.Relations, 1)
	assert.Equal(t, "https://example.org/data/temps/byYear/2020", res.Document.Relations[0].Node)

	res, err = svc.BucketView(ctx, "temps", "byYear", "2020", "")
	require.NoError(t, err)
	assert.Len(t, res.Document.Included, 2)
	assert.Empty(t, res.Document.Relations)
}
