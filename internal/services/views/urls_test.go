package viewsvc

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddvlanck/tree-index-1/internal/tree"
)

func TestURLs(t *testing.T) {
	assert.Equal(t, "https://example.org/data/temps", CollectionURL("https://example.org/", "temps"))
	assert.Equal(t, "https://example.org/data/temps/byYear", FragmentationURL("https://example.org", "temps", "byYear"))
	assert.Equal(t, "https://example.org/data/a%2Fb/f/x%20y", BucketURL("https://example.org", "a/b", "f", "x y"))
	assert.Equal(t, "https://example.org/data/temps", WithSince("https://example.org/data/temps", ""))
	assert.Equal(t, "https://example.org/data/temps?since=2020-01-01T10%3A00%3A00.000Z",
		WithSince("https://example.org/data/temps", "2020-01-01T10:00:00.000Z"))
}

func TestRelationJSONKeepsAmpersands(t *testing.T) {
	r := Relation{Type: tree.PrefixRelation, Node: "https://example.org/data/s/f/a&b", Path: []string{"urn:p"}, Value: "a&b"}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(r))
	assert.Contains(t, buf.String(), `"@value":"a&b"`)
	assert.NotContains(t, buf.String(), "remainingItems")
	assert.NotContains(t, buf.String(), `"@type":""`)
}

func TestBucketRelationsRejectUnknownKind(t *testing.T) {
	_, err := BucketRelations(testDomain, "temps", tree.Fragmentation{Name: "f", Kind: "hilbert"}, []tree.Bucket{{Value: "x"}})
	assert.Error(t, err)
}
