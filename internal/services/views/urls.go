package viewsvc

import (
	"net/url"
	"strings"
)

// SinceParam is the cursor query parameter.
const SinceParam = "since"

func dataURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString("/data")
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// CollectionURL addresses the stream-level view.
func CollectionURL(base, stream string) string { return dataURL(base, stream) }

// FragmentationURL addresses the root-bucket listing of a fragmentation.
func FragmentationURL(base, stream, fragmentation string) string {
	return dataURL(base, stream, fragmentation)
}

// BucketURL addresses the content view of one bucket.
func BucketURL(base, stream, fragmentation, bucket string) string {
	return dataURL(base, stream, fragmentation, bucket)
}

// WithSince appends the since parameter to u. An empty since leaves u as is.
func WithSince(u, since string) string {
	if since == "" {
		return u
	}
	return u + "?" + url.Values{SinceParam: {since}}.Encode()
}
