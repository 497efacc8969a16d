package eventstore

import (
	"encoding/binary"

	"github.com/ddvlanck/tree-index-1/pkg/id"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable). seg(x) is a big-endian
// uint32 length followed by the bytes of x, so identifiers may contain '/'.
// A trailing raw value is the last component of its key and is not prefixed,
// which keeps bucket listings in bucket value byte order.
// - ev/{seg stream}{id16}                         event record
// - bev/{seg stream}{seg frag}{seg bucket}{id16}  bucket membership (empty value)
// - bkt/{seg stream}{seg frag}r/{value}           root bucket
// - bkt/{seg stream}{seg frag}c/{seg parent}{value} child bucket
// - meta/seq                                      last issued sequence

var (
	eventPrefix       = []byte("ev/")
	bucketEventPrefix = []byte("bev/")
	bucketPrefix      = []byte("bkt/")
	rootSeg           = []byte("r/")
	childSeg          = []byte("c/")
	metaSeqKey        = []byte("meta/seq")
)

func appendSeg(dst []byte, s string) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(len(s)))
	dst = append(dst, b[:]...)
	return append(dst, s...)
}

// KeyEventPrefix covers every event of a stream.
func KeyEventPrefix(streamID string) []byte {
	k := make([]byte, 0, len(eventPrefix)+4+len(streamID))
	k = append(k, eventPrefix...)
	return appendSeg(k, streamID)
}

// KeyEvent builds the event key; byte order is (timestamp, sequence) order.
func KeyEvent(streamID string, eid id.ID) []byte {
	return append(KeyEventPrefix(streamID), eid[:]...)
}

// KeyBucketEventPrefix covers the membership index of one bucket.
func KeyBucketEventPrefix(streamID, fragmentation, bucket string) []byte {
	k := make([]byte, 0, len(bucketEventPrefix)+12+len(streamID)+len(fragmentation)+len(bucket))
	k = append(k, bucketEventPrefix...)
	k = appendSeg(k, streamID)
	k = appendSeg(k, fragmentation)
	return appendSeg(k, bucket)
}

// KeyBucketEvent builds one membership index entry.
func KeyBucketEvent(streamID, fragmentation, bucket string, eid id.ID) []byte {
	return append(KeyBucketEventPrefix(streamID, fragmentation, bucket), eid[:]...)
}

func keyFragmentationBuckets(streamID, fragmentation string) []byte {
	k := make([]byte, 0, len(bucketPrefix)+8+len(streamID)+len(fragmentation)+2)
	k = append(k, bucketPrefix...)
	k = appendSeg(k, streamID)
	return appendSeg(k, fragmentation)
}

// KeyRootBucketPrefix covers the root buckets of a fragmentation.
func KeyRootBucketPrefix(streamID, fragmentation string) []byte {
	return append(keyFragmentationBuckets(streamID, fragmentation), rootSeg...)
}

// KeyRootBucket builds a root bucket key.
func KeyRootBucket(streamID, fragmentation, value string) []byte {
	return append(KeyRootBucketPrefix(streamID, fragmentation), value...)
}

// KeyChildBucketPrefix covers the children of parent.
func KeyChildBucketPrefix(streamID, fragmentation, parent string) []byte {
	k := append(keyFragmentationBuckets(streamID, fragmentation), childSeg...)
	return appendSeg(k, parent)
}

// KeyChildBucket builds a child bucket key.
func KeyChildBucket(streamID, fragmentation, parent, value string) []byte {
	return append(KeyChildBucketPrefix(streamID, fragmentation, parent), value...)
}
