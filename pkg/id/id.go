package id

import (
	"encoding/binary"
	"sync"
)

// ID is a 128-bit, lexicographically sortable event key encoded as 16 bytes
// big-endian: [8 bytes ms_timestamp with the sign bit flipped][8 bytes sequence].
// Byte order equals (timestamp, sequence) order, including timestamps before 1970.
type ID [16]byte

const signBit = uint64(1) << 63

// Make builds an ID from a Unix millisecond timestamp and a sequence number.
func Make(ms int64, seq uint64) ID {
	var id ID
	binary.BigEndian.PutUint64(id[0:8], uint64(ms)^signBit)
	binary.BigEndian.PutUint64(id[8:16], seq)
	return id
}

// FromBytes copies a 16-byte key suffix into an ID.
func FromBytes(b []byte) (ID, bool) {
	var id ID
	if len(b) != len(id) {
		return id, false
	}
	copy(id[:], b)
	return id, true
}

// Ms returns the Unix millisecond timestamp.
func (i ID) Ms() int64 { return int64(binary.BigEndian.Uint64(i[0:8]) ^ signBit) }

// Seq returns the sequence number.
func (i ID) Seq() uint64 { return binary.BigEndian.Uint64(i[8:16]) }

// Bytes returns the raw 16-byte representation.
func (i ID) Bytes() []byte { b := make([]byte, 16); copy(b, i[:]); return b }

// String returns a hex string.
func (i ID) String() string { return fmtHex(i[:]) }

// Compare returns -1, 0, 1 based on lexical comparison.
func (i ID) Compare(other ID) int {
	for idx := 0; idx < 16; idx++ {
		if i[idx] < other[idx] {
			return -1
		}
		if i[idx] > other[idx] {
			return 1
		}
	}
	return 0
}

// Generator hands out strictly increasing sequence numbers so that events
// sharing a timestamp keep their append order.
type Generator struct {
	mu       sync.Mutex
	sequence uint64
}

// NewGenerator continues after last, typically the highest persisted sequence.
func NewGenerator(last uint64) *Generator { return &Generator{sequence: last} }

// At returns a new ID for an event at ms.
func (g *Generator) At(ms int64) ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sequence++
	return Make(ms, g.sequence)
}

// Last returns the most recently issued sequence number.
func (g *Generator) Last() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sequence
}

// fmtHex is a small, allocation-lean hex encoder for fixed-size IDs.
func fmtHex(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexdigits[v>>4]
		out[i*2+1] = hexdigits[v&0x0f]
	}
	return string(out)
}
