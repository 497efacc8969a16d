// Package eventstore persists events, bucket memberships and bucket trees in
// Pebble and serves them back as cancellable, time-ordered sequences.
//
// # Overview
//
// Events are keyed by stream and a 16-byte id.ID whose byte order equals
// (millisecond timestamp, sequence) order, so a forward scan is timestamp
// ascending and a cursor is a plain lower bound:
//   - ev/{seg stream}{id}                          event record
//   - bev/{seg stream}{seg frag}{seg bucket}{id}   bucket membership
//   - bkt/{seg stream}{seg frag}r/{value}          root bucket
//   - bkt/{seg stream}{seg frag}c/{seg parent}{value}
//
// Records are stored as: varint headerLen | header | payload | crc32c(header|payload).
// The header carries the member IRI, the payload the N-Quads statements.
//
// API surface (internal)
//
//	st, _ := eventstore.New(db)
//	_, _ = st.Append(ctx, tree.Event{StreamID: "src", ID: "urn:e1", Timestamp: ts, Payload: nq},
//		eventstore.Placement{Fragmentation: "byYear", Bucket: "2020"})
//	it, _ := st.StreamFrom(ctx, "src", &since)
//	defer it.Close()
package eventstore
