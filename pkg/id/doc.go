// Package id provides sortable 128-bit event keys.
//
// Layout: [8 bytes ms timestamp, sign bit flipped][8 bytes sequence], big-endian.
// Keys sort by event time first and append order second, which lets Pebble
// range scans serve "since" cursors with a single SeekGE.
//
// Example:
//
//	g := id.NewGenerator(0)
//	k := g.At(time.Now().UnixMilli())
//	_ = k.Ms()  // timestamp
//	_ = k.Seq() // sequence
package id
