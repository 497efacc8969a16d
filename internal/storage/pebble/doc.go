// Package pebblestore provides a thin wrapper around Pebble with fsync policy,
// batches, prefix-bounded iterators and minimal metrics hooks. The catalog and
// the event store share one DB and partition it by key prefix.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(ctx, b)
//	b.Close()
//
//	it, _ := db.NewIter(pebblestore.PrefixBounds([]byte("k")))
//	defer it.Close()
package pebblestore
