// Package catalog keeps stream and fragmentation metadata in Pebble.
//
//	cat/sn/{nfc name}                 stream record, one per name (canonical or alias)
//	cat/sid/{stream id}               canonical name of a stream
//	cat/f/{len4 stream id}{name}      fragmentation record
//
// A name record whose Name differs from the one the identity pointer selects
// is an alias; readers redirect it to the canonical name.
package catalog
