// Package sequence defines the cancellable pull iterator used between storage
// and the pager.
//
//	it := events.StreamFrom(ctx, streamID, since)
//	defer it.Close()
//	for {
//	    ev, err := it.Next(ctx)
//	    if errors.Is(err, sequence.Done) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // ...
//	}
//
// Stopping early and calling Close is the normal way to end a read; nothing
// needs to be drained.
package sequence
