// Package viewsvc serves read-only TREE views over event streams.
//
// A request runs the same few steps for every view:
//
//	resolve name -> [redirect | continue] -> open fragmentation (fragmentation
//	and bucket views) -> [reject | continue] -> page events (content views)
//	-> build relations -> assemble
//
// Every step is a single pass over read-only storage reached through the
// interfaces in deps.go. Event sources are pulled lazily and closed as soon
// as the page is decided, so the cost of a request does not depend on the
// size of the stream.
//
// Example:
//
//	svc := viewsvc.New("https://example.org", viewsvc.Deps{
//		Streams: cat, Fragmentations: cat, Events: store, Buckets: store, Payloads: conv,
//	})
//	res, err := svc.StreamView(ctx, "temps", "2020-01-01T10:01:00.000Z")
//	if res.Redirect != "" {
//		// 301 to res.Redirect
//	}
package viewsvc
