package viewsvc

import (
	"context"
	"time"

	"github.com/ddvlanck/tree-index-1/internal/sequence"
	"github.com/ddvlanck/tree-index-1/internal/tree"
)

const testDomain = "https://example.org"

type fakeStreams struct {
	byName map[string]tree.Stream
	// canonical maps stream ids to canonical names.
	canonical map[string]string
}

func newFakeStreams(streams ...tree.Stream) *fakeStreams {
	f := &fakeStreams{byName: map[string]tree.Stream{}, canonical: map[string]string{}}
	for _, s := range streams {
		f.byName[s.Name] = s
		f.canonical[s.ID] = s.Name
	}
	return f
}

func (f *fakeStreams) alias(streamID, name string) {
	s := f.byName[f.canonical[streamID]]
	s.Name = name
	f.byName[name] = s
}

func (f *fakeStreams) StreamByName(_ context.Context, name string) (tree.Stream, bool, error) {
	s, ok := f.byName[name]
	return s, ok, nil
}

func (f *fakeStreams) StreamByID(_ context.Context, streamID string) (tree.Stream, bool, error) {
	name, ok := f.canonical[streamID]
	if !ok {
		return tree.Stream{}, false, nil
	}
	return f.byName[name], true, nil
}

type fakeFragmentations map[string]tree.Fragmentation

func (f fakeFragmentations) Fragmentation(_ context.Context, streamID, name string) (tree.Fragmentation, bool, error) {
	fr, ok := f[streamID+"|"+name]
	return fr, ok, nil
}

func (f fakeFragmentations) put(fr tree.Fragmentation) { f[fr.StreamID+"|"+fr.Name] = fr }

// fakeEvents serves slices and remembers every iterator it handed out.
type fakeEvents struct {
	stream  map[string][]tree.Event
	buckets map[string][]tree.Event
	opened  []*sequence.SliceIterator[tree.Event]
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{stream: map[string][]tree.Event{}, buckets: map[string][]tree.Event{}}
}

func from(events []tree.Event, since *time.Time) []tree.Event {
	if since == nil {
		return events
	}
	var out []tree.Event
	for _, e := range events {
		if !e.Timestamp.Before(*since) {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeEvents) StreamFrom(_ context.Context, streamID string, since *time.Time) (sequence.Iterator[tree.Event], error) {
	it := sequence.FromSlice(from(f.stream[streamID], since))
	f.opened = append(f.opened, it)
	return it, nil
}

func (f *fakeEvents) StreamFromBucket(_ context.Context, streamID, fragmentation, bucket string, since *time.Time) (sequence.Iterator[tree.Event], error) {
	it := sequence.FromSlice(from(f.buckets[streamID+"|"+fragmentation+"|"+bucket], since))
	f.opened = append(f.opened, it)
	return it, nil
}

type fakeBuckets struct {
	roots    map[string][]tree.Bucket
	children map[string][]tree.Bucket
}

func (f fakeBuckets) RootBuckets(_ context.Context, streamID, fragmentation string) (sequence.Iterator[tree.Bucket], error) {
	return sequence.FromSlice(f.roots[streamID+"|"+fragmentation]), nil
}

func (f fakeBuckets) ChildBuckets(_ context.Context, streamID, fragmentation, bucket string) (sequence.Iterator[tree.Bucket], error) {
	return sequence.FromSlice(f.children[streamID+"|"+fragmentation+"|"+bucket]), nil
}

// echoConverter renders each event as a node carrying only its id.
type echoConverter struct{}

func (echoConverter) Convert(_ context.Context, events []tree.Event) ([]any, error) {
	out := make([]any, 0, len(events))
	for _, e := range events {
		out = append(out, map[string]any{"@id": e.ID})
	}
	return out, nil
}

func mustTime(s string) time.Time {
	t, err := tree.ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}
