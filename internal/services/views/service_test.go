package viewsvc

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ddvlanck/tree-index-1/internal/tree"
	logpkg "github.com/ddvlanck/tree-index-1/pkg/log"
)

const (
	timeProp = "http://www.w3.org/ns/sosa/resultTime"
	yearProp = "http://example.org/year"
	gYear    = "http://www.w3.org/2001/XMLSchema#gYear"
)

type fixture struct {
	streams *fakeStreams
	frags   fakeFragmentations
	events  *fakeEvents
	buckets fakeBuckets
	spans   *tracetest.SpanRecorder
	svc     *Service
}

func newFixture(t *testing.T, pager Pager) *fixture {
	t.Helper()
	f := &fixture{
		streams: newFakeStreams(tree.Stream{ID: "urn:src:temps", Name: "temps", TimePath: []string{timeProp}}),
		frags:   fakeFragmentations{},
		events:  newFakeEvents(),
		buckets: fakeBuckets{roots: map[string][]tree.Bucket{}, children: map[string][]tree.Bucket{}},
		spans:   tracetest.NewSpanRecorder(),
	}
	f.streams.alias("urn:src:temps", "temperatures")
	f.frags.put(tree.Fragmentation{StreamID: "urn:src:temps", Name: "byYear", Status: tree.StatusEnabled, Path: []string{yearProp}, Kind: tree.KindIdentity})
	f.frags.put(tree.Fragmentation{StreamID: "urn:src:temps", Name: "byPlace", Status: tree.StatusDisabled, Path: []string{yearProp}, Kind: tree.KindPrefix})
	f.buckets.roots["urn:src:temps|byYear"] = []tree.Bucket{
		{Value: "2019", DataType: gYear, Remaining: 3},
		{Value: "2020", DataType: gYear, Remaining: 5},
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(f.spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	f.svc = New(testDomain, Deps{
		Streams:        f.streams,
		Fragmentations: f.frags,
		Events:         f.events,
		Buckets:        f.buckets,
		Payloads:       echoConverter{},
	},
		WithPager(pager),
		WithTracerProvider(tp),
		WithLogger(logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))),
	)
	return f
}

func (f *fixture) allClosed(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, f.events.opened)
	for _, it := range f.events.opened {
		assert.True(t, it.Closed())
	}
}

func TestStreamViewAliasRedirectsPreservingSince(t *testing.T) {
	f := newFixture(t, DefaultPager())
	res, err := f.svc.StreamView(context.Background(), "temperatures", "2020-01-01T10:01:00.000Z")
	require.NoError(t, err)
	assert.Nil(t, res.Document)
	assert.Equal(t, "https://example.org/data/temps?since=2020-01-01T10%3A01%3A00.000Z", res.Redirect)
	assert.Empty(t, f.events.opened, "no events are read for a redirect")
}

func TestBucketViewAliasRedirectsBeforeFragmentationCheck(t *testing.T) {
	f := newFixture(t, DefaultPager())
	res, err := f.svc.BucketView(context.Background(), "temperatures", "byPlace", "gent", "2020-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/data/temps/byPlace/gent?since=2020-01-01T00%3A00%3A00Z", res.Redirect)

	res, err = f.svc.FragmentationView(context.Background(), "temperatures", "byYear")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/data/temps/byYear", res.Redirect)
}

func TestUnknownStream(t *testing.T) {
	f := newFixture(t, DefaultPager())
	_, err := f.svc.StreamView(context.Background(), "nope", "")
	assert.ErrorIs(t, err, ErrInvalidStreamName)
	_, err = f.svc.FragmentationView(context.Background(), "nope", "byYear")
	assert.ErrorIs(t, err, ErrInvalidStreamName)
	_, err = f.svc.BucketView(context.Background(), "nope", "byYear", "2020", "")
	assert.ErrorIs(t, err, ErrInvalidStreamName)
}

func TestDisabledFragmentationLooksMissing(t *testing.T) {
	f := newFixture(t, DefaultPager())
	ctx := context.Background()

	_, disabled := f.svc.FragmentationView(ctx, "temps", "byPlace")
	_, missing := f.svc.FragmentationView(ctx, "temps", "byColour")
	assert.ErrorIs(t, disabled, ErrInvalidFragmentation)
	assert.ErrorIs(t, missing, ErrInvalidFragmentation)

	res, err := f.svc.BucketView(ctx, "temps", "byPlace", "2020", "")
	assert.ErrorIs(t, err, ErrInvalidFragmentation)
	assert.Nil(t, res.Document)
	assert.Empty(t, res.Redirect)
	assert.Empty(t, f.events.opened)
}

func TestInvalidSince(t *testing.T) {
	f := newFixture(t, DefaultPager())
	_, err := f.svc.StreamView(context.Background(), "temps", "yesterday")
	assert.ErrorIs(t, err, ErrInvalidCursor)
	_, err = f.svc.BucketView(context.Background(), "temps", "byYear", "2020", "yesterday")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestStreamViewContinuation(t *testing.T) {
	f := newFixture(t, Pager{SoftLimit: 2, HardLimit: 10})
	base := mustTime("2020-01-01T10:00:00Z")
	f.events.stream["urn:src:temps"] = []tree.Event{
		{ID: "urn:e:1", Timestamp: base},
		{ID: "urn:e:2", Timestamp: base.Add(time.Minute)},
		{ID: "urn:e:2", Timestamp: base.Add(time.Minute)},
		{ID: "urn:e:3", Timestamp: base.Add(2 * time.Minute)},
	}

	res, err := f.svc.StreamView(context.Background(), "temps", "")
	require.NoError(t, err)
	doc := res.Document
	require.NotNil(t, doc)
	assert.Equal(t, "https://example.org/data/temps", doc.ID)

	require.Len(t, doc.Relations, 1)
	next := doc.Relations[0]
	assert.Equal(t, tree.GreaterOrEqualThanRelation, next.Type)
	assert.Equal(t, "https://example.org/data/temps?since=2020-01-01T10%3A02%3A00.000Z", next.Node)
	assert.Equal(t, "2020-01-01T10:02:00.000Z", next.Value)
	assert.Equal(t, tree.XSDDateTime, next.ValueType)
	assert.Equal(t, []string{timeProp}, next.Path)
	assert.Nil(t, next.Remaining)

	require.Len(t, doc.Included, 4, "pointer plus one node per event")
	pointer, ok := doc.Included[0].(contentPointer)
	require.True(t, ok)
	assert.Equal(t, "https://example.org/data/temps", pointer.ID)
	assert.Equal(t, "https://example.org/data/temps", pointer.View.ID)
	assert.Equal(t, []idRef{{ID: "urn:e:1"}, {ID: "urn:e:2"}}, pointer.Members)
	f.allClosed(t)

	res, err = f.svc.StreamView(context.Background(), "temps", next.Value)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/data/temps?since=2020-01-01T10%3A02%3A00.000Z", res.Document.ID)
	assert.Empty(t, res.Document.Relations)
	pointer = res.Document.Included[0].(contentPointer)
	assert.Equal(t, []idRef{{ID: "urn:e:3"}}, pointer.Members)
}

func TestStreamViewEmpty(t *testing.T) {
	f := newFixture(t, DefaultPager())
	res, err := f.svc.StreamView(context.Background(), "temps", "")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, res.Document.Encode(&buf))
	assert.Contains(t, buf.String(), `"https://w3id.org/tree#relation": []`)
	assert.Contains(t, buf.String(), `"https://w3id.org/tree#member": []`)
}

func TestStreamViewHardCapHasNoContinuation(t *testing.T) {
	f := newFixture(t, Pager{SoftLimit: 2, HardLimit: 3})
	ts := mustTime("2020-01-01T10:00:00Z")
	for _, id := range []string{"urn:1", "urn:2", "urn:3", "urn:4"} {
		f.events.stream["urn:src:temps"] = append(f.events.stream["urn:src:temps"], tree.Event{ID: id, Timestamp: ts})
	}
	res, err := f.svc.StreamView(context.Background(), "temps", "")
	require.NoError(t, err)
	assert.Empty(t, res.Document.Relations)
	assert.Len(t, res.Document.Included, 4)
}

func TestBucketViewRelations(t *testing.T) {
	f := newFixture(t, Pager{SoftLimit: 1, HardLimit: 10})
	base := mustTime("2020-03-01T00:00:00Z")
	f.events.buckets["urn:src:temps|byYear|2020"] = []tree.Event{
		{ID: "urn:e:1", Timestamp: base},
		{ID: "urn:e:2", Timestamp: base.Add(time.Hour)},
	}
	f.buckets.children["urn:src:temps|byYear|2020"] = []tree.Bucket{
		{Value: "2020-03", DataType: "http://www.w3.org/2001/XMLSchema#gYearMonth", Remaining: 2},
	}

	res, err := f.svc.BucketView(context.Background(), "temps", "byYear", "2020", "")
	require.NoError(t, err)
	doc := res.Document
	assert.Equal(t, "https://example.org/data/temps/byYear/2020", doc.ID)
	require.Len(t, doc.Relations, 2)

	child := doc.Relations[0]
	assert.Equal(t, tree.EqualThanRelation, child.Type)
	assert.Equal(t, "https://example.org/data/temps/byYear/2020-03", child.Node)
	require.NotNil(t, child.Remaining)
	assert.EqualValues(t, 2, *child.Remaining)
	assert.Equal(t, []string{yearProp}, child.Path)

	next := doc.Relations[1]
	assert.Equal(t, tree.GreaterOrEqualThanRelation, next.Type)
	assert.Equal(t, "https://example.org/data/temps/byYear/2020?since=2020-03-01T01%3A00%3A00.000Z", next.Node)

	pointer := doc.Included[0].(contentPointer)
	assert.Equal(t, "https://example.org/data/temps", pointer.ID)
	assert.Equal(t, []idRef{{ID: "urn:e:1"}}, pointer.Members)
	f.allClosed(t)
}

func TestFragmentationViewGolden(t *testing.T) {
	f := newFixture(t, DefaultPager())
	res, err := f.svc.FragmentationView(context.Background(), "temps", "byYear")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, res.Document.Encode(&buf))

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "fragmentation_view", buf.Bytes())
}

func TestViewsAreTraced(t *testing.T) {
	f := newFixture(t, DefaultPager())
	_, _ = f.svc.StreamView(context.Background(), "temps", "")
	_, _ = f.svc.FragmentationView(context.Background(), "temps", "byPlace")

	spans := f.spans.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "views.StreamView", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("outcome", "ok"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("completion", "exhausted"))
	assert.Equal(t, "views.FragmentationView", spans[1].Name())
	assert.Contains(t, spans[1].Attributes(), attribute.String("outcome", "not_found"))
	assert.Len(t, spans[1].Events(), 1, "error recorded")
}

type countingRecorder struct {
	views map[string]int
	pages []Completion
}

func (c *countingRecorder) ObserveView(view, outcome string, _ time.Duration) {
	c.views[view+"/"+outcome]++
}

func (c *countingRecorder) ObservePage(_ string, _ int, completion Completion) {
	c.pages = append(c.pages, completion)
}

func TestViewsAreRecorded(t *testing.T) {
	f := newFixture(t, DefaultPager())
	rec := &countingRecorder{views: map[string]int{}}
	WithRecorder(rec)(f.svc)

	_, _ = f.svc.StreamView(context.Background(), "temps", "")
	_, _ = f.svc.StreamView(context.Background(), "temperatures", "")
	_, _ = f.svc.StreamView(context.Background(), "temps", "bad")

	assert.Equal(t, 1, rec.views["stream/ok"])
	assert.Equal(t, 1, rec.views["stream/redirect"])
	assert.Equal(t, 1, rec.views["stream/bad_request"])
	assert.Equal(t, []Completion{Exhausted}, rec.pages)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "cancelled", Outcome(nil, context.Canceled))
	assert.Equal(t, "error", Outcome(nil, assert.AnError))
	assert.Equal(t, "ok", Outcome(&Result{}, nil))
}
