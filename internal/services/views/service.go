package viewsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ddvlanck/tree-index-1/internal/sequence"
	"github.com/ddvlanck/tree-index-1/internal/tree"
	logpkg "github.com/ddvlanck/tree-index-1/pkg/log"
)

const tracerName = "github.com/ddvlanck/tree-index-1/internal/services/views"

// View names used in spans, logs and metrics.
const (
	ViewStream        = "stream"
	ViewFragmentation = "fragmentation"
	ViewBucket        = "bucket"
)

// Recorder observes served views. internal/metrics provides the Prometheus
// implementation.
type Recorder interface {
	ObserveView(view, outcome string, elapsed time.Duration)
	ObservePage(view string, events int, completion Completion)
}

type noopRecorder struct{}

func (noopRecorder) ObserveView(string, string, time.Duration) {}
func (noopRecorder) ObservePage(string, int, Completion)       {}

// Deps are the storage collaborators of the Service.
type Deps struct {
	Streams        StreamDirectory
	Fragmentations FragmentationDirectory
	Events         EventSource
	Buckets        BucketSource
	Payloads       PayloadConverter
}

// Result is either a redirect target or a document.
type Result struct {
	Redirect string
	Document *Document
}

// Service serves the stream, fragmentation and bucket views.
type Service struct {
	deps     Deps
	domain   string
	pager    Pager
	tracer   trace.Tracer
	recorder Recorder
	logger   logpkg.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPager overrides the page limits.
func WithPager(p Pager) Option { return func(s *Service) { s.pager = p } }

// WithTracerProvider sets the provider spans are started from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp.Tracer(tracerName) }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option { return func(s *Service) { s.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l logpkg.Logger) Option { return func(s *Service) { s.logger = l } }

// New returns a Service whose absolute URLs are built against domain.
func New(domain string, deps Deps, opts ...Option) *Service {
	s := &Service{
		deps:     deps,
		domain:   domain,
		pager:    DefaultPager(),
		tracer:   otel.Tracer(tracerName),
		recorder: noopRecorder{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = logpkg.NewLogger().WithComponent("views")
	}
	return s
}

// StreamView serves GET /data/{stream}.
func (s *Service) StreamView(ctx context.Context, name, since string) (res Result, err error) {
	ctx, span := s.tracer.Start(ctx, "views.StreamView", trace.WithAttributes(
		attribute.String("stream", name),
		attribute.String("since", since),
	))
	defer s.finish(span, ViewStream, time.Now(), &res, &err)

	r, err := ResolveStream(ctx, s.deps.Streams, name)
	if err != nil {
		return Result{}, err
	}
	collection := CollectionURL(s.domain, r.Canonical.Name)
	viewURL := WithSince(collection, since)
	if r.Redirect {
		return Result{Redirect: viewURL}, nil
	}
	cursor, err := parseSince(since)
	if err != nil {
		return Result{}, err
	}

	it, err := s.deps.Events.StreamFrom(ctx, r.Canonical.ID, cursor)
	if err != nil {
		return Result{}, fmt.Errorf("stream events: %w", err)
	}
	page, err := s.page(ctx, span, ViewStream, it)
	if err != nil {
		return Result{}, err
	}
	payload, err := s.deps.Payloads.Convert(ctx, page.Events)
	if err != nil {
		return Result{}, fmt.Errorf("convert payload: %w", err)
	}
	var rels []Relation
	if page.Completion == More {
		rels = append(rels, ContinuationRelation(collection, r.Canonical, page.Last))
	}
	return Result{Document: AssembleContent(viewURL, collection, page.Events, payload, rels)}, nil
}

// FragmentationView serves GET /data/{stream}/{fragmentation}.
func (s *Service) FragmentationView(ctx context.Context, name, fragmentation string) (res Result, err error) {
	ctx, span := s.tracer.Start(ctx, "views.FragmentationView", trace.WithAttributes(
		attribute.String("stream", name),
		attribute.String("fragmentation", fragmentation),
	))
	defer s.finish(span, ViewFragmentation, time.Now(), &res, &err)

	r, err := ResolveStream(ctx, s.deps.Streams, name)
	if err != nil {
		return Result{}, err
	}
	viewURL := FragmentationURL(s.domain, r.Canonical.Name, fragmentation)
	if r.Redirect {
		return Result{Redirect: viewURL}, nil
	}
	f, err := OpenFragmentation(ctx, s.deps.Fragmentations, r.Canonical.ID, fragmentation)
	if err != nil {
		return Result{}, err
	}

	it, err := s.deps.Buckets.RootBuckets(ctx, r.Canonical.ID, f.Name)
	if err != nil {
		return Result{}, fmt.Errorf("root buckets: %w", err)
	}
	roots, err := sequence.Collect(ctx, it)
	if err != nil {
		return Result{}, fmt.Errorf("root buckets: %w", err)
	}
	rels, err := BucketRelations(s.domain, r.Canonical.Name, f, roots)
	if err != nil {
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("buckets", len(roots)))
	return Result{Document: AssembleListing(viewURL, CollectionURL(s.domain, r.Canonical.Name), rels)}, nil
}

// BucketView serves GET /data/{stream}/{fragmentation}/{bucket}.
func (s *Service) BucketView(ctx context.Context, name, fragmentation, bucket, since string) (res Result, err error) {
	ctx, span := s.tracer.Start(ctx, "views.BucketView", trace.WithAttributes(
		attribute.String("stream", name),
		attribute.String("fragmentation", fragmentation),
		attribute.String("bucket", bucket),
		attribute.String("since", since),
	))
	defer s.finish(span, ViewBucket, time.Now(), &res, &err)

	r, err := ResolveStream(ctx, s.deps.Streams, name)
	if err != nil {
		return Result{}, err
	}
	bucketURL := BucketURL(s.domain, r.Canonical.Name, fragmentation, bucket)
	viewURL := WithSince(bucketURL, since)
	if r.Redirect {
		return Result{Redirect: viewURL}, nil
	}
	f, err := OpenFragmentation(ctx, s.deps.Fragmentations, r.Canonical.ID, fragmentation)
	if err != nil {
		return Result{}, err
	}
	cursor, err := parseSince(since)
	if err != nil {
		return Result{}, err
	}

	it, err := s.deps.Events.StreamFromBucket(ctx, r.Canonical.ID, f.Name, bucket, cursor)
	if err != nil {
		return Result{}, fmt.Errorf("bucket events: %w", err)
	}
	page, err := s.page(ctx, span, ViewBucket, it)
	if err != nil {
		return Result{}, err
	}
	payload, err := s.deps.Payloads.Convert(ctx, page.Events)
	if err != nil {
		return Result{}, fmt.Errorf("convert payload: %w", err)
	}

	bit, err := s.deps.Buckets.ChildBuckets(ctx, r.Canonical.ID, f.Name, bucket)
	if err != nil {
		return Result{}, fmt.Errorf("child buckets: %w", err)
	}
	children, err := sequence.Collect(ctx, bit)
	if err != nil {
		return Result{}, fmt.Errorf("child buckets: %w", err)
	}
	rels, err := BucketRelations(s.domain, r.Canonical.Name, f, children)
	if err != nil {
		return Result{}, err
	}
	if page.Completion == More {
		rels = append(rels, ContinuationRelation(bucketURL, r.Canonical, page.Last))
	}
	return Result{Document: AssembleContent(viewURL, CollectionURL(s.domain, r.Canonical.Name), page.Events, payload, rels)}, nil
}

func (s *Service) page(ctx context.Context, span trace.Span, view string, it sequence.Iterator[tree.Event]) (Page, error) {
	page, err := s.pager.Page(ctx, it)
	if err != nil {
		return Page{}, err
	}
	span.SetAttributes(
		attribute.Int("events", len(page.Events)),
		attribute.String("completion", page.Completion.String()),
	)
	s.recorder.ObservePage(view, len(page.Events), page.Completion)
	if page.Completion == HardCapped {
		s.logger.WithContext(ctx).Warn("page truncated at hard limit",
			logpkg.Str("view", view),
			logpkg.Int("events", len(page.Events)),
			logpkg.Str("at", tree.FormatTime(page.Last)))
	}
	return page, nil
}

func (s *Service) finish(span trace.Span, view string, start time.Time, res *Result, err *error) {
	outcome := Outcome(res, *err)
	if *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
	span.SetAttributes(attribute.String("outcome", outcome))
	span.End()
	s.recorder.ObserveView(view, outcome, time.Since(start))
}

// Outcome classifies a view result for logs and metrics.
func Outcome(res *Result, err error) string {
	switch {
	case err == nil && res != nil && res.Redirect != "":
		return "redirect"
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidStreamName), errors.Is(err, ErrInvalidFragmentation):
		return "not_found"
	case errors.Is(err, ErrInvalidCursor):
		return "bad_request"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}

func parseSince(since string) (*time.Time, error) {
	if since == "" {
		return nil, nil
	}
	t, err := tree.ParseTime(since)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCursor, since)
	}
	return &t, nil
}
