package viewsvc

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddvlanck/tree-index-1/internal/sequence"
	"github.com/ddvlanck/tree-index-1/internal/tree"
)

var base = mustTime("2020-01-01T10:00:00Z")

// run appends n events at ts to events, numbering ids globally.
func run(events []tree.Event, ts time.Time, n int) []tree.Event {
	for i := 0; i < n; i++ {
		events = append(events, tree.Event{
			StreamID:  "src",
			ID:        fmt.Sprintf("urn:event:%d", len(events)),
			Timestamp: ts,
		})
	}
	return events
}

func distinct(n int) []tree.Event {
	var events []tree.Event
	for i := 0; i < n; i++ {
		events = run(events, base.Add(time.Duration(i)*time.Second), 1)
	}
	return events
}

func assertNonDecreasing(t *testing.T, events []tree.Event) {
	t.Helper()
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.Before(events[i-1].Timestamp), "event %d goes back in time", i)
	}
}

func TestPagerExhaustedBelowSoftLimit(t *testing.T) {
	it := sequence.FromSlice(distinct(3))
	page, err := DefaultPager().Page(context.Background(), it)
	require.NoError(t, err)
	assert.Len(t, page.Events, 3)
	assert.Equal(t, Exhausted, page.Completion)
	assert.True(t, it.Closed())
}

func TestPagerEmptySource(t *testing.T) {
	page, err := DefaultPager().Page(context.Background(), sequence.FromSlice[tree.Event](nil))
	require.NoError(t, err)
	assert.Empty(t, page.Events)
	assert.Equal(t, Exhausted, page.Completion)
	assert.True(t, page.Last.IsZero())
}

func TestPagerFullAtSoftLimit(t *testing.T) {
	events := distinct(400)
	it := sequence.FromSlice(events)
	page, err := DefaultPager().Page(context.Background(), it)
	require.NoError(t, err)

	assert.Len(t, page.Events, DefaultSoftLimit)
	assert.Equal(t, More, page.Completion)
	assert.True(t, page.Last.Equal(events[DefaultSoftLimit].Timestamp), "cursor is the first undelivered event")
	assert.Equal(t, DefaultSoftLimit+1, it.Pulled(), "source is not drained")
	assert.True(t, it.Closed())
	assertNonDecreasing(t, page.Events)
}

func TestPagerExactlySoftLimitThenExhausted(t *testing.T) {
	page, err := DefaultPager().Page(context.Background(), sequence.FromSlice(distinct(DefaultSoftLimit)))
	require.NoError(t, err)
	assert.Len(t, page.Events, DefaultSoftLimit)
	assert.Equal(t, Exhausted, page.Completion)
}

func TestPagerKeepsTimestampRunTogether(t *testing.T) {
	// temps: 10:00 x1, 10:01 x300
	events := run(nil, base, 1)
	events = run(events, base.Add(time.Minute), 300)

	page, err := DefaultPager().Page(context.Background(), sequence.FromSlice(events))
	require.NoError(t, err)
	assert.Len(t, page.Events, 301)
	assert.Equal(t, Exhausted, page.Completion)

	more := run(events, base.Add(2*time.Minute), 50)
	it := sequence.FromSlice(more)
	page, err = DefaultPager().Page(context.Background(), it)
	require.NoError(t, err)
	assert.Len(t, page.Events, 301)
	assert.Equal(t, More, page.Completion)
	assert.True(t, page.Last.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, 302, it.Pulled())
}

func TestPagerHardCapTruncatesRun(t *testing.T) {
	events := run(nil, base, DefaultHardLimit+100)
	events = run(events, base.Add(time.Second), 5)
	it := sequence.FromSlice(events)

	page, err := DefaultPager().Page(context.Background(), it)
	require.NoError(t, err)
	assert.Len(t, page.Events, DefaultHardLimit)
	assert.Equal(t, HardCapped, page.Completion)
	assert.Equal(t, DefaultHardLimit+1, it.Pulled())
	assert.True(t, it.Closed())
}

func TestPagerHardLimitAtBoundaryContinues(t *testing.T) {
	p := Pager{SoftLimit: 2, HardLimit: 4}
	events := run(nil, base, 4)
	events = run(events, base.Add(time.Second), 1)

	page, err := p.Page(context.Background(), sequence.FromSlice(events))
	require.NoError(t, err)
	assert.Len(t, page.Events, 4)
	assert.Equal(t, More, page.Completion, "nothing is lost when the run ends exactly at the hard limit")
}

func TestPagerRejectsOutOfOrder(t *testing.T) {
	events := []tree.Event{
		{ID: "urn:a", Timestamp: base.Add(time.Minute)},
		{ID: "urn:b", Timestamp: base},
	}
	it := sequence.FromSlice(events)
	_, err := DefaultPager().Page(context.Background(), it)
	assert.ErrorIs(t, err, ErrOutOfOrder)
	assert.True(t, it.Closed())
}

func TestPagerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	it := sequence.FromSlice(distinct(3))
	_, err := DefaultPager().Page(ctx, it)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, it.Closed())
}

func TestPagerLimitDefaults(t *testing.T) {
	soft, hard := Pager{}.limits()
	assert.Equal(t, DefaultSoftLimit, soft)
	assert.Equal(t, DefaultHardLimit, hard)

	soft, hard = Pager{SoftLimit: 10, HardLimit: 5}.limits()
	assert.Equal(t, 10, soft)
	assert.Equal(t, 10, hard)
}

func TestPagerRoundTripDeliversEachEventOnce(t *testing.T) {
	var events []tree.Event
	for i, n := range []int{1, 3, 1, 1, 4, 2, 1, 5, 1} {
		events = run(events, base.Add(time.Duration(i)*time.Minute), n)
	}
	p := Pager{SoftLimit: 3, HardLimit: 10}
	src := newFakeEvents()
	src.stream["src"] = events

	seen := map[string]int{}
	var since *time.Time
	for pages := 0; ; pages++ {
		require.Less(t, pages, len(events), "pagination does not progress")
		it, err := src.StreamFrom(context.Background(), "src", since)
		require.NoError(t, err)
		page, err := p.Page(context.Background(), it)
		require.NoError(t, err)
		for _, e := range page.Events {
			if since != nil {
				assert.False(t, e.Timestamp.Before(*since))
			}
			seen[e.ID]++
		}
		if page.Completion != More {
			break
		}
		last := page.Last
		since = &last
	}
	assert.Len(t, seen, len(events))
	for id, n := range seen {
		assert.Equal(t, 1, n, "%s delivered %d times", id, n)
	}
}
