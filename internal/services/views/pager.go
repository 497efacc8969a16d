package viewsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ddvlanck/tree-index-1/internal/sequence"
	"github.com/ddvlanck/tree-index-1/internal/tree"
)

const (
	DefaultSoftLimit = 250
	DefaultHardLimit = 2000
)

// Completion tells how a page ended.
type Completion int

const (
	// Exhausted: the source ran out; no continuation.
	Exhausted Completion = iota
	// More: the page is full at a timestamp boundary; continue at Page.Last.
	More
	// HardCapped: a timestamp run reached the hard limit and was truncated;
	// no continuation.
	HardCapped
)

func (c Completion) String() string {
	switch c {
	case Exhausted:
		return "exhausted"
	case More:
		return "more"
	case HardCapped:
		return "hard_capped"
	default:
		return fmt.Sprintf("completion(%d)", int(c))
	}
}

// Page is a bounded, timestamp-ordered slice of events.
type Page struct {
	Events []tree.Event
	// Last is the continuation cursor when Completion is More: the timestamp
	// of the first event not in the page. Otherwise it is the timestamp of the
	// last event in the page.
	Last       time.Time
	Completion Completion
}

// Pager cuts event sequences into pages.
//
// A page never ends inside a run of equal timestamps: once SoftLimit events
// are held, the pager keeps pulling until the timestamp changes. The event
// that shows the change is left out and its timestamp becomes the cursor, so
// an inclusive since starts the next page exactly there. A run that would
// grow the page past HardLimit is truncated.
type Pager struct {
	SoftLimit int
	HardLimit int
}

// DefaultPager returns a Pager with the default limits.
func DefaultPager() Pager {
	return Pager{SoftLimit: DefaultSoftLimit, HardLimit: DefaultHardLimit}
}

func (p Pager) limits() (soft, hard int) {
	soft, hard = p.SoftLimit, p.HardLimit
	if soft <= 0 {
		soft = DefaultSoftLimit
	}
	if hard <= 0 {
		hard = DefaultHardLimit
	}
	if hard < soft {
		hard = soft
	}
	return soft, hard
}

// Page pulls the next page from it and always closes it. The source is never
// drained past the page.
func (p Pager) Page(ctx context.Context, it sequence.Iterator[tree.Event]) (page Page, err error) {
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	soft, hard := p.limits()

	for {
		ev, err := it.Next(ctx)
		if errors.Is(err, sequence.Done) {
			page.Completion = Exhausted
			return page, nil
		}
		if err != nil {
			return Page{}, err
		}

		if n := len(page.Events); n > 0 {
			prev := page.Events[n-1].Timestamp
			if ev.Timestamp.Before(prev) {
				return Page{}, fmt.Errorf("%w: %s after %s", ErrOutOfOrder,
					tree.FormatTime(ev.Timestamp), tree.FormatTime(prev))
			}
			if n >= soft && !ev.Timestamp.Equal(prev) {
				page.Completion = More
				page.Last = ev.Timestamp
				return page, nil
			}
			if n >= hard {
				page.Completion = HardCapped
				return page, nil
			}
		}
		page.Events = append(page.Events, ev)
		page.Last = ev.Timestamp
	}
}
