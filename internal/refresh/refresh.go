// Package refresh rebuilds the event snapshot the API lays out. Readers
// always see a complete, immutable snapshot; a refresh swaps in a new one.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"campuscal/internal/config"
	"campuscal/internal/ics"
	"campuscal/internal/layout"
	appLog "campuscal/internal/log"
	"campuscal/internal/model"
)

// Snapshot is one consistent view of every event. Never mutate it.
type Snapshot struct {
	Events     []model.Event
	BuiltAt    time.Time
	RangeStart time.Time
	RangeEnd   time.Time
	FeedErrors int
}

// Option tweaks a Refresher.
type Option func(*Refresher)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Refresher) { r.now = now }
}

// Refresher owns the fetch → parse → expand → adapt pipeline.
type Refresher struct {
	cfg      *config.Config
	fetcher  *ics.Fetcher
	loc      *time.Location
	personal []model.Event
	now      func() time.Time

	mu   sync.Mutex // serializes Refresh
	snap atomic.Pointer[Snapshot]
}

// New validates the configured personal events and publishes a first
// snapshot holding only those.
func New(cfg *config.Config, fetcher *ics.Fetcher, opts ...Option) (*Refresher, error) {
	personal, err := cfg.PersonalEvents()
	if err != nil {
		return nil, fmt.Errorf("personal events: %w", err)
	}
	r := &Refresher{
		cfg:      cfg,
		fetcher:  fetcher,
		loc:      cfg.Location(),
		personal: personal,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	start, end := r.window()
	r.snap.Store(&Snapshot{
		Events:     slices.Clone(personal),
		BuiltAt:    r.now(),
		RangeStart: start,
		RangeEnd:   end,
	})
	return r, nil
}

// Current returns the latest published snapshot.
func (r *Refresher) Current() *Snapshot {
	return r.snap.Load()
}

// Location is the display zone feed events were normalized into.
func (r *Refresher) Location() *time.Location {
	return r.loc
}

func (r *Refresher) window() (time.Time, time.Time) {
	cur := layout.Of(r.now().In(r.loc))
	first := cur.Add(-r.cfg.HorizonMonths)
	last := cur.Add(r.cfg.HorizonMonths)
	return first.First().In(r.loc), last.Last().AddDays(1).In(r.loc).Add(-time.Second)
}

func (r *Refresher) feeds() []ics.Feed {
	out := make([]ics.Feed, 0, len(r.cfg.Feeds))
	for _, f := range r.cfg.Feeds {
		if f.URL == "" {
			continue
		}
		out = append(out, ics.Feed{ID: f.ID, Name: f.Name, URL: f.URL, Color: f.Color})
	}
	return out
}

// Refresh rebuilds and publishes a snapshot. Feeds that fail are left out
// and reported in the returned error, but the snapshot is still
// published so one broken feed does not blank the others.
func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start, end := r.window()
	feeds := r.feeds()

	results, fetchErr := r.fetcher.FetchAll(ctx, feeds)
	errs := []error{fetchErr}
	failed := len(feeds) - len(results)

	events := slices.Clone(r.personal)
	for _, res := range results {
		parsed, err := ics.ParseICS(res.Feed, res.Body)
		if err != nil {
			errs = append(errs, err)
			failed++
			continue
		}
		expanded, err := ics.ExpandOccurrences(parsed, ics.ExpandConfig{
			DisplayLocation: r.loc,
			RangeStart:      start,
			RangeEnd:        end,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("feed %s: %w", res.Feed.ID, err))
			failed++
			continue
		}
		events = append(events, ics.ToEvents(res.Feed, expanded.Occurrences)...)
	}

	snap := &Snapshot{
		Events:     events,
		BuiltAt:    r.now(),
		RangeStart: start,
		RangeEnd:   end,
		FeedErrors: failed,
	}
	r.snap.Store(snap)

	appLog.Info("snapshot published",
		"events", len(events),
		"feeds", len(feeds),
		"feed_errors", failed,
		"range_start", start.Format(time.RFC3339),
		"range_end", end.Format(time.RFC3339),
	)
	return snap, errors.Join(errs...)
}

// Run refreshes once, then on the configured cron schedule until ctx is
// cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(r.loc))
	if _, err := c.AddFunc(r.cfg.RefreshCron, func() { r.refreshLogged(ctx) }); err != nil {
		return fmt.Errorf("refresh schedule %q: %w", r.cfg.RefreshCron, err)
	}

	r.refreshLogged(ctx)

	c.Start()
	appLog.Info("refresh scheduler started", "schedule", r.cfg.RefreshCron)
	<-ctx.Done()
	<-c.Stop().Done()
	appLog.Info("refresh scheduler stopped")
	return nil
}

func (r *Refresher) refreshLogged(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := r.Refresh(ctx); err != nil {
		appLog.Error("refresh completed with errors", err)
	}
}
