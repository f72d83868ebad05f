package layout

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"campuscal/internal/model"
)

// YearMonth names a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth accepts "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Of returns the month t falls in.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	return ym.Add(1)
}

// Add shifts ym by n months.
func (ym YearMonth) Add(n int) YearMonth {
	t := time.Date(ym.Year, ym.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return Of(t)
}

// First and Last are the first and last dates of the month.
func (ym YearMonth) First() model.Date {
	return model.Date{Year: ym.Year, Month: ym.Month, Day: 1}
}

func (ym YearMonth) Last() model.Date {
	return model.Date{Year: ym.Year, Month: ym.Month, Day: DaysIn(ym.Year, ym.Month)}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// visible drops events that must never be laid out.
func visible(events []model.Event) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if !ev.Visible || ev.Kind == model.KindHidden {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// inMonth keeps the events whose span touches ym. events must be sorted by
// Start; everything starting after the month's last day is cut off with a
// binary search.
func inMonth(events []model.Event, ym YearMonth) []model.Event {
	first, last := ym.First(), ym.Last()
	cut, _ := slices.BinarySearchFunc(events, last.AddDays(1), func(ev model.Event, d model.Date) int {
		return ev.Start.Compare(d)
	})
	out := make([]model.Event, 0, cut)
	for _, ev := range events[:cut] {
		if ev.End.Before(first) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func sortByStart(events []model.Event) {
	slices.SortStableFunc(events, func(a, b model.Event) int {
		return a.Start.Compare(b.Start)
	})
}

// ProcessMonth lays out one month. The returned map has an entry for every
// day at least one visible event occupies, and none for empty days. An
// empty event list gives an empty map, not an error.
func ProcessMonth(month time.Month, year int, events []model.Event) (map[int]model.ProcessedEvent, error) {
	if err := checkMonth(year, month); err != nil {
		return nil, err
	}
	pool := visible(events)
	sortByStart(pool)
	return processSorted(YearMonth{Year: year, Month: month}, pool), nil
}

func processSorted(ym YearMonth, sorted []model.Event) map[int]model.ProcessedEvent {
	out := make(map[int]model.ProcessedEvent)
	pool := inMonth(sorted, ym)
	if len(pool) == 0 {
		return out
	}

	candidates := make([]Candidate, 0, len(pool))
	for d := 1; d <= DaysIn(ym.Year, ym.Month); d++ {
		day := model.Date{Year: ym.Year, Month: ym.Month, Day: d}
		candidates = candidates[:0]
		for _, ev := range pool {
			if shape, ok := Classify(ev, day); ok {
				candidates = append(candidates, Candidate{Event: ev, Shape: shape})
			}
		}
		if pe, ok := Aggregate(d, candidates); ok {
			out[d] = pe
		}
	}
	return out
}

// ProcessMonths runs ProcessMonth for each requested month over the same
// event snapshot. It fails on the first invalid month.
func ProcessMonths(months []YearMonth, events []model.Event) (map[YearMonth]map[int]model.ProcessedEvent, error) {
	for _, ym := range months {
		if err := checkMonth(ym.Year, ym.Month); err != nil {
			return nil, err
		}
	}
	pool := visible(events)
	sortByStart(pool)

	out := make(map[YearMonth]map[int]model.ProcessedEvent, len(months))
	for _, ym := range months {
		out[ym] = processSorted(ym, pool)
	}
	return out, nil
}
