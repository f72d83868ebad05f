package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "campuscal/internal/log"
	"campuscal/internal/model"
)

const defaultMaxOccurrencesPerEvent = 5000

// ExpandConfig controls recurrence expansion.
type ExpandConfig struct {
	// DisplayLocation is the zone occurrences are converted into. Nil
	// means time.Local.
	DisplayLocation *time.Location

	// RangeStart / RangeEnd bound the occurrences, inclusive.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps runaway rules. Zero uses the default.
	MaxOccurrencesPerEvent int
}

// ExpandResult carries the occurrences plus the UIDs that hit the cap.
type ExpandResult struct {
	Occurrences     []model.Occurrence
	TruncatedEvents []string
}

// ExpandOccurrences turns parsed VEVENTs into concrete occurrences inside
// the configured window. It handles single events, RRULE recurrence,
// EXDATE removal and RECURRENCE-ID overrides.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	type key struct{ feed, uid string }
	var order []key
	base := make(map[key][]ParsedEvent)
	overrides := make(map[key][]ParsedEvent)

	for _, ev := range events {
		k := key{ev.Feed.ID, ev.UID}
		if ev.IsOverride && ev.Recurrence != nil {
			overrides[k] = append(overrides[k], ev)
			continue
		}
		if _, seen := base[k]; !seen {
			order = append(order, k)
		}
		base[k] = append(base[k], ev)
	}

	for _, k := range order {
		truncated := false
		for _, ev := range base[k] {
			occ, hitCap := expandEvent(ev, overrides[k], cfg)
			truncated = truncated || hitCap
			result.Occurrences = append(result.Occurrences, occ...)
		}
		if truncated {
			result.TruncatedEvents = append(result.TruncatedEvents, k.uid)
			appLog.Error("expand: occurrences truncated", errors.New("max occurrences reached"),
				"feed", k.feed, "uid", k.uid, "cap", cfg.MaxOccurrencesPerEvent)
		}
	}

	return result, nil
}

func expandEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, bool) {
	if ev.RawRRule == "" {
		return expandSingle(ev, overrides, cfg), false
	}
	return expandRecurring(ev, overrides, cfg)
}

func expandSingle(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) []model.Occurrence {
	if o, ok := findOverride(overrides, ev.Start); ok {
		ev = o
	}
	if !overlaps(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
		return nil
	}
	return []model.Occurrence{makeOccurrence(ev, ev.Start, ev.End, cfg.DisplayLocation)}
}

func expandRecurring(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, bool) {
	opt, err := rrule.StrToROption(ev.RawRRule)
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil, false
	}
	opt.Dtstart = ev.Start

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		appLog.Error("expand: invalid RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil, false
	}

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Widen the lower bound by the event's length so an occurrence that
	// started before the window but runs into it is kept.
	dur := ev.End.Sub(ev.Start)
	loc := ev.Start.Location()
	starts := set.Between(cfg.RangeStart.Add(-dur).In(loc), cfg.RangeEnd.In(loc), true)

	hitCap := false
	if len(starts) > cfg.MaxOccurrencesPerEvent {
		starts = starts[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	out := make([]model.Occurrence, 0, len(starts))
	applied := make(map[int64]bool)
	for _, s := range starts {
		inst := ev
		inst.Start, inst.End = s, s.Add(dur)
		if o, ok := findOverride(overrides, s); ok {
			applied[s.UnixNano()] = true
			inst = o
		}
		if !overlaps(inst.Start, inst.End, cfg.RangeStart, cfg.RangeEnd) {
			continue
		}
		out = append(out, makeOccurrence(inst, inst.Start, inst.End, cfg.DisplayLocation))
	}

	// An instance rescheduled into the window from outside it is missed by
	// Between; add it when the rule really produces its RECURRENCE-ID.
	for _, ov := range overrides {
		rid := ov.Recurrence.In(loc)
		if applied[rid.UnixNano()] || !overlaps(ov.Start, ov.End, cfg.RangeStart, cfg.RangeEnd) {
			continue
		}
		if overlaps(rid, rid.Add(dur), cfg.RangeStart, cfg.RangeEnd) {
			continue
		}
		if len(set.Between(rid, rid, true)) == 0 {
			continue
		}
		if o, ok := findOverride(overrides, rid); !ok || o.Seq != ov.Seq || !o.Start.Equal(ov.Start) {
			continue
		}
		applied[rid.UnixNano()] = true
		out = append(out, makeOccurrence(ov, ov.Start, ov.End, cfg.DisplayLocation))
	}
	return out, hitCap
}

// findOverride returns the override whose RECURRENCE-ID is start. When a
// feed carries several, the highest SEQUENCE wins; later entries win ties.
func findOverride(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	var (
		best  ParsedEvent
		found bool
	)
	for _, ov := range overrides {
		if ov.Recurrence == nil || !ov.Recurrence.Equal(start) {
			continue
		}
		if !found || ov.Seq >= best.Seq {
			best, found = ov, true
		}
	}
	return best, found
}

// makeOccurrence normalizes an instance into displayLoc. All-day instances
// keep their calendar dates instead of being shifted by the zone change.
func makeOccurrence(ev ParsedEvent, start, end time.Time, displayLoc *time.Location) model.Occurrence {
	if ev.AllDay {
		start = model.DateOf(start).In(displayLoc)
		end = model.DateOf(end).In(displayLoc)
	} else {
		start = start.In(displayLoc)
		end = end.In(displayLoc)
	}
	return model.Occurrence{
		SourceID:    ev.Feed.ID,
		UID:         ev.UID,
		InstanceKey: start.Format(time.RFC3339Nano),
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		AllDay:      ev.AllDay,
		Start:       start,
		End:         end,
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
