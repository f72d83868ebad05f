package ics

import (
	"hash/fnv"
	"time"

	"campuscal/internal/model"
)

// EventID derives a stable positive ID for one occurrence so the same feed
// instance keeps its ID across refreshes.
func EventID(occ model.Occurrence) int64 {
	h := fnv.New64a()
	for _, part := range []string{occ.SourceID, occ.UID, occ.InstanceKey} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return int64(h.Sum64() &^ (1 << 63))
}

// lastDate is the final calendar date an occurrence covers. End is
// exclusive: an all-day event ending on the 3rd occupies up to the 2nd,
// a timed event ending at 00:00 on the 3rd also stops on the 2nd.
func lastDate(occ model.Occurrence) model.Date {
	first := model.DateOf(occ.Start)
	if !occ.End.After(occ.Start) {
		return first
	}
	var last model.Date
	if occ.AllDay {
		last = model.DateOf(occ.End).AddDays(-1)
	} else {
		last = model.DateOf(occ.End.Add(-time.Nanosecond))
	}
	if last.Before(first) {
		return first
	}
	return last
}

// ToEvents adapts expanded occurrences of feed into subscribed events.
// Occurrences already carry the display zone, so dates are taken as-is.
func ToEvents(feed Feed, occs []model.Occurrence) []model.Event {
	color := max(feed.Color, 0)
	out := make([]model.Event, 0, len(occs))
	for _, occ := range occs {
		if occ.SourceID != feed.ID {
			continue
		}
		out = append(out, model.Event{
			ID:               EventID(occ),
			Title:            occ.Summary,
			ShortDescription: occ.Location,
			LongDescription:  occ.Description,
			Start:            model.DateOf(occ.Start),
			End:              lastDate(occ),
			ColorIndex:       color,
			Kind:             model.KindSubscribed,
			Visible:          true,
			SourceID:         feed.ID,
		})
	}
	return out
}
