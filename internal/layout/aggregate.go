package layout

import (
	"cmp"
	"slices"

	"campuscal/internal/model"
)

// Candidate is an event known to occur on a day, with its shape there.
type Candidate struct {
	Event model.Event
	Shape model.Shape
}

// rank orders kinds for primary selection; lower wins.
func rank(k model.Kind) int {
	if k == model.KindSubscribed {
		return 0
	}
	return 1
}

// Less is the priority order used to pick a day's primary event:
// subscribed before personal, then earlier start, then lower ID.
func Less(a, b model.Event) bool {
	return compareEvents(a, b) < 0
}

func compareEvents(a, b model.Event) int {
	if ra, rb := rank(a.Kind), rank(b.Kind); ra != rb {
		return cmp.Compare(ra, rb)
	}
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Aggregate folds the candidates of one day into a ProcessedEvent. The
// first candidate in priority order becomes the primary; the rest follow
// in AdditionalEvents. Returns false when there are no candidates. The
// input slice is left untouched.
func Aggregate(day int, candidates []Candidate) (model.ProcessedEvent, bool) {
	if len(candidates) == 0 {
		return model.ProcessedEvent{}, false
	}

	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b Candidate) int {
		return compareEvents(a.Event, b.Event)
	})

	additional := make([]model.Event, 0, len(sorted)-1)
	for _, c := range sorted[1:] {
		additional = append(additional, c.Event)
	}

	return model.ProcessedEvent{
		Day:              day,
		Event:            sorted[0].Event,
		Shape:            sorted[0].Shape,
		AdditionalEvents: additional,
	}, true
}
