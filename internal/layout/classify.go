package layout

import "campuscal/internal/model"

// OccursOn reports whether day lies inside ev's inclusive span.
func OccursOn(ev model.Event, day model.Date) bool {
	return !day.Before(ev.Start) && !day.After(ev.End)
}

// Classify returns the shape ev takes on day, or false when ev does not
// occur on that day. The result depends only on where day sits within the
// span, never on other events.
func Classify(ev model.Event, day model.Date) (model.Shape, bool) {
	if !OccursOn(ev, day) {
		return 0, false
	}
	switch {
	case ev.SingleDay():
		return model.ShapeRoundedFull, true
	case day == ev.Start:
		return model.ShapeRoundedStart, true
	case day == ev.End:
		return model.ShapeRoundedEnd, true
	default:
		return model.ShapeRoundedMiddle, true
	}
}
