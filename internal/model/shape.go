package model

import "fmt"

// Shape says how a day cell's corners are rounded to show where the day
// sits inside an event's span.
type Shape int

const (
	ShapeRoundedFull Shape = iota
	ShapeRoundedStart
	ShapeRoundedMiddle
	ShapeRoundedEnd
	// ShapeCircle is how a personal single-day cell is drawn. The
	// classifier never returns it; see layout.DrawShape.
	ShapeCircle
)

func (s Shape) String() string {
	switch s {
	case ShapeRoundedFull:
		return "rounded_full"
	case ShapeRoundedStart:
		return "rounded_start"
	case ShapeRoundedMiddle:
		return "rounded_middle"
	case ShapeRoundedEnd:
		return "rounded_end"
	case ShapeCircle:
		return "circle"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ProcessedEvent is the layout result for one occupied day.
type ProcessedEvent struct {
	Day   int   `json:"day"`
	Event Event `json:"event"`
	Shape Shape `json:"shape"`
	// AdditionalEvents holds the other events on the same day in
	// priority order. Never contains Event.
	AdditionalEvents []Event `json:"additional_events"`
}

// Composite reports whether more than one event shares the day.
func (p ProcessedEvent) Composite() bool {
	return len(p.AdditionalEvents) > 0
}

// Events returns the primary event followed by the additional ones.
func (p ProcessedEvent) Events() []Event {
	out := make([]Event, 0, 1+len(p.AdditionalEvents))
	out = append(out, p.Event)
	return append(out, p.AdditionalEvents...)
}
