package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEvent is wrapped by every validation failure of an Event.
var ErrInvalidEvent = errors.New("invalid event")

// Kind tags where an event came from. Hidden events never reach the
// layout engine.
type Kind int

const (
	KindPersonal Kind = iota
	KindSubscribed
	KindHidden
)

func (k Kind) String() string {
	switch k {
	case KindPersonal:
		return "personal"
	case KindSubscribed:
		return "subscribed"
	case KindHidden:
		return "hidden"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the lowercase names produced by Kind.String. An empty
// string means personal.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "personal":
		return KindPersonal, nil
	case "subscribed", "institutional":
		return KindSubscribed, nil
	case "hidden":
		return KindHidden, nil
	default:
		return 0, fmt.Errorf("unknown event kind %q", s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Event is the single record both personal and subscribed events are
// adapted into before layout.
type Event struct {
	ID int64 `json:"id"`

	Title            string `json:"title"`
	ShortDescription string `json:"short_description,omitempty"`
	LongDescription  string `json:"long_description,omitempty"`

	// Start and End are inclusive. Start == End is a single-day event.
	Start Date `json:"start"`
	End   Date `json:"end"`

	// ColorIndex points into a theme palette owned by the renderer.
	ColorIndex int `json:"color_index"`

	Kind    Kind `json:"kind"`
	Visible bool `json:"visible"`

	// SourceID is the feed ID for subscribed events, empty otherwise.
	SourceID string `json:"source_id,omitempty"`
}

// NewEvent builds a visible event and validates it.
func NewEvent(id int64, title string, start, end Date, kind Kind, colorIndex int) (Event, error) {
	ev := Event{
		ID:         id,
		Title:      title,
		Start:      start,
		End:        end,
		ColorIndex: colorIndex,
		Kind:       kind,
		Visible:    true,
	}
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Validate checks the invariants the layout engine relies on.
func (e Event) Validate() error {
	if !e.Start.IsValid() {
		return fmt.Errorf("%w: id %d: bad start date %s", ErrInvalidEvent, e.ID, e.Start)
	}
	if !e.End.IsValid() {
		return fmt.Errorf("%w: id %d: bad end date %s", ErrInvalidEvent, e.ID, e.End)
	}
	if e.End.Before(e.Start) {
		return fmt.Errorf("%w: id %d: end %s before start %s", ErrInvalidEvent, e.ID, e.End, e.Start)
	}
	if e.ColorIndex < 0 {
		return fmt.Errorf("%w: id %d: negative color index %d", ErrInvalidEvent, e.ID, e.ColorIndex)
	}
	switch e.Kind {
	case KindPersonal, KindSubscribed, KindHidden:
	default:
		return fmt.Errorf("%w: id %d: %s", ErrInvalidEvent, e.ID, e.Kind)
	}
	return nil
}

// SingleDay reports whether the event starts and ends on the same date.
func (e Event) SingleDay() bool {
	return e.Start == e.End
}

// Color wraps ColorIndex into a palette of paletteLen entries so a palette
// that shrank after the event was saved still yields a usable index.
func (e Event) Color(paletteLen int) int {
	if paletteLen <= 0 {
		return 0
	}
	return ((e.ColorIndex % paletteLen) + paletteLen) % paletteLen
}
