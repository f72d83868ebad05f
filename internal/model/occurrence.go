package model

import "time"

// Occurrence is a single concrete instance of a feed VEVENT after
// recurrence expansion and timezone normalization. The ics package turns
// these into subscribed Events.
type Occurrence struct {
	SourceID string
	UID      string

	// InstanceKey tells apart instances of a recurring event; it is the
	// local start time in RFC 3339.
	InstanceKey string

	Summary     string
	Description string
	Location    string

	AllDay bool

	// Start and End are in the display timezone. End is exclusive.
	Start time.Time
	End   time.Time
}
