package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDate_ParseAndCompare(t *testing.T) {
	d, err := ParseDate("2025-05-01")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2025, Month: time.May, Day: 1}, d)
	assert.Equal(t, "2025-05-01", d.String())

	next := d.AddDays(30)
	assert.Equal(t, Date{Year: 2025, Month: time.May, Day: 31}, next)
	assert.Equal(t, Date{Year: 2025, Month: time.June, Day: 1}, next.AddDays(1))
	assert.Equal(t, Date{Year: 2025, Month: time.April, Day: 30}, d.AddDays(-1))

	assert.True(t, d.Before(next))
	assert.True(t, next.After(d))
	assert.Equal(t, 0, d.Compare(d))
	assert.Equal(t, -1, Date{2024, time.December, 31}.Compare(d))

	_, err = ParseDate("2025-02-30")
	assert.Error(t, err)
	_, err = NewDate(2025, time.February, 29)
	assert.Error(t, err)
	_, err = NewDate(2024, time.February, 29)
	assert.NoError(t, err)
	assert.False(t, Date{}.IsValid())
}

func TestDateOf_UsesLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	instant := time.Date(2025, time.May, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, Date{2025, time.May, 1}, DateOf(instant))
	assert.Equal(t, Date{2025, time.May, 2}, DateOf(instant.In(seoul)))
}

func TestDate_TextEncoding(t *testing.T) {
	type doc struct {
		Start Date `json:"start" yaml:"start"`
	}

	var fromYAML doc
	require.NoError(t, yaml.Unmarshal([]byte("start: 2025-04-28\n"), &fromYAML))
	assert.Equal(t, Date{2025, time.April, 28}, fromYAML.Start)

	out, err := yaml.Marshal(fromYAML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "2025-04-28")

	b, err := json.Marshal(fromYAML)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2025-04-28"}`, string(b))

	var fromJSON doc
	require.NoError(t, json.Unmarshal(b, &fromJSON))
	assert.Equal(t, fromYAML, fromJSON)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"tomorrow"}`), &fromJSON))
}

func TestNewEvent_Validation(t *testing.T) {
	start := Date{2025, time.May, 3}

	ev, err := NewEvent(1, "exam", start, start, KindPersonal, 2)
	require.NoError(t, err)
	assert.True(t, ev.Visible)
	assert.True(t, ev.SingleDay())

	_, err = NewEvent(2, "backwards", start, start.AddDays(-1), KindPersonal, 0)
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = NewEvent(3, "negative color", start, start, KindPersonal, -1)
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = NewEvent(4, "bad date", Date{2025, time.February, 30}, start, KindPersonal, 0)
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = NewEvent(5, "bad kind", start, start, Kind(42), 0)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestEvent_ColorWraps(t *testing.T) {
	ev := Event{ColorIndex: 11}
	assert.Equal(t, 3, ev.Color(8))
	assert.Equal(t, 11, ev.Color(12))
	assert.Equal(t, 0, ev.Color(0))
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{KindPersonal, KindSubscribed, KindHidden} {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindPersonal, k)

	k, err = ParseKind("Institutional")
	require.NoError(t, err)
	assert.Equal(t, KindSubscribed, k)

	_, err = ParseKind("club")
	assert.Error(t, err)
}

func TestProcessedEvent_JSON(t *testing.T) {
	d := Date{2025, time.May, 1}
	pe := ProcessedEvent{
		Day:              1,
		Event:            Event{ID: 1, Title: "a", Start: d, End: d, Kind: KindSubscribed, Visible: true},
		Shape:            ShapeRoundedFull,
		AdditionalEvents: []Event{{ID: 2, Title: "b", Start: d, End: d, Visible: true}},
	}
	assert.True(t, pe.Composite())
	assert.Len(t, pe.Events(), 2)

	b, err := json.Marshal(pe)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "rounded_full", raw["shape"])
	assert.Equal(t, "subscribed", raw["event"].(map[string]any)["kind"])
	assert.Equal(t, "personal", raw["additional_events"].([]any)[0].(map[string]any)["kind"])
}
