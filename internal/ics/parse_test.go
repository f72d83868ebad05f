package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFeed = Feed{ID: "uni", Name: "University", URL: "https://uni.example/cal.ics?token=secret", Color: 3}

func TestParseICS(t *testing.T) {
	events, err := ParseICS(testFeed, []byte(academicFeed))
	require.NoError(t, err)
	require.Len(t, events, 3, "event without UID is skipped")

	exam := events[0]
	assert.Equal(t, "exam-week@uni.example", exam.UID)
	assert.Equal(t, "Exam week", exam.Summary)
	assert.Equal(t, "All faculties", exam.Description)
	assert.True(t, exam.AllDay)
	assert.Equal(t, 28, exam.Start.Day())
	assert.Equal(t, 3, exam.End.Day())
	assert.Empty(t, exam.RawRRule)

	lecture := events[1]
	assert.False(t, lecture.AllDay)
	assert.Equal(t, "FREQ=WEEKLY;COUNT=4", lecture.RawRRule)
	assert.Equal(t, "Hall B", lecture.Location)
	assert.True(t, lecture.Start.Equal(time.Date(2025, time.May, 5, 9, 0, 0, 0, time.UTC)))
	require.Len(t, lecture.ExDates, 1)
	assert.True(t, lecture.ExDates[0].Equal(time.Date(2025, time.May, 12, 9, 0, 0, 0, time.UTC)))

	moved := events[2]
	assert.True(t, moved.IsOverride)
	require.NotNil(t, moved.Recurrence)
	assert.True(t, moved.Recurrence.Equal(time.Date(2025, time.May, 19, 9, 0, 0, 0, time.UTC)))
}

func TestParseICS_Empty(t *testing.T) {
	_, err := ParseICS(testFeed, nil)
	assert.Error(t, err)
}

func TestParseICSTime(t *testing.T) {
	utc, err := parseICSTime("20250101T090000Z", nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, utc.Location())

	kst := time.FixedZone("KST", 9*3600)
	floating, err := parseICSTime("20250101T090000", kst)
	require.NoError(t, err)
	assert.Equal(t, 9, floating.Hour())
	assert.Equal(t, kst, floating.Location())

	day, err := parseICSTime("20250101", kst)
	require.NoError(t, err)
	assert.Equal(t, 1, day.Day())

	_, err = parseICSTime(" ", kst)
	assert.Error(t, err)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://uni.example/...(redacted)", redactURL(testFeed.URL))
	assert.Equal(t, "ics://...(redacted)", redactURL("not a url"))
}
