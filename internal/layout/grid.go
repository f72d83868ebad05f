// Package layout decides, for every day of a month, which event a calendar
// cell shows, how the cell is shaped and which coincident events are
// folded into a composite cell. Everything here is a pure function of its
// arguments.
package layout

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidWeekStart = errors.New("invalid week start")
)

// DefaultWeekStart is the first column of the grid unless configured
// otherwise.
const DefaultWeekStart = time.Monday

// Week is one grid row. Zero marks a cell with no day.
type Week [7]int

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func checkMonth(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidMonth, int(month))
	}
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidMonth, year)
	}
	return nil
}

// BuildGrid lays the month out in weeks starting on weekStart (Sunday or
// Monday). Leading and trailing cells outside the month are zero.
func BuildGrid(year int, month time.Month, weekStart time.Weekday) ([]Week, error) {
	if err := checkMonth(year, month); err != nil {
		return nil, err
	}
	if weekStart != time.Sunday && weekStart != time.Monday {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWeekStart, weekStart)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	lead := (int(first) - int(weekStart) + 7) % 7
	n := DaysIn(year, month)

	weeks := make([]Week, 0, (lead+n+6)/7)
	var w Week
	col := lead
	for day := 1; day <= n; day++ {
		w[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, w)
			w = Week{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, w)
	}
	return weeks, nil
}
