package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"campuscal/internal/layout"
	"campuscal/internal/model"
)

// glyphs mark a day cell by shape in the text grid.
var glyphs = map[model.Shape]string{
	model.ShapeCircle:        "o",
	model.ShapeRoundedFull:   "#",
	model.ShapeRoundedStart:  "[",
	model.ShapeRoundedMiddle: "=",
	model.ShapeRoundedEnd:    "]",
}

// resolveMonth picks the month to print. raw is either "YYYY-MM" or a
// bare month number; year overrides cur's year for the bare form.
func resolveMonth(raw string, year int, cur layout.YearMonth) (layout.YearMonth, error) {
	ym := cur
	if year != 0 {
		ym.Year = year
	}
	switch {
	case raw == "":
	case strings.Contains(raw, "-"):
		parsed, err := layout.ParseYearMonth(raw)
		if err != nil {
			return layout.YearMonth{}, err
		}
		ym = parsed
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return layout.YearMonth{}, fmt.Errorf("%w: %q", layout.ErrInvalidMonth, raw)
		}
		ym.Month = time.Month(n)
	}
	return ym, nil
}

// monthRange lists count consecutive months starting at from.
func monthRange(from layout.YearMonth, count int) []layout.YearMonth {
	out := make([]layout.YearMonth, 0, max(count, 1))
	for ym := from; len(out) < max(count, 1); ym = ym.Next() {
		out = append(out, ym)
	}
	return out
}

// textRenderer records one marker per day; composite cells get "%".
type textRenderer struct {
	marks map[int]string
}

func (r *textRenderer) Single(day int, _ int, shape model.Shape) {
	r.marks[day] = glyphs[shape]
}

func (r *textRenderer) Composite(day int, _ []layout.Slice) {
	r.marks[day] = "%"
}

func writeMonth(w io.Writer, ym layout.YearMonth, weekStart time.Weekday, weeks []layout.Week, days map[int]model.ProcessedEvent, paletteLen int) error {
	tr := &textRenderer{marks: make(map[int]string, len(days))}
	layout.Render(days, paletteLen, tr)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", ym.Month, ym.Year)
	for i := range 7 {
		wd := time.Weekday((int(weekStart) + i) % 7)
		fmt.Fprintf(&b, " %-3s", wd.String()[:2])
	}
	b.WriteString("\n")

	for _, week := range weeks {
		for _, d := range week {
			if d == 0 {
				b.WriteString("    ")
				continue
			}
			fmt.Fprintf(&b, " %2d%-1s", d, tr.marks[d])
		}
		b.WriteString("\n")
	}

	if len(days) > 0 {
		b.WriteString("\n")
	}
	for _, d := range slices.Sorted(maps.Keys(days)) {
		pe := days[d]
		fmt.Fprintf(&b, "%2d  %s (%s)", d, pe.Event.Title, pe.Event.Kind)
		if pe.Composite() {
			titles := make([]string, len(pe.AdditionalEvents))
			for i, ev := range pe.AdditionalEvents {
				titles[i] = ev.Title
			}
			fmt.Fprintf(&b, " +%d: %s", len(titles), strings.Join(titles, ", "))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
