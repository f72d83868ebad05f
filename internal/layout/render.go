package layout

import (
	"maps"
	"slices"

	"campuscal/internal/model"
)

// Slice is one wedge of a composite day cell.
type Slice struct {
	ColorIndex   int     `json:"color_index"`
	StartDegrees float64 `json:"start_degrees"`
	SweepDegrees float64 `json:"sweep_degrees"`
	EventID      int64   `json:"event_id"`
}

// Renderer draws day cells. Implementations live in the presentation layer.
type Renderer interface {
	Single(day int, colorIndex int, shape model.Shape)
	Composite(day int, slices []Slice)
}

// Slices splits a day cell into equal wedges, one per event, in priority
// order starting at 0 degrees. Color indices are wrapped to paletteLen.
func Slices(pe model.ProcessedEvent, paletteLen int) []Slice {
	events := pe.Events()
	sweep := 360.0 / float64(len(events))
	out := make([]Slice, len(events))
	for i, ev := range events {
		out[i] = Slice{
			ColorIndex:   ev.Color(paletteLen),
			StartDegrees: float64(i) * sweep,
			SweepDegrees: sweep,
			EventID:      ev.ID,
		}
	}
	return out
}

// DrawShape is the shape a single cell is drawn with. A lone personal
// single-day event is drawn as a circle; everything else keeps its
// classified shape.
func DrawShape(pe model.ProcessedEvent) model.Shape {
	if pe.Shape == model.ShapeRoundedFull && pe.Event.Kind == model.KindPersonal {
		return model.ShapeCircle
	}
	return pe.Shape
}

// Render walks days in ascending order and hands each one to r, as a
// single cell when only one event occupies it and as a composite otherwise.
func Render(days map[int]model.ProcessedEvent, paletteLen int, r Renderer) {
	for _, d := range slices.Sorted(maps.Keys(days)) {
		pe := days[d]
		if !pe.Composite() {
			r.Single(d, pe.Event.Color(paletteLen), DrawShape(pe))
			continue
		}
		r.Composite(d, Slices(pe, paletteLen))
	}
}
