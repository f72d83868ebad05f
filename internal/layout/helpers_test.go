package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"campuscal/internal/model"
)

func date(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func event(t *testing.T, id int64, kind model.Kind, start, end string) model.Event {
	t.Helper()
	ev, err := model.NewEvent(id, "event", date(t, start), date(t, end), kind, int(id))
	require.NoError(t, err)
	return ev
}

func ids(events []model.Event) []int64 {
	out := make([]int64, len(events))
	for i, ev := range events {
		out[i] = ev.ID
	}
	return out
}
