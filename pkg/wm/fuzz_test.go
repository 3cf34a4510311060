package wm

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aios/wincore/internal/geom"
)

// randomAttrs fabricates a plausible wire-level client announcement,
// the way a real client's title/class/geometry would arrive in any
// combination. Manage must never panic or leave invariants broken no
// matter what a misbehaving client sends.
func randomAttrs() InitialAttrs {
	return InitialAttrs{
		Title:        gofakeit.Sentence(3),
		Class:        gofakeit.AppName(),
		Instance:     gofakeit.Word(),
		WindowType:   WindowType(gofakeit.Number(0, 6)),
		UserTime:     int64(gofakeit.Number(-1, 1_000_000)),
		AcceptsFocus: gofakeit.Bool(),
		Fullscreen:   gofakeit.Bool(),
		KeepAbove:    gofakeit.Bool(),
		KeepBelow:    gofakeit.Bool(),
		Iconic:       gofakeit.Bool(),
		ClientPos:    geom.Point{X: gofakeit.Number(-500, 3000), Y: gofakeit.Number(-500, 3000)},
		ClientSize:   geom.Size{W: gofakeit.Number(1, 4000), H: gofakeit.Number(1, 4000)},
		BufferSize:   geom.Size{W: gofakeit.Number(1, 4000), H: gofakeit.Number(1, 4000)},
	}
}

func TestManageNeverPanicsOnRandomizedClientAttrs(t *testing.T) {
	gofakeit.Seed(1)
	s := newTestSpace()

	for i := 0; i < 200; i++ {
		id := WindowID(i + 1)
		err := s.HandleEvent(context.Background(), WindowCreated{ClientID: id, InitialAttrs: randomAttrs()})
		require.NoError(t, err)

		w, ok := s.Window(id)
		require.True(t, ok)
		assert.Contains(t, s.StackingList(), id, "every managed window must land in the stacking order")
		assert.True(t, w.Layer < numLayers, "layer assignment must stay within the defined layer bands")
	}
}
