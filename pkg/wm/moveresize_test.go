package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aios/wincore/internal/geom"
)

func testOutputs() []Output {
	return []Output{{Name: "one", Geometry: geom.Rect{X: 0, Y: 0, W: 1920, H: 1080}}}
}

func TestMoveResizeStartBusyWhenAlreadyActive(t *testing.T) {
	c := NewMoveResizeController(10)
	w1 := newWindow(1, KindControlled)
	w1.Geometry.Frame = geom.Rect{X: 100, Y: 100, W: 300, H: 200}
	w2 := newWindow(2, KindControlled)

	require.NoError(t, c.Start(w1, ModeMove, ContactCenter, geom.Point{X: 110, Y: 110}))
	assert.ErrorIs(t, c.Start(w2, ModeMove, ContactCenter, geom.Point{X: 0, Y: 0}), ErrBusy)
}

func TestMoveResizeStartBusyWhenFullscreen(t *testing.T) {
	c := NewMoveResizeController(10)
	w := newWindow(1, KindControlled)
	w.Flags.Fullscreen = true
	assert.ErrorIs(t, c.Start(w, ModeMove, ContactCenter, geom.Point{}), ErrBusy)
}

func TestMoveResizeUpdateTranslatesOnMove(t *testing.T) {
	c := NewMoveResizeController(0) // disable snapping so the raw delta is visible
	w := newWindow(1, KindControlled)
	w.Geometry.Frame = geom.Rect{X: 500, Y: 500, W: 300, H: 200}

	require.NoError(t, c.Start(w, ModeMove, ContactCenter, geom.Point{X: 500, Y: 500}))
	rect, ok := c.Update(geom.Point{X: 520, Y: 530}, nil)
	require.True(t, ok)
	assert.Equal(t, geom.Rect{X: 520, Y: 530, W: 300, H: 200}, rect)
}

func TestMoveResizeUpdateGrowsFromResizedEdge(t *testing.T) {
	c := NewMoveResizeController(0)
	w := newWindow(1, KindControlled)
	w.Geometry.Frame = geom.Rect{X: 0, Y: 0, W: 200, H: 200}

	require.NoError(t, c.Start(w, ModeResize, ContactBottomRight, geom.Point{X: 200, Y: 200}))
	rect, ok := c.Update(geom.Point{X: 250, Y: 260}, nil)
	require.True(t, ok)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 250, H: 260}, rect)
}

func TestMoveResizeSnapsToOutputEdge(t *testing.T) {
	c := NewMoveResizeController(10)
	w := newWindow(1, KindControlled)
	w.Geometry.Frame = geom.Rect{X: 5, Y: 500, W: 300, H: 200}

	require.NoError(t, c.Start(w, ModeMove, ContactCenter, geom.Point{X: 5, Y: 500}))
	rect, ok := c.Update(geom.Point{X: 3, Y: 500}, testOutputs())
	require.True(t, ok)
	assert.Equal(t, 0, rect.X, "within snap distance of the left output edge should snap flush")
}

func TestMoveResizeFinishClearsActiveAndAppliesFrame(t *testing.T) {
	c := NewMoveResizeController(10)
	w := newWindow(1, KindControlled)
	w.Geometry.Frame = geom.Rect{X: 0, Y: 0, W: 100, H: 100}
	require.NoError(t, c.Start(w, ModeMove, ContactCenter, geom.Point{}))

	final := geom.Rect{X: 50, Y: 50, W: 100, H: 100}
	c.Finish(w, final)

	_, active := c.Active()
	assert.False(t, active)
	assert.Equal(t, final, w.Geometry.Frame)
}

func TestMoveResizeCancelRestoresStartFrame(t *testing.T) {
	c := NewMoveResizeController(10)
	w := newWindow(1, KindControlled)
	start := geom.Rect{X: 10, Y: 10, W: 100, H: 100}
	w.Geometry.Frame = start
	require.NoError(t, c.Start(w, ModeMove, ContactCenter, geom.Point{}))

	w.Geometry.Frame = geom.Rect{X: 999, Y: 999, W: 100, H: 100}
	c.Cancel(w)
	assert.Equal(t, start, w.Geometry.Frame)
}

func TestQuickTileRectHalvesAndQuarters(t *testing.T) {
	wa := geom.Rect{X: 0, Y: 0, W: 1000, H: 800}
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 500, H: 800}, quickTileRect(wa, QuickTileLeft))
	assert.Equal(t, geom.Rect{X: 500, Y: 0, W: 500, H: 800}, quickTileRect(wa, QuickTileRight))
	assert.Equal(t, geom.Rect{X: 500, Y: 400, W: 500, H: 400}, quickTileRect(wa, QuickTileBottomRight))
	assert.Equal(t, wa, quickTileRect(wa, QuickTileMaximize))
}

func TestApplyQuickTileCapturesRestoreOnce(t *testing.T) {
	w := newWindow(1, KindControlled)
	w.Geometry.Frame = geom.Rect{X: 20, Y: 20, W: 400, H: 300}
	wa := geom.Rect{X: 0, Y: 0, W: 1000, H: 800}

	rect := ApplyQuickTile(w, QuickTileLeft, wa)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 500, H: 800}, rect)
	assert.Equal(t, geom.Rect{X: 20, Y: 20, W: 400, H: 300}, w.Geometry.QuickTileRestore)

	restored := ApplyQuickTile(w, QuickTileNone, wa)
	assert.Equal(t, geom.Rect{X: 20, Y: 20, W: 400, H: 300}, restored)
}

func TestBorderlessWhenMaximizedRequiresPolicyAndFullMaximize(t *testing.T) {
	w := newWindow(1, KindControlled)
	w.Maximize = MaxFull
	assert.True(t, BorderlessWhenMaximized(w, true))
	assert.False(t, BorderlessWhenMaximized(w, false))

	w.Maximize = MaxVertical
	assert.False(t, BorderlessWhenMaximized(w, true))
}
