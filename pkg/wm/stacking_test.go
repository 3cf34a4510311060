package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStackingWindow(id WindowID, kind Kind) *Window {
	w := newWindow(id, kind)
	return w
}

func TestLayerForDerivesFromFlags(t *testing.T) {
	normal := newTestStackingWindow(1, KindControlled)
	assert.Equal(t, LayerNormal, layerFor(normal, false))

	above := newTestStackingWindow(2, KindControlled)
	above.Flags.KeepAbove = true
	assert.Equal(t, LayerAbove, layerFor(above, false))

	dock := newTestStackingWindow(3, KindControlled)
	dock.Type = TypeDock
	assert.Equal(t, LayerDock, layerFor(dock, false))

	fullscreenActive := newTestStackingWindow(4, KindControlled)
	fullscreenActive.Flags.Fullscreen = true
	assert.Equal(t, LayerActiveFullscreen, layerFor(fullscreenActive, true))
	assert.Equal(t, LayerNormal, layerFor(fullscreenActive, false), "fullscreen only wins its layer while active")
}

func TestRestackGroupsByLayer(t *testing.T) {
	s := NewStackingOrder(nil)
	windows := map[WindowID]*Window{}

	dock := newTestStackingWindow(1, KindControlled)
	dock.Type = TypeDock
	windows[1] = dock

	normal := newTestStackingWindow(2, KindControlled)
	windows[2] = normal

	above := newTestStackingWindow(3, KindControlled)
	above.Flags.KeepAbove = true
	windows[3] = above

	s.raw = []WindowID{1, 2, 3}
	s.Restack(windows)

	order := s.List()
	require.Len(t, order, 3)
	posNormal := indexOf(order, 2)
	posDock := indexOf(order, 1)
	posAbove := indexOf(order, 3)
	assert.Less(t, posNormal, posDock, "normal sits below dock")
	assert.Less(t, posDock, posAbove, "dock sits below keep-above")
}

func TestEnforceTransientOrderKeepsChildAboveParent(t *testing.T) {
	windows := map[WindowID]*Window{}
	parent := newTestStackingWindow(1, KindControlled)
	parent.Children = map[WindowID]struct{}{2: {}}
	windows[1] = parent

	child := newTestStackingWindow(2, KindControlled)
	child.Parent = 1
	windows[2] = child

	ordered := enforceTransientOrder([]WindowID{2, 1}, windows)
	require.Len(t, ordered, 2)
	assert.Equal(t, WindowID(1), ordered[0])
	assert.Equal(t, WindowID(2), ordered[1])
}

// TestEnforceTransientOrderRelocatesModalParentPastSibling reproduces §8
// scenario 1: A and B share the normal layer with B on top, then a
// modal dialog D transient for A arrives. The whole of A's subtree must
// be pulled up to sit directly under D, ahead of the unrelated sibling
// B, rather than merely appended next to A's pre-existing position.
func TestEnforceTransientOrderRelocatesModalParentPastSibling(t *testing.T) {
	windows := map[WindowID]*Window{}

	a := newTestStackingWindow(1, KindControlled)
	windows[1] = a

	b := newTestStackingWindow(2, KindControlled)
	windows[2] = b

	d := newTestStackingWindow(3, KindControlled)
	d.Parent = 1
	d.Flags.Modal = true
	a.Children = map[WindowID]struct{}{3: {}}
	windows[3] = d

	ordered := enforceTransientOrder([]WindowID{1, 2, 3}, windows)
	require.Equal(t, []WindowID{2, 1, 3}, ordered, "A is pulled up to sit immediately under modal D, ahead of sibling B")
}

func TestRaiseOrLowerTogglesTopWindow(t *testing.T) {
	s := NewStackingOrder(nil)
	windows := map[WindowID]*Window{
		1: newTestStackingWindow(1, KindControlled),
		2: newTestStackingWindow(2, KindControlled),
	}
	s.raw = []WindowID{1, 2}
	s.Restack(windows)
	require.Equal(t, WindowID(2), s.topOfLayer(LayerNormal, windows))

	// 2 is already on top, so RaiseOrLower must lower it, leaving 1 on top.
	s.RaiseOrLower(2, windows)
	assert.Equal(t, WindowID(1), s.topOfLayer(LayerNormal, windows))

	// 1 is now on top, so RaiseOrLower must lower it in turn.
	s.RaiseOrLower(1, windows)
	assert.Equal(t, WindowID(2), s.topOfLayer(LayerNormal, windows))
}

func indexOf(list []WindowID, id WindowID) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}
