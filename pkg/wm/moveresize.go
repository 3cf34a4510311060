package wm

import "github.com/aios/wincore/internal/geom"

// MoveResizeMode distinguishes a move from a resize, since a resize
// additionally tracks which edge/corner is being dragged.
type MoveResizeMode int

const (
	ModeMove MoveResizeMode = iota
	ModeResize
)

// MoveResizeState is the single in-flight move/resize operation the
// engine allows at a time (§4.F, ErrBusy guards a second attempt).
type MoveResizeState struct {
	Window       WindowID
	Mode         MoveResizeMode
	Contact      Contact // which edge/corner for a resize; ContactCenter for a move
	StartPointer geom.Point
	StartFrame   geom.Rect
	Snapping     bool
	unconstrainedByKeyboard bool // keyboard-driven move/resize skips pointer-delta math
}

// MoveResizeController runs the single shared state machine. Only one
// window may be mid move/resize at a time; Start returns ErrBusy if
// another is already active.
type MoveResizeController struct {
	snapDistance int
	current      *MoveResizeState
}

func NewMoveResizeController(snapDistance int) *MoveResizeController {
	return &MoveResizeController{snapDistance: snapDistance}
}

// Active reports whether a move/resize is currently in flight, and for
// which window.
func (c *MoveResizeController) Active() (WindowID, bool) {
	if c.current == nil {
		return 0, false
	}
	return c.current.Window, true
}

// Start begins a move or resize for w, grabbing the pointer at
// startPointer. Returns ErrBusy if another window already has the grab.
func (c *MoveResizeController) Start(w *Window, mode MoveResizeMode, contact Contact, startPointer geom.Point) error {
	if c.current != nil {
		return ErrBusy
	}
	if w.Flags.Fullscreen {
		return ErrBusy
	}
	c.current = &MoveResizeState{
		Window:       w.ID,
		Mode:         mode,
		Contact:      contact,
		StartPointer: startPointer,
		StartFrame:   w.Geometry.Frame,
	}
	return nil
}

// Update applies a pointer delta to the in-flight operation and returns
// the new candidate frame rect; it does not mutate the window itself so
// callers can apply screen-edge snapping or quick-tile preview logic
// first.
func (c *MoveResizeController) Update(pos geom.Point, outputs []Output) (geom.Rect, bool) {
	if c.current == nil {
		return geom.Rect{}, false
	}
	dx := pos.X - c.current.StartPointer.X
	dy := pos.Y - c.current.StartPointer.Y
	rect := c.current.StartFrame

	switch c.current.Mode {
	case ModeMove:
		rect = rect.Translated(geom.Point{X: dx, Y: dy})
	case ModeResize:
		rect = applyResizeContact(rect, c.current.Contact, dx, dy)
	}

	if snapped, ok := c.snapToOutputs(rect, outputs); ok {
		rect = snapped
		c.current.Snapping = true
	} else {
		c.current.Snapping = false
	}
	return rect, true
}

// applyResizeContact grows/shrinks the rect from the dragged edge,
// leaving the opposite edge fixed, per the nine-way Contact of §4.F.
func applyResizeContact(rect geom.Rect, contact Contact, dx, dy int) geom.Rect {
	left, top, right, bottom := rect.X, rect.Y, rect.Right(), rect.Bottom()
	switch contact {
	case ContactLeft, ContactTopLeft, ContactBottomLeft:
		left += dx
	case ContactRight, ContactTopRight, ContactBottomRight:
		right += dx
	}
	switch contact {
	case ContactTop, ContactTopLeft, ContactTopRight:
		top += dy
	case ContactBottom, ContactBottomLeft, ContactBottomRight:
		bottom += dy
	}
	if right < left {
		right = left
	}
	if bottom < top {
		bottom = top
	}
	return geom.RectFromPoints(geom.Point{X: left, Y: top}, geom.Size{W: right - left, H: bottom - top})
}

// snapToOutputs pulls a candidate rect onto nearby output/work-area
// edges within the configured snap distance, matching §4.F's "snapping"
// behaviour that predates and is independent of the screen-edge engine's
// push-back snapping.
func (c *MoveResizeController) snapToOutputs(rect geom.Rect, outputs []Output) (geom.Rect, bool) {
	if c.snapDistance <= 0 {
		return rect, false
	}
	snapped := rect
	did := false
	for _, o := range outputs {
		wa := o.WorkArea()
		if abs(rect.X-wa.X) <= c.snapDistance {
			snapped = snapped.Translated(geom.Point{X: wa.X - snapped.X})
			did = true
		}
		if abs(rect.Right()-wa.Right()) <= c.snapDistance {
			snapped = snapped.Translated(geom.Point{X: wa.Right() - snapped.Right()})
			did = true
		}
		if abs(rect.Y-wa.Y) <= c.snapDistance {
			snapped = snapped.Translated(geom.Point{Y: wa.Y - snapped.Y})
			did = true
		}
		if abs(rect.Bottom()-wa.Bottom()) <= c.snapDistance {
			snapped = snapped.Translated(geom.Point{Y: wa.Bottom() - snapped.Bottom()})
			did = true
		}
	}
	return snapped, did
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Finish commits the last Update result to w and clears the in-flight
// state. Callers pass the final rect (already constraint-applied).
func (c *MoveResizeController) Finish(w *Window, final geom.Rect) {
	if c.current == nil {
		return
	}
	w.setFrameGeometry(final, false)
	c.current = nil
}

// Cancel aborts the in-flight operation, restoring the window to its
// pre-grab frame.
func (c *MoveResizeController) Cancel(w *Window) {
	if c.current == nil {
		return
	}
	w.setFrameGeometry(c.current.StartFrame, true)
	c.current = nil
}

// quickTileRect computes the target frame for a quick-tile zone within a
// work area, per §4.F's half/quarter split.
func quickTileRect(wa geom.Rect, q QuickTile) geom.Rect {
	halfW := wa.W / 2
	halfH := wa.H / 2
	switch q {
	case QuickTileLeft:
		return geom.Rect{X: wa.X, Y: wa.Y, W: halfW, H: wa.H}
	case QuickTileRight:
		return geom.Rect{X: wa.X + halfW, Y: wa.Y, W: wa.W - halfW, H: wa.H}
	case QuickTileTop:
		return geom.Rect{X: wa.X, Y: wa.Y, W: wa.W, H: halfH}
	case QuickTileBottom:
		return geom.Rect{X: wa.X, Y: wa.Y + halfH, W: wa.W, H: wa.H - halfH}
	case QuickTileTopLeft:
		return geom.Rect{X: wa.X, Y: wa.Y, W: halfW, H: halfH}
	case QuickTileTopRight:
		return geom.Rect{X: wa.X + halfW, Y: wa.Y, W: wa.W - halfW, H: halfH}
	case QuickTileBottomLeft:
		return geom.Rect{X: wa.X, Y: wa.Y + halfH, W: halfW, H: wa.H - halfH}
	case QuickTileBottomRight:
		return geom.Rect{X: wa.X + halfW, Y: wa.Y + halfH, W: wa.W - halfW, H: wa.H - halfH}
	case QuickTileMaximize:
		return wa
	default:
		return wa
	}
}

// ApplyQuickTile sets w's quick-tile zone, saving the restore rect on
// the none->nonzero transition exactly as setMaximize does, and returns
// the new frame rect the caller should apply.
func ApplyQuickTile(w *Window, q QuickTile, wa geom.Rect) geom.Rect {
	if w.QuickTile == QuickTileNone && q != QuickTileNone {
		w.Geometry.QuickTileRestore = w.Geometry.Frame
	}
	w.QuickTile = q
	if q == QuickTileNone {
		return w.Geometry.QuickTileRestore
	}
	return quickTileRect(wa, q)
}

// BorderlessWhenMaximized reports whether w's effective no-border state
// should be forced by its maximize state, per §4.F's "borderless when
// maximized" policy switch (the policy bit itself lives in config, this
// just applies it once enabled).
func BorderlessWhenMaximized(w *Window, policyEnabled bool) bool {
	return policyEnabled && w.Maximize.Full()
}
