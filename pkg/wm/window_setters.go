package wm

import "github.com/aios/wincore/internal/geom"

// setDesktops is the idempotent core of §4.A's "set_desktops": empty
// means on-all-desktops, and assigning the same set twice is a no-op
// that emits no desktop-changed notification upstream (the Space layer
// decides whether to notify, this layer just makes the mutation safe to
// call redundantly).
func (w *Window) setDesktops(ids ...SubspaceID) bool {
	next := make(map[SubspaceID]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	if sameDesktopSet(w.Desktops, next) {
		return false
	}
	w.Desktops = next
	return true
}

func sameDesktopSet(a, b map[SubspaceID]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// setMinimized toggles the minimized flag, returning whether it changed.
// A fullscreen window cannot be minimized directly (§4.F); callers
// should clear fullscreen first.
func (w *Window) setMinimized(minimized bool) bool {
	if w.Visibility.Minimized == minimized {
		return false
	}
	w.Visibility.Minimized = minimized
	return true
}

// setFullscreen enters or leaves fullscreen, saving/restoring the frame
// rect across the transition the way quick-tile and maximize do.
func (w *Window) setFullscreen(full bool) bool {
	if w.Flags.Fullscreen == full {
		return false
	}
	if full {
		w.Geometry.FullscreenRestore = w.Geometry.Frame
	} else {
		w.Geometry.Frame = w.Geometry.FullscreenRestore
	}
	w.Flags.Fullscreen = full
	return true
}

// setMaximize applies a maximize bitmask, recording (or restoring) the
// pre-maximize frame the way §4.F describes: "restore rect is captured
// on the 0->nonzero transition and consulted on the nonzero->0
// transition."
func (w *Window) setMaximize(mode MaximizeMode) bool {
	if w.Maximize == mode {
		return false
	}
	if w.Maximize == MaximizeNone && mode != MaximizeNone {
		w.Geometry.Restore = w.Geometry.Frame
	}
	if w.Maximize != MaximizeNone && mode == MaximizeNone {
		w.Geometry.Frame = w.Geometry.Restore
	}
	w.Maximize = mode
	return true
}

func (w *Window) setKeepAbove(v bool) bool {
	if w.Flags.KeepAbove == v {
		return false
	}
	w.Flags.KeepAbove = v
	if v {
		w.Flags.KeepBelow = false
	}
	w.LayerDirty = true
	return true
}

func (w *Window) setKeepBelow(v bool) bool {
	if w.Flags.KeepBelow == v {
		return false
	}
	w.Flags.KeepBelow = v
	if v {
		w.Flags.KeepAbove = false
	}
	w.LayerDirty = true
	return true
}

func (w *Window) setSkipTaskbar(v bool) bool {
	if w.Flags.SkipTaskbar == v {
		return false
	}
	w.Flags.SkipTaskbar = v
	return true
}

func (w *Window) setSkipPager(v bool) bool {
	if w.Flags.SkipPager == v {
		return false
	}
	w.Flags.SkipPager = v
	return true
}

func (w *Window) setSkipSwitcher(v bool) bool {
	if w.Flags.SkipSwitcher == v {
		return false
	}
	w.Flags.SkipSwitcher = v
	return true
}

// setDemandsAttention is cleared implicitly the moment the window is
// activated (§4.E); callers other than Space.ActivateWindow should only
// ever set it true.
func (w *Window) setDemandsAttention(v bool) bool {
	if w.Flags.DemandsAttention == v {
		return false
	}
	w.Flags.DemandsAttention = v
	return true
}

func (w *Window) setShortcut(shortcut string) bool {
	if w.Shortcut == shortcut {
		return false
	}
	w.Shortcut = shortcut
	return true
}

func (w *Window) setOpacity(active, inactive float64) bool {
	if w.Opacity.Active == active && w.Opacity.Inactive == inactive {
		return false
	}
	w.Opacity = OpacityPair{Active: active, Inactive: inactive}
	return true
}

// setNoBorder records the user-requested override separately from the
// effective value, matching §3's "no_border (effective) vs
// user_no_border (explicit request)" split, and then recomputes the
// effective value with recomputeNoBorder.
func (w *Window) setNoBorder(v bool) bool {
	if w.Flags.UserNoBorder == v {
		return false
	}
	w.Flags.UserNoBorder = v
	w.recomputeNoBorder()
	return true
}

// recomputeNoBorder derives the single effective Flags.NoBorder bit from
// the user request and the fullscreen flag. Rule outcomes and a
// borderless-when-maximized policy are not folded in here.
func (w *Window) recomputeNoBorder() {
	if w.Rules.Force.DecoColor.Mode == OutcomeForce {
		// presence of a forced decoration implies a border is wanted
	}
	w.Flags.NoBorder = w.Flags.UserNoBorder || w.Flags.Fullscreen
}

// setFrameGeometry applies a new frame rect, clamping it to the
// min/max/increment constraints in Geometry unless force is set
// (MoveResizeController.Cancel sets it to put the pre-grab frame back
// unchanged).
func (w *Window) setFrameGeometry(rect geom.Rect, force bool) bool {
	if !force {
		rect = applySizeConstraints(rect, w.Geometry)
	}
	if w.Geometry.Frame == rect {
		return false
	}
	w.Geometry.Frame = rect
	return true
}

// applySizeConstraints clamps a candidate frame rect's size to the
// window's min/max size and rounds it down to the nearest size
// increment above the base size, mirroring the ICCCM WM_NORMAL_HINTS
// algorithm §4.F references without naming.
func applySizeConstraints(rect geom.Rect, g Geometry) geom.Rect {
	w, h := rect.W, rect.H
	if g.MinSize.W > 0 && w < g.MinSize.W {
		w = g.MinSize.W
	}
	if g.MinSize.H > 0 && h < g.MinSize.H {
		h = g.MinSize.H
	}
	if g.MaxSize.W > 0 && w > g.MaxSize.W {
		w = g.MaxSize.W
	}
	if g.MaxSize.H > 0 && h > g.MaxSize.H {
		h = g.MaxSize.H
	}
	if g.SizeIncrement.W > 1 {
		extra := w - g.BaseSize.W
		if extra > 0 {
			w = g.BaseSize.W + (extra/g.SizeIncrement.W)*g.SizeIncrement.W
		}
	}
	if g.SizeIncrement.H > 1 {
		extra := h - g.BaseSize.H
		if extra > 0 {
			h = g.BaseSize.H + (extra/g.SizeIncrement.H)*g.SizeIncrement.H
		}
	}
	return geom.Rect{X: rect.X, Y: rect.Y, W: w, H: h}
}

// resizeWithChecks is the entry point client-driven resizes and
// programmatic resizes share: it applies constraints, and reports
// whether the resulting geometry actually differs so callers can skip a
// redundant configure round-trip.
func (w *Window) resizeWithChecks(rect geom.Rect) (geom.Rect, bool) {
	constrained := applySizeConstraints(rect, w.Geometry)
	changed := constrained != w.Geometry.Frame
	return constrained, changed
}
