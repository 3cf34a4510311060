package wm

import "github.com/aios/wincore/internal/geom"

// PickerFilter implements the window-selector/picker mode: once armed,
// it consumes the next button press or key press as a pick rather than
// forwarding it, and resolves to the topmost window under the pointer
// (or, for a keyboard-driven pick, the currently active window).
//
// This is not part of the distilled module list; it mirrors a picker
// mode used for features like "pick a window to apply a rule to" or a
// screenshot tool's window-select step, grounded the same way the rest
// of the chain is on an ordered filter precedence.
type PickerFilter struct {
	baseFilter
	armed   bool
	onPick  func(WindowID)
	onCancel func()
	windows map[WindowID]*Window
	stacking *StackingOrder
	active  func() WindowID
}

func newPickerFilter(windows map[WindowID]*Window, stacking *StackingOrder, active func() WindowID) *PickerFilter {
	return &PickerFilter{
		baseFilter: baseFilter{name: "window-picker"},
		windows:    windows,
		stacking:   stacking,
		active:     active,
	}
}

// Arm enters picker mode; onPick fires with the chosen window, onCancel
// fires if the picker is dismissed without a selection (Escape).
func (p *PickerFilter) Arm(onPick func(WindowID), onCancel func()) {
	p.armed = true
	p.onPick = onPick
	p.onCancel = onCancel
}

// Disarm leaves picker mode without firing either callback, used when
// the caller itself decides the pick is no longer relevant.
func (p *PickerFilter) Disarm() {
	p.armed = false
	p.onPick = nil
	p.onCancel = nil
}

func (p *PickerFilter) Button(ev PointerButton) bool {
	if !p.armed || !ev.Pressed {
		return false
	}
	id := p.topWindowAt(ev.Pos)
	p.resolve(id)
	return true
}

func (p *PickerFilter) Pointer(ev PointerMove) bool {
	return p.armed
}

func (p *PickerFilter) Key(ev KeyPress) bool {
	if !p.armed {
		return false
	}
	const keyEscape = 9
	const keyReturn = 36
	switch ev.Code {
	case keyEscape:
		p.cancel()
		return true
	case keyReturn:
		p.resolve(p.active())
		return true
	}
	return true // every other key is swallowed while armed
}

func (p *PickerFilter) resolve(id WindowID) {
	cb := p.onPick
	p.Disarm()
	if cb != nil && id != 0 {
		cb(id)
	}
}

func (p *PickerFilter) cancel() {
	cb := p.onCancel
	p.Disarm()
	if cb != nil {
		cb()
	}
}

func (p *PickerFilter) topWindowAt(pos geom.Point) WindowID {
	var top WindowID
	for _, id := range p.stacking.List() {
		w, ok := p.windows[id]
		if !ok || !w.Shown() {
			continue
		}
		if w.Geometry.Frame.Contains(pos) {
			top = id
		}
	}
	return top
}
