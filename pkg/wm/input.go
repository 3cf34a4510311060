package wm

import (
	"time"

	"github.com/sirupsen/logrus"
)

// InputFilter is one link in the ordered filter chain of §4.H. A filter
// returns true if it consumed the event, stopping the chain; false lets
// the event fall through to the next filter.
type InputFilter interface {
	Name() string
	Pointer(pos PointerMove) bool
	Button(ev PointerButton) bool
	Axis(ev PointerAxis) bool
	Key(ev KeyPress) bool
	Touch(down *TouchDown, motion *TouchMotion, up *TouchUp) bool
	Gesture(begin *GestureBegin, update *GestureUpdate, end *GestureEnd) bool
}

// baseFilter gives every concrete filter a no-op implementation of every
// method so each one only overrides what it actually handles, the
// pattern the teacher's handler chains use for optional hook methods.
type baseFilter struct{ name string }

func (b baseFilter) Name() string                                               { return b.name }
func (baseFilter) Pointer(PointerMove) bool                                     { return false }
func (baseFilter) Button(PointerButton) bool                                    { return false }
func (baseFilter) Axis(PointerAxis) bool                                        { return false }
func (baseFilter) Key(KeyPress) bool                                            { return false }
func (baseFilter) Touch(*TouchDown, *TouchMotion, *TouchUp) bool                { return false }
func (baseFilter) Gesture(*GestureBegin, *GestureUpdate, *GestureEnd) bool      { return false }

// InputFilterChain holds filters in the order they were added. NewSpace
// installs an active move/resize grab first, then screen edges, then the
// window picker (consuming only while armed); there is no decoration,
// global-shortcut or forward-to-client filter, and an event no filter
// consumes is reported as not consumed.
type InputFilterChain struct {
	logger  *logrus.Logger
	filters []InputFilter
}

func NewInputFilterChain(logger *logrus.Logger) *InputFilterChain {
	if logger == nil {
		logger = logrus.New()
	}
	return &InputFilterChain{logger: logger}
}

// Use appends a filter to the end of the chain; callers are responsible
// for calling Use in the precedence order described above, since the
// chain itself does not reorder what it is given.
func (c *InputFilterChain) Use(f InputFilter) {
	c.filters = append(c.filters, f)
}

func (c *InputFilterChain) DispatchPointer(ev PointerMove) bool {
	for _, f := range c.filters {
		if f.Pointer(ev) {
			return true
		}
	}
	return false
}

func (c *InputFilterChain) DispatchButton(ev PointerButton) bool {
	for _, f := range c.filters {
		if f.Button(ev) {
			return true
		}
	}
	return false
}

func (c *InputFilterChain) DispatchAxis(ev PointerAxis) bool {
	for _, f := range c.filters {
		if f.Axis(ev) {
			return true
		}
	}
	return false
}

func (c *InputFilterChain) DispatchKey(ev KeyPress) bool {
	for _, f := range c.filters {
		if f.Key(ev) {
			return true
		}
	}
	return false
}

func (c *InputFilterChain) DispatchTouchDown(ev TouchDown) bool {
	for _, f := range c.filters {
		if f.Touch(&ev, nil, nil) {
			return true
		}
	}
	return false
}

func (c *InputFilterChain) DispatchTouchMotion(ev TouchMotion) bool {
	for _, f := range c.filters {
		if f.Touch(nil, &ev, nil) {
			return true
		}
	}
	return false
}

func (c *InputFilterChain) DispatchTouchUp(ev TouchUp) bool {
	for _, f := range c.filters {
		if f.Touch(nil, nil, &ev) {
			return true
		}
	}
	return false
}

func (c *InputFilterChain) DispatchGestureBegin(ev GestureBegin) bool {
	for _, f := range c.filters {
		if f.Gesture(&ev, nil, nil) {
			return true
		}
	}
	return false
}

func (c *InputFilterChain) DispatchGestureUpdate(ev GestureUpdate) bool {
	for _, f := range c.filters {
		if f.Gesture(nil, &ev, nil) {
			return true
		}
	}
	return false
}

func (c *InputFilterChain) DispatchGestureEnd(ev GestureEnd) bool {
	for _, f := range c.filters {
		if f.Gesture(nil, nil, &ev) {
			return true
		}
	}
	return false
}

// moveResizeFilter consumes pointer motion, button and key input while a
// move/resize grab is active, taking first precedence in the chain; touch
// and gesture input pass through.
type moveResizeFilter struct {
	baseFilter
	controller *MoveResizeController
	outputs    OutputSet
	windows    map[WindowID]*Window
}

func newMoveResizeFilter(c *MoveResizeController, outputs OutputSet, windows map[WindowID]*Window) *moveResizeFilter {
	return &moveResizeFilter{baseFilter: baseFilter{name: "move-resize"}, controller: c, outputs: outputs, windows: windows}
}

func (f *moveResizeFilter) Pointer(ev PointerMove) bool {
	id, active := f.controller.Active()
	if !active {
		return false
	}
	w, ok := f.windows[id]
	if !ok {
		return false
	}
	rect, ok := f.controller.Update(ev.Pos, f.outputs.Outputs())
	if ok {
		w.Geometry.Frame = rect
	}
	return true
}

func (f *moveResizeFilter) Button(ev PointerButton) bool {
	_, active := f.controller.Active()
	if !active {
		return false
	}
	if !ev.Pressed {
		if id, ok := f.controller.Active(); ok {
			if w, ok := f.windows[id]; ok {
				f.controller.Finish(w, w.Geometry.Frame)
			}
		}
	}
	return true
}

func (f *moveResizeFilter) Key(ev KeyPress) bool {
	_, active := f.controller.Active()
	if !active {
		return false
	}
	const keyEscape = 9
	if ev.Code == keyEscape {
		if id, ok := f.controller.Active(); ok {
			if w, ok := f.windows[id]; ok {
				f.controller.Cancel(w)
			}
		}
		return true
	}
	return true
}

// edgeFilter consumes pointer motion that fires an active screen edge or
// lies within an edge's approach zone, second precedence in the chain. A fired edge is reported through
// onTrigger rather than acted on here, keeping the engine's own
// proximity/cooldown bookkeeping free of Space's activation logic.
type edgeFilter struct {
	baseFilter
	engine     *EdgeEngine
	compositor Compositor
	now        func() time.Time
	onTrigger  func(*Edge)
}

func newEdgeFilter(engine *EdgeEngine, compositor Compositor, onTrigger func(*Edge)) *edgeFilter {
	return &edgeFilter{
		baseFilter: baseFilter{name: "screen-edges"},
		engine:     engine,
		compositor: compositor,
		now:        time.Now,
		onTrigger:  onTrigger,
	}
}

func (f *edgeFilter) Pointer(ev PointerMove) bool {
	if f.compositor != nil && f.compositor.EffectsHook() {
		// a fullscreen effect (e.g. a desktop-switch animation already in
		// flight) owns the screen while it plays; edges stay dormant.
		return false
	}
	if edge, fired := f.engine.Trigger(ev.Pos, f.now()); fired {
		if f.onTrigger != nil {
			f.onTrigger(edge)
		}
		return true
	}
	_, approached := f.engine.Approach(ev.Pos)
	return approached
}
