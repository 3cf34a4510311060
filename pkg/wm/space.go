package wm

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/aios/wincore/internal/geom"
)

// Space is the single top-level coordinator of §4.I: it owns every
// sub-manager, dispatches incoming events to them in the right order,
// and is the only type external callers construct directly.
//
// HandleEvent is wrapped in its own trace span, so a caller with
// OpenTelemetry wired up gets per-event latency for free; the other
// entry points (ActivateWindow, SendToDesktop, Tick, ...) open no span.
// With no SDK configured the tracer is a no-op and this costs nothing
// beyond a few struct allocations.
type Space struct {
	cfg     Config
	logger  *logrus.Logger
	tracer  trace.Tracer
	metrics *Metrics

	alloc      *idAllocator
	windows    map[WindowID]*Window
	groups     *groupRegistry
	subspaces  *SubspaceManager
	stacking   *StackingOrder
	focus      *FocusChain
	rules      *RuleBook
	moveResize *MoveResizeController
	edges      *EdgeEngine
	remnants   *RemnantTracker
	input      *InputFilterChain
	picker     *PickerFilter

	compositor Compositor
	decoration DecorationFactory
	outputs    OutputSet

	showingDesktop bool
	showingDesktopSaved map[WindowID]bool
}

// Deps bundles the external collaborators a Space is constructed
// against; any left nil falls back per §7 (no compositor means repaint
// scheduling is a no-op, no decoration factory means every window is
// borderless, no output set means the synthetic 1x1 fallback).
type Deps struct {
	Compositor Compositor
	Decoration DecorationFactory
	Outputs    OutputSet
	Logger     *logrus.Logger
	Registerer prometheus.Registerer
	Config     Config
}

// NewSpace constructs a Space with cfg.SubspaceCount subspaces and every
// sub-manager wired together, ready to receive events via HandleEvent.
func NewSpace(deps Deps) *Space {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
	}
	outputs := deps.Outputs
	if outputs == nil {
		outputs = fallbackOutputSet()
	}
	cfg := deps.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}

	alloc := newIDAllocator()
	s := &Space{
		cfg:                 cfg,
		logger:              logger,
		tracer:              otel.Tracer("wincore/space"),
		metrics:             NewMetrics(deps.Registerer),
		alloc:               alloc,
		windows:             make(map[WindowID]*Window),
		groups:              newGroupRegistry(alloc),
		subspaces:           NewSubspaceManager(logger, alloc),
		stacking:            NewStackingOrder(logger),
		focus:               NewFocusChain(logger),
		rules:               NewRuleBook(logger, ""),
		moveResize:          NewMoveResizeController(cfg.SnapDistance),
		edges:               NewEdgeEngine(logger, cfg.EdgePushBackPx, cfg.EdgeTimeThreshold, cfg.EdgeReactivateThreshold, cfg.EdgeApproachPx),
		remnants:            NewRemnantTracker(),
		compositor:          deps.Compositor,
		decoration:          deps.Decoration,
		outputs:             outputs,
		showingDesktopSaved: make(map[WindowID]bool),
	}
	s.subspaces.SetCount(cfg.SubspaceCount)
	s.subspaces.SetRows(cfg.SubspaceRows)
	s.edges.Recreate(outputs.Outputs(), cfg.WrapSubspaces)

	s.input = NewInputFilterChain(logger)
	s.picker = newPickerFilter(s.windows, s.stacking, s.focus.Active)
	s.input.Use(newMoveResizeFilter(s.moveResize, s.outputs, s.windows))
	s.input.Use(newEdgeFilter(s.edges, s.compositor, s.handleEdgeTrigger))
	s.input.Use(s.picker)

	return s
}

func (s *Space) manageCtx() *manageContext {
	return &manageContext{
		alloc:      s.alloc,
		rules:      s.rules,
		groups:     s.groups,
		subspaces:  s.subspaces,
		stacking:   s.stacking,
		focus:      s.focus,
		decoration: s.decoration,
		outputs:    s.outputs,
		compositor: s.compositor,
		logger:     s.logger,
		windows:    s.windows,
	}
}

// HandleEvent dispatches one decoded protocol event to the right
// sub-manager. This is the single entry point §5 describes as
// cooperative and synchronous: no step here blocks or spawns a
// goroutine, so the caller's own event loop fully controls pacing.
func (s *Space) HandleEvent(ctx context.Context, ev Event) error {
	ctx, span := s.tracer.Start(ctx, "Space.HandleEvent")
	defer span.End()
	_ = ctx

	switch e := ev.(type) {
	case WindowCreated:
		w := s.manageCtx().Manage(e, time.Now())
		s.metrics.windowsManaged.Inc()
		s.metrics.activeWindows.Set(float64(len(s.windows)))
		if len(w.Rules.RuleIDs) > 0 {
			s.metrics.ruleMatches.Inc()
		}
		if w.Visibility.Mapped {
			s.decideActivation(w, time.Now())
		}
		s.scheduleRepaint(w.ID, false)
		return nil
	case WindowDestroyed:
		return s.unmanage(e.ID)
	case MapRequest:
		return s.mapWindow(e.ID)
	case Unmap:
		return s.unmapWindow(e.ID)
	case ConfigureRequest:
		return s.handleConfigureRequest(e)
	case FocusIn:
		return s.handleFocusIn(e.ID, time.Now())
	case FocusOut:
		return nil
	case PropertyChanged:
		return s.handlePropertyChanged(e)
	case PointerMove:
		s.input.DispatchPointer(e)
		return nil
	case PointerButton:
		s.input.DispatchButton(e)
		return nil
	case PointerAxis:
		s.input.DispatchAxis(e)
		return nil
	case KeyPress:
		s.input.DispatchKey(e)
		return nil
	case TouchDown:
		s.input.DispatchTouchDown(e)
		return nil
	case TouchMotion:
		s.input.DispatchTouchMotion(e)
		return nil
	case TouchUp:
		s.input.DispatchTouchUp(e)
		return nil
	case GestureBegin:
		s.input.DispatchGestureBegin(e)
		if e.Kind == GestureSwipe {
			s.subspaces.BeginSwipe(true)
		}
		return nil
	case GestureUpdate:
		s.input.DispatchGestureUpdate(e)
		if e.Kind == GestureSwipe {
			// Delta is the accumulated offset in milli-units; UpdateSwipe
			// takes the change since the last update as a fraction.
			_, prev, _ := s.subspaces.Progress()
			s.subspaces.UpdateSwipe(float64(e.Delta.X)/1000 - prev)
		}
		return nil
	case GestureEnd:
		s.input.DispatchGestureEnd(e)
		if e.Kind == GestureSwipe {
			s.subspaces.EndSwipe()
		}
		return nil
	case OutputsChanged:
		return s.handleOutputsChanged()
	default:
		return nil
	}
}

func (s *Space) unmanage(id WindowID) error {
	w, ok := s.windows[id]
	if !ok {
		return ErrNotFound
	}
	s.rules.PruneOnWithdraw(w)
	if g, ok := s.groups.get(w.Group); ok {
		s.groups.release(g, w.ID)
	}
	s.edges.Unreserve(w.ID)
	s.stacking.Remove(w.ID, s.windows)
	s.focus.Remove(w.ID)
	delete(s.windows, w.ID)
	s.metrics.windowsUnmanaged.Inc()
	s.metrics.activeWindows.Set(float64(len(s.windows)))
	s.scheduleRepaint(id, true)
	return nil
}

func (s *Space) mapWindow(id WindowID) error {
	w, ok := s.windows[id]
	if !ok {
		return ErrNotFound
	}
	w.Visibility.Mapped = true
	s.decideActivation(w, time.Now())
	s.scheduleRepaint(id, false)
	return nil
}

// decideActivation is §4.A step 12: a window that just became mapped
// either gets focus immediately, or is marked demands-attention when
// focus-stealing prevention holds it back (§8 scenario 2). A window
// that does not want input at all (WantsInput false) is left alone
// either way.
func (s *Space) decideActivation(w *Window, now time.Time) {
	if w.Kind != KindControlled || !w.WantsInput() {
		return
	}
	var active *Window
	if cur := s.focus.Active(); cur != 0 {
		active = s.windows[cur]
	}
	if s.focus.RequestFocus(w, active, now) {
		s.activate(w)
		return
	}
	w.setDemandsAttention(true)
}

// unmapWindow begins the two-phase destroy if the window has already
// requested closing; a plain withdraw (still managed, just hidden) just
// clears Mapped.
func (s *Space) unmapWindow(id WindowID) error {
	w, ok := s.windows[id]
	if !ok {
		return ErrNotFound
	}
	w.Visibility.Mapped = false
	if w.Closing {
		s.remnants.BeginClosing(w, time.Now())
	}
	s.scheduleRepaint(id, true)
	return nil
}

func (s *Space) handleConfigureRequest(e ConfigureRequest) error {
	w, ok := s.windows[e.ID]
	if !ok {
		return ErrNotFound
	}
	if e.HasRect {
		rect, _ := w.resizeWithChecks(e.Rect)
		w.setFrameGeometry(rect, false)
		s.scheduleRepaint(e.ID, false)
	}
	s.stacking.ClientRestackRequest(e.ID, e.StackMode, e.Sibling, s.windows)
	return nil
}

func (s *Space) handleFocusIn(id WindowID, now time.Time) error {
	w, ok := s.windows[id]
	if !ok {
		return ErrNotFound
	}
	var active *Window
	if cur := s.focus.Active(); cur != 0 {
		active = s.windows[cur]
	}
	if !s.focus.RequestFocus(w, active, now) {
		return nil
	}
	return s.activate(w)
}

func (s *Space) activate(w *Window) error {
	w.setDemandsAttention(false)
	s.focus.Activate(w.ID, w.Desktops)
	s.stacking.Raise(w.ID, s.windows)
	s.metrics.focusChanges.Inc()
	s.scheduleRepaint(0, true)
	return nil
}

// ActivateWindow is §4.I's activate_window: focus-chain update plus
// stacking raise, gated by a subspace switch (only performed when FSP
// allows crossing desktops) and, unless force is set, the same
// focus-stealing-prevention check a protocol FocusIn goes through. A
// caller that already knows activation should be unconditional (a
// taskbar click, an explicit user gesture, §4.E "explicit user action
// always wins") passes force=true.
func (s *Space) ActivateWindow(id WindowID, force bool) error {
	w, ok := s.windows[id]
	if !ok {
		return ErrNotFound
	}

	var active *Window
	if cur := s.focus.Active(); cur != 0 {
		active = s.windows[cur]
	}

	target, crosses := s.crossSubspaceTarget(w)
	if crosses && !force {
		// §8 boundary: crossing subspaces requires L=0 regardless of the
		// ordinary request_focus table; anything stricter just flashes
		// demands-attention rather than yanking the user to another desktop.
		level := maxFSPLevel(protectionOrNone(active), effectiveFSPLevel(w))
		if level != FSPNone {
			w.setDemandsAttention(true)
			return nil
		}
	}
	if !force && !s.focus.RequestFocus(w, active, time.Now()) {
		return nil
	}
	if crosses {
		s.subspaces.SetCurrent(target)
	}
	return s.activate(w)
}

// crossSubspaceTarget reports the subspace w would need the current
// subspace switched to, and whether that is actually a cross-subspace
// activation (a window on all desktops, or already on the current one,
// never needs a switch).
func (s *Space) crossSubspaceTarget(w *Window) (SubspaceID, bool) {
	if w.OnAllDesktops() {
		return 0, false
	}
	if w.OnDesktop(s.subspaces.Current()) {
		return 0, false
	}
	for d := range w.Desktops {
		return d, true
	}
	return 0, false
}

func protectionOrNone(active *Window) FocusProtectionLevel {
	if active == nil {
		return ProtectNone
	}
	return effectiveProtectionLevel(active)
}

// SendToDesktop moves w to subspace d and, when follow is set, makes d
// the current subspace the way a "move window and switch to it" shortcut
// does. It does not activate w.
func (s *Space) SendToDesktop(id WindowID, d SubspaceID, follow bool) error {
	w, ok := s.windows[id]
	if !ok {
		return ErrNotFound
	}
	if _, ok := s.subspaces.Get(d); !ok {
		return ErrNotFound
	}
	w.setDesktops(d)
	s.focus.Update(w.ID, w.Desktops)
	if follow {
		s.subspaces.SetCurrent(d)
	}
	return nil
}

func (s *Space) handlePropertyChanged(e PropertyChanged) error {
	w, ok := s.windows[e.ID]
	if !ok {
		return ErrNotFound
	}
	// re-consult the rule book for properties that can change a match
	// (class/role/title are the only predicate inputs that can change
	// post-manage).
	switch e.Name {
	case "class", "role", "title":
		w.Rules = s.rules.Consult(w, false)
		applySetRulesAtManage(w, w.Rules.Set)
		applyForceRulesAtManage(w, w.Rules.Force)
	}
	if w.LayerDirty {
		s.stacking.Restack(s.windows)
	}
	return nil
}

// UpdateClientArea clamps the frame of every controlled window that is
// neither fullscreen nor maximized into the primary output's work area;
// it does not recompute struts. Callers invoke it after OutputsChanged
// and whenever a dock/panel's reserved strut changes.
func (s *Space) UpdateClientArea() {
	for _, w := range s.windows {
		if !w.Controlled() {
			continue
		}
		if w.Flags.Fullscreen || w.Maximize.Any() {
			continue // geometry for these is re-derived by their own setters, not clamped here
		}
		wa := s.primaryWorkArea()
		w.Geometry.Frame = w.Geometry.Frame.Clamp(wa)
	}
}

func (s *Space) primaryWorkArea() geom.Rect {
	outs := s.outputs.Outputs()
	if len(outs) == 0 {
		return fallbackOutputSet().Outputs()[0].WorkArea()
	}
	idx := s.outputs.PrimaryIndex()
	if idx < 0 || idx >= len(outs) {
		idx = 0
	}
	return outs[idx].WorkArea()
}

func (s *Space) handleOutputsChanged() error {
	s.UpdateClientArea()
	s.edges.Recreate(s.outputs.Outputs(), s.cfg.WrapSubspaces)
	return nil
}

// handleEdgeTrigger performs the effect a fired screen edge asks for,
// called back from the input chain's edge filter once EdgeEngine.Trigger
// clears its cooldown gate.
func (s *Space) handleEdgeTrigger(edge *Edge) {
	s.metrics.edgeActivations.Inc()
	switch edge.Action {
	case EdgeActionSwitchDesktop:
		s.subspaces.SetCurrent(s.neighborAcrossEdge(edge.Side))
	case EdgeActionShowDesktop:
		s.ToggleShowingDesktop()
	case EdgeActionQuickTile:
		if active := s.focus.Active(); active != 0 {
			if w, ok := s.windows[active]; ok {
				w.Geometry.Frame = ApplyQuickTile(w, edge.QuickTile, s.primaryWorkArea())
			}
		}
	case EdgeActionReveal:
		if w, ok := s.windows[edge.Owner]; ok {
			w.Visibility.Hidden = false
		}
	}
	s.scheduleRepaint(0, true)
}

func (s *Space) neighborAcrossEdge(side EdgeSide) SubspaceID {
	cur := s.subspaces.Current()
	switch side {
	case EdgeLeft:
		return s.subspaces.WestOf(cur)
	case EdgeRight:
		return s.subspaces.EastOf(cur)
	case EdgeTop:
		return s.subspaces.NorthOf(cur)
	case EdgeBottom:
		return s.subspaces.SouthOf(cur)
	default:
		return cur
	}
}

// scheduleRepaint forwards to the compositor if one is wired in; with no
// compositor (§7) a repaint request is simply a no-op.
func (s *Space) scheduleRepaint(id WindowID, all bool) {
	if s.compositor != nil {
		s.compositor.ScheduleRepaint(id, all)
	}
}

// ShowingDesktop toggles every normal window's minimized state in
// lock-step, saving prior state so a second toggle restores exactly
// what was visible before, per §4.I's showing-desktop mode.
func (s *Space) ShowingDesktop() bool { return s.showingDesktop }

func (s *Space) ToggleShowingDesktop() {
	if s.showingDesktop {
		for id, wasMinimized := range s.showingDesktopSaved {
			if w, ok := s.windows[id]; ok && !wasMinimized {
				w.setMinimized(false)
			}
		}
		s.showingDesktopSaved = make(map[WindowID]bool)
		s.showingDesktop = false
		return
	}
	for id, w := range s.windows {
		if w.Type == TypeDesktop || w.Type == TypeDock {
			continue
		}
		s.showingDesktopSaved[id] = w.Visibility.Minimized
		w.setMinimized(true)
	}
	s.showingDesktop = true
}

// Tick runs periodic housekeeping that has no dedicated triggering
// event: remnant expiry and debounced rule-file writes. Callers are
// expected to call this from their own idle/timer tick, keeping the
// cooperative core free of internally-owned timers.
func (s *Space) Tick(now time.Time) {
	for _, id := range s.remnants.Expired(now) {
		delete(s.windows, id)
	}
	if s.rules.persist != nil {
		if err := s.rules.persist.Flush(); err != nil {
			s.logger.WithError(err).Warn("debounced rule file write failed")
		}
	}
}

// Window looks up a tracked window by id.
func (s *Space) Window(id WindowID) (*Window, bool) {
	w, ok := s.windows[id]
	return w, ok
}

// Windows returns every tracked window, unordered.
func (s *Space) Windows() []*Window {
	out := make([]*Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, w)
	}
	return out
}

// StackingList returns the current global stacking order, bottom to top.
func (s *Space) StackingList() []WindowID { return s.stacking.List() }

// Subspaces exposes the subspace manager for callers that need the full
// grid/swipe API surface rather than the handful of convenience methods
// above.
func (s *Space) Subspaces() *SubspaceManager { return s.subspaces }

// Rules exposes the rule book for programmatic rule management (adding
// rules from a settings UI, reloading from disk).
func (s *Space) Rules() *RuleBook { return s.rules }

// Edges exposes the screen-edge engine for callers wiring up a
// compositor-side pointer warp after a successful Trigger.
func (s *Space) Edges() *EdgeEngine { return s.edges }

// MoveResize exposes the move/resize controller for a caller that wants
// to drive it directly instead of through the input filter chain (a
// keyboard-only move/resize mode, for instance).
func (s *Space) MoveResize() *MoveResizeController { return s.moveResize }
