package wm

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aios/wincore/internal/geom"
)

// manageContext bundles the collaborators Manage needs, so the method
// itself reads as the ordered procedure of §4.A rather than a grab-bag
// of field accesses on Space.
type manageContext struct {
	alloc      *idAllocator
	rules      *RuleBook
	groups     *groupRegistry
	subspaces  *SubspaceManager
	stacking   *StackingOrder
	focus      *FocusChain
	decoration DecorationFactory
	outputs    OutputSet
	compositor Compositor
	logger     *logrus.Logger
	windows    map[WindowID]*Window
}

// Manage runs the fourteen-step procedure of §4.A against a freshly
// created client, producing the Window that every other subsystem will
// reference from here on. It never fails outright: a missing
// decoration factory or empty output set falls back per §7, logged as a
// warning rather than surfaced as an error.
func (mc *manageContext) Manage(ev WindowCreated, now time.Time) *Window {
	attrs := ev.InitialAttrs

	// 1. allocate identity: the window keeps its client's id, so later
	// events naming that id find it; only a zero client id draws a fresh
	// id from the allocator. A compositor-internal overlay surface (cursor
	// theme preview, screen-lock greeter, etc.) is tracked but never
	// decorated, placed, or handed to the focus chain.
	kind := KindControlled
	if mc.compositor != nil && mc.compositor.IsOverlayWindow(WindowID(ev.ClientID)) {
		kind = KindInternal
	}
	id := ev.ClientID
	if id == 0 {
		id = mc.alloc.nextWindowID()
	}
	w := newWindow(id, kind)
	w.ClientID = ev.ClientID

	// 2. copy wire attributes.
	w.Title = attrs.Title
	w.Class = attrs.Class
	w.Instance = attrs.Instance
	w.Role = attrs.Role
	w.Machine = attrs.Machine
	w.PID = attrs.PID
	w.DesktopFile = attrs.DesktopFile
	w.Type = attrs.WindowType
	w.Flags.Modal = attrs.Modal
	w.UserTime = attrs.UserTime
	w.AcceptsFocus = attrs.AcceptsFocus
	w.Flags.KeepAbove = attrs.KeepAbove
	w.Flags.KeepBelow = attrs.KeepBelow
	w.Flags.SkipTaskbar = attrs.SkipTaskbar
	w.Flags.SkipPager = attrs.SkipPager
	w.Flags.SkipSwitcher = attrs.SkipSwitcher
	w.Flags.DemandsAttention = attrs.DemandsAttention
	w.Flags.Fullscreen = attrs.Fullscreen
	w.Visibility.Minimized = attrs.Iconic
	w.Geometry.Margins = attrs.GTKFrameExtents
	w.Geometry.Client = geom.RectFromPoints(attrs.ClientPos, attrs.ClientSize)
	w.Geometry.Buffer = geom.Rect{X: 0, Y: 0, W: attrs.BufferSize.W, H: attrs.BufferSize.H}
	w.Geometry.Frame = w.Geometry.Client

	if w.Kind == KindInternal {
		// a compositor-internal surface is tracked for repaint bookkeeping
		// only: no rule consult, no decoration, no focus-chain membership,
		// no stacking layer beyond LayerUnmanaged's default.
		w.AcceptsFocus = false
		w.Visibility.Mapped = ev.AlreadyMapped
		mc.windows[w.ID] = w
		mc.stacking.Add(w.ID, mc.windows)
		mc.logger.WithField("window_id", w.ID).Debug("compositor-internal surface tracked")
		return w
	}

	// 3. resolve transient parent, if any, and fold modal-transient
	// constraints (a modal dialog always accepts focus).
	if attrs.TransientFor != 0 {
		if parent, ok := mc.windows[attrs.TransientFor]; ok {
			w.Parent = parent.ID
			parent.Children[w.ID] = struct{}{}
			if w.Flags.Modal {
				w.AcceptsFocus = true
			}
		}
	}

	// 4. resolve application group (find-or-create by leader == parent
	// chain's root, falling back to the window itself as its own
	// leader). Bumps the group's UserTime fallback immediately so a
	// dialog spawned from an already-focused app is not penalised by
	// focus-stealing prevention for lacking its own timestamp.
	leader := w.ID
	for p := w.Parent; p != 0; {
		leader = p
		parent, ok := mc.windows[p]
		if !ok {
			break
		}
		p = parent.Parent
	}
	group := mc.groups.findOrCreate(leader)
	group.Add(w.ID)
	w.Group = group.ID
	if w.UserTime < 0 {
		w.UserTime = group.UserTime
	} else {
		group.BumpUserTime(w.UserTime)
	}

	// 5. resolve desktop placement from the wire hint, defaulting to the
	// currently active subspace.
	if attrs.OnAllDesktops {
		// leave Desktops empty
	} else if attrs.Desktop > 0 {
		if subs := mc.subspaces.All(); attrs.Desktop <= len(subs) {
			w.setDesktops(subs[attrs.Desktop-1].ID)
		} else {
			w.setDesktops(mc.subspaces.Current())
		}
	} else {
		w.setDesktops(mc.subspaces.Current())
	}

	// 6. consult the rule book and fold outcomes into the window before
	// any placement or decoration decision reads them.
	w.Rules = mc.rules.Consult(w, false)
	applySetRulesAtManage(w, w.Rules.Set)
	applyForceRulesAtManage(w, w.Rules.Force)

	// 7. decoration. A lost factory falls back to no border (§7).
	if mc.decoration != nil {
		if dec := mc.decoration.CreateDecoration(w); dec != nil {
			w.Geometry.Margins = dec.Margins()
		} else {
			mc.logger.WithField("window_id", w.ID).Warn("decoration factory returned nil, falling back to no border")
			w.Flags.NoBorder = true
		}
	} else {
		w.Flags.NoBorder = true
	}

	// 8. placement: the client's own position hint, else centre on the
	// target output's work area. A rule's forced placement is not
	// consulted here.
	outputs := mc.outputs.Outputs()
	if len(outputs) == 0 {
		mc.logger.Warn("output set empty at manage time, falling back to synthetic output")
		outputs = fallbackOutputSet().Outputs()
	}
	target := outputs[0]
	if attrs.ScreenIndex >= 0 && attrs.ScreenIndex < len(outputs) {
		target = outputs[attrs.ScreenIndex]
	}
	frame := geom.RectFromPoints(attrs.ClientPos, attrs.ClientSize).Grow(w.Geometry.Margins)
	if attrs.ClientPos == (geom.Point{}) {
		frame = centeredOn(target.WorkArea(), frame.Size())
	}
	w.Geometry.Frame = applySizeConstraints(frame, w.Geometry)
	w.Geometry.Restore = w.Geometry.Frame

	// 9. startup notification: a window that carries a startup id gets
	// focus-stealing-prevention level none, so its own level never holds
	// back its first activation; the active window's protection level
	// still applies. No startup-sequence timeout is tracked.
	if attrs.StartupID != "" {
		w.FSPLevel = int(FSPNone)
	}

	// 10. fullscreen/maximize geometry overrides placement.
	if w.Flags.Fullscreen {
		w.Geometry.FullscreenRestore = w.Geometry.Frame
		w.Geometry.Frame = target.Geometry
	} else if w.Maximize.Any() {
		w.Geometry.Frame = maximizeRectFor(w.Maximize, target.WorkArea(), w.Geometry.Frame)
	}

	// 11. register with stacking order (also derives the initial layer).
	mc.windows[w.ID] = w
	mc.stacking.Add(w.ID, mc.windows)

	// 12. visibility: a window that arrives already mapped skips the
	// pending-map state.
	w.Visibility.Mapped = ev.AlreadyMapped

	// 13. focus-chain bookkeeping: Update moves every new window to the
	// head of the MRU chains; it does not become the active window,
	// activation is a separate explicit step.
	mc.focus.Update(w.ID, nil)

	// 14. log and return.
	mc.logger.WithFields(logrus.Fields{
		"window_id": w.ID,
		"class":     w.Class,
		"type":      w.Type,
	}).Info("window managed")
	return w
}

func centeredOn(area geom.Rect, size geom.Size) geom.Rect {
	x := area.X + (area.W-size.W)/2
	y := area.Y + (area.H-size.H)/2
	return geom.Rect{X: x, Y: y, W: size.W, H: size.H}
}

func maximizeRectFor(mode MaximizeMode, wa geom.Rect, current geom.Rect) geom.Rect {
	r := current
	if mode.Horizontal() {
		r.X, r.W = wa.X, wa.W
	}
	if mode.Vertical() {
		r.Y, r.H = wa.Y, wa.H
	}
	return r
}

func applySetRulesAtManage(w *Window, set SetRules) {
	if set.Desktop.Mode == OutcomeForce || set.Desktop.Mode == OutcomeApply || set.Desktop.Mode == OutcomeForceTemporarily {
		w.setDesktops(SubspaceID(set.Desktop.Value))
	}
	if set.Fullscreen.Mode == OutcomeForce || set.Fullscreen.Mode == OutcomeApply {
		w.setFullscreen(set.Fullscreen.Value)
	}
	if set.NoBorder.Mode == OutcomeForce || set.NoBorder.Mode == OutcomeApply {
		w.setNoBorder(set.NoBorder.Value)
	}
	if set.SkipTaskbar.Mode == OutcomeForce || set.SkipTaskbar.Mode == OutcomeApply {
		w.setSkipTaskbar(set.SkipTaskbar.Value)
	}
	if set.KeepAbove.Mode == OutcomeForce || set.KeepAbove.Mode == OutcomeApply {
		w.setKeepAbove(set.KeepAbove.Value)
	}
	if set.KeepBelow.Mode == OutcomeForce || set.KeepBelow.Mode == OutcomeApply {
		w.setKeepBelow(set.KeepBelow.Value)
	}
	if set.MaximizeHoriz.Mode == OutcomeForce || set.MaximizeVert.Mode == OutcomeForce ||
		set.MaximizeHoriz.Mode == OutcomeApply || set.MaximizeVert.Mode == OutcomeApply {
		var m MaximizeMode
		if set.MaximizeHoriz.Value {
			m |= MaxHorizontal
		}
		if set.MaximizeVert.Value {
			m |= MaxVertical
		}
		w.setMaximize(m)
	}
	if set.Shortcut.Mode == OutcomeForce || set.Shortcut.Mode == OutcomeApply {
		w.setShortcut(set.Shortcut.Value)
	}
	if set.DesktopFile.Mode == OutcomeForce || set.DesktopFile.Mode == OutcomeApply {
		w.DesktopFile = set.DesktopFile.Value
	}
	if set.OpacityActive.Mode == OutcomeForce || set.OpacityInactive.Mode == OutcomeForce ||
		set.OpacityActive.Mode == OutcomeApply || set.OpacityInactive.Mode == OutcomeApply {
		w.setOpacity(set.OpacityActive.Value, set.OpacityInactive.Value)
	}
}

func applyForceRulesAtManage(w *Window, force ForceRules) {
	if force.AcceptFocus.Mode == OutcomeForce || force.AcceptFocus.Mode == OutcomeForceTemporarily {
		w.AcceptsFocus = force.AcceptFocus.Value
	}
	if force.BlockCompositing.Mode == OutcomeForce || force.BlockCompositing.Mode == OutcomeForceTemporarily {
		w.Flags.BlocksCompositing = force.BlockCompositing.Value
	}
	if force.MinSize.Mode == OutcomeForce || force.MinSize.Mode == OutcomeForceTemporarily {
		w.Geometry.MinSize = force.MinSize.Value
	}
	if force.MaxSize.Mode == OutcomeForce || force.MaxSize.Mode == OutcomeForceTemporarily {
		w.Geometry.MaxSize = force.MaxSize.Value
	}
	if force.FocusStealingPreventionLevel.Mode == OutcomeForce || force.FocusStealingPreventionLevel.Mode == OutcomeForceTemporarily {
		w.FSPLevel = force.FocusStealingPreventionLevel.Value
	}
	if force.FocusProtectionLevel.Mode == OutcomeForce || force.FocusProtectionLevel.Mode == OutcomeForceTemporarily {
		w.ProtectionLevel = force.FocusProtectionLevel.Value
	}
	if force.WindowType.Mode == OutcomeForce || force.WindowType.Mode == OutcomeForceTemporarily {
		w.Type = force.WindowType.Value
	}
}
