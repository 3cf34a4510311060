package wm

import (
	"time"

	"github.com/sirupsen/logrus"
)

// StackingOrder owns the single global stacking list and derives each
// window's layer from its flags and type, per §4.D. Within a layer a
// transient child is kept somewhere above its parent (not necessarily
// adjacent), and a modal transient has its top-level ancestor's subtree
// moved to sit just below it.
type StackingOrder struct {
	logger *logrus.Logger
	raw    []WindowID // pre_stack (§8): raise/lower/insertion order, untouched by transient-order enforcement
	list   []WindowID // stack (§8): raw after Restack folds in transient/modal ordering, bottom to top

	// mostRecentlyRaised tracks the single window most recently brought
	// to the top of its layer; Restack treats it as the active window when
	// deciding whether a fullscreen window goes in the active-fullscreen
	// layer.
	mostRecentlyRaised WindowID
	raisedAt           time.Time
}

func NewStackingOrder(logger *logrus.Logger) *StackingOrder {
	if logger == nil {
		logger = logrus.New()
	}
	return &StackingOrder{logger: logger}
}

// List returns the current stacking order, bottom to top.
func (s *StackingOrder) List() []WindowID {
	out := make([]WindowID, len(s.list))
	copy(out, s.list)
	return out
}

// Add inserts a newly managed window at the top of its layer.
func (s *StackingOrder) Add(id WindowID, windows map[WindowID]*Window) {
	s.raw = append(s.raw, id)
	s.Restack(windows)
}

// Remove deletes a window from the stacking list and recomputes the
// derived view from what remains of pre_stack, so a modal's departure
// releases whatever sibling its presence had displaced (§8 scenario 1's
// "closing D restores stack = [A,B]").
func (s *StackingOrder) Remove(id WindowID, windows map[WindowID]*Window) {
	for i, wid := range s.raw {
		if wid == id {
			s.raw = append(s.raw[:i], s.raw[i+1:]...)
			break
		}
	}
	s.Restack(windows)
}

// layerFor derives a window's layer from its current flags and type,
// per §4.D's layer rules: active-fullscreen beats KeepAbove, notification
// types get their own bands above Dock, and an unmanaged/override window
// always floats in its own top band.
func layerFor(w *Window, isActive bool) Layer {
	switch w.Kind {
	case KindUnmanaged, KindInternal:
		return LayerUnmanaged
	}
	switch w.Type {
	case TypeDesktop:
		return LayerDesktop
	case TypeDock:
		if w.Flags.KeepBelow {
			return LayerBelow
		}
		return LayerDock
	case TypeCriticalNotification:
		return LayerCriticalNotification
	case TypeNotification:
		return LayerNotification
	case TypeOnScreenDisplay:
		return LayerOnScreenDisplay
	}
	if w.Flags.Fullscreen && isActive {
		return LayerActiveFullscreen
	}
	if w.Flags.KeepBelow {
		return LayerBelow
	}
	if w.Flags.KeepAbove {
		return LayerAbove
	}
	return LayerNormal
}

// Restack recomputes every window's layer and rebuilds the list grouped
// by layer (stable within each layer), then moves each parent ahead of
// its transient children and each modal transient's top-level ancestor
// subtree to just below the modal (enforceTransientOrder).
func (s *StackingOrder) Restack(windows map[WindowID]*Window) {
	byLayer := make([][]WindowID, numLayers)
	for _, id := range s.raw {
		w, ok := windows[id]
		if !ok {
			continue
		}
		layer := layerFor(w, id == s.mostRecentlyRaised)
		w.Layer = layer
		w.LayerDirty = false
		byLayer[layer] = append(byLayer[layer], id)
	}

	var rebuilt []WindowID
	for l := 0; l < int(numLayers); l++ {
		rebuilt = append(rebuilt, enforceTransientOrder(byLayer[l], windows)...)
	}
	s.list = rebuilt
}

// enforceTransientOrder walks a single layer's window list in two
// passes. The first guarantees the basic invariant of §8 ("for every
// transient chain, stack.index(parent) < stack.index(child)") by
// placing a parent immediately before the first of its children
// encountered, without otherwise reordering siblings. The second
// handles the modal case §4.D singles out: a modal dialog's entire
// ancestor chain is relocated as a unit to sit directly under the
// dialog, even if that means moving it past an unrelated sibling that
// happens to already be stacked above it (§8 scenario 1).
func enforceTransientOrder(ids []WindowID, windows map[WindowID]*Window) []WindowID {
	if len(ids) <= 1 {
		return ids
	}
	out := ensureParentsPrecedeChildren(ids, windows)
	for _, id := range ids {
		w, ok := windows[id]
		if !ok || !w.Flags.Modal || w.Parent == 0 {
			continue
		}
		out = relocateAncestorsUnderModal(out, id, windows)
	}
	return out
}

// ensureParentsPrecedeChildren reorders ids so that every window
// appears after its transient parent (if the parent is present in the
// same layer), without moving anything that has no transient relation
// to another member of ids.
func ensureParentsPrecedeChildren(ids []WindowID, windows map[WindowID]*Window) []WindowID {
	pos := make(map[WindowID]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	out := make([]WindowID, 0, len(ids))
	placed := make(map[WindowID]bool, len(ids))

	var place func(id WindowID)
	place = func(id WindowID) {
		if placed[id] {
			return
		}
		w, ok := windows[id]
		if ok && w.Parent != 0 {
			if _, inLayer := pos[w.Parent]; inLayer {
				place(w.Parent)
			}
		}
		placed[id] = true
		out = append(out, id)
	}
	for _, id := range ids {
		place(id)
	}
	return out
}

// relocateAncestorsUnderModal moves every member of modalID's top-level
// ancestor's subtree (the ancestor itself plus every descendant already
// present in list, preserving their relative order) to sit immediately
// before modalID, displacing any sibling windows that are not part of
// that subtree.
func relocateAncestorsUnderModal(list []WindowID, modalID WindowID, windows map[WindowID]*Window) []WindowID {
	root := topAncestor(modalID, windows)
	if root == 0 || root == modalID {
		return list
	}
	members := subtreeMembers(root, windows, list, modalID)
	if len(members) == 0 {
		return list
	}
	return moveBefore(list, members, modalID)
}

// topAncestor follows w's Parent chain to the window with no parent of
// its own (or no parent present in windows), returning zero if id
// itself has no parent.
func topAncestor(id WindowID, windows map[WindowID]*Window) WindowID {
	w, ok := windows[id]
	if !ok || w.Parent == 0 {
		return 0
	}
	cur := w.Parent
	for {
		next, ok := windows[cur]
		if !ok || next.Parent == 0 {
			return cur
		}
		cur = next.Parent
	}
}

// subtreeMembers collects every id in list (in list order) whose
// ancestor chain passes through root, including root itself but
// excluding exclude.
func subtreeMembers(root WindowID, windows map[WindowID]*Window, list []WindowID, exclude WindowID) []WindowID {
	var out []WindowID
	for _, id := range list {
		if id == exclude {
			continue
		}
		if id == root || hasAncestor(id, root, windows) {
			out = append(out, id)
		}
	}
	return out
}

func hasAncestor(id, root WindowID, windows map[WindowID]*Window) bool {
	cur := id
	for {
		w, ok := windows[cur]
		if !ok || w.Parent == 0 {
			return false
		}
		if w.Parent == root {
			return true
		}
		cur = w.Parent
	}
}

// moveBefore removes members from list (preserving their relative
// order) and reinserts them immediately before target's position.
func moveBefore(list []WindowID, members []WindowID, target WindowID) []WindowID {
	memberSet := make(map[WindowID]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}
	out := make([]WindowID, 0, len(list))
	for _, id := range list {
		if memberSet[id] {
			continue
		}
		if id == target {
			out = append(out, members...)
		}
		out = append(out, id)
	}
	return out
}

// Raise moves a window to the top of its own layer.
func (s *StackingOrder) Raise(id WindowID, windows map[WindowID]*Window) {
	s.moveWithinLayer(id, windows, true)
	s.mostRecentlyRaised = id
	s.raisedAt = time.Now()
}

// Lower moves a window to the bottom of its own layer.
func (s *StackingOrder) Lower(id WindowID, windows map[WindowID]*Window) {
	s.moveWithinLayer(id, windows, false)
}

// RaiseOrLower toggles: if id is already the topmost window of its
// layer, lower it, otherwise raise it, matching the common
// raise-or-lower shortcut behaviour in §4.D.
func (s *StackingOrder) RaiseOrLower(id WindowID, windows map[WindowID]*Window) {
	w, ok := windows[id]
	if !ok {
		return
	}
	top := s.topOfLayer(w.Layer, windows)
	if top == id {
		s.Lower(id, windows)
	} else {
		s.Raise(id, windows)
	}
}

func (s *StackingOrder) topOfLayer(layer Layer, windows map[WindowID]*Window) WindowID {
	var top WindowID
	for _, id := range s.list {
		if w, ok := windows[id]; ok && w.Layer == layer {
			top = id
		}
	}
	return top
}

func (s *StackingOrder) moveWithinLayer(id WindowID, windows map[WindowID]*Window, toTop bool) {
	w, ok := windows[id]
	if !ok {
		return
	}
	var layerMembers []WindowID
	for _, wid := range s.raw {
		if ww, ok := windows[wid]; ok && ww.Layer == w.Layer {
			layerMembers = append(layerMembers, wid)
		}
	}
	// remove id from layerMembers, reinsert at the requested end
	filtered := layerMembers[:0]
	for _, wid := range layerMembers {
		if wid != id {
			filtered = append(filtered, wid)
		}
	}
	if toTop {
		filtered = append(filtered, id)
	} else {
		filtered = append([]WindowID{id}, filtered...)
	}
	// rebuild pre_stack preserving original layer interleaving order among
	// other layers, substituting the reordered layer members back in.
	s.raw = mergeLayerBack(s.raw, w.Layer, filtered, windows)
	s.Restack(windows)
}

// mergeLayerBack rebuilds the full list, substituting newOrder for every
// existing member of layer while leaving all other layers' relative
// positions untouched.
func mergeLayerBack(old []WindowID, layer Layer, newOrder []WindowID, windows map[WindowID]*Window) []WindowID {
	out := make([]WindowID, 0, len(old))
	inserted := false
	for _, id := range old {
		w, ok := windows[id]
		if ok && w.Layer == layer {
			if !inserted {
				out = append(out, newOrder...)
				inserted = true
			}
			continue
		}
		out = append(out, id)
	}
	if !inserted {
		out = append(out, newOrder...)
	}
	return out
}

// ClientRestackRequest handles a client's asynchronous restack ask
// (ConfigureRequest.StackMode) without letting a window leave its derived
// layer: Above/TopIf raise it to the top of its own layer, Below/BottomIf
// lower it to the bottom, Opposite toggles via RaiseOrLower. A sibling in
// another layer makes the request a no-op; the sibling is not otherwise
// used as a reference point, and TopIf/BottomIf do no overlap test.
func (s *StackingOrder) ClientRestackRequest(id WindowID, mode StackMode, sibling WindowID, windows map[WindowID]*Window) {
	w, ok := windows[id]
	if !ok {
		return
	}
	if sibling != 0 {
		if sw, ok := windows[sibling]; !ok || sw.Layer != w.Layer {
			return
		}
	}
	switch mode {
	case StackAbove, StackTopIf:
		s.Raise(id, windows)
	case StackBelow, StackBottomIf:
		s.Lower(id, windows)
	case StackOpposite:
		s.RaiseOrLower(id, windows)
	}
}
