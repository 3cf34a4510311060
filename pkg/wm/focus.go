package wm

import (
	"time"

	"github.com/sirupsen/logrus"
)

// FocusChain tracks most-recently-used order both globally and per
// subspace, plus the should-get-focus FIFO of windows that asked to be
// activated while focus-stealing prevention was holding them back
// (§4.E).
type FocusChain struct {
	logger *logrus.Logger

	global    []WindowID // MRU, index 0 is most recent
	perDesktop map[SubspaceID][]WindowID

	active WindowID

	shouldGetFocus []WindowID // FIFO, processed front to back
}

func NewFocusChain(logger *logrus.Logger) *FocusChain {
	if logger == nil {
		logger = logrus.New()
	}
	return &FocusChain{logger: logger, perDesktop: make(map[SubspaceID][]WindowID)}
}

// Update moves id to the front of the global MRU chain and every
// subspace chain it currently belongs to (every existing subspace chain
// when desktops is empty). Space calls it when a window is activated,
// managed, or sent to another subspace; a request that focus-stealing
// prevention defers does not reach it.
func (c *FocusChain) Update(id WindowID, desktops map[SubspaceID]struct{}) {
	c.global = moveToFront(c.global, id)
	if len(desktops) == 0 {
		for d := range c.perDesktop {
			c.perDesktop[d] = moveToFront(c.perDesktop[d], id)
		}
		return
	}
	for d := range desktops {
		c.perDesktop[d] = moveToFront(c.perDesktop[d], id)
	}
}

func moveToFront(chain []WindowID, id WindowID) []WindowID {
	out := make([]WindowID, 0, len(chain)+1)
	out = append(out, id)
	for _, existing := range chain {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// Remove deletes id from every chain (global and all subspaces), called
// on unmanage.
func (c *FocusChain) Remove(id WindowID) {
	c.global = removeID(c.global, id)
	for d := range c.perDesktop {
		c.perDesktop[d] = removeID(c.perDesktop[d], id)
	}
	c.shouldGetFocus = removeID(c.shouldGetFocus, id)
	if c.active == id {
		c.active = 0
	}
}

func removeID(chain []WindowID, id WindowID) []WindowID {
	out := chain[:0]
	for _, existing := range chain {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// Active returns the currently activated window, zero if none.
func (c *FocusChain) Active() WindowID { return c.active }

// NextForDesktop returns the most-recently-used window on the given
// subspace that is eligible to receive focus, skipping any id for which
// eligible returns false (minimized, unmapped, etc).
func (c *FocusChain) NextForDesktop(d SubspaceID, eligible func(WindowID) bool) WindowID {
	for _, id := range c.perDesktop[d] {
		if eligible(id) {
			return id
		}
	}
	for _, id := range c.global {
		if eligible(id) {
			return id
		}
	}
	return 0
}

// FSPLevel is the focus-stealing-prevention strictness, low to high.
type FSPLevel int

const (
	FSPNone FSPLevel = iota
	FSPLow
	FSPMedium
	FSPHigh
	FSPExtreme
)

// FocusProtectionLevel is how strongly the currently active window
// resists losing focus, low to high, mirrored against the requester's
// FSPLevel in the same five-step table.
type FocusProtectionLevel int

const (
	ProtectNone FocusProtectionLevel = iota
	ProtectLow
	ProtectMedium
	ProtectHigh
	ProtectExtreme
)

// RequestFocus evaluates one window's activation request against the
// literal five-level focus-stealing-prevention table of §4.E. L is
// max(active.protection_level, requester.fsp_level):
//
//	0 (none)    always allowed
//	1 (low)     denied only if requester has no user-time at all
//	2 (normal)  allowed iff requester's user-time >= active's, or same
//	            application, or no active window
//	3 (high)    allowed iff same application or no active window
//	4 (extreme) denied
//
// A denied request is queued on shouldGetFocus, which
// DrainShouldGetFocus hands back to the caller; Space itself never
// drains it. The caller is expected to mark the requester
// demands-attention on denial.
func (c *FocusChain) RequestFocus(requester *Window, active *Window, now time.Time) bool {
	_ = now
	if active == nil {
		return true
	}
	level := maxFSPLevel(effectiveProtectionLevel(active), effectiveFSPLevel(requester))
	if focusStealingAllowed(level, requester, active) {
		return true
	}
	c.queueShouldGetFocus(requester.ID)
	return false
}

func focusStealingAllowed(level FSPLevel, requester, active *Window) bool {
	switch level {
	case FSPNone:
		return true
	case FSPLow:
		return requester.UserTime != 0
	case FSPMedium:
		return groupUserTime(requester) >= groupUserTime(active) || sameApplication(requester, active)
	case FSPHigh:
		return sameApplication(requester, active)
	default: // FSPExtreme
		return false
	}
}

// groupUserTime resolves §4.E's "user-time of -1 (unknown) forces the
// decision to use the window's group user-time": this package folds a
// window's group user-time into UserTime itself at manage time
// (manage.go step 4), so an UserTime still showing -1 here means no
// group timestamp was available either, which reads as "as old as
// possible" rather than a free pass.
func groupUserTime(w *Window) int64 {
	if w.UserTime < 0 {
		return 0
	}
	return w.UserTime
}

func sameApplication(a, b *Window) bool {
	return a.Group != 0 && a.Group == b.Group
}

func maxFSPLevel(protection FocusProtectionLevel, fsp FSPLevel) FSPLevel {
	if int(protection) > int(fsp) {
		return FSPLevel(protection)
	}
	return fsp
}

func effectiveFSPLevel(w *Window) FSPLevel {
	if w.FSPLevel >= 0 {
		return FSPLevel(w.FSPLevel)
	}
	return FSPMedium
}

func effectiveProtectionLevel(w *Window) FocusProtectionLevel {
	if w.ProtectionLevel >= 0 {
		return FocusProtectionLevel(w.ProtectionLevel)
	}
	return ProtectNone
}

func (c *FocusChain) queueShouldGetFocus(id WindowID) {
	for _, existing := range c.shouldGetFocus {
		if existing == id {
			return
		}
	}
	c.shouldGetFocus = append(c.shouldGetFocus, id)
}

// DrainShouldGetFocus pops and returns every queued deferred-activation
// id in request order, clearing the queue. Called once the obstruction
// (e.g. the protecting window closing or losing its own focus) clears.
func (c *FocusChain) DrainShouldGetFocus() []WindowID {
	out := c.shouldGetFocus
	c.shouldGetFocus = nil
	return out
}

// CancelShouldGetFocus removes a single deferred request, e.g. because
// the window withdrew before it was ever granted focus.
func (c *FocusChain) CancelShouldGetFocus(id WindowID) {
	c.shouldGetFocus = removeID(c.shouldGetFocus, id)
}

// Activate commits id as the active window, updating the MRU chains.
func (c *FocusChain) Activate(id WindowID, desktops map[SubspaceID]struct{}) {
	c.active = id
	c.Update(id, desktops)
}
