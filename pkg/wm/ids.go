package wm

import "github.com/google/uuid"

// WindowID stably identifies a window for the lifetime of the process,
// even across geometry and flag changes. It is never reused.
type WindowID uint64

// SubspaceID stably identifies a subspace. Unlike the subspace's x11
// compatibility number (its 1-based position), the id never changes when
// subspaces are reordered, created or removed around it.
type SubspaceID uint64

// GroupID identifies a set of windows belonging to the same application
// (for group-lower, group user-time fallback, and autogrouping rules).
type GroupID uint64

// RuleID identifies a single rule in the rule book.
type RuleID uint64

// handle is a generation-checked reference into Space's window table,
// modelled on the "cyclic pointer graph via stable id + generation
// counter" strategy from the design notes. Cross-window links (transient
// parent/child, group membership) do not use it: they are stored as
// plain WindowIDs and looked up in the window table.
type handle struct {
	id  WindowID
	gen uint64
}

func (h handle) valid() bool { return h.id != 0 }

// idAllocator hands out process-unique ids for subspaces, groups, rules,
// and any window created with a zero client id (other windows keep their
// client id). These only need to be stable and comparable, so a
// monotonically increasing counter
// seeded from a uuid-derived value is sufficient and avoids colliding
// with ids from a prior process incarnation during log correlation.
type idAllocator struct {
	next uint64
}

func newIDAllocator() *idAllocator {
	// Seed from a random uuid's first eight bytes, low byte cleared, so
	// restarts don't reuse the same small ids in logs/traces across
	// separate runs.
	seed := uuid.New()
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(seed[i])
	}
	if v == 0 {
		v = 1
	}
	return &idAllocator{next: v &^ 0xff}
}

func (a *idAllocator) nextWindowID() WindowID {
	a.next++
	return WindowID(a.next)
}

func (a *idAllocator) nextSubspaceID() SubspaceID {
	a.next++
	return SubspaceID(a.next)
}

func (a *idAllocator) nextGroupID() GroupID {
	a.next++
	return GroupID(a.next)
}

func (a *idAllocator) nextRuleID() RuleID {
	a.next++
	return RuleID(a.next)
}
