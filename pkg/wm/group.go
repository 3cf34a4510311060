package wm

import "time"

// Group is the application group §3 references via Window.Group: the
// set of windows sharing a WM_CLIENT_LEADER-style identity, used by
// focus-stealing prevention to compare a new window's user-time against
// its group's rather than its own when the client never set one.
//
// UserTime fallback is not in the distilled module list; it mirrors how
// the original client tracked a group's most recent input timestamp so
// a dialog raised from an already-active application is not penalised
// by focus-stealing prevention just because the dialog itself never
// received a user interaction.
type Group struct {
	ID       GroupID
	Leader   WindowID // zero if the group has no explicit leader window
	Members  map[WindowID]struct{}
	UserTime int64     // -1 unknown, else the latest member activation
	updated  time.Time // unexported: last time UserTime was bumped
}

func newGroup(id GroupID) *Group {
	return &Group{ID: id, Members: make(map[WindowID]struct{}), UserTime: -1}
}

// Add registers w as a member.
func (g *Group) Add(id WindowID) { g.Members[id] = struct{}{} }

// Remove drops w from the group; callers are responsible for deleting
// the group entirely once Members is empty.
func (g *Group) Remove(id WindowID) { delete(g.Members, id) }

// Empty reports whether the group has no remaining members.
func (g *Group) Empty() bool { return len(g.Members) == 0 }

// BumpUserTime records a fresh activation timestamp for the group,
// taking the maximum so an older, possibly stale timestamp arriving out
// of order never regresses the group's recency.
func (g *Group) BumpUserTime(t int64) {
	if t < 0 {
		return
	}
	if g.UserTime < 0 || t > g.UserTime {
		g.UserTime = t
		g.updated = time.Now()
	}
}

// groupRegistry tracks every live group, keyed by id, with a secondary
// index by leader window so Manage can find-or-create the right group
// for a new client without a linear scan.
type groupRegistry struct {
	alloc    *idAllocator
	groups   map[GroupID]*Group
	byLeader map[WindowID]GroupID
}

func newGroupRegistry(alloc *idAllocator) *groupRegistry {
	return &groupRegistry{
		alloc:    alloc,
		groups:   make(map[GroupID]*Group),
		byLeader: make(map[WindowID]GroupID),
	}
}

// findOrCreate returns the group for the given leader id, creating one
// if this is the first window claiming that leader.
func (r *groupRegistry) findOrCreate(leader WindowID) *Group {
	if leader != 0 {
		if id, ok := r.byLeader[leader]; ok {
			return r.groups[id]
		}
	}
	g := newGroup(r.alloc.nextGroupID())
	g.Leader = leader
	r.groups[g.ID] = g
	if leader != 0 {
		r.byLeader[leader] = g.ID
	}
	return g
}

func (r *groupRegistry) get(id GroupID) (*Group, bool) {
	g, ok := r.groups[id]
	return g, ok
}

// release removes w from its group, deleting the group entirely once it
// has no members left (§3's groups are never kept around empty).
func (r *groupRegistry) release(g *Group, w WindowID) {
	g.Remove(w)
	if g.Empty() {
		delete(r.groups, g.ID)
		if g.Leader != 0 {
			delete(r.byLeader, g.Leader)
		}
	}
}
