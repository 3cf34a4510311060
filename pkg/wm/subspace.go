package wm

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Subspace is one virtual desktop: an id, a name, and its position in
// the 2D grid §4.B lays subspaces out on.
type Subspace struct {
	ID   SubspaceID
	Name string
	Row  int
	Col  int
}

// SubspaceManager owns the grid of virtual subspaces, the current
// subspace, and the continuous swipe-gesture accumulator that can move
// between them fractionally before committing (§4.B).
type SubspaceManager struct {
	alloc   *idAllocator
	logger  *logrus.Logger
	order   []SubspaceID // stable creation order, index+1 is the "number"
	byID    map[SubspaceID]*Subspace
	rows    int
	current SubspaceID

	// swipe is non-nil while a continuous gesture is in flight (§4.B
	// "current_changing").
	swipe *subspaceSwipe
}

type subspaceSwipe struct {
	from      SubspaceID
	to        SubspaceID
	progress  float64 // 0..1
	horizontal bool
}

// NewSubspaceManager creates a manager with one default subspace, the
// §7 fallback for "no persisted layout" or "invalid persisted layout."
func NewSubspaceManager(logger *logrus.Logger, alloc *idAllocator) *SubspaceManager {
	if logger == nil {
		logger = logrus.New()
	}
	m := &SubspaceManager{
		alloc:  alloc,
		logger: logger,
		byID:   make(map[SubspaceID]*Subspace),
		rows:   1,
	}
	m.createDefault()
	return m
}

func (m *SubspaceManager) createDefault() {
	s := &Subspace{ID: m.alloc.nextSubspaceID(), Name: "Desktop 1", Row: 0, Col: 0}
	m.byID[s.ID] = s
	m.order = []SubspaceID{s.ID}
	m.current = s.ID
}

// Count returns the number of live subspaces.
func (m *SubspaceManager) Count() int { return len(m.order) }

// Current returns the active subspace id.
func (m *SubspaceManager) Current() SubspaceID { return m.current }

// All returns every subspace in stable creation order.
func (m *SubspaceManager) All() []*Subspace {
	out := make([]*Subspace, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

// Get looks up a subspace by id.
func (m *SubspaceManager) Get(id SubspaceID) (*Subspace, bool) {
	s, ok := m.byID[id]
	return s, ok
}

// Create appends a new subspace at the end of the grid, re-flowing rows
// to keep the grid rectangular per SetRows' layout rule.
func (m *SubspaceManager) Create(name string) *Subspace {
	if name == "" {
		name = fmt.Sprintf("Desktop %d", len(m.order)+1)
	}
	s := &Subspace{ID: m.alloc.nextSubspaceID(), Name: name}
	m.byID[s.ID] = s
	m.order = append(m.order, s.ID)
	m.relayout()
	return s
}

// Remove deletes a subspace. Windows that lived only on it are the
// caller's (Space's) responsibility to reassign to the subspace that
// takes its place, matching §4.B "remove reassigns, never silently
// strands a window."
func (m *SubspaceManager) Remove(id SubspaceID) bool {
	if len(m.order) <= 1 {
		return false // never go below one subspace
	}
	idx := -1
	for i, oid := range m.order {
		if oid == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	m.order = append(m.order[:idx], m.order[idx+1:]...)
	delete(m.byID, id)
	m.relayout()
	if m.current == id {
		if idx >= len(m.order) {
			idx = len(m.order) - 1
		}
		m.current = m.order[idx]
	}
	return true
}

// SetCount grows or shrinks to the requested total, appending or
// removing from the end.
func (m *SubspaceManager) SetCount(n int) []SubspaceID {
	if n < 1 {
		n = 1
	}
	var removed []SubspaceID
	for len(m.order) > n {
		last := m.order[len(m.order)-1]
		if !m.Remove(last) {
			break
		}
		removed = append(removed, last)
	}
	for len(m.order) < n {
		m.Create("")
	}
	return removed
}

// SetRows sets the grid's row count, clamped to [1, number of subspaces],
// and re-derives every subspace's row/col; the column count is the
// subspace count divided by rows, rounded up, so the last row may be short.
func (m *SubspaceManager) SetRows(rows int) {
	if rows < 1 {
		rows = 1
	}
	if rows > len(m.order) {
		rows = len(m.order)
	}
	m.rows = rows
	m.relayout()
}

func (m *SubspaceManager) relayout() {
	if m.rows < 1 {
		m.rows = 1
	}
	cols := (len(m.order) + m.rows - 1) / m.rows
	if cols < 1 {
		cols = 1
	}
	for i, id := range m.order {
		s := m.byID[id]
		s.Row = i / cols
		s.Col = i % cols
	}
}

// SetCurrent switches the active subspace directly (no swipe), the
// keyboard-shortcut path.
func (m *SubspaceManager) SetCurrent(id SubspaceID) bool {
	if _, ok := m.byID[id]; !ok {
		return false
	}
	if m.current == id {
		return false
	}
	m.current = id
	return true
}

func (m *SubspaceManager) grid() (cols int) {
	if m.rows < 1 {
		return len(m.order)
	}
	return (len(m.order) + m.rows - 1) / m.rows
}

// neighbor finds the subspace adjacent to cur in the given direction,
// wrapping around the grid edge, matching §4.B's west_of/east_of/
// north_of/south_of queries.
func (m *SubspaceManager) neighbor(cur SubspaceID, dRow, dCol int) SubspaceID {
	s, ok := m.byID[cur]
	if !ok {
		return cur
	}
	cols := m.grid()
	row := (s.Row + dRow + m.rows) % m.rows
	col := (s.Col + dCol + cols) % cols
	for _, id := range m.order {
		cand := m.byID[id]
		if cand.Row == row && cand.Col == col {
			return id
		}
	}
	return cur
}

func (m *SubspaceManager) WestOf(cur SubspaceID) SubspaceID  { return m.neighbor(cur, 0, -1) }
func (m *SubspaceManager) EastOf(cur SubspaceID) SubspaceID  { return m.neighbor(cur, 0, 1) }
func (m *SubspaceManager) NorthOf(cur SubspaceID) SubspaceID { return m.neighbor(cur, -1, 0) }
func (m *SubspaceManager) SouthOf(cur SubspaceID) SubspaceID { return m.neighbor(cur, 1, 0) }

// BeginSwipe starts a continuous gesture-driven subspace change (§4.B
// "current_changing"). horizontal picks whether progress maps to
// west/east or north/south neighbours.
func (m *SubspaceManager) BeginSwipe(horizontal bool) {
	var to SubspaceID
	if horizontal {
		to = m.EastOf(m.current)
	} else {
		to = m.SouthOf(m.current)
	}
	m.swipe = &subspaceSwipe{from: m.current, to: to, horizontal: horizontal}
}

// UpdateSwipe advances the in-flight gesture's progress, clamped to
// [-1, 1]; negative progress reverses direction toward the opposite
// neighbour without needing a new BeginSwipe call.
func (m *SubspaceManager) UpdateSwipe(delta float64) {
	if m.swipe == nil {
		return
	}
	m.swipe.progress += delta
	if m.swipe.progress > 1 {
		m.swipe.progress = 1
	}
	if m.swipe.progress < -1 {
		m.swipe.progress = -1
	}
	if m.swipe.progress < 0 {
		var opposite SubspaceID
		if m.swipe.horizontal {
			opposite = m.WestOf(m.swipe.from)
		} else {
			opposite = m.NorthOf(m.swipe.from)
		}
		m.swipe.to = opposite
	}
}

// Progress reports the in-flight gesture's progress and target, for
// callers that want to render a live preview; ok is false if no swipe is
// active.
func (m *SubspaceManager) Progress() (target SubspaceID, progress float64, ok bool) {
	if m.swipe == nil {
		return 0, 0, false
	}
	return m.swipe.to, m.swipe.progress, true
}

// EndSwipe commits to the target subspace once progress reaches the
// commit threshold (0.25, §4.B), otherwise cancels back to the origin
// ("current_changing cancelled" in §4.B).
func (m *SubspaceManager) EndSwipe() (changed bool) {
	if m.swipe == nil {
		return false
	}
	s := m.swipe
	m.swipe = nil
	threshold := 0.25
	if s.progress < 0 {
		threshold = -0.25
	}
	commit := (s.progress >= threshold && s.progress > 0) || (s.progress <= threshold && s.progress < 0)
	if !commit {
		m.logger.Debug("subspace swipe cancelled")
		return false
	}
	if s.to == m.current {
		return false
	}
	m.current = s.to
	return true
}

// CancelSwipe aborts an in-flight gesture unconditionally (e.g. a
// competing input grab interrupts it).
func (m *SubspaceManager) CancelSwipe() {
	m.swipe = nil
}
