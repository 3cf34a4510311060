package wm

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aios/wincore/internal/geom"
)

// EdgeSide is one of the four screen borders an edge can be anchored to.
type EdgeSide int

const (
	EdgeLeft EdgeSide = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// EdgeAction is what activating an edge does.
type EdgeAction int

const (
	EdgeActionNone EdgeAction = iota
	EdgeActionSwitchDesktop
	EdgeActionShowDesktop
	EdgeActionQuickTile
	EdgeActionReveal // e.g. an auto-hidden panel
)

// Edge is one reserved screen-edge trigger zone (§4.G). Window-reserved
// edges (a panel asking to be shown on hover) carry Owner != 0.
type Edge struct {
	ID       RuleID // reused id space; edges are not persisted, ids just need to be unique per process
	Side     EdgeSide
	Geometry geom.Rect // the thin trigger strip itself, on an output's boundary
	Action   EdgeAction
	QuickTile QuickTile // only meaningful when Action == EdgeActionQuickTile
	Owner    WindowID  // zero for WM-owned edges (desktop switching), set for reveal edges
}

// EdgeEngine tracks every active edge and the push-back/reactivate
// timing that keeps a single pointer dwell from firing repeatedly
// (§4.G).
type EdgeEngine struct {
	logger     *logrus.Logger
	edges      []*Edge
	nextID     RuleID
	approachPx int

	pushBackPx          int
	timeThreshold       time.Duration
	reactivateThreshold time.Duration
	states              map[RuleID]*edgeTriggerState

	touchActive map[int32]*touchSwipeState
}

type touchSwipeState struct {
	edge     *Edge
	startPos geom.Point
	progress float64
}

// edgeTriggerState is the per-edge push-back/reactivate bookkeeping
// §4.G describes: a WM-owned edge must be dwelt on twice, at least
// time_threshold apart, before it fires, and successive firings are at
// least reactivate_threshold apart.
type edgeTriggerState struct {
	contacted   bool
	lastContact time.Time
	firedOnce   bool
	lastFire    time.Time
}

// NewEdgeEngine constructs an engine using the push-back distance and
// the two §4.G timing thresholds: time_threshold (minimum dwell between
// the push-back and the contact that actually fires) and
// reactivate_threshold (minimum gap between two firings).
func NewEdgeEngine(logger *logrus.Logger, pushBackPx int, timeThreshold, reactivateThreshold time.Duration, approachPx int) *EdgeEngine {
	if logger == nil {
		logger = logrus.New()
	}
	return &EdgeEngine{
		logger:              logger,
		approachPx:          approachPx,
		pushBackPx:          pushBackPx,
		timeThreshold:       timeThreshold,
		reactivateThreshold: reactivateThreshold,
		states:              make(map[RuleID]*edgeTriggerState),
		touchActive:         make(map[int32]*touchSwipeState),
	}
}

// PushBackPx is the distance a caller should teleport the pointer away
// from the edge after Trigger reports fired=false for a WM-owned edge,
// so the next real approach is distinguishable from lingering in the
// same spot.
func (e *EdgeEngine) PushBackPx() int { return e.pushBackPx }

// Reserve creates a new edge trigger, used both by the WM itself
// (desktop-switching borders) and by a client asking to be revealed on
// hover (§6 "show-on-edge").
func (e *EdgeEngine) Reserve(side EdgeSide, geometry geom.Rect, action EdgeAction, owner WindowID) *Edge {
	e.nextID++
	edge := &Edge{ID: e.nextID, Side: side, Geometry: geometry, Action: action, Owner: owner}
	e.edges = append(e.edges, edge)
	return edge
}

// Unreserve removes every edge owned by the given window, called on
// unmanage or when the window stops requesting edge reveal.
func (e *EdgeEngine) Unreserve(owner WindowID) {
	filtered := e.edges[:0]
	for _, edge := range e.edges {
		if edge.Owner != owner {
			filtered = append(filtered, edge)
		} else {
			delete(e.states, edge.ID)
		}
	}
	e.edges = filtered
}

// Recreate rebuilds the WM-owned desktop-switching edges from the given
// outputs, called on OutputsChanged per §6's "recreate_edges()".
func (e *EdgeEngine) Recreate(outputs []Output, wrapSubspaces bool) {
	var kept []*Edge
	for _, edge := range e.edges {
		if edge.Owner != 0 {
			kept = append(kept, edge) // reveal edges survive an output change
		}
	}
	e.edges = kept
	if !wrapSubspaces {
		return
	}
	for _, o := range outputs {
		g := o.Geometry
		e.Reserve(EdgeLeft, geom.Rect{X: g.X, Y: g.Y, W: 1, H: g.H}, EdgeActionSwitchDesktop, 0)
		e.Reserve(EdgeRight, geom.Rect{X: g.Right() - 1, Y: g.Y, W: 1, H: g.H}, EdgeActionSwitchDesktop, 0)
		e.Reserve(EdgeTop, geom.Rect{X: g.X, Y: g.Y, W: g.W, H: 1}, EdgeActionSwitchDesktop, 0)
		e.Reserve(EdgeBottom, geom.Rect{X: g.X, Y: g.Bottom() - 1, W: g.W, H: 1}, EdgeActionSwitchDesktop, 0)
	}
}

// Approach reports whether pos is within the approach distance of any
// edge, returning the nearest one. Effects can use this to start a
// preview glow before the edge actually fires (§4.G "approach
// geometry").
func (e *EdgeEngine) Approach(pos geom.Point) (*Edge, bool) {
	for _, edge := range e.edges {
		approachZone := edge.Geometry.Grow(geom.Margins{Left: e.approachPx, Right: e.approachPx, Top: e.approachPx, Bottom: e.approachPx})
		if approachZone.Contains(pos) {
			return edge, true
		}
	}
	return nil, false
}

// Trigger fires the edge at pos if the pointer has actually crossed into
// its (non-approach) geometry, running the §4.G push-back/reactivate
// state machine for WM-owned edges. Reveal edges (Owner != 0) fire on
// every contact; they are not subject to push-back since a panel
// auto-show is expected to track the pointer continuously.
func (e *EdgeEngine) Trigger(pos geom.Point, now time.Time) (*Edge, bool) {
	for _, edge := range e.edges {
		if !edge.Geometry.Contains(pos) {
			continue
		}
		if edge.Owner != 0 {
			return edge, true
		}
		if !e.dwell(edge, now) {
			return nil, false
		}
		e.logger.WithField("side", edge.Side).Debug("screen edge triggered")
		return edge, true
	}
	return nil, false
}

// dwell implements the two-stage push-back/reactivate decision for one
// WM-owned edge contact at time now. The first contact after any gap
// only records the dwell (the caller pushes the pointer back and no
// action fires); a later contact fires once it is at least
// time_threshold past the last recorded dwell and at least
// reactivate_threshold past the previous firing.
func (e *EdgeEngine) dwell(edge *Edge, now time.Time) bool {
	st := e.states[edge.ID]
	if st == nil {
		st = &edgeTriggerState{}
		e.states[edge.ID] = st
	}
	sinceDwell := now.Sub(st.lastContact)
	wasContacted := st.contacted
	st.contacted = true
	st.lastContact = now

	if !wasContacted || sinceDwell < e.timeThreshold {
		return false
	}
	if st.firedOnce && now.Sub(st.lastFire) < e.reactivateThreshold {
		return false
	}
	st.firedOnce = true
	st.lastFire = now
	return true
}

// BeginTouchSwipe starts a touch-driven edge swipe gesture (§4.G "touch
// swipe"), distinct from the subspace continuous-swipe gesture in that
// it is anchored to a specific edge rather than a keyboard shortcut.
func (e *EdgeEngine) BeginTouchSwipe(touchID int32, pos geom.Point) bool {
	edge, ok := e.Approach(pos)
	if !ok {
		return false
	}
	e.touchActive[touchID] = &touchSwipeState{edge: edge, startPos: pos}
	return true
}

// UpdateTouchSwipe advances progress for an in-flight touch swipe,
// returning the edge and current progress.
func (e *EdgeEngine) UpdateTouchSwipe(touchID int32, pos geom.Point, travelPx int) (*Edge, float64, bool) {
	s, ok := e.touchActive[touchID]
	if !ok {
		return nil, 0, false
	}
	dx := pos.X - s.startPos.X
	dy := pos.Y - s.startPos.Y
	dist := abs(dx)
	if s.edge.Side == EdgeTop || s.edge.Side == EdgeBottom {
		dist = abs(dy)
	}
	if travelPx <= 0 {
		travelPx = 1
	}
	s.progress = float64(dist) / float64(travelPx)
	if s.progress > 1 {
		s.progress = 1
	}
	return s.edge, s.progress, true
}

// EndTouchSwipe commits or cancels based on whether progress reached the
// halfway mark (0.5); subspace.go's gesture swipe commits at the lower
// 0.25.
func (e *EdgeEngine) EndTouchSwipe(touchID int32) (edge *Edge, committed bool) {
	s, ok := e.touchActive[touchID]
	if !ok {
		return nil, false
	}
	delete(e.touchActive, touchID)
	return s.edge, s.progress >= 0.5
}
