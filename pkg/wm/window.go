package wm

import (
	"time"

	"github.com/aios/wincore/internal/geom"
)

// WindowType groups the handful of window-type-driven behaviours §3 and
// §4.D reference (layer defaults, decoration defaults, taskbar presence).
type WindowType int

const (
	TypeNormal WindowType = iota
	TypeDialog
	TypeUtility
	TypeToolbar
	TypeSplash
	TypeDock
	TypeDesktop
	TypeNotification
	TypeCriticalNotification
	TypeOnScreenDisplay
	TypeTooltip
	TypeMenu
	TypeUnmanaged
)

// MaximizeMode is a bitmask: zero or more of {vertical, horizontal}.
// "Full" in the spec's prose is MaxVertical|MaxHorizontal.
type MaximizeMode uint8

const (
	MaximizeNone  MaximizeMode = 0
	MaxVertical   MaximizeMode = 1 << 0
	MaxHorizontal MaximizeMode = 1 << 1
	MaxFull                    = MaxVertical | MaxHorizontal
)

func (m MaximizeMode) Vertical() bool   { return m&MaxVertical != 0 }
func (m MaximizeMode) Horizontal() bool { return m&MaxHorizontal != 0 }
func (m MaximizeMode) Full() bool       { return m == MaxFull }
func (m MaximizeMode) Any() bool        { return m != MaximizeNone }

// QuickTile is the half/quarter/maximize tiling target of §4.F.
type QuickTile int

const (
	QuickTileNone QuickTile = iota
	QuickTileLeft
	QuickTileRight
	QuickTileTop
	QuickTileBottom
	QuickTileTopLeft
	QuickTileTopRight
	QuickTileBottomLeft
	QuickTileBottomRight
	QuickTileMaximize
)

// Contact is the nine-way move/resize grab point of §4.F.
type Contact int

const (
	ContactNone Contact = iota
	ContactCenter
	ContactLeft
	ContactRight
	ContactTop
	ContactBottom
	ContactTopLeft
	ContactTopRight
	ContactBottomLeft
	ContactBottomRight
)

// Layer is the discrete z-order band of §4.D, lowest to highest.
type Layer int

const (
	LayerDesktop Layer = iota
	LayerBelow
	LayerNormal
	LayerDock
	LayerAbove
	LayerNotification
	LayerActiveFullscreen
	LayerCriticalNotification
	LayerOnScreenDisplay
	LayerUnmanaged
	numLayers
)

// Flags bundles the boolean attributes of §3 that do not need their own
// field because they never interact with geometry or rule outcomes
// beyond a simple true/false.
type Flags struct {
	KeepAbove         bool
	KeepBelow         bool
	SkipTaskbar       bool
	SkipPager         bool
	SkipSwitcher      bool
	DemandsAttention  bool
	Modal             bool
	NoBorder          bool
	UserNoBorder      bool
	Fullscreen        bool
	BlocksCompositing bool
}

// Visibility bundles the mapped/shown state machine of §3.
type Visibility struct {
	Mapped          bool
	Minimized       bool
	Hidden          bool // e.g. hidden behind a screen-edge reveal trigger
	ReadyForPainting bool
}

// Geometry bundles every rectangle §3 names. FullscreenRestore and
// QuickTileRestore are only meaningful while Fullscreen or QuickTile is
// active (or just cleared), mirroring the spec's "restore rect" idea
// applied twice over.
type Geometry struct {
	Frame            geom.Rect // outer, what the user sees
	Client           geom.Rect // inner buffer, client-relative
	Buffer           geom.Rect // what the compositor samples
	Restore          geom.Rect // pre-maximize frame rect
	FullscreenRestore geom.Rect
	QuickTileRestore  geom.Rect
	Margins          geom.Margins
	MinSize          geom.Size
	MaxSize          geom.Size
	SizeIncrement    geom.Size
	BaseSize         geom.Size
	AspectMin        float64 // 0 means unconstrained
	AspectMax        float64
}

// Kind distinguishes the tagged-variant capability sets a Window can
// have, per the design notes' "polymorphism via tagged variants"
// strategy: every Window carries the same struct, but components that
// only operate on controlled windows check Kind first instead of the
// engine needing a separate type per variant.
type Kind int

const (
	KindControlled Kind = iota
	KindUnmanaged
	KindInternal
	KindRemnant
)

// Window is the central entity of §3. A single struct serves all of
// §3's Kind variants; fields meaningless for a given Kind are simply
// left zero (e.g. an Unmanaged window has no MaximizeState).
type Window struct {
	ID       WindowID
	ClientID WindowID // originating protocol id, may equal ID
	Kind     Kind

	// Identity
	Title       string
	Class       string
	Instance    string
	Role        string
	Machine     string
	PID         int
	DesktopFile string
	Type        WindowType

	Geometry   Geometry
	Visibility Visibility
	Flags      Flags

	Maximize          MaximizeMode
	RequestedMaximize MaximizeMode
	QuickTile         QuickTile

	// Desktops: empty means on-all-desktops (§3 invariant: never a
	// wildcard member, always the empty set).
	Desktops map[SubspaceID]struct{}

	// Transient graph.
	Parent   WindowID // zero if none
	Children map[WindowID]struct{}

	Group GroupID // zero if none

	Layer      Layer
	LayerDirty bool

	UserTime int64 // -1 unknown, 0 "does not want focus"

	Rules RuleSnapshot

	Shortcut string
	Opacity  OpacityPair

	AcceptsFocus bool
	FSPLevel     int // focus-stealing-prevention level forced on this window, -1 = use default
	ProtectionLevel int // focus-protection level, -1 = use default

	Closing bool // phase one of the two-phase destroy

	createdAt time.Time
	lastRaise time.Time
}

// OpacityPair is the active/inactive opacity rule outcome.
type OpacityPair struct {
	Active, Inactive float64 // 0 means "unset", use compositor default
}

// newWindow allocates a zero-value-safe Window with its maps initialised.
func newWindow(id WindowID, kind Kind) *Window {
	return &Window{
		ID:              id,
		ClientID:        id,
		Kind:            kind,
		Desktops:        make(map[SubspaceID]struct{}),
		Children:        make(map[WindowID]struct{}),
		UserTime:        -1,
		FSPLevel:        -1,
		ProtectionLevel: -1,
		AcceptsFocus:    true,
		createdAt:       time.Now(),
	}
}

// OnAllDesktops reports the invariant from §3: desktops.empty() iff
// on_all_desktops.
func (w *Window) OnAllDesktops() bool { return len(w.Desktops) == 0 }

// OnDesktop reports whether w is visible on subspace s.
func (w *Window) OnDesktop(s SubspaceID) bool {
	if w.OnAllDesktops() {
		return true
	}
	_, ok := w.Desktops[s]
	return ok
}

// Controlled reports whether the WM positions and decorates this window.
func (w *Window) Controlled() bool { return w.Kind == KindControlled }

// Shown reports whether the window is currently paintable: mapped, not
// minimized, not hidden, and not just a closing remnant.
func (w *Window) Shown() bool {
	return w.Visibility.Mapped && !w.Visibility.Minimized && !w.Visibility.Hidden && w.Kind != KindRemnant
}

// WantsInput reports whether the window is eligible to receive focus at
// all, independent of the focus-stealing policy in §4.E.
func (w *Window) WantsInput() bool {
	return w.AcceptsFocus && w.UserTime != 0
}
