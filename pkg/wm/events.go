package wm

import "github.com/aios/wincore/internal/geom"

// Event is the tagged union of already-decoded protocol events the core
// consumes (§6). The X11/Wayland wire handling that produces these is an
// external collaborator; by the time an Event reaches Space, attribute
// names and pixel geometry have already been resolved.
//
// Each concrete type below is a variant; Space.HandleEvent type-switches
// on Event rather than branching on a Kind field, which keeps each
// variant's fields statically typed instead of stuffed into a generic
// payload map.
type Event interface {
	eventMarker()
}

// WindowCreated is emitted the first time the protocol layer learns of a
// client surface. It precedes the manage step (§4.A); the window is not
// yet part of any stacking or focus structure.
type WindowCreated struct {
	ClientID      WindowID
	InitialAttrs  InitialAttrs
	AlreadyMapped bool
}

// InitialAttrs bundles the wire-level attributes the manage step reads
// in §4.A step 2.
type InitialAttrs struct {
	Title             string
	Class             string
	Instance          string
	Role              string
	Machine           string
	PID               int
	DesktopFile       string
	WindowType        WindowType
	TransientFor      WindowID // zero if none
	Modal             bool
	StartupID         string
	UserTime          int64 // -1 means unknown
	Desktop           int   // 0 means "not set"; on-all encoded separately
	OnAllDesktops     bool
	MaxHorz, MaxVert  bool
	Fullscreen        bool
	KeepAbove         bool
	KeepBelow         bool
	SkipTaskbar       bool
	SkipPager         bool
	SkipSwitcher      bool
	DemandsAttention  bool
	Iconic            bool
	GTKFrameExtents   geom.Margins
	OpaqueRegion      geom.Rect
	ClientPos         geom.Point
	ClientSize        geom.Size
	BufferSize        geom.Size
	AcceptsFocus      bool
	ScreenIndex       int
}

// WindowDestroyed is emitted when the underlying client surface is gone
// for good (phase two of the two-phase destroy in §3 Lifecycle).
type WindowDestroyed struct {
	ID WindowID
}

// MapRequest asks the core to make a window visible.
type MapRequest struct {
	ID WindowID
}

// Unmap asks the core to withdraw a window (still tracked, not shown).
type Unmap struct {
	ID WindowID
}

// ConfigureRequest is a client's asynchronous request to change its own
// geometry or stacking position.
type ConfigureRequest struct {
	ID         WindowID
	Rect       geom.Rect
	HasRect    bool
	StackMode  StackMode
	Sibling    WindowID // zero if none
}

// StackMode mirrors the ICCCM/EWMH restack modes §4.D describes.
type StackMode int

const (
	StackAbove StackMode = iota
	StackBelow
	StackTopIf
	StackBottomIf
	StackOpposite
)

// PropertyChanged notifies the core that a named client property was
// updated out of band (title, class, desktop-file, ...).
type PropertyChanged struct {
	ID   WindowID
	Name string
}

// Commit carries a new buffer geometry from an asynchronous client ack,
// e.g. after a resize request (§4.F "for resize this request is
// protocol-asynchronous").
type Commit struct {
	ID             WindowID
	BufferGeometry geom.Rect
	Serial         uint64
}

// FocusIn/FocusOut are the protocol-level focus acks §4.E waits on.
type FocusIn struct{ ID WindowID }
type FocusOut struct{ ID WindowID }

// ClientMessage is an opaque client-to-WM message (e.g. _NET_WM_STATE
// requests, _NET_ACTIVE_WINDOW). Payload interpretation is the caller's
// concern except for the handful of message types §4 names explicitly.
type ClientMessage struct {
	ID      WindowID
	Type    string
	Payload []int64
}

// Pointer events.
type PointerMove struct {
	Pos    geom.Point
	Serial uint64
}
type PointerButton struct {
	Pos     geom.Point
	Button  int
	Pressed bool
}
type PointerAxis struct {
	Horizontal bool
	Delta      float64
}

// Keyboard events.
type KeyPress struct {
	Code      uint32
	Modifiers Modifiers
}
type KeyRelease struct {
	Code      uint32
	Modifiers Modifiers
}

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModMeta
)

// Touch events.
type TouchDown struct {
	TouchID int32
	Pos     geom.Point
}
type TouchMotion struct {
	TouchID int32
	Pos     geom.Point
}
type TouchUp struct {
	TouchID int32
}

// Gesture events drive the continuous subspace swipe (§4.B) and the
// touch-edge swipe (§4.G).
type GestureKind int

const (
	GesturePinch GestureKind = iota
	GestureSwipe
)

type GestureBegin struct {
	Kind   GestureKind
	Fd     int // finger/device count
}
type GestureUpdate struct {
	Kind  GestureKind
	Delta geom.Point // fractional offset accumulated so far, x,y in milli-units
}
type GestureEnd struct {
	Kind      GestureKind
	Cancelled bool
}

// OutputsChanged notifies the core that the output set changed shape
// (monitor added/removed/resized); §6 says this must trigger
// update_client_area() and recreate_edges().
type OutputsChanged struct{}

func (WindowCreated) eventMarker()    {}
func (WindowDestroyed) eventMarker()  {}
func (MapRequest) eventMarker()       {}
func (Unmap) eventMarker()            {}
func (ConfigureRequest) eventMarker() {}
func (PropertyChanged) eventMarker()  {}
func (Commit) eventMarker()           {}
func (FocusIn) eventMarker()          {}
func (FocusOut) eventMarker()         {}
func (ClientMessage) eventMarker()    {}
func (PointerMove) eventMarker()      {}
func (PointerButton) eventMarker()    {}
func (PointerAxis) eventMarker()      {}
func (KeyPress) eventMarker()         {}
func (KeyRelease) eventMarker()       {}
func (TouchDown) eventMarker()        {}
func (TouchMotion) eventMarker()      {}
func (TouchUp) eventMarker()          {}
func (GestureBegin) eventMarker()     {}
func (GestureUpdate) eventMarker()    {}
func (GestureEnd) eventMarker()       {}
func (OutputsChanged) eventMarker()   {}
