package wm

import "github.com/aios/wincore/internal/geom"

// Compositor is the render-side collaborator (§6 "Consumed: render
// compositor"). The core never touches a GPU context or a scene graph;
// it only asks the compositor to schedule repaints and tells it which
// surfaces are compositor-internal so they are not tracked as ordinary
// windows.
type Compositor interface {
	ScheduleRepaint(id WindowID, all bool)
	AddRepaint(region geom.Rect)
	IsOverlayWindow(id WindowID) bool
	// EffectsHook reports whether an active fullscreen effect currently
	// suppresses screen-edge activation.
	EffectsHook() bool
}

// Decoration is what a DecorationFactory hands back for a single window:
// border sizes and titlebar/button hit-testing. The engine asks it for
// margins during placement and geometry computation and forwards
// pointer hits for input routing (§4.H "decoration handling precedes
// forward-to-wayland").
type Decoration interface {
	Margins() geom.Margins
	// HitTest classifies a point in frame-local coordinates as one of
	// the nine move/resize contacts, or ContactNone if it lands on a
	// button/titlebar area the decoration itself handles.
	HitTest(p geom.Point) Contact
}

// DecorationFactory creates decorations for newly managed windows.
// A nil return (lost dependency, §7) falls back to no-border.
type DecorationFactory interface {
	CreateDecoration(w *Window) Decoration
}

// Output describes one monitor in the output set.
type Output struct {
	Name     string
	Geometry geom.Rect
	// Struts reserved by docks/panels on this output, already resolved
	// to a rectangle to subtract from Geometry to get the work area.
	Strut geom.Margins
}

// WorkArea returns the output's geometry minus its reserved struts.
func (o Output) WorkArea() geom.Rect {
	return o.Geometry.Shrink(o.Strut)
}

// OutputSet is the ordered collection of outputs (§6 "Consumed: output
// set"). PrimaryIndex names the output new windows without a better hint
// should be placed on.
type OutputSet interface {
	Outputs() []Output
	PrimaryIndex() int
}

// staticOutputSet is the trivial OutputSet used when no real output
// source is wired in, and the fallback §7 mandates when the real output
// set comes back empty: a single synthetic 1x1 output.
type staticOutputSet struct {
	outputs []Output
	primary int
}

func (s staticOutputSet) Outputs() []Output { return s.outputs }
func (s staticOutputSet) PrimaryIndex() int { return s.primary }

func fallbackOutputSet() OutputSet {
	return staticOutputSet{
		outputs: []Output{{Name: "fallback", Geometry: geom.Rect{X: 0, Y: 0, W: 1, H: 1}}},
		primary: 0,
	}
}
