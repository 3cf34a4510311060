// Package geom holds the small geometry value types shared by the window,
// stacking, move/resize and screen-edge components. It deliberately stays
// dependency-free: a rectangle and a point are all the core needs, and
// pulling in a general-purpose geometry or vector-math library would be a
// dependency with no concern of its own to own.
package geom

// Point is an integer screen-space coordinate.
type Point struct {
	X, Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{p.X + d.X, p.Y + d.Y}
}

// Sub returns p translated by -d.
func (p Point) Sub(d Point) Point {
	return Point{p.X - d.X, p.Y - d.Y}
}

// Size is a width/height pair. Negative dimensions are never produced by
// this package's own operations but are not rejected here; callers that
// need a floor (e.g. min-size clamping) do it explicitly.
type Size struct {
	W, H int
}

// Rect is an axis-aligned rectangle in screen space, given by its
// top-left corner and size. Two rects are equal iff all four fields
// match; there is no normalization of empty/negative rects.
type Rect struct {
	X, Y, W, H int
}

// RectFromPoints builds a Rect from a top-left point and a size.
func RectFromPoints(pos Point, size Size) Rect {
	return Rect{X: pos.X, Y: pos.Y, W: size.W, H: size.H}
}

// Pos returns the rect's top-left corner.
func (r Rect) Pos() Point { return Point{r.X, r.Y} }

// Size returns the rect's dimensions.
func (r Rect) Size() Size { return Size{r.W, r.H} }

// Right returns the x coordinate just past the rect's right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate just past the rect's bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// CenterX returns the horizontal center.
func (r Rect) CenterX() int { return r.X + r.W/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() int { return r.Y + r.H/2 }

// Center returns the rect's midpoint.
func (r Rect) Center() Point { return Point{r.CenterX(), r.CenterY()} }

// Contains reports whether p lies within r (right/bottom edges exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Translated returns r moved by d.
func (r Rect) Translated(d Point) Rect {
	return Rect{r.X + d.X, r.Y + d.Y, r.W, r.H}
}

// WithSize returns r with its size replaced, position unchanged.
func (r Rect) WithSize(s Size) Rect {
	return Rect{r.X, r.Y, s.W, s.H}
}

// WithPos returns r with its position replaced, size unchanged.
func (r Rect) WithPos(p Point) Rect {
	return Rect{p.X, p.Y, r.W, r.H}
}

// Clamp returns the smallest translation of r that keeps it fully inside
// bounds, shrinking it first if it is larger than bounds in a dimension.
// Used to keep restored/placed geometry on-screen.
func (r Rect) Clamp(bounds Rect) Rect {
	out := r
	if out.W > bounds.W {
		out.W = bounds.W
	}
	if out.H > bounds.H {
		out.H = bounds.H
	}
	if out.X < bounds.X {
		out.X = bounds.X
	}
	if out.Y < bounds.Y {
		out.Y = bounds.Y
	}
	if out.Right() > bounds.Right() {
		out.X = bounds.Right() - out.W
	}
	if out.Bottom() > bounds.Bottom() {
		out.Y = bounds.Bottom() - out.H
	}
	return out
}

// Margins is the four-sided border produced by decorations.
type Margins struct {
	Left, Top, Right, Bottom int
}

// Shrink returns r inset by m.
func (r Rect) Shrink(m Margins) Rect {
	return Rect{
		X: r.X + m.Left,
		Y: r.Y + m.Top,
		W: r.W - m.Left - m.Right,
		H: r.H - m.Top - m.Bottom,
	}
}

// Grow returns r outset by m (the inverse of Shrink).
func (r Rect) Grow(m Margins) Rect {
	return Rect{
		X: r.X - m.Left,
		Y: r.Y - m.Top,
		W: r.W + m.Left + m.Right,
		H: r.H + m.Top + m.Bottom,
	}
}
