package interp

import "fmt"

// Shape is the tagged Rect/Circle variant.
type Shape struct {
	Kind   ObjectKind
	Width  Number // Rect only
	Height Number // Rect only
	Radius Number // Circle only
	Fill   string
}

// withoutFill returns a copy of the shape with Fill cleared, used as
// part of the collision-cache key so geometrically identical tests
// share an entry regardless of color.
func (s Shape) withoutFill() Shape {
	s.Fill = ""
	return s
}

// Vec is a 2D displacement or position.
type Vec struct {
	X, Y Number
}

func (v Vec) Add(o Vec) Vec { return Vec{X: v.X.Add(o.X), Y: v.Y.Add(o.Y)} }
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X.Sub(o.X), Y: v.Y.Sub(o.Y)} }

// Object is a named shape instance at a position.
type Object struct {
	Name  string
	Pos   Vec // top-left for Rect, center for Circle
	Shape Shape
	Depth int

	Appeared bool
	Ignored  bool

	// Moving holds the pending translation for the current segment, or
	// nil when the object is not scheduled to move.
	Moving *Vec
}

// Array is a named collection of Objects.
type Array struct {
	Name      string
	ShapeDims []int64
	Kind      ObjectKind
	Values    map[string]*Object // keyed by the joined index tuple, e.g. "1_2"
}

func indexKey(indices []int64) string {
	s := ""
	for i, v := range indices {
		if i > 0 {
			s += "_"
		}
		s += fmt.Sprintf("%d", v)
	}
	return s
}

func (a *Array) validIndices(indices []int64) bool {
	if len(indices) != len(a.ShapeDims) {
		return false
	}
	for i, v := range indices {
		if v < 1 || v > a.ShapeDims[i] {
			return false
		}
	}
	return true
}

// Scene is the ordered sequence of Objects, iteration order equal to
// creation order (depth).
type Scene struct {
	objects []*Object
}

func (s *Scene) append(o *Object) { s.objects = append(s.objects, o) }

// Objects returns the scene's objects in depth order.
func (s *Scene) Objects() []*Object { return s.objects }

func (s *Scene) Len() int { return len(s.objects) }
