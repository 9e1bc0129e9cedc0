package interp

import "go/token"

// collision.go implements the geometric collision engine: swept-volume
// overlap and containment tests between the two simultaneously
// moving/static shapes a scene ever contains (axis-aligned rectangles
// and circles), memoized per CollisionEngine (Run builds a fresh engine,
// so cached results are not shared between runs).
//
// All comparisons are done on squared distances so that no square root
// (and therefore no precision loss) is ever needed: every predicate in
// this file only needs to compare a distance against a bound, never to
// report the distance itself.

// CollisionEngine holds the two memoization caches. It is not safe for
// concurrent use; evaluation is strictly sequential, so no locking is
// needed.
type CollisionEngine struct {
	overlapCache map[collisionKey]bool
	coveredCache map[collisionKey]bool
}

func NewCollisionEngine() *CollisionEngine {
	return &CollisionEngine{
		overlapCache: map[collisionKey]bool{},
		coveredCache: map[collisionKey]bool{},
	}
}

type shapeKeyPart struct {
	Kind ObjectKind
	W, H, R string
}

func shapeKey(s Shape) shapeKeyPart {
	return shapeKeyPart{Kind: s.Kind, W: s.Width.String(), H: s.Height.String(), R: s.Radius.String()}
}

type collisionKey struct {
	relX, relY string
	mX, mY     string
	a, b       shapeKeyPart
}

func vecOrZero(v *Vec) Vec {
	if v == nil {
		return Vec{X: NewInt(0), Y: NewInt(0)}
	}
	return *v
}

// Overlap reports whether a and b (moving or static) intersect at any
// point during the segment. The result is memoized on the relative
// start offset, the relative motion, and the two fill-stripped shapes.
func (ce *CollisionEngine) Overlap(a, b *Object) (bool, error) {
	ma, mb := vecOrZero(a.Moving), vecOrZero(b.Moving)
	rel := a.Pos.Sub(b.Pos)
	m := ma.Sub(mb)
	key := collisionKey{
		relX: rel.X.String(), relY: rel.Y.String(),
		mX: m.X.String(), mY: m.Y.String(),
		a: shapeKey(a.Shape.withoutFill()), b: shapeKey(b.Shape.withoutFill()),
	}
	if v, ok := ce.overlapCache[key]; ok {
		return v, nil
	}
	v, err := computeOverlap(a, b)
	if err != nil {
		return false, err
	}
	ce.overlapCache[key] = v
	return v, nil
}

// Covered reports whether moving is fully contained in static during
// the segment.
func (ce *CollisionEngine) Covered(moving, static *Object) (bool, error) {
	m := vecOrZero(moving.Moving)
	rel := moving.Pos.Sub(static.Pos)
	key := collisionKey{
		relX: rel.X.String(), relY: rel.Y.String(),
		mX: m.X.String(), mY: m.Y.String(),
		a: shapeKey(moving.Shape.withoutFill()), b: shapeKey(static.Shape.withoutFill()),
	}
	if v, ok := ce.coveredCache[key]; ok {
		return v, nil
	}
	v, err := computeCovered(moving, static)
	if err != nil {
		return false, err
	}
	ce.coveredCache[key] = v
	return v, nil
}

func computeOverlap(a, b *Object) (bool, error) {
	switch {
	case a.Shape.Kind == KindCircle && b.Shape.Kind == KindCircle:
		return overlapCircleCircle(a, b), nil
	case a.Shape.Kind == KindRect && b.Shape.Kind == KindRect:
		return overlapRectRect(a, b), nil
	case a.Shape.Kind == KindRect && b.Shape.Kind == KindCircle:
		return overlapRectCircle(a, b), nil
	case a.Shape.Kind == KindCircle && b.Shape.Kind == KindRect:
		return overlapRectCircle(b, a), nil
	}
	return false, newEvalError(token.Position{}, ErrUnsupportedShapePair, "unsupported shape pair")
}

func computeCovered(moving, static *Object) (bool, error) {
	switch {
	case moving.Shape.Kind == KindCircle && static.Shape.Kind == KindCircle:
		return coveredCircleInCircle(moving, static), nil
	case moving.Shape.Kind == KindRect && static.Shape.Kind == KindRect:
		return coveredRectInRect(moving, static), nil
	case moving.Shape.Kind == KindCircle && static.Shape.Kind == KindRect:
		return coveredCircleInRect(moving, static), nil
	case moving.Shape.Kind == KindRect && static.Shape.Kind == KindCircle:
		return coveredRectInCircle(moving, static), nil
	}
	return false, newEvalError(token.Position{}, ErrUnsupportedShapePair, "unsupported shape pair")
}

// --- geometry primitives ---

// distPointSegmentSq returns the squared minimum distance from p to the
// segment [a, b].
func distPointSegmentSq(p, a, b Vec) Number {
	ab := b.Sub(a)
	denom := ab.X.Mul(ab.X).Add(ab.Y.Mul(ab.Y))
	if denom.IsZero() {
		return distPointPointSq(p, a)
	}
	ap := p.Sub(a)
	t, _ := ap.X.Mul(ab.X).Add(ap.Y.Mul(ab.Y)).Div(denom)
	zero, one := NewInt(0), NewInt(1)
	if t.LessThan(zero) {
		t = zero
	} else if t.GreaterThan(one) {
		t = one
	}
	closest := a.Add(Vec{X: ab.X.Mul(t), Y: ab.Y.Mul(t)})
	return distPointPointSq(p, closest)
}

func distPointPointSq(p, q Vec) Number {
	d := p.Sub(q)
	return d.X.Mul(d.X).Add(d.Y.Mul(d.Y))
}

// rectCorners returns the 4 corners of a rectangle shape at pos, in
// v0..v3 order starting from the top-left.
func rectCorners(pos Vec, s Shape) [4]Vec {
	return [4]Vec{
		pos,
		{X: pos.X.Add(s.Width), Y: pos.Y},
		{X: pos.X.Add(s.Width), Y: pos.Y.Add(s.Height)},
		{X: pos.X, Y: pos.Y.Add(s.Height)},
	}
}

func sign(n Number) int {
	zero := NewInt(0)
	if n.GreaterThan(zero) {
		return 1
	}
	if n.LessThan(zero) {
		return -1
	}
	return 0
}

// sweptRectPolygon builds the swept polygon for a rectangle whose
// corners are v, translated by m: one convex polygon of 4-6 vertices
// per sign(m.x) x sign(m.y) case.
func sweptRectPolygon(v [4]Vec, m Vec) []Vec {
	t := func(p Vec) Vec { return p.Add(m) }
	v0, v1, v2, v3 := v[0], v[1], v[2], v[3]
	v0p, v1p, v2p, v3p := t(v0), t(v1), t(v2), t(v3)

	switch sx, sy := sign(m.X), sign(m.Y); {
	case sx > 0 && sy > 0:
		return []Vec{v0, v1, v1p, v2p, v3p, v3}
	case sx > 0 && sy == 0:
		return []Vec{v0, v1p, v2p, v3}
	case sx > 0 && sy < 0:
		return []Vec{v0, v0p, v1p, v2p, v2, v3}
	case sx == 0 && sy > 0:
		return []Vec{v0, v1, v2p, v3p}
	case sx == 0 && sy == 0:
		return []Vec{v0, v1, v2, v3}
	case sx == 0 && sy < 0:
		return []Vec{v0p, v1p, v2, v3}
	case sx < 0 && sy > 0:
		return []Vec{v0, v1, v2, v2p, v3p, v0p}
	case sx < 0 && sy == 0:
		return []Vec{v0p, v1, v2, v3p}
	default: // sx < 0 && sy < 0
		return []Vec{v1, v2, v3, v3p, v0p, v1p}
	}
}

// pointInConvexPolygon reports whether p lies inside, or on the
// boundary of, the convex polygon poly. Boundary contact counts.
func pointInConvexPolygon(poly []Vec, p Vec) bool {
	zero := NewInt(0)
	sawPos, sawNeg := false, false
	n := len(poly)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		edge := b.Sub(a)
		rel := p.Sub(a)
		cross := edge.X.Mul(rel.Y).Sub(edge.Y.Mul(rel.X))
		if cross.GreaterThan(zero) {
			sawPos = true
		} else if cross.LessThan(zero) {
			sawNeg = true
		}
	}
	return !(sawPos && sawNeg)
}

// onSegment reports whether colinear point p lies within the closed
// bounding box of segment [a,b].
func onSegment(a, b, p Vec) bool {
	minX, maxX := a.X, b.X
	if minX.GreaterThan(maxX) {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY.GreaterThan(maxY) {
		minY, maxY = maxY, minY
	}
	return minX.LessOrEqual(p.X) && p.X.LessOrEqual(maxX) && minY.LessOrEqual(p.Y) && p.Y.LessOrEqual(maxY)
}

func cross2(o, a, b Vec) Number {
	oa := a.Sub(o)
	ob := b.Sub(o)
	return oa.X.Mul(ob.Y).Sub(oa.Y.Mul(ob.X))
}

// segmentsIntersect reports whether segments [p1,p2] and [p3,p4]
// intersect or touch.
func segmentsIntersect(p1, p2, p3, p4 Vec) bool {
	d1 := cross2(p3, p4, p1)
	d2 := cross2(p3, p4, p2)
	d3 := cross2(p1, p2, p3)
	d4 := cross2(p1, p2, p4)

	zero := NewInt(0)
	if ((d1.GreaterThan(zero) && d2.LessThan(zero)) || (d1.LessThan(zero) && d2.GreaterThan(zero))) &&
		((d3.GreaterThan(zero) && d4.LessThan(zero)) || (d3.LessThan(zero) && d4.GreaterThan(zero))) {
		return true
	}
	if d1.IsZero() && onSegment(p3, p4, p1) {
		return true
	}
	if d2.IsZero() && onSegment(p3, p4, p2) {
		return true
	}
	if d3.IsZero() && onSegment(p1, p2, p3) {
		return true
	}
	if d4.IsZero() && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

func polygonEdgeCrossesPolygon(poly, other []Vec) bool {
	n := len(poly)
	m := len(other)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		for j := 0; j < m; j++ {
			c, d := other[j], other[(j+1)%m]
			if segmentsIntersect(a, b, c, d) {
				return true
			}
		}
	}
	return false
}

// --- overlap ---

func overlapCircleCircle(a, b *Object) bool {
	ma, mb := vecOrZero(a.Moving), vecOrZero(b.Moving)
	m := mb.Sub(ma)
	segEnd := b.Pos.Add(m)
	distSq := distPointSegmentSq(a.Pos, b.Pos, segEnd)
	rsum := a.Shape.Radius.Add(b.Shape.Radius)
	return distSq.LessOrEqual(rsum.Mul(rsum))
}

func overlapRectRect(a, b *Object) bool {
	ma, mb := vecOrZero(a.Moving), vecOrZero(b.Moving)
	m := mb.Sub(ma)
	polyA := rectCorners(a.Pos, a.Shape)
	polyB := rectCorners(b.Pos, b.Shape)
	swept := sweptRectPolygon(polyB, m)

	for _, v := range polyA {
		if pointInConvexPolygon(swept, v) {
			return true
		}
	}
	for _, v := range polyB {
		if pointInConvexPolygon(polyA[:], v) {
			return true
		}
	}
	return polygonEdgeCrossesPolygon(polyA[:], swept)
}

// overlapRectCircle implements the Rect/Circle predicate regardless of
// call order: the rectangle is always the one swept.
func overlapRectCircle(rect, circle *Object) bool {
	mRect, mCircle := vecOrZero(rect.Moving), vecOrZero(circle.Moving)
	m := mRect.Sub(mCircle)
	poly := rectCorners(rect.Pos, rect.Shape)
	swept := sweptRectPolygon(poly, m)

	if pointInConvexPolygon(swept, circle.Pos) {
		return true
	}
	rSq := circle.Shape.Radius.Mul(circle.Shape.Radius)
	n := len(swept)
	for i := 0; i < n; i++ {
		if distPointSegmentSq(circle.Pos, swept[i], swept[(i+1)%n]).LessOrEqual(rSq) {
			return true
		}
	}
	return false
}

// --- covered ---

func coveredCircleInCircle(moving, static *Object) bool {
	if static.Shape.Radius.LessThan(moving.Shape.Radius) {
		return false
	}
	m := vecOrZero(moving.Moving)
	segEnd := moving.Pos.Add(m)
	bound := static.Shape.Radius.Sub(moving.Shape.Radius)
	boundSq := bound.Mul(bound)
	// Distance to a fixed point is convex along the straight path, so the
	// moving center stays within bound for the whole motion iff both
	// endpoints do.
	return distPointPointSq(moving.Pos, static.Pos).LessOrEqual(boundSq) &&
		distPointPointSq(segEnd, static.Pos).LessOrEqual(boundSq)
}

func coveredRectInRect(moving, static *Object) bool {
	if moving.Shape.Width.GreaterThan(static.Shape.Width) || moving.Shape.Height.GreaterThan(static.Shape.Height) {
		return false
	}
	two := NewInt(2)
	halfW, _ := moving.Shape.Width.Div(two)
	halfH, _ := moving.Shape.Height.Div(two)

	x0 := static.Pos.X.Add(halfW)
	x1 := static.Pos.X.Add(static.Shape.Width).Sub(halfW)
	y0 := static.Pos.Y.Add(halfH)
	y1 := static.Pos.Y.Add(static.Shape.Height).Sub(halfH)

	m := vecOrZero(moving.Moving)
	start := Vec{X: moving.Pos.X.Add(halfW), Y: moving.Pos.Y.Add(halfH)}
	end := start.Add(m)

	inBox := func(p Vec) bool {
		return x0.LessOrEqual(p.X) && p.X.LessOrEqual(x1) && y0.LessOrEqual(p.Y) && p.Y.LessOrEqual(y1)
	}
	return inBox(start) && inBox(end)
}

func coveredCircleInRect(moving, static *Object) bool {
	r := moving.Shape.Radius
	two := NewInt(2)
	equivalent := &Object{
		Pos: Vec{X: moving.Pos.X.Sub(r), Y: moving.Pos.Y.Sub(r)},
		Shape: Shape{
			Kind: KindRect, Width: r.Mul(two), Height: r.Mul(two),
		},
		Moving: moving.Moving,
	}
	return coveredRectInRect(equivalent, static)
}

func coveredRectInCircle(moving, static *Object) bool {
	m := vecOrZero(moving.Moving)
	rSq := static.Shape.Radius.Mul(static.Shape.Radius)
	for _, c := range rectCorners(moving.Pos, moving.Shape) {
		if distPointPointSq(c, static.Pos).GreaterThan(rSq) {
			return false
		}
		c2 := c.Add(m)
		if distPointPointSq(c2, static.Pos).GreaterThan(rSq) {
			return false
		}
	}
	return true
}
