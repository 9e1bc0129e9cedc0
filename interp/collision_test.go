package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anim-dsl/animdsl/interp"
)

func rectObj(name string, x, y, w, h int64) *interp.Object {
	return &interp.Object{
		Name: name,
		Pos:  interp.Vec{X: interp.NewInt(x), Y: interp.NewInt(y)},
		Shape: interp.Shape{
			Kind: interp.KindRect, Width: interp.NewInt(w), Height: interp.NewInt(h),
		},
	}
}

func circleObj(name string, x, y, r int64) *interp.Object {
	return &interp.Object{
		Name: name,
		Pos:  interp.Vec{X: interp.NewInt(x), Y: interp.NewInt(y)},
		Shape: interp.Shape{
			Kind: interp.KindCircle, Radius: interp.NewInt(r),
		},
	}
}

func withMotion(o *interp.Object, dx, dy int64) *interp.Object {
	o.Moving = &interp.Vec{X: interp.NewInt(dx), Y: interp.NewInt(dy)}
	return o
}

// Concentric circles of equal radius, both static, overlap.
func TestOverlap_ConcentricCircles(t *testing.T) {
	ce := interp.NewCollisionEngine()
	a := circleObj("a", 0, 0, 10)
	b := circleObj("b", 0, 0, 10)
	ok, err := ce.Overlap(a, b)
	require.NoError(t, err)
	assert.True(t, ok)
}

// Two unit rectangles two units apart, both static, do not overlap.
func TestOverlap_SeparatedStaticRects(t *testing.T) {
	ce := interp.NewCollisionEngine()
	a := rectObj("a", 0, 0, 1, 1)
	b := rectObj("b", 2, 0, 1, 1)
	ok, err := ce.Overlap(a, b)
	require.NoError(t, err)
	assert.False(t, ok)
}

// A swept rectangle that only touches a static one at the boundary
// still counts as overlapping.
func TestOverlap_BoundaryTouchCounts(t *testing.T) {
	ce := interp.NewCollisionEngine()
	a := rectObj("a", 0, 0, 1, 1)
	b := withMotion(rectObj("b", 3, 0, 1, 1), -2, 0)
	ok, err := ce.Overlap(a, b)
	require.NoError(t, err)
	assert.True(t, ok)
}

// A unit circle wholly inside a static square is covered.
func TestCovered_CircleInsideSquare(t *testing.T) {
	ce := interp.NewCollisionEngine()
	moving := circleObj("c", 0, 0, 1)
	static := rectObj("s", -2, -2, 4, 4)
	ok, err := ce.Covered(moving, static)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOverlap_IsSymmetric(t *testing.T) {
	ce := interp.NewCollisionEngine()
	a := circleObj("a", 0, 0, 5)
	b := withMotion(circleObj("b", 20, 0, 5), -8, 0)
	ab, err := ce.Overlap(a, b)
	require.NoError(t, err)
	ba, err := ce.Overlap(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestOverlap_StaticReducesToShapeIntersection(t *testing.T) {
	ce := interp.NewCollisionEngine()
	a := circleObj("a", 0, 0, 5)
	b := circleObj("b", 100, 0, 5)
	ok, err := ce.Overlap(a, b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOverlap_MemoizationDoesNotAlterResult(t *testing.T) {
	ce := interp.NewCollisionEngine()
	a := circleObj("a", 0, 0, 10)
	b := circleObj("b", 0, 0, 10)
	first, err := ce.Overlap(a, b)
	require.NoError(t, err)
	second, err := ce.Overlap(a, b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOverlap_RectCircleOrderIndependent(t *testing.T) {
	ce1 := interp.NewCollisionEngine()
	rect := rectObj("r", 0, 0, 4, 4)
	circle := circleObj("c", 2, 2, 1)
	rc, err := ce1.Overlap(rect, circle)
	require.NoError(t, err)

	ce2 := interp.NewCollisionEngine()
	cr, err := ce2.Overlap(circle, rect)
	require.NoError(t, err)

	assert.Equal(t, rc, cr)
	assert.True(t, rc)
}
