package interp_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anim-dsl/animdsl/interp"
)

func TestRun_ShapeInitDefaultsFillByKind(t *testing.T) {
	ip := interp.New(interp.Options{})
	result, err := ip.Run(`
		A = Array(1, Rect);
		A[1] := Rect(0, 0, 10, 10);
		B = Array(1, Circle);
		B[1] := Circle(0, 0, 5);
	`, "t.anim")
	require.NoError(t, err)
	objs := result.Scene.Objects()
	require.Len(t, objs, 2)
	assert.Equal(t, "ff0000", objs[0].Shape.Fill)
	assert.Equal(t, "00ff00", objs[1].Shape.Fill)
}

func TestRun_DepthIsContiguousCreationOrder(t *testing.T) {
	ip := interp.New(interp.Options{})
	result, err := ip.Run(`
		A = Array(3, Rect);
		for (i = 1 -> 3) A[i] := Rect(i, i, 1, 1)
	`, "t.anim")
	require.NoError(t, err)
	objs := result.Scene.Objects()
	require.Len(t, objs, 3)
	for i, o := range objs {
		assert.Equal(t, i, o.Depth)
	}
}

func TestRun_EmptyDurationOnlyAdvancesTime(t *testing.T) {
	ip := interp.New(interp.Options{})
	result, err := ip.Run(`
		A = Array(1, Rect);
		A[1] := Rect(5, 5, 1, 1);
		appear A[1];
		duration 2 {}
	`, "t.anim")
	require.NoError(t, err)
	obj := result.Scene.Objects()[0]
	assert.True(t, obj.Pos.X.Cmp(interp.NewInt(5)) == 0)
	assert.True(t, obj.Pos.Y.Cmp(interp.NewInt(5)) == 0)
	assert.Nil(t, obj.Moving)
}

func TestRun_MovingClearedAfterDuration(t *testing.T) {
	ip := interp.New(interp.Options{})
	result, err := ip.Run(`
		A = Array(1, Rect);
		A[1] := Rect(0, 0, 1, 1);
		appear A[1];
		duration 1 { move A[1] by 4, 0 }
	`, "t.anim")
	require.NoError(t, err)
	obj := result.Scene.Objects()[0]
	assert.Nil(t, obj.Moving)
	assert.Equal(t, int64(4), obj.Pos.X.AsInt())
}

func TestRun_OverlapAborts(t *testing.T) {
	ip := interp.New(interp.Options{})
	_, err := ip.Run(`
		A = Array(1, Circle);
		A[1] := Circle(0, 0, 10);
		appear A[1];
		B = Array(1, Circle);
		B[1] := Circle(25, 0, 10);
		appear B[1];
		duration 1 {
			move A[1] by 1, 0;
			move B[1] by -10, 0
		}
	`, "t.anim")
	require.Error(t, err)
	var everr *interp.EvalError
	require.ErrorAs(t, err, &everr)
	assert.Equal(t, interp.ErrOverlap, everr.Kind)
}

func TestRun_CoveredAborts(t *testing.T) {
	// A small circle moving entirely inside a big static rectangle
	// stays covered for the whole segment, which is the violation. The
	// circle is created first so the static rectangle is visited after
	// it in scene order.
	ip := interp.New(interp.Options{})
	_, err := ip.Run(`
		B = Array(1, Circle);
		B[1] := Circle(20, 50, 5);
		appear B[1];
		A = Array(1, Rect);
		A[1] := Rect(0, 0, 100, 100);
		appear A[1];
		duration 1 { move B[1] by 10, 0 }
	`, "t.anim")
	require.Error(t, err)
	var everr *interp.EvalError
	require.ErrorAs(t, err, &everr)
	assert.Equal(t, interp.ErrCovered, everr.Kind)
	assert.Equal(t, "B_1", everr.NameA)
	assert.Equal(t, "A_1", everr.NameB)
}

func TestRun_MovingAcrossStaticIsNotCovered(t *testing.T) {
	// The same circle sweeping clean past the rectangle's far edge is
	// legal: covered requires containment for the whole motion.
	ip := interp.New(interp.Options{})
	_, err := ip.Run(`
		B = Array(1, Circle);
		B[1] := Circle(20, 50, 5);
		appear B[1];
		A = Array(1, Rect);
		A[1] := Rect(0, 0, 100, 100);
		appear A[1];
		duration 1 { move B[1] by 200, 0 }
	`, "t.anim")
	require.NoError(t, err)
}

func TestRun_UndeclaredArray(t *testing.T) {
	ip := interp.New(interp.Options{})
	_, err := ip.Run(`appear A[1]`, "t.anim")
	require.Error(t, err)
	var everr *interp.EvalError
	require.ErrorAs(t, err, &everr)
	assert.Equal(t, interp.ErrUndeclaredArray, everr.Kind)
}

func TestRun_IndexOutOfBounds(t *testing.T) {
	ip := interp.New(interp.Options{})
	_, err := ip.Run(`
		A = Array(2, Rect);
		A[5] := Rect(0, 0, 1, 1);
	`, "t.anim")
	require.Error(t, err)
	var everr *interp.EvalError
	require.ErrorAs(t, err, &everr)
	assert.Equal(t, interp.ErrIndexOutOfBounds, everr.Kind)
}

func TestRun_KindMismatch(t *testing.T) {
	ip := interp.New(interp.Options{})
	_, err := ip.Run(`
		A = Array(1, Rect);
		A[1] := Circle(0, 0, 1);
	`, "t.anim")
	require.Error(t, err)
	var everr *interp.EvalError
	require.ErrorAs(t, err, &everr)
	assert.Equal(t, interp.ErrKindMismatch, everr.Kind)
}

func TestRun_DivisionByZero(t *testing.T) {
	ip := interp.New(interp.Options{})
	_, err := ip.Run(`
		A = Array(1, Rect);
		A[1] := Rect(0, 0, 10/0, 10);
	`, "t.anim")
	require.Error(t, err)
	var everr *interp.EvalError
	require.ErrorAs(t, err, &everr)
	assert.Equal(t, interp.ErrDivByZero, everr.Kind)
}

func TestRun_IgnoredObjectsExcludedFromCollisionChecks(t *testing.T) {
	ip := interp.New(interp.Options{})
	result, err := ip.Run(`
		A = Array(1, Circle);
		A[1] := Circle(0, 0, 10);
		appear A[1];
		B = Array(1, Circle);
		B[1] := Circle(5, 0, 10);
		appear B[1];
		ignore A[1];
		duration 1 { move A[1] by 1, 0 }
	`, "t.anim")
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestRun_FullExampleProgram(t *testing.T) {
	src, err := os.ReadFile("../testdata/example.anim")
	require.NoError(t, err)
	ip := interp.New(interp.Options{})
	result, err := ip.Run(string(src), "example.anim")
	require.NoError(t, err)
	assert.Greater(t, result.Scene.Len(), 0)
	assert.Greater(t, len(result.Timeline.Segments), 1)
}
