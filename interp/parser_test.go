package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anim-dsl/animdsl/interp"
)

func TestParse_ObjectAndShapeInit(t *testing.T) {
	root, err := interp.Parse(`
		A = Array(2, Rect);
		A[1] := Rect(0, 0, 10, 10), ff00ff;
		appear A[1];
	`, "test.anim")
	require.NoError(t, err)
	require.NotNil(t, root)
}

func TestParse_FillMustBeSixHexDigits(t *testing.T) {
	_, err := interp.Parse(`
		A = Array(1, Rect);
		A[1] := Rect(0, 0, 10, 10), zz00ff;
	`, "test.anim")
	require.Error(t, err)
	var perr *interp.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParse_NumericFillAcceptedWhenAllDigits(t *testing.T) {
	_, err := interp.Parse(`
		A = Array(1, Rect);
		A[1] := Rect(0, 0, 10, 10), 000000;
	`, "test.anim")
	require.NoError(t, err)
}

func TestParse_ForLoopAndMax(t *testing.T) {
	_, err := interp.Parse(`
		for (i = 0 -> 2) {
			A = Array(1, Rect);
			A[1] := Rect(max(0, i), i, 1, 1)
		}
	`, "test.anim")
	require.NoError(t, err)
}

func TestParse_UnaryMinusInExpressions(t *testing.T) {
	_, err := interp.Parse(`move A[1] by -2, -1*3`, "test.anim")
	require.NoError(t, err)
}

func TestParse_FillStartingWithDigitsAndLetters(t *testing.T) {
	// 0000ff lexes as a number followed by an adjacent identifier; the
	// parser rejoins the two into one fill literal.
	_, err := interp.Parse(`
		A = Array(1, Rect);
		A[1] := Rect(0, 0, 10, 10), 0000ff;
	`, "test.anim")
	require.NoError(t, err)
}

func TestParse_MoveRequiresByClause(t *testing.T) {
	_, err := interp.Parse(`move A[1] 1, 2`, "test.anim")
	require.Error(t, err)
}

func TestParse_TrailingInputRejected(t *testing.T) {
	_, err := interp.Parse(`appear A[1]; garbage(`, "test.anim")
	require.Error(t, err)
}

func TestParse_SourcePositionsAreCaptured(t *testing.T) {
	root, err := interp.Parse("\n\tappear A[1]", "test.anim")
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, 2, root.Children[0].Pos.Line)
}
