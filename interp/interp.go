// Package interp implements the DSL's parser, static-state analyzer,
// and AST-walking evaluator: source text in, a Scene and Timeline out.
package interp

import (
	"fmt"
	"io"
	"os"
)

// Options configures an Interpreter's output and diagnostic streams,
// so eventual REPL-style tooling has a consistent home.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Interpreter runs DSL programs: Parse -> Analyze -> eval.
type Interpreter struct {
	opts Options
}

// New returns an Interpreter, defaulting unset Options fields to the
// process's standard streams.
func New(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Interpreter{opts: opts}
}

// ReportError writes err to the Interpreter's diagnostic stream; every
// error kind formats itself as "Line L: <message>".
func (ip *Interpreter) ReportError(err error) {
	fmt.Fprintln(ip.opts.Stderr, err.Error())
}

// Result is the output of a successful Run: the final scene and the
// timeline of segments that produced it.
type Result struct {
	Scene    *Scene
	Timeline *Timeline
}

// ObjectState is the exported view of the static analyzer's per-object
// record, for tooling (e.g. --print-type) that runs outside this
// package.
type ObjectState struct {
	Appeared bool
	Ignored  bool
	Moving   bool
}

// TypeCheck runs only the static-state analyzer over src and returns
// its final per-object mapping, without evaluating geometry.
func (ip *Interpreter) TypeCheck(src, filename string) (map[string]ObjectState, error) {
	root, err := Parse(src, filename)
	if err != nil {
		return nil, err
	}
	an := newAnalyzer()
	states, err := an.analyze(root)
	if err != nil {
		return nil, err
	}
	out := make(map[string]ObjectState, len(states))
	for name, st := range states {
		out[name] = ObjectState{Appeared: st.appeared, Ignored: st.ignored, Moving: st.moving}
	}
	return out, nil
}

// Run parses, statically checks, and fully evaluates src, returning the
// resulting Scene and Timeline.
func (ip *Interpreter) Run(src, filename string) (*Result, error) {
	root, err := Parse(src, filename)
	if err != nil {
		return nil, err
	}
	if _, err := newAnalyzer().analyze(root); err != nil {
		return nil, err
	}

	ev := &evaluator{
		scene:     &Scene{},
		timeline:  newTimeline(),
		arrays:    map[string]*Array{},
		collision: NewCollisionEngine(),
		env:       newLoopEnv(),
	}
	if err := ev.eval(root); err != nil {
		return nil, err
	}
	return &Result{Scene: ev.scene, Timeline: ev.timeline}, nil
}

// evaluator is the tree-walking interpreter's mutable state. The Array
// map and the Scene's depth-ordered list reference the same *Object
// values; the depth-ordered list is the canonical owner.
type evaluator struct {
	scene    *Scene
	timeline *Timeline
	arrays   map[string]*Array

	collision *CollisionEngine
	env       *loopEnv
	depth     int
}

func fullName(array string, indices []int64) string {
	return array + "_" + indexKey(indices)
}

func (ev *evaluator) eval(t *Term) error {
	switch t.Kind {
	case nTerms:
		for _, c := range t.Children {
			if err := ev.eval(c); err != nil {
				return err
			}
		}
		return nil
	case nFor:
		return ev.evalFor(t)
	case nObjectInit:
		return ev.evalObjectInit(t)
	case nShapeInit:
		return ev.evalShapeInit(t)
	case nAppear:
		return ev.evalFlag(t, func(o *Object) { o.Appeared = true })
	case nDisappear:
		return ev.evalFlag(t, func(o *Object) { o.Appeared = false })
	case nConsider:
		return ev.evalFlag(t, func(o *Object) { o.Ignored = false })
	case nIgnore:
		return ev.evalFlag(t, func(o *Object) { o.Ignored = true })
	case nMove:
		return ev.evalMove(t)
	case nDuration:
		return ev.evalDuration(t)
	}
	return newEvalError(t.Pos, ErrKindMismatch, "unexpected statement node")
}

func (ev *evaluator) evalFor(t *Term) error {
	lo, err := evalInt(t.Lo, ev.env)
	if err != nil {
		return err
	}
	hi, err := evalInt(t.Hi, ev.env)
	if err != nil {
		return err
	}
	for v := lo; v <= hi; v++ {
		ev.env.push(t.LoopVar, NewInt(v))
		if err := ev.eval(t.Body); err != nil {
			ev.env.pop(t.LoopVar)
			return err
		}
		ev.env.pop(t.LoopVar)
	}
	return nil
}

func (ev *evaluator) evalObjectInit(t *Term) error {
	dims := make([]int64, 0, len(t.ArrayType.Dims))
	for _, d := range t.ArrayType.Dims {
		v, err := evalInt(d, ev.env)
		if err != nil {
			return err
		}
		if v < 1 {
			return newEvalError(t.ArrayType.Pos, ErrIndexOutOfBounds, "array dimension must be a positive integer, got %d", v)
		}
		dims = append(dims, v)
	}
	ev.arrays[t.ArrayName] = &Array{
		Name: t.ArrayName, ShapeDims: dims, Kind: t.ArrayType.Kind, Values: map[string]*Object{},
	}
	return nil
}

// resolveLValue evaluates lv's indices and validates them against its
// declared array.
func (ev *evaluator) resolveLValue(lv *LValue) (*Array, []int64, error) {
	arr, ok := ev.arrays[lv.Array]
	if !ok {
		return nil, nil, newEvalError(lv.Pos, ErrUndeclaredArray, "%s is not a declared array", lv.Array)
	}
	if len(lv.Indices) != len(arr.ShapeDims) {
		return nil, nil, newEvalError(lv.Pos, ErrArityMismatch, "%s expects %d index(es), got %d", lv.Array, len(arr.ShapeDims), len(lv.Indices))
	}
	indices := make([]int64, len(lv.Indices))
	for i, idxExpr := range lv.Indices {
		idx, err := evalInt(idxExpr, ev.env)
		if err != nil {
			return nil, nil, err
		}
		indices[i] = idx
	}
	if !arr.validIndices(indices) {
		return nil, nil, newEvalError(lv.Pos, ErrIndexOutOfBounds, "%s%v is out of bounds", lv.Array, indices)
	}
	return arr, indices, nil
}

func (ev *evaluator) evalShapeInit(t *Term) error {
	arr, indices, err := ev.resolveLValue(t.LHS)
	if err != nil {
		return err
	}
	if t.Shape.Kind != arr.Kind {
		return newEvalError(t.Shape.Pos, ErrKindMismatch, "%s holds %s, got %s", t.LHS.Array, arr.Kind, t.Shape.Kind)
	}

	args := make([]Number, len(t.Shape.Args))
	for i, a := range t.Shape.Args {
		v, err := evalExpr(a, ev.env)
		if err != nil {
			return err
		}
		args[i] = v
	}

	fill := t.Shape.Fill
	var shape Shape
	var pos Vec
	if t.Shape.Kind == KindRect {
		if fill == "" {
			fill = "ff0000"
		}
		pos = Vec{X: args[0], Y: args[1]}
		shape = Shape{Kind: KindRect, Width: args[2], Height: args[3], Fill: fill}
	} else {
		if fill == "" {
			fill = "00ff00"
		}
		pos = Vec{X: args[0], Y: args[1]}
		shape = Shape{Kind: KindCircle, Radius: args[2], Fill: fill}
	}

	name := fullName(t.LHS.Array, indices)
	obj := &Object{Name: name, Pos: pos, Shape: shape, Depth: ev.depth}
	ev.depth++
	ev.scene.append(obj)
	arr.Values[indexKey(indices)] = obj

	for i := range ev.timeline.Segments {
		ev.timeline.Segments[i].Entries = append(ev.timeline.Segments[i].Entries, SegmentEntry{Object: obj, Visible: false})
	}
	return nil
}

func (ev *evaluator) lookupTarget(lv *LValue) (*Object, error) {
	arr, indices, err := ev.resolveLValue(lv)
	if err != nil {
		return nil, err
	}
	obj, ok := arr.Values[indexKey(indices)]
	if !ok {
		return nil, newEvalError(lv.Pos, ErrUndeclaredArray, "%s%v has not been initialized with a shape", lv.Array, indices)
	}
	return obj, nil
}

func (ev *evaluator) evalFlag(t *Term, apply func(*Object)) error {
	obj, err := ev.lookupTarget(t.Target)
	if err != nil {
		return err
	}
	apply(obj)
	return nil
}

func (ev *evaluator) evalMove(t *Term) error {
	obj, err := ev.lookupTarget(t.Target)
	if err != nil {
		return err
	}
	if !obj.Appeared {
		return newEvalError(t.Pos, ErrNotAppeared, "%s: move requires the object to have appeared", obj.Name)
	}
	if obj.Moving != nil {
		return newEvalError(t.Pos, ErrAlreadyMoving, "%s: already has a pending move this segment", obj.Name)
	}
	dx, err := evalExpr(t.DX, ev.env)
	if err != nil {
		return err
	}
	dy, err := evalExpr(t.DY, ev.env)
	if err != nil {
		return err
	}
	obj.Moving = &Vec{X: dx, Y: dy}
	return nil
}

// evalDuration evaluates the body, snapshots a new segment, runs the
// collision checks, and commits the pending moves. Checks run in scene
// (depth) order, ignored objects are excluded from both directions of
// the check, and position commits happen only after every check in the
// segment has passed.
func (ev *evaluator) evalDuration(t *Term) error {
	if err := ev.eval(t.DurBody); err != nil {
		return err
	}

	durVal, err := evalExpr(t.Duration, ev.env)
	if err != nil {
		return err
	}
	seg := Segment{Index: len(ev.timeline.Segments), Duration: durVal, Begin: ev.timeline.last().End()}
	for _, obj := range ev.scene.Objects() {
		seg.Entries = append(seg.Entries, SegmentEntry{Object: obj, Visible: obj.Appeared, Moving: obj.Moving})
	}

	var movingSoFar []*Object
	for _, obj := range ev.scene.Objects() {
		if !obj.Appeared {
			continue
		}
		if obj.Moving != nil {
			if obj.Ignored {
				continue
			}
			for _, prev := range movingSoFar {
				ok, err := ev.collision.Overlap(obj, prev)
				if err != nil {
					return err
				}
				if ok {
					return overlapError(t.Pos, obj.Name, prev.Name)
				}
			}
			movingSoFar = append(movingSoFar, obj)
		} else if !obj.Ignored {
			for _, prev := range movingSoFar {
				ok, err := ev.collision.Covered(prev, obj)
				if err != nil {
					return err
				}
				if ok {
					return coveredError(t.Pos, prev.Name, obj.Name)
				}
			}
		}
	}

	for _, obj := range ev.scene.Objects() {
		if obj.Moving != nil {
			obj.Pos = obj.Pos.Add(*obj.Moving)
			obj.Moving = nil
		}
	}

	ev.timeline.Segments = append(ev.timeline.Segments, seg)
	return nil
}
