package interp

import "strconv"

// analyzer.go implements the static-state analyzer: a pre-pass
// that ignores geometry entirely and only tracks, per fully-evaluated
// indexed object name, whether the object has appeared, is ignored, and
// has a pending move. It unrolls `for` loops using the same environment
// rules full evaluation uses, so any AlreadyMoving/NotAppeared mistake
// is reported before any geometry is touched.

// objState is the analyzer's three-field record per object name.
type objState struct {
	appeared bool
	ignored  bool
	moving   bool
}

// analyzer walks the AST maintaining per-object state, resolving
// indexed names the same way full evaluation will.
type analyzer struct {
	states map[string]*objState
}

func newAnalyzer() *analyzer {
	return &analyzer{states: map[string]*objState{}}
}

// analyze runs the pre-pass over root and returns the final per-object
// state mapping, or the first TypeError encountered.
func (an *analyzer) analyze(root *Term) (map[string]*objState, error) {
	env := newLoopEnv()
	if err := an.analyzeTerm(root, env); err != nil {
		return nil, err
	}
	return an.states, nil
}

func (an *analyzer) state(name string) *objState {
	s, ok := an.states[name]
	if !ok {
		s = &objState{}
		an.states[name] = s
	}
	return s
}

func (an *analyzer) resolveName(lv *LValue, env *loopEnv) (string, error) {
	name := lv.Array
	for _, idxExpr := range lv.Indices {
		idx, err := evalInt(idxExpr, env)
		if err != nil {
			return "", err
		}
		name += "_" + strconv.FormatInt(idx, 10)
	}
	return name, nil
}

func (an *analyzer) analyzeTerm(t *Term, env *loopEnv) error {
	switch t.Kind {
	case nTerms:
		for _, c := range t.Children {
			if err := an.analyzeTerm(c, env); err != nil {
				return err
			}
		}
		return nil

	case nFor:
		lo, err := evalInt(t.Lo, env)
		if err != nil {
			return err
		}
		hi, err := evalInt(t.Hi, env)
		if err != nil {
			return err
		}
		for v := lo; v <= hi; v++ {
			env.push(t.LoopVar, NewInt(v))
			if err := an.analyzeTerm(t.Body, env); err != nil {
				env.pop(t.LoopVar)
				return err
			}
			env.pop(t.LoopVar)
		}
		return nil

	case nObjectInit:
		// Dimensions are evaluated for their NotInteger/DivByZero
		// diagnostics only; the analyzer never indexes geometry.
		for _, d := range t.ArrayType.Dims {
			if _, err := evalInt(d, env); err != nil {
				return err
			}
		}
		return nil

	case nShapeInit:
		name, err := an.resolveName(t.LHS, env)
		if err != nil {
			return err
		}
		an.states[name] = &objState{appeared: false, ignored: false, moving: false}
		return nil

	case nAppear:
		name, err := an.resolveName(t.Target, env)
		if err != nil {
			return err
		}
		an.state(name).appeared = true
		return nil

	case nDisappear:
		name, err := an.resolveName(t.Target, env)
		if err != nil {
			return err
		}
		an.state(name).appeared = false
		return nil

	case nConsider:
		name, err := an.resolveName(t.Target, env)
		if err != nil {
			return err
		}
		an.state(name).ignored = false
		return nil

	case nIgnore:
		name, err := an.resolveName(t.Target, env)
		if err != nil {
			return err
		}
		an.state(name).ignored = true
		return nil

	case nMove:
		name, err := an.resolveName(t.Target, env)
		if err != nil {
			return err
		}
		st := an.state(name)
		if !st.appeared {
			return newTypeError(t.Pos, ErrNotAppeared, "%s: move requires the object to have appeared", name)
		}
		if st.moving {
			return newTypeError(t.Pos, ErrAlreadyMoving, "%s: already has a pending move this segment", name)
		}
		st.moving = true
		return nil

	case nDuration:
		if err := an.analyzeTerm(t.DurBody, env); err != nil {
			return err
		}
		for _, st := range an.states {
			st.moving = false
		}
		return nil
	}
	return nil
}
