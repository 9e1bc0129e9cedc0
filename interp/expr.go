package interp

// evalExpr is the pure arithmetic evaluator, consulting only the
// loop-variable environment, with no access to the scene or timeline.
func evalExpr(e *Expr, env *loopEnv) (Number, error) {
	switch e.Kind {
	case nNumLit:
		return NewInt(e.IntVal), nil

	case nIdent:
		v, ok := env.lookup(e.Name)
		if !ok {
			return Number{}, newEvalError(e.Pos, ErrNotInteger, "%s is undefined", e.Name)
		}
		return v, nil

	case nSum:
		lhs, err := evalExpr(e.Children[0], env)
		if err != nil {
			return Number{}, err
		}
		rhs, err := evalExpr(e.Children[1], env)
		if err != nil {
			return Number{}, err
		}
		if e.Op == "+" {
			return lhs.Add(rhs), nil
		}
		return lhs.Sub(rhs), nil

	case nProd:
		lhs, err := evalExpr(e.Children[0], env)
		if err != nil {
			return Number{}, err
		}
		rhs, err := evalExpr(e.Children[1], env)
		if err != nil {
			return Number{}, err
		}
		if e.Op == "*" {
			return lhs.Mul(rhs), nil
		}
		res, ok := lhs.Div(rhs)
		if !ok {
			return Number{}, newEvalError(e.Pos, ErrDivByZero, "division by zero")
		}
		return res, nil

	case nMax:
		vals := make([]Number, 0, len(e.Children))
		for _, c := range e.Children {
			v, err := evalExpr(c, env)
			if err != nil {
				return Number{}, err
			}
			vals = append(vals, v)
		}
		return Max(vals...), nil
	}

	return Number{}, newEvalError(e.Pos, ErrNotInteger, "unexpected expression node")
}

// evalInt evaluates e and requires the result to be integral, for
// contexts the grammar demands it of: array shapes, loop bounds,
// dimension indices.
func evalInt(e *Expr, env *loopEnv) (int64, error) {
	n, err := evalExpr(e, env)
	if err != nil {
		return 0, err
	}
	return RequireInt(n, e.Pos)
}
