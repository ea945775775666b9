package bop

// Run lexes, parses, and evaluates source under limits, reporting
// output and delegating unresolved calls through host. It returns the
// value of the program's last top-level expression statement (None if
// the program has none), or the first error encountered: a *Error, or
// an error a Host.Call returned, passed back unchanged.
func Run(source string, host Host, limits Limits) (Value, error) {
	if host == nil {
		host = NewDefaultHost()
	}

	prog, err := Parse(source)
	if err != nil {
		return Value{}, err
	}

	fns, err := collectFunctions(prog)
	if err != nil {
		return Value{}, err
	}

	ev := newEvaluator(host, limits)
	ev.functions = fns

	root := newEnv(nil)
	result, err := ev.evalProgram(prog, root)
	if err != nil {
		return Value{}, err
	}
	return result, nil
}

// evalProgram runs the top-level statement list the way evalExprBlock
// runs an if-expression's branch: the program's value is its last
// expression statement's value (None when the program ends on any
// other kind of statement, or is empty), matching how a REPL would
// report "what this script produced".
func (ev *evaluator) evalProgram(prog *Program, root *env) (Value, error) {
	result := NewNone()
	for _, stmt := range prog.Statements {
		if err := ev.tick(stmt.Line()); err != nil {
			return Value{}, err
		}
		if exprStmt, ok := stmt.(*ExprStmt); ok {
			val, err := ev.evalExpr(exprStmt.Expr, root)
			if err != nil {
				return Value{}, err
			}
			if err := ev.checkMemory(root, stmt.Line(), val); err != nil {
				return Value{}, err
			}
			result = val
			continue
		}
		if err := ev.evalStatement(stmt, root); err != nil {
			return Value{}, err
		}
		if err := ev.checkMemory(root, stmt.Line()); err != nil {
			return Value{}, err
		}
		result = NewNone()
	}
	return result, nil
}
