package bop

import "errors"

// evalCall implements spec.md §4.6's three-tier call dispatch: a
// built-in wins first, then a user-declared function, then the host's
// Call callback; an unhandled name becomes a "function not found"
// error carrying the host's hint text and a "did you mean" suggestion.
func (ev *evaluator) evalCall(x *CallExpr, e *env) (Value, error) {
	args, err := ev.evalArgs(x.Args, e)
	if err != nil {
		return Value{}, err
	}

	if bf, ok := builtins[x.Name]; ok {
		return bf(ev, args, x.Line())
	}
	if fn, ok := ev.functions[x.Name]; ok {
		return ev.callFunction(fn, args, x.Line())
	}

	res := ev.host.Call(x.Name, args, x.Line())
	if res.Handled {
		return res.Value, res.Err
	}

	candidates := sortedUnique(append(ev.builtinNames(), ev.functionNames()...))
	msg := newRuntimeError(x.Line(), "function not found: '%s'", x.Name)
	if hint := ev.host.FunctionHint(); hint != "" {
		msg.Message += ". " + hint
	}
	return Value{}, withSuggestion(msg, suggest(x.Name, candidates))
}

func (ev *evaluator) evalArgs(exprs []Expression, e *env) ([]Value, error) {
	args := make([]Value, len(exprs))
	for i, a := range exprs {
		v, err := ev.evalExpr(a, e)
		if err != nil {
			return nil, err
		}
		args[i] = Copy(v)
	}
	return args, nil
}

// callFunction runs a user fn: a fresh env chain rooted at nil (no
// access to the caller's locals, per spec.md §4.4's "fresh chain isolated
// from the caller"), parameters declared before the body runs, and
// break/continue scoped out across the call boundary since they can
// never reach past the function that contains them.
func (ev *evaluator) callFunction(fn *FnDecl, args []Value, line int) (Value, error) {
	if len(args) != len(fn.Params) {
		return Value{}, newRuntimeError(line, "%s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}

	frame := newEnv(nil)
	for i, p := range fn.Params {
		if err := frame.declare(p, Copy(args[i])); err != nil {
			return Value{}, newSyntaxError(fn.Line(), "duplicate parameter name '%s' in '%s'", p, fn.Name)
		}
	}

	savedLoopDepth := ev.loopDepth
	ev.loopDepth = 0
	ev.callDepth++
	err := ev.evalBlock(fn.Body, frame)
	ev.callDepth--
	ev.loopDepth = savedLoopDepth

	if err != nil {
		var rs *returnSignal
		if errors.As(err, &rs) {
			return rs.value, nil
		}
		return Value{}, err
	}
	return NewNone(), nil
}

// evalMethod dispatches postfix `.name(args)` by the receiver's kind.
// The receiver is fetched raw (evalReceiverRaw), not through the
// ordinary copy-on-read path, because array methods like push/pop/
// insert/remove mutate the shared arrayBox in place: copying first
// would mutate a throwaway value instead of the variable the script
// is calling the method on.
func (ev *evaluator) evalMethod(x *MethodExpr, e *env) (Value, error) {
	recv, err := ev.evalReceiverRaw(x.Receiver, e)
	if err != nil {
		return Value{}, err
	}
	args, err := ev.evalArgs(x.Args, e)
	if err != nil {
		return Value{}, err
	}

	var table map[string]methodFunc
	var names []string
	switch recv.Kind() {
	case KindString:
		table, names = stringMethods, stringMethodNames()
	case KindArray:
		table, names = arrayMethods, arrayMethodNames()
	case KindDict:
		table, names = dictMethods, dictMethodNames()
	default:
		return Value{}, newRuntimeError(x.Line(), "a %s has no methods", TypeName(recv))
	}

	fn, ok := table[x.Name]
	if !ok {
		msg := newRuntimeError(x.Line(), "%s has no method '%s'", TypeName(recv), x.Name)
		return Value{}, withSuggestion(msg, suggest(x.Name, names))
	}
	return fn(ev, recv, args, x.Line())
}

// evalReceiverRaw evaluates an expression the same way evalExpr does,
// except that reading a bare identifier or an index into a live
// container does not deep-copy the result: it hands back the actual
// Value sharing the original's storage (its arrayBox or *Dict
// pointer). Every other kind of receiver expression (literals, call
// results, other method chains) has no variable behind it for a
// mutation to be visible through, so ordinary evaluation is fine.
func (ev *evaluator) evalReceiverRaw(expr Expression, e *env) (Value, error) {
	switch x := expr.(type) {
	case *Ident:
		if val, ok := e.lookup(x.Name); ok {
			return val, nil
		}
		return ev.evalIdent(x, e)
	case *IndexExpr:
		recv, err := ev.evalReceiverRaw(x.Receiver, e)
		if err != nil {
			return Value{}, err
		}
		key, err := ev.evalExpr(x.Key, e)
		if err != nil {
			return Value{}, err
		}
		return indexValue(recv, key, x.Line())
	default:
		return ev.evalExpr(expr, e)
	}
}
