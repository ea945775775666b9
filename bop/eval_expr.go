package bop

import (
	"math"
	"strings"
)

func (ev *evaluator) evalExpr(expr Expression, e *env) (Value, error) {
	switch x := expr.(type) {
	case *NumberLit:
		return NewNumber(x.Value), nil
	case *BoolLit:
		return NewBool(x.Value), nil
	case *NoneLit:
		return NewNone(), nil
	case *StringLit:
		return ev.evalStringLit(x, e)
	case *Ident:
		return ev.evalIdent(x, e)
	case *ArrayLit:
		return ev.evalArrayLit(x, e)
	case *DictLit:
		return ev.evalDictLit(x, e)
	case *UnaryExpr:
		return ev.evalUnary(x, e)
	case *BinaryExpr:
		return ev.evalBinary(x, e)
	case *IndexExpr:
		return ev.evalIndexExpr(x, e)
	case *CallExpr:
		return ev.evalCall(x, e)
	case *MethodExpr:
		return ev.evalMethod(x, e)
	case *IfExpr:
		return ev.evalIfExpr(x, e)
	default:
		return Value{}, newRuntimeError(expr.Line(), "unsupported expression")
	}
}

func (ev *evaluator) evalStringLit(x *StringLit, e *env) (Value, error) {
	if len(x.Segments) == 1 && !x.Segments[0].IsVar {
		return NewString(x.Segments[0].Text), nil
	}
	var sb strings.Builder
	for _, seg := range x.Segments {
		if !seg.IsVar {
			sb.WriteString(seg.Text)
			continue
		}
		val, ok := e.lookup(seg.VarRef)
		if !ok {
			return Value{}, ev.unknownNameError(seg.VarRef, x.Line(), e)
		}
		sb.WriteString(Str(val))
	}
	return NewString(sb.String()), nil
}

func (ev *evaluator) evalIdent(x *Ident, e *env) (Value, error) {
	if val, ok := e.lookup(x.Name); ok {
		return Copy(val), nil
	}
	if _, ok := ev.functions[x.Name]; ok {
		return Value{}, newRuntimeError(x.Line(), "'%s' is a function: call it with '%s()'", x.Name, x.Name)
	}
	if isBuiltin(x.Name) {
		return Value{}, newRuntimeError(x.Line(), "'%s' is a function: call it with '%s()'", x.Name, x.Name)
	}
	return Value{}, ev.unknownNameError(x.Name, x.Line(), e)
}

func (ev *evaluator) evalArrayLit(x *ArrayLit, e *env) (Value, error) {
	elems := make([]Value, len(x.Elements))
	for i, el := range x.Elements {
		v, err := ev.evalExpr(el, e)
		if err != nil {
			return Value{}, err
		}
		elems[i] = Copy(v)
	}
	return NewArray(elems), nil
}

func (ev *evaluator) evalDictLit(x *DictLit, e *env) (Value, error) {
	d := newDict()
	for _, entry := range x.Entries {
		v, err := ev.evalExpr(entry.Value, e)
		if err != nil {
			return Value{}, err
		}
		d.Set(entry.Key, Copy(v))
	}
	return NewDictValue(d), nil
}

func (ev *evaluator) evalUnary(x *UnaryExpr, e *env) (Value, error) {
	rv, err := ev.evalExpr(x.Right, e)
	if err != nil {
		return Value{}, err
	}
	switch x.Op {
	case tokenNot:
		b, err := requireBool(rv, x.Line(), "'!' operand")
		if err != nil {
			return Value{}, err
		}
		return NewBool(!b), nil
	case tokenMinus:
		n, err := requireNumber(rv, x.Line(), "unary '-'")
		if err != nil {
			return Value{}, err
		}
		return NewNumber(-n), nil
	default:
		return Value{}, newRuntimeError(x.Line(), "unsupported unary operator %s", x.Op)
	}
}

func (ev *evaluator) evalBinary(x *BinaryExpr, e *env) (Value, error) {
	// Logical operators short-circuit, so the right operand is only
	// evaluated when needed.
	if x.Op == tokenAnd || x.Op == tokenOr {
		lv, err := ev.evalExpr(x.Left, e)
		if err != nil {
			return Value{}, err
		}
		lb, err := requireBool(lv, x.Line(), "'&&'/'||' operand")
		if err != nil {
			return Value{}, err
		}
		if x.Op == tokenAnd && !lb {
			return NewBool(false), nil
		}
		if x.Op == tokenOr && lb {
			return NewBool(true), nil
		}
		rv, err := ev.evalExpr(x.Right, e)
		if err != nil {
			return Value{}, err
		}
		rb, err := requireBool(rv, x.Line(), "'&&'/'||' operand")
		if err != nil {
			return Value{}, err
		}
		return NewBool(rb), nil
	}

	lv, err := ev.evalExpr(x.Left, e)
	if err != nil {
		return Value{}, err
	}
	rv, err := ev.evalExpr(x.Right, e)
	if err != nil {
		return Value{}, err
	}
	return applyBinaryOp(x.Op, lv, rv, x.Line())
}

func applyBinaryOp(op TokenType, lv, rv Value, line int) (Value, error) {
	switch op {
	case tokenEQ:
		return NewBool(Equal(lv, rv)), nil
	case tokenNotEQ:
		return NewBool(!Equal(lv, rv)), nil
	case tokenPlus:
		if lv.Kind() == KindString && rv.Kind() == KindString {
			return NewString(lv.Str() + rv.Str()), nil
		}
		if lv.Kind() != rv.Kind() || (lv.Kind() != KindNumber) {
			return Value{}, newRuntimeError(line, "'+' requires two numbers or two strings, got %s and %s (use str() to convert)", TypeName(lv), TypeName(rv))
		}
		return NewNumber(lv.Number() + rv.Number()), nil
	case tokenMinus, tokenAsterisk, tokenSlash, tokenPercent:
		return applyArith(op, lv, rv, line)
	case tokenLT, tokenGT, tokenLTE, tokenGTE:
		return applyComparison(op, lv, rv, line)
	default:
		return Value{}, newRuntimeError(line, "unsupported binary operator %s", op)
	}
}

func applyArith(op TokenType, lv, rv Value, line int) (Value, error) {
	a, err := requireNumber(lv, line, "arithmetic")
	if err != nil {
		return Value{}, err
	}
	b, err := requireNumber(rv, line, "arithmetic")
	if err != nil {
		return Value{}, err
	}
	switch op {
	case tokenMinus:
		return NewNumber(a - b), nil
	case tokenAsterisk:
		return NewNumber(a * b), nil
	case tokenSlash:
		if b == 0 {
			return NewNumber(math.NaN()), nil
		}
		return NewNumber(a / b), nil
	case tokenPercent:
		if b == 0 {
			return Value{}, newRuntimeError(line, "modulo by zero")
		}
		return NewNumber(math.Mod(a, b)), nil
	default:
		return Value{}, newRuntimeError(line, "unsupported arithmetic operator %s", op)
	}
}

func applyComparison(op TokenType, lv, rv Value, line int) (Value, error) {
	if lv.Kind() == KindNumber && rv.Kind() == KindNumber {
		a, b := lv.Number(), rv.Number()
		return NewBool(compareOrdered(op, a < b, a > b, a == b)), nil
	}
	if lv.Kind() == KindString && rv.Kind() == KindString {
		a, b := lv.Str(), rv.Str()
		return NewBool(compareOrdered(op, a < b, a > b, a == b)), nil
	}
	return Value{}, newRuntimeError(line, "'%s' requires two numbers or two strings, got %s and %s", op, TypeName(lv), TypeName(rv))
}

func compareOrdered(op TokenType, lt, gt, eq bool) bool {
	switch op {
	case tokenLT:
		return lt
	case tokenGT:
		return gt
	case tokenLTE:
		return lt || eq
	case tokenGTE:
		return gt || eq
	default:
		return false
	}
}

func applyCompoundOp(op TokenType, cur, rhs Value, line int) (Value, error) {
	binOp, ok := compoundToBinary[op]
	if !ok {
		return Value{}, newRuntimeError(line, "unsupported compound assignment operator %s", op)
	}
	return applyBinaryOp(binOp, cur, rhs, line)
}

var compoundToBinary = map[TokenType]TokenType{
	tokenPlusAssign: tokenPlus,
	tokenMinusEq:    tokenMinus,
	tokenStarEq:     tokenAsterisk,
	tokenSlashEq:    tokenSlash,
	tokenPercentEq:  tokenPercent,
}

func (ev *evaluator) evalIndexExpr(x *IndexExpr, e *env) (Value, error) {
	recv, err := ev.evalExpr(x.Receiver, e)
	if err != nil {
		return Value{}, err
	}
	key, err := ev.evalExpr(x.Key, e)
	if err != nil {
		return Value{}, err
	}
	v, err := indexValue(recv, key, x.Line())
	if err != nil {
		return Value{}, err
	}
	return Copy(v), nil
}

// indexValue implements spec.md §4.6's read-side indexing rules:
// arrays/strings take an integer (negative counts from the end), dict
// keys must be strings and a miss returns None rather than erroring.
func indexValue(recv, key Value, line int) (Value, error) {
	switch recv.Kind() {
	case KindArray:
		arr := recv.Array()
		i, err := requireInt(key, line, "array index")
		if err != nil {
			return Value{}, err
		}
		idx := normalizeIndex(i, len(arr))
		if idx < 0 || idx >= len(arr) {
			return Value{}, newRuntimeError(line, "array index %d out of range for array of length %d", i, len(arr))
		}
		return arr[idx], nil
	case KindString:
		runes := []rune(recv.Str())
		i, err := requireInt(key, line, "string index")
		if err != nil {
			return Value{}, err
		}
		idx := normalizeIndex(i, len(runes))
		if idx < 0 || idx >= len(runes) {
			return Value{}, newRuntimeError(line, "string index %d out of range for string of length %d", i, len(runes))
		}
		return NewString(string(runes[idx])), nil
	case KindDict:
		k, err := mustString(key, line, "dict index")
		if err != nil {
			return Value{}, err
		}
		v, ok := recv.Dict().Get(k)
		if !ok {
			return NewNone(), nil
		}
		return v, nil
	default:
		return Value{}, newRuntimeError(line, "cannot index a %s", TypeName(recv))
	}
}

// assignIndex implements spec.md §4.6's write-side indexing rules:
// array assignment mutates the shared backing array in place (via the
// arrayBox, so it is visible through every reference to that array),
// out-of-bounds is an error; dict assignment creates or overwrites;
// string indexing assignment is always an error (strings are
// immutable).
func assignIndex(recv, key, val Value, line int) error {
	switch recv.Kind() {
	case KindArray:
		box := recv.arrayBox()
		arr := *box
		i, err := requireInt(key, line, "array index")
		if err != nil {
			return err
		}
		idx := normalizeIndex(i, len(arr))
		if idx < 0 || idx >= len(arr) {
			return newRuntimeError(line, "array index %d out of range for array of length %d", i, len(arr))
		}
		arr[idx] = val
		return nil
	case KindString:
		return newRuntimeError(line, "strings are immutable and cannot be assigned to by index")
	case KindDict:
		k, err := mustString(key, line, "dict index")
		if err != nil {
			return err
		}
		recv.Dict().Set(k, val)
		return nil
	default:
		return newRuntimeError(line, "cannot index-assign a %s", TypeName(recv))
	}
}

func (ev *evaluator) evalIfExpr(x *IfExpr, e *env) (Value, error) {
	cond, err := ev.evalExpr(x.Condition, e)
	if err != nil {
		return Value{}, err
	}
	b, err := requireBool(cond, x.Line(), "if-expression condition")
	if err != nil {
		return Value{}, err
	}
	if b {
		return ev.evalExprBlock(x.Then, e)
	}
	return ev.evalExprBlock(x.Else, e)
}
