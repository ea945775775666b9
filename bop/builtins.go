package bop

import (
	"math"
	"strconv"
	"strings"
)

// builtinFunc is the shape every global built-in implements: the
// calling evaluator (for host/line-accounting access), already-copied
// argument values, and the call site's source line for error
// reporting.
type builtinFunc func(ev *evaluator, args []Value, line int) (Value, error)

// builtins is the fixed catalog from spec.md §4.5. Names here can
// never be shadowed by a user fn declaration (enforced in
// collectFunctions).
var builtins = map[string]builtinFunc{
	"print":   builtinPrint,
	"inspect": builtinInspect,
	"str":     builtinStr,
	"int":     builtinInt,
	"type":    builtinType,
	"abs":     builtinAbs,
	"min":     builtinMin,
	"max":     builtinMax,
	"rand":    builtinRand,
	"len":     builtinLen,
	"range":   builtinRange,
}

func isBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

func builtinPrint(ev *evaluator, args []Value, line int) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Str(a)
	}
	ev.host.OnPrint(strings.Join(parts, " "))
	return NewNone(), nil
}

func builtinInspect(ev *evaluator, args []Value, line int) (Value, error) {
	if len(args) != 1 {
		return Value{}, newRuntimeError(line, "inspect expects 1 argument, got %d", len(args))
	}
	return NewString(Inspect(args[0])), nil
}

func builtinStr(ev *evaluator, args []Value, line int) (Value, error) {
	if len(args) != 1 {
		return Value{}, newRuntimeError(line, "str expects 1 argument, got %d", len(args))
	}
	return NewString(Str(args[0])), nil
}

func builtinInt(ev *evaluator, args []Value, line int) (Value, error) {
	if len(args) != 1 {
		return Value{}, newRuntimeError(line, "int expects 1 argument, got %d", len(args))
	}
	v := args[0]
	switch v.Kind() {
	case KindNumber:
		return NewNumber(math.Trunc(v.Number())), nil
	case KindBool:
		if v.Bool() {
			return NewNumber(1), nil
		}
		return NewNumber(0), nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil {
			return Value{}, newRuntimeError(line, "cannot convert %q to a number", v.Str())
		}
		return NewNumber(math.Trunc(f)), nil
	default:
		return Value{}, newRuntimeError(line, "int does not accept a %s", TypeName(v))
	}
}

func builtinType(ev *evaluator, args []Value, line int) (Value, error) {
	if len(args) != 1 {
		return Value{}, newRuntimeError(line, "type expects 1 argument, got %d", len(args))
	}
	return NewString(TypeName(args[0])), nil
}

func builtinAbs(ev *evaluator, args []Value, line int) (Value, error) {
	if len(args) != 1 {
		return Value{}, newRuntimeError(line, "abs expects 1 argument, got %d", len(args))
	}
	n, err := requireNumber(args[0], line, "abs")
	if err != nil {
		return Value{}, err
	}
	return NewNumber(math.Abs(n)), nil
}

func builtinMin(ev *evaluator, args []Value, line int) (Value, error) {
	if len(args) != 2 {
		return Value{}, newRuntimeError(line, "min expects 2 arguments, got %d", len(args))
	}
	a, err := requireNumber(args[0], line, "min")
	if err != nil {
		return Value{}, err
	}
	b, err := requireNumber(args[1], line, "min")
	if err != nil {
		return Value{}, err
	}
	if b < a {
		return NewNumber(b), nil
	}
	return NewNumber(a), nil
}

func builtinMax(ev *evaluator, args []Value, line int) (Value, error) {
	if len(args) != 2 {
		return Value{}, newRuntimeError(line, "max expects 2 arguments, got %d", len(args))
	}
	a, err := requireNumber(args[0], line, "max")
	if err != nil {
		return Value{}, err
	}
	b, err := requireNumber(args[1], line, "max")
	if err != nil {
		return Value{}, err
	}
	if b > a {
		return NewNumber(b), nil
	}
	return NewNumber(a), nil
}

// builtinRand implements spec.md §4.5's rand(n) via a PCG-style LCG
// ported from the reference implementation's builtin_rand: state
// advances by a fixed multiplier/increment, and the low bits are
// discarded by taking the top of the 64-bit state before reducing mod
// n. See SPEC_FULL.md §9 for the exact constants and default seed.
func builtinRand(ev *evaluator, args []Value, line int) (Value, error) {
	if len(args) != 1 {
		return Value{}, newRuntimeError(line, "rand expects 1 argument, got %d", len(args))
	}
	n, err := requireNonNegInt(args[0], line, "rand")
	if err != nil {
		return Value{}, err
	}
	if n <= 0 {
		return Value{}, newRuntimeError(line, "rand expects a positive integer, got %s", Str(args[0]))
	}
	ev.randState = ev.randState*6364136223846793005 + 1442695040888963407
	result := (ev.randState >> 33) % uint64(n)
	return NewNumber(float64(result)), nil
}

func builtinLen(ev *evaluator, args []Value, line int) (Value, error) {
	if len(args) != 1 {
		return Value{}, newRuntimeError(line, "len expects 1 argument, got %d", len(args))
	}
	switch v := args[0]; v.Kind() {
	case KindString:
		return NewNumber(float64(len([]rune(v.Str())))), nil
	case KindArray:
		return NewNumber(float64(len(v.Array()))), nil
	case KindDict:
		return NewNumber(float64(v.Dict().Len())), nil
	default:
		return Value{}, newRuntimeError(line, "len does not accept a %s", TypeName(v))
	}
}

const maxRangeLength = 10_000

// builtinRange implements the 1-, 2-, and 3-argument forms of
// spec.md §4.5's range.
func builtinRange(ev *evaluator, args []Value, line int) (Value, error) {
	var start, stop, step int
	switch len(args) {
	case 1:
		n, err := requireNonNegInt(args[0], line, "range")
		if err != nil {
			return Value{}, err
		}
		start, stop, step = 0, n, 1
	case 2:
		a, err := requireInt(args[0], line, "range")
		if err != nil {
			return Value{}, err
		}
		b, err := requireInt(args[1], line, "range")
		if err != nil {
			return Value{}, err
		}
		start, stop = a, b
		if a <= b {
			step = 1
		} else {
			step = -1
		}
	case 3:
		a, err := requireInt(args[0], line, "range")
		if err != nil {
			return Value{}, err
		}
		b, err := requireInt(args[1], line, "range")
		if err != nil {
			return Value{}, err
		}
		s, err := requireInt(args[2], line, "range")
		if err != nil {
			return Value{}, err
		}
		if s == 0 {
			return Value{}, newRuntimeError(line, "range step cannot be 0")
		}
		start, stop, step = a, b, s
	default:
		return Value{}, newRuntimeError(line, "range expects 1 to 3 arguments, got %d", len(args))
	}

	if (step > 0 && start >= stop) || (step < 0 && start <= stop) {
		return NewArray(nil), nil
	}

	var length int
	if step > 0 {
		length = (stop - start + step - 1) / step
	} else {
		length = (start - stop - step - 1) / -step
	}
	if length > maxRangeLength {
		return Value{}, newLimitError(line, "range would produce %d elements, exceeding the %d-element limit", length, maxRangeLength)
	}

	out := make([]Value, 0, length)
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, NewNumber(float64(i)))
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, NewNumber(float64(i)))
		}
	}
	return NewArray(out), nil
}

func requireNumber(v Value, line int, context string) (float64, error) {
	if v.Kind() != KindNumber {
		return 0, newRuntimeError(line, "%s expects a number, got %s", context, TypeName(v))
	}
	return v.Number(), nil
}

func requireInt(v Value, line int, context string) (int, error) {
	n, err := requireNumber(v, line, context)
	if err != nil {
		return 0, err
	}
	if math.Trunc(n) != n {
		return 0, newRuntimeError(line, "%s expects an integer, got %s", context, Str(v))
	}
	return int(n), nil
}

func requireNonNegInt(v Value, line int, context string) (int, error) {
	n, err := requireInt(v, line, context)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, newRuntimeError(line, "%s expects a non-negative integer, got %s", context, Str(v))
	}
	return n, nil
}
