package bop

import "strings"

// methodFunc is the shape every built-in type method implements: the
// receiver (not copied: when it is a variable or an element of one, it
// shares that storage, so a mutating method changes it in place),
// already-copied arguments, and the call site's line for error
// reporting.
type methodFunc func(ev *evaluator, recv Value, args []Value, line int) (Value, error)

var stringMethods = map[string]methodFunc{
	"len":         strLen,
	"contains":    strContains,
	"starts_with": strStartsWith,
	"ends_with":   strEndsWith,
	"index_of":    strIndexOf,
	"split":       strSplit,
	"replace":     strReplace,
	"upper":       strUpper,
	"lower":       strLower,
	"trim":        strTrim,
	"slice":       strSlice,
}

func stringMethodNames() []string {
	names := make([]string, 0, len(stringMethods))
	for n := range stringMethods {
		names = append(names, n)
	}
	return names
}

func strLen(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("len", args, line, 0); err != nil {
		return Value{}, err
	}
	return NewNumber(float64(len([]rune(recv.Str())))), nil
}

func strContains(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	sub, err := oneStringArg("contains", args, line)
	if err != nil {
		return Value{}, err
	}
	return NewBool(strings.Contains(recv.Str(), sub)), nil
}

func strStartsWith(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	p, err := oneStringArg("starts_with", args, line)
	if err != nil {
		return Value{}, err
	}
	return NewBool(strings.HasPrefix(recv.Str(), p)), nil
}

func strEndsWith(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	s, err := oneStringArg("ends_with", args, line)
	if err != nil {
		return Value{}, err
	}
	return NewBool(strings.HasSuffix(recv.Str(), s)), nil
}

func strIndexOf(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	sub, err := oneStringArg("index_of", args, line)
	if err != nil {
		return Value{}, err
	}
	byteIdx := strings.Index(recv.Str(), sub)
	if byteIdx < 0 {
		return NewNone(), nil
	}
	return NewNumber(float64(len([]rune(recv.Str()[:byteIdx])))), nil
}

func strSplit(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	sep, err := oneStringArg("split", args, line)
	if err != nil {
		return Value{}, err
	}
	var parts []string
	if sep == "" {
		for _, r := range recv.Str() {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(recv.Str(), sep)
	}
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = NewString(p)
	}
	return NewArray(out), nil
}

func strReplace(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("replace", args, line, 2); err != nil {
		return Value{}, err
	}
	oldS, err := mustString(args[0], line, "replace")
	if err != nil {
		return Value{}, err
	}
	newS, err := mustString(args[1], line, "replace")
	if err != nil {
		return Value{}, err
	}
	return NewString(strings.ReplaceAll(recv.Str(), oldS, newS)), nil
}

func strUpper(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("upper", args, line, 0); err != nil {
		return Value{}, err
	}
	return NewString(strings.ToUpper(recv.Str())), nil
}

func strLower(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("lower", args, line, 0); err != nil {
		return Value{}, err
	}
	return NewString(strings.ToLower(recv.Str())), nil
}

func strTrim(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("trim", args, line, 0); err != nil {
		return Value{}, err
	}
	return NewString(strings.TrimSpace(recv.Str())), nil
}

// strSlice implements optional-start/end slicing with negative indices
// counted from the end, clamped to the string's bounds.
func strSlice(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if len(args) > 2 {
		return Value{}, newRuntimeError(line, "slice expects at most 2 arguments, got %d", len(args))
	}
	runes := []rune(recv.Str())
	start, end, err := sliceBounds(len(runes), args, line, "slice")
	if err != nil {
		return Value{}, err
	}
	return NewString(string(runes[start:end])), nil
}

// sliceBounds resolves slice's optional (start, end) arguments against
// a container of length n, applying spec.md §4.5's negative-index and
// clamping rules shared by string.slice and array.slice.
func sliceBounds(n int, args []Value, line int, context string) (int, int, error) {
	start, end := 0, n
	if len(args) >= 1 && args[0].Kind() != KindNone {
		s, err := requireInt(args[0], line, context)
		if err != nil {
			return 0, 0, err
		}
		start = normalizeIndex(s, n)
	}
	if len(args) >= 2 && args[1].Kind() != KindNone {
		e, err := requireInt(args[1], line, context)
		if err != nil {
			return 0, 0, err
		}
		end = normalizeIndex(e, n)
	}
	start = clamp(start, 0, n)
	end = clamp(end, 0, n)
	if end < start {
		end = start
	}
	return start, end, nil
}

func normalizeIndex(i, n int) int {
	if i < 0 {
		return n + i
	}
	return i
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wantArgs(name string, args []Value, line, n int) error {
	if len(args) != n {
		return newRuntimeError(line, "%s expects %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func oneStringArg(name string, args []Value, line int) (string, error) {
	if err := wantArgs(name, args, line, 1); err != nil {
		return "", err
	}
	return mustString(args[0], line, name)
}

func mustString(v Value, line int, context string) (string, error) {
	if v.Kind() != KindString {
		return "", newRuntimeError(line, "%s expects a string, got %s", context, TypeName(v))
	}
	return v.Str(), nil
}
