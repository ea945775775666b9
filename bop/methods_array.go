package bop

import "sort"

var arrayMethods = map[string]methodFunc{
	"len":      arrLen,
	"push":     arrPush,
	"pop":      arrPop,
	"has":      arrHas,
	"index_of": arrIndexOf,
	"insert":   arrInsert,
	"remove":   arrRemove,
	"slice":    arrSlice,
	"reverse":  arrReverse,
	"sort":     arrSort,
}

func arrayMethodNames() []string {
	names := make([]string, 0, len(arrayMethods))
	for n := range arrayMethods {
		names = append(names, n)
	}
	return names
}

func arrLen(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("len", args, line, 0); err != nil {
		return Value{}, err
	}
	return NewNumber(float64(len(recv.Array()))), nil
}

func arrPush(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("push", args, line, 1); err != nil {
		return Value{}, err
	}
	box := recv.arrayBox()
	*box = append(*box, Copy(args[0]))
	return NewNone(), nil
}

func arrPop(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("pop", args, line, 0); err != nil {
		return Value{}, err
	}
	box := recv.arrayBox()
	arr := *box
	if len(arr) == 0 {
		return Value{}, newRuntimeError(line, "pop on an empty array")
	}
	last := arr[len(arr)-1]
	*box = arr[:len(arr)-1]
	return last, nil
}

func arrHas(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("has", args, line, 1); err != nil {
		return Value{}, err
	}
	for _, el := range recv.Array() {
		if Equal(el, args[0]) {
			return NewBool(true), nil
		}
	}
	return NewBool(false), nil
}

func arrIndexOf(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("index_of", args, line, 1); err != nil {
		return Value{}, err
	}
	for i, el := range recv.Array() {
		if Equal(el, args[0]) {
			return NewNumber(float64(i)), nil
		}
	}
	return NewNone(), nil
}

func arrInsert(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("insert", args, line, 2); err != nil {
		return Value{}, err
	}
	box := recv.arrayBox()
	arr := *box
	i, err := requireInt(args[0], line, "insert")
	if err != nil {
		return Value{}, err
	}
	if i < 0 || i > len(arr) {
		return Value{}, newRuntimeError(line, "insert index %d out of range for array of length %d", i, len(arr))
	}
	out := make([]Value, 0, len(arr)+1)
	out = append(out, arr[:i]...)
	out = append(out, Copy(args[1]))
	out = append(out, arr[i:]...)
	*box = out
	return NewNone(), nil
}

func arrRemove(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("remove", args, line, 1); err != nil {
		return Value{}, err
	}
	box := recv.arrayBox()
	arr := *box
	i, err := requireInt(args[0], line, "remove")
	if err != nil {
		return Value{}, err
	}
	if i < 0 || i >= len(arr) {
		return Value{}, newRuntimeError(line, "remove index %d out of range for array of length %d", i, len(arr))
	}
	removed := arr[i]
	out := make([]Value, 0, len(arr)-1)
	out = append(out, arr[:i]...)
	out = append(out, arr[i+1:]...)
	*box = out
	return removed, nil
}

func arrSlice(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if len(args) > 2 {
		return Value{}, newRuntimeError(line, "slice expects at most 2 arguments, got %d", len(args))
	}
	arr := recv.Array()
	start, end, err := sliceBounds(len(arr), args, line, "slice")
	if err != nil {
		return Value{}, err
	}
	out := make([]Value, end-start)
	for i := start; i < end; i++ {
		out[i-start] = Copy(arr[i])
	}
	return NewArray(out), nil
}

// arrReverse reverses in place and returns the same array, matching
// spec.md §4.5's "in place, returns self" contract.
func arrReverse(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("reverse", args, line, 0); err != nil {
		return Value{}, err
	}
	arr := recv.Array()
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
	return recv, nil
}

// arrSort sorts in place, stably, and requires every element to share
// one comparable kind (all numbers or all strings); mixed types are an
// error per spec.md §4.5 (an intentional tightening noted in §9's open
// questions).
func arrSort(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("sort", args, line, 0); err != nil {
		return Value{}, err
	}
	arr := recv.Array()
	if len(arr) == 0 {
		return recv, nil
	}
	kind := arr[0].Kind()
	if kind != KindNumber && kind != KindString {
		return Value{}, newRuntimeError(line, "sort requires numbers or strings, got %s", TypeName(arr[0]))
	}
	for _, el := range arr[1:] {
		if el.Kind() != kind {
			return Value{}, newRuntimeError(line, "sort requires all elements to share one type")
		}
	}
	if kind == KindNumber {
		sort.SliceStable(arr, func(i, j int) bool { return arr[i].Number() < arr[j].Number() })
	} else {
		sort.SliceStable(arr, func(i, j int) bool { return arr[i].Str() < arr[j].Str() })
	}
	return recv, nil
}
