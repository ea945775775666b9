package bop

var dictMethods = map[string]methodFunc{
	"len":    dictLen,
	"keys":   dictKeys,
	"values": dictValues,
	"has":    dictHas,
}

func dictMethodNames() []string {
	names := make([]string, 0, len(dictMethods))
	for n := range dictMethods {
		names = append(names, n)
	}
	return names
}

func dictLen(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("len", args, line, 0); err != nil {
		return Value{}, err
	}
	return NewNumber(float64(recv.Dict().Len())), nil
}

func dictKeys(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("keys", args, line, 0); err != nil {
		return Value{}, err
	}
	keys := recv.Dict().Keys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = NewString(k)
	}
	return NewArray(out), nil
}

func dictValues(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("values", args, line, 0); err != nil {
		return Value{}, err
	}
	d := recv.Dict()
	keys := d.Keys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		v, _ := d.Get(k)
		out[i] = Copy(v)
	}
	return NewArray(out), nil
}

func dictHas(ev *evaluator, recv Value, args []Value, line int) (Value, error) {
	if err := wantArgs("has", args, line, 1); err != nil {
		return Value{}, err
	}
	k, err := mustString(args[0], line, "has")
	if err != nil {
		return Value{}, err
	}
	_, ok := recv.Dict().Get(k)
	return NewBool(ok), nil
}
