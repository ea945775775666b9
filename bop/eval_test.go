package bop

import (
	"math"
	"testing"
)

func runOK(t *testing.T, src string) (Value, []string) {
	t.Helper()
	var lines []string
	host := &DefaultHost{Out: func(s string) { lines = append(lines, s) }}
	v, err := Run(src, host, Limits{MaxSteps: 100000, MaxMemory: 50 * 1024 * 1024})
	if err != nil {
		t.Fatalf("run failed for %q: %v", src, err)
	}
	return v, lines
}

func runErr(t *testing.T, src string) error {
	t.Helper()
	_, err := Run(src, NewDefaultHost(), StandardLimits())
	if err == nil {
		t.Fatalf("expected an error running %q", src)
	}
	return err
}

func TestEvalArithmeticAndPrecedence(t *testing.T) {
	v, _ := runOK(t, "2 + 3 * 4")
	if v.Number() != 14 {
		t.Fatalf("got %v, want 14", v.Number())
	}
}

func TestEvalDivisionByZeroProducesNaN(t *testing.T) {
	v, lines := runOK(t, `print(str(7 / 0))
7 / 0`)
	if !math.IsNaN(v.Number()) {
		t.Fatalf("got %v, want NaN", v.Number())
	}
	if len(lines) != 1 || lines[0] != "NaN" {
		t.Fatalf("got %v, want [\"NaN\"]", lines)
	}
}

func TestEvalModuloByZeroErrors(t *testing.T) {
	if err := runErr(t, "7 % 0"); err == nil {
		t.Fatalf("expected an error: modulo by zero is an error, not NaN")
	}
}

func TestEvalStringInterpolation(t *testing.T) {
	v, _ := runOK(t, `let name = "world"
"hello {name}"`)
	if v.Str() != "hello world" {
		t.Fatalf("got %q", v.Str())
	}
}

func TestEvalLogicalOperatorsRequireBooleans(t *testing.T) {
	if err := runErr(t, "1 && true"); err == nil {
		t.Fatalf("expected an error: '&&' requires booleans, not numeric truthiness")
	}
}

func TestEvalIfStmtAndElseIf(t *testing.T) {
	v, _ := runOK(t, `
let x = 5
let result = 0
if x > 10 {
	result = 1
} else if x > 3 {
	result = 2
} else {
	result = 3
}
result`)
	if v.Number() != 2 {
		t.Fatalf("got %v, want 2", v.Number())
	}
}

func TestEvalIfExpression(t *testing.T) {
	v, _ := runOK(t, `
let x = 7
let size = if x > 5 {
	"big"
} else {
	"small"
}
size`)
	if v.Str() != "big" {
		t.Fatalf("got %q, want %q", v.Str(), "big")
	}
}

func TestEvalWhileLoopWithBreakAndContinue(t *testing.T) {
	v, _ := runOK(t, `
let i = 0
let total = 0
while i < 10 {
	i += 1
	if i == 5 {
		continue
	}
	if i > 8 {
		break
	}
	total += i
}
total`)
	// i: 1,2,3,4,(skip 5),6,7,8,(break at 9)
	if v.Number() != 1+2+3+4+6+7+8 {
		t.Fatalf("got %v, want %v", v.Number(), 1+2+3+4+6+7+8)
	}
}

func TestEvalRepeatLoop(t *testing.T) {
	v, _ := runOK(t, `
let count = 0
repeat 5 {
	count += 1
}
count`)
	if v.Number() != 5 {
		t.Fatalf("got %v, want 5", v.Number())
	}
}

func TestEvalForLoopOverArray(t *testing.T) {
	v, _ := runOK(t, `
let total = 0
for n in [1, 2, 3, 4] {
	total += n
}
total`)
	if v.Number() != 10 {
		t.Fatalf("got %v, want 10", v.Number())
	}
}

func TestEvalForLoopOverDictKeys(t *testing.T) {
	v, _ := runOK(t, `
let d = {"a": 1, "b": 2}
let keys = []
for k in d {
	keys.push(k)
}
keys`)
	arr := v.Array()
	if len(arr) != 2 || arr[0].Str() != "a" || arr[1].Str() != "b" {
		t.Fatalf("got %v", arr)
	}
}

func TestEvalFunctionDeclarationAndCall(t *testing.T) {
	v, _ := runOK(t, `
fn add(a, b) {
	return a + b
}
add(3, 4)`)
	if v.Number() != 7 {
		t.Fatalf("got %v, want 7", v.Number())
	}
}

func TestEvalFunctionsCanCallEachOtherRegardlessOfOrder(t *testing.T) {
	v, _ := runOK(t, `
fn first() {
	return second() + 1
}
fn second() {
	return 41
}
first()`)
	if v.Number() != 42 {
		t.Fatalf("got %v, want 42", v.Number())
	}
}

func TestEvalBreakCannotCrossFunctionCallBoundary(t *testing.T) {
	err := runErr(t, `
fn loopy() {
	break
}
while true {
	loopy()
}`)
	if err == nil {
		t.Fatalf("expected an error: bare 'break' inside a function body with no loop of its own")
	}
}

func TestEvalDictIndexAssignmentMutatesSharedDict(t *testing.T) {
	v, _ := runOK(t, `
let d = {"a": 1}
d["b"] = 2
d["a"]`)
	if v.Number() != 1 {
		t.Fatalf("got %v, want 1", v.Number())
	}
	v, _ = runOK(t, `
let d = {"a": 1}
d["b"] = 2
d.len()`)
	if v.Number() != 2 {
		t.Fatalf("expected the index assignment to be visible on 'd' itself, got len %v", v.Number())
	}
}

func TestEvalNestedIndexAssignment(t *testing.T) {
	v, _ := runOK(t, `
let grid = [[1, 2], [3, 4]]
grid[0][1] = 99
grid[0]`)
	arr := v.Array()
	if arr[1].Number() != 99 {
		t.Fatalf("got %v, want second element 99", arr)
	}
}

func TestEvalArrayCopySemanticsOnAssignment(t *testing.T) {
	v, _ := runOK(t, `
let a = [1, 2, 3]
let b = a
b.push(4)
a`)
	arr := v.Array()
	if len(arr) != 3 {
		t.Fatalf("expected the original array to stay length 3 after mutating the copy, got %v", arr)
	}
}

func TestEvalArrayCopySemanticsOnFunctionArgs(t *testing.T) {
	v, _ := runOK(t, `
fn mutate(arr) {
	arr.push(99)
}
let a = [1]
mutate(a)
a`)
	arr := v.Array()
	if len(arr) != 1 {
		t.Fatalf("expected the caller's array untouched after passing it by value, got %v", arr)
	}
}

func TestEvalIndexAssignmentMutatesSharedArray(t *testing.T) {
	v, _ := runOK(t, `
let a = [1, 2, 3]
a[1] = 99
a`)
	arr := v.Array()
	if arr[1].Number() != 99 {
		t.Fatalf("got %v", arr)
	}
}

func TestEvalStringIndexAssignmentErrors(t *testing.T) {
	if err := runErr(t, `let s = "abc"
s[0] = "z"`); err == nil {
		t.Fatalf("expected an error assigning into an immutable string")
	}
}

func TestEvalDictMissReturnsNoneButArrayOutOfRangeErrors(t *testing.T) {
	v, _ := runOK(t, `let d = {"a": 1}
d["missing"]`)
	if v.Kind() != KindNone {
		t.Fatalf("expected dict miss to yield none, got %v", v)
	}
	if err := runErr(t, `let a = [1, 2]
a[5]`); err == nil {
		t.Fatalf("expected an error indexing an array out of range")
	}
}

func TestEvalNegativeArrayIndex(t *testing.T) {
	v, _ := runOK(t, `let a = [1, 2, 3]
a[-1]`)
	if v.Number() != 3 {
		t.Fatalf("got %v, want 3", v.Number())
	}
}

func TestEvalDidYouMeanSuggestionOnTypo(t *testing.T) {
	err := runErr(t, `let length = 5
legnth`)
	bopErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected a *Error, got %T", err)
	}
	if bopErr.Suggestion != "length" {
		t.Fatalf("got suggestion %q, want %q", bopErr.Suggestion, "length")
	}
}

func TestEvalStepLimitHalts(t *testing.T) {
	_, err := Run(`
let i = 0
while true {
	i += 1
}`, NewDefaultHost(), Limits{MaxSteps: 50})
	if err == nil {
		t.Fatalf("expected the step limit to halt an infinite loop")
	}
	bopErr, ok := err.(*Error)
	if !ok || bopErr.Kind != KindLimitExceeded {
		t.Fatalf("expected a KindLimitExceeded error, got %#v", err)
	}
}

func TestEvalPrintGoesThroughHost(t *testing.T) {
	_, lines := runOK(t, `print("a", 1, true)`)
	if len(lines) != 1 || lines[0] != "a 1 true" {
		t.Fatalf("got %v", lines)
	}
}

func TestEvalHostCallFallthrough(t *testing.T) {
	host := &stubHost{DefaultHost: DefaultHost{}, fn: func(name string, args []Value, line int) CallResult {
		if name == "double" {
			return Handled(NewNumber(args[0].Number() * 2))
		}
		return NotHandled()
	}}
	v, err := Run("double(21)", host, StandardLimits())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if v.Number() != 42 {
		t.Fatalf("got %v, want 42", v.Number())
	}
}

type stubHost struct {
	DefaultHost
	fn func(name string, args []Value, line int) CallResult
}

func (h *stubHost) Call(name string, args []Value, line int) CallResult {
	return h.fn(name, args, line)
}

func TestEvalUnknownFunctionErrors(t *testing.T) {
	if err := runErr(t, "totallyUnknownThing()"); err == nil {
		t.Fatalf("expected an error calling an unresolvable function")
	}
}

func TestEvalBuiltinNameCannotBeRedeclaredAsFunction(t *testing.T) {
	if err := runErr(t, `
fn len(x) {
	return 0
}
len([1])`); err == nil {
		t.Fatalf("expected an error redeclaring a built-in name as a function")
	}
}

func TestEvalLetRedeclarationInSameScopeErrors(t *testing.T) {
	if err := runErr(t, `
let x = 1
let x = 2`); err == nil {
		t.Fatalf("expected an error redeclaring 'x' in the same scope")
	}
}
