package bop

import "testing"

func TestEnvDeclareAndLookup(t *testing.T) {
	e := newEnv(nil)
	if err := e.declare("x", NewNumber(1)); err != nil {
		t.Fatalf("declare failed: %v", err)
	}
	v, ok := e.lookup("x")
	if !ok || v.Number() != 1 {
		t.Fatalf("lookup failed: %v, %v", v, ok)
	}
}

func TestEnvRedeclareInSameFrameErrors(t *testing.T) {
	e := newEnv(nil)
	if err := e.declare("x", NewNumber(1)); err != nil {
		t.Fatalf("declare failed: %v", err)
	}
	if err := e.declare("x", NewNumber(2)); err == nil {
		t.Fatalf("expected redeclaration to error")
	}
}

func TestEnvShadowingAcrossFrames(t *testing.T) {
	outer := newEnv(nil)
	if err := outer.declare("x", NewNumber(1)); err != nil {
		t.Fatalf("declare failed: %v", err)
	}
	inner := newEnv(outer)
	if err := inner.declare("x", NewNumber(2)); err != nil {
		t.Fatalf("shadowing in a child frame should be allowed: %v", err)
	}
	v, _ := inner.lookup("x")
	if v.Number() != 2 {
		t.Fatalf("inner lookup should see the shadowed value, got %v", v.Number())
	}
	ov, _ := outer.lookup("x")
	if ov.Number() != 1 {
		t.Fatalf("outer binding should be unaffected, got %v", ov.Number())
	}
}

func TestEnvAssignUpdatesOuterFrame(t *testing.T) {
	outer := newEnv(nil)
	outer.declare("x", NewNumber(1))
	inner := newEnv(outer)

	if ok := inner.assign("x", NewNumber(42)); !ok {
		t.Fatalf("expected assign to find 'x' in the outer frame")
	}
	v, _ := outer.lookup("x")
	if v.Number() != 42 {
		t.Fatalf("expected outer binding updated to 42, got %v", v.Number())
	}
}

func TestEnvAssignUnboundNameFails(t *testing.T) {
	e := newEnv(nil)
	if ok := e.assign("nope", NewNumber(1)); ok {
		t.Fatalf("expected assign to an undeclared name to fail")
	}
}

func TestEnvNamesCollectsWholeChain(t *testing.T) {
	outer := newEnv(nil)
	outer.declare("a", NewNumber(1))
	inner := newEnv(outer)
	inner.declare("b", NewNumber(2))

	names := inner.names()
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Fatalf("expected both a and b in %v", names)
	}
}
