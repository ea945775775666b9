package bop

import "testing"

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, t := range tokens {
		out[i] = t.Type
	}
	return out
}

func TestLexSimpleExpression(t *testing.T) {
	tokens, err := Lex("x + 1")
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	types := tokenTypes(tokens)
	want := []TokenType{tokenIdent, tokenPlus, tokenNumber, tokenEOF}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, types[i], want[i])
		}
	}
}

func TestLexInsertsTerminatorAfterValueLikeNewline(t *testing.T) {
	tokens, err := Lex("let x = 1\nlet y = 2")
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	var semis int
	for _, tok := range tokens {
		if tok.Type == tokenSemicolon {
			semis++
		}
	}
	if semis != 1 {
		t.Fatalf("expected exactly 1 inserted terminator, got %d", semis)
	}
}

func TestLexNoTerminatorAfterOperator(t *testing.T) {
	tokens, err := Lex("let x =\n1")
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	for _, tok := range tokens {
		if tok.Type == tokenSemicolon {
			t.Fatalf("did not expect a terminator after '=', got tokens: %v", tokenTypes(tokens))
		}
	}
}

func TestLexKeywords(t *testing.T) {
	tokens, err := Lex("let fn if else while for in repeat break continue true false none")
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	want := []TokenType{
		tokenLet, tokenFn, tokenIf, tokenElse, tokenWhile, tokenFor, tokenIn,
		tokenRepeat, tokenBreak, tokenContinue, tokenTrue, tokenFalse, tokenNone, tokenEOF,
	}
	types := tokenTypes(tokens)
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, types[i], want[i])
		}
	}
}

func TestLexStringInterpolation(t *testing.T) {
	tokens, err := Lex(`"hello {name}!"`)
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	if len(tokens) < 1 || tokens[0].Type != tokenString {
		t.Fatalf("expected a string token, got %v", tokenTypes(tokens))
	}
	segs := tokens[0].Segments
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].IsVar || segs[0].Text != "hello " {
		t.Fatalf("segment 0 wrong: %+v", segs[0])
	}
	if !segs[1].IsVar || segs[1].VarRef != "name" {
		t.Fatalf("segment 1 wrong: %+v", segs[1])
	}
	if segs[2].IsVar || segs[2].Text != "!" {
		t.Fatalf("segment 2 wrong: %+v", segs[2])
	}
}

func TestLexNumberLiteral(t *testing.T) {
	tokens, err := Lex("3.14")
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	if tokens[0].Type != tokenNumber || tokens[0].Literal != "3.14" {
		t.Fatalf("unexpected token: %+v", tokens[0])
	}
	f, err := parseNumberLiteral(tokens[0].Literal)
	if err != nil {
		t.Fatalf("parseNumberLiteral failed: %v", err)
	}
	if f != 3.14 {
		t.Fatalf("got %v, want 3.14", f)
	}
}

func TestLexCompoundAssignOperators(t *testing.T) {
	tokens, err := Lex("a += b -= c *= d /= e %= f")
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	want := []TokenType{
		tokenIdent, tokenPlusAssign, tokenIdent, tokenMinusEq, tokenIdent,
		tokenStarEq, tokenIdent, tokenSlashEq, tokenIdent, tokenPercentEq, tokenIdent, tokenEOF,
	}
	types := tokenTypes(tokens)
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, types[i], want[i])
		}
	}
}
