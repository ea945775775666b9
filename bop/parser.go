package bop

// reservedWords cannot be bound as identifiers anywhere (spec.md §3's
// invariant). The lexer already tokenizes them to their own
// TokenTypes distinct from tokenIdent, so a reserved word used as a
// name is rejected earlier by expect(tokenIdent) with an "expected
// IDENT" error; the checks against this set are only a backstop.
var reservedWords = map[string]bool{
	"let": true, "fn": true, "return": true, "if": true, "else": true,
	"while": true, "for": true, "in": true, "repeat": true,
	"break": true, "continue": true, "true": true, "false": true, "none": true,
}

type parser struct {
	tokens []Token
	pos    int
}

func newParser(tokens []Token) *parser {
	return &parser{tokens: tokens}
}

func (p *parser) cur() Token {
	return p.tokens[p.pos]
}

func (p *parser) peek() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) advance() Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(tt TokenType) (Token, error) {
	if p.cur().Type != tt {
		return Token{}, newSyntaxError(p.cur().Line, "expected %s, got %s", tt, p.describeCur())
	}
	return p.advance(), nil
}

func (p *parser) describeCur() string {
	tok := p.cur()
	if tok.Type == tokenEOF {
		return "end of input"
	}
	if tok.Literal != "" {
		return string(tok.Type) + " " + tok.Literal
	}
	return string(tok.Type)
}

// skipTerminators consumes zero or more ";" tokens.
func (p *parser) skipTerminators() {
	for p.cur().Type == tokenSemicolon {
		p.advance()
	}
}

// Parse lexes and parses a complete program.
func Parse(source string) (*Program, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	p := newParser(tokens)
	return p.parseProgram()
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{}
	p.skipTerminators()
	for p.cur().Type != tokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		if err := p.endStatement(); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

// endStatement enforces spec.md §4.3: a terminator is permitted but
// not required immediately before a closing brace (or, here, EOF).
func (p *parser) endStatement() error {
	if p.cur().Type == tokenSemicolon {
		p.skipTerminators()
		return nil
	}
	if p.cur().Type == tokenRBrace || p.cur().Type == tokenEOF {
		return nil
	}
	return newSyntaxError(p.cur().Line, "expected terminator, got %s", p.describeCur())
}

// parseBlock parses any `{ ... }` statement body: if/while/repeat/for
// and function bodies all use this (the top-level program does not, so
// top-level fn declarations never go through here). A nested `fn`
// declaration is a syntax error wherever it appears, per spec.md §4.6.
func (p *parser) parseBlock() ([]Statement, error) {
	if _, err := p.expect(tokenLBrace); err != nil {
		return nil, err
	}
	p.skipTerminators()
	var stmts []Statement
	for p.cur().Type != tokenRBrace {
		if p.cur().Type == tokenEOF {
			return nil, newSyntaxError(p.cur().Line, "unterminated block, expected '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if fn, ok := stmt.(*FnDecl); ok {
			return nil, newSyntaxError(fn.Line(), "nested function declarations are not permitted")
		}
		stmts = append(stmts, stmt)
		if err := p.endStatement(); err != nil {
			return nil, err
		}
	}
	p.advance() // consume '}'
	return stmts, nil
}

func (p *parser) parseStatement() (Statement, error) {
	switch p.cur().Type {
	case tokenLet:
		return p.parseLetStmt()
	case tokenIf:
		return p.parseIfStmt()
	case tokenWhile:
		return p.parseWhileStmt()
	case tokenRepeat:
		return p.parseRepeatStmt()
	case tokenFor:
		return p.parseForStmt()
	case tokenFn:
		return p.parseFnDecl()
	case tokenReturn:
		return p.parseReturnStmt()
	case tokenBreak:
		line := p.advance().Line
		return &BreakStmt{baseNode{line}}, nil
	case tokenContinue:
		line := p.advance().Line
		return &ContinueStmt{baseNode{line}}, nil
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *parser) parseLetStmt() (Statement, error) {
	line := p.advance().Line // 'let'
	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	if reservedWords[name.Literal] {
		return nil, newSyntaxError(name.Line, "'%s' is a reserved word and cannot be bound", name.Literal)
	}
	if _, err := p.expect(tokenAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &LetStmt{baseNode{line}, name.Literal, value}, nil
}

var compoundAssignOps = map[TokenType]bool{
	tokenPlusAssign: true, tokenMinusEq: true, tokenStarEq: true,
	tokenSlashEq: true, tokenPercentEq: true,
}

func (p *parser) parseExprOrAssignStmt() (Statement, error) {
	line := p.cur().Line
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	op := p.cur().Type
	if op == tokenAssign || compoundAssignOps[op] {
		target, err := exprToAssignTarget(expr)
		if err != nil {
			return nil, err
		}
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		assignOp := op
		if op == tokenAssign {
			assignOp = ""
		}
		return &AssignStmt{baseNode{line}, target, assignOp, value}, nil
	}

	return &ExprStmt{baseNode{line}, expr}, nil
}

func exprToAssignTarget(expr Expression) (AssignTarget, error) {
	switch e := expr.(type) {
	case *Ident:
		return &NameTarget{baseNode{e.line}, e.Name}, nil
	case *IndexExpr:
		return &IndexTarget{baseNode{e.line}, e.Receiver, e.Key}, nil
	default:
		return nil, newSyntaxError(expr.Line(), "invalid assignment target")
	}
}

func (p *parser) parseIfStmt() (Statement, error) {
	line := p.advance().Line // 'if'
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{baseNode: baseNode{line}, Condition: cond, Then: then}

	for p.cur().Type == tokenElse && p.peek().Type == tokenIf {
		p.advance() // 'else'
		p.advance() // 'if'
		elifCond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elifBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.ElseIfs = append(stmt.ElseIfs, ElseIfClause{Condition: elifCond, Body: elifBody})
	}

	if p.cur().Type == tokenElse {
		p.advance()
		elseBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBody
		stmt.HasElse = true
	}

	return stmt, nil
}

func (p *parser) parseWhileStmt() (Statement, error) {
	line := p.advance().Line
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{baseNode{line}, cond, body}, nil
}

func (p *parser) parseRepeatStmt() (Statement, error) {
	line := p.advance().Line
	count, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &RepeatStmt{baseNode{line}, count, body}, nil
}

func (p *parser) parseForStmt() (Statement, error) {
	line := p.advance().Line
	ident, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenIn); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ForStmt{baseNode{line}, ident.Literal, iterable, body}, nil
}

func (p *parser) parseFnDecl() (Statement, error) {
	line := p.advance().Line
	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	if reservedWords[name.Literal] {
		return nil, newSyntaxError(name.Line, "'%s' is a reserved word and cannot be used as a function name", name.Literal)
	}
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	var params []string
	if p.cur().Type != tokenRParen {
		for {
			param, err := p.expect(tokenIdent)
			if err != nil {
				return nil, err
			}
			params = append(params, param.Literal)
			if p.cur().Type != tokenComma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FnDecl{baseNode{line}, name.Literal, params, body}, nil
}

func (p *parser) parseReturnStmt() (Statement, error) {
	line := p.advance().Line
	if p.cur().Type == tokenSemicolon || p.cur().Type == tokenRBrace || p.cur().Type == tokenEOF {
		return &ReturnStmt{baseNode: baseNode{line}}, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ReturnStmt{baseNode{line}, value}, nil
}
