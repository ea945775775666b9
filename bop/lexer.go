package bop

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type lexer struct {
	input string

	offset int
	width  int

	line int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if l.ch == '\n' {
		l.line++
	}
	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

// Lex scans the whole input and returns the final token stream,
// automatic terminators already resolved, terminated by an EOF token.
func Lex(input string) ([]Token, error) {
	l := newLexer(input)

	var raw []Token
	for {
		tok, err := l.nextRawToken()
		if err != nil {
			return nil, err
		}
		raw = append(raw, tok)
		if tok.Type == tokenEOF {
			break
		}
	}
	return insertTerminators(raw), nil
}

// insertTerminators is the lexer's second pass: a NEWLINE token becomes
// a real terminator only when the previous emitted token is value-like;
// otherwise it is dropped. Consecutive terminators collapse to one.
func insertTerminators(raw []Token) []Token {
	out := make([]Token, 0, len(raw))
	for _, tok := range raw {
		if tok.Type == tokenNewline {
			if len(out) == 0 {
				continue
			}
			prev := out[len(out)-1]
			if prev.Type == tokenSemicolon {
				continue
			}
			if !isValueLike(prev.Type) {
				continue
			}
			out = append(out, Token{Type: tokenSemicolon, Line: prev.Line})
			continue
		}
		if tok.Type == tokenSemicolon && len(out) > 0 && out[len(out)-1].Type == tokenSemicolon {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func (l *lexer) nextRawToken() (Token, error) {
	l.skipInsignificantWhitespaceAndComments()

	line := l.line
	mk := func(tt TokenType, lit string) Token { return Token{Type: tt, Literal: lit, Line: line} }

	switch l.ch {
	case 0:
		return mk(tokenEOF, ""), nil
	case '\n':
		l.readRune()
		return mk(tokenNewline, "\n"), nil
	case ';':
		l.readRune()
		return mk(tokenSemicolon, ";"), nil
	case '+':
		if l.peekRune() == '=' {
			l.readRune()
			l.readRune()
			return mk(tokenPlusAssign, "+="), nil
		}
		l.readRune()
		return mk(tokenPlus, "+"), nil
	case '-':
		if l.peekRune() == '=' {
			l.readRune()
			l.readRune()
			return mk(tokenMinusEq, "-="), nil
		}
		l.readRune()
		return mk(tokenMinus, "-"), nil
	case '*':
		if l.peekRune() == '=' {
			l.readRune()
			l.readRune()
			return mk(tokenStarEq, "*="), nil
		}
		l.readRune()
		return mk(tokenAsterisk, "*"), nil
	case '/':
		if l.peekRune() == '=' {
			l.readRune()
			l.readRune()
			return mk(tokenSlashEq, "/="), nil
		}
		l.readRune()
		return mk(tokenSlash, "/"), nil
	case '%':
		if l.peekRune() == '=' {
			l.readRune()
			l.readRune()
			return mk(tokenPercentEq, "%="), nil
		}
		l.readRune()
		return mk(tokenPercent, "%"), nil
	case '=':
		if l.peekRune() == '=' {
			l.readRune()
			l.readRune()
			return mk(tokenEQ, "=="), nil
		}
		l.readRune()
		return mk(tokenAssign, "="), nil
	case '!':
		if l.peekRune() == '=' {
			l.readRune()
			l.readRune()
			return mk(tokenNotEQ, "!="), nil
		}
		l.readRune()
		return mk(tokenNot, "!"), nil
	case '<':
		if l.peekRune() == '=' {
			l.readRune()
			l.readRune()
			return mk(tokenLTE, "<="), nil
		}
		l.readRune()
		return mk(tokenLT, "<"), nil
	case '>':
		if l.peekRune() == '=' {
			l.readRune()
			l.readRune()
			return mk(tokenGTE, ">="), nil
		}
		l.readRune()
		return mk(tokenGT, ">"), nil
	case '&':
		if l.peekRune() == '&' {
			l.readRune()
			l.readRune()
			return mk(tokenAnd, "&&"), nil
		}
		l.readRune()
		return mk(tokenIllegal, "&"), newSyntaxError(line, "unexpected character '&'")
	case '|':
		if l.peekRune() == '|' {
			l.readRune()
			l.readRune()
			return mk(tokenOr, "||"), nil
		}
		l.readRune()
		return mk(tokenIllegal, "|"), newSyntaxError(line, "unexpected character '|'")
	case '(':
		l.readRune()
		return mk(tokenLParen, "("), nil
	case ')':
		l.readRune()
		return mk(tokenRParen, ")"), nil
	case '{':
		l.readRune()
		return mk(tokenLBrace, "{"), nil
	case '}':
		l.readRune()
		return mk(tokenRBrace, "}"), nil
	case '[':
		l.readRune()
		return mk(tokenLBracket, "["), nil
	case ']':
		l.readRune()
		return mk(tokenRBracket, "]"), nil
	case ',':
		l.readRune()
		return mk(tokenComma, ","), nil
	case '.':
		l.readRune()
		return mk(tokenDot, "."), nil
	case ':':
		l.readRune()
		return mk(tokenColon, ":"), nil
	case '"':
		return l.readString(line)
	default:
		switch {
		case isIdentStart(l.ch):
			lit := l.readIdentifier()
			return Token{Type: lookupIdent(lit), Literal: lit, Line: line}, nil
		case unicode.IsDigit(l.ch):
			lit, err := l.readNumber()
			if err != nil {
				return Token{}, err
			}
			return Token{Type: tokenNumber, Literal: lit, Line: line}, nil
		default:
			bad := l.ch
			l.readRune()
			return mk(tokenIllegal, string(bad)), newSyntaxError(line, "unexpected character %q", string(bad))
		}
	}
}

// skipInsignificantWhitespaceAndComments skips spaces, tabs, carriage
// returns, and // comments, but leaves newlines for nextRawToken to
// emit: the second pass needs to see them to apply the
// automatic-terminator rule.
func (l *lexer) skipInsignificantWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readRune()
			continue
		case '/':
			if l.peekRune() == '/' {
				for l.ch != 0 && l.ch != '\n' {
					l.readRune()
				}
				continue
			}
			return
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (l *lexer) readIdentifier() string {
	var sb strings.Builder
	for isIdentRune(l.ch) {
		sb.WriteRune(l.ch)
		l.readRune()
	}
	return sb.String()
}

func (l *lexer) readNumber() (string, error) {
	var sb strings.Builder
	for unicode.IsDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readRune()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekRune()) {
		sb.WriteRune('.')
		l.readRune()
		for unicode.IsDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readRune()
		}
	}
	return sb.String(), nil
}

// parseNumberLiteral converts a lexed NUMBER token's literal text into
// its float64 value. spec.md §3 has exactly one numeric kind, so there
// is no separate integer-literal parsing path. The lexer only ever
// feeds this digits and at most one '.', so strconv should never
// actually fail; errors.Wrap keeps the underlying *strconv.NumError
// attached in case that assumption is ever wrong.
func parseNumberLiteral(lit string) (float64, error) {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing number literal %q", lit)
	}
	return f, nil
}

// readString scans a double-quoted string literal starting at the
// opening quote, handling escapes and {name} interpolation. It returns
// a plain STRING token when there is no interpolation, carrying the
// segment list only when splicing is required.
func (l *lexer) readString(line int) (Token, error) {
	l.readRune() // consume opening quote

	var segments []StringSegment
	var current strings.Builder

	flushLiteral := func() {
		if current.Len() > 0 {
			segments = append(segments, StringSegment{Text: current.String()})
			current.Reset()
		}
	}

	for {
		switch l.ch {
		case 0:
			return Token{}, newSyntaxError(line, "unterminated string literal")
		case '"':
			l.readRune()
			if len(segments) == 0 {
				return Token{Type: tokenString, Literal: current.String(), Line: line}, nil
			}
			flushLiteral()
			return Token{Type: tokenString, Segments: segments, Line: line}, nil
		case '\\':
			l.readRune()
			switch l.ch {
			case '"':
				current.WriteByte('"')
			case '\\':
				current.WriteByte('\\')
			case 'n':
				current.WriteByte('\n')
			case 't':
				current.WriteByte('\t')
			case '{':
				current.WriteByte('{')
			case '}':
				current.WriteByte('}')
			case 0:
				return Token{}, newSyntaxError(line, "unterminated string literal")
			default:
				return Token{}, newSyntaxError(line, "unknown escape sequence '\\%c'", l.ch)
			}
			l.readRune()
		case '{':
			name, err := l.readInterpolation(line)
			if err != nil {
				return Token{}, err
			}
			flushLiteral()
			segments = append(segments, StringSegment{IsVar: true, VarRef: name})
		default:
			current.WriteRune(l.ch)
			l.readRune()
		}
	}
}

// readInterpolation consumes "{name}" (the leading '{' is current) and
// returns the enclosed identifier.
func (l *lexer) readInterpolation(line int) (string, error) {
	l.readRune() // consume '{'
	if l.ch == '}' {
		return "", newSyntaxError(line, "empty string interpolation '{}'")
	}
	if !isIdentStart(l.ch) {
		return "", newSyntaxError(line, "string interpolation must contain a single identifier")
	}
	name := l.readIdentifier()
	if l.ch != '}' {
		return "", newSyntaxError(line, "missing '}' to close string interpolation '{%s'", name)
	}
	l.readRune() // consume '}'
	return name, nil
}
