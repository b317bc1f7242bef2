// Package syntax is the Cairo parser host: it turns source text into a
// TokenStream, parses token streams into a typed concrete syntax tree and
// collects diagnostics in a DB.
package syntax

import (
	"strings"

	"github.com/cockroachdb/errors"
)

type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenNumber
	TokenShortString
	TokenString
	TokenPunct
)

var tokenKindNames = [...]string{
	TokenEOF:         "EOF",
	TokenIdent:       "identifier",
	TokenNumber:      "number",
	TokenShortString: "short string",
	TokenString:      "string",
	TokenPunct:       "punctuation",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "unknown"
}

// Span is a byte range in the source a stream was lexed from.
type Span struct {
	Start int
	End   int
}

// Token is one lexeme. Trivia holds the whitespace and comments that
// precede it.
type Token struct {
	Kind   TokenKind
	Text   string
	Span   Span
	Trivia string
}

func (t Token) Is(text string) bool {
	return t.Kind != TokenString && t.Kind != TokenShortString && t.Text == text
}

// TokenStream is an ordered sequence of tokens. String() reproduces the
// text it was built from byte for byte.
type TokenStream struct {
	tokens   []Token
	trailing string
}

// FromString lexes src.
func FromString(src string) (*TokenStream, error) {
	l := lexer{src: src}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenEOF {
			return &TokenStream{tokens: l.tokens, trailing: tok.Trivia}, nil
		}
		l.tokens = append(l.tokens, tok)
	}
}

// MustFromString is FromString for trusted generated text.
func MustFromString(src string) *TokenStream {
	ts, err := FromString(src)
	if err != nil {
		panic(err)
	}
	return ts
}

// FromIdent builds a single-identifier stream.
func FromIdent(name string) *TokenStream {
	return &TokenStream{tokens: []Token{{Kind: TokenIdent, Text: name, Span: Span{End: len(name)}}}}
}

func (ts *TokenStream) Tokens() []Token {
	return ts.tokens
}

func (ts *TokenStream) Len() int {
	return len(ts.tokens)
}

func (ts *TokenStream) IsEmpty() bool {
	return len(ts.tokens) == 0
}

// Concat appends other after ts, separated by a newline.
func (ts *TokenStream) Concat(other *TokenStream) *TokenStream {
	return MustFromString(ts.String() + "\n" + other.String())
}

func (ts *TokenStream) String() string {
	var b strings.Builder
	for _, t := range ts.tokens {
		b.WriteString(t.Trivia)
		b.WriteString(t.Text)
	}
	b.WriteString(ts.trailing)
	return b.String()
}

var puncts = []string{
	"..=", "::", "->", "=>", "==", "!=", "<=", ">=", "&&", "||", "..",
	"+=", "-=", "*=", "/=", "%=",
}

const singlePuncts = "+-*/%<>=!&|^~@#$?.,;:()[]{}"

type lexer struct {
	src    string
	pos    int
	tokens []Token
}

func (l *lexer) errorf(format string, args ...any) error {
	line := strings.Count(l.src[:l.pos], "\n") + 1
	return errors.Newf("%d:%d: "+format, append([]any{line, l.column()}, args...)...)
}

func (l *lexer) column() int {
	return l.pos - strings.LastIndexByte(l.src[:l.pos], '\n')
}

func (l *lexer) trivia() string {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case strings.HasPrefix(l.src[l.pos:], "//"):
			end := strings.IndexByte(l.src[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.src)
			} else {
				l.pos += end
			}
		default:
			return l.src[start:l.pos]
		}
	}
	return l.src[start:l.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (l *lexer) next() (Token, error) {
	trivia := l.trivia()
	start := l.pos
	tok := Token{Trivia: trivia}
	if l.pos >= len(l.src) {
		tok.Kind = TokenEOF
		tok.Span = Span{start, start}
		return tok, nil
	}

	c := l.src[l.pos]
	switch {
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
			l.pos++
		}
		tok.Kind = TokenIdent
	case c >= '0' && c <= '9':
		for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
			l.pos++
		}
		tok.Kind = TokenNumber
	case c == '\'' || c == '"':
		if err := l.quoted(c); err != nil {
			return tok, err
		}
		tok.Kind = TokenString
		if c == '\'' {
			tok.Kind = TokenShortString
			// optional type suffix: 'abc'_u128
			if l.pos < len(l.src) && l.src[l.pos] == '_' {
				for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
					l.pos++
				}
			}
		}
	default:
		tok.Kind = TokenPunct
		matched := false
		for _, p := range puncts {
			if strings.HasPrefix(l.src[l.pos:], p) {
				l.pos += len(p)
				matched = true
				break
			}
		}
		if !matched {
			if strings.IndexByte(singlePuncts, c) < 0 {
				return tok, l.errorf("unexpected character %q", c)
			}
			l.pos++
		}
	}
	tok.Text = l.src[start:l.pos]
	tok.Span = Span{start, l.pos}
	return tok, nil
}

func (l *lexer) quoted(quote byte) error {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
		case quote:
			l.pos++
			return nil
		case '\n':
			if quote == '\'' {
				l.pos = start
				return l.errorf("unterminated short string")
			}
			l.pos++
		default:
			l.pos++
		}
	}
	l.pos = start
	return l.errorf("unterminated string")
}
