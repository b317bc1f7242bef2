package syntax

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Node is a concrete syntax tree node. Terminals carry Token; every other
// kind has the positional children documented on its Kind.
type Node struct {
	Kind     Kind
	Token    *Token
	Children []*Node
}

// Child returns the i-th child.
func (n *Node) Child(i int) *Node {
	return n.Children[i]
}

// Text is the token text of a terminal.
func (n *Node) Text() string {
	if n.Token == nil {
		return ""
	}
	return n.Token.Text
}

// Span covers the node's tokens; zero for empty optional slots.
func (n *Node) Span() Span {
	if n.Token != nil {
		return n.Token.Span
	}
	var span Span
	first := true
	for _, c := range n.Children {
		s := c.Span()
		if s == (Span{}) {
			continue
		}
		if first {
			span, first = s, false
			continue
		}
		span.End = s.End
	}
	return span
}

type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one parser finding.
type Diagnostic struct {
	Severity Severity
	Span     Span
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at %d..%d: %s", d.Severity, d.Span.Start, d.Span.End, d.Message)
}

// SyntaxError bundles the error diagnostics of a failed parse.
type SyntaxError struct {
	Diagnostics []Diagnostic
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString("parsing failed")
	for _, d := range e.Diagnostics {
		b.WriteString("\n  ")
		b.WriteString(d.String())
	}
	return b.String()
}

// DB parses token streams and keeps the diagnostics they produced. It is
// not safe for concurrent use; each macro invocation gets its own.
type DB struct {
	diagnostics []Diagnostic
}

func NewDB() *DB {
	return &DB{}
}

func (db *DB) Diagnostics() []Diagnostic {
	return db.diagnostics
}

// Err returns a *SyntaxError when any error diagnostic was reported.
func (db *DB) Err() error {
	var errs []Diagnostic
	for _, d := range db.diagnostics {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &SyntaxError{Diagnostics: errs}
}

func (db *DB) report(d Diagnostic) {
	db.diagnostics = append(db.diagnostics, d)
}

// Report records a diagnostic found outside the parser, typically by a
// later lowering pass.
func (db *DB) Report(d Diagnostic) {
	db.report(d)
}

// ParseFile parses a sequence of items. On failure it returns nil and the
// diagnostics describe why.
func (db *DB) ParseFile(ts *TokenStream) *Node {
	return db.run(ts, func(p *parser) *Node {
		items := p.items(TokenEOF, "")
		return node(SyntaxFile, items)
	})
}

// ParseItem parses exactly one item, the shape macro bodies arrive in.
func (db *DB) ParseItem(ts *TokenStream) *Node {
	return db.run(ts, func(p *parser) *Node {
		return p.item()
	})
}

// ParseExpr parses exactly one expression.
func (db *DB) ParseExpr(ts *TokenStream) *Node {
	return db.run(ts, func(p *parser) *Node {
		return p.expr()
	})
}

// ParseType parses exactly one type expression, where `<` opens generic
// arguments.
func (db *DB) ParseType(ts *TokenStream) *Node {
	return db.run(ts, func(p *parser) *Node {
		return p.typeExpr()
	})
}

// ParseArgs parses a comma separated argument list, as found inside an
// attribute or inline macro invocation.
func (db *DB) ParseArgs(ts *TokenStream) *Node {
	return db.run(ts, func(p *parser) *Node {
		return p.argList(TokenEOF, "")
	})
}

// ParseString lexes and parses src as a file, folding lexer errors into
// the diagnostics.
func (db *DB) ParseString(src string) *Node {
	ts, err := FromString(src)
	if err != nil {
		db.report(Diagnostic{Message: err.Error()})
		return nil
	}
	return db.ParseFile(ts)
}

type bailout struct{}

func (db *DB) run(ts *TokenStream, parse func(*parser) *Node) (root *Node) {
	p := &parser{db: db, toks: ts.tokens}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			root = nil
		}
	}()
	root = parse(p)
	if !p.at(TokenEOF, "") {
		p.fail("unexpected %q after end of input", p.peek().Text)
	}
	return root
}

// Parse parses src as a file and returns the syntax error, if any.
func Parse(src string) (*Node, error) {
	db := NewDB()
	root := db.ParseString(src)
	if err := db.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return root, nil
}
