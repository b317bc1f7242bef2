package ast

import "strings"

// Writer receives printed Cairo. Newline starts a new line indented to the
// current depth.
type Writer interface {
	Str(s string)
	Char(c byte)
	Newline()
	Indent()
	Dedent()
}

const indentUnit = "    "

// Printer writes into a string buffer.
type Printer struct {
	b       strings.Builder
	depth   int
	pending bool
}

// NewPrinter returns a printer with room for size bytes.
func NewPrinter(size int) *Printer {
	p := &Printer{}
	p.b.Grow(size)
	return p
}

func (p *Printer) flush() {
	if p.pending {
		for i := 0; i < p.depth; i++ {
			p.b.WriteString(indentUnit)
		}
		p.pending = false
	}
}

func (p *Printer) Str(s string) {
	if s == "" {
		return
	}
	p.flush()
	p.b.WriteString(s)
}

func (p *Printer) Char(c byte) {
	p.flush()
	p.b.WriteByte(c)
}

func (p *Printer) Newline() {
	p.b.WriteByte('\n')
	p.pending = true
}

func (p *Printer) Indent() { p.depth++ }

func (p *Printer) Dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) String() string {
	return p.b.String()
}

func (p *Printer) Len() int {
	return p.b.Len()
}

// counter is the null writer behind SizeHint.
type counter struct {
	n       int
	depth   int
	pending bool
}

func (c *counter) flush() {
	if c.pending {
		c.n += c.depth * len(indentUnit)
		c.pending = false
	}
}

func (c *counter) Str(s string) {
	if s == "" {
		return
	}
	c.flush()
	c.n += len(s)
}

func (c *counter) Char(byte) {
	c.flush()
	c.n++
}

func (c *counter) Newline() {
	c.n++
	c.pending = true
}

func (c *counter) Indent() { c.depth++ }

func (c *counter) Dedent() {
	if c.depth > 0 {
		c.depth--
	}
}

// SizeHint is the exact length of n's printed form.
func SizeHint(n Node) int {
	var c counter
	n.WriteCairo(&c)
	return c.n
}

// ToCairo prints n into a buffer allocated once.
func ToCairo(n Node) string {
	p := NewPrinter(SizeHint(n))
	n.WriteCairo(p)
	return p.String()
}

// Delimiter is a pair of wrapping characters.
type Delimiter uint8

const (
	Parens Delimiter = iota
	Braces
	Brackets
	Angles
	Bars
)

func (d Delimiter) Open() byte {
	return "({[<|"[d]
}

func (d Delimiter) Close() byte {
	return ")}]>|"[d]
}

// Decorators

// Prefixed writes prefix then n.
func Prefixed(w Writer, prefix string, n Node) {
	w.Str(prefix)
	n.WriteCairo(w)
}

// Suffixed writes n then suffix.
func Suffixed(w Writer, n Node, suffix string) {
	n.WriteCairo(w)
	w.Str(suffix)
}

// Wrapped writes n between the delimiter pair.
func Wrapped(w Writer, d Delimiter, n Node) {
	w.Char(d.Open())
	n.WriteCairo(w)
	w.Char(d.Close())
}

// WrappedWith writes n between arbitrary open and close strings.
func WrappedWith(w Writer, open string, n Node, close string) {
	w.Str(open)
	n.WriteCairo(w)
	w.Str(close)
}

// Collections

// Join writes items separated by sep.
func Join[T Node](w Writer, items []T, sep string) {
	for i, item := range items {
		if i > 0 {
			w.Str(sep)
		}
		item.WriteCairo(w)
	}
}

// TerminateEach writes every item followed by term.
func TerminateEach[T Node](w Writer, items []T, term string) {
	for _, item := range items {
		item.WriteCairo(w)
		w.Str(term)
	}
}

// OnePerLine writes every item followed by a newline.
func OnePerLine[T Node](w Writer, items []T) {
	for _, item := range items {
		item.WriteCairo(w)
		w.Newline()
	}
}

// CSV writes items comma separated inside d.
func CSV[T Node](w Writer, d Delimiter, items []T) {
	w.Char(d.Open())
	Join(w, items, ", ")
	w.Char(d.Close())
}

func ParenthesizedCSV[T Node](w Writer, items []T) { CSV(w, Parens, items) }
func BracedCSV[T Node](w Writer, items []T)       { CSV(w, Braces, items) }
func BracketedCSV[T Node](w Writer, items []T)    { CSV(w, Brackets, items) }
func AngledCSV[T Node](w Writer, items []T)       { CSV(w, Angles, items) }
func BarredCSV[T Node](w Writer, items []T)       { CSV(w, Bars, items) }

// ArrayMacro writes array![a, b].
func ArrayMacro[T Node](w Writer, items []T) {
	w.Str("array!")
	CSV(w, Brackets, items)
}

// SpanLiteral writes [a, b].span().
func SpanLiteral[T Node](w Writer, items []T) {
	CSV(w, Brackets, items)
	w.Str(".span()")
}

// Fields writes each item followed by a comma and a newline.
func Fields[T Node](w Writer, items []T) {
	for _, item := range items {
		item.WriteCairo(w)
		w.Char(',')
		w.Newline()
	}
}

// BlockOf writes items on separate lines with a trailing newline; nothing
// when empty.
func BlockOf[T Node](w Writer, items []T) {
	OnePerLine(w, items)
}

// Braced writes `{`, an indented body and `}`.
func Braced(w Writer, body func()) {
	w.Char('{')
	w.Indent()
	w.Newline()
	body()
	w.Dedent()
	w.Char('}')
}

// Raw is literal Cairo text.
type Raw string

func (r Raw) WriteCairo(w Writer) {
	w.Str(string(r))
}

// Func adapts a closure to Node.
type Func func(w Writer)

func (f Func) WriteCairo(w Writer) {
	f(w)
}
