package ast

func writeVisibility(w Writer, v Visibility) {
	switch v {
	case VisibilityPub:
		w.Str("pub ")
	case VisibilityPubCrate:
		w.Str("pub(crate) ")
	}
}

func writeModifiers(w Writer, mods []Modifier) {
	for _, m := range mods {
		w.Str(string(m))
		w.Char(' ')
	}
}

func writeGenerics(w Writer, g *GenericParams) {
	if g != nil {
		g.WriteCairo(w)
	}
}

func writeItems(w Writer, items []Item) {
	for i, item := range items {
		if i > 0 {
			w.Newline()
		}
		item.WriteCairo(w)
		w.Newline()
	}
}

func writeBody(w Writer, body *ItemBody) {
	if body == nil {
		w.Char(';')
		return
	}
	w.Char(' ')
	Braced(w, func() { writeItems(w, body.Items) })
}

func (f *File) WriteCairo(w Writer) {
	writeItems(w, f.Items)
}

func (a Attribute) WriteCairo(w Writer) {
	w.Str("#[")
	a.Path.WriteCairo(w)
	if a.Args != nil {
		ParenthesizedCSV(w, a.Args.Args)
	}
	w.Char(']')
}

func (a Arg) WriteCairo(w Writer) {
	writeModifiers(w, a.Modifiers)
	if a.Name != nil {
		w.Str(*a.Name)
		w.Str(": ")
	}
	a.Value.WriteCairo(w)
}

// Items

func (s *Struct) WriteCairo(w Writer) {
	OnePerLine(w, s.Attributes)
	writeVisibility(w, s.Visibility)
	w.Str("struct ")
	w.Str(s.Name)
	writeGenerics(w, s.Generics)
	w.Char(' ')
	Braced(w, func() { Fields(w, s.Members) })
}

func (m Member) WriteCairo(w Writer) {
	OnePerLine(w, m.Attributes)
	writeVisibility(w, m.Visibility)
	w.Str(m.Name)
	w.Str(": ")
	m.Type.WriteCairo(w)
}

func (e *Enum) WriteCairo(w Writer) {
	OnePerLine(w, e.Attributes)
	writeVisibility(w, e.Visibility)
	w.Str("enum ")
	w.Str(e.Name)
	writeGenerics(w, e.Generics)
	w.Char(' ')
	Braced(w, func() { Fields(w, e.Variants) })
}

func (v Variant) WriteCairo(w Writer) {
	OnePerLine(w, v.Attributes)
	w.Str(v.Name)
	if v.Type != nil {
		w.Str(": ")
		v.Type.WriteCairo(w)
	}
}

func (m *Module) WriteCairo(w Writer) {
	OnePerLine(w, m.Attributes)
	writeVisibility(w, m.Visibility)
	w.Str("mod ")
	w.Str(m.Name)
	writeBody(w, m.Body)
}

func (u *Use) WriteCairo(w Writer) {
	OnePerLine(w, u.Attributes)
	writeVisibility(w, u.Visibility)
	w.Str("use ")
	u.Tree.WriteCairo(w)
	w.Char(';')
}

func (u *UseLeaf) WriteCairo(w Writer) {
	w.Str(u.Name)
	if u.Alias != nil {
		w.Str(" as ")
		w.Str(*u.Alias)
	}
}

func (u *UseSingle) WriteCairo(w Writer) {
	w.Str(u.Name)
	w.Str("::")
	u.Rest.WriteCairo(w)
}

func (u *UseMulti) WriteCairo(w Writer) {
	BracedCSV(w, u.Trees)
}

func (*UseStar) WriteCairo(w Writer) {
	w.Char('*')
}

func (d FunctionDeclaration) WriteCairo(w Writer) {
	w.Str("fn ")
	w.Str(d.Name)
	writeGenerics(w, d.Generics)
	d.Signature.WriteCairo(w)
}

func (s Signature) WriteCairo(w Writer) {
	ParenthesizedCSV(w, s.Params)
	if s.Return != nil {
		w.Str(" -> ")
		s.Return.WriteCairo(w)
	}
	if s.Implicits != nil {
		w.Str(" implicits")
		ParenthesizedCSV(w, s.Implicits.Paths)
	}
	if s.NoPanic {
		w.Str(" nopanic")
	}
}

func (p Param) WriteCairo(w Writer) {
	writeModifiers(w, p.Modifiers)
	w.Str(p.Name)
	if p.Type != nil {
		w.Str(": ")
		p.Type.WriteCairo(w)
	}
}

func (f *Function) WriteCairo(w Writer) {
	OnePerLine(w, f.Attributes)
	writeVisibility(w, f.Visibility)
	f.Declaration.WriteCairo(w)
	w.Char(' ')
	f.Body.WriteCairo(w)
}

func (f *ExternFunction) WriteCairo(w Writer) {
	OnePerLine(w, f.Attributes)
	writeVisibility(w, f.Visibility)
	w.Str("extern ")
	f.Declaration.WriteCairo(w)
	w.Char(';')
}

func (t *ExternType) WriteCairo(w Writer) {
	OnePerLine(w, t.Attributes)
	writeVisibility(w, t.Visibility)
	w.Str("extern type ")
	w.Str(t.Name)
	writeGenerics(w, t.Generics)
	w.Char(';')
}

func (t *Trait) WriteCairo(w Writer) {
	OnePerLine(w, t.Attributes)
	writeVisibility(w, t.Visibility)
	w.Str("trait ")
	w.Str(t.Name)
	writeGenerics(w, t.Generics)
	writeBody(w, t.Body)
}

func (f *TraitFunction) WriteCairo(w Writer) {
	OnePerLine(w, f.Attributes)
	f.Declaration.WriteCairo(w)
	if f.Body == nil {
		w.Char(';')
		return
	}
	w.Char(' ')
	f.Body.WriteCairo(w)
}

func (t *TraitType) WriteCairo(w Writer) {
	OnePerLine(w, t.Attributes)
	w.Str("type ")
	w.Str(t.Name)
	writeGenerics(w, t.Generics)
	w.Char(';')
}

func (c *TraitConstant) WriteCairo(w Writer) {
	OnePerLine(w, c.Attributes)
	w.Str("const ")
	w.Str(c.Name)
	w.Str(": ")
	c.Type.WriteCairo(w)
	w.Char(';')
}

func (i *Impl) WriteCairo(w Writer) {
	OnePerLine(w, i.Attributes)
	writeVisibility(w, i.Visibility)
	w.Str("impl ")
	w.Str(i.Name)
	writeGenerics(w, i.Generics)
	w.Str(" of ")
	i.Trait.WriteCairo(w)
	writeBody(w, i.Body)
}

func (i *ImplAlias) WriteCairo(w Writer) {
	OnePerLine(w, i.Attributes)
	writeVisibility(w, i.Visibility)
	w.Str("impl ")
	w.Str(i.Name)
	writeGenerics(w, i.Generics)
	w.Str(" = ")
	i.Impl.WriteCairo(w)
	w.Char(';')
}

func (t *TypeAlias) WriteCairo(w Writer) {
	OnePerLine(w, t.Attributes)
	writeVisibility(w, t.Visibility)
	w.Str("type ")
	w.Str(t.Name)
	writeGenerics(w, t.Generics)
	w.Str(" = ")
	t.Type.WriteCairo(w)
	w.Char(';')
}

func (c *Constant) WriteCairo(w Writer) {
	OnePerLine(w, c.Attributes)
	writeVisibility(w, c.Visibility)
	w.Str("const ")
	w.Str(c.Name)
	w.Str(": ")
	c.Type.WriteCairo(w)
	w.Str(" = ")
	c.Value.WriteCairo(w)
	w.Char(';')
}

func (m *InlineMacroItem) WriteCairo(w Writer) {
	OnePerLine(w, m.Attributes)
	m.Macro.WriteCairo(w)
	if m.Macro.Delimiter != Braces {
		w.Char(';')
	}
}

func (m *MacroDeclaration) WriteCairo(w Writer) {
	OnePerLine(w, m.Attributes)
	writeVisibility(w, m.Visibility)
	w.Str("macro ")
	w.Str(m.Name)
	w.Char(' ')
	Braced(w, func() { TerminateEach(w, m.Rules, "") })
}

func (r MacroRule) WriteCairo(w Writer) {
	r.Pattern.WriteCairo(w)
	w.Str(" => ")
	r.Expansion.WriteCairo(w)
	w.Char(';')
	w.Newline()
}

func (t *TokenTree) WriteCairo(w Writer) {
	w.Char(t.Delimiter.Open())
	for i, e := range t.Elements {
		if i > 0 && t.spaced(i) {
			w.Char(' ')
		}
		if e.Tree != nil {
			e.Tree.WriteCairo(w)
		} else {
			w.Str(e.Token)
		}
	}
	w.Char(t.Delimiter.Close())
}

// spaced reports whether a space goes before element i. Placeholders
// stay glued: `$x`, `$x:expr`, `$(...)`.
func (t *TokenTree) spaced(i int) bool {
	tok := func(j int) string {
		if j < 0 || j >= len(t.Elements) || t.Elements[j].Tree != nil {
			return ""
		}
		return t.Elements[j].Token
	}
	switch {
	case tok(i-1) == "$":
		return false
	case tok(i) == "," || tok(i) == ";":
		return false
	case tok(i) == ":" && tok(i-2) == "$":
		return false
	case tok(i-1) == ":" && tok(i-3) == "$":
		return false
	}
	return true
}

// Generic parameters

func (g *GenericParams) WriteCairo(w Writer) {
	AngledCSV(w, g.Params)
}

func (g *GenericType) WriteCairo(w Writer) {
	w.Str(g.Name)
}

func (g *GenericConst) WriteCairo(w Writer) {
	w.Str("const ")
	w.Str(g.Name)
	w.Str(": ")
	g.Type.WriteCairo(w)
}

func (g *GenericImplNamed) WriteCairo(w Writer) {
	w.Str("impl ")
	w.Str(g.Name)
	w.Str(": ")
	g.Trait.WriteCairo(w)
}

func (g *GenericImplAnonymous) WriteCairo(w Writer) {
	Prefixed(w, "+", g.Trait)
}

func (g *GenericNegativeImpl) WriteCairo(w Writer) {
	Prefixed(w, "-", g.Trait)
}

// Expressions

func (p *Path) WriteCairo(w Writer) {
	Join(w, p.Segments, "::")
}

func (s PathSegment) WriteCairo(w Writer) {
	w.Str(s.Name)
	if s.GenericArgs != nil {
		s.GenericArgs.WriteCairo(w)
	}
}

func (g *GenericArgs) WriteCairo(w Writer) {
	if g.ColonColon {
		w.Str("::")
	}
	AngledCSV(w, g.Args)
}

func (n *Number) WriteCairo(w Writer)      { w.Str(n.Text) }
func (s *ShortString) WriteCairo(w Writer) { w.Str(s.Text) }
func (s *String) WriteCairo(w Writer)      { w.Str(s.Text) }

func (p *Parenthesized) WriteCairo(w Writer) {
	Wrapped(w, Parens, p.Expr)
}

func (t *Tuple) WriteCairo(w Writer) {
	if len(t.Elements) == 1 {
		WrappedWith(w, "(", t.Elements[0], ",)")
		return
	}
	ParenthesizedCSV(w, t.Elements)
}

func (u *Unary) WriteCairo(w Writer) {
	Prefixed(w, u.Op, u.Expr)
}

// Tight operators print without surrounding spaces.
func tightOperator(op string) bool {
	return op == "." || op == ".." || op == "..="
}

func (b *Binary) WriteCairo(w Writer) {
	b.LHS.WriteCairo(w)
	if tightOperator(b.Op) {
		w.Str(b.Op)
	} else {
		w.Char(' ')
		w.Str(b.Op)
		w.Char(' ')
	}
	b.RHS.WriteCairo(w)
}

func (c *FunctionCall) WriteCairo(w Writer) {
	c.Path.WriteCairo(w)
	ParenthesizedCSV(w, c.Args)
}

func (c *StructCtor) WriteCairo(w Writer) {
	c.Path.WriteCairo(w)
	if len(c.Fields) == 0 && c.Base == nil {
		w.Str(" {}")
		return
	}
	w.Str(" { ")
	Join(w, c.Fields, ", ")
	if c.Base != nil {
		if len(c.Fields) > 0 {
			w.Str(", ")
		}
		Prefixed(w, "..", c.Base)
	}
	w.Str(" }")
}

func (a StructArg) WriteCairo(w Writer) {
	w.Str(a.Name)
	if a.Value != nil {
		w.Str(": ")
		a.Value.WriteCairo(w)
	}
}

func (b *Block) WriteCairo(w Writer) {
	Braced(w, func() { BlockOf(w, b.Statements) })
}

func (i *If) WriteCairo(w Writer) {
	w.Str("if ")
	i.Condition.WriteCairo(w)
	w.Char(' ')
	i.Then.WriteCairo(w)
	if i.Else != nil {
		Prefixed(w, " else ", i.Else)
	}
}

func (c *CondExpr) WriteCairo(w Writer) {
	c.Expr.WriteCairo(w)
}

func (c *CondLet) WriteCairo(w Writer) {
	w.Str("let ")
	Join(w, c.Patterns, " | ")
	Prefixed(w, " = ", c.Expr)
}

func (m *Match) WriteCairo(w Writer) {
	Prefixed(w, "match ", m.Expr)
	w.Char(' ')
	Braced(w, func() { Fields(w, m.Arms) })
}

func (a MatchArm) WriteCairo(w Writer) {
	Join(w, a.Patterns, " | ")
	Prefixed(w, " => ", a.Body)
}

func (l *Loop) WriteCairo(w Writer) {
	Prefixed(w, "loop ", l.Body)
}

func (l *While) WriteCairo(w Writer) {
	Prefixed(w, "while ", l.Condition)
	Prefixed(w, " ", l.Body)
}

func (f *For) WriteCairo(w Writer) {
	Prefixed(w, "for ", f.Pattern)
	Prefixed(w, " in ", f.Iter)
	Prefixed(w, " ", f.Body)
}

func (c *Closure) WriteCairo(w Writer) {
	if len(c.Params) == 0 {
		w.Str("||")
	} else {
		BarredCSV(w, c.Params)
	}
	if c.Return != nil {
		Prefixed(w, " -> ", c.Return)
	}
	Prefixed(w, " ", c.Body)
}

func (e *ErrorPropagate) WriteCairo(w Writer) {
	Suffixed(w, e.Expr, "?")
}

func (i *Indexed) WriteCairo(w Writer) {
	i.Expr.WriteCairo(w)
	Wrapped(w, Brackets, i.Index)
}

func (m *InlineMacro) WriteCairo(w Writer) {
	w.Str(m.Name)
	w.Char('!')
	CSV(w, m.Delimiter, m.Args)
}

func (a *FixedSizeArray) WriteCairo(w Writer) {
	if a.Size != nil {
		w.Char('[')
		Join(w, a.Elements, ", ")
		Prefixed(w, "; ", a.Size)
		w.Char(']')
		return
	}
	BracketedCSV(w, a.Elements)
}

// Statements

func (l *Let) WriteCairo(w Writer) {
	OnePerLine(w, l.Attributes)
	Prefixed(w, "let ", l.Pattern)
	if l.Type != nil {
		Prefixed(w, ": ", l.Type)
	}
	Prefixed(w, " = ", l.Value)
	if l.Else != nil {
		Prefixed(w, " else ", l.Else)
	}
	w.Char(';')
}

func (s *ExprStatement) WriteCairo(w Writer) {
	OnePerLine(w, s.Attributes)
	s.Expr.WriteCairo(w)
	if s.Semicolon {
		w.Char(';')
	}
}

func (c *Continue) WriteCairo(w Writer) {
	OnePerLine(w, c.Attributes)
	w.Str("continue;")
}

func (r *Return) WriteCairo(w Writer) {
	OnePerLine(w, r.Attributes)
	w.Str("return")
	if r.Expr != nil {
		Prefixed(w, " ", r.Expr)
	}
	w.Char(';')
}

func (b *Break) WriteCairo(w Writer) {
	OnePerLine(w, b.Attributes)
	w.Str("break")
	if b.Expr != nil {
		Prefixed(w, " ", b.Expr)
	}
	w.Char(';')
}

func (s *ItemStatement) WriteCairo(w Writer) {
	s.Item.WriteCairo(w)
}

// Patterns

func (*PatternUnderscore) WriteCairo(w Writer) {
	w.Char('_')
}

func (p *PatternLiteral) WriteCairo(w Writer) {
	p.Literal.WriteCairo(w)
}

func (p *PatternIdentifier) WriteCairo(w Writer) {
	writeModifiers(w, p.Modifiers)
	w.Str(p.Name)
}

func (p *PatternStruct) WriteCairo(w Writer) {
	p.Path.WriteCairo(w)
	if len(p.Params) == 0 && !p.Rest {
		w.Str(" {}")
		return
	}
	w.Str(" { ")
	Join(w, p.Params, ", ")
	if p.Rest {
		if len(p.Params) > 0 {
			w.Str(", ")
		}
		w.Str("..")
	}
	w.Str(" }")
}

func (p PatternStructParam) WriteCairo(w Writer) {
	writeModifiers(w, p.Modifiers)
	w.Str(p.Name)
	if p.Pattern != nil {
		Prefixed(w, ": ", p.Pattern)
	}
}

func (p *PatternTuple) WriteCairo(w Writer) {
	if len(p.Elements) == 1 {
		WrappedWith(w, "(", p.Elements[0], ",)")
		return
	}
	ParenthesizedCSV(w, p.Elements)
}

func (p *PatternFixedSizeArray) WriteCairo(w Writer) {
	BracketedCSV(w, p.Elements)
}

func (p *PatternEnum) WriteCairo(w Writer) {
	p.Path.WriteCairo(w)
	if p.Inner != nil {
		Wrapped(w, Parens, p.Inner)
	}
}
