package ast

import (
	"fmt"

	"github.com/cartridge-gg/introspect/syntax"
)

// converter lowers syntax nodes. The first unexpected node is reported to
// the DB and aborts the conversion.
type converter struct {
	db  *syntax.DB
	err error
}

func (c *converter) unexpected(n *syntax.Node, want string) {
	if c.err != nil {
		return
	}
	msg := fmt.Sprintf("unexpected syntax node %d, expected %s", n.Kind, want)
	c.db.Report(syntax.Diagnostic{Severity: syntax.SeverityError, Span: n.Span(), Message: msg})
	c.err = &syntax.SyntaxError{Diagnostics: []syntax.Diagnostic{{Span: n.Span(), Message: msg}}}
}

func convertAll[T any](c *converter, n *syntax.Node, conv func(*syntax.Node) T) []T {
	if len(n.Children) == 0 {
		return nil
	}
	out := make([]T, len(n.Children))
	for i, child := range n.Children {
		out[i] = conv(child)
	}
	return out
}

// FromSyntax converts any syntax node that has an AST counterpart.
func FromSyntax(db *syntax.DB, n *syntax.Node) (Node, error) {
	c := &converter{db: db}
	var out Node
	switch {
	case n.Kind == syntax.SyntaxFile:
		out = c.file(n)
	case isItemKind(n.Kind):
		out = c.item(n)
	case isPatternKind(n.Kind):
		out = c.pattern(n)
	case isStatementKind(n.Kind):
		out = c.statement(n)
	default:
		out = c.expr(n)
	}
	if c.err != nil {
		return nil, c.err
	}
	return out, nil
}

// FileFromSyntax converts a SyntaxFile root.
func FileFromSyntax(db *syntax.DB, n *syntax.Node) (*File, error) {
	c := &converter{db: db}
	f := c.file(n)
	return f, c.err
}

// ItemFromSyntax converts an item node.
func ItemFromSyntax(db *syntax.DB, n *syntax.Node) (Item, error) {
	c := &converter{db: db}
	item := c.item(n)
	return item, c.err
}

// ExprFromSyntax converts an expression node.
func ExprFromSyntax(db *syntax.DB, n *syntax.Node) (Expr, error) {
	c := &converter{db: db}
	e := c.expr(n)
	return e, c.err
}

// ArgsFromSyntax converts an ArgList node.
func ArgsFromSyntax(db *syntax.DB, n *syntax.Node) ([]Arg, error) {
	c := &converter{db: db}
	args := c.args(n)
	return args, c.err
}

func isItemKind(k syntax.Kind) bool {
	switch k {
	case syntax.ItemStruct, syntax.ItemEnum, syntax.ItemModule, syntax.ItemUse,
		syntax.ItemFunction, syntax.ItemExternFunction, syntax.ItemExternType,
		syntax.ItemTrait, syntax.TraitItemFunction, syntax.TraitItemType,
		syntax.TraitItemConstant, syntax.ItemImpl, syntax.ItemImplAlias,
		syntax.ItemTypeAlias, syntax.ItemConstant, syntax.ItemInlineMacro,
		syntax.ItemMacroDeclaration:
		return true
	}
	return false
}

func isPatternKind(k syntax.Kind) bool {
	switch k {
	case syntax.PatternUnderscore, syntax.PatternIdentifier, syntax.PatternStruct,
		syntax.PatternTuple, syntax.PatternFixedSizeArray, syntax.PatternEnum:
		return true
	}
	return false
}

func isStatementKind(k syntax.Kind) bool {
	switch k {
	case syntax.StatementLet, syntax.StatementExpr, syntax.StatementContinue,
		syntax.StatementReturn, syntax.StatementBreak, syntax.StatementItem:
		return true
	}
	return false
}

func (c *converter) file(n *syntax.Node) *File {
	return &File{Items: convertAll(c, n.Child(0), c.item)}
}

func (c *converter) ident(n *syntax.Node) string {
	if n.Kind != syntax.TerminalIdent {
		c.unexpected(n, "identifier")
		return ""
	}
	return n.Text()
}

func (c *converter) visibility(n *syntax.Node) Visibility {
	switch n.Kind {
	case syntax.VisibilityPub:
		return VisibilityPub
	case syntax.VisibilityPubCrate:
		return VisibilityPubCrate
	}
	return VisibilityDefault
}

func (c *converter) modifiers(n *syntax.Node) []Modifier {
	return convertAll(c, n, func(m *syntax.Node) Modifier { return Modifier(m.Text()) })
}

func (c *converter) attributes(n *syntax.Node) []Attribute {
	return convertAll(c, n, func(a *syntax.Node) Attribute {
		attr := Attribute{Path: c.path(a.Child(0))}
		if clause := a.Child(1); clause.Kind == syntax.ArgClause {
			attr.Args = &ArgClause{Args: c.args(clause.Child(0))}
		}
		return attr
	})
}

func (c *converter) args(n *syntax.Node) []Arg {
	return convertAll(c, n, func(a *syntax.Node) Arg {
		arg := Arg{Modifiers: c.modifiers(a.Child(0)), Value: c.expr(a.Child(2))}
		if name := a.Child(1); name.Kind == syntax.TerminalIdent {
			s := name.Text()
			arg.Name = &s
		}
		return arg
	})
}

func (c *converter) generics(n *syntax.Node) *GenericParams {
	if n.Kind == syntax.OptionWrappedGenericParamListEmpty {
		return nil
	}
	return &GenericParams{Params: convertAll(c, n.Child(0), c.genericParam)}
}

func (c *converter) genericParam(n *syntax.Node) GenericParam {
	switch n.Kind {
	case syntax.GenericParamType:
		return &GenericType{Name: c.ident(n.Child(0))}
	case syntax.GenericParamConst:
		return &GenericConst{Name: c.ident(n.Child(0)), Type: c.expr(n.Child(1))}
	case syntax.GenericParamImplNamed:
		return &GenericImplNamed{Name: c.ident(n.Child(0)), Trait: c.path(n.Child(1))}
	case syntax.GenericParamImplAnonymous:
		return &GenericImplAnonymous{Trait: c.path(n.Child(0))}
	case syntax.GenericParamNegativeImpl:
		return &GenericNegativeImpl{Trait: c.path(n.Child(0))}
	}
	c.unexpected(n, "generic parameter")
	return nil
}

func (c *converter) optionalType(n *syntax.Node) Expr {
	if n.Kind == syntax.TypeClause || n.Kind == syntax.ReturnTypeClause {
		return c.expr(n.Child(0))
	}
	return nil
}

func (c *converter) itemBody(n *syntax.Node) *ItemBody {
	switch n.Kind {
	case syntax.ModuleBody, syntax.TraitBody, syntax.ImplBody:
		return &ItemBody{Items: convertAll(c, n.Child(0), c.item)}
	}
	return nil
}

func (c *converter) item(n *syntax.Node) Item {
	ch := n.Children
	switch n.Kind {
	case syntax.ItemStruct:
		return &Struct{
			Attributes: c.attributes(ch[0]),
			Visibility: c.visibility(ch[1]),
			Name:       c.ident(ch[2]),
			Generics:   c.generics(ch[3]),
			Members: convertAll(c, ch[4], func(m *syntax.Node) Member {
				return Member{
					Attributes: c.attributes(m.Child(0)),
					Visibility: c.visibility(m.Child(1)),
					Name:       c.ident(m.Child(2)),
					Type:       c.expr(m.Child(3)),
				}
			}),
		}
	case syntax.ItemEnum:
		return &Enum{
			Attributes: c.attributes(ch[0]),
			Visibility: c.visibility(ch[1]),
			Name:       c.ident(ch[2]),
			Generics:   c.generics(ch[3]),
			Variants: convertAll(c, ch[4], func(v *syntax.Node) Variant {
				return Variant{
					Attributes: c.attributes(v.Child(0)),
					Name:       c.ident(v.Child(1)),
					Type:       c.optionalType(v.Child(2)),
				}
			}),
		}
	case syntax.ItemModule:
		return &Module{
			Attributes: c.attributes(ch[0]),
			Visibility: c.visibility(ch[1]),
			Name:       c.ident(ch[2]),
			Body:       c.itemBody(ch[3]),
		}
	case syntax.ItemUse:
		return &Use{Attributes: c.attributes(ch[0]), Visibility: c.visibility(ch[1]), Tree: c.useTree(ch[2])}
	case syntax.ItemFunction:
		return &Function{
			Attributes:  c.attributes(ch[0]),
			Visibility:  c.visibility(ch[1]),
			Declaration: c.functionDeclaration(ch[2]),
			Body:        c.block(ch[3]),
		}
	case syntax.ItemExternFunction:
		return &ExternFunction{
			Attributes:  c.attributes(ch[0]),
			Visibility:  c.visibility(ch[1]),
			Declaration: c.functionDeclaration(ch[2]),
		}
	case syntax.ItemExternType:
		return &ExternType{
			Attributes: c.attributes(ch[0]),
			Visibility: c.visibility(ch[1]),
			Name:       c.ident(ch[2]),
			Generics:   c.generics(ch[3]),
		}
	case syntax.ItemTrait:
		return &Trait{
			Attributes: c.attributes(ch[0]),
			Visibility: c.visibility(ch[1]),
			Name:       c.ident(ch[2]),
			Generics:   c.generics(ch[3]),
			Body:       c.itemBody(ch[4]),
		}
	case syntax.TraitItemFunction:
		f := &TraitFunction{Attributes: c.attributes(ch[0]), Declaration: c.functionDeclaration(ch[1])}
		if ch[2].Kind == syntax.ExprBlock {
			f.Body = c.block(ch[2])
		}
		return f
	case syntax.TraitItemType:
		return &TraitType{Attributes: c.attributes(ch[0]), Name: c.ident(ch[1]), Generics: c.generics(ch[2])}
	case syntax.TraitItemConstant:
		return &TraitConstant{Attributes: c.attributes(ch[0]), Name: c.ident(ch[1]), Type: c.optionalType(ch[2])}
	case syntax.ItemImpl:
		return &Impl{
			Attributes: c.attributes(ch[0]),
			Visibility: c.visibility(ch[1]),
			Name:       c.ident(ch[2]),
			Generics:   c.generics(ch[3]),
			Trait:      c.path(ch[4]),
			Body:       c.itemBody(ch[5]),
		}
	case syntax.ItemImplAlias:
		return &ImplAlias{
			Attributes: c.attributes(ch[0]),
			Visibility: c.visibility(ch[1]),
			Name:       c.ident(ch[2]),
			Generics:   c.generics(ch[3]),
			Impl:       c.path(ch[4]),
		}
	case syntax.ItemTypeAlias:
		return &TypeAlias{
			Attributes: c.attributes(ch[0]),
			Visibility: c.visibility(ch[1]),
			Name:       c.ident(ch[2]),
			Generics:   c.generics(ch[3]),
			Type:       c.expr(ch[4]),
		}
	case syntax.ItemConstant:
		return &Constant{
			Attributes: c.attributes(ch[0]),
			Visibility: c.visibility(ch[1]),
			Name:       c.ident(ch[2]),
			Type:       c.optionalType(ch[3]),
			Value:      c.expr(ch[4]),
		}
	case syntax.ItemInlineMacro:
		return &InlineMacroItem{Attributes: c.attributes(ch[0]), Macro: c.inlineMacro(ch[1])}
	case syntax.ItemMacroDeclaration:
		return &MacroDeclaration{
			Attributes: c.attributes(ch[0]),
			Visibility: c.visibility(ch[1]),
			Name:       c.ident(ch[2]),
			Rules: convertAll(c, ch[3], func(r *syntax.Node) MacroRule {
				return MacroRule{Pattern: c.tokenTree(r.Child(0)), Expansion: c.tokenTree(r.Child(1))}
			}),
		}
	}
	c.unexpected(n, "item")
	return nil
}

func (c *converter) useTree(n *syntax.Node) UseTree {
	switch n.Kind {
	case syntax.UsePathLeaf:
		leaf := &UseLeaf{Name: c.ident(n.Child(0))}
		if alias := n.Child(1); alias.Kind == syntax.TerminalIdent {
			s := alias.Text()
			leaf.Alias = &s
		}
		return leaf
	case syntax.UsePathSingle:
		return &UseSingle{Name: c.ident(n.Child(0)), Rest: c.useTree(n.Child(1))}
	case syntax.UsePathMulti:
		return &UseMulti{Trees: convertAll(c, n.Child(0), c.useTree)}
	case syntax.UsePathStar:
		return &UseStar{}
	}
	c.unexpected(n, "use tree")
	return nil
}

func (c *converter) functionDeclaration(n *syntax.Node) FunctionDeclaration {
	sig := n.Child(2)
	decl := FunctionDeclaration{
		Name:     c.ident(n.Child(0)),
		Generics: c.generics(n.Child(1)),
		Signature: Signature{
			Params:  c.params(sig.Child(0)),
			Return:  c.optionalType(sig.Child(1)),
			NoPanic: sig.Child(3).Kind == syntax.NoPanic,
		},
	}
	if implicits := sig.Child(2); implicits.Kind == syntax.ImplicitsClause {
		decl.Signature.Implicits = &Implicits{Paths: convertAll(c, implicits.Child(0), c.path)}
	}
	return decl
}

func (c *converter) params(n *syntax.Node) []Param {
	return convertAll(c, n, func(p *syntax.Node) Param {
		return Param{
			Modifiers: c.modifiers(p.Child(0)),
			Name:      c.ident(p.Child(1)),
			Type:      c.optionalType(p.Child(2)),
		}
	})
}

func (c *converter) tokenTree(n *syntax.Node) *TokenTree {
	t := &TokenTree{}
	switch n.Kind {
	case syntax.TokenTreeParenthesized:
		t.Delimiter = Parens
	case syntax.TokenTreeBracketed:
		t.Delimiter = Brackets
	case syntax.TokenTreeBraced:
		t.Delimiter = Braces
	default:
		c.unexpected(n, "token tree")
		return t
	}
	t.Elements = convertAll(c, n, func(e *syntax.Node) TokenTreeElement {
		if e.Kind == syntax.TerminalToken {
			return TokenTreeElement{Token: e.Text()}
		}
		return TokenTreeElement{Tree: c.tokenTree(e)}
	})
	return t
}

// Expressions

func (c *converter) path(n *syntax.Node) *Path {
	if n.Kind != syntax.ExprPath {
		c.unexpected(n, "path")
		return &Path{}
	}
	return &Path{Segments: convertAll(c, n, func(s *syntax.Node) PathSegment {
		seg := PathSegment{Name: c.ident(s.Child(0))}
		if s.Kind == syntax.PathSegmentWithGenericArgs {
			seg.GenericArgs = &GenericArgs{
				ColonColon: s.Child(1).Kind == syntax.TerminalOperator,
				Args:       convertAll(c, s.Child(2).Child(0), c.expr),
			}
		}
		return seg
	})}
}

func (c *converter) block(n *syntax.Node) *Block {
	if n.Kind != syntax.ExprBlock {
		c.unexpected(n, "block")
		return &Block{}
	}
	return &Block{Statements: convertAll(c, n.Child(0), c.statement)}
}

func (c *converter) condition(n *syntax.Node) Condition {
	if n.Kind == syntax.ConditionLet {
		return &CondLet{Patterns: convertAll(c, n.Child(0), c.pattern), Expr: c.expr(n.Child(1))}
	}
	return &CondExpr{Expr: c.expr(n.Child(0))}
}

func (c *converter) inlineMacro(n *syntax.Node) *InlineMacro {
	m := &InlineMacro{Name: c.ident(n.Child(0))}
	wrapped := n.Child(1)
	switch wrapped.Kind {
	case syntax.WrappedArgListParenthesized:
		m.Delimiter = Parens
	case syntax.WrappedArgListBracketed:
		m.Delimiter = Brackets
	case syntax.WrappedArgListBraced:
		m.Delimiter = Braces
	}
	m.Args = c.args(wrapped.Child(0))
	return m
}

func (c *converter) expr(n *syntax.Node) Expr {
	ch := n.Children
	switch n.Kind {
	case syntax.ExprPath:
		return c.path(n)
	case syntax.TerminalNumber:
		return &Number{Text: n.Text()}
	case syntax.TerminalShortString:
		return &ShortString{Text: n.Text()}
	case syntax.TerminalString:
		return &String{Text: n.Text()}
	case syntax.ExprParenthesized:
		return &Parenthesized{Expr: c.expr(ch[0])}
	case syntax.ExprTuple:
		return &Tuple{Elements: convertAll(c, ch[0], c.expr)}
	case syntax.ExprUnary:
		return &Unary{Op: ch[0].Text(), Expr: c.expr(ch[1])}
	case syntax.ExprBinary:
		return &Binary{LHS: c.expr(ch[0]), Op: ch[1].Text(), RHS: c.expr(ch[2])}
	case syntax.ExprFunctionCall:
		return &FunctionCall{Path: c.path(ch[0]), Args: c.args(ch[1])}
	case syntax.ExprStructCtor:
		ctor := &StructCtor{
			Path: c.path(ch[0]),
			Fields: convertAll(c, ch[1], func(a *syntax.Node) StructArg {
				arg := StructArg{Name: c.ident(a.Child(0))}
				if v := a.Child(1); v.Kind != syntax.OptionStructArgExprEmpty {
					arg.Value = c.expr(v)
				}
				return arg
			}),
		}
		if ch[2].Kind == syntax.StructTail {
			ctor.Base = c.expr(ch[2].Child(0))
		}
		return ctor
	case syntax.ExprBlock:
		return c.block(n)
	case syntax.ExprIf:
		e := &If{Condition: c.condition(ch[0]), Then: c.block(ch[1])}
		if ch[2].Kind == syntax.ElseClause {
			e.Else = c.expr(ch[2].Child(0))
		}
		return e
	case syntax.ExprMatch:
		return &Match{
			Expr: c.expr(ch[0]),
			Arms: convertAll(c, ch[1], func(a *syntax.Node) MatchArm {
				return MatchArm{Patterns: convertAll(c, a.Child(0), c.pattern), Body: c.expr(a.Child(1))}
			}),
		}
	case syntax.ExprLoop:
		return &Loop{Body: c.block(ch[0])}
	case syntax.ExprWhile:
		return &While{Condition: c.condition(ch[0]), Body: c.block(ch[1])}
	case syntax.ExprFor:
		return &For{Pattern: c.pattern(ch[0]), Iter: c.expr(ch[1]), Body: c.block(ch[2])}
	case syntax.ExprClosure:
		return &Closure{Params: c.params(ch[0]), Return: c.optionalType(ch[1]), Body: c.expr(ch[2])}
	case syntax.ExprErrorPropagate:
		return &ErrorPropagate{Expr: c.expr(ch[0])}
	case syntax.ExprIndexed:
		return &Indexed{Expr: c.expr(ch[0]), Index: c.expr(ch[1])}
	case syntax.ExprInlineMacro:
		return c.inlineMacro(n)
	case syntax.ExprFixedSizeArray:
		a := &FixedSizeArray{Elements: convertAll(c, ch[0], c.expr)}
		if ch[1].Kind == syntax.SizeClause {
			a.Size = c.expr(ch[1].Child(0))
		}
		return a
	}
	c.unexpected(n, "expression")
	return nil
}

// Statements

func (c *converter) optionalExpr(n *syntax.Node) Expr {
	if n.Kind == syntax.OptionExprEmpty {
		return nil
	}
	return c.expr(n)
}

func (c *converter) statement(n *syntax.Node) Statement {
	ch := n.Children
	switch n.Kind {
	case syntax.StatementLet:
		let := &Let{
			Attributes: c.attributes(ch[0]),
			Pattern:    c.pattern(ch[1]),
			Type:       c.optionalType(ch[2]),
			Value:      c.expr(ch[3]),
		}
		if ch[4].Kind == syntax.LetElse {
			let.Else = c.block(ch[4].Child(0))
		}
		return let
	case syntax.StatementExpr:
		return &ExprStatement{
			Attributes: c.attributes(ch[0]),
			Expr:       c.expr(ch[1]),
			Semicolon:  ch[2].Kind == syntax.Semicolon,
		}
	case syntax.StatementContinue:
		return &Continue{Attributes: c.attributes(ch[0])}
	case syntax.StatementReturn:
		return &Return{Attributes: c.attributes(ch[0]), Expr: c.optionalExpr(ch[1])}
	case syntax.StatementBreak:
		return &Break{Attributes: c.attributes(ch[0]), Expr: c.optionalExpr(ch[1])}
	case syntax.StatementItem:
		return &ItemStatement{Item: c.item(ch[0])}
	}
	c.unexpected(n, "statement")
	return nil
}

// Patterns

func (c *converter) pattern(n *syntax.Node) Pattern {
	ch := n.Children
	switch n.Kind {
	case syntax.PatternUnderscore:
		return &PatternUnderscore{}
	case syntax.TerminalNumber, syntax.TerminalShortString, syntax.TerminalString:
		return &PatternLiteral{Literal: c.expr(n)}
	case syntax.PatternIdentifier:
		return &PatternIdentifier{Modifiers: c.modifiers(ch[0]), Name: c.ident(ch[1])}
	case syntax.PatternStruct:
		return &PatternStruct{
			Path: c.path(ch[0]),
			Params: convertAll(c, ch[1], func(p *syntax.Node) PatternStructParam {
				param := PatternStructParam{Modifiers: c.modifiers(p.Child(0)), Name: c.ident(p.Child(1))}
				if p.Kind == syntax.PatternStructParamWithExpr {
					param.Pattern = c.pattern(p.Child(2))
				}
				return param
			}),
			Rest: ch[2].Kind == syntax.PatternStructRest,
		}
	case syntax.PatternTuple:
		return &PatternTuple{Elements: convertAll(c, ch[0], c.pattern)}
	case syntax.PatternFixedSizeArray:
		return &PatternFixedSizeArray{Elements: convertAll(c, ch[0], c.pattern)}
	case syntax.PatternEnum:
		p := &PatternEnum{Path: c.path(ch[0])}
		if ch[1].Kind == syntax.PatternEnumInner {
			p.Inner = c.pattern(ch[1].Child(0))
		}
		return p
	}
	c.unexpected(n, "pattern")
	return nil
}
