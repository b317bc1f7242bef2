package syntax

import "fmt"

var keywords = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "else": true,
	"enum": true, "extern": true, "fn": true, "for": true, "if": true,
	"impl": true, "implicits": true, "let": true, "loop": true, "macro": true,
	"match": true, "mod": true, "mut": true, "nopanic": true, "of": true,
	"pub": true, "ref": true, "return": true, "struct": true, "trait": true,
	"type": true, "use": true, "while": true,
}

// IsKeyword reports whether name is reserved.
func IsKeyword(name string) bool {
	return keywords[name]
}

// Binary operator precedence; lower binds tighter. Assignments are right
// associative, everything else left associative.
var binaryPrecedence = map[string]int{
	"*": 2, "/": 2, "%": 2,
	"+": 3, "-": 3,
	"==": 4, "!=": 4, "<": 4, ">": 4, "<=": 4, ">=": 4,
	"&":  5,
	"^":  6,
	"|":  7,
	"&&": 8,
	"||": 9,
	"..": 10, "..=": 10,
	"=": 11, "+=": 11, "-=": 11, "*=": 11, "/=": 11, "%=": 11,
}

const (
	assignPrecedence = 11
	lowestPrecedence = assignPrecedence
)

type parser struct {
	db       *DB
	toks     []Token
	pos      int
	noStruct bool
}

func node(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

func list(kind Kind, items []*Node) *Node {
	return &Node{Kind: kind, Children: items}
}

func leaf(kind Kind, tok Token) *Node {
	t := tok
	return &Node{Kind: kind, Token: &t}
}

func (p *parser) peekN(n int) Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	end := 0
	if len(p.toks) > 0 {
		end = p.toks[len(p.toks)-1].Span.End
	}
	return Token{Kind: TokenEOF, Span: Span{end, end}}
}

func (p *parser) peek() Token {
	return p.peekN(0)
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *parser) at(kind TokenKind, text string) bool {
	tok := p.peek()
	return tok.Kind == kind && (text == "" || tok.Text == text)
}

func (p *parser) is(text string) bool {
	return p.peek().Is(text)
}

func (p *parser) eat(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(text string) Token {
	if !p.is(text) {
		p.fail("expected %q, found %s", text, describe(p.peek()))
	}
	return p.next()
}

func describe(tok Token) string {
	if tok.Kind == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Text)
}

func (p *parser) fail(format string, args ...any) {
	p.db.report(Diagnostic{
		Severity: SeverityError,
		Span:     p.peek().Span,
		Message:  fmt.Sprintf(format, args...),
	})
	panic(bailout{})
}

func (p *parser) ident() *Node {
	tok := p.peek()
	if tok.Kind != TokenIdent || keywords[tok.Text] {
		p.fail("expected identifier, found %s", describe(tok))
	}
	return leaf(TerminalIdent, p.next())
}

func (p *parser) isIdent() bool {
	tok := p.peek()
	return tok.Kind == TokenIdent && !keywords[tok.Text]
}

// delimited parses items separated by commas up to close, allowing a
// trailing comma, and consumes close.
func (p *parser) delimited(close string, item func() *Node) []*Node {
	var items []*Node
	for !p.is(close) {
		items = append(items, item())
		if !p.eat(",") {
			break
		}
	}
	p.expect(close)
	return items
}

// Items

func (p *parser) items(endKind TokenKind, endText string) *Node {
	var items []*Node
	for !p.at(endKind, endText) {
		if p.at(TokenEOF, "") {
			p.fail("expected %q, found end of input", endText)
		}
		items = append(items, p.item())
	}
	return list(ItemList, items)
}

func (p *parser) item() *Node {
	return p.itemAfter(p.attributes())
}

func (p *parser) itemAfter(attrs *Node) *Node {
	vis := p.visibility()
	tok := p.peek()
	switch {
	case tok.Is("struct"):
		return p.structItem(attrs, vis)
	case tok.Is("enum"):
		return p.enumItem(attrs, vis)
	case tok.Is("mod"):
		p.next()
		name := p.ident()
		if p.eat(";") {
			return node(ItemModule, attrs, vis, name, node(OptionModuleBodyEmpty))
		}
		p.expect("{")
		body := p.items(TokenPunct, "}")
		p.expect("}")
		return node(ItemModule, attrs, vis, name, node(ModuleBody, body))
	case tok.Is("use"):
		p.next()
		tree := p.useTree()
		p.expect(";")
		return node(ItemUse, attrs, vis, tree)
	case tok.Is("fn"):
		decl := p.functionDeclaration()
		return node(ItemFunction, attrs, vis, decl, p.block())
	case tok.Is("extern"):
		p.next()
		if p.is("type") {
			p.next()
			name := p.ident()
			generics := p.genericParams()
			p.expect(";")
			return node(ItemExternType, attrs, vis, name, generics)
		}
		decl := p.functionDeclaration()
		p.expect(";")
		return node(ItemExternFunction, attrs, vis, decl)
	case tok.Is("trait"):
		p.next()
		name := p.ident()
		generics := p.genericParams()
		if p.eat(";") {
			return node(ItemTrait, attrs, vis, name, generics, node(OptionTraitBodyEmpty))
		}
		p.expect("{")
		var items []*Node
		for !p.is("}") {
			items = append(items, p.traitItem())
		}
		p.expect("}")
		return node(ItemTrait, attrs, vis, name, generics, node(TraitBody, list(ItemList, items)))
	case tok.Is("impl"):
		return p.implItem(attrs, vis)
	case tok.Is("type"):
		p.next()
		name := p.ident()
		generics := p.genericParams()
		p.expect("=")
		ty := p.typeExpr()
		p.expect(";")
		return node(ItemTypeAlias, attrs, vis, name, generics, ty)
	case tok.Is("const"):
		p.next()
		name := p.ident()
		p.expect(":")
		ty := node(TypeClause, p.typeExpr())
		p.expect("=")
		value := p.expr()
		p.expect(";")
		return node(ItemConstant, attrs, vis, name, ty, value)
	case tok.Is("macro"):
		p.next()
		name := p.ident()
		p.expect("{")
		var rules []*Node
		for !p.is("}") {
			pattern := p.tokenTree()
			p.expect("=>")
			expansion := p.tokenTree()
			rules = append(rules, node(MacroRule, pattern, expansion))
			if !p.eat(";") {
				break
			}
		}
		p.expect("}")
		return node(ItemMacroDeclaration, attrs, vis, name, list(MacroRuleList, rules))
	case tok.Kind == TokenIdent && p.peekN(1).Is("!"):
		if vis.Kind != OptionVisibilityEmpty {
			p.fail("inline macro items cannot have a visibility")
		}
		m := p.inlineMacro()
		if m.Child(1).Kind != WrappedArgListBraced {
			p.expect(";")
		} else {
			p.eat(";")
		}
		return node(ItemInlineMacro, attrs, m)
	}
	p.fail("expected item, found %s", describe(tok))
	return nil
}

func (p *parser) attributes() *Node {
	var attrs []*Node
	for p.is("#") {
		p.next()
		p.expect("[")
		path := p.path(false)
		args := node(OptionArgClauseEmpty)
		if p.eat("(") {
			args = node(ArgClause, p.argList(TokenPunct, ")"))
			p.expect(")")
		}
		p.expect("]")
		attrs = append(attrs, node(Attribute, path, args))
	}
	return list(AttributeList, attrs)
}

func (p *parser) visibility() *Node {
	if !p.is("pub") {
		return node(OptionVisibilityEmpty)
	}
	p.next()
	if p.is("(") && p.peekN(1).Is("crate") && p.peekN(2).Is(")") {
		p.pos += 3
		return node(VisibilityPubCrate)
	}
	return node(VisibilityPub)
}

func (p *parser) structItem(attrs, vis *Node) *Node {
	p.expect("struct")
	name := p.ident()
	generics := p.genericParams()
	p.expect("{")
	members := p.delimited("}", func() *Node {
		mattrs := p.attributes()
		mvis := p.visibility()
		mname := p.ident()
		p.expect(":")
		return node(Member, mattrs, mvis, mname, p.typeExpr())
	})
	return node(ItemStruct, attrs, vis, name, generics, list(MemberList, members))
}

func (p *parser) enumItem(attrs, vis *Node) *Node {
	p.expect("enum")
	name := p.ident()
	generics := p.genericParams()
	p.expect("{")
	variants := p.delimited("}", func() *Node {
		vattrs := p.attributes()
		vname := p.ident()
		ty := node(OptionTypeClauseEmpty)
		if p.eat(":") {
			ty = node(TypeClause, p.typeExpr())
		}
		return node(Variant, vattrs, vname, ty)
	})
	return node(ItemEnum, attrs, vis, name, generics, list(VariantList, variants))
}

func (p *parser) implItem(attrs, vis *Node) *Node {
	p.expect("impl")
	name := p.ident()
	generics := p.genericParams()
	if p.eat("=") {
		target := p.path(true)
		p.expect(";")
		return node(ItemImplAlias, attrs, vis, name, generics, target)
	}
	p.expect("of")
	trait := p.path(true)
	if p.eat(";") {
		return node(ItemImpl, attrs, vis, name, generics, trait, node(OptionImplBodyEmpty))
	}
	p.expect("{")
	body := p.items(TokenPunct, "}")
	p.expect("}")
	return node(ItemImpl, attrs, vis, name, generics, trait, node(ImplBody, body))
}

func (p *parser) traitItem() *Node {
	attrs := p.attributes()
	switch {
	case p.is("fn"):
		decl := p.functionDeclaration()
		if p.eat(";") {
			return node(TraitItemFunction, attrs, decl, node(OptionFunctionBodyEmpty))
		}
		return node(TraitItemFunction, attrs, decl, p.block())
	case p.is("type"):
		p.next()
		name := p.ident()
		generics := p.genericParams()
		p.expect(";")
		return node(TraitItemType, attrs, name, generics)
	case p.is("const"):
		p.next()
		name := p.ident()
		p.expect(":")
		ty := node(TypeClause, p.typeExpr())
		p.expect(";")
		return node(TraitItemConstant, attrs, name, ty)
	}
	p.fail("expected trait item, found %s", describe(p.peek()))
	return nil
}

func (p *parser) useTree() *Node {
	switch {
	case p.eat("*"):
		return node(UsePathStar)
	case p.eat("{"):
		trees := p.delimited("}", p.useTree)
		return node(UsePathMulti, list(UseTreeList, trees))
	}
	name := p.ident()
	if p.eat("::") {
		return node(UsePathSingle, name, p.useTree())
	}
	alias := node(OptionAliasEmpty)
	if p.eat("as") {
		alias = p.ident()
	}
	return node(UsePathLeaf, name, alias)
}

func (p *parser) functionDeclaration() *Node {
	p.expect("fn")
	name := p.ident()
	generics := p.genericParams()
	p.expect("(")
	params := p.delimited(")", func() *Node { return p.param(true) })

	ret := node(OptionReturnTypeClauseEmpty)
	if p.eat("->") {
		ret = node(ReturnTypeClause, p.typeExpr())
	}
	implicits := node(OptionImplicitsClauseEmpty)
	if p.eat("implicits") {
		p.expect("(")
		paths := p.delimited(")", func() *Node { return p.path(true) })
		implicits = node(ImplicitsClause, list(ImplicitsList, paths))
	}
	nopanic := node(OptionNoPanicEmpty)
	if p.eat("nopanic") {
		nopanic = node(NoPanic)
	}
	sig := node(FunctionSignature, list(ParamList, params), ret, implicits, nopanic)
	return node(FunctionDeclaration, name, generics, sig)
}

func (p *parser) modifiers() *Node {
	var mods []*Node
	for p.is("ref") || p.is("mut") {
		mods = append(mods, leaf(TerminalModifier, p.next()))
	}
	return list(ModifierList, mods)
}

func (p *parser) param(typed bool) *Node {
	mods := p.modifiers()
	name := p.ident()
	ty := node(OptionTypeClauseEmpty)
	if p.eat(":") {
		ty = node(TypeClause, p.typeExpr())
	} else if typed {
		p.fail("expected \":\" after parameter %q", name.Text())
	}
	return node(Param, mods, name, ty)
}

func (p *parser) genericParams() *Node {
	if !p.eat("<") {
		return node(OptionWrappedGenericParamListEmpty)
	}
	params := p.delimited(">", func() *Node {
		switch {
		case p.eat("impl"):
			name := p.ident()
			p.expect(":")
			return node(GenericParamImplNamed, name, p.path(true))
		case p.eat("+"):
			return node(GenericParamImplAnonymous, p.path(true))
		case p.eat("-"):
			return node(GenericParamNegativeImpl, p.path(true))
		case p.eat("const"):
			name := p.ident()
			p.expect(":")
			return node(GenericParamConst, name, p.typeExpr())
		}
		return node(GenericParamType, p.ident())
	})
	return node(WrappedGenericParamList, list(GenericParamList, params))
}

func (p *parser) tokenTree() *Node {
	var kind Kind
	var close string
	switch {
	case p.is("("):
		kind, close = TokenTreeParenthesized, ")"
	case p.is("["):
		kind, close = TokenTreeBracketed, "]"
	case p.is("{"):
		kind, close = TokenTreeBraced, "}"
	default:
		p.fail("expected token tree, found %s", describe(p.peek()))
	}
	p.next()
	var items []*Node
	for !p.is(close) {
		switch {
		case p.at(TokenEOF, ""):
			p.fail("unclosed token tree")
		case p.is("(") || p.is("[") || p.is("{"):
			items = append(items, p.tokenTree())
		case p.is(")") || p.is("]") || p.is("}"):
			p.fail("mismatched %q in token tree", p.peek().Text)
		default:
			items = append(items, leaf(TerminalToken, p.next()))
		}
	}
	p.next()
	return list(kind, items)
}

// Paths and types

// path parses a::b::<T>::c. In type position generic arguments may follow
// a segment directly (Array<u8>); in expressions they need "::".
func (p *parser) path(typeMode bool) *Node {
	var segments []*Node
	for {
		name := p.ident()
		switch {
		case typeMode && p.is("<"):
			segments = append(segments, node(PathSegmentWithGenericArgs, name, node(OptionColonColonEmpty), p.genericArgs()))
		case p.is("::") && p.peekN(1).Is("<"):
			sep := leaf(TerminalOperator, p.next())
			segments = append(segments, node(PathSegmentWithGenericArgs, name, sep, p.genericArgs()))
		default:
			segments = append(segments, node(PathSegmentSimple, name))
		}
		if !(p.is("::") && p.peekN(1).Kind == TokenIdent) {
			return list(ExprPath, segments)
		}
		p.next()
	}
}

func (p *parser) genericArgs() *Node {
	p.expect("<")
	args := p.delimited(">", p.typeExpr)
	return node(GenericArgs, list(GenericArgList, args))
}

func (p *parser) typeExpr() *Node {
	tok := p.peek()
	switch {
	case tok.Is("@"):
		op := leaf(TerminalOperator, p.next())
		return node(ExprUnary, op, p.typeExpr())
	case tok.Is("("):
		p.next()
		if p.eat(")") {
			return node(ExprTuple, list(ExprList, nil))
		}
		first := p.typeExpr()
		if p.eat(")") {
			return node(ExprParenthesized, first)
		}
		p.expect(",")
		rest := p.delimited(")", p.typeExpr)
		return node(ExprTuple, list(ExprList, append([]*Node{first}, rest...)))
	case tok.Is("["):
		p.next()
		elem := p.typeExpr()
		p.expect(";")
		size := p.expr()
		p.expect("]")
		return node(ExprFixedSizeArray, list(ExprList, []*Node{elem}), node(SizeClause, size))
	case tok.Kind == TokenNumber, tok.Kind == TokenShortString, tok.Kind == TokenString:
		return p.literal()
	case tok.Is("{"):
		return p.block()
	case tok.Kind == TokenIdent:
		return p.path(true)
	}
	p.fail("expected type, found %s", describe(tok))
	return nil
}

// Expressions

func (p *parser) expr() *Node {
	return p.binary(lowestPrecedence)
}

// exprNoStruct parses a condition or scrutinee, where `{` opens the body
// rather than a struct constructor.
func (p *parser) exprNoStruct() *Node {
	saved := p.noStruct
	p.noStruct = true
	e := p.expr()
	p.noStruct = saved
	return e
}

func (p *parser) binary(maxPrecedence int) *Node {
	lhs := p.unary()
	for {
		tok := p.peek()
		if tok.Kind != TokenPunct {
			return lhs
		}
		prec, ok := binaryPrecedence[tok.Text]
		if !ok || prec > maxPrecedence {
			return lhs
		}
		p.next()
		next := prec - 1
		if prec == assignPrecedence {
			next = prec
		}
		rhs := p.binary(next)
		lhs = node(ExprBinary, lhs, leaf(TerminalOperator, tok), rhs)
	}
}

func (p *parser) unary() *Node {
	tok := p.peek()
	if tok.Kind == TokenPunct {
		switch tok.Text {
		case "!", "-", "~", "@", "*":
			op := leaf(TerminalOperator, p.next())
			return node(ExprUnary, op, p.unary())
		}
	}
	return p.postfix(p.primary())
}

func (p *parser) postfix(e *Node) *Node {
	for {
		switch {
		case p.is("."):
			op := leaf(TerminalOperator, p.next())
			e = node(ExprBinary, e, op, p.member())
		case p.is("?"):
			p.next()
			e = node(ExprErrorPropagate, e)
		case p.is("["):
			p.next()
			index := p.withStructs(p.expr)
			p.expect("]")
			e = node(ExprIndexed, e, index)
		default:
			return e
		}
	}
}

// member parses the right side of ".": a field, a tuple index or a
// method call.
func (p *parser) member() *Node {
	if p.at(TokenNumber, "") {
		return p.literal()
	}
	path := p.path(false)
	if p.eat("(") {
		args := p.withStructs(func() *Node { return p.argList(TokenPunct, ")") })
		p.expect(")")
		return node(ExprFunctionCall, path, args)
	}
	return path
}

func (p *parser) withStructs(parse func() *Node) *Node {
	saved := p.noStruct
	p.noStruct = false
	n := parse()
	p.noStruct = saved
	return n
}

func (p *parser) literal() *Node {
	tok := p.next()
	switch tok.Kind {
	case TokenNumber:
		return leaf(TerminalNumber, tok)
	case TokenShortString:
		return leaf(TerminalShortString, tok)
	case TokenString:
		return leaf(TerminalString, tok)
	}
	p.fail("expected literal, found %s", describe(tok))
	return nil
}

func (p *parser) primary() *Node {
	tok := p.peek()
	switch {
	case tok.Kind == TokenNumber, tok.Kind == TokenShortString, tok.Kind == TokenString:
		return p.literal()
	case tok.Is("("):
		return p.withStructs(p.parenthesized)
	case tok.Is("["):
		return p.withStructs(p.fixedSizeArray)
	case tok.Is("{"):
		return p.block()
	case tok.Is("|"), tok.Is("||"):
		return p.closure()
	case tok.Is("if"):
		return p.ifExpr()
	case tok.Is("match"):
		p.next()
		scrutinee := p.exprNoStruct()
		p.expect("{")
		var arms []*Node
		for !p.is("}") {
			patterns := p.patternOr()
			p.expect("=>")
			body := p.withStructs(p.expr)
			arms = append(arms, node(MatchArm, patterns, body))
			if !p.eat(",") && !isBlockLike(body) {
				break
			}
		}
		p.expect("}")
		return node(ExprMatch, scrutinee, list(MatchArmList, arms))
	case tok.Is("loop"):
		p.next()
		return node(ExprLoop, p.block())
	case tok.Is("while"):
		p.next()
		cond := p.condition()
		return node(ExprWhile, cond, p.block())
	case tok.Is("for"):
		p.next()
		pat := p.pattern()
		p.expect("in")
		iter := p.exprNoStruct()
		return node(ExprFor, pat, iter, p.block())
	case tok.Kind == TokenIdent && p.peekN(1).Is("!") && isOpenDelim(p.peekN(2)):
		return p.inlineMacro()
	case tok.Kind == TokenIdent:
		path := p.path(false)
		if p.is("(") {
			p.next()
			args := p.withStructs(func() *Node { return p.argList(TokenPunct, ")") })
			p.expect(")")
			return node(ExprFunctionCall, path, args)
		}
		if p.is("{") && !p.noStruct {
			return p.structCtor(path)
		}
		return path
	}
	p.fail("expected expression, found %s", describe(tok))
	return nil
}

func isOpenDelim(tok Token) bool {
	return tok.Is("(") || tok.Is("[") || tok.Is("{")
}

func isBlockLike(n *Node) bool {
	switch n.Kind {
	case ExprBlock, ExprIf, ExprMatch, ExprLoop, ExprWhile, ExprFor:
		return true
	}
	return false
}

func (p *parser) parenthesized() *Node {
	p.expect("(")
	if p.eat(")") {
		return node(ExprTuple, list(ExprList, nil))
	}
	first := p.expr()
	if p.eat(")") {
		return node(ExprParenthesized, first)
	}
	p.expect(",")
	rest := p.delimited(")", p.expr)
	return node(ExprTuple, list(ExprList, append([]*Node{first}, rest...)))
}

func (p *parser) fixedSizeArray() *Node {
	p.expect("[")
	if p.eat("]") {
		return node(ExprFixedSizeArray, list(ExprList, nil), node(OptionSizeClauseEmpty))
	}
	first := p.expr()
	if p.eat(";") {
		size := p.expr()
		p.expect("]")
		return node(ExprFixedSizeArray, list(ExprList, []*Node{first}), node(SizeClause, size))
	}
	var rest []*Node
	if p.eat(",") {
		rest = p.delimited("]", p.expr)
	} else {
		p.expect("]")
	}
	return node(ExprFixedSizeArray, list(ExprList, append([]*Node{first}, rest...)), node(OptionSizeClauseEmpty))
}

func (p *parser) structCtor(path *Node) *Node {
	p.expect("{")
	tail := node(OptionStructTailEmpty)
	var args []*Node
	for !p.is("}") {
		if p.eat("..") {
			tail = node(StructTail, p.withStructs(p.expr))
			break
		}
		name := p.ident()
		value := node(OptionStructArgExprEmpty)
		if p.eat(":") {
			value = p.withStructs(p.expr)
		}
		args = append(args, node(StructArg, name, value))
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	return node(ExprStructCtor, path, list(StructArgList, args), tail)
}

func (p *parser) closure() *Node {
	var params []*Node
	if !p.eat("||") {
		p.expect("|")
		params = p.delimited("|", func() *Node { return p.param(false) })
	}
	ret := node(OptionReturnTypeClauseEmpty)
	if p.eat("->") {
		ret = node(ReturnTypeClause, p.typeExpr())
		return node(ExprClosure, list(ParamList, params), ret, p.block())
	}
	return node(ExprClosure, list(ParamList, params), ret, p.expr())
}

func (p *parser) condition() *Node {
	if p.eat("let") {
		patterns := p.patternOr()
		p.expect("=")
		return node(ConditionLet, patterns, p.exprNoStruct())
	}
	return node(ConditionExpr, p.exprNoStruct())
}

func (p *parser) ifExpr() *Node {
	p.expect("if")
	cond := p.condition()
	then := p.block()
	els := node(OptionElseClauseEmpty)
	if p.eat("else") {
		if p.is("if") {
			els = node(ElseClause, p.ifExpr())
		} else {
			els = node(ElseClause, p.block())
		}
	}
	return node(ExprIf, cond, then, els)
}

func (p *parser) inlineMacro() *Node {
	name := p.ident()
	p.expect("!")
	var kind Kind
	var close string
	switch {
	case p.is("("):
		kind, close = WrappedArgListParenthesized, ")"
	case p.is("["):
		kind, close = WrappedArgListBracketed, "]"
	case p.is("{"):
		kind, close = WrappedArgListBraced, "}"
	default:
		p.fail("expected macro arguments, found %s", describe(p.peek()))
	}
	p.next()
	args := p.withStructs(func() *Node { return p.argList(TokenPunct, close) })
	p.expect(close)
	return node(ExprInlineMacro, name, node(kind, args))
}

func (p *parser) argList(endKind TokenKind, endText string) *Node {
	var args []*Node
	for !p.at(endKind, endText) {
		mods := p.modifiers()
		name := node(OptionArgNameEmpty)
		if p.isIdent() && p.peekN(1).Is(":") {
			name = p.ident()
			p.next()
		}
		args = append(args, node(Arg, mods, name, p.expr()))
		if !p.eat(",") {
			break
		}
	}
	return list(ArgList, args)
}

// Statements

func (p *parser) block() *Node {
	p.expect("{")
	saved := p.noStruct
	p.noStruct = false
	var stmts []*Node
	for !p.is("}") {
		if p.at(TokenEOF, "") {
			p.fail("unclosed block")
		}
		stmts = append(stmts, p.statement())
	}
	p.next()
	p.noStruct = saved
	return node(ExprBlock, list(StatementList, stmts))
}

// endStatement consumes the terminating ";", which may be omitted before
// the closing brace.
func (p *parser) endStatement() {
	if !p.eat(";") && !p.is("}") {
		p.fail("expected \";\", found %s", describe(p.peek()))
	}
}

func (p *parser) statement() *Node {
	attrs := p.attributes()
	switch {
	case p.is("let"):
		p.next()
		pat := p.pattern()
		ty := node(OptionTypeClauseEmpty)
		if p.eat(":") {
			ty = node(TypeClause, p.typeExpr())
		}
		p.expect("=")
		value := p.expr()
		els := node(OptionLetElseEmpty)
		if p.eat("else") {
			els = node(LetElse, p.block())
		}
		p.endStatement()
		return node(StatementLet, attrs, pat, ty, value, els)
	case p.is("return"), p.is("break"):
		kind := StatementReturn
		if p.next().Text == "break" {
			kind = StatementBreak
		}
		value := node(OptionExprEmpty)
		if !p.is(";") && !p.is("}") {
			value = p.expr()
		}
		p.endStatement()
		return node(kind, attrs, value)
	case p.is("continue"):
		p.next()
		p.endStatement()
		return node(StatementContinue, attrs)
	case p.is("const"), p.is("use"):
		return node(StatementItem, p.itemAfter(attrs))
	}

	e := p.expr()
	semi := node(OptionSemicolonEmpty)
	switch {
	case p.eat(";"):
		semi = node(Semicolon)
	case p.is("}"), isBlockLike(e):
	default:
		p.fail("expected \";\", found %s", describe(p.peek()))
	}
	return node(StatementExpr, attrs, e, semi)
}

// Patterns

func (p *parser) patternOr() *Node {
	patterns := []*Node{p.pattern()}
	for p.eat("|") {
		patterns = append(patterns, p.pattern())
	}
	return list(PatternList, patterns)
}

func (p *parser) pattern() *Node {
	tok := p.peek()
	switch {
	case tok.Is("_"):
		p.next()
		return node(PatternUnderscore)
	case tok.Kind == TokenNumber, tok.Kind == TokenShortString, tok.Kind == TokenString:
		return p.literal()
	case tok.Is("("):
		p.next()
		return node(PatternTuple, list(PatternList, p.delimited(")", p.pattern)))
	case tok.Is("["):
		p.next()
		return node(PatternFixedSizeArray, list(PatternList, p.delimited("]", p.pattern)))
	case tok.Is("ref"), tok.Is("mut"):
		mods := p.modifiers()
		return node(PatternIdentifier, mods, p.ident())
	case tok.Kind == TokenIdent:
		path := p.path(false)
		switch {
		case p.eat("("):
			inner := p.pattern()
			p.expect(")")
			return node(PatternEnum, path, node(PatternEnumInner, inner))
		case p.is("{"):
			return p.structPattern(path)
		case len(path.Children) == 1 && path.Child(0).Kind == PathSegmentSimple:
			return node(PatternIdentifier, list(ModifierList, nil), path.Child(0).Child(0))
		}
		return node(PatternEnum, path, node(OptionPatternEnumInnerEmpty))
	}
	p.fail("expected pattern, found %s", describe(tok))
	return nil
}

func (p *parser) structPattern(path *Node) *Node {
	p.expect("{")
	rest := node(OptionPatternStructRestEmpty)
	var params []*Node
	for !p.is("}") {
		if p.eat("..") {
			rest = node(PatternStructRest)
			break
		}
		mods := p.modifiers()
		name := p.ident()
		if p.eat(":") {
			params = append(params, node(PatternStructParamWithExpr, mods, name, p.pattern()))
		} else {
			params = append(params, node(PatternIdentifier, mods, name))
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	return node(PatternStruct, path, list(PatternStructParamList, params), rest)
}
