// Package ast is the value representation of parsed Cairo. Nodes are
// built from syntax trees with FromSyntax and printed back with WriteCairo;
// printing then parsing yields an equal tree.
package ast

import "reflect"

// Node is anything that prints as Cairo.
type Node interface {
	WriteCairo(w Writer)
}

type Item interface {
	Node
	item()
}

// Expr covers expressions and types; Cairo types are expressions.
type Expr interface {
	Node
	expr()
}

type Statement interface {
	Node
	statement()
}

type Pattern interface {
	Node
	pattern()
}

type GenericParam interface {
	Node
	genericParam()
}

type UseTree interface {
	Node
	useTree()
}

type Condition interface {
	Node
	condition()
}

// Equal compares two trees structurally.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(a, b)
}

type Visibility uint8

const (
	VisibilityDefault Visibility = iota
	VisibilityPub
	VisibilityPubCrate
)

type Modifier string

const (
	ModifierRef Modifier = "ref"
	ModifierMut Modifier = "mut"
)

type File struct {
	Items []Item
}

type Attribute struct {
	Path *Path
	Args *ArgClause // nil for #[name]
}

type ArgClause struct {
	Args []Arg
}

type Arg struct {
	Modifiers []Modifier
	Name      *string // set for named arguments
	Value     Expr
}

// Items

type Struct struct {
	Attributes []Attribute
	Visibility Visibility
	Name       string
	Generics   *GenericParams
	Members    []Member
}

type Member struct {
	Attributes []Attribute
	Visibility Visibility
	Name       string
	Type       Expr
}

type Enum struct {
	Attributes []Attribute
	Visibility Visibility
	Name       string
	Generics   *GenericParams
	Variants   []Variant
}

type Variant struct {
	Attributes []Attribute
	Name       string
	Type       Expr // nil for unit variants
}

type Module struct {
	Attributes []Attribute
	Visibility Visibility
	Name       string
	Body       *ItemBody // nil for `mod name;`
}

type ItemBody struct {
	Items []Item
}

type Use struct {
	Attributes []Attribute
	Visibility Visibility
	Tree       UseTree
}

type UseLeaf struct {
	Name  string
	Alias *string
}

type UseSingle struct {
	Name string
	Rest UseTree
}

type UseMulti struct {
	Trees []UseTree
}

type UseStar struct{}

type FunctionDeclaration struct {
	Name      string
	Generics  *GenericParams
	Signature Signature
}

type Signature struct {
	Params    []Param
	Return    Expr // nil when omitted
	Implicits *Implicits
	NoPanic   bool
}

type Implicits struct {
	Paths []*Path
}

type Param struct {
	Modifiers []Modifier
	Name      string
	Type      Expr // nil for untyped closure parameters
}

type Function struct {
	Attributes  []Attribute
	Visibility  Visibility
	Declaration FunctionDeclaration
	Body        *Block
}

type ExternFunction struct {
	Attributes  []Attribute
	Visibility  Visibility
	Declaration FunctionDeclaration
}

type ExternType struct {
	Attributes []Attribute
	Visibility Visibility
	Name       string
	Generics   *GenericParams
}

type Trait struct {
	Attributes []Attribute
	Visibility Visibility
	Name       string
	Generics   *GenericParams
	Body       *ItemBody
}

type TraitFunction struct {
	Attributes  []Attribute
	Declaration FunctionDeclaration
	Body        *Block // nil for a required function
}

type TraitType struct {
	Attributes []Attribute
	Name       string
	Generics   *GenericParams
}

type TraitConstant struct {
	Attributes []Attribute
	Name       string
	Type       Expr
}

type Impl struct {
	Attributes []Attribute
	Visibility Visibility
	Name       string
	Generics   *GenericParams
	Trait      *Path
	Body       *ItemBody // nil for `impl X of T;`
}

type ImplAlias struct {
	Attributes []Attribute
	Visibility Visibility
	Name       string
	Generics   *GenericParams
	Impl       *Path
}

type TypeAlias struct {
	Attributes []Attribute
	Visibility Visibility
	Name       string
	Generics   *GenericParams
	Type       Expr
}

type Constant struct {
	Attributes []Attribute
	Visibility Visibility
	Name       string
	Type       Expr
	Value      Expr
}

type InlineMacroItem struct {
	Attributes []Attribute
	Macro      *InlineMacro
}

type MacroDeclaration struct {
	Attributes []Attribute
	Visibility Visibility
	Name       string
	Rules      []MacroRule
}

type MacroRule struct {
	Pattern   *TokenTree
	Expansion *TokenTree
}

// TokenTree is an unparsed, delimited run of tokens.
type TokenTree struct {
	Delimiter Delimiter
	Elements  []TokenTreeElement
}

// TokenTreeElement is either a single token or a nested tree.
type TokenTreeElement struct {
	Token string
	Tree  *TokenTree
}

// Generic parameters

type GenericParams struct {
	Params []GenericParam
}

type GenericType struct {
	Name string
}

type GenericConst struct {
	Name string
	Type Expr
}

type GenericImplNamed struct {
	Name  string
	Trait *Path
}

type GenericImplAnonymous struct {
	Trait *Path
}

type GenericNegativeImpl struct {
	Trait *Path
}

// Expressions

type Path struct {
	Segments []PathSegment
}

type PathSegment struct {
	Name        string
	GenericArgs *GenericArgs
}

type GenericArgs struct {
	ColonColon bool // ::<...> rather than <...>
	Args       []Expr
}

type Number struct {
	Text string
}

type ShortString struct {
	Text string
}

// String keeps the literal as written, quotes included.
type String struct {
	Text string
}

type Parenthesized struct {
	Expr Expr
}

type Tuple struct {
	Elements []Expr
}

type Unary struct {
	Op   string
	Expr Expr
}

type Binary struct {
	LHS Expr
	Op  string
	RHS Expr
}

type FunctionCall struct {
	Path *Path
	Args []Arg
}

type StructCtor struct {
	Path   *Path
	Fields []StructArg
	Base   Expr // the `..base` tail, nil when absent
}

type StructArg struct {
	Name  string
	Value Expr // nil for shorthand
}

type Block struct {
	Statements []Statement
}

type If struct {
	Condition Condition
	Then      *Block
	Else      Expr // nil, *Block or *If
}

type CondExpr struct {
	Expr Expr
}

type CondLet struct {
	Patterns []Pattern
	Expr     Expr
}

type Match struct {
	Expr Expr
	Arms []MatchArm
}

type MatchArm struct {
	Patterns []Pattern
	Body     Expr
}

type Loop struct {
	Body *Block
}

type While struct {
	Condition Condition
	Body      *Block
}

type For struct {
	Pattern Pattern
	Iter    Expr
	Body    *Block
}

type Closure struct {
	Params []Param
	Return Expr
	Body   Expr
}

type ErrorPropagate struct {
	Expr Expr
}

type Indexed struct {
	Expr  Expr
	Index Expr
}

type InlineMacro struct {
	Name      string
	Delimiter Delimiter
	Args      []Arg
}

type FixedSizeArray struct {
	Elements []Expr
	Size     Expr // set for [x; n]
}

// Statements

type Let struct {
	Attributes []Attribute
	Pattern    Pattern
	Type       Expr
	Value      Expr
	Else       *Block
}

type ExprStatement struct {
	Attributes []Attribute
	Expr       Expr
	Semicolon  bool
}

type Continue struct {
	Attributes []Attribute
}

type Return struct {
	Attributes []Attribute
	Expr       Expr
}

type Break struct {
	Attributes []Attribute
	Expr       Expr
}

type ItemStatement struct {
	Item Item
}

// Patterns

type PatternUnderscore struct{}

type PatternLiteral struct {
	Literal Expr // *Number, *ShortString or *String
}

type PatternIdentifier struct {
	Modifiers []Modifier
	Name      string
}

type PatternStruct struct {
	Path   *Path
	Params []PatternStructParam
	Rest   bool
}

type PatternStructParam struct {
	Modifiers []Modifier
	Name      string
	Pattern   Pattern // nil for shorthand
}

type PatternTuple struct {
	Elements []Pattern
}

type PatternFixedSizeArray struct {
	Elements []Pattern
}

type PatternEnum struct {
	Path  *Path
	Inner Pattern
}

func (*Struct) item()           {}
func (*Enum) item()             {}
func (*Module) item()           {}
func (*Use) item()              {}
func (*Function) item()         {}
func (*ExternFunction) item()   {}
func (*ExternType) item()       {}
func (*Trait) item()            {}
func (*TraitFunction) item()    {}
func (*TraitType) item()        {}
func (*TraitConstant) item()    {}
func (*Impl) item()             {}
func (*ImplAlias) item()        {}
func (*TypeAlias) item()        {}
func (*Constant) item()         {}
func (*InlineMacroItem) item()  {}
func (*MacroDeclaration) item() {}

func (*Path) expr()           {}
func (*Number) expr()         {}
func (*ShortString) expr()    {}
func (*String) expr()         {}
func (*Parenthesized) expr()  {}
func (*Tuple) expr()          {}
func (*Unary) expr()          {}
func (*Binary) expr()         {}
func (*FunctionCall) expr()   {}
func (*StructCtor) expr()     {}
func (*Block) expr()          {}
func (*If) expr()             {}
func (*Match) expr()          {}
func (*Loop) expr()           {}
func (*While) expr()          {}
func (*For) expr()            {}
func (*Closure) expr()        {}
func (*ErrorPropagate) expr() {}
func (*Indexed) expr()        {}
func (*InlineMacro) expr()    {}
func (*FixedSizeArray) expr() {}

func (*Let) statement()           {}
func (*ExprStatement) statement() {}
func (*Continue) statement()      {}
func (*Return) statement()        {}
func (*Break) statement()         {}
func (*ItemStatement) statement() {}

func (*PatternUnderscore) pattern()     {}
func (*PatternLiteral) pattern()        {}
func (*PatternIdentifier) pattern()     {}
func (*PatternStruct) pattern()         {}
func (*PatternTuple) pattern()          {}
func (*PatternFixedSizeArray) pattern() {}
func (*PatternEnum) pattern()           {}

func (*GenericType) genericParam()          {}
func (*GenericConst) genericParam()         {}
func (*GenericImplNamed) genericParam()     {}
func (*GenericImplAnonymous) genericParam() {}
func (*GenericNegativeImpl) genericParam()  {}

func (*UseLeaf) useTree()   {}
func (*UseSingle) useTree() {}
func (*UseMulti) useTree()  {}
func (*UseStar) useTree()   {}

func (*CondExpr) condition() {}
func (*CondLet) condition()  {}

// NewPath builds a path of simple segments.
func NewPath(segments ...string) *Path {
	p := &Path{Segments: make([]PathSegment, len(segments))}
	for i, s := range segments {
		p.Segments[i].Name = s
	}
	return p
}

// Ident is the name of a single-segment path without generic arguments.
func (p *Path) Ident() (string, bool) {
	if len(p.Segments) != 1 || p.Segments[0].GenericArgs != nil {
		return "", false
	}
	return p.Segments[0].Name, true
}

// Last is the final segment.
func (p *Path) Last() PathSegment {
	return p.Segments[len(p.Segments)-1]
}

// Name is the attribute's single-segment name, or "" for a longer path.
func (a Attribute) Name() string {
	name, _ := a.Path.Ident()
	return name
}

// ItemName returns the declared name of an item, if it has one.
func ItemName(item Item) string {
	switch x := item.(type) {
	case *Struct:
		return x.Name
	case *Enum:
		return x.Name
	case *Module:
		return x.Name
	case *Function:
		return x.Declaration.Name
	case *ExternFunction:
		return x.Declaration.Name
	case *ExternType:
		return x.Name
	case *Trait:
		return x.Name
	case *TraitFunction:
		return x.Declaration.Name
	case *TraitType:
		return x.Name
	case *TraitConstant:
		return x.Name
	case *Impl:
		return x.Name
	case *ImplAlias:
		return x.Name
	case *TypeAlias:
		return x.Name
	case *Constant:
		return x.Name
	case *MacroDeclaration:
		return x.Name
	}
	return ""
}
