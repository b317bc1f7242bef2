package syntax

// Kind identifies a syntax node. Each kind has a fixed positional child
// layout, listed next to it.
type Kind uint16

const (
	KindInvalid Kind = iota

	// Terminals carry a Token and no children.
	TerminalIdent
	TerminalNumber
	TerminalShortString
	TerminalString
	TerminalOperator
	TerminalModifier // ref, mut
	TerminalToken    // raw token inside a macro token tree

	SyntaxFile // [ItemList]

	// Lists: ordered children of one element kind.
	ItemList
	AttributeList
	ArgList
	ModifierList
	MemberList
	VariantList
	ParamList
	GenericParamList
	GenericArgList
	ExprList
	StatementList
	PatternList
	MatchArmList
	StructArgList
	PatternStructParamList
	UseTreeList
	MacroRuleList
	ImplicitsList

	// Optional slots. The empty variant of each has its own kind.
	OptionVisibilityEmpty
	VisibilityPub      // []
	VisibilityPubCrate // []
	OptionArgClauseEmpty
	ArgClause // [ArgList]
	OptionArgNameEmpty
	OptionTypeClauseEmpty
	TypeClause // [Expr]
	OptionReturnTypeClauseEmpty
	ReturnTypeClause // [Expr]
	OptionImplicitsClauseEmpty
	ImplicitsClause // [ImplicitsList]
	OptionNoPanicEmpty
	NoPanic // []
	OptionWrappedGenericParamListEmpty
	WrappedGenericParamList // [GenericParamList]
	OptionGenericArgsEmpty
	GenericArgs // [GenericArgList]
	OptionColonColonEmpty
	OptionElseClauseEmpty
	ElseClause // [ExprBlock | ExprIf]
	OptionSemicolonEmpty
	Semicolon // []
	OptionExprEmpty
	OptionAliasEmpty
	OptionModuleBodyEmpty
	ModuleBody // [ItemList]
	OptionTraitBodyEmpty
	TraitBody // [ItemList]
	OptionImplBodyEmpty
	ImplBody // [ItemList]
	OptionFunctionBodyEmpty
	OptionStructArgExprEmpty
	OptionStructTailEmpty
	StructTail // [Expr]
	OptionPatternEnumInnerEmpty
	PatternEnumInner // [Pattern]
	OptionPatternStructRestEmpty
	PatternStructRest // []
	OptionSizeClauseEmpty
	SizeClause // [Expr]
	OptionLetElseEmpty
	LetElse // [ExprBlock]

	// Attributes and arguments.
	Attribute // [ExprPath, ArgClause|OptionArgClauseEmpty]
	Arg       // [ModifierList, TerminalIdent|OptionArgNameEmpty, Expr]

	// Items.
	ItemStruct            // [AttributeList, Visibility, TerminalIdent, GenericParams, MemberList]
	Member                // [AttributeList, Visibility, TerminalIdent, Expr]
	ItemEnum              // [AttributeList, Visibility, TerminalIdent, GenericParams, VariantList]
	Variant               // [AttributeList, TerminalIdent, TypeClause|OptionTypeClauseEmpty]
	ItemModule            // [AttributeList, Visibility, TerminalIdent, ModuleBody|OptionModuleBodyEmpty]
	ItemUse               // [AttributeList, Visibility, UseTree]
	UsePathLeaf           // [TerminalIdent, TerminalIdent|OptionAliasEmpty]
	UsePathSingle         // [TerminalIdent, UseTree]
	UsePathMulti          // [UseTreeList]
	UsePathStar           // []
	FunctionDeclaration   // [TerminalIdent, GenericParams, FunctionSignature]
	FunctionSignature     // [ParamList, ReturnTypeClause|Empty, ImplicitsClause|Empty, NoPanic|Empty]
	Param                 // [ModifierList, TerminalIdent, TypeClause|OptionTypeClauseEmpty]
	ItemFunction          // [AttributeList, Visibility, FunctionDeclaration, ExprBlock]
	ItemExternFunction    // [AttributeList, Visibility, FunctionDeclaration]
	ItemExternType        // [AttributeList, Visibility, TerminalIdent, GenericParams]
	ItemTrait             // [AttributeList, Visibility, TerminalIdent, GenericParams, TraitBody|Empty]
	TraitItemFunction     // [AttributeList, FunctionDeclaration, ExprBlock|OptionFunctionBodyEmpty]
	TraitItemType         // [AttributeList, TerminalIdent, GenericParams]
	TraitItemConstant     // [AttributeList, TerminalIdent, TypeClause]
	ItemImpl              // [AttributeList, Visibility, TerminalIdent, GenericParams, ExprPath, ImplBody|Empty]
	ItemImplAlias         // [AttributeList, Visibility, TerminalIdent, GenericParams, ExprPath]
	ItemTypeAlias         // [AttributeList, Visibility, TerminalIdent, GenericParams, Expr]
	ItemConstant          // [AttributeList, Visibility, TerminalIdent, TypeClause, Expr]
	ItemInlineMacro       // [AttributeList, ExprInlineMacro]
	ItemMacroDeclaration  // [AttributeList, Visibility, TerminalIdent, MacroRuleList]
	MacroRule             // [TokenTree, TokenTree]
	TokenTreeParenthesized // [TerminalToken|TokenTree...]
	TokenTreeBracketed
	TokenTreeBraced

	// Generic parameters.
	GenericParamType          // [TerminalIdent]
	GenericParamConst         // [TerminalIdent, Expr]
	GenericParamImplNamed     // [TerminalIdent, ExprPath]
	GenericParamImplAnonymous // [ExprPath]
	GenericParamNegativeImpl  // [ExprPath]

	// Expressions. Types are expressions too.
	ExprPath                   // [PathSegment...]
	PathSegmentSimple          // [TerminalIdent]
	PathSegmentWithGenericArgs // [TerminalIdent, TerminalOperator("::")|OptionColonColonEmpty, GenericArgs]
	ExprParenthesized          // [Expr]
	ExprTuple                  // [ExprList]
	ExprUnary                  // [TerminalOperator, Expr]
	ExprBinary                 // [Expr, TerminalOperator, Expr]
	ExprFunctionCall           // [ExprPath, ArgList]
	ExprStructCtor             // [ExprPath, StructArgList, StructTail|OptionStructTailEmpty]
	StructArg                  // [TerminalIdent, Expr|OptionStructArgExprEmpty]
	ExprBlock                  // [StatementList]
	ExprIf                     // [Condition, ExprBlock, ElseClause|OptionElseClauseEmpty]
	ConditionExpr              // [Expr]
	ConditionLet               // [PatternList, Expr]
	ExprMatch                  // [Expr, MatchArmList]
	MatchArm                   // [PatternList, Expr]
	ExprLoop                   // [ExprBlock]
	ExprWhile                  // [Condition, ExprBlock]
	ExprFor                    // [Pattern, Expr, ExprBlock]
	ExprClosure                // [ParamList, ReturnTypeClause|Empty, Expr]
	ExprErrorPropagate         // [Expr]
	ExprIndexed                // [Expr, Expr]
	ExprInlineMacro            // [TerminalIdent, WrappedArgList]
	WrappedArgListParenthesized // [ArgList]
	WrappedArgListBracketed
	WrappedArgListBraced
	ExprFixedSizeArray // [ExprList, SizeClause|OptionSizeClauseEmpty]

	// Statements.
	StatementLet      // [AttributeList, Pattern, TypeClause|Empty, Expr, LetElse|Empty]
	StatementExpr     // [AttributeList, Expr, Semicolon|OptionSemicolonEmpty]
	StatementContinue // [AttributeList]
	StatementReturn   // [AttributeList, Expr|OptionExprEmpty]
	StatementBreak    // [AttributeList, Expr|OptionExprEmpty]
	StatementItem     // [Item]

	// Patterns. Literal patterns are bare literal terminals.
	PatternUnderscore         // []
	PatternIdentifier         // [ModifierList, TerminalIdent]
	PatternStruct             // [ExprPath, PatternStructParamList, PatternStructRest|Empty]
	PatternStructParamWithExpr // [ModifierList, TerminalIdent, Pattern]
	PatternTuple              // [PatternList]
	PatternFixedSizeArray     // [PatternList]
	PatternEnum               // [ExprPath, PatternEnumInner|OptionPatternEnumInnerEmpty]

	numKinds
)

// IsTerminal reports whether nodes of k carry a token.
func (k Kind) IsTerminal() bool {
	return k >= TerminalIdent && k <= TerminalToken
}
