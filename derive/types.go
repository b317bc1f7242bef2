package derive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cartridge-gg/introspect/ast"
	"github.com/cartridge-gg/introspect/typedef"
)

var coreScalars = map[string]typedef.TypeDef{
	"felt252":            typedef.Felt252,
	"bool":               typedef.Bool,
	"u8":                 typedef.U8,
	"u16":                typedef.U16,
	"u32":                typedef.U32,
	"u64":                typedef.U64,
	"u128":               typedef.U128,
	"u256":               typedef.U256,
	"u512":               typedef.U512,
	"i8":                 typedef.I8,
	"i16":                typedef.I16,
	"i32":                typedef.I32,
	"i64":                typedef.I64,
	"i128":               typedef.I128,
	"bytes31":            typedef.ShortUtf8,
	"ByteArray":          typedef.Utf8String,
	"ClassHash":          typedef.ClassHash,
	"ContractAddress":    typedef.ContractAddress,
	"EthAddress":         typedef.EthAddress,
	"StorageAddress":     typedef.StorageAddress,
	"StorageBaseAddress": typedef.StorageBaseAddress,
}

// simpleName is the last segment of a path without generic arguments.
func simpleName(ty ast.Expr) (string, bool) {
	p, ok := ty.(*ast.Path)
	if !ok || len(p.Segments) == 0 {
		return "", false
	}
	last := p.Last()
	if last.GenericArgs != nil {
		return "", false
	}
	for _, s := range p.Segments[:len(p.Segments)-1] {
		if s.GenericArgs != nil {
			return "", false
		}
	}
	return last.Name, true
}

// genericType splits Name<A, B> into its last segment name and arguments.
func genericType(ty ast.Expr) (string, []ast.Expr, bool) {
	p, ok := ty.(*ast.Path)
	if !ok || len(p.Segments) == 0 {
		return "", nil, false
	}
	last := p.Last()
	if last.GenericArgs == nil {
		return "", nil, false
	}
	return last.Name, last.GenericArgs.Args, true
}

func scalar(ty ast.Expr, mod TypeMod) (typedef.TypeDef, bool) {
	name, ok := simpleName(ty)
	if !ok {
		return nil, false
	}
	switch {
	case name == "ByteArray" && mod.Raw:
		return typedef.ByteArray, true
	case name == "ByteArray" && mod.Encoding != "":
		return typedef.ByteArrayEncoded{Encoding: mod.Encoding}, true
	case name == "bytes31" && mod.Raw:
		return typedef.Bytes31, true
	case name == "bytes31" && mod.Encoding != "":
		return typedef.Bytes31Encoded{Encoding: mod.Encoding}, true
	}
	t, ok := coreScalars[name]
	return t, ok
}

func fixedSize(e ast.Expr) (uint32, bool) {
	n, ok := e.(*ast.Number)
	if !ok {
		return 0, false
	}
	text := strings.ReplaceAll(n.Text, "_", "")
	for _, suffix := range []string{"u8", "u16", "u32", "u64", "usize", "felt252"} {
		text = strings.TrimSuffix(text, suffix)
	}
	v, err := strconv.ParseUint(text, 0, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// StaticTypeDef resolves a type built only from core types. mod applies to
// a top-level ByteArray or bytes31.
func StaticTypeDef(ty ast.Expr, mod TypeMod) (typedef.TypeDef, bool) {
	if t, ok := scalar(ty, mod); ok {
		return t, true
	}
	switch x := ty.(type) {
	case *ast.Tuple:
		elems := make([]typedef.TypeDef, len(x.Elements))
		for i, e := range x.Elements {
			t, ok := StaticTypeDef(e, TypeMod{})
			if !ok {
				return nil, false
			}
			elems[i] = t
		}
		return typedef.Tuple{Elements: elems}.ToTypeDef(), true
	case *ast.Parenthesized:
		return StaticTypeDef(x.Expr, mod)
	case *ast.FixedSizeArray:
		if len(x.Elements) != 1 || x.Size == nil {
			return nil, false
		}
		size, ok := fixedSize(x.Size)
		if !ok {
			return nil, false
		}
		elem, ok := StaticTypeDef(x.Elements[0], TypeMod{})
		if !ok {
			return nil, false
		}
		return typedef.FixedArray{Elem: elem, Size: size}, true
	}

	name, args, ok := genericType(ty)
	if !ok {
		return nil, false
	}
	inner := make([]typedef.TypeDef, len(args))
	for i, a := range args {
		t, ok := StaticTypeDef(a, TypeMod{})
		if !ok {
			return nil, false
		}
		inner[i] = t
	}
	switch {
	case (name == "Array" || name == "Span") && len(inner) == 1:
		return typedef.Array{Elem: inner[0]}, true
	case name == "Option" && len(inner) == 1:
		return typedef.Option{Elem: inner[0]}, true
	case name == "Nullable" && len(inner) == 1:
		return typedef.Nullable{Elem: inner[0]}, true
	case name == "Felt252Dict" && len(inner) == 1:
		return typedef.Felt252Dict{Elem: inner[0]}, true
	case name == "Result" && len(inner) == 2:
		return typedef.Result{Ok: inner[0], Err: inner[1]}, true
	}
	return nil, false
}

// IsPrimaryType reports whether ty is a scalar that fits one felt and can
// identify a record.
func IsPrimaryType(ty ast.Expr) bool {
	name, ok := simpleName(ty)
	if !ok {
		return false
	}
	switch name {
	case "felt252", "bool", "u8", "u16", "u32", "u64", "u128",
		"i8", "i16", "i32", "i64", "i128", "bytes31",
		"ClassHash", "ContractAddress", "EthAddress", "StorageAddress", "StorageBaseAddress":
		return true
	}
	return false
}

// TypeWriter prints TypeDef constructor expressions for member types. Core
// types are spelled out; any other type defers to its Introspect impl and
// is recorded as a child whose definitions must be merged.
type TypeWriter struct {
	cfg      Config
	children []string
	seen     map[string]bool
}

func NewTypeWriter(cfg Config) *TypeWriter {
	return &TypeWriter{cfg: cfg, seen: make(map[string]bool)}
}

func (tw *TypeWriter) typeDef(kind string) string {
	return tw.cfg.Path("TypeDef::" + kind)
}

func (tw *TypeWriter) boxed(kind, inner string) string {
	return fmt.Sprintf("%s(BoxTrait::new(%s))", tw.typeDef(kind), inner)
}

// Expr prints the TypeDef of ty; mod applies to a top-level byte type.
func (tw *TypeWriter) Expr(ty ast.Expr, mod TypeMod) string {
	if ty == nil {
		return tw.typeDef("None")
	}
	if t, ok := scalar(ty, mod); ok {
		return typedef.Cairo(t, tw.cfg.IntrospectPath)
	}
	switch x := ty.(type) {
	case *ast.Tuple:
		switch len(x.Elements) {
		case 0:
			return tw.typeDef("None")
		case 1:
			return tw.Expr(x.Elements[0], TypeMod{})
		}
		parts := make([]string, len(x.Elements))
		for i, e := range x.Elements {
			parts[i] = tw.Expr(e, TypeMod{})
		}
		return fmt.Sprintf("%s([%s].span())", tw.typeDef("Tuple"), strings.Join(parts, ", "))
	case *ast.Parenthesized:
		return tw.Expr(x.Expr, mod)
	case *ast.FixedSizeArray:
		if len(x.Elements) == 1 && x.Size != nil {
			if size, ok := fixedSize(x.Size); ok {
				return fmt.Sprintf("%s(BoxTrait::new(%s { type_def: %s, size: %d }))",
					tw.typeDef("FixedArray"), tw.cfg.Path("FixedArrayDef"), tw.Expr(x.Elements[0], TypeMod{}), size)
			}
		}
	}

	if name, args, ok := genericType(ty); ok {
		switch {
		case (name == "Array" || name == "Span") && len(args) == 1:
			return tw.boxed("Array", tw.Expr(args[0], TypeMod{}))
		case (name == "Option" || name == "Nullable" || name == "Felt252Dict") && len(args) == 1:
			return tw.boxed(name, tw.Expr(args[0], TypeMod{}))
		case name == "Result" && len(args) == 2:
			return fmt.Sprintf("%s(BoxTrait::new(%s { ok: %s, err: %s }))",
				tw.typeDef("Result"), tw.cfg.Path("ResultDef"), tw.Expr(args[0], TypeMod{}), tw.Expr(args[1], TypeMod{}))
		}
	}
	return tw.dynamic(ast.ToCairo(ty))
}

func (tw *TypeWriter) dynamic(ty string) string {
	if !tw.seen[ty] {
		tw.seen[ty] = true
		tw.children = append(tw.children, ty)
	}
	return fmt.Sprintf("%s::<%s>::type_def()", tw.cfg.Path("Introspect"), ty)
}

// Children lists the deferred types in first-use order.
func (tw *TypeWriter) Children() []string {
	return tw.children
}

// ChildDefs prints the merged child definitions of every deferred type.
func (tw *TypeWriter) ChildDefs(extra ...string) string {
	parts := append([]string(nil), extra...)
	for _, c := range tw.children {
		parts = append(parts, fmt.Sprintf("%s::<%s>()", tw.cfg.Path("child_defs"), c))
	}
	return fmt.Sprintf("%s(array![%s])", tw.cfg.Path("merge_defs"), strings.Join(parts, ", "))
}

// TypeDefExpr prints the TypeDef constructor for ty, as the type_def!
// inline macro expands it.
func TypeDefExpr(ty ast.Expr, cfg Config) string {
	return NewTypeWriter(cfg).Expr(ty, TypeMod{})
}
