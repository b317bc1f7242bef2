package derive

import (
	"strings"

	"github.com/cartridge-gg/introspect/ast"
)

// Generics is the generic parameter list of a derived type.
type Generics struct {
	Params []ast.GenericParam
}

func NewGenerics(g *ast.GenericParams) Generics {
	if g == nil {
		return Generics{}
	}
	return Generics{Params: g.Params}
}

func (g Generics) IsEmpty() bool {
	return len(g.Params) == 0
}

// TypeNames lists the type parameters, the ones trait bounds are added for.
func (g Generics) TypeNames() []string {
	var names []string
	for _, p := range g.Params {
		if t, ok := p.(*ast.GenericType); ok {
			names = append(names, t.Name)
		}
	}
	return names
}

// args are the parameters that appear in the type's own argument list.
func (g Generics) args() []string {
	var names []string
	for _, p := range g.Params {
		switch x := p.(type) {
		case *ast.GenericType:
			names = append(names, x.Name)
		case *ast.GenericConst:
			names = append(names, x.Name)
		}
	}
	return names
}

// UseSite prints <T, U> as written after the type name, or "".
func (g Generics) UseSite() string {
	args := g.args()
	if len(args) == 0 {
		return ""
	}
	return "<" + strings.Join(args, ", ") + ">"
}

// CallSite prints ::<T, U>, or "".
func (g Generics) CallSite() string {
	if use := g.UseSite(); use != "" {
		return "::" + use
	}
	return ""
}

// Impl prints the parameter list of an impl block: the declared
// parameters followed by +Trait<T> for every trait and type parameter.
func (g Generics) Impl(traits ...string) string {
	if g.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(g.Params)+len(traits)*len(g.Params))
	for _, p := range g.Params {
		parts = append(parts, ast.ToCairo(p))
	}
	types := g.TypeNames()
	for _, trait := range traits {
		for _, t := range types {
			parts = append(parts, "+"+trait+"<"+t+">")
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
