// Package derive turns struct and enum declarations into Cairo trait
// implementations: Introspect, IntrospectRef, ISerde and Fuzzable.
package derive

import (
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/cartridge-gg/introspect/ast"
)

// Derive names, as written in #[derive(...)].
const (
	Introspect    = "Introspect"
	IntrospectRef = "IntrospectRef"
	ISerde        = "ISerde"
	Fuzzable      = "Fuzzable"
)

// EmitFunc prints the impl of one derive for an extracted type.
type EmitFunc func(t Type, cfg Config) (string, error)

var emitters = map[string]EmitFunc{
	Introspect:    EmitIntrospect,
	IntrospectRef: EmitIntrospectRef,
	ISerde:        EmitISerde,
	Fuzzable:      EmitFuzzable,
}

// Names lists the supported derives in sorted order.
func Names() []string {
	names := make([]string, 0, len(emitters))
	for n := range emitters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func Supported(name string) bool {
	_, ok := emitters[name]
	return ok
}

// Emit runs the named emitter.
func Emit(name string, t Type, cfg Config) (string, error) {
	emit, ok := emitters[name]
	if !ok {
		return "", newError(KindInvalidAttribute, t.Ident(), "", "unknown derive %q", name)
	}
	return emit(t, cfg)
}

// Derive extracts item and expands the named derives.
func Derive(item ast.Item, names []string, cfg Config) ([]ast.Item, error) {
	t, err := Extract(item)
	if err != nil {
		return nil, err
	}
	return Expand(t, names, cfg)
}

// Expand emits the named derives for t, in order, and re-parses the result.
func Expand(t Type, names []string, cfg Config) ([]ast.Item, error) {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return nil, duplicateAttribute(t.Ident(), "", "derive("+n+")")
		}
		seen[n] = true
	}
	if seen[Introspect] && seen[IntrospectRef] {
		return nil, invalidAttribute(t.Ident(), "", "Introspect and IntrospectRef cannot both be derived")
	}

	var src code
	for _, n := range names {
		out, err := Emit(n, t, cfg)
		if err != nil {
			return nil, err
		}
		src.b.WriteString(out)
		src.line("")
	}
	items, err := ParseGenerated(t.Ident(), src.String())
	if err != nil {
		return nil, err
	}
	Logger().Debug("derived",
		zap.String("item", t.Ident()),
		zap.Strings("derives", names),
		zap.Int("impls", len(items)),
	)
	return items, nil
}

// ParseGenerated parses emitted source; a failure means the emitter
// produced invalid Cairo and is reported as a ParseError that keeps the
// parser diagnostics.
func ParseGenerated(item, src string) ([]ast.Item, error) {
	f, err := ast.ParseFile(src)
	if err != nil {
		Logger().Error("generated code does not parse", zap.String("item", item), zap.Error(err))
		return nil, errors.WithStack(&Error{Kind: KindParseError, Item: item, Detail: "generated code does not parse", Cause: err})
	}
	return f.Items, nil
}
