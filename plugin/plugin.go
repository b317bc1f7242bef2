// Package plugin exposes the derive and table engines as the three macro
// shapes a Cairo compiler host calls: attribute, derive and inline macros.
package plugin

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/cartridge-gg/introspect/ast"
	"github.com/cartridge-gg/introspect/derive"
	"github.com/cartridge-gg/introspect/selector"
	"github.com/cartridge-gg/introspect/syntax"
	"github.com/cartridge-gg/introspect/table"
)

type (
	AttributeMacro func(attr, body *syntax.TokenStream) ProcMacroResult
	DeriveMacro    func(body *syntax.TokenStream) ProcMacroResult
	InlineMacro    func(args *syntax.TokenStream) ProcMacroResult
)

// Attribute and inline macro names.
const (
	AttrTable      = "table"
	AttrColumnSet  = "column_set"
	AttrIntrospect = "introspect"
	InlineID       = "id"
	InlineTypeDef  = "type_def"
)

// Plugin is a macro registry. Invocations share nothing but the config.
type Plugin struct {
	cfg        derive.Config
	attributes map[string]AttributeMacro
	derives    map[string]DeriveMacro
	inlines    map[string]InlineMacro
}

// New returns a plugin with every built-in macro registered.
func New(cfg derive.Config) *Plugin {
	p := &Plugin{
		cfg:        cfg,
		attributes: make(map[string]AttributeMacro),
		derives:    make(map[string]DeriveMacro),
		inlines:    make(map[string]InlineMacro),
	}
	p.RegisterAttribute(AttrTable, p.itemMacro(AttrTable, table.Expand))
	p.RegisterAttribute(AttrColumnSet, p.itemMacro(AttrColumnSet, table.ExpandColumnSet))
	p.RegisterAttribute(AttrIntrospect, p.itemMacro(AttrIntrospect, p.introspect))
	for _, name := range derive.Names() {
		p.RegisterDerive(name, p.deriveMacro(name))
	}
	p.RegisterInline(InlineID, idMacro)
	p.RegisterInline(InlineTypeDef, p.typeDefMacro)
	return p
}

func (p *Plugin) Config() derive.Config { return p.cfg }

func (p *Plugin) RegisterAttribute(name string, m AttributeMacro) { p.attributes[name] = m }
func (p *Plugin) RegisterDerive(name string, m DeriveMacro)       { p.derives[name] = m }
func (p *Plugin) RegisterInline(name string, m InlineMacro)       { p.inlines[name] = m }

func (p *Plugin) Attribute(name string) (AttributeMacro, bool) {
	m, ok := p.attributes[name]
	return m, ok
}

func (p *Plugin) Derive(name string) (DeriveMacro, bool) {
	m, ok := p.derives[name]
	return m, ok
}

func (p *Plugin) Inline(name string) (InlineMacro, bool) {
	m, ok := p.inlines[name]
	return m, ok
}

// Names lists the registered macros of each shape, sorted.
func (p *Plugin) Names() (attributes, derives, inlines []string) {
	return sortedKeys(p.attributes), sortedKeys(p.derives), sortedKeys(p.inlines)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printItems(items []ast.Item) string {
	return ast.ToCairo(&ast.File{Items: items})
}

type itemExpander func(item ast.Item, args []ast.Arg, cfg derive.Config) ([]ast.Item, error)

// itemMacro adapts an expander to the attribute macro shape: parse the
// arguments and the item, expand, print.
func (p *Plugin) itemMacro(name string, expand itemExpander) AttributeMacro {
	return func(attr, body *syntax.TokenStream) ProcMacroResult {
		args, err := ast.ParseArgs(attr)
		if err != nil {
			return failure(parseError(name, err))
		}
		item, err := ast.ParseItem(body)
		if err != nil {
			return failure(parseError(name, err))
		}
		items, err := expand(item, args, p.cfg)
		if err != nil {
			Logger().Debug("macro failed", zap.String("macro", name), zap.String("item", ast.ItemName(item)), zap.Error(err))
			return failure(err)
		}
		Logger().Debug("expanded attribute macro",
			zap.String("macro", name),
			zap.String("item", ast.ItemName(item)),
			zap.Int("items", len(items)),
		)
		return success(printItems(items))
	}
}

func parseError(macro string, err error) error {
	return errors.WithStack(&derive.Error{Kind: derive.KindParseError, Item: macro, Detail: "invalid macro input", Cause: err})
}

// introspect derives Introspect, or IntrospectRef with
// #[introspect(reference)], then ISerde and, when enabled, Fuzzable.
func (p *Plugin) introspect(item ast.Item, args []ast.Arg, cfg derive.Config) ([]ast.Item, error) {
	t, err := derive.Extract(item)
	if err != nil {
		return nil, err
	}
	names := []string{derive.Introspect, derive.ISerde}
	for _, a := range args {
		if id, ok := a.Value.(*ast.Path); ok && a.Name == nil {
			if n, _ := id.Ident(); n == "reference" {
				names[0] = derive.IntrospectRef
				continue
			}
		}
		return nil, derive.NewError(derive.KindInvalidAttribute, t.Ident(), "", "#[introspect] takes only `reference`, found %s", ast.ToCairo(a))
	}
	if cfg.Fuzz {
		names = append(names, derive.Fuzzable)
	}
	impls, err := derive.Expand(t, names, cfg)
	if err != nil {
		return nil, err
	}
	return append([]ast.Item{t.Stripped()}, impls...), nil
}

func (p *Plugin) deriveMacro(name string) DeriveMacro {
	return func(body *syntax.TokenStream) ProcMacroResult {
		item, err := ast.ParseItem(body)
		if err != nil {
			return failure(parseError(name, err))
		}
		impls, err := derive.Derive(item, []string{name}, p.cfg)
		if err != nil {
			return failure(err)
		}
		return success(printItems(impls))
	}
}

// idMacro expands id!(literal) to the felt the literal selects.
func idMacro(args *syntax.TokenStream) ProcMacroResult {
	lit := strings.TrimSpace(args.String())
	id, err := selector.ParseID(lit)
	if err != nil {
		return failure(derive.NewError(derive.KindInvalidAttribute, InlineID+"!", "", "%v", err))
	}
	return success(id.String())
}

// typeDefMacro expands type_def!(T) to the TypeDef constructor of T.
func (p *Plugin) typeDefMacro(args *syntax.TokenStream) ProcMacroResult {
	ty, err := ast.ParseType(args.String())
	if err != nil {
		return failure(parseError(InlineTypeDef+"!", err))
	}
	return success(derive.TypeDefExpr(ty, p.cfg))
}
