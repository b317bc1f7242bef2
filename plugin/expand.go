package plugin

import (
	"strings"

	"go.uber.org/zap"

	"github.com/cartridge-gg/introspect/ast"
	"github.com/cartridge-gg/introspect/syntax"
)

// ExpandFile plays the host: it runs every registered attribute and
// derive macro found on the items of src, then every inline macro, and
// returns the expanded source. Derives handled here are removed from
// #[derive(...)] so the output builds without the plugin. A failed
// invocation leaves its item untouched and is reported in the returned
// *MacroError alongside the partially expanded source.
func (p *Plugin) ExpandFile(src string) (string, error) {
	f, err := ast.ParseFile(src)
	if err != nil {
		return "", err
	}
	var diags []syntax.Diagnostic
	items := p.expandItems(f.Items, &diags)
	out := ast.ToCairo(&ast.File{Items: items})

	out, err = p.expandInline(out, &diags)
	if err != nil {
		return "", err
	}
	if len(diags) > 0 {
		return out, &MacroError{Diagnostics: diags}
	}
	return out, nil
}

func (p *Plugin) expandItems(items []ast.Item, diags *[]syntax.Diagnostic) []ast.Item {
	var out []ast.Item
	for _, item := range items {
		if m, ok := item.(*ast.Module); ok && m.Body != nil {
			c := *m
			c.Body = &ast.ItemBody{Items: p.expandItems(m.Body.Items, diags)}
			out = append(out, &c)
			continue
		}
		out = append(out, p.expandItem(item, diags)...)
	}
	return out
}

func attributesOf(item ast.Item) []ast.Attribute {
	switch x := item.(type) {
	case *ast.Struct:
		return x.Attributes
	case *ast.Enum:
		return x.Attributes
	}
	return nil
}

func withAttributes(item ast.Item, attrs []ast.Attribute) ast.Item {
	switch x := item.(type) {
	case *ast.Struct:
		c := *x
		c.Attributes = attrs
		return &c
	case *ast.Enum:
		c := *x
		c.Attributes = attrs
		return &c
	}
	return item
}

// dropDerives removes the handled names from every #[derive(...)],
// dropping the attribute once it is empty.
func dropDerives(attrs []ast.Attribute, handled map[string]bool) []ast.Attribute {
	var out []ast.Attribute
	for _, a := range attrs {
		if a.Name() != ast.DeriveAttribute || a.Args == nil {
			out = append(out, a)
			continue
		}
		var keep []ast.Arg
		for _, arg := range a.Args.Args {
			if path, ok := arg.Value.(*ast.Path); ok && arg.Name == nil && handled[path.Last().Name] {
				continue
			}
			keep = append(keep, arg)
		}
		if len(keep) > 0 {
			out = append(out, ast.Attribute{Path: a.Path, Args: &ast.ArgClause{Args: keep}})
		}
	}
	return out
}

func argsSource(a ast.Attribute) string {
	if a.Args == nil {
		return ""
	}
	parts := make([]string, len(a.Args.Args))
	for i, arg := range a.Args.Args {
		parts[i] = ast.ToCairo(arg)
	}
	return strings.Join(parts, ", ")
}

// run parses a macro's output back into items, or records its diagnostics.
func run(res ProcMacroResult, diags *[]syntax.Diagnostic) ([]ast.Item, bool) {
	if res.Failed() {
		*diags = append(*diags, res.Diagnostics...)
		return nil, false
	}
	f, err := ast.ParseFile(res.String())
	if err != nil {
		*diags = append(*diags, syntax.Diagnostic{Message: err.Error()})
		return nil, false
	}
	return f.Items, true
}

func (p *Plugin) expandItem(item ast.Item, diags *[]syntax.Diagnostic) []ast.Item {
	attrs := attributesOf(item)
	if attrs == nil {
		return []ast.Item{item}
	}

	// the first registered attribute macro is consumed; derives see the
	// item without it
	var macro AttributeMacro
	var invocation ast.Attribute
	base := item
	for i, a := range attrs {
		if m, ok := p.attributes[a.Name()]; ok {
			macro, invocation = m, a
			rest := append(append([]ast.Attribute(nil), attrs[:i]...), attrs[i+1:]...)
			base = withAttributes(item, rest)
			break
		}
	}
	body := syntax.MustFromString(ast.ToCairo(base))

	handled := make(map[string]bool)
	var derived []ast.Item
	for _, name := range ast.DeriveNames(attributesOf(base)) {
		m, ok := p.derives[name]
		if !ok || handled[name] {
			continue
		}
		handled[name] = true
		if impls, ok := run(m(body), diags); ok {
			derived = append(derived, impls...)
		}
	}

	main := []ast.Item{base}
	if macro != nil {
		attr, err := syntax.FromString(argsSource(invocation))
		if err != nil {
			*diags = append(*diags, syntax.Diagnostic{Message: err.Error()})
			return []ast.Item{item}
		}
		expanded, ok := run(macro(attr, body), diags)
		if !ok {
			return []ast.Item{item}
		}
		main = expanded
		Logger().Debug("expanded item",
			zap.String("attribute", invocation.Name()),
			zap.String("item", ast.ItemName(item)),
			zap.Int("items", len(expanded)),
		)
	}
	if len(handled) > 0 {
		main[0] = withAttributes(main[0], dropDerives(attributesOf(main[0]), handled))
	}
	return append(main, derived...)
}

// expandInline replaces every name!(...) whose name is a registered inline
// macro with its expansion.
func (p *Plugin) expandInline(src string, diags *[]syntax.Diagnostic) (string, error) {
	ts, err := syntax.FromString(src)
	if err != nil {
		return "", err
	}
	toks := ts.Tokens()
	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		m, ok := p.inlines[t.Text]
		if !ok || t.Kind != syntax.TokenIdent || i+2 >= len(toks) || !toks[i+1].Is("!") {
			continue
		}
		end := matching(toks, i+2)
		if end < 0 {
			continue
		}
		args, err := syntax.FromString(src[toks[i+2].Span.End:toks[end].Span.Start])
		if err != nil {
			return "", err
		}
		res := m(args)
		if res.Failed() {
			*diags = append(*diags, res.Diagnostics...)
			continue
		}
		b.WriteString(src[last:t.Span.Start])
		b.WriteString(res.String())
		last = toks[end].Span.End
		i = end
	}
	b.WriteString(src[last:])
	return b.String(), nil
}

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

// matching returns the index of the token closing the delimiter at open,
// or -1.
func matching(toks []syntax.Token, open int) int {
	closer, ok := closers[toks[open].Text]
	if !ok || toks[open].Kind != syntax.TokenPunct {
		return -1
	}
	opener := toks[open].Text
	depth := 0
	for j := open; j < len(toks); j++ {
		switch {
		case toks[j].Kind != syntax.TokenPunct:
		case toks[j].Text == opener:
			depth++
		case toks[j].Text == closer:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}
