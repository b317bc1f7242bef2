package table

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cartridge-gg/introspect/ast"
	"github.com/cartridge-gg/introspect/derive"
	"github.com/cartridge-gg/introspect/typedef"
)

// CamelCase turns a snake_case member name into CamelCase.
func CamelCase(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

func attributes(item string, m derive.IMember) ([]typedef.Attribute, error) {
	out := make([]typedef.Attribute, 0, len(m.Attributes))
	for _, a := range m.Attributes {
		t, err := a.TypeDef()
		if err != nil {
			return nil, derive.NewError(derive.KindInvalidAttribute, item, m.Field, "%v", err)
		}
		out = append(out, t)
	}
	return out, nil
}

func columnDef(item string, m derive.IMember, tw *derive.TypeWriter, cfg derive.Config) (string, error) {
	attrs, err := attributes(item, m)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s { id: %s, name: %s, attributes: %s, type_def: %s }",
		cfg.TableItem("ColumnDef"), m.ID.String(), typedef.CairoString(m.Name),
		typedef.CairoAttributes(attrs, cfg.IntrospectPath), tw.Expr(m.Type, m.Mod)), nil
}

func (t *TableStructure) primaryDef(tw *derive.TypeWriter, cfg derive.Config) (string, error) {
	name := DefaultPrimaryName
	attrs := "[].span()"
	typeDef := typedef.Cairo(typedef.Felt252, cfg.IntrospectPath)
	if m, ok := t.Primary(); ok {
		a, err := attributes(t.Struct.Decl, m)
		if err != nil {
			return "", err
		}
		name = m.Name
		attrs = typedef.CairoAttributes(a, cfg.IntrospectPath)
		typeDef = tw.Expr(m.Type, m.Mod)
	}
	return fmt.Sprintf("%s { name: %s, attributes: %s, type_def: %s }",
		cfg.TableItem("PrimaryDef"), typedef.CairoString(name), attrs, typeDef), nil
}

func (t *TableStructure) schemaImpl(w *strings.Builder, cfg derive.Config) error {
	decl := t.Struct.Decl
	tw := derive.NewTypeWriter(cfg)
	primary, err := t.primaryDef(tw, cfg)
	if err != nil {
		return err
	}
	columns := make([]string, len(t.Columns))
	for i, m := range t.Columns {
		if columns[i], err = columnDef(decl, m, tw, cfg); err != nil {
			return err
		}
	}
	tableAttrs := make([]typedef.Attribute, len(t.Struct.Attributes))
	for i, a := range t.Struct.Attributes {
		if tableAttrs[i], err = a.TypeDef(); err != nil {
			return derive.NewError(derive.KindInvalidAttribute, decl, "", "%v", err)
		}
	}

	fmt.Fprintf(w, "impl %sTable of %s<%s> {\n", decl, cfg.TableItem("TableSchema"), decl)
	fmt.Fprintf(w, "    const ID: felt252 = %s;\n\n", t.ID.String())
	fmt.Fprintf(w, "    fn name() -> ByteArray {\n        %s\n    }\n\n", typedef.CairoString(t.Name))
	fmt.Fprintf(w, "    fn attributes() -> Span<%s> {\n        %s\n    }\n\n",
		cfg.Path("Attribute"), typedef.CairoAttributes(tableAttrs, cfg.IntrospectPath))
	fmt.Fprintf(w, "    fn primary() -> %s {\n        %s\n    }\n\n", cfg.TableItem("PrimaryDef"), primary)
	fmt.Fprintf(w, "    fn columns() -> Span<%s> {\n        [%s].span()\n    }\n\n",
		cfg.TableItem("ColumnDef"), strings.Join(columns, ", "))
	fmt.Fprintf(w, "    fn child_defs() -> Array<(felt252, %s)> {\n        %s\n    }\n}\n\n",
		cfg.Path("TypeDef"), tw.ChildDefs())
	return nil
}

// memberImpls emits one accessor impl per column, unless the column or the
// whole struct opts out.
func (t *TableStructure) memberImpls(w *strings.Builder, cfg derive.Config) int {
	if t.Struct.SkipAccessors {
		return 0
	}
	decl := t.Struct.Decl
	n := 0
	for _, m := range t.Columns {
		if m.Skip {
			continue
		}
		fmt.Fprintf(w, "impl %s%sMember of %s<%s, %s> {\n    type Type = %s;\n}\n\n",
			decl, CamelCase(m.Field), cfg.TableItem("MemberTrait"), decl, m.ID.String(), ast.ToCairo(m.Type))
		n++
	}
	return n
}

// recordImpls emits the RecordPrimary or RecordKey impl of decl.
func recordImpls(w *strings.Builder, decl string, kind KeyKind, keys []derive.IMember, cfg derive.Config) {
	switch kind {
	case PrimaryKey:
		k := keys[0]
		ty := ast.ToCairo(k.Type)
		fmt.Fprintf(w, "impl %sRecordPrimary of %s<%s> {\n", decl, cfg.TableItem("RecordPrimary"), decl)
		fmt.Fprintf(w, "    type Primary = %s;\n\n", ty)
		fmt.Fprintf(w, "    fn record_primary(self: @%s) -> @%s {\n        self.%s\n    }\n}\n\n", decl, ty, k.Field)
		fmt.Fprintf(w, "impl %sRecordId = %s<%s>;\n\n", decl, cfg.TableItem("RecordIdFelt252Impl"), decl)
	case CompoundKey:
		types := make([]string, len(keys))
		snaps := make([]string, len(keys))
		fields := make([]string, len(keys))
		for i, k := range keys {
			types[i] = ast.ToCairo(k.Type)
			snaps[i] = "@" + types[i]
			fields[i] = "self." + k.Field
		}
		fmt.Fprintf(w, "impl %sRecordKey of %s<%s> {\n", decl, cfg.TableItem("RecordKey"), decl)
		fmt.Fprintf(w, "    type Key = %s;\n\n", tuple(types))
		fmt.Fprintf(w, "    fn record_key(self: @%s) -> %s {\n        %s\n    }\n}\n\n", decl, tuple(snaps), tuple(fields))
	}
}

// tuple prints (a, b), or (a,) for a single element.
func tuple(parts []string) string {
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Emit prints every impl of a table.
func Emit(t *TableStructure, cfg derive.Config) (string, error) {
	var w strings.Builder
	if err := t.schemaImpl(&w, cfg); err != nil {
		return "", err
	}
	accessors := t.memberImpls(&w, cfg)
	recordImpls(&w, t.Struct.Decl, t.KeyKind, t.Keys, cfg)
	Logger().Debug("emitted table",
		zap.String("table", t.Name),
		zap.Int("columns", len(t.Columns)),
		zap.Int("accessors", accessors),
	)
	return w.String(), nil
}

// Expand runs #[table] over item: it returns the item without helper
// attributes followed by the generated impls.
func Expand(item ast.Item, args []ast.Arg, cfg derive.Config) ([]ast.Item, error) {
	t, err := Extract(item, args)
	if err != nil {
		return nil, err
	}
	src, err := Emit(t, cfg)
	if err != nil {
		return nil, err
	}
	impls, err := derive.ParseGenerated(t.Struct.Decl, src)
	if err != nil {
		return nil, err
	}
	return append([]ast.Item{t.Struct.Stripped()}, impls...), nil
}
