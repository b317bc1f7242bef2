package table

import (
	"fmt"
	"strings"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/cartridge-gg/introspect/ast"
	"github.com/cartridge-gg/introspect/derive"
	"github.com/cartridge-gg/introspect/selector"
)

// ColumnSet is a struct projecting some columns of a table. Its members
// share names, and so column ids, with the table's members.
type ColumnSet struct {
	Struct  *derive.IStruct
	Table   string
	ID      felt.Felt
	KeyKind KeyKind
	Keys    []derive.IMember
	Columns []derive.IMember
}

// ExtractColumnSet reads a #[column_set(Table)] struct.
func ExtractColumnSet(item ast.Item, args []ast.Arg) (*ColumnSet, error) {
	t, err := derive.Extract(item)
	if err != nil {
		return nil, err
	}
	s, ok := t.(*derive.IStruct)
	if !ok {
		return nil, derive.NewError(derive.KindUnsupportedItem, t.Ident(), "", "#[column_set] applies to structs only")
	}
	if !s.Generics.IsEmpty() {
		return nil, derive.NewError(derive.KindUnsupportedItem, s.Decl, "", "column sets cannot be generic")
	}
	a, err := ParseArgs(s.Decl, args, true)
	if err != nil {
		return nil, err
	}
	if a.Target == nil {
		return nil, derive.NewError(derive.KindInvalidAttribute, s.Decl, "", "#[column_set] needs the table type, e.g. #[column_set(Player)]")
	}
	if a.Name != "" {
		return nil, derive.NewError(derive.KindInvalidAttribute, s.Decl, "", "column sets take no name")
	}
	keys, rest, err := leadingKeys(s)
	if err != nil {
		return nil, err
	}

	cs := &ColumnSet{Struct: s, Table: ast.ToCairo(a.Target), Keys: keys, Columns: rest}
	switch {
	case a.ID != nil:
		cs.ID = *a.ID
	case s.ID != nil:
		cs.ID = *s.ID
	default:
		cs.ID = *selector.Keccak(s.Name)
	}
	switch {
	case len(keys) == 0:
		cs.KeyKind = NoKey
	case len(keys) == 1 && derive.IsPrimaryType(keys[0].Type):
		cs.KeyKind = PrimaryKey
	default:
		cs.KeyKind = CompoundKey
	}
	return cs, nil
}

// EmitColumnSet prints the ColumnSet impl and, when the set carries keys,
// its record impl.
func EmitColumnSet(cs *ColumnSet, cfg derive.Config) string {
	decl := cs.Struct.Decl
	ids := make([]string, len(cs.Columns))
	for i, m := range cs.Columns {
		ids[i] = m.ID.String()
	}
	var w strings.Builder
	fmt.Fprintf(&w, "impl %sColumnSet of %s<%s, %s> {\n", decl, cfg.TableItem("ColumnSet"), cs.Table, decl)
	fmt.Fprintf(&w, "    const ID: felt252 = %s;\n\n", cs.ID.String())
	fmt.Fprintf(&w, "    fn columns() -> Span<felt252> {\n        [%s].span()\n    }\n}\n\n", strings.Join(ids, ", "))
	recordImpls(&w, decl, cs.KeyKind, cs.Keys, cfg)
	return w.String()
}

// ExpandColumnSet runs #[column_set] over item.
func ExpandColumnSet(item ast.Item, args []ast.Arg, cfg derive.Config) ([]ast.Item, error) {
	cs, err := ExtractColumnSet(item, args)
	if err != nil {
		return nil, err
	}
	impls, err := derive.ParseGenerated(cs.Struct.Decl, EmitColumnSet(cs, cfg))
	if err != nil {
		return nil, err
	}
	return append([]ast.Item{cs.Struct.Stripped()}, impls...), nil
}
