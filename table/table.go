// Package table derives the table traits of a struct annotated with
// #[table]: its schema, per-column accessors and the record key.
package table

import (
	"github.com/NethermindEth/juno/core/felt"
	"go.uber.org/zap"

	"github.com/cartridge-gg/introspect/ast"
	"github.com/cartridge-gg/introspect/derive"
	"github.com/cartridge-gg/introspect/selector"
)

// KeyKind says how records of a table are identified.
type KeyKind uint8

const (
	// NoKey tables are addressed by an explicit felt252 id.
	NoKey KeyKind = iota
	// PrimaryKey tables have a single key of a primary scalar type.
	PrimaryKey
	// CompoundKey tables hash a tuple of keys into the record id.
	CompoundKey
)

func (k KeyKind) String() string {
	switch k {
	case PrimaryKey:
		return "primary"
	case CompoundKey:
		return "compound"
	}
	return "none"
}

// DefaultPrimaryName names the implicit id column of tables without a
// primary member.
const DefaultPrimaryName = "__id"

// TableStructure is a struct read as a table.
type TableStructure struct {
	Struct  *derive.IStruct
	Name    string
	ID      felt.Felt
	KeyKind KeyKind
	// Keys is the leading run of #[key] members.
	Keys []derive.IMember
	// Columns are the stored members; the primary member is not one.
	Columns []derive.IMember
}

// Primary is the primary member of a PrimaryKey table.
func (t *TableStructure) Primary() (derive.IMember, bool) {
	if t.KeyKind != PrimaryKey {
		return derive.IMember{}, false
	}
	return t.Keys[0], true
}

// Args are the named arguments of #[table(...)] and #[column_set(...)].
type Args struct {
	Name   string
	ID     *felt.Felt
	Target *ast.Path // the table a column set projects
}

// ParseArgs reads name: "..." and id: literal, plus an optional bare path
// when allowTarget is set.
func ParseArgs(item string, args []ast.Arg, allowTarget bool) (Args, error) {
	var out Args
	seen := make(map[string]bool)
	for _, a := range args {
		if a.Name == nil {
			p, ok := a.Value.(*ast.Path)
			if !allowTarget || !ok || out.Target != nil {
				return out, derive.NewError(derive.KindInvalidAttribute, item, "", "unexpected argument %s", ast.ToCairo(a.Value))
			}
			out.Target = p
			continue
		}
		key := *a.Name
		if seen[key] {
			return out, derive.DuplicateAttribute(item, "", key)
		}
		seen[key] = true
		switch key {
		case "name":
			name, ok := derive.LiteralText(a.Value)
			if !ok || name == "" {
				return out, derive.NewError(derive.KindInvalidAttribute, item, "", "name expects a non-empty string")
			}
			out.Name = name
		case "id":
			id, err := selector.ParseID(ast.ToCairo(a.Value))
			if err != nil {
				return out, derive.NewError(derive.KindInvalidAttribute, item, "", "%v", err)
			}
			out.ID = id
		default:
			return out, derive.NewError(derive.KindInvalidAttribute, item, "", "unknown argument %q", key)
		}
	}
	return out, nil
}

// leadingKeys splits members into the #[key] prefix and the rest; a key
// after the prefix fails with KeysNotFirst.
func leadingKeys(s *derive.IStruct) (keys, rest []derive.IMember, err error) {
	i := 0
	for i < len(s.Members) && s.Members[i].Key {
		i++
	}
	for _, m := range s.Members[i:] {
		if m.Key {
			return nil, nil, derive.NewError(derive.KindKeysNotFirst, s.Decl, m.Field, "#[key] members must come before every other member")
		}
	}
	return s.Members[:i], s.Members[i:], nil
}

// Extract reads a #[table] struct.
func Extract(item ast.Item, args []ast.Arg) (*TableStructure, error) {
	t, err := derive.Extract(item)
	if err != nil {
		return nil, err
	}
	s, ok := t.(*derive.IStruct)
	if !ok {
		return nil, derive.NewError(derive.KindUnsupportedItem, t.Ident(), "", "#[table] applies to structs only")
	}
	if !s.Generics.IsEmpty() {
		return nil, derive.NewError(derive.KindUnsupportedItem, s.Decl, "", "tables cannot be generic")
	}
	a, err := ParseArgs(s.Decl, args, false)
	if err != nil {
		return nil, err
	}
	keys, rest, err := leadingKeys(s)
	if err != nil {
		return nil, err
	}

	ts := &TableStructure{Struct: s, Name: s.Name, Keys: keys}
	if a.Name != "" {
		ts.Name = a.Name
	}
	switch {
	case a.ID != nil:
		ts.ID = *a.ID
	case s.ID != nil:
		ts.ID = *s.ID
	default:
		ts.ID = *selector.Keccak(ts.Name)
	}

	switch {
	case len(keys) == 0:
		ts.KeyKind = NoKey
		ts.Columns = rest
	case len(keys) == 1 && derive.IsPrimaryType(keys[0].Type):
		ts.KeyKind = PrimaryKey
		ts.Columns = rest
	default:
		ts.KeyKind = CompoundKey
		ts.Columns = s.Members
	}
	Logger().Debug("extracted table",
		zap.String("table", ts.Name),
		zap.Stringer("keys", ts.KeyKind),
		zap.Int("columns", len(ts.Columns)),
	)
	return ts, nil
}
