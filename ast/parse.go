package ast

import (
	"github.com/cockroachdb/errors"

	"github.com/cartridge-gg/introspect/syntax"
)

func parsed[T any](db *syntax.DB, root *syntax.Node, convert func(*syntax.DB, *syntax.Node) (T, error)) (T, error) {
	var zero T
	if err := db.Err(); err != nil {
		return zero, errors.WithStack(err)
	}
	if root == nil {
		return zero, errors.New("parsing produced no tree")
	}
	out, err := convert(db, root)
	if err != nil {
		return zero, errors.WithStack(err)
	}
	return out, nil
}

// ParseFile parses Cairo source into a File.
func ParseFile(src string) (*File, error) {
	db := syntax.NewDB()
	return parsed(db, db.ParseString(src), FileFromSyntax)
}

// ParseItem parses a token stream holding exactly one item.
func ParseItem(ts *syntax.TokenStream) (Item, error) {
	db := syntax.NewDB()
	return parsed(db, db.ParseItem(ts), ItemFromSyntax)
}

// ParseExpr parses src as a single expression.
func ParseExpr(src string) (Expr, error) {
	ts, err := syntax.FromString(src)
	if err != nil {
		return nil, err
	}
	db := syntax.NewDB()
	return parsed(db, db.ParseExpr(ts), ExprFromSyntax)
}

// ParseType parses src as a single type, e.g. Array<(u8, felt252)>.
func ParseType(src string) (Expr, error) {
	ts, err := syntax.FromString(src)
	if err != nil {
		return nil, err
	}
	db := syntax.NewDB()
	return parsed(db, db.ParseType(ts), ExprFromSyntax)
}

// ParseArgs parses the inside of an attribute or macro argument list.
func ParseArgs(ts *syntax.TokenStream) ([]Arg, error) {
	db := syntax.NewDB()
	return parsed(db, db.ParseArgs(ts), ArgsFromSyntax)
}

// MustParseExpr is ParseExpr for trusted input; it panics on error.
func MustParseExpr(src string) Expr {
	e, err := ParseExpr(src)
	if err != nil {
		panic(err)
	}
	return e
}
