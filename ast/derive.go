package ast

// DeriveAttribute is the name of the attribute that lists derived traits.
const DeriveAttribute = "derive"

// SplitDerives separates #[derive(...)] attributes from the rest. The
// derived trait paths are returned in order of appearance; other
// attributes keep their relative order.
func SplitDerives(attrs []Attribute) (derives []*Path, rest []Attribute) {
	for _, a := range attrs {
		if a.Name() != DeriveAttribute || a.Args == nil {
			rest = append(rest, a)
			continue
		}
		for _, arg := range a.Args.Args {
			if p, ok := arg.Value.(*Path); ok && arg.Name == nil {
				derives = append(derives, p)
			}
		}
	}
	return derives, rest
}

// DeriveNames is SplitDerives reduced to the last segment of each path.
func DeriveNames(attrs []Attribute) []string {
	paths, _ := SplitDerives(attrs)
	var names []string
	for _, p := range paths {
		names = append(names, p.Last().Name)
	}
	return names
}

// HasDerive reports whether attrs derive a trait whose last path segment
// is name.
func HasDerive(attrs []Attribute, name string) bool {
	for _, n := range DeriveNames(attrs) {
		if n == name {
			return true
		}
	}
	return false
}

// DeriveAttr builds #[derive(a, b)].
func DeriveAttr(names ...string) Attribute {
	args := make([]Arg, len(names))
	for i, n := range names {
		args[i] = Arg{Value: NewPath(n)}
	}
	return Attribute{Path: NewPath(DeriveAttribute), Args: &ArgClause{Args: args}}
}

// NewAttribute builds #[name] or #[name(args...)] from already built
// expressions.
func NewAttribute(name string, args ...Expr) Attribute {
	a := Attribute{Path: NewPath(name)}
	if len(args) > 0 {
		clause := &ArgClause{Args: make([]Arg, len(args))}
		for i, e := range args {
			clause.Args[i] = Arg{Value: e}
		}
		a.Args = clause
	}
	return a
}
