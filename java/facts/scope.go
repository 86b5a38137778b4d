package facts

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jmodel/java"
)

// javaLangTypes are the java.lang names an unqualified reference may mean
// without an import.
var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "Class": true, "System": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Character": true, "Boolean": true, "Void": true,
	"Number": true, "Comparable": true, "CharSequence": true,
	"Iterable": true, "Cloneable": true, "Runnable": true, "AutoCloseable": true,
	"Thread": true, "StringBuilder": true, "StringBuffer": true,
	"Math": true, "Enum": true, "Record": true,
	"IllegalArgumentException": true, "IllegalStateException": true,
	"UnsupportedOperationException": true, "NullPointerException": true,
	"Override": true, "Deprecated": true, "SuppressWarnings": true,
	"FunctionalInterface": true, "SafeVarargs": true,
}

// classIndex knows every class declared in the loaded documents.
type classIndex struct {
	byName map[string]*ClassFact
	// package -> simple name -> qualified name, for nested classes only
	nested map[string]map[string]string
}

func newClassIndex() *classIndex {
	return &classIndex{
		byName: make(map[string]*ClassFact),
		nested: make(map[string]map[string]string),
	}
}

func (x *classIndex) add(c *ClassFact) {
	name := c.QualifiedName()
	x.byName[name] = c
	if len(c.Outer) == 0 {
		return
	}
	if x.nested[c.Package] == nil {
		x.nested[c.Package] = make(map[string]string)
	}
	x.nested[c.Package][c.Name] = name
}

// typeName is a resolved concrete name.
type typeName struct {
	pkg   string
	outer []string // innermost first
	name  string
}

func (n typeName) qualified() string {
	return ClassFact{Package: n.pkg, Outer: n.outer, Name: n.name}.QualifiedName()
}

// nameOf splits a fully qualified name. Declared classes are split exactly;
// a "pkg.Simple" reference to a known nested class of pkg is redirected to
// it; anything else is split at the first segment starting with an upper
// case letter.
func (x *classIndex) nameOf(qualified string) typeName {
	if c, ok := x.byName[qualified]; ok {
		return typeName{pkg: c.Package, outer: c.Outer, name: c.Name}
	}
	if dot := strings.LastIndex(qualified, "."); dot >= 0 {
		if full, ok := x.nested[qualified[:dot]][qualified[dot+1:]]; ok {
			c := x.byName[full]
			return typeName{pkg: c.Package, outer: c.Outer, name: c.Name}
		}
	}

	parts := strings.Split(qualified, ".")
	start := len(parts) - 1
	for i, part := range parts {
		if part != "" && part[0] >= 'A' && part[0] <= 'Z' {
			start = i
			break
		}
	}
	n := typeName{
		pkg:  strings.Join(parts[:start], "."),
		name: parts[len(parts)-1],
	}
	for i := len(parts) - 2; i >= start; i-- {
		n.outer = append(n.outer, parts[i])
	}
	return n
}

// scope resolves the names used inside one class declaration.
type scope struct {
	index    *classIndex
	class    *ClassFact
	params   map[string]bool
	imports  map[string]string // simple name -> qualified name
	onDemand []string          // packages or classes imported with .*
}

func newScope(index *classIndex, class *ClassFact) *scope {
	s := &scope{
		index:   index,
		class:   class,
		params:  make(map[string]bool),
		imports: make(map[string]string),
	}
	for _, imp := range class.Imports {
		imp = strings.TrimSpace(imp)
		if prefix, ok := strings.CutSuffix(imp, ".*"); ok {
			s.onDemand = append(s.onDemand, prefix)
			continue
		}
		if dot := strings.LastIndex(imp, "."); dot >= 0 {
			s.imports[imp[dot+1:]] = imp
		}
	}
	return s
}

// with returns a child scope that additionally sees the given type
// parameters. Method type parameters shadow class ones of the same name.
func (s *scope) with(params ...string) *scope {
	child := *s
	child.params = make(map[string]bool, len(s.params)+len(params))
	for p := range s.params {
		child.params[p] = true
	}
	for _, p := range params {
		child.params[p] = true
	}
	return &child
}

// resolveSimple finds the class an unqualified name refers to: member
// classes of the declaring class and its enclosing classes, single-type
// imports, classes of the same package, on-demand imports, then java.lang.
// An unknown name is assumed to live in the declaring package.
func (s *scope) resolveSimple(simple string) string {
	enclosing := s.class.QualifiedName()
	for {
		if _, ok := s.index.byName[enclosing+"."+simple]; ok {
			return enclosing + "." + simple
		}
		dot := strings.LastIndex(enclosing, ".")
		if dot < 0 || len(enclosing[:dot]) <= len(s.class.Package) {
			break
		}
		enclosing = enclosing[:dot]
	}
	if q, ok := s.imports[simple]; ok {
		return q
	}
	samePackage := simple
	if s.class.Package != "" {
		samePackage = s.class.Package + "." + simple
	}
	if _, ok := s.index.byName[samePackage]; ok {
		return samePackage
	}
	for _, prefix := range s.onDemand {
		if _, ok := s.index.byName[prefix+"."+simple]; ok {
			return prefix + "." + simple
		}
	}
	if javaLangTypes[simple] {
		return "java.lang." + simple
	}
	return samePackage
}

// resolveName turns a dotted name as written into a concrete name. A
// leading segment starting with an upper case letter is a class visible
// from this scope (Map.Entry); otherwise the name is fully qualified.
func (s *scope) resolveName(written string) typeName {
	first, rest, dotted := strings.Cut(written, ".")
	if !dotted {
		return s.index.nameOf(s.resolveSimple(written))
	}
	if first != "" && first[0] >= 'A' && first[0] <= 'Z' {
		return s.index.nameOf(s.resolveSimple(first) + "." + rest)
	}
	return s.index.nameOf(written)
}

// typeOf builds the java.Type for an expression. References to type
// parameters carry no bounds; bounds belong to the declaration.
func (s *scope) typeOf(e *typeExpr) (*java.Type, error) {
	if e.isWildcard() {
		bounds, err := s.typesOf(e.bounds)
		if err != nil {
			return nil, err
		}
		if e.array > 0 {
			return nil, java.UnsupportedShapef("array of wildcard")
		}
		if e.lower {
			return java.WildcardSuper(bounds[0]), nil
		}
		return java.Wildcard(bounds...), nil
	}

	if s.params[e.name] {
		if len(e.args) > 0 {
			return nil, java.UnsupportedShapef("type parameter %s takes no type arguments", e.name)
		}
		return java.NewType(java.TypeSpec{Name: e.name, IsTypeParameter: true, ArrayDepth: e.array})
	}
	if java.IsPrimitiveName(e.name) {
		if len(e.args) > 0 {
			return nil, java.UnsupportedShapef("primitive %s takes no type arguments", e.name)
		}
		if e.name == "void" && e.array > 0 {
			return nil, java.UnsupportedShapef("array of void")
		}
		return java.NewType(java.TypeSpec{Name: e.name, ArrayDepth: e.array})
	}

	args, err := s.typesOf(e.args)
	if err != nil {
		return nil, err
	}
	n := s.resolveName(e.name)
	return java.NewType(java.TypeSpec{
		Package:    n.pkg,
		Outer:      n.outer,
		Name:       n.name,
		Args:       args,
		ArrayDepth: e.array,
	})
}

func (s *scope) typesOf(exprs []*typeExpr) ([]*java.Type, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	types := make([]*java.Type, len(exprs))
	for i, e := range exprs {
		t, err := s.typeOf(e)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// parse parses and resolves a type expression.
func (s *scope) parse(src string) (*java.Type, error) {
	e, err := parseTypeExpr(src)
	if err != nil {
		return nil, err
	}
	t, err := s.typeOf(e)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", s.class.QualifiedName())
	}
	return t, nil
}

// typeParameters declares params in this scope and resolves their bounds.
// A bound may mention any of the parameters being declared. java.lang.Object
// bounds are implied and dropped.
func (s *scope) typeParameters(facts []TypeParameterFact) (*scope, []*java.Type, error) {
	names := make([]string, len(facts))
	for i, f := range facts {
		if f.Name == "" {
			return nil, nil, java.UnsupportedShapef("type parameter %d of %s has no name", i, s.class.QualifiedName())
		}
		names[i] = f.Name
	}
	inner := s.with(names...)

	params := make([]*java.Type, len(facts))
	for i, f := range facts {
		var bounds []*java.Type
		for _, b := range f.Bounds {
			bound, err := inner.parse(b)
			if err != nil {
				return nil, nil, err
			}
			if bound.Equal(java.ObjectType) {
				continue
			}
			bounds = append(bounds, bound)
		}
		params[i] = java.TypeParam(f.Name, bounds...)
	}
	return inner, params, nil
}
