package java

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// Type describes either a concrete type reference (primitive, class,
// interface, array, parameterized type) or a type parameter placeholder.
//
// A Type is immutable once built. Equality is structural and exposed through
// Key and Equal; the lazily computed key and closure are write-once caches.
type Type struct {
	pkg        string
	outer      []string // innermost first
	name       string
	args       []*Type
	bounds     []*Type
	param      bool
	lower      bool // wildcard bounds are lower bounds: ? super X
	arrayDepth int

	keyOnce     sync.Once
	key         string
	closureOnce sync.Once
	closure     []*Type
}

// TypeSpec holds the raw facts a Type is built from.
type TypeSpec struct {
	Package         string
	Outer           []string // innermost first
	Name            string
	Args            []*Type
	Bounds          []*Type
	IsTypeParameter bool
	// LowerBounds marks the bounds of a wildcard as "? super" bounds.
	LowerBounds bool
	ArrayDepth  int
}

var (
	VoidType    = MustType(TypeSpec{Name: "void"})
	IntType     = MustType(TypeSpec{Name: "int"})
	LongType    = MustType(TypeSpec{Name: "long"})
	BooleanType = MustType(TypeSpec{Name: "boolean"})
	StringType  = MustType(TypeSpec{Package: "java.lang", Name: "String"})
	ObjectType  = MustType(TypeSpec{Package: "java.lang", Name: "Object"})
	ClassType   = MustType(TypeSpec{Package: "java.lang", Name: "Class", Args: []*Type{Wildcard()}})
)

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

// IsPrimitiveName reports whether name is a primitive keyword or void.
func IsPrimitiveName(name string) bool {
	return primitiveNames[name] || name == "void"
}

// NewType validates spec and returns the described type.
func NewType(spec TypeSpec) (*Type, error) {
	if spec.Name == "" {
		return nil, constructionErrorf("type without a name")
	}
	if spec.ArrayDepth < 0 {
		return nil, constructionErrorf("negative array depth %d for %s", spec.ArrayDepth, spec.Name)
	}
	if spec.IsTypeParameter {
		if len(spec.Args) > 0 {
			return nil, constructionErrorf("type arguments given for type parameter %s", spec.Name)
		}
		if len(spec.Outer) > 0 {
			return nil, constructionErrorf("nesting classes given for type parameter %s", spec.Name)
		}
		if spec.Package != "" {
			return nil, constructionErrorf("non-empty package %q given for type parameter %s", spec.Package, spec.Name)
		}
	} else if len(spec.Bounds) > 0 {
		return nil, constructionErrorf("bounds given for non-type-parameter %s", spec.Name)
	}
	if spec.LowerBounds && (spec.Name != wildcardName || len(spec.Bounds) == 0) {
		return nil, constructionErrorf("lower bounds are only allowed on a bounded wildcard, not %s", spec.Name)
	}
	for i, a := range spec.Args {
		if a == nil {
			return nil, constructionErrorf("type argument %d of %s is nil", i, spec.Name)
		}
	}
	for i, b := range spec.Bounds {
		if b == nil {
			return nil, constructionErrorf("bound %d of %s is nil", i, spec.Name)
		}
	}
	return &Type{
		pkg:        spec.Package,
		outer:      slices.Clone(spec.Outer),
		name:       spec.Name,
		args:       slices.Clone(spec.Args),
		bounds:     slices.Clone(spec.Bounds),
		param:      spec.IsTypeParameter,
		lower:      spec.LowerBounds,
		arrayDepth: spec.ArrayDepth,
	}, nil
}

// MustType is NewType for specs known to be valid. It panics otherwise.
func MustType(spec TypeSpec) *Type {
	t, err := NewType(spec)
	if err != nil {
		panic(err)
	}
	return t
}

// TypeParam returns a type parameter named name with the given bounds.
func TypeParam(name string, bounds ...*Type) *Type {
	return MustType(TypeSpec{Name: name, IsTypeParameter: true, Bounds: bounds})
}

const wildcardName = "?"

// Wildcard is "?", or "? extends B1 & B2" when bounds are given.
func Wildcard(bounds ...*Type) *Type {
	return TypeParam(wildcardName, bounds...)
}

// WildcardSuper is "? super bound".
func WildcardSuper(bound *Type) *Type {
	return MustType(TypeSpec{Name: wildcardName, IsTypeParameter: true, Bounds: []*Type{bound}, LowerBounds: true})
}

// Named returns a top-level concrete type.
func Named(pkg, name string, args ...*Type) *Type {
	return MustType(TypeSpec{Package: pkg, Name: name, Args: args})
}

// Nested returns a concrete type enclosed by outer (innermost first).
func Nested(pkg string, outer []string, name string, args ...*Type) *Type {
	return MustType(TypeSpec{Package: pkg, Outer: outer, Name: name, Args: args})
}

// Primitive returns a primitive keyword type such as int or void.
func Primitive(name string) *Type {
	return MustType(TypeSpec{Name: name})
}

func (t *Type) Package() string       { return t.pkg }
func (t *Type) Name() string          { return t.name }
func (t *Type) IsTypeParameter() bool { return t.param }
func (t *Type) IsWildcard() bool      { return t.param && t.name == wildcardName }
func (t *Type) ArrayDepth() int       { return t.arrayDepth }
func (t *Type) IsArray() bool         { return t.arrayDepth > 0 }

// Outer returns the enclosing class names, innermost first.
func (t *Type) Outer() []string { return slices.Clone(t.outer) }

func (t *Type) Args() []*Type   { return slices.Clone(t.args) }
func (t *Type) Bounds() []*Type { return slices.Clone(t.bounds) }

func (t *Type) IsPrimitive() bool {
	return !t.param && t.arrayDepth == 0 && t.pkg == "" && len(t.outer) == 0 && primitiveNames[t.name]
}

func (t *Type) IsVoid() bool {
	return !t.param && t.arrayDepth == 0 && t.pkg == "" && t.name == "void"
}

// NestedName is the name qualified by its enclosing classes, outermost first.
func (t *Type) NestedName() string {
	if len(t.outer) == 0 {
		return t.name
	}
	parts := make([]string, 0, len(t.outer)+1)
	for i := len(t.outer) - 1; i >= 0; i-- {
		parts = append(parts, t.outer[i])
	}
	return strings.Join(append(parts, t.name), ".")
}

// QualifiedName is the package-qualified nested name without arguments.
func (t *Type) QualifiedName() string {
	if t.pkg == "" {
		return t.NestedName()
	}
	return t.pkg + "." + t.NestedName()
}

// OutermostName is the package-qualified name of the outermost enclosing
// class, or the qualified name for top-level types.
func (t *Type) OutermostName() string {
	if len(t.outer) == 0 {
		return t.QualifiedName()
	}
	outermost := t.outer[len(t.outer)-1]
	if t.pkg == "" {
		return outermost
	}
	return t.pkg + "." + outermost
}

// ElementType strips one array dimension.
func (t *Type) ElementType() *Type {
	if t.arrayDepth == 0 {
		return t
	}
	return t.withArrayDepth(t.arrayDepth - 1)
}

// ArrayOf adds one array dimension.
func (t *Type) ArrayOf() *Type {
	return t.withArrayDepth(t.arrayDepth + 1)
}

func (t *Type) withArrayDepth(depth int) *Type {
	if depth == t.arrayDepth {
		return t
	}
	return &Type{
		pkg:        t.pkg,
		outer:      t.outer,
		name:       t.name,
		args:       t.args,
		bounds:     t.bounds,
		param:      t.param,
		lower:      t.lower,
		arrayDepth: depth,
	}
}

// typeParameterNames adds the name of every type parameter appearing in t,
// its arguments or its bounds to names.
func typeParameterNames(t *Type, names map[string]bool) {
	if t == nil {
		return
	}
	if t.param {
		names[t.name] = true
	}
	for _, a := range t.args {
		typeParameterNames(a, names)
	}
	for _, b := range t.bounds {
		typeParameterNames(b, names)
	}
}

// RawType strips type arguments and array dimensions, keeping package,
// nesting and name.
func (t *Type) RawType() (*Type, error) {
	if t.param {
		return nil, errors.Wrapf(ErrNotConcrete, "cannot take the raw type of %s", t.name)
	}
	return t.rawType(), nil
}

func (t *Type) rawType() *Type {
	if len(t.args) == 0 && t.arrayDepth == 0 {
		return t
	}
	return &Type{pkg: t.pkg, outer: t.outer, name: t.name}
}

// Substitute replaces every type parameter named in bindings, anywhere in
// the structure, with the bound type. Parameters absent from bindings are kept.
//
// A parameter renamed to another parameter keeps its own bounds, substituted.
// A parameter replaced by a concrete type becomes that type; array
// dimensions of the parameter are carried over.
func (t *Type) Substitute(bindings map[string]*Type) *Type {
	if len(bindings) == 0 {
		return t
	}
	return t.substitute(bindings)
}

func (t *Type) substitute(bindings map[string]*Type) *Type {
	if !t.param {
		if len(t.args) == 0 {
			return t
		}
		args := make([]*Type, len(t.args))
		for i, a := range t.args {
			args[i] = a.substitute(bindings)
		}
		return &Type{pkg: t.pkg, outer: t.outer, name: t.name, args: args, arrayDepth: t.arrayDepth}
	}

	var bounds []*Type
	if len(t.bounds) > 0 {
		bounds = make([]*Type, len(t.bounds))
		for i, b := range t.bounds {
			bounds[i] = b.substitute(bindings)
		}
	}
	repl, ok := bindings[t.name]
	if !ok || repl == nil {
		return &Type{name: t.name, param: true, bounds: bounds, lower: t.lower, arrayDepth: t.arrayDepth}
	}
	if repl.param {
		return &Type{name: repl.name, param: true, bounds: bounds, arrayDepth: t.arrayDepth + repl.arrayDepth}
	}
	return repl.withArrayDepth(repl.arrayDepth + t.arrayDepth)
}

// SubstituteNames renames type parameters according to names.
func (t *Type) SubstituteNames(names map[string]string) *Type {
	return t.Substitute(bindingsFromNames(names))
}

func bindingsFromNames(names map[string]string) map[string]*Type {
	if len(names) == 0 {
		return nil
	}
	bindings := make(map[string]*Type, len(names))
	for from, to := range names {
		bindings[from] = TypeParam(to)
	}
	return bindings
}

// SubstituteArgs supplies arguments by position. For a concrete generic type
// the arguments are zipped against its own declared parameters; a type
// parameter takes exactly one argument which replaces it.
func (t *Type) SubstituteArgs(args []*Type) (*Type, error) {
	if t.param {
		if len(args) != 1 {
			return nil, constructionErrorf("cannot convert %s to <%s>, exactly 1 type argument is required",
				t, joinTypeNames(args))
		}
		return t.Substitute(map[string]*Type{t.name: args[0]}), nil
	}
	if len(args) != len(t.args) {
		return nil, constructionErrorf("cannot convert %s to <%s>, the number of type arguments does not match",
			t, joinTypeNames(args))
	}
	bindings := make(map[string]*Type, len(args))
	for i, declared := range t.args {
		if declared.param {
			bindings[declared.name] = args[i]
		}
	}
	return t.Substitute(bindings), nil
}

func joinTypeNames(types []*Type) string {
	names := make([]string, len(types))
	for i, a := range types {
		if a == nil {
			names[i] = "<nil>"
			continue
		}
		names[i] = a.name
	}
	return strings.Join(names, ", ")
}

// Closure returns every concrete raw type reachable from t: t itself when
// concrete, plus the closures of its arguments and bounds.
func (t *Type) Closure() TypeSet {
	t.closureOnce.Do(func() {
		var set TypeSet
		if !t.param {
			set.Add(t.rawType())
		}
		for _, a := range t.args {
			set.AddAll(a.Closure())
		}
		for _, b := range t.bounds {
			set.AddAll(b.Closure())
		}
		t.closure = set.Sorted()
	})
	return NewTypeSet(t.closure...)
}

// Types is Closure; it lets a Type stand in wherever member descriptors are
// collected.
func (t *Type) Types() TypeSet {
	return t.Closure()
}

// Classify maps the type onto a Kind by name. Arrays and type parameters are
// always references.
func (t *Type) Classify() Kind {
	if t.param || t.arrayDepth > 0 {
		return KindReference
	}
	if k, ok := kindsByName[t.QualifiedName()]; ok {
		return k
	}
	return KindReference
}

// Key is the canonical structural identity of t, usable as a map key.
func (t *Type) Key() string {
	t.keyOnce.Do(func() {
		var sb strings.Builder
		t.writeKey(&sb)
		t.key = sb.String()
	})
	return t.key
}

func (t *Type) writeKey(sb *strings.Builder) {
	if t.param {
		sb.WriteByte('\'')
		sb.WriteString(t.name)
		if len(t.bounds) > 0 {
			sb.WriteString(t.boundKeyword())
			for i, b := range t.bounds {
				if i > 0 {
					sb.WriteByte('&')
				}
				sb.WriteString(b.Key())
			}
		}
	} else {
		sb.WriteString(t.pkg)
		sb.WriteByte('/')
		sb.WriteString(t.NestedName())
		if len(t.args) > 0 {
			sb.WriteByte('<')
			for i, a := range t.args {
				if i > 0 {
					sb.WriteByte(',')
				}
				sb.WriteString(a.Key())
			}
			sb.WriteByte('>')
		}
	}
	for i := 0; i < t.arrayDepth; i++ {
		sb.WriteString("[]")
	}
}

// Equal reports structural equality.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t == other || t.Key() == other.Key()
}

// CompareTypes orders by name, then nesting chain, then package. It is a
// listing order, not a semantic one.
func CompareTypes(a, b *Type) int {
	if c := cmp.Compare(a.name, b.name); c != 0 {
		return c
	}
	if c := compareStringLists(a.outer, b.outer); c != 0 {
		return c
	}
	return cmp.Compare(a.pkg, b.pkg)
}

func compareStringLists(a, b []string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	for i := range a {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareTypeLists(a, b []*Type) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	for i := range a {
		if c := CompareTypes(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Render writes t as it should appear in generated source: the reference form
// chosen by table, then its arguments, then its bounds when includeBounds is
// set. Bounds are rendered one level deep only. A nil table qualifies every
// concrete type fully.
func (t *Type) Render(table *ReferenceTable, includeBounds bool) string {
	var sb strings.Builder
	t.render(&sb, table, includeBounds)
	return sb.String()
}

func (t *Type) render(sb *strings.Builder, table *ReferenceTable, includeBounds bool) {
	if t.param {
		sb.WriteString(t.name)
	} else {
		sb.WriteString(table.referenceName(t))
		if len(t.args) > 0 {
			sb.WriteByte('<')
			for i, a := range t.args {
				if i > 0 {
					sb.WriteString(", ")
				}
				a.render(sb, table, includeBounds)
			}
			sb.WriteByte('>')
		}
	}
	for i := 0; i < t.arrayDepth; i++ {
		sb.WriteString("[]")
	}
	// A wildcard's bounds belong to the use site and are always written.
	if t.param && (includeBounds || t.name == wildcardName) && len(t.bounds) > 0 {
		sb.WriteString(t.boundKeyword())
		for i, b := range t.bounds {
			if i > 0 {
				sb.WriteString(" & ")
			}
			b.render(sb, table, false)
		}
	}
}

func (t *Type) boundKeyword() string {
	if t.lower {
		return " super "
	}
	return " extends "
}

// String is the full description: fully qualified, with bounds.
func (t *Type) String() string {
	return t.Render(nil, true)
}

// TypeSet is a set of types keyed by structural identity. The zero value is
// an empty set ready to use.
type TypeSet struct {
	m map[string]*Type
}

func NewTypeSet(types ...*Type) TypeSet {
	var s TypeSet
	for _, t := range types {
		s.Add(t)
	}
	return s
}

func (s *TypeSet) Add(t *Type) {
	if t == nil {
		return
	}
	if s.m == nil {
		s.m = make(map[string]*Type)
	}
	s.m[t.Key()] = t
}

func (s *TypeSet) AddAll(other TypeSet) {
	for _, t := range other.m {
		s.Add(t)
	}
}

func (s TypeSet) Contains(t *Type) bool {
	if t == nil {
		return false
	}
	_, ok := s.m[t.Key()]
	return ok
}

func (s TypeSet) Len() int {
	return len(s.m)
}

// Sorted lists the set in CompareTypes order, ties broken by Key.
func (s TypeSet) Sorted() []*Type {
	result := make([]*Type, 0, len(s.m))
	for _, t := range s.m {
		result = append(result, t)
	}
	slices.SortFunc(result, func(a, b *Type) int {
		if c := CompareTypes(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.Key(), b.Key())
	})
	return result
}

// TypeUser is implemented by every descriptor that references types.
type TypeUser interface {
	Types() TypeSet
}

// CollectTypes unions the type closures of all users, which is what a
// ReferenceTable is built from.
func CollectTypes(users ...TypeUser) TypeSet {
	var set TypeSet
	for _, u := range users {
		if u == nil {
			continue
		}
		set.AddAll(u.Types())
	}
	return set
}
