package java

import (
	"slices"
	"strings"
	"sync"
)

// Class describes one declared class or interface together with the edges
// to its supertypes. It is immutable once built; the flattened member
// surface is computed on first use and cached.
type Class struct {
	modifiers    Modifiers
	category     Category
	typ          *Type
	annotations  []Annotation
	inheritance  []*Inheritance
	constructors []*Constructor
	fields       []*Field
	methods      []*Method

	fieldsOnce  sync.Once
	allFields   []*Field
	methodsOnce sync.Once
	allMethods  []*Method
}

type ClassSpec struct {
	Modifiers    Modifiers
	Category     Category
	Type         *Type
	Annotations  []Annotation
	Inheritance  []*Inheritance
	Constructors []*Constructor
	Fields       []*Field
	Methods      []*Method
}

// NewClass validates spec. The class type must be concrete and every one of
// its arguments must be a declared type parameter.
func NewClass(spec ClassSpec) (*Class, error) {
	if spec.Type == nil {
		return nil, constructionErrorf("class without a type")
	}
	name := spec.Type.QualifiedName()
	if spec.Type.param {
		return nil, constructionErrorf("class type %s is a type parameter", spec.Type.name)
	}
	if spec.Type.arrayDepth > 0 {
		return nil, constructionErrorf("class type %s is an array", name)
	}
	for _, a := range spec.Type.args {
		if !a.param {
			return nil, constructionErrorf("class %s declares %s as a type parameter", name, a)
		}
	}
	switch spec.Category {
	case CategoryClass, CategoryInterface:
	case "":
		spec.Category = CategoryClass
	default:
		return nil, constructionErrorf("class %s has unknown category %q", name, string(spec.Category))
	}
	if err := spec.Modifiers.Validate(); err != nil {
		return nil, err
	}
	if err := validateAnnotations("class "+name, spec.Annotations); err != nil {
		return nil, err
	}
	for i, edge := range spec.Inheritance {
		if edge == nil {
			return nil, constructionErrorf("inheritance edge %d of %s is nil", i, name)
		}
	}
	for i, f := range spec.Fields {
		if f == nil {
			return nil, constructionErrorf("field %d of %s is nil", i, name)
		}
	}
	for i, m := range spec.Methods {
		if m == nil {
			return nil, constructionErrorf("method %d of %s is nil", i, name)
		}
	}

	var constructors []*Constructor
	seen := make(map[string]bool)
	for i, c := range spec.Constructors {
		if c == nil {
			return nil, constructionErrorf("constructor %d of %s is nil", i, name)
		}
		if seen[c.key()] {
			continue
		}
		seen[c.key()] = true
		constructors = append(constructors, c)
	}
	slices.SortStableFunc(constructors, CompareConstructors)

	return &Class{
		modifiers:    spec.Modifiers,
		category:     spec.Category,
		typ:          spec.Type,
		annotations:  slices.Clone(spec.Annotations),
		inheritance:  slices.Clone(spec.Inheritance),
		constructors: constructors,
		fields:       slices.Clone(spec.Fields),
		methods:      slices.Clone(spec.Methods),
	}, nil
}

func (c *Class) Modifiers() Modifiers            { return c.modifiers }
func (c *Class) Category() Category              { return c.category }
func (c *Class) IsInterface() bool               { return c.category == CategoryInterface }
func (c *Class) Type() *Type                     { return c.typ }
func (c *Class) Annotations() []Annotation       { return slices.Clone(c.annotations) }
func (c *Class) Inheritance() []*Inheritance     { return slices.Clone(c.inheritance) }
func (c *Class) Constructors() []*Constructor    { return slices.Clone(c.constructors) }
func (c *Class) Fields() []*Field                { return slices.Clone(c.fields) }
func (c *Class) Methods() []*Method              { return slices.Clone(c.methods) }
func (c *Class) QualifiedName() string           { return c.typ.QualifiedName() }
func (c *Class) String() string                  { return c.typ.QualifiedName() }

// TypeParameters are the parameters declared by the class type.
func (c *Class) TypeParameters() []*Type {
	return c.typ.Args()
}

// AllFields returns the declared fields plus every non-private field
// inherited through any edge, re-parameterized for this class and sorted by
// visibility, then name.
func (c *Class) AllFields() []*Field {
	c.fieldsOnce.Do(func() {
		c.allFields = c.flattenFields()
	})
	return slices.Clone(c.allFields)
}

func (c *Class) flattenFields() []*Field {
	var merged []*Field
	seen := make(map[string]bool)
	add := func(f *Field) {
		k := f.key()
		if seen[k] {
			return
		}
		seen[k] = true
		merged = append(merged, f)
	}
	for _, edge := range c.inheritance {
		for _, f := range edge.AllFields() {
			if f.Visibility() == VisibilityPrivate {
				continue
			}
			add(f)
		}
	}
	for _, f := range c.fields {
		add(f)
	}
	slices.SortStableFunc(merged, CompareFields)
	return merged
}

// AllMethods returns the complete method surface: declared methods plus
// every non-private method inherited through any edge, re-parameterized for
// this class. An abstract method is dropped when a concrete method with the
// same override key exists anywhere in that set.
func (c *Class) AllMethods() []*Method {
	c.methodsOnce.Do(func() {
		c.allMethods = c.flattenMethods()
	})
	return slices.Clone(c.allMethods)
}

func (c *Class) flattenMethods() []*Method {
	var merged []*Method
	seen := make(map[string]bool)
	add := func(m *Method) {
		k := m.key()
		if seen[k] {
			return
		}
		seen[k] = true
		merged = append(merged, m)
	}
	for _, edge := range c.inheritance {
		for _, m := range edge.AllMethods() {
			if m.Visibility() == VisibilityPrivate {
				continue
			}
			add(m)
		}
	}
	for _, m := range c.methods {
		add(m)
	}

	concrete := make(map[string]bool)
	for _, m := range merged {
		if !m.IsAbstract() {
			concrete[m.OverrideKey()] = true
		}
	}
	result := make([]*Method, 0, len(merged))
	for _, m := range merged {
		if m.IsAbstract() && concrete[m.OverrideKey()] {
			continue
		}
		result = append(result, m)
	}
	slices.SortStableFunc(result, CompareMethods)
	return result
}

// AbstractMethods is the part of AllMethods still left to implement.
func (c *Class) AbstractMethods() []*Method {
	var result []*Method
	for _, m := range c.AllMethods() {
		if m.IsAbstract() {
			result = append(result, m)
		}
	}
	return result
}

// Types collects every type the declaration references: its own type, the
// supertypes, and the declared constructors, fields, methods and annotations.
func (c *Class) Types() TypeSet {
	set := c.typ.Closure()
	set.AddAll(annotationTypes(c.annotations))
	for _, edge := range c.inheritance {
		set.AddAll(edge.Types())
	}
	for _, ctor := range c.constructors {
		set.AddAll(ctor.Types())
	}
	for _, f := range c.fields {
		set.AddAll(f.Types())
	}
	for _, m := range c.methods {
		set.AddAll(m.Types())
	}
	return set
}

// SupertypeClauses renders the extends and implements clauses of the
// declaration, either of which may be empty.
func (c *Class) SupertypeClauses(table *ReferenceTable) (extends, implements []string) {
	for _, edge := range c.inheritance {
		rendered := edge.SupertypeReference().Render(table, false)
		if c.IsInterface() || !edge.Super().IsInterface() {
			extends = append(extends, rendered)
		} else {
			implements = append(implements, rendered)
		}
	}
	return extends, implements
}

// Declaration renders the class header up to, not including, the opening
// brace.
func (c *Class) Declaration(table *ReferenceTable) string {
	var sb strings.Builder
	sb.WriteString(renderAnnotations(table, c.annotations))
	mods := c.modifiers
	if c.IsInterface() {
		mods.Abstract = false
	}
	sb.WriteString(mods.Prefix())
	sb.WriteString(string(c.category))
	sb.WriteByte(' ')
	sb.WriteString(c.typ.name)
	if len(c.typ.args) > 0 {
		parts := make([]string, len(c.typ.args))
		for i, a := range c.typ.args {
			parts[i] = a.Render(table, true)
		}
		sb.WriteString("<" + strings.Join(parts, ", ") + ">")
	}
	extends, implements := c.SupertypeClauses(table)
	if len(extends) > 0 {
		sb.WriteString(" extends " + strings.Join(extends, ", "))
	}
	if len(implements) > 0 {
		sb.WriteString(" implements " + strings.Join(implements, ", "))
	}
	return sb.String()
}
