package java

import (
	"cmp"
	"slices"
	"strings"
)

type Field struct {
	declaringType *Type
	annotations   []Annotation
	modifiers     Modifiers
	typ           *Type
	name          string
}

type FieldSpec struct {
	// DeclaringType is the type that declares the field. Inherited fields
	// carry the supertype, re-parameterized for the inheriting type.
	DeclaringType *Type
	Annotations   []Annotation
	Modifiers     Modifiers
	Type          *Type
	Name          string
}

func NewField(spec FieldSpec) (*Field, error) {
	if spec.Name == "" {
		return nil, constructionErrorf("field without a name")
	}
	if spec.Type == nil {
		return nil, constructionErrorf("field %s has no type", spec.Name)
	}
	if spec.DeclaringType == nil {
		return nil, constructionErrorf("field %s has no declaring type", spec.Name)
	}
	if spec.Modifiers.Abstract {
		return nil, constructionErrorf("field %s cannot be abstract", spec.Name)
	}
	if err := spec.Modifiers.Validate(); err != nil {
		return nil, err
	}
	if err := validateAnnotations("field "+spec.Name, spec.Annotations); err != nil {
		return nil, err
	}
	return &Field{
		declaringType: spec.DeclaringType,
		annotations:   slices.Clone(spec.Annotations),
		modifiers:     spec.Modifiers,
		typ:           spec.Type,
		name:          spec.Name,
	}, nil
}

func (f *Field) DeclaringType() *Type       { return f.declaringType }
func (f *Field) Annotations() []Annotation  { return slices.Clone(f.annotations) }
func (f *Field) Modifiers() Modifiers       { return f.modifiers }
func (f *Field) Visibility() Visibility     { return f.modifiers.Visibility }
func (f *Field) Type() *Type                { return f.typ }
func (f *Field) Name() string               { return f.name }
func (f *Field) IsStatic() bool             { return f.modifiers.Static }
func (f *Field) IsFinal() bool              { return f.modifiers.Final }

// Substitute re-parameterizes the field's type and its declaring type.
func (f *Field) Substitute(bindings map[string]*Type) *Field {
	if len(bindings) == 0 {
		return f
	}
	return &Field{
		declaringType: f.declaringType.Substitute(bindings),
		annotations:   f.annotations,
		modifiers:     f.modifiers,
		typ:           f.typ.Substitute(bindings),
		name:          f.name,
	}
}

func (f *Field) Render(table *ReferenceTable) string {
	return renderAnnotations(table, f.annotations) +
		f.modifiers.Prefix() +
		f.typ.Render(table, false) + " " + f.name
}

func (f *Field) String() string {
	return f.Render(nil)
}

func (f *Field) Types() TypeSet {
	set := f.typ.Closure()
	set.AddAll(annotationTypes(f.annotations))
	return set
}

func (f *Field) key() string {
	var sb strings.Builder
	sb.WriteString(f.declaringType.Key())
	sb.WriteByte('#')
	sb.WriteString(f.modifiers.Prefix())
	sb.WriteString(f.typ.Key())
	sb.WriteByte(' ')
	sb.WriteString(f.name)
	for _, a := range f.annotations {
		sb.WriteByte(' ')
		sb.WriteString(a.key())
	}
	return sb.String()
}

func (f *Field) Equal(other *Field) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.key() == other.key()
}

// CompareFields orders by visibility, then name. Remaining ties fall back to
// the declaring type so listings are deterministic.
func CompareFields(a, b *Field) int {
	if c := compareVisibility(a.modifiers.Visibility, b.modifiers.Visibility); c != 0 {
		return c
	}
	if c := cmp.Compare(a.name, b.name); c != 0 {
		return c
	}
	if c := CompareTypes(a.declaringType, b.declaringType); c != 0 {
		return c
	}
	return cmp.Compare(a.key(), b.key())
}
