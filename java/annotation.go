package java

import (
	"strings"
)

// AnnotationValue is one element of an annotation usage. Value holds the
// source literal exactly as it should be emitted.
type AnnotationValue struct {
	Name  string
	Type  *Type
	Value string
}

type Annotation struct {
	Type   *Type
	Values []AnnotationValue
}

// NewAnnotation validates that the annotation type is concrete and that every
// element is named.
func NewAnnotation(t *Type, values ...AnnotationValue) (Annotation, error) {
	if t == nil {
		return Annotation{}, constructionErrorf("annotation without a type")
	}
	if t.param {
		return Annotation{}, constructionErrorf("annotation type %s is a type parameter", t.name)
	}
	for i, v := range values {
		if v.Name == "" {
			return Annotation{}, constructionErrorf("element %d of @%s has no name", i, t.name)
		}
	}
	return Annotation{Type: t, Values: append([]AnnotationValue(nil), values...)}, nil
}

// Render writes the annotation usage. A lone element named "value" uses the
// single-element shorthand.
func (a Annotation) Render(table *ReferenceTable) string {
	var sb strings.Builder
	sb.WriteByte('@')
	sb.WriteString(a.Type.Render(table, false))
	switch {
	case len(a.Values) == 0:
	case len(a.Values) == 1 && a.Values[0].Name == "value":
		sb.WriteByte('(')
		sb.WriteString(a.Values[0].Value)
		sb.WriteByte(')')
	default:
		sb.WriteByte('(')
		for i, v := range a.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(v.Name)
			sb.WriteString(" = ")
			sb.WriteString(v.Value)
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

func (a Annotation) String() string {
	return a.Render(nil)
}

func (a Annotation) Types() TypeSet {
	set := a.Type.Closure()
	for _, v := range a.Values {
		if v.Type != nil {
			set.AddAll(v.Type.Closure())
		}
	}
	return set
}

func (a Annotation) key() string {
	var sb strings.Builder
	sb.WriteByte('@')
	sb.WriteString(a.Type.Key())
	for _, v := range a.Values {
		sb.WriteByte(' ')
		sb.WriteString(v.Name)
		sb.WriteByte('=')
		sb.WriteString(v.Value)
	}
	return sb.String()
}

func (a Annotation) Equal(other Annotation) bool {
	return a.key() == other.key()
}

func validateAnnotations(owner string, anns []Annotation) error {
	for i, a := range anns {
		if a.Type == nil {
			return constructionErrorf("annotation %d of %s has no type", i, owner)
		}
	}
	return nil
}

func renderAnnotations(table *ReferenceTable, anns []Annotation) string {
	if len(anns) == 0 {
		return ""
	}
	parts := make([]string, len(anns))
	for i, a := range anns {
		parts[i] = a.Render(table)
	}
	return strings.Join(parts, " ") + " "
}

func annotationTypes(anns []Annotation) TypeSet {
	var set TypeSet
	for _, a := range anns {
		set.AddAll(a.Types())
	}
	return set
}
