package java

import (
	"cmp"
	"slices"
	"strings"
)

type Method struct {
	annotations    []Annotation
	modifiers      Modifiers
	typeParameters []*Type
	name           string
	returnType     *Type
	parameters     []Parameter
}

type MethodSpec struct {
	Annotations    []Annotation
	Modifiers      Modifiers
	TypeParameters []*Type
	Name           string
	ReturnType     *Type
	Parameters     []Parameter
}

func NewMethod(spec MethodSpec) (*Method, error) {
	if spec.Name == "" {
		return nil, constructionErrorf("method without a name")
	}
	if spec.ReturnType == nil {
		return nil, constructionErrorf("method %s has no return type", spec.Name)
	}
	if err := spec.Modifiers.Validate(); err != nil {
		return nil, err
	}
	for i, tp := range spec.TypeParameters {
		if tp == nil {
			return nil, constructionErrorf("type parameter %d of method %s is nil", i, spec.Name)
		}
		if !tp.param {
			return nil, constructionErrorf("cannot add %s as a type parameter of method %s", tp, spec.Name)
		}
	}
	if err := validateParameters("method "+spec.Name, spec.Parameters); err != nil {
		return nil, err
	}
	if err := validateAnnotations("method "+spec.Name, spec.Annotations); err != nil {
		return nil, err
	}
	return &Method{
		annotations:    slices.Clone(spec.Annotations),
		modifiers:      spec.Modifiers,
		typeParameters: slices.Clone(spec.TypeParameters),
		name:           spec.Name,
		returnType:     spec.ReturnType,
		parameters:     slices.Clone(spec.Parameters),
	}, nil
}

func (m *Method) Annotations() []Annotation { return slices.Clone(m.annotations) }
func (m *Method) Modifiers() Modifiers       { return m.modifiers }
func (m *Method) Visibility() Visibility     { return m.modifiers.Visibility }
func (m *Method) TypeParameters() []*Type    { return slices.Clone(m.typeParameters) }
func (m *Method) Name() string               { return m.name }
func (m *Method) ReturnType() *Type          { return m.returnType }
func (m *Method) Parameters() []Parameter    { return slices.Clone(m.parameters) }
func (m *Method) IsAbstract() bool           { return m.modifiers.Abstract }
func (m *Method) IsStatic() bool             { return m.modifiers.Static }
func (m *Method) IsFinal() bool              { return m.modifiers.Final }

func (m *Method) with(modify func(*Method)) *Method {
	clone := *m
	modify(&clone)
	return &clone
}

func (m *Method) AsAbstract() *Method {
	return m.with(func(c *Method) { c.modifiers = c.modifiers.MakeAbstract() })
}

func (m *Method) AsConcrete() *Method {
	return m.with(func(c *Method) { c.modifiers.Abstract = false })
}

func (m *Method) WithoutAnnotations() *Method {
	return m.with(func(c *Method) { c.annotations = nil })
}

// Substitute re-parameterizes the signature. The method's own type
// parameters shadow the incoming bindings: any of them whose name is already
// used by a binding is renamed to the next free name in A, B, ..., Z, AA, ...
func (m *Method) Substitute(bindings map[string]*Type) *Method {
	if len(bindings) == 0 {
		return m
	}
	bindings = m.protectTypeParameters(bindings)

	typeParams := make([]*Type, len(m.typeParameters))
	for i, tp := range m.typeParameters {
		typeParams[i] = tp.Substitute(bindings)
	}
	params := make([]Parameter, len(m.parameters))
	for i, p := range m.parameters {
		params[i] = p.substitute(bindings)
	}
	return &Method{
		annotations:    m.annotations,
		modifiers:      m.modifiers,
		typeParameters: typeParams,
		name:           m.name,
		returnType:     m.returnType.Substitute(bindings),
		parameters:     params,
	}
}

// SubstituteNames is Substitute for a plain rename map.
func (m *Method) SubstituteNames(names map[string]string) *Method {
	return m.Substitute(bindingsFromNames(names))
}

func (m *Method) protectTypeParameters(bindings map[string]*Type) map[string]*Type {
	if len(m.typeParameters) == 0 {
		return bindings
	}
	taken := make(map[string]bool, 2*len(bindings))
	for from, to := range bindings {
		taken[from] = true
		typeParameterNames(to, taken)
	}

	augmented := make(map[string]*Type, len(bindings)+len(m.typeParameters))
	for from, to := range bindings {
		augmented[from] = to
	}
	var names nameSequence
	for _, tp := range m.typeParameters {
		candidate := tp.name
		for taken[candidate] {
			candidate = names.next()
		}
		taken[candidate] = true
		augmented[tp.name] = TypeParam(candidate)
	}
	return augmented
}

// nameSequence yields A, B, ..., Z, AA, AB, ...
type nameSequence struct {
	current string
}

func (n *nameSequence) next() string {
	n.current = successor(n.current)
	return n.current
}

func successor(s string) string {
	if s == "" {
		return "A"
	}
	last := s[len(s)-1]
	if last < 'Z' {
		return s[:len(s)-1] + string(last+1)
	}
	return successor(s[:len(s)-1]) + "A"
}

// OverrideKey identifies the override-relevant part of the signature:
// visibility, name, parameter types and the method's own type parameters.
// Annotations, abstractness, return type and parameter names are ignored.
func (m *Method) OverrideKey() string {
	var sb strings.Builder
	sb.WriteString(string(m.modifiers.Visibility))
	sb.WriteByte(' ')
	writeTypeParametersKey(&sb, m.typeParameters)
	sb.WriteString(m.name)
	writeParameterTypesKey(&sb, m.parameters)
	return sb.String()
}

// key is the full identity minus parameter names.
func (m *Method) key() string {
	var sb strings.Builder
	for _, a := range m.annotations {
		sb.WriteString(a.key())
		sb.WriteByte(' ')
	}
	sb.WriteString(m.modifiers.Prefix())
	writeTypeParametersKey(&sb, m.typeParameters)
	sb.WriteString(m.returnType.Key())
	sb.WriteByte(' ')
	sb.WriteString(m.name)
	writeParameterTypesKey(&sb, m.parameters)
	return sb.String()
}

func writeTypeParametersKey(sb *strings.Builder, typeParams []*Type) {
	if len(typeParams) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, tp := range typeParams {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(tp.Key())
	}
	sb.WriteString("> ")
}

// Equal ignores parameter names only.
func (m *Method) Equal(other *Method) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.key() == other.key()
}

// CompareMethods orders by visibility, name, then parameter types.
func CompareMethods(a, b *Method) int {
	if c := compareVisibility(a.modifiers.Visibility, b.modifiers.Visibility); c != 0 {
		return c
	}
	if c := cmp.Compare(a.name, b.name); c != 0 {
		return c
	}
	if c := compareParameterTypes(a.parameters, b.parameters); c != 0 {
		return c
	}
	return cmp.Compare(a.key(), b.key())
}

func (m *Method) typeParametersPrefix(table *ReferenceTable) string {
	if len(m.typeParameters) == 0 {
		return ""
	}
	parts := make([]string, len(m.typeParameters))
	for i, tp := range m.typeParameters {
		parts[i] = tp.Render(table, true)
	}
	return "<" + strings.Join(parts, ", ") + "> "
}

// Signature renders the declaration without annotations.
func (m *Method) Signature(table *ReferenceTable) string {
	return m.modifiers.Prefix() +
		m.typeParametersPrefix(table) +
		m.returnType.Render(table, false) + " " +
		m.name + "(" + renderParameters(table, m.parameters) + ")"
}

func (m *Method) Render(table *ReferenceTable) string {
	return renderAnnotations(table, m.annotations) + m.Signature(table)
}

func (m *Method) String() string {
	return m.Render(nil)
}

func (m *Method) Types() TypeSet {
	var set TypeSet
	for _, tp := range m.typeParameters {
		set.AddAll(tp.Closure())
	}
	set.AddAll(m.returnType.Closure())
	for _, p := range m.parameters {
		set.AddAll(p.Types())
	}
	set.AddAll(annotationTypes(m.annotations))
	return set
}
