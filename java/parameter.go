package java

import (
	"strings"
)

// Parameter is one formal parameter. Its name never takes part in equality.
type Parameter struct {
	Type *Type
	Name string
}

func (p Parameter) Render(table *ReferenceTable) string {
	if p.Name == "" {
		return p.Type.Render(table, false)
	}
	return p.Type.Render(table, false) + " " + p.Name
}

func (p Parameter) String() string {
	return p.Render(nil)
}

func (p Parameter) Types() TypeSet {
	return p.Type.Closure()
}

func (p Parameter) substitute(bindings map[string]*Type) Parameter {
	return Parameter{Type: p.Type.Substitute(bindings), Name: p.Name}
}

func validateParameters(owner string, params []Parameter) error {
	for i, p := range params {
		if p.Type == nil {
			return constructionErrorf("parameter %d of %s has no type", i, owner)
		}
	}
	return nil
}

func renderParameters(table *ReferenceTable, params []Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Render(table)
	}
	return strings.Join(parts, ", ")
}

func writeParameterTypesKey(sb *strings.Builder, params []Parameter) {
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Type.Key())
	}
	sb.WriteByte(')')
}

func compareParameterTypes(a, b []Parameter) int {
	at := make([]*Type, len(a))
	for i := range a {
		at[i] = a[i].Type
	}
	bt := make([]*Type, len(b))
	for i := range b {
		bt[i] = b[i].Type
	}
	return compareTypeLists(at, bt)
}
