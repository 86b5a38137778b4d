package java

import (
	"slices"
	"strings"
)

type Constructor struct {
	visibility Visibility
	parameters []Parameter
}

func NewConstructor(visibility Visibility, params ...Parameter) (*Constructor, error) {
	if !visibility.valid() {
		return nil, constructionErrorf("unknown constructor visibility %q", string(visibility))
	}
	if err := validateParameters("constructor", params); err != nil {
		return nil, err
	}
	return &Constructor{visibility: visibility, parameters: slices.Clone(params)}, nil
}

func (c *Constructor) Visibility() Visibility  { return c.visibility }
func (c *Constructor) Parameters() []Parameter { return slices.Clone(c.parameters) }

// Render writes the constructor signature for a class named className.
func (c *Constructor) Render(table *ReferenceTable, className string) string {
	return c.visibility.Prefix() + className + "(" + renderParameters(table, c.parameters) + ")"
}

// SuperCall is the delegating call passing every parameter through.
func (c *Constructor) SuperCall() string {
	names := make([]string, len(c.parameters))
	for i, p := range c.parameters {
		names[i] = p.Name
	}
	return "super(" + strings.Join(names, ", ") + ")"
}

func (c *Constructor) String() string {
	return c.Render(nil, "Constructor")
}

func (c *Constructor) Types() TypeSet {
	var set TypeSet
	for _, p := range c.parameters {
		set.AddAll(p.Types())
	}
	return set
}

func (c *Constructor) key() string {
	var sb strings.Builder
	sb.WriteString(string(c.visibility))
	writeParameterTypesKey(&sb, c.parameters)
	return sb.String()
}

func CompareConstructors(a, b *Constructor) int {
	if c := compareVisibility(a.visibility, b.visibility); c != 0 {
		return c
	}
	return compareParameterTypes(a.parameters, b.parameters)
}
