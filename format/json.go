package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jmodel/java"
)

type JSONEncoder struct {
	w     io.Writer
	class *java.Class
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *java.Class) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := e.buildClassData()
	return json.MarshalIndent(data, "", "  ")
}

type jsonClass struct {
	Name            string            `json:"name"`
	SimpleName      string            `json:"simpleName"`
	Package         string            `json:"package"`
	Outer           []string          `json:"outer,omitempty"`
	Kind            string            `json:"kind"`
	Visibility      string            `json:"visibility"`
	Modifiers       []string          `json:"modifiers,omitempty"`
	TypeParameters  []string          `json:"typeParameters,omitempty"`
	Supertypes      []jsonSupertype   `json:"supertypes,omitempty"`
	Constructors    []jsonConstructor `json:"constructors,omitempty"`
	Fields          []jsonField       `json:"fields,omitempty"`
	Methods         []jsonMethod      `json:"methods,omitempty"`
	AbstractMethods []string          `json:"abstractMethods,omitempty"`
	Imports         []string          `json:"imports,omitempty"`
}

type jsonSupertype struct {
	Type     jsonType          `json:"type"`
	Bindings map[string]string `json:"bindings,omitempty"`
}

type jsonConstructor struct {
	Visibility string          `json:"visibility"`
	Parameters []jsonParameter `json:"parameters,omitempty"`
}

type jsonField struct {
	Name          string   `json:"name"`
	Type          jsonType `json:"type"`
	Visibility    string   `json:"visibility"`
	Modifiers     []string `json:"modifiers,omitempty"`
	DeclaringType string   `json:"declaringType"`
}

type jsonMethod struct {
	Name           string          `json:"name"`
	TypeParameters []string        `json:"typeParameters,omitempty"`
	ReturnType     jsonType        `json:"returnType"`
	Parameters     []jsonParameter `json:"parameters,omitempty"`
	Visibility     string          `json:"visibility"`
	Modifiers      []string        `json:"modifiers,omitempty"`
	Signature      string          `json:"signature"`
}

type jsonParameter struct {
	Name string   `json:"name,omitempty"`
	Type jsonType `json:"type"`
}

type jsonType struct {
	Name       string `json:"name"`
	ArrayDepth int    `json:"arrayDepth,omitempty"`
}

func (e *JSONEncoder) buildClassData() jsonClass {
	c := e.class
	t := c.Type()
	table := java.NewReferenceTable(t.Package(), c.Types())
	data := jsonClass{
		Name:       c.QualifiedName(),
		SimpleName: t.Name(),
		Package:    t.Package(),
		Outer:      t.Outer(),
		Kind:       kindOf(c),
		Visibility: string(c.Modifiers().Visibility),
		Modifiers:  modifierKeywords(c.Modifiers()),
		Imports:    table.Imports(),
	}

	for _, p := range c.TypeParameters() {
		data.TypeParameters = append(data.TypeParameters, p.Render(nil, true))
	}

	for _, edge := range c.Inheritance() {
		st := jsonSupertype{Type: e.buildType(edge.SupertypeReference())}
		for name, bound := range edge.Bindings() {
			if st.Bindings == nil {
				st.Bindings = make(map[string]string)
			}
			st.Bindings[name] = bound.String()
		}
		data.Supertypes = append(data.Supertypes, st)
	}

	for _, ctor := range c.Constructors() {
		data.Constructors = append(data.Constructors, jsonConstructor{
			Visibility: string(ctor.Visibility()),
			Parameters: e.buildParameters(ctor.Parameters()),
		})
	}

	for _, f := range c.AllFields() {
		data.Fields = append(data.Fields, jsonField{
			Name:          f.Name(),
			Type:          e.buildType(f.Type()),
			Visibility:    string(f.Visibility()),
			Modifiers:     modifierKeywords(f.Modifiers()),
			DeclaringType: f.DeclaringType().Render(nil, false),
		})
	}

	for _, m := range c.AllMethods() {
		jm := jsonMethod{
			Name:       m.Name(),
			ReturnType: e.buildType(m.ReturnType()),
			Parameters: e.buildParameters(m.Parameters()),
			Visibility: string(m.Visibility()),
			Modifiers:  modifierKeywords(m.Modifiers()),
			Signature:  m.String(),
		}
		for _, p := range m.TypeParameters() {
			jm.TypeParameters = append(jm.TypeParameters, p.Render(nil, true))
		}
		data.Methods = append(data.Methods, jm)
	}

	for _, m := range c.AbstractMethods() {
		data.AbstractMethods = append(data.AbstractMethods, m.Name())
	}

	return data
}

func (e *JSONEncoder) buildParameters(params []java.Parameter) []jsonParameter {
	var result []jsonParameter
	for _, p := range params {
		result = append(result, jsonParameter{Name: p.Name, Type: e.buildType(p.Type)})
	}
	return result
}

func (e *JSONEncoder) buildType(t *java.Type) jsonType {
	depth := t.ArrayDepth()
	for t.IsArray() {
		t = t.ElementType()
	}
	return jsonType{
		Name:       t.String(),
		ArrayDepth: depth,
	}
}
