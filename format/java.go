package format

import (
	"io"
	"strings"

	"github.com/dhamidi/jmodel/java"
)

const indent = "    "

var overrideType = java.Named("java.lang", "Override")

// JavaEncoder writes a compilable implementation skeleton for a class: a
// subclass named <Name>Impl that re-exposes every accessible constructor and
// stubs out every abstract method of the flattened surface.
type JavaEncoder struct {
	w     io.Writer
	class *java.Class

	pkg  string
	name string
}

type JavaOption func(*JavaEncoder)

// WithPackage places the generated class in pkg instead of the class's own
// package.
func WithPackage(pkg string) JavaOption {
	return func(e *JavaEncoder) { e.pkg = pkg }
}

// WithClassName overrides the <Name>Impl default.
func WithClassName(name string) JavaOption {
	return func(e *JavaEncoder) { e.name = name }
}

func NewJavaEncoder(w io.Writer, opts ...JavaOption) *JavaEncoder {
	e := &JavaEncoder{w: w}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *JavaEncoder) Encode(class *java.Class) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JavaEncoder) outputPackage() string {
	if e.pkg != "" {
		return e.pkg
	}
	return e.class.Type().Package()
}

func (e *JavaEncoder) className() string {
	if e.name != "" {
		return e.name
	}
	return e.class.Type().Name() + "Impl"
}

// constructors are the super constructors the generated class can call.
func (e *JavaEncoder) constructors() []*java.Constructor {
	if e.class.IsInterface() {
		return nil
	}
	samePackage := e.outputPackage() == e.class.Type().Package()
	var result []*java.Constructor
	for _, ctor := range e.class.Constructors() {
		switch ctor.Visibility() {
		case java.VisibilityPrivate:
			continue
		case java.VisibilityPackage:
			if !samePackage {
				continue
			}
		}
		result = append(result, ctor)
	}
	return result
}

func (e *JavaEncoder) stubs() []*java.Method {
	abstract := e.class.AbstractMethods()
	result := make([]*java.Method, len(abstract))
	for i, m := range abstract {
		result[i] = m.AsConcrete().WithoutAnnotations()
	}
	return result
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class
	ctors := e.constructors()
	stubs := e.stubs()

	users := []java.TypeUser{c.Type(), overrideType}
	for _, ctor := range ctors {
		users = append(users, ctor)
	}
	for _, m := range stubs {
		users = append(users, m)
	}
	table := java.NewReferenceTable(e.outputPackage(), java.CollectTypes(users...))

	if pkg := e.outputPackage(); pkg != "" {
		sb.WriteString("package ")
		sb.WriteString(pkg)
		sb.WriteString(";\n\n")
	}

	if imports := table.Imports(); len(imports) > 0 {
		for _, imp := range imports {
			sb.WriteString("import ")
			sb.WriteString(imp)
			sb.WriteString(";\n")
		}
		sb.WriteString("\n")
	}

	e.writeClassDeclaration(&sb, table)
	sb.WriteString(" {\n")

	first := true
	separate := func() {
		if !first {
			sb.WriteString("\n")
		}
		first = false
	}

	for _, ctor := range ctors {
		separate()
		sb.WriteString(indent)
		sb.WriteString(ctor.Render(table, e.className()))
		sb.WriteString(" {\n")
		sb.WriteString(indent + indent)
		sb.WriteString(ctor.SuperCall())
		sb.WriteString(";\n")
		sb.WriteString(indent + "}\n")
	}

	for _, m := range stubs {
		separate()
		e.writeStub(&sb, table, m)
	}

	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func (e *JavaEncoder) writeClassDeclaration(sb *strings.Builder, table *java.ReferenceTable) {
	c := e.class

	sb.WriteString("public class ")
	sb.WriteString(e.className())

	if params := c.TypeParameters(); len(params) > 0 {
		parts := make([]string, len(params))
		for i, p := range params {
			parts[i] = p.Render(table, true)
		}
		sb.WriteString("<")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString(">")
	}

	if c.IsInterface() {
		sb.WriteString(" implements ")
	} else {
		sb.WriteString(" extends ")
	}
	sb.WriteString(c.Type().Render(table, false))
}

func (e *JavaEncoder) writeStub(sb *strings.Builder, table *java.ReferenceTable, m *java.Method) {
	sb.WriteString(indent)
	sb.WriteString("@")
	sb.WriteString(overrideType.Render(table, false))
	sb.WriteString("\n")

	sb.WriteString(indent)
	sb.WriteString(m.Signature(table))
	sb.WriteString(" {\n")

	ret := m.ReturnType()
	if !ret.IsVoid() {
		sb.WriteString(indent + indent)
		sb.WriteString("return ")
		sb.WriteString(ret.Classify().ZeroValue(ret))
		sb.WriteString(";\n")
	}
	sb.WriteString(indent + "}\n")
}
