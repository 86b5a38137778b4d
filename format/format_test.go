package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jmodel/java"
	"github.com/dhamidi/jmodel/java/facts"
)

const shapesModel = `
classes:
  - package: demo.shapes
    name: Shape
    kind: interface
    typeParameters: [{name: T}]
    methods:
      - {name: area, returns: double}
      - {name: scale, returns: T, parameters: [{name: factor, type: int}]}
      - {name: describe, returns: String, modifiers: [default]}
  - package: demo.shapes
    name: Polygon
    visibility: public
    modifiers: [abstract]
    imports: [java.util.List]
    typeParameters: [{name: P, bounds: ["Comparable<P>"]}]
    implements: ["Shape<P>"]
    fields:
      - {name: sides, type: int, visibility: protected}
      - {name: label, type: String, visibility: private}
    constructors:
      - {visibility: public, parameters: [{name: sides, type: int}]}
      - {}
      - {visibility: private, parameters: [{name: label, type: String}]}
    methods:
      - {name: reset, visibility: public, modifiers: [abstract]}
      - {name: corners, visibility: protected, modifiers: [abstract], returns: "List<P>"}
      - {name: toString, visibility: public, returns: String}
`

func loadShape(t *testing.T, name string) *java.Class {
	t.Helper()
	doc, err := facts.Decode(strings.NewReader(shapesModel), facts.FormatYAML)
	require.NoError(t, err)
	l, err := facts.NewLoader([]*facts.Document{doc})
	require.NoError(t, err)
	class, err := l.Class(name)
	require.NoError(t, err)
	return class
}

func TestNewEncoder(t *testing.T) {
	for _, name := range Names {
		enc, err := New(name, &bytes.Buffer{})
		require.NoError(t, err, name)
		assert.NotNil(t, enc)
	}

	_, err := New("xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestLineEncoder(t *testing.T) {
	class := loadShape(t, "demo.shapes.Polygon")

	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf).Encode(class))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	assert.Equal(t, "class\tdemo.shapes.Polygon<P extends java.lang.Comparable<P>>\tpublic,abstract", lines[0])
	assert.Equal(t, "extends\tdemo.shapes.Shape<P>", lines[1])
	assert.Equal(t, []string{
		"ctor\tint\tpublic",
		"ctor\t-\tpackage",
		"ctor\tjava.lang.String\tprivate",
	}, lines[2:5])
	assert.Contains(t, lines, "field\tsides\tint\tprotected\t-\tdemo.shapes.Polygon<P>")
	assert.Contains(t, lines, "method\tarea\tdouble\t-\tpublic\tabstract")
	assert.Contains(t, lines, "method\tscale\tP\tint\tpublic\tabstract")
	assert.Contains(t, lines, "method\tdescribe\tjava.lang.String\t-\tpublic\t-")
	assert.Contains(t, lines, "method\tcorners\tjava.util.List<P>\t-\tprotected\tabstract")
}

func TestJSONEncoder(t *testing.T) {
	class := loadShape(t, "demo.shapes.Polygon")

	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).Encode(class))

	var got jsonClass
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "demo.shapes.Polygon", got.Name)
	assert.Equal(t, "Polygon", got.SimpleName)
	assert.Equal(t, "class", got.Kind)
	assert.Equal(t, []string{"abstract"}, got.Modifiers)
	assert.Equal(t, []string{"P extends java.lang.Comparable<P>"}, got.TypeParameters)
	require.Len(t, got.Supertypes, 1)
	assert.Equal(t, "demo.shapes.Shape<P>", got.Supertypes[0].Type.Name)
	assert.Equal(t, map[string]string{"T": "P"}, got.Supertypes[0].Bindings)
	assert.Len(t, got.Constructors, 3)
	assert.Equal(t, []string{"area", "reset", "scale", "corners"}, got.AbstractMethods)
	assert.Equal(t, []string{"java.util.List"}, got.Imports)

	require.Len(t, got.Fields, 2)
	assert.Equal(t, "sides", got.Fields[0].Name)
	assert.Equal(t, "label", got.Fields[1].Name)
}

func TestJavaEncoderSkeleton(t *testing.T) {
	class := loadShape(t, "demo.shapes.Polygon")

	var buf bytes.Buffer
	require.NoError(t, NewJavaEncoder(&buf).Encode(class))

	want := `package demo.shapes;

import java.util.List;

public class PolygonImpl<P extends Comparable<P>> extends Polygon<P> {
    public PolygonImpl(int sides) {
        super(sides);
    }

    PolygonImpl() {
        super();
    }

    @Override
    public double area() {
        return 0d;
    }

    @Override
    public void reset() {
    }

    @Override
    public P scale(int factor) {
        return null;
    }

    @Override
    protected List<P> corners() {
        return null;
    }
}
`
	assert.Equal(t, want, buf.String())
}

func TestJavaEncoderOtherPackage(t *testing.T) {
	class := loadShape(t, "demo.shapes.Polygon")

	var buf bytes.Buffer
	enc := NewJavaEncoder(&buf, WithPackage("demo.impl"), WithClassName("Square"))
	require.NoError(t, enc.Encode(class))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "package demo.impl;\n\nimport demo.shapes.Polygon;\nimport java.util.List;\n"), out)
	assert.Contains(t, out, "public class Square<P extends Comparable<P>> extends Polygon<P> {")
	assert.Contains(t, out, "public Square(int sides)")
	assert.NotContains(t, out, "Square()", "package-private constructors are not reachable")
}

func TestJavaEncoderInterface(t *testing.T) {
	class := loadShape(t, "demo.shapes.Shape")

	var buf bytes.Buffer
	require.NoError(t, NewJavaEncoder(&buf).Encode(class))
	out := buf.String()

	assert.Contains(t, out, "public class ShapeImpl<T> implements Shape<T> {")
	assert.Contains(t, out, "public T scale(int factor)")
	assert.NotContains(t, out, "describe", "default methods are inherited")
	assert.NotContains(t, out, "super(")
}
