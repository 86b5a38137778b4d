package facts

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jmodel/java"
)

func loadModel(t *testing.T) *Loader {
	t.Helper()
	l, err := LoadFiles([]string{"testdata/model.yaml"})
	require.NoError(t, err)
	return l
}

func loadYAML(t *testing.T, src string, opts ...Option) *Loader {
	t.Helper()
	doc, err := Decode(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)
	l, err := NewLoader([]*Document{doc}, opts...)
	require.NoError(t, err)
	return l
}

func methodNames(methods []*java.Method) []string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name()
	}
	return names
}

func TestLoaderFlattensModel(t *testing.T) {
	l := loadModel(t)

	class, err := l.Class("com.bdl.model.AbstractClass")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"blargh", "blorp", "extend", "extendedFrozzle", "filter", "frozzle",
		"frumple", "repeat", "superExtendedFrozzle",
		"fromSuper", "voidFromSuper",
	}, methodNames(class.AllMethods()))

	assert.Equal(t, []string{
		"blargh", "extend", "extendedFrozzle", "filter", "superExtendedFrozzle", "voidFromSuper",
	}, methodNames(class.AbstractMethods()))

	byName := make(map[string]string)
	for _, m := range class.AllMethods() {
		byName[m.Name()] = m.String()
	}
	assert.Equal(t, "public abstract B blargh(B input)", byName["blargh"])
	assert.Equal(t, "public B frumple(B input)", byName["frumple"])
	assert.Equal(t, "public A frozzle(A input)", byName["frozzle"])
	assert.Equal(t, "protected int fromSuper(int foo)", byName["fromSuper"])
	assert.Equal(t,
		"public abstract <D, E extends java.util.List<D>> com.google.common.collect.ImmutableList<D> "+
			"filter(E source, com.google.common.base.Predicate<D> predicate)",
		byName["filter"])
	assert.Equal(t, "public abstract <T> T extend(C list, T template)", byName["extend"])
}

func TestLoaderClassDeclaration(t *testing.T) {
	l := loadModel(t)

	class, err := l.Class("com.bdl.model.AbstractClass")
	require.NoError(t, err)

	table := java.NewReferenceTable("com.bdl.model", class.Types())
	assert.Equal(t,
		"@SomeAnnotation abstract class AbstractClass<A, B extends Comparable<B>, C extends List<B>> "+
			"extends AbstractSuperclass<B> "+
			"implements ExtendedExtendedParameterized<A>, ComplexParameterized<A, B, C>, OtherSimple",
		class.Declaration(table))
	assert.Equal(t, []string{"java.util.List"}, table.Imports())

	ctors := class.Constructors()
	require.Len(t, ctors, 3)
	assert.Equal(t, java.VisibilityPublic, ctors[0].Visibility())
	assert.Equal(t, java.VisibilityPrivate, ctors[2].Visibility())
}

func TestLoaderFields(t *testing.T) {
	l := loadModel(t)

	class, err := l.Class("com.bdl.model.AbstractClass")
	require.NoError(t, err)

	fields := class.AllFields()
	require.Len(t, fields, 1)
	assert.Equal(t, "protected final com.bdl.model.Parameterized<B> superParameterized", fields[0].String())
	assert.Equal(t, "com.bdl.model.AbstractSuperclass<B>", fields[0].DeclaringType().String())
}

func TestLoaderNestedClass(t *testing.T) {
	l := loadModel(t)

	class, err := l.Class("com.bdl.model.TwoMethods.TwoMethodsOneImplemented")
	require.NoError(t, err)

	assert.Equal(t, []string{"TwoMethods"}, class.Type().Outer())
	all := class.AllMethods()
	require.Len(t, all, 2)
	assert.Equal(t, "public void one()", all[0].String())
	assert.Equal(t, "public abstract void two()", all[1].String())
}

func TestLoaderSharesSupertypes(t *testing.T) {
	l := loadModel(t)

	classes, err := l.Classes()
	require.NoError(t, err)
	require.Len(t, classes, len(l.Names()))

	ext, err := l.Class("com.bdl.model.ExtendedParameterized")
	require.NoError(t, err)
	extExt, err := l.Class("com.bdl.model.ExtendedExtendedParameterized")
	require.NoError(t, err)
	assert.Same(t, ext, extExt.Inheritance()[0].Super())
}

func TestLoaderConcreteArgument(t *testing.T) {
	l := loadYAML(t, `
classes:
  - package: demo
    name: Box
    kind: interface
    typeParameters: [{name: T}]
    methods:
      - {name: get, returns: T}
      - {name: all, returns: "java.util.List<? extends T>"}
  - package: demo
    name: StringBox
    modifiers: [abstract]
    implements: ["Box<String>"]
`)

	class, err := l.Class("demo.StringBox")
	require.NoError(t, err)
	all := class.AllMethods()
	require.Len(t, all, 2)
	assert.Equal(t, "public abstract java.util.List<? extends java.lang.String> all()", all[0].String())
	assert.Equal(t, "public abstract java.lang.String get()", all[1].String())
}

func TestLoaderRawSupertype(t *testing.T) {
	l := loadYAML(t, `
classes:
  - package: demo
    name: Holder
    kind: interface
    typeParameters: [{name: T, bounds: [Number]}]
    methods:
      - {name: get, returns: T}
  - package: demo
    name: RawHolder
    modifiers: [abstract]
    implements: [Holder]
`)

	class, err := l.Class("demo.RawHolder")
	require.NoError(t, err)
	all := class.AllMethods()
	require.Len(t, all, 1)
	assert.Equal(t, "public abstract java.lang.Number get()", all[0].String())
}

func TestLoaderDropsObject(t *testing.T) {
	l := loadYAML(t, `
classes:
  - package: demo
    name: Plain
    extends: java.lang.Object
`)

	class, err := l.Class("demo.Plain")
	require.NoError(t, err)
	assert.Empty(t, class.Inheritance())
}

func TestLoaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		class  string
		target error
	}{
		{
			name:   "unknown class",
			src:    "classes: []",
			class:  "demo.Missing",
			target: ErrUnresolvedType,
		},
		{
			name: "undeclared supertype",
			src: `
classes:
  - {package: demo, name: Child, extends: demo.Parent}
`,
			class:  "demo.Child",
			target: ErrUnresolvedType,
		},
		{
			name: "cycle",
			src: `
classes:
  - {package: demo, name: A, kind: interface, extends: B}
  - {package: demo, name: B, kind: interface, extends: A}
`,
			class:  "demo.A",
			target: ErrInheritanceCycle,
		},
		{
			name: "bad type expression",
			src: `
classes:
  - package: demo
    name: Broken
    fields: [{name: f, type: "List<String"}]
`,
			class:  "demo.Broken",
			target: java.ErrUnsupportedShape,
		},
		{
			name: "wrong arity",
			src: `
classes:
  - {package: demo, name: Keyed, kind: interface, typeParameters: [{name: K}]}
  - {package: demo, name: Pair, extends: "Keyed<String, String>"}
`,
			class:  "demo.Pair",
			target: java.ErrConstruction,
		},
		{
			name: "abstract final",
			src: `
classes:
  - {package: demo, name: Odd, modifiers: [abstract, final]}
`,
			class:  "demo.Odd",
			target: java.ErrConstruction,
		},
		{
			name: "final interface",
			src: `
classes:
  - {package: demo, name: Sealed, kind: interface, modifiers: [final]}
`,
			class:  "demo.Sealed",
			target: java.ErrConstruction,
		},
		{
			name: "final interface method",
			src: `
classes:
  - package: demo
    name: Getter
    kind: interface
    methods:
      - {name: get, returns: String, modifiers: [final]}
`,
			class:  "demo.Getter",
			target: java.ErrConstruction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := loadYAML(t, tt.src)
			_, err := l.Class(tt.class)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestLoaderUnresolvedHint(t *testing.T) {
	l := loadYAML(t, "classes: []")
	_, err := l.Class("demo.Missing")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "demo.Missing")
}

func TestLoaderLenientSupertypes(t *testing.T) {
	l := loadYAML(t, `
classes:
  - package: demo
    name: Task
    implements: [Runnable, java.io.Serializable]
    methods:
      - {name: run, visibility: public}
`, WithLenientSupertypes())

	class, err := l.Class("demo.Task")
	require.NoError(t, err)
	assert.Empty(t, class.Inheritance())
	assert.Len(t, class.AllMethods(), 1)
}

func TestLoaderDuplicateClass(t *testing.T) {
	doc := &Document{Classes: []ClassFact{
		{Package: "demo", Name: "Twice"},
		{Package: "demo", Name: "Twice"},
	}}
	_, err := NewLoader([]*Document{doc})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateClass))
}

func TestInterfaceMemberDefaults(t *testing.T) {
	l := loadYAML(t, `
classes:
  - package: demo
    name: Shape
    kind: interface
    fields:
      - {name: SIDES, type: int}
    methods:
      - {name: area, returns: double}
      - {name: describe, returns: String, modifiers: [default]}
      - {name: unit, returns: Shape, modifiers: [static]}
`)

	class, err := l.Class("demo.Shape")
	require.NoError(t, err)

	assert.Equal(t, "public static final int SIDES", class.Fields()[0].String())
	methods := class.Methods()
	require.Len(t, methods, 3)
	assert.True(t, methods[0].IsAbstract())
	assert.False(t, methods[1].IsAbstract())
	assert.False(t, methods[2].IsAbstract())
	assert.True(t, methods[2].IsStatic())
}
