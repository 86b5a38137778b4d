package java

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func TestNewTypeInvariants(t *testing.T) {
	tests := []struct {
		name string
		spec TypeSpec
	}{
		{"parameter with package", TypeSpec{Name: "T", IsTypeParameter: true, Package: "java.util"}},
		{"parameter with nesting", TypeSpec{Name: "T", IsTypeParameter: true, Outer: []string{"Outer"}}},
		{"parameter with arguments", TypeSpec{Name: "T", IsTypeParameter: true, Args: []*Type{StringType}}},
		{"concrete with bounds", TypeSpec{Package: "java.util", Name: "List", Bounds: []*Type{StringType}}},
		{"missing name", TypeSpec{Package: "java.util"}},
		{"nil argument", TypeSpec{Package: "java.util", Name: "List", Args: []*Type{nil}}},
		{"negative array depth", TypeSpec{Name: "int", ArrayDepth: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewType(tt.spec)
			if err == nil {
				t.Fatalf("NewType() = %v, want error", got)
			}
			if !errors.Is(err, ErrConstruction) {
				t.Errorf("NewType() error = %v, want ErrConstruction", err)
			}
			if got != nil {
				t.Errorf("NewType() returned a value alongside the error")
			}
		})
	}

	t.Run("parameter with bounds", func(t *testing.T) {
		if _, err := NewType(TypeSpec{Name: "T", IsTypeParameter: true, Bounds: []*Type{StringType}}); err != nil {
			t.Errorf("NewType() error = %v", err)
		}
	})
}

func TestSubstituteEmptyMapIsIdentity(t *testing.T) {
	k := TypeParam("K", Named("java.lang", "Comparable", TypeParam("K")))
	types := []*Type{
		IntType,
		StringType,
		k,
		Named("java.util", "Map", k, Named("java.util", "List", TypeParam("V"))),
		TypeParam("T").ArrayOf(),
	}
	for _, typ := range types {
		if got := typ.Substitute(map[string]*Type{}); !got.Equal(typ) {
			t.Errorf("Substitute(empty) on %s = %s", typ, got)
		}
		if got := typ.SubstituteNames(nil); !got.Equal(typ) {
			t.Errorf("SubstituteNames(nil) on %s = %s", typ, got)
		}
	}
}

func TestRawType(t *testing.T) {
	m := Named("java.util", "Map", TypeParam("K"), Named("java.util", "List", TypeParam("V")))

	raw, err := m.RawType()
	if err != nil {
		t.Fatalf("RawType() failed: %v", err)
	}
	if len(raw.Args()) != 0 {
		t.Errorf("RawType().Args() = %v, want empty", raw.Args())
	}
	if want := Named("java.util", "Map"); !raw.Equal(want) {
		t.Errorf("RawType() = %s, want %s", raw, want)
	}

	nested := Nested("com.example", []string{"Inner", "Outer"}, "Entry", StringType)
	raw, err = nested.RawType()
	if err != nil {
		t.Fatalf("RawType() failed: %v", err)
	}
	if got, want := raw.QualifiedName(), "com.example.Outer.Inner.Entry"; got != want {
		t.Errorf("RawType().QualifiedName() = %q, want %q", got, want)
	}

	if _, err := TypeParam("T").RawType(); !errors.Is(err, ErrNotConcrete) {
		t.Errorf("RawType() on a type parameter error = %v, want ErrNotConcrete", err)
	}
}

func TestSubstituteNames(t *testing.T) {
	m := Named("java.util", "Map", TypeParam("K"), Named("java.util", "List", TypeParam("V")))

	got := m.SubstituteNames(map[string]string{"K": "A", "V": "B"})
	if want := "java.util.Map<A, java.util.List<B>>"; got.String() != want {
		t.Errorf("SubstituteNames() = %q, want %q", got.String(), want)
	}

	partial := m.SubstituteNames(map[string]string{"V": "X"})
	if want := "java.util.Map<K, java.util.List<X>>"; partial.String() != want {
		t.Errorf("SubstituteNames() = %q, want %q", partial.String(), want)
	}

	if want := "java.util.Map<K, java.util.List<V>>"; m.String() != want {
		t.Errorf("original changed to %q", m.String())
	}
}

func TestSubstituteKeepsBoundsOnRename(t *testing.T) {
	bounded := TypeParam("T", Named("java.lang", "Comparable", TypeParam("T")))

	got := bounded.SubstituteNames(map[string]string{"T": "U"})
	if want := "U extends java.lang.Comparable<U>"; got.String() != want {
		t.Errorf("SubstituteNames() = %q, want %q", got.String(), want)
	}
}

func TestSubstituteConcreteBinding(t *testing.T) {
	list := Named("java.util", "List", TypeParam("T").ArrayOf())

	got := list.Substitute(map[string]*Type{"T": StringType})
	if want := "java.util.List<java.lang.String[]>"; got.String() != want {
		t.Errorf("Substitute() = %q, want %q", got.String(), want)
	}
}

func TestSubstituteArgs(t *testing.T) {
	m := Named("java.util", "Map", TypeParam("K"), TypeParam("V"))

	got, err := m.SubstituteArgs([]*Type{TypeParam("A"), StringType})
	if err != nil {
		t.Fatalf("SubstituteArgs() failed: %v", err)
	}
	if want := "java.util.Map<A, java.lang.String>"; got.String() != want {
		t.Errorf("SubstituteArgs() = %q, want %q", got.String(), want)
	}

	if _, err := m.SubstituteArgs([]*Type{TypeParam("A")}); !errors.Is(err, ErrConstruction) {
		t.Errorf("SubstituteArgs() with too few arguments error = %v, want ErrConstruction", err)
	}

	p := TypeParam("T", ObjectType)
	renamed, err := p.SubstituteArgs([]*Type{TypeParam("X")})
	if err != nil {
		t.Fatalf("SubstituteArgs() failed: %v", err)
	}
	if want := "X extends java.lang.Object"; renamed.String() != want {
		t.Errorf("SubstituteArgs() = %q, want %q", renamed.String(), want)
	}
	if _, err := p.SubstituteArgs([]*Type{TypeParam("X"), TypeParam("Y")}); !errors.Is(err, ErrConstruction) {
		t.Errorf("SubstituteArgs() with two arguments error = %v, want ErrConstruction", err)
	}
}

func TestClosure(t *testing.T) {
	number := Named("java.lang", "Number")
	typ := Named("java.util", "Map",
		StringType,
		Named("java.util", "List", TypeParam("T", number)).ArrayOf(),
	)

	got := typ.Closure().Sorted()
	want := []*Type{
		Named("java.util", "List"),
		Named("java.util", "Map"),
		number,
		StringType,
	}
	if len(got) != len(want) {
		t.Fatalf("Closure() = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("Closure()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if n := TypeParam("T").Closure().Len(); n != 0 {
		t.Errorf("Closure() of an unbounded parameter has %d entries, want 0", n)
	}
}

func TestClosureIsNotShared(t *testing.T) {
	typ := Named("java.util", "List", StringType)
	first := typ.Closure()
	first.Add(IntType)
	if typ.Closure().Contains(IntType) {
		t.Error("mutating a returned closure changed the cached one")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		typ  *Type
		want Kind
	}{
		{IntType, KindNumeric},
		{Primitive("char"), KindNumeric},
		{Named("java.lang", "Double"), KindNumeric},
		{BooleanType, KindBoolean},
		{Named("java.lang", "Boolean"), KindBoolean},
		{VoidType, KindVoid},
		{Named("java.lang", "Void"), KindVoid},
		{StringType, KindTextual},
		{ObjectType, KindReference},
		{IntType.ArrayOf(), KindReference},
		{TypeParam("T"), KindReference},
		{Named("com.example", "Integer"), KindReference},
	}
	for _, tt := range tests {
		if got := tt.typ.Classify(); got != tt.want {
			t.Errorf("Classify(%s) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	field := Named(testPkg, "Field", TypeParam("F", Named(testPkg, "Field", TypeParam("F"))))

	if got, want := field.Render(nil, false), "com.example.model.Field<F>"; got != want {
		t.Errorf("Render(nil, false) = %q, want %q", got, want)
	}
	if got, want := field.Render(nil, true), "com.example.model.Field<F extends com.example.model.Field<F>>"; got != want {
		t.Errorf("Render(nil, true) = %q, want %q", got, want)
	}

	multi := Named(testPkg, "ParameterizedMultibound",
		TypeParam("S"),
		TypeParam("T", Named(testPkg, "Simple"), Named(testPkg, "Parameterized", TypeParam("S"))),
	)
	want := "ParameterizedMultibound<S, T extends Simple & Parameterized<S>>"
	if got := multi.Render(EmptyReferenceTable(testPkg), true); got != want {
		t.Errorf("Render(same package, true) = %q, want %q", got, want)
	}

	if got, want := StringType.ArrayOf().ArrayOf().Render(EmptyReferenceTable(""), false), "String[][]"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	if got, want := ClassType.String(), "java.lang.Class<?>"; got != want {
		t.Errorf("ClassType.String() = %q, want %q", got, want)
	}
}

func TestBoundsRenderOneLevel(t *testing.T) {
	inner := TypeParam("U", Named("java.lang", "Number"))
	outer := TypeParam("T", Named("java.util", "List", inner))

	if got, want := outer.String(), "T extends java.util.List<U>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCompareTypes(t *testing.T) {
	a := Named("z.pkg", "Alpha")
	b := Named("a.pkg", "Beta")
	nested := Nested("a.pkg", []string{"Outer"}, "Alpha")
	otherPkg := Named("b.pkg", "Alpha")

	if CompareTypes(a, b) >= 0 {
		t.Errorf("CompareTypes(Alpha, Beta) >= 0, name must sort first")
	}
	if CompareTypes(a, nested) >= 0 {
		t.Errorf("CompareTypes(Alpha, Outer.Alpha) >= 0, shorter nesting must sort first")
	}
	if CompareTypes(otherPkg, a) >= 0 {
		t.Errorf("CompareTypes(b.pkg.Alpha, z.pkg.Alpha) >= 0, package must break ties")
	}
	if CompareTypes(a, Named("z.pkg", "Alpha", StringType)) != 0 {
		t.Errorf("CompareTypes() must ignore type arguments")
	}
}

func TestEqualIsStructural(t *testing.T) {
	a := Named("java.util", "List", StringType)
	b := Named("java.util", "List", Named("java.lang", "String"))
	if !a.Equal(b) {
		t.Errorf("%s and %s should be equal", a, b)
	}
	if a.Equal(Named("java.util", "List", IntType)) {
		t.Errorf("List<String> and List<int> should differ")
	}
	if TypeParam("T").Equal(Named("", "T")) {
		t.Errorf("a type parameter and a concrete type of the same name should differ")
	}
}

func TestWildcardRender(t *testing.T) {
	upper := Named("java.util", "List", Wildcard(Named("java.lang", "Number")))
	if got, want := upper.Render(EmptyReferenceTable(""), false), "java.util.List<? extends Number>"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	lower := Named("java.util", "Comparator", WildcardSuper(TypeParam("T")))
	if got, want := lower.String(), "java.util.Comparator<? super T>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := lower.SubstituteNames(map[string]string{"T": "A"}).String(), "java.util.Comparator<? super A>"; got != want {
		t.Errorf("SubstituteNames() = %q, want %q", got, want)
	}
	if lower.Equal(Named("java.util", "Comparator", Wildcard(TypeParam("T")))) {
		t.Errorf("? super T and ? extends T should differ")
	}

	super := WildcardSuper(TypeParam("T"))
	if got := super.ArrayOf().ElementType(); !got.Equal(super) || got.Equal(Wildcard(TypeParam("T"))) {
		t.Errorf("ArrayOf().ElementType() = %s, want %s", got, super)
	}

	if _, err := NewType(TypeSpec{Name: "T", IsTypeParameter: true, Bounds: []*Type{ObjectType}, LowerBounds: true}); !errors.Is(err, ErrConstruction) {
		t.Errorf("NewType() with lower bounds on a named parameter error = %v, want ErrConstruction", err)
	}
}
