package java

import (
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestModifiersPrefix(t *testing.T) {
	tests := []struct {
		mods Modifiers
		want string
	}{
		{VisibilityOnly(VisibilityPackage), ""},
		{VisibilityOnly(VisibilityPublic), "public "},
		{VisibilityOnly(VisibilityProtected).MakeStatic().MakeFinal(), "protected static final "},
		{VisibilityOnly(VisibilityPublic).MakeFinal().MakeAbstract(), "public abstract "},
		{VisibilityOnly(VisibilityPrivate).MakeAbstract().MakeFinal(), "private final "},
	}
	for _, tt := range tests {
		if got := tt.mods.Prefix(); got != tt.want {
			t.Errorf("Prefix(%+v) = %q, want %q", tt.mods, got, tt.want)
		}
	}

	keywords := VisibilityOnly(VisibilityPublic).MakeAbstract().Keywords()
	if want := []string{"public", "abstract"}; !slices.Equal(keywords, want) {
		t.Errorf("Keywords() = %v, want %v", keywords, want)
	}
}

func TestModifiersValidate(t *testing.T) {
	if err := (Modifiers{Visibility: VisibilityPublic, Abstract: true, Final: true}).Validate(); !errors.Is(err, ErrConstruction) {
		t.Errorf("Validate(abstract final) = %v, want ErrConstruction", err)
	}
	if err := (Modifiers{Visibility: "internal"}).Validate(); !errors.Is(err, ErrConstruction) {
		t.Errorf("Validate(internal) = %v, want ErrConstruction", err)
	}
	if err := VisibilityOnly(VisibilityPrivate).MakeStatic().Validate(); err != nil {
		t.Errorf("Validate(private static) = %v", err)
	}
}

func TestParseVisibility(t *testing.T) {
	tests := map[string]Visibility{
		"public":    VisibilityPublic,
		"Protected": VisibilityProtected,
		"":          VisibilityPackage,
		"package":   VisibilityPackage,
		"private":   VisibilityPrivate,
	}
	for in, want := range tests {
		got, err := ParseVisibility(in)
		if err != nil {
			t.Errorf("ParseVisibility(%q) error = %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseVisibility(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseVisibility("friend"); !errors.Is(err, ErrConstruction) {
		t.Errorf("ParseVisibility(friend) error = %v, want ErrConstruction", err)
	}
}

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{
		"class":      CategoryClass,
		"enum":       CategoryClass,
		"record":     CategoryClass,
		"interface":  CategoryInterface,
		"annotation": CategoryInterface,
	} {
		if got, err := ParseCategory(in); err != nil || got != want {
			t.Errorf("ParseCategory(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
}

func TestZeroValue(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{IntType, "0"},
		{LongType, "0L"},
		{Primitive("double"), "0d"},
		{Primitive("float"), "0f"},
		{Primitive("char"), "'\\0'"},
		{Primitive("byte"), "(byte) 0"},
		{BooleanType, "false"},
		{VoidType, ""},
		{Named("java.lang", "Void"), "null"},
		{StringType, "null"},
		{Named("java.lang", "Integer"), "null"},
		{IntType.ArrayOf(), "null"},
	}
	for _, tt := range tests {
		if got := tt.typ.Classify().ZeroValue(tt.typ); got != tt.want {
			t.Errorf("ZeroValue(%s) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
