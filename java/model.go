package java

import (
	"strings"

	"github.com/cockroachdb/errors"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPackage   Visibility = "package"
	VisibilityPrivate   Visibility = "private"
)

// ParseVisibility accepts the source keywords plus "package" (or the empty
// string) for package-private members.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return VisibilityPublic, nil
	case "protected":
		return VisibilityProtected, nil
	case "", "package", "package-private", "package_local":
		return VisibilityPackage, nil
	case "private":
		return VisibilityPrivate, nil
	}
	return "", errors.Mark(errors.Newf("unknown visibility %q", s), ErrConstruction)
}

// rank orders visibilities from most to least visible.
func (v Visibility) rank() int {
	switch v {
	case VisibilityPublic:
		return 0
	case VisibilityProtected:
		return 1
	case VisibilityPackage, "":
		return 2
	case VisibilityPrivate:
		return 3
	}
	return 4
}

func (v Visibility) valid() bool {
	return v.rank() < 4
}

// Prefix is the keyword as it appears in a declaration, followed by a space.
// Package-private visibility has no keyword.
func (v Visibility) Prefix() string {
	if v == VisibilityPackage || v == "" {
		return ""
	}
	return string(v) + " "
}

func compareVisibility(a, b Visibility) int {
	return a.rank() - b.rank()
}

// Category distinguishes class-like from interface-like declarations.
type Category string

const (
	CategoryClass     Category = "class"
	CategoryInterface Category = "interface"
)

func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "class", "enum", "record":
		return CategoryClass, nil
	case "interface", "annotation", "@interface":
		return CategoryInterface, nil
	}
	return "", errors.Mark(errors.Newf("unknown class kind %q", s), ErrConstruction)
}

// Modifiers is the modifier set shared by classes, fields and methods.
type Modifiers struct {
	Visibility Visibility
	Abstract   bool
	Static     bool
	Final      bool
}

// VisibilityOnly returns a modifier set carrying nothing but v.
func VisibilityOnly(v Visibility) Modifiers {
	return Modifiers{Visibility: v}
}

// Validate reports the abstract+final combination and unknown visibilities.
func (m Modifiers) Validate() error {
	if !m.Visibility.valid() {
		return constructionErrorf("unknown visibility %q", string(m.Visibility))
	}
	if m.Abstract && m.Final {
		return constructionErrorf("abstract + final modifier combination is not allowed")
	}
	return nil
}

func (m Modifiers) MakeAbstract() Modifiers {
	m.Abstract = true
	m.Final = false
	return m
}

func (m Modifiers) MakeStatic() Modifiers {
	m.Static = true
	return m
}

func (m Modifiers) MakeFinal() Modifiers {
	m.Final = true
	m.Abstract = false
	return m
}

// Prefix renders the modifiers in declaration order.
func (m Modifiers) Prefix() string {
	result := m.Visibility.Prefix()
	if m.Abstract {
		result += "abstract "
	}
	if m.Static {
		result += "static "
	}
	if m.Final {
		result += "final "
	}
	return result
}

// Keywords lists the modifiers as source keywords, visibility first.
func (m Modifiers) Keywords() []string {
	var result []string
	if m.Visibility != VisibilityPackage && m.Visibility != "" {
		result = append(result, string(m.Visibility))
	}
	if m.Abstract {
		result = append(result, "abstract")
	}
	if m.Static {
		result = append(result, "static")
	}
	if m.Final {
		result = append(result, "final")
	}
	return result
}

// Kind is the broad classification used to pick default values in generated
// code.
type Kind string

const (
	KindNumeric   Kind = "numeric"
	KindBoolean   Kind = "boolean"
	KindVoid      Kind = "void"
	KindTextual   Kind = "textual"
	KindReference Kind = "reference"
)

var kindsByName = map[string]Kind{
	"java.lang.Integer":   KindNumeric,
	"java.lang.Long":      KindNumeric,
	"java.lang.Double":    KindNumeric,
	"java.lang.Float":     KindNumeric,
	"java.lang.Short":     KindNumeric,
	"java.lang.Byte":      KindNumeric,
	"java.lang.Character": KindNumeric,
	"Integer":             KindNumeric,
	"Long":                KindNumeric,
	"Double":              KindNumeric,
	"Float":               KindNumeric,
	"Short":               KindNumeric,
	"Byte":                KindNumeric,
	"Character":           KindNumeric,
	"int":                 KindNumeric,
	"long":                KindNumeric,
	"double":              KindNumeric,
	"float":               KindNumeric,
	"short":               KindNumeric,
	"byte":                KindNumeric,
	"char":                KindNumeric,
	"java.lang.String":    KindTextual,
	"String":              KindTextual,
	"java.lang.Boolean":   KindBoolean,
	"Boolean":             KindBoolean,
	"boolean":             KindBoolean,
	"java.lang.Void":      KindVoid,
	"void":                KindVoid,
}

// ZeroValue is a source literal of the kind's default value. Primitive
// numerics need a cast-free literal, so the declared type is consulted.
func (k Kind) ZeroValue(t *Type) string {
	switch k {
	case KindVoid:
		if t == nil || t.IsVoid() {
			return ""
		}
	case KindBoolean:
		if t != nil && t.IsPrimitive() {
			return "false"
		}
	case KindNumeric:
		if t != nil && t.IsPrimitive() {
			switch t.Name() {
			case "long":
				return "0L"
			case "float":
				return "0f"
			case "double":
				return "0d"
			case "char":
				return "'\\0'"
			case "byte":
				return "(byte) 0"
			case "short":
				return "(short) 0"
			}
			return "0"
		}
	}
	return "null"
}
