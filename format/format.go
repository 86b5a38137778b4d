package format

import (
	"encoding"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jmodel/java"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *java.Class) error
}

// Names lists the encoders New knows about.
var Names = []string{"line", "json", "java"}

// New returns the encoder registered under name. javaOpts only apply to the
// java encoder.
func New(name string, w io.Writer, javaOpts ...JavaOption) (Encoder, error) {
	switch strings.ToLower(name) {
	case "", "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "java":
		return NewJavaEncoder(w, javaOpts...), nil
	}
	return nil, errors.WithHintf(errors.Newf("unknown format %q", name),
		"use one of: %s", strings.Join(Names, ", "))
}

func kindOf(c *java.Class) string {
	return string(c.Category())
}

// modifierList is the non-visibility keywords, or "-" when there are none.
func modifierList(m java.Modifiers) string {
	mods := modifierKeywords(m)
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}

func modifierKeywords(m java.Modifiers) []string {
	m.Visibility = java.VisibilityPackage
	return m.Keywords()
}

func parameterTypes(params []java.Parameter) string {
	if len(params) == 0 {
		return "-"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type.String()
	}
	return strings.Join(parts, ",")
}
