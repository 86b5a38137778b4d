package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jmodel/java"
)

// LineEncoder writes one tab-separated line per member of the flattened
// surface, preceded by a header line for the class itself:
//
//	class	<name with type parameter bounds>	<visibility>,<modifiers>
//	extends	<supertype>
//	ctor	<parameter types>	<visibility>
//	field	<name>	<type>	<visibility>	<modifiers>	<declaring type>
//	method	<name>	<return type>	<parameter types>	<visibility>	<modifiers>
type LineEncoder struct {
	w     io.Writer
	class *java.Class
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *java.Class) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	fmt.Fprintf(&sb, "%s\t%s\t%s\n", kindOf(c), c.Type(), e.classModifiersStr())

	for _, edge := range c.Inheritance() {
		fmt.Fprintf(&sb, "extends\t%s\n", edge.SupertypeReference())
	}

	for _, ctor := range c.Constructors() {
		fmt.Fprintf(&sb, "ctor\t%s\t%s\n",
			parameterTypes(ctor.Parameters()),
			ctor.Visibility(),
		)
	}

	for _, f := range c.AllFields() {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\t%s\n",
			f.Name(),
			f.Type(),
			f.Visibility(),
			modifierList(f.Modifiers()),
			f.DeclaringType().Render(nil, false),
		)
	}

	for _, m := range c.AllMethods() {
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\n",
			m.Name(),
			m.ReturnType(),
			parameterTypes(m.Parameters()),
			m.Visibility(),
			modifierList(m.Modifiers()),
		)
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) classModifiersStr() string {
	c := e.class
	mods := append([]string{string(c.Modifiers().Visibility)}, modifierKeywords(c.Modifiers())...)
	return strings.Join(mods, ",")
}
