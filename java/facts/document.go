// Package facts reads class facts extracted from Java sources and turns them
// into java.Class descriptors.
//
// A fact document lists classes with their type parameters, supertypes and
// members. Type expressions are written as source text (java.util.Map<K, V>,
// T[], ? extends Number) and resolved against the declaring class's scope.
package facts

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Document struct {
	Classes []ClassFact `yaml:"classes" json:"classes" toml:"classes"`
}

type ClassFact struct {
	Package        string              `yaml:"package" json:"package" toml:"package"`
	Outer          []string            `yaml:"outer,omitempty" json:"outer,omitempty" toml:"outer,omitempty"` // innermost first
	Name           string              `yaml:"name" json:"name" toml:"name"`
	Kind           string              `yaml:"kind,omitempty" json:"kind,omitempty" toml:"kind,omitempty"`
	Visibility     string              `yaml:"visibility,omitempty" json:"visibility,omitempty" toml:"visibility,omitempty"`
	Modifiers      []string            `yaml:"modifiers,omitempty" json:"modifiers,omitempty" toml:"modifiers,omitempty"`
	Imports        []string            `yaml:"imports,omitempty" json:"imports,omitempty" toml:"imports,omitempty"`
	TypeParameters []TypeParameterFact `yaml:"typeParameters,omitempty" json:"typeParameters,omitempty" toml:"typeParameters,omitempty"`
	Extends        string              `yaml:"extends,omitempty" json:"extends,omitempty" toml:"extends,omitempty"`
	Implements     []string            `yaml:"implements,omitempty" json:"implements,omitempty" toml:"implements,omitempty"`
	Annotations    []AnnotationFact    `yaml:"annotations,omitempty" json:"annotations,omitempty" toml:"annotations,omitempty"`
	Fields         []FieldFact         `yaml:"fields,omitempty" json:"fields,omitempty" toml:"fields,omitempty"`
	Methods        []MethodFact        `yaml:"methods,omitempty" json:"methods,omitempty" toml:"methods,omitempty"`
	Constructors   []ConstructorFact   `yaml:"constructors,omitempty" json:"constructors,omitempty" toml:"constructors,omitempty"`
}

type TypeParameterFact struct {
	Name   string   `yaml:"name" json:"name" toml:"name"`
	Bounds []string `yaml:"bounds,omitempty" json:"bounds,omitempty" toml:"bounds,omitempty"`
}

type AnnotationFact struct {
	Type   string                `yaml:"type" json:"type" toml:"type"`
	Values []AnnotationValueFact `yaml:"values,omitempty" json:"values,omitempty" toml:"values,omitempty"`
}

type AnnotationValueFact struct {
	Name  string `yaml:"name" json:"name" toml:"name"`
	Type  string `yaml:"type,omitempty" json:"type,omitempty" toml:"type,omitempty"`
	Value string `yaml:"value" json:"value" toml:"value"`
}

type FieldFact struct {
	Name        string           `yaml:"name" json:"name" toml:"name"`
	Type        string           `yaml:"type" json:"type" toml:"type"`
	Visibility  string           `yaml:"visibility,omitempty" json:"visibility,omitempty" toml:"visibility,omitempty"`
	Modifiers   []string         `yaml:"modifiers,omitempty" json:"modifiers,omitempty" toml:"modifiers,omitempty"`
	Annotations []AnnotationFact `yaml:"annotations,omitempty" json:"annotations,omitempty" toml:"annotations,omitempty"`
}

type MethodFact struct {
	Name           string              `yaml:"name" json:"name" toml:"name"`
	Returns        string              `yaml:"returns,omitempty" json:"returns,omitempty" toml:"returns,omitempty"`
	Visibility     string              `yaml:"visibility,omitempty" json:"visibility,omitempty" toml:"visibility,omitempty"`
	Modifiers      []string            `yaml:"modifiers,omitempty" json:"modifiers,omitempty" toml:"modifiers,omitempty"`
	TypeParameters []TypeParameterFact `yaml:"typeParameters,omitempty" json:"typeParameters,omitempty" toml:"typeParameters,omitempty"`
	Parameters     []ParameterFact     `yaml:"parameters,omitempty" json:"parameters,omitempty" toml:"parameters,omitempty"`
	Annotations    []AnnotationFact    `yaml:"annotations,omitempty" json:"annotations,omitempty" toml:"annotations,omitempty"`
}

type ParameterFact struct {
	Name string `yaml:"name" json:"name" toml:"name"`
	Type string `yaml:"type" json:"type" toml:"type"`
}

type ConstructorFact struct {
	Visibility string          `yaml:"visibility,omitempty" json:"visibility,omitempty" toml:"visibility,omitempty"`
	Parameters []ParameterFact `yaml:"parameters,omitempty" json:"parameters,omitempty" toml:"parameters,omitempty"`
}

// QualifiedName is the dotted name of the class, outer classes included.
func (c ClassFact) QualifiedName() string {
	parts := make([]string, 0, len(c.Outer)+2)
	if c.Package != "" {
		parts = append(parts, c.Package)
	}
	for i := len(c.Outer) - 1; i >= 0; i-- {
		parts = append(parts, c.Outer[i])
	}
	parts = append(parts, c.Name)
	return strings.Join(parts, ".")
}

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatForPath picks the document format from the file extension, falling
// back to YAML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	}
	return FormatYAML
}

// IsFactFile reports whether path has an extension fact documents are read
// from.
func IsFactFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".toml":
		return true
	}
	return false
}

// Decode reads one document in the given format.
func Decode(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading fact document")
	}
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML, "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, errors.Newf("unknown fact document format %q", string(format))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s fact document", string(format))
	}
	return &doc, nil
}

// ReadFile reads the document at path, choosing the format by extension.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening fact document %s", path)
	}
	defer f.Close()
	doc, err := Decode(f, FormatForPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return doc, nil
}
