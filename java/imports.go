package java

import (
	"slices"
)

// ReferenceForm is how a type is written at a use site.
type ReferenceForm int

const (
	// ReferenceNameOnly writes the simple name; the type is imported unless it
	// is implicitly visible.
	ReferenceNameOnly ReferenceForm = iota
	// ReferenceNestedName writes Outer.Inner; the outermost class is imported
	// unless it is implicitly visible.
	ReferenceNestedName
	// ReferenceFullyQualified writes the package-qualified name and needs no
	// import.
	ReferenceFullyQualified
)

func (f ReferenceForm) String() string {
	switch f {
	case ReferenceNameOnly:
		return "name-only"
	case ReferenceNestedName:
		return "nested-name"
	case ReferenceFullyQualified:
		return "fully-qualified"
	}
	return "unknown"
}

// implicitPackage is imported into every compilation unit.
const implicitPackage = "java.lang"

// ReferenceTable decides, for one output unit, how each referenced type is
// written. It is built in a single batch from the closure of every type the
// unit references and is read-only afterwards.
type ReferenceTable struct {
	pkg   string
	forms map[string]ReferenceForm
	types map[string]*Type
}

// NewReferenceTable builds the table for a unit declared in pkg.
//
// Raw types are grouped by simple name. A name used by exactly one type is
// written by name; every member of a colliding group is fully qualified.
// Types of java.lang are not filtered out before grouping: they take part in
// collision detection like any other type, so an imported com.example.String
// and java.lang.String are both fully qualified instead of the import
// silently shadowing the implicit one.
func NewReferenceTable(pkg string, types TypeSet) *ReferenceTable {
	table := &ReferenceTable{
		pkg:   pkg,
		forms: make(map[string]ReferenceForm),
		types: make(map[string]*Type),
	}

	groups := make(map[string][]*Type)
	for _, t := range types.Sorted() {
		if t.param {
			continue
		}
		raw := t.rawType()
		if raw.pkg == "" && len(raw.outer) == 0 {
			// primitives and void
			continue
		}
		if _, seen := table.types[raw.Key()]; seen {
			continue
		}
		table.types[raw.Key()] = raw
		groups[raw.name] = append(groups[raw.name], raw)
	}

	for _, group := range groups {
		if len(group) == 1 {
			table.forms[group[0].Key()] = ReferenceNameOnly
			continue
		}
		// TODO: import the most used member of a colliding group and qualify only the rest.
		for _, t := range group {
			table.forms[t.Key()] = ReferenceFullyQualified
		}
	}
	return table
}

// EmptyReferenceTable has no entries: every concrete type outside pkg and
// java.lang is written fully qualified.
func EmptyReferenceTable(pkg string) *ReferenceTable {
	return &ReferenceTable{
		pkg:   pkg,
		forms: map[string]ReferenceForm{},
		types: map[string]*Type{},
	}
}

func (r *ReferenceTable) Package() string {
	if r == nil {
		return ""
	}
	return r.pkg
}

// Reference returns the form t must be written in. Types declared in the
// table's package are never qualified. A type missing from the table is fully
// qualified.
func (r *ReferenceTable) Reference(t *Type) ReferenceForm {
	if t.param || (t.pkg == "" && len(t.outer) == 0) {
		return ReferenceNameOnly
	}
	if r == nil {
		return ReferenceFullyQualified
	}
	if t.pkg == r.pkg {
		if len(t.outer) > 0 {
			return ReferenceNestedName
		}
		return ReferenceNameOnly
	}
	form, ok := r.forms[t.rawType().Key()]
	if ok {
		return form
	}
	if isImplicit(t) {
		return ReferenceNameOnly
	}
	return ReferenceFullyQualified
}

func (r *ReferenceTable) referenceName(t *Type) string {
	switch r.Reference(t) {
	case ReferenceNameOnly:
		return t.name
	case ReferenceNestedName:
		return t.NestedName()
	}
	return t.QualifiedName()
}

func isImplicit(t *Type) bool {
	return t.pkg == implicitPackage && len(t.outer) == 0
}

// Imports returns the sorted, deduplicated import list: every abbreviated
// type that is neither implicitly visible nor declared in the unit's package.
func (r *ReferenceTable) Imports() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool)
	var imports []string
	for key, form := range r.forms {
		t := r.types[key]
		if t.pkg == r.pkg || isImplicit(t) {
			continue
		}
		var name string
		switch form {
		case ReferenceNameOnly:
			name = t.QualifiedName()
		case ReferenceNestedName:
			name = t.OutermostName()
		default:
			continue
		}
		if !seen[name] {
			seen[name] = true
			imports = append(imports, name)
		}
	}
	slices.Sort(imports)
	return imports
}
