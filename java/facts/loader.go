package facts

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jmodel/java"
)

var log = commonlog.GetLogger("jmodel.facts")

// Loader turns class facts into java.Class descriptors on demand. Each class
// is built once, after its supertypes, and shared by every class inheriting
// from it. A Loader is not safe for concurrent use.
type Loader struct {
	index   *classIndex
	order   []string
	classes map[string]*java.Class
	loading []string

	lenient bool
}

type Option func(*Loader)

// WithLenientSupertypes drops, with a warning, inheritance edges to classes
// no document declares instead of failing with ErrUnresolvedType.
func WithLenientSupertypes() Option {
	return func(l *Loader) { l.lenient = true }
}

// NewLoader indexes the classes of docs. Nothing is built until a class is
// requested.
func NewLoader(docs []*Document, opts ...Option) (*Loader, error) {
	l := &Loader{
		index:   newClassIndex(),
		classes: make(map[string]*java.Class),
	}
	for _, opt := range opts {
		opt(l)
	}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for i := range doc.Classes {
			c := &doc.Classes[i]
			if c.Name == "" {
				return nil, java.UnsupportedShapef("class %d of package %q has no name", i, c.Package)
			}
			name := c.QualifiedName()
			if _, dup := l.index.byName[name]; dup {
				return nil, errors.Mark(errors.Newf("class %s is declared more than once", name), ErrDuplicateClass)
			}
			l.index.add(c)
			l.order = append(l.order, name)
		}
	}
	log.Debugf("indexed %d classes", len(l.order))
	return l, nil
}

// LoadFiles reads every path and indexes the classes they declare.
func LoadFiles(paths []string, opts ...Option) (*Loader, error) {
	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		doc, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return NewLoader(docs, opts...)
}

// Names lists the qualified names of all declared classes in document order.
func (l *Loader) Names() []string {
	return slices.Clone(l.order)
}

// Fact returns the raw facts of a declared class.
func (l *Loader) Fact(name string) (ClassFact, bool) {
	c, ok := l.index.byName[name]
	if !ok {
		return ClassFact{}, false
	}
	return *c, true
}

// Classes builds every declared class in document order.
func (l *Loader) Classes() ([]*java.Class, error) {
	classes := make([]*java.Class, 0, len(l.order))
	for _, name := range l.order {
		c, err := l.Class(name)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// Class builds the class with the given qualified name, together with every
// supertype it inherits from.
func (l *Loader) Class(name string) (*java.Class, error) {
	if c, ok := l.classes[name]; ok {
		return c, nil
	}
	if i := slices.Index(l.loading, name); i >= 0 {
		chain := append(slices.Clone(l.loading[i:]), name)
		return nil, errors.Mark(
			errors.Newf("%s inherits from itself: %s", name, strings.Join(chain, " -> ")),
			ErrInheritanceCycle)
	}
	fact, ok := l.index.byName[name]
	if !ok {
		err := errors.Mark(errors.Newf("class %s is not declared", name), ErrUnresolvedType)
		return nil, errors.WithHintf(err, "add a fact document declaring %s", name)
	}

	l.loading = append(l.loading, name)
	c, err := l.build(fact)
	l.loading = l.loading[:len(l.loading)-1]
	if err != nil {
		return nil, err
	}
	l.classes[name] = c
	log.Debugf("built %s with %d inheritance edges", name, len(c.Inheritance()))
	return c, nil
}

func (l *Loader) build(fact *ClassFact) (*java.Class, error) {
	name := fact.QualifiedName()
	category, err := java.ParseCategory(fact.Kind)
	if err != nil {
		return nil, errors.Wrapf(err, "class %s", name)
	}
	iface := category == java.CategoryInterface
	visibility, err := java.ParseVisibility(fact.Visibility)
	if err != nil {
		return nil, errors.Wrapf(err, "class %s", name)
	}
	mods := parseModifiers(visibility, fact.Modifiers, name)
	if iface {
		if mods, err = implicitlyAbstract(mods, "interface "+name); err != nil {
			return nil, err
		}
	}

	s, params, err := newScope(l.index, fact).typeParameters(fact.TypeParameters)
	if err != nil {
		return nil, err
	}
	classType, err := java.NewType(java.TypeSpec{
		Package: fact.Package,
		Outer:   fact.Outer,
		Name:    fact.Name,
		Args:    params,
	})
	if err != nil {
		return nil, err
	}
	annotations, err := s.annotations(fact.Annotations)
	if err != nil {
		return nil, err
	}
	edges, err := l.edges(s, fact)
	if err != nil {
		return nil, err
	}

	fields := make([]*java.Field, 0, len(fact.Fields))
	for _, f := range fact.Fields {
		field, err := s.field(f, classType, iface)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", name, f.Name)
		}
		fields = append(fields, field)
	}
	methods := make([]*java.Method, 0, len(fact.Methods))
	for _, m := range fact.Methods {
		method, err := s.method(m, iface)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s.%s", name, m.Name)
		}
		methods = append(methods, method)
	}
	constructors := make([]*java.Constructor, 0, len(fact.Constructors))
	for i, c := range fact.Constructors {
		ctor, err := s.constructor(c)
		if err != nil {
			return nil, errors.Wrapf(err, "constructor %d of %s", i, name)
		}
		constructors = append(constructors, ctor)
	}

	return java.NewClass(java.ClassSpec{
		Modifiers:    mods,
		Category:     category,
		Type:         classType,
		Annotations:  annotations,
		Inheritance:  edges,
		Constructors: constructors,
		Fields:       fields,
		Methods:      methods,
	})
}

// edges resolves the extends and implements clauses. java.lang.Object is
// implied and never becomes an edge. A raw supertype is inherited through
// the erasure of its type parameters.
func (l *Loader) edges(s *scope, fact *ClassFact) ([]*java.Inheritance, error) {
	var written []string
	if fact.Extends != "" {
		written = append(written, fact.Extends)
	}
	written = append(written, fact.Implements...)

	name := fact.QualifiedName()
	var edges []*java.Inheritance
	for _, w := range written {
		t, err := s.parse(w)
		if err != nil {
			return nil, err
		}
		if t.IsTypeParameter() || t.IsArray() || t.IsPrimitive() || t.IsVoid() {
			return nil, java.UnsupportedShapef("%s cannot inherit from %s", name, w)
		}
		superName := t.QualifiedName()
		if superName == "java.lang.Object" {
			continue
		}
		if _, declared := l.index.byName[superName]; !declared && l.lenient {
			log.Warningf("%s: dropping undeclared supertype %s", name, superName)
			continue
		}
		super, err := l.Class(superName)
		if err != nil {
			return nil, errors.Wrapf(err, "supertype of %s", name)
		}
		args := t.Args()
		if len(args) == 0 && len(super.TypeParameters()) > 0 {
			log.Debugf("%s inherits raw %s", name, superName)
			for _, p := range super.TypeParameters() {
				args = append(args, erasure(p))
			}
		}
		edge, err := java.NewInheritance(super, args...)
		if err != nil {
			return nil, errors.Wrapf(err, "supertype of %s", name)
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

func erasure(p *java.Type) *java.Type {
	if bounds := p.Bounds(); len(bounds) > 0 {
		if raw, err := bounds[0].RawType(); err == nil {
			return raw
		}
	}
	return java.ObjectType
}

func parseModifiers(v java.Visibility, keywords []string, owner string) java.Modifiers {
	m := java.VisibilityOnly(v)
	for _, k := range keywords {
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "abstract":
			m.Abstract = true
		case "static":
			m.Static = true
		case "final":
			m.Final = true
		case "public":
			m.Visibility = java.VisibilityPublic
		case "protected":
			m.Visibility = java.VisibilityProtected
		case "private":
			m.Visibility = java.VisibilityPrivate
		case "default", "synchronized", "native", "transient", "volatile", "strictfp", "sealed", "non-sealed":
		default:
			log.Warningf("%s: ignoring unknown modifier %q", owner, k)
		}
	}
	return m
}

func hasKeyword(keywords []string, word string) bool {
	for _, k := range keywords {
		if strings.EqualFold(strings.TrimSpace(k), word) {
			return true
		}
	}
	return false
}

// memberVisibility applies the interface default: members without a
// visibility are public.
func memberVisibility(written string, iface bool) (java.Visibility, error) {
	if iface && strings.TrimSpace(written) == "" {
		return java.VisibilityPublic, nil
	}
	return java.ParseVisibility(written)
}

func (s *scope) field(f FieldFact, declaringType *java.Type, iface bool) (*java.Field, error) {
	t, err := s.parse(f.Type)
	if err != nil {
		return nil, err
	}
	v, err := memberVisibility(f.Visibility, iface)
	if err != nil {
		return nil, err
	}
	mods := parseModifiers(v, f.Modifiers, f.Name)
	if iface {
		mods = mods.MakeStatic().MakeFinal()
	}
	annotations, err := s.annotations(f.Annotations)
	if err != nil {
		return nil, err
	}
	return java.NewField(java.FieldSpec{
		DeclaringType: declaringType,
		Annotations:   annotations,
		Modifiers:     mods,
		Type:          t,
		Name:          f.Name,
	})
}

// implicitlyAbstract makes mods abstract, refusing declarations that also
// say final.
func implicitlyAbstract(mods java.Modifiers, what string) (java.Modifiers, error) {
	if mods.Final {
		return mods, errors.Mark(errors.Newf("%s is implicitly abstract and cannot be final", what), java.ErrConstruction)
	}
	return mods.MakeAbstract(), nil
}

// method builds a method in a scope extended by its own type parameters.
// Interface methods are abstract unless declared static, default or
// private.
func (s *scope) method(f MethodFact, iface bool) (*java.Method, error) {
	ms, typeParams, err := s.typeParameters(f.TypeParameters)
	if err != nil {
		return nil, err
	}
	v, err := memberVisibility(f.Visibility, iface)
	if err != nil {
		return nil, err
	}
	mods := parseModifiers(v, f.Modifiers, f.Name)
	if iface && !mods.Static && mods.Visibility != java.VisibilityPrivate && !hasKeyword(f.Modifiers, "default") {
		if mods, err = implicitlyAbstract(mods, "interface method "+f.Name); err != nil {
			return nil, err
		}
	}

	returns := f.Returns
	if strings.TrimSpace(returns) == "" {
		returns = "void"
	}
	ret, err := ms.parse(returns)
	if err != nil {
		return nil, err
	}
	params, err := ms.parameters(f.Parameters)
	if err != nil {
		return nil, err
	}
	annotations, err := ms.annotations(f.Annotations)
	if err != nil {
		return nil, err
	}
	return java.NewMethod(java.MethodSpec{
		Annotations:    annotations,
		Modifiers:      mods,
		TypeParameters: typeParams,
		Name:           f.Name,
		ReturnType:     ret,
		Parameters:     params,
	})
}

func (s *scope) constructor(f ConstructorFact) (*java.Constructor, error) {
	v, err := java.ParseVisibility(f.Visibility)
	if err != nil {
		return nil, err
	}
	params, err := s.parameters(f.Parameters)
	if err != nil {
		return nil, err
	}
	return java.NewConstructor(v, params...)
}

// parameters resolves parameter types; unnamed parameters are called arg0,
// arg1 and so on.
func (s *scope) parameters(facts []ParameterFact) ([]java.Parameter, error) {
	params := make([]java.Parameter, len(facts))
	for i, p := range facts {
		t, err := s.parse(p.Type)
		if err != nil {
			return nil, err
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		params[i] = java.Parameter{Type: t, Name: name}
	}
	return params, nil
}

func (s *scope) annotations(facts []AnnotationFact) ([]java.Annotation, error) {
	if len(facts) == 0 {
		return nil, nil
	}
	annotations := make([]java.Annotation, len(facts))
	for i, a := range facts {
		t, err := s.parse(strings.TrimPrefix(strings.TrimSpace(a.Type), "@"))
		if err != nil {
			return nil, err
		}
		values := make([]java.AnnotationValue, len(a.Values))
		for j, v := range a.Values {
			values[j] = java.AnnotationValue{Name: v.Name, Value: v.Value}
			if v.Type == "" {
				continue
			}
			if values[j].Type, err = s.parse(v.Type); err != nil {
				return nil, err
			}
		}
		if annotations[i], err = java.NewAnnotation(t, values...); err != nil {
			return nil, err
		}
	}
	return annotations, nil
}
