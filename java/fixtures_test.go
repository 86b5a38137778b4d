package java

import (
	"testing"
)

const testPkg = "com.example.model"

func mustMethod(t *testing.T, spec MethodSpec) *Method {
	t.Helper()
	m, err := NewMethod(spec)
	if err != nil {
		t.Fatalf("NewMethod(%s) failed: %v", spec.Name, err)
	}
	return m
}

func mustField(t *testing.T, spec FieldSpec) *Field {
	t.Helper()
	f, err := NewField(spec)
	if err != nil {
		t.Fatalf("NewField(%s) failed: %v", spec.Name, err)
	}
	return f
}

func mustClass(t *testing.T, spec ClassSpec) *Class {
	t.Helper()
	c, err := NewClass(spec)
	if err != nil {
		t.Fatalf("NewClass(%v) failed: %v", spec.Type, err)
	}
	return c
}

func mustInherit(t *testing.T, super *Class, args ...*Type) *Inheritance {
	t.Helper()
	e, err := NewInheritance(super, args...)
	if err != nil {
		t.Fatalf("NewInheritance(%s) failed: %v", super, err)
	}
	return e
}

func publicAbstract() Modifiers {
	return VisibilityOnly(VisibilityPublic).MakeAbstract()
}

// abstractMethod declares "public abstract ret name(params)".
func abstractMethod(t *testing.T, ret *Type, name string, params ...Parameter) *Method {
	t.Helper()
	return mustMethod(t, MethodSpec{
		Modifiers:  publicAbstract(),
		Name:       name,
		ReturnType: ret,
		Parameters: params,
	})
}

// concreteMethod declares "public ret name(params)".
func concreteMethod(t *testing.T, ret *Type, name string, params ...Parameter) *Method {
	t.Helper()
	return mustMethod(t, MethodSpec{
		Modifiers:  VisibilityOnly(VisibilityPublic),
		Name:       name,
		ReturnType: ret,
		Parameters: params,
	})
}

// parameterized is interface Parameterized<T> { T frozzle(T input); }
func parameterized(t *testing.T) *Class {
	t.Helper()
	param := TypeParam("T")
	return mustClass(t, ClassSpec{
		Modifiers: publicAbstract(),
		Category:  CategoryInterface,
		Type:      Named(testPkg, "Parameterized", param),
		Methods: []*Method{
			abstractMethod(t, param, "frozzle", Parameter{Type: param, Name: "input"}),
		},
	})
}

// extendedParameterized is interface ExtendedParameterized<S> extends Parameterized<S>.
func extendedParameterized(t *testing.T) *Class {
	t.Helper()
	s := TypeParam("S")
	return mustClass(t, ClassSpec{
		Modifiers:   publicAbstract(),
		Category:    CategoryInterface,
		Type:        Named(testPkg, "ExtendedParameterized", s),
		Inheritance: []*Inheritance{mustInherit(t, parameterized(t), s)},
	})
}

// extendedExtendedParameterized is
// interface ExtendedExtendedParameterized<C> extends ExtendedParameterized<C>.
func extendedExtendedParameterized(t *testing.T) *Class {
	t.Helper()
	c := TypeParam("C")
	return mustClass(t, ClassSpec{
		Modifiers:   publicAbstract(),
		Category:    CategoryInterface,
		Type:        Named(testPkg, "ExtendedExtendedParameterized", c),
		Inheritance: []*Inheritance{mustInherit(t, extendedParameterized(t), c)},
	})
}

// twoMethods is interface TwoMethods { void one(); void two(); }
func twoMethods(t *testing.T) *Class {
	t.Helper()
	return mustClass(t, ClassSpec{
		Modifiers: publicAbstract(),
		Category:  CategoryInterface,
		Type:      Named(testPkg, "TwoMethods"),
		Methods: []*Method{
			abstractMethod(t, VoidType, "one"),
			abstractMethod(t, VoidType, "two"),
		},
	})
}

// box is interface Box<T> { T get(); void put(T value); }
func box(t *testing.T) *Class {
	t.Helper()
	param := TypeParam("T")
	return mustClass(t, ClassSpec{
		Modifiers: publicAbstract(),
		Category:  CategoryInterface,
		Type:      Named(testPkg, "Box", param),
		Methods: []*Method{
			abstractMethod(t, param, "get"),
			abstractMethod(t, VoidType, "put", Parameter{Type: param, Name: "value"}),
		},
	})
}

// keyed is interface Keyed<K> { K key(); }
func keyed(t *testing.T) *Class {
	t.Helper()
	k := TypeParam("K")
	return mustClass(t, ClassSpec{
		Modifiers: publicAbstract(),
		Category:  CategoryInterface,
		Type:      Named(testPkg, "Keyed", k),
		Methods:   []*Method{abstractMethod(t, k, "key")},
	})
}
