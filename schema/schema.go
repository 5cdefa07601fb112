// Package schema defines the package-schema data model consumed by the
// binding generators.
//
// A PackageSchema is produced once per install by the external extraction
// collaborator (a Python introspection script) and serialized as JSON. The
// field names here mirror that interchange format exactly. The schema is
// read-only after loading: generation is a pure function of the schema and
// never mutates it.
package schema

import (
	"strings"

	"github.com/wastalk/wastalk/errors"
)

// Kind identifies a Type variant. The set is closed: any other value is an
// unsupported type shape and fails loading.
type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindList      Kind = "list"
	KindDict      Kind = "dict"
	KindOptional  Kind = "optional"
	KindTuple     Kind = "tuple"
	KindClass     Kind = "class"
	KindAny       Kind = "any"
	KindNone      Kind = "none"
)

// Primitive value names carried in Type.Primitive for KindPrimitive.
const (
	PrimitiveStr   = "str"
	PrimitiveInt   = "int"
	PrimitiveFloat = "float"
	PrimitiveBool  = "bool"
)

// Type is the closed type variant. Exactly the fields relevant to Kind are
// set; class references are by name, so cycles cannot occur.
type Type struct {
	Kind      Kind    `json:"kind"`
	Primitive string  `json:"value,omitempty"`
	Element   *Type   `json:"elementType,omitempty"`
	Key       *Type   `json:"keyType,omitempty"`
	Value     *Type   `json:"valueType,omitempty"`
	Inner     *Type   `json:"innerType,omitempty"`
	Elements  []*Type `json:"elements,omitempty"`
	ClassName string  `json:"className,omitempty"`
}

// Constructors for Type values. These keep test fixtures and generator code
// readable.

func Str() *Type   { return &Type{Kind: KindPrimitive, Primitive: PrimitiveStr} }
func Int() *Type   { return &Type{Kind: KindPrimitive, Primitive: PrimitiveInt} }
func Float() *Type { return &Type{Kind: KindPrimitive, Primitive: PrimitiveFloat} }
func Bool() *Type  { return &Type{Kind: KindPrimitive, Primitive: PrimitiveBool} }
func Any() *Type   { return &Type{Kind: KindAny} }
func None() *Type  { return &Type{Kind: KindNone} }

func List(element *Type) *Type      { return &Type{Kind: KindList, Element: element} }
func Dict(key, value *Type) *Type   { return &Type{Kind: KindDict, Key: key, Value: value} }
func Optional(inner *Type) *Type    { return &Type{Kind: KindOptional, Inner: inner} }
func Tuple(elements ...*Type) *Type { return &Type{Kind: KindTuple, Elements: elements} }
func ClassRef(name string) *Type    { return &Type{Kind: KindClass, ClassName: name} }

// String renders a compact human-readable form for error messages and logs.
func (t *Type) String() string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive
	case KindList:
		return "list[" + t.Element.String() + "]"
	case KindDict:
		return "dict[" + t.Key.String() + ", " + t.Value.String() + "]"
	case KindOptional:
		return "optional[" + t.Inner.String() + "]"
	case KindTuple:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = e.String()
		}
		return "tuple[" + strings.Join(parts, ", ") + "]"
	case KindClass:
		return "class " + t.ClassName
	case KindAny:
		return "any"
	case KindNone:
		return "none"
	default:
		return "unknown(" + string(t.Kind) + ")"
	}
}

// Validate checks the recursive closure invariant: every nested Type is a
// valid member of the closed variant set. A nil Type is treated as any
// (the extractor omits annotations it cannot resolve).
func (t *Type) Validate() error {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KindPrimitive:
		switch t.Primitive {
		case PrimitiveStr, PrimitiveInt, PrimitiveFloat, PrimitiveBool:
			return nil
		}
		return errors.Newf("unsupported primitive %q", t.Primitive)
	case KindList:
		return t.Element.Validate()
	case KindDict:
		if err := t.Key.Validate(); err != nil {
			return err
		}
		return t.Value.Validate()
	case KindOptional:
		return t.Inner.Validate()
	case KindTuple:
		for _, e := range t.Elements {
			if err := e.Validate(); err != nil {
				return err
			}
		}
		return nil
	case KindClass, KindAny, KindNone:
		return nil
	default:
		return errors.Newf("unsupported type kind %q", t.Kind)
	}
}

// Parameter is one function parameter. The receiver ("self") may appear
// explicitly for methods; every consumer must skip it by name.
type Parameter struct {
	Name     string  `json:"name"`
	Type     *Type   `json:"type"`
	Optional bool    `json:"optional"`
	Default  *string `json:"default,omitempty"`
}

// Function is a bare function or a class method.
type Function struct {
	Name       string      `json:"name"`
	Params     []Parameter `json:"params"`
	ReturnType *Type       `json:"returnType"`
	Docstring  string      `json:"docstring,omitempty"`
	IsAsync    bool        `json:"isAsync,omitempty"`
	IsMethod   bool        `json:"isMethod,omitempty"`
}

// Property is a class attribute exposed via the property protocol.
// Generators other than the documentation generator ignore properties.
type Property struct {
	Name      string `json:"name"`
	Type      *Type  `json:"type"`
	Readonly  bool   `json:"readonly"`
	Docstring string `json:"docstring,omitempty"`
}

// Class represents a stateful class. At most one constructor.
type Class struct {
	Name        string     `json:"name"`
	Constructor *Function  `json:"constructor,omitempty"`
	Methods     []Function `json:"methods"`
	Properties  []Property `json:"properties,omitempty"`
	Docstring   string     `json:"docstring,omitempty"`
	Bases       []string   `json:"bases,omitempty"`
}

// Constant is a module-level constant. Only the documentation generator
// consumes constants.
type Constant struct {
	Name  string  `json:"name"`
	Type  *Type   `json:"type"`
	Value *string `json:"value,omitempty"`
}

// Module is a flat namespace. A dotted name (e.g. "a.b") denotes a nested
// package path; only top-level modules are eligible for the component
// pipeline.
type Module struct {
	Name      string     `json:"name"`
	Path      string     `json:"path,omitempty"`
	Functions []Function `json:"functions"`
	Classes   []Class    `json:"classes"`
	Constants []Constant `json:"constants,omitempty"`
	Docstring string     `json:"docstring,omitempty"`
}

// IsTopLevel reports whether the module is eligible for component
// compilation (non-dotted name).
func (m *Module) IsTopLevel() bool {
	return !strings.Contains(m.Name, ".")
}

// PackageSchema is the root artifact.
type PackageSchema struct {
	Package string   `json:"package"`
	Version string   `json:"version"`
	Modules []Module `json:"modules"`

	// Extractor metadata, carried through but unused by generators.
	ExtractedAt            string   `json:"extractedAt,omitempty"`
	MissingAnnotations     []string `json:"missingAnnotations,omitempty"`
	TypeAnnotationCoverage float64  `json:"typeAnnotationCoverage,omitempty"`
}

// Validate checks the schema's structural invariants: a package name is
// present and every Type in every signature is a valid closed variant.
func (s *PackageSchema) Validate() error {
	if s.Package == "" {
		return errors.New("schema has no package name")
	}
	for mi := range s.Modules {
		m := &s.Modules[mi]
		for fi := range m.Functions {
			if err := validateFunction(&m.Functions[fi], m.Name); err != nil {
				return err
			}
		}
		for ci := range m.Classes {
			c := &m.Classes[ci]
			if c.Constructor != nil {
				if err := validateFunction(c.Constructor, m.Name+"."+c.Name); err != nil {
					return err
				}
			}
			for i := range c.Methods {
				if err := validateFunction(&c.Methods[i], m.Name+"."+c.Name); err != nil {
					return err
				}
			}
			for i := range c.Properties {
				if err := c.Properties[i].Type.Validate(); err != nil {
					return errors.Wrapf(err, "%s.%s.%s", m.Name, c.Name, c.Properties[i].Name)
				}
			}
		}
	}
	return nil
}

func validateFunction(f *Function, scope string) error {
	entity := scope + "." + f.Name
	if err := f.ReturnType.Validate(); err != nil {
		return errors.Wrapf(err, "%s (return type)", entity)
	}
	for i := range f.Params {
		if err := f.Params[i].Type.Validate(); err != nil {
			return errors.Wrapf(err, "%s.%s", entity, f.Params[i].Name)
		}
	}
	return nil
}
