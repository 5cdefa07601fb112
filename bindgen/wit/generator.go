// Package wit synthesizes the IDL document: one interface per eligible
// module, one resource per exportable class, and a world exporting every
// interface. Output is a pure function of the plan: iteration follows
// schema order, never map order, so the same schema always yields the same
// document.
package wit

import (
	"fmt"
	"strings"

	"github.com/wastalk/wastalk/bindgen"
	"github.com/wastalk/wastalk/bindgen/typemap"
	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/schema"
)

// Generator implements bindgen.Generator for the IDL target.
type Generator struct{}

// NewGenerator creates a new IDL generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "wit".
func (g *Generator) Language() string {
	return "wit"
}

// Generate derives the IDL document from the plan.
func (g *Generator) Generate(plan *bindgen.Plan) ([]bindgen.Document, error) {
	content, err := Generate(plan)
	if err != nil {
		return nil, err
	}
	return []bindgen.Document{{
		Filename: plan.PackageName + ".wit",
		Content:  content,
	}}, nil
}

// Generate emits the full IDL document for a plan.
func Generate(plan *bindgen.Plan) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "package wastalk:%s@%s;\n", plan.PackageName, plan.Version)

	for _, m := range plan.Modules {
		b.WriteString("\n")
		if err := writeInterface(&b, m); err != nil {
			return "", errors.Wrapf(err, "interface %s", m.Name)
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "world %s {\n", plan.WorldName)
	for _, m := range plan.Modules {
		fmt.Fprintf(&b, "  export %s;\n", m.Name)
	}
	b.WriteString("}\n")

	return b.String(), nil
}

func writeInterface(b *strings.Builder, m *bindgen.ModulePlan) error {
	writeDoc(b, "", m.Module.Docstring)
	fmt.Fprintf(b, "interface %s {\n", m.Name)

	for ri, r := range m.Resources {
		if ri > 0 {
			b.WriteString("\n")
		}
		if err := writeResource(b, r); err != nil {
			return errors.Wrapf(err, "resource %s", r.Name)
		}
	}

	if len(m.Resources) > 0 && len(m.Functions) > 0 {
		b.WriteString("\n")
	}

	for _, f := range m.Functions {
		writeDoc(b, "  ", f.Fn.Docstring)
		sig, err := funcSignature(f)
		if err != nil {
			return errors.Wrapf(err, "function %s", f.Fn.Name)
		}
		fmt.Fprintf(b, "  %s: %s;\n", f.Name, sig)
	}

	b.WriteString("}\n")
	return nil
}

func writeResource(b *strings.Builder, r *bindgen.ResourcePlan) error {
	writeDoc(b, "  ", r.Class.Docstring)
	fmt.Fprintf(b, "  resource %s {\n", r.Name)

	ctor, err := paramList(r.Constructor)
	if err != nil {
		return errors.Wrap(err, "constructor")
	}
	fmt.Fprintf(b, "    constructor(%s);\n", ctor)

	for _, meth := range r.Methods {
		writeDoc(b, "    ", meth.Fn.Docstring)
		sig, err := funcSignature(meth)
		if err != nil {
			return errors.Wrapf(err, "method %s", meth.Fn.Name)
		}
		fmt.Fprintf(b, "    %s: %s;\n", meth.Name, sig)
	}

	b.WriteString("  }\n")
	return nil
}

func funcSignature(f *bindgen.FuncPlan) (string, error) {
	params, err := paramList(f.Params)
	if err != nil {
		return "", err
	}

	ret, err := returnType(f.Fn.ReturnType)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("func(%s) -> %s", params, ret), nil
}

func paramList(params []*bindgen.ParamPlan) (string, error) {
	parts := make([]string, len(params))
	for i, p := range params {
		typ, err := typemap.Wit(p.Param.Type)
		if err != nil {
			return "", errors.Wrapf(err, "parameter %s", p.Param.Name)
		}
		parts[i] = p.Name + ": " + typ
	}
	return strings.Join(parts, ", "), nil
}

func returnType(t *schema.Type) (string, error) {
	out, err := typemap.Wit(t)
	if err != nil {
		return "", errors.Wrap(err, "return type")
	}
	return out, nil
}

// writeDoc emits the first docstring line as an IDL doc comment.
func writeDoc(b *strings.Builder, indent, docstring string) {
	line := firstLine(docstring)
	if line == "" {
		return
	}
	fmt.Fprintf(b, "%s/// %s\n", indent, line)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
