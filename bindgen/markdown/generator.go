// Package markdown generates human-readable API documentation from a plan.
// Unlike the code generators it documents the whole exported surface,
// including properties and constants that do not cross the component
// boundary.
package markdown

import (
	"fmt"
	"strings"

	"github.com/wastalk/wastalk/bindgen"
	"github.com/wastalk/wastalk/bindgen/typemap"
	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/schema"
)

// Filename is the emitted document name.
const Filename = "API.md"

// Generator implements bindgen.Generator for API documentation.
type Generator struct{}

// NewGenerator creates a new documentation generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "markdown".
func (g *Generator) Language() string {
	return "markdown"
}

// Generate renders the documentation page.
func (g *Generator) Generate(plan *bindgen.Plan) ([]bindgen.Document, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s %s\n", plan.Schema.Package, plan.Version)
	fmt.Fprintf(&b, "\nPython package `%s` exposed through a WebAssembly component.\n", plan.Schema.Package)

	for _, m := range plan.Modules {
		if err := writeModule(&b, m); err != nil {
			return nil, errors.Wrapf(err, "module %s", m.Module.Name)
		}
	}

	if len(plan.SkippedModules) > 0 {
		b.WriteString("\n## Skipped modules\n\nNested modules are not part of the component surface:\n\n")
		for _, name := range plan.SkippedModules {
			fmt.Fprintf(&b, "- `%s`\n", name)
		}
	}

	return []bindgen.Document{{Filename: Filename, Content: b.String()}}, nil
}

func writeModule(b *strings.Builder, m *bindgen.ModulePlan) error {
	fmt.Fprintf(b, "\n## Module `%s`\n", m.Module.Name)
	if doc := firstParagraph(m.Module.Docstring); doc != "" {
		fmt.Fprintf(b, "\n%s\n", doc)
	}

	if len(m.Functions) > 0 {
		b.WriteString("\n### Functions\n")
		for _, f := range m.Functions {
			if err := writeFunction(b, f); err != nil {
				return errors.Wrapf(err, "function %s", f.Fn.Name)
			}
		}
	}

	if len(m.Resources) > 0 {
		b.WriteString("\n### Classes\n")
		for _, r := range m.Resources {
			if err := writeClass(b, r); err != nil {
				return errors.Wrapf(err, "class %s", r.Class.Name)
			}
		}
	}

	if len(m.Module.Constants) > 0 {
		b.WriteString("\n### Constants\n\n")
		for i := range m.Module.Constants {
			if err := writeConstant(b, &m.Module.Constants[i]); err != nil {
				return errors.Wrapf(err, "constant %s", m.Module.Constants[i].Name)
			}
		}
	}

	return nil
}

func writeFunction(b *strings.Builder, f *bindgen.FuncPlan) error {
	sig, err := signature(f.Fn.Name, f.Params, f.Fn.ReturnType, f.Fn.IsAsync)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "\n#### `%s`\n", sig)
	if doc := firstParagraph(f.Fn.Docstring); doc != "" {
		fmt.Fprintf(b, "\n%s\n", doc)
	}
	return nil
}

func writeClass(b *strings.Builder, r *bindgen.ResourcePlan) error {
	fmt.Fprintf(b, "\n#### `%s`\n", r.Class.Name)
	if doc := firstParagraph(r.Class.Docstring); doc != "" {
		fmt.Fprintf(b, "\n%s\n", doc)
	}

	ctor, err := paramList(r.Constructor)
	if err != nil {
		return errors.Wrap(err, "constructor")
	}
	fmt.Fprintf(b, "\n**Constructor:** `%s(%s)`\n", r.Class.Name, ctor)

	if len(r.Methods) > 0 {
		b.WriteString("\n**Methods:**\n\n")
		for _, meth := range r.Methods {
			sig, err := signature(meth.Fn.Name, meth.Params, meth.Fn.ReturnType, meth.Fn.IsAsync)
			if err != nil {
				return errors.Wrapf(err, "method %s", meth.Fn.Name)
			}
			fmt.Fprintf(b, "- `%s`", sig)
			if doc := firstLine(meth.Fn.Docstring); doc != "" {
				fmt.Fprintf(b, " %s", doc)
			}
			b.WriteString("\n")
		}
	}

	if len(r.Class.Properties) > 0 {
		b.WriteString("\n**Properties:**\n\n")
		for i := range r.Class.Properties {
			p := &r.Class.Properties[i]
			typ, err := typemap.Python(p.Type)
			if err != nil {
				return errors.Wrapf(err, "property %s", p.Name)
			}
			fmt.Fprintf(b, "- `%s: %s`", p.Name, typ)
			if p.Readonly {
				b.WriteString(" (read-only)")
			}
			if doc := firstLine(p.Docstring); doc != "" {
				fmt.Fprintf(b, " %s", doc)
			}
			b.WriteString("\n")
		}
	}

	return nil
}

func writeConstant(b *strings.Builder, c *schema.Constant) error {
	typ, err := typemap.Python(c.Type)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "- `%s: %s`", c.Name, typ)
	if c.Value != nil {
		fmt.Fprintf(b, " = `%s`", *c.Value)
	}
	b.WriteString("\n")
	return nil
}

// signature renders a Python-style signature using the planned (renamed)
// parameter names, so the documentation matches what the generated bindings
// actually accept.
func signature(name string, params []*bindgen.ParamPlan, ret *schema.Type, isAsync bool) (string, error) {
	parts := make([]string, len(params))
	for i, p := range params {
		typ, err := typemap.Python(p.Param.Type)
		if err != nil {
			return "", errors.Wrapf(err, "parameter %s", p.Param.Name)
		}
		part := p.Snake() + ": " + typ
		if p.Param.Optional {
			if p.Param.Default != nil {
				part += " = " + *p.Param.Default
			} else {
				part += " = ..."
			}
		}
		parts[i] = part
	}
	retType, err := typemap.Python(ret)
	if err != nil {
		return "", errors.Wrap(err, "return type")
	}
	if ret != nil && ret.Kind == schema.KindNone {
		retType = "None"
	}
	sig := fmt.Sprintf("%s(%s) -> %s", name, strings.Join(parts, ", "), retType)
	if isAsync {
		sig = "async " + sig
	}
	return sig, nil
}

// paramList renders a comma-separated Python-style parameter list using the
// planned (renamed) parameter names, matching the rendering used by signature.
func paramList(params []*bindgen.ParamPlan) (string, error) {
	parts := make([]string, len(params))
	for i, p := range params {
		typ, err := typemap.Python(p.Param.Type)
		if err != nil {
			return "", errors.Wrapf(err, "parameter %s", p.Param.Name)
		}
		part := p.Snake() + ": " + typ
		if p.Param.Optional {
			if p.Param.Default != nil {
				part += " = " + *p.Param.Default
			} else {
				part += " = ..."
			}
		}
		parts[i] = part
	}
	return strings.Join(parts, ", "), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func firstParagraph(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "\n\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
