package typescript

import (
	"fmt"
	"strings"

	"github.com/wastalk/wastalk/bindgen"
	"github.com/wastalk/wastalk/bindgen/typemap"
	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/schema"
)

func generateDTS(plan *bindgen.Plan) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "/**\n * Consumer bindings for %s %s.\n *\n * Generated by wastalk. Do not edit.\n */\n\n", plan.Schema.Package, plan.Version)
	b.WriteString("export function init(): Promise<void>;\n")
	b.WriteString("export function isInitialized(): boolean;\n")

	for _, m := range plan.Modules {
		for _, f := range m.Functions {
			sig, err := dtsParams(f.Params)
			if err != nil {
				return "", errors.Wrapf(err, "function %s", f.Name)
			}
			ret, err := dtsReturn(f.Fn.ReturnType)
			if err != nil {
				return "", errors.Wrapf(err, "function %s", f.Name)
			}
			b.WriteString("\n")
			writeDTSDoc(&b, "", f.Fn.Docstring)
			fmt.Fprintf(&b, "export function %s(%s): %s;\n", f.Camel(), sig, ret)
		}
		for _, r := range m.Resources {
			if err := writeDTSResource(&b, r); err != nil {
				return "", errors.Wrapf(err, "resource %s", r.Name)
			}
		}
	}

	return b.String(), nil
}

func writeDTSResource(b *strings.Builder, r *bindgen.ResourcePlan) error {
	ctorSig, err := dtsParams(r.Constructor)
	if err != nil {
		return errors.Wrap(err, "constructor")
	}

	b.WriteString("\n")
	writeDTSDoc(b, "", r.Class.Docstring)
	fmt.Fprintf(b, "export class %s {\n", r.Pascal())
	fmt.Fprintf(b, "  constructor(%s);\n", ctorSig)

	for _, meth := range r.Methods {
		sig, err := dtsParams(meth.Params)
		if err != nil {
			return errors.Wrapf(err, "method %s", meth.Name)
		}
		ret, err := dtsReturn(meth.Fn.ReturnType)
		if err != nil {
			return errors.Wrapf(err, "method %s", meth.Name)
		}
		writeDTSDoc(b, "  ", meth.Fn.Docstring)
		fmt.Fprintf(b, "  %s(%s): %s;\n", meth.Camel(), sig, ret)
	}

	b.WriteString("}\n")
	return nil
}

func dtsParams(params []*bindgen.ParamPlan) (string, error) {
	parts := make([]string, len(params))
	for i, p := range params {
		typ, err := typemap.TypeScript(p.Param.Type)
		if err != nil {
			return "", errors.Wrapf(err, "parameter %s", p.Param.Name)
		}
		name := p.Camel()
		if p.Param.Optional {
			name += "?"
		}
		parts[i] = name + ": " + typ
	}
	return strings.Join(parts, ", "), nil
}

func dtsReturn(t *schema.Type) (string, error) {
	if t != nil && t.Kind == schema.KindNone {
		return "Promise<void>", nil
	}
	typ, err := typemap.TypeScript(t)
	if err != nil {
		return "", err
	}
	return "Promise<" + typ + ">", nil
}

func writeDTSDoc(b *strings.Builder, indent, docstring string) {
	line := strings.TrimSpace(docstring)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" {
		return
	}
	fmt.Fprintf(b, "%s/** %s */\n", indent, strings.ReplaceAll(line, "*/", ""))
}
