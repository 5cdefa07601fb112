// Package typescript generates the consumer-side bindings: an ES module of
// async wrappers over the transpiled component, plus a TypeScript declaration
// file describing the consumer-facing surface.
//
// Every exported call is async because component instantiation is deferred:
// the first call (or an explicit init()) loads the transpiled artifact, and
// resource construction is replayed against the live component on first use.
package typescript

import (
	"fmt"
	"strings"

	"github.com/wastalk/wastalk/bindgen"
	"github.com/wastalk/wastalk/bindgen/ident"
	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/schema"
)

// Generator implements bindgen.Generator for the consumer bindings.
type Generator struct{}

// NewGenerator creates a new consumer bindings generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "typescript".
func (g *Generator) Language() string {
	return "typescript"
}

// Generate emits the glue module and its declaration file. Both documents
// are derived from the same plan, so every name and arity agrees with the
// IDL and the source wrapper.
func (g *Generator) Generate(plan *bindgen.Plan) ([]bindgen.Document, error) {
	if err := checkExportNames(plan); err != nil {
		return nil, err
	}
	js, err := generateJS(plan)
	if err != nil {
		return nil, err
	}
	dts, err := generateDTS(plan)
	if err != nil {
		return nil, err
	}
	return []bindgen.Document{
		{Filename: "index.js", Content: js},
		{Filename: "index.d.ts", Content: dts},
	}, nil
}

// checkExportNames rejects schemas whose flat consumer surface would carry
// two exports with the same name. The per-interface rename rules cannot see
// across modules, so this is caught here rather than emitting a module that
// fails to parse.
func checkExportNames(plan *bindgen.Plan) error {
	seen := map[string]string{
		"init":          "runtime",
		"isInitialized": "runtime",
	}
	claim := func(name, owner string) error {
		if first, ok := seen[name]; ok {
			err := errors.Newf("consumer export %q collides", name)
			err = errors.WithDetailf(err, "first claimed by %s, then by %s", first, owner)
			return errors.WithHint(err, "rename one of the colliding entities in the source package")
		}
		seen[name] = owner
		return nil
	}
	for _, m := range plan.Modules {
		for _, r := range m.Resources {
			if err := claim(r.Pascal(), "class "+m.Name+"."+r.Name); err != nil {
				return err
			}
		}
		for _, f := range m.Functions {
			if err := claim(f.Camel(), "function "+m.Name+"."+f.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func generateJS(plan *bindgen.Plan) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "/**\n * Consumer bindings for %s %s.\n *\n * Generated by wastalk. Do not edit.\n */\n\n", plan.Schema.Package, plan.Version)

	fmt.Fprintf(&b, jsPrelude, ident.Snake(plan.PackageName))

	for _, m := range plan.Modules {
		for _, f := range m.Functions {
			if err := writeJSFunction(&b, m, f); err != nil {
				return "", errors.Wrapf(err, "function %s", f.Name)
			}
		}
		for _, r := range m.Resources {
			if err := writeJSResource(&b, m, r); err != nil {
				return "", errors.Wrapf(err, "resource %s", r.Name)
			}
		}
	}

	return b.String(), nil
}

// jsPrelude is the fixed runtime shared by every generated consumer module.
// The decode fallback mirrors the source wrapper: a result string that does
// not parse as JSON is handed back verbatim.
const jsPrelude = `let component = null;

export async function init() {
  if (component === null) {
    component = await import("./%s/component.js");
  }
}

export function isInitialized() {
  return component !== null;
}

async function _component() {
  if (component === null) {
    await init();
  }
  return component;
}

function _encodeValue(value) {
  if (value === undefined || value === null) {
    return "";
  }
  if (typeof value === "string") {
    return value;
  }
  return JSON.stringify(value);
}

function _decodeResult(result) {
  if (typeof result !== "string") {
    return result;
  }
  try {
    return JSON.parse(result);
  } catch {
    return result;
  }
}

function _toPairs(value) {
  if (value instanceof Map) {
    return Array.from(value.entries());
  }
  return Object.entries(value);
}
`

func writeJSFunction(b *strings.Builder, m *bindgen.ModulePlan, f *bindgen.FuncPlan) error {
	sig, err := jsSignature(f.Params)
	if err != nil {
		return err
	}
	args, err := jsCallArgs(f.Params)
	if err != nil {
		return err
	}

	fmt.Fprintf(b, "\nexport async function %s(%s) {\n", f.Camel(), sig)
	b.WriteString("  const c = await _component();\n")
	call := fmt.Sprintf("c.%s.%s(%s)", m.Camel(), f.Camel(), args)
	if err := writeJSReturn(b, "  ", call, f.Fn.ReturnType); err != nil {
		return err
	}
	b.WriteString("}\n")
	return nil
}

func writeJSResource(b *strings.Builder, m *bindgen.ModulePlan, r *bindgen.ResourcePlan) error {
	ctorSig, err := jsSignature(r.Constructor)
	if err != nil {
		return errors.Wrap(err, "constructor")
	}
	ctorArgs, err := jsCallArgs(r.Constructor)
	if err != nil {
		return errors.Wrap(err, "constructor")
	}

	fmt.Fprintf(b, "\nexport class %s {\n", r.Pascal())
	fmt.Fprintf(b, "  constructor(%s) {\n", ctorSig)
	fmt.Fprintf(b, "    this._args = [%s];\n", ctorArgs)
	b.WriteString("    this._inner = null;\n  }\n")

	b.WriteString("\n  async _ensure() {\n")
	b.WriteString("    if (this._inner === null) {\n")
	b.WriteString("      const c = await _component();\n")
	fmt.Fprintf(b, "      this._inner = new c.%s.%s(...this._args);\n", m.Camel(), r.Pascal())
	b.WriteString("    }\n    return this._inner;\n  }\n")

	for _, meth := range r.Methods {
		sig, err := jsSignature(meth.Params)
		if err != nil {
			return errors.Wrapf(err, "method %s", meth.Name)
		}
		args, err := jsCallArgs(meth.Params)
		if err != nil {
			return errors.Wrapf(err, "method %s", meth.Name)
		}
		fmt.Fprintf(b, "\n  async %s(%s) {\n", meth.Camel(), sig)
		b.WriteString("    const inner = await this._ensure();\n")
		call := fmt.Sprintf("inner.%s(%s)", meth.Camel(), args)
		if err := writeJSReturn(b, "    ", call, meth.Fn.ReturnType); err != nil {
			return errors.Wrapf(err, "method %s", meth.Name)
		}
		b.WriteString("  }\n")
	}

	b.WriteString("}\n")
	return nil
}

// writeJSReturn emits the call and the decoded return statement. The caller
// writes the closing brace.
func writeJSReturn(b *strings.Builder, indent, call string, t *schema.Type) error {
	if t != nil && t.Kind == schema.KindNone {
		fmt.Fprintf(b, "%sawait %s;\n", indent, call)
		return nil
	}
	decoded, err := decodeResultExpr(t, "result")
	if err != nil {
		return err
	}
	if decoded == "result" {
		fmt.Fprintf(b, "%sreturn await %s;\n", indent, call)
		return nil
	}
	fmt.Fprintf(b, "%sconst result = await %s;\n", indent, call)
	fmt.Fprintf(b, "%sreturn %s;\n", indent, decoded)
	return nil
}

// jsSignature renders the parameter list, attaching neutral defaults to
// optional parameters so an omitted argument still crosses the typed
// boundary.
func jsSignature(params []*bindgen.ParamPlan) (string, error) {
	parts := make([]string, len(params))
	for i, p := range params {
		name := p.Camel()
		if p.Param.Optional {
			def, err := jsDefault(p.Param.Type)
			if err != nil {
				return "", errors.Wrapf(err, "parameter %s", p.Param.Name)
			}
			name += " = " + def
		}
		parts[i] = name
	}
	return strings.Join(parts, ", "), nil
}

func jsCallArgs(params []*bindgen.ParamPlan) (string, error) {
	parts := make([]string, len(params))
	for i, p := range params {
		expr, err := encodeParamExpr(p.Param.Type, p.Camel())
		if err != nil {
			return "", errors.Wrapf(err, "parameter %s", p.Param.Name)
		}
		parts[i] = expr
	}
	return strings.Join(parts, ", "), nil
}
