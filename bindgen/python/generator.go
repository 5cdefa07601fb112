// Package python generates the source-language wrapper: a Python module
// implementing the protocol contract declared by the generated IDL, bridging
// boundary encodings into native calls against the real package.
//
// Boundary conventions (must match the consumer generator exactly):
//   - primitives, lists, tuples, and options cross natively;
//   - dicts cross as lists of key/value pairs and are rebuilt with dict();
//   - any and class references cross as JSON-in-string, decoded leniently
//     (a string that fails JSON decoding is kept as the raw string);
//   - a None result on a JSON boundary becomes the empty string, and a
//     lazily-produced sequence is drained into a list before encoding.
package python

import (
	"fmt"
	"strings"

	"github.com/wastalk/wastalk/bindgen"
	"github.com/wastalk/wastalk/bindgen/ident"
	"github.com/wastalk/wastalk/bindgen/typemap"
	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/schema"
)

// Filename is the conventional guest-module name the component toolchain
// looks for.
const Filename = "app.py"

// Generator implements bindgen.Generator for the source wrapper.
type Generator struct{}

// NewGenerator creates a new source wrapper generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "python".
func (g *Generator) Language() string {
	return "python"
}

// Generate derives the wrapper document from the plan.
func (g *Generator) Generate(plan *bindgen.Plan) ([]bindgen.Document, error) {
	content, err := Generate(plan)
	if err != nil {
		return nil, err
	}
	return []bindgen.Document{{Filename: Filename, Content: content}}, nil
}

// Generate emits the complete wrapper module.
func Generate(plan *bindgen.Plan) (string, error) {
	var b strings.Builder

	pkg := plan.Schema.Package
	fmt.Fprintf(&b, "\"\"\"Component wrapper for %s %s.\n\nGenerated by wastalk. Do not edit.\n\"\"\"\n\n", pkg, plan.Version)

	b.WriteString("import json\n")
	if usesAsync(plan) {
		b.WriteString("import asyncio\n")
	}
	fmt.Fprintf(&b, "\nimport %s\n", pkg)
	fmt.Fprintf(&b, "\nfrom %s import exports\n", ident.Snake(plan.WorldName))

	b.WriteString(helpers)

	for _, m := range plan.Modules {
		for _, r := range m.Resources {
			if err := writeResource(&b, pkg, r); err != nil {
				return "", errors.Wrapf(err, "resource %s", r.Name)
			}
		}
		if err := writeInterface(&b, pkg, m); err != nil {
			return "", errors.Wrapf(err, "interface %s", m.Name)
		}
	}

	return b.String(), nil
}

// helpers is the fixed boundary codec prelude shared by every generated
// wrapper. The decode fallback is deliberate leniency: the boundary cannot
// statically guarantee the consumer JSON-encodes, so a raw string is kept
// as-is rather than crashing.
const helpers = `

def _decode_value(value):
    """Decode a JSON-boundary value, keeping the raw string when it is not JSON."""
    if not isinstance(value, str):
        return value
    try:
        return json.loads(value)
    except ValueError:
        return value


def _encode_result(result):
    """Encode a JSON-boundary result into the string wire type."""
    if result is None:
        return ""
    if isinstance(result, str):
        return result
    if hasattr(result, "__next__"):
        result = list(result)
    return json.dumps(result)
`

func usesAsync(plan *bindgen.Plan) bool {
	for _, m := range plan.Modules {
		for _, f := range m.Functions {
			if f.Fn.IsAsync {
				return true
			}
		}
		for _, r := range m.Resources {
			for _, meth := range r.Methods {
				if meth.Fn.IsAsync {
					return true
				}
			}
		}
	}
	return false
}

func writeResource(b *strings.Builder, pkg string, r *bindgen.ResourcePlan) error {
	fmt.Fprintf(b, "\n\nclass %s:\n", r.Pascal())
	writeDocstring(b, "    ", r.Class.Docstring, fmt.Sprintf("Wrapper around %s.%s.", pkg, r.Class.Name))

	ctorArgs, err := positionalArgs(r.Constructor)
	if err != nil {
		return errors.Wrap(err, "constructor")
	}
	fmt.Fprintf(b, "\n    def __init__(self%s):\n", defParams(r.Constructor))
	fmt.Fprintf(b, "        self._inner = %s.%s(%s)\n", pkg, r.Class.Name, ctorArgs)

	for _, meth := range r.Methods {
		if err := writeMethod(b, meth, "self._inner."+meth.Fn.Name); err != nil {
			return errors.Wrapf(err, "method %s", meth.Fn.Name)
		}
	}
	return nil
}

func writeInterface(b *strings.Builder, pkg string, m *bindgen.ModulePlan) error {
	name := m.Pascal()
	for _, r := range m.Resources {
		if r.Pascal() == name {
			// A resource wrapper already claimed the class name in this
			// flat module; the interface implementation steps aside.
			name += "Exports"
			break
		}
	}

	fmt.Fprintf(b, "\n\nclass %s(exports.%s):\n", name, m.Pascal())
	writeDocstring(b, "    ", m.Module.Docstring, fmt.Sprintf("Exported interface for module %s.", m.Module.Name))

	if len(m.Functions) == 0 {
		b.WriteString("\n    pass\n")
		return nil
	}

	for _, f := range m.Functions {
		if err := writeFunction(b, f, pkg+"."+f.Fn.Name); err != nil {
			return errors.Wrapf(err, "function %s", f.Fn.Name)
		}
	}
	return nil
}

// writeFunction emits a bare-function forwarder. Required parameters are
// forwarded positionally; optional parameters go through kwargs so the
// native default can apply. Option-typed parameters carry an unambiguous
// absence marker (None) and forward every other value, 0 and False
// included. Bare boolean and numeric parameters are always forwarded for
// the same reason; only strings and composites fall back to treating a
// falsy value as absent.
func writeFunction(b *strings.Builder, f *bindgen.FuncPlan, target string) error {
	fmt.Fprintf(b, "\n    def %s(self%s):\n", f.Snake(), defParams(f.Params))
	writeDocstring(b, "        ", f.Fn.Docstring, "")

	var required []*bindgen.ParamPlan
	var optional []*bindgen.ParamPlan
	for _, p := range f.Params {
		if p.Param.Optional {
			optional = append(optional, p)
		} else {
			required = append(required, p)
		}
	}

	if len(optional) > 0 {
		b.WriteString("        kwargs = {}\n")
		for _, p := range optional {
			decoded, err := decodeExpr(p.Param.Type, p.Snake(), 0)
			if err != nil {
				return errors.Wrapf(err, "parameter %s", p.Param.Name)
			}
			switch {
			case p.Param.Type != nil && p.Param.Type.Kind == schema.KindOptional:
				// The option's None is the absence marker; any other
				// value, 0 and False included, is a value.
				fmt.Fprintf(b, "        if %s is not None:\n", p.Snake())
				fmt.Fprintf(b, "            kwargs[%q] = %s\n", p.Param.Name, decoded)
			case typemap.AlwaysForward(p.Param.Type):
				fmt.Fprintf(b, "        kwargs[%q] = %s\n", p.Param.Name, decoded)
			default:
				// Falsy means absent here: an empty string or empty
				// composite lets the native default apply.
				fmt.Fprintf(b, "        if %s:\n", p.Snake())
				fmt.Fprintf(b, "            kwargs[%q] = %s\n", p.Param.Name, decoded)
			}
		}
	}

	args, err := positionalArgs(required)
	if err != nil {
		return err
	}
	if len(optional) > 0 {
		if args != "" {
			args += ", "
		}
		args += "**kwargs"
	}

	call := fmt.Sprintf("%s(%s)", target, args)
	if f.Fn.IsAsync {
		call = "asyncio.run(" + call + ")"
	}
	fmt.Fprintf(b, "        result = %s\n", call)
	return writeReturn(b, f.Fn.ReturnType)
}

// writeMethod emits a resource-method forwarder: decode every parameter,
// call positionally, encode the result.
func writeMethod(b *strings.Builder, f *bindgen.FuncPlan, target string) error {
	fmt.Fprintf(b, "\n    def %s(self%s):\n", f.Snake(), defParams(f.Params))
	writeDocstring(b, "        ", f.Fn.Docstring, "")

	args, err := positionalArgs(f.Params)
	if err != nil {
		return err
	}
	call := fmt.Sprintf("%s(%s)", target, args)
	if f.Fn.IsAsync {
		call = "asyncio.run(" + call + ")"
	}
	fmt.Fprintf(b, "        result = %s\n", call)
	return writeReturn(b, f.Fn.ReturnType)
}

func writeReturn(b *strings.Builder, t *schema.Type) error {
	if t != nil && t.Kind == schema.KindNone {
		b.WriteString("        return None\n")
		return nil
	}
	encoded, err := encodeExpr(t, "result", 0)
	if err != nil {
		return errors.Wrap(err, "return type")
	}
	fmt.Fprintf(b, "        return %s\n", encoded)
	return nil
}

// defParams renders the wrapper signature fragment after self.
func defParams(params []*bindgen.ParamPlan) string {
	var b strings.Builder
	for _, p := range params {
		b.WriteString(", ")
		b.WriteString(p.Snake())
	}
	return b.String()
}

// positionalArgs renders decoded positional arguments.
func positionalArgs(params []*bindgen.ParamPlan) (string, error) {
	parts := make([]string, len(params))
	for i, p := range params {
		decoded, err := decodeExpr(p.Param.Type, p.Snake(), 0)
		if err != nil {
			return "", errors.Wrapf(err, "parameter %s", p.Param.Name)
		}
		parts[i] = decoded
	}
	return strings.Join(parts, ", "), nil
}

func writeDocstring(b *strings.Builder, indent, docstring, fallback string) {
	line := firstLine(docstring)
	if line == "" {
		line = fallback
	}
	if line == "" {
		return
	}
	fmt.Fprintf(b, "%s\"\"\"%s\"\"\"\n", indent, strings.ReplaceAll(line, `"""`, `'''`))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
