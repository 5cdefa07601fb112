package bindgen

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/wastalk/wastalk/bindgen/ident"
	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/schema"
)

// Collision-rename suffixes. Resources take priority over functions; a
// method never displaces its own resource's name.
const (
	funcRenameSuffix   = "-fn"
	methodRenameSuffix = "-method"
	paramRenamePrefix  = "-p"
)

// Plan is the single naming and filtering decision record for one schema.
// All three generators consume the same plan, so an identifier can never be
// derived twice with different results. The plan holds canonical kebab-case
// (IDL) names; each generator converts casing from those.
type Plan struct {
	Schema *schema.PackageSchema

	// PackageName is the canonical kebab form of the package name.
	PackageName string
	// Version is the normalized semver used in the IDL package header.
	Version string
	// WorldName is the top-level aggregate block's name.
	WorldName string

	Modules []*ModulePlan

	// SkippedModules lists dotted (nested) module names, which are not
	// eligible for the component pipeline. Deliberate restriction.
	SkippedModules []string
}

// ModulePlan is one eligible module's interface.
type ModulePlan struct {
	Module *schema.Module

	// Name is the interface's canonical identifier.
	Name string

	Resources []*ResourcePlan
	Functions []*FuncPlan
}

// ResourcePlan is one exportable class.
type ResourcePlan struct {
	Class *schema.Class

	// Name is the resource's canonical identifier.
	Name string

	// Constructor holds the planned constructor parameters, nil when the
	// class has none.
	Constructor []*ParamPlan

	Methods []*FuncPlan
}

// FuncPlan is one exported bare function or resource method.
type FuncPlan struct {
	Fn *schema.Function

	// Name is the canonical identifier after all collision renames and
	// reserved-word escaping.
	Name string

	Params []*ParamPlan
}

// ParamPlan is one parameter with its canonical name (receiver excluded,
// duplicates renamed).
type ParamPlan struct {
	Param *schema.Parameter

	Name string
}

// Casing conversions. These are the only places a generator may obtain a
// target-language identifier from.

// Pascal is the Python protocol class name for the interface.
func (m *ModulePlan) Pascal() string { return ident.Pascal(m.Name) }

// Camel is the property name under which the transpiled component exposes
// the interface to the consumer language.
func (m *ModulePlan) Camel() string { return ident.Camel(m.Name) }

// Pascal is the resource's class name in both wrapper languages.
func (r *ResourcePlan) Pascal() string { return ident.Pascal(r.Name) }

// Snake is the function's name in the source wrapper.
func (f *FuncPlan) Snake() string { return ident.EscapePython(ident.Snake(f.Name)) }

// Camel is the function's name in the consumer language, which is also the
// exact export name the transpiled artifact exposes.
func (f *FuncPlan) Camel() string { return ident.Camel(f.Name) }

// Snake is the parameter's name in the source wrapper.
func (p *ParamPlan) Snake() string { return ident.EscapePython(ident.Snake(p.Name)) }

// Camel is the parameter's name in the consumer language.
func (p *ParamPlan) Camel() string { return ident.EscapeJS(ident.Camel(p.Name)) }

// NewPlan filters the schema and fixes every naming decision. It fails
// loudly on residual collisions: a duplicate surviving all rename rules is a
// defect in the rule set, and emitting invalid IDL would only surface much
// later at compile time.
func NewPlan(s *schema.PackageSchema) (*Plan, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	p := &Plan{
		Schema:      s,
		PackageName: ident.EscapeWit(ident.Kebab(s.Package)),
		Version:     normalizeVersion(s.Version),
	}
	p.WorldName = p.PackageName + "-world"

	seenInterfaces := make(map[string]string)
	for mi := range s.Modules {
		m := &s.Modules[mi]
		if !m.IsTopLevel() {
			p.SkippedModules = append(p.SkippedModules, m.Name)
			continue
		}
		mp, err := planModule(m)
		if err != nil {
			return nil, err
		}
		if prev, dup := seenInterfaces[mp.Name]; dup {
			return nil, residualCollision("package", mp.Name, prev, m.Name)
		}
		seenInterfaces[mp.Name] = m.Name
		p.Modules = append(p.Modules, mp)
	}
	return p, nil
}

func planModule(m *schema.Module) (*ModulePlan, error) {
	mp := &ModulePlan{
		Module: m,
		Name:   ident.EscapeWit(ident.Kebab(m.Name)),
	}

	// Resources first: they win name collisions against bare functions.
	resourceCanonicals := make(map[string]bool)
	for ci := range m.Classes {
		c := &m.Classes[ci]
		if !IsExportableClass(c) {
			continue
		}
		canonical := ident.Kebab(c.Name)
		if resourceCanonicals[canonical] {
			continue // de-duplicate: first occurrence wins
		}
		resourceCanonicals[canonical] = true
		rp, err := planResource(c, canonical)
		if err != nil {
			return nil, err
		}
		mp.Resources = append(mp.Resources, rp)
	}

	seenFuncs := make(map[string]bool)
	for fi := range m.Functions {
		f := &m.Functions[fi]
		canonical := ident.Kebab(f.Name)
		if seenFuncs[canonical] {
			continue
		}
		seenFuncs[canonical] = true

		name := ident.EscapeWit(canonical)
		if resourceCanonicals[canonical] {
			// Resources take priority: the function is renamed.
			name = canonical + funcRenameSuffix
		}
		mp.Functions = append(mp.Functions, planFunc(f, name))
	}

	return mp, checkModuleCollisions(mp)
}

func planResource(c *schema.Class, canonical string) (*ResourcePlan, error) {
	rp := &ResourcePlan{
		Class: c,
		Name:  ident.EscapeWitResource(canonical),
	}
	if c.Constructor != nil {
		rp.Constructor = planParams(c.Constructor.Params)
	}

	seen := make(map[string]bool)
	for mi := range c.Methods {
		meth := &c.Methods[mi]
		if !IsExportableMethod(meth) {
			continue
		}
		mc := ident.Kebab(meth.Name)
		if seen[mc] {
			continue // first occurrence in schema order survives
		}
		seen[mc] = true

		name := ident.EscapeWit(mc)
		if mc == canonical {
			// A method named like its resource collides with the
			// constructor in the resource grammar.
			name = mc + methodRenameSuffix
		}
		rp.Methods = append(rp.Methods, planFunc(meth, name))
	}

	// Seeded with the resource's own (possibly escaped) name: a method can
	// land on it through a path the constructor-rename rule never sees.
	names := map[string]string{rp.Name: c.Name}
	for _, meth := range rp.Methods {
		if prev, dup := names[meth.Name]; dup {
			return nil, residualCollision("resource "+rp.Name, meth.Name, prev, meth.Fn.Name)
		}
		names[meth.Name] = meth.Fn.Name
	}
	return rp, nil
}

func planFunc(f *schema.Function, name string) *FuncPlan {
	return &FuncPlan{
		Fn:     f,
		Name:   name,
		Params: planParams(f.Params),
	}
}

// planParams strips the explicit receiver, canonicalizes names, and renames
// repeats within the signature by an increasing numeric suffix.
func planParams(params []schema.Parameter) []*ParamPlan {
	var out []*ParamPlan
	counts := make(map[string]int)
	for pi := range params {
		p := &params[pi]
		if p.Name == "self" {
			continue
		}
		name := ident.EscapeWit(ident.Kebab(p.Name))
		counts[name]++
		if n := counts[name]; n > 1 {
			name = fmt.Sprintf("%s%s%d", name, paramRenamePrefix, n)
		}
		out = append(out, &ParamPlan{Param: p, Name: name})
	}
	return out
}

// checkModuleCollisions verifies that resources and functions share one
// collision-free namespace after all renames.
func checkModuleCollisions(mp *ModulePlan) error {
	names := make(map[string]string)
	for _, r := range mp.Resources {
		if prev, dup := names[r.Name]; dup {
			return residualCollision("interface "+mp.Name, r.Name, prev, r.Class.Name)
		}
		names[r.Name] = r.Class.Name
	}
	for _, f := range mp.Functions {
		if prev, dup := names[f.Name]; dup {
			return residualCollision("interface "+mp.Name, f.Name, prev, f.Fn.Name)
		}
		names[f.Name] = f.Fn.Name
	}
	return nil
}

func residualCollision(scope, name, first, second string) error {
	err := errors.Newf("residual identifier collision in %s: %q", scope, name)
	err = errors.WithDetailf(err, "source entities %q and %q canonicalize to the same identifier after all rename rules", first, second)
	return errors.WithHint(err, "rename one of the colliding entities in the source package")
}

// normalizeVersion coerces the extractor-reported version into the semver
// form the IDL package header requires. Unparseable versions (the extractor
// reports "unknown" when a package has no version metadata) become 0.0.0.
func normalizeVersion(raw string) string {
	v, err := semver.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return "0.0.0"
	}
	out := fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
	if pre := v.Prerelease(); pre != "" {
		out += "-" + pre
	}
	return out
}

// ExpectedExports lists the component-ABI export names the compiled artifact
// must expose, in schema order. Used by the artifact verifier.
func (p *Plan) ExpectedExports() []string {
	var out []string
	for _, m := range p.Modules {
		for _, r := range m.Resources {
			out = append(out, m.Name+"#[constructor]"+r.Name)
			for _, meth := range r.Methods {
				out = append(out, m.Name+"#[method]"+r.Name+"."+meth.Name)
			}
		}
		for _, f := range m.Functions {
			out = append(out, m.Name+"#"+f.Name)
		}
	}
	return out
}
