package bindgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastalk/wastalk/schema"
)

func strPtr(s string) *string { return &s }

func testSchema() *schema.PackageSchema {
	return &schema.PackageSchema{
		Package: "humanize",
		Version: "4.9.0",
		Modules: []schema.Module{
			{
				Name: "humanize",
				Functions: []schema.Function{
					{
						Name: "getUserById",
						Params: []schema.Parameter{
							{Name: "userId", Type: schema.Str()},
						},
						ReturnType: schema.Str(),
					},
				},
				Classes: []schema.Class{
					{
						Name:        "Cache",
						Constructor: &schema.Function{Name: "__init__", IsMethod: true},
						Methods: []schema.Function{
							{Name: "__init__", IsMethod: true},
							{
								Name: "get",
								Params: []schema.Parameter{
									{Name: "self", Type: schema.Any()},
									{Name: "key", Type: schema.Str()},
								},
								ReturnType: schema.Str(),
								IsMethod:   true,
							},
						},
					},
				},
			},
			{Name: "humanize.filesize"},
		},
	}
}

func TestNewPlanBasics(t *testing.T) {
	plan, err := NewPlan(testSchema())
	require.NoError(t, err)

	assert.Equal(t, "humanize", plan.PackageName)
	assert.Equal(t, "4.9.0", plan.Version)
	assert.Equal(t, "humanize-world", plan.WorldName)
	assert.Equal(t, []string{"humanize.filesize"}, plan.SkippedModules)

	require.Len(t, plan.Modules, 1)
	m := plan.Modules[0]
	assert.Equal(t, "humanize", m.Name)

	require.Len(t, m.Resources, 1)
	cache := m.Resources[0]
	assert.Equal(t, "cache", cache.Name)
	assert.Equal(t, "Cache", cache.Pascal())
	assert.Empty(t, cache.Constructor)
	require.Len(t, cache.Methods, 1, "dunder __init__ must not appear as a method")
	assert.Equal(t, "get", cache.Methods[0].Name)
	require.Len(t, cache.Methods[0].Params, 1, "explicit receiver must be stripped")
	assert.Equal(t, "key", cache.Methods[0].Params[0].Name)

	require.Len(t, m.Functions, 1)
	f := m.Functions[0]
	assert.Equal(t, "get-user-by-id", f.Name)
	assert.Equal(t, "get_user_by_id", f.Snake())
	assert.Equal(t, "getUserById", f.Camel())
	assert.Equal(t, "user-id", f.Params[0].Name)
	assert.Equal(t, "userId", f.Params[0].Camel())
}

func TestFunctionRenamedWhenCollidingWithResource(t *testing.T) {
	s := &schema.PackageSchema{
		Package: "pkg",
		Version: "1.0.0",
		Modules: []schema.Module{{
			Name: "pkg",
			Functions: []schema.Function{
				{Name: "cache", ReturnType: schema.Str()},
			},
			Classes: []schema.Class{
				{Name: "Cache"},
			},
		}},
	}
	plan, err := NewPlan(s)
	require.NoError(t, err)

	m := plan.Modules[0]
	require.Len(t, m.Resources, 1)
	require.Len(t, m.Functions, 1)
	// The resource keeps its name; the function is renamed.
	assert.Equal(t, "cache", m.Resources[0].Name)
	assert.Equal(t, "cache-fn", m.Functions[0].Name)
}

func TestMethodRenamedWhenCollidingWithResource(t *testing.T) {
	s := &schema.PackageSchema{
		Package: "pkg",
		Version: "1.0.0",
		Modules: []schema.Module{{
			Name: "pkg",
			Classes: []schema.Class{{
				Name: "Widget",
				Methods: []schema.Function{
					{Name: "widget", ReturnType: schema.Str(), IsMethod: true},
				},
			}},
		}},
	}
	plan, err := NewPlan(s)
	require.NoError(t, err)

	r := plan.Modules[0].Resources[0]
	require.Len(t, r.Methods, 1)
	assert.Equal(t, "widget-method", r.Methods[0].Name)
}

func TestDuplicateMethodsFirstWins(t *testing.T) {
	s := &schema.PackageSchema{
		Package: "pkg",
		Version: "1.0.0",
		Modules: []schema.Module{{
			Name: "pkg",
			Classes: []schema.Class{{
				Name: "Store",
				Methods: []schema.Function{
					{Name: "get_item", ReturnType: schema.Str(), IsMethod: true},
					{Name: "getItem", ReturnType: schema.Int(), IsMethod: true},
				},
			}},
		}},
	}
	plan, err := NewPlan(s)
	require.NoError(t, err)

	r := plan.Modules[0].Resources[0]
	require.Len(t, r.Methods, 1, "both methods canonicalize to get-item; first in schema order survives")
	assert.Equal(t, "get-item", r.Methods[0].Name)
	assert.Equal(t, "get_item", r.Methods[0].Fn.Name)
}

func TestDuplicateClassesFirstWins(t *testing.T) {
	s := &schema.PackageSchema{
		Package: "pkg",
		Version: "1.0.0",
		Modules: []schema.Module{{
			Name: "pkg",
			Classes: []schema.Class{
				{Name: "HttpClient", Docstring: "first"},
				{Name: "http_client", Docstring: "second"},
			},
		}},
	}
	plan, err := NewPlan(s)
	require.NoError(t, err)

	m := plan.Modules[0]
	// Distinct source names can collapse to one canonical identifier.
	require.Len(t, m.Resources, 2-1)
	assert.Equal(t, "first", m.Resources[0].Class.Docstring)
}

func TestDuplicateParamsNumericSuffix(t *testing.T) {
	s := &schema.PackageSchema{
		Package: "pkg",
		Version: "1.0.0",
		Modules: []schema.Module{{
			Name: "pkg",
			Functions: []schema.Function{{
				Name: "merge",
				Params: []schema.Parameter{
					{Name: "value", Type: schema.Str()},
					{Name: "VALUE", Type: schema.Str()},
					{Name: "value_", Type: schema.Str()},
				},
				ReturnType: schema.Str(),
			}},
		}},
	}
	plan, err := NewPlan(s)
	require.NoError(t, err)

	params := plan.Modules[0].Functions[0].Params
	require.Len(t, params, 3)
	assert.Equal(t, "value", params[0].Name)
	assert.Equal(t, "value-p2", params[1].Name)
	assert.Equal(t, "value-p3", params[2].Name)
}

func TestReservedWordEscapes(t *testing.T) {
	s := &schema.PackageSchema{
		Package: "pkg",
		Version: "1.0.0",
		Modules: []schema.Module{{
			Name: "pkg",
			Functions: []schema.Function{{
				Name: "record",
				Params: []schema.Parameter{
					{Name: "from", Type: schema.Str()},
				},
				ReturnType: schema.Str(),
			}},
			Classes: []schema.Class{
				{Name: "Interface"},
			},
		}},
	}
	plan, err := NewPlan(s)
	require.NoError(t, err)

	m := plan.Modules[0]
	assert.Equal(t, "record-id", m.Functions[0].Name)
	assert.Equal(t, "from-id", m.Functions[0].Params[0].Name)
	assert.Equal(t, "interface-res", m.Resources[0].Name)
}

func TestResidualCollisionFailsLoudly(t *testing.T) {
	// A literal "cache-fn" function plus a "cache" function renamed around
	// the "Cache" resource exhausts the rule set: generation must fail
	// rather than emit invalid IDL.
	s := &schema.PackageSchema{
		Package: "pkg",
		Version: "1.0.0",
		Modules: []schema.Module{{
			Name: "pkg",
			Functions: []schema.Function{
				{Name: "cache", ReturnType: schema.Str()},
				{Name: "cache-fn", ReturnType: schema.Str()},
			},
			Classes: []schema.Class{{Name: "Cache"}},
		}},
	}
	_, err := NewPlan(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "residual identifier collision")
	assert.Contains(t, err.Error(), "cache-fn")
}

func TestMethodCollidingWithEscapedResourceName(t *testing.T) {
	// The class name "Record" escapes to "record-res"; a method literally
	// named record_res canonicalizes to the same identifier without ever
	// matching the raw canonical "record", so the constructor-rename rule
	// cannot save it. Generation must fail rather than emit a resource
	// whose method shadows the resource itself.
	s := &schema.PackageSchema{
		Package: "pkg",
		Version: "1.0.0",
		Modules: []schema.Module{{
			Name: "pkg",
			Classes: []schema.Class{{
				Name: "Record",
				Methods: []schema.Function{
					{Name: "record_res", ReturnType: schema.Str(), IsMethod: true},
				},
			}},
		}},
	}
	_, err := NewPlan(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "residual identifier collision")
	assert.Contains(t, err.Error(), "record-res")
}

func TestVersionNormalization(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"4.9.0", "4.9.0"},
		{"1.0", "1.0.0"},
		{"2", "2.0.0"},
		{"v1.2.3", "1.2.3"},
		{"1.2.3-rc.1", "1.2.3-rc.1"},
		{"unknown", "0.0.0"},
		{"", "0.0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeVersion(tt.raw), "normalizeVersion(%q)", tt.raw)
	}
}

func TestExpectedExports(t *testing.T) {
	plan, err := NewPlan(testSchema())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"humanize#[constructor]cache",
		"humanize#[method]cache.get",
		"humanize#get-user-by-id",
	}, plan.ExpectedExports())
}

func TestPlanWithDefaults(t *testing.T) {
	s := &schema.PackageSchema{
		Package: "pkg",
		Version: "1.0.0",
		Modules: []schema.Module{{
			Name: "pkg",
			Functions: []schema.Function{{
				Name: "greet",
				Params: []schema.Parameter{
					{Name: "name", Type: schema.Str(), Optional: true, Default: strPtr("'world'")},
				},
				ReturnType: schema.Str(),
			}},
		}},
	}
	plan, err := NewPlan(s)
	require.NoError(t, err)

	p := plan.Modules[0].Functions[0].Params[0]
	assert.True(t, p.Param.Optional)
	require.NotNil(t, p.Param.Default)
	assert.Equal(t, "'world'", *p.Param.Default)
}
