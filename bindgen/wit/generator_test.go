package wit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastalk/wastalk/bindgen"
	"github.com/wastalk/wastalk/schema"
)

func mustPlan(t *testing.T, s *schema.PackageSchema) *bindgen.Plan {
	t.Helper()
	plan, err := bindgen.NewPlan(s)
	require.NoError(t, err)
	return plan
}

func endToEndSchema() *schema.PackageSchema {
	return &schema.PackageSchema{
		Package: "humanize",
		Version: "1.0.0",
		Modules: []schema.Module{{
			Name: "m",
			Functions: []schema.Function{{
				Name: "getUserById",
				Params: []schema.Parameter{
					{Name: "userId", Type: schema.Str()},
				},
				ReturnType: schema.Str(),
			}},
			Classes: []schema.Class{{
				Name:        "Cache",
				Constructor: &schema.Function{Name: "__init__", IsMethod: true},
				Methods: []schema.Function{
					{Name: "__init__", IsMethod: true},
					{
						Name: "get",
						Params: []schema.Parameter{
							{Name: "key", Type: schema.Str()},
						},
						ReturnType: schema.Str(),
						IsMethod:   true,
					},
				},
			}},
		}},
	}
}

func TestGenerateEndToEndScenario(t *testing.T) {
	doc, err := Generate(mustPlan(t, endToEndSchema()))
	require.NoError(t, err)

	assert.Contains(t, doc, "package wastalk:humanize@1.0.0;")
	assert.Contains(t, doc, "interface m {")
	assert.Contains(t, doc, "resource cache {")
	assert.Contains(t, doc, "constructor();")
	assert.Contains(t, doc, "get: func(key: string) -> string;")
	assert.Contains(t, doc, "get-user-by-id: func(user-id: string) -> string;")
	assert.Contains(t, doc, "world humanize-world {")
	assert.Contains(t, doc, "export m;")
}

func TestGenerateDeterministic(t *testing.T) {
	plan := mustPlan(t, endToEndSchema())
	first, err := Generate(plan)
	require.NoError(t, err)

	// Re-plan from scratch: same schema, same document, bit for bit.
	again, err := Generate(mustPlan(t, endToEndSchema()))
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestGenerateCompositeTypes(t *testing.T) {
	s := &schema.PackageSchema{
		Package: "pkg",
		Version: "2.1.0",
		Modules: []schema.Module{{
			Name: "pkg",
			Functions: []schema.Function{{
				Name: "analyze",
				Params: []schema.Parameter{
					{Name: "tags", Type: schema.List(schema.Str())},
					{Name: "weights", Type: schema.Dict(schema.Str(), schema.Float())},
					{Name: "limit", Type: schema.Optional(schema.Int())},
					{Name: "window", Type: schema.Tuple(schema.Int(), schema.Int())},
					{Name: "extra", Type: schema.Any()},
				},
				ReturnType: schema.None(),
			}},
		}},
	}
	doc, err := Generate(mustPlan(t, s))
	require.NoError(t, err)

	assert.Contains(t, doc, "tags: list<string>")
	assert.Contains(t, doc, "weights: list<tuple<string, f64>>", "dicts cross as pair lists")
	assert.Contains(t, doc, "limit: option<s64>")
	assert.Contains(t, doc, "window: tuple<s64, s64>")
	assert.Contains(t, doc, "extra: string", "any is JSON-in-string")
	assert.Contains(t, doc, "-> option<string>;", "no unit type: none returns the placeholder option")
}

func TestGenerateSkipsDottedModules(t *testing.T) {
	s := endToEndSchema()
	s.Modules = append(s.Modules, schema.Module{
		Name: "m.internal",
		Functions: []schema.Function{
			{Name: "hidden", ReturnType: schema.Str()},
		},
	})
	doc, err := Generate(mustPlan(t, s))
	require.NoError(t, err)

	assert.NotContains(t, doc, "hidden")
	assert.NotContains(t, doc, "m-internal")
	assert.Equal(t, 1, strings.Count(doc, "interface "))
}

func TestGenerateDocComments(t *testing.T) {
	s := endToEndSchema()
	s.Modules[0].Functions[0].Docstring = "Look up a user.\n\nLong detail that stays out of the IDL."
	doc, err := Generate(mustPlan(t, s))
	require.NoError(t, err)

	assert.Contains(t, doc, "/// Look up a user.")
	assert.NotContains(t, doc, "Long detail")
}

func TestGeneratorInterface(t *testing.T) {
	var g bindgen.Generator = NewGenerator()
	assert.Equal(t, "wit", g.Language())

	docs, err := g.Generate(mustPlan(t, endToEndSchema()))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "humanize.wit", docs[0].Filename)
	assert.Contains(t, docs[0].Content, "package wastalk:humanize@1.0.0;")
}

func TestGenerateVersionNormalized(t *testing.T) {
	s := endToEndSchema()
	s.Version = "1.0"
	doc, err := Generate(mustPlan(t, s))
	require.NoError(t, err)
	assert.Contains(t, doc, "@1.0.0;")
}
