package python

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastalk/wastalk/bindgen"
	"github.com/wastalk/wastalk/schema"
)

func wrapperSchema() *schema.PackageSchema {
	return &schema.PackageSchema{
		Package: "humanize",
		Version: "1.0.0",
		Modules: []schema.Module{
			{
				Name: "m",
				Functions: []schema.Function{
					{
						Name: "get_user_by_id",
						Params: []schema.Parameter{
							{Name: "user_id", Type: schema.Str()},
						},
						ReturnType: schema.Str(),
						Docstring:  "Look up a user by identifier.",
					},
					{
						Name: "intcomma",
						Params: []schema.Parameter{
							{Name: "value", Type: schema.Int()},
							{Name: "ndigits", Type: schema.Int(), Optional: true},
						},
						ReturnType: schema.Str(),
					},
					{
						Name: "natural_list",
						Params: []schema.Parameter{
							{Name: "items", Type: schema.List(schema.Str()), Optional: true},
						},
						ReturnType: schema.Str(),
					},
					{
						Name: "configure",
						Params: []schema.Parameter{
							{Name: "options", Type: schema.Any()},
						},
						ReturnType: schema.Any(),
					},
					{
						Name: "tabulate",
						Params: []schema.Parameter{
							{Name: "weights", Type: schema.Dict(schema.Str(), schema.Float())},
						},
						ReturnType: schema.Dict(schema.Str(), schema.Float()),
					},
					{
						Name:       "reset",
						ReturnType: schema.None(),
					},
					{
						Name:       "fetch",
						Params:     []schema.Parameter{{Name: "url", Type: schema.Str()}},
						ReturnType: schema.Str(),
						IsAsync:    true,
					},
				},
				Classes: []schema.Class{
					{
						Name:        "Cache",
						Constructor: &schema.Function{Name: "__init__", IsMethod: true},
						Methods: []schema.Function{
							{
								Name:       "get",
								Params:     []schema.Parameter{{Name: "key", Type: schema.Str()}},
								ReturnType: schema.Str(),
								IsMethod:   true,
							},
						},
					},
				},
			},
		},
	}
}

func generate(t *testing.T, s *schema.PackageSchema) string {
	t.Helper()
	plan, err := bindgen.NewPlan(s)
	require.NoError(t, err)
	docs, err := NewGenerator().Generate(plan)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "app.py", docs[0].Filename)
	return docs[0].Content
}

func TestGenerateHeaderAndImports(t *testing.T) {
	out := generate(t, wrapperSchema())

	assert.True(t, strings.HasPrefix(out, "\"\"\"Component wrapper for humanize 1.0.0.\n"))
	assert.Contains(t, out, "import json\n")
	assert.Contains(t, out, "import asyncio\n")
	assert.Contains(t, out, "\nimport humanize\n")
	assert.Contains(t, out, "from humanize_world import exports\n")
	assert.Contains(t, out, "def _decode_value(value):")
	assert.Contains(t, out, "def _encode_result(result):")
}

func TestGenerateResourceWrapper(t *testing.T) {
	out := generate(t, wrapperSchema())

	assert.Contains(t, out, "class Cache:")
	assert.Contains(t, out, "    def __init__(self):\n        self._inner = humanize.Cache()\n")
	assert.Contains(t, out, "    def get(self, key):")
	assert.Contains(t, out, "        result = self._inner.get(key)\n        return result\n")
}

func TestGenerateBareFunctions(t *testing.T) {
	out := generate(t, wrapperSchema())

	assert.Contains(t, out, "class M(exports.M):")

	// Required params forward positionally through the real name.
	assert.Contains(t, out, "    def get_user_by_id(self, user_id):")
	assert.Contains(t, out, `        """Look up a user by identifier."""`)
	assert.Contains(t, out, "        result = humanize.get_user_by_id(user_id)\n        return result\n")

	// Optional numerics are always forwarded: 0 is a value, not absence.
	assert.Contains(t, out, "        kwargs[\"ndigits\"] = ndigits\n")
	assert.NotContains(t, out, "if ndigits:")
	assert.Contains(t, out, "        result = humanize.intcomma(value, **kwargs)")

	// Optional composites are omitted when falsy so native defaults apply.
	assert.Contains(t, out, "        if items:\n            kwargs[\"items\"] = items\n")
	assert.Contains(t, out, "        result = humanize.natural_list(**kwargs)")
}

func TestGenerateBoundaryConversions(t *testing.T) {
	out := generate(t, wrapperSchema())

	// JSON boundary on both directions.
	assert.Contains(t, out, "        result = humanize.configure(_decode_value(options))\n        return _encode_result(result)\n")

	// Dicts cross as pair lists.
	assert.Contains(t, out, "        result = humanize.tabulate(dict(weights))\n        return list(result.items())\n")

	// A none return maps to the option's absent case.
	assert.Contains(t, out, "        result = humanize.reset()\n        return None\n")

	// Async callables are driven to completion before crossing back.
	assert.Contains(t, out, "        result = asyncio.run(humanize.fetch(url))\n")
}

func TestGenerateOptionTypedNumericForwardsZero(t *testing.T) {
	s := &schema.PackageSchema{
		Package: "humanize",
		Version: "1.0.0",
		Modules: []schema.Module{{
			Name: "m",
			Functions: []schema.Function{
				{
					Name: "intcomma",
					Params: []schema.Parameter{
						{Name: "value", Type: schema.Int()},
						{Name: "ndigits", Type: schema.Optional(schema.Int()), Optional: true},
					},
					ReturnType: schema.Str(),
				},
				{
					Name: "configure",
					Params: []schema.Parameter{
						{Name: "strict", Type: schema.Optional(schema.Bool()), Optional: true},
					},
					ReturnType: schema.None(),
				},
			},
		}},
	}
	out := generate(t, s)

	// None is the absence marker for option-typed parameters; 0 and False
	// must still be forwarded.
	assert.Contains(t, out, "        if ndigits is not None:\n            kwargs[\"ndigits\"] = ndigits\n")
	assert.Contains(t, out, "        if strict is not None:\n            kwargs[\"strict\"] = strict\n")
	assert.NotContains(t, out, "if ndigits:")
	assert.NotContains(t, out, "if strict:")
}

func TestGenerateInterfaceNameYieldsToResource(t *testing.T) {
	s := &schema.PackageSchema{
		Package: "demo",
		Version: "2.0.0",
		Modules: []schema.Module{
			{
				Name: "cache",
				Classes: []schema.Class{
					{
						Name:        "Cache",
						Constructor: &schema.Function{Name: "__init__", IsMethod: true},
					},
				},
			},
		},
	}
	out := generate(t, s)

	assert.Contains(t, out, "class Cache:")
	assert.Contains(t, out, "class CacheExports(exports.Cache):")
	assert.Contains(t, out, "    pass\n")
}

func TestGenerateDeterministic(t *testing.T) {
	first := generate(t, wrapperSchema())
	second := generate(t, wrapperSchema())
	assert.Equal(t, first, second)
}

func TestGenerateRejectsUnknownKind(t *testing.T) {
	s := wrapperSchema()
	s.Modules[0].Functions = append(s.Modules[0].Functions, schema.Function{
		Name:       "broken",
		ReturnType: &schema.Type{Kind: "frozenset"},
	})
	_, err := bindgen.NewPlan(s)
	require.Error(t, err)
}
