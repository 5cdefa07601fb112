package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// extractorJSON mirrors the exact interchange format the extraction script
// prints: kind/value/elementType/keyType/valueType/innerType/elements and
// camelCase function fields.
const extractorJSON = `{
  "package": "humanize",
  "version": "4.9.0",
  "modules": [
    {
      "name": "humanize",
      "path": "/site-packages/humanize/__init__.py",
      "functions": [
        {
          "name": "intcomma",
          "params": [
            {"name": "value", "type": {"kind": "primitive", "value": "int"}, "optional": false, "default": null},
            {"name": "ndigits", "type": {"kind": "optional", "innerType": {"kind": "primitive", "value": "int"}}, "optional": true, "default": "None"}
          ],
          "returnType": {"kind": "primitive", "value": "str"},
          "docstring": "Convert an integer to a string containing commas.",
          "isAsync": false,
          "isMethod": false
        },
        {
          "name": "natural_list",
          "params": [
            {"name": "items", "type": {"kind": "list", "elementType": {"kind": "primitive", "value": "str"}}, "optional": false, "default": null}
          ],
          "returnType": {"kind": "primitive", "value": "str"},
          "docstring": null,
          "isAsync": false,
          "isMethod": false
        }
      ],
      "classes": [],
      "constants": [
        {"name": "VERSION", "type": {"kind": "primitive", "value": "str"}, "value": "'4.9.0'"}
      ]
    },
    {
      "name": "humanize.filesize",
      "functions": [],
      "classes": []
    }
  ],
  "extractedAt": "2026-08-20T10:00:00Z",
  "typeAnnotationCoverage": 87.5
}`

func TestParseExtractorOutput(t *testing.T) {
	s, err := Parse([]byte(extractorJSON))
	require.NoError(t, err)

	assert.Equal(t, "humanize", s.Package)
	assert.Equal(t, "4.9.0", s.Version)
	require.Len(t, s.Modules, 2)

	m := s.Modules[0]
	require.Len(t, m.Functions, 2)

	ic := m.Functions[0]
	assert.Equal(t, "intcomma", ic.Name)
	require.Len(t, ic.Params, 2)
	assert.Equal(t, KindPrimitive, ic.Params[0].Type.Kind)
	assert.True(t, ic.Params[1].Optional)
	require.NotNil(t, ic.Params[1].Default)
	assert.Equal(t, "None", *ic.Params[1].Default)
	assert.Equal(t, KindOptional, ic.Params[1].Type.Kind)
	assert.Equal(t, PrimitiveInt, ic.Params[1].Type.Inner.Primitive)

	nl := m.Functions[1]
	assert.Equal(t, KindList, nl.Params[0].Type.Kind)
	assert.Empty(t, nl.Docstring, "null docstring decodes to empty")

	require.Len(t, m.Constants, 1)
	assert.Equal(t, "VERSION", m.Constants[0].Name)

	assert.False(t, s.Modules[1].IsTopLevel())
	assert.InDelta(t, 87.5, s.TypeAnnotationCoverage, 0.001)
}

func TestParseRejectsUnknownKind(t *testing.T) {
	_, err := Parse([]byte(`{
	  "package": "p",
	  "version": "1.0.0",
	  "modules": [{
	    "name": "p",
	    "functions": [{"name": "f", "params": [], "returnType": {"kind": "frozenset"}}],
	    "classes": []
	  }]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frozenset")
	assert.Contains(t, err.Error(), "p.f")
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(extractorJSON), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "humanize", s.Package)
}

func TestLoadYAMLFixture(t *testing.T) {
	yamlDoc := `
package: demo
version: 0.1.0
modules:
  - name: demo
    functions:
      - name: greet
        params:
          - name: who
            type: {kind: primitive, value: str}
            optional: false
        returnType: {kind: primitive, value: str}
    classes: []
`
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	require.Len(t, s.Modules, 1)
	require.Len(t, s.Modules[0].Functions, 1)
	assert.Equal(t, "greet", s.Modules[0].Functions[0].Name)
	assert.Equal(t, PrimitiveStr, s.Modules[0].Functions[0].Params[0].Type.Primitive)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/schema.json")
	require.Error(t, err)
}
