package bindgen_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/wastalk/wastalk/bindgen"
	"github.com/wastalk/wastalk/bindgen/markdown"
	"github.com/wastalk/wastalk/bindgen/python"
	"github.com/wastalk/wastalk/bindgen/typescript"
	"github.com/wastalk/wastalk/bindgen/wit"
	"github.com/wastalk/wastalk/schema"
)

// TestGoldenArtifacts runs every generator over the fixture schema and
// compares each emitted document byte for byte against the archived
// expectation. A drift in any generator shows up as a diff here before it
// shows up as a runtime mismatch between the three languages.
func TestGoldenArtifacts(t *testing.T) {
	archive, err := txtar.ParseFile(filepath.Join("testdata", "demo.txtar"))
	require.NoError(t, err)

	files := make(map[string]string, len(archive.Files))
	for _, f := range archive.Files {
		files[f.Name] = string(f.Data)
	}
	require.Contains(t, files, "schema.json")

	s, err := schema.Parse([]byte(files["schema.json"]))
	require.NoError(t, err)
	plan, err := bindgen.NewPlan(s)
	require.NoError(t, err)

	targets := []struct {
		sub string
		gen bindgen.Generator
	}{
		{"wit", wit.NewGenerator()},
		{"python", python.NewGenerator()},
		{"js", typescript.NewGenerator()},
		{"docs", markdown.NewGenerator()},
	}

	seen := map[string]bool{"schema.json": true}
	for _, target := range targets {
		docs, err := target.gen.Generate(plan)
		require.NoError(t, err, target.gen.Language())

		for _, doc := range docs {
			name := target.sub + "/" + doc.Filename
			want, ok := files[name]
			require.True(t, ok, "archive is missing %s", name)
			assert.Equal(t, want, doc.Content, name)
			seen[name] = true
		}
	}

	// Every archived expectation must be produced by some generator.
	for name := range files {
		assert.True(t, seen[name], "archived file %s was never generated", name)
	}
}

// TestGoldenExportNames pins the component-level export names the verify
// step derives from the same fixture.
func TestGoldenExportNames(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "demo.txtar"))
	require.NoError(t, err)
	archive := txtar.Parse(raw)

	var schemaJSON []byte
	for _, f := range archive.Files {
		if f.Name == "schema.json" {
			schemaJSON = f.Data
		}
	}
	require.NotNil(t, schemaJSON)

	s, err := schema.Parse(schemaJSON)
	require.NoError(t, err)
	plan, err := bindgen.NewPlan(s)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"m#[constructor]counter",
		"m#[method]counter.add",
		"m#greet",
	}, plan.ExpectedExports())
}
