package toolchain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentizePyArgs(t *testing.T) {
	step := &ComponentizePy{
		WitDir: "out/wit",
		World:  "humanize-world",
		AppDir: "out/python",
		Output: "out/humanize.wasm",
	}
	assert.Equal(t, "componentize-py", step.Name())
	assert.Equal(t, []string{
		"-d", "out/wit",
		"-w", "humanize-world",
		"componentize", "app",
		"-o", "out/humanize.wasm",
	}, step.Args())
}

func TestJcoTranspilerArgs(t *testing.T) {
	step := &JcoTranspiler{
		Component: "out/humanize.wasm",
		OutDir:    "out/js/humanize",
	}
	assert.Equal(t, "jco", step.Name())
	assert.Equal(t, []string{
		"transpile", "out/humanize.wasm",
		"-o", "out/js/humanize",
		"--name", "component",
	}, step.Args())
}

func TestBinaryOverride(t *testing.T) {
	step := &ComponentizePy{Binary: "/opt/tools/componentize-py"}
	assert.Equal(t, "/opt/tools/componentize-py", step.Name())
}

func TestDiagnosticError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &DiagnosticError{Tool: "jco", Output: "TypeError: boom\n", Err: cause}
	assert.Contains(t, err.Error(), "jco failed")
	assert.Contains(t, err.Error(), "TypeError: boom")
	assert.ErrorIs(t, err, cause)

	bare := &DiagnosticError{Tool: "jco", Err: cause}
	assert.Equal(t, "jco failed: exit status 1", bare.Error())
}
