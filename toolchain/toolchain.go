// Package toolchain drives the external build tools that turn generated
// sources into a runnable component: the Python component compiler and the
// JavaScript transpiler. Both are invoked as subprocesses; their combined
// output is captured and surfaced on failure.
package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/wastalk/wastalk/logger"
)

// Step is one external build step. Args is separated from Run so command
// construction can be inspected without spawning anything.
type Step interface {
	Name() string
	Args() []string
	Run(ctx context.Context) error
}

// DiagnosticError carries the failing tool's combined output, so the
// subprocess's own diagnostics reach the user instead of a bare exit status.
type DiagnosticError struct {
	Tool   string
	Output string
	Err    error
}

func (e *DiagnosticError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s failed: %v\n%s", e.Tool, e.Err, out)
}

func (e *DiagnosticError) Unwrap() error {
	return e.Err
}

// ComponentizePy compiles the generated source wrapper into a component.
type ComponentizePy struct {
	// Binary overrides the executable name, for tests and exotic installs.
	Binary string

	// WitDir is the directory holding the generated IDL document.
	WitDir string
	// World is the plan's world name.
	World string
	// AppDir is the directory holding the generated wrapper module.
	AppDir string
	// Output is the target component path.
	Output string
}

func (c *ComponentizePy) Name() string {
	if c.Binary != "" {
		return c.Binary
	}
	return "componentize-py"
}

func (c *ComponentizePy) Args() []string {
	return []string{
		"-d", c.WitDir,
		"-w", c.World,
		"componentize", "app",
		"-o", c.Output,
	}
}

func (c *ComponentizePy) Run(ctx context.Context) error {
	return run(ctx, c.Name(), c.Args(), c.AppDir)
}

// JcoTranspiler turns a compiled component into the JavaScript module the
// generated consumer glue imports.
type JcoTranspiler struct {
	Binary string

	// Component is the compiled component path.
	Component string
	// OutDir is where the transpiled module tree lands; the consumer glue
	// expects it to be named after the package.
	OutDir string
}

func (j *JcoTranspiler) Name() string {
	if j.Binary != "" {
		return j.Binary
	}
	return "jco"
}

func (j *JcoTranspiler) Args() []string {
	return []string{
		"transpile", j.Component,
		"-o", j.OutDir,
		"--name", "component",
	}
}

func (j *JcoTranspiler) Run(ctx context.Context) error {
	return run(ctx, j.Name(), j.Args(), "")
}

func run(ctx context.Context, tool string, args []string, dir string) error {
	logger.Debugw("running build tool",
		logger.FieldTool, tool,
		"command", shellquote.Join(append([]string{tool}, args...)...),
	)

	start := time.Now()
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &DiagnosticError{Tool: tool, Output: string(out), Err: err}
	}

	logger.Debugw("build tool finished",
		logger.FieldTool, tool,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return nil
}
