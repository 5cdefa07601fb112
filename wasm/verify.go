// Package wasm inspects compiled artifacts. Verification decodes the binary
// and compares its exported function names against the names the plan says
// the component must expose, catching toolchain drift before a consumer
// call fails at runtime.
package wasm

import (
	"context"
	"sort"
	"strings"

	"github.com/tetratelabs/wazero"

	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/logger"
)

// Report is the outcome of one export check.
type Report struct {
	// Matched lists expected exports the artifact exposes.
	Matched []string
	// Missing lists expected exports the artifact lacks.
	Missing []string
	// Unexpected lists exports the plan never promised. Canonical-ABI
	// administrative exports are not counted.
	Unexpected []string
}

// OK reports whether the artifact exposes exactly the promised surface.
func (r *Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Unexpected) == 0
}

// Verify decodes the artifact and checks its exported functions against
// the expected names.
func Verify(ctx context.Context, artifact []byte, expected []string) (*Report, error) {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, artifact)
	if err != nil {
		return nil, errors.Wrap(err, "decoding artifact")
	}
	defer compiled.Close(ctx)

	exports := compiled.ExportedFunctions()

	want := make(map[string]bool, len(expected))
	for _, name := range expected {
		want[name] = true
	}

	report := &Report{}
	for _, name := range expected {
		if _, ok := exports[name]; ok {
			report.Matched = append(report.Matched, name)
		} else {
			report.Missing = append(report.Missing, name)
		}
	}
	for name := range exports {
		if !want[name] && !administrative(name) {
			report.Unexpected = append(report.Unexpected, name)
		}
	}
	sort.Strings(report.Matched)
	sort.Strings(report.Missing)
	sort.Strings(report.Unexpected)

	logger.Debugw("verified artifact exports",
		logger.FieldCount, len(exports),
		"matched", len(report.Matched),
		"missing", len(report.Missing),
		"unexpected", len(report.Unexpected),
	)
	return report, nil
}

// administrative reports whether an export belongs to the canonical ABI
// plumbing rather than the component's own surface.
func administrative(name string) bool {
	return strings.HasPrefix(name, "cabi_") ||
		strings.HasPrefix(name, "_initialize") ||
		name == "memory"
}
