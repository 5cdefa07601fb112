package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wastalk/wastalk/bindgen/ident"
	"github.com/wastalk/wastalk/config"
	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/logger"
	"github.com/wastalk/wastalk/toolchain"
)

var compileOut string

// CompileCmd runs the full pipeline: generate, componentize, transpile.
var CompileCmd = &cobra.Command{
	Use:   "compile <schema>",
	Short: "Generate bindings and build the runnable component",
	Long: `Run the full pipeline for a package schema.

After generating all binding artifacts, the source wrapper is compiled into
a WebAssembly component and the component is transpiled into the JavaScript
module the consumer bindings import. Both external tools must be installed;
their locations can be overridden in wastalk.toml.

Examples:
  wastalk compile schema.json
  wastalk compile schema.json --out build`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	CompileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "Output directory (default: output.dir from config)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	outDir := compileOut
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	plan, err := regenerate(cmd.Context(), args[0], outDir)
	if err != nil {
		return err
	}

	// The build tools run with their own working directories, so every
	// path handed to them must be absolute.
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", outDir)
	}

	component := filepath.Join(absOut, fmt.Sprintf("%s.wasm", plan.PackageName))
	steps := []toolchain.Step{
		&toolchain.ComponentizePy{
			Binary: cfg.Tools.ComponentizePy,
			WitDir: filepath.Join(absOut, "wit"),
			World:  plan.WorldName,
			AppDir: filepath.Join(absOut, "python"),
			Output: component,
		},
		&toolchain.JcoTranspiler{
			Binary:    cfg.Tools.Jco,
			Component: component,
			// The consumer glue imports "./<package>/component.js".
			OutDir: filepath.Join(absOut, "js", ident.Snake(plan.PackageName)),
		},
	}

	for _, step := range steps {
		logger.Infow("running build step", logger.FieldTool, step.Name())
		if err := step.Run(cmd.Context()); err != nil {
			return err
		}
	}

	logger.Infow("component built", logger.FieldArtifact, component)
	return nil
}
