package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wastalk/wastalk/cmd/wastalk/commands"
	"github.com/wastalk/wastalk/logger"
)

var rootCmd = &cobra.Command{
	Use:   "wastalk",
	Short: "wastalk - cross-language bindings from Python package schemas",
	Long: `wastalk - deterministic cross-language interface synthesis.

Takes an extracted Python package schema and generates, from one shared
naming plan, an interface definition, the source wrapper the component is
built from, and JavaScript consumer bindings with type declarations. The
three artifacts agree on every name, arity, and type by construction.

Available commands:
  generate - Generate all binding artifacts from a schema
  compile  - Generate, then build and transpile the component
  verify   - Check a compiled artifact against a schema
  version  - Show version information

Examples:
  wastalk generate schema.json            # Write artifacts under dist/
  wastalk generate schema.json --watch    # Regenerate on schema changes
  wastalk compile schema.json             # Full build
  wastalk verify schema.json dist/pkg.wasm`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Root().PersistentFlags().GetCount("verbose")
		jsonOutput, _ := cmd.Root().PersistentFlags().GetBool("json-logs")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CompileCmd)
	rootCmd.AddCommand(commands.VerifyCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
