package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wastalk/wastalk/bindgen"
	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/schema"
	"github.com/wastalk/wastalk/wasm"
)

// VerifyCmd checks a compiled artifact against the schema's naming plan.
var VerifyCmd = &cobra.Command{
	Use:   "verify <schema> <artifact>",
	Short: "Check that a compiled artifact exposes the planned exports",
	Long: `Verify that a compiled artifact agrees with the schema.

Derives the same naming plan the generators use and compares the expected
export names against what the binary actually exposes. Exits non-zero when
the surfaces disagree.

Examples:
  wastalk verify schema.json dist/humanize.wasm`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	s, err := schema.Load(args[0])
	if err != nil {
		return err
	}
	plan, err := bindgen.NewPlan(s)
	if err != nil {
		return err
	}

	artifact, err := os.ReadFile(args[1])
	if err != nil {
		return errors.Wrapf(err, "reading %s", args[1])
	}

	report, err := wasm.Verify(cmd.Context(), artifact, plan.ExpectedExports())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "matched %d of %d expected exports\n", len(report.Matched), len(report.Matched)+len(report.Missing))
	for _, name := range report.Missing {
		fmt.Fprintf(out, "missing:    %s\n", name)
	}
	for _, name := range report.Unexpected {
		fmt.Fprintf(out, "unexpected: %s\n", name)
	}

	if !report.OK() {
		return errors.Newf("artifact %s does not match the schema", args[1])
	}
	return nil
}
