package commands

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wastalk/wastalk/bindgen"
	"github.com/wastalk/wastalk/bindgen/markdown"
	"github.com/wastalk/wastalk/bindgen/python"
	"github.com/wastalk/wastalk/bindgen/typescript"
	"github.com/wastalk/wastalk/bindgen/wit"
	"github.com/wastalk/wastalk/config"
	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/logger"
	"github.com/wastalk/wastalk/schema"
	"github.com/wastalk/wastalk/watch"
)

var (
	generateOut   string
	generateWatch bool
)

// GenerateCmd regenerates all binding artifacts from a schema file.
var GenerateCmd = &cobra.Command{
	Use:   "generate <schema>",
	Short: "Generate IDL, wrapper, and consumer bindings from a package schema",
	Long: `Generate every binding artifact from an extracted package schema.

Reads a PackageSchema document (JSON or YAML) and derives, from one shared
naming plan:
  wit/     - the interface definition
  python/  - the source wrapper the component is built from
  js/      - the consumer module and its type declarations
  docs/    - API documentation

All artifacts are regenerated on every run; the output is a pure function
of the schema.

Examples:
  wastalk generate schema.json
  wastalk generate schema.json --out build
  wastalk generate schema.json --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output directory (default: output.dir from config)")
	GenerateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Keep running and regenerate when the schema changes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	outDir := generateOut
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	schemaPath := args[0]
	if _, err := regenerate(cmd.Context(), schemaPath, outDir); err != nil {
		return err
	}

	if !generateWatch {
		return nil
	}

	w, err := watch.New(schemaPath, cfg.Watch, func(ctx context.Context) error {
		_, err := regenerate(ctx, schemaPath, outDir)
		return err
	})
	if err != nil {
		return err
	}
	return w.Run(cmd.Context())
}

// generators maps each generator to its output subdirectory.
func generators() []struct {
	Sub string
	Gen bindgen.Generator
} {
	return []struct {
		Sub string
		Gen bindgen.Generator
	}{
		{"wit", wit.NewGenerator()},
		{"python", python.NewGenerator()},
		{"js", typescript.NewGenerator()},
		{"docs", markdown.NewGenerator()},
	}
}

// regenerate runs the whole pipeline once: load, plan, generate, write.
func regenerate(ctx context.Context, schemaPath, outDir string) (*bindgen.Plan, error) {
	runID := uuid.NewString()[:8]
	start := time.Now()

	s, err := schema.Load(schemaPath)
	if err != nil {
		return nil, err
	}

	plan, err := bindgen.NewPlan(s)
	if err != nil {
		return nil, err
	}

	logger.Infow("generating bindings",
		logger.FieldRunID, runID,
		logger.FieldSchema, schemaPath,
		logger.FieldPackage, plan.PackageName,
		logger.FieldVersion, plan.Version,
		logger.FieldOutDir, outDir,
		logger.FieldSkipped, plan.SkippedModules,
	)

	for _, g := range generators() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs, err := g.Gen.Generate(plan)
		if err != nil {
			return nil, errors.Wrapf(err, "%s generator", g.Gen.Language())
		}
		dir := filepath.Join(outDir, g.Sub)
		if err := writeDocs(dir, docs); err != nil {
			return nil, errors.Wrapf(err, "%s generator", g.Gen.Language())
		}
		logger.Debugw("generator finished",
			logger.FieldRunID, runID,
			logger.FieldGenerator, g.Gen.Language(),
			logger.FieldCount, len(docs),
		)
	}

	logger.Infow("bindings generated",
		logger.FieldRunID, runID,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return plan, nil
}

func writeDocs(dir string, docs []bindgen.Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	for _, doc := range docs {
		path := filepath.Join(dir, doc.Filename)
		if err := os.WriteFile(path, []byte(doc.Content), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
		logger.Debugw("wrote artifact", logger.FieldArtifact, path)
	}
	return nil
}
