package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relq/internal/plan"
	"github.com/roach88/relq/internal/querysql"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	Dialect string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <schema-dir> <plan.yaml>",
		Short: "Render a YAML plan to SQL",
		Long: `Build a YAML query plan against a CUE schema and print the SQL.

The dialect defaults to the plan's own dialect, then mysql. Text output
shows the parameterized SQL, its arguments and the inlined form.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "SQL dialect (mysql|postgres|sqlite)")

	return cmd
}

func runRender(rootOpts *RootOptions, opts *RenderOptions, schemaDir, planPath string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)
	logger := rootOpts.newLogger(cmd.ErrOrStderr())

	var dialect querysql.Dialect
	if opts.Dialect != "" {
		d, err := querysql.ParseDialect(opts.Dialect)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidDialect, err.Error(), nil)
		}
		dialect = d
	}

	catalog, err := loadCatalog(formatter, logger, schemaDir)
	if err != nil {
		return err
	}

	p, err := plan.Load(planPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodePlanInvalid, err.Error(), nil)
	}
	formatter.VerboseLog("Loaded plan %s with %d step(s)", p.Name, len(p.Steps))

	rendered, err := plan.Render(p, catalog, dialect)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeRenderFailed, err.Error(), nil)
	}
	logger.Debug("plan rendered", "plan", rendered.Plan, "dialect", rendered.Dialect, "fingerprint", rendered.Fingerprint)

	if formatter.Format == "json" {
		return formatter.Success(rendered)
	}

	snapshot, err := rendered.Snapshot()
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeRenderFailed, err.Error(), nil)
	}
	if _, err := formatter.Writer.Write(snapshot); err != nil {
		return err
	}
	fmt.Fprintf(formatter.Writer, "inline: %s\n", rendered.Inline)
	return nil
}
