package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relq/internal/joins"
	"github.com/roach88/relq/internal/queryir"
)

// JoinsOptions holds flags for the joins command.
type JoinsOptions struct {
	Kind    string
	Reverse bool
}

// JoinsResult is the JSON payload of the joins command.
type JoinsResult struct {
	Relation string   `json:"relation"`
	Kind     string   `json:"kind"`
	Reverse  bool     `json:"reverse"`
	Clauses  []string `json:"clauses"`
}

// NewJoinsCommand creates the joins command.
func NewJoinsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JoinsOptions{}

	cmd := &cobra.Command{
		Use:   "joins <schema-dir> <from> <to>",
		Short: "Print the join clauses for a declared relation",
		Long: `Print the join clauses compiled from the relation declared from <from> to <to>.

With --reverse the clauses join <from> onto a statement rooted at <to>.
The kind defaults to left, or inner with --reverse.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoins(rootOpts, opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "join kind (left|right|inner)")
	cmd.Flags().BoolVar(&opts.Reverse, "reverse", false, "join the source onto the target")

	return cmd
}

func runJoins(rootOpts *RootOptions, opts *JoinsOptions, schemaDir, from, to string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)
	logger := rootOpts.newLogger(cmd.ErrOrStderr())

	kind := queryir.JoinLeft
	if opts.Reverse {
		kind = queryir.JoinInner
	}
	if opts.Kind != "" {
		k, err := queryir.ParseJoinKind(opts.Kind)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidKind, err.Error(), nil)
		}
		kind = k
	}

	catalog, err := loadCatalog(formatter, logger, schemaDir)
	if err != nil {
		return err
	}

	link, err := catalog.Link(from, to)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeJoinFailed, err.Error(), nil)
	}

	rel := link.Relation()
	var clauses []queryir.JoinClause
	if opts.Reverse {
		clauses = joins.CompileReverse(kind, rel)
	} else {
		clauses = joins.Compile(kind, rel)
	}
	logger.Debug("joins compiled", "relation", rel.String(), "kind", kind, "clauses", len(clauses))

	result := JoinsResult{
		Relation: rel.String(),
		Kind:     string(kind),
		Reverse:  opts.Reverse,
		Clauses:  make([]string, len(clauses)),
	}
	for i, c := range clauses {
		result.Clauses[i] = c.String()
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	formatter.VerboseLog("Relation %s", result.Relation)
	for _, c := range result.Clauses {
		fmt.Fprintln(formatter.Writer, c)
	}
	return nil
}
