package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/relq/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Files     int               `json:"files"`
	Tables    int               `json:"tables"`
	Relations int               `json:"relations"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// ValidationError is one schema problem with its source position.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-dir>",
		Short: "Validate a CUE schema",
		Long: `Validate the tables and relations declared in a CUE schema directory.

Every declaration is checked and all errors are reported, not just the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	result, loadErrors := schema.Load(schemaDir, schema.LoadModeCollectAll, logger)

	// Directory not found, no files, CUE syntax errors
	if result == nil && len(loadErrors) > 0 {
		code, message := loadErrorCode(loadErrors[0])
		return formatter.Fail(ExitCommandError, code, message, nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, schemaDir)

	if len(loadErrors) > 0 {
		errs := make([]ValidationError, 0, len(loadErrors))
		for _, err := range loadErrors {
			errs = append(errs, toValidationError(err))
		}
		return outputValidationErrors(formatter, result.FileCount, errs)
	}

	return outputValidateSuccess(formatter, result)
}

// loadErrorCode returns the code and message of a loader error.
func loadErrorCode(err error) (string, string) {
	var loadErr *schema.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return schema.ErrCodeGeneric, err.Error()
}

func toValidationError(err error) ValidationError {
	var loadErr *schema.LoadError
	if !errors.As(err, &loadErr) {
		return ValidationError{Code: schema.ErrCodeGeneric, Message: err.Error()}
	}
	ve := ValidationError{Code: loadErr.Code, Message: loadErr.Message}
	if loadErr.Pos.IsValid() {
		ve.File = loadErr.Pos.Filename()
		ve.Line = loadErr.Pos.Line()
	}
	return ve
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result *schema.LoadResult) error {
	summary := ValidationResult{
		Valid:     true,
		Files:     result.FileCount,
		Tables:    len(result.Catalog.Tables()),
		Relations: len(result.Catalog.Declarations()),
	}
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(formatter.Writer, "✓ Schema valid: %d table(s), %d relation(s) in %d file(s)\n",
		summary.Tables, summary.Relations, summary.Files)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, files int, errs []ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Files:  files,
			Errors: errs,
		}

		err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
			TraceID: formatter.TraceID,
		})
		if err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", err.File, err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

// loadCatalog loads schemaDir for commands that need a valid catalog.
// Errors are reported through formatter; the returned error is an ExitError.
func loadCatalog(formatter *OutputFormatter, logger *slog.Logger, schemaDir string) (*schema.Catalog, error) {
	result, loadErrors := schema.Load(schemaDir, schema.LoadModeFailFast, logger)
	if len(loadErrors) > 0 {
		code, message := loadErrorCode(loadErrors[0])
		exit := ExitFailure
		if result == nil {
			exit = ExitCommandError
		}
		return nil, formatter.Fail(exit, code, message, nil)
	}
	return result.Catalog, nil
}
