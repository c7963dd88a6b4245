package schema

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/relation"
)

// LoadMode controls how errors are handled during schema loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading a schema directory.
type LoadResult struct {
	Catalog   *Catalog // nil when any declaration failed
	FileCount int      // Number of CUE files found
}

// LoadError represents an error that occurred during schema loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes shared by the loader and the CLI.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	// Table declaration errors
	ErrCodeNoColumns   = "E101" // Entity without columns
	ErrCodeInvalidType = "E102" // Column type not int, text, bool or uuid
	ErrCodeUnknownKey  = "E103" // Primary key names an undeclared column

	// Relation declaration errors
	ErrCodeUnknownTable   = "E110" // Reference to an undeclared table
	ErrCodeUnknownColumn  = "E111" // Reference to an undeclared column
	ErrCodeTableMismatch  = "E112" // Through columns on the wrong table
	ErrCodeDuplicatePair  = "E113" // Two relations for one ordered pair
	ErrCodeMissingField   = "E114" // from, to or via field missing
	ErrCodeSchemaMismatch = "E115" // Declaration violates the schema shape
)

// Load reads every CUE file of dir and compiles it into a Catalog.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func Load(dir string, mode LoadMode, logger *slog.Logger) (*LoadResult, []error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}
	logger.Debug("loading schema", "dir", dir, "files", len(cueFiles))

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	catalog, errs := compileValue(value, mode, logger)
	return &LoadResult{Catalog: catalog, FileCount: len(cueFiles)}, errs
}

// CompileString compiles a schema held in memory. filename is used in error
// positions only.
func CompileString(filename, src string) (*Catalog, error) {
	value := cuecontext.New().CompileString(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	catalog, errs := compileValue(value, LoadModeFailFast, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return catalog, nil
}

// compileValue checks value against the schema definitions, then compiles
// tables before relations so that relations can resolve their columns.
func compileValue(value cue.Value, mode LoadMode, logger *slog.Logger) (*Catalog, []error) {
	var errs []error

	defs := value.Context().CompileString(definitions, cue.Filename("definitions.cue"))
	unified := value.Unify(defs)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, []error{convertCompileError(formatCUEError(err), "schema", ErrCodeSchemaMismatch)}
	}

	var tables []*Table
	entitiesVal := unified.LookupPath(cue.ParsePath("entity"))
	if entitiesVal.Exists() {
		iter, err := entitiesVal.Fields()
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating entities: %v", err)}}
		}
		for iter.Next() {
			t, err := CompileTable(iter.Value())
			if err != nil {
				errs = append(errs, convertCompileError(err, "entity."+iter.Selector().String(), ErrCodeGeneric))
				if mode == LoadModeFailFast {
					return nil, errs
				}
				continue
			}
			logger.Debug("compiled table", "table", t.TableName(), "columns", len(t.columns))
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 && len(errs) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: "no entities found in schema"}}
	}

	var rels []RelationDecl
	relationsVal := unified.LookupPath(cue.ParsePath("relation"))
	if relationsVal.Exists() {
		iter, err := relationsVal.Fields()
		if err != nil {
			return nil, append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating relations: %v", err)})
		}
		for iter.Next() {
			decl, err := CompileRelation(iter.Value())
			if err != nil {
				errs = append(errs, convertCompileError(err, "relation."+iter.Selector().String(), ErrCodeGeneric))
				if mode == LoadModeFailFast {
					return nil, errs
				}
				continue
			}
			rels = append(rels, *decl)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	catalog, err := newCatalog(tables)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: err.Error()}}
	}
	for _, decl := range rels {
		if err := catalog.add(decl); err != nil {
			errs = append(errs, &LoadError{Code: relationErrorCode(err), Message: err.Error(), Pos: decl.Pos})
			if mode == LoadModeFailFast {
				return nil, errs
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	logger.Debug("schema loaded", "tables", len(tables), "relations", len(catalog.decls))
	return catalog, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compile error to a LoadError with position info.
func convertCompileError(err error, context, fallback string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		code := MapFieldToErrorCode(compileErr.Field)
		if code == ErrCodeGeneric {
			code = fallback
		}
		return &LoadError{
			Code:    code,
			Message: fmt.Sprintf("%s: %s", context, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    fallback,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// MapFieldToErrorCode maps a compile error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "columns":
		return ErrCodeNoColumns
	case "type":
		return ErrCodeInvalidType
	case "primary_key":
		return ErrCodeUnknownKey
	case "from", "to", "table":
		return ErrCodeMissingField
	default:
		return ErrCodeGeneric
	}
}

func relationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownTable):
		return ErrCodeUnknownTable
	case errors.Is(err, entity.ErrUnknownColumn):
		return ErrCodeUnknownColumn
	case errors.Is(err, relation.ErrTableMismatch):
		return ErrCodeTableMismatch
	case errors.Is(err, relation.ErrDuplicateRelation):
		return ErrCodeDuplicatePair
	default:
		return ErrCodeGeneric
	}
}
