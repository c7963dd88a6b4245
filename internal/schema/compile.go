package schema

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/relq/internal/entity"
)

// definitions constrains the shape of a schema before it is compiled.
// Unifying user files with it reports malformed declarations with CUE
// positions.
const definitions = `
#ColumnType: "int" | "text" | "bool" | "uuid"

#Ref: =~"^[A-Za-z_][A-Za-z0-9_]*[.][A-Za-z_][A-Za-z0-9_]*$"

#Entity: {
	columns: [string]: #ColumnType
	primary_key: [...string] | *[]
}

#Relation: {
	from: #Ref
	to:   #Ref
	via?: {
		table: string
		from:  #Ref
		to:    #Ref
	}
}

entity: [string]: #Entity
relation: [string]: #Relation
`

// RelationDecl is a relation as written in a schema, before its column
// references are resolved against the declared tables.
type RelationDecl struct {
	Name string
	From string
	To   string
	Via  *ViaDecl
	Pos  token.Pos
}

// ViaDecl is the through table of a RelationDecl.
type ViaDecl struct {
	Table string
	From  string
	To    string
}

// CompileTable parses one `entity: <name>: {...}` value into a Table.
//
// Columns keep their declaration order.
func CompileTable(v cue.Value) (*Table, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	name := lastLabel(v)

	colsVal := v.LookupPath(cue.ParsePath("columns"))
	if !colsVal.Exists() {
		return nil, &CompileError{Field: "columns", Message: "columns are required", Pos: v.Pos()}
	}
	iter, err := colsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var columns []entity.Column
	for iter.Next() {
		typeName, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		typ, err := entity.ParseColumnType(typeName)
		if err != nil {
			return nil, &CompileError{Field: "type", Message: err.Error(), Pos: iter.Value().Pos()}
		}
		columns = append(columns, entity.Column{Table: name, Name: iter.Selector().Unquoted(), Type: typ})
	}
	if len(columns) == 0 {
		return nil, &CompileError{Field: "columns", Message: "at least one column is required", Pos: colsVal.Pos()}
	}

	var primaryKey []string
	pkVal := v.LookupPath(cue.ParsePath("primary_key"))
	if pkVal.Exists() {
		if err := pkVal.Decode(&primaryKey); err != nil {
			return nil, formatCUEError(err)
		}
	}

	t, err := NewTable(name, columns, primaryKey)
	if err != nil {
		return nil, &CompileError{Field: "primary_key", Message: err.Error(), Pos: pkVal.Pos()}
	}
	return t, nil
}

// CompileRelation parses one `relation: <name>: {...}` value.
// References are checked for shape only; Catalog resolves them.
func CompileRelation(v cue.Value) (*RelationDecl, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	decl := &RelationDecl{Name: lastLabel(v), Pos: v.Pos()}
	var err error
	if decl.From, err = requiredString(v, "from"); err != nil {
		return nil, err
	}
	if decl.To, err = requiredString(v, "to"); err != nil {
		return nil, err
	}

	viaVal := v.LookupPath(cue.ParsePath("via"))
	if !viaVal.Exists() {
		return decl, nil
	}
	via := &ViaDecl{}
	if via.Table, err = requiredString(viaVal, "table"); err != nil {
		return nil, err
	}
	if via.From, err = requiredString(viaVal, "from"); err != nil {
		return nil, err
	}
	if via.To, err = requiredString(viaVal, "to"); err != nil {
		return nil, err
	}
	decl.Via = via
	return decl, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func lastLabel(v cue.Value) string {
	sels := v.Path().Selectors()
	if len(sels) == 0 {
		return ""
	}
	return sels[len(sels)-1].Unquoted()
}

// splitRef splits "table.column".
func splitRef(ref string) (table, column string, ok bool) {
	table, column, ok = strings.Cut(ref, ".")
	return table, column, ok && table != "" && column != ""
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// First error with a position wins
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
