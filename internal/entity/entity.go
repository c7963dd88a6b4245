package entity

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/roach88/relq/internal/ir"
)

var (
	// ErrNoPrimaryKey is returned when an operation needs a primary key and
	// the entity declares none.
	ErrNoPrimaryKey = errors.New("entity has no primary key")

	// ErrCompositeKey is returned when an operation needs a single-column
	// primary key and the entity declares several.
	ErrCompositeKey = errors.New("composite primary keys are not supported")

	// ErrUnknownColumn is returned when a column is not declared by its entity.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrMissingValue is returned when a model has no value for a column.
	ErrMissingValue = errors.New("model has no value for column")

	// ErrNullKey is returned when a model's primary key value is NULL.
	ErrNullKey = errors.New("primary key value is null")

	// ErrInvalidValue is returned when a value does not fit a column type.
	ErrInvalidValue = errors.New("value does not match column type")
)

// ColumnType is the logical type of a column.
type ColumnType string

const (
	TypeInt  ColumnType = "int"
	TypeText ColumnType = "text"
	TypeBool ColumnType = "bool"
	TypeUUID ColumnType = "uuid"
)

// ValidTypes lists the accepted column types in declaration order.
var ValidTypes = []ColumnType{TypeInt, TypeText, TypeBool, TypeUUID}

// ParseColumnType converts a declared type name to a ColumnType.
func ParseColumnType(s string) (ColumnType, error) {
	for _, t := range ValidTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid column type %q: must be one of %v", s, ValidTypes)
}

// Column identifies one column of one table.
type Column struct {
	Table string
	Name  string
	Type  ColumnType
}

// String renders the column as table.name.
func (c Column) String() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// IsZero reports whether c is the zero Column.
func (c Column) IsZero() bool {
	return c == Column{}
}

// Entity is implemented by every table the query layer can address.
type Entity interface {
	TableName() string
	Columns() []Column
	PrimaryKey() []Column
}

// Col declares a column of the statically typed entity E.
// E must be usable as its zero value, which holds for struct entities.
func Col[E Entity](name string, typ ColumnType) Column {
	var e E
	return Column{Table: e.TableName(), Name: name, Type: typ}
}

// Lookup finds a declared column of e by name.
func Lookup(e Entity, name string) (Column, bool) {
	for _, c := range e.Columns() {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Has reports whether c is one of e's declared columns.
func Has(e Entity, c Column) bool {
	if c.Table != e.TableName() {
		return false
	}
	found, ok := Lookup(e, c.Name)
	return ok && found == c
}

// SinglePrimaryKey returns the only primary key column of e.
// Entities with no key return ErrNoPrimaryKey; entities with several return
// ErrCompositeKey.
func SinglePrimaryKey(e Entity) (Column, error) {
	pk := e.PrimaryKey()
	switch len(pk) {
	case 0:
		return Column{}, fmt.Errorf("%s: %w", e.TableName(), ErrNoPrimaryKey)
	case 1:
		return pk[0], nil
	default:
		return Column{}, fmt.Errorf("%s has %d key columns: %w", e.TableName(), len(pk), ErrCompositeKey)
	}
}

// CheckValue verifies that v can be stored in c.
// Null is accepted for every type; nullability is the database's concern.
func CheckValue(c Column, v ir.Value) error {
	if ir.IsNull(v) {
		return nil
	}

	var ok bool
	switch c.Type {
	case TypeInt:
		_, ok = v.(ir.Int)
	case TypeText:
		_, ok = v.(ir.String)
	case TypeBool:
		_, ok = v.(ir.Bool)
	case TypeUUID:
		s, isString := v.(ir.String)
		if isString {
			if _, err := uuid.Parse(string(s)); err != nil {
				return fmt.Errorf("%s: %w: %v", c, ErrInvalidValue, err)
			}
			ok = true
		}
	case "":
		ok = true
	}
	if !ok {
		return fmt.Errorf("%s (%s) got %T: %w", c, c.Type, v, ErrInvalidValue)
	}
	return nil
}

// ParseValue converts a loosely typed input, such as a decoded YAML scalar
// or a command-line argument, into a value of c's type.
// Strings are parsed for int, bool and uuid columns; uuids are normalised to
// their canonical lowercase form. nil becomes Null.
func ParseValue(c Column, in any) (ir.Value, error) {
	if in == nil {
		return ir.Null{}, nil
	}
	if v, ok := in.(ir.Value); ok {
		if err := CheckValue(c, v); err != nil {
			return nil, err
		}
		return v, nil
	}

	switch c.Type {
	case TypeInt:
		switch n := in.(type) {
		case int:
			return ir.Int(n), nil
		case int64:
			return ir.Int(n), nil
		case string:
			i, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w: %v", c, ErrInvalidValue, err)
			}
			return ir.Int(i), nil
		}
	case TypeText:
		if s, ok := in.(string); ok {
			return ir.String(s), nil
		}
	case TypeBool:
		switch b := in.(type) {
		case bool:
			return ir.Bool(b), nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, fmt.Errorf("%s: %w: %v", c, ErrInvalidValue, err)
			}
			return ir.Bool(parsed), nil
		}
	case TypeUUID:
		switch u := in.(type) {
		case uuid.UUID:
			return ir.String(u.String()), nil
		case string:
			parsed, err := uuid.Parse(u)
			if err != nil {
				return nil, fmt.Errorf("%s: %w: %v", c, ErrInvalidValue, err)
			}
			return ir.String(parsed.String()), nil
		}
	}
	return nil, fmt.Errorf("%s (%s) got %T: %w", c, c.Type, in, ErrInvalidValue)
}
