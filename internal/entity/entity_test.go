package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relq/internal/ir"
)

type cake struct{}

var (
	cakeID   = Col[cake]("id", TypeInt)
	cakeName = Col[cake]("name", TypeText)
)

func (cake) TableName() string { return "cake" }
func (cake) Columns() []Column { return []Column{cakeID, cakeName} }
func (cake) PrimaryKey() []Column { return []Column{cakeID} }

type tag struct{}

var (
	tagRef   = Col[tag]("ref", TypeUUID)
	tagLabel = Col[tag]("label", TypeText)
)

func (tag) TableName() string { return "tag" }
func (tag) Columns() []Column { return []Column{tagRef, tagLabel} }
func (tag) PrimaryKey() []Column { return nil }

type pairing struct{}

var (
	pairingLeft  = Col[pairing]("left_id", TypeInt)
	pairingRight = Col[pairing]("right_id", TypeInt)
	pairingFlag  = Col[pairing]("active", TypeBool)
)

func (pairing) TableName() string { return "pairing" }
func (pairing) Columns() []Column { return []Column{pairingLeft, pairingRight, pairingFlag} }
func (pairing) PrimaryKey() []Column { return []Column{pairingLeft, pairingRight} }

func TestCol(t *testing.T) {
	assert.Equal(t, Column{Table: "cake", Name: "id", Type: TypeInt}, cakeID)
	assert.Equal(t, "cake.id", cakeID.String())
	assert.Equal(t, "id", Column{Name: "id"}.String())
	assert.True(t, Column{}.IsZero())
	assert.False(t, cakeID.IsZero())
}

func TestParseColumnType(t *testing.T) {
	for _, typ := range ValidTypes {
		got, err := ParseColumnType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := ParseColumnType("float")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid column type "float"`)
}

func TestLookupAndHas(t *testing.T) {
	c, ok := Lookup(cake{}, "name")
	require.True(t, ok)
	assert.Equal(t, cakeName, c)

	_, ok = Lookup(cake{}, "missing")
	assert.False(t, ok)

	assert.True(t, Has(cake{}, cakeID))
	assert.False(t, Has(cake{}, tagRef), "column of another table")
	assert.False(t, Has(cake{}, Column{Table: "cake", Name: "id", Type: TypeText}), "type mismatch")
}

func TestSinglePrimaryKey(t *testing.T) {
	tests := []struct {
		name    string
		entity  Entity
		want    Column
		wantErr error
	}{
		{"single", cake{}, cakeID, nil},
		{"none", tag{}, Column{}, ErrNoPrimaryKey},
		{"composite", pairing{}, Column{}, ErrCompositeKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SinglePrimaryKey(tt.entity)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Contains(t, err.Error(), tt.entity.TableName())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckValue(t *testing.T) {
	tests := []struct {
		name    string
		column  Column
		value   ir.Value
		wantErr bool
	}{
		{"int", cakeID, ir.Int(12), false},
		{"int rejects text", cakeID, ir.String("12"), true},
		{"text", cakeName, ir.String("cheesecake"), false},
		{"text rejects int", cakeName, ir.Int(1), true},
		{"bool", pairingFlag, ir.Bool(true), false},
		{"uuid", tagRef, ir.String("0190a8c2-8b6e-7c3a-9f1e-2d4b5a6c7d8e"), false},
		{"uuid rejects garbage", tagRef, ir.String("not-a-uuid"), true},
		{"uuid rejects int", tagRef, ir.Int(1), true},
		{"null always ok", cakeID, ir.Null{}, false},
		{"nil always ok", cakeName, nil, false},
		{"untyped accepts anything", Column{Table: "t", Name: "c"}, ir.Bool(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckValue(tt.column, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidValue))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		column  Column
		in      any
		want    ir.Value
		wantErr bool
	}{
		{"int from int", cakeID, 12, ir.Int(12), false},
		{"int from string", cakeID, "12", ir.Int(12), false},
		{"int rejects words", cakeID, "twelve", nil, true},
		{"text", cakeName, "sponge", ir.String("sponge"), false},
		{"text rejects int", cakeName, 3, nil, true},
		{"bool from string", pairingFlag, "true", ir.Bool(true), false},
		{"uuid normalised", tagRef, "0190A8C2-8B6E-7C3A-9F1E-2D4B5A6C7D8E", ir.String("0190a8c2-8b6e-7c3a-9f1e-2d4b5a6c7d8e"), false},
		{"uuid rejects garbage", tagRef, "nope", nil, true},
		{"nil is null", cakeID, nil, ir.Null{}, false},
		{"ir value checked", cakeID, ir.String("12"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.column, tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
