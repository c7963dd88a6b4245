package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
)

func cakeWithFruit() Select {
	return Select{
		From:    "cake",
		Columns: []Projection{{Column: cakeID}, {Column: cakeName}},
		Joins: []JoinClause{
			{Kind: JoinLeft, Table: "fruit", On: ColEq(cakeID, fruitCakeID)},
		},
	}
}

func TestValidate_ValidStatement(t *testing.T) {
	sel := cakeWithFruit()
	sel.Filter = AllOf(Contains(fruitName, "cherry"), Eq(cakeID, ir.Int(12)))
	sel.OrderBy = []Order{{Column: fruitName, Direction: Desc}}

	result := Validate(sel)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.NoError(t, result.Err())
}

func TestValidate_FilterOnUnjoinedTable(t *testing.T) {
	sel := Select{
		From:    "fruit",
		Columns: []Projection{{Column: fruitID}},
		Filter:  Eq(cakeID, ir.Int(12)),
	}

	result := Validate(sel)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `table "cake" which is not in scope`)
	assert.Error(t, result.Err())
}

func TestValidate_JoinReferencesLaterTable(t *testing.T) {
	fillingID := cakeID
	fillingID.Table = "filling"
	throughFillingID := cakeID
	throughFillingID.Table = "cake_filling"
	throughFillingID.Name = "filling_id"

	// filling joined before cake_filling: its ON references a table that
	// only comes into scope afterwards.
	sel := Select{
		From:    "cake",
		Columns: []Projection{{Column: cakeID}},
		Joins: []JoinClause{
			{Kind: JoinLeft, Table: "filling", On: ColEq(throughFillingID, fillingID)},
		},
	}

	result := Validate(sel)

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "join 0 (filling)")
}

func TestValidate_OnMustReferenceJoinedTable(t *testing.T) {
	sel := Select{
		From:    "cake",
		Columns: []Projection{{Column: cakeID}},
		Joins: []JoinClause{
			{Kind: JoinInner, Table: "fruit", On: ColEq(cakeID, cakeID)},
		},
	}

	result := Validate(sel)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "does not reference the joined table")
}

func TestValidate_NoColumns(t *testing.T) {
	result := Validate(Select{From: "cake"})

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "no columns selected")
}

func TestValidate_DuplicateAlias(t *testing.T) {
	sel := Select{
		From: "cake",
		Columns: []Projection{
			{Column: cakeID, Alias: "x"},
			{Column: cakeName, Alias: "x"},
		},
	}

	result := Validate(sel)

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], `duplicate column alias "x"`)
}

func TestValidate_UnknownJoinKind(t *testing.T) {
	sel := cakeWithFruit()
	sel.Joins[0].Kind = "FULL"

	result := Validate(sel)

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "unknown join kind")
}

func TestValidate_RepeatedJoinWarns(t *testing.T) {
	sel := cakeWithFruit()
	sel.Joins = append(sel.Joins, sel.Joins[0])

	result := Validate(sel)

	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `table "fruit" is already in scope`)
}

func TestValidate_NestedPredicates(t *testing.T) {
	tests := []struct {
		name   string
		filter Predicate
		valid  bool
	}{
		{"or in scope", AnyOf(Null(fruitID), Eq(cakeID, ir.Int(1))), true},
		{"negated like", Negate(Contains(fruitName, "x")), true},
		{"empty and", AllOf(), true},
		{"nested out of scope", AllOf(AnyOf(Eq(entity.Column{Table: "filling", Name: "id"}, ir.Int(1)))), false},
		{"not nil", Not{}, false},
		{"equals nil value", Equals{Column: cakeID}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := cakeWithFruit()
			sel.Filter = tt.filter
			assert.Equal(t, tt.valid, Validate(sel).Valid)
		})
	}
}
