package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/testutil"
)

func joinStrings(clauses []queryir.JoinClause) []string {
	out := make([]string, len(clauses))
	for i, c := range clauses {
		out[i] = c.String()
	}
	return out
}

func TestFind(t *testing.T) {
	s := Find(testutil.Cake{})
	stmt := s.Statement()

	assert.Equal(t, testutil.Cake{}, s.Root())
	assert.Equal(t, []entity.Entity{testutil.Cake{}}, s.Selected())
	assert.Equal(t, "cake", stmt.From)
	assert.Equal(t, []queryir.Projection{
		{Column: testutil.CakeID},
		{Column: testutil.CakeName},
	}, stmt.Columns)
	assert.Empty(t, stmt.Joins)
	assert.Nil(t, stmt.Filter)
	assert.True(t, queryir.Validate(stmt).Valid)
}

func TestSelect_JoinKinds(t *testing.T) {
	tests := []struct {
		name string
		s    Select[testutil.Cake]
		want []string
	}{
		{
			name: "left direct",
			s:    Find(testutil.Cake{}).LeftJoin(testutil.CakeFruits),
			want: []string{"LEFT JOIN fruit ON cake.id = fruit.cake_id"},
		},
		{
			name: "right direct",
			s:    Find(testutil.Cake{}).RightJoin(testutil.CakeFruits),
			want: []string{"RIGHT JOIN fruit ON cake.id = fruit.cake_id"},
		},
		{
			name: "inner direct",
			s:    Find(testutil.Cake{}).InnerJoin(testutil.CakeFruits),
			want: []string{"INNER JOIN fruit ON cake.id = fruit.cake_id"},
		},
		{
			name: "left through",
			s:    Find(testutil.Cake{}).LeftJoin(testutil.CakeFillings),
			want: []string{
				"LEFT JOIN cake_filling ON cake.id = cake_filling.cake_id",
				"LEFT JOIN filling ON cake_filling.filling_id = filling.id",
			},
		},
		{
			name: "inner through",
			s:    Find(testutil.Cake{}).InnerJoin(testutil.CakeFillings),
			want: []string{
				"INNER JOIN cake_filling ON cake.id = cake_filling.cake_id",
				"INNER JOIN filling ON cake_filling.filling_id = filling.id",
			},
		},
		{
			name: "reverse from review",
			s:    Find(testutil.Cake{}).ReverseJoin(testutil.ReviewCake),
			want: []string{"INNER JOIN review ON review.cake_id = cake.id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinStrings(tt.s.Joins()))
			assert.True(t, queryir.Validate(tt.s.Statement()).Valid)
		})
	}
}

func TestSelect_ReverseJoin(t *testing.T) {
	s := Find(testutil.Fruit{}).ReverseJoin(testutil.CakeFruits)

	assert.Equal(t, []string{"INNER JOIN cake ON cake.id = fruit.cake_id"}, joinStrings(s.Joins()))
}

func TestSelect_JoinsAppendInOrder(t *testing.T) {
	s := Find(testutil.Cake{}).
		LeftJoin(testutil.CakeFruits).
		InnerJoin(testutil.CakeFillings)

	assert.Equal(t, []string{
		"LEFT JOIN fruit ON cake.id = fruit.cake_id",
		"INNER JOIN cake_filling ON cake.id = cake_filling.cake_id",
		"INNER JOIN filling ON cake_filling.filling_id = filling.id",
	}, joinStrings(s.Joins()))
	assert.Equal(t, "FROM cake LEFT JOIN fruit ON cake.id = fruit.cake_id "+
		"INNER JOIN cake_filling ON cake.id = cake_filling.cake_id "+
		"INNER JOIN filling ON cake_filling.filling_id = filling.id", s.String())
}

func TestSelect_Immutable(t *testing.T) {
	base := Find(testutil.Cake{}).LeftJoin(testutil.CakeFruits)

	// Branch twice from the same value. With a shared backing array the
	// second branch would overwrite the first one's join.
	withFillings := base.LeftJoin(testutil.CakeFillings)
	withReviews := base.ReverseJoin(testutil.ReviewCake)
	filtered := base.Filter(queryir.Contains(testutil.FruitName, "cherry"))
	ordered := base.OrderBy(testutil.CakeID, queryir.Desc).Limit(5).Offset(10)

	assert.Len(t, base.Joins(), 1)
	assert.Nil(t, base.Statement().Filter)
	assert.Empty(t, base.Statement().OrderBy)
	assert.Zero(t, base.Statement().Limit)

	require.Len(t, withFillings.Joins(), 3)
	assert.Equal(t, "cake_filling", withFillings.Joins()[1].Table)
	require.Len(t, withReviews.Joins(), 2)
	assert.Equal(t, "review", withReviews.Joins()[1].Table)

	assert.NotNil(t, filtered.Statement().Filter)
	assert.Equal(t, uint64(5), ordered.Statement().Limit)
	assert.Equal(t, uint64(10), ordered.Statement().Offset)
}

func TestSelect_JoinsReturnsCopy(t *testing.T) {
	s := Find(testutil.Cake{}).LeftJoin(testutil.CakeFruits)
	clauses := s.Joins()
	clauses[0].Table = "mutated"

	assert.Equal(t, "fruit", s.Joins()[0].Table)
	assert.Equal(t, "fruit", s.Statement().Joins[0].Table)
}

func TestSelect_Filter(t *testing.T) {
	contains := queryir.Contains(testutil.FruitName, "cherry")
	isCake := queryir.Eq(testutil.CakeID, ir.Int(1))

	one := Find(testutil.Cake{}).LeftJoin(testutil.CakeFruits).Filter(contains)
	assert.Equal(t, contains, one.Statement().Filter)

	two := one.Filter(isCake, nil)
	assert.Equal(t, queryir.AllOf(contains, isCake), two.Statement().Filter)

	same := one.Filter()
	assert.Equal(t, contains, same.Statement().Filter)
}

func TestSelect_Fingerprint(t *testing.T) {
	a := Find(testutil.Cake{}).LeftJoin(testutil.CakeFruits).Filter(queryir.Contains(testutil.FruitName, "cherry"))
	b := Find(testutil.Cake{}).Filter(queryir.Contains(testutil.FruitName, "cherry")).LeftJoin(testutil.CakeFruits)
	c := Find(testutil.Cake{}).InnerJoin(testutil.CakeFruits).Filter(queryir.Contains(testutil.FruitName, "cherry"))

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	fc, err := c.Fingerprint()
	require.NoError(t, err)

	assert.Len(t, fa, 64)
	assert.Equal(t, fa, fb, "same statement, different build order")
	assert.NotEqual(t, fa, fc, "join kind is part of the statement")
}
