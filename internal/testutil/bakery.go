package testutil

import (
	"github.com/roach88/relq/internal/entity"
	"github.com/roach88/relq/internal/ir"
	"github.com/roach88/relq/internal/relation"
)

// The bakery schema used across package tests:
//
//	cake(id, name)
//	fruit(id, name, cake_id -> cake.id)
//	filling(id, name)
//	cake_filling(cake_id -> cake.id, filling_id -> filling.id)  composite key
//	review(cake_id -> cake.id, body)                             no key

// Cake is a cake.
type Cake struct{}

// Fruit belongs to at most one cake.
type Fruit struct{}

// Filling relates to cakes through CakeFilling.
type Filling struct{}

// CakeFilling is the through table between Cake and Filling.
type CakeFilling struct{}

// Review has no primary key.
type Review struct{}

var (
	CakeID   = entity.Col[Cake]("id", entity.TypeInt)
	CakeName = entity.Col[Cake]("name", entity.TypeText)

	FruitID     = entity.Col[Fruit]("id", entity.TypeInt)
	FruitName   = entity.Col[Fruit]("name", entity.TypeText)
	FruitCakeID = entity.Col[Fruit]("cake_id", entity.TypeInt)

	FillingID   = entity.Col[Filling]("id", entity.TypeInt)
	FillingName = entity.Col[Filling]("name", entity.TypeText)

	CakeFillingCakeID    = entity.Col[CakeFilling]("cake_id", entity.TypeInt)
	CakeFillingFillingID = entity.Col[CakeFilling]("filling_id", entity.TypeInt)

	ReviewCakeID = entity.Col[Review]("cake_id", entity.TypeInt)
	ReviewBody   = entity.Col[Review]("body", entity.TypeText)
)

func (Cake) TableName() string { return "cake" }

func (Cake) Columns() []entity.Column { return []entity.Column{CakeID, CakeName} }

func (Cake) PrimaryKey() []entity.Column { return []entity.Column{CakeID} }

func (Fruit) TableName() string { return "fruit" }

func (Fruit) Columns() []entity.Column {
	return []entity.Column{FruitID, FruitName, FruitCakeID}
}

func (Fruit) PrimaryKey() []entity.Column { return []entity.Column{FruitID} }

func (Filling) TableName() string { return "filling" }

func (Filling) Columns() []entity.Column { return []entity.Column{FillingID, FillingName} }

func (Filling) PrimaryKey() []entity.Column { return []entity.Column{FillingID} }

func (CakeFilling) TableName() string { return "cake_filling" }

func (CakeFilling) Columns() []entity.Column {
	return []entity.Column{CakeFillingCakeID, CakeFillingFillingID}
}

func (CakeFilling) PrimaryKey() []entity.Column {
	return []entity.Column{CakeFillingCakeID, CakeFillingFillingID}
}

func (Review) TableName() string { return "review" }

func (Review) Columns() []entity.Column { return []entity.Column{ReviewCakeID, ReviewBody} }

func (Review) PrimaryKey() []entity.Column { return nil }

// Declared links. FruitCake and FillingCakes are explicit reverse
// declarations of CakeFruits and CakeFillings.
var (
	CakeFruits = relation.Must(relation.New(Cake{}, Fruit{}, CakeID, FruitCakeID))
	FruitCake  = CakeFruits.Rev()

	CakeFillings = relation.Must(relation.Many(Cake{}, Filling{}, CakeFilling{},
		CakeID, CakeFillingCakeID, CakeFillingFillingID, FillingID))
	FillingCakes = CakeFillings.Rev()

	CakeFillingCake = relation.Must(relation.New(CakeFilling{}, Cake{}, CakeFillingCakeID, CakeID))
	ReviewCake      = relation.Must(relation.New(Review{}, Cake{}, ReviewCakeID, CakeID))
)

// BakeryLinks returns every declared bakery link.
func BakeryLinks() []relation.Declared {
	return []relation.Declared{CakeFruits, FruitCake, CakeFillings, FillingCakes, CakeFillingCake, ReviewCake}
}

// BakeryEntities returns every bakery entity in dependency order.
func BakeryEntities() []entity.Entity {
	return []entity.Entity{Cake{}, Fruit{}, Filling{}, CakeFilling{}, Review{}}
}

// CakeModel is a hand-written cake row.
type CakeModel struct {
	ID   int64
	Name string
}

func (CakeModel) Entity() Cake  { return Cake{} }
func (CakeModel) Table() string { return "cake" }

func (m CakeModel) Value(c entity.Column) (ir.Value, bool) {
	switch c {
	case CakeID:
		return ir.Int(m.ID), true
	case CakeName:
		return ir.String(m.Name), true
	}
	return nil, false
}

// FruitModel is a hand-written fruit row. A nil CakeID is stored as NULL.
type FruitModel struct {
	ID     int64
	Name   string
	CakeID *int64
}

func (FruitModel) Entity() Fruit { return Fruit{} }
func (FruitModel) Table() string { return "fruit" }

func (m FruitModel) Value(c entity.Column) (ir.Value, bool) {
	switch c {
	case FruitID:
		return ir.Int(m.ID), true
	case FruitName:
		return ir.String(m.Name), true
	case FruitCakeID:
		if m.CakeID == nil {
			return ir.Null{}, true
		}
		return ir.Int(*m.CakeID), true
	}
	return nil, false
}

// Int64 returns a pointer to n.
func Int64(n int64) *int64 {
	return &n
}
