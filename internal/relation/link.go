package relation

import (
	"fmt"

	"github.com/roach88/relq/internal/entity"
)

// Link declares that entity F relates to entity T.
//
// A Link[F, T] satisfies both Outgoing[F] and Incoming[T], so builders
// rooted at F can join forward along it and builders rooted at T can join
// back along it. The reverse direction is a separate declaration (see Rev);
// nothing is synthesized.
type Link[F, T entity.Entity] struct {
	from F
	to   T
	rel  Relation
}

// Outgoing is a relation declared with source entity E.
// The interface is sealed: only Link implements it.
type Outgoing[E entity.Entity] interface {
	Relation() Relation
	Target() entity.Entity
	outgoing(E)
}

// Incoming is a relation declared with target entity E.
// The interface is sealed: only Link implements it.
type Incoming[E entity.Entity] interface {
	Relation() Relation
	Source() entity.Entity
	incoming(E)
}

// Declared is any relation declaration, regardless of its entity types.
type Declared interface {
	Relation() Relation
}

func (Link[F, T]) outgoing(F) {}
func (Link[F, T]) incoming(T) {}

// Relation returns a copy of the link's descriptor.
func (l Link[F, T]) Relation() Relation {
	return l.rel.clone()
}

// Source returns the entity the link starts from.
func (l Link[F, T]) Source() entity.Entity {
	return l.from
}

// Target returns the entity the link leads to.
func (l Link[F, T]) Target() entity.Entity {
	return l.to
}

// From returns the source entity with its static type.
func (l Link[F, T]) From() F {
	return l.from
}

// To returns the target entity with its static type.
func (l Link[F, T]) To() T {
	return l.to
}

// Rev declares the reverse of l: T relates to F along the same columns.
func (l Link[F, T]) Rev() Link[T, F] {
	return Link[T, F]{from: l.to, to: l.from, rel: l.rel.Reverse()}
}

// String renders the link's relation.
func (l Link[F, T]) String() string {
	return l.rel.String()
}

// New declares a direct relation from.fromCol = to.toCol.
func New[F, T entity.Entity](from F, to T, fromCol, toCol entity.Column) (Link[F, T], error) {
	rel := Relation{From: fromCol, To: toCol}
	if err := rel.check(from, to, nil); err != nil {
		return Link[F, T]{}, fmt.Errorf("relation %s -> %s: %w", from.TableName(), to.TableName(), err)
	}
	return Link[F, T]{from: from, to: to, rel: rel}, nil
}

// Many declares a relation through the intermediate entity via:
// from.fromCol = via.viaFrom, then via.viaTo = to.toCol.
func Many[F, T, V entity.Entity](from F, to T, via V, fromCol, viaFrom, viaTo, toCol entity.Column) (Link[F, T], error) {
	rel := Relation{
		From: fromCol,
		To:   toCol,
		Via:  &Through{Table: via.TableName(), From: viaFrom, To: viaTo},
	}
	if err := rel.check(from, to, via); err != nil {
		return Link[F, T]{}, fmt.Errorf("relation %s -> %s via %s: %w", from.TableName(), to.TableName(), via.TableName(), err)
	}
	return Link[F, T]{from: from, to: to, rel: rel}, nil
}

// Must panics if err is non-nil.
// Use only in tests or when inputs are known to be valid, such as
// package-level relation declarations.
func Must[F, T entity.Entity](l Link[F, T], err error) Link[F, T] {
	if err != nil {
		panic(err)
	}
	return l
}

// CheckUnique returns ErrDuplicateRelation if two declarations share the
// same ordered pair of source and target tables.
func CheckUnique(decls ...Declared) error {
	seen := make(map[[2]string]Relation, len(decls))
	for _, d := range decls {
		rel := d.Relation()
		key := [2]string{rel.SourceTable(), rel.TargetTable()}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%s -> %s declared twice (%s and %s): %w",
				key[0], key[1], prev, rel, ErrDuplicateRelation)
		}
		seen[key] = rel
	}
	return nil
}
