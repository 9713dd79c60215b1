package repositories

import (
	"context"
	"fmt"
	"strings"

	"siamvisa-backoffice/internal/pkg/search"

	"gorm.io/gorm"
)

// searchStore adapts a gorm table to the search engine's Store interface.
// Column names in predicates come from the compile-time search configs, never
// from request input, so interpolating them into SQL text is safe.
type searchStore[T any] struct {
	db       *gorm.DB
	preloads []string
}

// newSearchStore creates a store over the table mapped by T. Preloads are
// attached to page results only; they never join the predicate.
func newSearchStore[T any](db *gorm.DB, preloads ...string) *searchStore[T] {
	return &searchStore[T]{db: db, preloads: preloads}
}

func (s *searchStore[T]) scope(ctx context.Context, p *search.Predicate) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(new(T))
	if p == nil || p.IsEmpty() {
		return tx
	}
	if p.MatchNone {
		return tx.Where("1 = 0")
	}

	if len(p.Match) > 0 {
		exprs := make([]string, 0, len(p.Match))
		args := make([]interface{}, 0, len(p.Match))
		for _, c := range p.Match {
			expr, arg := conditionSQL(c)
			exprs = append(exprs, expr)
			args = append(args, arg)
		}
		tx = tx.Where("("+strings.Join(exprs, " OR ")+")", args...)
	}

	for _, c := range p.Where {
		expr, arg := conditionSQL(c)
		tx = tx.Where(expr, arg)
	}

	return tx
}

func conditionSQL(c search.Condition) (string, interface{}) {
	switch c.Op {
	case search.OpContains:
		return c.Column + " ILIKE ?", "%" + fmt.Sprint(c.Value) + "%"
	case search.OpIn:
		return c.Column + " IN ?", c.Value
	default:
		return c.Column + " = ?", c.Value
	}
}

// Count counts all records matching the predicate.
func (s *searchStore[T]) Count(ctx context.Context, p *search.Predicate) (int64, error) {
	var count int64
	err := s.scope(ctx, p).Count(&count).Error
	return count, err
}

// Find returns one page of records matching the predicate.
func (s *searchStore[T]) Find(ctx context.Context, p *search.Predicate, sortBy string, order search.Order, limit, offset int) ([]T, error) {
	tx := s.scope(ctx, p).
		Order(sortBy + " " + string(order)).
		Limit(limit).
		Offset(offset)
	for _, preload := range s.preloads {
		tx = tx.Preload(preload)
	}

	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
