// Package search implements the paginated search engine shared by every
// entity: optional free-text search, optional exact-match filters and
// sort/paging parameters resolved into a single predicate that both the count
// query and the page query run against.
//
// Bad input never errors here. Page and limit are clamped, unknown sort keys
// fall back to the entity default and unknown sort orders fall back to DESC.
// The only failure the engine reports is a record-store failure.
package search

import (
	"context"
	"fmt"
	"strings"
)

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

const (
	// DefaultLimit is the page size used when none is requested
	DefaultLimit = 10
	// MaxLimit caps the page size regardless of what was requested
	MaxLimit = 100
)

// EnumField is a closed-vocabulary column that participates in free-text
// search. The term is matched against the vocabulary, never LIKE'd against
// the column itself.
type EnumField struct {
	Column string
	Values []string
}

// Config declares, per entity, which fields the engine may touch.
type Config struct {
	// TextFields are OR-combined as case-insensitive substring matches
	TextFields []string
	// EnumFields are searched via their value list (exact IN match)
	EnumFields []EnumField
	// SortFields is the allow-list of sortable columns
	SortFields []string
	// DefaultSort is used when SortBy is absent or not allow-listed
	DefaultSort string
}

// Filter is one exact-match constraint. A nil or empty-string value means
// "filter not applied", never "match null".
type Filter struct {
	Column string
	Value  interface{}
}

// Query carries the caller-supplied search parameters. The handler layer owns
// type coercion; by the time a Query reaches the engine every field has its
// final type.
type Query struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
	Filters   []Filter
}

// Pagination reports where the returned page sits in the full match set.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// Result is one page of records plus pagination metadata.
type Result[T any] struct {
	Result     []T        `json:"result"`
	Pagination Pagination `json:"pagination"`
}

// Store is the record store the engine runs against. Count and Find must
// evaluate the exact same predicate; the engine guarantees it passes the same
// one to both.
type Store[T any] interface {
	Count(ctx context.Context, p *Predicate) (int64, error)
	Find(ctx context.Context, p *Predicate, sortBy string, order Order, limit, offset int) ([]T, error)
}

// Engine resolves queries for a single entity. It holds no state across
// calls and is safe for concurrent use.
type Engine[T any] struct {
	cfg   Config
	store Store[T]
}

// New creates a search engine for one entity.
func New[T any](cfg Config, store Store[T]) *Engine[T] {
	return &Engine[T]{cfg: cfg, store: store}
}

// Search returns the requested page of matching records.
func (e *Engine[T]) Search(ctx context.Context, q Query) (*Result[T], error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	limit := q.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sortBy := e.resolveSortBy(q.SortBy)
	order := resolveOrder(q.SortOrder)
	pred := e.buildPredicate(q)

	total, err := e.store.Count(ctx, pred)
	if err != nil {
		return nil, fmt.Errorf("pagination failed: %w", err)
	}

	offset := (page - 1) * limit
	rows, err := e.store.Find(ctx, pred, sortBy, order, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pagination failed: %w", err)
	}
	if rows == nil {
		rows = []T{}
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &Result[T]{
		Result: rows,
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

// resolveSortBy enforces the sort allow-list.
func (e *Engine[T]) resolveSortBy(requested string) string {
	for _, f := range e.cfg.SortFields {
		if f == requested {
			return requested
		}
	}
	return e.cfg.DefaultSort
}

func resolveOrder(requested string) Order {
	switch strings.ToUpper(requested) {
	case string(OrderAsc):
		return OrderAsc
	case string(OrderDesc):
		return OrderDesc
	default:
		return OrderDesc
	}
}

// buildPredicate turns the query into the shared WHERE clause:
// (search OR-group) AND filter_1 AND filter_2 ...
func (e *Engine[T]) buildPredicate(q Query) *Predicate {
	pred := &Predicate{}

	term := strings.TrimSpace(q.Search)
	if term != "" {
		for _, f := range e.cfg.TextFields {
			pred.Match = append(pred.Match, Condition{Column: f, Op: OpContains, Value: term})
		}

		lower := strings.ToLower(term)
		for _, ef := range e.cfg.EnumFields {
			var matching []string
			for _, v := range ef.Values {
				if strings.Contains(strings.ToLower(v), lower) {
					matching = append(matching, v)
				}
			}
			if len(matching) > 0 {
				pred.Match = append(pred.Match, Condition{Column: ef.Column, Op: OpIn, Value: matching})
			}
		}

		// Search was requested but nothing can match it: force zero rows
		// instead of silently returning everything.
		if len(pred.Match) == 0 {
			pred.MatchNone = true
		}
	}

	for _, f := range q.Filters {
		if f.Value == nil || f.Value == "" {
			continue
		}
		pred.Where = append(pred.Where, Condition{Column: f.Column, Op: OpEq, Value: f.Value})
	}

	return pred
}
