package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record is the fixture row type used by the in-memory store.
type record struct {
	ID          int
	Name        string
	Email       string
	WishedVisa  string
	ExistingVisa string
	IsActive    bool
	ClientID    int
	CreatedAt   time.Time
}

func (r record) field(column string) interface{} {
	switch column {
	case "id":
		return r.ID
	case "name":
		return r.Name
	case "email":
		return r.Email
	case "wished_visa":
		return r.WishedVisa
	case "existing_visa":
		return r.ExistingVisa
	case "is_active":
		return r.IsActive
	case "client_id":
		return r.ClientID
	case "created_at":
		return r.CreatedAt
	default:
		panic("unknown column: " + column)
	}
}

// memStore evaluates predicates over a slice, mimicking what the gorm-backed
// store does against the database.
type memStore struct {
	rows []record
	err  error
}

func (s *memStore) filter(p *Predicate) []record {
	var out []record
	for _, r := range s.rows {
		if s.matches(r, p) {
			out = append(out, r)
		}
	}
	return out
}

func (s *memStore) matches(r record, p *Predicate) bool {
	if p == nil {
		return true
	}
	if p.MatchNone {
		return false
	}
	if len(p.Match) > 0 {
		hit := false
		for _, c := range p.Match {
			if evalCondition(r, c) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for _, c := range p.Where {
		if !evalCondition(r, c) {
			return false
		}
	}
	return true
}

func evalCondition(r record, c Condition) bool {
	v := r.field(c.Column)
	switch c.Op {
	case OpEq:
		return v == c.Value
	case OpContains:
		s, ok := v.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(c.Value)))
	case OpIn:
		values, ok := c.Value.([]string)
		if !ok {
			return false
		}
		for _, want := range values {
			if v == want {
				return true
			}
		}
		return false
	}
	return false
}

func (s *memStore) Count(_ context.Context, p *Predicate) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.filter(p))), nil
}

func (s *memStore) Find(_ context.Context, p *Predicate, sortBy string, order Order, limit, offset int) ([]record, error) {
	if s.err != nil {
		return nil, s.err
	}
	rows := s.filter(p)
	sort.SliceStable(rows, func(i, j int) bool {
		less := lessByColumn(rows[i], rows[j], sortBy)
		if order == OrderDesc {
			return lessByColumn(rows[j], rows[i], sortBy)
		}
		return less
	})
	if offset >= len(rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}

func lessByColumn(a, b record, column string) bool {
	av, bv := a.field(column), b.field(column)
	switch x := av.(type) {
	case int:
		return x < bv.(int)
	case string:
		return x < bv.(string)
	case time.Time:
		return x.Before(bv.(time.Time))
	case bool:
		return !x && bv.(bool)
	}
	return false
}

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func clientConfig() Config {
	return Config{
		TextFields:  []string{"name", "email"},
		SortFields:  []string{"id", "name", "email", "is_active", "created_at"},
		DefaultSort: "created_at",
	}
}

func visaConfig() Config {
	return Config{
		EnumFields: []EnumField{
			{Column: "existing_visa", Values: []string{"entry_stamp_30_day", "tourist_visa_60_day", "retirement_visa", "student_visa_language_school"}},
			{Column: "wished_visa", Values: []string{"retirement_visa", "student_visa_language_school", "elite_visa"}},
		},
		SortFields:  []string{"id", "client_id", "existing_visa", "wished_visa", "created_at"},
		DefaultSort: "created_at",
	}
}

func nRecords(n int, active bool) []record {
	rows := make([]record, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, record{
			ID:        i,
			Name:      fmt.Sprintf("Client %02d", i),
			Email:     fmt.Sprintf("client%02d@example.com", i),
			IsActive:  active,
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		})
	}
	return rows
}

func TestSearchClampsLimit(t *testing.T) {
	store := &memStore{rows: nRecords(150, true)}
	engine := New(clientConfig(), store)

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"zero uses default", 0, DefaultLimit},
		{"negative clamps to one", -5, 1},
		{"in range kept", 7, 7},
		{"above max clamps to max", 1000, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Search(context.Background(), Query{Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, res.Pagination.ItemsPerPage)
			assert.Len(t, res.Result, tt.wantLimit)
		})
	}
}

func TestSearchClampsPage(t *testing.T) {
	store := &memStore{rows: nRecords(5, true)}
	engine := New(clientConfig(), store)

	for _, page := range []int{0, -3} {
		res, err := engine.Search(context.Background(), Query{Page: page})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Pagination.CurrentPage)
		assert.Len(t, res.Result, 5)
	}
}

func TestSearchSortByAllowList(t *testing.T) {
	rows := []record{
		{ID: 1, Name: "Zed", CreatedAt: baseTime.Add(time.Minute)},
		{ID: 2, Name: "Amy", CreatedAt: baseTime.Add(2 * time.Minute)},
	}
	engine := New(clientConfig(), &memStore{rows: rows})

	// "password" is not sortable; falls back to created_at DESC
	res, err := engine.Search(context.Background(), Query{SortBy: "password"})
	require.NoError(t, err)
	require.Len(t, res.Result, 2)
	assert.Equal(t, 2, res.Result[0].ID)
	assert.Equal(t, 1, res.Result[1].ID)

	// allow-listed key is honored
	res, err = engine.Search(context.Background(), Query{SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, "Amy", res.Result[0].Name)
}

func TestSearchSortOrderFallback(t *testing.T) {
	rows := []record{
		{ID: 1, CreatedAt: baseTime.Add(time.Minute)},
		{ID: 2, CreatedAt: baseTime.Add(2 * time.Minute)},
	}
	engine := New(clientConfig(), &memStore{rows: rows})

	tests := []struct {
		order     string
		wantFirst int
	}{
		{"ASC", 1},
		{"asc", 1},
		{"AsC", 1},
		{"DESC", 2},
		{"sideways", 2},
		{"", 2},
	}

	for _, tt := range tests {
		res, err := engine.Search(context.Background(), Query{SortOrder: tt.order})
		require.NoError(t, err)
		assert.Equal(t, tt.wantFirst, res.Result[0].ID, "order %q", tt.order)
	}
}

func TestSearchTotalPagesFormula(t *testing.T) {
	tests := []struct {
		total     int
		limit     int
		wantPages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{12, 5, 3},
		{101, 100, 2},
	}

	for _, tt := range tests {
		engine := New(clientConfig(), &memStore{rows: nRecords(tt.total, true)})
		res, err := engine.Search(context.Background(), Query{Limit: tt.limit})
		require.NoError(t, err)
		assert.Equal(t, int64(tt.total), res.Pagination.TotalItems)
		assert.Equal(t, tt.wantPages, res.Pagination.TotalPages)
	}
}

func TestSearchIdempotent(t *testing.T) {
	engine := New(clientConfig(), &memStore{rows: nRecords(30, true)})
	q := Query{Page: 2, Limit: 7, Search: "client", SortBy: "name", SortOrder: "ASC"}

	first, err := engine.Search(context.Background(), q)
	require.NoError(t, err)
	second, err := engine.Search(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first.Pagination, second.Pagination)
	assert.Equal(t, first.Result, second.Result)
}

func TestSearchTextCaseInsensitive(t *testing.T) {
	rows := []record{
		{ID: 1, Name: "Somsak Prasert", Email: "somsak@example.com", CreatedAt: baseTime},
		{ID: 2, Name: "John Miller", Email: "john@example.com", CreatedAt: baseTime.Add(time.Minute)},
	}
	engine := New(clientConfig(), &memStore{rows: rows})

	res, err := engine.Search(context.Background(), Query{Search: "SOMSAK"})
	require.NoError(t, err)
	require.Len(t, res.Result, 1)
	assert.Equal(t, 1, res.Result[0].ID)
}

func TestSearchWhitespaceTermIgnored(t *testing.T) {
	engine := New(clientConfig(), &memStore{rows: nRecords(4, true)})

	res, err := engine.Search(context.Background(), Query{Search: "   "})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Pagination.TotalItems)
}

func TestSearchEnumSubstring(t *testing.T) {
	rows := []record{
		{ID: 1, WishedVisa: "retirement_visa", CreatedAt: baseTime},
		{ID: 2, WishedVisa: "student_visa_language_school", CreatedAt: baseTime.Add(time.Minute)},
		{ID: 3, WishedVisa: "student_visa_language_school", CreatedAt: baseTime.Add(2 * time.Minute)},
	}
	engine := New(visaConfig(), &memStore{rows: rows})

	// substring of the enum value, matched against the vocabulary not the column
	res, err := engine.Search(context.Background(), Query{Search: "retiremen"})
	require.NoError(t, err)
	require.Len(t, res.Result, 1)
	assert.Equal(t, "retirement_visa", res.Result[0].WishedVisa)
	assert.Equal(t, int64(1), res.Pagination.TotalItems)
}

func TestSearchEnumShortCircuit(t *testing.T) {
	rows := []record{
		{ID: 1, WishedVisa: "retirement_visa", ExistingVisa: "entry_stamp_30_day", CreatedAt: baseTime},
		{ID: 2, WishedVisa: "elite_visa", ExistingVisa: "tourist_visa_60_day", CreatedAt: baseTime.Add(time.Minute)},
	}
	engine := New(visaConfig(), &memStore{rows: rows})

	res, err := engine.Search(context.Background(), Query{Search: "zzz-no-match"})
	require.NoError(t, err)
	assert.Empty(t, res.Result)
	assert.Equal(t, int64(0), res.Pagination.TotalItems)
	assert.Equal(t, 0, res.Pagination.TotalPages)
}

func TestSearchFilterConjunction(t *testing.T) {
	// four records covering every truth combination of the two filters
	rows := []record{
		{ID: 1, ClientID: 7, IsActive: true, CreatedAt: baseTime},
		{ID: 2, ClientID: 7, IsActive: false, CreatedAt: baseTime.Add(time.Minute)},
		{ID: 3, ClientID: 9, IsActive: true, CreatedAt: baseTime.Add(2 * time.Minute)},
		{ID: 4, ClientID: 9, IsActive: false, CreatedAt: baseTime.Add(3 * time.Minute)},
	}
	engine := New(visaConfig(), &memStore{rows: rows})

	res, err := engine.Search(context.Background(), Query{Filters: []Filter{
		{Column: "client_id", Value: 7},
		{Column: "is_active", Value: true},
	}})
	require.NoError(t, err)
	require.Len(t, res.Result, 1)
	assert.Equal(t, 1, res.Result[0].ID)
}

func TestSearchEmptyFilterSkipped(t *testing.T) {
	engine := New(clientConfig(), &memStore{rows: nRecords(3, true)})

	res, err := engine.Search(context.Background(), Query{Filters: []Filter{
		{Column: "name", Value: ""},
		{Column: "email", Value: nil},
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Pagination.TotalItems)
}

func TestSearchSecondPageOfActiveRecords(t *testing.T) {
	rows := append(nRecords(12, true), record{ID: 13, IsActive: false, CreatedAt: baseTime.Add(20 * time.Minute)},
		record{ID: 14, IsActive: false, CreatedAt: baseTime.Add(21 * time.Minute)},
		record{ID: 15, IsActive: false, CreatedAt: baseTime.Add(22 * time.Minute)})
	engine := New(clientConfig(), &memStore{rows: rows})

	res, err := engine.Search(context.Background(), Query{
		Page:      2,
		Limit:     5,
		SortBy:    "id",
		SortOrder: "ASC",
		Filters:   []Filter{{Column: "is_active", Value: true}},
	})
	require.NoError(t, err)

	assert.Equal(t, Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 12, ItemsPerPage: 5}, res.Pagination)
	require.Len(t, res.Result, 5)
	for i, r := range res.Result {
		assert.Equal(t, 6+i, r.ID)
	}
}

func TestSearchStoreFailureWrapped(t *testing.T) {
	storeErr := errors.New("connection refused")
	engine := New(clientConfig(), &memStore{err: storeErr})

	res, err := engine.Search(context.Background(), Query{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "pagination failed")
	assert.ErrorIs(t, err, storeErr)
}

func TestSearchBeyondLastPageReturnsEmptyPage(t *testing.T) {
	engine := New(clientConfig(), &memStore{rows: nRecords(3, true)})

	res, err := engine.Search(context.Background(), Query{Page: 5, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Result)
	assert.Equal(t, int64(3), res.Pagination.TotalItems)
	assert.Equal(t, 5, res.Pagination.CurrentPage)
}
