package search

// Op is a predicate operator understood by every record store.
type Op int

const (
	// OpEq matches records whose column equals the value exactly
	OpEq Op = iota
	// OpContains matches records whose column contains the value as a
	// case-insensitive substring
	OpContains
	// OpIn matches records whose column equals one of the values ([]string)
	OpIn
)

// Condition is a single column predicate.
type Condition struct {
	Column string
	Op     Op
	Value  interface{}
}

// Predicate is the resolved WHERE clause of one search:
// (Match_1 OR Match_2 OR ...) AND Where_1 AND Where_2 AND ...
//
// MatchNone is the enum short-circuit: the search term matched no value of any
// searchable enum and the entity has no text-searchable fields, so the store
// must deterministically return zero rows (and a zero count) without error.
type Predicate struct {
	Match     []Condition
	Where     []Condition
	MatchNone bool
}

// IsEmpty reports whether the predicate constrains nothing.
func (p *Predicate) IsEmpty() bool {
	return p == nil || (!p.MatchNone && len(p.Match) == 0 && len(p.Where) == 0)
}
