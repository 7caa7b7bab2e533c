package accesspolicy

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeState
	ScopeRegion
	ScopeNone
)

// Scope is the region predicate a repository must apply to list queries.
type Scope struct {
	Kind     ScopeKind
	StateID  uuid.UUID
	RegionID uuid.UUID
}

// Expression converts the scope into a goqu filter over the given region
// column. ScopeAll returns nil, which goqu treats as no restriction.
// ScopeNone compiles to a predicate no row satisfies.
func (s Scope) Expression(regionColumn string) goqu.Expression {
	switch s.Kind {
	case ScopeAll:
		return nil
	case ScopeState:
		return goqu.I(regionColumn).In(
			goqu.From("regions").Select("id").Where(goqu.Ex{"state_id": s.StateID.String()}),
		)
	case ScopeRegion:
		return goqu.I(regionColumn).Eq(s.RegionID.String())
	default:
		return goqu.L("FALSE")
	}
}
