package accesspolicy

import (
	"github.com/google/uuid"

	"frota/pkg/models"
)

// Actor is the resolved identity every core operation is evaluated against.
// It is built once per request by the identity resolver and passed
// explicitly; nothing in the engine reads ambient state.
type Actor struct {
	StaffID      uuid.UUID
	RoleLevel    int
	RoleCategory models.RoleCategory
	RegionID     uuid.UUID // uuid.Nil when the staff record has no region
	StateID      uuid.UUID
}

// RegionRef locates a resource inside the regional hierarchy.
type RegionRef struct {
	ID      uuid.UUID
	StateID uuid.UUID
}

// Engine decides, for every read or write, whether an actor may act on a
// record in a given region, and which subset of records the actor's
// queries are restricted to.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// CanView reports whether the actor may read records in the given region.
// Directors see everything, managers see their whole state grouping,
// supervisors and coordinators see their own region. Everyone else is
// denied, including actors without a resolvable region.
func (e *Engine) CanView(actor Actor, resource RegionRef) bool {
	switch {
	case actor.RoleLevel >= e.cfg.DirectorLevel:
		return true
	case actor.RoleLevel >= e.cfg.ManagerLevel:
		return actor.StateID != uuid.Nil && actor.StateID == resource.StateID
	case actor.RoleLevel >= e.cfg.SupervisorLevel:
		return actor.RegionID != uuid.Nil && actor.RegionID == resource.ID
	default:
		return false
	}
}

// CanMutate uses the same rule as CanView: the deployment models a single
// permission tier. Kept as a separate entry point so a write-only split
// stays a local change.
func (e *Engine) CanMutate(actor Actor, resource RegionRef) bool {
	return e.CanView(actor, resource)
}

// ScopeFilter derives the implicit record filter for the actor's queries.
// Actors below the supervisor threshold, and actors without a resolvable
// region, get ScopeNone: they see zero records rather than erroring out.
func (e *Engine) ScopeFilter(actor Actor) Scope {
	switch {
	case actor.RoleLevel >= e.cfg.DirectorLevel:
		return Scope{Kind: ScopeAll}
	case actor.RoleLevel >= e.cfg.ManagerLevel:
		if actor.StateID == uuid.Nil {
			return Scope{Kind: ScopeNone}
		}
		return Scope{Kind: ScopeState, StateID: actor.StateID}
	case actor.RoleLevel >= e.cfg.SupervisorLevel:
		if actor.RegionID == uuid.Nil {
			return Scope{Kind: ScopeNone}
		}
		return Scope{Kind: ScopeRegion, RegionID: actor.RegionID}
	default:
		return Scope{Kind: ScopeNone}
	}
}
