package accesspolicy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"frota/pkg/models"
)

var (
	regionNorth = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	regionSouth = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	statePI     = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	stateMA     = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
)

func actorWith(level int, region, state uuid.UUID) Actor {
	return Actor{
		StaffID:      uuid.New(),
		RoleLevel:    level,
		RoleCategory: models.CategoryOperations,
		RegionID:     region,
		StateID:      state,
	}
}

func TestCanView(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	northRef := RegionRef{ID: regionNorth, StateID: statePI}
	southRef := RegionRef{ID: regionSouth, StateID: stateMA}

	tests := []struct {
		name     string
		actor    Actor
		resource RegionRef
		expected bool
	}{
		{"director sees any region", actorWith(6, regionNorth, statePI), southRef, true},
		{"manager sees own state", actorWith(5, regionNorth, statePI), northRef, true},
		{"manager denied other state", actorWith(5, regionNorth, statePI), southRef, false},
		{"coordinator sees own region", actorWith(4, regionNorth, statePI), northRef, true},
		{"coordinator denied other region", actorWith(4, regionNorth, statePI), southRef, false},
		{"supervisor sees own region", actorWith(3, regionNorth, statePI), northRef, true},
		{"supervisor denied other region", actorWith(3, regionNorth, statePI), southRef, false},
		{"shop analyst denied own region", actorWith(2, regionNorth, statePI), northRef, false},
		{"mechanic denied everywhere", actorWith(1, regionNorth, statePI), northRef, false},
		{"supervisor without region denied", actorWith(3, uuid.Nil, uuid.Nil), northRef, false},
		{"manager without state denied", actorWith(5, uuid.Nil, uuid.Nil), northRef, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.CanView(tt.actor, tt.resource))
		})
	}
}

func TestCanMutateMatchesCanView(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	ref := RegionRef{ID: regionNorth, StateID: statePI}

	for level := 1; level <= 6; level++ {
		actor := actorWith(level, regionNorth, statePI)
		assert.Equal(t, engine.CanView(actor, ref), engine.CanMutate(actor, ref),
			"level %d", level)
	}
}

func TestScopeFilter(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name     string
		actor    Actor
		expected Scope
	}{
		{"director unrestricted", actorWith(6, regionNorth, statePI), Scope{Kind: ScopeAll}},
		{"manager scoped to state", actorWith(5, regionNorth, statePI), Scope{Kind: ScopeState, StateID: statePI}},
		{"coordinator scoped to region", actorWith(4, regionNorth, statePI), Scope{Kind: ScopeRegion, RegionID: regionNorth}},
		{"supervisor scoped to region", actorWith(3, regionNorth, statePI), Scope{Kind: ScopeRegion, RegionID: regionNorth}},
		{"mechanic matches nothing", actorWith(1, regionNorth, statePI), Scope{Kind: ScopeNone}},
		{"supervisor without region matches nothing", actorWith(3, uuid.Nil, uuid.Nil), Scope{Kind: ScopeNone}},
		{"manager without state matches nothing", actorWith(5, uuid.Nil, uuid.Nil), Scope{Kind: ScopeNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.ScopeFilter(tt.actor))
		})
	}
}

func TestConfigurableThresholds(t *testing.T) {
	// A deployment may flatten the hierarchy; levels are configuration.
	engine := NewEngine(Config{SupervisorLevel: 1, ManagerLevel: 2, DirectorLevel: 3})

	mechanic := actorWith(1, regionNorth, statePI)
	assert.True(t, engine.CanView(mechanic, RegionRef{ID: regionNorth, StateID: statePI}))
	assert.Equal(t, Scope{Kind: ScopeRegion, RegionID: regionNorth}, engine.ScopeFilter(mechanic))
}
