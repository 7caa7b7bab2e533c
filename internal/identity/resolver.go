package identity

import (
	"github.com/google/uuid"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
	"frota/pkg/models"
)

// Resolver maps an authenticated identity to the actor the access policy
// engine evaluates. It is the only component that touches staff records
// on the authentication path.
type Resolver struct {
	staff StaffRepository
}

func NewResolver(staff StaffRepository) *Resolver {
	return &Resolver{staff: staff}
}

func (r *Resolver) ResolveActor(staffID uuid.UUID) (accesspolicy.Actor, error) {
	member, err := r.staff.GetStaff(staffID)
	if err != nil {
		return accesspolicy.Actor{}, err
	}
	return actorFor(member)
}

// ResolveByAuthUser resolves the opaque identity-provider subject carried
// in the session token.
func (r *Resolver) ResolveByAuthUser(authUserID string) (accesspolicy.Actor, error) {
	member, err := r.staff.GetStaffByAuthUser(authUserID)
	if err != nil {
		return accesspolicy.Actor{}, err
	}
	return actorFor(member)
}

func actorFor(member *models.StaffMember) (accesspolicy.Actor, error) {
	if !member.Active {
		return accesspolicy.Actor{}, &apperrors.UnauthorizedError{
			Operation: "authenticate",
			Resource:  "staff_member",
		}
	}

	return accesspolicy.Actor{
		StaffID:      member.ID,
		RoleLevel:    member.Role.Level,
		RoleCategory: member.Role.Category,
		RegionID:     member.Region.ID,
		StateID:      member.Region.StateID,
	}, nil
}
