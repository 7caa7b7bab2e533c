package workorders

import (
	"frota/pkg/apperrors"
	"frota/pkg/models"
)

// ValidateTransition enforces the state machine rules. Orders start in
// in_progress; every non-terminal status may move to any other status,
// and completed/cancelled accept nothing further.
func ValidateTransition(from, to models.WorkOrderStatus) error {
	if !to.IsValid() {
		return &apperrors.ValidationError{Field: "status", Message: "unknown status " + string(to)}
	}
	if from.IsTerminal() || to == from {
		return &apperrors.InvalidTransitionError{From: string(from), To: string(to)}
	}
	return nil
}
