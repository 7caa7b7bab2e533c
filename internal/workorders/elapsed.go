package workorders

import (
	"time"

	"frota/pkg/models"
)

// StatusSegment is one stretch of time an order spent in a status.
// ExitedAt is nil for the still-current status of an open order.
type StatusSegment struct {
	Status    models.WorkOrderStatus `json:"status"`
	EnteredAt time.Time              `json:"entered_at"`
	ExitedAt  *time.Time             `json:"exited_at,omitempty"`
	Duration  time.Duration          `json:"duration"`
}

// BuildSegments pairs each ledger entry with the next one. A terminal
// entry only closes the segment before it: completed/cancelled are points
// in time, not statuses the order keeps accruing.
func BuildSegments(entries []models.StatusHistoryEntry, now time.Time) []StatusSegment {
	segments := make([]StatusSegment, 0, len(entries))

	for i, entry := range entries {
		if entry.NewStatus.IsTerminal() {
			continue
		}

		segment := StatusSegment{
			Status:    entry.NewStatus,
			EnteredAt: entry.CreatedAt,
		}

		if i+1 < len(entries) {
			exit := entries[i+1].CreatedAt
			segment.ExitedAt = &exit
			segment.Duration = exit.Sub(entry.CreatedAt)
		} else {
			segment.Duration = now.Sub(entry.CreatedAt)
		}

		segments = append(segments, segment)
	}

	return segments
}

func TotalDuration(segments []StatusSegment) time.Duration {
	var total time.Duration
	for _, segment := range segments {
		total += segment.Duration
	}
	return total
}
