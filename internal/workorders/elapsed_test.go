package workorders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"frota/pkg/models"
)

func historyEntry(orderID int, prev *models.WorkOrderStatus, next models.WorkOrderStatus, at time.Time) models.StatusHistoryEntry {
	return models.StatusHistoryEntry{
		WorkOrderID:    orderID,
		PreviousStatus: prev,
		NewStatus:      next,
		StaffID:        uuid.New(),
		CreatedAt:      at,
	}
}

func statusPtr(s models.WorkOrderStatus) *models.WorkOrderStatus {
	return &s
}

func TestBuildSegmentsCompletedOrder(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	t1 := t0.Add(2 * time.Hour)
	t2 := t1.Add(30 * time.Minute)
	t3 := t2.Add(90 * time.Minute)

	entries := []models.StatusHistoryEntry{
		historyEntry(1, nil, models.OrderInProgress, t0),
		historyEntry(1, statusPtr(models.OrderInProgress), models.OrderDiagnosis, t1),
		historyEntry(1, statusPtr(models.OrderDiagnosis), models.OrderAwaitingPart, t2),
		historyEntry(1, statusPtr(models.OrderAwaitingPart), models.OrderCompleted, t3),
	}

	segments := BuildSegments(entries, t3.Add(24*time.Hour))

	// The completed entry closes the last segment but opens nothing: a
	// finished order stops accruing time no matter when you ask.
	assert.Len(t, segments, 3)

	assert.Equal(t, models.OrderInProgress, segments[0].Status)
	assert.Equal(t, 2*time.Hour, segments[0].Duration)
	assert.Equal(t, t1, *segments[0].ExitedAt)

	assert.Equal(t, models.OrderDiagnosis, segments[1].Status)
	assert.Equal(t, 30*time.Minute, segments[1].Duration)

	assert.Equal(t, models.OrderAwaitingPart, segments[2].Status)
	assert.Equal(t, 90*time.Minute, segments[2].Duration)
	assert.Equal(t, t3, *segments[2].ExitedAt)

	assert.Equal(t, t3.Sub(t0), TotalDuration(segments))
}

func TestBuildSegmentsOpenOrder(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	now := t1.Add(45 * time.Minute)

	entries := []models.StatusHistoryEntry{
		historyEntry(1, nil, models.OrderInProgress, t0),
		historyEntry(1, statusPtr(models.OrderInProgress), models.OrderDiagnosis, t1),
	}

	segments := BuildSegments(entries, now)

	assert.Len(t, segments, 2)
	assert.Equal(t, time.Hour, segments[0].Duration)
	assert.NotNil(t, segments[0].ExitedAt)

	assert.Equal(t, models.OrderDiagnosis, segments[1].Status)
	assert.Nil(t, segments[1].ExitedAt)
	assert.Equal(t, 45*time.Minute, segments[1].Duration)

	assert.Equal(t, now.Sub(t0), TotalDuration(segments))
}

func TestBuildSegmentsEmptyLedger(t *testing.T) {
	segments := BuildSegments(nil, time.Now())
	assert.Empty(t, segments)
	assert.Equal(t, time.Duration(0), TotalDuration(segments))
}

func TestBuildSegmentsCancelledOrder(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	t1 := t0.Add(10 * time.Minute)

	entries := []models.StatusHistoryEntry{
		historyEntry(1, nil, models.OrderInProgress, t0),
		historyEntry(1, statusPtr(models.OrderInProgress), models.OrderCancelled, t1),
	}

	segments := BuildSegments(entries, t1.Add(time.Hour))

	assert.Len(t, segments, 1)
	assert.Equal(t, models.OrderInProgress, segments[0].Status)
	assert.Equal(t, 10*time.Minute, segments[0].Duration)
	assert.Equal(t, 10*time.Minute, TotalDuration(segments))
}
