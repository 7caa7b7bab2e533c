package auditlog

import (
	"log"

	"github.com/google/uuid"

	"frota/pkg/models"
)

type Repository interface {
	PersistLog(entry models.AuditLog, data interface{}) error
	GetResourceLog(id string, resourceType string) ([]models.AuditLog, error)
}

type Auditlog struct {
	r Repository
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log records a mutation against a resource. Failures are logged and
// dropped; the audit trail never blocks the business operation.
func (a *Auditlog) Log(action string, staffID uuid.UUID, data interface{}, item Auditable) {
	entry := item.CreateLogView()
	entry.Action = action
	if staffID != uuid.Nil {
		entry.StaffID = &staffID
	}

	if err := a.r.PersistLog(entry, data); err != nil {
		log.Println("Unable to create audit log entry for", entry.ResourceType, entry.ResourceID)
		return
	}
}

func (a *Auditlog) ResourceLog(id string, resourceType string) ([]models.AuditLog, error) {
	return a.r.GetResourceLog(id, resourceType)
}

func NewAuditLog(repository Repository) *Auditlog {
	return &Auditlog{r: repository}
}
