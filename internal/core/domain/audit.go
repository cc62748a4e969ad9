package domain

import "time"

type AuditAction string

const (
	ActionRegistered        AuditAction = "registered"
	ActionCommitteeApproved AuditAction = "committee_approved"
	ActionCommitteeRejected AuditAction = "committee_rejected"
	ActionPresidentApproved AuditAction = "president_approved"
	ActionPresidentRejected AuditAction = "president_rejected"
)

// AuditEntry records one workflow action. Entries are persisted
// asynchronously by the audit worker pool.
type AuditEntry struct {
	ID        string
	ItemID    string
	Action    AuditAction
	Actor     string
	CreatedAt time.Time
}
