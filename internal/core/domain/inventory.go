package domain

import "time"

type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusRejected ItemStatus = "rejected"
)

// WorkflowState is the explicit form of the two approval flags plus the
// lifecycle status. Transitions are validated against this enum so an
// illegal combination (president-approved but not committee-approved)
// is never constructed in memory; the flags exist only at the storage
// boundary.
type WorkflowState string

const (
	StatePendingCommittee WorkflowState = "pending_committee"
	StatePendingPresident WorkflowState = "pending_president"
	StateFullyApproved    WorkflowState = "fully_approved"
	StateRejected         WorkflowState = "rejected"
)

// Terminal reports whether no further transition is permitted.
func (s WorkflowState) Terminal() bool {
	return s == StateFullyApproved || s == StateRejected
}

type InventoryItem struct {
	ID                    string
	FoodItem              string
	Category              string
	Unit                  string
	Supplier              string
	StorageCondition      string
	RegisteredBy          string
	CurrentStock          float64
	MinStockLevel         float64
	ConsumptionPerStudent float64
	Status                ItemStatus
	ApprovedByCommittee   bool
	ApprovedByPresident   bool
	Version               int // optimistic locking
	CreatedAt             time.Time
	UpdatedAt             time.Time
	CommitteeApprovedAt   *time.Time
	PresidentApprovedAt   *time.Time
}

// State folds the stored representation back into the workflow enum.
// A rejected status freezes the flags at whatever they held.
func (i InventoryItem) State() WorkflowState {
	if i.Status == ItemStatusRejected {
		return StateRejected
	}
	switch {
	case i.ApprovedByCommittee && i.ApprovedByPresident:
		return StateFullyApproved
	case i.ApprovedByCommittee:
		return StatePendingPresident
	default:
		return StatePendingCommittee
	}
}
