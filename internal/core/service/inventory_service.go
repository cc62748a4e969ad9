package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/cafeteria-service/internal/core/domain"
	"github.com/rl1809/cafeteria-service/internal/port"
)

var (
	ErrDuplicateRequest      = errors.New("duplicate request")
	ErrNotFound              = errors.New("inventory item not found")
	ErrPreconditionViolation = errors.New("transition not permitted from current state")
	ErrInvalidInput          = errors.New("invalid input")
)

type InventoryService struct {
	db         port.InventoryRepository
	roster     port.RosterRepository
	cache      port.CacheRepository
	auditQueue chan domain.AuditEntry
}

func NewInventoryService(db port.InventoryRepository, roster port.RosterRepository, cache port.CacheRepository, queueSize int) *InventoryService {
	return &InventoryService{
		db:         db,
		roster:     roster,
		cache:      cache,
		auditQueue: make(chan domain.AuditEntry, queueSize),
	}
}

type RegisterInput struct {
	FoodItem              string
	Category              string
	Unit                  string
	Supplier              string
	StorageCondition      string
	RegisteredBy          string
	CurrentStock          float64
	MinStockLevel         float64
	ConsumptionPerStudent float64
}

// Register creates an item awaiting committee review.
func (s *InventoryService) Register(ctx context.Context, in RegisterInput) (*domain.InventoryItem, error) {
	if in.FoodItem == "" {
		return nil, fmt.Errorf("%w: food item name is required", ErrInvalidInput)
	}
	if in.Unit == "" {
		return nil, fmt.Errorf("%w: unit is required", ErrInvalidInput)
	}
	if in.CurrentStock < 0 || in.MinStockLevel < 0 || in.ConsumptionPerStudent < 0 {
		return nil, fmt.Errorf("%w: quantities must be non-negative", ErrInvalidInput)
	}

	now := time.Now()
	item := domain.InventoryItem{
		ID:                    uuid.NewString(),
		FoodItem:              in.FoodItem,
		Category:              in.Category,
		Unit:                  in.Unit,
		Supplier:              in.Supplier,
		StorageCondition:      in.StorageCondition,
		RegisteredBy:          in.RegisteredBy,
		CurrentStock:          in.CurrentStock,
		MinStockLevel:         in.MinStockLevel,
		ConsumptionPerStudent: in.ConsumptionPerStudent,
		Status:                domain.ItemStatusActive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.db.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.audit(item.ID, domain.ActionRegistered, in.RegisteredBy, now)
	return &item, nil
}

// CommitteeApprove moves an item from pending-committee to pending-president.
func (s *InventoryService) CommitteeApprove(ctx context.Context, itemID, actor string) error {
	return s.transition(ctx, itemID, actor, domain.ActionCommitteeApproved,
		domain.StatePendingCommittee, s.db.MarkCommitteeApproved)
}

// CommitteeReject terminates an item at the committee gate.
func (s *InventoryService) CommitteeReject(ctx context.Context, itemID, actor string) error {
	return s.transition(ctx, itemID, actor, domain.ActionCommitteeRejected,
		domain.StatePendingCommittee, s.db.MarkRejected)
}

// PresidentApprove moves an item from pending-president to fully approved.
func (s *InventoryService) PresidentApprove(ctx context.Context, itemID, actor string) error {
	return s.transition(ctx, itemID, actor, domain.ActionPresidentApproved,
		domain.StatePendingPresident, s.db.MarkPresidentApproved)
}

// PresidentReject terminates an item at the president gate.
func (s *InventoryService) PresidentReject(ctx context.Context, itemID, actor string) error {
	return s.transition(ctx, itemID, actor, domain.ActionPresidentRejected,
		domain.StatePendingPresident, s.db.MarkRejected)
}

// transition runs one gate action: a short-lived idempotency key guards
// against double-taps, the precondition is checked against the workflow
// enum before any write, and the write itself is version-conditioned so
// a racing operator surfaces as port.ErrVersionConflict rather than a
// silent overwrite. The key is released on every failure path so a
// manual retry stays possible.
func (s *InventoryService) transition(
	ctx context.Context,
	itemID, actor string,
	action domain.AuditAction,
	from domain.WorkflowState,
	write func(context.Context, string, int, time.Time) error,
) error {
	key := fmt.Sprintf("txn:%s:%s", action, itemID)

	ok, err := s.cache.AcquireTransition(ctx, key)
	if err != nil {
		return fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return ErrDuplicateRequest
	}

	item, err := s.db.GetItem(ctx, itemID)
	if err != nil {
		s.cache.ReleaseTransition(ctx, key)
		return fmt.Errorf("fetch item: %w", err)
	}
	if item == nil {
		s.cache.ReleaseTransition(ctx, key)
		return ErrNotFound
	}
	if state := item.State(); state != from {
		s.cache.ReleaseTransition(ctx, key)
		return fmt.Errorf("%w: item %s is %s", ErrPreconditionViolation, itemID, state)
	}

	now := time.Now()
	if err := write(ctx, itemID, item.Version, now); err != nil {
		s.cache.ReleaseTransition(ctx, key)
		return fmt.Errorf("apply %s: %w", action, err)
	}

	s.audit(itemID, action, actor, now)
	return nil
}

func (s *InventoryService) audit(itemID string, action domain.AuditAction, actor string, at time.Time) {
	s.auditQueue <- domain.AuditEntry{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		Action:    action,
		Actor:     actor,
		CreatedAt: at,
	}
}

// PendingCommittee lists the committee dashboard queue.
func (s *InventoryService) PendingCommittee(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.db.ListPendingCommittee(ctx)
}

// PendingPresident lists the president dashboard queue.
func (s *InventoryService) PendingPresident(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.db.ListPendingPresident(ctx)
}

// StockReport carries the stock-analysis view: every fully approved item
// annotated with its projection, plus the dashboard counters.
type StockReport struct {
	StudentCount  int
	Projections   []domain.StockProjection
	CriticalCount int
	LowCount      int
}

// StockAnalysis projects depletion for every fully approved item against
// the live student headcount. Projections are recomputed on every call;
// nothing here is cached or persisted.
func (s *InventoryService) StockAnalysis(ctx context.Context) (*StockReport, error) {
	items, err := s.db.ListFullyApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approved items: %w", err)
	}

	count, err := s.roster.CountActiveStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}

	report := &StockReport{
		StudentCount: count,
		Projections:  make([]domain.StockProjection, 0, len(items)),
	}
	for _, item := range items {
		p := Project(item, count)
		switch p.StockStatus {
		case domain.StockCritical:
			report.CriticalCount++
		case domain.StockLow:
			report.LowCount++
		}
		report.Projections = append(report.Projections, p)
	}
	return report, nil
}

// AuditQueue exposes the pending audit entries to the worker pool.
func (s *InventoryService) AuditQueue() <-chan domain.AuditEntry {
	return s.auditQueue
}

func (s *InventoryService) Close() {
	close(s.auditQueue)
}
