package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/rl1809/cafeteria-service/internal/core/domain"
	"github.com/rl1809/cafeteria-service/internal/port"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/cafeteria?parseTime=true&multiStatements=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := RunMigrations(db); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	return db
}

func testItem() domain.InventoryItem {
	now := time.Now().Truncate(time.Second)
	return domain.InventoryItem{
		ID:                    "test-item-" + uuid.NewString(),
		FoodItem:              "Test Rice",
		Category:              "staple",
		Unit:                  "kg",
		Supplier:              "Test Supplier",
		RegisteredBy:          "test-manager",
		CurrentStock:          100,
		MinStockLevel:         50,
		ConsumptionPerStudent: 0.5,
		Status:                domain.ItemStatusActive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func TestCreateAndGetItem(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	item := testItem()
	if err := adapter.CreateItem(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM food_inventory WHERE id = ?`, item.ID)

	got, err := adapter.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected item, got nil")
	}
	if got.State() != domain.StatePendingCommittee {
		t.Errorf("expected pending_committee, got %s", got.State())
	}
	if got.Supplier != "Test Supplier" {
		t.Errorf("expected supplier round-trip, got %q", got.Supplier)
	}
	if got.CommitteeApprovedAt != nil {
		t.Error("expected nil committee_approved_at")
	}
}

func TestGetItem_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	got, err := NewMySQLAdapter(db).GetItem(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestMarkCommitteeApproved_VersionCheck(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	item := testItem()
	if err := adapter.CreateItem(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM food_inventory WHERE id = ?`, item.ID)

	// Stale version: the conditional write must refuse.
	err := adapter.MarkCommitteeApproved(ctx, item.ID, item.Version+1, time.Now())
	if !errors.Is(err, port.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	if err := adapter.MarkCommitteeApproved(ctx, item.ID, item.Version, time.Now()); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	got, err := adapter.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.State() != domain.StatePendingPresident {
		t.Errorf("expected pending_president, got %s", got.State())
	}
	if got.Version != item.Version+1 {
		t.Errorf("expected version bump to %d, got %d", item.Version+1, got.Version)
	}

	// Replaying the same write with the old version must conflict.
	err = adapter.MarkCommitteeApproved(ctx, item.ID, item.Version, time.Now())
	if !errors.Is(err, port.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict on replay, got %v", err)
	}
}

func TestMarkRejected_FreezesItem(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	item := testItem()
	if err := adapter.CreateItem(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM food_inventory WHERE id = ?`, item.ID)

	if err := adapter.MarkRejected(ctx, item.ID, item.Version, time.Now()); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	got, _ := adapter.GetItem(ctx, item.ID)
	if got.State() != domain.StateRejected {
		t.Fatalf("expected rejected, got %s", got.State())
	}

	// The row is no longer active, so any further conditional write
	// matches nothing.
	err := adapter.MarkCommitteeApproved(ctx, item.ID, got.Version, time.Now())
	if !errors.Is(err, port.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict on rejected item, got %v", err)
	}
}

func TestMenuSlotsRoundTrip(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	id := "test-slot-" + uuid.NewString()
	_, err := db.ExecContext(ctx, `
		INSERT INTO menu_schedule (id, day_of_week, meal_type, menu_description, start_time, end_time, is_active)
		VALUES (?, 2, 'breakfast', 'Test porridge', '07:00', '09:30', TRUE)
		ON DUPLICATE KEY UPDATE menu_description = 'Test porridge'`, id)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM menu_schedule WHERE id = ?`, id)

	slots, err := adapter.ListMenuSlotsForDay(ctx, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	found := false
	for _, slot := range slots {
		if slot.MealType == domain.MealBreakfast && slot.StartTime == "07:00" {
			found = true
		}
	}
	if !found {
		t.Error("expected seeded breakfast slot for Tuesday")
	}
}

func TestInsertAuditEntry(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	entry := domain.AuditEntry{
		ID:        "test-audit-" + uuid.NewString(),
		ItemID:    "test-item",
		Action:    domain.ActionCommitteeApproved,
		Actor:     "test-committee",
		CreatedAt: time.Now().Truncate(time.Second),
	}
	if err := adapter.InsertAuditEntry(ctx, entry); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM inventory_audit WHERE id = ?`, entry.ID)

	var action string
	err := db.QueryRowContext(ctx, `SELECT action FROM inventory_audit WHERE id = ?`, entry.ID).Scan(&action)
	if err != nil {
		t.Fatalf("readback failed: %v", err)
	}
	if action != string(domain.ActionCommitteeApproved) {
		t.Errorf("expected committee_approved, got %s", action)
	}
}
