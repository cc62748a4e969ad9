package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/cafeteria-service/internal/core/domain"
	"github.com/rl1809/cafeteria-service/internal/port"
)

// MySQL error 1054: unknown column. Surfaced distinctly so the caller can
// tell an incomplete schema apart from an ordinary store failure.
const mysqlErrUnknownColumn = 1054

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func wrapStoreErr(op string, err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlErrUnknownColumn {
		return fmt.Errorf("%s: %w", op, port.ErrSchemaMismatch)
	}
	return fmt.Errorf("%s: %w", op, err)
}

const itemColumns = `id, food_item, category, unit, supplier, storage_condition,
	registered_by, current_stock, min_stock_level, consumption_per_student,
	status, approved_by_committee, approved_by_president, version,
	created_at, updated_at, committee_approved_at, president_approved_at`

func (m *MySQLAdapter) CreateItem(ctx context.Context, item domain.InventoryItem) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO food_inventory (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.FoodItem, item.Category, item.Unit,
		nullString(item.Supplier), nullString(item.StorageCondition),
		item.RegisteredBy, item.CurrentStock, item.MinStockLevel,
		item.ConsumptionPerStudent, item.Status,
		item.ApprovedByCommittee, item.ApprovedByPresident, item.Version,
		item.CreatedAt, item.UpdatedAt,
		nullTime(item.CommitteeApprovedAt), nullTime(item.PresidentApprovedAt),
	)
	if err != nil {
		return wrapStoreErr("insert item", err)
	}
	return nil
}

func (m *MySQLAdapter) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM food_inventory WHERE id = ?`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr("query item", err)
	}
	return item, nil
}

func (m *MySQLAdapter) ListPendingCommittee(ctx context.Context) ([]domain.InventoryItem, error) {
	return m.listItems(ctx, `
		SELECT `+itemColumns+` FROM food_inventory
		WHERE status = 'active' AND approved_by_committee = FALSE
		ORDER BY created_at DESC`)
}

func (m *MySQLAdapter) ListPendingPresident(ctx context.Context) ([]domain.InventoryItem, error) {
	return m.listItems(ctx, `
		SELECT `+itemColumns+` FROM food_inventory
		WHERE status = 'active' AND approved_by_committee = TRUE
			AND approved_by_president = FALSE
		ORDER BY created_at DESC`)
}

func (m *MySQLAdapter) ListFullyApproved(ctx context.Context) ([]domain.InventoryItem, error) {
	return m.listItems(ctx, `
		SELECT `+itemColumns+` FROM food_inventory
		WHERE status = 'active' AND approved_by_committee = TRUE
			AND approved_by_president = TRUE
		ORDER BY food_item ASC`)
}

func (m *MySQLAdapter) listItems(ctx context.Context, query string) ([]domain.InventoryItem, error) {
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapStoreErr("query items", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, wrapStoreErr("scan item", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("iterate items", err)
	}
	return items, nil
}

func (m *MySQLAdapter) MarkCommitteeApproved(ctx context.Context, id string, version int, at time.Time) error {
	return m.conditionalUpdate(ctx, "committee approve", `
		UPDATE food_inventory
		SET approved_by_committee = TRUE, committee_approved_at = ?,
			updated_at = ?, version = version + 1
		WHERE id = ? AND version = ? AND status = 'active'
			AND approved_by_committee = FALSE`,
		at, at, id, version)
}

func (m *MySQLAdapter) MarkPresidentApproved(ctx context.Context, id string, version int, at time.Time) error {
	return m.conditionalUpdate(ctx, "president approve", `
		UPDATE food_inventory
		SET approved_by_president = TRUE, president_approved_at = ?,
			updated_at = ?, version = version + 1
		WHERE id = ? AND version = ? AND status = 'active'
			AND approved_by_committee = TRUE AND approved_by_president = FALSE`,
		at, at, id, version)
}

func (m *MySQLAdapter) MarkRejected(ctx context.Context, id string, version int, at time.Time) error {
	return m.conditionalUpdate(ctx, "reject", `
		UPDATE food_inventory
		SET status = 'rejected', updated_at = ?, version = version + 1
		WHERE id = ? AND version = ? AND status = 'active'`,
		at, id, version)
}

// conditionalUpdate applies a version-checked write; zero matched rows
// means a concurrent transition won the race.
func (m *MySQLAdapter) conditionalUpdate(ctx context.Context, op, query string, args ...any) error {
	result, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapStoreErr(op, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return port.ErrVersionConflict
	}
	return nil
}

func (m *MySQLAdapter) CountActiveStudents(ctx context.Context) (int, error) {
	var count int
	err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, wrapStoreErr("count students", err)
	}
	return count, nil
}

func (m *MySQLAdapter) ListMenuSlots(ctx context.Context) ([]domain.MenuSlot, error) {
	return m.listSlots(ctx, `
		SELECT id, day_of_week, meal_type, menu_description, start_time, end_time, is_active
		FROM menu_schedule WHERE is_active = TRUE
		ORDER BY day_of_week, meal_type`)
}

func (m *MySQLAdapter) ListMenuSlotsForDay(ctx context.Context, dayOfWeek int) ([]domain.MenuSlot, error) {
	return m.listSlots(ctx, `
		SELECT id, day_of_week, meal_type, menu_description, start_time, end_time, is_active
		FROM menu_schedule WHERE is_active = TRUE AND day_of_week = ?
		ORDER BY meal_type`, dayOfWeek)
}

func (m *MySQLAdapter) listSlots(ctx context.Context, query string, args ...any) ([]domain.MenuSlot, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreErr("query menu", err)
	}
	defer rows.Close()

	var slots []domain.MenuSlot
	for rows.Next() {
		var slot domain.MenuSlot
		var desc, start, end sql.NullString
		if err := rows.Scan(&slot.ID, &slot.DayOfWeek, &slot.MealType,
			&desc, &start, &end, &slot.IsActive); err != nil {
			return nil, wrapStoreErr("scan menu slot", err)
		}
		slot.MenuDescription = desc.String
		slot.StartTime = start.String
		slot.EndTime = end.String
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("iterate menu", err)
	}
	return slots, nil
}

func (m *MySQLAdapter) InsertAuditEntry(ctx context.Context, entry domain.AuditEntry) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory_audit (id, item_id, action, actor, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.ItemID, entry.Action, entry.Actor, entry.CreatedAt)
	if err != nil {
		return wrapStoreErr("insert audit entry", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	var supplier, storage sql.NullString
	var committeeAt, presidentAt sql.NullTime

	err := row.Scan(&item.ID, &item.FoodItem, &item.Category, &item.Unit,
		&supplier, &storage, &item.RegisteredBy,
		&item.CurrentStock, &item.MinStockLevel, &item.ConsumptionPerStudent,
		&item.Status, &item.ApprovedByCommittee, &item.ApprovedByPresident,
		&item.Version, &item.CreatedAt, &item.UpdatedAt,
		&committeeAt, &presidentAt)
	if err != nil {
		return nil, err
	}

	item.Supplier = supplier.String
	item.StorageCondition = storage.String
	if committeeAt.Valid {
		t := committeeAt.Time
		item.CommitteeApprovedAt = &t
	}
	if presidentAt.Valid {
		t := presidentAt.Time
		item.PresidentApprovedAt = &t
	}
	return &item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
