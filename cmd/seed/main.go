// Seeds a development database with a roster, a weekly menu, and a few
// inventory items in each workflow state so the dashboards have data.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/rl1809/cafeteria-service/internal/adapter/storage"
	"github.com/rl1809/cafeteria-service/internal/config"
	"github.com/rl1809/cafeteria-service/internal/core/domain"
)

const studentCount = 40

func main() {
	ctx := context.Background()
	cfg := config.Load()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	seedStudents(ctx, db)
	seedMenu(ctx, db)
	seedInventory(ctx, db)

	log.Println("seed complete")
}

func seedStudents(ctx context.Context, db *sql.DB) {
	now := time.Now()
	for i := 0; i < studentCount; i++ {
		_, err := db.ExecContext(ctx, `
			INSERT IGNORE INTO students (student_id, full_name, created_at)
			VALUES (?, ?, ?)`,
			fmt.Sprintf("seed-student-%03d", i), fmt.Sprintf("Student %03d", i), now)
		if err != nil {
			log.Fatalf("failed to seed students: %v", err)
		}
	}
	log.Printf("seeded %d students", studentCount)
}

func seedMenu(ctx context.Context, db *sql.DB) {
	windows := map[domain.MealType][2]string{
		domain.MealBreakfast: {"07:00", "09:30"},
		domain.MealLunch:     {"11:30", "14:00"},
		domain.MealDinner:    {"17:30", "20:00"},
	}

	for day := 0; day <= 6; day++ {
		for meal, window := range windows {
			_, err := db.ExecContext(ctx, `
				INSERT IGNORE INTO menu_schedule
					(id, day_of_week, meal_type, menu_description, start_time, end_time, is_active)
				VALUES (?, ?, ?, ?, ?, ?, TRUE)`,
				uuid.NewString(), day, meal,
				fmt.Sprintf("Standard %s menu", meal), window[0], window[1])
			if err != nil {
				log.Fatalf("failed to seed menu: %v", err)
			}
		}
	}
	log.Println("seeded weekly menu")
}

func seedInventory(ctx context.Context, db *sql.DB) {
	adapter := storage.NewMySQLAdapter(db)
	now := time.Now()

	items := []struct {
		name      string
		unit      string
		stock     float64
		min       float64
		perMeal   float64
		committee bool
		president bool
	}{
		{"Rice", "kg", 500, 100, 0.2, true, true},
		{"Cooking Oil", "l", 30, 40, 0.01, true, true},
		{"Lentils", "kg", 120, 60, 0.05, true, false},
		{"Flour", "kg", 200, 80, 0.1, false, false},
	}

	for _, it := range items {
		item := domain.InventoryItem{
			ID:                    uuid.NewString(),
			FoodItem:              it.name,
			Category:              "staple",
			Unit:                  it.unit,
			RegisteredBy:          "seed",
			CurrentStock:          it.stock,
			MinStockLevel:         it.min,
			ConsumptionPerStudent: it.perMeal,
			Status:                domain.ItemStatusActive,
			ApprovedByCommittee:   it.committee,
			ApprovedByPresident:   it.president,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if it.committee {
			item.CommitteeApprovedAt = &now
		}
		if it.president {
			item.PresidentApprovedAt = &now
		}
		if err := adapter.CreateItem(ctx, item); err != nil {
			log.Fatalf("failed to seed inventory: %v", err)
		}
	}
	log.Printf("seeded %d inventory items", len(items))
}
