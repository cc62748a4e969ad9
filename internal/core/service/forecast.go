package service

import (
	"math"

	"github.com/rl1809/cafeteria-service/internal/core/domain"
)

// The cafeteria serves three meals a day and every item draws the same
// per-student rate at each of them.
const (
	mealsPerDay  = 3
	mealsPerWeek = 21
)

// criticalStockRatio marks the fraction of the reorder threshold below
// which an item is critical regardless of its day projection.
const criticalStockRatio = 0.3

// PredictedDays returns whole days of supply left at the current
// consumption rate. Zero consumption or an empty roster yields 0 (no
// forecast available). Floor, not round: a partial day never counts as
// a full one.
func PredictedDays(item domain.InventoryItem, studentCount int) int {
	if item.ConsumptionPerStudent <= 0 || studentCount == 0 {
		return 0
	}
	daily := item.ConsumptionPerStudent * float64(studentCount) * mealsPerDay
	if daily <= 0 {
		return 0
	}
	return int(math.Floor(item.CurrentStock / daily))
}

// WeeklyRequirement projects the quantity needed to cover seven days.
func WeeklyRequirement(item domain.InventoryItem, studentCount int) float64 {
	if item.ConsumptionPerStudent <= 0 || studentCount == 0 {
		return 0
	}
	return item.ConsumptionPerStudent * float64(studentCount) * mealsPerWeek
}

// ClassifyStock grades an item's supply. The absolute-stock checks take
// precedence over the day projection: an item sitting under its reorder
// threshold is flagged even when the derived day count looks healthy.
func ClassifyStock(item domain.InventoryItem, predictedDays int) domain.StockStatus {
	switch {
	case item.CurrentStock <= item.MinStockLevel*criticalStockRatio:
		return domain.StockCritical
	case item.CurrentStock <= item.MinStockLevel:
		return domain.StockLow
	case predictedDays <= 7:
		return domain.StockWarning
	default:
		return domain.StockGood
	}
}

// Project composes the forecast functions into a StockProjection.
func Project(item domain.InventoryItem, studentCount int) domain.StockProjection {
	days := PredictedDays(item, studentCount)
	return domain.StockProjection{
		ItemID:                item.ID,
		FoodItem:              item.FoodItem,
		Category:              item.Category,
		Unit:                  item.Unit,
		CurrentStock:          item.CurrentStock,
		MinStockLevel:         item.MinStockLevel,
		ConsumptionPerStudent: item.ConsumptionPerStudent,
		PredictedDays:         days,
		WeeklyRequirement:     WeeklyRequirement(item, studentCount),
		StockStatus:           ClassifyStock(item, days),
	}
}
