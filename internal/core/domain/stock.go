package domain

type StockStatus string

const (
	StockCritical StockStatus = "critical"
	StockLow      StockStatus = "low"
	StockWarning  StockStatus = "warning"
	StockGood     StockStatus = "good"
)

// StockProjection annotates a fully approved item with depletion
// forecasts. It is computed on every read and never persisted.
type StockProjection struct {
	ItemID                string
	FoodItem              string
	Category              string
	Unit                  string
	CurrentStock          float64
	MinStockLevel         float64
	ConsumptionPerStudent float64
	PredictedDays         int
	WeeklyRequirement     float64
	StockStatus           StockStatus
}
