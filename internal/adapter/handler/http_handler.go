package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rl1809/cafeteria-service/internal/core/domain"
	"github.com/rl1809/cafeteria-service/internal/core/service"
	"github.com/rl1809/cafeteria-service/internal/port"
)

type HTTPHandler struct {
	inventory *service.InventoryService
	menu      *service.MenuService
	now       func() time.Time
}

func NewHTTPHandler(inventory *service.InventoryService, menu *service.MenuService) *HTTPHandler {
	return &HTTPHandler{
		inventory: inventory,
		menu:      menu,
		now:       time.Now,
	}
}

// Register wires every route onto the mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/api/inventory", h.RegisterItem)
	mux.HandleFunc("/api/inventory/pending-committee", h.PendingCommittee)
	mux.HandleFunc("/api/inventory/pending-president", h.PendingPresident)
	mux.HandleFunc("/api/stock", h.StockAnalysis)
	mux.HandleFunc("/api/committee/approve", h.transition(h.inventory.CommitteeApprove))
	mux.HandleFunc("/api/committee/reject", h.transition(h.inventory.CommitteeReject))
	mux.HandleFunc("/api/president/approve", h.transition(h.inventory.PresidentApprove))
	mux.HandleFunc("/api/president/reject", h.transition(h.inventory.PresidentReject))
	mux.HandleFunc("/api/menu", h.WeeklyMenu)
	mux.HandleFunc("/api/menu/today", h.TodayMenu)
}

type RegisterItemRequest struct {
	FoodItem              string  `json:"food_item"`
	Category              string  `json:"category"`
	Unit                  string  `json:"unit"`
	Supplier              string  `json:"supplier"`
	StorageCondition      string  `json:"storage_condition"`
	RegisteredBy          string  `json:"registered_by"`
	CurrentStock          float64 `json:"current_stock"`
	MinStockLevel         float64 `json:"min_stock_level"`
	ConsumptionPerStudent float64 `json:"consumption_per_student"`
}

type TransitionRequest struct {
	ItemID string `json:"item_id"`
	Actor  string `json:"actor"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type itemJSON struct {
	ID                    string     `json:"id"`
	FoodItem              string     `json:"food_item"`
	Category              string     `json:"category"`
	Unit                  string     `json:"unit"`
	Supplier              string     `json:"supplier,omitempty"`
	StorageCondition      string     `json:"storage_condition,omitempty"`
	RegisteredBy          string     `json:"registered_by"`
	CurrentStock          float64    `json:"current_stock"`
	MinStockLevel         float64    `json:"min_stock_level"`
	ConsumptionPerStudent float64    `json:"consumption_per_student"`
	Status                string     `json:"status"`
	WorkflowState         string     `json:"workflow_state"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	CommitteeApprovedAt   *time.Time `json:"committee_approved_at,omitempty"`
	PresidentApprovedAt   *time.Time `json:"president_approved_at,omitempty"`
}

func toItemJSON(item domain.InventoryItem) itemJSON {
	return itemJSON{
		ID:                    item.ID,
		FoodItem:              item.FoodItem,
		Category:              item.Category,
		Unit:                  item.Unit,
		Supplier:              item.Supplier,
		StorageCondition:      item.StorageCondition,
		RegisteredBy:          item.RegisteredBy,
		CurrentStock:          item.CurrentStock,
		MinStockLevel:         item.MinStockLevel,
		ConsumptionPerStudent: item.ConsumptionPerStudent,
		Status:                string(item.Status),
		WorkflowState:         string(item.State()),
		CreatedAt:             item.CreatedAt,
		UpdatedAt:             item.UpdatedAt,
		CommitteeApprovedAt:   item.CommitteeApprovedAt,
		PresidentApprovedAt:   item.PresidentApprovedAt,
	}
}

func (h *HTTPHandler) RegisterItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	item, err := h.inventory.Register(r.Context(), service.RegisterInput{
		FoodItem:              req.FoodItem,
		Category:              req.Category,
		Unit:                  req.Unit,
		Supplier:              req.Supplier,
		StorageCondition:      req.StorageCondition,
		RegisteredBy:          req.RegisteredBy,
		CurrentStock:          req.CurrentStock,
		MinStockLevel:         req.MinStockLevel,
		ConsumptionPerStudent: req.ConsumptionPerStudent,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toItemJSON(*item))
}

func (h *HTTPHandler) transition(apply func(ctx context.Context, itemID, actor string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req TransitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, StatusResponse{
				Success: false,
				Message: "invalid request body",
			})
			return
		}
		if req.ItemID == "" {
			writeJSON(w, http.StatusBadRequest, StatusResponse{
				Success: false,
				Message: "missing item_id",
			})
			return
		}

		if err := apply(r.Context(), req.ItemID, req.Actor); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, StatusResponse{
			Success: true,
			Message: "transition applied",
		})
	}
}

func (h *HTTPHandler) PendingCommittee(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, h.inventory.PendingCommittee)
}

func (h *HTTPHandler) PendingPresident(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, h.inventory.PendingPresident)
}

func (h *HTTPHandler) listItems(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]domain.InventoryItem, error)) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := list(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]itemJSON, 0, len(items))
	for _, item := range items {
		out = append(out, toItemJSON(item))
	}
	writeJSON(w, http.StatusOK, out)
}

type projectionJSON struct {
	ItemID                string  `json:"item_id"`
	FoodItem              string  `json:"food_item"`
	Category              string  `json:"category"`
	Unit                  string  `json:"unit"`
	CurrentStock          float64 `json:"current_stock"`
	MinStockLevel         float64 `json:"min_stock_level"`
	ConsumptionPerStudent float64 `json:"consumption_per_student"`
	PredictedDays         int     `json:"predicted_days"`
	WeeklyRequirement     float64 `json:"weekly_requirement"`
	StockStatus           string  `json:"stock_status"`
}

type stockReportJSON struct {
	StudentCount  int              `json:"student_count"`
	CriticalCount int              `json:"critical_count"`
	LowCount      int              `json:"low_count"`
	Items         []projectionJSON `json:"items"`
}

func (h *HTTPHandler) StockAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := h.inventory.StockAnalysis(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := stockReportJSON{
		StudentCount:  report.StudentCount,
		CriticalCount: report.CriticalCount,
		LowCount:      report.LowCount,
		Items:         make([]projectionJSON, 0, len(report.Projections)),
	}
	for _, p := range report.Projections {
		out.Items = append(out.Items, projectionJSON{
			ItemID:                p.ItemID,
			FoodItem:              p.FoodItem,
			Category:              p.Category,
			Unit:                  p.Unit,
			CurrentStock:          p.CurrentStock,
			MinStockLevel:         p.MinStockLevel,
			ConsumptionPerStudent: p.ConsumptionPerStudent,
			PredictedDays:         p.PredictedDays,
			WeeklyRequirement:     p.WeeklyRequirement,
			StockStatus:           string(p.StockStatus),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type menuSlotJSON struct {
	DayOfWeek       int    `json:"day_of_week"`
	MealType        string `json:"meal_type"`
	MenuDescription string `json:"menu_description"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	WindowStatus    string `json:"window_status,omitempty"`
}

func (h *HTTPHandler) WeeklyMenu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	slots, err := h.menu.WeeklySchedule(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]menuSlotJSON, 0, len(slots))
	for _, slot := range slots {
		out = append(out, menuSlotJSON{
			DayOfWeek:       slot.DayOfWeek,
			MealType:        string(slot.MealType),
			MenuDescription: slot.MenuDescription,
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) TodayMenu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	slots, statuses, err := h.menu.TodayStatuses(r.Context(), h.now())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]menuSlotJSON, 0, len(slots))
	for _, slot := range slots {
		out = append(out, menuSlotJSON{
			DayOfWeek:       slot.DayOfWeek,
			MealType:        string(slot.MealType),
			MenuDescription: slot.MenuDescription,
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			WindowStatus:    string(statuses[slot.MealType]),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		message = "item not found"
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrPreconditionViolation):
		status = http.StatusUnprocessableEntity
		message = "transition not permitted from current state"
	case errors.Is(err, service.ErrDuplicateRequest):
		status = http.StatusConflict
		message = "duplicate request"
	case errors.Is(err, port.ErrVersionConflict):
		status = http.StatusConflict
		message = "item changed concurrently, reload and retry"
	case errors.Is(err, port.ErrSchemaMismatch):
		message = "database schema out of date, contact administrator"
	}

	writeJSON(w, status, StatusResponse{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
