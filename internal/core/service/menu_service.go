package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rl1809/cafeteria-service/internal/core/domain"
	"github.com/rl1809/cafeteria-service/internal/port"
)

type MenuService struct {
	db port.MenuRepository
}

func NewMenuService(db port.MenuRepository) *MenuService {
	return &MenuService{db: db}
}

// WeeklySchedule returns the full active schedule.
func (s *MenuService) WeeklySchedule(ctx context.Context) ([]domain.MenuSlot, error) {
	return s.db.ListMenuSlots(ctx)
}

// TodayStatuses fetches today's slots and classifies each meal against now.
func (s *MenuService) TodayStatuses(ctx context.Context, now time.Time) ([]domain.MenuSlot, map[domain.MealType]domain.MealWindowStatus, error) {
	slots, err := s.db.ListMenuSlotsForDay(ctx, int(now.Weekday()))
	if err != nil {
		return nil, nil, fmt.Errorf("list menu slots: %w", err)
	}
	return slots, EvaluateMealWindows(now, slots), nil
}
