package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finbook/internal/core"
	"finbook/internal/planner"
	"finbook/internal/store"
)

// GoalService turns free-text goals into planned goals with steps.
// Classification happens once at creation; the stored plan never changes
// even if the archetype table does.
type GoalService struct {
	store store.GoalStore
	now   func() time.Time
}

func NewGoalService(s store.GoalStore) *GoalService {
	return &GoalService{store: s, now: time.Now}
}

func (s *GoalService) List(ctx context.Context) ([]core.Goal, error) {
	return s.store.ListGoals(ctx)
}

func (s *GoalService) Get(ctx context.Context, id string) (core.Goal, error) {
	return s.store.GetGoal(ctx, id)
}

func (s *GoalService) Create(ctx context.Context, text string) (core.Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return core.Goal{}, core.ErrEmptyText
	}

	plan := planner.Classify(text)
	goal := core.Goal{
		Text:      text,
		Steps:     plan.Steps,
		Timeframe: plan.Timeframe,
		CreatedAt: core.Date{Time: s.now()},
	}

	id, err := s.store.AddGoal(ctx, goal)
	if err != nil {
		return core.Goal{}, fmt.Errorf("add goal: %w", err)
	}
	goal.ID = id
	return goal, nil
}

func (s *GoalService) Complete(ctx context.Context, id string) (core.Goal, error) {
	if err := s.store.CompleteGoal(ctx, id, core.Date{Time: s.now()}); err != nil {
		return core.Goal{}, err
	}
	return s.store.GetGoal(ctx, id)
}

func (s *GoalService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteGoal(ctx, id)
}
