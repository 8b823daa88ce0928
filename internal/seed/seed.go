// Package seed populates a fresh database with a small starter graph. It
// runs everything through kernel operations so seeding is audited exactly
// like user actions, and it never touches a database that already has
// tasks.
package seed

import (
	"context"
	"fmt"

	"github.com/roach88/lodestone/internal/entity"
	"github.com/roach88/lodestone/internal/kernel"
)

// Apply seeds the starter graph. Returns true when seeding ran, false when
// the database already had tasks and was left alone.
func Apply(ctx context.Context, k *kernel.Kernel) (bool, error) {
	initialized, err := k.IsInitialized(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if initialized {
		return false, nil
	}

	welcome, err := k.CreateTask(ctx, kernel.TaskDraft{
		Title:       "Welcome to lodestone",
		Description: "Run 'lodestone list' to see your tasks. This one is safe to delete.",
		Energy:      entity.EnergyLow,
		Importance:  entity.ImportanceOptional,
		MicroSteps: []string{
			"Create a task with 'lodestone add'",
			"Complete it with 'lodestone complete'",
			"Export a backup with 'lodestone export'",
		},
		Tags: []string{"starter"},
	})
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	firstOwn, err := k.CreateTask(ctx, kernel.TaskDraft{
		Title:      "Add your first real task",
		Energy:     entity.EnergyLow,
		Importance: entity.ImportanceImportant,
		Tags:       []string{"starter"},
	})
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	if _, err := k.AddEdge(ctx, welcome.Meta.ID, firstOwn.Meta.ID, entity.EdgeScheduledAfter); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	if _, err := k.CreateRoutine(ctx, kernel.RoutineDraft{
		Name:        "Daily review",
		Description: "Skim the list once a day and defer what can wait.",
		TimeOfDay:   entity.TimeMorning,
		TaskIDs:     []string{welcome.Meta.ID},
		Active:      true,
	}); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	return true, nil
}
