package kernel

import (
	"context"
	"strconv"
	"strings"

	"github.com/roach88/lodestone/internal/entity"
	"github.com/roach88/lodestone/internal/store"
)

// RoutineDraft is the caller's input to CreateRoutine. TaskIDs are weak
// references; nothing checks them against the tasks collection, and
// removing a task never edits routines.
type RoutineDraft struct {
	Name        string
	Description string
	TimeOfDay   entity.TimeOfDay
	TaskIDs     []string
	Active      bool
}

// CreateRoutine assigns identity and timestamps, persists and audits.
func (k *Kernel) CreateRoutine(ctx context.Context, draft RoutineDraft) (entity.Routine, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return entity.Routine{}, validationErr("routine name must not be empty")
	}
	if draft.TimeOfDay == "" {
		draft.TimeOfDay = entity.TimeAnytime
	}
	if !draft.TimeOfDay.Valid() {
		return entity.Routine{}, validationErr("unknown time of day " + strconv.Quote(string(draft.TimeOfDay)))
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.clock.Now()
	routine := entity.Routine{
		Meta: entity.Meta{
			SchemaVersion: entity.SchemaVersion,
			EntityType:    entity.EntityRoutine,
			ID:            k.newID(),
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		Name:        draft.Name,
		Description: draft.Description,
		TimeOfDay:   draft.TimeOfDay,
		TaskIDs:     draft.TaskIDs,
		Active:      draft.Active,
	}
	if err := entity.StampRoutine(&routine); err != nil {
		return entity.Routine{}, storageErr("stamp routine", err)
	}

	err := k.mutate(ctx, func(tx *store.Tx) error {
		if err := tx.PutRoutine(ctx, routine); err != nil {
			return storageErr("persist routine", err)
		}
		return k.audit(ctx, tx, entity.ActionRoutineCreated, entity.EntityRoutine, routine.Meta.ID, map[string]string{"name": routine.Name})
	})
	if err != nil {
		return entity.Routine{}, err
	}
	k.apply(Event{Kind: evRoutinePut, Routine: &routine})
	return routine, nil
}

// UpdateRoutine replaces a routine wholesale by id, mirroring UpdateTask.
func (k *Kernel) UpdateRoutine(ctx context.Context, routine entity.Routine) (entity.Routine, error) {
	if strings.TrimSpace(routine.Name) == "" {
		return entity.Routine{}, validationErr("routine name must not be empty")
	}
	if !routine.TimeOfDay.Valid() {
		return entity.Routine{}, validationErr("unknown time of day " + strconv.Quote(string(routine.TimeOfDay)))
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	stored, ok := k.state.Routines[routine.Meta.ID]
	if !ok {
		return entity.Routine{}, notFoundErr("routine", routine.Meta.ID)
	}

	now := k.clock.Now()
	routine.Meta.SchemaVersion = entity.SchemaVersion
	routine.Meta.EntityType = entity.EntityRoutine
	routine.Meta.CreatedAt = stored.Meta.CreatedAt
	routine.Meta.UpdatedAt = now
	if err := entity.StampRoutine(&routine); err != nil {
		return entity.Routine{}, storageErr("stamp routine", err)
	}

	err := k.mutate(ctx, func(tx *store.Tx) error {
		if err := tx.PutRoutine(ctx, routine); err != nil {
			return storageErr("persist routine", err)
		}
		return k.audit(ctx, tx, entity.ActionRoutineUpdated, entity.EntityRoutine, routine.Meta.ID, map[string]string{"name": routine.Name})
	})
	if err != nil {
		return entity.Routine{}, err
	}
	k.apply(Event{Kind: evRoutinePut, Routine: &routine})
	return routine, nil
}

// RemoveRoutine deletes a routine by id. Tasks it referenced are untouched.
func (k *Kernel) RemoveRoutine(ctx context.Context, id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	routine, ok := k.state.Routines[id]
	if !ok {
		return notFoundErr("routine", id)
	}
	err := k.mutate(ctx, func(tx *store.Tx) error {
		if err := tx.DeleteRoutine(ctx, id); err != nil {
			return storageErr("delete routine", err)
		}
		return k.audit(ctx, tx, entity.ActionRoutineDeleted, entity.EntityRoutine, id, map[string]string{"name": routine.Name})
	})
	if err != nil {
		return err
	}
	k.apply(Event{Kind: evRoutineRemoved, ID: id})
	return nil
}
