package kernel

import (
	"context"
	"strconv"
	"strings"

	"github.com/roach88/lodestone/internal/entity"
	"github.com/roach88/lodestone/internal/store"
)

// TaskDraft is the caller's input to CreateTask: a task without identity
// or metadata. MicroSteps holds step texts; the kernel assigns ids.
type TaskDraft struct {
	Title         string
	Description   string
	Energy        entity.EnergyLevel
	Importance    entity.Importance
	MicroSteps    []string
	DueDate       string
	ScheduledDate string
	Tags          []string
	Recurring     *entity.Recurrence
}

// CreateTask assigns identity and timestamps to the draft, forces status
// to pending, persists and audits. Returns the fully-formed task.
//
// A blank title is rejected with a validation error - callers are expected
// to validate first, but the kernel never silently accepts one.
func (k *Kernel) CreateTask(ctx context.Context, draft TaskDraft) (entity.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return entity.Task{}, validationErr("task title must not be empty")
	}
	if draft.Energy == "" {
		draft.Energy = entity.EnergyMedium
	}
	if draft.Importance == "" {
		draft.Importance = entity.ImportanceOptional
	}
	if !draft.Energy.Valid() {
		return entity.Task{}, validationErr("unknown energy level " + strconv.Quote(string(draft.Energy)))
	}
	if !draft.Importance.Valid() {
		return entity.Task{}, validationErr("unknown importance " + strconv.Quote(string(draft.Importance)))
	}
	if draft.Recurring != nil && !draft.Recurring.Frequency.Valid() {
		return entity.Task{}, validationErr("unknown recurrence frequency " + strconv.Quote(string(draft.Recurring.Frequency)))
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.clock.Now()
	id := k.newID()

	steps := make([]entity.MicroStep, 0, len(draft.MicroSteps))
	for _, text := range draft.MicroSteps {
		steps = append(steps, entity.MicroStep{ID: k.newID(), Text: text})
	}

	task := entity.Task{
		Meta: entity.Meta{
			SchemaVersion: entity.SchemaVersion,
			EntityType:    entity.EntityTask,
			ID:            id,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		Title:         draft.Title,
		Description:   draft.Description,
		Status:        entity.StatusPending,
		Energy:        draft.Energy,
		Importance:    draft.Importance,
		MicroSteps:    steps,
		DueDate:       draft.DueDate,
		ScheduledDate: draft.ScheduledDate,
		Tags:          draft.Tags,
		Recurring:     draft.Recurring,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := entity.StampTask(&task); err != nil {
		return entity.Task{}, storageErr("stamp task", err)
	}

	err := k.mutate(ctx, func(tx *store.Tx) error {
		if err := tx.PutTask(ctx, task); err != nil {
			return storageErr("persist task", err)
		}
		return k.audit(ctx, tx, entity.ActionTaskCreated, entity.EntityTask, id, map[string]string{"title": task.Title})
	})
	if err != nil {
		return entity.Task{}, err
	}
	k.apply(Event{Kind: evTaskPut, Task: &task})
	return task, nil
}

// UpdateTask replaces a task wholesale by id: the caller supplies the
// complete desired entity, not a partial patch. CreatedAt is preserved
// from the stored copy; UpdatedAt and the content hash are recomputed.
func (k *Kernel) UpdateTask(ctx context.Context, task entity.Task) (entity.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return entity.Task{}, validationErr("task title must not be empty")
	}
	if !task.Status.Valid() {
		return entity.Task{}, validationErr("unknown status " + strconv.Quote(string(task.Status)))
	}
	if !task.Energy.Valid() {
		return entity.Task{}, validationErr("unknown energy level " + strconv.Quote(string(task.Energy)))
	}
	if !task.Importance.Valid() {
		return entity.Task{}, validationErr("unknown importance " + strconv.Quote(string(task.Importance)))
	}
	if task.Recurring != nil && !task.Recurring.Frequency.Valid() {
		return entity.Task{}, validationErr("unknown recurrence frequency " + strconv.Quote(string(task.Recurring.Frequency)))
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	stored, ok := k.state.Tasks[task.Meta.ID]
	if !ok {
		return entity.Task{}, notFoundErr("task", task.Meta.ID)
	}

	now := k.clock.Now()
	task.Meta.SchemaVersion = entity.SchemaVersion
	task.Meta.EntityType = entity.EntityTask
	task.Meta.CreatedAt = stored.Meta.CreatedAt
	task.CreatedAt = stored.CreatedAt
	task.Meta.UpdatedAt = now
	task.UpdatedAt = now
	if err := entity.StampTask(&task); err != nil {
		return entity.Task{}, storageErr("stamp task", err)
	}

	err := k.mutate(ctx, func(tx *store.Tx) error {
		if err := tx.PutTask(ctx, task); err != nil {
			return storageErr("persist task", err)
		}
		return k.audit(ctx, tx, entity.ActionTaskUpdated, entity.EntityTask, task.Meta.ID, map[string]string{"title": task.Title})
	})
	if err != nil {
		return entity.Task{}, err
	}
	k.apply(Event{Kind: evTaskPut, Task: &task})
	return task, nil
}

// CompleteTask marks a task completed: status=completed, completedAt=now,
// and every micro step force-marked done regardless of prior state.
func (k *Kernel) CompleteTask(ctx context.Context, id string) (entity.Task, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	task, ok := k.state.Tasks[id]
	if !ok {
		return entity.Task{}, notFoundErr("task", id)
	}
	task = cloneTask(task)

	now := k.clock.Now()
	task.Status = entity.StatusCompleted
	task.CompletedAt = &now
	for i := range task.MicroSteps {
		task.MicroSteps[i].Completed = true
	}
	task.Meta.UpdatedAt = now
	task.UpdatedAt = now
	if err := entity.StampTask(&task); err != nil {
		return entity.Task{}, storageErr("stamp task", err)
	}

	err := k.mutate(ctx, func(tx *store.Tx) error {
		if err := tx.PutTask(ctx, task); err != nil {
			return storageErr("persist task", err)
		}
		return k.audit(ctx, tx, entity.ActionTaskCompleted, entity.EntityTask, id, map[string]string{"title": task.Title})
	})
	if err != nil {
		return entity.Task{}, err
	}
	k.apply(Event{Kind: evTaskPut, Task: &task})
	return task, nil
}

// DeferTask pauses a task: status=deferred only. CompletedAt and micro
// steps are untouched. Completed tasks cannot be deferred; leaving
// completed requires a full UpdateTask replace.
func (k *Kernel) DeferTask(ctx context.Context, id string) (entity.Task, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	task, ok := k.state.Tasks[id]
	if !ok {
		return entity.Task{}, notFoundErr("task", id)
	}
	if task.Status == entity.StatusCompleted {
		return entity.Task{}, validationErr("completed task cannot be deferred")
	}
	task = cloneTask(task)

	now := k.clock.Now()
	task.Status = entity.StatusDeferred
	task.Meta.UpdatedAt = now
	task.UpdatedAt = now
	if err := entity.StampTask(&task); err != nil {
		return entity.Task{}, storageErr("stamp task", err)
	}

	err := k.mutate(ctx, func(tx *store.Tx) error {
		if err := tx.PutTask(ctx, task); err != nil {
			return storageErr("persist task", err)
		}
		return k.audit(ctx, tx, entity.ActionTaskDeferred, entity.EntityTask, id, map[string]string{"title": task.Title})
	})
	if err != nil {
		return entity.Task{}, err
	}
	k.apply(Event{Kind: evTaskPut, Task: &task})
	return task, nil
}

// RemoveTask deletes a task and cascades deletion of every edge whose
// source or target is the task. The whole operation emits exactly ONE
// audit entry (task_deleted); edge removal is a side effect, recorded only
// as a count in the entry's details.
func (k *Kernel) RemoveTask(ctx context.Context, id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	task, ok := k.state.Tasks[id]
	if !ok {
		return notFoundErr("task", id)
	}

	err := k.mutate(ctx, func(tx *store.Tx) error {
		edgesRemoved, err := tx.DeleteEdgesTouching(ctx, id)
		if err != nil {
			return storageErr("cascade edges", err)
		}
		if err := tx.DeleteTask(ctx, id); err != nil {
			return storageErr("delete task", err)
		}
		details := map[string]string{
			"title":        task.Title,
			"edgesRemoved": strconv.FormatInt(edgesRemoved, 10),
		}
		return k.audit(ctx, tx, entity.ActionTaskDeleted, entity.EntityTask, id, details)
	})
	if err != nil {
		return err
	}
	k.apply(Event{Kind: evTaskRemoved, ID: id})
	return nil
}
