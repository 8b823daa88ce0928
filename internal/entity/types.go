package entity

import "time"

// SchemaVersion is stamped into every entity's metadata block.
// Bump only with a migration for previously persisted entities.
const SchemaVersion = 1

// EntityType identifies the kind of record an audit entry or metadata
// block refers to.
type EntityType string

const (
	EntityTask         EntityType = "task"
	EntityRoutine      EntityType = "routine"
	EntityEdge         EntityType = "edge"
	EntityKernel       EntityType = "kernel"
	EntityAISuggestion EntityType = "ai_suggestion"
)

// TaskStatus is the lifecycle state of a task.
//
// pending, active and deferred are freely interchangeable. completed is
// only reachable via CompleteTask and only leavable via a full UpdateTask
// replace; there is no separate reopen operation.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusActive    TaskStatus = "active"
	StatusCompleted TaskStatus = "completed"
	StatusDeferred  TaskStatus = "deferred"
)

// Valid reports whether s is one of the defined task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusDeferred:
		return true
	}
	return false
}

// EnergyLevel is the effort a task demands.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// Valid reports whether e is one of the defined energy levels.
func (e EnergyLevel) Valid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}

// Importance ranks how much a task matters.
type Importance string

const (
	ImportanceImportant Importance = "important"
	ImportanceOptional  Importance = "optional"
	ImportanceSomeday   Importance = "someday"
)

// Valid reports whether i is one of the defined importance levels.
func (i Importance) Valid() bool {
	switch i {
	case ImportanceImportant, ImportanceOptional, ImportanceSomeday:
		return true
	}
	return false
}

// EdgeType is the relationship an edge asserts between two tasks.
type EdgeType string

const (
	EdgeDependsOn      EdgeType = "depends_on"
	EdgeBlocks         EdgeType = "blocks"
	EdgeRelatedTo      EdgeType = "related_to"
	EdgePartOf         EdgeType = "part_of"
	EdgeScheduledAfter EdgeType = "scheduled_after"
)

// Valid reports whether t is one of the defined edge types.
func (t EdgeType) Valid() bool {
	switch t {
	case EdgeDependsOn, EdgeBlocks, EdgeRelatedTo, EdgePartOf, EdgeScheduledAfter:
		return true
	}
	return false
}

// TimeOfDay is the slot a routine runs in.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeAnytime   TimeOfDay = "anytime"
)

// Valid reports whether t is one of the defined time-of-day slots.
func (t TimeOfDay) Valid() bool {
	switch t {
	case TimeMorning, TimeAfternoon, TimeEvening, TimeAnytime:
		return true
	}
	return false
}

// Frequency is how often a recurring task repeats.
type Frequency string

const (
	FreqDaily    Frequency = "daily"
	FreqWeekdays Frequency = "weekdays"
	FreqWeekly   Frequency = "weekly"
	FreqMonthly  Frequency = "monthly"
)

// Valid reports whether f is one of the defined frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FreqDaily, FreqWeekdays, FreqWeekly, FreqMonthly:
		return true
	}
	return false
}

// AuditAction is the kind of state change an audit entry records.
type AuditAction string

const (
	ActionTaskCreated    AuditAction = "task_created"
	ActionTaskUpdated    AuditAction = "task_updated"
	ActionTaskCompleted  AuditAction = "task_completed"
	ActionTaskDeferred   AuditAction = "task_deferred"
	ActionTaskDeleted    AuditAction = "task_deleted"
	ActionEdgeAdded      AuditAction = "edge_added"
	ActionEdgeRemoved    AuditAction = "edge_removed"
	ActionRoutineCreated AuditAction = "routine_created"
	ActionRoutineUpdated AuditAction = "routine_updated"
	ActionRoutineDeleted AuditAction = "routine_deleted"
	ActionExported       AuditAction = "kernel_exported"
	ActionImported       AuditAction = "kernel_imported"
)

// Meta is the metadata block attached to every Task and Routine.
//
// ContentHash always equals HashEntity of the enclosing entity with
// ContentHash itself cleared to the empty string during computation. An
// entity whose stored hash does not match a recomputed one is corrupted.
type Meta struct {
	SchemaVersion int        `json:"schemaVersion"`
	EntityType    EntityType `json:"entityType"`
	ID            string     `json:"id"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	ContentHash   string     `json:"contentHash"`
}

// MicroStep is one checklist item inside a task.
type MicroStep struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Recurrence describes how a recurring task repeats. Days holds weekday
// indices 0-6 (Sunday = 0) and only applies to weekly recurrence. Time, if
// set, is an HH:MM wall-clock string.
type Recurrence struct {
	Frequency Frequency `json:"frequency"`
	Days      []int     `json:"days,omitempty"`
	Time      string    `json:"time,omitempty"`
}

// Task is a node in the task graph.
//
// CreatedAt/UpdatedAt mirror the Meta block; the kernel keeps both in sync.
// DueDate and ScheduledDate are calendar dates in YYYY-MM-DD form, empty
// when unset. Tag order is irrelevant for identity but preserved for
// display.
type Task struct {
	Meta          Meta        `json:"_lds"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Status        TaskStatus  `json:"status"`
	Energy        EnergyLevel `json:"energy"`
	Importance    Importance  `json:"importance"`
	MicroSteps    []MicroStep `json:"microSteps"`
	DueDate       string      `json:"dueDate,omitempty"`
	ScheduledDate string      `json:"scheduledDate,omitempty"`
	Tags          []string    `json:"tags"`
	Recurring     *Recurrence `json:"recurring,omitempty"`
	CompletedAt   *time.Time  `json:"completedAt,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// ID returns the task's identity from its metadata block.
func (t *Task) ID() string { return t.Meta.ID }

// Edge is a typed directed relationship between two task ids.
//
// Edges are keyed by their own id, not by (source, target, type), so
// duplicate relationships between the same pair are possible and cycles are
// permitted. Consumers must tolerate both.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
}

// Routine is an ordered bundle of task ids run at a time of day.
// TaskIDs are weak references: removing a task does not edit routines.
type Routine struct {
	Meta        Meta      `json:"_lds"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TimeOfDay   TimeOfDay `json:"timeOfDay"`
	TaskIDs     []string  `json:"taskIds"`
	Active      bool      `json:"active"`
}

// ID returns the routine's identity from its metadata block.
func (r *Routine) ID() string { return r.Meta.ID }

// AuditEntry is one record in the append-only history. Entries are never
// updated or deleted. Details is a point-in-time snapshot fragment (a task
// title at mutation time, a cascade count) and is not kept consistent with
// later edits.
type AuditEntry struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Action     AuditAction       `json:"action"`
	EntityType EntityType        `json:"entityType"`
	EntityID   string            `json:"entityId"`
	Details    map[string]string `json:"details"`
}

// Preferences bounds for MaxVisibleTasks.
const (
	MinVisibleTasks = 3
	MaxVisibleTasks = 10
)

// Preferences is the singleton user settings record. AIAPIKey is stored
// locally only and never leaves the device except through an explicit
// export.
type Preferences struct {
	Theme                string `json:"theme"`
	DefaultView          string `json:"defaultView"`
	MaxVisibleTasks      int    `json:"maxVisibleTasks"`
	AudioEnabled         bool   `json:"audioEnabled"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	AIAPIKey             string `json:"aiApiKey,omitempty"`
	AIProvider           string `json:"aiProvider"`
}

// DefaultPreferences returns the settings used before the user changes
// anything.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:                "dark",
		DefaultView:          "graph",
		MaxVisibleTasks:      5,
		AudioEnabled:         false,
		NotificationsEnabled: false,
		AIProvider:           "none",
	}
}
