package kernel

import "github.com/roach88/lodestone/internal/entity"

// State is the in-memory mirror of the persisted collections, consumed by
// presentation layers. The kernel holds the authoritative copy; views read
// snapshots and never write the store directly.
type State struct {
	Tasks       map[string]entity.Task
	Edges       map[string]entity.Edge
	Routines    map[string]entity.Routine
	Preferences entity.Preferences
}

func emptyState() State {
	return State{
		Tasks:       map[string]entity.Task{},
		Edges:       map[string]entity.Edge{},
		Routines:    map[string]entity.Routine{},
		Preferences: entity.DefaultPreferences(),
	}
}

// EventKind names a completed-operation result applied to the mirror.
type EventKind string

const (
	evTaskPut        EventKind = "task_put"
	evTaskRemoved    EventKind = "task_removed"
	evEdgePut        EventKind = "edge_put"
	evEdgeRemoved    EventKind = "edge_removed"
	evRoutinePut     EventKind = "routine_put"
	evRoutineRemoved EventKind = "routine_removed"
	evPreferencesSet EventKind = "preferences_set"
	evReloaded       EventKind = "reloaded"
)

// Event carries the already-persisted outcome of a mutation. Only the
// field matching Kind is set; evTaskRemoved implies removal of all edges
// touching ID (the reducer mirrors the store's cascade).
type Event struct {
	Kind        EventKind
	Task        *entity.Task
	Edge        *entity.Edge
	Routine     *entity.Routine
	Preferences *entity.Preferences
	ID          string
	Reloaded    *State
}

// reduce maps (state, event) to the next state without mutating either
// argument. It is driven exclusively from completed-operation results, so
// the mirror can never claim something the store does not hold.
func reduce(s State, ev Event) State {
	next := cloneState(s)
	switch ev.Kind {
	case evTaskPut:
		next.Tasks[ev.Task.Meta.ID] = cloneTask(*ev.Task)
	case evTaskRemoved:
		delete(next.Tasks, ev.ID)
		for id, e := range next.Edges {
			if e.Source == ev.ID || e.Target == ev.ID {
				delete(next.Edges, id)
			}
		}
	case evEdgePut:
		next.Edges[ev.Edge.ID] = *ev.Edge
	case evEdgeRemoved:
		delete(next.Edges, ev.ID)
	case evRoutinePut:
		next.Routines[ev.Routine.Meta.ID] = cloneRoutine(*ev.Routine)
	case evRoutineRemoved:
		delete(next.Routines, ev.ID)
	case evPreferencesSet:
		next.Preferences = *ev.Preferences
	case evReloaded:
		next = cloneState(*ev.Reloaded)
	}
	return next
}

// cloneState deep-copies a State so reducer outputs and observer snapshots
// share nothing with the kernel's authoritative copy.
func cloneState(s State) State {
	out := State{
		Tasks:       make(map[string]entity.Task, len(s.Tasks)),
		Edges:       make(map[string]entity.Edge, len(s.Edges)),
		Routines:    make(map[string]entity.Routine, len(s.Routines)),
		Preferences: s.Preferences,
	}
	for id, t := range s.Tasks {
		out.Tasks[id] = cloneTask(t)
	}
	for id, e := range s.Edges {
		out.Edges[id] = e
	}
	for id, r := range s.Routines {
		out.Routines[id] = cloneRoutine(r)
	}
	return out
}

func cloneTask(t entity.Task) entity.Task {
	if t.MicroSteps != nil {
		t.MicroSteps = append([]entity.MicroStep(nil), t.MicroSteps...)
	}
	if t.Tags != nil {
		t.Tags = append([]string(nil), t.Tags...)
	}
	if t.Recurring != nil {
		rec := *t.Recurring
		if rec.Days != nil {
			rec.Days = append([]int(nil), rec.Days...)
		}
		t.Recurring = &rec
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

func cloneRoutine(r entity.Routine) entity.Routine {
	if r.TaskIDs != nil {
		r.TaskIDs = append([]string(nil), r.TaskIDs...)
	}
	return r
}
