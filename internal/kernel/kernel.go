package kernel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/lodestone/internal/entity"
	"github.com/roach88/lodestone/internal/store"
)

// Kernel is the mutation service. Construct with New; the zero value is
// not usable.
type Kernel struct {
	store *store.Store
	clock Clock
	newID func() string

	mu        sync.Mutex
	state     State
	observers []func(State)
}

// Option configures a Kernel at construction time.
type Option func(*Kernel)

// WithClock injects a timestamp source. Tests pin time with this.
func WithClock(c Clock) Option {
	return func(k *Kernel) { k.clock = c }
}

// WithIDFunc injects an id generator. Tests use sequential ids for
// reproducible fixtures; production keeps the uuid default.
func WithIDFunc(fn func() string) Option {
	return func(k *Kernel) { k.newID = fn }
}

// New builds a kernel over the given store and loads the in-memory mirror
// from it.
func New(ctx context.Context, st *store.Store, opts ...Option) (*Kernel, error) {
	k := &Kernel{
		store: st,
		clock: systemClock{},
		newID: uuid.NewString,
		state: emptyState(),
	}
	for _, opt := range opts {
		opt(k)
	}
	loaded, err := k.loadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("kernel init: %w", err)
	}
	k.state = loaded
	return k, nil
}

// loadState reads every collection from the store into a fresh State.
func (k *Kernel) loadState(ctx context.Context) (State, error) {
	s := emptyState()

	tasks, err := k.store.Tasks(ctx)
	if err != nil {
		return State{}, storageErr("load tasks", err)
	}
	for _, t := range tasks {
		s.Tasks[t.Meta.ID] = t
	}

	edges, err := k.store.Edges(ctx)
	if err != nil {
		return State{}, storageErr("load edges", err)
	}
	for _, e := range edges {
		s.Edges[e.ID] = e
	}

	routines, err := k.store.Routines(ctx)
	if err != nil {
		return State{}, storageErr("load routines", err)
	}
	for _, r := range routines {
		s.Routines[r.Meta.ID] = r
	}

	prefs, found, err := k.store.Preferences(ctx)
	if err != nil {
		return State{}, storageErr("load preferences", err)
	}
	if found {
		s.Preferences = prefs
	}

	return s, nil
}

// Snapshot returns a deep copy of the in-memory mirror. Views render from
// snapshots; mutating one affects nothing.
func (k *Kernel) Snapshot() State {
	k.mu.Lock()
	defer k.mu.Unlock()
	return cloneState(k.state)
}

// Subscribe registers an observer called with a fresh snapshot after every
// successful mutation. Observers run synchronously on the mutating call;
// keep them cheap.
func (k *Kernel) Subscribe(fn func(State)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.observers = append(k.observers, fn)
}

// apply advances the mirror with a completed-operation event and notifies
// observers. Caller must hold k.mu.
func (k *Kernel) apply(ev Event) {
	k.state = reduce(k.state, ev)
	for _, fn := range k.observers {
		fn(cloneState(k.state))
	}
}

// mutate runs fn's store writes in one transaction: the entity writes and
// the audit append land together or not at all. Errors returned by fn are
// already kernel errors and pass through; begin/commit failures surface as
// storage errors.
func (k *Kernel) mutate(ctx context.Context, fn func(tx *store.Tx) error) error {
	err := k.store.Update(ctx, fn)
	if err == nil {
		return nil
	}
	var kerr *Error
	if errors.As(err, &kerr) {
		return err
	}
	return storageErr("commit mutation", err)
}

// audit appends one entry for the action being committed. It runs inside
// the mutation's transaction, so an entity write can never persist without
// its audit entry.
func (k *Kernel) audit(ctx context.Context, tx *store.Tx, action entity.AuditAction, et entity.EntityType, entityID string, details map[string]string) error {
	entry := entity.AuditEntry{
		ID:         k.newID(),
		Timestamp:  k.clock.Now(),
		Action:     action,
		EntityType: et,
		EntityID:   entityID,
		Details:    details,
	}
	if err := tx.AppendAudit(ctx, entry); err != nil {
		return storageErr("append audit", err)
	}
	return nil
}

// AuditLog returns every audit entry in unspecified stored order. Callers
// sort by timestamp before display; details maps are point-in-time notes,
// not live references.
func (k *Kernel) AuditLog(ctx context.Context) ([]entity.AuditEntry, error) {
	entries, err := k.store.AuditEntries(ctx)
	if err != nil {
		return nil, storageErr("read audit log", err)
	}
	return entries, nil
}

// IsInitialized reports whether the store already holds at least one task.
// The CLI uses this to decide whether first-run seeding applies.
func (k *Kernel) IsInitialized(ctx context.Context) (bool, error) {
	ok, err := k.store.IsInitialized(ctx)
	if err != nil {
		return false, storageErr("check initialized", err)
	}
	return ok, nil
}
