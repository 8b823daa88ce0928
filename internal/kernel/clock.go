package kernel

import "time"

// Clock supplies timestamps for entity metadata and audit entries.
// Injected so tests can pin time; production uses the system clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// Now returns the current wall-clock time in UTC. All persisted timestamps
// are UTC so exported documents compare equal across time zones.
func (systemClock) Now() time.Time { return time.Now().UTC() }
