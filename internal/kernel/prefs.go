package kernel

import (
	"context"
	"fmt"

	"github.com/roach88/lodestone/internal/entity"
)

// PreferencesPatch is a partial update: nil fields keep their current
// value.
type PreferencesPatch struct {
	Theme                *string
	DefaultView          *string
	MaxVisibleTasks      *int
	AudioEnabled         *bool
	NotificationsEnabled *bool
	AIAPIKey             *string
	AIProvider           *string
}

// UpdatePreferences merges the patch into the stored singleton and
// persists it. Preferences changes are not audited; the audit log records
// entity history only.
func (k *Kernel) UpdatePreferences(ctx context.Context, patch PreferencesPatch) (entity.Preferences, error) {
	if patch.MaxVisibleTasks != nil {
		if *patch.MaxVisibleTasks < entity.MinVisibleTasks || *patch.MaxVisibleTasks > entity.MaxVisibleTasks {
			return entity.Preferences{}, validationErr(fmt.Sprintf(
				"maxVisibleTasks must be between %d and %d", entity.MinVisibleTasks, entity.MaxVisibleTasks))
		}
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	prefs := k.state.Preferences
	if patch.Theme != nil {
		prefs.Theme = *patch.Theme
	}
	if patch.DefaultView != nil {
		prefs.DefaultView = *patch.DefaultView
	}
	if patch.MaxVisibleTasks != nil {
		prefs.MaxVisibleTasks = *patch.MaxVisibleTasks
	}
	if patch.AudioEnabled != nil {
		prefs.AudioEnabled = *patch.AudioEnabled
	}
	if patch.NotificationsEnabled != nil {
		prefs.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.AIAPIKey != nil {
		prefs.AIAPIKey = *patch.AIAPIKey
	}
	if patch.AIProvider != nil {
		prefs.AIProvider = *patch.AIProvider
	}

	if err := k.store.PutPreferences(ctx, prefs); err != nil {
		return entity.Preferences{}, storageErr("persist preferences", err)
	}
	k.apply(Event{Kind: evPreferencesSet, Preferences: &prefs})
	return prefs, nil
}
