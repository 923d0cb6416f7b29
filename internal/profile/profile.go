// Package profile stores the device-local profile blob.
package profile

import (
	"encoding/json"
	"fmt"

	"github.com/blossomapp/blossom/internal/model"
	"github.com/blossomapp/blossom/internal/store"
)

// profileKey is where the blob lives in the key-value store.
const profileKey = "profile"

// Manager loads and saves the profile. The whole struct is written and
// read as one JSON value; there is no per-field update.
type Manager struct {
	kv store.KeyValueStore
}

// NewManager creates a Manager over the given key-value store.
func NewManager(kv store.KeyValueStore) *Manager {
	return &Manager{kv: kv}
}

// Load returns the stored profile, or a zero profile when none was saved.
func (m *Manager) Load() (model.Profile, error) {
	var p model.Profile

	raw, ok, err := m.kv.Get(profileKey)
	if err != nil {
		return p, fmt.Errorf("loading profile: %w", err)
	}
	if !ok {
		return p, nil
	}

	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Profile{}, fmt.Errorf("decoding profile: %w", err)
	}
	return p, nil
}

// Save overwrites the stored profile.
func (m *Manager) Save(p model.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := m.kv.Set(profileKey, raw); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}
