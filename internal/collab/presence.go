package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// PresenceManager holds the last cursor/selection report for each user in a
// room. Entries are ephemeral: they exist only while the user is connected
// and are never persisted.
type PresenceManager struct {
	mu     sync.RWMutex
	byUser map[string]*PresencePayload
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{byUser: make(map[string]*PresencePayload)}
}

// Update replaces the user's presence wholesale; reports are not merged.
func (pm *PresenceManager) Update(userID string, p *PresencePayload) {
	pm.mu.Lock()
	pm.byUser[userID] = p
	pm.mu.Unlock()
}

func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	delete(pm.byUser, userID)
	pm.mu.Unlock()
}

// StateMessage renders the full presence map for a joining client.
func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.snapshot()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{Type: TypePresenceState, Payload: payload}
}

func (pm *PresenceManager) snapshot() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	out := make(map[string]*PresencePayload, len(pm.byUser))
	for id, p := range pm.byUser {
		out[id] = p
	}
	return out
}
