// File: internal/services/conversation/manager.go
package conversation

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services"
)

// DefaultSessionExpiry is how long an idle session survives.
const DefaultSessionExpiry = time.Hour

// SessionUpdate carries the partial changes of one conversation turn.
// Zero-valued fields leave the session untouched.
type SessionUpdate struct {
	Intent           domain.Intent
	Slots            domain.SlotSet
	Symptoms         *domain.SymptomRecord
	UserMessage      string
	AssistantMessage string
	Metadata         map[string]string
}

// Manager owns session lifecycle: creation, expiry, per-turn updates and
// export/import. All writes to a patient's session go through the manager,
// and LockPatient serializes whole pipeline turns per patient so concurrent
// messages cannot lose updates.
type Manager struct {
	store  Store
	expiry time.Duration
	logger services.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	now func() time.Time
}

func NewManager(store Store, expiry time.Duration, logger services.Logger) *Manager {
	if expiry <= 0 {
		expiry = DefaultSessionExpiry
	}
	logger.Info("conversation manager initialized", "expiry", expiry.String())
	return &Manager{
		store:  store,
		expiry: expiry,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
		now:    time.Now,
	}
}

// LockPatient acquires the per-patient mutex and returns the unlock func.
// Callers hold it for a full pipeline turn.
func (m *Manager) LockPatient(patientID string) func() {
	m.locksMu.Lock()
	lock, ok := m.locks[patientID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[patientID] = lock
	}
	m.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (m *Manager) newSession(patientID string) *domain.ConversationSession {
	now := m.now().UTC()
	return &domain.ConversationSession{
		PatientID:   patientID,
		SessionID:   fmt.Sprintf("session_%s_%d", patientID, now.UnixNano()),
		CreatedAt:   now,
		LastUpdated: now,
		Slots:       domain.SlotSet{},
		Metadata:    map[string]string{},
	}
}

// GetOrCreateSession returns the live session for a patient, replacing it
// with a fresh one when the previous session sat idle past expiry.
func (m *Manager) GetOrCreateSession(patientID string) *domain.ConversationSession {
	m.cleanupExpired()

	if session, ok := m.store.Get(patientID); ok {
		if session.Age(m.now().UTC()) <= m.expiry {
			return session
		}
		m.logger.Info("session expired, creating replacement", "patient_id", patientID)
	}

	session := m.newSession(patientID)
	m.store.Put(session)
	return session
}

// UpdateSession applies a partial update and always touches LastUpdated.
func (m *Manager) UpdateSession(patientID string, update SessionUpdate) *domain.ConversationSession {
	session := m.GetOrCreateSession(patientID)
	now := m.now().UTC()

	if update.Intent != "" {
		session.Intent = update.Intent
	}
	if update.Slots != nil {
		for slot, value := range update.Slots {
			session.Slots[slot] = value
		}
	}
	if update.Symptoms != nil {
		session.Symptoms = session.Symptoms.Merge(*update.Symptoms)
	}
	if update.UserMessage != "" {
		session.History = append(session.History, domain.ConversationMessage{
			Role: "user", Content: update.UserMessage, Timestamp: now,
		})
	}
	if update.AssistantMessage != "" {
		session.History = append(session.History, domain.ConversationMessage{
			Role: "assistant", Content: update.AssistantMessage, Timestamp: now,
		})
	}
	for key, value := range update.Metadata {
		session.Metadata[key] = value
	}

	session.LastUpdated = now
	m.store.Put(session)
	return session
}

// GetSession returns the session without creating or replacing one.
func (m *Manager) GetSession(patientID string) (*domain.ConversationSession, bool) {
	return m.store.Get(patientID)
}

// ClearSession deletes a patient's session.
func (m *Manager) ClearSession(patientID string) bool {
	return m.store.Delete(patientID)
}

// ResetSlotFilling drops intent, slots and the symptom record but keeps the
// conversation history.
func (m *Manager) ResetSlotFilling(patientID string) {
	session, ok := m.store.Get(patientID)
	if !ok {
		return
	}
	session.Intent = ""
	session.Slots = domain.SlotSet{}
	session.Symptoms = domain.SymptomRecord{}
	m.store.Put(session)
	m.logger.Info("reset slot filling", "patient_id", patientID)
}

// History returns the last limit messages, or all of them when limit <= 0.
func (m *Manager) History(patientID string, limit int) []domain.ConversationMessage {
	session, ok := m.store.Get(patientID)
	if !ok {
		return nil
	}
	history := session.History
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}

// ActiveSessionCount reports live sessions after sweeping expired ones.
func (m *Manager) ActiveSessionCount() int {
	m.cleanupExpired()
	return m.store.Len()
}

func (m *Manager) cleanupExpired() {
	now := m.now().UTC()
	removed := 0
	for _, patientID := range m.store.PatientIDs() {
		session, ok := m.store.Get(patientID)
		if ok && session.Age(now) > m.expiry {
			m.store.Delete(patientID)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("cleaned up expired sessions", "count", removed)
	}
}

// ExportSession serializes a session to JSON.
func (m *Manager) ExportSession(patientID string) (string, error) {
	session, ok := m.store.Get(patientID)
	if !ok {
		return "", fmt.Errorf("no session for patient %s", patientID)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export session: %w", err)
	}
	return string(data), nil
}

// ImportSession restores a previously exported session and makes it live.
func (m *Manager) ImportSession(sessionJSON string) (*domain.ConversationSession, error) {
	var session domain.ConversationSession
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, fmt.Errorf("import session: %w", err)
	}
	if session.PatientID == "" {
		return nil, fmt.Errorf("import session: missing patient id")
	}
	if session.Slots == nil {
		session.Slots = domain.SlotSet{}
	}
	if session.Metadata == nil {
		session.Metadata = map[string]string{}
	}
	m.store.Put(&session)
	m.logger.Info("imported session", "patient_id", session.PatientID)
	return &session, nil
}
