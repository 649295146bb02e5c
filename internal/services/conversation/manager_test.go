// File: internal/services/conversation/manager_test.go
package conversation

import (
	"sync"
	"testing"
	"time"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services"
)

func newTestManager(expiry time.Duration) *Manager {
	return NewManager(NewMemoryStore(), expiry, &services.NoOpLogger{})
}

func TestGetOrCreateSession(t *testing.T) {
	m := newTestManager(time.Hour)

	first := m.GetOrCreateSession("patient-1")
	if first.PatientID != "patient-1" {
		t.Errorf("patient id = %q", first.PatientID)
	}
	if first.SessionID == "" {
		t.Error("session id empty")
	}

	second := m.GetOrCreateSession("patient-1")
	if second.SessionID != first.SessionID {
		t.Error("same patient should get the same live session")
	}

	other := m.GetOrCreateSession("patient-2")
	if other.SessionID == first.SessionID {
		t.Error("different patients must not share sessions")
	}
}

func TestSessionExpiryCreatesReplacement(t *testing.T) {
	m := newTestManager(time.Hour)

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	first := m.GetOrCreateSession("patient-1")

	// 61 minutes later the old session is stale.
	m.now = func() time.Time { return base.Add(61 * time.Minute) }
	second := m.GetOrCreateSession("patient-1")

	if second.SessionID == first.SessionID {
		t.Error("expired session should be replaced with a new one")
	}
}

func TestUpdateSessionPartialUpdates(t *testing.T) {
	m := newTestManager(time.Hour)

	m.UpdateSession("patient-1", SessionUpdate{
		Intent:      domain.IntentSymptomInquiry,
		UserMessage: "my head dey pain me",
	})
	session := m.UpdateSession("patient-1", SessionUpdate{
		Slots:            domain.SlotSet{"primary_symptom": "headache"},
		AssistantMessage: "When did it start?",
	})

	if session.Intent != domain.IntentSymptomInquiry {
		t.Errorf("intent = %s, want preserved from first update", session.Intent)
	}
	if session.Slots["primary_symptom"] != "headache" {
		t.Errorf("slots = %v", session.Slots)
	}
	if len(session.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(session.History))
	}
	if session.History[0].Role != "user" || session.History[1].Role != "assistant" {
		t.Errorf("history roles = %s, %s", session.History[0].Role, session.History[1].Role)
	}
}

func TestUpdateSessionTouchesLastUpdated(t *testing.T) {
	m := newTestManager(time.Hour)

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	m.GetOrCreateSession("patient-1")

	m.now = func() time.Time { return base.Add(5 * time.Minute) }
	session := m.UpdateSession("patient-1", SessionUpdate{Metadata: map[string]string{"channel": "whatsapp"}})

	if !session.LastUpdated.Equal(base.Add(5 * time.Minute)) {
		t.Errorf("last updated = %v, want touch on every update", session.LastUpdated)
	}
	if session.Metadata["channel"] != "whatsapp" {
		t.Errorf("metadata = %v", session.Metadata)
	}
}

func TestUpdateSessionMergesSymptoms(t *testing.T) {
	m := newTestManager(time.Hour)

	m.UpdateSession("patient-1", SessionUpdate{
		Symptoms: &domain.SymptomRecord{PrimarySymptom: "headache"},
	})
	session := m.UpdateSession("patient-1", SessionUpdate{
		Symptoms: &domain.SymptomRecord{Onset: "this morning", Severity: domain.IntPtr(6)},
	})

	if session.Symptoms.PrimarySymptom != "headache" {
		t.Error("earlier symptom fields must survive later partial updates")
	}
	if session.Symptoms.Onset != "this morning" || session.Symptoms.SeverityValue() != 6 {
		t.Errorf("symptoms = %+v", session.Symptoms)
	}
}

func TestResetSlotFillingKeepsHistory(t *testing.T) {
	m := newTestManager(time.Hour)

	m.UpdateSession("patient-1", SessionUpdate{
		Intent:      domain.IntentSymptomInquiry,
		Slots:       domain.SlotSet{"primary_symptom": "headache"},
		Symptoms:    &domain.SymptomRecord{PrimarySymptom: "headache"},
		UserMessage: "my head dey pain me",
	})

	m.ResetSlotFilling("patient-1")

	session, ok := m.GetSession("patient-1")
	if !ok {
		t.Fatal("session gone after reset")
	}
	if session.Intent != "" || len(session.Slots) != 0 || session.Symptoms.PrimarySymptom != "" {
		t.Error("reset should clear intent, slots and symptoms")
	}
	if len(session.History) != 1 {
		t.Error("reset must keep history")
	}
}

func TestHistoryLimit(t *testing.T) {
	m := newTestManager(time.Hour)

	for i := 0; i < 5; i++ {
		m.UpdateSession("patient-1", SessionUpdate{UserMessage: "msg"})
	}

	if got := len(m.History("patient-1", 0)); got != 5 {
		t.Errorf("unlimited history = %d, want 5", got)
	}
	limited := m.History("patient-1", 2)
	if len(limited) != 2 {
		t.Errorf("limited history = %d, want 2", len(limited))
	}

	if m.History("unknown", 10) != nil {
		t.Error("history for unknown patient should be nil")
	}
}

func TestClearSession(t *testing.T) {
	m := newTestManager(time.Hour)

	m.GetOrCreateSession("patient-1")
	if !m.ClearSession("patient-1") {
		t.Error("clear should report deletion")
	}
	if m.ClearSession("patient-1") {
		t.Error("second clear should report nothing deleted")
	}
	if _, ok := m.GetSession("patient-1"); ok {
		t.Error("session still present after clear")
	}
}

func TestActiveSessionCountSweepsExpired(t *testing.T) {
	m := newTestManager(time.Hour)

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	m.GetOrCreateSession("patient-1")
	m.GetOrCreateSession("patient-2")

	if got := m.ActiveSessionCount(); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}

	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	if got := m.ActiveSessionCount(); got != 0 {
		t.Errorf("count = %d, want 0 after expiry sweep", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour)

	m.UpdateSession("patient-1", SessionUpdate{
		Intent:           domain.IntentSymptomInquiry,
		Slots:            domain.SlotSet{"primary_symptom": "headache"},
		Symptoms:         &domain.SymptomRecord{PrimarySymptom: "headache", Severity: domain.IntPtr(6)},
		UserMessage:      "my head dey pain me",
		AssistantMessage: "When did it start?",
		Metadata:         map[string]string{"language": "pcm"},
	})

	exported, err := m.ExportSession("patient-1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	original, _ := m.GetSession("patient-1")
	m.ClearSession("patient-1")

	restored, err := m.ImportSession(exported)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if restored.SessionID != original.SessionID || restored.PatientID != original.PatientID {
		t.Error("identity fields changed in round trip")
	}
	if restored.Intent != original.Intent {
		t.Error("intent changed in round trip")
	}
	if restored.Slots["primary_symptom"] != "headache" {
		t.Error("slots lost in round trip")
	}
	if restored.Symptoms.SeverityValue() != 6 {
		t.Error("symptom record lost in round trip")
	}
	if len(restored.History) != 2 || restored.History[0].Content != "my head dey pain me" {
		t.Error("history order or content lost in round trip")
	}
	if !restored.History[0].Timestamp.Equal(original.History[0].Timestamp) {
		t.Error("timestamps changed in round trip")
	}
}

func TestImportSessionRejectsBadPayload(t *testing.T) {
	m := newTestManager(time.Hour)

	if _, err := m.ImportSession("not json"); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := m.ImportSession(`{"session_id": "s1"}`); err == nil {
		t.Error("expected error for missing patient id")
	}
}

func TestLockPatientSerializesTurns(t *testing.T) {
	m := newTestManager(time.Hour)

	const turns = 50
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.LockPatient("patient-1")
			defer unlock()
			m.UpdateSession("patient-1", SessionUpdate{UserMessage: "msg"})
		}()
	}
	wg.Wait()

	if got := len(m.History("patient-1", 0)); got != turns {
		t.Errorf("history length = %d, want %d (lost updates)", got, turns)
	}
}
