// File: internal/domain/session.go
package domain

import "time"

// SlotSet is the per-intent mapping of slot name to extracted value.
type SlotSet map[string]string

// Clone returns an independent copy so callers can merge without aliasing.
func (s SlotSet) Clone() SlotSet {
	out := make(SlotSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// MergeNonEmpty copies every non-empty value from update into a clone of s.
// Empty values never erase an already-filled slot.
func (s SlotSet) MergeNonEmpty(update SlotSet) SlotSet {
	out := s.Clone()
	for k, v := range update {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// ConversationMessage is a single turn in the session history.
type ConversationMessage struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationSession is the accumulated conversational state for one patient.
// Exactly one live session exists per patient id at a time; it is owned
// exclusively by the conversation manager's store and must only be mutated
// through it.
type ConversationSession struct {
	PatientID   string                `json:"patient_id"`
	SessionID   string                `json:"session_id"`
	CreatedAt   time.Time             `json:"created_at"`
	LastUpdated time.Time             `json:"last_updated"`
	Intent      Intent                `json:"intent,omitempty"`
	Slots       SlotSet               `json:"filled_slots"`
	Symptoms    SymptomRecord         `json:"symptoms"`
	History     []ConversationMessage `json:"history"`
	Metadata    map[string]string     `json:"metadata"`
}

// Age reports how long the session has been idle at the given instant.
func (s *ConversationSession) Age(now time.Time) time.Duration {
	return now.Sub(s.LastUpdated)
}
