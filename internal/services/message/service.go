// File: internal/services/message/service.go
package message

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services"
	"github.com/medassist-ng/ai-service/internal/services/ai"
	"github.com/medassist-ng/ai-service/internal/services/conversation"
	"github.com/medassist-ng/ai-service/internal/services/intake"
	"github.com/medassist-ng/ai-service/internal/services/intent"
	"github.com/medassist-ng/ai-service/internal/services/safety"
	"github.com/medassist-ng/ai-service/internal/services/slots"
	"github.com/medassist-ng/ai-service/internal/services/translation"
	"github.com/medassist-ng/ai-service/internal/services/triage"
)

// Next actions the caller routes on after each processed message.
const (
	ActionEscalate        = "escalate"
	ActionCollectMoreInfo = "collect_more_info"
	ActionComplete        = "complete"
)

const emergencyResponse = "🚨 This appears to be a medical emergency. " +
	"Please call emergency services immediately or go to the nearest hospital. " +
	"Do not wait for a callback."

// Request is one inbound patient message.
type Request struct {
	MessageID string            `json:"message_id"`
	PatientID string            `json:"patient_id"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Response is the pipeline outcome for one message.
type Response struct {
	MessageID           string             `json:"message_id"`
	Intent              domain.Intent      `json:"intent"`
	Confidence          float64            `json:"confidence"`
	Response            string             `json:"response"`
	ExtractedData       domain.SlotSet     `json:"extracted_data,omitempty"`
	MissingSlots        []string           `json:"missing_slots,omitempty"`
	NextAction          string             `json:"next_action"`
	TriageLevel         domain.TriageLevel `json:"triage_level,omitempty"`
	DetectedLanguage    string             `json:"detected_language,omitempty"`
	RequiresHumanReview bool               `json:"requires_human_review"`
	Timestamp           time.Time          `json:"timestamp"`
}

// Service runs the full pipeline for one patient message: intent
// classification, emergency short-circuit, slot filling, symptom intake,
// triage, response generation and safety validation. A per-patient lock
// serializes turns so concurrent messages cannot lose session updates.
type Service struct {
	classifier *intent.Classifier
	filler     *slots.Filler
	intake     *intake.Extractor
	scorer     *triage.Scorer
	validator  *safety.Validator
	sessions   *conversation.Manager
	translator *translation.Translator
	logger     services.Logger

	// Model-assisted variants, set by UseModel. Nil means rule-only.
	modelFiller    *slots.ModelFiller
	modelScorer    *triage.ModelScorer
	modelValidator *safety.ModelValidator
}

func NewService(
	classifier *intent.Classifier,
	filler *slots.Filler,
	intakeExtractor *intake.Extractor,
	scorer *triage.Scorer,
	validator *safety.Validator,
	sessions *conversation.Manager,
	translator *translation.Translator,
	logger services.Logger,
) *Service {
	return &Service{
		classifier: classifier,
		filler:     filler,
		intake:     intakeExtractor,
		scorer:     scorer,
		validator:  validator,
		sessions:   sessions,
		translator: translator,
		logger:     logger,
	}
}

// UseModel layers model-assisted slot filling, triage scoring and safety
// review over the rule-based pipeline. Every model path degrades to the
// rules on failure, so enabling this never makes results worse.
func (s *Service) UseModel(completions ai.Service) {
	s.modelFiller = slots.NewModelFiller(s.filler, completions)
	s.modelScorer = triage.NewModelScorer(s.scorer, completions)
	s.modelValidator = safety.NewModelValidator(s.validator, completions)
}

func (s *Service) extractSlots(ctx context.Context, text string, msgIntent domain.Intent, current domain.SlotSet) domain.SlotSet {
	if s.modelFiller != nil {
		return s.modelFiller.ExtractWithModel(ctx, text, msgIntent, current)
	}
	return s.filler.Extract(text, msgIntent, current)
}

func (s *Service) runTriage(ctx context.Context, symptoms domain.SymptomRecord) domain.TriageResult {
	if s.modelScorer != nil {
		return s.modelScorer.TriageWithModel(ctx, symptoms, nil, nil)
	}
	return s.scorer.Triage(symptoms, nil, nil)
}

func (s *Service) validate(ctx context.Context, userMessage, response string, msgIntent domain.Intent, level domain.TriageLevel) domain.SafetyResult {
	if s.modelValidator != nil {
		return s.modelValidator.ValidateResponseWithModel(ctx, userMessage, response, msgIntent, level)
	}
	return s.validator.ValidateResponse(userMessage, response, msgIntent, level)
}

// Process runs one conversation turn.
func (s *Service) Process(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.PatientID) == "" {
		return Response{}, fmt.Errorf("patient id is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return Response{}, fmt.Errorf("message is required")
	}

	unlock := s.sessions.LockPatient(req.PatientID)
	defer unlock()

	s.logger.Info("processing message", "message_id", req.MessageID, "patient_id", req.PatientID)

	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	// Non-English messages go through translation before classification.
	// Pidgin stays as-is, the downstream keyword tables handle it natively.
	text := req.Message
	language := ""
	if s.translator != nil {
		detection := s.translator.DetectLanguage(req.Message)
		language = detection.Language
		if language != translation.English && language != translation.Pidgin {
			text = s.translator.TranslateToEnglish(ctx, req.Message)
		}
	}

	session := s.sessions.GetOrCreateSession(req.PatientID)
	intentResult := s.classifier.Classify(ctx, text, session.History)
	s.logger.Info("intent classified",
		"intent", string(intentResult.Intent), "confidence", intentResult.Confidence)

	if intentResult.Intent == domain.IntentEmergency {
		s.logger.Warn("emergency detected, escalating immediately", "patient_id", req.PatientID)
		s.sessions.UpdateSession(req.PatientID, conversation.SessionUpdate{
			Intent:           domain.IntentEmergency,
			UserMessage:      req.Message,
			AssistantMessage: emergencyResponse,
			Metadata:         languageMetadata(language),
		})
		return Response{
			MessageID:           req.MessageID,
			Intent:              domain.IntentEmergency,
			Confidence:          1.0,
			Response:            emergencyResponse,
			NextAction:          ActionEscalate,
			DetectedLanguage:    language,
			RequiresHumanReview: true,
			Timestamp:           timestamp,
		}, nil
	}

	extracted := s.extractSlots(ctx, text, intentResult.Intent, session.Slots)

	var symptoms domain.SymptomRecord
	var triageResult *domain.TriageResult
	if intentResult.Intent == domain.IntentSymptomInquiry {
		symptoms = s.intake.Extract(text, session.Symptoms)
		if s.intake.IsComplete(symptoms) {
			result := s.runTriage(ctx, symptoms)
			triageResult = &result
			s.logger.Info("triage completed",
				"patient_id", req.PatientID,
				"score", result.Score,
				"level", string(result.Level))
		}
	}

	responseText, nextAction := s.generateResponse(intentResult.Intent, extracted, symptoms, triageResult)

	level := domain.TriageLevel("")
	if triageResult != nil {
		level = triageResult.Level
	}
	safetyResult := s.validate(ctx, text, responseText, intentResult.Intent, level)
	finalResponse := safetyResult.ModifiedResponse

	update := conversation.SessionUpdate{
		Intent:           intentResult.Intent,
		Slots:            extracted,
		UserMessage:      req.Message,
		AssistantMessage: finalResponse,
		Metadata:         languageMetadata(language),
	}
	if intentResult.Intent == domain.IntentSymptomInquiry {
		update.Symptoms = &symptoms
	}
	s.sessions.UpdateSession(req.PatientID, update)

	requiresReview := safetyResult.Action == domain.SafetyEscalate
	if triageResult != nil && (triageResult.Level == domain.TriageHigh || triageResult.Level == domain.TriageCritical) {
		requiresReview = true
	}

	return Response{
		MessageID:           req.MessageID,
		Intent:              intentResult.Intent,
		Confidence:          intentResult.Confidence,
		Response:            finalResponse,
		ExtractedData:       extracted,
		MissingSlots:        s.missingFor(intentResult.Intent, extracted, symptoms),
		NextAction:          nextAction,
		TriageLevel:         level,
		DetectedLanguage:    language,
		RequiresHumanReview: requiresReview,
		Timestamp:           timestamp,
	}, nil
}

func (s *Service) missingFor(msgIntent domain.Intent, extracted domain.SlotSet, symptoms domain.SymptomRecord) []string {
	if msgIntent == domain.IntentSymptomInquiry {
		return s.intake.MissingFields(symptoms)
	}
	return s.filler.Missing(msgIntent, extracted)
}

// generateResponse picks the next question while information is missing and
// the intent-specific confirmation once everything is collected.
func (s *Service) generateResponse(
	msgIntent domain.Intent,
	extracted domain.SlotSet,
	symptoms domain.SymptomRecord,
	triageResult *domain.TriageResult,
) (string, string) {
	if msgIntent == domain.IntentSymptomInquiry {
		if triageResult == nil {
			question := s.intake.NextQuestion(symptoms)
			if question == "" {
				question = "Can you tell me more about your symptoms?"
			}
			return question, ActionCollectMoreInfo
		}
		return completionResponse(msgIntent, extracted, triageResult.Level), ActionComplete
	}

	if missing := s.filler.Missing(msgIntent, extracted); len(missing) > 0 {
		question := s.filler.NextQuestion(msgIntent, extracted)
		if question == "" {
			question = fmt.Sprintf("I need a bit more information. Can you tell me more about %s?",
				strings.ReplaceAll(missing[0], "_", " "))
		}
		return question, ActionCollectMoreInfo
	}

	return completionResponse(msgIntent, extracted, ""), ActionComplete
}

func completionResponse(msgIntent domain.Intent, extracted domain.SlotSet, level domain.TriageLevel) string {
	get := func(slot, fallback string) string {
		if v := extracted[slot]; v != "" {
			return v
		}
		return fallback
	}

	switch msgIntent {
	case domain.IntentAppointmentBooking:
		return fmt.Sprintf(
			"I'll help you book an appointment for %s at %s. A staff member will confirm your appointment shortly.",
			get("date", "your preferred date"), get("time", "your preferred time"))

	case domain.IntentMedicationRefill:
		return fmt.Sprintf(
			"I've registered your request to refill %s. Our pharmacy will prepare it and contact you when ready.",
			get("medication_name", "your medication"))

	case domain.IntentSymptomInquiry:
		switch level {
		case domain.TriageCritical:
			return "⚠️ Based on your symptoms, you should seek immediate medical attention. " +
				"Please visit the emergency room or call emergency services."
		case domain.TriageHigh:
			return "Your symptoms require prompt medical attention. " +
				"We recommend scheduling an appointment today or visiting urgent care."
		case domain.TriageMedium:
			return "Thank you for sharing your symptoms. " +
				"We recommend scheduling an appointment within the next few days. " +
				"A healthcare provider will review your case."
		default:
			return "Thank you for the information. Your symptoms appear manageable. " +
				"We'll have a nurse review your case and provide guidance."
		}

	case domain.IntentFeedbackComplaint:
		return "Thank you for your feedback. We take all comments seriously. " +
			"Your feedback has been forwarded to our management team."

	case domain.IntentGeneralInquiry:
		return "Thank you for your question. A staff member will get back to you " +
			"with the information you requested."
	}

	return "Thank you for contacting us. We'll be in touch soon."
}

func languageMetadata(language string) map[string]string {
	if language == "" {
		return nil
	}
	return map[string]string{"language": language}
}
