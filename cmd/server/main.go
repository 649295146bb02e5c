// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/medassist-ng/ai-service/internal/config"
	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/handlers"
	"github.com/medassist-ng/ai-service/internal/middleware"
	reportrepo "github.com/medassist-ng/ai-service/internal/repository/report"
	userrepo "github.com/medassist-ng/ai-service/internal/repository/user"
	"github.com/medassist-ng/ai-service/internal/ratelimit"
	"github.com/medassist-ng/ai-service/internal/services"
	"github.com/medassist-ng/ai-service/internal/services/admin"
	"github.com/medassist-ng/ai-service/internal/services/conversation"
	"github.com/medassist-ng/ai-service/internal/services/document"
	"github.com/medassist-ng/ai-service/internal/services/intake"
	"github.com/medassist-ng/ai-service/internal/services/intent"
	"github.com/medassist-ng/ai-service/internal/services/message"
	"github.com/medassist-ng/ai-service/internal/services/report"
	"github.com/medassist-ng/ai-service/internal/services/safety"
	"github.com/medassist-ng/ai-service/internal/services/slots"
	"github.com/medassist-ng/ai-service/internal/services/translation"
	"github.com/medassist-ng/ai-service/internal/services/triage"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("medassist-ai-service")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.TriageReport{}, &domain.StaffUser{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	reportRepo := reportrepo.NewReportRepository(db)
	userRepo := userrepo.NewUserRepository(db)

	// --- AI completions (optional; nil keeps the rule-based paths) ---
	var completions *services.AIService
	if cfg.UseLLM && cfg.LLMAPIKey != "" {
		completions, err = services.NewAIService(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, logger)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize AI Service: %v", err)
		}
	} else {
		log.Println("LLM disabled or no API key; running rule-based pipeline only")
	}

	// --- Translation provider (optional; local tables cover the gap) ---
	var translationProvider translation.Provider
	if cfg.TranslatorEndpoint != "" && cfg.TranslatorKey != "" {
		provider, err := translation.NewHTTPProvider(cfg.TranslatorKey, cfg.TranslatorEndpoint, "", logger)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize translation provider: %v", err)
		}
		translationProvider = provider
	}
	translator := translation.NewTranslator(translationProvider, logger)

	// --- Core pipeline services ---
	classifier := intent.NewClassifier(completions, logger)
	filler := slots.NewFiller(logger)
	intakeExtractor := intake.NewExtractor(logger)
	scorer := triage.NewScorer(logger)
	validator := safety.NewValidator(logger)
	sessions := conversation.NewManager(
		conversation.NewMemoryStore(),
		time.Duration(cfg.SessionExpirySeconds)*time.Second,
		logger,
	)
	generator := report.NewGenerator(logger)

	messageService := message.NewService(
		classifier, filler, intakeExtractor, scorer, validator, sessions, translator, logger)
	if completions != nil {
		messageService.UseModel(completions)
	}

	// Document OCR is optional; without it uploads get the fallback payload.
	var ocrProvider document.OCRProvider
	if cfg.DocumentOCREndpoint != "" && cfg.DocumentOCRKey != "" {
		provider, err := document.NewHTTPProvider(cfg.DocumentOCRKey, cfg.DocumentOCREndpoint, logger)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize document provider: %v", err)
		}
		ocrProvider = provider
	}
	documentExtractor := document.NewExtractor(ocrProvider, logger)

	// --- Staff auth and admin services ---
	authService, err := admin.NewAuthService(userRepo, cfg.JWTSecretKey, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize auth service: %v", err)
	}
	if err := authService.EnsureDefaultAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("FATAL: Failed to seed admin account: %v", err)
	}
	statsService := admin.NewStatsService(reportRepo, sessions, validator.Audit(), logger)

	// --- Rate limiters ---
	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	defer authLimiter.Close()
	messageLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.MessageConfig())
	defer messageLimiter.Close()

	// --- Handlers ---
	messageHandler := handlers.NewMessageHandler(messageService, sessions, messageLimiter)
	symptomHandler := handlers.NewSymptomHandler(intakeExtractor, scorer, generator, reportRepo)
	documentHandler := handlers.NewDocumentHandler(documentExtractor)
	translateHandler := handlers.NewTranslateHandler(translator)
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(authService, statsService, reportRepo)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)
	adminMiddleware := middleware.RequireAdmin(authService)

	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes (patient-facing; per-patient limits inside handlers) ---
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/api/v1/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/api/v1/message/process", messageHandler.Process).Methods("POST")
	r.HandleFunc("/api/v1/symptom/report", symptomHandler.GenerateReport).Methods("POST")
	r.HandleFunc("/api/v1/document/extract", documentHandler.Extract).Methods("POST")
	r.HandleFunc("/api/v1/document/supported-types", documentHandler.SupportedTypes).Methods("GET")
	r.HandleFunc("/api/v1/translate", translateHandler.Translate).Methods("POST")
	r.HandleFunc("/api/v1/translate/batch", translateHandler.TranslateBatch).Methods("POST")
	r.HandleFunc("/api/v1/translate/detect", translateHandler.DetectLanguage).Methods("POST")
	r.HandleFunc("/api/v1/translate/languages", translateHandler.SupportedLanguages).Methods("GET")

	// --- Login (IP rate limited, counter reset on success) ---
	loginChain := middleware.RateLimitMiddleware(authLimiter, "login")(
		middleware.AuthSuccessMiddleware(authLimiter, "login")(
			http.HandlerFunc(authHandler.Login)))
	r.Handle("/api/v1/auth/login", loginChain).Methods("POST")

	// --- Staff Routes (any authenticated staff member) ---
	staff := r.PathPrefix("/api/v1").Subrouter()
	staff.Use(authMiddleware)
	staff.HandleFunc("/message/session/{patient_id}", messageHandler.History).Methods("GET")
	staff.HandleFunc("/message/session/{patient_id}", messageHandler.ClearSession).Methods("DELETE")
	staff.HandleFunc("/symptom/report/{report_id}", symptomHandler.GetReport).Methods("GET")

	// --- Admin Routes ---
	adminRoutes := r.PathPrefix("/api/v1/admin").Subrouter()
	adminRoutes.Use(authMiddleware)
	adminRoutes.Use(adminMiddleware)
	adminRoutes.HandleFunc("/stats", adminHandler.Overview).Methods("GET")
	adminRoutes.HandleFunc("/reports", adminHandler.ListReports).Methods("GET")
	adminRoutes.HandleFunc("/reports/red-flags", adminHandler.RedFlags).Methods("GET")
	adminRoutes.HandleFunc("/safety/audit", adminHandler.SafetyAudit).Methods("GET")
	adminRoutes.HandleFunc("/staff", adminHandler.CreateStaff).Methods("POST")

	// --- Server Configuration ---
	port := ":8000"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:         port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("==================================================")
	log.Printf("MedAssist NG - Clinic Triage Assistant")
	log.Printf("==================================================")
	log.Printf("Server starting on port %s", port)
	log.Printf("Health check: http://localhost%s/health", port)
	log.Printf("Message API:  http://localhost%s/api/v1/message/process", port)
	log.Printf("==================================================")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
