// Package server wires stores, services, and handlers into one HTTP
// surface.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/petravell/choreboard/internal/chore"
	"github.com/petravell/choreboard/internal/handler"
	"github.com/petravell/choreboard/internal/middleware"
	"github.com/petravell/choreboard/internal/photo"
	"github.com/petravell/choreboard/internal/push"
	"github.com/petravell/choreboard/internal/report"
	"github.com/petravell/choreboard/internal/store"
	ws "github.com/petravell/choreboard/internal/websocket"
)

// Config holds the optional service wiring.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	personH     *handler.PersonHandler
	choreH      *handler.ChoreHandler
	assignmentH *handler.AssignmentHandler
	reportH     *handler.ReportHandler
	photoH      *handler.PhotoHandler
	pushH       *handler.PushHandler
	personStore *store.PersonStore
	generator   *chore.Generator
	logger      *slog.Logger
}

func New(db *sql.DB, photos photo.Store, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	personStore := store.NewPersonStore(db)
	choreStore := store.NewChoreStore(db)
	assignmentStore := store.NewAssignmentStore(db)
	reportStore := store.NewReportStore(db)
	pushStore := store.NewPushStore(db)

	generator := chore.NewGenerator(choreStore, assignmentStore, personStore, logger.With("component", "generator"))
	lifecycle := chore.NewLifecycle(assignmentStore, personStore, photos, logger.With("component", "lifecycle"))
	aggregator := report.NewAggregator(reportStore)

	// Push is optional; without VAPID keys the endpoints are absent and
	// lifecycle events only reach the websocket hub.
	var pushH *handler.PushHandler
	var notifier *push.Notifier
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSvc := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
		notifier = push.NewNotifier(pushSvc, pushStore, logger.With("component", "push"))
		pushH = handler.NewPushHandler(pushSvc, pushStore)
	}

	var photoH *handler.PhotoHandler
	if photos != nil {
		photoH = handler.NewPhotoHandler(photos)
	}

	return &Server{
		db:          db,
		hub:         hub,
		personH:     handler.NewPersonHandler(personStore),
		choreH:      handler.NewChoreHandler(choreStore, hub),
		assignmentH: handler.NewAssignmentHandler(generator, lifecycle, assignmentStore, choreStore, personStore, hub, notifier),
		reportH:     handler.NewReportHandler(aggregator, personStore),
		photoH:      photoH,
		pushH:       pushH,
		personStore: personStore,
		generator:   generator,
		logger:      logger,
	}
}

// Generator exposes the assignment generator for the scheduler.
func (s *Server) Generator() *chore.Generator {
	return s.generator
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// People
	mux.HandleFunc("POST /api/people", s.personH.Create)
	mux.HandleFunc("GET /api/people", s.personH.List)
	mux.HandleFunc("GET /api/people/{id}", s.personH.Get)
	mux.HandleFunc("PUT /api/people/{id}", s.personH.Update)
	mux.HandleFunc("DELETE /api/people/{id}", s.personH.Delete)
	mux.HandleFunc("POST /api/people/{id}/pin", s.personH.SetPIN)
	mux.HandleFunc("POST /api/people/{id}/pin/verify", s.personH.VerifyPIN)

	// Chore catalog
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("GET /api/chores/{id}", s.choreH.Get)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)

	// Assignments and lifecycle
	mux.HandleFunc("POST /api/assignments/generate", s.assignmentH.Generate)
	mux.HandleFunc("POST /api/assignments", s.assignmentH.Assign)
	mux.HandleFunc("GET /api/assignments", s.assignmentH.ListForDate)
	mux.HandleFunc("POST /api/assignments/{id}/complete", s.assignmentH.Complete)
	mux.HandleFunc("POST /api/completions/{id}/review", s.assignmentH.Review)
	mux.HandleFunc("GET /api/reviews/pending", s.assignmentH.PendingReview)

	// Reports
	mux.HandleFunc("GET /api/reports/individual/{id}", s.reportH.Individual)
	mux.HandleFunc("GET /api/reports/family", s.reportH.Family)

	// Photos
	if s.photoH != nil {
		mux.HandleFunc("GET /api/photos/{handle}", s.photoH.Serve)
	}

	// Push notifications
	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)
	}

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	identityMiddleware := middleware.WithIdentity(s.personStore)
	return middleware.RequestLogger(s.logger.With("component", "http"))(identityMiddleware(mux))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.Ping(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "degraded", "error": "database unreachable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
