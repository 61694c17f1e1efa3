package review

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blog-agent/internal/agent/publisher"
	"github.com/blog-agent/internal/config"
	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/internal/storage"
	"github.com/blog-agent/pkg/logger"
)

// Coordinator is the subset of the publish agent the review surface
// drives.
type Coordinator interface {
	Approve(ctx context.Context, draftID string) (*publisher.PublishResult, error)
	Reject(ctx context.Context, draftID string) error
}

// Server exposes the pending-draft review queue over HTTP.
type Server struct {
	coordinator Coordinator
	repository  storage.Repository
	cfg         config.ReviewConfig
	log         *logger.Logger
}

// NewServer creates a review server.
func NewServer(coordinator Coordinator, repository storage.Repository, cfg config.ReviewConfig, log *logger.Logger) *Server {
	return &Server{
		coordinator: coordinator,
		repository:  repository,
		cfg:         cfg,
		log:         log.WithComponent("review"),
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Route("/drafts", func(r chi.Router) {
		r.Get("/", s.handleListDrafts)
		r.Post("/{id}/approve", s.handleApprove)
		r.Post("/{id}/reject", s.handleReject)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("Review server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	filter := storage.DefaultDraftFilter()
	if status := r.URL.Query().Get("status"); status != "" {
		s := models.DraftStatus(status)
		filter.Status = &s
	}

	drafts, err := s.repository.ListDrafts(r.Context(), filter)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list drafts")
		writeError(w, http.StatusInternalServerError, "failed to list drafts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"drafts": drafts,
		"count":  len(drafts),
	})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := s.coordinator.Approve(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "draft not found")
			return
		}
		s.log.Error().Err(err).Str("draft_id", id).Msg("Approve failed")
		writeError(w, http.StatusInternalServerError, "approve failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"draft_id":   id,
		"post_id":    result.PostID,
		"publish_at": result.PublishAt,
	})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.coordinator.Reject(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "draft not found")
			return
		}
		s.log.Error().Err(err).Str("draft_id", id).Msg("Reject failed")
		writeError(w, http.StatusInternalServerError, "reject failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"draft_id": id, "status": "rejected"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
