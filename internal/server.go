// Package internal exposes the HTTP surface of the service: health probe,
// metrics snapshot, run trigger and run history.
package internal

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"

	"user-flag/auth"
	apperrors "user-flag/errors"
	"user-flag/observability"
	"user-flag/repositories"
	"user-flag/services"
)

var validate = validator.New()

type RunRequest struct {
	InputFilePath string `json:"input_file_path" validate:"required"`
}

type TokenRequest struct {
	Operator string `json:"operator" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Server routes the REST endpoints onto the pipeline service. POST /run is
// bearer-protected; the read-only endpoints are open.
type Server struct {
	log          *slog.Logger
	service      services.IPipelineService
	metrics      *observability.Recorder
	runs         repositories.IRunRepository
	tokens       auth.TokenManager
	passwordHash string
}

func NewServer(
	log *slog.Logger,
	service services.IPipelineService,
	metrics *observability.Recorder,
	runs repositories.IRunRepository,
	tokens auth.TokenManager,
	passwordHash string,
) *Server {
	return &Server{
		log:          log,
		service:      service,
		metrics:      metrics,
		runs:         runs,
		tokens:       tokens,
		passwordHash: passwordHash,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /runs", s.handleRuns)
	mux.HandleFunc("POST /auth/token", s.handleToken)
	mux.HandleFunc("POST /run", auth.Middleware(s.tokens, s.handleRun))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "user-flag",
	})
}

// handleMetrics serves the latest run counters together with self-process
// stats. Counters are per-run: they reset when a run starts.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	if !s.metrics.Started() {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": apperrors.ErrNoRunYet.Error(),
		})
		return
	}

	payload := map[string]any{
		"pipeline": s.metrics.Snapshot(),
	}
	if stats, err := observability.SelfStats(); err == nil {
		payload["system"] = stats
	} else {
		s.log.Debug("Self stats unavailable", "error", err)
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleRuns(w http.ResponseWriter, _ *http.Request) {
	records, err := s.runs.ListRuns(20)
	if err != nil {
		s.log.Error("Listing runs failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "run history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": records})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := auth.VerifyPassword(req.Password, s.passwordHash); err != nil {
		s.log.Warn("Token request rejected", "operator", req.Operator)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid operator password"})
		return
	}

	token, err := s.tokens.Generate(req.Operator)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "token generation failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleRun executes the full pipeline synchronously and answers with the
// stored run record once the batch is drained.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if _, err := os.Stat(req.InputFilePath); errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "input file not found: " + req.InputFilePath,
		})
		return
	}

	s.log.Info("Executing pipeline", "input", req.InputFilePath)
	summary, err := s.service.Execute(r.Context(), req.InputFilePath)
	if err != nil {
		s.log.Error("Pipeline execution failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":         summary.Record,
		"output_path": summary.Record.OutputPath,
	})
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON body"})
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
