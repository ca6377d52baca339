package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/relscore/relscore/internal/bus"
	"github.com/relscore/relscore/internal/config"
	"github.com/relscore/relscore/internal/evaluation"
	apperrors "github.com/relscore/relscore/internal/pkg/errors"
	"github.com/relscore/relscore/internal/pkg/hash"
	"github.com/relscore/relscore/internal/pkg/logger"
	"github.com/relscore/relscore/internal/pkg/security"
	"github.com/relscore/relscore/internal/resultstore"
)

// EvalHandler handles evaluation HTTP requests.
type EvalHandler struct {
	evaluator *evaluation.Evaluator
	store     resultstore.Store
	bus       bus.Bus
	cfg       *config.Config
	log       *logger.Logger
}

// NewEvalHandler creates a new evaluation handler.
func NewEvalHandler(evaluator *evaluation.Evaluator, store resultstore.Store, b bus.Bus, cfg *config.Config, log *logger.Logger) *EvalHandler {
	return &EvalHandler{
		evaluator: evaluator,
		store:     store,
		bus:       b,
		cfg:       cfg,
		log:       log,
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignore encoding errors - headers already sent
	_ = json.NewEncoder(w).Encode(v)
}

// RegisterRoutes registers evaluation routes.
func (h *EvalHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/evaluations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			apperrors.WriteErrorWithStatus(w, http.StatusMethodNotAllowed,
				apperrors.InvalidRequestError("method not allowed"))
			return
		}
		h.handleEvaluate(w, r)
	})

	mux.HandleFunc("/v1/evaluations/phases", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			apperrors.WriteErrorWithStatus(w, http.StatusMethodNotAllowed,
				apperrors.InvalidRequestError("method not allowed"))
			return
		}
		h.handlePhases(w, r)
	})

	mux.HandleFunc("/v1/evaluations/recent", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			apperrors.WriteErrorWithStatus(w, http.StatusMethodNotAllowed,
				apperrors.InvalidRequestError("method not allowed"))
			return
		}
		h.handleRecent(w, r)
	})
}

// evalRequest is the POST /v1/evaluations request body.
type evalRequest struct {
	AnnotationPath string         `json:"annotation_path"`
	SubmissionPath string         `json:"submission_path"`
	Phase          string         `json:"phase"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// evalResponse is the POST /v1/evaluations response body.
type evalResponse struct {
	RunID            string                   `json:"run_id"`
	Phase            string                   `json:"phase"`
	Result           []evaluation.ResultEntry `json:"result"`
	SubmissionResult evaluation.Report        `json:"submission_result"`
}

// handleEvaluate handles POST /v1/evaluations
func (h *EvalHandler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, apperrors.InvalidRequestError("invalid request body"))
		return
	}

	if err := h.validateRequest(&req); err != nil {
		apperrors.WriteError(w, err)
		return
	}

	startedAt := time.Now()
	runID := hash.RunID(req.AnnotationPath, req.SubmissionPath, req.Phase, startedAt)
	log := h.log.WithRun(runID)
	log.Info("received evaluation request",
		"phase", req.Phase,
		"annotation_file", security.SanitizeForLog(req.AnnotationPath),
		"submission_file", security.SanitizeForLog(req.SubmissionPath),
	)

	outcome, err := h.evaluator.Evaluate(r.Context(), req.AnnotationPath, req.SubmissionPath, req.Phase, req.Metadata)
	if err != nil {
		log.Error("evaluation failed", "error", err)
		h.publish(r, bus.TopicEvaluationFailed, runID, req.Phase, map[string]any{
			"error": err.Error(),
		})
		apperrors.WriteError(w, err)
		return
	}

	rec := resultstore.Record{
		RunID:    runID,
		Phase:    req.Phase,
		ScoredAt: startedAt,
		Report:   outcome.SubmissionResult,
	}
	if err := h.store.Save(r.Context(), rec); err != nil {
		// Scoring succeeded; a history write failure should not fail the run.
		log.Warn("failed to persist evaluation record", "error", err)
	}

	h.publish(r, bus.TopicEvaluationCompleted, runID, req.Phase, map[string]any{
		"report": outcome.SubmissionResult,
	})

	writeJSON(w, http.StatusOK, evalResponse{
		RunID:            runID,
		Phase:            req.Phase,
		Result:           outcome.Result,
		SubmissionResult: outcome.SubmissionResult,
	})
}

// validateRequest checks paths, phase, and file size limits.
func (h *EvalHandler) validateRequest(req *evalRequest) error {
	if req.AnnotationPath == "" {
		return apperrors.ValidationError("annotation_path is required")
	}
	if req.SubmissionPath == "" {
		return apperrors.ValidationError("submission_path is required")
	}
	if req.Phase == "" {
		return apperrors.ValidationError("phase is required")
	}

	if err := security.ValidatePath(req.AnnotationPath); err != nil {
		return apperrors.ValidationError("invalid annotation_path: " + err.Error())
	}
	if err := security.ValidatePath(req.SubmissionPath); err != nil {
		return apperrors.ValidationError("invalid submission_path: " + err.Error())
	}

	if dir := h.cfg.Eval.DataDir; dir != "" {
		for _, p := range []string{req.AnnotationPath, req.SubmissionPath} {
			ok, err := underDir(dir, p)
			if err != nil {
				return apperrors.InternalError("resolving path", err)
			}
			if !ok {
				return apperrors.ValidationError("path outside data directory").
					WithDetail("path", p)
			}
		}
	}

	if max := h.cfg.Eval.MaxFileSize; max > 0 {
		info, err := os.Stat(req.SubmissionPath)
		if err != nil {
			return apperrors.NotFoundError("submission file")
		}
		if info.Size() > max {
			return apperrors.ValidationError("submission file too large").
				WithDetail("size", strconv.FormatInt(info.Size(), 10)).
				WithDetail("max", strconv.FormatInt(max, 10))
		}
	}

	return nil
}

// underDir reports whether path resolves to a location inside dir.
func underDir(dir, path string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, err
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}

// publish emits an evaluation lifecycle event; failures are logged only.
func (h *EvalHandler) publish(r *http.Request, topic, runID, phase string, payload map[string]any) {
	payload["run_id"] = runID
	payload["phase"] = phase

	event := bus.Event{
		ID:        runID,
		Type:      topic,
		Source:    "relscore-server",
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	if err := h.bus.Publish(r.Context(), topic, event); err != nil {
		h.log.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// handlePhases handles GET /v1/evaluations/phases
func (h *EvalHandler) handlePhases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"phases": evaluation.Phases(),
	})
}

// handleRecent handles GET /v1/evaluations/recent?phase=supervised&limit=10
func (h *EvalHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	phase := r.URL.Query().Get("phase")
	if phase == "" {
		apperrors.WriteError(w, apperrors.ValidationError("phase query parameter is required"))
		return
	}
	if !evaluation.IsRecognizedPhase(phase) {
		apperrors.WriteError(w, apperrors.ValidationError("unrecognized phase: "+phase))
		return
	}

	limit := h.cfg.Results.RecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apperrors.WriteError(w, apperrors.ValidationError("limit must be a positive integer"))
			return
		}
		if n < limit {
			limit = n
		}
	}

	records, err := h.store.Recent(r.Context(), phase, limit)
	if err != nil {
		h.log.Error("failed to load recent results", "phase", phase, "error", err)
		apperrors.WriteError(w, err)
		return
	}
	if records == nil {
		records = []resultstore.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"phase":   phase,
		"results": records,
	})
}
