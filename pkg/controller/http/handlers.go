package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/medrec-lab/asclepius/pkg/domain/types"
	"github.com/medrec-lab/asclepius/pkg/repository/firestore"
	"github.com/medrec-lab/asclepius/pkg/repository/memory"
	"github.com/medrec-lab/asclepius/pkg/usecase"
	"github.com/medrec-lab/asclepius/pkg/utils/errutil"
	"github.com/medrec-lab/asclepius/pkg/utils/safe"
)

const serviceName = "asclepius"

// defaultSimilarLimit caps neighbor lookups when no limit is given
const defaultSimilarLimit = 5

// recordRequest is the payload shared by the single-record endpoints. The
// raw content is tagged so that log redaction catches it if the struct is
// ever logged.
type recordRequest struct {
	Content    string           `json:"content" masq:"secret"`
	RecordType types.RecordType `json:"record_type"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mode := types.ModeRuleBased
	if s.uc.Semantic() {
		mode = types.ModeSemantic
	}

	respond(w, r, map[string]any{
		"status":  "healthy",
		"service": serviceName,
		"version": s.version,
		"mode":    mode,
	})
}

// decodeRecord parses and validates a single-record request body. A nil
// result means the error response was already written.
func decodeRecord(w http.ResponseWriter, r *http.Request) *recordRequest {
	defer safe.Close(r.Context(), r.Body)

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return nil
	}
	if req.Content == "" {
		errutil.HandleHTTP(r.Context(), w, goerr.New("no content provided"), http.StatusBadRequest)
		return nil
	}
	return &req
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	req := decodeRecord(w, r)
	if req == nil {
		return
	}

	respond(w, r, s.uc.Summarize(r.Context(), req.Content, req.RecordType))
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	req := decodeRecord(w, r)
	if req == nil {
		return
	}

	respond(w, r, s.uc.Extract(r.Context(), req.Content))
}

func (s *Server) handleAssessRisk(w http.ResponseWriter, r *http.Request) {
	req := decodeRecord(w, r)
	if req == nil {
		return
	}

	respond(w, r, s.uc.AssessRisk(r.Context(), req.Content))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req := decodeRecord(w, r)
	if req == nil {
		return
	}

	analysis, err := s.uc.Analyze(r.Context(), req.Content, req.RecordType)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	respond(w, r, analysis)
}

func (s *Server) handleBatchAnalyze(w http.ResponseWriter, r *http.Request) {
	defer safe.Close(r.Context(), r.Body)

	var req struct {
		Records []usecase.RecordInput `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}
	if len(req.Records) == 0 {
		errutil.HandleHTTP(r.Context(), w, goerr.New("no records provided"), http.StatusBadRequest)
		return
	}

	result, err := s.uc.BatchAnalyze(r.Context(), req.Records)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	respond(w, r, result)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := types.AnalysisID(chi.URLParam(r, "id"))

	analysis, err := s.uc.GetAnalysis(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	respond(w, r, analysis)
}

func (s *Server) handleFindSimilar(w http.ResponseWriter, r *http.Request) {
	id := types.AnalysisID(chi.URLParam(r, "id"))

	limit := defaultSimilarLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			errutil.HandleHTTP(r.Context(), w, goerr.New("invalid limit", goerr.V("limit", raw)), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	similar, err := s.uc.FindSimilar(r.Context(), id, limit)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
		return
	}

	respond(w, r, similar)
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNoEmbeddingStored):
		return http.StatusBadRequest
	case errors.Is(err, memory.ErrNotFound), errors.Is(err, firestore.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
