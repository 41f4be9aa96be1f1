package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	rerrors "github.com/hybridrank/hybridrank/internal/errors"
)

type searchRequest struct {
	Query          string `json:"query"`
	K              int    `json:"k"`
	IncludeContext *bool  `json:"include_context,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// handleRagQuery runs a context-aware search and returns results in
// narrative order together with their chunk-context windows.
func (s *Server) handleRagQuery(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}

	includeContext := true
	if req.IncludeContext != nil {
		includeContext = *req.IncludeContext
	}

	out, err := s.reranker.SearchWithContext(r.Context(), req.Query, req.K, includeContext)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results":                out.Results,
		"has_sequential_content": out.HasSequentialContent,
		"context_available":      len(out.Context) > 0,
		"context":                out.Context,
	})
}

// handleSearch runs a plain search without context expansion.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}

	results, err := s.reranker.Search(r.Context(), req.Query, req.K)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// handleChunkContext returns the chunks surrounding the target chunk id.
// The radius query parameter defaults to 3.
func (s *Server) handleChunkContext(w http.ResponseWriter, r *http.Request) {
	chunkID, err := strconv.Atoi(r.PathValue("chunkID"))
	if err != nil || chunkID < 1 {
		s.writeError(w, r, rerrors.New(rerrors.ErrCodeInvalidInput, "chunk id must be a positive integer", err))
		return
	}

	radius := 3
	if raw := r.URL.Query().Get("radius"); raw != "" {
		radius, err = strconv.Atoi(raw)
		if err != nil || radius < 1 {
			s.writeError(w, r, rerrors.New(rerrors.ErrCodeInvalidInput, "radius must be a positive integer", err))
			return
		}
	}

	chunks := s.reranker.GetChunkContext(chunkID, radius)
	writeJSON(w, http.StatusOK, map[string]any{
		"chunk_id":             chunkID,
		"context":              chunks,
		"total_context_chunks": len(chunks),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"corpus_size": s.reranker.CorpusSize(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reranker.Metrics())
}

func (s *Server) decodeSearchRequest(w http.ResponseWriter, r *http.Request) (searchRequest, bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, rerrors.New(rerrors.ErrCodeInvalidInput, "request body must be valid JSON", err))
		return req, false
	}
	if req.Query == "" {
		s.writeError(w, r, rerrors.New(rerrors.ErrCodeQueryEmpty, "missing 'query' field in request", nil))
		return req, false
	}
	return req, true
}

// writeError maps validation errors to 400 and everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if rerrors.GetCategory(err) == rerrors.CategoryValidation {
		status = http.StatusBadRequest
	}

	s.logger.Error("request failed",
		"method", r.Method, "path", r.URL.Path,
		"status", status, "error", err)

	writeJSON(w, status, errorResponse{
		Error: err.Error(),
		Code:  rerrors.GetCode(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
