package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// APIHandler handles JSON API requests
type APIHandler struct {
	Service *QueryService
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the body of every /query response, success or not: a
// single natural-language sentence.
type QueryResponse struct {
	Response string `json:"response"`
}

// Query handles a business question end to end. The body always carries a
// natural-language response; the status code reflects the pipeline outcome.
func (h *APIHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, QueryResponse{
			Response: "Please send a JSON body with a 'question' field.",
		})
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		respondJSON(w, http.StatusBadRequest, QueryResponse{
			Response: "Please provide a question.",
		})
		return
	}

	result := h.Service.Answer(r.Context(), req.Question)

	status := http.StatusOK
	switch result.Outcome {
	case OutcomeQuota:
		status = http.StatusTooManyRequests
	case OutcomeError:
		status = http.StatusInternalServerError
	}

	respondJSON(w, status, QueryResponse{Response: result.Text})
}

// Health reports service liveness.
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondJSON is a helper function to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("JSON encoding error: %v", err)
	}
}
