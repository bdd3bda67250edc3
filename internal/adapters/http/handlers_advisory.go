package httpadapter

import (
	"net/http"
	"strings"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

type chatRequest struct {
	Message       string               `json:"message" validate:"required,max=8000"`
	History       []domain.ChatMessage `json:"history" validate:"max=100,dive"`
	DeepReasoning bool                 `json:"deep_reasoning"`
}

func (rt *Router) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	for _, msg := range req.History {
		if msg.Role != domain.ChatRoleUser && msg.Role != domain.ChatRoleModel {
			writeError(w, http.StatusBadRequest, "history role must be user or model")
			return
		}
	}
	reply, err := rt.svc.Advisory.Chat(r.Context(), req.Message, req.History, req.DeepReasoning)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (rt *Router) detectAnomalies(w http.ResponseWriter, r *http.Request) {
	reports, err := rt.svc.Advisory.DetectAnomalies(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"anomalies": reports})
}

func (rt *Router) commentary(w http.ResponseWriter, r *http.Request) {
	text, err := rt.svc.Advisory.Commentary(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"commentary": text})
}

// analyzeEvidence takes the document in "file" and the question in "prompt".
func (rt *Router) analyzeEvidence(w http.ResponseWriter, r *http.Request) {
	evidence, ok := rt.readEvidence(w, r)
	if !ok {
		return
	}
	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		writeError(w, http.StatusBadRequest, "form field 'prompt' is required")
		return
	}
	analysis, err := rt.svc.Advisory.AnalyzeEvidence(r.Context(), evidence, prompt)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}
