package httpadapter

import (
	"net/http"
	"strings"

	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

type phaseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in-progress completed delayed"`
}

type confirmAnomaliesRequest struct {
	Reports []domain.AnomalyReport `json:"reports" validate:"max=500"`
}

func parseSortKey(raw string) (compliance.SortKey, bool) {
	switch key := compliance.SortKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case "":
		return compliance.SortByName, true
	case compliance.SortByName, compliance.SortByCompliance, compliance.SortByRisk:
		return key, true
	default:
		return "", false
	}
}

func (rt *Router) listClients(w http.ResponseWriter, r *http.Request) {
	sortKey, ok := parseSortKey(r.URL.Query().Get("sort"))
	if !ok {
		writeError(w, http.StatusBadRequest, "sort must be one of name, compliance, risk")
		return
	}
	clients := rt.svc.Desk.Clients(r.Context(), r.URL.Query().Get("q"), sortKey)
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (rt *Router) getClient(w http.ResponseWriter, r *http.Request) {
	client, err := rt.svc.Desk.Client(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// selectClient makes the client the active one for the auditor session and
// switches the jurisdiction to the client's country.
func (rt *Router) selectClient(w http.ResponseWriter, r *http.Request) {
	client, err := rt.svc.Desk.SelectClient(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (rt *Router) setPhaseStatus(w http.ResponseWriter, r *http.Request) {
	var req phaseStatusRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	client, err := rt.svc.Desk.SetPhaseStatus(r.Context(), r.PathValue("id"), r.PathValue("phaseId"), domain.PhaseStatus(req.Status))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (rt *Router) toggleChecklistItem(w http.ResponseWriter, r *http.Request) {
	client, err := rt.svc.Desk.ToggleChecklistItem(r.Context(), r.PathValue("id"), r.PathValue("itemId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (rt *Router) confirmAnomalies(w http.ResponseWriter, r *http.Request) {
	var req confirmAnomaliesRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	client, err := rt.svc.Desk.ConfirmAnomalies(r.Context(), r.PathValue("id"), req.Reports)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (rt *Router) portfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.svc.Desk.Portfolio(r.Context()))
}

func (rt *Router) listAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"alerts": rt.svc.Desk.Alerts(r.Context())})
}
