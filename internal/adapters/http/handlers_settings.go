package httpadapter

import (
	"net/http"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

type loginRequest struct {
	Role string `json:"role" validate:"required,oneof=client auditor"`
}

type languageRequest struct {
	Language string `json:"language" validate:"required,oneof=en lg sw"`
}

type jurisdictionRequest struct {
	Country string `json:"country" validate:"required,max=32"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

func (rt *Router) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.svc.Session.Session(r.Context()))
}

func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	session, err := rt.svc.Session.Login(r.Context(), domain.Role(req.Role))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (rt *Router) logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.svc.Session.Logout(r.Context()))
}

func (rt *Router) setLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	session, err := rt.svc.Session.SetLanguage(r.Context(), domain.Language(req.Language))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (rt *Router) getJurisdiction(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.svc.Settings.Jurisdiction(r.Context()))
}

func (rt *Router) setJurisdiction(w http.ResponseWriter, r *http.Request) {
	var req jurisdictionRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	country, ok := domain.ParseCountry(req.Country)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown country: "+req.Country)
		return
	}
	jurisdiction, err := rt.svc.Settings.SetJurisdiction(r.Context(), country)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jurisdiction)
}

func (rt *Router) getAlertConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.svc.Settings.AlertConfig(r.Context()))
}

func (rt *Router) setAlertConfig(w http.ResponseWriter, r *http.Request) {
	var req domain.ComplianceAlertConfig
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	cfg, err := rt.svc.Settings.SetAlertConfig(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (rt *Router) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": rt.svc.Settings.Categories(r.Context())})
}

func (rt *Router) addCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	categories, err := rt.svc.Settings.AddCategory(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"categories": categories})
}

func (rt *Router) removeCategory(w http.ResponseWriter, r *http.Request) {
	categories, err := rt.svc.Settings.RemoveCategory(r.Context(), r.PathValue("name"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}
