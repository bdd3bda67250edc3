package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kirillkom/eac-compliance-desk/internal/config"
	"github.com/kirillkom/eac-compliance-desk/internal/core/ports"
	"github.com/kirillkom/eac-compliance-desk/internal/observability/metrics"
)

const maxJSONBodyBytes = 1 << 20

// Services groups the inbound ports served over HTTP.
type Services struct {
	Session  ports.SessionService
	Settings ports.SettingsService
	Ledger   ports.LedgerService
	Receipts ports.ReceiptReviewService
	Desk     ports.AuditDeskService
	Advisory ports.AdvisoryService
}

type Router struct {
	cfg      config.Config
	svc      Services
	metrics  *metrics.HTTPServerMetrics
	validate *validator.Validate
}

type RouterOption func(*Router)

// WithMetrics exposes /metrics and records request and rejection metrics.
func WithMetrics(m *metrics.HTTPServerMetrics) RouterOption {
	return func(rt *Router) {
		rt.metrics = m
	}
}

func NewRouter(cfg config.Config, services Services, opts ...RouterOption) *Router {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	rt := &Router{
		cfg:      cfg,
		svc:      services,
		validate: validate,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("GET /v1/session", rt.getSession)
	api.HandleFunc("POST /v1/session/login", rt.login)
	api.HandleFunc("POST /v1/session/logout", rt.logout)
	api.HandleFunc("PUT /v1/session/language", rt.setLanguage)

	api.HandleFunc("GET /v1/settings/jurisdiction", rt.getJurisdiction)
	api.HandleFunc("PUT /v1/settings/jurisdiction", rt.setJurisdiction)
	api.HandleFunc("GET /v1/settings/alerts", rt.getAlertConfig)
	api.HandleFunc("PUT /v1/settings/alerts", rt.setAlertConfig)
	api.HandleFunc("GET /v1/settings/categories", rt.listCategories)
	api.HandleFunc("POST /v1/settings/categories", rt.addCategory)
	api.HandleFunc("DELETE /v1/settings/categories/{name}", rt.removeCategory)

	api.HandleFunc("GET /v1/transactions", rt.listTransactions)
	api.HandleFunc("POST /v1/transactions", rt.addTransaction)
	api.HandleFunc("GET /v1/transactions/export", rt.exportLedger)
	api.HandleFunc("PATCH /v1/transactions/{id}/evidence", rt.setEvidenceStatus)
	api.HandleFunc("GET /v1/tax/summary", rt.taxSummary)
	api.HandleFunc("GET /v1/compliance/score", rt.complianceScore)

	api.HandleFunc("POST /v1/receipts/scan", rt.scanReceipt)
	api.HandleFunc("DELETE /v1/receipts/scan", rt.cancelScan)
	api.HandleFunc("POST /v1/receipts/confirm", rt.confirmReceipt)

	api.HandleFunc("GET /v1/clients", rt.listClients)
	api.HandleFunc("GET /v1/clients/{id}", rt.getClient)
	api.HandleFunc("POST /v1/clients/{id}/select", rt.selectClient)
	api.HandleFunc("PUT /v1/clients/{id}/phases/{phaseId}", rt.setPhaseStatus)
	api.HandleFunc("POST /v1/clients/{id}/checklist/{itemId}/toggle", rt.toggleChecklistItem)
	api.HandleFunc("POST /v1/clients/{id}/anomalies/confirm", rt.confirmAnomalies)
	api.HandleFunc("GET /v1/portfolio", rt.portfolio)
	api.HandleFunc("GET /v1/alerts", rt.listAlerts)

	api.HandleFunc("POST /v1/advisory/chat", rt.chat)
	api.HandleFunc("POST /v1/advisory/anomalies", rt.detectAnomalies)
	api.HandleFunc("POST /v1/advisory/commentary", rt.commentary)
	api.HandleFunc("POST /v1/advisory/evidence", rt.analyzeEvidence)

	var onReject func(string)
	if rt.metrics != nil {
		onReject = rt.metrics.RecordRejected
	}
	gated := newBackpressureGate(rt.cfg.APIBackpressureMaxInFlight, rt.cfg.APIBackpressureWait, onReject).wrap(api)
	gated = rateLimitMiddleware(gated, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, onReject)

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		root.Handle("GET /metrics", rt.metrics.Handler())
	}
	root.Handle("/", gated)

	var handler http.Handler = root
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON reads a bounded JSON body into dst and validates its tags.
// It writes the 400 response itself and reports whether handling continues.
func (rt *Router) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := rt.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request"
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", jsonFieldPath(fe.Namespace()), fe.Tag()))
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// jsonFieldPath drops the struct name from a validator namespace.
func jsonFieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
