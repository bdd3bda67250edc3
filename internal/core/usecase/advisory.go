package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/core/ports"
)

// AdvisoryUseCase forwards workspace context to the advisory service. Results
// are view state only; nothing here writes transactions or clients.
type AdvisoryUseCase struct {
	ws        *Workspace
	advisor   ports.Advisor
	extractor ports.TextExtractor
}

func NewAdvisoryUseCase(ws *Workspace, advisor ports.Advisor, extractor ports.TextExtractor) *AdvisoryUseCase {
	return &AdvisoryUseCase{ws: ws, advisor: advisor, extractor: extractor}
}

func (uc *AdvisoryUseCase) Chat(ctx context.Context, message string, history []domain.ChatMessage, deepReasoning bool) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "advisory chat", errors.New("message is empty"))
	}
	uc.ws.mu.Lock()
	country := uc.ws.session.Country
	uc.ws.mu.Unlock()

	reply, err := uc.advisor.Chat(ctx, domain.ChatRequest{
		Message:       message,
		History:       history,
		Country:       country,
		DeepReasoning: deepReasoning,
	})
	if err != nil {
		return "", domain.WrapError(domain.ErrAdvisoryUnavailable, "advisory chat", err)
	}
	return reply, nil
}

// DetectAnomalies reviews the current ledger. Every report gets an id and
// starts open.
func (uc *AdvisoryUseCase) DetectAnomalies(ctx context.Context) ([]domain.AnomalyReport, error) {
	uc.ws.mu.Lock()
	txs := cloneTransactions(uc.ws.transactions)
	country := uc.ws.session.Country
	uc.ws.mu.Unlock()

	reports, err := uc.advisor.AnalyzeAnomalies(ctx, txs, country)
	if err != nil {
		return nil, domain.WrapError(domain.ErrAdvisoryUnavailable, "detect anomalies", err)
	}
	out := make([]domain.AnomalyReport, 0, len(reports))
	for _, r := range reports {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if !r.Severity.Valid() {
			r.Severity = domain.SeverityLow
		}
		r.Status = domain.AnomalyOpen
		out = append(out, r)
	}
	return out, nil
}

func (uc *AdvisoryUseCase) Commentary(ctx context.Context) (string, error) {
	uc.ws.mu.Lock()
	txs := cloneTransactions(uc.ws.transactions)
	country := uc.ws.session.Country
	lang := uc.ws.session.Language
	uc.ws.mu.Unlock()

	text, err := uc.advisor.GenerateCommentary(ctx, txs, country, lang)
	if err != nil {
		return "", domain.WrapError(domain.ErrAdvisoryUnavailable, "generate commentary", err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.NoCommentary, nil
	}
	return text, nil
}

func (uc *AdvisoryUseCase) AnalyzeEvidence(ctx context.Context, evidence domain.Evidence, prompt string) (string, error) {
	if len(evidence.Data) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "analyze evidence", errors.New("empty upload"))
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "analyze evidence", errors.New("prompt is empty"))
	}

	text, err := uc.advisor.AnalyzeEvidence(ctx, extractTextLayer(ctx, uc.extractor, evidence), prompt)
	if err != nil {
		return "", domain.WrapError(domain.ErrAdvisoryUnavailable, "analyze evidence", err)
	}
	return text, nil
}

// extractTextLayer attaches the text of PDF and plain-text evidence. Extraction
// failures are logged and the evidence is sent as-is.
func extractTextLayer(ctx context.Context, extractor ports.TextExtractor, evidence domain.Evidence) domain.Evidence {
	if extractor == nil || evidence.Text != "" || !hasTextLayer(evidence.MimeType) {
		return evidence
	}
	text, err := extractor.Extract(ctx, evidence)
	if err != nil {
		slog.Warn("evidence_text_extract_failed", "filename", evidence.Filename, "error", err)
		return evidence
	}
	evidence.Text = text
	return evidence
}

func hasTextLayer(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return mimeType == mimePDF || strings.HasPrefix(mimeType, "text/")
}
