// Package llm holds provider-neutral wrappers around advisory adapters.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/core/ports"
)

type CallRecorder interface {
	RecordAdvisoryCall(operation, outcome string, duration time.Duration)
}

const (
	OutcomeSuccess   = "success"
	OutcomeTemporary = "temporary"
	OutcomeCancelled = "cancelled"
	OutcomeError     = "error"
)

// InstrumentedAdvisor records the outcome and latency of every advisory call
// and bounds each call by an optional timeout.
type InstrumentedAdvisor struct {
	next     ports.Advisor
	recorder CallRecorder
	timeout  time.Duration
	now      func() time.Time
}

type InstrumentOption func(*InstrumentedAdvisor)

// WithCallTimeout caps every advisory call, retries included.
func WithCallTimeout(d time.Duration) InstrumentOption {
	return func(a *InstrumentedAdvisor) {
		a.timeout = d
	}
}

func Instrument(next ports.Advisor, recorder CallRecorder, opts ...InstrumentOption) *InstrumentedAdvisor {
	a := &InstrumentedAdvisor{next: next, recorder: recorder, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *InstrumentedAdvisor) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	ctx, cancel := a.bound(ctx)
	defer cancel()
	start := a.now()
	out, err := a.next.Chat(ctx, req)
	a.record("chat", start, err)
	return out, err
}

func (a *InstrumentedAdvisor) ExtractReceipt(ctx context.Context, evidence domain.Evidence, country domain.Country) (domain.ReceiptDraft, error) {
	ctx, cancel := a.bound(ctx)
	defer cancel()
	start := a.now()
	out, err := a.next.ExtractReceipt(ctx, evidence, country)
	a.record("extract_receipt", start, err)
	return out, err
}

func (a *InstrumentedAdvisor) AnalyzeAnomalies(ctx context.Context, txs []domain.Transaction, country domain.Country) ([]domain.AnomalyReport, error) {
	ctx, cancel := a.bound(ctx)
	defer cancel()
	start := a.now()
	out, err := a.next.AnalyzeAnomalies(ctx, txs, country)
	a.record("analyze_anomalies", start, err)
	return out, err
}

func (a *InstrumentedAdvisor) GenerateCommentary(ctx context.Context, txs []domain.Transaction, country domain.Country, lang domain.Language) (string, error) {
	ctx, cancel := a.bound(ctx)
	defer cancel()
	start := a.now()
	out, err := a.next.GenerateCommentary(ctx, txs, country, lang)
	a.record("generate_commentary", start, err)
	return out, err
}

func (a *InstrumentedAdvisor) AnalyzeEvidence(ctx context.Context, evidence domain.Evidence, prompt string) (string, error) {
	ctx, cancel := a.bound(ctx)
	defer cancel()
	start := a.now()
	out, err := a.next.AnalyzeEvidence(ctx, evidence, prompt)
	a.record("analyze_evidence", start, err)
	return out, err
}

func (a *InstrumentedAdvisor) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}

func (a *InstrumentedAdvisor) record(operation string, start time.Time, err error) {
	if a.recorder == nil {
		return
	}
	a.recorder.RecordAdvisoryCall(operation, Outcome(err), a.now().Sub(start))
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	case domain.IsKind(err, domain.ErrTemporary):
		return OutcomeTemporary
	default:
		return OutcomeError
	}
}
