package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

type recorderFake struct {
	calls []string
	last  time.Duration
}

func (r *recorderFake) RecordAdvisoryCall(operation, outcome string, d time.Duration) {
	r.calls = append(r.calls, operation+"/"+outcome)
	r.last = d
}

type advisorStub struct {
	err error
}

func (s advisorStub) Chat(context.Context, domain.ChatRequest) (string, error) { return "ok", s.err }
func (s advisorStub) ExtractReceipt(context.Context, domain.Evidence, domain.Country) (domain.ReceiptDraft, error) {
	return domain.ReceiptDraft{}, s.err
}
func (s advisorStub) AnalyzeAnomalies(context.Context, []domain.Transaction, domain.Country) ([]domain.AnomalyReport, error) {
	return nil, s.err
}
func (s advisorStub) GenerateCommentary(context.Context, []domain.Transaction, domain.Country, domain.Language) (string, error) {
	return "", s.err
}
func (s advisorStub) AnalyzeEvidence(context.Context, domain.Evidence, string) (string, error) {
	return "", s.err
}

func TestInstrumentedAdvisorRecordsOutcomes(t *testing.T) {
	rec := &recorderFake{}
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ok := Instrument(advisorStub{}, rec)
	ok.now = func() time.Time {
		clock = clock.Add(250 * time.Millisecond)
		return clock
	}
	if reply, err := ok.Chat(context.Background(), domain.ChatRequest{Message: "hi"}); err != nil || reply != "ok" {
		t.Fatalf("Chat() = %q, %v", reply, err)
	}
	if rec.last != 250*time.Millisecond {
		t.Fatalf("expected 250ms duration, got %v", rec.last)
	}

	temp := Instrument(advisorStub{err: domain.WrapError(domain.ErrTemporary, "gemini chat", errors.New("503"))}, rec)
	_, _ = temp.ExtractReceipt(context.Background(), domain.Evidence{}, domain.Kenya)
	_, _ = temp.AnalyzeAnomalies(context.Background(), nil, domain.Kenya)

	failed := Instrument(advisorStub{err: errors.New("bad request")}, rec)
	_, _ = failed.GenerateCommentary(context.Background(), nil, domain.Kenya, domain.LanguageEnglish)

	cancelled := Instrument(advisorStub{err: fmt.Errorf("call: %w", context.Canceled)}, rec)
	_, _ = cancelled.AnalyzeEvidence(context.Background(), domain.Evidence{}, "p")

	want := []string{
		"chat/success",
		"extract_receipt/temporary",
		"analyze_anomalies/temporary",
		"generate_commentary/error",
		"analyze_evidence/cancelled",
	}
	if fmt.Sprint(rec.calls) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", rec.calls, want)
	}
}

func TestInstrumentWithoutRecorder(t *testing.T) {
	a := Instrument(advisorStub{}, nil)
	if _, err := a.Chat(context.Background(), domain.ChatRequest{}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
}

type blockingAdvisor struct {
	advisorStub
}

func (blockingAdvisor) Chat(ctx context.Context, _ domain.ChatRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestCallTimeoutCancelsSlowCall(t *testing.T) {
	rec := &recorderFake{}
	a := Instrument(blockingAdvisor{}, rec, WithCallTimeout(10*time.Millisecond))

	_, err := a.Chat(context.Background(), domain.ChatRequest{Message: "hello"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0] != "chat/cancelled" {
		t.Fatalf("unexpected calls %v", rec.calls)
	}
}
