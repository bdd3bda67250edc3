package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/kirillkom/eac-compliance-desk/internal/core/compliance"
	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

var fixedNow = time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type storeFake struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   map[string]int
	loadErr error
	saveErr error
}

func newStoreFake() *storeFake {
	return &storeFake{data: map[string][]byte{}, saves: map[string]int{}}
}

func (s *storeFake) Load(_ context.Context, key string, dst any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return false, s.loadErr
	}
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *storeFake) Save(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	s.saves[key]++
	return nil
}

func (s *storeFake) put(key string, value any) {
	raw, _ := json.Marshal(value)
	s.data[key] = raw
}

func (s *storeFake) putRaw(key, raw string) {
	s.data[key] = []byte(raw)
}

func (s *storeFake) saveCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[key]
}

type advisorFake struct {
	chatReply   string
	chatReq     domain.ChatRequest
	draft       domain.ReceiptDraft
	reports     []domain.AnomalyReport
	commentary  string
	analysis    string
	evidence    domain.Evidence
	err         error
	onExtract   func()
	extractCall int
}

func (f *advisorFake) Chat(_ context.Context, req domain.ChatRequest) (string, error) {
	f.chatReq = req
	return f.chatReply, f.err
}

func (f *advisorFake) ExtractReceipt(_ context.Context, evidence domain.Evidence, _ domain.Country) (domain.ReceiptDraft, error) {
	f.extractCall++
	f.evidence = evidence
	if f.onExtract != nil {
		hook := f.onExtract
		f.onExtract = nil
		hook()
	}
	return f.draft, f.err
}

func (f *advisorFake) AnalyzeAnomalies(context.Context, []domain.Transaction, domain.Country) ([]domain.AnomalyReport, error) {
	return f.reports, f.err
}

func (f *advisorFake) GenerateCommentary(context.Context, []domain.Transaction, domain.Country, domain.Language) (string, error) {
	return f.commentary, f.err
}

func (f *advisorFake) AnalyzeEvidence(_ context.Context, evidence domain.Evidence, _ string) (string, error) {
	f.evidence = evidence
	return f.analysis, f.err
}

type publisherFake struct {
	events []domain.ClientChangedEvent
	err    error
}

func (p *publisherFake) PublishClientChanged(_ context.Context, event domain.ClientChangedEvent) error {
	p.events = append(p.events, event)
	return p.err
}

type evidenceStorageFake struct {
	saved map[string]string
	err   error
}

func (s *evidenceStorageFake) Save(_ context.Context, key string, data io.Reader) error {
	if s.err != nil {
		return s.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if s.saved == nil {
		s.saved = map[string]string{}
	}
	s.saved[key] = string(raw)
	return nil
}

func (s *evidenceStorageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := s.saved[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader([]byte(raw))), nil
}

func (s *evidenceStorageFake) URL(key string) string {
	return "file:///evidence/" + key
}

type extractorFake struct {
	text  string
	err   error
	calls int
}

func (e *extractorFake) Extract(context.Context, domain.Evidence) (string, error) {
	e.calls++
	return e.text, e.err
}

type exporterFake struct {
	rows    int
	summary compliance.TaxSummary
}

func (e *exporterFake) ExportLedger(w io.Writer, txs []domain.Transaction, summary compliance.TaxSummary) error {
	e.rows = len(txs)
	e.summary = summary
	_, err := w.Write([]byte("report"))
	return err
}

func (e *exporterFake) ContentType() string   { return "text/plain" }
func (e *exporterFake) FileExtension() string { return "txt" }

func newTestWorkspace(store *storeFake) *Workspace {
	return LoadWorkspace(context.Background(), store, domain.DefaultJurisdictions(), WithClock(fixedClock))
}
