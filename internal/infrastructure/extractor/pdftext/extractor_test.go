package pdftext

import (
	"context"
	"testing"
)

func TestExtractRejectsNonPDF(t *testing.T) {
	if _, err := NewExtractor().Extract(context.Background(), []byte("not a pdf")); err == nil {
		t.Fatalf("expected error for non-pdf input")
	}
}

func TestExtractHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewExtractor().Extract(ctx, []byte("%PDF-1.4")); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	got := normalizeWhitespace("  TOTAL   59,000 \n\n\tVAT  9,000\n")
	if got != "TOTAL 59,000\nVAT 9,000" {
		t.Fatalf("unexpected text %q", got)
	}
}
