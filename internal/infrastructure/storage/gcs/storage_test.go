package gcs

import "testing"

func TestObjectNaming(t *testing.T) {
	s := &Storage{bucket: "eac-evidence", prefix: "prod"}
	if got := s.objectName("/receipts/a.jpg"); got != "prod/receipts/a.jpg" {
		t.Fatalf("unexpected object name %q", got)
	}
	if got := s.URL("receipts/a b.pdf"); got != "https://storage.googleapis.com/eac-evidence/prod/receipts/a%20b.pdf" {
		t.Fatalf("unexpected url %q", got)
	}

	bare := &Storage{bucket: "eac-evidence"}
	if got := bare.objectName("receipts/a.jpg"); got != "receipts/a.jpg" {
		t.Fatalf("unexpected object name %q", got)
	}
}

func TestContentType(t *testing.T) {
	if got := contentType("receipts/a.pdf"); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := contentType("receipts/blob"); got != "application/octet-stream" {
		t.Fatalf("unexpected fallback %q", got)
	}
}
