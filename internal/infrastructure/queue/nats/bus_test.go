package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

func TestEventPayloadRoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	payload, err := encodeEvent(domain.ClientChangedEvent{ClientID: "c1", Reason: domain.ReasonChecklist, At: at})
	if err != nil {
		t.Fatalf("encodeEvent() error = %v", err)
	}
	if string(payload) != `{"client_id":"c1","reason":"checklist","at":"2025-06-10T09:00:00Z"}` {
		t.Fatalf("unexpected payload %s", payload)
	}

	event, err := decodeEvent(payload)
	if err != nil {
		t.Fatalf("decodeEvent() error = %v", err)
	}
	if event.ClientID != "c1" || event.Reason != domain.ReasonChecklist || !event.At.Equal(at) {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestEncodeRejectsMissingClient(t *testing.T) {
	if _, err := encodeEvent(domain.ClientChangedEvent{}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDispatchSkipsUndecodableMessages(t *testing.T) {
	called := 0
	handler := func(context.Context, domain.ClientChangedEvent) error {
		called++
		return nil
	}

	dispatch(context.Background(), []byte("c1"), handler)
	dispatch(context.Background(), []byte(`{"reason":"checklist"}`), handler)
	if called != 0 {
		t.Fatalf("handler must not run for invalid payloads")
	}

	dispatch(context.Background(), []byte(`{"client_id":"c2","reason":"phase_status"}`), handler)
	if called != 1 {
		t.Fatalf("expected handler to run once, got %d", called)
	}
}

func TestDispatchSurvivesHandlerError(t *testing.T) {
	dispatch(context.Background(), []byte(`{"client_id":"c2"}`), func(context.Context, domain.ClientChangedEvent) error {
		return errors.New("store down")
	})
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	if err := wrapTemporaryIfNeeded(fmt.Errorf("nats publish: %w", nats.ErrConnectionClosed)); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected closed connection to be temporary, got %v", err)
	}
	if err := wrapTemporaryIfNeeded(nats.ErrBadSubject); domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("bad subject must stay permanent, got %v", err)
	}
}
