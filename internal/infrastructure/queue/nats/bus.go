package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/resilience"
)

const (
	DefaultSubject    = "compliance.client_changed"
	DefaultQueueGroup = "alert-workers"
)

// EventBus carries client change events between the API and alert workers.
type EventBus struct {
	conn       *nats.Conn
	subject    string
	queueGroup string
	executor   *resilience.Executor
}

type Options struct {
	Subject              string
	QueueGroup           string
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func Connect(url string, options Options) (*EventBus, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("eac-compliance-desk"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &EventBus{
		conn:       conn,
		subject:    orDefault(options.Subject, DefaultSubject),
		queueGroup: orDefault(options.QueueGroup, DefaultQueueGroup),
		executor:   options.ResilienceExecutor,
	}, nil
}

func (b *EventBus) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}

func (b *EventBus) PublishClientChanged(ctx context.Context, event domain.ClientChangedEvent) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	call := func(_ context.Context) error {
		if err := b.conn.Publish(b.subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if b.executor != nil {
		err = b.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

// SubscribeClientChanged blocks until ctx is done, then drains the subscription.
func (b *EventBus) SubscribeClientChanged(ctx context.Context, handler func(context.Context, domain.ClientChangedEvent) error) error {
	sub, err := b.conn.QueueSubscribe(b.subject, b.queueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		dispatch(ctx, msg.Data, handler)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := b.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := b.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

func dispatch(ctx context.Context, data []byte, handler func(context.Context, domain.ClientChangedEvent) error) {
	event, err := decodeEvent(data)
	if err != nil {
		slog.Warn("client_event_decode_failed", "error", err)
		return
	}

	handlerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := handler(handlerCtx, event); err != nil {
		slog.Error("client_event_handler_failed", "client_id", event.ClientID, "reason", event.Reason, "error", err)
	}
}

func encodeEvent(event domain.ClientChangedEvent) ([]byte, error) {
	if strings.TrimSpace(event.ClientID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "encode client event", errors.New("client id is empty"))
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode client event: %w", err)
	}
	return payload, nil
}

func decodeEvent(data []byte) (domain.ClientChangedEvent, error) {
	var event domain.ClientChangedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return domain.ClientChangedEvent{}, fmt.Errorf("decode client event: %w", err)
	}
	if strings.TrimSpace(event.ClientID) == "" {
		return domain.ClientChangedEvent{}, errors.New("decode client event: client id is empty")
	}
	return event, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
