package bootstrap

import (
	"context"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/core/ports"
)

type publishRecorder interface {
	RecordEventPublished(reason string, err error)
}

type instrumentedPublisher struct {
	next     ports.EventPublisher
	recorder publishRecorder
}

func (p *instrumentedPublisher) PublishClientChanged(ctx context.Context, event domain.ClientChangedEvent) error {
	err := p.next.PublishClientChanged(ctx, event)
	p.recorder.RecordEventPublished(string(event.Reason), err)
	return err
}
