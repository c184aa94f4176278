package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"uruti-hub/backend/pkg/events"
)

// stalledPublisher 阻塞直到 ctx 结束，模拟 broker 无响应
type stalledPublisher struct{}

func (stalledPublisher) Publish(ctx context.Context, _ events.Event) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stalledPublisher) Close() error { return nil }

func TestPublishEvent_BoundedByTimeout(t *testing.T) {
	start := time.Now()
	publishEvent(context.Background(), stalledPublisher{}, zap.NewNop(), events.Event{Type: events.TypeSubmissionCreated})

	if elapsed := time.Since(start); elapsed > publishTimeout+500*time.Millisecond {
		t.Errorf("publishEvent 应在 %v 内返回，实际 %v", publishTimeout, elapsed)
	}
}

func TestPublishEvent_NilPublisher(t *testing.T) {
	publishEvent(context.Background(), nil, zap.NewNop(), events.Event{Type: events.TypeSubmissionCreated})
}
