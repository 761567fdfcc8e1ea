package service

import (
	"context"

	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/pkg/events"
	pktNats "ai-blog-be/pkg/nats"
)

const activityDurable = "blog-activity-log"

// IActivityService records every domain event from the bus in the
// application log.
type IActivityService interface {
	Start(ctx context.Context) error
	Handle(ctx context.Context, event events.Event) error
}

type activityService struct {
	subscriber *pktNats.Subscriber
	log        logger.ILogger
}

func NewActivityService(subscriber *pktNats.Subscriber, log logger.ILogger) IActivityService {
	return &activityService{
		subscriber: subscriber,
		log:        log,
	}
}

func (s *activityService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return nil
	}
	return s.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+">", activityDurable, s.Handle)
}

func (s *activityService) Handle(_ context.Context, event events.Event) error {
	details := map[string]interface{}{
		"event":       event.EventType(),
		"occurred_at": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		details[k] = v
	}
	s.log.Info("ACTIVITY", "Domain event", details)
	return nil
}
