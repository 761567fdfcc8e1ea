package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-blog-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const ephemeralInactiveThreshold = 5 * time.Minute

// EventHandler processes one event. Returning an error asks for redelivery.
type EventHandler func(ctx context.Context, event events.Event) error

type Subscriber struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	consume []jetstream.ConsumeContext
}

func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe attaches a consumer filtered on subject. A durable consumer is
// shared by every instance using that name, so each event is handled once.
// An empty durableName creates an ephemeral consumer for this process only
// that starts at new messages.
func (s *Subscriber) Subscribe(ctx context.Context, subject, durableName string, handler EventHandler) error {
	cfg := jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	}
	if durableName == "" {
		cfg.DeliverPolicy = jetstream.DeliverNewPolicy
		cfg.InactiveThreshold = ephemeralInactiveThreshold
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, cfg)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := decode(msg.Subject(), msg.Data())
		if err != nil {
			log.Printf("[ERROR] Dropping malformed event on %s: %v", msg.Subject(), err)
			_ = msg.Term()
			return
		}

		if err := handler(context.Background(), event); err != nil {
			log.Printf("[ERROR] Handler failed for event %s: %v", msg.Subject(), err)
			_ = msg.Nak()
			return
		}

		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	s.consume = append(s.consume, cc)
	return nil
}

func decode(subject string, data []byte) (events.Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.Type == "" {
		env.Type = strings.TrimPrefix(subject, SubjectPrefix)
	}
	return events.BaseEvent{
		Type:       env.Type,
		Data:       env.Data,
		OccurredAt: env.OccurredAt,
	}, nil
}

func (s *Subscriber) Close() {
	for _, cc := range s.consume {
		cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
