package nats

import (
	"context"
	"fmt"

	"project-ledger-be/internal/pkg/logger"
	"project-ledger-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler is a function that processes an event.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber handles listening for events from NATS.
type Subscriber struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger logger.ILogger
}

func NewSubscriber(url string, log logger.ILogger) (*Subscriber, error) {
	nc, js, err := connect(url, "ledger-subscriber")
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js, logger: log}, nil
}

// SubscribeOptions selects the consumer. An empty Durable creates an ephemeral
// consumer that disappears with the connection.
type SubscribeOptions struct {
	Subject    string
	Durable    string
	DeliverAll bool
}

// Subscribe starts consuming and returns the handle that stops it. A handler
// error naks the message so it is redelivered.
func (s *Subscriber) Subscribe(ctx context.Context, opts SubscribeOptions, handler EventHandler) (jetstream.ConsumeContext, error) {
	deliver := jetstream.DeliverNewPolicy
	if opts.DeliverAll {
		deliver = jetstream.DeliverAllPolicy
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       opts.Durable,
		FilterSubject: opts.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: deliver,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := events.Decode(msg.Subject(), msg.Data())
		if err != nil {
			s.logger.Warn("NATS", "Dropping undecodable event", map[string]interface{}{
				"subject": msg.Subject(),
				"error":   err.Error(),
			})
			// redelivering a malformed body cannot help
			_ = msg.Term()
			return
		}

		if err := handler(ctx, event); err != nil {
			s.logger.Error("NATS", "Handler failed", map[string]interface{}{
				"subject": msg.Subject(),
				"error":   err.Error(),
			})
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	s.logger.Info("NATS", "Subscribed", map[string]interface{}{
		"subject": opts.Subject,
		"durable": opts.Durable,
	})
	return cc, nil
}

// Close closes the connection.
func (s *Subscriber) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}

// Conn exposes the connection for status checks.
func (s *Subscriber) Conn() *nats.Conn {
	return s.nc
}
