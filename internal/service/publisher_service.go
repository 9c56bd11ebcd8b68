package service

import (
	"context"
	"encoding/json"

	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/pkg/logger"
	"project-ledger-be/pkg/ledger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
	PublishLedgerEvent(ctx context.Context, evt ledger.Event) error
	// Attach forwards every store event to the topic until the returned function is called.
	Attach(store *ledger.Store) func()
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	logger    logger.ILogger
}

func NewPublisherService(topicName string, publisher message.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		logger:    log,
	}
}

func (s *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return s.publisher.Publish(s.topicName, msg)
}

func (s *publisherService) PublishLedgerEvent(ctx context.Context, evt ledger.Event) error {
	payload, err := json.Marshal(dto.LedgerEventMessage{
		Type:          string(evt.Type),
		Seq:           evt.Seq,
		Fingerprint:   evt.Fingerprint,
		Snapshot:      evt.Canonical,
		NotebookCount: evt.NotebookCount,
		NoteCount:     evt.NoteCount,
		OccurredAt:    evt.OccurredAt,
	})
	if err != nil {
		return err
	}
	return s.Publish(ctx, payload)
}

func (s *publisherService) Attach(store *ledger.Store) func() {
	return store.Subscribe(func(evt ledger.Event) {
		if err := s.PublishLedgerEvent(context.Background(), evt); err != nil {
			s.logger.Error("EVENTS", "Failed to publish ledger event", map[string]interface{}{
				"type":  string(evt.Type),
				"seq":   evt.Seq,
				"error": err.Error(),
			})
		}
	})
}
