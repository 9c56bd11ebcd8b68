package service

import (
	"context"
	"encoding/json"
	"sync"

	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/entity"
	"project-ledger-be/internal/pkg/logger"
	"project-ledger-be/internal/repository/unitofwork"
	"project-ledger-be/pkg/events"
	"project-ledger-be/pkg/ledger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// FingerprintBroadcaster pushes the displayed fingerprint to connected clients.
type FingerprintBroadcaster interface {
	BroadcastFingerprint(fingerprint string, seq uint64)
}

// EventForwarder sends ledger events off the process, e.g. to NATS.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	broadcaster FingerprintBroadcaster
	forwarder   EventForwarder
	retention   int
	logger      logger.ILogger

	// the bus does not preserve order, so pushes older than the last one are dropped
	mu        sync.Mutex
	pushedSeq uint64
}

// NewConsumerService wires the background consumer. broadcaster and forwarder
// may be nil. A retention <= 0 keeps every revision.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	broadcaster FingerprintBroadcaster,
	forwarder EventForwarder,
	retention int,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
		forwarder:   forwarder,
		retention:   retention,
		logger:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. Revision history and event forwarding are best
// effort; a redelivery loop on an unreachable database would only add load.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.LedgerEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("EVENTS", "Failed to unmarshal ledger event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if payload.Type == string(ledger.EventFingerprint) {
		cs.push(payload)
		cs.recordRevision(ctx, payload)
	}

	cs.forward(ctx, payload)
}

func (cs *consumerService) push(payload dto.LedgerEventMessage) {
	if cs.broadcaster == nil {
		return
	}
	cs.mu.Lock()
	if payload.Seq < cs.pushedSeq {
		cs.mu.Unlock()
		return
	}
	cs.pushedSeq = payload.Seq
	cs.mu.Unlock()

	cs.broadcaster.BroadcastFingerprint(payload.Fingerprint, payload.Seq)
}

func (cs *consumerService) recordRevision(ctx context.Context, payload dto.LedgerEventMessage) {
	if payload.Fingerprint == ledger.FingerprintPlaceholder || payload.Snapshot == "" {
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("EVENTS", "Failed to begin revision transaction", map[string]interface{}{"error": err.Error()})
		return
	}
	defer uow.Rollback()

	repo := uow.RevisionRepository()
	latest, err := repo.Latest(ctx)
	if err != nil {
		cs.logger.Error("EVENTS", "Failed to read latest revision", map[string]interface{}{"error": err.Error()})
		return
	}
	if latest != nil && latest.Fingerprint == payload.Fingerprint {
		cs.logger.Debug("EVENTS", "Revision already recorded", map[string]interface{}{"fingerprint": payload.Fingerprint})
		return
	}

	revision := &entity.Revision{
		Id:            uuid.New(),
		Seq:           payload.Seq,
		Fingerprint:   payload.Fingerprint,
		Snapshot:      payload.Snapshot,
		NotebookCount: payload.NotebookCount,
		NoteCount:     payload.NoteCount,
		SavedAt:       payload.OccurredAt,
	}
	if err := repo.Create(ctx, revision); err != nil {
		cs.logger.Error("EVENTS", "Failed to record revision", map[string]interface{}{
			"fingerprint": payload.Fingerprint,
			"error":       err.Error(),
		})
		return
	}

	pruned, err := repo.Prune(ctx, cs.retention)
	if err != nil {
		cs.logger.Error("EVENTS", "Failed to prune revisions", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("EVENTS", "Failed to commit revision", map[string]interface{}{"error": err.Error()})
		return
	}

	cs.logger.Info("EVENTS", "Revision recorded", map[string]interface{}{
		"fingerprint": payload.Fingerprint,
		"seq":         payload.Seq,
		"pruned":      pruned,
	})
}

func (cs *consumerService) forward(ctx context.Context, payload dto.LedgerEventMessage) {
	if cs.forwarder == nil {
		return
	}

	evt := events.BaseEvent{
		Type: payload.Type,
		Data: map[string]interface{}{
			"seq":           payload.Seq,
			"fingerprint":   payload.Fingerprint,
			"notebookCount": payload.NotebookCount,
			"noteCount":     payload.NoteCount,
		},
		OccurredAt: payload.OccurredAt,
	}
	if err := cs.forwarder.Publish(ctx, evt); err != nil {
		cs.logger.Warn("EVENTS", "Failed to forward ledger event", map[string]interface{}{
			"type":  payload.Type,
			"error": err.Error(),
		})
	}
}
