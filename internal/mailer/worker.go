package mailer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/welcomedesk/userservice/internal/mq"
)

const emlContentType = "message/rfc822"

// Subscriber is the subset of *mq.MQ the worker needs.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler mq.Handler) error
}

// Outbox is where rendered messages are dropped for the relay to pick up.
type Outbox interface {
	PutBytes(ctx context.Context, key string, data []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type WorkerConfig struct {
	Channel      string
	From         string
	Subject      string
	OutboxPrefix string
	Logger       *slog.Logger
}

// Worker renders queued welcome messages into the outbox.
type Worker struct {
	queue  Subscriber
	outbox Outbox
	cfg    WorkerConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewWorker(queue Subscriber, outbox Outbox, cfg WorkerConfig) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		queue:  queue,
		outbox: outbox,
		cfg:    cfg,
		logger: logger.With("component", "mailer.worker", "channel", cfg.Channel),
		now:    time.Now,
	}
}

// Run consumes the welcome channel until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("welcome worker started")
	return w.queue.Subscribe(ctx, w.cfg.Channel, w.Handle)
}

// Handle delivers a single queued message. Malformed payloads are dropped;
// outbox failures are returned so the broker redelivers.
func (w *Worker) Handle(ctx context.Context, msg mq.Message) error {
	var welcome WelcomeMessage
	if err := json.NewDecoder(bytes.NewReader(msg.Data)).Decode(&welcome); err != nil {
		w.logger.Warn("dropping malformed welcome message", "message_id", msg.ID, "error", err)
		return nil
	}
	to, ok := parseAddress(welcome.To)
	if !ok {
		w.logger.Warn("dropping welcome message without valid recipient", "message_id", msg.ID)
		return nil
	}
	welcome.To = to
	if welcome.QueuedAt.IsZero() {
		welcome.QueuedAt = w.now()
	}

	id := messageKey(msg)
	key := w.outboxKey(welcome.QueuedAt, id)

	exists, err := w.outbox.Exists(ctx, key)
	if err != nil {
		return &EmailError{Op: "check outbox", Err: err}
	}
	if exists {
		w.logger.Debug("welcome message already delivered", "key", key)
		return nil
	}

	data, err := Render(welcome, Envelope{
		From:      w.cfg.From,
		Subject:   w.cfg.Subject,
		MessageID: id,
		Date:      w.now(),
	})
	if err != nil {
		return &EmailError{Op: "render welcome", Err: err}
	}

	if err := w.outbox.PutBytes(ctx, key, data, emlContentType); err != nil {
		w.logger.Error("failed to write welcome message", "key", key, "error", err)
		return &EmailError{Op: "deliver welcome", Err: err}
	}

	w.logger.Info("welcome message delivered", "to", welcome.To, "key", key)
	return nil
}

func (w *Worker) outboxKey(queuedAt time.Time, id string) string {
	prefix := strings.Trim(w.cfg.OutboxPrefix, "/")
	return path.Join(prefix, queuedAt.UTC().Format("2006/01/02"), id+".eml")
}

// messageKey prefers the broker id and falls back to a content hash so
// redeliveries map to the same object.
func messageKey(msg mq.Message) string {
	if id := strings.TrimSpace(msg.ID); id != "" {
		return id
	}
	sum := sha256.Sum256(msg.Data)
	return hex.EncodeToString(sum[:16])
}
