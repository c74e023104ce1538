package mailer

import (
	"context"
	"time"
)

const attrKind = "kind"

// Publisher is the subset of *mq.MQ the sender needs.
type Publisher interface {
	PublishJSON(ctx context.Context, channel string, value any, attrs map[string]string) (string, error)
}

// QueueSender hands welcome emails to the message queue. A true result means
// the message was accepted by the broker, not that it reached an inbox.
type QueueSender struct {
	queue   Publisher
	channel string
	now     func() time.Time
}

func NewQueueSender(queue Publisher, channel string) *QueueSender {
	return &QueueSender{queue: queue, channel: channel, now: time.Now}
}

// SendWelcome enqueues one welcome email. Addresses that cannot be parsed
// are reported as not sent.
func (s *QueueSender) SendWelcome(ctx context.Context, address string) (bool, error) {
	to, ok := parseAddress(address)
	if !ok {
		return false, nil
	}
	if err := s.enqueue(ctx, to); err != nil {
		return false, &EmailError{Op: "send welcome", Err: err}
	}
	return true, nil
}

// SendBulkWelcome enqueues one message per address in order. Unparseable
// addresses are skipped and make the result false; a broker failure aborts.
func (s *QueueSender) SendBulkWelcome(ctx context.Context, addresses []string) (bool, error) {
	all := true
	for _, address := range addresses {
		to, ok := parseAddress(address)
		if !ok {
			all = false
			continue
		}
		if err := s.enqueue(ctx, to); err != nil {
			return false, &EmailError{Op: "send bulk welcome", Err: err}
		}
	}
	return all, nil
}

func (s *QueueSender) enqueue(ctx context.Context, to string) error {
	msg := WelcomeMessage{To: to, QueuedAt: s.now().UTC()}
	_, err := s.queue.PublishJSON(ctx, s.channel, msg, map[string]string{attrKind: "welcome"})
	return err
}
