package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/splitogram/internal/metrics"
)

// Dispatcher drains a Queue into a Sender.
type Dispatcher struct {
	queue       Queue
	sender      Sender
	sendTimeout time.Duration
	retryDelay  time.Duration
}

// NewDispatcher creates a dispatcher that tries each message twice: once,
// and once more after a short delay.
func NewDispatcher(queue Queue, sender Sender) *Dispatcher {
	return &Dispatcher{
		queue:       queue,
		sender:      sender,
		sendTimeout: 5 * time.Second,
		retryDelay:  time.Second,
	}
}

// Run delivers messages until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	slog.Info("Notification dispatcher started")
	for {
		msg, err := d.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("Notification dispatcher stopped")
				return nil
			}
			slog.Error("Failed to dequeue notification", "error", err)
			if !sleep(ctx, d.retryDelay) {
				return nil
			}
			continue
		}

		d.deliver(ctx, msg)
	}
}

// deliver sends msg with one bounded retry. Failures are logged and dropped.
func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	firstErr := d.send(ctx, msg)
	if firstErr == nil {
		metrics.NotificationDelivered("sent")
		return
	}

	if !sleep(ctx, d.retryDelay) {
		return
	}

	if err := d.send(ctx, msg); err != nil {
		metrics.NotificationDelivered("failed")
		slog.Warn("Failed to deliver notification", "chat_id", msg.ChatID, "error", errors.Join(firstErr, err))
		return
	}
	metrics.NotificationDelivered("retried")
}

func (d *Dispatcher) send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	return d.sender.Send(ctx, msg)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
