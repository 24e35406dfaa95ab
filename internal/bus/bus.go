// Package bus connects the pipeline to NATS: uploaded-take events trigger
// processing, and processing outcomes are published for downstream consumers.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	SubjectTakeUploaded = "cineai.take.uploaded"
	SubjectTakeIndexed  = "cineai.take.indexed"
	SubjectTakeFailed   = "cineai.take.failed"
)

// UploadedEvent announces a freshly uploaded take ready for processing.
type UploadedEvent struct {
	TakeID uuid.UUID `json:"take_id"`
}

// IndexedEvent announces a take that finished processing and is searchable.
type IndexedEvent struct {
	TakeID    uuid.UUID `json:"take_id"`
	IndexedAt time.Time `json:"indexed_at"`
}

// FailedEvent announces a take whose processing aborted.
type FailedEvent struct {
	TakeID uuid.UUID `json:"take_id"`
	Stage  string    `json:"stage"`
	Reason string    `json:"reason"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(url string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Client{conn: nc, logger: logger}, nil
}

// OnTakeUploaded registers a handler for uploaded-take events. Malformed
// payloads are logged and dropped.
func (c *Client) OnTakeUploaded(handler func(takeID uuid.UUID)) error {
	sub, err := c.conn.Subscribe(SubjectTakeUploaded, func(msg *nats.Msg) {
		var ev UploadedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			c.logger.Warn("malformed upload event", "error", err)
			return
		}
		handler(ev.TakeID)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectTakeUploaded, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", SubjectTakeUploaded)
	return nil
}

// Register announces the service on the bus so peers can discover it.
func (c *Client) Register(port int) error {
	return c.publish("cineai.service.registered", map[string]any{
		"service":   "cineai",
		"port":      port,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// TakeIndexed publishes a successful processing outcome.
func (c *Client) TakeIndexed(_ context.Context, takeID uuid.UUID) error {
	return c.publish(SubjectTakeIndexed, IndexedEvent{TakeID: takeID, IndexedAt: time.Now().UTC()})
}

// TakeFailed publishes an aborted processing run.
func (c *Client) TakeFailed(_ context.Context, takeID uuid.UUID, stage, reason string) error {
	return c.publish(SubjectTakeFailed, FailedEvent{TakeID: takeID, Stage: stage, Reason: reason})
}

func (c *Client) publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := c.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
