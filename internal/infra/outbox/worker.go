package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker relays claimed records to the broker as CloudEvents envelopes.
type Worker struct {
	Source      Source
	Producer    Producer
	Interval    time.Duration
	TopicPrefix string
	SourceURI   string
	ID          string
	Backoff     []time.Duration
	Logger      *slog.Logger
	Now         func() time.Time
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Source == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil && w.Logger != nil {
				w.Logger.Error("outbox relay failed", "error", err)
			}
		}
	}
}

// Drain relays due records until none are left and reports how many were sent.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	sent := 0
	for {
		ok, err := w.ProcessOnce(ctx)
		if err != nil || !ok {
			return sent, err
		}
		sent++
	}
}

// ProcessOnce relays a single record. It reports false when nothing was due or the publish failed.
func (w *Worker) ProcessOnce(ctx context.Context) (bool, error) {
	doc, err := w.Source.Claim(ctx, w.workerID())
	if err != nil || doc == nil {
		return false, err
	}
	payload, headers, err := w.envelope(doc)
	if err == nil {
		err = w.Producer.Publish(ctx, w.topicFor(doc.Name), doc.Aggregate, payload, headers)
	}
	if err != nil {
		if w.Logger != nil {
			w.Logger.Warn("outbox publish failed", "event", doc.Name, "id", doc.ID, "attempts", doc.Attempts+1, "error", err)
		}
		return false, w.Source.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error())
	}
	return true, w.Source.MarkSent(ctx, doc.ID)
}

func (w *Worker) envelope(doc *EventDocument) ([]byte, map[string]string, error) {
	var data map[string]any
	if err := json.Unmarshal(doc.Payload, &data); err != nil {
		return nil, nil, err
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              doc.ID,
		"type":            doc.Name + ".v1",
		"source":          w.sourceURI(),
		"subject":         doc.Aggregate,
		"time":            doc.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{}
	for k, v := range doc.Headers {
		headers[k] = v
	}
	headers["content-type"] = "application/cloudevents+json"
	headers["ce-type"] = doc.Name + ".v1"
	return payload, headers, nil
}

// topicFor maps "booking.confirmed" to "<prefix>booking.events.v1".
func (w *Worker) topicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return w.TopicPrefix + base + ".events.v1"
}

func (w *Worker) workerID() string {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return w.ID
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) nextRetry(attempts int) time.Time {
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	switch {
	case attempts < len(w.Backoff):
		return now.Add(w.Backoff[attempts])
	case len(w.Backoff) > 0:
		return now.Add(w.Backoff[len(w.Backoff)-1])
	default:
		return now.Add(5 * time.Second)
	}
}

func (w *Worker) sourceURI() string {
	if w.SourceURI != "" {
		return w.SourceURI
	}
	return "app://directstay"
}
