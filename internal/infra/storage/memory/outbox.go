package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "directstay/internal/app/outbox"
	infraoutbox "directstay/internal/infra/outbox"
)

// Outbox queues event records in memory and feeds them to the relay worker like the Mongo store does.
type Outbox struct {
	mu   sync.Mutex
	docs []*infraoutbox.EventDocument
	now  func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{now: func() time.Time { return time.Now().UTC() }}
}

func (o *Outbox) Add(_ context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.docs = append(o.docs, &infraoutbox.EventDocument{
		ID:          record.ID,
		Name:        record.Name,
		Payload:     append([]byte(nil), record.Payload...),
		OccurredAt:  record.OccurredAt,
		Aggregate:   record.Aggregate,
		Headers:     record.Headers,
		State:       infraoutbox.StateNew,
		NextAttempt: o.now(),
	})
	return nil
}

func (o *Outbox) Flush(context.Context) error {
	return nil
}

func (o *Outbox) Claim(_ context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now()
	for _, doc := range o.docs {
		if (doc.State == infraoutbox.StateNew || doc.State == infraoutbox.StateFailed) && !doc.NextAttempt.After(now) {
			doc.State = infraoutbox.StateClaimed
			doc.ClaimedBy = workerID
			doc.ClaimedAt = now
			clone := *doc
			return &clone, nil
		}
	}
	return nil, nil
}

func (o *Outbox) MarkSent(_ context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	kept := o.docs[:0]
	for _, doc := range o.docs {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	o.docs = kept
	return nil
}

func (o *Outbox) MarkFailed(_ context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, doc := range o.docs {
		if doc.ID == id {
			doc.State = infraoutbox.StateFailed
			doc.NextAttempt = next
			doc.LastError = errMsg
			doc.Attempts++
		}
	}
	return nil
}

// Pending returns the names of events not yet relayed.
func (o *Outbox) Pending() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.docs))
	for _, doc := range o.docs {
		out = append(out, doc.Name)
	}
	return out
}

var (
	_ appoutbox.Outbox   = (*Outbox)(nil)
	_ infraoutbox.Source = (*Outbox)(nil)
)
