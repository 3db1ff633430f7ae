package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type sourceStub struct {
	docs   []*EventDocument
	sent   []string
	failed []string
}

func (s *sourceStub) Claim(context.Context, string) (*EventDocument, error) {
	for _, d := range s.docs {
		if d.State == StateNew {
			d.State = StateClaimed
			return d, nil
		}
	}
	return nil, nil
}

func (s *sourceStub) MarkSent(_ context.Context, id string) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *sourceStub) MarkFailed(_ context.Context, id string, _ time.Time, _ string) error {
	s.failed = append(s.failed, id)
	return nil
}

type producerStub struct {
	topics  []string
	payload []byte
	headers map[string]string
	err     error
}

func (p *producerStub) Publish(_ context.Context, topic, _ string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.payload = payload
	p.headers = headers
	return nil
}

func TestWorkerDrainPublishesCloudEvents(t *testing.T) {
	src := &sourceStub{docs: []*EventDocument{
		{ID: "e1", Name: "booking.confirmed", Aggregate: "b1", Payload: []byte(`{"BookingID":"b1"}`), State: StateNew},
		{ID: "e2", Name: "booking.checkout_created", Aggregate: "b2", Payload: []byte(`{}`), State: StateNew},
	}}
	prod := &producerStub{}
	w := &Worker{Source: src, Producer: prod, TopicPrefix: "dev."}

	sent, err := w.Drain(context.Background())
	if err != nil || sent != 2 {
		t.Fatalf("drain: sent=%d err=%v", sent, err)
	}
	if prod.topics[0] != "dev.booking.events.v1" {
		t.Fatalf("unexpected topic %q", prod.topics[0])
	}
	var env map[string]any
	if err := json.Unmarshal(prod.payload, &env); err != nil {
		t.Fatalf("envelope: %v", err)
	}
	if env["type"] != "booking.checkout_created.v1" || env["subject"] != "b2" {
		t.Fatalf("unexpected envelope %v", env)
	}
	if prod.headers["content-type"] != "application/cloudevents+json" {
		t.Fatalf("unexpected headers %v", prod.headers)
	}
	if len(src.sent) != 2 {
		t.Fatalf("expected both records marked sent, got %v", src.sent)
	}
}

func TestWorkerMarksFailedOnPublishError(t *testing.T) {
	src := &sourceStub{docs: []*EventDocument{{ID: "e1", Name: "booking.confirmed", Payload: []byte(`{}`), State: StateNew}}}
	w := &Worker{Source: src, Producer: &producerStub{err: errors.New("broker down")}, Backoff: []time.Duration{time.Second}}

	ok, err := w.ProcessOnce(context.Background())
	if ok || err != nil {
		t.Fatalf("expected soft failure, got ok=%v err=%v", ok, err)
	}
	if len(src.failed) != 1 || len(src.sent) != 0 {
		t.Fatalf("expected record marked failed, got sent=%v failed=%v", src.sent, src.failed)
	}
}

func TestWorkerRequiresDependencies(t *testing.T) {
	if err := (&Worker{}).Run(context.Background()); !errors.Is(err, ErrWorkerNotConfigured) {
		t.Fatalf("expected ErrWorkerNotConfigured, got %v", err)
	}
}
