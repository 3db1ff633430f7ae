package schedule

import (
	"testing"
	"time"
)

type pruneStub struct {
	maxAge time.Duration
	calls  int
}

func (p *pruneStub) Prune(maxAge time.Duration) int {
	p.maxAge = maxAge
	p.calls++
	return 3
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := NewScheduler(nil)
	if err := s.Register(Job{Name: "bad", Spec: "not a cron", Run: func() {}}); err == nil {
		t.Fatal("expected invalid spec error")
	}
	if err := s.Register(Job{Name: "empty", Spec: "@hourly"}); err == nil {
		t.Fatal("expected missing function error")
	}
	if s.Entries() != 0 {
		t.Fatalf("expected no entries, got %d", s.Entries())
	}
}

func TestPruneJob(t *testing.T) {
	stub := &pruneStub{}
	job := PruneJob("rate-cache", "@every 10m", stub, 6*time.Hour, nil)

	s := NewScheduler(nil)
	if err := s.Register(job); err != nil {
		t.Fatalf("register: %v", err)
	}
	if s.Entries() != 1 {
		t.Fatalf("expected 1 entry, got %d", s.Entries())
	}

	job.Run()
	if stub.calls != 1 || stub.maxAge != 6*time.Hour {
		t.Fatalf("unexpected prune call %+v", stub)
	}
}
