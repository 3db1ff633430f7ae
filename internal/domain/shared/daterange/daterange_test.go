package daterange

import (
	"errors"
	"testing"
	"time"
)

func TestNewTruncatesToDays(t *testing.T) {
	in := time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)
	out := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	dr, err := New(in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dr.Nights() != 3 {
		t.Fatalf("expected 3 nights, got %d", dr.Nights())
	}
	dates := dr.Dates()
	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(dates))
	}
	if !dates[0].Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first night %s", dates[0])
	}
	if !dates[2].Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected last night %s", dates[2])
	}
}

func TestNewRejectsEmptyStay(t *testing.T) {
	day := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	if _, err := New(day, day.Add(6*time.Hour)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestParseDay(t *testing.T) {
	for _, raw := range []string{"2026-07-04", "2026-07-04T18:00:00Z"} {
		got, err := ParseDay(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !got.Equal(time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("parse %q: got %s", raw, got)
		}
	}
	if _, err := ParseDay("July 4th"); err == nil {
		t.Fatal("expected error for free-form date")
	}
}
