package scheduler

import (
	"context"
	"testing"
)

func TestScheduler_Add(t *testing.T) {
	s := New()
	noop := func(ctx context.Context) error { return nil }

	if err := s.Add("evict", "*/10 * * * *", noop); err != nil {
		t.Fatalf("Expected valid schedule, got %v", err)
	}
	if err := s.Add("sync", "@every 1h", noop); err != nil {
		t.Fatalf("Expected descriptor schedule, got %v", err)
	}
	if err := s.Add("broken", "not a schedule", noop); err == nil {
		t.Fatal("Expected error for invalid schedule")
	}
	if s.Len() != 2 {
		t.Errorf("Expected 2 jobs, got %d", s.Len())
	}

	s.Start()
	s.Stop()
}
