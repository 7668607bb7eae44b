package system

import (
	"context"
	"errors"
	"testing"
)

type recordingService struct {
	name     string
	startErr error
	events   *[]string
}

func (s *recordingService) Name() string { return s.name }

func (s *recordingService) Start(context.Context) error {
	*s.events = append(*s.events, "start:"+s.name)
	return s.startErr
}

func (s *recordingService) Stop(context.Context) error {
	*s.events = append(*s.events, "stop:"+s.name)
	return nil
}

func TestManagerStartStopOrder(t *testing.T) {
	var events []string
	m := NewManager()
	for _, name := range []string{"a", "b", "c"} {
		if err := m.Register(&recordingService{name: name, events: &events}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	want := []string{"start:a", "start:b", "start:c", "stop:c", "stop:b", "stop:a"}
	if len(events) != len(want) {
		t.Fatalf("events: %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: got %s, want %s", i, events[i], want[i])
		}
	}
}

func TestManagerRollbackOnStartFailure(t *testing.T) {
	var events []string
	m := NewManager()
	boom := errors.New("boom")
	_ = m.Register(&recordingService{name: "a", events: &events})
	_ = m.Register(&recordingService{name: "b", startErr: boom, events: &events})

	err := m.Start(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected start failure, got %v", err)
	}

	want := []string{"start:a", "start:b", "stop:a"}
	if len(events) != len(want) {
		t.Fatalf("events: %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: got %s, want %s", i, events[i], want[i])
		}
	}
}

func TestManagerRejectsDuplicatesAndLateRegistration(t *testing.T) {
	var events []string
	m := NewManager()
	if err := m.Register(&recordingService{name: "a", events: &events}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := m.Register(&recordingService{name: "a", events: &events}); err == nil {
		t.Fatal("expected duplicate name rejection")
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Register(&recordingService{name: "b", events: &events}); err == nil {
		t.Fatal("expected rejection after start")
	}
}
