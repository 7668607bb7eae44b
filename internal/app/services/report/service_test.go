package report

import (
	"context"
	"errors"
	"testing"

	"github.com/aurawell/aura/internal/app/domain/day"
	"github.com/aurawell/aura/internal/app/domain/profile"
	"github.com/aurawell/aura/internal/app/domain/report"
	"github.com/aurawell/aura/internal/app/storage/memory"
)

type stubSummarizer struct {
	got struct {
		week             []report.DaySummary
		completed, total int
		today            day.Stats
	}
	result report.AISummary
	err    error
}

func (s *stubSummarizer) Summarize(_ context.Context, week []report.DaySummary, completed, total int, today day.Stats) (report.AISummary, error) {
	s.got.week = week
	s.got.completed = completed
	s.got.total = total
	s.got.today = today
	return s.result, s.err
}

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	if _, err := store.SetTargets(context.Background(), profile.Targets{Steps: 8000, Calories: 400, SleepHours: 8}); err != nil {
		t.Fatalf("SetTargets: %v", err)
	}
	return New(nil, store, store, nil), store
}

func seedWeek(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	days := []day.Record{
		{
			Date:  "2025-10-20",
			Stats: day.Stats{Steps: 6500, Calories: 280, SleepHours: 7.2},
			Tasks: []day.Task{{ID: 1, Completed: true}, {ID: 2, Completed: true}, {ID: 3}},
		},
		{
			Date:  "2025-10-21",
			Stats: day.Stats{Steps: 9200, Calories: 420, SleepHours: 8.5},
			Tasks: []day.Task{{ID: 4, Completed: true}, {ID: 5}},
		},
	}
	for _, rec := range days {
		if _, err := store.SeedDay(ctx, rec); err != nil {
			t.Fatalf("SeedDay: %v", err)
		}
	}
}

func TestProjectRows(t *testing.T) {
	svc, store := newTestService(t)
	seedWeek(t, store)

	rows, err := svc.Project(context.Background())
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Day != "Mon" {
		t.Fatalf("weekday label: got %q, want Mon", first.Day)
	}
	if first.TasksCompleted != 2 || first.TasksTotal != 3 {
		t.Fatalf("task counts: %d/%d", first.TasksCompleted, first.TasksTotal)
	}
	// 0.30*81.25 + 0.25*70 + 0.25*90 + 0.20*66.667 rounds to 78.
	if first.AuraScore != 78 {
		t.Fatalf("daily aura score: got %d, want 78", first.AuraScore)
	}
	if rows[1].Day != "Tue" {
		t.Fatalf("weekday label: got %q, want Tue", rows[1].Day)
	}
}

func TestOverview(t *testing.T) {
	svc, store := newTestService(t)
	seedWeek(t, store)

	ov, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.AvgSteps != 7850 {
		t.Fatalf("avg steps: got %v, want 7850", ov.AvgSteps)
	}
	if ov.AvgCalories != 350 {
		t.Fatalf("avg calories: got %v, want 350", ov.AvgCalories)
	}
	// 3 of 5 tasks completed.
	if ov.TaskCompletionRate != 60 {
		t.Fatalf("completion rate: got %v, want 60", ov.TaskCompletionRate)
	}
}

func TestOverviewEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	ov, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.TaskCompletionRate != 100 {
		t.Fatalf("empty period completion rate: got %v, want 100", ov.TaskCompletionRate)
	}
}

func TestSummarizeSplitsToday(t *testing.T) {
	svc, store := newTestService(t)
	seedWeek(t, store)

	stub := &stubSummarizer{result: report.AISummary{Summary: "great week", Score: 81}}
	svc.AttachAI(stub)

	got, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got.Score != 81 {
		t.Fatalf("score: got %d, want 81", got.Score)
	}
	if len(stub.got.week) != 1 || stub.got.week[0].Date != "2025-10-20" {
		t.Fatalf("history should hold all but the latest day: %+v", stub.got.week)
	}
	if stub.got.today.Steps != 9200 {
		t.Fatalf("today stats: %+v", stub.got.today)
	}
	if stub.got.completed != 1 || stub.got.total != 2 {
		t.Fatalf("today tasks: %d/%d", stub.got.completed, stub.got.total)
	}
}

func TestSummarizeWithoutCollaborator(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Summarize(context.Background()); !errors.Is(err, ErrNoCollaborator) {
		t.Fatalf("expected ErrNoCollaborator, got %v", err)
	}
}
