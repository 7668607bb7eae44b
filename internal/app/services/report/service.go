package report

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/aurawell/aura/internal/app/domain/day"
	"github.com/aurawell/aura/internal/app/domain/report"
	"github.com/aurawell/aura/internal/app/services/scoring"
	"github.com/aurawell/aura/internal/app/storage"
	"github.com/aurawell/aura/pkg/logger"
)

var ErrNoCollaborator = errors.New("no model collaborator attached")

// Summarizer writes the report narrative from the projected week.
type Summarizer interface {
	Summarize(ctx context.Context, week []report.DaySummary, completed, total int, today day.Stats) (report.AISummary, error)
}

// Service projects day records into chartable report rows.
type Service struct {
	engine     *scoring.Engine
	days       storage.DayStore
	targets    storage.TargetStore
	summarizer Summarizer
	log        *logger.Logger
}

func New(engine *scoring.Engine, days storage.DayStore, targets storage.TargetStore, log *logger.Logger) *Service {
	if engine == nil {
		engine = scoring.NewEngine()
	}
	if log == nil {
		log = logger.NewDefault("report")
	}
	return &Service{engine: engine, days: days, targets: targets, log: log}
}

// AttachAI wires the narrative collaborator.
func (s *Service) AttachAI(summarizer Summarizer) {
	s.summarizer = summarizer
}

// Project turns every day record into a report row, chronologically ordered.
// The per-day aura score is the weighted daily score rounded to an integer.
func (s *Service) Project(ctx context.Context) ([]report.DaySummary, error) {
	days, err := s.days.ListDays(ctx)
	if err != nil {
		return nil, err
	}
	targets, err := s.targets.GetTargets(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]report.DaySummary, 0, len(days))
	for _, rec := range days {
		label := ""
		if t, err := time.Parse("2006-01-02", rec.Date); err == nil {
			label = t.Format("Mon")
		}
		rows = append(rows, report.DaySummary{
			Date:           rec.Date,
			Day:            label,
			Steps:          rec.Stats.Steps,
			Calories:       rec.Stats.Calories,
			SleepHours:     rec.Stats.SleepHours,
			TasksCompleted: rec.CompletedTasks(),
			TasksTotal:     len(rec.Tasks),
			AuraScore:      int(math.Round(s.engine.DailyScore(rec, targets))),
		})
	}
	return rows, nil
}

// Overview reduces the projected rows into the report header averages.
func (s *Service) Overview(ctx context.Context) (report.Overview, error) {
	rows, err := s.Project(ctx)
	if err != nil {
		return report.Overview{}, err
	}
	if len(rows) == 0 {
		return report.Overview{TaskCompletionRate: 100}, nil
	}

	var steps, calories float64
	completed, total := 0, 0
	for _, row := range rows {
		steps += float64(row.Steps)
		calories += float64(row.Calories)
		completed += row.TasksCompleted
		total += row.TasksTotal
	}

	ov := report.Overview{
		AvgSteps:           steps / float64(len(rows)),
		AvgCalories:        calories / float64(len(rows)),
		TaskCompletionRate: 100,
	}
	if total > 0 {
		ov.TaskCompletionRate = float64(completed) / float64(total) * 100
	}
	return ov, nil
}

// Summarize asks the collaborator for the report narrative. The most recent
// day is presented as "today"; earlier days form the history.
func (s *Service) Summarize(ctx context.Context) (report.AISummary, error) {
	if s.summarizer == nil {
		return report.AISummary{}, ErrNoCollaborator
	}

	rows, err := s.Project(ctx)
	if err != nil {
		return report.AISummary{}, err
	}

	var (
		history          []report.DaySummary
		todayStats       day.Stats
		completed, total int
	)
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		history = rows[:len(rows)-1]
		todayStats = day.Stats{Steps: last.Steps, Calories: last.Calories, SleepHours: last.SleepHours}
		completed, total = last.TasksCompleted, last.TasksTotal
	}

	summary, err := s.summarizer.Summarize(ctx, history, completed, total, todayStats)
	if err != nil {
		return report.AISummary{}, err
	}
	s.log.WithField("score", summary.Score).Info("report summary generated")
	return summary, nil
}
