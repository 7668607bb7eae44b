package scoring

import (
	"math"

	"github.com/aurawell/aura/internal/app/domain/day"
	"github.com/aurawell/aura/internal/app/domain/profile"
)

// Component weights of the daily score. They must sum to 1.
const (
	WeightSteps    = 0.30
	WeightCalories = 0.25
	WeightSleep    = 0.25
	WeightTasks    = 0.20
)

// BonusPerTask is the flat aura bonus granted for each completed task when
// computing the weekly score.
const BonusPerTask = 5

// Engine computes aura scores from daily records and targets. It is pure and
// stateless; every method is safe for concurrent use.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// subScore maps progress toward a target onto [0, 100], capping at the target.
// A non-positive target yields 0 rather than a division blow-up.
func subScore(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	ratio := actual / target
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio * 100
}

// taskScore is the fraction of tasks completed, on [0, 100]. A day with no
// tasks counts as fully complete.
func taskScore(tasks []day.Task) float64 {
	if len(tasks) == 0 {
		return 100
	}
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(tasks)) * 100
}

// DailyScore computes the weighted daily aura score for a single record.
func (e *Engine) DailyScore(rec day.Record, targets profile.Targets) float64 {
	score := WeightSteps*subScore(float64(rec.Stats.Steps), float64(targets.Steps)) +
		WeightCalories*subScore(float64(rec.Stats.Calories), float64(targets.Calories)) +
		WeightSleep*subScore(rec.Stats.SleepHours, targets.SleepHours) +
		WeightTasks*taskScore(rec.Tasks)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return score
}

// WeeklyBase is the mean of the daily scores, rounded to the nearest integer.
// An empty week scores 0.
func (e *Engine) WeeklyBase(days []day.Record, targets profile.Targets) int {
	if len(days) == 0 {
		return 0
	}
	var sum float64
	for _, rec := range days {
		sum += e.DailyScore(rec, targets)
	}
	return int(math.Round(sum / float64(len(days))))
}

// CompletionBonus is the flat bonus earned from completed tasks across the
// given days. It is uncapped.
func (e *Engine) CompletionBonus(days []day.Record) int {
	completed := 0
	for _, rec := range days {
		completed += rec.CompletedTasks()
	}
	return completed * BonusPerTask
}

// WeeklyScore is the base plus the completion bonus, before any ledger
// adjustments.
func (e *Engine) WeeklyScore(days []day.Record, targets profile.Targets) int {
	return e.WeeklyBase(days, targets) + e.CompletionBonus(days)
}
