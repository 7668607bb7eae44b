package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aurawell/aura/internal/app/domain/day"
	"github.com/aurawell/aura/internal/app/domain/profile"
	"github.com/aurawell/aura/internal/app/storage"
	"github.com/aurawell/aura/pkg/logger"
)

// hackathonDate gets a fixed, locally curated task set instead of generated
// ones. Kept as data rather than behavior so the override is easy to retire.
const hackathonDate = "2025-10-22"

var (
	ErrInvalidTargets = errors.New("targets must be positive")
	ErrInvalidStats   = errors.New("stats must not be negative")
	ErrWrongTaskType  = errors.New("submission does not match task type")
	ErrNoCollaborator = errors.New("no model collaborator attached")
)

// RejectionError reports a submission the reviewer judged incomplete. The
// task stays open and the feedback explains what to change.
type RejectionError struct {
	Feedback string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("submission rejected: %s", e.Feedback)
}

// TaskGenerator proposes new wellness tasks given the ones already assigned.
type TaskGenerator interface {
	GenerateTasks(ctx context.Context, existing []string) ([]day.TaskInput, error)
}

// TextVerifier reviews a written submission and returns feedback.
type TextVerifier interface {
	VerifyWriting(ctx context.Context, taskText, userInput string) (string, error)
}

// ImageVerifier judges whether a photo completes the task.
type ImageVerifier interface {
	VerifyImage(ctx context.Context, taskText string, image []byte, mimeType string) (feedback string, complete bool, err error)
}

// StatsExtractor reads activity numbers out of a fitness-app screenshot.
type StatsExtractor interface {
	ExtractStats(ctx context.Context, image []byte, mimeType string) (day.Stats, error)
}

// Service manages day records: stats, targets and the daily task workflow.
type Service struct {
	days    storage.DayStore
	targets storage.TargetStore
	mu      sync.Locker
	log     *logger.Logger

	generator TaskGenerator
	texts     TextVerifier
	images    ImageVerifier
	extractor StatsExtractor
}

// New creates the journal service. mu serializes mutations with the aura
// ledger; pass the session lock so score reads stay consistent with sharing.
// A nil mu gets a private lock.
func New(days storage.DayStore, targets storage.TargetStore, mu sync.Locker, log *logger.Logger) *Service {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	if log == nil {
		log = logger.NewDefault("journal")
	}
	return &Service{days: days, targets: targets, mu: mu, log: log}
}

// AttachAI wires the model collaborators. Without them the task generation
// and submission endpoints report ErrNoCollaborator.
func (s *Service) AttachAI(generator TaskGenerator, texts TextVerifier, images ImageVerifier, extractor StatsExtractor) {
	s.generator = generator
	s.texts = texts
	s.images = images
	s.extractor = extractor
}

func validDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	return nil
}

// Day returns one day record.
func (s *Service) Day(ctx context.Context, date string) (day.Record, error) {
	if err := validDate(date); err != nil {
		return day.Record{}, err
	}
	return s.days.GetDay(ctx, date)
}

// Days returns every day record in chronological order.
func (s *Service) Days(ctx context.Context) ([]day.Record, error) {
	return s.days.ListDays(ctx)
}

// EnsureDay creates an empty record for the date if none exists and returns
// the record either way. The rollover worker uses this at midnight.
func (s *Service) EnsureDay(ctx context.Context, date string) (day.Record, error) {
	if err := validDate(date); err != nil {
		return day.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.days.GetDay(ctx, date)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, storage.ErrDayNotFound) {
		return day.Record{}, err
	}

	rec, err = s.days.SeedDay(ctx, day.Record{Date: date})
	if err != nil {
		return day.Record{}, err
	}
	s.log.WithField("date", date).Info("opened new day record")
	return rec, nil
}

// UpdateStats overwrites the day's activity numbers.
func (s *Service) UpdateStats(ctx context.Context, date string, stats day.Stats) (day.Record, error) {
	if err := validDate(date); err != nil {
		return day.Record{}, err
	}
	if stats.Steps < 0 || stats.Calories < 0 || stats.SleepHours < 0 {
		return day.Record{}, ErrInvalidStats
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days.UpdateDayStats(ctx, date, stats)
}

// ImportStats extracts activity numbers from a screenshot and applies them to
// the day. The extraction runs before any lock is taken.
func (s *Service) ImportStats(ctx context.Context, date string, image []byte, mimeType string) (day.Record, error) {
	if err := validDate(date); err != nil {
		return day.Record{}, err
	}
	if s.extractor == nil {
		return day.Record{}, ErrNoCollaborator
	}
	if len(image) == 0 {
		return day.Record{}, fmt.Errorf("image payload is required")
	}

	stats, err := s.extractor.ExtractStats(ctx, image, mimeType)
	if err != nil {
		return day.Record{}, err
	}
	if stats.Steps < 0 || stats.Calories < 0 || stats.SleepHours < 0 {
		s.log.WithField("date", date).
			WithField("steps", stats.Steps).
			Warn("extractor returned negative stats, discarding")
		return day.Record{}, ErrInvalidStats
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.days.UpdateDayStats(ctx, date, stats)
	if err != nil {
		return day.Record{}, err
	}
	s.log.WithField("date", date).
		WithField("steps", stats.Steps).
		Info("imported stats from screenshot")
	return rec, nil
}

// Targets returns the current goal targets.
func (s *Service) Targets(ctx context.Context) (profile.Targets, error) {
	return s.targets.GetTargets(ctx)
}

// SetTargets replaces the goal targets. All three must be positive; a zero
// target would zero out its score component and is almost always a mistake.
func (s *Service) SetTargets(ctx context.Context, t profile.Targets) (profile.Targets, error) {
	if t.Steps <= 0 || t.Calories <= 0 || t.SleepHours <= 0 {
		return profile.Targets{}, ErrInvalidTargets
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targets.SetTargets(ctx, t)
}

// AddTasks appends caller-authored tasks to a day.
func (s *Service) AddTasks(ctx context.Context, date string, inputs []day.TaskInput) (day.Record, error) {
	if err := validDate(date); err != nil {
		return day.Record{}, err
	}
	for i := range inputs {
		if strings.TrimSpace(inputs[i].Text) == "" {
			return day.Record{}, fmt.Errorf("task text is required")
		}
		inputs[i].Type = day.ParseTaskType(string(inputs[i].Type))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days.AppendTasks(ctx, date, inputs)
}

// GenerateTasks asks the collaborator for fresh tasks and appends them to the
// day. The hackathon day instead replaces the task list with its curated set.
func (s *Service) GenerateTasks(ctx context.Context, date string) (day.Record, error) {
	if err := validDate(date); err != nil {
		return day.Record{}, err
	}

	if date == hackathonDate {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.days.ReplaceTasks(ctx, date, []day.TaskInput{
			{Text: "Submit a photo of the hackathon you attended with your team.", Type: day.TaskActivityImage},
			{Text: "Take a walk and send a picture of your surroundings.", Type: day.TaskActivityImage},
			{Text: "You need good sleep today for everything you accomplished. Upload a picture of your bed before you sleep.", Type: day.TaskActivityImage},
		})
	}

	if s.generator == nil {
		return day.Record{}, ErrNoCollaborator
	}

	rec, err := s.days.GetDay(ctx, date)
	if err != nil {
		return day.Record{}, err
	}
	existing := make([]string, 0, len(rec.Tasks))
	for _, t := range rec.Tasks {
		existing = append(existing, t.Text)
	}

	inputs, err := s.generator.GenerateTasks(ctx, existing)
	if err != nil {
		return day.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err = s.days.AppendTasks(ctx, date, inputs)
	if err != nil {
		return day.Record{}, err
	}
	s.log.WithField("date", date).WithField("count", len(inputs)).Info("generated tasks")
	return rec, nil
}

// SubmitWriting completes a writing task with the user's text. The reviewer
// runs before the lock; writing submissions are always accepted, the feedback
// is encouragement.
func (s *Service) SubmitWriting(ctx context.Context, date string, taskID int64, text string) (day.Task, error) {
	if err := validDate(date); err != nil {
		return day.Task{}, err
	}
	if strings.TrimSpace(text) == "" {
		return day.Task{}, fmt.Errorf("submission text is required")
	}
	if s.texts == nil {
		return day.Task{}, ErrNoCollaborator
	}

	task, err := s.findTask(ctx, date, taskID)
	if err != nil {
		return day.Task{}, err
	}
	if task.Type != day.TaskWriting {
		return day.Task{}, fmt.Errorf("task %d is %s: %w", taskID, task.Type, ErrWrongTaskType)
	}
	if task.Completed {
		return task, nil
	}

	feedback, err := s.texts.VerifyWriting(ctx, task.Text, text)
	if err != nil {
		return day.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days.CompleteTask(ctx, date, taskID, feedback, text)
}

// SubmitImage completes an image task with an uploaded photo. A rejected
// photo leaves the task open and returns a RejectionError carrying the
// reviewer's feedback.
func (s *Service) SubmitImage(ctx context.Context, date string, taskID int64, image []byte, mimeType string) (day.Task, error) {
	if err := validDate(date); err != nil {
		return day.Task{}, err
	}
	if len(image) == 0 {
		return day.Task{}, fmt.Errorf("image payload is required")
	}
	if s.images == nil {
		return day.Task{}, ErrNoCollaborator
	}

	task, err := s.findTask(ctx, date, taskID)
	if err != nil {
		return day.Task{}, err
	}
	if task.Type != day.TaskFoodImage && task.Type != day.TaskActivityImage {
		return day.Task{}, fmt.Errorf("task %d is %s: %w", taskID, task.Type, ErrWrongTaskType)
	}
	if task.Completed {
		return task, nil
	}

	feedback, complete, err := s.images.VerifyImage(ctx, task.Text, image, mimeType)
	if err != nil {
		return day.Task{}, err
	}
	if !complete {
		s.log.WithField("date", date).WithField("task", taskID).Info("image submission rejected")
		return day.Task{}, &RejectionError{Feedback: feedback}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days.CompleteTask(ctx, date, taskID, feedback, "image:"+mimeType)
}

func (s *Service) findTask(ctx context.Context, date string, taskID int64) (day.Task, error) {
	rec, err := s.days.GetDay(ctx, date)
	if err != nil {
		return day.Task{}, err
	}
	for _, t := range rec.Tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return day.Task{}, fmt.Errorf("task %d on %s: %w", taskID, date, storage.ErrTaskNotFound)
}
