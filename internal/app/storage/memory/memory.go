package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aurawell/aura/internal/app/domain/community"
	"github.com/aurawell/aura/internal/app/domain/day"
	"github.com/aurawell/aura/internal/app/domain/ledger"
	"github.com/aurawell/aura/internal/app/domain/profile"
	"github.com/aurawell/aura/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is the backend every session runs on; state is
// process-local by design and dropped when the session ends.
type Store struct {
	mu         sync.RWMutex
	nextTaskID int64
	days       map[string]day.Record
	targets    profile.Targets
	ledger     ledger.State
	members    map[string]community.Member
	memberSeq  []string
	user       profile.User
}

var _ storage.DayStore = (*Store)(nil)
var _ storage.TargetStore = (*Store)(nil)
var _ storage.LedgerStore = (*Store)(nil)
var _ storage.MemberStore = (*Store)(nil)
var _ storage.ProfileStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextTaskID: 1,
		days:       make(map[string]day.Record),
		members:    make(map[string]community.Member),
	}
}

func (s *Store) nextTaskIDLocked() int64 {
	id := s.nextTaskID
	s.nextTaskID++
	return id
}

// DayStore implementation ----------------------------------------------------

func (s *Store) SeedDay(_ context.Context, rec day.Record) (day.Record, error) {
	date := strings.TrimSpace(rec.Date)
	if date == "" {
		return day.Record{}, fmt.Errorf("day date is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.days[date]; exists {
		return day.Record{}, fmt.Errorf("day %s: %w", date, storage.ErrDayExists)
	}

	rec.Date = date
	rec.Tasks = append([]day.Task(nil), rec.Tasks...)
	for i := range rec.Tasks {
		if rec.Tasks[i].ID == 0 {
			rec.Tasks[i].ID = s.nextTaskIDLocked()
		} else if rec.Tasks[i].ID >= s.nextTaskID {
			s.nextTaskID = rec.Tasks[i].ID + 1
		}
	}

	s.days[date] = rec
	return cloneRecord(rec), nil
}

func (s *Store) GetDay(_ context.Context, date string) (day.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.days[date]
	if !ok {
		return day.Record{}, fmt.Errorf("day %s: %w", date, storage.ErrDayNotFound)
	}
	return cloneRecord(rec), nil
}

func (s *Store) ListDays(_ context.Context) ([]day.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]day.Record, 0, len(s.days))
	for _, rec := range s.days {
		result = append(result, cloneRecord(rec))
	}
	// ISO dates sort chronologically.
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (s *Store) UpdateDayStats(_ context.Context, date string, stats day.Stats) (day.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.days[date]
	if !ok {
		return day.Record{}, fmt.Errorf("day %s: %w", date, storage.ErrDayNotFound)
	}

	rec.Stats = stats
	s.days[date] = rec
	return cloneRecord(rec), nil
}

func (s *Store) AppendTasks(_ context.Context, date string, inputs []day.TaskInput) (day.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.days[date]
	if !ok {
		return day.Record{}, fmt.Errorf("day %s: %w", date, storage.ErrDayNotFound)
	}

	tasks := append([]day.Task(nil), rec.Tasks...)
	for _, in := range inputs {
		tasks = append(tasks, day.Task{
			ID:   s.nextTaskIDLocked(),
			Text: in.Text,
			Type: in.Type,
		})
	}
	rec.Tasks = tasks
	s.days[date] = rec
	return cloneRecord(rec), nil
}

func (s *Store) ReplaceTasks(_ context.Context, date string, inputs []day.TaskInput) (day.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.days[date]
	if !ok {
		return day.Record{}, fmt.Errorf("day %s: %w", date, storage.ErrDayNotFound)
	}

	tasks := make([]day.Task, 0, len(inputs))
	for _, in := range inputs {
		tasks = append(tasks, day.Task{
			ID:   s.nextTaskIDLocked(),
			Text: in.Text,
			Type: in.Type,
		})
	}
	rec.Tasks = tasks
	s.days[date] = rec
	return cloneRecord(rec), nil
}

func (s *Store) CompleteTask(_ context.Context, date string, taskID int64, feedback, userInput string) (day.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.days[date]
	if !ok {
		return day.Task{}, fmt.Errorf("day %s: %w", date, storage.ErrDayNotFound)
	}

	for i := range rec.Tasks {
		if rec.Tasks[i].ID != taskID {
			continue
		}
		if rec.Tasks[i].Completed {
			// Completion is one-way; re-applying a resolved result is a no-op
			// so callers can safely retry.
			return rec.Tasks[i], nil
		}
		rec.Tasks[i].Completed = true
		rec.Tasks[i].Feedback = feedback
		rec.Tasks[i].UserInput = userInput
		s.days[date] = rec
		return rec.Tasks[i], nil
	}
	return day.Task{}, fmt.Errorf("task %d on %s: %w", taskID, date, storage.ErrTaskNotFound)
}

// TargetStore implementation --------------------------------------------------

func (s *Store) GetTargets(_ context.Context) (profile.Targets, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.targets, nil
}

func (s *Store) SetTargets(_ context.Context, t profile.Targets) (profile.Targets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = t
	return t, nil
}

// LedgerStore implementation --------------------------------------------------

func (s *Store) GetLedger(_ context.Context) (ledger.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger, nil
}

func (s *Store) AddShared(_ context.Context, amount int) (ledger.State, error) {
	if amount <= 0 {
		return ledger.State{}, fmt.Errorf("shared increment must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Shared += amount
	return s.ledger, nil
}

func (s *Store) AddReceived(_ context.Context, amount int) (ledger.State, error) {
	if amount <= 0 {
		return ledger.State{}, fmt.Errorf("received increment must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Received += amount
	return s.ledger, nil
}

// MemberStore implementation --------------------------------------------------

func (s *Store) CreateMember(_ context.Context, m community.Member) (community.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	} else if _, exists := s.members[m.ID]; exists {
		return community.Member{}, fmt.Errorf("member %s already exists", m.ID)
	}

	s.members[m.ID] = m
	s.memberSeq = append(s.memberSeq, m.ID)
	return m, nil
}

func (s *Store) GetMember(_ context.Context, id string) (community.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[id]
	if !ok {
		return community.Member{}, fmt.Errorf("member %s: %w", id, storage.ErrMemberNotFound)
	}
	return m, nil
}

func (s *Store) ListMembers(_ context.Context) ([]community.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]community.Member, 0, len(s.memberSeq))
	for _, id := range s.memberSeq {
		result = append(result, s.members[id])
	}
	return result, nil
}

func (s *Store) AddMemberAura(_ context.Context, id string, amount int) (community.Member, error) {
	if amount <= 0 {
		return community.Member{}, fmt.Errorf("aura increment must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok {
		return community.Member{}, fmt.Errorf("member %s: %w", id, storage.ErrMemberNotFound)
	}
	m.AuraScore += amount
	s.members[id] = m
	return m, nil
}

// ProfileStore implementation -------------------------------------------------

func (s *Store) GetProfile(_ context.Context) (profile.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, nil
}

func (s *Store) SetProfile(_ context.Context, u profile.User) (profile.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	return u, nil
}

// Helpers --------------------------------------------------------------------

func cloneRecord(rec day.Record) day.Record {
	rec.Tasks = append([]day.Task(nil), rec.Tasks...)
	return rec
}
