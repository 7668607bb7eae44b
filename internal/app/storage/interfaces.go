package storage

import (
	"context"
	"errors"

	"github.com/aurawell/aura/internal/app/domain/community"
	"github.com/aurawell/aura/internal/app/domain/day"
	"github.com/aurawell/aura/internal/app/domain/ledger"
	"github.com/aurawell/aura/internal/app/domain/profile"
)

// Sentinel errors shared by every store implementation so callers can map
// them without knowing the backend.
var (
	ErrDayNotFound    = errors.New("day record not found")
	ErrDayExists      = errors.New("day record already exists")
	ErrTaskNotFound   = errors.New("task not found")
	ErrMemberNotFound = errors.New("community member not found")
)

// DayStore persists day records and their task lists. Task identifiers are
// assigned by the store and are unique across the whole dataset, not just
// within a day.
type DayStore interface {
	SeedDay(ctx context.Context, rec day.Record) (day.Record, error)
	GetDay(ctx context.Context, date string) (day.Record, error)
	ListDays(ctx context.Context) ([]day.Record, error)
	UpdateDayStats(ctx context.Context, date string, stats day.Stats) (day.Record, error)
	AppendTasks(ctx context.Context, date string, inputs []day.TaskInput) (day.Record, error)
	ReplaceTasks(ctx context.Context, date string, inputs []day.TaskInput) (day.Record, error)
	CompleteTask(ctx context.Context, date string, taskID int64, feedback, userInput string) (day.Task, error)
}

// TargetStore persists the user's goal targets.
type TargetStore interface {
	GetTargets(ctx context.Context) (profile.Targets, error)
	SetTargets(ctx context.Context, t profile.Targets) (profile.Targets, error)
}

// LedgerStore persists the aura sharing ledger. Both counters are cumulative
// and may only be increased.
type LedgerStore interface {
	GetLedger(ctx context.Context) (ledger.State, error)
	AddShared(ctx context.Context, amount int) (ledger.State, error)
	AddReceived(ctx context.Context, amount int) (ledger.State, error)
}

// MemberStore persists the community roster.
type MemberStore interface {
	CreateMember(ctx context.Context, m community.Member) (community.Member, error)
	GetMember(ctx context.Context, id string) (community.Member, error)
	ListMembers(ctx context.Context) ([]community.Member, error)
	AddMemberAura(ctx context.Context, id string, amount int) (community.Member, error)
}

// ProfileStore persists the session owner's profile.
type ProfileStore interface {
	GetProfile(ctx context.Context) (profile.User, error)
	SetProfile(ctx context.Context, u profile.User) (profile.User, error)
}
