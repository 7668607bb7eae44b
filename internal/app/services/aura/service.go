package aura

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aurawell/aura/internal/app/domain/community"
	"github.com/aurawell/aura/internal/app/domain/ledger"
	"github.com/aurawell/aura/internal/app/services/scoring"
	"github.com/aurawell/aura/internal/app/storage"
	"github.com/aurawell/aura/pkg/logger"
)

var ErrInsufficientAura = errors.New("insufficient aura to share")

// Breakdown is the displayed aura score with its components. Score is
// Base + Bonus - Shared + Received and is deliberately not clamped; heavy
// sharing can push it negative.
type Breakdown struct {
	Base     int
	Bonus    int
	Shared   int
	Received int
	Score    int
}

// Service computes the displayed aura score and runs the sharing ledger.
type Service struct {
	engine  *scoring.Engine
	days    storage.DayStore
	targets storage.TargetStore
	ledger  storage.LedgerStore
	members storage.MemberStore
	mu      sync.Locker
	log     *logger.Logger
}

// New creates the aura service. mu must be the same lock the journal service
// mutates under so the share gate observes a stable score; nil gets a
// private lock.
func New(engine *scoring.Engine, days storage.DayStore, targets storage.TargetStore, led storage.LedgerStore, members storage.MemberStore, mu sync.Locker, log *logger.Logger) *Service {
	if engine == nil {
		engine = scoring.NewEngine()
	}
	if mu == nil {
		mu = &sync.Mutex{}
	}
	if log == nil {
		log = logger.NewDefault("aura")
	}
	return &Service{engine: engine, days: days, targets: targets, ledger: led, members: members, mu: mu, log: log}
}

// Score returns the current breakdown.
func (s *Service) Score(ctx context.Context) (Breakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreLocked(ctx)
}

func (s *Service) scoreLocked(ctx context.Context) (Breakdown, error) {
	days, err := s.days.ListDays(ctx)
	if err != nil {
		return Breakdown{}, err
	}
	targets, err := s.targets.GetTargets(ctx)
	if err != nil {
		return Breakdown{}, err
	}
	led, err := s.ledger.GetLedger(ctx)
	if err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		Base:     s.engine.WeeklyBase(days, targets),
		Bonus:    s.engine.CompletionBonus(days),
		Shared:   led.Shared,
		Received: led.Received,
	}
	b.Score = b.Base + b.Bonus - b.Shared + b.Received
	return b, nil
}

// Share spends aura. The gate and the ledger increment happen under one lock
// so concurrent shares cannot overdraw. An optional member id credits the
// shared amount to that community member.
func (s *Service) Share(ctx context.Context, amount int, memberID string) (Breakdown, error) {
	if amount <= 0 {
		return Breakdown{}, fmt.Errorf("share amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.scoreLocked(ctx)
	if err != nil {
		return Breakdown{}, err
	}
	if amount > current.Score {
		return Breakdown{}, fmt.Errorf("share %d with score %d: %w", amount, current.Score, ErrInsufficientAura)
	}

	var member community.Member
	if memberID != "" {
		// Validate before touching the ledger so a bad id leaves no trace.
		member, err = s.members.GetMember(ctx, memberID)
		if err != nil {
			return Breakdown{}, err
		}
	}

	if _, err := s.ledger.AddShared(ctx, amount); err != nil {
		return Breakdown{}, err
	}
	if memberID != "" {
		if _, err := s.members.AddMemberAura(ctx, memberID, amount); err != nil {
			return Breakdown{}, err
		}
		s.log.WithField("amount", amount).WithField("member", member.Name).Info("shared aura with member")
	} else {
		s.log.WithField("amount", amount).Info("shared aura")
	}

	return s.scoreLocked(ctx)
}

// Receive credits aura gifted from the community.
func (s *Service) Receive(ctx context.Context, amount int) (Breakdown, error) {
	if amount <= 0 {
		return Breakdown{}, fmt.Errorf("receive amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ledger.AddReceived(ctx, amount); err != nil {
		return Breakdown{}, err
	}
	s.log.WithField("amount", amount).Info("received aura")
	return s.scoreLocked(ctx)
}

// Totals returns the raw ledger counters.
func (s *Service) Totals(ctx context.Context) (ledger.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.GetLedger(ctx)
}
