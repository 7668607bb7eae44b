package community

import (
	"context"
	"fmt"
	"strings"

	"github.com/aurawell/aura/internal/app/domain/community"
	"github.com/aurawell/aura/internal/app/storage"
	"github.com/aurawell/aura/pkg/logger"
)

// Service manages the community roster.
type Service struct {
	members storage.MemberStore
	log     *logger.Logger
}

func New(members storage.MemberStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("community")
	}
	return &Service{members: members, log: log}
}

// Members returns the roster in creation order.
func (s *Service) Members(ctx context.Context) ([]community.Member, error) {
	return s.members.ListMembers(ctx)
}

// Member returns one roster entry.
func (s *Service) Member(ctx context.Context, id string) (community.Member, error) {
	if strings.TrimSpace(id) == "" {
		return community.Member{}, fmt.Errorf("member id is required")
	}
	return s.members.GetMember(ctx, id)
}

// Add puts a new member on the roster.
func (s *Service) Add(ctx context.Context, m community.Member) (community.Member, error) {
	if strings.TrimSpace(m.Name) == "" {
		return community.Member{}, fmt.Errorf("member name is required")
	}
	if m.AuraScore < 0 {
		return community.Member{}, fmt.Errorf("member aura score must not be negative")
	}

	created, err := s.members.CreateMember(ctx, m)
	if err != nil {
		return community.Member{}, err
	}
	s.log.WithField("member", created.Name).Info("added community member")
	return created, nil
}
