package companion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aurawell/aura/pkg/logger"
)

var ErrNoCollaborator = errors.New("no model collaborator attached")

// maxHistoryTurns bounds the context sent to the model per session.
const maxHistoryTurns = 40

// Role identifies who spoke a turn.
type Role string

const (
	RoleUser Role = "user"
	RoleAura Role = "aura"
)

// Turn is one utterance in a companion conversation.
type Turn struct {
	Role Role
	Text string
}

// Chatter answers one turn given the conversation so far.
type Chatter interface {
	Chat(ctx context.Context, history []Turn, message string) (string, error)
}

// Service hands out chat sessions backed by the companion model.
type Service struct {
	chatter Chatter
	log     *logger.Logger
}

func New(log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("companion")
	}
	return &Service{log: log}
}

func (s *Service) AttachAI(chatter Chatter) {
	s.chatter = chatter
}

// NewSession opens an empty conversation. Each websocket connection gets its
// own session; history lives only as long as the connection.
func (s *Service) NewSession() (*Session, error) {
	if s.chatter == nil {
		return nil, ErrNoCollaborator
	}
	return &Session{chatter: s.chatter, log: s.log}, nil
}

// Session is one companion conversation. Safe for concurrent use, though a
// websocket connection drives it from a single reader goroutine in practice.
type Session struct {
	chatter Chatter
	log     *logger.Logger

	mu      sync.Mutex
	history []Turn
}

// Send delivers a user message and returns the companion's reply. Both turns
// are appended to the session history, which is trimmed to the most recent
// turns to bound the model context.
func (s *Session) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message is required")
	}

	s.mu.Lock()
	history := append([]Turn(nil), s.history...)
	s.mu.Unlock()

	reply, err := s.chatter.Chat(ctx, history, message)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.history = append(s.history, Turn{Role: RoleUser, Text: message}, Turn{Role: RoleAura, Text: reply})
	if len(s.history) > maxHistoryTurns {
		s.history = s.history[len(s.history)-maxHistoryTurns:]
	}
	s.mu.Unlock()

	return reply, nil
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.history...)
}
