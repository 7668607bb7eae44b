package avatar

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aurawell/aura/internal/app/storage"
	"github.com/aurawell/aura/pkg/logger"
)

var ErrNoCollaborator = errors.New("no model collaborator attached")

// Generator renders a stylized avatar PNG from an uploaded photo.
type Generator interface {
	GenerateAvatar(ctx context.Context, image []byte, mimeType string) ([]byte, error)
}

// Service turns an uploaded photo into the profile avatar.
type Service struct {
	profile   storage.ProfileStore
	generator Generator
	log       *logger.Logger
}

func New(profile storage.ProfileStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("avatar")
	}
	return &Service{profile: profile, log: log}
}

func (s *Service) AttachAI(generator Generator) {
	s.generator = generator
}

// Generate renders the avatar and stores it on the profile as a PNG data
// URI. Returns the stored URI.
func (s *Service) Generate(ctx context.Context, image []byte, mimeType string) (string, error) {
	if s.generator == nil {
		return "", ErrNoCollaborator
	}
	if len(image) == 0 {
		return "", fmt.Errorf("image payload is required")
	}

	rendered, err := s.generator.GenerateAvatar(ctx, image, mimeType)
	if err != nil {
		return "", err
	}

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(rendered)

	user, err := s.profile.GetProfile(ctx)
	if err != nil {
		return "", err
	}
	user.AvatarURL = uri
	if _, err := s.profile.SetProfile(ctx, user); err != nil {
		return "", err
	}

	s.log.WithField("bytes", len(rendered)).Info("avatar updated")
	return uri, nil
}
