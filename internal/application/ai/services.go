package ai

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/ai"
)

// Service sits between the workflow and a concrete model client.
// Every failure leaving Analyze is an *ai.AnalysisError.
type Service struct {
	client   ai.Client
	provider string
}

func NewService(client ai.Client, provider string) *Service {
	return &Service{client: client, provider: provider}
}

func (s *Service) Analyze(ctx context.Context, image ai.Image, prompt string) (string, error) {
	start := time.Now()
	text, err := s.client.Analyze(ctx, image, prompt)
	logger := log.With().
		Str("provider", s.provider).
		Int("imageBytes", len(image.Data)).
		Dur("duration", time.Since(start)).
		Logger()
	if err != nil {
		ev := logger.Error()
		if errors.Is(err, ai.ErrQuotaExceeded) {
			ev = logger.Warn()
		}
		ev.Err(err).Msg("model call failed")
		return "", ai.NewAnalysisError(err)
	}
	logger.Info().Int("responseChars", len(text)).Msg("model call finished")
	return text, nil
}
