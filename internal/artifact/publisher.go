package artifact

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/docvoice/audio-pipeline/internal/domain"
)

// Publisher uploads staged audio artifacts to the audio bucket.
type Publisher struct {
	store *Store
	log   zerolog.Logger
}

// NewPublisher creates a Publisher writing through store.
func NewPublisher(store *Store, log zerolog.Logger) *Publisher {
	return &Publisher{store: store, log: log}
}

// Publish uploads the artifact under its logical name, independent of where
// it was staged, and removes the staging file afterwards. It returns the
// destination key.
func (p *Publisher) Publish(ctx context.Context, a *domain.Artifact) (string, error) {
	log := p.log.With().Str("artifact", a.Name).Str("language", a.Language.SpeechCode).Logger()

	file, err := os.Open(a.StagingPath)
	if err != nil {
		return "", domain.NewStageError(domain.ErrPublish, a.Language.SpeechCode, fmt.Errorf("open staged artifact: %w", err))
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close staged artifact")
		}
		if err := os.Remove(a.StagingPath); err != nil {
			log.Warn().Err(err).Msg("Failed to remove staged artifact")
		}
	}()

	if err := p.store.put(ctx, a.Name, file, a.Size, AudioContentType); err != nil {
		return "", domain.NewStageError(domain.ErrPublish, a.Language.SpeechCode, err)
	}

	log.Info().Str("bucket", p.store.Bucket()).Msg("Artifact published")
	return a.Name, nil
}
