// Package speech synthesizes audio artifacts with Amazon Polly and stages them
// on local disk until they are published.
package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/rs/zerolog"

	"github.com/docvoice/audio-pipeline/internal/awsclient"
	"github.com/docvoice/audio-pipeline/internal/domain"
)

// PollyAPI is the subset of the Polly client the synthesizer uses.
type PollyAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// Synthesizer converts text to an mp3 artifact with the neural engine.
type Synthesizer struct {
	client     PollyAPI
	stagingDir string
	timeout    time.Duration
	log        zerolog.Logger
}

// New creates a Synthesizer staging files under stagingDir.
func New(client PollyAPI, stagingDir string, timeout time.Duration, log zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		client:     client,
		stagingDir: stagingDir,
		timeout:    timeout,
		log:        log,
	}
}

// Synthesize produces the artifact for one language. It returns (nil, nil)
// when the service succeeds without audio; callers skip publishing then.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, lang domain.Language, base string) (*domain.Artifact, error) {
	name := domain.ArtifactName(base, lang.Label)
	log := s.log.With().Str("language", lang.SpeechCode).Str("artifact", name).Logger()

	callCtx, cancel := awsclient.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.client.SynthesizeSpeech(callCtx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		LanguageCode: types.LanguageCode(lang.SpeechCode),
		VoiceId:      types.VoiceId(lang.Voice),
		OutputFormat: types.OutputFormatMp3,
		Engine:       types.EngineNeural,
	})
	if err != nil {
		return nil, domain.NewStageError(domain.ErrSynthesis, lang.SpeechCode, fmt.Errorf("synthesize %s with %s: %w", name, lang.Voice, err))
	}
	if out == nil || out.AudioStream == nil {
		log.Warn().Msg("No audio stream in synthesis response")
		return nil, nil
	}
	defer out.AudioStream.Close()

	path := filepath.Join(s.stagingDir, filepath.FromSlash(name))
	size, err := stage(path, out.AudioStream)
	if err != nil {
		return nil, domain.NewStageError(domain.ErrSynthesis, lang.SpeechCode, err)
	}
	if size == 0 {
		_ = os.Remove(path)
		log.Warn().Msg("Empty audio stream in synthesis response")
		return nil, nil
	}

	log.Info().Int64("bytes", size).Str("path", path).Msg("Audio synthesized")
	return &domain.Artifact{
		Name:        name,
		Language:    lang,
		StagingPath: path,
		Size:        size,
	}, nil
}

// stage writes the stream to path, removing a partial file on failure.
func stage(path string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create staging dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create staging file: %w", err)
	}

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr != nil {
			return 0, fmt.Errorf("failed to read audio stream: %w", copyErr)
		}
		return 0, fmt.Errorf("failed to close staging file: %w", closeErr)
	}

	return n, nil
}
