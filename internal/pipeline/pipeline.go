// Package pipeline sequences extraction, translation, synthesis, publishing
// and audit logging for one uploaded document.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/docvoice/audio-pipeline/internal/artifact"
	"github.com/docvoice/audio-pipeline/internal/config"
	"github.com/docvoice/audio-pipeline/internal/domain"
)

// Inspector reports metadata for the source document.
type Inspector interface {
	Inspect(ctx context.Context, doc domain.SourceDocument) (artifact.ObjectInfo, error)
}

// Extractor turns the source document into text.
type Extractor interface {
	Extract(ctx context.Context, doc domain.SourceDocument) (string, error)
}

// Translator translates text from the source language.
type Translator interface {
	Translate(ctx context.Context, text string, target domain.Language) (string, error)
}

// Synthesizer produces a staged audio artifact, or nil when there is no audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang domain.Language, base string) (*domain.Artifact, error)
}

// Publisher uploads a staged artifact and returns its destination key.
type Publisher interface {
	Publish(ctx context.Context, a *domain.Artifact) (string, error)
}

// AuditLogger records one entry per published artifact.
type AuditLogger interface {
	Record(ctx context.Context, sourceKey, artifactName string) (domain.AuditEntry, error)
}

// Deps are the capabilities the pipeline is built from. All must be safe for
// concurrent use.
type Deps struct {
	Inspector   Inspector
	Extractor   Extractor
	Translator  Translator
	Synthesizer Synthesizer
	Publisher   Publisher
	Audit       AuditLogger
}

// Outcome is what happened for one language.
type Outcome struct {
	Language domain.Language   `json:"language"`
	Artifact string            `json:"artifact,omitempty"`
	Entry    *domain.AuditEntry `json:"entry,omitempty"`
	// Skipped is set when synthesis returned no audio.
	Skipped bool `json:"skipped,omitempty"`
}

// Result summarizes a successful invocation.
type Result struct {
	Source   domain.SourceDocument `json:"source"`
	Outcomes []Outcome             `json:"outcomes"`
}

// Published returns the keys of the artifacts that were uploaded, in language order.
func (r *Result) Published() []string {
	keys := make([]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if !o.Skipped {
			keys = append(keys, o.Artifact)
		}
	}
	return keys
}

// Pipeline runs one document through every stage.
type Pipeline struct {
	deps      Deps
	languages *config.Languages
	log       zerolog.Logger
}

// New creates a Pipeline.
func New(deps Deps, languages *config.Languages, log zerolog.Logger) *Pipeline {
	return &Pipeline{deps: deps, languages: languages, log: log}
}

// Run processes doc. The first failing stage fails the whole run; whatever
// was already published or logged stays in place.
func (p *Pipeline) Run(ctx context.Context, doc domain.SourceDocument) (*Result, error) {
	log := p.log.With().Str("bucket", doc.Bucket).Str("key", doc.Key).Logger()

	info, err := p.deps.Inspector.Inspect(ctx, doc)
	if err != nil {
		return nil, domain.NewStageError(domain.ErrExtraction, "", err)
	}
	log.Info().Str("contentType", info.ContentType).Int64("size", info.Size).Msg("Processing document")

	text, err := p.deps.Extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	translations, err := p.translateAll(ctx, text)
	if err != nil {
		return nil, err
	}

	base := domain.BaseName(doc.Key)
	outcomes := make([]Outcome, len(translations))

	g, gctx := errgroup.WithContext(ctx)
	for i, tr := range translations {
		i, tr := i, tr
		g.Go(func() error {
			o, err := p.voice(gctx, doc.Key, base, tr, log)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Source: doc, Outcomes: outcomes}
	log.Info().Strs("artifacts", result.Published()).Msg("Document converted")
	return result, nil
}

// translateAll returns the source text followed by one translation per target.
// Every translation finishes before any audio is produced.
func (p *Pipeline) translateAll(ctx context.Context, text string) ([]domain.Translation, error) {
	targets := p.languages.Targets()
	translations := make([]domain.Translation, len(targets)+1)
	translations[0] = domain.Translation{Language: p.languages.Source(), Text: text}

	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			translated, err := p.deps.Translator.Translate(gctx, text, target)
			if err != nil {
				return err
			}
			translations[i+1] = domain.Translation{Language: target, Text: translated}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return translations, nil
}

// voice synthesizes, publishes and logs one language.
func (p *Pipeline) voice(ctx context.Context, sourceKey, base string, tr domain.Translation, log zerolog.Logger) (Outcome, error) {
	outcome := Outcome{Language: tr.Language}

	a, err := p.deps.Synthesizer.Synthesize(ctx, tr.Text, tr.Language, base)
	if err != nil {
		return outcome, err
	}
	if a == nil {
		log.Warn().Str("language", tr.Language.SpeechCode).Msg("No audio produced, skipping publish")
		outcome.Skipped = true
		return outcome, nil
	}

	key, err := p.deps.Publisher.Publish(ctx, a)
	if err != nil {
		return outcome, err
	}
	outcome.Artifact = key

	entry, err := p.deps.Audit.Record(ctx, sourceKey, key)
	if err != nil {
		return outcome, err
	}
	outcome.Entry = &entry

	return outcome, nil
}
