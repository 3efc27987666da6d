// Package handler provides the Lambda handler for the document audio pipeline.
package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/docvoice/audio-pipeline/internal/domain"
	"github.com/docvoice/audio-pipeline/internal/event"
	"github.com/docvoice/audio-pipeline/internal/pipeline"
)

// Runner runs one document through the pipeline.
type Runner interface {
	Run(ctx context.Context, doc domain.SourceDocument) (*pipeline.Result, error)
}

// Response is the output of a successful invocation.
type Response struct {
	Bucket    string   `json:"bucket"`
	Key       string   `json:"key"`
	Artifacts []string `json:"artifacts"`
	Skipped   []string `json:"skipped,omitempty"`
}

// Handler is the single place where invocation failures are reported.
type Handler struct {
	runner Runner
	log    zerolog.Logger
}

// New creates a Handler.
func New(runner Runner, log zerolog.Logger) *Handler {
	return &Handler{runner: runner, log: log}
}

// Handle decodes an S3 event and runs the pipeline for the uploaded document.
// Errors are logged and returned unchanged so the platform can retry.
func (h *Handler) Handle(ctx context.Context, e events.S3Event) (*Response, error) {
	doc, err := event.Decode(e)
	if err != nil {
		return nil, h.fail(domain.SourceDocument{}, err)
	}
	return h.run(ctx, doc)
}

// HandleRaw is Handle for an undecoded payload.
func (h *Handler) HandleRaw(ctx context.Context, payload json.RawMessage) (*Response, error) {
	doc, err := event.DecodeRaw(payload)
	if err != nil {
		return nil, h.fail(domain.SourceDocument{}, err)
	}
	return h.run(ctx, doc)
}

func (h *Handler) run(ctx context.Context, doc domain.SourceDocument) (*Response, error) {
	result, err := h.runner.Run(ctx, doc)
	if err != nil {
		return nil, h.fail(doc, err)
	}

	resp := &Response{
		Bucket:    doc.Bucket,
		Key:       doc.Key,
		Artifacts: result.Published(),
	}
	for _, o := range result.Outcomes {
		if o.Skipped {
			resp.Skipped = append(resp.Skipped, o.Language.Label)
		}
	}
	return resp, nil
}

func (h *Handler) fail(doc domain.SourceDocument, err error) error {
	ev := h.log.Error().Err(err).
		Str("bucket", doc.Bucket).
		Str("key", doc.Key).
		Str("stage", stageOf(err)).
		Bool("retryable", domain.IsRetryable(err))

	var stageErr *domain.StageError
	if errors.As(err, &stageErr) && stageErr.Language != "" {
		ev = ev.Str("language", stageErr.Language)
	}

	ev.Msg("Document conversion failed")
	return err
}

// stageOf names the failing stage for logging.
func stageOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedEvent):
		return "decode"
	case errors.Is(err, domain.ErrExtraction):
		return "extract"
	case errors.Is(err, domain.ErrTranslation):
		return "translate"
	case errors.Is(err, domain.ErrSynthesis):
		return "synthesize"
	case errors.Is(err, domain.ErrPublish):
		return "publish"
	case errors.Is(err, domain.ErrLog):
		return "audit"
	default:
		return "unknown"
	}
}
