package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvoice/audio-pipeline/internal/domain"
	"github.com/docvoice/audio-pipeline/internal/logging"
	"github.com/docvoice/audio-pipeline/internal/pipeline"
)

type fakeRunner struct {
	got    []domain.SourceDocument
	result *pipeline.Result
	err    error
}

func (f *fakeRunner) Run(_ context.Context, doc domain.SourceDocument) (*pipeline.Result, error) {
	f.got = append(f.got, doc)
	return f.result, f.err
}

func s3Event(bucket, key string) events.S3Event {
	return events.S3Event{Records: []events.S3EventRecord{{
		S3: events.S3Entity{
			Bucket: events.S3Bucket{Name: bucket},
			Object: events.S3Object{Key: key},
		},
	}}}
}

func lang(label string) domain.Language {
	return domain.Language{Label: label}
}

func TestHandle_Success(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{Outcomes: []pipeline.Outcome{
		{Language: lang("english"), Artifact: "my_doc_english.mp3"},
		{Language: lang("hindi"), Artifact: "my_doc_hindi.mp3"},
		{Language: lang("chinese"), Skipped: true},
	}}}
	var buf bytes.Buffer
	h := New(runner, logging.NewWithWriter(&buf, "info", "pipeline"))

	resp, err := h.Handle(context.Background(), s3Event("cc-documents-bucket", "my+doc.pdf"))
	require.NoError(t, err)

	require.Len(t, runner.got, 1)
	assert.Equal(t, "my doc.pdf", runner.got[0].Key)
	assert.Equal(t, "cc-documents-bucket", resp.Bucket)
	assert.Equal(t, []string{"my_doc_english.mp3", "my_doc_hindi.mp3"}, resp.Artifacts)
	assert.Equal(t, []string{"chinese"}, resp.Skipped)
	assert.Empty(t, buf.String())
}

func TestHandle_MalformedEventNeverRuns(t *testing.T) {
	runner := &fakeRunner{}
	var buf bytes.Buffer
	h := New(runner, logging.NewWithWriter(&buf, "info", "pipeline"))

	_, err := h.Handle(context.Background(), events.S3Event{})
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
	assert.Empty(t, runner.got)
	assert.Contains(t, buf.String(), `"stage":"decode"`)
}

func TestHandle_ReturnsErrorUnchanged(t *testing.T) {
	cause := domain.NewStageError(domain.ErrSynthesis, "hi-IN", errors.New("ServiceFailureException"))
	runner := &fakeRunner{err: cause}
	var buf bytes.Buffer
	h := New(runner, logging.NewWithWriter(&buf, "info", "pipeline"))

	resp, err := h.Handle(context.Background(), s3Event("b", "invoice.pdf"))
	assert.Nil(t, resp)
	assert.Same(t, cause, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "synthesize", entry["stage"])
	assert.Equal(t, "hi-IN", entry["language"])
	assert.Equal(t, "invoice.pdf", entry["key"])
	assert.Equal(t, false, entry["retryable"])
}

func TestHandleRaw(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{}}
	h := New(runner, logging.NewWithWriter(&strings.Builder{}, "info", "pipeline"))

	payload := json.RawMessage(`{"Records":[{"s3":{"bucket":{"name":"docs"},"object":{"key":"scan%2B1.png"}}}]}`)
	_, err := h.HandleRaw(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, runner.got, 1)
	assert.Equal(t, "scan+1.png", runner.got[0].Key)

	_, err = h.HandleRaw(context.Background(), json.RawMessage(`[`))
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestStageOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrMalformedEvent, "decode"},
		{domain.NewStageError(domain.ErrExtraction, "", errors.New("x")), "extract"},
		{domain.NewStageError(domain.ErrTranslation, "zh", errors.New("x")), "translate"},
		{domain.NewStageError(domain.ErrPublish, "en-US", errors.New("x")), "publish"},
		{domain.NewStageError(domain.ErrLog, "", errors.New("x")), "audit"},
		{errors.New("boom"), "unknown"},
	}
	for _, tt := range tests {
		if got := stageOf(tt.err); got != tt.want {
			t.Errorf("stageOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
