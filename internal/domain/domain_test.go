package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"invoice.pdf", "invoice"},
		{"my doc.pdf", "my doc"},
		{"archive.tar.gz", "archive"},
		{"noext", "noext"},
		{".hidden", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := BaseName(tt.key); got != tt.expected {
				t.Errorf("BaseName(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestArtifactName(t *testing.T) {
	base := BaseName("invoice.pdf")
	for label, want := range map[string]string{
		"english": "invoice_english.mp3",
		"hindi":   "invoice_hindi.mp3",
		"chinese": "invoice_chinese.mp3",
	} {
		if got := ArtifactName(base, label); got != want {
			t.Errorf("ArtifactName(%q, %q) = %q, want %q", base, label, got, want)
		}
	}
}

func TestStageError(t *testing.T) {
	err := NewStageError(ErrSynthesis, "hi-IN", errors.New("boom"))

	if !errors.Is(err, ErrSynthesis) {
		t.Error("StageError should match its stage kind")
	}
	if errors.Is(err, ErrPublish) {
		t.Error("StageError should not match other kinds")
	}
	if IsRetryable(err) {
		t.Error("plain failure should not be retryable")
	}
	if err.Error() != "synthesis failed (hi-IN): boom" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := fmt.Errorf("invocation: %w", NewStageError(ErrPublish, "", context.DeadlineExceeded))
	if !errors.Is(wrapped, ErrPublish) || !errors.Is(wrapped, ErrTimeout) {
		t.Error("deadline failures should match both the stage and ErrTimeout")
	}
	if !IsRetryable(wrapped) {
		t.Error("deadline failures should be retryable")
	}
}
