package config

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/docvoice/audio-pipeline/internal/domain"
)

// Languages is the immutable language table: one source language plus the
// translation targets. Built once per process.
type Languages struct {
	source  domain.Language
	targets []domain.Language
}

// DefaultLanguages returns English as source with Hindi and Mandarin targets.
func DefaultLanguages() (*Languages, error) {
	return NewLanguages(
		domain.Language{Code: "en", SpeechCode: "en-US", Voice: "Joanna", Label: "english"},
		domain.Language{Code: "hi", SpeechCode: "hi-IN", Voice: "Kajal", Label: "hindi"},
		domain.Language{Code: "zh", SpeechCode: "cmn-CN", Voice: "Zhiyu", Label: "chinese"},
	)
}

// NewLanguages validates and builds a language table.
func NewLanguages(source domain.Language, targets ...domain.Language) (*Languages, error) {
	all := append([]domain.Language{source}, targets...)
	labels := make(map[string]bool, len(all))
	for _, l := range all {
		if err := validate(l); err != nil {
			return nil, err
		}
		if labels[l.Label] {
			return nil, fmt.Errorf("duplicate language label %q", l.Label)
		}
		labels[l.Label] = true
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("at least one target language is required")
	}

	return &Languages{
		source:  source,
		targets: append([]domain.Language(nil), targets...),
	}, nil
}

func validate(l domain.Language) error {
	if _, err := language.Parse(l.Code); err != nil {
		return fmt.Errorf("invalid language code %q: %w", l.Code, err)
	}
	if _, err := language.Parse(l.SpeechCode); err != nil {
		return fmt.Errorf("invalid speech language code %q: %w", l.SpeechCode, err)
	}
	if l.Voice == "" {
		return fmt.Errorf("voice is required for %s", l.SpeechCode)
	}
	if l.Label == "" {
		return fmt.Errorf("label is required for %s", l.SpeechCode)
	}
	return nil
}

// Source returns the language documents are written in.
func (l *Languages) Source() domain.Language {
	return l.source
}

// Targets returns a copy of the translation targets.
func (l *Languages) Targets() []domain.Language {
	return append([]domain.Language(nil), l.targets...)
}

// All returns the source followed by the targets.
func (l *Languages) All() []domain.Language {
	return append([]domain.Language{l.source}, l.targets...)
}

// LabelFor maps a synthesis language code to its artifact label.
func (l *Languages) LabelFor(speechCode string) (string, bool) {
	for _, lang := range l.All() {
		if lang.SpeechCode == speechCode {
			return lang.Label, true
		}
	}
	return "", false
}
