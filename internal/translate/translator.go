// Package translate renders the extracted text in the target languages using
// Amazon Translate.
package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"
	"github.com/rs/zerolog"

	"github.com/docvoice/audio-pipeline/internal/awsclient"
	"github.com/docvoice/audio-pipeline/internal/domain"
)

// TranslateAPI is the subset of the Translate client the translator uses.
type TranslateAPI interface {
	TranslateText(ctx context.Context, params *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

// Translator translates from a fixed source language.
type Translator struct {
	client  TranslateAPI
	source  string
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a Translator for documents written in source.
func New(client TranslateAPI, source domain.Language, timeout time.Duration, log zerolog.Logger) *Translator {
	return &Translator{
		client:  client,
		source:  source.Code,
		timeout: timeout,
		log:     log,
	}
}

// Translate returns text in the target language. There is no retry and no
// chunking: text over the service size limit fails the call.
func (t *Translator) Translate(ctx context.Context, text string, target domain.Language) (string, error) {
	if target.Code == t.source {
		return text, nil
	}

	callCtx, cancel := awsclient.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.client.TranslateText(callCtx, &translate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(t.source),
		TargetLanguageCode: aws.String(target.Code),
	})
	if err != nil {
		return "", domain.NewStageError(domain.ErrTranslation, target.Code, fmt.Errorf("translate %s→%s: %w", t.source, target.Code, err))
	}
	if out == nil || out.TranslatedText == nil {
		return "", domain.NewStageError(domain.ErrTranslation, target.Code, fmt.Errorf("no translated text for %s→%s", t.source, target.Code))
	}

	translated := aws.ToString(out.TranslatedText)
	if translated == "" && text != "" {
		return "", domain.NewStageError(domain.ErrTranslation, target.Code, fmt.Errorf("empty translation of %d characters", len(text)))
	}

	t.log.Debug().
		Str("target", target.Code).
		Int("sourceChars", len(text)).
		Int("translatedChars", len(translated)).
		Msg("Text translated")

	return translated, nil
}
