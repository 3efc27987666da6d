// Package main is the entry point for the document audio pipeline Lambda function.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	awstranslate "github.com/aws/aws-sdk-go-v2/service/translate"
	"github.com/rs/zerolog"

	"github.com/docvoice/audio-pipeline/internal/artifact"
	"github.com/docvoice/audio-pipeline/internal/audit"
	"github.com/docvoice/audio-pipeline/internal/awsclient"
	"github.com/docvoice/audio-pipeline/internal/config"
	"github.com/docvoice/audio-pipeline/internal/extract"
	"github.com/docvoice/audio-pipeline/internal/handler"
	"github.com/docvoice/audio-pipeline/internal/logging"
	"github.com/docvoice/audio-pipeline/internal/pipeline"
	"github.com/docvoice/audio-pipeline/internal/speech"
	"github.com/docvoice/audio-pipeline/internal/translate"
)

// app is built once per execution environment and reused across invocations.
type app struct {
	handler *handler.Handler
	warmer  *Warmer
}

var (
	initOnce sync.Once
	instance *app
	initErr  error
)

func main() {
	lambda.Start(handleRequest)
}

func handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	a, err := getApp(ctx)
	if err != nil {
		return nil, err
	}

	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return a.warmer.Handle(ctx, warmup)
	}

	return a.handler.HandleRaw(ctx, event)
}

func getApp(ctx context.Context) (*app, error) {
	initOnce.Do(func() {
		instance, initErr = newApp(ctx)
	})
	return instance, initErr
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.New(cfg.LogLevel, "pipeline").With().Str("environment", cfg.Environment).Logger()

	awsCfg, err := awsclient.Load(ctx)
	if err != nil {
		return nil, err
	}

	p := buildPipeline(cfg, awsCfg, log)

	log.Info().
		Str("documentBucket", cfg.DocumentBucket).
		Str("audioBucket", cfg.AudioBucket).
		Str("logTable", cfg.LogTable).
		Dur("callTimeout", cfg.CallTimeout).
		Msg("Pipeline initialized")

	return &app{
		handler: handler.New(p, log),
		warmer:  NewWarmer(lambdasdk.NewFromConfig(awsCfg), os.Getenv("AWS_LAMBDA_FUNCTION_NAME"), log),
	}, nil
}

func buildPipeline(cfg *config.Config, awsCfg aws.Config, log zerolog.Logger) *pipeline.Pipeline {
	s3Client := s3.NewFromConfig(awsCfg)
	langs := cfg.Languages
	audio := artifact.NewStore(s3Client, cfg.AudioBucket, cfg.CallTimeout, log)

	return pipeline.New(pipeline.Deps{
		Inspector:   artifact.NewInspector(s3Client, cfg.CallTimeout, log),
		Extractor:   extract.New(textract.NewFromConfig(awsCfg), cfg.ConfidenceThreshold, cfg.LineSeparator, cfg.CallTimeout, log),
		Translator:  translate.New(awstranslate.NewFromConfig(awsCfg), langs.Source(), cfg.CallTimeout, log),
		Synthesizer: speech.New(polly.NewFromConfig(awsCfg), cfg.StagingDir, cfg.CallTimeout, log),
		Publisher:   artifact.NewPublisher(audio, log),
		Audit:       audit.New(dynamodb.NewFromConfig(awsCfg), cfg.LogTable, cfg.CallTimeout, log),
	}, langs, log)
}
