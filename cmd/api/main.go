// Package main is the entry point for the audio file API Lambda function.
package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/docvoice/audio-pipeline/internal/api"
	"github.com/docvoice/audio-pipeline/internal/artifact"
	"github.com/docvoice/audio-pipeline/internal/awsclient"
	"github.com/docvoice/audio-pipeline/internal/config"
	"github.com/docvoice/audio-pipeline/internal/logging"
)

var (
	initOnce sync.Once
	handler  *api.Handler
	initErr  error
)

func main() {
	lambda.Start(handleRequest)
}

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	initOnce.Do(func() {
		handler, initErr = newHandler(ctx)
	})
	if initErr != nil {
		return events.APIGatewayProxyResponse{}, initErr
	}
	return handler.Handle(ctx, req)
}

func newHandler(ctx context.Context) (*api.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.New(cfg.LogLevel, "api").With().Str("environment", cfg.Environment).Logger()

	awsCfg, err := awsclient.Load(ctx)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg)
	documents := artifact.NewStore(client, cfg.DocumentBucket, cfg.CallTimeout, log)
	audio := artifact.NewStore(client, cfg.AudioBucket, cfg.CallTimeout, log)

	return api.New(documents, audio, log), nil
}
