// Package main contains the Lambda warmup handler for preventing cold starts.
// CloudWatch Events trigger this handler periodically to keep Lambda instances warm.
package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// WarmupSource identifies warmup events from CloudWatch
	WarmupSource = "warmup"

	// WarmupDelay ensures instances overlap to create true concurrency
	WarmupDelay = 75 * time.Millisecond
)

// WarmupEvent represents the CloudWatch Event payload for warmup
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is the response returned by warmup operations
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// LambdaInvoker is the subset of the Lambda client used for self-invocation.
type LambdaInvoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// Warmer answers warmup events and fans out extra warm instances.
type Warmer struct {
	client       LambdaInvoker
	functionName string
	delay        time.Duration
	log          zerolog.Logger
}

// NewWarmer creates a Warmer that self-invokes functionName.
func NewWarmer(client LambdaInvoker, functionName string, log zerolog.Logger) *Warmer {
	return &Warmer{
		client:       client,
		functionName: functionName,
		delay:        WarmupDelay,
		log:          log,
	}
}

// IsWarmupEvent checks if the event is a warmup event
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var eventMap map[string]interface{}
	if err := json.Unmarshal(event, &eventMap); err != nil {
		return nil, false
	}

	source, ok := eventMap["source"].(string)
	if !ok || source != WarmupSource {
		return nil, false
	}

	warmup := &WarmupEvent{Source: source}

	// Parse concurrency (optional, defaults to 0)
	if concurrency, ok := eventMap["concurrency"].(float64); ok && concurrency > 0 {
		warmup.Concurrency = int(concurrency)
	}

	return warmup, true
}

// Handle processes a warmup event and optionally self-invokes
// to maintain multiple warm instances.
func (w *Warmer) Handle(ctx context.Context, warmup *WarmupEvent) (interface{}, error) {
	instancesWarmed := 1 // This instance counts as 1

	if warmup.Concurrency > 0 {
		if err := w.selfInvoke(ctx, warmup.Concurrency); err != nil {
			w.log.Warn().Err(err).Int("concurrency", warmup.Concurrency).Msg("Warmup self-invocation failed")
		} else {
			instancesWarmed += warmup.Concurrency
		}
	}

	// Brief delay to ensure instances overlap
	time.Sleep(w.delay)

	w.log.Debug().Int("instancesWarmed", instancesWarmed).Msg("Warmup handled")

	return map[string]interface{}{
		"statusCode": 200,
		"body": WarmupResponse{
			Status:          "warm",
			InstancesWarmed: instancesWarmed,
		},
	}, nil
}

// selfInvoke invokes this Lambda function N times asynchronously
// to create additional warm instances.
func (w *Warmer) selfInvoke(ctx context.Context, count int) error {
	// Payload for child invocations (concurrency=0 to prevent infinite loop)
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			_, err := w.client.Invoke(gctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent, // Async invocation
				Payload:        payload,
			})
			return err
		})
	}
	return g.Wait()
}
