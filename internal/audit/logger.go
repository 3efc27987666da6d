// Package audit appends one DynamoDB entry per published artifact.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docvoice/audio-pipeline/internal/awsclient"
	"github.com/docvoice/audio-pipeline/internal/domain"
)

// TimestampLayout matches the C locale "%c" rendering, e.g. "Mon Oct 18 14:03:05 2026".
const TimestampLayout = time.ANSIC

// DynamoAPI is the subset of the DynamoDB client the logger uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Logger writes audit entries to a table.
type Logger struct {
	client  DynamoAPI
	table   string
	timeout time.Duration
	now     func() time.Time
	newID   func() string
	log     zerolog.Logger
}

// New creates a Logger for table.
func New(client DynamoAPI, table string, timeout time.Duration, log zerolog.Logger) *Logger {
	return &Logger{
		client:  client,
		table:   table,
		timeout: timeout,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     log,
	}
}

// Message composes the audit message for one artifact.
func Message(sourceKey, artifactName string) string {
	return sourceKey + " converted to " + artifactName
}

// Record appends the entry for one published artifact.
func (l *Logger) Record(ctx context.Context, sourceKey, artifactName string) (domain.AuditEntry, error) {
	now := l.now()
	entry := domain.AuditEntry{
		ID:        l.newID(),
		Timestamp: now.Format(TimestampLayout),
		SourceKey: sourceKey,
		Artifact:  artifactName,
		Message:   Message(sourceKey, artifactName),
		CreatedAt: now,
	}

	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return domain.AuditEntry{}, domain.NewStageError(domain.ErrLog, "", fmt.Errorf("marshal audit entry: %w", err))
	}

	callCtx, cancel := awsclient.WithTimeout(ctx, l.timeout)
	defer cancel()

	_, err = l.client.PutItem(callCtx, &dynamodb.PutItemInput{
		TableName: aws.String(l.table),
		Item:      item,
	})
	if err != nil {
		l.log.Error().Err(err).Str("table", l.table).Str("artifact", artifactName).Msg("Failed to save audit entry")
		return domain.AuditEntry{}, domain.NewStageError(domain.ErrLog, "", fmt.Errorf("put audit entry into %s: %w", l.table, err))
	}

	l.log.Info().Str("table", l.table).Str("id", entry.ID).Str("message", entry.Message).Msg("Audit entry saved")
	return entry, nil
}
