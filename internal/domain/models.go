// Package domain contains the core domain types for the document audio pipeline.
package domain

import "time"

// SourceDocument identifies the uploaded document that triggered an invocation.
// Key is already URL-decoded.
type SourceDocument struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// Line is a recognized line of text returned by the extraction capability.
type Line struct {
	Text       string
	BlockType  string
	Confidence float64
}

// Language describes one language variant produced by the pipeline.
type Language struct {
	// Code is the translation language code ("en", "hi", "zh").
	Code string `json:"code"`
	// SpeechCode is the synthesis language code ("en-US", "hi-IN", "cmn-CN").
	SpeechCode string `json:"speechCode"`
	// Voice is the synthesis voice identity.
	Voice string `json:"voice"`
	// Label is used in artifact names ("english", "hindi", "chinese").
	Label string `json:"label"`
}

// Translation is the extracted text rendered in one language.
type Translation struct {
	Language Language
	Text     string
}

// Artifact is a synthesized audio file staged locally before publishing.
type Artifact struct {
	Name        string   `json:"name"`
	Language    Language `json:"language"`
	StagingPath string   `json:"-"`
	Size        int64    `json:"size"`
}

// AuditEntry is one append-only record written per published artifact.
type AuditEntry struct {
	ID        string    `dynamodbav:"Id" json:"id"`
	Timestamp string    `dynamodbav:"Timestamp" json:"timestamp"`
	SourceKey string    `dynamodbav:"SourceKey" json:"sourceKey"`
	Artifact  string    `dynamodbav:"Artifact" json:"artifact"`
	Message   string    `dynamodbav:"Message" json:"message"`
	CreatedAt time.Time `dynamodbav:"-" json:"-"`
}
