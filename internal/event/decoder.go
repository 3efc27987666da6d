// Package event decodes the S3 object-created notification that triggers the pipeline.
package event

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/aws/aws-lambda-go/events"

	"github.com/docvoice/audio-pipeline/internal/domain"
)

// Decode recovers the source document from the first record of an S3 event.
// The object key arrives form-encoded and is decoded exactly once, so "+"
// becomes a space.
func Decode(e events.S3Event) (domain.SourceDocument, error) {
	if len(e.Records) == 0 {
		return domain.SourceDocument{}, fmt.Errorf("%w: no records", domain.ErrMalformedEvent)
	}

	entity := e.Records[0].S3
	if entity.Bucket.Name == "" {
		return domain.SourceDocument{}, fmt.Errorf("%w: missing bucket name", domain.ErrMalformedEvent)
	}
	if entity.Object.Key == "" {
		return domain.SourceDocument{}, fmt.Errorf("%w: missing object key", domain.ErrMalformedEvent)
	}

	// Object.URLDecodedKey is populated by the SDK too, but Key is the raw
	// wire value and the only one we trust to be decoded a single time.
	key, err := url.QueryUnescape(entity.Object.Key)
	if err != nil {
		return domain.SourceDocument{}, fmt.Errorf("%w: undecodable key %q: %v", domain.ErrMalformedEvent, entity.Object.Key, err)
	}

	return domain.SourceDocument{Bucket: entity.Bucket.Name, Key: key}, nil
}

// DecodeRaw parses a raw Lambda payload as an S3 event and decodes it.
func DecodeRaw(payload json.RawMessage) (domain.SourceDocument, error) {
	var e events.S3Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return domain.SourceDocument{}, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	return Decode(e)
}
