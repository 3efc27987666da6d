// Package extract turns a stored document into plain text using Amazon Textract.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/rs/zerolog"

	"github.com/docvoice/audio-pipeline/internal/awsclient"
	"github.com/docvoice/audio-pipeline/internal/domain"
)

// BlockTypeLine is the only block type kept from a recognition result.
const BlockTypeLine = string(types.BlockTypeLine)

// TextractAPI is the subset of the Textract client the extractor uses.
type TextractAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// Extractor calls the extraction capability and filters its lines.
type Extractor struct {
	client    TextractAPI
	threshold float64
	separator string
	timeout   time.Duration
	log       zerolog.Logger
}

// New creates an Extractor.
func New(client TextractAPI, threshold float64, separator string, timeout time.Duration, log zerolog.Logger) *Extractor {
	return &Extractor{
		client:    client,
		threshold: threshold,
		separator: separator,
		timeout:   timeout,
		log:       log,
	}
}

// Extract returns the retained lines of the document joined into one text.
func (e *Extractor) Extract(ctx context.Context, doc domain.SourceDocument) (string, error) {
	callCtx, cancel := awsclient.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := e.client.DetectDocumentText(callCtx, &textract.DetectDocumentTextInput{
		Document: &types.Document{
			S3Object: &types.S3Object{
				Bucket: aws.String(doc.Bucket),
				Name:   aws.String(doc.Key),
			},
		},
	})
	if err != nil {
		return "", domain.NewStageError(domain.ErrExtraction, "", fmt.Errorf("detect document text %s/%s: %w", doc.Bucket, doc.Key, err))
	}
	if out == nil || out.Blocks == nil {
		return "", domain.NewStageError(domain.ErrExtraction, "", fmt.Errorf("no recognition result for %s/%s", doc.Bucket, doc.Key))
	}

	all := toLines(out.Blocks)
	kept := Filter(all, e.threshold)
	e.log.Info().
		Int("blocks", len(out.Blocks)).
		Int("linesKept", len(kept)).
		Float64("threshold", e.threshold).
		Msg("Text extracted")

	return Join(kept, e.separator), nil
}

func toLines(blocks []types.Block) []domain.Line {
	lines := make([]domain.Line, 0, len(blocks))
	for _, b := range blocks {
		lines = append(lines, domain.Line{
			Text:       aws.ToString(b.Text),
			BlockType:  string(b.BlockType),
			Confidence: float64(aws.ToFloat32(b.Confidence)),
		})
	}
	return lines
}

// Filter keeps LINE blocks whose confidence is at least threshold, in input order.
func Filter(lines []domain.Line, threshold float64) []string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.BlockType == BlockTypeLine && l.Confidence >= threshold {
			kept = append(kept, l.Text)
		}
	}
	return kept
}

// Join concatenates retained lines with sep. No lines yields "".
func Join(lines []string, sep string) string {
	return strings.Join(lines, sep)
}
