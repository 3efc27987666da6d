package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvoice/audio-pipeline/internal/domain"
)

type fakeTextract struct {
	out   *textract.DetectDocumentTextOutput
	err   error
	input *textract.DetectDocumentTextInput
}

func (f *fakeTextract) DetectDocumentText(_ context.Context, in *textract.DetectDocumentTextInput, _ ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error) {
	f.input = in
	return f.out, f.err
}

func line(text string, confidence float32) types.Block {
	return types.Block{BlockType: types.BlockTypeLine, Text: aws.String(text), Confidence: aws.Float32(confidence)}
}

func TestFilter(t *testing.T) {
	lines := []domain.Line{
		{Text: "Dear", BlockType: "LINE", Confidence: 99},
		{Text: "noise", BlockType: "LINE", Confidence: 79.9},
		{Text: "Dear", BlockType: "WORD", Confidence: 99},
		{Text: "customer", BlockType: "LINE", Confidence: 80},
		{Text: "page", BlockType: "PAGE", Confidence: 100},
		{Text: "thanks", BlockType: "LINE", Confidence: 85},
	}

	tests := []struct {
		name      string
		threshold float64
		expected  []string
	}{
		{name: "default threshold is inclusive", threshold: 80, expected: []string{"Dear", "customer", "thanks"}},
		{name: "higher threshold", threshold: 90, expected: []string{"Dear"}},
		{name: "zero keeps every line", threshold: 0, expected: []string{"Dear", "noise", "customer", "thanks"}},
		{name: "above max keeps nothing", threshold: 101, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Filter(lines, tt.threshold))
		})
	}
}

func TestFilter_NeverReorders(t *testing.T) {
	lines := []domain.Line{
		{Text: "a", BlockType: "LINE", Confidence: 81},
		{Text: "b", BlockType: "LINE", Confidence: 95},
		{Text: "c", BlockType: "LINE", Confidence: 50},
		{Text: "d", BlockType: "LINE", Confidence: 88},
	}

	for threshold := 0.0; threshold <= 100; threshold += 5 {
		kept := Filter(lines, threshold)
		last := -1
		for _, text := range kept {
			idx := int(text[0] - 'a')
			if idx <= last {
				t.Fatalf("threshold %v reordered lines: %v", threshold, kept)
			}
			last = idx
		}
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "", Join(nil, " "))
	assert.Equal(t, "Hello world", Join([]string{"Hello", "world"}, " "))
	assert.Equal(t, "Helloworld", Join([]string{"Hello", "world"}, ""))
}

func TestExtract(t *testing.T) {
	fake := &fakeTextract{out: &textract.DetectDocumentTextOutput{
		Blocks: []types.Block{
			{BlockType: types.BlockTypePage},
			line("Invoice 42", 99.1),
			line("smudge", 12),
			line("Total due", 91),
		},
	}}
	ex := New(fake, 80, " ", 0, zerolog.Nop())

	text, err := ex.Extract(context.Background(), domain.SourceDocument{Bucket: "docs", Key: "invoice.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Invoice 42 Total due", text)
	assert.Equal(t, "docs", aws.ToString(fake.input.Document.S3Object.Bucket))
	assert.Equal(t, "invoice.pdf", aws.ToString(fake.input.Document.S3Object.Name))
}

func TestExtract_NoQualifyingLines(t *testing.T) {
	fake := &fakeTextract{out: &textract.DetectDocumentTextOutput{
		Blocks: []types.Block{line("blurry", 10)},
	}}
	ex := New(fake, 80, " ", 0, zerolog.Nop())

	text, err := ex.Extract(context.Background(), domain.SourceDocument{Bucket: "docs", Key: "a.png"})
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeTextract
	}{
		{name: "capability error", fake: &fakeTextract{err: errors.New("throttled")}},
		{name: "nil output", fake: &fakeTextract{}},
		{name: "no blocks", fake: &fakeTextract{out: &textract.DetectDocumentTextOutput{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := New(tt.fake, 80, " ", 0, zerolog.Nop())
			_, err := ex.Extract(context.Background(), domain.SourceDocument{Bucket: "docs", Key: "a.pdf"})
			assert.ErrorIs(t, err, domain.ErrExtraction)
		})
	}
}

func TestExtract_TimeoutIsRetryable(t *testing.T) {
	fake := &fakeTextract{err: context.DeadlineExceeded}
	ex := New(fake, 80, " ", 0, zerolog.Nop())

	_, err := ex.Extract(context.Background(), domain.SourceDocument{Bucket: "docs", Key: "a.pdf"})
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.True(t, domain.IsRetryable(err))
}
