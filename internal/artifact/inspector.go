package artifact

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/docvoice/audio-pipeline/internal/domain"
)

// Inspector looks up source documents in whichever bucket the event names.
type Inspector struct {
	client  S3API
	timeout time.Duration
	log     zerolog.Logger
}

// NewInspector creates an Inspector.
func NewInspector(client S3API, timeout time.Duration, log zerolog.Logger) *Inspector {
	return &Inspector{client: client, timeout: timeout, log: log}
}

// Inspect returns the stored metadata of the source document.
func (i *Inspector) Inspect(ctx context.Context, doc domain.SourceDocument) (ObjectInfo, error) {
	return NewStore(i.client, doc.Bucket, i.timeout, i.log).Stat(ctx, doc.Key)
}
