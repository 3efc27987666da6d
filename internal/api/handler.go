// Package api serves the audio file endpoints behind API Gateway: document
// upload, audio lookup and audio download.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/docvoice/audio-pipeline/internal/artifact"
)

// Lookup messages returned by the find endpoint under the "found" key.
const (
	FoundPresent  = "audio file present"
	FoundMissing  = "audio file not generated yet"
	FoundNoName   = "filename is empty"
	foundKey      = "found"
	uploadedKey   = "file_uploaded"
	filenameParam = "filename"
)

// DocumentStore receives uploaded documents.
type DocumentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// AudioStore serves published audio artifacts.
type AudioStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Handler routes API Gateway proxy requests.
type Handler struct {
	documents DocumentStore
	audio     AudioStore
	log       zerolog.Logger
}

// New creates a Handler.
func New(documents DocumentStore, audio AudioStore, log zerolog.Logger) *Handler {
	return &Handler{documents: documents, audio: audio, log: log}
}

// Handle dispatches on method and path. Trailing slashes are ignored.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	route := strings.TrimSuffix(path.Clean("/"+req.Path), "/")

	switch {
	case req.HTTPMethod == http.MethodOptions:
		return respond(http.StatusNoContent, nil), nil
	case route == "/file/upload" && req.HTTPMethod == http.MethodPost:
		return h.upload(ctx, req), nil
	case route == "/file/find" && req.HTTPMethod == http.MethodGet:
		return h.find(ctx, req), nil
	case route == "/file/download" && req.HTTPMethod == http.MethodGet:
		return h.download(ctx, req), nil
	default:
		return respondJSON(http.StatusNotFound, map[string]string{"error": "route not found"}), nil
	}
}

func (h *Handler) upload(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	name := strings.TrimSpace(req.QueryStringParameters[filenameParam])
	if name == "" {
		return respondJSON(http.StatusBadRequest, map[string]string{"error": "filename is required"})
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return respondJSON(http.StatusBadRequest, map[string]string{"error": "body is not valid base64"})
		}
		body = decoded
	}

	contentType := header(req, "Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.documents.Put(ctx, name, body, contentType); err != nil {
		h.log.Error().Err(err).Str("key", name).Msg("Document upload failed")
		return respondJSON(http.StatusBadGateway, map[string]string{"error": "upload failed"})
	}

	h.log.Info().Str("key", name).Int("size", len(body)).Msg("Document uploaded")
	return respondJSON(http.StatusOK, map[string]string{uploadedKey: "true"})
}

func (h *Handler) find(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	name := req.QueryStringParameters[filenameParam]
	if len(name) <= 1 {
		return respondJSON(http.StatusOK, map[string]string{foundKey: FoundNoName})
	}

	ok, err := h.audio.Exists(ctx, name)
	if err != nil {
		h.log.Error().Err(err).Str("artifact", name).Msg("Audio lookup failed")
		return respondJSON(http.StatusBadGateway, map[string]string{"error": "lookup failed"})
	}
	if !ok {
		return respondJSON(http.StatusOK, map[string]string{foundKey: FoundMissing})
	}
	return respondJSON(http.StatusOK, map[string]string{foundKey: FoundPresent})
}

func (h *Handler) download(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	name := req.QueryStringParameters[filenameParam]
	if name == "" {
		return respondJSON(http.StatusBadRequest, map[string]string{"error": "filename is required"})
	}

	data, err := h.audio.Fetch(ctx, name)
	if errors.Is(err, artifact.ErrNotFound) {
		h.log.Info().Str("artifact", name).Msg("Audio file does not exist yet")
		return respondJSON(http.StatusNotFound, map[string]string{foundKey: FoundMissing})
	}
	if err != nil {
		h.log.Error().Err(err).Str("artifact", name).Msg("Audio download failed")
		return respondJSON(http.StatusBadGateway, map[string]string{"error": "download failed"})
	}

	resp := respond(http.StatusOK, map[string]string{
		"Content-Type":        artifact.AudioContentType,
		"Content-Disposition": `attachment; filename="` + path.Base(name) + `"`,
	})
	resp.Body = base64.StdEncoding.EncodeToString(data)
	resp.IsBase64Encoded = true
	return resp
}

// header looks up a request header case-insensitively.
func header(req events.APIGatewayProxyRequest, name string) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func respond(status int, headers map[string]string) events.APIGatewayProxyResponse {
	h := map[string]string{"Access-Control-Allow-Origin": "*"}
	for k, v := range headers {
		h[k] = v
	}
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: h}
}

func respondJSON(status int, body interface{}) events.APIGatewayProxyResponse {
	resp := respond(status, map[string]string{"Content-Type": "application/json"})
	data, err := json.Marshal(body)
	if err != nil {
		resp.StatusCode = http.StatusInternalServerError
		return resp
	}
	resp.Body = string(data)
	return resp
}
