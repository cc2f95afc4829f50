package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/captions"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/logging"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/metrics"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/middleware"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

const (
	msgInvalidJSON           = "Invalid JSON body"
	msgMissingVideoID        = "Missing videoId parameter"
	msgVideoUnavailable      = "Video is unavailable"
	msgTranscriptsDisabled   = "Transcripts are disabled for this video"
	msgNoTranscriptAvailable = "No transcript available for this video"
	msgNoTranscriptFound     = "No transcript found"
	msgInternal              = "Internal server error"
)

// TranscriptService is the core used by the handlers
type TranscriptService interface {
	GetTranscript(ctx context.Context, videoID string) (*models.TranscriptResult, error)
	ListTracks(ctx context.Context, videoID string) (*models.CatalogResponse, error)
}

// StatsReader exposes recorded lookup counters
type StatsReader interface {
	Summary(ctx context.Context) (*models.StatsResponse, error)
	Ping(ctx context.Context) error
}

// API holds the handler dependencies
type API struct {
	transcripts    TranscriptService
	stats          StatsReader
	logger         *logging.Logger
	requestTimeout time.Duration
}

// Health check endpoint
func (api *API) healthCheck(c *gin.Context) {
	if api.stats != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := api.stats.Ping(ctx); err != nil {
			c.JSON(http.StatusOK, gin.H{
				"status": "degraded",
				"stats":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// Get transcript endpoint
func (api *API) getTranscript(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidJSON})
		return
	}

	videoID, status, msg := parseVideoID(raw)
	if status != http.StatusOK {
		c.JSON(status, models.ErrorResponse{Error: msg})
		return
	}

	ctx, cancel := api.requestContext(c)
	defer cancel()

	result, err := api.transcripts.GetTranscript(ctx, videoID)
	if err != nil {
		api.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseVideoID extracts a non-empty string videoId from a JSON object body
func parseVideoID(raw []byte) (string, int, string) {
	var body interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", http.StatusBadRequest, msgInvalidJSON
	}

	obj, ok := body.(map[string]interface{})
	if !ok {
		return "", http.StatusBadRequest, msgMissingVideoID
	}

	videoID, ok := obj["videoId"].(string)
	if !ok || videoID == "" {
		return "", http.StatusBadRequest, msgMissingVideoID
	}

	return videoID, http.StatusOK, ""
}

// List caption tracks endpoint
func (api *API) listTracks(c *gin.Context) {
	ctx, cancel := api.requestContext(c)
	defer cancel()

	listing, err := api.transcripts.ListTracks(ctx, c.Param("id"))
	if err != nil {
		api.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Lookup stats endpoint
func (api *API) getStats(c *gin.Context) {
	summary, err := api.stats.Summary(c.Request.Context())
	if err != nil {
		api.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (api *API) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if api.requestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), api.requestTimeout)
}

// writeError maps a classified failure to its status and body
func (api *API) writeError(c *gin.Context, err error) {
	kind := captions.Classify(err)
	status, body := errorResponse(kind, err)

	if status >= http.StatusInternalServerError {
		metrics.RecordError("api", string(kind))
		api.logger.WithRequestID(middleware.GetRequestID(c)).ErrorWithErr("Request failed", err)
	}

	c.JSON(status, body)
}

func errorResponse(kind captions.Kind, err error) (int, models.ErrorResponse) {
	switch kind {
	case captions.KindInvalidVideoID:
		return http.StatusBadRequest, models.ErrorResponse{Error: msgMissingVideoID}
	case captions.KindVideoUnavailable:
		return http.StatusNotFound, models.ErrorResponse{Error: msgVideoUnavailable}
	case captions.KindTranscriptsDisabled:
		return http.StatusNotFound, models.ErrorResponse{Error: msgTranscriptsDisabled}
	case captions.KindNoTranscriptAvailable:
		return http.StatusNotFound, models.ErrorResponse{Error: msgNoTranscriptAvailable}
	case captions.KindNoTranscriptFound:
		return http.StatusNotFound, models.ErrorResponse{Error: msgNoTranscriptFound}
	default:
		return http.StatusInternalServerError, models.ErrorResponse{Error: msgInternal, Details: err.Error()}
	}
}
