package transcript

import (
	"context"
	"strings"
	"time"

	"github.com/therealutkarshpriyadarshi/transcripts/internal/captions"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/logging"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/metrics"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/tracing"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

const recordTimeout = 2 * time.Second

// Recorder receives the classified outcome of every lookup
type Recorder interface {
	RecordLookup(ctx context.Context, outcome captions.Kind, language string) error
}

// Service resolves catalogs and produces transcripts
type Service struct {
	resolver  captions.Resolver
	logger    *logging.Logger
	languages []string
	provider  string
	recorder  Recorder
}

// Option configures a Service
type Option func(*Service)

// WithLanguages overrides the preferred-language order
func WithLanguages(languages []string) Option {
	return func(s *Service) {
		if len(languages) > 0 {
			s.languages = append([]string(nil), languages...)
		}
	}
}

// WithProviderName sets the provider label used in metrics
func WithProviderName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.provider = name
		}
	}
}

// WithRecorder attaches an outcome recorder
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService creates a new transcript service
func NewService(resolver captions.Resolver, logger *logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Service{
		resolver:  resolver,
		logger:    logger,
		languages: append([]string(nil), DefaultLanguages...),
		provider:  "innertube",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Languages returns the preferred-language order in use
func (s *Service) Languages() []string {
	return append([]string(nil), s.languages...)
}

// GetTranscript resolves the catalog of a video, selects one track and
// returns its normalized segments
func (s *Service) GetTranscript(ctx context.Context, videoID string) (*models.TranscriptResult, error) {
	span, ctx := tracing.StartSpan(ctx, "transcript.get")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "video_id", videoID)

	start := time.Now()
	logger := s.logger.WithVideoID(videoID)

	result, language, err := s.getTranscript(ctx, videoID, logger)

	outcome := captions.Classify(err)
	segments := 0
	if result != nil {
		segments = result.Metadata.SegmentCount
	}
	duration := time.Since(start)

	tracing.SetTag(span, "outcome", string(outcome))
	tracing.LogError(span, err)
	metrics.RecordLookup(string(outcome), duration.Seconds(), segments)
	logger.LogLookupOutcome(string(outcome), segments, duration, err)
	s.record(ctx, outcome, language)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) getTranscript(ctx context.Context, videoID string, logger *logging.Logger) (*models.TranscriptResult, string, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, "", captions.ErrInvalidVideoID
	}

	catalog, err := s.resolve(ctx, videoID, logger)
	if err != nil {
		return nil, "", err
	}

	sel, err := SelectTrack(catalog, s.languages)
	if err != nil {
		return nil, "", err
	}
	logger.LogTrackSelection(sel.Track.LanguageCode, string(sel.Track.Origin), string(sel.Rule))
	metrics.RecordTrackSelected(string(sel.Track.Origin), string(sel.Rule))

	raw, err := s.fetch(ctx, sel.Track, logger)
	if err != nil {
		return nil, sel.Track.LanguageCode, &captions.FetchError{LanguageCode: sel.Track.LanguageCode, Err: err}
	}

	result := Build(sel.Track, raw)
	metrics.RecordSegmentsDropped(len(raw) - len(result.Segments))
	return result, sel.Track.LanguageCode, nil
}

// ListTracks resolves the catalog of a video and returns its listing view
func (s *Service) ListTracks(ctx context.Context, videoID string) (*models.CatalogResponse, error) {
	span, ctx := tracing.StartSpan(ctx, "transcript.list_tracks")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "video_id", videoID)

	if strings.TrimSpace(videoID) == "" {
		return nil, captions.ErrInvalidVideoID
	}

	catalog, err := s.resolve(ctx, videoID, s.logger.WithVideoID(videoID))
	if err != nil {
		tracing.LogError(span, err)
		return nil, err
	}
	return captions.Describe(catalog), nil
}

func (s *Service) resolve(ctx context.Context, videoID string, logger *logging.Logger) (captions.Catalog, error) {
	span, ctx := tracing.StartSpan(ctx, "captions.resolve")
	defer tracing.FinishSpan(span)

	start := time.Now()
	catalog, err := s.resolver.ResolveCatalog(ctx, videoID)
	s.observeProvider("resolve_catalog", start, err, logger)
	tracing.LogError(span, err)
	return catalog, err
}

func (s *Service) fetch(ctx context.Context, track *captions.Track, logger *logging.Logger) ([]models.Segment, error) {
	span, ctx := tracing.StartSpan(ctx, "captions.fetch")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "language", track.LanguageCode)

	start := time.Now()
	raw, err := track.Fetch(ctx)
	s.observeProvider("fetch_track", start, err, logger)
	tracing.LogError(span, err)
	return raw, err
}

func (s *Service) observeProvider(operation string, start time.Time, err error, logger *logging.Logger) {
	duration := time.Since(start)
	status := "success"
	if err != nil {
		status = string(captions.Classify(err))
	}
	metrics.RecordProviderRequest(s.provider, operation, status, duration.Seconds())
	logger.LogProviderCall(operation, duration, err)
}

func (s *Service) record(ctx context.Context, outcome captions.Kind, language string) {
	if s.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := s.recorder.RecordLookup(ctx, outcome, language); err != nil {
		s.logger.WithError(err).Warn("Failed to record lookup stats")
	}
}
