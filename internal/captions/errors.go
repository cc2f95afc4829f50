package captions

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by the resolver and the selector
var (
	ErrInvalidVideoID        = errors.New("invalid video id")
	ErrVideoUnavailable      = errors.New("video is unavailable")
	ErrTranscriptsDisabled   = errors.New("transcripts are disabled for this video")
	ErrNoTranscriptFound     = errors.New("no transcript found")
	ErrNoTranscriptAvailable = errors.New("no transcript available for this video")
	ErrFetchFailed           = errors.New("transcript fetch failed")
)

// Kind is the classified outcome of a lookup
type Kind string

// Kind constants, also used as metric and stats labels
const (
	KindOK                    Kind = "ok"
	KindInvalidVideoID        Kind = "invalid_video_id"
	KindVideoUnavailable      Kind = "video_unavailable"
	KindTranscriptsDisabled   Kind = "transcripts_disabled"
	KindNoTranscriptFound     Kind = "no_transcript_found"
	KindNoTranscriptAvailable Kind = "no_transcript_available"
	KindFetchFailed           Kind = "fetch_failed"
	KindInternal              Kind = "internal"
)

// Classify maps an error returned by this package or the selector to its Kind
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrInvalidVideoID):
		return KindInvalidVideoID
	case errors.Is(err, ErrVideoUnavailable):
		return KindVideoUnavailable
	case errors.Is(err, ErrTranscriptsDisabled):
		return KindTranscriptsDisabled
	case errors.Is(err, ErrNoTranscriptAvailable):
		return KindNoTranscriptAvailable
	case errors.Is(err, ErrNoTranscriptFound):
		return KindNoTranscriptFound
	case errors.Is(err, ErrFetchFailed):
		return KindFetchFailed
	default:
		return KindInternal
	}
}

// FetchError wraps a failure of a selected track's fetch handle
type FetchError struct {
	LanguageCode string
	Err          error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %q transcript: %v", e.LanguageCode, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}

// ProviderError wraps an unclassified failure talking to the caption provider
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("caption provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// noTranscriptFound wraps ErrNoTranscriptFound with the requested language
func noTranscriptFound(videoID, languageCode string) error {
	return fmt.Errorf("%w: video %s has no %q track", ErrNoTranscriptFound, videoID, languageCode)
}
