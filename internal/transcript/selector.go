package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/therealutkarshpriyadarshi/transcripts/internal/captions"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

// DefaultLanguages is the preferred-language order tried before the fallbacks
var DefaultLanguages = []string{"en", "en-US", "en-GB"}

// Rule names which step of the selection order picked a track
type Rule string

// Rule constants
const (
	RulePreferredLanguage Rule = "preferred_language"
	RuleFirstManual       Rule = "first_manual"
	RuleFirstGenerated    Rule = "first_generated"
)

// Selection is the single track chosen for a request
type Selection struct {
	Track *captions.Track
	Rule  Rule
}

// SelectTrack picks exactly one track from the catalog. Preferred languages
// are tried in order, then the first manual track, then the first generated
// track. A disabled signal from any lookup ends selection immediately.
func SelectTrack(catalog captions.Catalog, languages []string) (*Selection, error) {
	for _, lang := range languages {
		track, err := catalog.FindTranscript(lang)
		switch {
		case err == nil && track != nil:
			return &Selection{Track: track, Rule: RulePreferredLanguage}, nil
		case err == nil, errors.Is(err, captions.ErrNoTranscriptFound):
			continue
		case errors.Is(err, captions.ErrTranscriptsDisabled):
			return nil, err
		default:
			return nil, fmt.Errorf("failed to look up %q transcript: %w", lang, err)
		}
	}

	if manual := catalog.ManuallyCreated(); len(manual) > 0 {
		return &Selection{Track: manual[0], Rule: RuleFirstManual}, nil
	}

	if generated := catalog.Generated(); len(generated) > 0 {
		return &Selection{Track: generated[0], Rule: RuleFirstGenerated}, nil
	}

	return nil, fmt.Errorf("%w: video %s", captions.ErrNoTranscriptAvailable, catalog.VideoID())
}

// Normalize drops segments whose trimmed text is empty. Order, numeric fields
// and the untrimmed text of the kept segments are unchanged.
func Normalize(segments []models.Segment) []models.Segment {
	out := make([]models.Segment, 0, len(segments))
	for _, s := range segments {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Build assembles the result for a selected track from its raw segments
func Build(track *captions.Track, raw []models.Segment) *models.TranscriptResult {
	segments := Normalize(raw)
	return &models.TranscriptResult{
		Segments: segments,
		Metadata: models.TranscriptMetadata{
			Language:     track.LanguageCode,
			IsGenerated:  track.Origin.IsGenerated(),
			SegmentCount: len(segments),
		},
	}
}

// SelectAndFetch selects a track, fetches it and normalizes the segments.
// Fetch failures are returned as *captions.FetchError.
func SelectAndFetch(ctx context.Context, catalog captions.Catalog, languages []string) (*models.TranscriptResult, *Selection, error) {
	sel, err := SelectTrack(catalog, languages)
	if err != nil {
		return nil, nil, err
	}

	raw, err := sel.Track.Fetch(ctx)
	if err != nil {
		return nil, sel, &captions.FetchError{LanguageCode: sel.Track.LanguageCode, Err: err}
	}

	return Build(sel.Track, raw), sel, nil
}
