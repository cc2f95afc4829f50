package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/captions"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

func track(code string, origin models.Origin, segments ...models.Segment) *captions.Track {
	return captions.NewTrack(models.CaptionTrack{LanguageCode: code, Origin: origin},
		func(ctx context.Context) ([]models.Segment, error) {
			return segments, nil
		})
}

func failingTrack(code string, err error) *captions.Track {
	return captions.NewTrack(models.CaptionTrack{LanguageCode: code, Origin: models.OriginManual},
		func(ctx context.Context) ([]models.Segment, error) {
			return nil, err
		})
}

// lazyCatalog reports a per-language lookup error, like providers that only
// discover disablement when a track is requested
type lazyCatalog struct {
	*captions.TrackList
	errs    map[string]error
	lookups []string
}

func (c *lazyCatalog) FindTranscript(code string) (*captions.Track, error) {
	c.lookups = append(c.lookups, code)
	if err, ok := c.errs[code]; ok {
		return nil, err
	}
	return c.TrackList.FindTranscript(code)
}

func TestSelectTrack_PreferredLanguage(t *testing.T) {
	tests := []struct {
		name      string
		manual    []*captions.Track
		generated []*captions.Track
		wantCode  string
		wantRule  Rule
	}{
		{
			name:     "exact en among variants",
			manual:   []*captions.Track{track("en-GB", ""), track("de", ""), track("en", ""), track("en-US", "")},
			wantCode: "en",
			wantRule: RulePreferredLanguage,
		},
		{
			name:      "generated en beats other manual tracks",
			manual:    []*captions.Track{track("de", ""), track("fr", "")},
			generated: []*captions.Track{track("en", "")},
			wantCode:  "en",
			wantRule:  RulePreferredLanguage,
		},
		{
			name:     "en-US before en-GB",
			manual:   []*captions.Track{track("en-GB", ""), track("en-US", "")},
			wantCode: "en-US",
			wantRule: RulePreferredLanguage,
		},
		{
			name:      "en-GB when it is the only variant",
			manual:    []*captions.Track{track("es", "")},
			generated: []*captions.Track{track("en-GB", "")},
			wantCode:  "en-GB",
			wantRule:  RulePreferredLanguage,
		},
		{
			name:      "first manual when no English",
			manual:    []*captions.Track{track("de", ""), track("fr", "")},
			generated: []*captions.Track{track("es", "")},
			wantCode:  "de",
			wantRule:  RuleFirstManual,
		},
		{
			name:      "first generated when only generated",
			generated: []*captions.Track{track("fr", ""), track("es", "")},
			wantCode:  "fr",
			wantRule:  RuleFirstGenerated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := captions.NewTrackList("abc123", tt.manual, tt.generated)

			sel, err := SelectTrack(catalog, DefaultLanguages)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, sel.Track.LanguageCode)
			assert.Equal(t, tt.wantRule, sel.Rule)
		})
	}
}

func TestSelectTrack_ManualNeverLosesToGenerated(t *testing.T) {
	catalog := captions.NewTrackList("abc123",
		[]*captions.Track{track("ja", "")},
		[]*captions.Track{track("ko", ""), track("zh", "")})

	sel, err := SelectTrack(catalog, DefaultLanguages)
	require.NoError(t, err)
	assert.Equal(t, models.OriginManual, sel.Track.Origin)
	assert.Equal(t, "ja", sel.Track.LanguageCode)
}

func TestSelectTrack_EmptyCatalog(t *testing.T) {
	catalog := captions.NewTrackList("abc123", nil, nil)

	_, err := SelectTrack(catalog, DefaultLanguages)
	require.Error(t, err)
	assert.True(t, errors.Is(err, captions.ErrNoTranscriptAvailable))
	assert.Equal(t, captions.KindNoTranscriptAvailable, captions.Classify(err))
}

func TestSelectTrack_DisabledMidLoopIsTerminal(t *testing.T) {
	catalog := &lazyCatalog{
		TrackList: captions.NewTrackList("abc123",
			[]*captions.Track{track("en-GB", ""), track("de", "")}, nil),
		errs: map[string]error{"en-US": captions.ErrTranscriptsDisabled},
	}

	_, err := SelectTrack(catalog, DefaultLanguages)
	require.Error(t, err)
	assert.True(t, errors.Is(err, captions.ErrTranscriptsDisabled))
	assert.Equal(t, []string{"en", "en-US"}, catalog.lookups)
}

func TestSelectTrack_UnexpectedLookupError(t *testing.T) {
	catalog := &lazyCatalog{
		TrackList: captions.NewTrackList("abc123", []*captions.Track{track("de", "")}, nil),
		errs:      map[string]error{"en": errors.New("catalog corrupted")},
	}

	_, err := SelectTrack(catalog, DefaultLanguages)
	require.Error(t, err)
	assert.Equal(t, captions.KindInternal, captions.Classify(err))
}

func TestSelectTrack_CustomLanguages(t *testing.T) {
	catalog := captions.NewTrackList("abc123",
		[]*captions.Track{track("en", ""), track("pt-BR", "")}, nil)

	sel, err := SelectTrack(catalog, []string{"pt-BR", "en"})
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", sel.Track.LanguageCode)
}

func TestNormalize(t *testing.T) {
	raw := []models.Segment{
		{Text: "  Hello ", Start: 0, Duration: 1.2},
		{Text: "", Start: 1.2, Duration: 0.5},
		{Text: " \n\t", Start: 1.7, Duration: 0.3},
		{Text: "world", Start: 1.5, Duration: 1},
	}

	got := Normalize(raw)
	require.Len(t, got, 2)
	assert.Equal(t, "  Hello ", got[0].Text)
	assert.Equal(t, 1.2, got[0].Duration)
	assert.Equal(t, "world", got[1].Text)
	assert.Equal(t, 1.5, got[1].Start)

	assert.Equal(t, got, Normalize(got))
}

func TestNormalize_Empty(t *testing.T) {
	got := Normalize(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelectAndFetch(t *testing.T) {
	catalog := captions.NewTrackList("abc123",
		[]*captions.Track{track("en", "",
			models.Segment{Text: "Hello", Start: 0.0, Duration: 1.2},
			models.Segment{Text: "", Start: 1.2, Duration: 0.5},
		)}, nil)

	result, sel, err := SelectAndFetch(context.Background(), catalog, DefaultLanguages)
	require.NoError(t, err)
	assert.Equal(t, RulePreferredLanguage, sel.Rule)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, "Hello", result.Segments[0].Text)
	assert.Equal(t, "en", result.Metadata.Language)
	assert.False(t, result.Metadata.IsGenerated)
	assert.Equal(t, 1, result.Metadata.SegmentCount)
}

func TestSelectAndFetch_GeneratedFallback(t *testing.T) {
	catalog := captions.NewTrackList("abc123", nil,
		[]*captions.Track{track("fr", "",
			models.Segment{Text: "Bonjour", Start: 0, Duration: 1},
			models.Segment{Text: "le monde", Start: 1, Duration: 1},
		)})

	result, _, err := SelectAndFetch(context.Background(), catalog, DefaultLanguages)
	require.NoError(t, err)
	assert.Equal(t, "fr", result.Metadata.Language)
	assert.True(t, result.Metadata.IsGenerated)
	assert.Equal(t, 2, result.Metadata.SegmentCount)
	assert.Equal(t, len(result.Segments), result.Metadata.SegmentCount)
}

func TestBuild_UnknownOriginIsNotGenerated(t *testing.T) {
	result := Build(track("en", ""), []models.Segment{{Text: "hi"}, {Text: " "}})

	assert.False(t, result.Metadata.IsGenerated)
	assert.Equal(t, 1, result.Metadata.SegmentCount)
}

func TestSelectAndFetch_FetchFailure(t *testing.T) {
	cause := errors.New("connection reset")
	catalog := captions.NewTrackList("abc123", []*captions.Track{failingTrack("en", cause)}, nil)

	_, sel, err := SelectAndFetch(context.Background(), catalog, DefaultLanguages)
	require.Error(t, err)
	require.NotNil(t, sel)

	var fe *captions.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "en", fe.LanguageCode)
	assert.True(t, errors.Is(err, captions.ErrFetchFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, captions.KindFetchFailed, captions.Classify(err))
}
