package captions

import (
	"context"

	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

// FetchFunc retrieves the raw ordered segments of one track
type FetchFunc func(ctx context.Context) ([]models.Segment, error)

// Track is a caption track together with its fetch handle
type Track struct {
	models.CaptionTrack
	fetch FetchFunc
}

// NewTrack creates a track backed by the given fetch handle
func NewTrack(info models.CaptionTrack, fetch FetchFunc) *Track {
	return &Track{CaptionTrack: info, fetch: fetch}
}

// Fetch retrieves the track's segments
func (t *Track) Fetch(ctx context.Context) ([]models.Segment, error) {
	if t.fetch == nil {
		return nil, ErrFetchFailed
	}
	return t.fetch(ctx)
}

// Catalog is the read-only set of caption tracks for one video
type Catalog interface {
	// VideoID returns the video the catalog was resolved for.
	VideoID() string
	// FindTranscript returns the track for an exact language code,
	// preferring a manually created track over a generated one.
	FindTranscript(languageCode string) (*Track, error)
	// ManuallyCreated enumerates manual tracks in provider order.
	ManuallyCreated() []*Track
	// Generated enumerates generated tracks in provider order.
	Generated() []*Track
}

// Resolver obtains the caption catalog of a video
type Resolver interface {
	ResolveCatalog(ctx context.Context, videoID string) (Catalog, error)
}

// TrackList is the in-memory Catalog built by the providers
type TrackList struct {
	videoID   string
	manual    []*Track
	generated []*Track
	byCode    map[string]*Track
}

// NewTrackList builds a catalog. Manual tracks take precedence over generated
// ones for the same language code, and the first occurrence of a code wins
// within each group.
func NewTrackList(videoID string, manual, generated []*Track) *TrackList {
	tl := &TrackList{
		videoID: videoID,
		byCode:  make(map[string]*Track, len(manual)+len(generated)),
	}
	tl.manual = tl.add(manual, models.OriginManual)
	tl.generated = tl.add(generated, models.OriginGenerated)
	return tl
}

func (tl *TrackList) add(tracks []*Track, origin models.Origin) []*Track {
	kept := make([]*Track, 0, len(tracks))
	seen := make(map[string]struct{}, len(tracks))
	for _, t := range tracks {
		if t == nil {
			continue
		}
		if _, dup := seen[t.LanguageCode]; dup {
			continue
		}
		seen[t.LanguageCode] = struct{}{}
		if t.Origin == "" {
			t.Origin = origin
		}
		kept = append(kept, t)
		if _, exists := tl.byCode[t.LanguageCode]; !exists {
			tl.byCode[t.LanguageCode] = t
		}
	}
	return kept
}

// VideoID implements Catalog
func (tl *TrackList) VideoID() string {
	return tl.videoID
}

// FindTranscript implements Catalog
func (tl *TrackList) FindTranscript(languageCode string) (*Track, error) {
	if t, ok := tl.byCode[languageCode]; ok {
		return t, nil
	}
	return nil, noTranscriptFound(tl.videoID, languageCode)
}

// ManuallyCreated implements Catalog
func (tl *TrackList) ManuallyCreated() []*Track {
	return append([]*Track(nil), tl.manual...)
}

// Generated implements Catalog
func (tl *TrackList) Generated() []*Track {
	return append([]*Track(nil), tl.generated...)
}

// Len returns the total number of tracks
func (tl *TrackList) Len() int {
	return len(tl.manual) + len(tl.generated)
}

// Describe returns the listing view of a catalog
func Describe(c Catalog) *models.CatalogResponse {
	resp := &models.CatalogResponse{
		VideoID:   c.VideoID(),
		Manual:    make([]models.CaptionTrack, 0),
		Generated: make([]models.CaptionTrack, 0),
	}
	for _, t := range c.ManuallyCreated() {
		resp.Manual = append(resp.Manual, t.CaptionTrack)
	}
	for _, t := range c.Generated() {
		resp.Generated = append(resp.Generated, t.CaptionTrack)
	}
	return resp
}
