package models

import "strings"

// Origin describes who authored a caption track
type Origin string

// Origin constants
const (
	OriginManual    Origin = "manual"
	OriginGenerated Origin = "generated"
)

// IsGenerated reports whether the track came from speech recognition.
// An unknown origin is treated as not generated.
func (o Origin) IsGenerated() bool {
	return o == OriginGenerated
}

// CaptionTrack describes one entry in a video's caption catalog
type CaptionTrack struct {
	LanguageCode string `json:"languageCode"`
	Language     string `json:"language,omitempty"`
	Origin       Origin `json:"origin,omitempty"`
	Translatable bool   `json:"translatable"`
}

// Segment is one timed utterance of a transcript
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// TranscriptMetadata describes the track a transcript was built from
type TranscriptMetadata struct {
	Language     string `json:"language"`
	IsGenerated  bool   `json:"isGenerated"`
	SegmentCount int    `json:"segmentCount"`
}

// TranscriptResult is the payload returned for a successful lookup
type TranscriptResult struct {
	Segments []Segment          `json:"transcript"`
	Metadata TranscriptMetadata `json:"metadata"`
}

// FullText joins the trimmed text of every segment with single spaces
func (r *TranscriptResult) FullText() string {
	parts := make([]string, 0, len(r.Segments))
	for _, s := range r.Segments {
		parts = append(parts, strings.TrimSpace(s.Text))
	}
	return strings.Join(parts, " ")
}

// TranscriptRequest is the inbound lookup body
type TranscriptRequest struct {
	VideoID string `json:"videoId"`
}

// CatalogResponse lists the caption tracks available for a video
type CatalogResponse struct {
	VideoID   string         `json:"videoId"`
	Manual    []CaptionTrack `json:"manual"`
	Generated []CaptionTrack `json:"generated"`
}

// ErrorResponse is the body returned for every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StatsResponse summarizes recorded lookup outcomes
type StatsResponse struct {
	Total     int64            `json:"total"`
	Outcomes  map[string]int64 `json:"outcomes"`
	Languages map[string]int64 `json:"languages"`
}
