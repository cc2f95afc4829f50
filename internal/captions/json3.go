package captions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

// json3Doc is the "json3" caption layout served by the timedtext endpoint
type json3Doc struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	TStartMs    *int64     `json:"tStartMs,omitempty"`
	DDurationMs *int64     `json:"dDurationMs,omitempty"`
	Segs        []json3Seg `json:"segs,omitempty"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

// ParseJSON3 decodes a json3 caption document. Every event becomes one
// segment whose text is the concatenation of its segs; events without segs
// (window definitions) yield empty text and are left for normalization.
func ParseJSON3(data []byte) ([]models.Segment, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("parse json3: empty input")
	}

	var doc json3Doc
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse json3: %w", err)
	}

	segments := make([]models.Segment, 0, len(doc.Events))
	for _, ev := range doc.Events {
		var b strings.Builder
		for _, s := range ev.Segs {
			b.WriteString(s.UTF8)
		}
		seg := models.Segment{Text: b.String()}
		if ev.TStartMs != nil {
			seg.Start = float64(*ev.TStartMs) / 1000
		}
		if ev.DDurationMs != nil {
			seg.Duration = float64(*ev.DDurationMs) / 1000
		}
		segments = append(segments, seg)
	}
	return segments, nil
}
