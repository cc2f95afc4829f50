package captions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"sort"
	"strings"

	"github.com/therealutkarshpriyadarshi/transcripts/internal/config"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

const (
	watchURLPrefix = "https://www.youtube.com/watch?v="
	origSuffix     = "-orig"
	json3Ext       = "json3"
)

// yt-dlp error output that means the video cannot be accessed
var unavailableMarkers = []string{
	"Video unavailable",
	"Private video",
	"This video is not available",
	"This video has been removed",
	"Incomplete YouTube ID",
}

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// YtDlp resolves caption catalogs by dumping video metadata with yt-dlp
type YtDlp struct {
	path         string
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	run          runFunc
}

// NewYtDlp creates a yt-dlp backed resolver
func NewYtDlp(cfg config.ProviderConfig, client *http.Client) *YtDlp {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &YtDlp{
		path:         cfg.YtDlpPath,
		client:       client,
		userAgent:    userAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		run:          runCombined,
	}
}

type ytdlpSubtitle struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ytdlpOutput is the subset of `yt-dlp -j` output used to build a catalog.
// Map keys are language codes; generated originals carry an "-orig" suffix.
type ytdlpOutput struct {
	ID                string                     `json:"id"`
	Subtitles         map[string][]ytdlpSubtitle `json:"subtitles"`
	AutomaticCaptions map[string][]ytdlpSubtitle `json:"automatic_captions"`
}

// buildArgs returns the yt-dlp arguments for a metadata dump
func buildArgs(videoID string) []string {
	return []string{
		"--no-config",
		"-j",
		"--skip-download",
		"--no-warnings",
		"--no-progress",
		"--no-update",
		watchURLPrefix + videoID,
	}
}

// ResolveCatalog implements Resolver
func (y *YtDlp) ResolveCatalog(ctx context.Context, videoID string) (Catalog, error) {
	out, err := y.run(ctx, y.path, buildArgs(videoID)...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &ProviderError{Op: "yt-dlp", Err: ctx.Err()}
		}
		for _, marker := range unavailableMarkers {
			if strings.Contains(string(out), marker) {
				return nil, fmt.Errorf("%w: %s", ErrVideoUnavailable, marker)
			}
		}
		return nil, &ProviderError{Op: "yt-dlp", Err: fmt.Errorf("%w, output: %s", err, strings.TrimSpace(string(out)))}
	}

	raw, err := lastJSONLine(out)
	if err != nil {
		return nil, &ProviderError{Op: "yt-dlp", Err: err}
	}

	var meta ytdlpOutput
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, &ProviderError{Op: "yt-dlp", Err: fmt.Errorf("unmarshal output: %w", err)}
	}

	manual := y.tracks(meta.Subtitles, models.OriginManual)
	generated := y.tracks(meta.AutomaticCaptions, models.OriginGenerated)
	if len(manual) == 0 && len(generated) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTranscriptsDisabled, videoID)
	}
	return NewTrackList(videoID, manual, generated), nil
}

// tracks converts one yt-dlp subtitle map into json3 tracks, sorted by code
func (y *YtDlp) tracks(subs map[string][]ytdlpSubtitle, origin models.Origin) []*Track {
	codes := make([]string, 0, len(subs))
	for code := range subs {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var out []*Track
	for _, code := range codes {
		if code == "live_chat" {
			continue
		}
		lang := code
		if origin == models.OriginGenerated {
			if !strings.HasSuffix(code, origSuffix) {
				continue
			}
			lang = strings.TrimSuffix(code, origSuffix)
		}
		for _, item := range subs[code] {
			if item.Ext != json3Ext || item.URL == "" {
				continue
			}
			info := models.CaptionTrack{LanguageCode: lang, Language: item.Name, Origin: origin}
			out = append(out, NewTrack(info, y.fetcher(item.URL)))
			break
		}
	}
	return out
}

func (y *YtDlp) fetcher(trackURL string) FetchFunc {
	return func(ctx context.Context) ([]models.Segment, error) {
		data, err := getBytes(ctx, y.client, trackURL, y.userAgent, y.maxBodyBytes)
		if err != nil {
			return nil, err
		}
		return ParseJSON3(data)
	}
}

// lastJSONLine picks the JSON document out of mixed yt-dlp output
func lastJSONLine(out []byte) ([]byte, error) {
	var jsonLine string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "{") {
			jsonLine = line
		}
	}
	if jsonLine == "" {
		return nil, fmt.Errorf("no JSON found in yt-dlp output")
	}
	return []byte(jsonLine), nil
}
