package captions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/therealutkarshpriyadarshi/transcripts/internal/config"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

const (
	playerPath           = "/youtubei/v1/player"
	playabilityOK        = "OK"
	generatedTrackKind   = "asr"
	legacyFormatSuffix   = "&fmt=srv3"
	defaultClientName    = "ANDROID"
	defaultClientVersion = "20.10.38"
)

// InnerTube resolves caption catalogs through the YouTube player endpoint
type InnerTube struct {
	client             *http.Client
	baseURL            string
	apiKey             string
	clientName         string
	clientVersion      string
	userAgent          string
	maxBodyBytes       int64
	preserveFormatting bool
}

// NewInnerTube creates an InnerTube resolver. A nil client gets one with the
// configured timeout.
func NewInnerTube(cfg config.ProviderConfig, client *http.Client) *InnerTube {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	it := &InnerTube{
		client:             client,
		baseURL:            strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:             cfg.APIKey,
		clientName:         cfg.ClientName,
		clientVersion:      cfg.ClientVersion,
		userAgent:          cfg.UserAgent,
		maxBodyBytes:       cfg.MaxBodyBytes,
		preserveFormatting: cfg.PreserveFormatting,
	}
	if it.clientName == "" {
		it.clientName = defaultClientName
	}
	if it.clientVersion == "" {
		it.clientVersion = defaultClientVersion
	}
	if it.userAgent == "" {
		it.userAgent = DefaultUserAgent
	}
	return it
}

type playerRequest struct {
	Context struct {
		Client struct {
			ClientName    string `json:"clientName"`
			ClientVersion string `json:"clientVersion"`
		} `json:"client"`
	} `json:"context"`
	VideoID string `json:"videoId"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *struct {
		Renderer *struct {
			CaptionTracks []captionTrackJSON `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrackJSON struct {
	BaseURL string `json:"baseUrl"`
	Name    struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
	LanguageCode   string `json:"languageCode"`
	Kind           string `json:"kind"`
	IsTranslatable bool   `json:"isTranslatable"`
}

func (c captionTrackJSON) displayName() string {
	if c.Name.SimpleText != "" {
		return c.Name.SimpleText
	}
	var b strings.Builder
	for _, r := range c.Name.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// ResolveCatalog implements Resolver with a single player request
func (it *InnerTube) ResolveCatalog(ctx context.Context, videoID string) (Catalog, error) {
	resp, err := it.player(ctx, videoID)
	if err != nil {
		return nil, err
	}

	status := resp.PlayabilityStatus
	if status.Status != playabilityOK {
		reason := status.Reason
		if reason == "" {
			reason = strings.ToLower(status.Status)
		}
		return nil, fmt.Errorf("%w: %s", ErrVideoUnavailable, reason)
	}

	if resp.Captions == nil || resp.Captions.Renderer == nil || len(resp.Captions.Renderer.CaptionTracks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTranscriptsDisabled, videoID)
	}

	var manual, generated []*Track
	for _, ct := range resp.Captions.Renderer.CaptionTracks {
		if ct.LanguageCode == "" || ct.BaseURL == "" {
			continue
		}
		info := models.CaptionTrack{
			LanguageCode: ct.LanguageCode,
			Language:     ct.displayName(),
			Origin:       models.OriginManual,
			Translatable: ct.IsTranslatable,
		}
		if ct.Kind == generatedTrackKind {
			info.Origin = models.OriginGenerated
		}
		track := NewTrack(info, it.fetcher(strings.Replace(ct.BaseURL, legacyFormatSuffix, "", 1)))
		if info.Origin == models.OriginGenerated {
			generated = append(generated, track)
		} else {
			manual = append(manual, track)
		}
	}

	return NewTrackList(videoID, manual, generated), nil
}

func (it *InnerTube) player(ctx context.Context, videoID string) (*playerResponse, error) {
	var body playerRequest
	body.Context.Client.ClientName = it.clientName
	body.Context.Client.ClientVersion = it.clientVersion
	body.VideoID = videoID

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ProviderError{Op: "player", Err: fmt.Errorf("marshal request: %w", err)}
	}

	endpoint := it.baseURL + playerPath
	q := url.Values{}
	q.Set("prettyPrint", "false")
	if it.apiKey != "" {
		q.Set("key", it.apiKey)
	}
	endpoint += "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Op: "player", Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", DefaultLanguage)
	req.Header.Set("User-Agent", it.userAgent)

	httpResp, err := it.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Op: "player", Err: fmt.Errorf("request failed: %w", err)}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrVideoUnavailable, videoID)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &ProviderError{Op: "player", Err: &httpStatusError{StatusCode: httpResp.StatusCode, Status: httpResp.Status}}
	}

	data, err := readLimited(httpResp, it.maxBodyBytes)
	if err != nil {
		return nil, &ProviderError{Op: "player", Err: err}
	}

	var resp playerResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &ProviderError{Op: "player", Err: fmt.Errorf("decode response: %w", err)}
	}
	return &resp, nil
}

func (it *InnerTube) fetcher(trackURL string) FetchFunc {
	return func(ctx context.Context) ([]models.Segment, error) {
		data, err := getBytes(ctx, it.client, trackURL, it.userAgent, it.maxBodyBytes)
		if err != nil {
			return nil, err
		}
		return ParseTimedText(data, it.preserveFormatting)
	}
}
