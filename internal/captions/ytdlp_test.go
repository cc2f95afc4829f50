package captions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/config"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

func newTestYtDlp(t *testing.T, run runFunc) (*YtDlp, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"events": [{"tStartMs": 0, "dDurationMs": 1500, "segs": [{"utf8": "Bonjour"}]}]}`)
	}))
	t.Cleanup(server.Close)

	y := NewYtDlp(config.ProviderConfig{YtDlpPath: "/usr/bin/yt-dlp"}, server.Client())
	y.run = run
	return y, server
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs("abc123")

	assert.Equal(t, "--no-config", args[0])
	assert.Contains(t, args, "-j")
	assert.Contains(t, args, "--skip-download")
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", args[len(args)-1])
}

func TestYtDlp_ResolveCatalog(t *testing.T) {
	var gotName string
	var gotArgs []string
	var serverURL string

	y, server := newTestYtDlp(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte(fmt.Sprintf("WARNING: something harmless\n"+
			`{"id": "abc123", `+
			`"subtitles": {"fr": [{"ext": "vtt", "url": "%[1]s/fr.vtt"}, {"ext": "json3", "url": "%[1]s/fr.json3", "name": "French"}], `+
			`"de": [{"ext": "json3", "url": "%[1]s/de.json3", "name": "German"}], `+
			`"live_chat": [{"ext": "json3", "url": "%[1]s/chat"}]}, `+
			`"automatic_captions": {"es": [{"ext": "json3", "url": "%[1]s/es.json3"}], `+
			`"fr-orig": [{"ext": "json3", "url": "%[1]s/fr-orig.json3", "name": "French (Original)"}]}}`, serverURL)), nil
	})
	serverURL = server.URL

	catalog, err := y.ResolveCatalog(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/yt-dlp", gotName)
	assert.Equal(t, buildArgs("abc123"), gotArgs)

	manual := catalog.ManuallyCreated()
	require.Len(t, manual, 2)
	assert.Equal(t, "de", manual[0].LanguageCode)
	assert.Equal(t, "fr", manual[1].LanguageCode)
	assert.Equal(t, "French", manual[1].Language)

	generated := catalog.Generated()
	require.Len(t, generated, 1)
	assert.Equal(t, "fr", generated[0].LanguageCode)
	assert.Equal(t, models.OriginGenerated, generated[0].Origin)

	found, err := catalog.FindTranscript("fr")
	require.NoError(t, err)
	assert.Equal(t, models.OriginManual, found.Origin)

	segments, err := found.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Bonjour", segments[0].Text)
	assert.Equal(t, 1.5, segments[0].Duration)
}

func TestYtDlp_ResolveCatalogFailures(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
		kind Kind
	}{
		{
			name: "unavailable",
			out:  "ERROR: [youtube] abc123: Video unavailable",
			err:  errors.New("exit status 1"),
			kind: KindVideoUnavailable,
		},
		{
			name: "private",
			out:  "ERROR: [youtube] abc123: Private video. Sign in if you've been granted access",
			err:  errors.New("exit status 1"),
			kind: KindVideoUnavailable,
		},
		{
			name: "no captions",
			out:  `{"id": "abc123", "subtitles": {}, "automatic_captions": {"en": [{"ext": "json3", "url": "http://x"}]}}`,
			kind: KindTranscriptsDisabled,
		},
		{
			name: "binary failure",
			out:  "yt-dlp: command not found",
			err:  errors.New("exit status 127"),
			kind: KindInternal,
		},
		{
			name: "no json",
			out:  "nothing useful",
			kind: KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, _ := newTestYtDlp(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
				return []byte(tt.out), tt.err
			})

			_, err := y.ResolveCatalog(context.Background(), "abc123")
			require.Error(t, err)
			assert.Equal(t, tt.kind, Classify(err), "got %v", err)
		})
	}
}

func TestNewResolver(t *testing.T) {
	r, err := NewResolver(config.ProviderConfig{Kind: config.ProviderInnerTube, BaseURL: "http://localhost"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &InnerTube{}, r)

	r, err = NewResolver(config.ProviderConfig{Kind: config.ProviderYtDlp, YtDlpPath: "yt-dlp"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &YtDlp{}, r)

	_, err = NewResolver(config.ProviderConfig{Kind: "scraper"}, nil)
	assert.Error(t, err)
}
