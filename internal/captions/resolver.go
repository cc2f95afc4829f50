package captions

import (
	"fmt"
	"net/http"

	"github.com/therealutkarshpriyadarshi/transcripts/internal/config"
)

// NewResolver creates the resolver selected by cfg.Kind
func NewResolver(cfg config.ProviderConfig, client *http.Client) (Resolver, error) {
	switch cfg.Kind {
	case config.ProviderInnerTube, "":
		return NewInnerTube(cfg, client), nil
	case config.ProviderYtDlp:
		return NewYtDlp(cfg, client), nil
	default:
		return nil, fmt.Errorf("unknown caption provider %q", cfg.Kind)
	}
}

var (
	_ Resolver = (*InnerTube)(nil)
	_ Resolver = (*YtDlp)(nil)
	_ Catalog  = (*TrackList)(nil)
)
