package main

import (
	"os"
	"strings"
	"sync"

	"github.com/therealutkarshpriyadarshi/transcripts/internal/captions"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/config"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/logging"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/transcript"
)

// resolverFactory builds the caption provider from configuration
type resolverFactory func(cfg config.ProviderConfig) (captions.Resolver, error)

func defaultResolver(cfg config.ProviderConfig) (captions.Resolver, error) {
	return captions.NewResolver(cfg, nil)
}

type commandContext struct {
	configFlag   *string
	providerFlag *string
	verboseFlag  *bool
	newResolver  resolverFactory
	languages    []string

	serviceOnce sync.Once
	service     *transcript.Service
	serviceErr  error
}

func newCommandContext(configFlag, providerFlag *string, verboseFlag *bool, newResolver resolverFactory) *commandContext {
	if newResolver == nil {
		newResolver = defaultResolver
	}
	return &commandContext{
		configFlag:   configFlag,
		providerFlag: providerFlag,
		verboseFlag:  verboseFlag,
		newResolver:  newResolver,
	}
}

func (c *commandContext) ensureService() (*transcript.Service, error) {
	c.serviceOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.serviceErr = err
			return
		}
		if c.providerFlag != nil && *c.providerFlag != "" {
			cfg.Provider.Kind = *c.providerFlag
		}

		resolver, err := c.newResolver(cfg.Provider)
		if err != nil {
			c.serviceErr = err
			return
		}

		level := "warn"
		if c.verboseFlag != nil && *c.verboseFlag {
			level = "debug"
		}

		languages := cfg.Selection.PreferredLanguages
		if len(c.languages) > 0 {
			languages = c.languages
		}

		c.service = transcript.NewService(resolver, logging.New(os.Stderr, level),
			transcript.WithLanguages(languages),
			transcript.WithProviderName(cfg.Provider.Kind),
		)
	})
	return c.service, c.serviceErr
}
