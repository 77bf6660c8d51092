// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the HTTP client, picks the
// backend variant and injects it into the tools, prompts and resources
// that depend on abstractions. No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/HendryAvila/kbridge/internal/config"
	"github.com/HendryAvila/kbridge/internal/journal"
	"github.com/HendryAvila/kbridge/internal/kb"
	"github.com/HendryAvila/kbridge/internal/kbclient"
	"github.com/HendryAvila/kbridge/internal/prompts"
	"github.com/HendryAvila/kbridge/internal/resources"
	"github.com/HendryAvila/kbridge/internal/tools"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Name is the server name reported on initialize.
const Name = "kbridge"

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered for cfg's backend.
//
// The returned cleanup function closes the journal's database connection
// and must be called on shutdown (typically via defer). It is always
// non-nil and safe to call even if the journal is disabled.
func New(cfg config.Config, log zerolog.Logger) (*server.MCPServer, func(), error) {
	backend, err := NewBackend(cfg, log)
	if err != nil {
		return nil, noop, err
	}
	dispatcher := tools.NewDispatcher(backend, log)

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithToolFilter(dispatcher.HideAliases),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions(backend)),
	)

	dispatcher.Register(s)

	// --- Journal ---
	//
	// The journal is optional: if it fails to open, lookups keep working
	// and only the recent-lookups resource goes away.

	cleanup := noop
	if cfg.JournalPath != "" {
		store, err := journal.Open(cfg.JournalPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.JournalPath).Msg("journal disabled")
		} else {
			cleanup = func() {
				if err := store.Close(); err != nil {
					log.Warn().Err(err).Msg("journal close")
				}
			}
			dispatcher.SetRecorder(store)

			resourceHandler := resources.NewHandler(store)
			s.AddResource(resourceHandler.RecentResource(), resourceHandler.HandleRecent)
		}
	}

	// --- Prompts ---

	list := tools.NewListTool(backend)
	fetch := tools.NewFetchTool(backend)
	research := prompts.NewResearchPrompt(backend.SiteName(), list.Name(), fetch.Param())
	s.AddPrompt(research.Definition(), research.Handle)

	log.Info().
		Str("backend", string(backend.Variant())).
		Str("site", backend.SiteName()).
		Bool("journal", cfg.JournalPath != "").
		Msg("server ready")

	return s, cleanup, nil
}

// NewBackend builds the knowledge-base backend selected by cfg.
func NewBackend(cfg config.Config, log zerolog.Logger) (kb.Backend, error) {
	opts := []kbclient.Option{
		kbclient.WithTimeout(cfg.HTTPTimeout),
		kbclient.WithUserAgent(Name + "/" + Version),
		kbclient.WithLogger(log),
	}

	switch cfg.Backend {
	case kb.VariantGeneric:
		client := kbclient.New(cfg.BaseURL(), opts...)
		return kb.NewGeneric(client, client.BaseURL(), cfg.SiteName), nil
	case kb.VariantZendesk:
		opts = append(opts, kbclient.WithAuthorization(kbclient.BasicAuth(cfg.Zendesk.Email, cfg.Zendesk.APIToken)))
		client := kbclient.New(cfg.BaseURL(), opts...)
		return kb.NewZendesk(client, cfg.SiteName, cfg.Zendesk.Locale, log), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// noop is the default cleanup when the journal is disabled.
func noop() {}

// serverInstructions tells the host what the tools are for.
func serverInstructions(backend kb.Backend) string {
	list := tools.NewListTool(backend).Name()
	param := tools.NewFetchTool(backend).Param()

	return fmt.Sprintf(`You have access to kbridge, a read-only bridge to the %s knowledge base.

## Tools
- %s: see what the knowledge base contains
- search_content: find articles matching a query
- fetch_article: read one article in full (parameter: %s)

## How to use them
1. Prefer search_content with a short query over listing everything
2. Fetch the most relevant results before answering
3. Answer from article content and include the article URL
4. If nothing relevant exists, say so rather than guessing`,
		backend.SiteName(), list, param)
}
