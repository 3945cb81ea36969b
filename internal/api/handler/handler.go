package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/recruit-proxy/internal/airtable"
	"github.com/cuongbtq/recruit-proxy/internal/config"
	"github.com/cuongbtq/recruit-proxy/internal/gemini"
	"github.com/cuongbtq/recruit-proxy/internal/proxy"
	"github.com/cuongbtq/recruit-proxy/internal/relay"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger     *slog.Logger
	Config     *config.Config
	HTTPClient *http.Client
}

// Handlers groups one IntegrationHandler per upstream route
type Handlers struct {
	CVAssistant *IntegrationHandler
	JDAssistant *IntegrationHandler
	FetchJobs   *IntegrationHandler
	APIProxy    *IntegrationHandler
}

// NewHandlers wires every integration to a shared upstream caller
func NewHandlers(deps *Dependencies) *Handlers {
	cfg := deps.Config
	caller := proxy.NewCaller(deps.HTTPClient, deps.Logger)

	geminiCfg := gemini.Config{
		BaseURL:   cfg.Gemini.BaseURL,
		Model:     cfg.Gemini.Model,
		AuthStyle: cfg.Gemini.AuthStyle,
		APIKey:    cfg.Gemini.APIKey,
	}

	airtableCfg := airtable.Config{
		BaseURL:       cfg.Airtable.BaseURL,
		Token:         cfg.Airtable.Token,
		BaseID:        cfg.Airtable.BaseID,
		TableName:     cfg.Airtable.TableName,
		View:          cfg.Airtable.View,
		FilterFormula: cfg.Airtable.FilterFormula,
	}

	relayCfg := relay.Config{
		Endpoint: cfg.Relay.Endpoint,
		APIKey:   cfg.Relay.APIKey,
	}

	build := func(i proxy.Integration) *IntegrationHandler {
		return NewIntegrationHandler(proxy.NewPipeline(i, caller, deps.Logger, cfg.Server.MaxBodyBytes))
	}

	return &Handlers{
		CVAssistant: build(gemini.NewCVAssistant(geminiCfg, deps.Logger)),
		JDAssistant: build(gemini.NewJDAssistant(geminiCfg, deps.Logger)),
		FetchJobs:   build(airtable.NewJobsFeed(airtableCfg, deps.Logger)),
		APIProxy:    build(relay.New(relayCfg)),
	}
}
