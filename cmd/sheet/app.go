package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/KirkDiggler/agency-sheet/internal/catalog"
	"github.com/KirkDiggler/agency-sheet/internal/config"
	"github.com/KirkDiggler/agency-sheet/internal/form"
	"github.com/KirkDiggler/agency-sheet/internal/orchestrators/sheet"
	"github.com/KirkDiggler/agency-sheet/internal/pdf"
	"github.com/KirkDiggler/agency-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/agency-sheet/internal/pkg/idgen"
	"github.com/KirkDiggler/agency-sheet/internal/redis"
	"github.com/KirkDiggler/agency-sheet/internal/render"
	"github.com/KirkDiggler/agency-sheet/internal/repositories/drafts"
)

// draftIDPrefix prefixes generated draft IDs.
const draftIDPrefix = "draft"

// app holds the wired service and the pieces commands use directly.
type app struct {
	service   *sheet.Orchestrator
	converter pdf.Converter
	cleanup   func()
}

func newApp(ctx context.Context, c *config.Config) (*app, error) {
	catalogs := catalog.Load(ctx, c.CatalogPaths())

	tmpl := render.DefaultTemplate()
	if c.TemplatePath != "" {
		loaded, err := render.LoadTemplate(c.TemplatePath)
		if err != nil {
			return nil, err
		}
		tmpl = loaded
	}

	clk := clock.New()
	renderer, err := render.New(&render.Config{
		Template:    tmpl,
		ProjectRoot: c.ProjectRoot,
		OutputDir:   c.HTMLOutDir,
		Clock:       clk,
	})
	if err != nil {
		return nil, err
	}

	converter, err := pdf.New(&pdf.Config{
		Engine:  c.PDF.Engine,
		Browser: c.PDF.Browser,
		Timeout: c.PDF.Timeout,
	})
	if err != nil {
		return nil, err
	}

	repo, cleanup, err := newDraftRepository(ctx, c, clk)
	if err != nil {
		return nil, err
	}

	orchestrator, err := sheet.New(&sheet.Config{
		Aggregator:  form.NewAggregator(catalogs),
		DraftRepo:   repo,
		Renderer:    renderer,
		Converter:   converter,
		IDGenerator: idgen.NewUUID(draftIDPrefix),
		Clock:       clk,
		OutputDir:   c.OutputDir,
		ProjectRoot: c.ProjectRoot,
		DraftTTL:    c.Drafts.TTL,
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	return &app{
		service:   orchestrator,
		converter: converter,
		cleanup:   cleanup,
	}, nil
}

func newDraftRepository(ctx context.Context, c *config.Config, clk clock.Clock) (drafts.Repository, func(), error) {
	if c.Drafts.Backend != config.DraftBackendRedis {
		return drafts.NewFileRepository(c.DraftDir(), clk), func() {}, nil
	}

	client, err := redis.NewClient(c.Drafts.RedisURL, &redis.Options{
		PoolSize:        4,
		ConnMaxIdleTime: 5 * time.Minute,
		MaxRetries:      2,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", c.Drafts.RedisURL, err)
	}

	slog.DebugContext(ctx, "drafts stored in redis")
	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}
	return drafts.NewRedisRepository(client, clk), cleanup, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
