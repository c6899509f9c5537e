package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bluesky-social/apbridge/activitypub/builder"
	"github.com/bluesky-social/apbridge/activitypub/lookup"
	"github.com/bluesky-social/apbridge/activitypub/mapping"
	"github.com/bluesky-social/apbridge/activitypub/routes"
	"github.com/bluesky-social/apbridge/activitypub/vocab"
	"github.com/bluesky-social/apbridge/store"

	cli "github.com/urfave/cli/v2"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"
)

//go:embed default_mapping.yaml
var defaultMapping []byte

var ErrNoMapping = errors.New("no mapping configured for content type")

// Everything needed to render and resolve local content
type App struct {
	Site     *routes.Site
	Store    *store.Store
	Mappings mapping.ConfigSet
	Builder  *builder.Builder
	Logger   *slog.Logger
}

type AppConfig struct {
	BaseURL  string
	Mappings mapping.ConfigSet
	TagStyle builder.TagStyle
	Logger   *slog.Logger
}

func NewApp(db *gorm.DB, config AppConfig) (*App, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	site, err := routes.NewSite(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if err := validateMappings(config.Mappings); err != nil {
		return nil, err
	}

	st := store.New(db, site, logger)
	if err := st.Migrate(); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	resolver := mapping.NewResolver(site)
	resolver.Logger = logger.With("component", "mapping")
	b := builder.New(builder.Config{
		URLs:     site,
		Resolver: resolver,
		Audience: st,
		Logger:   logger,
		TagStyle: config.TagStyle,
	})

	return &App{
		Site:     site,
		Store:    st,
		Mappings: config.Mappings,
		Builder:  b,
		Logger:   logger,
	}, nil
}

func loadApp(cctx *cli.Context, logger *slog.Logger) (*App, error) {
	mappings, err := loadMappings(cctx.String("mapping-config"))
	if err != nil {
		return nil, err
	}
	db, err := store.SetupDatabase(cctx.String("database-url"), 40)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if tracingEnabled(cctx) {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, err
		}
	}
	tagStyle := builder.TagsNested
	if cctx.Bool("flat-tags") {
		tagStyle = builder.TagsFlat
	}
	return NewApp(db, AppConfig{
		BaseURL:  cctx.String("base-url"),
		Mappings: mappings,
		TagStyle: tagStyle,
		Logger:   logger,
	})
}

func loadMappings(path string) (mapping.ConfigSet, error) {
	if path == "" {
		return mapping.ParseConfig(defaultMapping)
	}
	return mapping.LoadConfig(path)
}

func validateMappings(set mapping.ConfigSet) error {
	reg := store.Registry()
	var errs []error
	for _, cfg := range set {
		if err := cfg.Validate(reg); err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", cfg.TargetEntityTypeID, cfg.TargetBundle, err))
		}
	}
	return errors.Join(errs...)
}

// Builds the protocol document for a post: the full activity envelope, or just the object.
func (a *App) Render(ctx context.Context, ent mapping.Entity, envelope bool) (*vocab.Object, error) {
	pe, ok := ent.(*store.PostEntity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoMapping, ent.Ref())
	}
	cfg, ok := a.Mappings.For(ent)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoMapping, ent.Ref().TypeID, ent.Bundle())
	}
	act := a.Store.ActivityFor(pe.Post)
	if envelope {
		return vocab.WithContext(a.Builder.Build(ctx, &cfg, act, ent)), nil
	}
	obj, _ := a.Builder.BuildObject(ctx, &cfg, act, ent)
	return vocab.WithContext(obj), nil
}

type ResolveOutput struct {
	URL          string `json:"url"`
	Status       string `json:"status"`
	Route        string `json:"route,omitempty"`
	EntityTypeID string `json:"entity_type_id,omitempty"`
	EntityID     string `json:"entity_id,omitempty"`
	Bundle       string `json:"bundle,omitempty"`
}

func resolveOutput(raw string, res lookup.Result) ResolveOutput {
	out := ResolveOutput{
		URL:          raw,
		Status:       res.Status.String(),
		Route:        string(res.Match.Route),
		EntityTypeID: res.Match.EntityTypeID,
		EntityID:     res.Match.EntityID,
	}
	if res.Entity != nil {
		out.Bundle = res.Entity.Bundle()
	}
	return out
}
