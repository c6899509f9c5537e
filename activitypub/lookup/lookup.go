package lookup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bluesky-social/apbridge/activitypub/mapping"
	"github.com/bluesky-social/apbridge/activitypub/routes"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Storage collaborator: loads a local entity by type and ID. Implementations return [ErrNotFound] (possibly wrapped) for missing entities.
type EntityLoader interface {
	LoadEntity(ctx context.Context, typeID, id string) (mapping.Entity, error)
}

var ErrNotFound = errors.New("entity not found")

type Status int

const (
	// URL is not local, or does not match a resolvable route
	StatusInvalid Status = iota
	// URL matched a route, but there is no such entity
	StatusNotFound
	StatusFound
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not-found"
	}
	return "invalid"
}

type Result struct {
	Status Status
	Match  routes.Match
	Entity mapping.Entity
}

type Resolver struct {
	site   *routes.Site
	loader EntityLoader
	logger *slog.Logger
}

func NewResolver(site *routes.Site, loader EntityLoader, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		site:   site,
		loader: loader,
		logger: logger.With("component", "lookup"),
	}
}

// Resolves a URL to a local entity, returning nil unless found.
func (r *Resolver) Resolve(ctx context.Context, raw string) mapping.Entity {
	res := r.Lookup(ctx, raw)
	if res.Status != StatusFound {
		return nil
	}
	return res.Entity
}

// Resolves a URL to a local entity, with an explicit status for each failure mode.
func (r *Resolver) Lookup(ctx context.Context, raw string) Result {
	ctx, span := otel.Tracer("lookup").Start(ctx, "Lookup")
	defer span.End()

	start := time.Now()
	res := r.lookup(ctx, raw)
	span.SetAttributes(attribute.String("status", res.Status.String()))
	lookupsTotal.WithLabelValues(res.Status.String()).Inc()
	lookupDuration.WithLabelValues(res.Status.String()).Observe(time.Since(start).Seconds())
	return res
}

func (r *Resolver) lookup(ctx context.Context, raw string) Result {
	path, ok := r.site.LocalPath(raw)
	if !ok {
		r.logger.DebugContext(ctx, "not a local URL", "url", raw)
		return Result{Status: StatusInvalid}
	}

	m, ok := r.site.Match(path)
	if !ok {
		r.logger.DebugContext(ctx, "no resolvable route for path", "url", raw, "path", path)
		return Result{Status: StatusInvalid}
	}

	if r.loader == nil {
		return Result{Status: StatusNotFound, Match: m}
	}
	ent, err := r.loader.LoadEntity(ctx, m.EntityTypeID, m.EntityID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.DebugContext(ctx, "entity lookup failed", "url", raw, "type", m.EntityTypeID, "id", m.EntityID, "err", err)
		}
		return Result{Status: StatusNotFound, Match: m}
	}
	if ent == nil {
		return Result{Status: StatusNotFound, Match: m}
	}
	return Result{Status: StatusFound, Match: m, Entity: ent}
}
