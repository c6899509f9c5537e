package builder

import (
	"context"
	"log/slog"

	"github.com/bluesky-social/apbridge/activitypub/mapping"
	"github.com/bluesky-social/apbridge/activitypub/vocab"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Shape of the "tag" property carrying mentions on created objects
type TagStyle int

const (
	// tag is a single-element list wrapping the full mention list: [[m1, m2]]. This is the historical wire format of the site.
	TagsNested TagStyle = iota
	// tag is the mention list itself: [m1, m2]
	TagsFlat
)

type Config struct {
	URLs     mapping.URLBuilder
	Resolver *mapping.Resolver
	Audience AudienceSource
	Logger   *slog.Logger
	TagStyle TagStyle
}

type Builder struct {
	urls     mapping.URLBuilder
	resolver *mapping.Resolver
	audience AudienceSource
	logger   *slog.Logger
	tagStyle TagStyle
}

func New(config Config) *Builder {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	resolver := config.Resolver
	if resolver == nil {
		resolver = mapping.NewResolver(config.URLs)
	}
	return &Builder{
		urls:     config.URLs,
		resolver: resolver,
		audience: config.Audience,
		logger:   logger.With("component", "builder"),
		tagStyle: config.TagStyle,
	}
}

// Builds the protocol object for an entity: type, id, attribution, mapped properties and audience. Mentions are not attached; see [Builder.Build].
func (b *Builder) BuildObject(ctx context.Context, cfg *mapping.Config, act Activity, ent mapping.Entity) (*vocab.Object, Audience) {
	if cfg == nil {
		cfg = &mapping.Config{}
	}

	obj := vocab.NewObject()
	obj.Set("type", cfg.Object.String())
	if ent != nil {
		if id, ok := b.canonicalURL(ctx, ent.Ref()); ok {
			obj.Set("id", id)
		}
	}
	obj.Set("attributedTo", act.Actor())

	props := b.resolver.Resolve(ctx, cfg, ent)
	for _, k := range props.Keys() {
		if vocab.IsReservedProperty(k) {
			continue
		}
		v, _ := props.Get(k)
		obj.Set(k, v)
	}

	aud := ComputeAudience(b.recipients(ctx, act, ent))
	obj.Set("to", aud.To)
	obj.Set("cc", aud.CC)
	return obj, aud
}

// Builds the activity envelope. For "Create", the envelope wraps the full object, with mentions attached as its tag. For any other verb, the envelope's object is the mapped target ("object" property) of the entity, and is omitted if nothing was mapped.
//
// Always returns a structurally valid envelope.
func (b *Builder) Build(ctx context.Context, cfg *mapping.Config, act Activity, ent mapping.Entity) *vocab.Object {
	if cfg == nil {
		cfg = &mapping.Config{}
	}
	ctx, span := otel.Tracer("builder").Start(ctx, "Build")
	defer span.End()
	span.SetAttributes(
		attribute.String("activity", cfg.Activity.String()),
		attribute.String("object", cfg.Object.String()),
	)

	obj, aud := b.BuildObject(ctx, cfg, act, ent)

	env := vocab.NewObject()
	env.Set("type", cfg.Activity.String())
	if id, ok := b.canonicalURL(ctx, act.Ref()); ok {
		env.Set("id", id)
	}
	env.Set("actor", act.Actor())
	env.Set("to", aud.To)
	env.Set("cc", aud.CC)

	if cfg.Activity == vocab.ActivityCreate {
		if len(aud.Mention) > 0 {
			obj.Set("tag", b.tags(aud.Mention))
		}
		env.Set("object", obj)
	} else if target, ok := obj.Get(vocab.PropObject); ok {
		env.Set("object", target)
	}

	buildsTotal.WithLabelValues(cfg.Activity.String(), cfg.Object.String()).Inc()
	return env
}

func (b *Builder) tags(mentions []vocab.Mention) any {
	if b.tagStyle == TagsFlat {
		return mentions
	}
	return []any{mentions}
}

func (b *Builder) canonicalURL(ctx context.Context, ref mapping.Ref) (string, bool) {
	if b.urls == nil || ref.IsZero() {
		return "", false
	}
	u, err := b.urls.CanonicalURL(ref)
	if err != nil {
		b.logger.DebugContext(ctx, "no canonical URL", "ref", ref, "err", err)
		return "", false
	}
	return u, u != ""
}

// Falls back to author-only addressing when the audience source is missing or fails.
func (b *Builder) recipients(ctx context.Context, act Activity, ent mapping.Entity) *Recipients {
	fallback := &Recipients{Author: Actor{URI: act.Actor()}}
	if b.audience == nil {
		return fallback
	}
	r, err := b.audience.Recipients(ctx, act, ent)
	if err != nil {
		audienceErrors.Inc()
		b.logger.WarnContext(ctx, "audience lookup failed", "activity", act.Ref(), "err", err)
		return fallback
	}
	if r == nil {
		return fallback
	}
	rc := *r
	if rc.Author.URI == "" {
		rc.Author.URI = act.Actor()
	}
	return &rc
}
