package mapping

import (
	"context"
	"log/slog"

	"github.com/bluesky-social/apbridge/activitypub/vocab"
)

// Applies a [Config] field mapping to an [Entity], producing protocol property values.
type Resolver struct {
	URLs      URLBuilder
	Sanitizer Sanitizer
	Logger    *slog.Logger
}

// Creates a resolver with the default HTML sanitizer.
func NewResolver(urls URLBuilder) *Resolver {
	return &Resolver{
		URLs:      urls,
		Sanitizer: HTMLSanitizer{},
		Logger:    slog.Default().With("component", "mapping"),
	}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Resolves every mapped property of the entity. Keys follow the declaration order of the field mapping; when a property is mapped more than once, the last contributed value wins.
//
// Never fails: unmapped properties, missing fields, empty values, and values which can't be converted are omitted. A nil entity resolves to an empty object.
func (r *Resolver) Resolve(ctx context.Context, cfg *Config, ent Entity) *vocab.Object {
	out := vocab.NewObject()
	if cfg == nil || ent == nil {
		return out
	}
	for _, m := range cfg.FieldMapping {
		if m.FieldName == "" {
			continue
		}
		if !ent.HasField(m.FieldName) {
			r.logger().DebugContext(ctx, "mapped field missing on entity", "entity", ent.Ref(), "field", m.FieldName, "property", m.Property)
			continue
		}
		raw := ent.FieldValue(m.FieldName)
		if isEmpty(raw) {
			continue
		}
		ft := ent.FieldType(m.FieldName)
		val, ok := r.convert(ft, raw)
		if !ok {
			r.logger().DebugContext(ctx, "field value contributed nothing", "entity", ent.Ref(), "field", m.FieldName, "fieldType", ft, "property", m.Property)
			continue
		}
		out.Set(m.Property, val)
	}
	return out
}

func (r *Resolver) convert(ft FieldType, raw any) (any, bool) {
	switch {
	case ft.IsPlainText():
		return convertText(raw)
	case ft.IsRichText():
		s, ok := convertText(raw)
		if !ok {
			return nil, false
		}
		san := r.Sanitizer
		if san == nil {
			san = NoopSanitizer{}
		}
		clean := san.Sanitize(s)
		return clean, clean != ""
	case ft.IsDate():
		return convertDate(raw)
	case ft == FieldReference:
		return r.convertReference(raw)
	case ft.IsAttachment():
		return r.convertAttachments(raw)
	}
	// unrecognized field types contribute nothing
	return nil, false
}
