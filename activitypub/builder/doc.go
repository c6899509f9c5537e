/*
Package builder assembles ActivityPub activities for local content.

[Builder.Build] takes a mapping configuration, an activity record, and the (optional) entity the activity is about. It constructs the protocol object from the entity via the field mapping, computes the audience, and wraps the result in an activity envelope:

	b := builder.New(builder.Config{
		URLs:     site,
		Resolver: mapping.NewResolver(site),
		Audience: db,
	})
	act := b.Build(ctx, &cfg, builder.Record{ActivityRef: ref, ActorURI: actor}, post)

For "Create" activities the envelope carries the full object. For other verbs ("Like", "Announce") the envelope's object is the mapped target reference of the content, not the content itself.

Building never fails. Missing data results in a sparser, but structurally valid, envelope.
*/
package builder
