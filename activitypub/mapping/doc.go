/*
Package mapping extracts ActivityPub property values out of local content entities.

A [Config] declares, for one content type (entity type plus bundle), which protocol object and activity types to publish as, and which local field supplies each protocol property. The [Resolver] applies a Config to an [Entity], converting field values according to their declared [FieldType]:

	cfg := mapping.Config{
		TargetEntityTypeID: "post",
		TargetBundle:       "post",
		Object:             vocab.ObjectNote,
		Activity:           vocab.ActivityCreate,
		FieldMapping: []mapping.PropertyMapping{
			{Property: "content", FieldName: "field_post"},
			{Property: "published", FieldName: "created"},
		},
	}
	props := mapping.NewResolver(site).Resolve(ctx, &cfg, post)

Resolution never fails: missing fields, empty values, and unresolvable references simply contribute nothing.

A [Registry] records the available fields of each content type at load time, and is used to validate configuration before it is used.
*/
package mapping
