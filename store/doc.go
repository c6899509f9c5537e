/*
Package store is the local storage layer behind publishing: users, posts, images and follower relationships, persisted with gorm (sqlite or postgres).

It provides the collaborators the core packages are written against: a [Store] loads entities for URL lookups (see lookup.EntityLoader) and supplies audience inputs for activity builds (see builder.AudienceSource). [PostEntity] and [UserEntity] expose rows through the generic mapping.Entity field accessor.
*/
package store
