package store

import (
	"strconv"

	"github.com/bluesky-social/apbridge/activitypub/mapping"
	"github.com/bluesky-social/apbridge/activitypub/routes"
)

// Field names of post entities
const (
	FieldTitle   = "title"
	FieldSummary = "summary"
	FieldBody    = "field_post"
	FieldCreated = "created"
	FieldChanged = "changed"
	FieldImage   = "field_post_image"
	FieldReplyTo = "reply_to"
	FieldTarget  = "field_target"
	FieldAuthor  = "user_id"
)

// Field names of user entities
const (
	FieldHandle      = "name"
	FieldDisplayName = "display_name"
)

// Post bundles: plain posts, and shares of another post
const (
	BundlePost  = "post"
	BundleShare = "share"
)

var postFields = []mapping.FieldDef{
	{Name: FieldTitle, Type: mapping.FieldString, Label: "Title"},
	{Name: FieldSummary, Type: mapping.FieldStringLong, Label: "Summary"},
	{Name: FieldBody, Type: mapping.FieldTextLong, Label: "Post"},
	{Name: FieldCreated, Type: mapping.FieldCreated, Label: "Created"},
	{Name: FieldChanged, Type: mapping.FieldTimestamp, Label: "Changed"},
	{Name: FieldImage, Type: mapping.FieldImage, Label: "Image"},
	{Name: FieldReplyTo, Type: mapping.FieldReference, Label: "Reply to"},
	{Name: FieldTarget, Type: mapping.FieldReference, Label: "Target"},
	{Name: FieldAuthor, Type: mapping.FieldReference, Label: "Author"},
}

var userFields = []mapping.FieldDef{
	{Name: FieldHandle, Type: mapping.FieldString, Label: "Name"},
	{Name: FieldDisplayName, Type: mapping.FieldString, Label: "Display name"},
	{Name: FieldCreated, Type: mapping.FieldCreated, Label: "Member since"},
}

// Schema registry for every content type this store holds
func Registry() *mapping.Registry {
	reg := mapping.NewRegistry()
	reg.Register(routes.TypePost, BundlePost, postFields...)
	reg.Register(routes.TypePost, BundleShare, postFields...)
	reg.Register(routes.TypeUser, routes.TypeUser, userFields...)
	return reg
}

func fieldTypes(defs []mapping.FieldDef) map[string]mapping.FieldType {
	out := make(map[string]mapping.FieldType, len(defs))
	for _, d := range defs {
		out[d.Name] = d.Type
	}
	return out
}

var postFieldTypes = fieldTypes(postFields)
var userFieldTypes = fieldTypes(userFields)

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func optionalRef(typeID string, id *uint) any {
	if id == nil || *id == 0 {
		return nil
	}
	return mapping.NewRef(typeID, idString(*id))
}

// Read-only entity view of a post row
type PostEntity struct {
	Post *Post
}

var _ mapping.Entity = (*PostEntity)(nil)

func (e *PostEntity) Ref() mapping.Ref {
	return mapping.NewRef(routes.TypePost, idString(e.Post.ID))
}

func (e *PostEntity) Bundle() string {
	if e.Post.Bundle == "" {
		return BundlePost
	}
	return e.Post.Bundle
}

func (e *PostEntity) HasField(name string) bool {
	_, ok := postFieldTypes[name]
	return ok
}

func (e *PostEntity) FieldType(name string) mapping.FieldType {
	return postFieldTypes[name]
}

func (e *PostEntity) FieldValue(name string) any {
	p := e.Post
	switch name {
	case FieldTitle:
		return p.Title
	case FieldSummary:
		return p.Summary
	case FieldBody:
		return p.Body
	case FieldCreated:
		return p.CreatedAt
	case FieldChanged:
		return p.UpdatedAt
	case FieldImage:
		files := make([]mapping.File, 0, len(p.Images))
		for _, img := range p.Images {
			files = append(files, mapping.File{URL: img.URL, MediaType: img.MediaType, Name: img.Alt})
		}
		return files
	case FieldReplyTo:
		return optionalRef(routes.TypePost, p.ReplyToID)
	case FieldTarget:
		return optionalRef(routes.TypePost, p.TargetID)
	case FieldAuthor:
		return optionalRef(routes.TypeUser, &p.AuthorID)
	}
	return nil
}

// Read-only entity view of a user row
type UserEntity struct {
	User *User
}

var _ mapping.Entity = (*UserEntity)(nil)

func (e *UserEntity) Ref() mapping.Ref {
	return mapping.NewRef(routes.TypeUser, idString(e.User.ID))
}

func (e *UserEntity) Bundle() string {
	return routes.TypeUser
}

func (e *UserEntity) HasField(name string) bool {
	_, ok := userFieldTypes[name]
	return ok
}

func (e *UserEntity) FieldType(name string) mapping.FieldType {
	return userFieldTypes[name]
}

func (e *UserEntity) FieldValue(name string) any {
	switch name {
	case FieldHandle:
		return e.User.Handle
	case FieldDisplayName:
		return e.User.DisplayName
	case FieldCreated:
		return e.User.CreatedAt
	}
	return nil
}
