package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/bluesky-social/apbridge/activitypub/builder"
	"github.com/bluesky-social/apbridge/activitypub/mapping"
	"github.com/bluesky-social/apbridge/activitypub/routes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	site, err := routes.NewSite("https://social.example.com")
	require.NoError(t, err)
	s := New(db, site, nil)
	require.NoError(t, s.Migrate())
	return s
}

// alice (1) with two followers, bob (2), a remote actor, and posts:
// 1: alice, public, mentions bob and carol@remote.example and nobody@remote.example
// 2: bob, reply to 1, with an image
// 3: alice, share of 2
func fixtures(t *testing.T, s *Store) {
	db := s.DB()
	require.NoError(t, db.Create(&User{Handle: "alice", DisplayName: "Alice"}).Error)
	require.NoError(t, db.Create(&User{Handle: "bob", DisplayName: "Bob"}).Error)
	require.NoError(t, db.Create(&Follow{UserID: 1, FollowerURI: "https://remote.example/users/carol"}).Error)
	require.NoError(t, db.Create(&Follow{UserID: 1, FollowerURI: "https://other.example/users/dan"}).Error)
	require.NoError(t, db.Create(&RemoteActor{Handle: "carol", Domain: "remote.example", URI: "https://remote.example/users/carol"}).Error)

	one := uint(1)
	two := uint(2)
	require.NoError(t, db.Create(&Post{
		AuthorID:  1,
		Bundle:    BundlePost,
		Title:     "hello",
		Body:      "<p>hi @bob and @carol@remote.example and @nobody@remote.example, mail me at alice@example.com</p>",
		Public:    true,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}).Error)
	require.NoError(t, db.Create(&Post{
		AuthorID:  2,
		Bundle:    BundlePost,
		Body:      "<p>a reply</p>",
		ReplyToID: &one,
		Images:    []PostImage{{URL: "https://cdn.example.com/cat.png", MediaType: "image/png", Alt: "a cat"}},
	}).Error)
	require.NoError(t, db.Create(&Post{
		AuthorID: 1,
		Bundle:   BundleShare,
		TargetID: &two,
		Public:   true,
	}).Error)
}

func TestLoadEntity(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := testStore(t)
	fixtures(t, s)

	ent, err := s.LoadEntity(ctx, "post", "2")
	assert.NoError(err)
	assert.Equal(mapping.NewRef("post", "2"), ent.Ref())
	assert.Equal(BundlePost, ent.Bundle())
	assert.Equal(mapping.NewRef("post", "1"), ent.FieldValue(FieldReplyTo))
	assert.Equal([]mapping.File{{URL: "https://cdn.example.com/cat.png", MediaType: "image/png", Name: "a cat"}}, ent.FieldValue(FieldImage))
	assert.Nil(ent.FieldValue(FieldTarget))
	assert.Equal(mapping.FieldTextLong, ent.FieldType(FieldBody))
	assert.False(ent.HasField("field_tags"))

	ent, err = s.LoadEntity(ctx, "user", "1")
	assert.NoError(err)
	assert.Equal("alice", ent.FieldValue(FieldHandle))
	assert.Equal("user", ent.Bundle())

	for _, bad := range [][2]string{{"post", "99"}, {"post", "abc"}, {"post", "0"}, {"post", "-1"}, {"comment", "1"}, {"user", "42"}} {
		_, err := s.LoadEntity(ctx, bad[0], bad[1])
		assert.True(errors.Is(err, ErrNotFound), bad)
	}
}

func TestRecipients(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	s := testStore(t)
	fixtures(t, s)

	p, err := s.GetPost(ctx, 1)
	require.NoError(err)
	act := s.ActivityFor(p)
	assert.Equal("https://social.example.com/user/1/activitypub", act.Actor())

	r, err := s.Recipients(ctx, act, &PostEntity{Post: p})
	require.NoError(err)
	assert.True(r.Public)
	assert.Equal(builder.Actor{URI: "https://social.example.com/user/1/activitypub", Handle: "alice@social.example.com"}, r.Author)
	assert.Equal("https://social.example.com/user/1/activitypub/followers", r.Followers)
	assert.Nil(r.ReplyParent)
	assert.Equal([]builder.Actor{
		{URI: "https://social.example.com/user/2/activitypub", Handle: "bob@social.example.com"},
		{URI: "https://remote.example/users/carol", Handle: "carol@remote.example"},
	}, r.Mentions)

	// reply, by an author without followers
	p, err = s.GetPost(ctx, 2)
	require.NoError(err)
	r, err = s.Recipients(ctx, s.ActivityFor(p), &PostEntity{Post: p})
	require.NoError(err)
	assert.False(r.Public)
	assert.Empty(r.Followers)
	require.NotNil(r.ReplyParent)
	assert.Equal("https://social.example.com/user/1/activitypub", r.ReplyParent.URI)

	// non-post entities only get the acting author
	u, err := s.LoadEntity(ctx, "user", "1")
	require.NoError(err)
	r, err = s.Recipients(ctx, builder.Record{ActorURI: "x"}, u)
	require.NoError(err)
	assert.Equal("x", r.Author.URI)
	assert.Empty(r.Mentions)
}

func TestExtractMentions(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		text     string
		expected []MentionRef
	}{
		{text: "no mentions here", expected: nil},
		{text: "@alice hi", expected: []MentionRef{{Handle: "alice"}}},
		{text: "hi @Alice. and @alice again", expected: []MentionRef{{Handle: "alice"}}},
		{text: "<p>@bob@Remote.Example!</p>", expected: []MentionRef{{Handle: "bob", Domain: "remote.example"}}},
		{text: "@carol@social.example.com", expected: []MentionRef{{Handle: "carol"}}},
		{text: "write to alice@example.com or https://x.example/@dan", expected: nil},
	}
	for _, fix := range fixtures {
		assert.Equal(fix.expected, ExtractMentions(fix.text, "social.example.com"), fix.text)
	}
}

func TestRegistryMatchesEntities(t *testing.T) {
	assert := assert.New(t)
	reg := Registry()

	pe := &PostEntity{Post: &Post{ID: 1}}
	fields, ok := reg.Fields("post", BundleShare)
	assert.True(ok)
	for _, f := range fields {
		assert.True(pe.HasField(f.Name), f.Name)
		assert.Equal(f.Type, pe.FieldType(f.Name))
	}
	ue := &UserEntity{User: &User{ID: 1}}
	fields, ok = reg.Fields("user", "user")
	assert.True(ok)
	for _, f := range fields {
		assert.True(ue.HasField(f.Name), f.Name)
	}
}
