package routes

import (
	"errors"
	"testing"

	"github.com/bluesky-social/apbridge/activitypub/mapping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSite(t *testing.T) {
	assert := assert.New(t)

	s, err := NewSite("HTTPS://Social.Example.com:443/")
	assert.NoError(err)
	assert.Equal("https://social.example.com", s.BaseURL())

	s, err = NewSite("https://example.com/community/")
	assert.NoError(err)
	assert.Equal("https://example.com/community", s.BaseURL())

	for _, bad := range []string{"", "example.com", "ftp://example.com", "/relative"} {
		_, err := NewSite(bad)
		assert.Error(err, bad)
	}
}

func TestCanonicalURL(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s, err := NewSite("https://example.com")
	require.NoError(err)

	u, err := s.CanonicalURL(mapping.NewRef(TypePost, "12"))
	assert.NoError(err)
	assert.Equal("https://example.com/post/12", u)

	u, err = s.CanonicalURL(mapping.NewRef(TypeUser, "3"))
	assert.NoError(err)
	assert.Equal("https://example.com/user/3/activitypub", u)

	u, err = s.CanonicalURL(mapping.NewRef(TypeActivity, "99"))
	assert.NoError(err)
	assert.Equal("https://example.com/activitypub/activity/99", u)

	assert.Equal("https://example.com/user/3/activitypub/followers", s.FollowersURL("3"))

	_, err = s.CanonicalURL(mapping.NewRef("comment", "1"))
	assert.True(errors.Is(err, ErrNoRoute))
	_, err = s.CanonicalURL(mapping.Ref{})
	assert.True(errors.Is(err, ErrNoRoute))
}

func TestLocalPath(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s, err := NewSite("https://example.com/community")
	require.NoError(err)

	fixtures := []struct {
		url   string
		local bool
		path  string
	}{
		{url: "https://example.com/community/post/1", local: true, path: "/post/1"},
		{url: "http://EXAMPLE.com/community/post/1/", local: true, path: "/post/1"},
		{url: "https://example.com:443/community//post/1#frag", local: true, path: "/post/1"},
		{url: "https://example.com/community", local: true, path: "/"},
		{url: "https://example.com/community/./user/../post/1", local: true, path: "/post/1"},
		{url: "https://example.com/community/post/%2535", local: true, path: "/post/%2535"},
		{url: "https://example.com/communityx/post/1", local: false},
		{url: "https://example.com/post/1", local: false},
		{url: "https://evil.example.com/community/post/1", local: false},
		{url: "https://example.com:8443/community/post/1", local: false},
		{url: "https://user@example.com/community/post/1", local: false},
		{url: "ftp://example.com/community/post/1", local: false},
		{url: "/community/post/1", local: false},
		{url: "", local: false},
	}
	for _, fix := range fixtures {
		p, ok := s.LocalPath(fix.url)
		assert.Equal(fix.local, ok, fix.url)
		assert.Equal(fix.local, s.IsLocal(fix.url), fix.url)
		if fix.local {
			assert.Equal(fix.path, p, fix.url)
		}
	}
}

func TestMatch(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s, err := NewSite("https://example.com")
	require.NoError(err)

	m, ok := s.Match("/post/42")
	assert.True(ok)
	assert.Equal(Match{Route: RouteContentCanonical, EntityTypeID: TypePost, EntityID: "42"}, m)

	m, ok = s.Match("/user/7/activitypub")
	assert.True(ok)
	assert.Equal(Match{Route: RouteActorSelf, EntityTypeID: TypeUser, EntityID: "7"}, m)

	// percent-encoding is decoded exactly once
	m, ok = s.Match("/post/%2535")
	assert.True(ok)
	assert.Equal("%35", m.EntityID)

	m, ok = s.Match("/post/a%20b")
	assert.True(ok)
	assert.Equal("a b", m.EntityID)

	for _, p := range []string{"/", "/post", "/post/", "/post/1/edit", "/post/1/2", "/user/7/activitypub/inbox", "/post/%zz", "/user/7", "/user/7/activitypub/followers", "/activitypub/activity/1", "/node/1"} {
		_, ok := s.Match(p)
		assert.False(ok, p)
	}

	assert.Len(Resolvable(), 2)
}
