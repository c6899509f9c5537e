package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/bluesky-social/apbridge/activitypub/mapping"
	"github.com/bluesky-social/apbridge/activitypub/routes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T) (*Resolver, *MockLoader) {
	site, err := routes.NewSite("https://social.example.com")
	require.NoError(t, err)
	loader := NewMockLoader()
	loader.Insert(mapping.NewMockEntity(mapping.NewRef("post", "1"), "post"))
	loader.Insert(mapping.NewMockEntity(mapping.NewRef("user", "3"), "user"))
	return NewResolver(site, &loader, nil), &loader
}

func TestLookup(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	r, _ := testResolver(t)

	fixtures := []struct {
		url    string
		status Status
		ref    mapping.Ref
	}{
		{url: "https://social.example.com/post/1", status: StatusFound, ref: mapping.NewRef("post", "1")},
		{url: "https://SOCIAL.example.com/post/1/", status: StatusFound, ref: mapping.NewRef("post", "1")},
		{url: "https://social.example.com/user/3/activitypub", status: StatusFound, ref: mapping.NewRef("user", "3")},
		{url: "https://social.example.com/post/2", status: StatusNotFound},
		{url: "https://social.example.com/post/not-a-number", status: StatusNotFound},
		{url: "https://social.example.com/user/1/activitypub/followers", status: StatusInvalid},
		{url: "https://social.example.com/node/1", status: StatusInvalid},
		{url: "https://social.example.com/post/1/edit", status: StatusInvalid},
		{url: "https://social.example.com/post/1/2", status: StatusInvalid},
		{url: "https://social.example.com/user/1/activitypub/inbox", status: StatusInvalid},
		{url: "https://social.example.com/post/%2531", status: StatusNotFound},
		{url: "https://remote.example/post/1", status: StatusInvalid},
		{url: "not a url at all", status: StatusInvalid},
		{url: "", status: StatusInvalid},
	}
	for _, fix := range fixtures {
		res := r.Lookup(ctx, fix.url)
		assert.Equal(fix.status, res.Status, fix.url)
		if fix.status == StatusFound {
			assert.Equal(fix.ref, res.Entity.Ref(), fix.url)
			assert.NotNil(r.Resolve(ctx, fix.url))
		} else {
			assert.Nil(res.Entity)
			assert.Nil(r.Resolve(ctx, fix.url), fix.url)
		}
	}
}

func TestLookupStorageFailure(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	r, loader := testResolver(t)

	loader.Err = errors.New("connection refused")
	res := r.Lookup(ctx, "https://social.example.com/post/1")
	assert.Equal(StatusNotFound, res.Status)
	assert.Equal(routes.RouteContentCanonical, res.Match.Route)
	assert.Nil(r.Resolve(ctx, "https://social.example.com/post/1"))
}

func TestLookupNoLoader(t *testing.T) {
	assert := assert.New(t)
	site, err := routes.NewSite("https://social.example.com")
	assert.NoError(err)

	r := NewResolver(site, nil, nil)
	assert.Equal(StatusNotFound, r.Lookup(context.Background(), "https://social.example.com/post/1").Status)
	assert.Equal("not-found", StatusNotFound.String())
	assert.Equal("invalid", StatusInvalid.String())
	assert.Equal("found", StatusFound.String())
}
