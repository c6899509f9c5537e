package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/bluesky-social/apbridge/activitypub/vocab"
	"github.com/bluesky-social/apbridge/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testBase = "https://social.example.com"

func testServer(t *testing.T) *Server {
	require := require.New(t)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(err)
	mappings, err := loadMappings("")
	require.NoError(err)
	app, err := NewApp(db, AppConfig{BaseURL: testBase, Mappings: mappings})
	require.NoError(err)

	require.NoError(db.Create(&store.User{Handle: "alice"}).Error)
	require.NoError(db.Create(&store.User{Handle: "bob"}).Error)
	require.NoError(db.Create(&store.Follow{UserID: 1, FollowerURI: "https://remote.example/users/carol"}).Error)
	two := uint(2)
	require.NoError(db.Create(&store.Post{AuthorID: 1, Bundle: store.BundlePost, Title: "hello", Body: "<p>hi @bob</p><script>x</script>", Public: true}).Error)
	require.NoError(db.Create(&store.Post{AuthorID: 2, Bundle: store.BundlePost, Body: "<p>second</p>", Public: true}).Error)
	require.NoError(db.Create(&store.Post{AuthorID: 1, Bundle: store.BundleShare, TargetID: &two, Public: true}).Error)

	srv, err := NewServer(Config{App: app, CacheSize: 100})
	require.NoError(err)
	return srv
}

func get(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestHandlePost(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	rec, body := get(t, srv, "/post/1")
	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal(vocab.MediaType, rec.Header().Get("Content-Type"))
	assert.Equal(vocab.ContextURI, body["@context"])
	assert.Equal("Note", body["type"])
	assert.Equal(testBase+"/post/1", body["id"])
	assert.Equal(testBase+"/user/1/activitypub", body["attributedTo"])
	assert.Equal("hello", body["name"])
	assert.Equal("<p>hi @bob</p>", body["content"])
	assert.Equal([]any{vocab.PublicCollection}, body["to"])
	assert.Contains(body["cc"], testBase+"/user/1/activitypub/followers")
	assert.NotContains(body, "tag")

	rec, body = get(t, srv, "/post/99")
	assert.Equal(http.StatusNotFound, rec.Code)
	assert.Equal("NotFound", body["error"])

	rec, _ = get(t, srv, "/post/abc")
	assert.Equal(http.StatusNotFound, rec.Code)
}

func TestHandleActivity(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	rec, body := get(t, srv, "/activitypub/activity/1")
	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("Create", body["type"])
	assert.Equal(testBase+"/activitypub/activity/1", body["id"])
	assert.Equal(testBase+"/user/1/activitypub", body["actor"])
	obj, ok := body["object"].(map[string]any)
	assert.True(ok)
	assert.Equal(testBase+"/post/1", obj["id"])
	assert.Equal([]any{[]any{map[string]any{
		"type": "Mention",
		"href": testBase + "/user/2/activitypub",
		"name": "@bob@social.example.com",
	}}}, obj["tag"])
	assert.NotContains(obj, "@context")

	rec, body = get(t, srv, "/activitypub/activity/3")
	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("Announce", body["type"])
	assert.Equal(testBase+"/post/2", body["object"])
}

func TestHandleResolve(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	rec, body := get(t, srv, "/resolve?url="+url.QueryEscape(testBase+"/post/2"))
	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("found", body["status"])
	assert.Equal("entity.post.canonical", body["route"])
	assert.Equal("post", body["entity_type_id"])
	assert.Equal("2", body["entity_id"])

	rec, body = get(t, srv, "/resolve?url="+url.QueryEscape(testBase+"/user/2/activitypub"))
	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("user", body["entity_type_id"])

	rec, body = get(t, srv, "/resolve?url="+url.QueryEscape(testBase+"/post/42"))
	assert.Equal(http.StatusNotFound, rec.Code)
	assert.Equal("not-found", body["status"])

	rec, body = get(t, srv, "/resolve?url="+url.QueryEscape("https://elsewhere.example/post/1"))
	assert.Equal(http.StatusBadRequest, rec.Code)
	assert.Equal("invalid", body["status"])

	rec, _ = get(t, srv, "/resolve")
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	rec, body := get(t, srv, "/_health")
	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("ok", body["status"])
}

func TestDefaultMappingValid(t *testing.T) {
	assert := assert.New(t)

	mappings, err := loadMappings("")
	assert.NoError(err)
	assert.Len(mappings, 2)
	assert.NoError(validateMappings(mappings))

	cfg, ok := mappings.Lookup("post", "share")
	assert.True(ok)
	assert.Equal(vocab.ActivityAnnounce, cfg.Activity)
}
