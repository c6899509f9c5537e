package routes

import (
	"errors"
)

// Name of a recognized local route
type RouteName string

const (
	RouteContentCanonical = RouteName("entity.post.canonical")
	RouteActorSelf        = RouteName("activitypub.user.self")
)

// Path patterns, in echo router syntax
const (
	PathPost      = "/post/:post"
	PathActor     = "/user/:user/activitypub"
	PathFollowers = "/user/:user/activitypub/followers"
	PathActivity  = "/activitypub/activity/:activity"
)

// Entity type identifiers which have a canonical URL
const (
	TypePost     = "post"
	TypeUser     = "user"
	TypeActivity = "activitypub_activity"
)

var ErrNoRoute = errors.New("no route for entity type")

// A route which resolves back to an entity
type Route struct {
	Name         RouteName
	Pattern      string
	EntityTypeID string
	Param        string
}

// The fixed set of routes which inbound URLs are matched against
var resolvable = []Route{
	{Name: RouteContentCanonical, Pattern: PathPost, EntityTypeID: TypePost, Param: "post"},
	{Name: RouteActorSelf, Pattern: PathActor, EntityTypeID: TypeUser, Param: "user"},
}

func Resolvable() []Route {
	out := make([]Route, len(resolvable))
	copy(out, resolvable)
	return out
}

// Result of matching a local path
type Match struct {
	Route        RouteName
	EntityTypeID string
	EntityID     string
}
