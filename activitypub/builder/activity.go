package builder

import (
	"context"

	"github.com/bluesky-social/apbridge/activitypub/mapping"
)

// Activity record being published: who is acting, and the activity's own identity (for its canonical URL).
type Activity interface {
	Ref() mapping.Ref
	Actor() string
}

// Plain-struct implementation of [Activity]
type Record struct {
	ActivityRef mapping.Ref
	ActorURI    string
}

var _ Activity = Record{}

func (r Record) Ref() mapping.Ref {
	return r.ActivityRef
}

func (r Record) Actor() string {
	return r.ActorURI
}

// An actor as addressed in audiences and mentions
type Actor struct {
	URI    string
	Handle string
}

// Inputs to the audience algorithm for a single activity and entity.
type Recipients struct {
	// Addressed to the public collection
	Public bool

	// The author of the content
	Author Actor

	// Followers collection of the author. Empty if the author has no followers.
	Followers string

	// Author of the post being replied to, if this is a reply
	ReplyParent *Actor

	// Actors explicitly mentioned in the content, in order of appearance
	Mentions []Actor
}

// Supplies audience inputs for an activity. Entity may be nil.
type AudienceSource interface {
	Recipients(ctx context.Context, act Activity, ent mapping.Entity) (*Recipients, error)
}

// Fixed recipients, regardless of activity or entity. Useful for tests and one-off builds.
type StaticAudience Recipients

func (s StaticAudience) Recipients(ctx context.Context, act Activity, ent mapping.Entity) (*Recipients, error) {
	r := Recipients(s)
	return &r, nil
}
