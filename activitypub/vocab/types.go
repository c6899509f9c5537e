package vocab

import (
	"fmt"
)

const (
	// JSON-LD context for ActivityStreams 2.0 documents
	ContextURI = "https://www.w3.org/ns/activitystreams"

	// Special collection addressing everybody. Including it in "to" makes an object public.
	PublicCollection = "https://www.w3.org/ns/activitystreams#Public"

	// Content type for ActivityPub documents, as served and accepted over HTTP
	MediaType = "application/activity+json"
)

// Protocol activity verb, like "Create" or "Like"
type ActivityType string

const (
	ActivityCreate   = ActivityType("Create")
	ActivityLike     = ActivityType("Like")
	ActivityAnnounce = ActivityType("Announce")
)

// Protocol object type, like "Note" or "Article"
type ObjectType string

const (
	ObjectArticle = ObjectType("Article")
	ObjectNote    = ObjectType("Note")
)

// Activity verbs which can be configured for a content type
func Activities() []ActivityType {
	return []ActivityType{ActivityCreate, ActivityLike, ActivityAnnounce}
}

// Object types which can be configured for a content type
func Objects() []ObjectType {
	return []ObjectType{ObjectArticle, ObjectNote}
}

func ParseActivityType(raw string) (ActivityType, error) {
	for _, a := range Activities() {
		if string(a) == raw {
			return a, nil
		}
	}
	return "", fmt.Errorf("unsupported activity type: %q", raw)
}

func ParseObjectType(raw string) (ObjectType, error) {
	for _, o := range Objects() {
		if string(o) == raw {
			return o, nil
		}
	}
	return "", fmt.Errorf("unsupported object type: %q", raw)
}

func (a ActivityType) String() string {
	return string(a)
}

func (o ObjectType) String() string {
	return string(o)
}
