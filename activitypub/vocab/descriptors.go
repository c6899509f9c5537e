package vocab

import (
	"strings"
)

// Tag descriptor for an explicitly mentioned actor
type Mention struct {
	Type string `json:"type"`
	Href string `json:"href"`
	Name string `json:"name"`
}

// Builds a Mention tag. The name is the actor handle, always with a single leading '@'.
func NewMention(href, handle string) Mention {
	name := handle
	if name != "" && !strings.HasPrefix(name, "@") {
		name = "@" + name
	}
	return Mention{
		Type: "Mention",
		Href: href,
		Name: name,
	}
}

// Attachment descriptor, eg an image attached to a Note
type Attachment struct {
	Type      string `json:"type"`
	MediaType string `json:"mediaType,omitempty"`
	URL       string `json:"url"`
	Name      string `json:"name,omitempty"`
}

// Builds an attachment descriptor; the object type is derived from the media type.
func NewAttachment(url, mediaType, name string) Attachment {
	typ := "Document"
	if strings.HasPrefix(mediaType, "image/") {
		typ = "Image"
	}
	return Attachment{
		Type:      typ,
		MediaType: mediaType,
		URL:       url,
		Name:      name,
	}
}
