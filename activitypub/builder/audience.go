package builder

import (
	"github.com/bluesky-social/apbridge/activitypub/vocab"
)

// Computed audience of an activity
type Audience struct {
	To      []string
	CC      []string
	Mention []vocab.Mention
}

// ordered set of URIs
type uriList struct {
	seen  map[string]bool
	items []string
}

func newURIList() *uriList {
	return &uriList{seen: make(map[string]bool)}
}

func (l *uriList) add(uri string) bool {
	if uri == "" || l.seen[uri] {
		return false
	}
	l.seen[uri] = true
	l.items = append(l.items, uri)
	return true
}

func (l *uriList) has(uri string) bool {
	return l.seen[uri]
}

func (l *uriList) list() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

// Computes to/cc/mention from audience inputs. Deterministic and order-preserving; no URI appears twice within a list.
//
//   - public collection in "to", if public
//   - author followers collection in "to", if the author has followers
//   - author in "cc"
//   - reply parent actor in "cc", and mentioned
//   - each explicitly mentioned actor is mentioned (first occurrence wins), and added to "cc" unless already addressed
func ComputeAudience(r *Recipients) Audience {
	to := newURIList()
	cc := newURIList()
	mentioned := newURIList()
	var mentions []vocab.Mention

	if r == nil {
		return Audience{To: []string{}, CC: []string{}, Mention: []vocab.Mention{}}
	}

	if r.Public {
		to.add(vocab.PublicCollection)
	}
	to.add(r.Followers)
	if !to.has(r.Author.URI) {
		cc.add(r.Author.URI)
	}

	if r.ReplyParent != nil && r.ReplyParent.URI != "" {
		if !to.has(r.ReplyParent.URI) {
			cc.add(r.ReplyParent.URI)
		}
		if mentioned.add(r.ReplyParent.URI) {
			mentions = append(mentions, vocab.NewMention(r.ReplyParent.URI, r.ReplyParent.Handle))
		}
	}

	for _, m := range r.Mentions {
		if m.URI == "" {
			continue
		}
		if mentioned.add(m.URI) {
			mentions = append(mentions, vocab.NewMention(m.URI, m.Handle))
		}
		if !to.has(m.URI) {
			cc.add(m.URI)
		}
	}

	if mentions == nil {
		mentions = []vocab.Mention{}
	}
	return Audience{
		To:      to.list(),
		CC:      cc.list(),
		Mention: mentions,
	}
}
