package store

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/bluesky-social/apbridge/activitypub/builder"
	"github.com/bluesky-social/apbridge/activitypub/mapping"

	"gorm.io/gorm"
)

// @handle, or @handle@domain. Must not be preceded by a word character, '@' or '/' (so email addresses and URL paths don't match).
var mentionRegex = regexp.MustCompile(`(?:^|[^\w@/])@([a-zA-Z0-9_][a-zA-Z0-9_.-]*)(?:@([a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}))?`)

type MentionRef struct {
	Handle string
	// Empty for local mentions
	Domain string
}

// Extracts mentions from post text, in order of first appearance, without duplicates. Mentions of the local host are normalized to local mentions.
func ExtractMentions(text, localHost string) []MentionRef {
	var out []MentionRef
	seen := map[MentionRef]bool{}
	for _, m := range mentionRegex.FindAllStringSubmatch(text, -1) {
		ref := MentionRef{
			Handle: strings.TrimRight(strings.ToLower(m[1]), "."),
			Domain: strings.ToLower(m[2]),
		}
		if ref.Domain != "" && strings.EqualFold(ref.Domain, localHost) {
			ref.Domain = ""
		}
		if ref.Handle == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out
}

// Supplies audience inputs for a post activity: visibility, author followers, reply parent author, and mentioned actors which can be resolved.
//
// For entities other than posts, only the acting author is returned.
func (s *Store) Recipients(ctx context.Context, act builder.Activity, ent mapping.Entity) (*builder.Recipients, error) {
	pe, ok := ent.(*PostEntity)
	if !ok || pe == nil {
		return &builder.Recipients{Author: builder.Actor{URI: act.Actor()}}, nil
	}
	post := pe.Post

	author, err := s.GetUser(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	rcpt := &builder.Recipients{
		Public: post.Public,
		Author: s.actor(author),
	}

	n, err := s.FollowerCount(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		rcpt.Followers = s.site.FollowersURL(idString(author.ID))
	}

	if post.ReplyToID != nil && *post.ReplyToID != 0 {
		parent, err := s.GetPost(ctx, *post.ReplyToID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if parent != nil {
			pa, err := s.GetUser(ctx, parent.AuthorID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			if pa != nil {
				a := s.actor(pa)
				rcpt.ReplyParent = &a
			}
		}
	}

	for _, m := range ExtractMentions(post.Body, s.site.Host()) {
		a, err := s.resolveMention(ctx, m)
		if err != nil {
			return nil, err
		}
		if a == nil {
			s.logger.DebugContext(ctx, "unresolved mention", "post", post.ID, "handle", m.Handle, "domain", m.Domain)
			continue
		}
		rcpt.Mentions = append(rcpt.Mentions, *a)
	}
	return rcpt, nil
}

// Returns nil (and no error) for mentions of unknown actors
func (s *Store) resolveMention(ctx context.Context, m MentionRef) (*builder.Actor, error) {
	if m.Domain == "" {
		u, err := s.UserByHandle(ctx, m.Handle)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		} else if err != nil {
			return nil, err
		}
		a := s.actor(u)
		return &a, nil
	}

	var ra RemoteActor
	err := s.db.WithContext(ctx).Where("handle = ? AND domain = ?", m.Handle, m.Domain).First(&ra).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &builder.Actor{URI: ra.URI, Handle: ra.Handle + "@" + ra.Domain}, nil
}
