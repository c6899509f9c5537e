package routes

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bluesky-social/apbridge/activitypub/mapping"

	"github.com/PuerkitoBio/purell"
	"github.com/labstack/echo/v4"
)

// Local site URL scheme, rooted at a base URL (which may include a path prefix).
//
// Safe for concurrent use.
type Site struct {
	base   *url.URL
	prefix string
	router *echo.Echo
	routes map[string]Route
}

var _ mapping.URLBuilder = (*Site)(nil)

const normalizeFlags = purell.FlagsSafe | purell.FlagRemoveDotSegments | purell.FlagRemoveDuplicateSlashes | purell.FlagRemoveFragment | purell.FlagRemoveTrailingSlash

func NewSite(baseURL string) (*Site, error) {
	clean, err := purell.NormalizeURLString(baseURL, normalizeFlags)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u, err := url.Parse(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute http(s): %s", baseURL)
	}
	u.RawQuery = ""
	u.Fragment = ""

	e := echo.New()
	s := &Site{
		base:   u,
		prefix: strings.TrimSuffix(u.EscapedPath(), "/"),
		router: e,
		routes: make(map[string]Route),
	}
	for _, r := range resolvable {
		// handlers are never invoked; the router is only used for matching
		e.GET(r.Pattern, echo.NotFoundHandler)
		s.routes[r.Pattern] = r
	}
	return s, nil
}

// Base URL, without trailing slash
func (s *Site) BaseURL() string {
	return s.base.Scheme + "://" + s.base.Host + s.prefix
}

func (s *Site) Host() string {
	return s.base.Host
}

func (s *Site) PostURL(id string) string {
	return s.BaseURL() + "/post/" + url.PathEscape(id)
}

func (s *Site) ActorURL(userID string) string {
	return s.BaseURL() + "/user/" + url.PathEscape(userID) + "/activitypub"
}

func (s *Site) FollowersURL(userID string) string {
	return s.ActorURL(userID) + "/followers"
}

func (s *Site) ActivityURL(id string) string {
	return s.BaseURL() + "/activitypub/activity/" + url.PathEscape(id)
}

func (s *Site) CanonicalURL(ref mapping.Ref) (string, error) {
	if ref.IsZero() {
		return "", fmt.Errorf("%w: empty ref", ErrNoRoute)
	}
	switch ref.TypeID {
	case TypePost:
		return s.PostURL(ref.ID), nil
	case TypeUser:
		return s.ActorURL(ref.ID), nil
	case TypeActivity:
		return s.ActivityURL(ref.ID), nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoRoute, ref.TypeID)
}

// Normalizes a URL for comparison: lower-case scheme and host, default port removed, dot segments and duplicate and trailing slashes removed, fragment dropped.
func Normalize(raw string) (string, error) {
	return purell.NormalizeURLString(strings.TrimSpace(raw), normalizeFlags)
}

// Whether the URL points at this site: http(s), same host (including port), and under the base path. The scheme itself is not compared, so http and https links to the same host are both local.
func (s *Site) IsLocal(raw string) bool {
	_, ok := s.LocalPath(raw)
	return ok
}

// Returns the site-relative path (always starting with "/") of a local URL. The path keeps its percent-encoding.
func (s *Site) LocalPath(raw string) (string, bool) {
	clean, err := Normalize(raw)
	if err != nil {
		return "", false
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.User != nil || !strings.EqualFold(u.Host, s.base.Host) {
		return "", false
	}
	p := u.EscapedPath()
	if s.prefix != "" {
		if p != s.prefix && !strings.HasPrefix(p, s.prefix+"/") {
			return "", false
		}
		p = strings.TrimPrefix(p, s.prefix)
	}
	if p == "" {
		p = "/"
	}
	return p, true
}

// Matches a site-relative, still percent-encoded path against the resolvable routes. Every route parameter is exactly one path segment; it is unescaped once.
func (s *Site) Match(path string) (Match, bool) {
	c := s.router.NewContext(nil, nil)
	s.router.Router().Find(http.MethodGet, path, c)
	route, ok := s.routes[c.Path()]
	if !ok {
		return Match{}, false
	}
	// the router lets a trailing param swallow extra segments
	raw := c.Param(route.Param)
	if raw == "" || strings.Contains(raw, "/") {
		return Match{}, false
	}
	id, err := url.PathUnescape(raw)
	if err != nil || id == "" {
		return Match{}, false
	}
	return Match{
		Route:        route.Name,
		EntityTypeID: route.EntityTypeID,
		EntityID:     id,
	}, true
}
