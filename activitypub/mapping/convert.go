package mapping

import (
	"fmt"
	"mime"
	"net/url"
	"path"
	"reflect"
	"strings"
	"time"

	"github.com/bluesky-social/apbridge/activitypub/vocab"

	"github.com/araddon/dateparse"
)

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case time.Time:
		return val.IsZero()
	case Ref:
		return val.IsZero()
	case *Ref:
		return val == nil || val.IsZero()
	case File:
		return val.URL == ""
	case *File:
		return val == nil || val.URL == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func convertText(raw any) (string, bool) {
	var s string
	switch val := raw.(type) {
	case string:
		s = val
	case []string:
		if len(val) > 0 {
			s = val[0]
		}
	case fmt.Stringer:
		s = val.String()
	default:
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func convertDate(raw any) (string, bool) {
	var t time.Time
	switch val := raw.(type) {
	case time.Time:
		t = val
	case *time.Time:
		if val == nil {
			return "", false
		}
		t = *val
	case int64:
		t = time.Unix(val, 0)
	case int:
		t = time.Unix(int64(val), 0)
	case string:
		parsed, err := dateparse.ParseAny(strings.TrimSpace(val))
		if err != nil {
			return "", false
		}
		t = parsed
	default:
		return "", false
	}
	if t.IsZero() || t.Unix() == 0 {
		return "", false
	}
	return vocab.NewDatetime(t).String(), true
}

func (r *Resolver) convertReference(raw any) (string, bool) {
	switch val := raw.(type) {
	case Ref:
		return r.refURL(val)
	case *Ref:
		return r.refURL(*val)
	case []Ref:
		for _, ref := range val {
			if u, ok := r.refURL(ref); ok {
				return u, true
			}
		}
		return "", false
	case string:
		// already a (possibly remote) object URL
		return absoluteURL(val)
	}
	return "", false
}

func (r *Resolver) refURL(ref Ref) (string, bool) {
	if ref.IsZero() || r.URLs == nil {
		return "", false
	}
	u, err := r.URLs.CanonicalURL(ref)
	if err != nil || u == "" {
		return "", false
	}
	return u, true
}

func (r *Resolver) convertAttachments(raw any) ([]vocab.Attachment, bool) {
	var out []vocab.Attachment
	addFile := func(f File) {
		u, ok := absoluteURL(f.URL)
		if !ok {
			return
		}
		mt := f.MediaType
		if mt == "" {
			mt = guessMediaType(u)
		}
		out = append(out, vocab.NewAttachment(u, mt, f.Name))
	}
	addRef := func(ref Ref) {
		if u, ok := r.refURL(ref); ok {
			out = append(out, vocab.NewAttachment(u, guessMediaType(u), ""))
		}
	}

	switch val := raw.(type) {
	case File:
		addFile(val)
	case *File:
		addFile(*val)
	case []File:
		for _, f := range val {
			addFile(f)
		}
	case Ref:
		addRef(val)
	case []Ref:
		for _, ref := range val {
			addRef(ref)
		}
	case string:
		addFile(File{URL: val})
	case []string:
		for _, s := range val {
			addFile(File{URL: s})
		}
	}
	return out, len(out) > 0
}

func absoluteURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.String(), true
}

// Media type from the URL path extension, without parameters. Empty if unknown.
func guessMediaType(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	ext := path.Ext(u.Path)
	if ext == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(mime.TypeByExtension(strings.ToLower(ext)))
	if err != nil {
		return ""
	}
	return mt
}
