package locale

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// Direction is the text direction bound to a locale.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

var (
	ErrUnsupportedLocale = errors.New("locale: unsupported locale")
	ErrSchemeInvalid     = errors.New("locale: primary and alternate locales must be distinct")
	ErrPrefixInvalid     = errors.New("locale: alternate prefix must start with '/'")
)

var rtlBases = map[string]struct{}{
	"ar": {},
	"he": {},
	"fa": {},
	"ur": {},
}

// Scheme describes the two supported locales and how the alternate one is
// marked in URL paths. The primary locale never carries a prefix.
type Scheme struct {
	Primary   string
	Alternate string
	Prefix    string
}

// DefaultScheme is the en/ar pairing with "/ar" marking Arabic paths.
var DefaultScheme = Scheme{Primary: "en", Alternate: "ar", Prefix: "/ar"}

// NewScheme canonicalises the locale codes and validates the prefix. An empty
// prefix defaults to "/<alternate>".
func NewScheme(primary, alternate, prefix string) (Scheme, error) {
	p, err := canonical(primary)
	if err != nil {
		return Scheme{}, err
	}
	a, err := canonical(alternate)
	if err != nil {
		return Scheme{}, err
	}
	if p == a {
		return Scheme{}, ErrSchemeInvalid
	}
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = "/" + a
	}
	if !strings.HasPrefix(prefix, "/") {
		return Scheme{}, ErrPrefixInvalid
	}
	return Scheme{Primary: p, Alternate: a, Prefix: prefix}, nil
}

func canonical(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrUnsupportedLocale
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", errors.Join(ErrUnsupportedLocale, err)
	}
	return strings.ToLower(tag.String()), nil
}

// Normalize maps an incoming code ("AR", "ar-SA", "en_US") onto one of the
// scheme locales. The second return value is false for anything else.
func (s Scheme) Normalize(code string) (string, bool) {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return "", false
	}
	if strings.EqualFold(code, s.Primary) {
		return s.Primary, true
	}
	if strings.EqualFold(code, s.Alternate) {
		return s.Alternate, true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case baseOf(s.Primary):
		return s.Primary, true
	case baseOf(s.Alternate):
		return s.Alternate, true
	}
	return "", false
}

func baseOf(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	base, _ := tag.Base()
	return base.String()
}

// Supports reports whether code normalises to one of the scheme locales.
func (s Scheme) Supports(code string) bool {
	_, ok := s.Normalize(code)
	return ok
}

// DirectionOf returns RTL for right-to-left scripts and LTR otherwise.
func (s Scheme) DirectionOf(code string) Direction {
	return DirectionOf(code)
}

// DirectionOf returns the text direction for a locale code.
func DirectionOf(code string) Direction {
	if _, ok := rtlBases[baseOf(code)]; ok {
		return RTL
	}
	return LTR
}

// FromPath derives the locale encoded in a path. The boolean reports whether
// the path carried an explicit locale marker.
func (s Scheme) FromPath(path string) (string, bool) {
	p, _ := splitPath(path)
	if hasSegmentPrefix(p, s.Prefix) {
		return s.Alternate, true
	}
	if hasSegmentPrefix(p, "/"+s.Primary) {
		return s.Primary, true
	}
	return s.Primary, false
}

// StripPrefix removes any locale marker from the path, keeping query and
// fragment intact. The result always starts with "/".
func (s Scheme) StripPrefix(path string) string {
	p, suffix := splitPath(path)
	for _, prefix := range []string{s.Prefix, "/" + s.Primary} {
		if hasSegmentPrefix(p, prefix) {
			p = p[len(prefix):]
			break
		}
	}
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	return p + suffix
}

// WithPrefix rewrites the path for the given locale. The primary locale has
// no prefix; the alternate root is the bare prefix.
func (s Scheme) WithPrefix(path, code string) string {
	stripped := s.StripPrefix(path)
	loc, ok := s.Normalize(code)
	if !ok || loc == s.Primary {
		return stripped
	}
	p, suffix := splitPath(stripped)
	if p == "/" {
		return s.Prefix + suffix
	}
	return s.Prefix + p + suffix
}

func splitPath(path string) (string, string) {
	path = strings.TrimSpace(path)
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		return path[:idx], path[idx:]
	}
	return path, ""
}

func hasSegmentPrefix(path, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return false
	}
	if len(path) < len(prefix) || !strings.EqualFold(path[:len(prefix)], prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
