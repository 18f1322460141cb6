package normalize

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-content-sync/internal/content"
)

// unwrapMedia peels at most one level of "data" indirection. A data array
// resolves to its first element.
func unwrapMedia(value any) Raw {
	obj, ok := value.(map[string]any)
	if !ok {
		if list, isList := value.([]any); isList && len(list) > 0 {
			obj, _ = list[0].(map[string]any)
		}
		return obj
	}
	data, present := obj["data"]
	if !present {
		return obj
	}
	switch inner := data.(type) {
	case map[string]any:
		return inner
	case []any:
		if len(inner) == 0 {
			return nil
		}
		first, _ := inner[0].(map[string]any)
		return first
	default:
		return nil
	}
}

// Image resolves a media field into an absolute image reference. It returns
// nil when the field is missing or carries no url.
func (n *Normalizer) Image(raw Raw, aliases ...string) *content.Image {
	value, ok := Probe(raw, aliases...)
	if !ok {
		return nil
	}
	media := unwrapMedia(value)
	if media == nil {
		return nil
	}
	ref := strings.TrimSpace(String(media, "url"))
	if ref == "" {
		return nil
	}
	return &content.Image{
		URL:     n.MediaURL(ref),
		AltText: String(media, "alternativeText", "alt"),
		Width:   Int(media, "width"),
		Height:  Int(media, "height"),
	}
}

// MediaURL joins relative media paths to the API origin. Absolute and
// protocol-relative URLs are returned unchanged.
func (n *Normalizer) MediaURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "//") {
		return ref
	}
	if parsed, err := url.Parse(ref); err == nil && parsed.IsAbs() {
		return ref
	}
	if n == nil || n.origin == "" {
		return ref
	}
	return n.origin + "/" + strings.TrimLeft(ref, "/")
}
