package inventory

import (
	"net/url"
	"strings"
)

const (
	// PlaceholderImage is served when a vehicle has no usable image.
	PlaceholderImage = "/images/body.jpg"
	// ImageProxyPath is the same-origin route that streams inventory assets.
	ImageProxyPath = "/api/carms-image"
)

// ImageResolver turns image references from the inventory API into URLs the
// browser can load. Absolute URLs pass through; relative paths are routed
// through the image proxy when the inventory base URL is known.
type ImageResolver struct {
	baseURL string
}

// NewImageResolver returns a resolver for baseURL. An empty baseURL leaves
// relative paths untouched.
func NewImageResolver(baseURL string) ImageResolver {
	return ImageResolver{baseURL: strings.TrimSpace(baseURL)}
}

// Resolve rewrites ref. An empty ref resolves to "".
func (r ImageResolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	case r.baseURL == "":
		return ref
	case ref == PlaceholderImage, isProxied(ref):
		return ref
	}
	return ProxyURL(ref)
}

// ProxyURL builds the image proxy URL for an upstream asset path.
func ProxyURL(path string) string {
	return ImageProxyPath + "?path=" + encodeURIComponent(path)
}

func isProxied(ref string) bool {
	return strings.HasPrefix(ref, ImageProxyPath+"?")
}

// encodeURIComponent escapes like the browser function of the same name so
// proxy URLs match what the website generates on its own.
func encodeURIComponent(value string) string {
	escaped := url.QueryEscape(value)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	for _, keep := range []string{"!", "'", "(", ")", "*"} {
		escaped = strings.ReplaceAll(escaped, url.QueryEscape(keep), keep)
	}
	return escaped
}
