package media

import (
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var imageTypesByExtension = map[string]string{
	"avif":  "image/avif",
	"bmp":   "image/bmp",
	"gif":   "image/gif",
	"heic":  "image/heic",
	"heif":  "image/heif",
	"ico":   "image/x-icon",
	"jpeg":  "image/jpeg",
	"jfif":  "image/jpeg",
	"jpg":   "image/jpeg",
	"pjpeg": "image/jpeg",
	"pjp":   "image/jpeg",
	"png":   "image/png",
	"svg":   "image/svg+xml",
	"tif":   "image/tiff",
	"tiff":  "image/tiff",
	"webp":  "image/webp",
	"apng":  "image/apng",
}

func isImageType(value string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(value)), "image/")
}

// typeFromExtension maps the file extension of assetURL's path onto an image
// type. Query strings and fragments are ignored.
func typeFromExtension(assetURL string) string {
	p := assetURL
	if parsed, err := url.Parse(assetURL); err == nil {
		p = parsed.Path
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return ""
	}
	return imageTypesByExtension[strings.ToLower(ext)]
}

// resolveContentType picks the type to serve: the upstream header when it
// names an image, else the extension table, else the sniffed body type.
func resolveContentType(header, assetURL string, body []byte) (string, bool) {
	if isImageType(header) {
		return strings.TrimSpace(header), true
	}
	if byExt := typeFromExtension(assetURL); byExt != "" {
		return byExt, true
	}
	if len(body) > 0 {
		if detected := mimetype.Detect(body); detected != nil && isImageType(detected.String()) {
			return detected.String(), true
		}
	}
	return "", false
}
