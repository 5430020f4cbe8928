package constants

import "strings"

// DocumentKind is the canonical kind of an uploaded bill document.
type DocumentKind string

const (
	KindImage DocumentKind = "image"
	KindPDF   DocumentKind = "pdf"
)

// AllowedContentTypes maps the accepted upload content types to their document kind.
var AllowedContentTypes = map[string]DocumentKind{
	"image/jpeg":      KindImage,
	"image/jpg":       KindImage,
	"image/png":       KindImage,
	"application/pdf": KindPDF,
}

// AllowedExtensions holds the file extensions accepted for bill uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// KindForContentType returns the document kind for a declared content type.
// Parameters such as "; charset=..." are ignored.
func KindForContentType(contentType string) (DocumentKind, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	kind, ok := AllowedContentTypes[ct]
	return kind, ok
}

// ContentTypeForExt maps a file extension to its upload content type.
func ContentTypeForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "application/pdf"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
