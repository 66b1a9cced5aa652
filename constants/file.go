package constants

import "strings"

// Source formats recognised by the loader.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
	TEXT  = "TEXT"
	DOCX  = "DOCX"
)

// FileTypes holds the formats a document can be dispatched to.
var FileTypes = []string{PDF, IMAGE, TEXT, DOCX}

// AllowedExtensions holds the file extensions accepted for extraction, keyed without the dot.
var AllowedExtensions = map[string]string{
	"pdf":      PDF,
	"txt":      TEXT,
	"md":       TEXT,
	"markdown": TEXT,
	"png":      IMAGE,
	"jpg":      IMAGE,
	"jpeg":     IMAGE,
	"tif":      IMAGE,
	"tiff":     IMAGE,
	"bmp":      IMAGE,
	"gif":      IMAGE,
	"webp":     IMAGE,
	"heic":     IMAGE,
	"heif":     IMAGE,
	"docx":     DOCX,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat returns the format for ext, or "" when the extension is not supported.
func MapExtToFormat(ext string) string {
	return AllowedExtensions[NormalizeExt(ext)]
}

// IsHEICExt reports whether ext needs conversion before OCR.
func IsHEICExt(ext string) bool {
	switch NormalizeExt(ext) {
	case "heic", "heif":
		return true
	}
	return false
}
