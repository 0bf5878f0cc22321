package helpers

import (
	"mime"
	"path/filepath"
	"strings"
)

const defaultContentType = "application/octet-stream"

func GetFileExtension(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != "" {
		return ext[1:]
	}
	return ""
}

// GetContentType guesses the MIME type of a file from its extension.
func GetContentType(fileName string) string {
	ext := GetFileExtension(fileName)
	if ext == "" {
		return defaultContentType
	}
	contentType := mime.TypeByExtension("." + ext)
	if contentType == "" {
		return defaultContentType
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return defaultContentType
	}
	return mediaType
}
