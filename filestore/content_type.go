package filestore

import (
	"path/filepath"
	"strings"
)

// Content types of stored snapshots.
const (
	ContentTypeJSON        = "application/json"
	ContentTypeYAML        = "application/yaml"
	ContentTypeOctetStream = "application/octet-stream"
)

// ContentTypeOf derives the content type from the object's extension.
func ContentTypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ContentTypeJSON
	case ".yaml", ".yml":
		return ContentTypeYAML
	default:
		return ContentTypeOctetStream
	}
}
