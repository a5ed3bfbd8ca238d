package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ScholarLink/application_service/internal/dto"
)

const MaxDocumentSize = 10 << 20 // 10 MiB

var allowedMimeTypes = map[string]bool{
	"application/pdf":              true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

var allowedExtensions = map[string]bool{
	".pdf": true,
	".zip": true,
}

// ValidateDocument runs the pre-flight checks on one uploaded file. It must
// pass before any network call to blob storage.
func ValidateDocument(name string, f *dto.DocumentFile) error {
	if f == nil || len(f.Bytes) == 0 {
		return fmt.Errorf("%s document is required", name)
	}

	mime := strings.ToLower(strings.TrimSpace(f.MimeType))
	if mime != "" {
		// strip parameters like "; charset=..."
		if i := strings.Index(mime, ";"); i >= 0 {
			mime = strings.TrimSpace(mime[:i])
		}
		if !allowedMimeTypes[mime] {
			return fmt.Errorf("%s: only pdf/zip allowed", name)
		}
	} else {
		ext := strings.ToLower(filepath.Ext(f.Filename))
		if !allowedExtensions[ext] {
			return fmt.Errorf("%s: only pdf/zip allowed", name)
		}
	}

	if int64(len(f.Bytes)) > MaxDocumentSize {
		return fmt.Errorf("%s size is too large (max 10MB)", name)
	}

	return nil
}
