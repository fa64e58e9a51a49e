// Package validation holds request-level constraint checks shared by
// handlers and services.
package validation

import (
	"errors"
	"fmt"
)

// MaxUploadSize is the hard ceiling for verification document uploads.
const MaxUploadSize = 10 << 20 // 10 MiB

var (
	ErrFileMissing        = errors.New("no file provided")
	ErrDocumentTypeNeeded = errors.New("document type is required")
	ErrFileTooLarge       = fmt.Errorf("file size must be less than %d MiB", MaxUploadSize>>20)
	ErrFileTypeNotAllowed = errors.New("only PDF, JPEG, PNG, and WebP files are allowed")
)

// allowedMIMETypes maps accepted content types to a canonical extension
// used when building object-store keys.
var allowedMIMETypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
}

// ValidateUpload checks the upload constraints before anything is
// persisted. The first failed constraint wins.
func ValidateUpload(fileName, contentType string, size int64, documentType string) error {
	if fileName == "" || size == 0 {
		return ErrFileMissing
	}
	if documentType == "" {
		return ErrDocumentTypeNeeded
	}
	if size > MaxUploadSize {
		return ErrFileTooLarge
	}
	if _, ok := allowedMIMETypes[contentType]; !ok {
		return ErrFileTypeNotAllowed
	}
	return nil
}

// ExtensionFor returns the canonical file extension for an accepted
// content type, or an empty string for anything else.
func ExtensionFor(contentType string) string {
	return allowedMIMETypes[contentType]
}
