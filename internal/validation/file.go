package validation

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// UploadConstraints defines which direct uploads may be presigned
type UploadConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
}

var (
	// VideoConstraints covers the formats the feed player handles
	VideoConstraints = UploadConstraints{
		AllowedMimeTypes: map[string]bool{
			"video/mp4":       true,
			"video/webm":      true,
			"video/quicktime": true,
		},
		AllowedExtensions: map[string]bool{
			".mp4":  true,
			".webm": true,
			".mov":  true,
		},
	}

	// ThumbnailConstraints covers poster images
	ThumbnailConstraints = UploadConstraints{
		AllowedMimeTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
		},
		AllowedExtensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".webp": true,
		},
	}
)

// ValidateUpload checks a client-declared filename and content type against one
// or more constraint sets. The upload must match at least one of them.
func ValidateUpload(filename, contentType string, constraints ...UploadConstraints) error {
	if len(constraints) == 0 {
		return fmt.Errorf("no upload constraints provided")
	}
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("filename is required")
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("invalid content type: %q", contentType)
	}

	var lastErr error
	for _, constraint := range constraints {
		err := validateAgainstConstraint(filename, mediaType, constraint)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	return lastErr
}

func validateAgainstConstraint(filename, mediaType string, constraints UploadConstraints) error {
	if !constraints.AllowedMimeTypes[mediaType] {
		return fmt.Errorf("invalid content type: %s", mediaType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("invalid file extension: %q", ext)
	}

	return nil
}
