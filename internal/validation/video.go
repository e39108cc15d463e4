package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 1000
	MinQuality           = 1
	MaxQuality           = 100
)

// ValidateText checks that a trimmed value is present and at most max characters.
func ValidateText(field, value string, max int) error {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		return fmt.Errorf("%s is required", field)
	}

	if utf8.RuneCountInString(trimmed) > max {
		return fmt.Errorf("%s is too long (max %d characters)", field, max)
	}

	return nil
}

func ValidateTitle(title string) error {
	return ValidateText("title", title, MaxTitleLength)
}

func ValidateDescription(description string) error {
	return ValidateText("description", description, MaxDescriptionLength)
}

// ValidateMediaURL requires an absolute http(s) URL with a host.
func ValidateMediaURL(field, raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must be a valid http(s) URL", field)
	}
	return nil
}

func ValidateQuality(quality int) error {
	if quality < MinQuality || quality > MaxQuality {
		return fmt.Errorf("quality must be between %d and %d", MinQuality, MaxQuality)
	}
	return nil
}
