package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

// SanitizeInput removes any potentially harmful characters from the input string
func SanitizeInput(input string) string {
	// Remove any character that isn't alphanumeric, space, or common punctuation
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_.,!?()[\]{}]`)
	sanitized := reg.ReplaceAllString(input, "")

	// Trim leading and trailing whitespace
	sanitized = strings.TrimSpace(sanitized)

	return sanitized
}

// SanitizeFilePath sanitizes a file path to prevent directory traversal attacks
func SanitizeFilePath(path string) string {
	// Convert to slash path
	path = filepath.ToSlash(path)

	// Remove any "." or ".." components
	parts := strings.Split(path, "/")
	var sanitizedParts []string
	for _, part := range parts {
		if part != "." && part != ".." {
			sanitizedParts = append(sanitizedParts, part)
		}
	}

	// Join the parts back together
	sanitized := strings.Join(sanitizedParts, "/")

	// Ensure the path doesn't start with a "/"
	sanitized = strings.TrimPrefix(sanitized, "/")

	return sanitized
}

// IsValidAppName checks if the given app name is valid
func IsValidAppName(name string) bool {
	// App name should start with a letter or number,
	// and can contain letters, numbers, hyphens, and underscores
	matched, _ := regexp.MatchString(`^[a-zA-Z0-9][a-zA-Z0-9\-_]*$`, name)
	return matched
}

func FormatAppName(name string) string {
	// Replace spaces and other invalid characters with hyphens
	reg := regexp.MustCompile(`[^a-zA-Z0-9\-_]`)
	formatted := reg.ReplaceAllString(name, "-")

	// Remove leading hyphens or underscores
	formatted = strings.TrimLeft(formatted, "-_")

	// If the name is not empty and starts with a number, prepend "app-"
	if len(formatted) > 0 && strings.IndexAny(formatted[0:1], "0123456789") == 0 {
		formatted = "app-" + formatted
	}

	// If the name is empty after formatting, use a default name
	if formatted == "" {
		formatted = "generated-app"
	}

	return formatted
}

// ToKebabCase converts an entity name like "OrderItem" to "order-item"
func ToKebabCase(name string) string {
	reg := regexp.MustCompile(`([a-z0-9])([A-Z])`)
	kebab := reg.ReplaceAllString(name, "${1}-${2}")
	return strings.ToLower(kebab)
}

// KebabToPascalCase converts "item-list" to "ItemList"
func KebabToPascalCase(kebab string) string {
	parts := strings.Split(kebab, "-")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}

// TruncateString truncates a string to the specified length, adding an ellipsis if truncated
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
