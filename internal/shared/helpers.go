// Package shared provides common utility functions used across multiple
// packages in the project-upgrader codebase.
package shared

import (
	"fmt"
	"strings"
)

// NormalizePackageID lowercases a NuGet package id, which is how the
// registry addresses packages in its URLs.
func NormalizePackageID(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, strings.TrimSpace(body))
}

// ExpandPlaceholders replaces every %Key% token in template with the
// matching value. Unknown tokens are left alone.
func ExpandPlaceholders(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "%"+key+"%", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
