package core

import (
	"strings"

	debversion "github.com/knqyf263/go-deb-version"
)

// nugetVersion is a parsed NuGet (SemVer 2) version. The numeric release
// is ordered by go-deb-version; labels are the dot-separated pre-release
// identifiers.
type nugetVersion struct {
	release debversion.Version
	labels  []string
}

// versionCache memoizes parsed versions so that repeated comparisons while
// scanning a registry listing do not parse the same string twice.
type versionCache struct {
	parsed map[string]nugetVersion
	failed map[string]struct{}
}

func newVersionCache() *versionCache {
	return &versionCache{
		parsed: map[string]nugetVersion{},
		failed: map[string]struct{}{},
	}
}

// version parses a NuGet version. The second result is false when the
// value is not a version.
func (c *versionCache) version(value string) (nugetVersion, bool) {
	if parsed, ok := c.parsed[value]; ok {
		return parsed, true
	}
	if _, ok := c.failed[value]; ok {
		return nugetVersion{}, false
	}
	parsed, ok := parseNuGetVersion(value)
	if !ok {
		c.failed[value] = struct{}{}
		return nugetVersion{}, false
	}
	c.parsed[value] = parsed
	return parsed, true
}

// compare returns -1, 0, or 1. Unparsable values sort below any version.
func (c *versionCache) compare(a string, b string) int {
	va, okA := c.version(a)
	vb, okB := c.version(b)
	switch {
	case !okA && !okB:
		return strings.Compare(a, b)
	case !okA:
		return -1
	case !okB:
		return 1
	}
	if cmp := sign(va.release.Compare(vb.release)); cmp != 0 {
		return cmp
	}
	return compareLabels(va.labels, vb.labels)
}

// parseNuGetVersion splits value into its release and pre-release labels.
// Build metadata is dropped and the release is padded to four segments so
// that 1.0 and 1.0.0.0 are equal.
func parseNuGetVersion(value string) (nugetVersion, bool) {
	trimmed := strings.TrimSpace(value)
	if i := strings.IndexByte(trimmed, '+'); i >= 0 {
		trimmed = trimmed[:i]
	}
	release, pre, hasPre := strings.Cut(trimmed, "-")
	segments := strings.Split(release, ".")
	if len(segments) > 4 {
		return nugetVersion{}, false
	}
	for _, segment := range segments {
		if !isNumeric(segment) {
			return nugetVersion{}, false
		}
	}
	for len(segments) < 4 {
		segments = append(segments, "0")
	}
	parsed, err := debversion.NewVersion(strings.Join(segments, "."))
	if err != nil {
		return nugetVersion{}, false
	}
	version := nugetVersion{release: parsed}
	if !hasPre {
		return version, true
	}
	version.labels = strings.Split(pre, ".")
	for _, label := range version.labels {
		if label == "" {
			return nugetVersion{}, false
		}
	}
	return version, true
}

// compareLabels orders pre-release labels the way NuGet does: a release
// sorts above any pre-release, numeric identifiers compare numerically and
// below alphanumeric ones, other identifiers compare ordinally ignoring
// case, and a shorter list of equal identifiers sorts first.
func compareLabels(a []string, b []string) int {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return 1
	case len(b) == 0:
		return -1
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		if cmp := compareLabel(a[i], b[i]); cmp != 0 {
			return cmp
		}
	}
	return sign(len(a) - len(b))
}

func compareLabel(a string, b string) int {
	numA, numB := isNumeric(a), isNumeric(b)
	switch {
	case numA && numB:
		a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			return sign(len(a) - len(b))
		}
		return strings.Compare(a, b)
	case numA:
		return -1
	case numB:
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func sign(value int) int {
	switch {
	case value < 0:
		return -1
	case value > 0:
		return 1
	}
	return 0
}

// CompareVersions orders two NuGet version strings and returns -1, 0, or 1.
func CompareVersions(a string, b string) int {
	return newVersionCache().compare(a, b)
}

// LatestVersion returns the maximum version of available. Values that do
// not parse as versions are ignored. The boolean is false when nothing
// usable remains.
func LatestVersion(available []string) (string, bool) {
	cache := newVersionCache()
	latest := ""
	found := false
	for _, candidate := range available {
		if _, ok := cache.version(candidate); !ok {
			continue
		}
		if !found || cache.compare(candidate, latest) > 0 {
			latest = candidate
			found = true
		}
	}
	return latest, found
}
