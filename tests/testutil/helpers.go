// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// CopyFixtureSolution copies fixtures/solution into a fresh temporary
// directory and returns its path. Upgrades rewrite manifests in place, so
// tests never run against the committed fixtures.
func CopyFixtureSolution(t *testing.T) string {
	t.Helper()
	src := filepath.Join(RepoRoot(t), "fixtures", "solution")
	dst := filepath.Join(t.TempDir(), "solution")
	err := filepath.WalkDir(src, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)
	return dst
}

// ManifestPath returns the manifest of the named fixture project.
func ManifestPath(solution string, project string) string {
	return filepath.Join(solution, "src", project, project+".csproj")
}

// ReadFile returns the content of path as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// SedRetargetCommand is an upgrade command that rewrites the
// TargetFramework element using sed.
const SedRetargetCommand = `sed "s|<TargetFramework>[^<]*</TargetFramework>|<TargetFramework>%TargetFramework%</TargetFramework>|" "%FilePath%" > "%FilePath%.tmp" && mv "%FilePath%.tmp" "%FilePath%"`
