package adapters

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"project-upgrader/internal/ports"
	"project-upgrader/internal/types"
)

const DefaultManifestExtension = ".csproj"

type ManifestLocatorAdapter struct{}

func NewManifestLocatorAdapter() ManifestLocatorAdapter {
	return ManifestLocatorAdapter{}
}

// FindManifests walks root and returns every file ending in extension.
// Unreadable directories are skipped; the first walk error is returned
// together with whatever was found.
func (a ManifestLocatorAdapter) FindManifests(root string, extension string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("solution path is empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("solution path does not exist: " + root).
			WithCause(err)
	}
	if !info.IsDir() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("solution path is not a directory: " + root)
	}
	extension = normalizeManifestExtension(extension)

	var paths []string
	var walkErr error
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if walkErr == nil {
				walkErr = err
			}
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && shouldSkipSolutionDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), extension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err == nil {
		err = walkErr
	}
	if err != nil {
		code := errbuilder.CodeInternal
		if errors.Is(err, fs.ErrPermission) {
			code = errbuilder.CodePermissionDenied
		}
		return paths, errbuilder.New().
			WithCode(code).
			WithMsg("failed to scan solution path").
			WithCause(err)
	}
	return paths, nil
}

// BindManifests names each manifest after its containing directory and
// binds it to the node of the same name. When two manifests share a
// directory name the first one in walk order wins.
func (a ManifestLocatorAdapter) BindManifests(ctx context.Context, root string, extension string, nodes []types.ProjectNode) (int, error) {
	paths, findErr := a.FindManifests(root, extension)
	if findErr != nil {
		log.Ctx(ctx).Warn().Err(findErr).Str("root", root).Msg("manifest discovery incomplete")
	}

	byName := map[string]int{}
	for i := range nodes {
		if _, ok := byName[nodes[i].Name]; !ok {
			byName[nodes[i].Name] = i
		}
	}
	bound := 0
	for _, path := range paths {
		name := filepath.Base(filepath.Dir(path))
		idx, ok := byName[name]
		if !ok {
			log.Ctx(ctx).Debug().Str("path", path).Msg("manifest not listed in configuration")
			continue
		}
		node := &nodes[idx]
		if node.ManifestPath != "" {
			log.Ctx(ctx).Debug().Str("project", name).Str("path", path).Str("bound", node.ManifestPath).Msg("duplicate manifest ignored")
			continue
		}
		node.ManifestPath = path
		node.Advance(types.ProjectStatusConverted)
		bound++
	}
	return bound, findErr
}

func normalizeManifestExtension(extension string) string {
	extension = strings.TrimSpace(extension)
	extension = strings.TrimPrefix(extension, "*")
	if extension == "" {
		return DefaultManifestExtension
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return extension
}

func shouldSkipSolutionDir(name string) bool {
	switch strings.ToLower(name) {
	case "bin", "obj", ".git", ".vs", "node_modules", "packages":
		return true
	default:
		return false
	}
}

var _ ports.ManifestLocatorPort = ManifestLocatorAdapter{}
