package adapters

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"project-upgrader/internal/ports"
	"project-upgrader/internal/shared"
	"project-upgrader/internal/types"
)

// RegistryIndexFileAdapter answers version queries from a YAML snapshot
// instead of a live registry. The file is read once.
type RegistryIndexFileAdapter struct {
	Path string

	mu     sync.Mutex
	cached types.RegistryIndexFile
	loaded bool
}

type RegistryIndexWriterAdapter struct{}

func NewRegistryIndexFileAdapter(path string) *RegistryIndexFileAdapter {
	return &RegistryIndexFileAdapter{Path: path}
}

func NewRegistryIndexWriterAdapter() RegistryIndexWriterAdapter {
	return RegistryIndexWriterAdapter{}
}

func (a *RegistryIndexFileAdapter) AvailableVersions(_ context.Context, name string) ([]string, error) {
	index, err := a.load()
	if err != nil {
		return nil, err
	}
	if versions, ok := index.Packages[name]; ok {
		return versions, nil
	}
	return index.Packages[shared.NormalizePackageID(name)], nil
}

func (a *RegistryIndexFileAdapter) load() (types.RegistryIndexFile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loaded {
		return a.cached, nil
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return types.RegistryIndexFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("registry index file not found").
			WithCause(err)
	}
	var idx types.RegistryIndexFile
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return types.RegistryIndexFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid registry index format").
			WithCause(err)
	}
	normalized := make(map[string][]string, len(idx.Packages))
	for name, versions := range idx.Packages {
		key := shared.NormalizePackageID(name)
		normalized[key] = uniqueStrings(append(normalized[key], versions...))
	}
	idx.Packages = normalized
	a.cached = idx
	a.loaded = true
	return idx, nil
}

// Write stores index under lowercase package ids. Version order is kept.
func (a RegistryIndexWriterAdapter) Write(path string, index types.RegistryIndexFile) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is required")
	}
	packages := make(map[string][]string, len(index.Packages))
	for name, versions := range index.Packages {
		key := shared.NormalizePackageID(name)
		packages[key] = uniqueStrings(append(packages[key], versions...))
	}
	index.Packages = packages
	data, err := yaml.Marshal(index)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal registry index").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create registry index directory").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write registry index").
			WithCause(err)
	}
	return nil
}

func uniqueStrings(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

var _ ports.RegistryPort = (*RegistryIndexFileAdapter)(nil)
var _ ports.RegistryIndexWriterPort = RegistryIndexWriterAdapter{}
