package adapters

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-upgrader/internal/ports"
	"project-upgrader/internal/types"
)

type staticRegistry struct {
	mu       sync.Mutex
	versions map[string][]string
	failing  map[string]error
	queried  []string
}

func (r *staticRegistry) AvailableVersions(_ context.Context, name string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queried = append(r.queried, name)
	if err, ok := r.failing[name]; ok {
		return nil, err
	}
	return r.versions[name], nil
}

func TestRegistryIndexFileAdapter_AvailableVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry-index.yaml")
	content := `
service_index: https://api.nuget.org/v3/index.json
packages:
  serilog:
    - "2.12.0"
    - "3.1.1"
  Newtonsoft.Json:
    - "13.0.3"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	adapter := NewRegistryIndexFileAdapter(path)

	t.Run("case insensitive lookup", func(t *testing.T) {
		versions, err := adapter.AvailableVersions(t.Context(), "Serilog")
		require.NoError(t, err)
		assert.Equal(t, []string{"2.12.0", "3.1.1"}, versions)

		versions, err = adapter.AvailableVersions(t.Context(), "NEWTONSOFT.JSON")
		require.NoError(t, err)
		assert.Equal(t, []string{"13.0.3"}, versions)
	})

	t.Run("unknown package", func(t *testing.T) {
		versions, err := adapter.AvailableVersions(t.Context(), "Polly")
		require.NoError(t, err)
		assert.Empty(t, versions)
	})
}

func TestRegistryIndexFileAdapter_Errors(t *testing.T) {
	_, err := NewRegistryIndexFileAdapter(filepath.Join(t.TempDir(), "missing.yaml")).AvailableVersions(t.Context(), "Serilog")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("packages: [unclosed"), 0o644))
	_, err = NewRegistryIndexFileAdapter(path).AvailableVersions(t.Context(), "Serilog")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestRegistryIndexWriterAdapter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "registry-index.yaml")
	err := NewRegistryIndexWriterAdapter().Write(path, types.RegistryIndexFile{
		Packages: map[string][]string{"Serilog": {"2.12.0", "3.1.1", "3.1.1"}},
	})
	require.NoError(t, err)

	versions, err := NewRegistryIndexFileAdapter(path).AvailableVersions(t.Context(), "serilog")
	require.NoError(t, err)
	assert.Equal(t, []string{"2.12.0", "3.1.1"}, versions)

	require.Error(t, NewRegistryIndexWriterAdapter().Write(" ", types.RegistryIndexFile{}))
}

func TestRegistryIndexBuilderAdapter_Build(t *testing.T) {
	registry := &staticRegistry{versions: map[string][]string{
		"serilog": {"2.12.0", "3.1.1"},
		"polly":   {"8.2.0"},
	}}
	index, err := NewRegistryIndexBuilderAdapter(registry).Build(t.Context(), ports.RegistryIndexBuildRequest{
		ServiceIndex: "https://api.nuget.org/v3/index.json",
		Packages:     []string{"Serilog", "Polly", "serilog", "Unknown"},
		Workers:      2,
	})
	require.NoError(t, err)
	want := map[string][]string{
		"serilog": {"2.12.0", "3.1.1"},
		"polly":   {"8.2.0"},
	}
	if diff := cmp.Diff(want, index.Packages); diff != "" {
		t.Fatalf("unexpected index (-want +got):\n%s", diff)
	}
	assert.Len(t, registry.queried, 3)
}

func TestRegistryIndexBuilderAdapter_FailsOnQueryError(t *testing.T) {
	registry := &staticRegistry{failing: map[string]error{"polly": errors.New("connection reset")}}
	_, err := NewRegistryIndexBuilderAdapter(registry).Build(t.Context(), ports.RegistryIndexBuildRequest{Packages: []string{"Polly"}})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}
