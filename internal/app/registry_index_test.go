package app

import (
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-upgrader/internal/adapters"
	"project-upgrader/internal/types"
)

func TestRegistryIndexApp(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "Core", csproj("net6.0", "Serilog", "2.10.0", "Polly", "8.2.0"))
	writeProject(t, root, "Api", csproj("net6.0", "serilog", "2.10.0", "Unknown", "1.0.0"))
	registry := mapRegistry{
		"serilog": {"4.0.0-dev-02160", "3.1.1", "2.10.0"},
		"polly":   {"8.2.0", "7.2.4"},
	}
	service := newTestService(registry, retargetExecutor{}, fakeWorktree{})
	output := filepath.Join(root, "out", "registry-index.yaml")

	result, err := service.RegistryIndex(t.Context(), RegistryIndexRequest{
		Config: testConfig(root),
		Output: output,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ManifestCount)
	assert.Equal(t, 3, result.PackageCount)
	assert.Equal(t, 2, result.IndexedCount)

	offline := adapters.NewRegistryIndexFileAdapter(output)
	versions, err := offline.AvailableVersions(t.Context(), "Serilog")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"2.10.0", "3.1.1", "4.0.0-dev-02160"}, versions); diff != "" {
		t.Fatalf("unexpected versions (-want +got):\n%s", diff)
	}
}

func TestRegistryIndexAppRequiresOutput(t *testing.T) {
	_, err := NewService().RegistryIndex(t.Context(), RegistryIndexRequest{Config: types.Config{}})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
