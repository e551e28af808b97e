package ports

import (
	"context"

	"project-upgrader/internal/types"
)

type RegistryIndexBuildRequest struct {
	ServiceIndex string
	Packages     []string
	Workers      int
}

// RegistryIndexBuilderPort snapshots the versions of the requested
// packages so later runs can resolve offline.
type RegistryIndexBuilderPort interface {
	Build(ctx context.Context, request RegistryIndexBuildRequest) (types.RegistryIndexFile, error)
}

type RegistryIndexWriterPort interface {
	Write(path string, index types.RegistryIndexFile) error
}
