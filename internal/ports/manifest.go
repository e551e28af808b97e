package ports

import (
	"context"

	"project-upgrader/internal/types"
)

// ManifestLocatorPort discovers project manifests under a solution root.
type ManifestLocatorPort interface {
	// FindManifests returns every manifest with the given extension below
	// root, in lexical walk order.
	FindManifests(root string, extension string) ([]string, error)

	// BindManifests sets ManifestPath and the converted status on every
	// node whose name matches a discovered manifest's directory. Nodes are
	// mutated in place. A returned error means discovery was incomplete;
	// bindings made before the failure are kept.
	BindManifests(ctx context.Context, root string, extension string, nodes []types.ProjectNode) (int, error)
}

// PackageReferencePort reads and rewrites package references in a manifest.
type PackageReferencePort interface {
	// ManifestText returns the raw manifest content.
	ManifestText(path string) (string, error)

	// ReadPackages returns the declared package references in document
	// order. References without a name or version are skipped.
	ReadPackages(path string) ([]types.PackageRecord, error)

	// WritePackages overwrites the version of every reference whose name
	// is a key of resolved, leaving every other byte untouched. It reports
	// whether the file changed.
	WritePackages(path string, resolved map[string]string) (bool, error)
}
