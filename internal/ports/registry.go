package ports

import "context"

// RegistryPort lists the versions a package registry knows for a package.
// Pre-release versions are included, unlisted ones excluded. A package the
// registry does not know yields an empty list and no error.
type RegistryPort interface {
	AvailableVersions(ctx context.Context, name string) ([]string, error)
}
