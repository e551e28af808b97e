package adapters

import (
	"context"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"project-upgrader/internal/ports"
	"project-upgrader/internal/shared"
	"project-upgrader/internal/types"
)

const DefaultServiceIndex = "https://api.nuget.org/v3/index.json"

// Registration resource types in order of preference. The 3.6.0 flavour
// also lists SemVer 2.0.0 packages.
var registrationResourceTypes = []string{
	"RegistrationsBaseUrl/3.6.0",
	"RegistrationsBaseUrl/3.4.0",
	"RegistrationsBaseUrl/3.0.0-rc",
	"RegistrationsBaseUrl/3.0.0-beta",
	"RegistrationsBaseUrl",
}

const flatContainerResourceType = "PackageBaseAddress/3.0.0"

type NuGetRegistryAdapter struct {
	ServiceIndex string

	client registryClient

	mu        sync.Mutex
	resources *nugetResources
}

type nugetResources struct {
	registrationBase  string
	flatContainerBase string
}

type nugetServiceIndex struct {
	Resources []struct {
		ID   string `json:"@id"`
		Type string `json:"@type"`
	} `json:"resources"`
}

type nugetRegistrationIndex struct {
	Items []nugetRegistrationPage `json:"items"`
}

type nugetRegistrationPage struct {
	ID    string                  `json:"@id"`
	Items []nugetRegistrationLeaf `json:"items"`
}

type nugetRegistrationLeaf struct {
	CatalogEntry struct {
		Version string `json:"version"`
		Listed  *bool  `json:"listed"`
	} `json:"catalogEntry"`
}

type nugetFlatContainerIndex struct {
	Versions []string `json:"versions"`
}

func NewNuGetRegistryAdapter(cfg types.RegistryConfig) *NuGetRegistryAdapter {
	serviceIndex := strings.TrimSpace(cfg.ServiceIndex)
	if serviceIndex == "" {
		serviceIndex = DefaultServiceIndex
	}
	return &NuGetRegistryAdapter{
		ServiceIndex: serviceIndex,
		client:       newRegistryClient(cfg),
	}
}

// AvailableVersions lists every listed version of name, pre-releases
// included. Build metadata is stripped and duplicates removed. An
// unknown package yields an empty list.
func (a *NuGetRegistryAdapter) AvailableVersions(ctx context.Context, name string) ([]string, error) {
	id := shared.NormalizePackageID(name)
	if id == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is empty")
	}
	resources, err := a.discover(ctx)
	if err != nil {
		return nil, err
	}
	var versions []string
	if resources.registrationBase != "" {
		versions, err = a.registrationVersions(ctx, resources.registrationBase, id)
	} else {
		versions, err = a.flatContainerVersions(ctx, resources.flatContainerBase, id)
	}
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().Str("package", name).Int("versions", len(versions)).Msg("registry versions fetched")
	return versions, nil
}

func (a *NuGetRegistryAdapter) discover(ctx context.Context) (nugetResources, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.resources != nil {
		return *a.resources, nil
	}
	var index nugetServiceIndex
	found, err := a.client.getJSON(ctx, a.ServiceIndex, &index)
	if err != nil {
		return nugetResources{}, err
	}
	if !found {
		return nugetResources{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("registry service index not found: " + a.ServiceIndex)
	}
	byType := map[string]string{}
	for _, resource := range index.Resources {
		if _, ok := byType[resource.Type]; !ok && strings.TrimSpace(resource.ID) != "" {
			byType[resource.Type] = resource.ID
		}
	}
	resources := nugetResources{flatContainerBase: byType[flatContainerResourceType]}
	for _, resourceType := range registrationResourceTypes {
		if base, ok := byType[resourceType]; ok {
			resources.registrationBase = base
			break
		}
	}
	if resources.registrationBase == "" && resources.flatContainerBase == "" {
		return nugetResources{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("registry service index lists no package metadata resource: " + a.ServiceIndex)
	}
	a.resources = &resources
	return resources, nil
}

func (a *NuGetRegistryAdapter) registrationVersions(ctx context.Context, base string, id string) ([]string, error) {
	var index nugetRegistrationIndex
	found, err := a.client.getJSON(ctx, joinURL(base, id, "index.json"), &index)
	if err != nil || !found {
		return nil, err
	}
	seen := map[string]struct{}{}
	var versions []string
	for _, page := range index.Items {
		leaves := page.Items
		if leaves == nil && page.ID != "" {
			var full nugetRegistrationPage
			pageFound, err := a.client.getJSON(ctx, page.ID, &full)
			if err != nil {
				return nil, err
			}
			if !pageFound {
				continue
			}
			leaves = full.Items
		}
		for _, leaf := range leaves {
			entry := leaf.CatalogEntry
			if entry.Listed != nil && !*entry.Listed {
				continue
			}
			versions = appendVersion(versions, seen, entry.Version)
		}
	}
	return versions, nil
}

// flatContainerVersions is used when the registry exposes no registration
// resource. The flat container does not report listing state.
func (a *NuGetRegistryAdapter) flatContainerVersions(ctx context.Context, base string, id string) ([]string, error) {
	var index nugetFlatContainerIndex
	found, err := a.client.getJSON(ctx, joinURL(base, id, "index.json"), &index)
	if err != nil || !found {
		return nil, err
	}
	seen := map[string]struct{}{}
	var versions []string
	for _, version := range index.Versions {
		versions = appendVersion(versions, seen, version)
	}
	return versions, nil
}

func appendVersion(versions []string, seen map[string]struct{}, version string) []string {
	version = strings.TrimSpace(version)
	if idx := strings.Index(version, "+"); idx >= 0 {
		version = version[:idx]
	}
	if version == "" {
		return versions
	}
	if _, ok := seen[version]; ok {
		return versions
	}
	seen[version] = struct{}{}
	return append(versions, version)
}

func joinURL(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}

var _ ports.RegistryPort = (*NuGetRegistryAdapter)(nil)
