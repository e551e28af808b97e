package app

import (
	"context"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"project-upgrader/internal/core"
	"project-upgrader/internal/ports"
	"project-upgrader/internal/types"
)

// RegistryIndex snapshots registry versions for every package referenced
// under the solution path. The result can be used as registry.index_file
// for offline runs.
func (s Service) RegistryIndex(ctx context.Context, req RegistryIndexRequest) (RegistryIndexResult, error) {
	output := strings.TrimSpace(req.Output)
	if output == "" {
		return RegistryIndexResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is required")
	}
	cfg := applyConfigDefaults(req.Config)
	if cfg.ProjectDependency.SolutionPath == "" {
		return RegistryIndexResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project_dependency.solution_path is required")
	}
	manifests, err := s.Locator.FindManifests(cfg.ProjectDependency.SolutionPath, cfg.ProjectDependency.ManifestExtension)
	if err != nil {
		if len(manifests) == 0 {
			return RegistryIndexResult{}, err
		}
		log.Ctx(ctx).Warn().Err(err).Msg("manifest discovery incomplete")
	}

	var names []string
	for _, path := range manifests {
		records, err := s.Packages.ReadPackages(path)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping unreadable manifest")
			continue
		}
		for _, record := range records {
			names = append(names, record.Name)
		}
	}

	// Snapshots always come from the live registry.
	registryCfg := cfg.Registry
	registryCfg.IndexFile = ""
	if strings.TrimSpace(registryCfg.ServiceIndex) == "" {
		registryCfg = applyConfigDefaults(types.Config{Registry: registryCfg}).Registry
	}
	builder := s.NewIndexBuilder(s.NewRegistry(registryCfg))
	index, err := builder.Build(ctx, ports.RegistryIndexBuildRequest{
		ServiceIndex: registryCfg.ServiceIndex,
		Packages:     names,
		Workers:      cfg.Registry.Workers,
	})
	if err != nil {
		return RegistryIndexResult{}, err
	}
	for name, versions := range index.Packages {
		index.Packages[name] = sortVersions(versions)
	}
	index.GeneratedAt = s.now().UTC().Format("2006-01-02T15:04:05Z")
	if err := s.IndexWriter.Write(output, index); err != nil {
		return RegistryIndexResult{}, err
	}
	return RegistryIndexResult{
		OutputPath:    output,
		ManifestCount: len(manifests),
		PackageCount:  countUnique(names),
		IndexedCount:  len(index.Packages),
	}, nil
}

func sortVersions(versions []string) []string {
	out := append([]string(nil), versions...)
	sort.SliceStable(out, func(i, j int) bool {
		return core.CompareVersions(out[i], out[j]) < 0
	})
	return out
}

func countUnique(names []string) int {
	seen := map[string]struct{}{}
	for _, name := range names {
		seen[strings.ToLower(name)] = struct{}{}
	}
	return len(seen)
}
