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

const defaultRegistryIndexWorkers = 8

// RegistryIndexBuilderAdapter queries Registry for many packages
// concurrently. The first query error cancels the remaining work.
type RegistryIndexBuilderAdapter struct {
	Registry ports.RegistryPort
}

func NewRegistryIndexBuilderAdapter(registry ports.RegistryPort) RegistryIndexBuilderAdapter {
	return RegistryIndexBuilderAdapter{Registry: registry}
}

func (a RegistryIndexBuilderAdapter) Build(ctx context.Context, request ports.RegistryIndexBuildRequest) (types.RegistryIndexFile, error) {
	if a.Registry == nil {
		return types.RegistryIndexFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("registry is required")
	}
	names := make([]string, 0, len(request.Packages))
	for _, name := range request.Packages {
		names = append(names, shared.NormalizePackageID(name))
	}
	names = uniqueStrings(names)
	index := types.RegistryIndexFile{
		ServiceIndex: strings.TrimSpace(request.ServiceIndex),
		Packages:     map[string][]string{},
	}
	if len(names) == 0 {
		return index, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	workerCount := request.Workers
	if workerCount <= 0 {
		workerCount = defaultRegistryIndexWorkers
	}
	if len(names) < workerCount {
		workerCount = len(names)
	}
	type versionResult struct {
		name     string
		versions []string
		err      error
	}
	tasks := make(chan string)
	results := make(chan versionResult, len(names))
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range tasks {
				if ctx.Err() != nil {
					results <- versionResult{name: name, err: ctx.Err()}
					continue
				}
				versions, err := a.Registry.AvailableVersions(ctx, name)
				results <- versionResult{name: name, versions: versions, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go func() {
		defer close(tasks)
		for _, name := range names {
			select {
			case <-ctx.Done():
				return
			case tasks <- name:
			}
		}
	}()

	var firstErr error
	for result := range results {
		if result.err != nil && firstErr == nil {
			firstErr = result.err
			cancel()
		}
		if result.err == nil && len(result.versions) > 0 {
			index.Packages[result.name] = result.versions
		}
	}
	if firstErr != nil {
		return types.RegistryIndexFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to build registry index").
			WithCause(firstErr)
	}
	log.Ctx(ctx).Debug().Int("requested", len(names)).Int("indexed", len(index.Packages)).Msg("registry index built")
	return index, nil
}

var _ ports.RegistryIndexBuilderPort = RegistryIndexBuilderAdapter{}
