package core

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"project-upgrader/internal/ports"
)

// RegistryResolver picks the newest version a registry lists for a
// package. It does not filter by target-framework compatibility: registry
// metadata only reports the lowest framework each version supports, so a
// newer framework is compatible with every listed version.
type RegistryResolver struct {
	Registry ports.RegistryPort
	cache    map[string]resolution
}

type resolution struct {
	version string
	err     error
}

func NewRegistryResolver(registry ports.RegistryPort) *RegistryResolver {
	return &RegistryResolver{
		Registry: registry,
		cache:    map[string]resolution{},
	}
}

// ResolveLatest returns the newest listed version of name. A registry
// that knows no versions yields a NotFound error; a failed query yields
// an Internal error. Results are memoized for the resolver's lifetime.
func (r *RegistryResolver) ResolveLatest(ctx context.Context, name string) (string, error) {
	if cached, ok := r.cache[name]; ok {
		return cached.version, cached.err
	}
	version, err := r.resolve(ctx, name)
	r.cache[name] = resolution{version: version, err: err}
	return version, err
}

func (r *RegistryResolver) resolve(ctx context.Context, name string) (string, error) {
	if r.Registry == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires a registry port")
	}
	available, err := r.Registry.AvailableVersions(ctx, name)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("package", name).Msg("registry query failed")
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("package query failed for %s", name)).
			WithCause(err)
	}
	latest, ok := LatestVersion(available)
	if !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no available versions for %s", name))
	}
	log.Ctx(ctx).Debug().Str("package", name).Str("version", latest).Int("candidates", len(available)).Msg("latest version resolved")
	return latest, nil
}
