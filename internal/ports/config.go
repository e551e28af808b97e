package ports

import "project-upgrader/internal/types"

type ConfigLoaderPort interface {
	Load(path string) (types.Config, error)
}
