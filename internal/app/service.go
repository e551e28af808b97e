package app

import (
	"strings"
	"time"

	"project-upgrader/internal/adapters"
	"project-upgrader/internal/ports"
	"project-upgrader/internal/types"
)

type Service struct {
	Config       ports.ConfigLoaderPort
	Locator      ports.ManifestLocatorPort
	Packages     ports.PackageReferencePort
	Worktree     ports.WorktreePort
	ReportWriter ports.ReportWriterPort
	ReportReader ports.ReportReaderPort
	IndexWriter  ports.RegistryIndexWriterPort

	NewRegistry     func(cfg types.RegistryConfig) ports.RegistryPort
	NewExecutor     func(cfg types.UpgradeCommand) ports.UpgradeExecutorPort
	NewActivityLog  func(path string) ports.ActivityLogPort
	NewIndexBuilder func(registry ports.RegistryPort) ports.RegistryIndexBuilderPort
	Clock           func() time.Time
}

func NewService() Service {
	report := adapters.NewReportFileAdapter()
	return Service{
		Config:          adapters.NewConfigFileAdapter(),
		Locator:         adapters.NewManifestLocatorAdapter(),
		Packages:        adapters.NewPackageReferenceAdapter(),
		Worktree:        adapters.NewGitWorktreeAdapter(),
		ReportWriter:    report,
		ReportReader:    report,
		IndexWriter:     adapters.NewRegistryIndexWriterAdapter(),
		NewRegistry:     newRegistry,
		NewExecutor:     newExecutor,
		NewActivityLog:  newActivityLog,
		NewIndexBuilder: newIndexBuilder,
		Clock:           time.Now,
	}
}

// newRegistry prefers an offline index file over the remote registry.
func newRegistry(cfg types.RegistryConfig) ports.RegistryPort {
	if path := strings.TrimSpace(cfg.IndexFile); path != "" {
		return adapters.NewRegistryIndexFileAdapter(path)
	}
	return adapters.NewNuGetRegistryAdapter(cfg)
}

func newExecutor(cfg types.UpgradeCommand) ports.UpgradeExecutorPort {
	return adapters.NewUpgradeExecutorAdapter(cfg)
}

func newActivityLog(path string) ports.ActivityLogPort {
	return adapters.NewActivityLogAdapter(path)
}

func newIndexBuilder(registry ports.RegistryPort) ports.RegistryIndexBuilderPort {
	return adapters.NewRegistryIndexBuilderAdapter(registry)
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
