package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"project-upgrader/internal/adapters"
	"project-upgrader/internal/core"
	"project-upgrader/internal/types"
)

// Upgrade runs one full upgrade and reconciliation pass over the
// configured projects. Per-project failures are reported in the result,
// not returned as errors.
func (s Service) Upgrade(ctx context.Context, req UpgradeRequest) (UpgradeResult, error) {
	cfg := applyConfigDefaults(req.Config)
	if err := validateConfig(cfg); err != nil {
		return UpgradeResult{}, err
	}
	activity := s.NewActivityLog(cfg.LogFile)
	result := UpgradeResult{
		LogFile:    cfg.LogFile,
		ReportFile: cfg.ReportFile,
		Hints:      configHints(cfg),
	}
	activity.LogInformation(fmt.Sprintf("Upgrade started for %s (%d projects)", displayName(cfg), len(cfg.ProjectDependency.Levels)))

	if s.Worktree != nil {
		result.GitDirty, result.GitHead = s.checkWorktree(ctx, cfg.ProjectDependency.SolutionPath, activity.LogWarning)
	}

	orchestrator := core.NewOrchestrator(
		s.Locator,
		s.Packages,
		s.NewRegistry(cfg.Registry),
		s.NewExecutor(cfg.Upgrade),
		activity,
		core.OrchestratorOptions{
			SolutionPath:            cfg.ProjectDependency.SolutionPath,
			ManifestExtension:       cfg.ProjectDependency.ManifestExtension,
			ReconcileAlreadyCurrent: cfg.ReconcileAlreadyCurrent,
		},
	)
	orchestrator.Clock = s.now
	status, report, err := orchestrator.Run(ctx, cfg.Nodes())
	if err != nil {
		return UpgradeResult{}, err
	}
	result.Status = status
	result.Report = report
	activity.LogInformation(status)

	if cfg.ReportFile != "" {
		if err := s.ReportWriter.Write(cfg.ReportFile, report); err != nil {
			return result, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("upgrade finished but the report could not be written").
				WithCause(err)
		}
	}
	log.Ctx(ctx).Debug().
		Int("upgraded", report.Upgraded).
		Int("already_current", report.AlreadyCurrent).
		Int("failed", report.Failed).
		Int("packages_upgraded", report.PackagesUpgraded).
		Msg("upgrade run finished")
	return result, nil
}

// checkWorktree warns when manifests are about to be rewritten in a
// worktree with uncommitted changes. Git problems never block a run.
func (s Service) checkWorktree(ctx context.Context, path string, warn func(string)) (bool, string) {
	dirty, isRepo, err := s.Worktree.HasUncommittedChanges(path)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("git status unavailable")
		return false, ""
	}
	if !isRepo {
		return false, ""
	}
	head, err := s.Worktree.HeadCommit(path)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("git HEAD unavailable")
	}
	if dirty {
		msg := fmt.Sprintf("Solution path %s has uncommitted changes; manifests are rewritten in place", path)
		log.Ctx(ctx).Warn().Str("path", path).Msg("solution worktree has uncommitted changes")
		warn(msg)
	}
	return dirty, head
}

func applyConfigDefaults(cfg types.Config) types.Config {
	cfg.ProjectDependency.SolutionPath = strings.TrimSpace(cfg.ProjectDependency.SolutionPath)
	if cfg.ProjectDependency.SolutionPath != "" {
		cfg.ProjectDependency.SolutionPath = filepath.Clean(cfg.ProjectDependency.SolutionPath)
	}
	if strings.TrimSpace(cfg.ProjectDependency.ManifestExtension) == "" {
		cfg.ProjectDependency.ManifestExtension = adapters.DefaultManifestExtension
	}
	if strings.TrimSpace(cfg.LogFile) == "" {
		cfg.LogFile = adapters.DefaultActivityLogFile
	}
	cfg.ReportFile = strings.TrimSpace(cfg.ReportFile)
	cfg.Registry.IndexFile = strings.TrimSpace(cfg.Registry.IndexFile)
	if cfg.Registry.IndexFile == "" && strings.TrimSpace(cfg.Registry.ServiceIndex) == "" {
		cfg.Registry.ServiceIndex = adapters.DefaultServiceIndex
	}
	return cfg
}

func displayName(cfg types.Config) string {
	if name := strings.TrimSpace(cfg.ProjectName); name != "" {
		return name
	}
	return cfg.ProjectDependency.SolutionPath
}
