package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"project-upgrader/internal/types"
)

func (s Service) Validate(_ context.Context, req ValidateRequest) (ValidateResult, error) {
	cfg := applyConfigDefaults(req.Config)
	if err := validateConfig(cfg); err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{
		ProjectName: displayName(cfg),
		Projects:    len(cfg.ProjectDependency.Levels),
		Hints:       configHints(cfg),
	}, nil
}

func validateConfig(cfg types.Config) error {
	if strings.TrimSpace(cfg.ProjectDependency.SolutionPath) == "" {
		return invalidConfig("project_dependency.solution_path is required")
	}
	if strings.TrimSpace(cfg.Upgrade.Command) == "" {
		return invalidConfig("upgrade.command is required")
	}
	if cfg.Upgrade.TimeoutSec < 0 {
		return invalidConfig("upgrade.timeout_sec must not be negative")
	}
	if cfg.Registry.Retries < 0 || cfg.Registry.TimeoutSec < 0 || cfg.Registry.RetryDelayMs < 0 {
		return invalidConfig("registry timeouts and retries must not be negative")
	}
	levels := cfg.ProjectDependency.Levels
	if len(levels) == 0 {
		return invalidConfig("project_dependency.levels must list at least one project")
	}
	seen := map[string]int{}
	for i, level := range levels {
		name := strings.TrimSpace(level.ProjectName)
		if name == "" {
			return invalidConfig(fmt.Sprintf("project_dependency.levels[%d].project_name is required", i))
		}
		if name != level.ProjectName {
			return invalidConfig(fmt.Sprintf("project_dependency.levels[%d].project_name has surrounding whitespace", i))
		}
		if strings.TrimSpace(level.TargetFramework) == "" {
			return invalidConfig(fmt.Sprintf("project_dependency.levels[%d].target_framework is required", i))
		}
		if prev, ok := seen[name]; ok {
			return invalidConfig(fmt.Sprintf("project %q is listed twice (levels[%d] and levels[%d])", name, prev, i))
		}
		seen[name] = i
	}
	return nil
}

func invalidConfig(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}
