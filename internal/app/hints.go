package app

import (
	"strings"

	"project-upgrader/internal/types"
)

// configHints returns advisory messages for settings that are valid but
// probably not what the user meant.
func configHints(cfg types.Config) []string {
	var hints []string
	if !strings.Contains(cfg.Upgrade.Command, "%FilePath%") {
		hints = append(hints, "upgrade.command does not reference %FilePath%; every project runs the same command")
	}
	if strings.TrimSpace(cfg.Upgrade.ExeName) == "" && len(cfg.Upgrade.ExeArgs) > 0 {
		hints = append(hints, "upgrade.exe_args is ignored without upgrade.exe_name")
	}
	if strings.TrimSpace(cfg.Registry.IndexFile) != "" && strings.TrimSpace(cfg.Registry.APIKey) != "" {
		hints = append(hints, "registry.api_key is unused when registry.index_file is set")
	}
	frameworks := map[string]struct{}{}
	for _, level := range cfg.ProjectDependency.Levels {
		frameworks[level.TargetFramework] = struct{}{}
	}
	if len(frameworks) > 1 {
		hints = append(hints, "projects target different frameworks; each is compared against its own target_framework")
	}
	return hints
}
