package cli

import (
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"project-upgrader/internal/types"
)

type configOptions struct {
	SolutionPath            string
	ManifestExtension       string
	Command                 string
	ExeName                 string
	ExeArgs                 []string
	TimeoutSec              int
	KillOnTimeout           bool
	ServiceIndex            string
	IndexFile               string
	RegistryUser            string
	RegistryAPIKey          string
	RegistryTimeoutSec      int
	RegistryRetries         int
	RegistryWorkers         int
	LogFile                 string
	ReportFile              string
	ReconcileAlreadyCurrent bool
}

// addConfigFlags registers the flags that override configuration file
// keys. Levels can only come from the configuration file.
func addConfigFlags(cmd *cobra.Command, opts *configOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.SolutionPath, "solution-path", "", "Root directory searched for project manifests")
	flags.StringVar(&opts.ManifestExtension, "manifest-extension", "", "Manifest file extension (default .csproj)")
	flags.StringVar(&opts.Command, "command", "", "Upgrade command template (%FilePath% and %TargetFramework% are substituted)")
	flags.StringVar(&opts.ExeName, "exe-name", "", "Program that runs the upgrade command (default sh -c, cmd.exe /c on Windows)")
	flags.StringSliceVar(&opts.ExeArgs, "exe-arg", nil, "Arguments passed to --exe-name before the command")
	flags.IntVar(&opts.TimeoutSec, "timeout", 0, "Seconds to wait for each upgrade (default 40)")
	flags.BoolVar(&opts.KillOnTimeout, "kill-on-timeout", false, "Stop upgrade processes that exceed the timeout")
	flags.StringVar(&opts.ServiceIndex, "service-index", "", "NuGet V3 service index URL")
	flags.StringVar(&opts.IndexFile, "registry-index", "", "Offline registry index file used instead of the service index")
	flags.StringVar(&opts.RegistryUser, "registry-user", "", "Registry user for basic auth")
	flags.StringVar(&opts.RegistryAPIKey, "registry-api-key", "", "Registry API key for basic auth")
	flags.IntVar(&opts.RegistryTimeoutSec, "registry-timeout", 0, "Registry HTTP timeout in seconds")
	flags.IntVar(&opts.RegistryRetries, "registry-retries", 0, "Registry HTTP retries")
	flags.IntVar(&opts.RegistryWorkers, "registry-workers", 0, "Concurrent registry queries for registry-index")
	flags.StringVar(&opts.LogFile, "log-file", "", "Activity log file (default Logs.txt)")
	flags.StringVar(&opts.ReportFile, "report-file", "", "Write the structured run report to this YAML file")
	flags.BoolVar(&opts.ReconcileAlreadyCurrent, "reconcile-already-current", false, "Also update packages of projects already on the target framework")

	_ = viper.BindPFlag("project_dependency.solution_path", flags.Lookup("solution-path"))
	_ = viper.BindPFlag("project_dependency.manifest_extension", flags.Lookup("manifest-extension"))
	_ = viper.BindPFlag("upgrade.command", flags.Lookup("command"))
	_ = viper.BindPFlag("upgrade.exe_name", flags.Lookup("exe-name"))
	_ = viper.BindPFlag("upgrade.exe_args", flags.Lookup("exe-arg"))
	_ = viper.BindPFlag("upgrade.timeout_sec", flags.Lookup("timeout"))
	_ = viper.BindPFlag("upgrade.kill_on_timeout", flags.Lookup("kill-on-timeout"))
	_ = viper.BindPFlag("registry.service_index", flags.Lookup("service-index"))
	_ = viper.BindPFlag("registry.index_file", flags.Lookup("registry-index"))
	_ = viper.BindPFlag("registry.user", flags.Lookup("registry-user"))
	_ = viper.BindPFlag("registry.api_key", flags.Lookup("registry-api-key"))
	_ = viper.BindPFlag("registry.timeout_sec", flags.Lookup("registry-timeout"))
	_ = viper.BindPFlag("registry.retries", flags.Lookup("registry-retries"))
	_ = viper.BindPFlag("registry.workers", flags.Lookup("registry-workers"))
	_ = viper.BindPFlag("log_file", flags.Lookup("log-file"))
	_ = viper.BindPFlag("report_file", flags.Lookup("report-file"))
	_ = viper.BindPFlag("reconcile_already_current", flags.Lookup("reconcile-already-current"))
}

// loadConfig merges the configuration file, PROJECT_UPGRADER_* environment
// variables and flags set on cmd, in increasing precedence.
func loadConfig(cmd *cobra.Command, opts configOptions) (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid configuration").
			WithCause(err)
	}
	cfg.ProjectDependency.SolutionPath = resolveString(cmd, opts.SolutionPath, "project_dependency.solution_path", "solution-path")
	cfg.ProjectDependency.ManifestExtension = resolveString(cmd, opts.ManifestExtension, "project_dependency.manifest_extension", "manifest-extension")
	cfg.Upgrade.Command = resolveString(cmd, opts.Command, "upgrade.command", "command")
	cfg.Upgrade.ExeName = resolveString(cmd, opts.ExeName, "upgrade.exe_name", "exe-name")
	cfg.Upgrade.ExeArgs = resolveStrings(cmd, opts.ExeArgs, "upgrade.exe_args", "exe-arg")
	if len(cfg.Upgrade.ExeArgs) == 0 {
		cfg.Upgrade.ExeArgs = nil
	}
	cfg.Upgrade.TimeoutSec = resolveInt(cmd, opts.TimeoutSec, "upgrade.timeout_sec", "timeout")
	cfg.Upgrade.KillOnTimeout = resolveBool(cmd, opts.KillOnTimeout, "upgrade.kill_on_timeout", "kill-on-timeout")
	cfg.Registry.ServiceIndex = resolveString(cmd, opts.ServiceIndex, "registry.service_index", "service-index")
	cfg.Registry.IndexFile = resolveString(cmd, opts.IndexFile, "registry.index_file", "registry-index")
	cfg.Registry.User = resolveString(cmd, opts.RegistryUser, "registry.user", "registry-user")
	cfg.Registry.APIKey = resolveString(cmd, opts.RegistryAPIKey, "registry.api_key", "registry-api-key")
	cfg.Registry.TimeoutSec = resolveInt(cmd, opts.RegistryTimeoutSec, "registry.timeout_sec", "registry-timeout")
	cfg.Registry.Retries = resolveInt(cmd, opts.RegistryRetries, "registry.retries", "registry-retries")
	cfg.Registry.Workers = resolveInt(cmd, opts.RegistryWorkers, "registry.workers", "registry-workers")
	cfg.LogFile = resolveString(cmd, opts.LogFile, "log_file", "log-file")
	cfg.ReportFile = resolveString(cmd, opts.ReportFile, "report_file", "report-file")
	cfg.ReconcileAlreadyCurrent = resolveBool(cmd, opts.ReconcileAlreadyCurrent, "reconcile_already_current", "reconcile-already-current")
	return cfg, nil
}
