package types

// Config is the read-only input of an upgrade run.
type Config struct {
	ProjectType             string            `mapstructure:"project_type" yaml:"project_type"`
	ProjectName             string            `mapstructure:"project_name" yaml:"project_name"`
	ProjectDependency       ProjectDependency `mapstructure:"project_dependency" yaml:"project_dependency"`
	Upgrade                 UpgradeCommand    `mapstructure:"upgrade" yaml:"upgrade"`
	Registry                RegistryConfig    `mapstructure:"registry" yaml:"registry"`
	LogFile                 string            `mapstructure:"log_file" yaml:"log_file"`
	ReportFile              string            `mapstructure:"report_file" yaml:"report_file"`
	ReconcileAlreadyCurrent bool              `mapstructure:"reconcile_already_current" yaml:"reconcile_already_current"`
}

type ProjectDependency struct {
	SolutionPath      string  `mapstructure:"solution_path" yaml:"solution_path"`
	ManifestExtension string  `mapstructure:"manifest_extension" yaml:"manifest_extension"`
	Levels            []Level `mapstructure:"levels" yaml:"levels"`
}

type Level struct {
	ProjectName     string `mapstructure:"project_name" yaml:"project_name"`
	LevelOrder      int    `mapstructure:"level_order" yaml:"level_order"`
	TargetFramework string `mapstructure:"target_framework" yaml:"target_framework"`
}

// UpgradeCommand describes the external upgrade tool. Command may contain
// the %FilePath% and %TargetFramework% placeholders.
type UpgradeCommand struct {
	Command       string   `mapstructure:"command" yaml:"command"`
	ExeName       string   `mapstructure:"exe_name" yaml:"exe_name"`
	ExeArgs       []string `mapstructure:"exe_args" yaml:"exe_args"`
	TimeoutSec    int      `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	KillOnTimeout bool     `mapstructure:"kill_on_timeout" yaml:"kill_on_timeout"`
}

// RegistryConfig selects the package registry. IndexFile, when set, replaces
// the remote registry with an offline snapshot.
type RegistryConfig struct {
	ServiceIndex string `mapstructure:"service_index" yaml:"service_index"`
	IndexFile    string `mapstructure:"index_file" yaml:"index_file"`
	Workers      int    `mapstructure:"workers" yaml:"workers"`
	User         string `mapstructure:"user" yaml:"user"`
	APIKey       string `mapstructure:"api_key" yaml:"api_key"`
	TimeoutSec   int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	Retries      int    `mapstructure:"retries" yaml:"retries"`
	RetryDelayMs int    `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`
}

// Nodes builds one pending ProjectNode per configured level, in
// configuration order.
func (c Config) Nodes() []ProjectNode {
	nodes := make([]ProjectNode, 0, len(c.ProjectDependency.Levels))
	for _, level := range c.ProjectDependency.Levels {
		nodes = append(nodes, ProjectNode{
			Name:            level.ProjectName,
			LevelOrder:      level.LevelOrder,
			TargetFramework: level.TargetFramework,
			Status:          ProjectStatusPending,
		})
	}
	return nodes
}
