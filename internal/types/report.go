package types

// RunReport is the structured result of one upgrade run.
type RunReport struct {
	StartedAt          string                  `yaml:"started_at" json:"started_at"`
	FinishedAt         string                  `yaml:"finished_at" json:"finished_at"`
	ToMigrate          int                     `yaml:"to_migrate" json:"to_migrate"`
	Upgraded           int                     `yaml:"upgraded" json:"upgraded"`
	AlreadyCurrent     int                     `yaml:"already_current" json:"already_current"`
	Failed             int                     `yaml:"failed" json:"failed"`
	UpgradedProjects   []string                `yaml:"upgraded_projects,omitempty" json:"upgraded_projects,omitempty"`
	Projects           []ProjectPackageSummary `yaml:"projects,omitempty" json:"projects,omitempty"`
	ProjectsReconciled int                     `yaml:"projects_reconciled" json:"projects_reconciled"`
	PackagesUpgraded   int                     `yaml:"packages_upgraded" json:"packages_upgraded"`
	ProjectErrors      []Failure               `yaml:"project_errors,omitempty" json:"project_errors,omitempty"`
	PackageErrors      []Failure               `yaml:"package_errors,omitempty" json:"package_errors,omitempty"`
	Nodes              []ProjectNode           `yaml:"nodes,omitempty" json:"nodes,omitempty"`
}

// Balanced reports whether every project was counted exactly once.
func (r RunReport) Balanced() bool {
	return r.Upgraded+r.AlreadyCurrent+r.Failed == r.ToMigrate
}

// ProjectPackageSummary describes the reconciliation of one project.
type ProjectPackageSummary struct {
	Project          string          `yaml:"project" json:"project"`
	PackagesBefore   int             `yaml:"packages_before" json:"packages_before"`
	PackagesUpgraded int             `yaml:"packages_upgraded" json:"packages_upgraded"`
	Packages         []PackageRecord `yaml:"packages,omitempty" json:"packages,omitempty"`
	WriteError       string          `yaml:"write_error,omitempty" json:"write_error,omitempty"`
}
