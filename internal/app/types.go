package app

import "project-upgrader/internal/types"

type UpgradeRequest struct {
	Config types.Config
}

type UpgradeResult struct {
	Status     string
	Report     types.RunReport
	LogFile    string
	ReportFile string
	GitHead    string
	GitDirty   bool
	Hints      []string
}

type ValidateRequest struct {
	Config types.Config
}

type ValidateResult struct {
	ProjectName string
	Projects    int
	Hints       []string
}

type InspectRequest struct {
	ReportPath string
}

type InspectResult struct {
	Report types.RunReport
	Lines  []string
}

type RegistryIndexRequest struct {
	Config types.Config
	Output string
}

type RegistryIndexResult struct {
	OutputPath    string
	ManifestCount int
	PackageCount  int
	IndexedCount  int
}
