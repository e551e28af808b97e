package types

// ProjectNode is one configured project. Name is its identity.
type ProjectNode struct {
	Name            string        `yaml:"name" json:"name"`
	ManifestPath    string        `yaml:"manifest_path,omitempty" json:"manifest_path,omitempty"`
	LevelOrder      int           `yaml:"level_order" json:"level_order"`
	TargetFramework string        `yaml:"target_framework" json:"target_framework"`
	Status          ProjectStatus `yaml:"status" json:"status"`
}

// Advance moves the node to next. It refuses backward moves and any move
// out of a terminal status.
func (n *ProjectNode) Advance(next ProjectStatus) bool {
	if n.Status.Terminal() || next.rank() <= n.Status.rank() {
		return false
	}
	n.Status = next
	return true
}

// PackageRecord is a declared package reference during reconciliation.
type PackageRecord struct {
	Name            string `yaml:"name" json:"name"`
	DeclaredVersion string `yaml:"declared_version" json:"declared_version"`
	ResolvedVersion string `yaml:"resolved_version,omitempty" json:"resolved_version,omitempty"`
}

// Changed reports whether a resolved version differs from the declared one.
func (r PackageRecord) Changed() bool {
	return r.ResolvedVersion != "" && r.ResolvedVersion != r.DeclaredVersion
}

type UpgradeOutcome struct {
	Kind     OutcomeKind
	Reason   string
	ExitCode int
}

func Upgraded(exitCode int) UpgradeOutcome {
	return UpgradeOutcome{Kind: OutcomeUpgraded, ExitCode: exitCode}
}

func TimedOut(reason string) UpgradeOutcome {
	return UpgradeOutcome{Kind: OutcomeTimedOut, Reason: reason}
}

func Failed(reason string) UpgradeOutcome {
	return UpgradeOutcome{Kind: OutcomeFailed, Reason: reason}
}
