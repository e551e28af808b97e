package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectNodeAdvance(t *testing.T) {
	tests := []struct {
		name   string
		from   ProjectStatus
		to     ProjectStatus
		want   bool
		status ProjectStatus
	}{
		{name: "pending to converted", from: ProjectStatusPending, to: ProjectStatusConverted, want: true, status: ProjectStatusConverted},
		{name: "pending to failed", from: ProjectStatusPending, to: ProjectStatusFailed, want: true, status: ProjectStatusFailed},
		{name: "converted to upgraded", from: ProjectStatusConverted, to: ProjectStatusUpgraded, want: true, status: ProjectStatusUpgraded},
		{name: "converted back to pending", from: ProjectStatusConverted, to: ProjectStatusPending, want: false, status: ProjectStatusConverted},
		{name: "converted to converted", from: ProjectStatusConverted, to: ProjectStatusConverted, want: false, status: ProjectStatusConverted},
		{name: "upgraded is terminal", from: ProjectStatusUpgraded, to: ProjectStatusFailed, want: false, status: ProjectStatusUpgraded},
		{name: "timed out is terminal", from: ProjectStatusTimedOut, to: ProjectStatusUpgraded, want: false, status: ProjectStatusTimedOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := ProjectNode{Name: "Core", Status: tt.from}
			assert.Equal(t, tt.want, node.Advance(tt.to))
			assert.Equal(t, tt.status, node.Status)
		})
	}
}

func TestConfigNodes(t *testing.T) {
	cfg := Config{ProjectDependency: ProjectDependency{Levels: []Level{
		{ProjectName: "Api", LevelOrder: 2, TargetFramework: "net8.0"},
		{ProjectName: "Core", LevelOrder: 1, TargetFramework: "net8.0"},
	}}}
	nodes := cfg.Nodes()
	assert.Len(t, nodes, 2)
	assert.Equal(t, "Api", nodes[0].Name)
	assert.Equal(t, ProjectStatusPending, nodes[1].Status)
	assert.Equal(t, 1, nodes[1].LevelOrder)
}

func TestPackageRecordChanged(t *testing.T) {
	assert.False(t, PackageRecord{Name: "A", DeclaredVersion: "1.0.0"}.Changed())
	assert.False(t, PackageRecord{Name: "A", DeclaredVersion: "1.0.0", ResolvedVersion: "1.0.0"}.Changed())
	assert.True(t, PackageRecord{Name: "A", DeclaredVersion: "1.0.0", ResolvedVersion: "2.0.0"}.Changed())
}
