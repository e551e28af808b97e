package ports

import (
	"context"

	"project-upgrader/internal/types"
)

// UpgradeExecutorPort runs the external upgrade tool for one project.
type UpgradeExecutorPort interface {
	Execute(ctx context.Context, node types.ProjectNode) types.UpgradeOutcome
}
