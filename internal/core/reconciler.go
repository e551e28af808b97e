package core

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"project-upgrader/internal/types"
)

// reconcileAll refreshes package references of every converted or
// upgraded project.
func (o Orchestrator) reconcileAll(ctx context.Context, state *runState) {
	counter := 1
	for i := range state.nodes {
		node := state.nodes[i]
		if !o.reconcilable(node) {
			continue
		}
		if err := ctx.Err(); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("run canceled, skipping remaining package updates")
			o.Activity.LogWarning("Run canceled, remaining package updates skipped")
			return
		}
		summary, ok := o.reconcileProject(ctx, state, node)
		if !ok {
			continue
		}
		log.Ctx(ctx).Info().Str("project", node.Name).Msgf("Package dependencies for project %d Updated", counter)
		counter++
		state.report.ProjectsReconciled++
		state.report.PackagesUpgraded += summary.PackagesUpgraded
		state.report.Projects = append(state.report.Projects, summary)
	}
}

func (o Orchestrator) reconcilable(node types.ProjectNode) bool {
	switch node.Status {
	case types.ProjectStatusConverted, types.ProjectStatusUpgraded:
		return true
	case types.ProjectStatusAlreadyCurrent:
		return o.Options.ReconcileAlreadyCurrent
	default:
		return false
	}
}

func (o Orchestrator) reconcileProject(ctx context.Context, state *runState, node types.ProjectNode) (types.ProjectPackageSummary, bool) {
	records, err := o.Packages.ReadPackages(node.ManifestPath)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("project", node.Name).Msg("failed to read package references")
		o.Activity.LogInformation("Error in reading package info")
		return types.ProjectPackageSummary{}, false
	}
	summary := types.ProjectPackageSummary{
		Project:        node.Name,
		PackagesBefore: len(records),
	}
	resolved := map[string]string{}
	for i := range records {
		record := &records[i]
		latest, err := state.resolver.ResolveLatest(ctx, record.Name)
		if err != nil {
			state.packageErrors.Record(record.Name, packageFailureReason(err, *record))
			continue
		}
		record.ResolvedVersion = latest
		if record.Changed() {
			resolved[record.Name] = latest
			summary.PackagesUpgraded++
		}
	}
	summary.Packages = records

	if len(resolved) > 0 {
		if _, err := o.Packages.WritePackages(node.ManifestPath, resolved); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("project", node.Name).Msg("failed to rewrite package references")
			o.Activity.LogInformation("Error in updating package info")
			summary.WriteError = err.Error()
			summary.PackagesUpgraded = 0
		}
	}
	return summary, true
}

func packageFailureReason(err error, record types.PackageRecord) string {
	if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
		return fmt.Sprintf("The package is not available, current version is %s", record.DeclaredVersion)
	}
	return reasonPackageQuery
}
