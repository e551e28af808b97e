package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"project-upgrader/internal/ports"
	"project-upgrader/internal/types"
)

// StatusProjectsUpgraded is returned by every completed run.
const StatusProjectsUpgraded = "Projects Upgraded"

const (
	reasonManifestNotFound = "Project manifest not found under the solution path"
	reasonUpgradeFailed    = "Couldn't upgrade project. Check for spaces in the project path"
	reasonPackageQuery     = "Unexpected Error"
	reasonCanceled         = "Run canceled before the project was upgraded"
)

type OrchestratorOptions struct {
	SolutionPath            string
	ManifestExtension       string
	ReconcileAlreadyCurrent bool
}

// Orchestrator upgrades projects in dependency order and then refreshes
// their package references. Projects are processed strictly one at a
// time; failures are recorded in the run report and never abort the run.
type Orchestrator struct {
	Locator  ports.ManifestLocatorPort
	Packages ports.PackageReferencePort
	Registry ports.RegistryPort
	Executor ports.UpgradeExecutorPort
	Activity ports.ActivityLogPort
	Options  OrchestratorOptions
	Clock    func() time.Time
}

func NewOrchestrator(locator ports.ManifestLocatorPort, packages ports.PackageReferencePort, registry ports.RegistryPort, executor ports.UpgradeExecutorPort, activity ports.ActivityLogPort, options OrchestratorOptions) Orchestrator {
	return Orchestrator{
		Locator:  locator,
		Packages: packages,
		Registry: registry,
		Executor: executor,
		Activity: activity,
		Options:  options,
		Clock:    time.Now,
	}
}

// runState is everything one run mutates. It never outlives Run.
type runState struct {
	nodes         []types.ProjectNode
	projectErrors types.FailureLog
	packageErrors types.FailureLog
	resolver      *RegistryResolver
	report        types.RunReport
}

// Run performs one full pass over nodes. The caller's slice is not
// modified; the final node states are returned in the report.
func (o Orchestrator) Run(ctx context.Context, nodes []types.ProjectNode) (string, types.RunReport, error) {
	if o.Locator == nil || o.Packages == nil || o.Registry == nil || o.Executor == nil || o.Activity == nil {
		return "", types.RunReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("orchestrator requires locator, package, registry, executor and activity ports")
	}
	state := &runState{
		nodes:    append([]types.ProjectNode(nil), nodes...),
		resolver: NewRegistryResolver(o.Registry),
	}
	state.report.StartedAt = o.now().Format(time.RFC3339)

	bound, err := o.Locator.BindManifests(ctx, o.Options.SolutionPath, o.Options.ManifestExtension, state.nodes)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("solution_path", o.Options.SolutionPath).Msg("manifest discovery incomplete")
		o.Activity.LogWarning(fmt.Sprintf("Manifest discovery incomplete under %s: %v", o.Options.SolutionPath, err))
	}
	log.Ctx(ctx).Debug().Int("bound", bound).Int("configured", len(state.nodes)).Msg("manifests bound")

	sortByLevelOrder(state.nodes)
	state.report.ToMigrate = len(state.nodes)
	log.Ctx(ctx).Info().Msgf("Number of projects to be upgraded %d", len(state.nodes))

	o.upgradeAll(ctx, state)
	o.reconcileAll(ctx, state)

	state.report.ProjectErrors = state.projectErrors.Entries()
	state.report.PackageErrors = state.packageErrors.Entries()
	state.report.Failed = state.projectErrors.Len()
	state.report.Nodes = state.nodes
	state.report.FinishedAt = o.now().Format(time.RFC3339)
	if !state.report.Balanced() {
		log.Ctx(ctx).Error().
			Int("to_migrate", state.report.ToMigrate).
			Int("upgraded", state.report.Upgraded).
			Int("already_current", state.report.AlreadyCurrent).
			Int("failed", state.report.Failed).
			Msg("project accounting does not balance")
	}

	for _, line := range RenderReport(state.report) {
		o.Activity.PrintData(line)
	}
	return StatusProjectsUpgraded, state.report, nil
}

// upgradeAll walks the sorted nodes once. A failed project does not stop
// later ones.
func (o Orchestrator) upgradeAll(ctx context.Context, state *runState) {
	counter := 1
	for i := range state.nodes {
		node := &state.nodes[i]
		assert.NotEmpty(ctx, node.Name, "project name must be set")
		if node.Status == types.ProjectStatusPending {
			o.fail(ctx, state, node, types.ProjectStatusFailed, reasonManifestNotFound)
			continue
		}
		text, err := o.Packages.ManifestText(node.ManifestPath)
		if err != nil {
			o.fail(ctx, state, node, types.ProjectStatusFailed, fmt.Sprintf("Couldn't read project manifest: %v", err))
			continue
		}
		// Raw containment, not a structural parse: a tag appearing in a
		// comment also counts.
		if strings.Contains(text, node.TargetFramework) {
			node.Advance(types.ProjectStatusAlreadyCurrent)
			state.report.AlreadyCurrent++
			log.Ctx(ctx).Debug().Str("project", node.Name).Str("target_framework", node.TargetFramework).Msg("project already on target framework")
			continue
		}

		// Projects run one at a time; once the run is canceled no further
		// tool is started.
		if ctx.Err() != nil {
			o.fail(ctx, state, node, types.ProjectStatusFailed, reasonCanceled)
			continue
		}
		outcome := o.Executor.Execute(ctx, *node)
		switch outcome.Kind {
		case types.OutcomeUpgraded:
			node.Advance(types.ProjectStatusUpgraded)
			state.report.Upgraded++
			state.report.UpgradedProjects = append(state.report.UpgradedProjects, node.Name)
			log.Ctx(ctx).Info().Str("project", node.Name).Msgf("Project %d Upgraded", counter)
			counter++
		case types.OutcomeTimedOut:
			o.fail(ctx, state, node, types.ProjectStatusTimedOut, outcome.Reason)
		default:
			reason := outcome.Reason
			if strings.TrimSpace(reason) == "" {
				reason = reasonUpgradeFailed
			}
			o.fail(ctx, state, node, types.ProjectStatusFailed, reason)
		}
	}
}

func (o Orchestrator) fail(ctx context.Context, state *runState, node *types.ProjectNode, status types.ProjectStatus, reason string) {
	node.Advance(status)
	if !state.projectErrors.Record(node.Name, reason) {
		log.Ctx(ctx).Debug().Str("project", node.Name).Str("reason", reason).Msg("project already has a recorded error")
		return
	}
	log.Ctx(ctx).Warn().Str("project", node.Name).Str("status", string(status)).Msg(reason)
}

func (o Orchestrator) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

// sortByLevelOrder orders nodes by ascending level; equal levels keep
// their configured order.
func sortByLevelOrder(nodes []types.ProjectNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].LevelOrder < nodes[j].LevelOrder
	})
}
