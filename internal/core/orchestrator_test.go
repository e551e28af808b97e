package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-upgrader/internal/types"
)

type testLocator struct {
	paths map[string]string
	err   error
}

func (l testLocator) FindManifests(string, string) ([]string, error) {
	var out []string
	for _, path := range l.paths {
		out = append(out, path)
	}
	return out, l.err
}

func (l testLocator) BindManifests(_ context.Context, _ string, _ string, nodes []types.ProjectNode) (int, error) {
	bound := 0
	for i := range nodes {
		if path, ok := l.paths[nodes[i].Name]; ok {
			nodes[i].ManifestPath = path
			nodes[i].Advance(types.ProjectStatusConverted)
			bound++
		}
	}
	return bound, l.err
}

type testPackages struct {
	texts    map[string]string
	packages map[string][]types.PackageRecord
	writeErr error
	writes   map[string]map[string]string
}

func (p *testPackages) ManifestText(path string) (string, error) {
	text, ok := p.texts[path]
	if !ok {
		return "", errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("missing manifest")
	}
	return text, nil
}

func (p *testPackages) ReadPackages(path string) ([]types.PackageRecord, error) {
	return append([]types.PackageRecord(nil), p.packages[path]...), nil
}

func (p *testPackages) WritePackages(path string, resolved map[string]string) (bool, error) {
	if p.writeErr != nil {
		return false, p.writeErr
	}
	if p.writes == nil {
		p.writes = map[string]map[string]string{}
	}
	p.writes[path] = resolved
	records := p.packages[path]
	for i := range records {
		if version, ok := resolved[records[i].Name]; ok {
			records[i].DeclaredVersion = version
		}
	}
	return true, nil
}

type testExecutor struct {
	outcomes map[string]types.UpgradeOutcome
	calls    []string
}

func (e *testExecutor) Execute(_ context.Context, node types.ProjectNode) types.UpgradeOutcome {
	e.calls = append(e.calls, node.Name)
	if outcome, ok := e.outcomes[node.Name]; ok {
		return outcome
	}
	return types.Upgraded(0)
}

type testActivity struct {
	lines []string
	infos []string
}

func (a *testActivity) PrintData(line string)      { a.lines = append(a.lines, line) }
func (a *testActivity) LogInformation(msg string) { a.infos = append(a.infos, msg) }
func (a *testActivity) LogWarning(msg string)     { a.infos = append(a.infos, "WARNING: "+msg) }
func (a *testActivity) LogError(msg string)       { a.infos = append(a.infos, "ERROR: "+msg) }

const legacyManifest = `<Project Sdk="Microsoft.NET.Sdk"><PropertyGroup><TargetFramework>net6.0</TargetFramework></PropertyGroup></Project>`
const currentManifest = `<Project Sdk="Microsoft.NET.Sdk"><PropertyGroup><TargetFramework>net8.0</TargetFramework></PropertyGroup></Project>`

type fixture struct {
	locator  testLocator
	packages *testPackages
	registry *testRegistry
	executor *testExecutor
	activity *testActivity
}

func newFixture() *fixture {
	return &fixture{
		locator:  testLocator{paths: map[string]string{}},
		packages: &testPackages{texts: map[string]string{}, packages: map[string][]types.PackageRecord{}},
		registry: &testRegistry{versions: map[string][]string{}},
		executor: &testExecutor{outcomes: map[string]types.UpgradeOutcome{}},
		activity: &testActivity{},
	}
}

func (f *fixture) project(name string, text string, records ...types.PackageRecord) {
	path := "/solution/" + name + "/" + name + ".csproj"
	f.locator.paths[name] = path
	f.packages.texts[path] = text
	f.packages.packages[path] = records
}

func (f *fixture) orchestrator(options OrchestratorOptions) Orchestrator {
	return NewOrchestrator(f.locator, f.packages, f.registry, f.executor, f.activity, options)
}

func node(name string, level int) types.ProjectNode {
	return types.ProjectNode{Name: name, LevelOrder: level, TargetFramework: "net8.0", Status: types.ProjectStatusPending}
}

func TestRunProcessesByLevelOrder(t *testing.T) {
	f := newFixture()
	for _, name := range []string{"Web", "Core", "Data", "Api"} {
		f.project(name, legacyManifest)
	}
	nodes := []types.ProjectNode{node("Web", 4), node("Api", 3), node("Core", 1), node("Data", 2)}

	status, report, err := f.orchestrator(OrchestratorOptions{}).Run(t.Context(), nodes)
	require.NoError(t, err)
	assert.Equal(t, StatusProjectsUpgraded, status)
	if diff := cmp.Diff([]string{"Core", "Data", "Api", "Web"}, f.executor.calls); diff != "" {
		t.Fatalf("unexpected upgrade order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Core", "Data", "Api", "Web"}, report.UpgradedProjects); diff != "" {
		t.Fatalf("unexpected upgraded projects (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Web", nodes[0].Name, "caller slice must not be reordered")
	assert.Equal(t, types.ProjectStatusPending, nodes[0].Status, "caller slice must not be mutated")
}

func TestRunSkipsProjectsAlreadyOnTarget(t *testing.T) {
	f := newFixture()
	f.project("Core", currentManifest)
	f.project("Api", legacyManifest)

	_, report, err := f.orchestrator(OrchestratorOptions{}).Run(t.Context(), []types.ProjectNode{node("Core", 1), node("Api", 2)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Api"}, f.executor.calls)
	assert.Equal(t, 1, report.AlreadyCurrent)
	assert.Equal(t, 1, report.Upgraded)
	assert.NotContains(t, report.UpgradedProjects, "Core")
}

func TestRunAccountingBalances(t *testing.T) {
	f := newFixture()
	f.project("Core", currentManifest)
	f.project("Data", legacyManifest)
	f.project("Api", legacyManifest)
	f.project("Web", legacyManifest)
	f.executor.outcomes["Api"] = types.TimedOut("Upgrade timed out after 40s")
	f.executor.outcomes["Web"] = types.Failed("exec: \"upgrade-assistant\": executable file not found in $PATH")
	nodes := []types.ProjectNode{node("Core", 1), node("Data", 2), node("Api", 3), node("Web", 4), node("Missing", 5)}

	_, report, err := f.orchestrator(OrchestratorOptions{}).Run(t.Context(), nodes)
	require.NoError(t, err)
	assert.Equal(t, 5, report.ToMigrate)
	assert.Equal(t, 1, report.Upgraded)
	assert.Equal(t, 1, report.AlreadyCurrent)
	assert.Equal(t, 3, report.Failed)
	assert.Len(t, report.ProjectErrors, 3)
	assert.True(t, report.Balanced())

	keys := make([]string, 0, len(report.ProjectErrors))
	for _, failure := range report.ProjectErrors {
		keys = append(keys, failure.Key)
	}
	if diff := cmp.Diff([]string{"Api", "Web", "Missing"}, keys); diff != "" {
		t.Fatalf("unexpected project error keys (-want +got):\n%s", diff)
	}
	assert.Equal(t, reasonManifestNotFound, report.ProjectErrors[2].Reason)
}

func TestRunTimedOutProjectIsNotReconciled(t *testing.T) {
	f := newFixture()
	f.project("Api", legacyManifest, types.PackageRecord{Name: "Serilog", DeclaredVersion: "2.0.0"})
	f.registry.versions["Serilog"] = []string{"3.1.1"}
	f.executor.outcomes["Api"] = types.TimedOut("Upgrade timed out after 40s")

	_, report, err := f.orchestrator(OrchestratorOptions{}).Run(t.Context(), []types.ProjectNode{node("Api", 1)})
	require.NoError(t, err)
	assert.Equal(t, 0, report.ProjectsReconciled)
	assert.Empty(t, f.packages.writes)
	assert.Equal(t, 0, f.registry.calls["Serilog"])
	assert.Equal(t, types.ProjectStatusTimedOut, report.Nodes[0].Status)
}

func TestRunRewritesChangedPackagesOnly(t *testing.T) {
	f := newFixture()
	f.project("Core", legacyManifest,
		types.PackageRecord{Name: "Serilog", DeclaredVersion: "2.0.0"},
		types.PackageRecord{Name: "Polly", DeclaredVersion: "8.2.0"},
	)
	f.registry.versions["Serilog"] = []string{"2.0.0", "3.1.1", "4.0.0-dev-02160"}
	f.registry.versions["Polly"] = []string{"7.2.4", "8.2.0"}

	_, report, err := f.orchestrator(OrchestratorOptions{}).Run(t.Context(), []types.ProjectNode{node("Core", 1)})
	require.NoError(t, err)
	path := f.locator.paths["Core"]
	if diff := cmp.Diff(map[string]string{"Serilog": "4.0.0-dev-02160"}, f.packages.writes[path]); diff != "" {
		t.Fatalf("unexpected rewrite (-want +got):\n%s", diff)
	}
	require.Len(t, report.Projects, 1)
	assert.Equal(t, 2, report.Projects[0].PackagesBefore)
	assert.Equal(t, 1, report.Projects[0].PackagesUpgraded)
	assert.Equal(t, 1, report.PackagesUpgraded)
	assert.Equal(t, 1, report.ProjectsReconciled)
}

func TestRunReconciliationIsIdempotent(t *testing.T) {
	f := newFixture()
	f.project("Core", legacyManifest, types.PackageRecord{Name: "Serilog", DeclaredVersion: "2.0.0"})
	f.registry.versions["Serilog"] = []string{"3.1.1"}
	orchestrator := f.orchestrator(OrchestratorOptions{})

	_, _, err := orchestrator.Run(t.Context(), []types.ProjectNode{node("Core", 1)})
	require.NoError(t, err)
	f.packages.writes = nil

	_, report, err := orchestrator.Run(t.Context(), []types.ProjectNode{node("Core", 1)})
	require.NoError(t, err)
	assert.Empty(t, f.packages.writes, "second pass must not rewrite anything")
	assert.Equal(t, 0, report.PackagesUpgraded)
}

func TestRunRecordsPackageNotAvailable(t *testing.T) {
	f := newFixture()
	f.project("Core", legacyManifest,
		types.PackageRecord{Name: "Foo", DeclaredVersion: "1.2.3"},
		types.PackageRecord{Name: "Bar", DeclaredVersion: "1.0.0"},
	)
	f.registry.failing = map[string]error{"Bar": errors.New("dial tcp: i/o timeout")}

	_, report, err := f.orchestrator(OrchestratorOptions{}).Run(t.Context(), []types.ProjectNode{node("Core", 1)})
	require.NoError(t, err)
	want := []types.Failure{
		{Key: "Foo", Reason: "The package is not available, current version is 1.2.3"},
		{Key: "Bar", Reason: "Unexpected Error"},
	}
	if diff := cmp.Diff(want, report.PackageErrors); diff != "" {
		t.Fatalf("unexpected package errors (-want +got):\n%s", diff)
	}
	assert.Empty(t, f.packages.writes, "unresolved packages must be left unchanged")
}

func TestRunPackageErrorFirstFailureWins(t *testing.T) {
	f := newFixture()
	f.project("Core", legacyManifest, types.PackageRecord{Name: "Foo", DeclaredVersion: "1.0.0"})
	f.project("Api", legacyManifest, types.PackageRecord{Name: "Foo", DeclaredVersion: "2.0.0"})

	_, report, err := f.orchestrator(OrchestratorOptions{}).Run(t.Context(), []types.ProjectNode{node("Core", 1), node("Api", 2)})
	require.NoError(t, err)
	require.Len(t, report.PackageErrors, 1)
	assert.Contains(t, report.PackageErrors[0].Reason, "1.0.0")
}

func TestRunWriteFailureDoesNotStopRun(t *testing.T) {
	f := newFixture()
	f.project("Core", legacyManifest, types.PackageRecord{Name: "Serilog", DeclaredVersion: "2.0.0"})
	f.project("Api", legacyManifest, types.PackageRecord{Name: "Polly", DeclaredVersion: "7.0.0"})
	f.registry.versions["Serilog"] = []string{"3.1.1"}
	f.registry.versions["Polly"] = []string{"8.2.0"}
	f.packages.writeErr = errors.New("permission denied")

	status, report, err := f.orchestrator(OrchestratorOptions{}).Run(t.Context(), []types.ProjectNode{node("Core", 1), node("Api", 2)})
	require.NoError(t, err)
	assert.Equal(t, StatusProjectsUpgraded, status)
	assert.Equal(t, 2, report.ProjectsReconciled)
	assert.Contains(t, f.activity.infos, "Error in updating package info")
	assert.Equal(t, "permission denied", report.Projects[0].WriteError)
	assert.Equal(t, 0, report.Projects[0].PackagesUpgraded)
	assert.Equal(t, 0, report.PackagesUpgraded)
}

func TestRunCanceledStartsNoUpgrade(t *testing.T) {
	f := newFixture()
	f.project("Core", legacyManifest, types.PackageRecord{Name: "Serilog", DeclaredVersion: "2.0.0"})
	f.project("Api", legacyManifest)
	f.project("Web", currentManifest)
	f.registry.versions["Serilog"] = []string{"3.1.1"}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, report, err := f.orchestrator(OrchestratorOptions{}).Run(ctx, []types.ProjectNode{node("Core", 1), node("Api", 2), node("Web", 3)})
	require.NoError(t, err)

	assert.Empty(t, f.executor.calls)
	assert.Empty(t, f.registry.calls)
	assert.True(t, report.Balanced())
	assert.Equal(t, 1, report.AlreadyCurrent)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, reasonCanceled, report.ProjectErrors[0].Reason)
	assert.Empty(t, report.PackageErrors)
}

func TestRunCancelMidSweepStopsLaterProjects(t *testing.T) {
	f := newFixture()
	f.project("Core", legacyManifest)
	f.project("Api", legacyManifest)
	ctx, cancel := context.WithCancel(t.Context())
	executor := &cancelingExecutor{cancel: cancel}

	_, report, err := NewOrchestrator(f.locator, f.packages, f.registry, executor, f.activity, OrchestratorOptions{}).
		Run(ctx, []types.ProjectNode{node("Core", 1), node("Api", 2)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Core"}, executor.calls)
	assert.Equal(t, 1, report.Upgraded)
	assert.Equal(t, 0, report.ProjectsReconciled)
	assert.Contains(t, f.activity.infos, "WARNING: Run canceled, remaining package updates skipped")
}

// cancelingExecutor upgrades its first project and then cancels the run.
type cancelingExecutor struct {
	cancel context.CancelFunc
	calls  []string
}

func (e *cancelingExecutor) Execute(_ context.Context, node types.ProjectNode) types.UpgradeOutcome {
	e.calls = append(e.calls, node.Name)
	e.cancel()
	return types.Upgraded(0)
}

func TestRunReconcileAlreadyCurrentOption(t *testing.T) {
	f := newFixture()
	f.project("Core", currentManifest, types.PackageRecord{Name: "Serilog", DeclaredVersion: "2.0.0"})
	f.registry.versions["Serilog"] = []string{"3.1.1"}

	_, report, err := f.orchestrator(OrchestratorOptions{}).Run(t.Context(), []types.ProjectNode{node("Core", 1)})
	require.NoError(t, err)
	assert.Equal(t, 0, report.ProjectsReconciled)

	_, report, err = f.orchestrator(OrchestratorOptions{ReconcileAlreadyCurrent: true}).Run(t.Context(), []types.ProjectNode{node("Core", 1)})
	require.NoError(t, err)
	assert.Equal(t, 1, report.ProjectsReconciled)
}

func TestRunContinuesWhenDiscoveryDegrades(t *testing.T) {
	f := newFixture()
	f.project("Core", legacyManifest)
	f.locator.err = errbuilder.New().WithCode(errbuilder.CodePermissionDenied).WithMsg("failed to scan solution")

	status, report, err := f.orchestrator(OrchestratorOptions{SolutionPath: "/solution"}).Run(t.Context(), []types.ProjectNode{node("Core", 1), node("Api", 2)})
	require.NoError(t, err)
	assert.Equal(t, StatusProjectsUpgraded, status)
	assert.Equal(t, 1, report.Upgraded)
	assert.Equal(t, 1, report.Failed)
	assert.True(t, strings.HasPrefix(f.activity.infos[0], "WARNING: Manifest discovery incomplete"))
}

func TestRunWritesReportToActivityLog(t *testing.T) {
	f := newFixture()
	f.project("Core", legacyManifest)

	_, _, err := f.orchestrator(OrchestratorOptions{}).Run(t.Context(), []types.ProjectNode{node("Core", 1)})
	require.NoError(t, err)
	text := strings.Join(f.activity.lines, "\n")
	assert.Contains(t, text, Justify("No of Projects migrated", "1"))
	assert.Contains(t, text, "\nProjects Upgraded\nCore")
}

func TestRunRequiresPorts(t *testing.T) {
	_, _, err := Orchestrator{}.Run(t.Context(), nil)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
