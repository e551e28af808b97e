package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"project-upgrader/internal/types"
)

var (
	accent  = lipgloss.Color("#D97706")
	fg      = lipgloss.Color("#E8E6E3")
	dim     = lipgloss.Color("#6B7280")
	faint   = lipgloss.Color("#3F3F46")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	separatorLine = lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("─", 64))
)

// renderSummary formats a run report for the terminal. The plain text
// report lives in the activity log.
func renderSummary(status string, report types.RunReport) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("project-upgrader"))
	if status != "" {
		b.WriteString("  " + dimStyle.Render(status))
	}
	b.WriteString("\n" + separatorLine + "\n")

	writeCount(&b, "Projects to migrate", report.ToMigrate, titleStyle)
	writeCount(&b, "Upgraded", report.Upgraded, passStyle)
	writeCount(&b, "Already current", report.AlreadyCurrent, dimStyle)
	writeCount(&b, "Failed", report.Failed, countStyle(report.Failed, failStyle))
	writeCount(&b, "Projects reconciled", report.ProjectsReconciled, titleStyle)
	writeCount(&b, "Packages upgraded", report.PackagesUpgraded, passStyle)

	if len(report.Projects) > 0 {
		b.WriteString("\n" + titleStyle.Render("Packages") + "\n")
		for _, project := range report.Projects {
			line := fmt.Sprintf("  %s  %d/%d updated", project.Project, project.PackagesUpgraded, project.PackagesBefore)
			if project.WriteError != "" {
				b.WriteString(warnStyle.Render(line+"  (not written: "+project.WriteError+")") + "\n")
				continue
			}
			b.WriteString(line + "\n")
		}
	}
	writeFailures(&b, "Project errors", report.ProjectErrors)
	writeFailures(&b, "Package errors", report.PackageErrors)
	return b.String()
}

func writeCount(b *strings.Builder, label string, value int, style lipgloss.Style) {
	fmt.Fprintf(b, "  %-22s %s\n", dimStyle.Render(label), style.Render(fmt.Sprintf("%d", value)))
}

func writeFailures(b *strings.Builder, title string, failures []types.Failure) {
	if len(failures) == 0 {
		return
	}
	b.WriteString("\n" + failStyle.Render(title) + "\n")
	for _, failure := range failures {
		fmt.Fprintf(b, "  %s  %s\n", titleStyle.Render(failure.Key), dimStyle.Render(failure.Reason))
	}
}

func countStyle(value int, nonZero lipgloss.Style) lipgloss.Style {
	if value == 0 {
		return dimStyle
	}
	return nonZero
}

func renderHints(hints []string) string {
	var b strings.Builder
	for _, hint := range hints {
		b.WriteString(warnStyle.Render("hint: ") + hint + "\n")
	}
	return b.String()
}
