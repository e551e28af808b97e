package core

import (
	"fmt"
	"strconv"
	"strings"

	"project-upgrader/internal/types"
)

const reportLabelWidth = 46

var reportBreakLine = strings.Repeat("=", 72)

// Justify pads label to the report column and appends ":value".
func Justify(label string, value string) string {
	if pad := reportLabelWidth - len(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	return label + ":" + value
}

func banner(title string) string {
	return fmt.Sprintf("\n%s\n%s\n%s", reportBreakLine, title, reportBreakLine)
}

// RenderReport turns a run report into the activity log lines, in the
// order they are written to the log file.
func RenderReport(report types.RunReport) []string {
	lines := []string{
		banner("Projects Upgrade Operation Summary "),
		Justify("No of Projects to be migrated", strconv.Itoa(report.ToMigrate)),
		"",
		Justify("No of Projects migrated", strconv.Itoa(report.Upgraded)),
		Justify("No of Projects up to targetFramework", strconv.Itoa(report.AlreadyCurrent)),
	}
	if len(report.UpgradedProjects) > 0 {
		lines = append(lines, "\nProjects Upgraded")
		lines = append(lines, report.UpgradedProjects...)
	}
	if len(report.ProjectErrors) > 0 {
		lines = append(lines, "\nProject Errors")
		for _, failure := range report.ProjectErrors {
			lines = append(lines, fmt.Sprintf("%s : %s", failure.Key, failure.Reason))
		}
	}

	lines = append(lines, banner("Packages Update Summary"))
	for _, project := range report.Projects {
		lines = append(lines,
			Justify("\nProject", project.Project),
			Justify("No of Nuget Packages before Migration", strconv.Itoa(project.PackagesBefore)),
			Justify("No of Nuget Packages upgraded", strconv.Itoa(project.PackagesUpgraded)),
		)
	}
	lines = append(lines, Justify("\nNo of Projects for which Nuget Packages upgraded", strconv.Itoa(report.ProjectsReconciled)))
	if len(report.PackageErrors) > 0 {
		lines = append(lines, "\n Package Errors")
		for _, failure := range report.PackageErrors {
			lines = append(lines, Justify(failure.Key, failure.Reason))
		}
	}
	return lines
}
