package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"project-upgrader/internal/ports"
	"project-upgrader/internal/types"
)

type ReportFileAdapter struct{}

func NewReportFileAdapter() ReportFileAdapter {
	return ReportFileAdapter{}
}

func (a ReportFileAdapter) Write(path string, report types.RunReport) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("report path is required")
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal run report").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create report directory").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write run report").
			WithCause(err)
	}
	return nil
}

func (a ReportFileAdapter) Read(path string) (types.RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RunReport{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("run report not found").
			WithCause(err)
	}
	var report types.RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return types.RunReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid run report format").
			WithCause(err)
	}
	return report, nil
}

var _ ports.ReportWriterPort = ReportFileAdapter{}
var _ ports.ReportReaderPort = ReportFileAdapter{}
