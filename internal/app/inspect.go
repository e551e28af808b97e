package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"project-upgrader/internal/core"
)

// Inspect loads a persisted run report and renders it the way the
// activity log shows it.
func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	path := strings.TrimSpace(req.ReportPath)
	if path == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("report path is required")
	}
	report, err := s.ReportReader.Read(path)
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{
		Report: report,
		Lines:  core.RenderReport(report),
	}, nil
}
