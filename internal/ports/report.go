package ports

import "project-upgrader/internal/types"

type ReportWriterPort interface {
	Write(path string, report types.RunReport) error
}

type ReportReaderPort interface {
	Read(path string) (types.RunReport, error)
}
