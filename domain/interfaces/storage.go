package interfaces

import "pageprism/domain/entities"

// ReportStore persists probe reports
type ReportStore interface {
	// SaveReport stores the report under its page name
	SaveReport(report *entities.ProbeReport) error

	// LoadReport loads the last report saved for a page
	LoadReport(page string) (*entities.ProbeReport, error)

	// ListReports returns the page names that have a stored report
	ListReports() ([]string, error)
}
