package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"pageprism/domain/entities"
	"pageprism/domain/interfaces"
)

const reportExt = ".json"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ErrNoReport is returned by LoadReport when the page has never been saved.
var ErrNoReport = errors.New("no stored report")

type reportStore struct {
	dir string
}

// NewReportStore - creates a report store rooted at dir
func NewReportStore(dir string) (interfaces.ReportStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report dir: %w", err)
	}
	return &reportStore{dir: dir}, nil
}

func (s *reportStore) path(page string) string {
	return filepath.Join(s.dir, unsafeName.ReplaceAllString(page, "_")+reportExt)
}

// SaveReport - writes the report, replacing any previous one for the page
func (s *reportStore) SaveReport(report *entities.ProbeReport) error {
	if report.Page == "" {
		return errors.New("report has no page name")
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	// write then rename so a reader never sees half a file
	tmp := s.path(report.Page) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(report.Page))
}

// LoadReport - reads the last report saved for page
func (s *reportStore) LoadReport(page string) (*entities.ProbeReport, error) {
	data, err := os.ReadFile(s.path(page))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w for page %s", ErrNoReport, page)
		}
		return nil, err
	}

	var report entities.ProbeReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("corrupt report for page %s: %w", page, err)
	}
	return &report, nil
}

// ListReports - returns stored page names in sorted order
func (s *reportStore) ListReports() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var pages []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), reportExt) {
			continue
		}
		pages = append(pages, strings.TrimSuffix(e.Name(), reportExt))
	}
	sort.Strings(pages)
	return pages, nil
}
