package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ilumen-report/models"
)

const (
	OriginalReportName    = "original.csv"
	progressReportPrefix  = "progress_report_"
	progressReportLayout  = "20060102_1504"
	reportDirPermissions  = 0o755
	reportFilePermissions = 0o644
)

// ReportFiles names the artifacts of one successful write.
type ReportFiles struct {
	ProgressReport string
	Original       string
}

// ReportWriter emits the progress report and the original-format file.
type ReportWriter struct {
	dir string
	now func() time.Time
}

// NewReportWriter writes into dir. now defaults to time.Now and stamps the
// progress report name.
func NewReportWriter(dir string, now func() time.Time) *ReportWriter {
	if now == nil {
		now = time.Now
	}
	return &ReportWriter{dir: dir, now: now}
}

// ProgressReportName is the file name of a progress report produced at t.
func ProgressReportName(t time.Time) string {
	return progressReportPrefix + t.Format(progressReportLayout) + ".csv"
}

// Write creates the reports directory if needed and writes both files. The
// progress report carries the human-facing headers; original.csv carries the
// internal column names and is replaced on every run.
func (w *ReportWriter) Write(report *models.Table) (*ReportFiles, error) {
	if err := os.MkdirAll(w.dir, reportDirPermissions); err != nil {
		return nil, &IOError{Path: w.dir, Err: err}
	}

	files := &ReportFiles{
		ProgressReport: filepath.Join(w.dir, ProgressReportName(w.now())),
		Original:       filepath.Join(w.dir, OriginalReportName),
	}

	if err := writeCSV(files.ProgressReport, models.ProgressReportHeaders, report.Rows); err != nil {
		return nil, err
	}
	if err := writeCSV(files.Original, report.Columns, report.Rows); err != nil {
		_ = os.Remove(files.ProgressReport)
		return nil, err
	}
	return files, nil
}

// writeCSV writes to a temporary sibling and renames it into place so a
// failed write never leaves a truncated file behind.
func writeCSV(path string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	cw := csv.NewWriter(tmp)
	if err := cw.Write(header); err != nil {
		tmp.Close()
		cleanup()
		return &IOError{Path: path, Err: err}
	}
	for i, row := range rows {
		if len(row) != len(header) {
			tmp.Close()
			cleanup()
			return &IOError{Path: path, Err: fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(header))}
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		tmp.Close()
		cleanup()
		return &IOError{Path: path, Err: err}
	}
	if err := tmp.Chmod(reportFilePermissions); err != nil {
		tmp.Close()
		cleanup()
		return &IOError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &IOError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return &IOError{Path: path, Err: err}
	}
	return nil
}

// ReadReport loads a CSV written by ReportWriter back into a table.
func ReadReport(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, &IOError{Path: path, Err: fmt.Errorf("missing header row")}
	}
	return &models.Table{Columns: records[0], Rows: records[1:]}, nil
}
