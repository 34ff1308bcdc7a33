// Package ingest copies booklet PDFs into the data tree and reports each
// run.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNoPDFs is returned when the source directory holds no PDF files
var ErrNoPDFs = errors.New("no PDF files found")

// EnsureDataDirs creates the data tree directories the pipeline stages
// write into. Existing directories are left alone.
func EnsureDataDirs(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	return nil
}

// Report describes one ingest run
type Report struct {
	RunID       string   `json:"run_id"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Copied      []string `json:"copied"`
}

// Loader copies booklet PDFs into the raw PDF directory
type Loader struct {
	logger *logrus.Logger
}

// NewLoader creates a loader
func NewLoader(logger *logrus.Logger) *Loader {
	if logger == nil {
		logger = logrus.New()
	}
	return &Loader{logger: logger}
}

// CopyPDFs recursively collects the PDFs under sourceDir and copies them
// into destDir by base name. Files already present are overwritten, so an
// ingest can be repeated after a booklet is corrected.
func (l *Loader) CopyPDFs(sourceDir, destDir string) (*Report, error) {
	if sourceDir == "" {
		return nil, fmt.Errorf("source directory cannot be empty")
	}
	info, err := os.Stat(sourceDir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("source directory does not exist: %s", sourceDir)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path is not a directory: %s", sourceDir)
	}

	if err := EnsureDataDirs(destDir); err != nil {
		return nil, err
	}

	var pdfPaths []string
	err = filepath.Walk(sourceDir, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Skip unreadable entries, keep walking
		}
		if fi.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(fi.Name()), ".pdf") {
			pdfPaths = append(pdfPaths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan source directory: %w", err)
	}

	if len(pdfPaths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPDFs, sourceDir)
	}
	sort.Strings(pdfPaths)

	report := &Report{
		RunID:       uuid.NewString(),
		Source:      sourceDir,
		Destination: destDir,
	}

	for _, src := range pdfPaths {
		dst := filepath.Join(destDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return nil, fmt.Errorf("failed to copy %s: %w", src, err)
		}
		report.Copied = append(report.Copied, dst)
	}

	l.logger.WithFields(logrus.Fields{
		"run_id":      report.RunID,
		"source":      sourceDir,
		"destination": destDir,
		"copied":      len(report.Copied),
	}).Info("Ingested booklet PDFs")

	return report, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
