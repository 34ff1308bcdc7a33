// Package catalog persists extracted project records as CSV catalogs and
// tracks ingest runs.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/projectscout/projectscout/internal/booklet"
)

// TokenizedPrefix is prepended to a catalog file name to derive its
// tokenized counterpart
const TokenizedPrefix = "tokenized_"

// ErrNotFound is returned when a catalog file cannot be located
var ErrNotFound = errors.New("file not found")

var (
	summaryHeader   = []string{"title", "primary_theme", "supervisors", "description"}
	tokenizedHeader = []string{"title", "primary_theme", "supervisors", "description", "tokenized_description"}
)

// TokenizedProject is a project record carrying its normalized description
// tokens as a single space-joined string
type TokenizedProject struct {
	booklet.Project
	TokenizedDescription string `json:"tokenized_description"`
}

// Store reads and writes project catalogs on disk
type Store struct{}

// NewStore creates a catalog store
func NewStore() *Store {
	return &Store{}
}

// WriteSummary writes project records to a catalog CSV. An empty record set
// still produces a header-only file so downstream steps see a valid catalog.
func (s *Store) WriteSummary(path string, projects []booklet.Project) error {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{p.Title, p.PrimaryTheme, p.Supervisors, p.Description})
	}
	return writeCSV(path, summaryHeader, rows)
}

// ReadSummary reads project records from a catalog CSV
func (s *Store) ReadSummary(path string) ([]booklet.Project, error) {
	rows, err := readCSV(path, summaryHeader)
	if err != nil {
		return nil, err
	}

	projects := make([]booklet.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, booklet.Project{
			Title:        row[0],
			PrimaryTheme: row[1],
			Supervisors:  row[2],
			Description:  row[3],
		})
	}
	return projects, nil
}

// WriteTokenized writes tokenized project records to a CSV
func (s *Store) WriteTokenized(path string, projects []TokenizedProject) error {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{p.Title, p.PrimaryTheme, p.Supervisors, p.Description, p.TokenizedDescription})
	}
	return writeCSV(path, tokenizedHeader, rows)
}

// ReadTokenized reads tokenized project records from a CSV
func (s *Store) ReadTokenized(path string) ([]TokenizedProject, error) {
	rows, err := readCSV(path, tokenizedHeader)
	if err != nil {
		return nil, err
	}

	projects := make([]TokenizedProject, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, TokenizedProject{
			Project: booklet.Project{
				Title:        row[0],
				PrimaryTheme: row[1],
				Supervisors:  row[2],
				Description:  row[3],
			},
			TokenizedDescription: row[4],
		})
	}
	return projects, nil
}

// TokenizedName derives the tokenized file name for a catalog file name
func TokenizedName(name string) string {
	base := filepath.Base(name)
	if strings.HasPrefix(base, TokenizedPrefix) {
		return base
	}
	return TokenizedPrefix + base
}

// TokenizedPathFor returns the path of the tokenized counterpart of a
// catalog file, placed in tokenizedDir
func TokenizedPathFor(catalogPath, tokenizedDir string) string {
	return filepath.Join(tokenizedDir, TokenizedName(catalogPath))
}

// ResolvePath locates a catalog file. The name is tried as given, then
// inside each search directory, then again with a .csv extension appended.
func ResolvePath(name string, searchDirs ...string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("file name cannot be empty")
	}

	candidates := []string{name}
	for _, dir := range searchDirs {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		withExt := name + ".csv"
		candidates = append(candidates, withExt)
		for _, dir := range searchDirs {
			candidates = append(candidates, filepath.Join(dir, withExt))
		}
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s (tried %s)", ErrNotFound, name, strings.Join(candidates, ", "))
}

func writeCSV(path string, header []string, rows [][]string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func readCSV(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty: %s", path)
	}

	if err := checkHeader(records[0], header); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records[1:], nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("unexpected header %v, want %v", got, want)
	}
	for i := range want {
		if strings.ToLower(strings.TrimSpace(got[i])) != want[i] {
			return fmt.Errorf("unexpected header %v, want %v", got, want)
		}
	}
	return nil
}
