package booklet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const listingFixture = `Climate Modelling Group

P-01 Coastal Erosion Forecasting
Project Description: Builds a shoreline change model from satellite imagery
and tide gauge records to forecast erosion hotspots.

P-02 Urban Heat Islands
Project Description: Maps street-level temperature variation across the city
using bus-mounted sensors.
`

func newTestService() *Service {
	return NewService(1024*1024, 100, nil)
}

func TestService_ExtractFile_TextListing(t *testing.T) {
	service := newTestService()

	tempDir, err := os.MkdirTemp("", "booklet_service_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	listingPath := filepath.Join(tempDir, "projects.txt")
	if err := os.WriteFile(listingPath, []byte(listingFixture), 0o644); err != nil {
		t.Fatalf("failed to write listing: %v", err)
	}

	result, err := service.ExtractFile(ExtractFileRequest{Path: listingPath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Projects) != 2 {
		t.Fatalf("expected 2 projects but got %d", len(result.Projects))
	}
	if result.Projects[0].Title != "P-01 Coastal Erosion Forecasting" {
		t.Errorf("unexpected first title: %q", result.Projects[0].Title)
	}
	if result.Projects[1].Title != "P-02 Urban Heat Islands" {
		t.Errorf("unexpected second title: %q", result.Projects[1].Title)
	}
	if result.Path != listingPath {
		t.Errorf("expected Path=%s but got %s", listingPath, result.Path)
	}
}

func TestService_ExtractFile_InvalidInputs(t *testing.T) {
	service := newTestService()

	tempDir, err := os.MkdirTemp("", "booklet_service_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	unsupportedPath := filepath.Join(tempDir, "projects.docx")
	if err := os.WriteFile(unsupportedPath, []byte("irrelevant"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	emptyListing := filepath.Join(tempDir, "empty.txt")
	if err := os.WriteFile(emptyListing, []byte("no markers here"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name       string
		path       string
		wantNoProj bool
	}{
		{
			name: "empty path",
			path: "",
		},
		{
			name: "unsupported extension",
			path: unsupportedPath,
		},
		{
			name: "missing text file",
			path: filepath.Join(tempDir, "missing.txt"),
		},
		{
			name:       "listing without marker",
			path:       emptyListing,
			wantNoProj: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ExtractFile(ExtractFileRequest{Path: tt.path})
			if err == nil {
				t.Fatalf("expected error but got none")
			}
			if tt.wantNoProj && !errors.Is(err, ErrNoProjects) {
				t.Errorf("expected ErrNoProjects but got %v", err)
			}
		})
	}
}

func TestService_ExtractText(t *testing.T) {
	service := newTestService()

	result, err := service.ExtractText(ExtractTextRequest{Text: listingFixture})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Projects) != 2 {
		t.Fatalf("expected 2 projects but got %d", len(result.Projects))
	}

	_, err = service.ExtractText(ExtractTextRequest{Text: "nothing to see"})
	if !errors.Is(err, ErrNoProjects) {
		t.Errorf("expected ErrNoProjects but got %v", err)
	}
}

func TestService_ExtractDirectory_InvalidInputs(t *testing.T) {
	service := newTestService()

	tempDir, err := os.MkdirTemp("", "booklet_service_dir_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	filePath := filepath.Join(tempDir, "plain.txt")
	if err := os.WriteFile(filePath, []byte("text"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name      string
		directory string
		wantNoPDF bool
	}{
		{
			name:      "empty directory argument",
			directory: "",
		},
		{
			name:      "non-existent directory",
			directory: filepath.Join(tempDir, "missing"),
		},
		{
			name:      "path is a file",
			directory: filePath,
		},
		{
			name:      "directory without PDFs",
			directory: tempDir,
			wantNoPDF: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ExtractDirectory(ExtractDirectoryRequest{Directory: tt.directory})
			if err == nil {
				t.Fatalf("expected error but got none")
			}
			if tt.wantNoPDF && !errors.Is(err, ErrNoPDFs) {
				t.Errorf("expected ErrNoPDFs but got %v", err)
			}
		})
	}
}

func TestService_ExtractDirectory_BadPDFBecomesWarning(t *testing.T) {
	service := newTestService()

	tempDir, err := os.MkdirTemp("", "booklet_service_dir_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	fakePDF := filepath.Join(tempDir, "broken.pdf")
	if err := os.WriteFile(fakePDF, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("failed to write fake PDF: %v", err)
	}

	result, err := service.ExtractDirectory(ExtractDirectoryRequest{Directory: tempDir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FilesFound != 1 {
		t.Errorf("expected FilesFound=1 but got %d", result.FilesFound)
	}
	if result.FilesRead != 0 {
		t.Errorf("expected FilesRead=0 but got %d", result.FilesRead)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected 1 warning but got %d: %v", len(result.Warnings), result.Warnings)
	}
	if len(result.Projects) != 0 {
		t.Errorf("expected no projects but got %d", len(result.Projects))
	}
}

func TestNewService_Defaults(t *testing.T) {
	service := NewService(2048, 50, nil)

	if service.logger == nil {
		t.Error("expected a default logger")
	}
	if service.GetMaxFileSize() != 2048 {
		t.Errorf("expected max file size 2048 but got %d", service.GetMaxFileSize())
	}
}
