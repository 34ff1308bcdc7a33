package booklet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrNoPDFs is returned when a directory extraction finds no PDF files.
var ErrNoPDFs = errors.New("no PDF files found")

// Service handles booklet extraction by orchestrating the reader,
// validator and block extractor
type Service struct {
	maxFileSize int64
	reader      *Reader
	validator   *Validator
	blocks      *BlockExtractor
	logger      *logrus.Logger
}

// NewService creates a booklet extraction service with all components
func NewService(maxFileSize int64, maxDescriptionWords int, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}

	return &Service{
		maxFileSize: maxFileSize,
		reader:      NewReader(maxFileSize),
		validator:   NewValidator(maxFileSize),
		blocks:      NewBlockExtractor(DefaultDescriptionMarker, maxDescriptionWords),
		logger:      logger,
	}
}

// ExtractFile extracts project records from a single booklet file.
// PDF booklets go through table reconstruction with a plain-text block
// fallback; .txt listings go straight to block extraction.
func (s *Service) ExtractFile(req ExtractFileRequest) (*ExtractFileResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	switch strings.ToLower(filepath.Ext(req.Path)) {
	case ".pdf":
		return s.extractPDF(req.Path)
	case ".txt":
		return s.extractTextFile(req.Path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(req.Path))
	}
}

func (s *Service) extractPDF(path string) (*ExtractFileResult, error) {
	rows, pages, warnings, err := s.reader.ReadTableRows(path)
	if err != nil {
		return nil, err
	}

	projects := ExtractProjects(rows)
	if len(projects) == 0 {
		// No labelled table rows. Some booklets are laid out as running
		// text, so retry with block extraction before giving up.
		text, _, textErr := s.reader.ReadPlainText(path)
		if textErr == nil {
			if blockProjects, blockErr := s.blocks.Extract(text); blockErr == nil {
				projects = blockProjects
				warnings = append(warnings, "no table labels found, used plain-text block extraction")
			}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"path":     path,
		"pages":    pages,
		"projects": len(projects),
	}).Debug("Extracted booklet file")

	return &ExtractFileResult{
		Path:     path,
		Pages:    pages,
		Projects: projects,
		Warnings: warnings,
	}, nil
}

func (s *Service) extractTextFile(path string) (*ExtractFileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}

	projects, err := s.blocks.Extract(string(data))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"path":     path,
		"projects": len(projects),
	}).Debug("Extracted text listing")

	return &ExtractFileResult{
		Path:     path,
		Projects: projects,
	}, nil
}

// ExtractText extracts project records from raw listing text
func (s *Service) ExtractText(req ExtractTextRequest) (*ExtractTextResult, error) {
	projects, err := s.blocks.Extract(req.Text)
	if err != nil {
		return nil, err
	}

	return &ExtractTextResult{
		Projects: projects,
	}, nil
}

// ExtractDirectory extracts project records from every PDF booklet in a
// directory. Files that fail to extract are reported as warnings rather
// than failing the whole run.
func (s *Service) ExtractDirectory(req ExtractDirectoryRequest) (*ExtractDirectoryResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	info, err := os.Stat(req.Directory)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", req.Directory)
	}

	var pdfPaths []string
	err = filepath.Walk(req.Directory, func(path string, fi os.FileInfo, walkErr error) error {
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
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	if len(pdfPaths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPDFs, req.Directory)
	}
	sort.Strings(pdfPaths)

	result := &ExtractDirectoryResult{
		Directory:  req.Directory,
		FilesFound: len(pdfPaths),
	}

	for _, path := range pdfPaths {
		fileResult, fileErr := s.ExtractFile(ExtractFileRequest{Path: path})
		if fileErr != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", path, fileErr))
			continue
		}

		result.FilesRead++
		result.Projects = append(result.Projects, fileResult.Projects...)
		result.Warnings = append(result.Warnings, fileResult.Warnings...)
	}

	s.logger.WithFields(logrus.Fields{
		"directory": req.Directory,
		"found":     result.FilesFound,
		"read":      result.FilesRead,
		"projects":  len(result.Projects),
	}).Debug("Extracted booklet directory")

	return result, nil
}

// ValidateFile performs validation on a booklet PDF
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	return s.validator.ValidateFile(req)
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}
