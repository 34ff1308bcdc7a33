// Package pipeline wires booklet extraction, catalog persistence,
// tokenization and recommendation into the operations the CLI and servers
// expose.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/projectscout/projectscout/internal/booklet"
	"github.com/projectscout/projectscout/internal/catalog"
	"github.com/projectscout/projectscout/internal/config"
	"github.com/projectscout/projectscout/internal/ingest"
	"github.com/projectscout/projectscout/internal/recommend"
	"github.com/projectscout/projectscout/internal/textproc"
)

// ExtractResult reports one extraction into the catalog
type ExtractResult struct {
	RunID      string   `json:"run_id"`
	Source     string   `json:"source"`
	CSVPath    string   `json:"csv_path"`
	Pages      int      `json:"pages,omitempty"`
	FilesFound int      `json:"files_found,omitempty"`
	FilesRead  int      `json:"files_read,omitempty"`
	Projects   int      `json:"projects"`
	Warnings   []string `json:"warnings,omitempty"`
}

// TokenizeResult reports one tokenization pass over a catalog CSV
type TokenizeResult struct {
	CSVPath           string `json:"csv_path"`
	TokenizedPath     string `json:"tokenized_path"`
	Records           int    `json:"records"`
	Removed           int    `json:"removed"`
	FilledDescription int    `json:"filled_descriptions"`
	FailedSupervisors int    `json:"failed_supervisors"`
}

// RunResult carries the outcome of the end-to-end pipeline
type RunResult struct {
	Extract   *ExtractResult    `json:"extract"`
	Tokenize  *TokenizeResult   `json:"tokenize"`
	Recommend *recommend.Result `json:"recommend"`
}

// Pipeline orchestrates the booklet-to-recommendation flow over the
// configured data tree
type Pipeline struct {
	cfg          *config.Config
	logger       *logrus.Logger
	booklets     *booklet.Service
	store        *catalog.Store
	preprocessor *textproc.Preprocessor
	recommender  *recommend.Recommender
	loader       *ingest.Loader
	registry     *catalog.Registry
}

// New creates a pipeline. The configuration must already be validated so
// the data tree exists.
func New(cfg *config.Config, logger *logrus.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = logrus.New()
	}

	preprocessor, err := textproc.NewPreprocessor()
	if err != nil {
		return nil, fmt.Errorf("failed to create preprocessor: %w", err)
	}

	registry, err := catalog.OpenRegistry(cfg.RegistryPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open ingest registry: %w", err)
	}

	return &Pipeline{
		cfg:          cfg,
		logger:       logger,
		booklets:     booklet.NewService(cfg.MaxFileSize, cfg.MaxDescriptionWords, logger),
		store:        catalog.NewStore(),
		preprocessor: preprocessor,
		recommender:  recommend.NewRecommender(preprocessor, cfg.MinQueryWords),
		loader:       ingest.NewLoader(logger),
		registry:     registry,
	}, nil
}

// Close releases the ingest registry
func (p *Pipeline) Close() error {
	return p.registry.Close()
}

// Booklets exposes the underlying booklet service for read-only operations
func (p *Pipeline) Booklets() *booklet.Service {
	return p.booklets
}

// Ingest copies the PDFs under sourceDir into the raw PDF directory and
// records the run
func (p *Pipeline) Ingest(sourceDir string) (*ingest.Report, error) {
	if err := ingest.EnsureDataDirs(p.cfg.RawPDFDir(), p.cfg.CSVDir(), p.cfg.TokenizedDir()); err != nil {
		return nil, err
	}

	report, err := p.loader.CopyPDFs(sourceDir, p.cfg.RawPDFDir())
	if err != nil {
		return nil, err
	}

	p.recordRun(catalog.IngestRun{
		ID:       report.RunID,
		Source:   sourceDir,
		CSVPath:  report.Destination,
		Projects: len(report.Copied),
		Status:   catalog.StatusOK,
	})

	return report, nil
}

// ExtractFile extracts the project records of one booklet (.pdf or .txt)
// and writes them to a catalog CSV. The output name defaults to the booklet
// name with a .csv extension.
func (p *Pipeline) ExtractFile(path, outName string) (*ExtractResult, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	resolved := p.resolveBooklet(path)
	fileResult, err := p.booklets.ExtractFile(booklet.ExtractFileRequest{Path: resolved})
	if err != nil {
		p.recordRun(catalog.IngestRun{
			ID:     uuid.NewString(),
			Source: resolved,
			Status: catalog.StatusFailed,
		})
		return nil, err
	}

	if outName == "" {
		base := filepath.Base(resolved)
		outName = strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
	}
	csvPath := filepath.Join(p.cfg.CSVDir(), outName)

	if err := p.store.WriteSummary(csvPath, fileResult.Projects); err != nil {
		return nil, err
	}

	result := &ExtractResult{
		RunID:    uuid.NewString(),
		Source:   resolved,
		CSVPath:  csvPath,
		Pages:    fileResult.Pages,
		Projects: len(fileResult.Projects),
		Warnings: fileResult.Warnings,
	}

	p.recordRun(catalog.IngestRun{
		ID:       result.RunID,
		Source:   resolved,
		CSVPath:  csvPath,
		Projects: result.Projects,
		Status:   catalog.StatusOK,
	})

	p.logger.WithFields(logrus.Fields{
		"source":   resolved,
		"csv":      csvPath,
		"projects": result.Projects,
	}).Info("Extracted booklet into catalog")

	return result, nil
}

// ExtractAll extracts every PDF under sourceDir into the summary catalog
// CSV. An empty sourceDir means the raw PDF directory of the data tree.
func (p *Pipeline) ExtractAll(sourceDir string) (*ExtractResult, error) {
	if sourceDir == "" {
		sourceDir = p.cfg.RawPDFDir()
	}

	dirResult, err := p.booklets.ExtractDirectory(booklet.ExtractDirectoryRequest{
		Directory: sourceDir,
	})
	if err != nil {
		p.recordRun(catalog.IngestRun{
			ID:     uuid.NewString(),
			Source: sourceDir,
			Status: catalog.StatusFailed,
		})
		return nil, err
	}

	csvPath := p.cfg.SummaryCSVPath()
	if err := p.store.WriteSummary(csvPath, dirResult.Projects); err != nil {
		return nil, err
	}

	result := &ExtractResult{
		RunID:      uuid.NewString(),
		Source:     sourceDir,
		CSVPath:    csvPath,
		FilesFound: dirResult.FilesFound,
		FilesRead:  dirResult.FilesRead,
		Projects:   len(dirResult.Projects),
		Warnings:   dirResult.Warnings,
	}

	p.recordRun(catalog.IngestRun{
		ID:       result.RunID,
		Source:   result.Source,
		CSVPath:  csvPath,
		Projects: result.Projects,
		Status:   catalog.StatusOK,
	})

	p.logger.WithFields(logrus.Fields{
		"source":   result.Source,
		"csv":      csvPath,
		"files":    dirResult.FilesRead,
		"projects": result.Projects,
	}).Info("Extracted booklet directory into catalog")

	return result, nil
}

// Tokenize cleans a catalog CSV and writes its tokenized counterpart
func (p *Pipeline) Tokenize(name string) (*TokenizeResult, error) {
	if name == "" {
		name = p.cfg.SummaryCSV
	}

	csvPath, err := catalog.ResolvePath(name, p.cfg.CSVDir(), p.cfg.DataDir)
	if err != nil {
		return nil, err
	}

	projects, err := p.store.ReadSummary(csvPath)
	if err != nil {
		return nil, err
	}

	cleaned, report := catalog.Clean(projects)
	if report.Removed > 0 || report.FilledDescription > 0 || report.FailedSupervisors > 0 {
		p.logger.WithFields(logrus.Fields{
			"removed":            report.Removed,
			"filled":             report.FilledDescription,
			"failed_supervisors": report.FailedSupervisors,
		}).Info("Cleaned catalog records")
	}

	tokenized, err := p.preprocessor.PrepareRecords(cleaned)
	if err != nil {
		return nil, err
	}

	tokenizedPath := catalog.TokenizedPathFor(csvPath, p.cfg.TokenizedDir())
	if err := p.store.WriteTokenized(tokenizedPath, tokenized); err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"csv":       csvPath,
		"tokenized": tokenizedPath,
		"records":   len(tokenized),
	}).Info("Tokenized catalog")

	return &TokenizeResult{
		CSVPath:           csvPath,
		TokenizedPath:     tokenizedPath,
		Records:           len(tokenized),
		Removed:           report.Removed,
		FilledDescription: report.FilledDescription,
		FailedSupervisors: report.FailedSupervisors,
	}, nil
}

// Recommend scores a query against a tokenized catalog. The catalog name
// defaults to the tokenized summary CSV.
func (p *Pipeline) Recommend(query, tokenizedName string, topN int) (*recommend.Result, error) {
	if tokenizedName == "" {
		tokenizedName = catalog.TokenizedName(p.cfg.SummaryCSV)
	}
	if topN <= 0 {
		topN = p.cfg.TopN
	}

	tokenizedPath, err := catalog.ResolvePath(tokenizedName,
		p.cfg.TokenizedDir(), p.cfg.CSVDir(), p.cfg.DataDir)
	if err != nil {
		return nil, err
	}

	projects, err := p.store.ReadTokenized(tokenizedPath)
	if err != nil {
		return nil, err
	}

	return p.recommender.Recommend(recommend.Request{Query: query, TopN: topN}, projects)
}

// Run executes the whole pipeline over the raw PDF directory: extract every
// booklet into the summary catalog, tokenize it, and recommend against the
// fresh catalog
func (p *Pipeline) Run(query string, topN int) (*RunResult, error) {
	extractResult, err := p.ExtractAll("")
	if err != nil {
		return nil, err
	}
	return p.finishRun(extractResult, query, topN)
}

// RunFile executes the whole pipeline for a single booklet
func (p *Pipeline) RunFile(path, query string, topN int) (*RunResult, error) {
	extractResult, err := p.ExtractFile(path, "")
	if err != nil {
		return nil, err
	}
	return p.finishRun(extractResult, query, topN)
}

func (p *Pipeline) finishRun(extractResult *ExtractResult, query string, topN int) (*RunResult, error) {
	tokenizeResult, err := p.Tokenize(filepath.Base(extractResult.CSVPath))
	if err != nil {
		return nil, err
	}

	recommendResult, err := p.Recommend(query, filepath.Base(tokenizeResult.TokenizedPath), topN)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		Extract:   extractResult,
		Tokenize:  tokenizeResult,
		Recommend: recommendResult,
	}, nil
}

// Stats summarizes a catalog CSV
func (p *Pipeline) Stats(name string) (*catalog.Stats, error) {
	projects, err := p.readCatalog(name)
	if err != nil {
		return nil, err
	}
	stats := catalog.Summarize(projects)
	return &stats, nil
}

// Keywords extracts the top scoring key phrases of a catalog CSV
func (p *Pipeline) Keywords(name string, topN int) ([]catalog.Keyword, error) {
	projects, err := p.readCatalog(name)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = p.cfg.TopN
	}
	return catalog.Keywords(projects, topN), nil
}

// History lists the most recent ingest runs, newest first
func (p *Pipeline) History(limit int) ([]catalog.IngestRun, error) {
	return p.registry.ListRuns(limit)
}

func (p *Pipeline) readCatalog(name string) ([]booklet.Project, error) {
	if name == "" {
		name = p.cfg.SummaryCSV
	}
	csvPath, err := catalog.ResolvePath(name, p.cfg.CSVDir(), p.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return p.store.ReadSummary(csvPath)
}

// resolveBooklet falls back to the raw PDF directory when the given path
// does not exist as written
func (p *Pipeline) resolveBooklet(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	alt := filepath.Join(p.cfg.RawPDFDir(), filepath.Base(path))
	if _, err := os.Stat(alt); err == nil {
		return alt
	}
	return path
}

func (p *Pipeline) recordRun(run catalog.IngestRun) {
	if err := p.registry.RecordRun(run); err != nil {
		p.logger.WithError(err).Warn("Failed to record ingest run")
	}
}
