package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/projectscout/projectscout/internal/booklet"
	"github.com/projectscout/projectscout/internal/catalog"
	"github.com/projectscout/projectscout/internal/config"
	"github.com/projectscout/projectscout/internal/descriptions"
	"github.com/projectscout/projectscout/internal/ingest"
	"github.com/projectscout/projectscout/internal/pipeline"
	"github.com/projectscout/projectscout/internal/recommend"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	pipeline  *pipeline.Pipeline
	logger    *logrus.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, p *pipeline.Pipeline, logger *logrus.Logger) (*Server, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	if logger == nil {
		logger = logrus.New()
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		pipeline:  p,
		logger:    logger,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register booklet extract file tool
	extractFileTool := mcp.NewTool(
		"booklet_extract_file",
		mcp.WithDescription("Extract project records from one booklet (.pdf or .txt) into a catalog CSV"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the booklet file (bare names are resolved in the raw PDF directory)"),
		),
		mcp.WithString("output",
			mcp.Description("Optional output CSV name (defaults to the booklet name with a .csv extension)"),
		),
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	// Register booklet extract directory tool
	extractDirectoryTool := mcp.NewTool(
		"booklet_extract_directory",
		mcp.WithDescription("Extract every booklet PDF under a directory into the summary catalog CSV"),
		mcp.WithString("directory",
			mcp.Description("Directory to scan for booklet PDFs (uses the raw PDF directory if empty)"),
		),
	)
	s.mcpServer.AddTool(extractDirectoryTool, s.handleExtractDirectory)

	// Register booklet validate file tool
	validateFileTool := mcp.NewTool(
		"booklet_validate_file",
		mcp.WithDescription("Validate if a file is a readable booklet PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	// Register catalog ingest tool
	ingestTool := mcp.NewTool(
		"catalog_ingest",
		mcp.WithDescription("Copy every booklet PDF under a directory into the raw PDF directory"),
		mcp.WithString("directory",
			mcp.Required(),
			mcp.Description("Directory to scan recursively for PDF files"),
		),
	)
	s.mcpServer.AddTool(ingestTool, s.handleIngest)

	// Register catalog tokenize tool
	tokenizeTool := mcp.NewTool(
		"catalog_tokenize",
		mcp.WithDescription("Clean a catalog CSV and write its tokenized counterpart for recommendation"),
		mcp.WithString("catalog",
			mcp.Description("Catalog CSV name (uses the summary catalog if empty)"),
		),
	)
	s.mcpServer.AddTool(tokenizeTool, s.handleTokenize)

	// Register project recommend tool
	recommendTool := mcp.NewTool(
		"project_recommend",
		mcp.WithDescription("Rank catalog projects against a free-text interest statement"),
		mcp.WithString("statement",
			mcp.Required(),
			mcp.Description("Interest statement describing what the student wants to work on"),
		),
		mcp.WithString("catalog",
			mcp.Description("Tokenized catalog CSV name (uses the tokenized summary catalog if empty)"),
		),
		mcp.WithNumber("top",
			mcp.Description("Number of recommendations to return"),
		),
	)
	s.mcpServer.AddTool(recommendTool, s.handleRecommend)

	// Register project run tool
	runTool := mcp.NewTool(
		"project_run",
		mcp.WithDescription("Extract booklets, tokenize the catalog and recommend projects in one pass"),
		mcp.WithString("statement",
			mcp.Required(),
			mcp.Description("Interest statement to rank the extracted projects against"),
		),
		mcp.WithString("path",
			mcp.Description("Optional booklet file to run against (processes the raw PDF directory if empty)"),
		),
		mcp.WithNumber("top",
			mcp.Description("Number of recommendations to return"),
		),
	)
	s.mcpServer.AddTool(runTool, s.handleRun)

	// Register catalog stats tool
	statsTool := mcp.NewTool(
		"catalog_stats",
		mcp.WithDescription("Get statistics about a catalog CSV"),
		mcp.WithString("catalog",
			mcp.Description("Catalog CSV name (uses the summary catalog if empty)"),
		),
	)
	s.mcpServer.AddTool(statsTool, s.handleStats)

	// Register catalog keywords tool
	keywordsTool := mcp.NewTool(
		"catalog_keywords",
		mcp.WithDescription("Extract the top scoring key phrases from the catalog descriptions"),
		mcp.WithString("catalog",
			mcp.Description("Catalog CSV name (uses the summary catalog if empty)"),
		),
		mcp.WithNumber("top",
			mcp.Description("Number of key phrases to return"),
		),
	)
	s.mcpServer.AddTool(keywordsTool, s.handleKeywords)

	// Register ingest history tool
	historyTool := mcp.NewTool(
		"ingest_history",
		mcp.WithDescription("List the most recent ingest and extraction runs, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to list"),
		),
	)
	s.mcpServer.AddTool(historyTool, s.handleHistory)

	// Register server info tool
	serverInfoTool := mcp.NewTool(
		"server_info",
		mcp.WithDescription("Get server information, available tools and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	output := ""
	if out, ok := args["output"].(string); ok {
		output = out
	}

	result, err := s.pipeline.ExtractFile(path, output)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatExtractResult(result)), nil
}

func (s *Server) handleExtractDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := "" // raw PDF directory by default
	if dir, ok := args["directory"].(string); ok {
		directory = dir
	}

	result, err := s.pipeline.ExtractAll(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatExtractResult(result)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := booklet.ValidateFileRequest{Path: path}
	result, err := s.pipeline.Booklets().ValidateFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleIngest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory, err := request.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.pipeline.Ingest(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatIngestReport(report)), nil
}

func (s *Server) handleTokenize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name := "" // summary catalog by default
	if catalogName, ok := args["catalog"].(string); ok {
		name = catalogName
	}

	result, err := s.pipeline.Tokenize(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatTokenizeResult(result)), nil
}

func (s *Server) handleRecommend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statement, err := request.RequireString("statement")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	name := ""
	if catalogName, ok := args["catalog"].(string); ok {
		name = catalogName
	}
	top := 0 // configured default
	if n, ok := args["top"].(float64); ok {
		top = int(n)
	}

	result, err := s.pipeline.Recommend(statement, name, top)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatRecommendResult(result)), nil
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statement, err := request.RequireString("statement")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	path := ""
	if p, ok := args["path"].(string); ok {
		path = p
	}
	top := 0
	if n, ok := args["top"].(float64); ok {
		top = int(n)
	}

	var result *pipeline.RunResult
	if path != "" {
		result, err = s.pipeline.RunFile(path, statement, top)
	} else {
		result, err = s.pipeline.Run(statement, top)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatExtractResult(result.Extract)
	responseText += "\n" + s.formatTokenizeResult(result.Tokenize)
	responseText += "\n" + s.formatRecommendResult(result.Recommend)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name := ""
	if catalogName, ok := args["catalog"].(string); ok {
		name = catalogName
	}

	stats, err := s.pipeline.Stats(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatStats(stats)), nil
}

func (s *Server) handleKeywords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name := ""
	if catalogName, ok := args["catalog"].(string); ok {
		name = catalogName
	}
	top := 0
	if n, ok := args["top"].(float64); ok {
		top = int(n)
	}

	keywords, err := s.pipeline.Keywords(name, top)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatKeywords(keywords)), nil
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	limit := 0 // registry default
	if n, ok := args["limit"].(float64); ok {
		limit = int(n)
	}

	runs, err := s.pipeline.History(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatHistory(runs)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// Formatting methods
func (s *Server) formatExtractResult(result *pipeline.ExtractResult) string {
	text := fmt.Sprintf("Extracted booklet: %s\n", result.Source)
	text += fmt.Sprintf("Catalog CSV: %s\n", result.CSVPath)
	if result.Pages > 0 {
		text += fmt.Sprintf("Pages: %d\n", result.Pages)
	}
	if result.FilesFound > 0 {
		text += fmt.Sprintf("Files found: %d\n", result.FilesFound)
		text += fmt.Sprintf("Files read: %d\n", result.FilesRead)
	}
	text += fmt.Sprintf("Projects: %d\n", result.Projects)

	if len(result.Warnings) > 0 {
		text += "\nWarnings:\n"
		for _, warning := range result.Warnings {
			text += fmt.Sprintf("  - %s\n", warning)
		}
	}

	return text
}

func (s *Server) formatIngestReport(report *ingest.Report) string {
	text := fmt.Sprintf("Ingested %d PDF file(s) from: %s\n", len(report.Copied), report.Source)
	text += fmt.Sprintf("Destination: %s\n", report.Destination)

	if len(report.Copied) > 0 {
		text += "\nFiles:\n"
		for i, name := range report.Copied {
			text += fmt.Sprintf("%d. %s\n", i+1, name)
		}
	}

	return text
}

func (s *Server) formatTokenizeResult(result *pipeline.TokenizeResult) string {
	text := fmt.Sprintf("Tokenized catalog: %s\n", result.CSVPath)
	text += fmt.Sprintf("Output: %s\n", result.TokenizedPath)
	text += fmt.Sprintf("Records: %d\n", result.Records)

	if result.Removed > 0 {
		text += fmt.Sprintf("Removed rows: %d\n", result.Removed)
	}
	if result.FilledDescription > 0 {
		text += fmt.Sprintf("Descriptions filled from titles: %d\n", result.FilledDescription)
	}
	if result.FailedSupervisors > 0 {
		text += fmt.Sprintf("Supervisor fields marked unparsed: %d\n", result.FailedSupervisors)
	}

	return text
}

func (s *Server) formatRecommendResult(result *recommend.Result) string {
	if len(result.Recommendations) == 0 {
		text := "No projects matched the statement.\n"
		for _, warning := range result.Warnings {
			text += fmt.Sprintf("Note: %s\n", warning)
		}
		return text
	}

	text := fmt.Sprintf("Top %d recommendation(s):\n", len(result.Recommendations))
	for i, rec := range result.Recommendations {
		text += fmt.Sprintf("\n%d. %s\n", i+1, rec.Title)
		if rec.PrimaryTheme != "" {
			text += fmt.Sprintf("   Theme: %s\n", rec.PrimaryTheme)
		}
		if rec.Supervisors != "" {
			text += fmt.Sprintf("   Supervisors: %s\n", rec.Supervisors)
		}
		text += fmt.Sprintf("   Score: %.4f\n", rec.Score)
		if len(rec.MatchedTerms) > 0 {
			text += fmt.Sprintf("   Matched terms: %s\n", strings.Join(rec.MatchedTerms, ", "))
		}
	}

	for _, warning := range result.Warnings {
		text += fmt.Sprintf("\nNote: %s\n", warning)
	}

	return text
}

func (s *Server) formatStats(stats *catalog.Stats) string {
	text := "Catalog Statistics\n"
	text += fmt.Sprintf("Projects: %d\n", stats.Projects)
	text += fmt.Sprintf("Distinct supervisors: %d\n", stats.Supervisors)
	text += fmt.Sprintf("Average description words: %.1f\n", stats.AvgDescriptionWords)

	if len(stats.Themes) > 0 {
		text += "\nProjects per theme:\n"
		themes := make([]string, 0, len(stats.Themes))
		for theme := range stats.Themes {
			themes = append(themes, theme)
		}
		sort.Slice(themes, func(i, j int) bool {
			if stats.Themes[themes[i]] != stats.Themes[themes[j]] {
				return stats.Themes[themes[i]] > stats.Themes[themes[j]]
			}
			return themes[i] < themes[j]
		})
		for _, theme := range themes {
			text += fmt.Sprintf("  %s: %d\n", theme, stats.Themes[theme])
		}
	}

	return text
}

func (s *Server) formatKeywords(keywords []catalog.Keyword) string {
	if len(keywords) == 0 {
		return "No key phrases found in the catalog descriptions.\n"
	}

	text := fmt.Sprintf("Top %d key phrase(s):\n", len(keywords))
	for i, kw := range keywords {
		text += fmt.Sprintf("%d. %s (score %.2f)\n", i+1, kw.Phrase, kw.Score)
	}

	return text
}

func (s *Server) formatHistory(runs []catalog.IngestRun) string {
	if len(runs) == 0 {
		return "No runs recorded yet.\n"
	}

	text := fmt.Sprintf("Recent runs (%d):\n", len(runs))
	for i, run := range runs {
		text += fmt.Sprintf("%d. %s\n", i+1, run.ID)
		text += fmt.Sprintf("   Source: %s\n", run.Source)
		if run.CSVPath != "" {
			text += fmt.Sprintf("   Output: %s\n", run.CSVPath)
		}
		text += fmt.Sprintf("   Projects: %d\n", run.Projects)
		text += fmt.Sprintf("   Status: %s\n", run.Status)
		text += fmt.Sprintf("   Recorded: %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
		if i < len(runs)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Data Directory: %s\n", s.config.DataDir)
	text += fmt.Sprintf("📄 Summary Catalog: %s\n", s.config.SummaryCSVPath())
	text += fmt.Sprintf("📏 Max File Size: %d MB\n\n", s.config.MaxFileSize/(1024*1024))

	text += "🛠️  Available Tools:\n"
	for _, tool := range toolCatalog {
		text += fmt.Sprintf("\n• %s\n", tool.name)
		text += descriptions.GetToolDescription(tool.name) + "\n"
		text += fmt.Sprintf("Parameters: %s\n", tool.parameters)
	}

	text += "\nStart with catalog_ingest to collect booklet PDFs, booklet_extract_directory to build the catalog,\n"
	text += "catalog_tokenize to prepare it, and project_recommend with an interest statement of more than\n"
	text += fmt.Sprintf("%d words to rank the projects.\n", s.config.MinQueryWords)

	return text
}

// toolCatalog backs server_info so guidance stays in sync with the
// registered tools
var toolCatalog = []struct {
	name       string
	parameters string
}{
	{
		name:       "booklet_extract_file",
		parameters: "path (required), output (optional)",
	},
	{
		name:       "booklet_extract_directory",
		parameters: "directory (optional)",
	},
	{
		name:       "booklet_validate_file",
		parameters: "path (required)",
	},
	{
		name:       "catalog_ingest",
		parameters: "directory (required)",
	},
	{
		name:       "catalog_tokenize",
		parameters: "catalog (optional)",
	},
	{
		name:       "project_recommend",
		parameters: "statement (required), catalog (optional), top (optional)",
	},
	{
		name:       "project_run",
		parameters: "statement (required), path (optional), top (optional)",
	},
	{
		name:       "catalog_stats",
		parameters: "catalog (optional)",
	},
	{
		name:       "catalog_keywords",
		parameters: "catalog (optional), top (optional)",
	},
	{
		name:       "ingest_history",
		parameters: "limit (optional)",
	},
	{
		name:       "server_info",
		parameters: "none",
	},
}

// Run starts the MCP server over stdio. The REST API covers HTTP mode, so
// any other mode falls back to stdio.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsDebug() {
		s.logger.WithFields(logrus.Fields{
			"server":  s.config.ServerName,
			"datadir": s.config.DataDir,
		}).Debug("Starting MCP server in stdio mode")
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
