package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/projectscout/projectscout/internal/config"
	"github.com/projectscout/projectscout/internal/httpapi"
	"github.com/projectscout/projectscout/internal/mcp"
	"github.com/projectscout/projectscout/internal/pipeline"
	"github.com/projectscout/projectscout/internal/recommend"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	// Check for version requests before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "version" || arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// A local .env feeds the PROJECTSCOUT_* environment; missing files are fine
	_ = godotenv.Load()

	outName := pflag.StringP("out", "o", "", "Output CSV name for the extract command")

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	args := pflag.Args()
	if len(args) == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	logger := newLogger(cfg)
	if cfg.IsDebug() {
		logger.Debugf("Starting with configuration: %s", cfg.String())
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create pipeline: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	if err := dispatch(cfg, logger, p, args[0], args[1:], *outName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the application logger. Logs go to stderr so command
// output and the MCP stdio channel stay clean.
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.IsDebug() {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

func dispatch(cfg *config.Config, logger *logrus.Logger, p *pipeline.Pipeline, command string, args []string, outName string) error {
	switch command {
	case "ingest":
		return runIngest(p, args)
	case "extract":
		return runExtract(p, args, outName)
	case "extract-all":
		return runExtractAll(p)
	case "tokenize":
		return runTokenize(p, args)
	case "recommend":
		return runRecommend(p, args)
	case "run":
		return runPipeline(p, args)
	case "stats":
		return runStats(p, args)
	case "keywords":
		return runKeywords(p, args)
	case "history":
		return runHistory(p)
	case "serve":
		return runServe(cfg, logger, p)
	default:
		pflag.Usage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runIngest(p *pipeline.Pipeline, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: ingest <directory>")
	}

	report, err := p.Ingest(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d PDF file(s) into %s\n", len(report.Copied), report.Destination)
	for _, name := range report.Copied {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func runExtract(p *pipeline.Pipeline, args []string, outName string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: extract <file>")
	}

	result, err := p.ExtractFile(args[0], outName)
	if err != nil {
		return err
	}

	printExtractResult(result)
	return nil
}

func runExtractAll(p *pipeline.Pipeline) error {
	result, err := p.ExtractAll("")
	if err != nil {
		return err
	}

	printExtractResult(result)
	return nil
}

func runTokenize(p *pipeline.Pipeline, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	result, err := p.Tokenize(name)
	if err != nil {
		return err
	}

	fmt.Printf("Tokenized %d record(s) from %s\n", result.Records, result.CSVPath)
	fmt.Printf("Tokenized CSV: %s\n", result.TokenizedPath)
	if result.Removed > 0 {
		fmt.Printf("Removed %d sparse row(s)\n", result.Removed)
	}
	if result.FilledDescription > 0 {
		fmt.Printf("Filled %d blank description(s) from titles\n", result.FilledDescription)
	}
	if result.FailedSupervisors > 0 {
		fmt.Printf("Marked %d supervisor field(s) as unparsed\n", result.FailedSupervisors)
	}
	return nil
}

func runRecommend(p *pipeline.Pipeline, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: recommend <interest statement...>")
	}

	result, err := p.Recommend(strings.Join(args, " "), "", 0)
	if err != nil {
		return err
	}

	printRecommendResult(result)
	return nil
}

func runPipeline(p *pipeline.Pipeline, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: run <interest statement...>")
	}

	result, err := p.Run(strings.Join(args, " "), 0)
	if err != nil {
		return err
	}

	printExtractResult(result.Extract)
	fmt.Printf("Tokenized %d record(s) into %s\n", result.Tokenize.Records, result.Tokenize.TokenizedPath)
	printRecommendResult(result.Recommend)
	return nil
}

func runStats(p *pipeline.Pipeline, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	stats, err := p.Stats(name)
	if err != nil {
		return err
	}

	fmt.Printf("Projects: %d\n", stats.Projects)
	fmt.Printf("Distinct supervisors: %d\n", stats.Supervisors)
	fmt.Printf("Average description words: %.1f\n", stats.AvgDescriptionWords)

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
	if len(themes) > 0 {
		fmt.Println("Projects per theme:")
		for _, theme := range themes {
			fmt.Printf("  %s: %d\n", theme, stats.Themes[theme])
		}
	}
	return nil
}

func runKeywords(p *pipeline.Pipeline, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	keywords, err := p.Keywords(name, 0)
	if err != nil {
		return err
	}

	if len(keywords) == 0 {
		fmt.Println("No key phrases found.")
		return nil
	}
	for i, kw := range keywords {
		fmt.Printf("%d. %s (score %.2f)\n", i+1, kw.Phrase, kw.Score)
	}
	return nil
}

func runHistory(p *pipeline.Pipeline) error {
	runs, err := p.History(0)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("%s  %-6s  %3d project(s)  %s\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"), run.Status, run.Projects, run.Source)
	}
	return nil
}

// runServe starts the configured server: the REST API in http mode, MCP
// over stdio otherwise
func runServe(cfg *config.Config, logger *logrus.Logger, p *pipeline.Pipeline) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsHTTPMode() {
		server, err := httpapi.NewServer(cfg, p, logger)
		if err != nil {
			return err
		}
		return serveUntilSignal(ctx, cancel, logger, server.Run)
	}

	// In stdio mode the parent process controls the lifecycle, and
	// incidental log noise stays off unless debugging
	if !cfg.IsDebug() {
		logger.SetOutput(io.Discard)
	}
	server, err := mcp.NewServer(cfg, p, logger)
	if err != nil {
		return err
	}
	return server.Run(ctx)
}

// serveUntilSignal runs the server until it stops on its own or a shutdown
// signal arrives
func serveUntilSignal(ctx context.Context, cancel context.CancelFunc, logger *logrus.Logger, run func(context.Context) error) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.WithField("signal", sig.String()).Info("Shutting down")
		cancel()
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func printExtractResult(result *pipeline.ExtractResult) {
	fmt.Printf("Extracted %d project(s) from %s\n", result.Projects, result.Source)
	fmt.Printf("Catalog CSV: %s\n", result.CSVPath)
	if result.FilesFound > 0 {
		fmt.Printf("Booklets read: %d of %d\n", result.FilesRead, result.FilesFound)
	}
	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
}

func printRecommendResult(result *recommend.Result) {
	if len(result.Recommendations) == 0 {
		fmt.Println("No projects matched the statement.")
	}
	for i, rec := range result.Recommendations {
		fmt.Printf("%d. %s (score %.4f)\n", i+1, rec.Title, rec.Score)
		if rec.PrimaryTheme != "" {
			fmt.Printf("   Theme: %s\n", rec.PrimaryTheme)
		}
		if rec.Supervisors != "" {
			fmt.Printf("   Supervisors: %s\n", rec.Supervisors)
		}
		if len(rec.MatchedTerms) > 0 {
			fmt.Printf("   Matched terms: %s\n", strings.Join(rec.MatchedTerms, ", "))
		}
	}
	for _, warning := range result.Warnings {
		fmt.Printf("Note: %s\n", warning)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("projectscout\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
