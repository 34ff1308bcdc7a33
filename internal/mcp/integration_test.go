package mcp

import (
	"context"
	"strings"
	"testing"
)

// TestServerToolFlow drives the whole booklet-to-recommendation flow
// through the MCP handlers the way a client would call them.
func TestServerToolFlow(t *testing.T) {
	server, tempDir := newTestServer(t)
	listing := writeServerListing(t, tempDir)

	ctx := context.Background()

	// Extract the booklet into a catalog CSV
	extractResult, err := server.handleExtractFile(ctx, requestWith(map[string]interface{}{
		"path": listing,
	}))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(extractTextFromResult(extractResult), "Projects: 2") {
		t.Fatalf("extract should find 2 projects, got: %s", extractTextFromResult(extractResult))
	}

	// Tokenize the fresh catalog
	tokenizeResult, err := server.handleTokenize(ctx, requestWith(map[string]interface{}{
		"catalog": "listing.csv",
	}))
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	if !strings.Contains(extractTextFromResult(tokenizeResult), "tokenized_listing.csv") {
		t.Fatalf("tokenize should report the tokenized path, got: %s", extractTextFromResult(tokenizeResult))
	}

	// Recommend against the tokenized catalog
	recommendResult, err := server.handleRecommend(ctx, requestWith(map[string]interface{}{
		"statement": serverStatement,
		"catalog":   "tokenized_listing.csv",
	}))
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	recommendText := extractTextFromResult(recommendResult)
	if !strings.Contains(recommendText, "P-10 Tidal Turbine Arrays") {
		t.Errorf("recommend should rank the tidal project, got: %s", recommendText)
	}

	// History reflects the recorded extract run
	historyResult, err := server.handleHistory(ctx, requestWith(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(extractTextFromResult(historyResult), "Status: ok") {
		t.Errorf("history should contain the extract run, got: %s", extractTextFromResult(historyResult))
	}
}

// TestServerRunTool covers the single-call variant of the flow above.
func TestServerRunTool(t *testing.T) {
	server, tempDir := newTestServer(t)
	listing := writeServerListing(t, tempDir)

	result, err := server.handleRun(context.Background(), requestWith(map[string]interface{}{
		"path":      listing,
		"statement": serverStatement,
		"top":       float64(2),
	}))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	resultText := extractTextFromResult(result)
	for _, want := range []string{"Extracted booklet", "Tokenized catalog", "P-10 Tidal Turbine Arrays"} {
		if !strings.Contains(resultText, want) {
			t.Errorf("run output should contain %q, got: %s", want, resultText)
		}
	}
}
