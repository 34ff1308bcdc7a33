package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Booklet Tools
	BookletExtractFileDescription = `Extract structured project records from a single booklet file into a catalog CSV.

**When to use:** A new project booklet (.pdf, or a .txt listing) arrives and its records should land in their own catalog CSV.

**Why it's useful:** Reconstructs the booklet's project tables from positioned text, so titles, themes, supervisors and descriptions come out as clean columns instead of flattened prose.

**Examples:**
• Single booklet: "Extract engineering-projects-2026.pdf into the catalog"
• Text listing: "Extract projects from draft-listing.txt before the final PDF is published"
• Named output: "Extract booklet.pdf into spring_catalogue.csv"

**Common workflows:**
1. New Booklet: booklet_validate_file → booklet_extract_file → catalog_tokenize → project_recommend
2. Catalog Refresh: Extract booklet → Review catalog_stats → Tokenize → Serve recommendations

**Best practices:** Bare file names resolve inside the raw PDF directory; validate unknown uploads first with booklet_validate_file.`

	BookletExtractDirectoryDescription = `Extract every booklet PDF under a directory into the combined summary catalog CSV.

**When to use:** The raw PDF directory (or any booklet folder) holds several booklets that should feed one recommendation catalog.

**Why it's useful:** Builds the whole catalog in one pass and keeps going when an individual booklet fails, reporting it as a warning instead of aborting the batch.

**Examples:**
• Full rebuild: "Extract all ingested booklets into the summary catalog"
• Ad hoc folder: "Extract every PDF under /data/booklets/2026/"

**Common workflows:**
1. Catalog Build: catalog_ingest → booklet_extract_directory → catalog_tokenize → project_recommend
2. Term Rollover: Ingest the new term's booklets → Extract directory → Compare catalog_stats with last term

**Best practices:** Check the warnings list for booklets that failed extraction before trusting the catalog to be complete.`

	BookletValidateFileDescription = `Verify a booklet PDF is intact and readable before extraction.

**When to use:** Before extracting booklets from uploads or unfamiliar sources, especially in automated runs.

**Why it's useful:** Catches truncated downloads, oversized files and non-PDF content early, so extraction failures point at real layout problems rather than broken files.

**Examples:**
• Upload check: "Validate submitted-booklet.pdf before adding it to the catalog"
• Batch safety: "Validate each PDF in /incoming/ before booklet_extract_directory"

**Common workflows:**
1. Guarded Extraction: Validate → Extract if valid → Report failures
2. Intake Review: Validate uploads → Reject bad files → Ingest the rest

**Best practices:** Validation is relaxed about cosmetic spec violations; a valid booklet can still need the plain-text fallback when its tables carry no labels.`

	// Catalog Tools
	CatalogIngestDescription = `Copy booklet PDFs from a source directory into the managed raw PDF directory.

**When to use:** Booklets live somewhere else (a downloads folder, a shared drive export) and should be collected into the data tree before extraction.

**Why it's useful:** Gives every pipeline run a single well-known input directory and records the copy as an ingest run for later auditing.

**Examples:**
• Collect downloads: "Ingest /home/user/Downloads/booklets/"
• Term intake: "Ingest the 2026 booklet export before rebuilding the catalog"

**Common workflows:**
1. Intake: catalog_ingest → booklet_extract_directory → catalog_tokenize
2. Audit: Ingest → ingest_history to confirm what was copied and when

**Best practices:** The scan is recursive, so point it at the export root rather than at each subfolder.`

	CatalogTokenizeDescription = `Clean a catalog CSV and write the tokenized counterpart used for recommendation scoring.

**When to use:** After any extraction, before project_recommend can score against the catalog.

**Why it's useful:** Normalizes descriptions into lemmatized keyword lists and repairs messy records (rows with too many blank fields are dropped and unparseable supervisor fields are flagged) so scoring sees consistent text.

**Examples:**
• Summary catalog: "Tokenize the summary catalog after a full extraction"
• Single booklet: "Tokenize listing.csv to test one booklet's projects"

**Common workflows:**
1. Catalog Preparation: Extract → catalog_tokenize → project_recommend
2. Cleaning Review: Tokenize → check the removed and filled counts → fix the booklet if too lossy

**Best practices:** Tokenized files are written as tokenized_<name>.csv; re-run after every fresh extraction so scoring never sees a stale catalog.`

	// Recommendation Tools
	ProjectRecommendDescription = `Rank catalog projects against a student's free-text interest statement.

**When to use:** A student describes what they want to work on and needs the best matching projects from a tokenized catalog.

**Why it's useful:** Scores every project with TF-IDF cosine similarity per statement word, so matches reflect shared meaningful vocabulary rather than literal substring hits, and each match lists the terms it shares with the statement.

**Examples:**
• Direct query: "Recommend projects for a statement about renewable tidal energy and turbine wake modelling"
• Shortlist: "Give the top 5 matches for this statement against tokenized_listing.csv"

**Common workflows:**
1. Advising Session: project_recommend → review matched terms → refine the statement → recommend again
2. Follow-up Queries: project_run once for a fresh booklet, then project_recommend for each new statement

**Best practices:** Statements must be longer than the configured minimum word count; statements rich in concrete topic words rank noticeably better than generic ones.`

	ProjectRunDescription = `Run the whole pipeline in one pass: extract booklets, tokenize the catalog and recommend projects.

**When to use:** Starting from raw booklets and one interest statement, with no interest in the intermediate steps.

**Why it's useful:** Chains extraction, tokenization and recommendation with the same defaults the individual tools use, so one call turns booklets into ranked recommendations.

**Examples:**
• Fresh setup: "Run the pipeline over the ingested booklets for this statement"
• One booklet: "Run booklet.pdf against this statement and give the top 3"

**Common workflows:**
1. Quick Answer: catalog_ingest → project_run
2. Exploration: project_run once → project_recommend for cheaper follow-up statements

**Best practices:** Omit path to process everything in the raw PDF directory; pass a path to scope the run to a single booklet.`

	// Utility Tools
	CatalogStatsDescription = `Summarize a catalog CSV: project count, theme distribution, supervisors and description length.

**When to use:** After extraction, to sanity-check what actually landed in the catalog before tokenizing or recommending.

**Why it's useful:** Reveals extraction gaps quickly. Every theme bucketed as "unspecified" or a suspiciously short average description points at a layout the table reader missed.

**Examples:**
• Post-extraction check: "Show stats for the summary catalog"
• Booklet comparison: "Compare stats for catalogue_2025.csv and catalogue_2026.csv"

**Common workflows:**
1. Quality Gate: Extract → catalog_stats → re-extract or fix booklets if the counts look wrong
2. Reporting: Stats per term catalog → track catalog growth over time

**Best practices:** Run against the plain catalog CSV, not the tokenized one.`

	CatalogKeywordsDescription = `Extract the top scoring key phrases across all catalog project descriptions.

**When to use:** Need a quick topical overview of a catalog, or candidate vocabulary to help students phrase interest statements.

**Why it's useful:** Surfaces recurring multi-word themes without reading every description, using phrase co-occurrence scoring over the whole catalog.

**Examples:**
• Orientation: "What are the dominant topics in this year's catalog?"
• Statement coaching: "List key phrases students could borrow for their interest statements"

**Common workflows:**
1. Catalog Overview: catalog_stats → catalog_keywords → browse the themes
2. Query Support: Keywords → suggest phrasing → project_recommend

**Best practices:** Phrase scores are only comparable within one catalog; don't compare absolute scores across catalogs.`

	IngestHistoryDescription = `List recent ingest and extraction runs, newest first.

**When to use:** Auditing what was ingested or extracted, when it happened, and whether it succeeded.

**Why it's useful:** Every ingest and extraction is recorded with its source, output CSV, project count and status, so failed runs stay visible after the fact.

**Examples:**
• Audit: "Show the last 10 runs"
• Debugging: "Did last night's extraction fail?"

**Common workflows:**
1. Operations Review: ingest_history → re-run the failed extractions
2. Provenance: History → match catalog CSVs back to their source booklets

**Best practices:** Failed runs keep status "failed" with no output path; pair with catalog_stats to verify the successful ones.`

	ServerInfoDescription = `Get server configuration, available tools and usage guidance.

**When to use:** Starting a session against the server, or troubleshooting paths and tool availability.

**Why it's useful:** Reports the data directory layout, the summary catalog location, the file size limit and every registered tool with its parameters.

**Examples:**
• Session start: "Check server info before planning a catalog rebuild"
• Debugging: "Verify which data directory the server is using"

**Common workflows:**
1. Session Startup: server_info → catalog_ingest → booklet_extract_directory
2. Debugging: Review the configured paths → confirm the expected catalog files exist

**Best practices:** Run first in new sessions; the tool listing is generated from the registered tools, so it always matches the running server.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"booklet_extract_file":      BookletExtractFileDescription,
	"booklet_extract_directory": BookletExtractDirectoryDescription,
	"booklet_validate_file":     BookletValidateFileDescription,
	"catalog_ingest":            CatalogIngestDescription,
	"catalog_tokenize":          CatalogTokenizeDescription,
	"project_recommend":         ProjectRecommendDescription,
	"project_run":               ProjectRunDescription,
	"catalog_stats":             CatalogStatsDescription,
	"catalog_keywords":          CatalogKeywordsDescription,
	"ingest_history":            IngestHistoryDescription,
	"server_info":               ServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
