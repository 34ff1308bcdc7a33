package booklet

// Project represents one project record extracted from a booklet
type Project struct {
	Title        string `json:"title"`
	PrimaryTheme string `json:"primary_theme"`
	Supervisors  string `json:"supervisors"`
	Description  string `json:"description"`
}

// IsEmpty reports whether no field of the record was populated
func (p Project) IsEmpty() bool {
	return p.Title == "" && p.PrimaryTheme == "" && p.Supervisors == "" && p.Description == ""
}

// Request Types

// ExtractFileRequest represents a request to extract projects from one booklet file
type ExtractFileRequest struct {
	Path string `json:"path"`
}

// ExtractDirectoryRequest represents a request to extract projects from every PDF in a directory
type ExtractDirectoryRequest struct {
	Directory string `json:"directory"`
}

// ExtractTextRequest represents a request to extract projects from plain booklet text
type ExtractTextRequest struct {
	Text string `json:"text"`
}

// ValidateFileRequest represents a request to validate a booklet PDF
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// Response Types

// ExtractFileResult represents the result of extracting one booklet file
type ExtractFileResult struct {
	Path     string    `json:"path"`
	Pages    int       `json:"pages"`
	Projects []Project `json:"projects"`
	Warnings []string  `json:"warnings,omitempty"`
}

// ExtractDirectoryResult represents the result of extracting a directory of booklets
type ExtractDirectoryResult struct {
	Directory  string    `json:"directory"`
	FilesFound int       `json:"files_found"`
	FilesRead  int       `json:"files_read"`
	Projects   []Project `json:"projects"`
	Warnings   []string  `json:"warnings,omitempty"`
}

// ExtractTextResult represents the result of extracting plain booklet text
type ExtractTextResult struct {
	Projects []Project `json:"projects"`
}

// ValidateFileResult represents the result of a booklet validation operation
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}
