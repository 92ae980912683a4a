package models

import "encoding/json"

// Result is the normalized descriptor emitted for one repository. Every
// field is always serialized.
type Result struct {
	InstallScript string `json:"install_script"`
	StartScript   string `json:"start_script"`
	Description   string `json:"description"`
	Requirements  string `json:"requirements"`
	TerminalRegex string `json:"terminal_regex"`
	PinokioScript string `json:"pinokio_script"`
}

// AnalysisRecord is a Result as stored in the history table.
type AnalysisRecord struct {
	ID            string `json:"analysis_id"`
	RepoPath      string `json:"repo_path"`
	Provider      string `json:"provider"`
	FellBack      bool   `json:"fell_back"`
	InstallScript string `json:"install_script"`
	StartScript   string `json:"start_script"`
	Description   string `json:"description"`
	Requirements  string `json:"requirements"`
	TerminalRegex string `json:"terminal_regex"`
	PinokioScript string `json:"pinokio_script"`
	CreatedAt     string `json:"created_at"`
}

// BatchEntry is one output line of a batch run. Result holds the emitted
// object, {} when the repository failed.
type BatchEntry struct {
	Repo   string          `json:"repo"`
	Result json.RawMessage `json:"result"`
}
