package sonar

import (
	"encoding/json"
	"io"
)

// Component is one entry of the report's component listing. A component is
// identified by its key and may reference a parent component by moduleKey.
type Component struct {
	Key       string `json:"key"`
	Path      string `json:"path"`
	ModuleKey string `json:"moduleKey"`
}

// Issue is one raw finding from the report, before filtering and path
// resolution. Line is a pointer because the engine omits it for issues
// without line-level anchors.
type Issue struct {
	Component string `json:"component"`
	Line      *int   `json:"line"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	IsNew     bool   `json:"isNew"`
}

// Report is the engine's JSON issue export.
type Report struct {
	Components []Component `json:"components"`
	Issues     []Issue     `json:"issues"`
}

// decodeReport reads one report document and checks that both required
// top-level sections are present. An empty section is valid, an absent one
// is not.
func decodeReport(r io.Reader) (*Report, error) {
	var report Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, &StructuralError{Reason: "report is not valid JSON", Err: err}
	}
	if report.Issues == nil {
		return nil, &StructuralError{Reason: `report has no "issues" section`}
	}
	if report.Components == nil {
		return nil, &StructuralError{Reason: `report has no "components" section`}
	}
	return &report, nil
}
