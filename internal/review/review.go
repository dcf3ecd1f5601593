package review

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/review-io-git/review-io/pkg/shared/files"
)

// Severity is the unified severity model for review findings.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// Violation is a single resolved review finding: a message anchored to a
// line of a file. Values are final once constructed.
type Violation struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result is an ordered collection of violations produced by one report
// parse. The order matches the order of issues in the source report.
type Result struct {
	Engine     string      `json:"engine,omitempty"`
	Report     string      `json:"report,omitempty"`
	Violations []Violation `json:"violations"`
}

// Count returns the total number of violations.
func (r *Result) Count() int {
	return len(r.Violations)
}

// CountsBySeverity returns how many violations each severity has.
func (r *Result) CountsBySeverity() map[Severity]int {
	counts := map[Severity]int{}
	for _, v := range r.Violations {
		counts[v.Severity]++
	}
	return counts
}

// Summary renders a one-line overview like "5 violations (2 ERROR, 3 WARNING)".
func (r *Result) Summary() string {
	if len(r.Violations) == 0 {
		return "no violations"
	}
	counts := r.CountsBySeverity()
	out := fmt.Sprintf("%d violations (", len(r.Violations))
	first := true
	for _, severity := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		if counts[severity] == 0 {
			continue
		}
		if !first {
			out += ", "
		}
		out += fmt.Sprintf("%d %s", counts[severity], severity)
		first = false
	}
	return out + ")"
}

// SaveJSON writes the result to outputPath as indented JSON.
func (r *Result) SaveJSON(outputPath string) error {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return fmt.Errorf("error marshaling review result: %w", err)
	}
	if err := files.WriteJsonFile(outputPath, data); err != nil {
		return fmt.Errorf("error writing review result to %q: %w", outputPath, err)
	}
	return nil
}

// LoadResult reads a result previously written by SaveJSON.
func LoadResult(inputPath string) (*Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read review result %q: %w", inputPath, err)
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review result %q: %w", inputPath, err)
	}
	return &result, nil
}
