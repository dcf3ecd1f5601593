package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Analysis property keys understood by the scanner.
const (
	propInclusions     = "sonar.inclusions"
	propAnalysisMode   = "sonar.analysis.mode"
	propSCMEnabled     = "sonar.scm.enabled"
	propSCMStatEnabled = "sonar.scm-stats.enabled"
	propIssueAssign    = "sonar.issueassign.enabled"
	propExportPath     = "sonar.report.export.path"
	propWorkDir        = "sonar.working.directory"
	propProjectBaseDir = "sonar.projectBaseDir"
)

// Properties holds analysis properties in file order. Setting an existing
// key replaces its value but keeps its original position.
type Properties struct {
	keys   []string
	values map[string]string
}

// NewProperties creates an empty property set.
func NewProperties() *Properties {
	return &Properties{values: map[string]string{}}
}

// Set stores a property, keeping insertion order for new keys.
func (p *Properties) Set(key, value string) {
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value of a property and whether it is set.
func (p *Properties) Get(key string) (string, bool) {
	value, ok := p.values[key]
	return value, ok
}

// Len returns the number of properties in the set.
func (p *Properties) Len() int {
	return len(p.keys)
}

// LoadFile reads a Java properties file into the set. Lines are `key=value`,
// blank lines and lines starting with `#` or `!` are skipped, and a key
// occurring more than once keeps its last value.
func (p *Properties) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open properties file %q: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return fmt.Errorf("malformed property at %s:%d: %q", path, lineNumber, line)
		}
		p.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read properties file %q: %w", path, err)
	}
	return nil
}

// WriteFile renders the set as `key=value` lines in insertion order.
func (p *Properties) WriteFile(path string) error {
	var builder strings.Builder
	for _, key := range p.keys {
		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(p.values[key])
		builder.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(builder.String()), 0644); err != nil {
		return fmt.Errorf("failed to write properties file %q: %w", path, err)
	}
	return nil
}
