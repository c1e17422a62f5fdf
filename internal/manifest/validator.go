package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/manifest.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of validating a manifest.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single problem found in the manifest.
type ValidationIssue struct {
	Line    int    // Manifest line the issue refers to, 0 if unknown
	Package string // Package name, empty for file-level issues
	Path    string // Instance location (e.g., "/packages/2/name"), empty for framing issues
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed, or "framing"/"duplicate"
}

func (i ValidationIssue) String() string {
	var b strings.Builder
	if i.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", i.Line)
	}
	if i.Package != "" {
		fmt.Fprintf(&b, "%s: ", i.Package)
	}
	b.WriteString(i.Message)
	return b.String()
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("manifest.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks a parsed manifest: entry names against the embedded JSON
// schema, duplicate names, and the framing issues recorded by the scanner.
// The error return is for schema compilation failures only.
func Validate(m *Manifest) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	doc := struct {
		Packages []*Entry `json:"packages"`
	}{Packages: m.Entries}
	if doc.Packages == nil {
		doc.Packages = []*Entry{}
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	var issues []ValidationIssue
	for _, fi := range m.Issues {
		issues = append(issues, ValidationIssue{
			Line:    fi.Line,
			Package: fi.Package,
			Message: fi.Message,
			Keyword: "framing",
		})
	}

	if err := schema.Validate(inst); err != nil {
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		for _, issue := range extractIssues(validationErr) {
			if e := entryAt(m, issue.Path); e != nil {
				issue.Line = e.Line
				issue.Package = e.Name
			}
			issues = append(issues, issue)
		}
	}

	issues = append(issues, duplicateIssues(m)...)

	return &ValidationResult{
		Valid:  len(issues) == 0,
		Issues: issues,
	}, nil
}

// ValidateFile parses the manifest at path and validates it.
func ValidateFile(path string) (*ValidationResult, error) {
	m, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(m)
}

// Summary renders a one-line count of the issues, pluralized.
func (r *ValidationResult) Summary() string {
	return printer.Sprintf("%d issue(s) found", len(r.Issues))
}

func duplicateIssues(m *Manifest) []ValidationIssue {
	var issues []ValidationIssue
	first := make(map[string]int)
	for _, e := range m.Entries {
		if line, seen := first[e.Name]; seen {
			issues = append(issues, ValidationIssue{
				Line:    e.Line,
				Package: e.Name,
				Message: fmt.Sprintf("duplicate package, first defined on line %d", line),
				Keyword: "duplicate",
			})
			continue
		}
		first[e.Name] = e.Line
	}
	return issues
}

// entryAt maps an instance location such as "/packages/3/name" back to its entry.
func entryAt(m *Manifest, path string) *Entry {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) < 2 || parts[0] != "packages" {
		return nil
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 || idx >= len(m.Entries) {
		return nil
	}
	return m.Entries[idx]
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

// collectValidationIssues recursively walks the error tree to find leaf errors
// with specific property information.
func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
		}

		msg := ""
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Skip generic container errors that aren't informative.
		if keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

// deduplicateIssues removes duplicate issues (same path + keyword + message).
func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
