package manifest

import "fmt"

// IndentWidth is the number of marker characters in front of every directive line.
const IndentWidth = 2

// Entry is one package in the manifest: its name and directive body.
type Entry struct {
	Name string `yaml:"name" json:"name"`
	// Directives holds the directive lines with the indentation marker removed.
	Directives []string `yaml:"directives" json:"directives"`
	// Line is the 1-based line number of the header.
	Line int `yaml:"line" json:"line"`
}

// Issue is a framing problem found while scanning. Issues never stop a scan;
// they are surfaced by the check command and logged at debug level otherwise.
type Issue struct {
	Line    int
	Package string
	Message string
}

func (i Issue) String() string {
	if i.Package != "" {
		return fmt.Sprintf("line %d (%s): %s", i.Line, i.Package, i.Message)
	}
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// Manifest is a fully parsed PACKAGES file.
type Manifest struct {
	Path    string
	Entries []*Entry
	Issues  []Issue
}

// Lookup returns the first entry with the given name, or nil.
func (m *Manifest) Lookup(name string) *Entry {
	for _, e := range m.Entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Names returns the entry names in file order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		names[i] = e.Name
	}
	return names
}
