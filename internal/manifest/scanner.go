package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Scanner reads manifest entries one at a time from a forward-only reader.
// Lines have no length limit.
type Scanner struct {
	r      *bufio.Reader
	line   int
	issues []Issue

	// one line of lookahead
	peeked   bool
	peekText string
	peekErr  error
	peekNum  int
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Next returns the next entry. It returns io.EOF once the manifest is exhausted.
func (s *Scanner) Next() (*Entry, error) {
	var header string
	var headerLine int

	for {
		text, n, err := s.readLine()
		if err != nil {
			return nil, err
		}
		if text == "" {
			s.addIssue(n, "", "unexpected blank line")
			continue
		}
		if isDirective(text) {
			s.addIssue(n, "", "directive line outside of any package")
			continue
		}
		header, headerLine = text, n
		break
	}

	entry := &Entry{Name: header, Line: headerLine, Directives: []string{}}

	for {
		text, n, err := s.peekLine()
		if errors.Is(err, io.EOF) {
			return entry, nil
		}
		if err != nil {
			return nil, err
		}

		switch {
		case isDirective(text):
			s.consume()
			if len(text) < IndentWidth || text[1] != ' ' {
				s.addIssue(n, header, "directive line is not indented by two spaces")
			}
			entry.Directives = append(entry.Directives, stripIndent(text))
		case text == "":
			// blank separator closes the entry
			s.consume()
			return entry, nil
		default:
			s.addIssue(n, header, "package is not followed by a blank line")
			return entry, nil
		}
	}
}

// Issues returns the framing problems seen so far.
func (s *Scanner) Issues() []Issue {
	return s.issues
}

func (s *Scanner) addIssue(line int, pkg, msg string) {
	s.issues = append(s.issues, Issue{Line: line, Package: pkg, Message: msg})
}

func (s *Scanner) readLine() (string, int, error) {
	text, n, err := s.peekLine()
	if err == nil {
		s.consume()
	}
	return text, n, err
}

func (s *Scanner) peekLine() (string, int, error) {
	if s.peeked {
		return s.peekText, s.peekNum, s.peekErr
	}

	raw, err := s.r.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && raw != "":
		// final line without a newline
		err = nil
	case errors.Is(err, io.EOF):
	default:
		err = fmt.Errorf("reading manifest line %d: %w", s.line+1, err)
	}

	s.peeked = true
	s.peekErr = err
	if err == nil {
		s.line++
		s.peekNum = s.line
		s.peekText = trimNewline(raw)
	}
	return s.peekText, s.peekNum, s.peekErr
}

func (s *Scanner) consume() {
	if s.peekErr == nil {
		s.peeked = false
	}
}

func isDirective(line string) bool {
	return strings.HasPrefix(line, " ")
}

// stripIndent removes at most IndentWidth leading spaces.
func stripIndent(line string) string {
	for i := 0; i < IndentWidth && strings.HasPrefix(line, " "); i++ {
		line = line[1:]
	}
	return line
}

func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
