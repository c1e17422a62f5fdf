package manifest

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func scanAll(t *testing.T, input string) ([]*Entry, []Issue) {
	t.Helper()

	s := NewScanner(strings.NewReader(input))
	var entries []*Entry
	for {
		e, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		entries = append(entries, e)
	}
	return entries, s.Issues()
}

func TestScanner_Entries(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Entry
	}{
		{
			name:  "two packages",
			input: "foo\n  echo hi\n\nbar\n  echo bye\n\n",
			want: []Entry{
				{Name: "foo", Directives: []string{"echo hi"}, Line: 1},
				{Name: "bar", Directives: []string{"echo bye"}, Line: 4},
			},
		},
		{
			name:  "multiple directives keep order",
			input: "zlib\n  VERSION=1.3\n  URL=https://zlib.net\n  configure --prefix=/usr\n\n",
			want: []Entry{
				{Name: "zlib", Directives: []string{"VERSION=1.3", "URL=https://zlib.net", "configure --prefix=/usr"}, Line: 1},
			},
		},
		{
			name:  "package without directives",
			input: "empty\n\nnext\n  true\n\n",
			want: []Entry{
				{Name: "empty", Directives: []string{}, Line: 1},
				{Name: "next", Directives: []string{"true"}, Line: 3},
			},
		},
		{
			name:  "missing final blank line",
			input: "foo\n  echo hi\n",
			want: []Entry{
				{Name: "foo", Directives: []string{"echo hi"}, Line: 1},
			},
		},
		{
			name:  "missing final newline",
			input: "foo\n  echo hi",
			want: []Entry{
				{Name: "foo", Directives: []string{"echo hi"}, Line: 1},
			},
		},
		{
			name:  "crlf line endings",
			input: "foo\r\n  echo hi\r\n\r\nbar\r\n  echo bye\r\n\r\n",
			want: []Entry{
				{Name: "foo", Directives: []string{"echo hi"}, Line: 1},
				{Name: "bar", Directives: []string{"echo bye"}, Line: 4},
			},
		},
		{
			name:  "deeper indentation is kept past the marker",
			input: "foo\n  if true; then\n    echo nested\n  fi\n\n",
			want: []Entry{
				{Name: "foo", Directives: []string{"if true; then", "  echo nested", "fi"}, Line: 1},
			},
		},
		{
			name:  "short indentation keeps the text",
			input: "foo\n echo hi\n\n",
			want: []Entry{
				{Name: "foo", Directives: []string{"echo hi"}, Line: 1},
			},
		},
		{
			name:  "empty manifest",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, _ := scanAll(t, tt.input)
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.want))
			}
			for i, want := range tt.want {
				if !reflect.DeepEqual(*entries[i], want) {
					t.Errorf("entry %d = %+v, want %+v", i, *entries[i], want)
				}
			}
		})
	}
}

func TestScanner_NoLengthCeiling(t *testing.T) {
	longName := strings.Repeat("n", 31) + "-and-then-some"
	longDirective := "echo " + strings.Repeat("x", 500)
	input := longName + "\n  " + longDirective + "\n\nafter\n  true\n\n"

	entries, issues := scanAll(t, input)
	if len(issues) != 0 {
		t.Errorf("unexpected issues: %v", issues)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != longName {
		t.Errorf("Name = %q, want %q", entries[0].Name, longName)
	}
	if entries[0].Directives[0] != longDirective {
		t.Errorf("directive truncated: got %d bytes, want %d", len(entries[0].Directives[0]), len(longDirective))
	}
	if entries[1].Name != "after" {
		t.Errorf("adjacent entry corrupted: Name = %q", entries[1].Name)
	}
}

func TestScanner_ExactOldCeiling(t *testing.T) {
	name := strings.Repeat("a", 31)
	directive := strings.Repeat("b", 127)
	input := name + "\n  " + directive + "\n\nnext\n\n"

	entries, _ := scanAll(t, input)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != name || entries[0].Directives[0] != directive {
		t.Errorf("entry at old ceiling was altered: %+v", *entries[0])
	}
	if entries[1].Name != "next" {
		t.Errorf("Name = %q, want next", entries[1].Name)
	}
}

func TestScanner_FramingIssues(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		entries   []string
		wantLines []int
		wantMsg   string
	}{
		{
			name:      "missing separator",
			input:     "foo\n  echo hi\nbar\n  echo bye\n\n",
			entries:   []string{"foo", "bar"},
			wantLines: []int{3},
			wantMsg:   "package is not followed by a blank line",
		},
		{
			name:      "stray blank lines",
			input:     "\nfoo\n  echo hi\n\n\nbar\n\n",
			entries:   []string{"foo", "bar"},
			wantLines: []int{1, 5},
			wantMsg:   "unexpected blank line",
		},
		{
			name:      "orphan directive",
			input:     "  echo orphan\nfoo\n  echo hi\n\n",
			entries:   []string{"foo"},
			wantLines: []int{1},
			wantMsg:   "directive line outside of any package",
		},
		{
			name:      "single space indentation",
			input:     "foo\n echo hi\n\n",
			entries:   []string{"foo"},
			wantLines: []int{2},
			wantMsg:   "directive line is not indented by two spaces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, issues := scanAll(t, tt.input)

			var names []string
			for _, e := range entries {
				names = append(names, e.Name)
			}
			if !reflect.DeepEqual(names, tt.entries) {
				t.Errorf("entries = %v, want %v", names, tt.entries)
			}

			if len(issues) != len(tt.wantLines) {
				t.Fatalf("got %d issues (%v), want %d", len(issues), issues, len(tt.wantLines))
			}
			for i, line := range tt.wantLines {
				if issues[i].Line != line {
					t.Errorf("issue %d line = %d, want %d", i, issues[i].Line, line)
				}
				if issues[i].Message != tt.wantMsg {
					t.Errorf("issue %d message = %q, want %q", i, issues[i].Message, tt.wantMsg)
				}
			}
		})
	}
}

func TestScanner_EOFIsSticky(t *testing.T) {
	s := NewScanner(strings.NewReader("foo\n\n"))
	if _, err := s.Next(); err != nil {
		t.Fatalf("first Next() error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := s.Next(); !errors.Is(err, io.EOF) {
			t.Fatalf("Next() after end = %v, want io.EOF", err)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestScanner_ReadError(t *testing.T) {
	s := NewScanner(failingReader{})
	_, err := s.Next()
	if err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("Next() error = %v, want read error", err)
	}
	if !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("error %q does not wrap the read failure", err)
	}
}
