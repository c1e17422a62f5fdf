package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/minipkg/minipkg/internal/branding"
	"github.com/mitchellh/colorstring"
	"github.com/rs/zerolog"
)

// ConsoleWriter decodes zerolog JSON events and prints them as prefixed
// console lines. It is safe for concurrent use.
type ConsoleWriter struct {
	Out     io.Writer
	NoColor bool
	// Fields prints every structured field below the message.
	Fields bool

	buffer strings.Builder
	lock   sync.Mutex
}

// NewConsoleWriter returns a writer printing to out.
func NewConsoleWriter(out io.Writer, noColor bool) *ConsoleWriter {
	return &ConsoleWriter{Out: out, NoColor: noColor}
}

func (w *ConsoleWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	if err := d.Decode(&evt); err != nil {
		return 0, fmt.Errorf("cannot decode event %q: %w", p, err)
	}

	w.buffer.Reset()
	w.buffer.WriteString("[bold][yellow]")
	w.buffer.WriteString(branding.LogPrefix())
	w.buffer.WriteString("[reset] ")

	switch evt[zerolog.LevelFieldName] {
	case "fatal", "error":
		w.buffer.WriteString("[red]")
	case "warn":
		w.buffer.WriteString("[yellow]")
	}

	msg, _ := evt[zerolog.MessageFieldName].(string)
	w.buffer.WriteString(msg)

	if errDetails, ok := evt[zerolog.ErrorFieldName]; ok {
		w.buffer.WriteString(": ")
		w.buffer.WriteString(fmt.Sprint(errDetails))
	}
	w.buffer.WriteString("[reset]")

	if w.Fields {
		w.writeFields(evt)
	}
	w.buffer.WriteString("\n")

	c := colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: w.NoColor,
		Reset:   false,
	}
	if _, err := io.WriteString(w.Out, c.Color(w.buffer.String())); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *ConsoleWriter) writeFields(evt map[string]interface{}) {
	names := make([]string, 0, len(evt))
	for name := range evt {
		switch name {
		case zerolog.LevelFieldName, zerolog.MessageFieldName, zerolog.ErrorFieldName, zerolog.TimestampFieldName:
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w.buffer.WriteString(fmt.Sprintf("\n  [dim]%s:[reset] %s", name, fmt.Sprint(evt[name])))
	}
}

// NoColorRequested reports whether the environment asks for plain output.
func NoColorRequested() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}
