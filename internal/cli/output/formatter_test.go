package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

type sample struct {
	Running bool   `json:"running" yaml:"running"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	Port    int    `json:"port" yaml:"port"`
	hidden  string
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json should give JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml should give YAMLFormatter")
	}
	if _, ok := NewFormatter(FormatTable).(*TableFormatter); !ok {
		t.Error("table should give TableFormatter")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, sample{Running: true, Port: 8080}); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"running\": true,\n  \"port\": 8080\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := (&YAMLFormatter{}).Format(&buf, sample{Running: true, URL: "http://localhost:8080", Port: 8080})
	if err != nil {
		t.Fatal(err)
	}
	want := "running: true\nurl: http://localhost:8080\nport: 8080\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestTableFormatter_Struct(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, &sample{Running: true, Port: 8080}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "FIELD") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "running  true") {
		t.Errorf("missing running row: %q", out)
	}
	if strings.Contains(out, "url") {
		t.Errorf("empty omitempty field should be skipped: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("unexported field should be skipped: %q", out)
	}
}

func TestTableFormatter_Map(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{NoHeaders: true}
	if err := f.Format(&buf, map[string]any{"b": 2, "a": ""}); err != nil {
		t.Fatal(err)
	}
	want := "a  -\nb  2\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestTableFormatter_Scalar(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, 42); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "42\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestTable_Render(t *testing.T) {
	tbl := &Table{Headers: []string{"NAME", "VALUE"}}
	tbl.AddRow("version", "3")
	tbl.AddRow("status", "building")

	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatal(err)
	}
	want := "NAME     VALUE\nversion  3\nstatus   building\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

// lockedBuffer is safe for the spinner goroutine and the test to share.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner(t *testing.T) {
	var buf lockedBuffer
	s := NewSpinner(&buf, "stopping")
	s.interval = time.Millisecond
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Success("stopped")

	out := buf.String()
	if !strings.Contains(out, "stopping") {
		t.Errorf("spinner never drew its message: %q", out)
	}
	if !strings.HasSuffix(out, "✓ stopped\n") {
		t.Errorf("missing success line: %q", out)
	}

	// Later calls are no-ops.
	s.Fail("ignored")
	s.Stop()
	time.Sleep(5 * time.Millisecond)
	if got := buf.String(); strings.Contains(got, "ignored") || !strings.HasSuffix(got, "✓ stopped\n") {
		t.Errorf("output changed after finish: %q", got)
	}
}

func TestSpinner_FailWithoutStart(t *testing.T) {
	var buf lockedBuffer
	s := NewSpinner(&buf, "waiting")
	s.Fail("timed out")

	if !strings.HasSuffix(buf.String(), "✗ timed out\n") {
		t.Errorf("got %q", buf.String())
	}
}
