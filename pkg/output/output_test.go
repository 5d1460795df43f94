package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		isValid bool
	}{
		{"json", true},
		{"text", true},
		{"table", true},
		{"invalid", false},
	}

	for _, tt := range tests {
		result := ValidateOutputFormat(tt.format)
		if result != tt.isValid {
			t.Errorf("ValidateOutputFormat(%s): got %v, want %v", tt.format, result, tt.isValid)
		}
	}
}

func TestTableText(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, FormatText)

	err := p.Table([]string{"ID", "Title"}, [][]string{{"1", "first"}, {"22", "second"}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "ID  Title" {
		t.Errorf("Unexpected header %q", lines[0])
	}
	if lines[2] != "22  second" {
		t.Errorf("Unexpected row %q", lines[2])
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatTable).Table([]string{"ID"}, nil, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No results.\n" {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestTableJSONPrintsData(t *testing.T) {
	var buf bytes.Buffer
	data := []map[string]int{{"id": 1}}

	if err := New(&buf, FormatJSON).Table([]string{"ID"}, [][]string{{"1"}}, data); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"id": 1`) {
		t.Errorf("Expected JSON records, got %q", buf.String())
	}
}

func TestRecordKeepsFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	fields := []Field{{"State", "ready"}, {"Source", "primary"}, {"User", "dara@example.com"}}

	if err := New(&buf, FormatText).Record("Session", fields); err != nil {
		t.Fatal(err)
	}
	expected := "Session:\nState: ready\nSource: primary\nUser: dara@example.com\n"
	if buf.String() != expected {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestRecordJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatJSON).Record("ignored", []Field{{"count", 3}}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "{\n  \"count\": 3\n}" {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, FormatText)
	p.Success("Created post %d", 4)
	p.Error("failed")
	p.Warning("careful")
	p.Info("fyi")

	expected := "Created post 4\nError: failed\nWarning: careful\nfyi\n"
	if buf.String() != expected {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestFormatAsJSON(t *testing.T) {
	s, err := FormatAsJSON(map[string]bool{"ok": true})
	if err != nil {
		t.Fatal(err)
	}
	if s != `{"ok":true}` {
		t.Errorf("Unexpected JSON %s", s)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"a long confession body", 10, "a long ..."},
		{"ក្តីស្រឡាញ់", 4, "ក..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
