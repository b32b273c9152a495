package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter().(*TerminalReporter); !ok {
		t.Error("expected TerminalReporter outside CI")
	}
}

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Start(2)
	r.Update(1, "saved/241584.json")
	r.Update(2, "saved/700001.json")
	r.Finish()

	want := "Rendering 2 petition map(s)\n[1/2] saved/241584.json\n[2/2] saved/700001.json\nRendering complete\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTerminalReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{Out: &buf}
	r.Update(1, "ignored before Start")
	r.Start(3)
	r.Update(1, "saved/1.json")
	r.Finish()
	if !strings.Contains(buf.String(), "saved/1.json") {
		t.Errorf("progress bar did not render the description: %q", buf.String())
	}
}
