package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func TestConsoleReport(t *testing.T) {
	// Color codes would make the substring assertions brittle.
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	c.Report(Event{
		Workflow: "notebook",
		Step:     "submit source url",
		Outcome:  OutcomeRetriedSuccess,
		Attempts: 2,
		Elapsed:  1200 * time.Millisecond,
	})

	out := buf.String()
	for _, want := range []string{"[notebook]", "[submit source url]", "retried_success", "(attempt 2)", "[1.2s]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestConsoleReportFailureDetail(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	c.Report(Event{
		Workflow: "publish",
		Step:     "upload episode audio",
		Outcome:  OutcomeFailed,
		Attempts: 1,
		Detail:   "next button never appeared",
	})

	out := buf.String()
	if !strings.Contains(out, "failed") || !strings.Contains(out, "next button never appeared") {
		t.Errorf("output %q missing failure detail", out)
	}
}

func TestConsoleTimestamps(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	var buf bytes.Buffer
	c := NewConsole(&buf, true)

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	c.Report(Event{Workflow: "notebook", Outcome: OutcomeSuccess, Attempts: 1, Timestamp: ts})

	if !strings.Contains(buf.String(), "2026-03-14T09:26:53Z") {
		t.Errorf("output %q missing timestamp", buf.String())
	}
}

func TestMultiFansOut(t *testing.T) {
	var a, b bytes.Buffer
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	m := Multi{NewConsole(&a, false), NewConsole(&b, false)}
	m.Report(Event{Workflow: "notebook", Outcome: OutcomeSuccess, Attempts: 1})

	if a.Len() == 0 || b.Len() == 0 {
		t.Error("Multi did not fan the event out to every reporter")
	}
}
