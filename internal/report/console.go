package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// Console prints one line per step event with a bracketed
// workflow/step prefix, colored by outcome.
type Console struct {
	out        io.Writer
	timestamps bool
}

// NewConsole creates a console reporter writing to out. When
// timestamps is set, each line carries the event timestamp.
func NewConsole(out io.Writer, timestamps bool) *Console {
	return &Console{out: out, timestamps: timestamps}
}

func (c *Console) Report(ev Event) {
	printer := color.New()
	switch ev.Outcome {
	case OutcomeSuccess:
		printer.Add(color.FgGreen)
	case OutcomeRetriedSuccess:
		printer.Add(color.FgYellow)
	case OutcomeFailed:
		printer.Add(color.FgRed, color.Bold)
	}

	brackets := "[" + ev.Workflow + "]"
	if ev.Step != "" {
		brackets += " [" + ev.Step + "]"
	}

	msg := string(ev.Outcome)
	if ev.Attempts > 1 {
		msg += fmt.Sprintf(" (attempt %d)", ev.Attempts)
	}
	if ev.Detail != "" {
		msg += ": " + ev.Detail
	}
	msg += fmt.Sprintf(" [%s]", ev.Elapsed.Round(time.Millisecond))

	if c.timestamps {
		fmt.Fprintf(c.out, "%s [%s] %s\n", printer.Sprint(brackets), ev.Timestamp.Format(time.RFC3339), msg)
	} else {
		fmt.Fprintf(c.out, "%s %s\n", printer.Sprint(brackets), msg)
	}
}
