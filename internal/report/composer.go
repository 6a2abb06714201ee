// Package report composes analysis facts into plain text lines for an
// external document renderer. It does no computation and no layout.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/soltixdb/thermalreport/internal/analytics/hotwindow"
	"github.com/soltixdb/thermalreport/internal/analytics/summary"
	"github.com/soltixdb/thermalreport/internal/analytics/threshold"
)

// DefaultTitle heads every composed report
const DefaultTitle = "INDICATIVE REPORT - Temperature/Humidity"

// DefaultDisclaimer is appended when the caller supplies none
const DefaultDisclaimer = "This report is indicative only. Readings come from a single low-cost sensor " +
	"and have not been calibrated; they do not replace a formal thermal-stress assessment."

// IncompleteSummaryError signals that a line was left out because a field it
// needs is absent. It is reported through Text.Warnings, never returned.
type IncompleteSummaryError struct {
	Field string
}

func (e *IncompleteSummaryError) Error() string {
	return fmt.Sprintf("summary field %q unavailable, line omitted", e.Field)
}

// Facts is everything a report section is composed from
type Facts struct {
	Title      string
	Day        string // optional calendar-day label; switches times to HH:MM
	Summary    summary.Summary
	HotWindow  *hotwindow.HotWindow
	Window     time.Duration
	Threshold  float64
	Intervals  []threshold.Interval
	Coverage   threshold.Coverage
	Disclaimer string
	Location   *time.Location // display zone for times (default UTC)
}

// Text is the composed output
type Text struct {
	Lines    []string `json:"lines"`
	Warnings []error  `json:"-"`
}

// String joins the lines with newlines
func (t Text) String() string {
	return strings.Join(t.Lines, "\n")
}

// WarningMessages returns the warnings as strings
func (t Text) WarningMessages() []string {
	out := make([]string, len(t.Warnings))
	for i, w := range t.Warnings {
		out[i] = w.Error()
	}
	return out
}

// Compose renders f into text lines
func Compose(f Facts) Text {
	c := composer{facts: f, loc: f.Location}
	if c.loc == nil {
		c.loc = time.UTC
	}
	return c.compose()
}

type composer struct {
	facts Facts
	loc   *time.Location
	text  Text
}

func (c *composer) compose() Text {
	f := c.facts

	title := f.Title
	if title == "" {
		title = DefaultTitle
	}
	c.add(title)
	if f.Day != "" {
		c.add("Day: " + f.Day)
	}

	s := f.Summary
	c.add("Records: " + humanize.Comma(int64(s.Count)))
	if s.Count == 0 {
		c.add("No usable samples in this period.")
	}

	if c.require(s.MeanTemp, "temp_mean") {
		c.add(fmt.Sprintf("Mean temperature: %.1f °C", *s.MeanTemp))
	}
	if c.require(s.MaxTemp, "temp_max") && c.require(s.MinTemp, "temp_min") {
		c.add(fmt.Sprintf("Max: %.1f °C | Min: %.1f °C", *s.MaxTemp, *s.MinTemp))
	}
	if s.MeanHumidity != nil {
		c.add(fmt.Sprintf("Mean humidity: %.1f %%", *s.MeanHumidity))
	}

	if w := f.HotWindow; w != nil {
		c.add(fmt.Sprintf("Hottest %s window (%s -> %s): %.1f °C",
			formatWindow(f.Window), c.clock(w.Start), c.clock(w.End), w.MeanTemp))
	}

	if s.Count > 0 {
		label := fmt.Sprintf("Periods >= %.1f °C: ", f.Threshold)
		if len(f.Intervals) == 0 {
			c.add(label + "none")
		} else {
			spans := make([]string, len(f.Intervals))
			for i, iv := range f.Intervals {
				spans[i] = c.clock(iv.Start) + "-" + c.clock(iv.End)
			}
			c.add(label + strings.Join(spans, ", "))
		}
		c.add(fmt.Sprintf("Share of time >= threshold: %.1f %%", f.Coverage.Percent))
		c.add(fmt.Sprintf("Minutes above threshold: %d / %d",
			int64(f.Coverage.Above/time.Minute), int64(f.Coverage.Total/time.Minute)))
	}

	disclaimer := strings.TrimSpace(f.Disclaimer)
	if disclaimer == "" {
		disclaimer = DefaultDisclaimer
	}
	c.add("")
	c.add("---")
	for _, line := range strings.Split(disclaimer, "\n") {
		c.add(strings.TrimRight(line, "\r"))
	}

	return c.text
}

func (c *composer) add(line string) {
	c.text.Lines = append(c.text.Lines, line)
}

func (c *composer) require(v *float64, field string) bool {
	if v != nil {
		return true
	}
	c.text.Warnings = append(c.text.Warnings, &IncompleteSummaryError{Field: field})
	return false
}

func (c *composer) clock(t time.Time) string {
	if c.facts.Day != "" {
		return t.In(c.loc).Format("15:04")
	}
	return t.In(c.loc).Format("2006-01-02 15:04")
}

func formatWindow(d time.Duration) string {
	switch {
	case d <= 0:
		return "0m"
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", int64(d/time.Hour))
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", int64(d/time.Minute))
	default:
		return d.String()
	}
}
