package patch

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/madeddy/diff2patch/internal/compare"
)

// ReportTarget selects where the comparison report goes.
type ReportTarget string

const (
	ReportConsole ReportTarget = "console"
	ReportFile    ReportTarget = "file"
	ReportBoth    ReportTarget = "both"
	ReportJSON    ReportTarget = "json"
)

// ParseReportTarget validates a user-supplied report target.
func ParseReportTarget(s string) (ReportTarget, error) {
	switch ReportTarget(s) {
	case ReportConsole, ReportFile, ReportBoth, ReportJSON:
		return ReportTarget(s), nil
	default:
		return "", fmt.Errorf("unknown report target %q (want console, file, both or json)", s)
	}
}

// Report is the textual/JSON rendering of a comparison outcome.
type Report struct {
	GeneratedAt  time.Time `json:"generated_at"`
	NewOnly      []string  `json:"new_only"`
	Differing    []string  `json:"differing"`
	Unresolvable []string  `json:"unresolvable"`
	Files        int64     `json:"files"`
	Dirs         int64     `json:"dirs"`
	TotalBytes   int64     `json:"total_bytes"`
	TotalSize    string    `json:"total_size"`
}

func NewReport(survey *compare.Survey, stats StageStats, sizeBytes int64) *Report {
	return &Report{
		GeneratedAt:  time.Now(),
		NewOnly:      survey.NewOnly(),
		Differing:    survey.Differing(),
		Unresolvable: survey.Unresolvable(),
		Files:        stats.Files,
		Dirs:         stats.Dirs,
		TotalBytes:   sizeBytes,
		TotalSize:    FormatSize(sizeBytes),
	}
}

// WriteText renders the report sections followed by the totals.
func (r *Report) WriteText(w io.Writer) error {
	sections := []struct {
		label   string
		entries []string
	}{
		{"new only", r.NewOnly},
		{"differing", r.Differing},
		{"unresolvable", r.Unresolvable},
	}

	for _, sec := range sections {
		if _, err := fmt.Fprintf(w, "\n%s\n%s %s elements (%s)\n\n",
			strings.Repeat("-", 80), strings.Repeat("#", 10),
			sec.label, humanize.Comma(int64(len(sec.entries)))); err != nil {
			return err
		}
		for _, entry := range sec.entries {
			if _, err := fmt.Fprintf(w, "%s %s\n", sec.label, entry); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "\n%s\nfiles: %s  dirs: %s  size: %s\n",
		strings.Repeat("-", 80),
		humanize.Comma(r.Files), humanize.Comma(r.Dirs), r.TotalSize)
	return err
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ReportFileName returns a timestamped report file name, so repeated
// report runs never collide.
func ReportFileName(now time.Time) string {
	return fmt.Sprintf("%s_%s.txt", reportStem, now.Format("20060102_150405"))
}
