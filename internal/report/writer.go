// Package report renders markdown reports and chat replies from the
// assistant's findings.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/factchecker/cinecheck/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	timestampLayout = "20060102T150405Z"
	maxCastLines    = 6
)

// Writer saves markdown reports into a directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a writer that saves reports under dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Write renders the report for one query and saves it as report_<UTC timestamp>.md.
// verdict may be nil when no fact-check ran.
func (w *Writer) Write(interp models.Interpretation, evidence *models.EvidenceRecord, verdict *models.Verdict) (*models.Report, error) {
	now := w.now().UTC()
	content := Render(interp, evidence, verdict, now)

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	timestamp := now.Format(timestampLayout)
	path, err := w.create(timestamp, content)
	if err != nil {
		return nil, err
	}

	log.Info().Str("file", path).Msg("Report saved")

	return &models.Report{
		Summary:   Summary(evidence),
		Filename:  path,
		Timestamp: timestamp,
		Content:   content,
	}, nil
}

// create writes content to a new file, adding a numeric suffix when a
// report with the same timestamp already exists.
func (w *Writer) create(timestamp, content string) (string, error) {
	for n := 1; n < 100; n++ {
		name := fmt.Sprintf("report_%s.md", timestamp)
		if n > 1 {
			name = fmt.Sprintf("report_%s_%d.md", timestamp, n)
		}
		path := filepath.Join(w.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create report file: %w", err)
		}
		if _, err := f.WriteString(content); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("failed to write report: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to write report: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("too many reports for timestamp %s", timestamp)
}

// Summary returns the one-line summary for evidence.
func Summary(evidence *models.EvidenceRecord) string {
	if evidence == nil || evidence.HasError() {
		return "No information."
	}
	if desc := strings.TrimSpace(evidence.Description()); desc != "" {
		return desc
	}
	title := evidence.Title
	if title == "" {
		title = "unknown"
	}
	return "General information available about " + title
}

// StatusWord returns TRUE, FALSE or INCONCLUSIVE.
func StatusWord(t models.Truth) string {
	switch t {
	case models.TruthTrue:
		return "TRUE"
	case models.TruthFalse:
		return "FALSE"
	default:
		return "INCONCLUSIVE"
	}
}

// Render builds the markdown report.
func Render(interp models.Interpretation, evidence *models.EvidenceRecord, verdict *models.Verdict, now time.Time) string {
	var b strings.Builder

	title := orDefault(interp.Target.Title, "Unidentified title")
	fmt.Fprintf(&b, "# Report: %s\n\n", title)
	fmt.Fprintf(&b, "**Date:** %s  \n", now.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "**Detected intent:** `%s`  \n", orDefault(string(interp.Intent), string(models.IntentUnknown)))
	fmt.Fprintf(&b, "**Purpose:** %s\n\n", orDefault(interp.Purpose, "Not specified"))

	b.WriteString("## Information Found\n\n")
	switch {
	case evidence == nil:
		b.WriteString("No information found.\n\n")
	case evidence.HasError():
		fmt.Fprintf(&b, "No information found (%s).\n\n", evidence.Error)
	default:
		writeFacts(&b, evidence)
	}

	b.WriteString("## Fact Check\n\n")
	if verdict == nil {
		b.WriteString("No fact-check was performed for this query.\n\n")
	} else {
		fmt.Fprintf(&b, "**Claim:** \"%s\"  \n", verdict.Claim)
		fmt.Fprintf(&b, "**Result:** **%s**  \n", StatusWord(verdict.IsTrue))
		fmt.Fprintf(&b, "**Confidence:** %s  \n", verdict.Confidence)
		if verdict.Method == models.MethodOracle {
			b.WriteString("**Decided by:** language model  \n")
		}
		fmt.Fprintf(&b, "**Evidence:** %s\n\n", verdict.Evidence)
	}

	b.WriteString("---\n*Report generated automatically by cinecheck*\n")
	return b.String()
}

func writeFacts(b *strings.Builder, ev *models.EvidenceRecord) {
	const na = "Not available"

	fmt.Fprintf(b, "**Title:** %s  \n", orDefault(ev.Title, na))
	fmt.Fprintf(b, "**Year:** %s  \n", orDefault(ev.Year, na))
	fmt.Fprintf(b, "**Genres:** %s  \n", orDefault(strings.Join(ev.Genres, ", "), na))
	if ev.Director == "" && ev.Creator != "" {
		fmt.Fprintf(b, "**Creator:** %s  \n", ev.Creator)
	} else {
		fmt.Fprintf(b, "**Director:** %s  \n", orDefault(ev.Director, na))
	}
	rating := ev.Rating
	if rating == "" && ev.Score != "" {
		rating = ev.Score + "% user score"
	}
	fmt.Fprintf(b, "**Rating:** %s\n\n", orDefault(rating, na))

	fmt.Fprintf(b, "**Synopsis:**  \n%s\n\n", orDefault(ev.Description(), na))

	if len(ev.ActorNames()) == 0 {
		b.WriteString("**Cast:** Not available\n\n")
		return
	}
	b.WriteString("**Main Cast:**\n\n")
	lines := 0
	for _, m := range ev.Cast {
		if m.Actor == "" {
			continue
		}
		if lines == maxCastLines {
			break
		}
		if m.Character != "" {
			fmt.Fprintf(b, "- %s as %s\n", m.Actor, m.Character)
		} else {
			fmt.Fprintf(b, "- %s\n", m.Actor)
		}
		lines++
	}
	b.WriteString("\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
