package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/factchecker/cinecheck/internal/models"
)

// NoTitleReply is sent when a query needs facts but names no title.
const NoTitleReply = "I could not determine which title you are asking about."

const fallbackReply = "I don't understand the query. Could you rephrase it?"

// ChatReply renders the chat answer for the detected intent. evidence,
// verdict and rep may each be nil.
func ChatReply(interp models.Interpretation, evidence *models.EvidenceRecord, verdict *models.Verdict, rep *models.Report) string {
	title := orDefault(interp.Target.Title, "the requested title")
	summary := Summary(evidence)
	if rep != nil && rep.Summary != "" {
		summary = rep.Summary
	}

	switch interp.Intent {
	case models.IntentFactCheck:
		if verdict == nil {
			break
		}
		return fmt.Sprintf("**Fact-check result**\n\nClaim:\n*\"%s\"*\n\nStatus: **%s**\n\n**Evidence or explanation:**\n%s",
			verdict.Claim, StatusWord(verdict.IsTrue), orDefault(verdict.Evidence, "No explanation."))

	case models.IntentAnalysis:
		var genres []string
		if evidence != nil {
			genres = evidence.Genres
		}
		return fmt.Sprintf("**Analysis of your question**\n\n*%s*\n\n**Purpose of your question:**\n%s\n\n**Genres detected:**\n%s\n\n**Key summary:**\n%s\n\n(A full report was generated; this shows the highlights.)",
			title, orDefault(interp.Purpose, "Not specified"), orDefault(strings.Join(genres, ", "), "Not available"), summary)

	case models.IntentSearch:
		return fmt.Sprintf("**Information found about %s:**\n\n%s\n\n(The full report was saved automatically.)", title, summary)

	case models.IntentReport:
		if rep == nil {
			break
		}
		return fmt.Sprintf("**Report on %s saved as %s**\n\n%s", title, filepath.Base(rep.Filename), summary)
	}
	return fallbackReply
}
