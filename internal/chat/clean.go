package chat

import (
	"regexp"
	"strings"
)

var (
	jsonBlockRe   = regexp.MustCompile("(?s)```json.*?```")
	showingRowsRe = regexp.MustCompile(`Showing \d+ of \d+ rows`)
	tableIntroRe  = regexp.MustCompile(`Here's a table[^:]*:`)
	emptyFenceRe  = regexp.MustCompile("```\\s*```")
	newlinesRe    = regexp.MustCompile(`\n{3,}`)
)

// CleanText tidies accumulated reply text for display: fenced JSON
// visualization blocks, "Showing X of Y rows" counters and "Here's a
// table…:" intros all duplicate content the frontend renders from the
// structured table data, so they are stripped. A reply the model repeated
// verbatim is collapsed to a single copy.
func CleanText(text string) string {
	cleaned := jsonBlockRe.ReplaceAllString(text, "")
	cleaned = showingRowsRe.ReplaceAllString(cleaned, "")
	cleaned = tableIntroRe.ReplaceAllString(cleaned, "")
	cleaned = dropDoubledText(cleaned)
	cleaned = emptyFenceRe.ReplaceAllString(cleaned, "")
	cleaned = newlinesRe.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// dropDoubledText keeps one copy when the model emitted the whole reply
// twice in a row, a known streaming artifact with longer answers. The two
// copies usually sit around sentence-final whitespace, so the halves are
// compared trimmed; the split point itself may land inside that whitespace.
func dropDoubledText(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 100 {
		return text
	}
	mid := len(trimmed) / 2
	first := strings.TrimSpace(trimmed[:mid])
	second := strings.TrimSpace(trimmed[mid:])
	if first != "" && first == second {
		return first
	}
	return text
}
