package report

import (
	"fmt"
	"strings"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "#", `\#`, "<", "&lt;", ">", "&gt;",
)

func mdEscape(s string) string {
	return mdEscaper.Replace(s)
}

// ExportMarkdown renders the archive as nested headings: column, day,
// category, then one bullet per card.
func ExportMarkdown(archive view.ArchiveBoard) string {
	var b strings.Builder
	b.WriteString("# Learning archive\n")

	for _, col := range archive.Columns {
		fmt.Fprintf(&b, "\n## %s (%s)\n", mdEscape(col.Column.Name), col.Summary.Header)
		if len(col.Days) == 0 {
			b.WriteString("\n_No archived cards._\n")
			continue
		}
		for _, day := range col.Days {
			fmt.Fprintf(&b, "\n### %s (%s)\n", day.Label, day.Summary.Header)
			for _, cat := range day.Categories {
				fmt.Fprintf(&b, "\n#### %s (%s)\n\n", mdEscape(cat.Name), cat.Summary.Header)
				for _, cv := range cat.Cards {
					b.WriteString(markdownCard(cv))
				}
			}
		}
	}
	return b.String()
}

func markdownCard(cv view.CardView) string {
	line := "- **" + mdEscape(cv.Card.Title) + "**"
	var meta []string
	if cv.Duration != "" {
		meta = append(meta, "planned "+cv.Duration)
	}
	if cv.Card.TimeSpentMs > 0 {
		meta = append(meta, "spent "+view.FormatDuration(cv.Card.TimeSpentMs))
	}
	if len(meta) > 0 {
		line += " (" + strings.Join(meta, ", ") + ")"
	}
	if d := strings.TrimSpace(cv.Card.Description); d != "" {
		line += ": " + mdEscape(strings.Join(strings.Fields(d), " "))
	}
	return line + "\n"
}
