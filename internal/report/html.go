package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Learning archive</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; color: #222; }
h2 { border-bottom: 1px solid #ddd; padding-bottom: .25rem; }
h4 { color: #555; }
</style>
</head>
<body>
`

// ExportHTML renders the Markdown export to a standalone HTML page.
// Raw HTML in card text is not passed through.
func ExportHTML(archive view.ArchiveBoard) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(htmlHead)
	if err := goldmark.New().Convert([]byte(ExportMarkdown(archive)), &buf); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.String(), nil
}
