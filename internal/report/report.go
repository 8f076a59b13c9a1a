// Package report exports the archive view as YAML, Markdown or HTML.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

// Format is an export format.
type Format string

const (
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown report format %q (want yaml, markdown or html)", s)
}

// Write renders archive to w in the given format.
func Write(w io.Writer, archive view.ArchiveBoard, format Format) error {
	var (
		out string
		err error
	)
	switch format {
	case FormatYAML:
		out, err = ExportYAML(archive)
	case FormatMarkdown:
		out = ExportMarkdown(archive)
	case FormatHTML:
		out, err = ExportHTML(archive)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
