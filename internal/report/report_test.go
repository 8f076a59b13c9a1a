package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

func sampleArchive() view.ArchiveBoard {
	now := time.Date(2024, 6, 12, 18, 0, 0, 0, time.UTC)
	goID := "go"
	return view.BuildArchive(view.Input{
		Columns: []model.Column{
			{ID: "done", Name: "Done", Position: 1},
			{ID: "backlog", Name: "Backlog", Position: 0},
		},
		Categories: []model.Category{{ID: goID, Name: "Go", Color: "#00ADD8"}},
		Cards: []model.Card{
			{ID: "c1", Title: "Channels", ColumnID: "done", CategoryID: &goID, DurationMinutes: 90,
				TimeSpentMs: 5_400_000, CreatedAt: now.Add(-time.Hour), Archived: true},
			{ID: "c2", Title: "Read <script> tags", Description: "multi\nline", ColumnID: "done",
				DurationMinutes: 15, CreatedAt: now.Add(-26 * time.Hour), Archived: true},
		},
		DisplayMode: model.DisplayCardsAndDuration,
		Now:         now,
	})
}

func TestExportYAML(t *testing.T) {
	out, err := ExportYAML(sampleArchive())
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	var doc YamlArchive
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, out)
	}
	if len(doc.Columns) != 2 || doc.Columns[0].Name != "Backlog" || doc.Columns[1].Name != "Done" {
		t.Fatalf("columns: %+v", doc.Columns)
	}
	if len(doc.Columns[0].Days) != 0 {
		t.Errorf("empty column has days: %+v", doc.Columns[0].Days)
	}

	done := doc.Columns[1]
	if done.Header != "2 cards • 1h 45m" {
		t.Errorf("column header: %q", done.Header)
	}
	if len(done.Days) != 2 || done.Days[0].Label != "Today" || done.Days[1].Label != "Yesterday" {
		t.Fatalf("days: %+v", done.Days)
	}
	first := done.Days[0].Categories[0]
	if first.Name != "Go" || first.Cards[0].Title != "Channels" || first.Cards[0].TimeSpent != "1h 30m" {
		t.Errorf("first group: %+v", first)
	}
}

func TestExportMarkdown(t *testing.T) {
	out := ExportMarkdown(sampleArchive())

	for _, want := range []string{
		"# Learning archive",
		"## Done (2 cards • 1h 45m)",
		"### Today (1 cards • 1h 30m)",
		"#### Go (1 cards • 1h 30m)",
		"- **Channels**",
		"#### Uncategorized",
		"&lt;script&gt;",
		"multi line",
		"_No archived cards._",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestExportHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleArchive(), FormatHTML); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("missing doctype")
	}
	if !strings.Contains(out, "<h2>Done (2 cards • 1h 45m)</h2>") {
		t.Errorf("missing column heading:\n%s", out)
	}
	if !strings.Contains(out, "<strong>Channels</strong>") {
		t.Errorf("missing card:\n%s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Error("card text injected raw HTML")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"yml": FormatYAML, ".md": FormatMarkdown, "HTML": FormatHTML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q): %q %v", in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("pdf accepted")
	}
}
