package report

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

// YamlCard is one archived card.
type YamlCard struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Duration    string `yaml:"duration,omitempty"`
	TimeSpent   string `yaml:"time_spent"`
	ArchivedAt  string `yaml:"archived_at,omitempty"`
}

// YamlCategory is the cards of one category within a day.
type YamlCategory struct {
	Name   string     `yaml:"name"`
	Color  string     `yaml:"color"`
	Header string     `yaml:"header"`
	Cards  []YamlCard `yaml:"cards"`
}

// YamlDay is one day section.
type YamlDay struct {
	Date       string         `yaml:"date"`
	Label      string         `yaml:"label"`
	Header     string         `yaml:"header"`
	Categories []YamlCategory `yaml:"categories"`
}

// YamlColumn is one archive column.
type YamlColumn struct {
	Name   string    `yaml:"name"`
	Header string    `yaml:"header"`
	Days   []YamlDay `yaml:"days"`
}

// YamlArchive is the top-level document.
type YamlArchive struct {
	Columns []YamlColumn `yaml:"columns"`
}

// ExportYAML serializes the archive in display order.
func ExportYAML(archive view.ArchiveBoard) (string, error) {
	doc := YamlArchive{Columns: make([]YamlColumn, 0, len(archive.Columns))}
	for _, col := range archive.Columns {
		yc := YamlColumn{Name: col.Column.Name, Header: col.Summary.Header, Days: []YamlDay{}}
		for _, day := range col.Days {
			yd := YamlDay{Date: day.Key, Label: day.Label, Header: day.Summary.Header}
			for _, cat := range day.Categories {
				ycat := YamlCategory{Name: cat.Name, Color: cat.Color, Header: cat.Summary.Header}
				for _, cv := range cat.Cards {
					ycat.Cards = append(ycat.Cards, yamlCard(cv))
				}
				yd.Categories = append(yd.Categories, ycat)
			}
			yc.Days = append(yc.Days, yd)
		}
		doc.Columns = append(doc.Columns, yc)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("yaml marshal: %w", err)
	}
	return string(data), nil
}

func yamlCard(cv view.CardView) YamlCard {
	c := YamlCard{
		ID:          cv.Card.ID,
		Title:       cv.Card.Title,
		Description: cv.Card.Description,
		Duration:    cv.Duration,
		TimeSpent:   view.FormatDuration(cv.Card.TimeSpentMs),
	}
	if cv.Card.ArchivedAt != nil {
		c.ArchivedAt = cv.Card.ArchivedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	return c
}
