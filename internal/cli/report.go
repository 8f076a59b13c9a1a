package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/report"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

func newReportCmd(app *App) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the archive grouped by column, day and category",
		Example: `  learnboard report --out archive.html
  learnboard report --as yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" && out != "" {
				format = filepath.Ext(out)
			}
			if format == "" {
				format = string(report.FormatMarkdown)
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				archive := view.BuildArchive(b.Snapshot().ArchiveInput())
				if out == "" {
					return report.Write(cmd.OutOrStdout(), archive, f)
				}
				return writeReportFile(out, archive, f)
			})
		},
	}

	cmd.Flags().StringVar(&format, "as", "", "Report format: yaml, markdown or html (default from --out, else markdown)")
	cmd.Flags().StringVar(&out, "out", "", "Write to this file instead of stdout")
	return cmd
}

func writeReportFile(path string, archive view.ArchiveBoard, f report.Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return report.Write(file, archive, f)
}
