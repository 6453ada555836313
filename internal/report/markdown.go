package report

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
)

// ReportFilename is the name of the markdown report written into the
// content directory's parent.
const ReportFilename = "BUILD_REPORT.md"

const timeRounding = 10 * time.Millisecond

// WriteMarkdown renders the run report as a markdown document.
func (r *RunReport) WriteMarkdown(w io.Writer) error {
	md := markdown.NewMarkdown(w)

	md.H1("API Documentation Build Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + r.RunID + "`"},
			{"Started", r.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", r.Duration().Round(timeRounding).String()},
			{"Modules", strconv.Itoa(len(r.Results))},
		},
	})
	md.PlainText("")

	md.H2("Outcomes")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Written", strconv.Itoa(r.Count(OutcomeWritten))},
			{"Unchanged", strconv.Itoa(r.Count(OutcomeUnchanged))},
			{"Skipped", strconv.Itoa(r.Count(OutcomeSkipped))},
			{"Failed", strconv.Itoa(r.Count(OutcomeFailed))},
		},
	})
	md.PlainText("")

	if len(r.Timings) > 0 {
		stages := make([]string, 0, len(r.Timings))
		for stage := range r.Timings {
			stages = append(stages, stage)
		}
		sort.Strings(stages)

		md.H2("Stages")
		md.PlainText("")
		rows := make([][]string, 0, len(stages))
		for _, stage := range stages {
			rows = append(rows, []string{stage, r.Timings[stage].Round(timeRounding).String()})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Stage", "Duration"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if counts := r.ConverterCounts(); len(counts) > 0 {
		md.H2("Converters")
		md.PlainText("")
		rows := make([][]string, 0, len(counts))
		for _, c := range counts {
			rows = append(rows, []string{c.Converter, strconv.Itoa(c.Pages)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Converter", "Pages"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if failures := r.Failures(); len(failures) > 0 {
		md.H2("Failures")
		md.PlainText("")
		rows := make([][]string, 0, len(failures))
		for _, f := range failures {
			rows = append(rows, []string{"`" + f.Module + "`", f.Error})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Module", "Error"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(r.Removed) > 0 {
		md.H2("Removed Pages")
		md.PlainText("")
		items := make([]string, 0, len(r.Removed))
		for _, name := range r.Removed {
			items = append(items, "`"+name+"`")
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	return md.Build()
}

// WriteMarkdownFile writes the report next to the content directory.
func (r *RunReport) WriteMarkdownFile(dir string) (string, error) {
	path := filepath.Join(dir, ReportFilename)
	f, err := os.Create(path)
	if err != nil {
		return "", derrors.WrapFileSystemError(err, "failed to create build report")
	}
	defer f.Close()

	if err := r.WriteMarkdown(f); err != nil {
		return "", derrors.WrapFileSystemError(err, "failed to write build report")
	}
	return path, nil
}
