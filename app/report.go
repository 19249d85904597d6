package app

import (
	"io"

	"github.com/ludo-technologies/sourcerer/domain"
	svc "github.com/ludo-technologies/sourcerer/service"
)

// ReportTarget says where and how a command writes its report. Path wins
// over Writer when both are set.
type ReportTarget struct {
	Format domain.OutputFormat
	Writer io.Writer
	Path   string
}

func (t ReportTarget) format() domain.OutputFormat {
	if t.Format == "" {
		return domain.OutputFormatText
	}
	return t.Format
}

// writeReport sends the output of render to target through output
func writeReport(output domain.ReportWriter, target ReportTarget, render func(io.Writer, domain.OutputFormat) error) error {
	if target.Writer == nil && target.Path == "" {
		return nil
	}
	var out io.Writer
	if target.Path == "" {
		out = target.Writer
	}
	format := target.format()
	if err := output.Write(out, target.Path, format, func(w io.Writer) error {
		return render(w, format)
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// summaryReport renders a build style summary
func summaryReport(formatter *svc.SummaryFormatter, title string, fields []svc.SummaryField, value interface{}) func(io.Writer, domain.OutputFormat) error {
	return func(w io.Writer, format domain.OutputFormat) error {
		return formatter.FormatSummary(title, fields, value, format, w)
	}
}
