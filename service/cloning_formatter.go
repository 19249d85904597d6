package service

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ludo-technologies/sourcerer/domain"
)

// CloningOutputFormatter implements domain.CloningOutputFormatter
type CloningOutputFormatter struct {
	utils *FormatUtils
}

// NewCloningOutputFormatter creates a new cloning output formatter
func NewCloningOutputFormatter() *CloningOutputFormatter {
	return &CloningOutputFormatter{utils: NewFormatUtils()}
}

// Format renders response in the requested format
func (f *CloningOutputFormatter) Format(response *domain.CloningStatsResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatAsText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatAsCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *CloningOutputFormatter) formatAsText(r *domain.CloningStatsResponse, w io.Writer) error {
	u := f.utils
	fmt.Fprint(w, u.FormatMainHeader("Cloning Statistics"))
	fmt.Fprint(w, u.FormatLabelWithIndent(SectionPadding, "Projects", r.ProjectCount))
	fmt.Fprint(w, u.FormatLabelWithIndent(SectionPadding, "Files", r.FileCount))
	fmt.Fprint(w, u.FormatLabelWithIndent(SectionPadding, "Dir missing", r.DirMissing))
	fmt.Fprintln(w)

	if fs := r.FileSets; fs != nil {
		fmt.Fprint(w, u.FormatSectionHeader("File sets"))
		fmt.Fprint(w, u.FormatLabelWithIndent(SectionPadding, "Total files", fs.TotalFiles))
		fmt.Fprint(w, u.FormatLabelWithIndent(SectionPadding, "Missing hash", fs.MissingHash))
		fmt.Fprint(w, u.FormatLabelWithIndent(SectionPadding, "Missing fqn", fs.MissingFqn))
		fmt.Fprint(w, u.FormatLabelWithIndent(SectionPadding, "Missing fingerprint", fs.MissingFingerprint))
		fmt.Fprint(w, u.FormatLabelWithIndent(SectionPadding, "Complete", fs.Complete))
		fmt.Fprintln(w)
	}

	for _, level := range r.Statistics {
		fmt.Fprint(w, u.FormatSectionHeader(level.Confidence.String()+" confidence"))
		rows := make([][]string, 0, len(level.Methods))
		for _, m := range level.Methods {
			rows = append(rows, []string{
				m.Method.Label(),
				strconv.Itoa(m.Total),
				strconv.Itoa(m.Unique),
				strconv.Itoa(m.Duplicated),
				u.FormatPercentage(m.CloningRate),
			})
		}
		u.WriteTable(w, []string{"Method", "Total", "Unique", "Duplicated", "Cloning rate"}, rows)
		if n, ok := r.CombinedUnique[level.Confidence.String()]; ok {
			fmt.Fprint(w, u.FormatLabelWithIndent(SectionPadding, "Unique combined keys", n))
		}
		fmt.Fprintln(w)
	}

	if len(r.Projects) > 0 {
		fmt.Fprint(w, u.FormatSectionHeader("Unique files per project"))
		rows := make([][]string, 0, len(r.Projects))
		for _, p := range r.Projects {
			rows = append(rows, []string{
				p.Project,
				strconv.Itoa(p.Size),
				strconv.Itoa(p.HashUnique),
				strconv.Itoa(p.FqnUnique),
				strconv.Itoa(p.FingerprintUnique),
				strconv.Itoa(p.CombinedUnique),
				strconv.Itoa(p.DirUnique),
			})
		}
		u.WriteTable(w, []string{"Project", "Size", "Hash", "FQN", "Fingerprint", "Combined", "Dir"}, rows)
		fmt.Fprintln(w)
	}

	if len(r.ProjectMatching) > 0 {
		fmt.Fprint(w, u.FormatSectionHeader("Project matching"))
		rows := make([][]string, 0, len(r.ProjectMatching))
		for _, s := range r.ProjectMatching {
			rows = append(rows, []string{
				s.Confidence.String(),
				s.Method.Label(),
				strconv.Itoa(s.ProjectsWithClones),
				fmt.Sprintf("%.2f", s.MeanClonedFiles),
				fmt.Sprintf("%.2f", s.StdDevClonedFiles),
				u.FormatPercentage(s.UnweightedPercent),
				u.FormatPercentage(s.WeightedPercent),
				fmt.Sprintf("%.2f", s.MeanFilesPerPair),
				strconv.Itoa(s.MaxFilesPerPair),
			})
		}
		u.WriteTable(w, []string{"Confidence", "Method", "With clones", "Mean", "Std dev",
			"Unweighted", "Weighted", "Mean/pair", "Max/pair"}, rows)
		fmt.Fprintln(w)
	}

	if len(r.MostCloning) > 0 {
		fmt.Fprint(w, u.FormatSectionHeader("Most cloning projects"))
		rows := make([][]string, 0, len(r.MostCloning))
		for _, p := range r.MostCloning {
			rows = append(rows, []string{
				p.Project,
				strconv.Itoa(p.Size),
				p.MatchedProject,
				strconv.Itoa(p.ClonedFiles),
				u.FormatPercentage(p.Percent),
			})
		}
		u.WriteTable(w, []string{"Project", "Size", "Matched project", "Cloned", "Percent"}, rows)
		fmt.Fprintln(w)
	}

	if len(r.HighConfidencePairs) > 0 {
		fmt.Fprint(w, u.FormatSectionHeader("High confidence pairs"))
		for _, p := range r.HighConfidencePairs {
			fmt.Fprintf(w, "%s %s\n", p.Method, formatPair(p))
		}
	}
	return nil
}

// formatPair renders "source target", marking hash-identical pairs with "H: "
func formatPair(p domain.FilePair) string {
	s := p.Source + " " + p.Target
	if p.HashMatch {
		return "H: " + s
	}
	return s
}

func (f *CloningOutputFormatter) formatAsCSV(r *domain.CloningStatsResponse, w io.Writer) error {
	var rows [][]string
	for _, level := range r.Statistics {
		for _, m := range level.Methods {
			rows = append(rows, []string{
				level.Confidence.String(),
				m.Method.String(),
				strconv.Itoa(m.Total),
				strconv.Itoa(m.Unique),
				strconv.Itoa(m.Duplicated),
				strconv.FormatFloat(m.CloningRate, 'f', 4, 64),
			})
		}
	}
	return WriteCSV(w, []string{"confidence", "method", "total", "unique", "duplicated", "cloning_rate"}, rows)
}
