package service

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/constants"
)

// SummaryFormatter renders the short results of build style commands and
// trie lookups
type SummaryFormatter struct {
	utils *FormatUtils
}

// NewSummaryFormatter creates a new summary formatter
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{utils: NewFormatUtils()}
}

// SummaryField is one labelled value of a summary
type SummaryField struct {
	Label string
	Value interface{}
}

// FormatSummary writes fields under title in text and csv. The structured
// formats encode value as is.
func (f *SummaryFormatter) FormatSummary(title string, fields []SummaryField, value interface{}, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		fmt.Fprint(writer, f.utils.FormatMainHeader(title))
		for _, field := range fields {
			fmt.Fprint(writer, f.utils.FormatLabelWithIndent(2, field.Label, field.Value))
		}
		return nil
	case domain.OutputFormatJSON:
		return WriteJSON(writer, value)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, value)
	case domain.OutputFormatCSV:
		rows := make([][]string, 0, len(fields))
		for _, field := range fields {
			rows = append(rows, []string{field.Label, fmt.Sprint(field.Value)})
		}
		return WriteCSV(writer, []string{"field", "value"}, rows)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// FormatTrieLookup renders trie lookup results
func (f *SummaryFormatter) FormatTrieLookup(results []domain.TrieLookupResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		fmt.Fprint(writer, f.utils.FormatMainHeader("Trie Lookup"))
		f.utils.WriteTable(writer, []string{"FQN", "Depth", "Children", "Leaves"}, trieRows(results))
		return nil
	case domain.OutputFormatJSON:
		return WriteJSON(writer, results)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, results)
	case domain.OutputFormatCSV:
		return WriteCSV(writer, []string{"fqn", "depth", "children", "leaves"}, trieRows(results))
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func trieRows(results []domain.TrieLookupResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if !r.Found {
			rows = append(rows, []string{r.Fqn, constants.NoneMarker, constants.NoneMarker, constants.NoneMarker})
			continue
		}
		rows = append(rows, []string{r.Fqn, strconv.Itoa(r.Depth), strconv.Itoa(r.Children), strconv.Itoa(r.Leaves)})
	}
	return rows
}
