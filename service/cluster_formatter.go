package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/constants"
)

// ClusterOutputFormatter implements domain.ClusterOutputFormatter
type ClusterOutputFormatter struct {
	utils *FormatUtils
}

// NewClusterOutputFormatter creates a new cluster output formatter
func NewClusterOutputFormatter() *ClusterOutputFormatter {
	return &ClusterOutputFormatter{utils: NewFormatUtils()}
}

// FormatStatistics renders a fragmentation report. The text format is the
// statistics log itself.
func (f *ClusterOutputFormatter) FormatStatistics(response *domain.ClusterStatsResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		_, err := io.WriteString(writer, response.Log)
		return err
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response.Report)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response.Report)
	case domain.OutputFormatCSV:
		rows := make([][]string, 0, len(response.Report.Clusters))
		for _, c := range response.Report.Clusters {
			rows = append(rows, []string{
				strconv.Itoa(c.Index),
				strconv.Itoa(len(c.Jars)),
				strconv.Itoa(c.CoreFqns),
				strconv.Itoa(c.ExtraFqns),
				jarNames(c.Jars, ";"),
			})
		}
		return WriteCSV(writer, []string{"cluster", "jars", "core_fqns", "extra_fqns", "jar_names"}, rows)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// FormatLookup renders the owner of each looked up FQN
func (f *ClusterOutputFormatter) FormatLookup(results []domain.ClusterLookupResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		fmt.Fprint(writer, f.utils.FormatMainHeader("Cluster Lookup"))
		f.utils.WriteTable(writer, []string{"FQN", "Cluster", "Part", "Core", "Extra", "Jars"}, lookupRows(results, ", "))
		return nil
	case domain.OutputFormatJSON:
		return WriteJSON(writer, results)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, results)
	case domain.OutputFormatCSV:
		return WriteCSV(writer, []string{"fqn", "cluster", "part", "core_fqns", "extra_fqns", "jars"}, lookupRows(results, ";"))
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func lookupRows(results []domain.ClusterLookupResult, sep string) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if !r.Found {
			rows = append(rows, []string{r.Fqn, constants.NoneMarker, constants.NoneMarker,
				constants.NoneMarker, constants.NoneMarker, constants.NoneMarker})
			continue
		}
		part := "extra"
		if r.Core {
			part = "core"
		}
		rows = append(rows, []string{
			r.Fqn,
			strconv.Itoa(r.Cluster),
			part,
			strconv.Itoa(r.CoreFqns),
			strconv.Itoa(r.ExtraFqns),
			jarNames(r.Jars, sep),
		})
	}
	return rows
}

func jarNames(jars []domain.JarRef, sep string) string {
	names := make([]string, len(jars))
	for i, j := range jars {
		names[i] = j.Name
		if j.Version != "" {
			names[i] += "-" + j.Version
		}
	}
	return strings.Join(names, sep)
}
