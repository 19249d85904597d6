package service

import (
	"fmt"

	"github.com/ludo-technologies/sourcerer/domain"
)

// OutputFormatResolver resolves the output format from flags.
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine evaluates format flags and returns the selected format.
// At most one of json/csv/yaml may be true; if none are true, fallback is
// used, and text when fallback is empty.
func (r *OutputFormatResolver) Determine(json, csv, yaml bool, fallback string) (domain.OutputFormat, error) {
	formatCount := 0
	var format domain.OutputFormat

	if json {
		formatCount++
		format = domain.OutputFormatJSON
	}
	if csv {
		formatCount++
		format = domain.OutputFormatCSV
	}
	if yaml {
		formatCount++
		format = domain.OutputFormatYAML
	}

	if formatCount > 1 {
		return "", fmt.Errorf("only one output format flag can be specified")
	}
	if formatCount == 0 {
		return domain.ParseOutputFormat(fallback)
	}
	return format, nil
}
