package service

import (
	"github.com/ludo-technologies/sourcerer/domain"
)

// ErrorCategorizerImpl maps errors to categories with recovery hints
type ErrorCategorizerImpl struct{}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() *ErrorCategorizerImpl {
	return &ErrorCategorizerImpl{}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	return domain.CategorizeError(err)
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the listing files exist and are readable",
			"Listings are whitespace separated, one record per line",
		},
		domain.ErrorCategoryConfig: {
			"Verify the values in .sourcerer.toml or the file passed to --config",
			"SOURCERER_* environment variables override configuration files",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions for the output path",
			"Use --json, --yaml or --csv, or omit them for text",
		},
		domain.ErrorCategoryData: {
			"The input contradicts itself; regenerate the listing or cluster file",
			"Run with --verbose to see which lines were skipped",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}
