package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfidence(t *testing.T) {
	tests := []struct {
		in      string
		want    Confidence
		wantErr bool
	}{
		{"HIGH", ConfidenceHigh, false},
		{"medium", ConfidenceMedium, false},
		{"Low", ConfidenceLow, false},
		{"certain", ConfidenceLow, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseConfidence(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, HasCode(err, ErrCodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfidenceAndMethodJSON(t *testing.T) {
	in := MethodStatistics{Method: MethodFingerprint, Total: 4, Unique: 1, Duplicated: 3}
	data, err := json.Marshal(ConfidenceStatistics{Confidence: ConfidenceMedium, Methods: []MethodStatistics{in}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"confidence":"MEDIUM"`)
	assert.Contains(t, string(data), `"method":"FINGERPRINT"`)

	var out ConfidenceStatistics
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, ConfidenceMedium, out.Confidence)
	assert.Equal(t, []MethodStatistics{in}, out.Methods)

	var m DetectionMethod
	assert.Error(t, m.UnmarshalText([]byte("SOUNDEX")))
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{
		"":      OutputFormatText,
		"TEXT":  OutputFormatText,
		" json": OutputFormatJSON,
		"yml":   OutputFormatYAML,
		"csv":   OutputFormatCSV,
	} {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOutputFormat("html")
	assert.True(t, HasCode(err, ErrCodeUnsupportedFormat))
	assert.Equal(t, "txt", OutputFormatText.Extension())
	assert.Equal(t, "yaml", OutputFormatYAML.Extension())
}

func TestCloningStatsRequestValidate(t *testing.T) {
	valid := func() *CloningStatsRequest {
		return &CloningStatsRequest{
			HashListing:            "hash-listing.txt",
			FqnListing:             "fqn-listing.txt",
			FingerprintListing:     "fingerprint-listing.txt",
			MinimumFqnDots:         3,
			MinimumJaccardIndex:    0.75,
			MinimumFingerprintSize: 5,
			PopularNameLimit:       1000,
		}
	}
	require.NoError(t, valid().Validate())

	for name, mutate := range map[string]func(*CloningStatsRequest){
		"missing hash listing": func(r *CloningStatsRequest) { r.HashListing = "" },
		"jaccard above one":    func(r *CloningStatsRequest) { r.MinimumJaccardIndex = 1.5 },
		"empty fingerprint":    func(r *CloningStatsRequest) { r.MinimumFingerprintSize = 0 },
		"no popular limit":     func(r *CloningStatsRequest) { r.PopularNameLimit = 0 },
	} {
		req := valid()
		mutate(req)
		err := req.Validate()
		require.Error(t, err, name)
		assert.True(t, HasCode(err, ErrCodeInvalidInput), name)
	}
}
