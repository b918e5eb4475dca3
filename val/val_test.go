package val_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/catalog/val"
)

type searchPath struct {
	Endpoint string `params:"endpoint" validate:"required,identifier"`
	Mode     string `json:"mode"      validate:"omitempty,oneof=search count"`
	Attempts int    `yaml:"attempts"  validate:"gte=1"`
}

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name   string
		input  searchPath
		fields map[string]string
	}{
		{
			name:  "valid",
			input: searchPath{Endpoint: "variantsByGene", Mode: "count", Attempts: 1},
		},
		{
			name:  "all invalid",
			input: searchPath{Endpoint: "bad-name", Mode: "sum"},
			fields: map[string]string{
				"endpoint": "Must be a camelCase identifier",
				"mode":     "Must be one of: search, count",
				"attempts": "Must be greater than or equal to 1",
			},
		},
		{
			name:  "missing endpoint",
			input: searchPath{Attempts: 2},
			fields: map[string]string{
				"endpoint": "This field is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := val.ValidateSchema(tt.input)
			if tt.fields == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			e := errx.AsErrorX(err)
			assert.Equal(t, val.CodeValidationFailed, e.Code())
			assert.Equal(t, errx.T_Validation, e.Type())
			for k, v := range tt.fields {
				assert.Equal(t, v, e.Fields()[k], k)
			}
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, val.IsIdentifier("patients"))
	assert.True(t, val.IsIdentifier("sequencingRuns"))
	assert.False(t, val.IsIdentifier("1patients"))
	assert.False(t, val.IsIdentifier("gene_name"))
	assert.False(t, val.IsIdentifier(""))
}
