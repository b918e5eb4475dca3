package filter_test

import (
	"slices"
	"testing"

	"github.com/code19m/errx"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/catalog/filter"
)

type object map[string]any

func (o object) Field(name string) (any, bool) {
	v, ok := o[name]
	return v, ok
}

func (o object) FieldNames() []string {
	names := lo.Keys(o)
	slices.Sort(names)
	return names
}

func patient() object {
	return object{
		"patientId":           "PATIENT_1",
		"gender":              "female",
		"provinceOfResidence": "Ontario",
		"ageAtDiagnosis":      float64(54),
		"deceased":            false,
		"comorbidities":       []string{"asthma", "diabetes"},
	}
}

func mustValidate(t *testing.T, raws ...filter.Raw) []filter.Filter {
	t.Helper()
	filters, err := filter.Validate(raws)
	require.NoError(t, err)
	return filters
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     filter.Raw
		wantMsg string
	}{
		{
			name:    "missing operator",
			raw:     filter.Raw{Field: "gender", Value: "male"},
			wantMsg: "Please specify field and/or operator in your filters.",
		},
		{
			name:    "missing field",
			raw:     filter.Raw{Operator: "eq", Value: "male"},
			wantMsg: "Please specify field and/or operator in your filters.",
		},
		{
			name:    "value and values",
			raw:     filter.Raw{Field: "gender", Operator: "in", Value: "male", Values: []any{"male"}},
			wantMsg: "You can only specify one of value or values in one filter.",
		},
		{
			name:    "in without values",
			raw:     filter.Raw{Field: "gender", Operator: "in", Value: "male"},
			wantMsg: "You can only use the in operator when you supply a list of values in your filter.",
		},
		{
			name:    "values with eq",
			raw:     filter.Raw{Field: "gender", Operator: "eq", Values: []any{"male"}},
			wantMsg: "If you specify a list of values in your filter, the operator has to be in.",
		},
		{
			name:    "neither value nor values",
			raw:     filter.Raw{Field: "gender", Operator: "eq"},
			wantMsg: "You need to specify one of value or values in one filter.",
		},
		{
			name:    "unknown operator",
			raw:     filter.Raw{Field: "gender", Operator: "like", Value: "m%"},
			wantMsg: "Unsupported filter operator: like.",
		},
		{
			name:    "nested list in values",
			raw:     filter.Raw{Field: "gender", Operator: "in", Values: []any{[]any{"a"}}},
			wantMsg: "Values in a list filter must be strings, numbers or booleans.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := filter.Validate([]filter.Raw{tt.raw})
			require.Error(t, err)

			e := errx.AsErrorX(err)
			assert.Equal(t, filter.CodeBadRequest, e.Code())
			assert.Equal(t, errx.T_Validation, e.Type())
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateBuildsSet(t *testing.T) {
	filters := mustValidate(t, filter.Raw{
		Field:    "gender",
		Operator: "IN",
		Values:   []any{"male", "female", "male", float64(3)},
	})

	require.Len(t, filters, 1)
	assert.Equal(t, filter.OpIn, filters[0].Operator)
	assert.Len(t, filters[0].Values, 3)
}

func TestMatchesOperators(t *testing.T) {
	tests := []struct {
		name string
		raw  filter.Raw
		want bool
	}{
		{name: "eq string", raw: filter.Raw{Field: "gender", Operator: "eq", Value: "female"}, want: true},
		{name: "== alias", raw: filter.Raw{Field: "gender", Operator: "==", Value: "male"}, want: false},
		{name: "ne", raw: filter.Raw{Field: "gender", Operator: "!=", Value: "male"}, want: true},
		{name: "eq across kinds is false", raw: filter.Raw{Field: "ageAtDiagnosis", Operator: "=", Value: "54"}},
		{name: "ne across kinds is true", raw: filter.Raw{Field: "ageAtDiagnosis", Operator: "ne", Value: "54"}, want: true},
		{name: "gt number", raw: filter.Raw{Field: "ageAtDiagnosis", Operator: ">", Value: 50}, want: true},
		{name: "lt number", raw: filter.Raw{Field: "ageAtDiagnosis", Operator: "lt", Value: 50}},
		{name: "ge equal", raw: filter.Raw{Field: "ageAtDiagnosis", Operator: ">=", Value: float64(54)}, want: true},
		{name: "le equal", raw: filter.Raw{Field: "ageAtDiagnosis", Operator: "le", Value: 54}, want: true},
		{name: "string ordering", raw: filter.Raw{Field: "provinceOfResidence", Operator: "gt", Value: "Alberta"}, want: true},
		{name: "bool eq", raw: filter.Raw{Field: "deceased", Operator: "eq", Value: false}, want: true},
		{name: "substring", raw: filter.Raw{Field: "provinceOfResidence", Operator: "contains", Value: "tar"}, want: true},
		{name: "list element", raw: filter.Raw{Field: "comorbidities", Operator: "contains", Value: "asthma"}, want: true},
		{name: "missing list element", raw: filter.Raw{Field: "comorbidities", Operator: "contains", Value: "flu"}},
		{name: "in", raw: filter.Raw{Field: "gender", Operator: "in", Values: []any{"male", "female"}}, want: true},
		{name: "in numeric", raw: filter.Raw{Field: "ageAtDiagnosis", Operator: "in", Values: []any{54}}, want: true},
		{name: "not in", raw: filter.Raw{Field: "gender", Operator: "in", Values: []any{"male"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filter.Matches(patient(), mustValidate(t, tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesBadInputType(t *testing.T) {
	tests := []filter.Raw{
		{Field: "ageAtDiagnosis", Operator: "gt", Value: "fifty"},
		{Field: "ageAtDiagnosis", Operator: "contains", Value: "5"},
		{Field: "comorbidities", Operator: "in", Values: []any{"asthma"}},
		{Field: "provinceOfResidence", Operator: "contains", Value: 5},
	}

	for _, raw := range tests {
		t.Run(raw.Field+" "+raw.Operator, func(t *testing.T) {
			_, err := filter.Matches(patient(), mustValidate(t, raw))
			require.Error(t, err)
			assert.Equal(t, filter.CodeBadInputType, errx.AsErrorX(err).Code())
		})
	}
}

func TestMatchesAbsentAttribute(t *testing.T) {
	sparse := object{"patientId": "PATIENT_3", "comorbidities": nil, "ageAtDiagnosis": nil}

	tests := []filter.Raw{
		{Field: "comorbidities", Operator: "contains", Value: "asthma"},
		{Field: "ageAtDiagnosis", Operator: "gt", Value: 50},
		{Field: "ageAtDiagnosis", Operator: "le", Value: 50},
		{Field: "ageAtDiagnosis", Operator: "eq", Value: 50},
		{Field: "ageAtDiagnosis", Operator: "ne", Value: 50},
		{Field: "comorbidities", Operator: "in", Values: []any{"asthma"}},
	}

	for _, raw := range tests {
		t.Run(raw.Field+" "+raw.Operator, func(t *testing.T) {
			got, err := filter.Matches(sparse, mustValidate(t, raw))
			require.NoError(t, err)
			assert.False(t, got)
		})
	}
}

func TestMatchesFieldMiss(t *testing.T) {
	_, err := filter.Matches(patient(), mustValidate(t, filter.Raw{Field: "gendr", Operator: "eq", Value: "x"}))
	require.Error(t, err)
	e := errx.AsErrorX(err)
	assert.Equal(t, filter.CodeFieldNameSuggestion, e.Code())
	assert.Contains(t, err.Error(), "'gender'")

	_, err = filter.Matches(patient(), mustValidate(t, filter.Raw{Field: "zzz", Operator: "eq", Value: "x"}))
	require.Error(t, err)
	assert.Equal(t, filter.CodeUnknownField, errx.AsErrorX(err).Code())
}

func TestMatchesStopsAtFirstFailure(t *testing.T) {
	// the second filter names an unknown field but is never reached
	filters := mustValidate(t,
		filter.Raw{Field: "gender", Operator: "eq", Value: "male"},
		filter.Raw{Field: "nope", Operator: "eq", Value: "x"},
	)

	got, err := filter.Matches(patient(), filters)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestConjunctionAndMonotonicity(t *testing.T) {
	raws := []filter.Raw{
		{Field: "gender", Operator: "eq", Value: "female"},
		{Field: "ageAtDiagnosis", Operator: "gt", Value: 60},
		{Field: "provinceOfResidence", Operator: "contains", Value: "Ont"},
		{Field: "deceased", Operator: "eq", Value: true},
	}
	obj := patient()

	individual := make([]bool, len(raws))
	for i, raw := range raws {
		ok, err := filter.Matches(obj, mustValidate(t, raw))
		require.NoError(t, err)
		individual[i] = ok
	}

	// every subset: the conjunction holds iff each member holds
	for mask := range 1 << len(raws) {
		var subset []filter.Raw
		want := true
		for i, raw := range raws {
			if mask&(1<<i) != 0 {
				subset = append(subset, raw)
				want = want && individual[i]
			}
		}

		got, err := filter.Matches(obj, mustValidate(t, subset...))
		require.NoError(t, err)
		assert.Equal(t, want, got, "subset mask %b", mask)

		// dropping a filter never turns a pass into a failure
		if got {
			for i := range subset {
				rest := append(slices.Clone(subset[:i]), subset[i+1:]...)
				ok, err := filter.Matches(obj, mustValidate(t, rest...))
				require.NoError(t, err)
				assert.True(t, ok)
			}
		}
	}
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"patientId", "gender", "provinceOfResidence", "treatingCentreName"}

	match, ok := filter.ClosestMatch("provinceOfResidance", candidates)
	require.True(t, ok)
	assert.Equal(t, "provinceOfResidence", match)

	match, ok = filter.ClosestMatch("patientID", candidates)
	require.True(t, ok)
	assert.Equal(t, "patientId", match)

	_, ok = filter.ClosestMatch("courseNumber", candidates)
	assert.False(t, ok)
}
