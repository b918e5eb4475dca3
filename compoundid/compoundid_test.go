package compoundid_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/catalog/compoundid"
)

func testKinds() (*compoundid.Kind, *compoundid.Kind, *compoundid.Kind) {
	dataset := compoundid.NewRootKind("dataset", "dataset")
	patient := compoundid.NewKind("patient", dataset, "pat", "patient")
	sample := compoundid.NewKind("sample", dataset, "sam", "sample")
	return dataset, patient, sample
}

func TestRoundTripAcrossPaddingBoundaries(t *testing.T) {
	dataset, patient, _ := testKinds()

	// name lengths 0..11 walk the encoded length through every value mod 4
	for n := range 12 {
		name := strings.Repeat("x", n)
		t.Run(name, func(t *testing.T) {
			ds := dataset.Root("ds1")
			id := patient.Of(ds, name)

			encoded := id.String()
			assert.NotContains(t, encoded, "=")

			parsed, err := patient.Parse(encoded)
			require.NoError(t, err)
			assert.Equal(t, id.Values(), parsed.Values())
			assert.Equal(t, name, parsed.Value("patient"))
			assert.Equal(t, "ds1", parsed.Value("dataset"))
		})
	}
}

func TestJoinSplitRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []string
	}{
		{name: "plain", values: []string{"a", "b"}},
		{name: "quotes", values: []string{`say "hi"`, `"`}},
		{name: "backslash", values: []string{`a\b`, `\"`}},
		{name: "unicode", values: []string{"données", "患者"}},
		{name: "empty values", values: []string{"", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joined := compoundid.Join(tt.values)

			decoded, ok := compoundid.Decode(compoundid.Encode(joined))
			require.True(t, ok)

			values, ok := compoundid.Split(decoded)
			require.True(t, ok)
			assert.Equal(t, tt.values, values)
		})
	}
}

func TestJoinMatchesWireLayout(t *testing.T) {
	assert.Equal(t, `["ds","pat","p1"]`, compoundid.Join([]string{"ds", "pat", "p1"}))
	assert.Equal(t, `[]`, compoundid.Join(nil))
}

func TestDecodeRestoresPadding(t *testing.T) {
	for _, s := range []string{"a", "ab", "abc", "abcd", "abcde"} {
		encoded := base64.RawURLEncoding.EncodeToString([]byte(s))
		decoded, ok := compoundid.Decode(encoded)
		require.True(t, ok, s)
		assert.Equal(t, s, decoded)
	}
}

func TestParseFailuresAreNotFound(t *testing.T) {
	dataset, patient, sample := testKinds()
	ds := dataset.Root("ds1")

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not base64", input: "!!!***"},
		{name: "invalid utf8", input: compoundid.Encode(string([]byte{0xff, 0xfe, 0xfd}))},
		{name: "not an array", input: compoundid.Encode(`{"a":1}`)},
		{name: "too few fields", input: compoundid.Encode(compoundid.Join([]string{"ds1", "pat"}))},
		{name: "too many fields", input: compoundid.Encode(compoundid.Join([]string{"ds1", "pat", "p", "x"}))},
		{name: "other kind", input: sample.Of(ds, "s1").String()},
		{name: "length one mod four", input: "abcde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := patient.Parse(tt.input)
			require.Error(t, err)

			e := errx.AsErrorX(err)
			assert.Equal(t, compoundid.CodeObjectNotFound, e.Code())
			assert.Equal(t, errx.T_NotFound, e.Type())
		})
	}
}

func TestContainers(t *testing.T) {
	dataset, patient, _ := testKinds()
	variantSet := compoundid.NewKind("variantSet", dataset, "vs", "variantSet")
	variant := compoundid.NewKind("variant", variantSet, "", "variant")

	ds := dataset.Root("ds1")
	p := patient.Of(ds, "p1")

	datasetID, ok := p.Container("datasetId")
	require.True(t, ok)
	assert.Equal(t, ds.String(), datasetID)

	vs := variantSet.Of(ds, "vs1")
	v := variant.Of(vs, "v1")

	vsID, ok := v.Container("variantSetId")
	require.True(t, ok)
	assert.Equal(t, vs.String(), vsID)

	datasetID, ok = v.Container("datasetId")
	require.True(t, ok)
	assert.Equal(t, ds.String(), datasetID)

	_, ok = p.Container("variantSetId")
	assert.False(t, ok)
}

func TestOfPanicsOnWrongArity(t *testing.T) {
	dataset, patient, _ := testKinds()
	assert.Panics(t, func() {
		patient.Of(dataset.Root("ds1"), "p1", "extra")
	})
}

func TestParseChecksInheritedDifferentiator(t *testing.T) {
	dataset, _, _ := testKinds()
	variantSet := compoundid.NewKind("variantSet", dataset, "vs", "variantSet")
	variant := compoundid.NewKind("variant", variantSet, "", "variant")

	v := variant.Of(variantSet.Of(dataset.Root("ds1"), "vs1"), "v1")
	parsed, err := variant.Parse(v.String())
	require.NoError(t, err)
	assert.Equal(t, "v1", parsed.Value("variant"))

	forged := compoundid.Encode(compoundid.Join([]string{"ds1", "xx", "vs1", "v1"}))
	_, err = variant.Parse(forged)
	assert.True(t, errx.IsCodeIn(err, compoundid.CodeObjectNotFound))
}
