package pagination_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/catalog/pagination"
)

// collect walks every page of items with page size p, following tokens.
func collect(t *testing.T, items []int, p int) ([]int, int) {
	t.Helper()

	var (
		got   []int
		token string
		calls int
	)
	for {
		calls++
		require.LessOrEqual(t, calls, len(items)+2, "pagination does not terminate")

		seq, err := pagination.FromSlice(token, items)
		require.NoError(t, err)

		b, err := pagination.NewBuilder[int]("items", p)
		require.NoError(t, err)
		require.NoError(t, b.Fill(seq))

		page := b.Page()
		got = append(got, page.Items...)
		if page.NextPageToken == "" {
			return got, calls
		}
		token = page.NextPageToken
	}
}

func TestPaginationCoverage(t *testing.T) {
	for n := 1; n <= 9; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i * 10
		}

		for p := 1; p <= n; p++ {
			t.Run(fmt.Sprintf("n=%d,p=%d", n, p), func(t *testing.T) {
				got, calls := collect(t, items, p)
				assert.Equal(t, items, got)
				assert.Equal(t, (n+p-1)/p, calls)
			})
		}
	}
}

func TestPaginateTokens(t *testing.T) {
	seq, err := pagination.Paginate("", 3, func(i int) string { return fmt.Sprint("obj", i) })
	require.NoError(t, err)

	var objs, tokens []string
	for obj, next := range seq {
		objs = append(objs, obj)
		tokens = append(tokens, next)
	}

	assert.Equal(t, []string{"obj0", "obj1", "obj2"}, objs)
	assert.Equal(t, []string{"1", "2", ""}, tokens)
}

func TestPaginateFromTokenPastEnd(t *testing.T) {
	seq, err := pagination.Paginate("10", 3, func(i int) int { return i })
	require.NoError(t, err)

	for range seq {
		t.Fatal("expected no items")
	}
}

func TestParseToken(t *testing.T) {
	cursors, err := pagination.ParseToken("3:14", 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 14}, cursors)
	assert.Equal(t, "3:14", pagination.Token(cursors...))

	for _, bad := range []string{"abc", "1:2", "-1", "1.5"} {
		_, err := pagination.ParseToken(bad, 1)
		require.Error(t, err, bad)
		assert.Equal(t, pagination.CodeBadPageToken, errx.AsErrorX(err).Code())
	}
}

func TestNormalizePageSize(t *testing.T) {
	size, err := pagination.NormalizePageSize(0)
	require.NoError(t, err)
	assert.Equal(t, 1800, size)

	size, err = pagination.NormalizePageSize(0, pagination.WithDefaultPageSize(25))
	require.NoError(t, err)
	assert.Equal(t, 25, size)

	size, err = pagination.NormalizePageSize(7)
	require.NoError(t, err)
	assert.Equal(t, 7, size)

	_, err = pagination.NormalizePageSize(-1)
	require.Error(t, err)
	assert.Equal(t, pagination.CodeBadPageSize, errx.AsErrorX(err).Code())
	assert.Equal(t, errx.T_Validation, errx.AsErrorX(err).Type())
}

func TestBuilderByteBudget(t *testing.T) {
	items := []string{
		strings.Repeat("a", 40),
		strings.Repeat("b", 40),
		strings.Repeat("c", 40),
	}

	seq, err := pagination.FromSlice("", items)
	require.NoError(t, err)

	// each item serializes to 42 bytes, so the budget is hit on the second
	b, err := pagination.NewBuilder[string]("items", 100, pagination.WithMaxResponseLength(60))
	require.NoError(t, err)
	require.NoError(t, b.Fill(seq))

	page := b.Page()
	assert.Equal(t, items[:2], page.Items)
	assert.Equal(t, "2", page.NextPageToken)
}

func TestPageJSON(t *testing.T) {
	page := pagination.Page[map[string]any]{
		Key:           "patients",
		Items:         []map[string]any{{"patientId": "p1"}},
		NextPageToken: "5",
	}

	raw, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"patients":[{"patientId":"p1"}],"nextPageToken":"5"}`, string(raw))

	var decoded pagination.Page[map[string]any]
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, page, decoded)

	empty, err := json.Marshal(pagination.Page[int]{Key: "table"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"table":[]}`, string(empty))
}

func TestParseIntegerArg(t *testing.T) {
	v, err := pagination.ParseIntegerArg("start", "150", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(150), v)

	v, err = pagination.ParseIntegerArg("start", float64(42), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = pagination.ParseIntegerArg("start", nil, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	_, err = pagination.ParseIntegerArg("start", "abc", 0)
	require.Error(t, err)
	assert.Equal(t, pagination.CodeBadRequest, errx.AsErrorX(err).Code())
}
