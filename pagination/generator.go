package pagination

import (
	"iter"
	"strconv"

	"github.com/code19m/errx"
)

// Paginate yields fetch(i) for every index from the token's offset up to
// total, paired with the token of the following index. The token paired with
// the last object is empty.
func Paginate[T any](startToken string, total int, fetch func(int) T) (iter.Seq2[T, string], error) {
	start, err := StartOffset(startToken)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return func(yield func(T, string) bool) {
		for i := start; i < total; i++ {
			next := ""
			if i+1 != total {
				next = strconv.Itoa(i + 1)
			}
			if !yield(fetch(i), next) {
				return
			}
		}
	}, nil
}

// FromSlice paginates a list of already converted objects.
func FromSlice[T any](startToken string, items []T) (iter.Seq2[T, string], error) {
	return Paginate(startToken, len(items), func(i int) T { return items[i] })
}
