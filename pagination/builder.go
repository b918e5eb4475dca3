package pagination

import (
	"encoding/json"
	"iter"
	"maps"
	"slices"

	"github.com/code19m/errx"
)

// NextPageTokenKey is the envelope key holding the continuation token.
const NextPageTokenKey = "nextPageToken"

// Page is a response envelope: the items under their table key plus an
// optional continuation token.
type Page[T any] struct {
	Key           string
	Items         []T
	NextPageToken string
}

// MarshalJSON renders {"<key>": [...], "nextPageToken": "..."}.
func (p Page[T]) MarshalJSON() ([]byte, error) {
	items := p.Items
	if items == nil {
		items = []T{}
	}

	out := map[string]any{p.Key: items}
	if p.NextPageToken != "" {
		out[NextPageTokenKey] = p.NextPageToken
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads an envelope written by MarshalJSON. The single
// non-token key becomes Key.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errx.Wrap(err)
	}

	if tok, ok := raw[NextPageTokenKey]; ok {
		if err := json.Unmarshal(tok, &p.NextPageToken); err != nil {
			return errx.Wrap(err)
		}
		delete(raw, NextPageTokenKey)
	}

	if len(raw) != 1 {
		return errx.New("page envelope must hold exactly one table", errx.WithDetails(errx.D{
			"keys": slices.Sorted(maps.Keys(raw)),
		}))
	}

	for k, v := range raw {
		p.Key = k
		if err := json.Unmarshal(v, &p.Items); err != nil {
			return errx.Wrap(err)
		}
	}
	return nil
}

// Builder accumulates a page until either the item cap or the byte budget is
// reached.
type Builder[T any] struct {
	key       string
	pageSize  int
	maxLength int

	items     []T
	length    int
	nextToken string
}

// NewBuilder returns a builder for a page stored under key. A zero page size
// takes the configured default; a negative one is rejected.
func NewBuilder[T any](key string, pageSize int, opts ...Option) (*Builder[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	size, err := NormalizePageSize(pageSize, opts...)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &Builder[T]{
		key:       key,
		pageSize:  size,
		maxLength: o.MaxResponseLength,
	}, nil
}

// Add appends item and remembers next as the page's continuation token.
func (b *Builder[T]) Add(item T, next string) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return errx.Wrap(err)
	}

	b.items = append(b.items, item)
	b.length += len(raw)
	b.nextToken = next
	return nil
}

// IsFull reports whether either cap has been reached.
func (b *Builder[T]) IsFull() bool {
	return len(b.items) >= b.pageSize || b.length >= b.maxLength
}

// Fill drains seq until the builder is full or seq is exhausted.
func (b *Builder[T]) Fill(seq iter.Seq2[T, string]) error {
	for item, next := range seq {
		if err := b.Add(item, next); err != nil {
			return errx.Wrap(err)
		}
		if b.IsFull() {
			break
		}
	}
	return nil
}

// Page returns the accumulated page.
func (b *Builder[T]) Page() *Page[T] {
	return &Page[T]{
		Key:           b.key,
		Items:         b.items,
		NextPageToken: b.nextToken,
	}
}
