// Package pagination implements the stateless page token protocol shared by
// every search endpoint.
//
// A page token is a colon separated list of integer cursors, in practice a
// single offset into a stable ordering. The server keeps no session state:
// any page can be re-requested from its token alone.
package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
)

// ParseToken splits token into exactly n non-negative integer cursors.
func ParseToken(token string, n int) ([]int, error) {
	parts := strings.Split(token, ":")
	if len(parts) != n {
		return nil, badPageToken(token, fmt.Sprintf("expected %d cursors, got %d", n, len(parts)))
	}

	cursors := make([]int, 0, n)
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, badPageToken(token, "cursor is not a non-negative integer")
		}
		cursors = append(cursors, v)
	}
	return cursors, nil
}

// Token renders cursors in the wire form accepted by ParseToken.
func Token(cursors ...int) string {
	parts := make([]string, 0, len(cursors))
	for _, c := range cursors {
		parts = append(parts, strconv.Itoa(c))
	}
	return strings.Join(parts, ":")
}

// StartOffset decodes a single-cursor token. An empty token starts at 0.
func StartOffset(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	cursors, err := ParseToken(token, 1)
	if err != nil {
		return 0, errx.Wrap(err)
	}
	return cursors[0], nil
}

// ParseIntegerArg converts an optional integer request argument. Numeric
// strings are accepted since 64-bit integers travel as JSON strings.
// A nil raw value yields def.
func ParseIntegerArg(name string, raw any, def int64) (int64, error) {
	if raw == nil {
		return def, nil
	}
	if s, ok := raw.(string); ok && s == "" {
		return def, nil
	}

	v, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, errx.New(
			fmt.Sprintf("Argument %s must be an integer", name),
			errx.WithCode(CodeBadRequest),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"argument": name, "value": raw}),
		)
	}
	return v, nil
}

// NormalizePageSize applies the default to an unset size and rejects
// negative ones.
func NormalizePageSize(size int, opts ...Option) (int, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case size < 0:
		return 0, errx.New(
			fmt.Sprintf("Bad page size: %d", size),
			errx.WithCode(CodeBadPageSize),
			errx.WithType(errx.T_Validation),
		)
	case size == 0:
		return o.DefaultPageSize, nil
	default:
		return size, nil
	}
}

func badPageToken(token, reason string) error {
	return errx.New(
		fmt.Sprintf("Bad page token: %s", token),
		errx.WithCode(CodeBadPageToken),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"reason": reason}),
	)
}
