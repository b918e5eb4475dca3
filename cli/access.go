package cli

import (
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/spf13/cast"

	"github.com/rise-and-shine/catalog/access"
)

const codeBadAccessFlag = "BAD_ACCESS_FLAG"

// parseAccess reads "dataset=tier,dataset=tier". An empty string yields nil.
func parseAccess(s string) (access.Map, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	am := make(access.Map)
	for _, pair := range strings.Split(s, ",") {
		name, tier, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" {
			return nil, badAccess(pair, "expected dataset=tier")
		}

		n, err := cast.ToIntE(strings.TrimSpace(tier))
		if err != nil || n < 0 {
			return nil, badAccess(pair, "tier must be a non-negative integer")
		}
		am[strings.TrimSpace(name)] = n
	}
	return am, nil
}

func badAccess(pair, reason string) error {
	return errx.New(
		fmt.Sprintf("invalid access entry %q: %s", pair, reason),
		errx.WithCode(codeBadAccessFlag),
		errx.WithType(errx.T_Validation),
	)
}
