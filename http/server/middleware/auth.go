package middleware

import (
	"strings"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/http/server"
	"github.com/rise-and-shine/catalog/meta"
	"github.com/rise-and-shine/catalog/token"
)

const (
	codeMissingToken = "MISSING_TOKEN"

	bearerScheme = "bearer"
)

// AccessResolver verifies a bearer token and returns the access map it carries.
type AccessResolver interface {
	VerifyToken(token string) (*token.Payload, error)
}

// NewAuthMW binds the caller's access map to the request context.
//
// A request with an Authorization header must carry a valid bearer token
// signed by resolver; its access_map claim becomes the access map. Without a
// header the static map applies. A nil resolver rejects every header and a
// nil static map grants no datasets.
func NewAuthMW(resolver AccessResolver, static access.Map) server.Middleware {
	return server.Middleware{
		Priority: 300,
		Handler: func(c *fiber.Ctx) error {
			header := c.Get(fiber.HeaderAuthorization)
			if header == "" {
				am := static
				if am == nil {
					am = access.Map{}
				}
				c.SetUserContext(access.WithMap(c.UserContext(), am))
				return c.Next()
			}

			raw, err := bearer(header)
			if err != nil {
				return err
			}
			if resolver == nil {
				return errx.New(
					"bearer tokens are not accepted by this server",
					errx.WithCode(token.CodeInvalidToken),
					errx.WithType(errx.T_Authentication),
				)
			}

			payload, err := resolver.VerifyToken(raw)
			if err != nil {
				return errx.Wrap(err)
			}

			am := access.Map{}
			if claim, ok := payload.CustomClaims[token.AccessMapClaim]; ok {
				if am, err = access.FromClaim(claim); err != nil {
					return errx.Wrap(err)
				}
			}

			ctx := meta.InjectMetaToContext(c.UserContext(), map[meta.ContextKey]string{
				meta.RequestSubject: payload.Subject,
			})
			c.SetUserContext(access.WithMap(ctx, am))

			return c.Next()
		},
	}
}

func bearer(header string) (string, error) {
	scheme, raw, ok := strings.Cut(header, " ")
	raw = strings.TrimSpace(raw)
	if !ok || !strings.EqualFold(scheme, bearerScheme) || raw == "" {
		return "", errx.New(
			"authorization header must be of the form 'Bearer <token>'",
			errx.WithCode(codeMissingToken),
			errx.WithType(errx.T_Authentication),
		)
	}
	return raw, nil
}
