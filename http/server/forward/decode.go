package forward

import (
	"errors"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
)

// decodeBody decodes a JSON body into req. Errors raised by the input's own
// UnmarshalJSON keep their code.
func decodeBody[I any](c *fiber.Ctx, req I) error {
	if len(c.Body()) == 0 {
		return nil
	}

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return errx.New(
			"content type must be application/json for this request",
			errx.WithType(errx.T_Validation),
			errx.WithCode(codeInvalidContentType),
		)
	}

	err := c.App().Config().JSONDecoder(c.Body(), req)
	if err == nil {
		return nil
	}

	var e errx.ErrorX
	if errors.As(err, &e) {
		return errx.Wrap(err)
	}
	return errx.Wrap(
		err,
		errx.WithType(errx.T_Validation),
		errx.WithCode(codeInvalidJSONBody),
	)
}

// decodeQuery decodes the query params into req using `query` tags.
func decodeQuery[I any](c *fiber.Ctx, req I) error {
	if len(c.Queries()) == 0 {
		return nil
	}

	if err := c.QueryParser(req); err != nil {
		return errx.Wrap(
			err,
			errx.WithType(errx.T_Validation),
			errx.WithCode(codeInvalidQueryParams),
		)
	}

	return nil
}

// decodePath copies route params into the top-level string fields of req
// tagged `params:"<name>"`.
func decodePath[I any](c *fiber.Ctx, req I) error {
	v := reflect.ValueOf(req).Elem()
	t := v.Type()

	for i := range t.NumField() {
		name := t.Field(i).Tag.Get("params")
		if name == "" {
			continue
		}
		field := v.Field(i)
		if field.Kind() != reflect.String || !field.CanSet() {
			return errx.New(
				"path params must bind to exported string fields",
				errx.WithCode(codeInvalidPathParams),
				errx.WithDetails(errx.D{"field": t.Field(i).Name}),
			)
		}
		field.SetString(c.Params(name))
	}

	return nil
}
