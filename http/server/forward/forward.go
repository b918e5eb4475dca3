package forward

import (
	"fmt"
	"reflect"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/catalog/mask"
	"github.com/rise-and-shine/catalog/observability/logger"
	"github.com/rise-and-shine/catalog/ucdef"
	"github.com/rise-and-shine/catalog/val"
)

const maxLogAllowedSize = 8 << 10 // 8KB

// ToUserAction forwards a request to a use case that returns a response.
// It decodes the body (POST) or query (GET) and the path params into a fresh I, validates it,
// executes the use case and writes O as JSON.
// I must be a pointer to a struct.
func ToUserAction[I, O any](uc ucdef.UserAction[I, O]) fiber.Handler {
	log := logger.Named("http.handler").With("operation_id", uc.OperationID())

	return func(c *fiber.Ctx) error {
		req, err := newRequest[I]()
		if err != nil {
			return errx.Wrap(err)
		}

		switch c.Method() {
		case fiber.MethodGet:
			err = decodeQuery(c, req)
		case fiber.MethodPost:
			err = decodeBody(c, req)
		}
		if err != nil {
			return errx.Wrap(err)
		}
		if err = decodePath(c, req); err != nil {
			return errx.Wrap(err)
		}

		l := log.WithContext(c.UserContext())
		if len(c.Body()) <= maxLogAllowedSize {
			l = l.With("request_body", mask.StructToOrdMap(req))
		} else {
			l = l.With("request_body", fmt.Sprintf("too large for logging: %d bytes", len(c.Body())))
		}

		if err = val.ValidateSchema(req); err != nil {
			return errx.Wrap(err)
		}

		resp, err := uc.Execute(c.UserContext(), req)
		if err != nil {
			return errx.Wrap(err)
		}

		size, err := writeJSON(c, resp)
		if err != nil {
			return errx.Wrap(err)
		}

		l.With("response_size", size).Debug("use case executed")
		return nil
	}
}

// newRequest allocates the struct I points to.
func newRequest[I any]() (I, error) {
	var req I

	reqType := reflect.TypeOf((*I)(nil)).Elem()
	if reqType.Kind() != reflect.Pointer || reqType.Elem().Kind() != reflect.Struct {
		return req, errx.New("input type I must be a pointer to a struct")
	}

	return reflect.New(reqType.Elem()).Interface().(I), nil //nolint:errcheck // checked above
}

func writeJSON(c *fiber.Ctx, data any) (int, error) {
	raw, err := c.App().Config().JSONEncoder(data)
	if err != nil {
		return 0, errx.Wrap(err)
	}

	c.Response().SetBodyRaw(raw)
	c.Response().Header.SetContentType(fiber.MIMEApplicationJSON)
	return len(raw), nil
}
