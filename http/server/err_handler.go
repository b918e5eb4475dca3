package server

import (
	"errors"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/catalog/meta"
)

// codeRouterError marks errors raised by fiber itself, e.g. unknown routes.
const codeRouterError = "ROUTER_ERROR"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	TraceID string      `json:"trace_id"`
	Error   ErrorSchema `json:"error"`
}

// ErrorSchema is the error body; peers decode it back into errx values.
type ErrorSchema struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Cause   string            `json:"cause"`
	Trace   string            `json:"trace,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

//nolint:gochecknoglobals // lookup tables
var (
	statusByType = map[errx.Type]int{
		errx.T_Authentication: fiber.StatusUnauthorized,
		errx.T_Forbidden:      fiber.StatusForbidden,
		errx.T_NotFound:       fiber.StatusNotFound,
		errx.T_Validation:     fiber.StatusBadRequest,
		errx.T_Conflict:       fiber.StatusConflict,
		errx.T_Throttling:     fiber.StatusTooManyRequests,
	}

	typeByStatus = map[int]errx.Type{
		fiber.StatusUnauthorized:    errx.T_Authentication,
		fiber.StatusForbidden:       errx.T_Forbidden,
		fiber.StatusNotFound:        errx.T_NotFound,
		fiber.StatusConflict:        errx.T_Conflict,
		fiber.StatusTooManyRequests: errx.T_Throttling,
	}
)

// WriteErrorResponse renders err with the status of its errx type and
// returns it as an errx value.
func WriteErrorResponse(c *fiber.Ctx, err error, hideDetails bool) error {
	e := toErrorX(err)

	c.Status(StatusOf(e.Type()))
	_ = c.JSON(ErrorResponse{
		TraceID: meta.Find(c.UserContext(), meta.TraceID),
		Error:   buildErrorSchema(e, hideDetails, c.Get(fiber.HeaderAcceptLanguage)),
	})

	return e
}

// StatusOf maps an errx type to an HTTP status; unknown types are 500.
func StatusOf(t errx.Type) int {
	if status, ok := statusByType[t]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// customErrorHandler renders errors that reached fiber without a response.
func customErrorHandler(hideDetails bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}
		_ = WriteErrorResponse(c, err, hideDetails)
		return nil
	}
}

func buildErrorSchema(e errx.ErrorX, hideDetails bool, lang string) ErrorSchema {
	s := ErrorSchema{
		Code:    e.Code(),
		Message: meta.Tr(e.Code(), lang),
		Cause:   e.Error(),
		Fields:  e.Fields(),
	}
	if !hideDetails {
		s.Trace = e.Trace()
		s.Details = e.Details()
	}
	return s
}

func toErrorX(err error) errx.ErrorX {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		return errx.AsErrorX(err)
	}

	t, ok := typeByStatus[fiberErr.Code]
	switch {
	case ok:
	case fiberErr.Code >= fiber.StatusBadRequest && fiberErr.Code < fiber.StatusInternalServerError:
		t = errx.T_Validation
	default:
		t = errx.T_Internal
	}

	return errx.AsErrorX(errx.New(
		fiberErr.Message,
		errx.WithCode(codeRouterError),
		errx.WithType(t),
		errx.WithDetails(errx.D{"fiber_code": fiberErr.Code}),
	))
}
