package federation

import (
	"encoding/json"
	"fmt"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
)

type errorEnvelope struct {
	TraceID any `json:"trace_id"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Cause   string         `json:"cause"`
		Fields  errx.M         `json:"fields"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// decodeError rebuilds the remote service's error so that its code and
// type survive the hop.
func decodeError(status int, raw []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error.Code == "" {
		return errx.New(
			fmt.Sprintf("remote catalog responded %d", status),
			errx.WithType(typeOf(status)),
			errx.WithDetails(errx.D{"status": status}),
		)
	}

	details := errx.D{"status": status, "remote_trace_id": env.TraceID}
	for k, v := range env.Error.Details {
		details[k] = v
	}

	msg := env.Error.Cause
	if msg == "" {
		msg = env.Error.Message
	}

	fields := env.Error.Fields
	if fields == nil {
		fields = errx.M{}
	}

	return errx.New(
		msg,
		errx.WithCode(env.Error.Code),
		errx.WithType(typeOf(status)),
		errx.WithDetails(details),
		errx.WithFields(fields),
	)
}

func typeOf(status int) errx.Type {
	switch status {
	case fiber.StatusUnauthorized:
		return errx.T_Authentication
	case fiber.StatusForbidden:
		return errx.T_Forbidden
	case fiber.StatusNotFound:
		return errx.T_NotFound
	case fiber.StatusConflict:
		return errx.T_Conflict
	case fiber.StatusTooManyRequests:
		return errx.T_Throttling
	}
	if status >= fiber.StatusInternalServerError {
		return errx.T_Internal
	}
	return errx.T_Validation
}
