package middleware

import (
	"runtime"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/catalog/http/server"
	"github.com/rise-and-shine/catalog/observability/logger"
)

const stackTraceSize = 4 << 10

// NewRecoveryMW converts panics in the chain into internal errors carrying
// the stack trace.
func NewRecoveryMW(log logger.Logger) server.Middleware {
	return server.Middleware{
		Priority: 1000,
		Handler: func(c *fiber.Ctx) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = panicError(r)
					log.Named("middleware.recovery").WithContext(c.UserContext()).Errorx(err)
				}
			}()

			return c.Next()
		},
	}
}

func panicError(r any) error {
	stackTrace := make([]byte, stackTraceSize)
	stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

	return errx.New("panic recovered", errx.WithDetails(errx.D{
		"stack_trace":   string(stackTrace),
		"panic_message": r,
	}))
}
