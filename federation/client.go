// Package federation lets the query planner fan out to a remote catalog
// service over HTTP instead of the local repository.
package federation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/catalog"
	"github.com/rise-and-shine/catalog/observability/logger"
	"github.com/rise-and-shine/catalog/observability/metrics"
	"github.com/rise-and-shine/catalog/search"
	"github.com/rise-and-shine/catalog/token"
)

const subject = "federation"

// Client calls the search endpoints of a remote catalog. Every call is
// retried and timed out on its own; the caller's access map travels as a
// short lived bearer token.
type Client struct {
	cfg   Config
	maker *token.JWTMaker
	log   logger.Logger
}

// NewClient returns a client for cfg.
func NewClient(cfg Config) (*Client, error) {
	maker, err := token.NewJWTMaker(cfg.Secret)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &Client{
		cfg:   cfg,
		maker: maker,
		log:   logger.Named("federation"),
	}, nil
}

// IsSearchable reports whether the remote serves endpoint. Both sides share
// the schema registry, so the local one answers.
func (c *Client) IsSearchable(endpoint string) bool {
	_, ok := catalog.Lookup(endpoint)
	return ok
}

// Search runs one page of a remote search.
func (c *Client) Search(ctx context.Context, endpoint string, req *search.Request, am access.Map) (*search.Page, error) {
	var page search.Page
	err := c.call(ctx, "search", fiber.MethodPost, "/"+url.PathEscape(endpoint)+"/search", req, am, &page)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"endpoint": endpoint}))
	}
	page.Key = catalog.CanonicalTable(page.Key)
	return &page, nil
}

// Get fetches one remote record.
func (c *Client) Get(ctx context.Context, endpoint, id string, am access.Map) (search.Row, error) {
	var row search.Row
	path := "/" + url.PathEscape(endpoint) + "/" + url.PathEscape(id)
	if err := c.call(ctx, "get", fiber.MethodGet, path, nil, am, &row); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"endpoint": endpoint}))
	}
	return row, nil
}

// GetDataset fetches one remote dataset, which also checks authorization.
func (c *Client) GetDataset(ctx context.Context, id string, am access.Map) (search.Row, error) {
	var row search.Row
	if err := c.call(ctx, "get_dataset", fiber.MethodGet, "/datasets/"+url.PathEscape(id), nil, am, &row); err != nil {
		return nil, errx.Wrap(err)
	}
	return row, nil
}

func (c *Client) call(ctx context.Context, op, method, path string, body any, am access.Map, out any) (err error) {
	defer func() {
		metrics.FederationCalls.WithLabelValues(op, metrics.Outcome(err)).Inc()
	}()

	bearer, err := c.maker.CreateAccessToken(subject, c.cfg.TokenTTL, am)
	if err != nil {
		return errx.Wrap(err)
	}

	target := strings.TrimRight(c.cfg.BaseURL, "/") + path
	log := c.log.WithContext(ctx).With("method", method, "url", target)

	err = retry.Do(
		func() error {
			return c.once(method, target, bearer, body, out)
		},
		retry.Attempts(uint(c.cfg.Attempts)), //nolint:gosec // validated positive
		retry.Delay(c.cfg.Delay),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.With("attempt", n+1, "error", err.Error()).Warn("retrying remote catalog call")
		}),
		retry.Context(ctx),
	)
	if err != nil {
		if retryable(err) {
			return errx.New(
				fmt.Sprintf("remote catalog call failed after %d attempts: %v", c.cfg.Attempts, err),
				errx.WithCode(CodeComponentFailed),
				errx.WithType(errx.T_Internal),
				errx.WithDetails(errx.D{"url": target, "cause_code": errx.AsErrorX(err).Code()}),
			)
		}
		return errx.Wrap(err)
	}
	return nil
}

func (c *Client) once(method, target, bearer string, body any, out any) error {
	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(target)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return errx.Wrap(err)
	}

	agent.Timeout(c.cfg.Timeout)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if body != nil {
		agent.JSON(body)
	}

	status, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return errx.New(
			fmt.Sprintf("remote catalog unreachable: %v", errs[0]),
			errx.WithType(errx.T_Internal),
		)
	}

	if status >= fiber.StatusBadRequest {
		return decodeError(status, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errx.Wrap(err, errx.WithType(errx.T_Internal))
	}
	return nil
}

// retryable keeps retrying transport failures and server side errors only.
func retryable(err error) bool {
	return errx.GetType(err) == errx.T_Internal
}
