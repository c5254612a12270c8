package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ordermesh/orderflow/pkg/mlog"
)

// RequestInfo captures the fields an access log line is built from.
type RequestInfo struct {
	Method        string
	URI           string
	RemoteAddress string
	Status        int
	Date          time.Time
	Duration      time.Duration
	UserAgent     string
	CorrelationID string
	Protocol      string
	Size          int
}

// NewRequestInfo snapshots the request side of a RequestInfo.
func NewRequestInfo(c *fiber.Ctx) *RequestInfo {
	return &RequestInfo{
		Method:        c.Method(),
		URI:           c.OriginalURL(),
		UserAgent:     c.Get(headerUserAgent),
		CorrelationID: c.Get(headerCorrelationID),
		RemoteAddress: c.IP(),
		Protocol:      c.Protocol(),
		Date:          time.Now().UTC(),
	}
}

// CLFString renders a Common Log Format access log line.
// Ref: https://httpd.apache.org/docs/trunk/logs.html#common
func (r *RequestInfo) CLFString() string {
	return strings.Join([]string{
		r.RemoteAddress,
		"-",
		`"` + r.Method,
		r.URI,
		`"` + r.Protocol,
		strconv.Itoa(r.Status),
		strconv.Itoa(r.Size),
		r.UserAgent,
		r.Duration.String(),
	}, " ")
}

// FinishRequestInfo fills in the response side of a RequestInfo once the
// handler chain has run.
func (r *RequestInfo) FinishRequestInfo(status, size int) {
	r.Duration = time.Now().UTC().Sub(r.Date)
	r.Status = status
	r.Size = size
}

type logMiddleware struct {
	Logger mlog.Logger
}

// LogMiddlewareOption configures WithHTTPLogging.
type LogMiddlewareOption func(l *logMiddleware)

// WithCustomLogger attaches a specific logger to the access log middleware.
func WithCustomLogger(logger mlog.Logger) LogMiddlewareOption {
	return func(l *logMiddleware) { l.Logger = logger }
}

func buildOpts(opts ...LogMiddlewareOption) *logMiddleware {
	mid := &logMiddleware{Logger: &mlog.NoneLogger{}}

	for _, opt := range opts {
		opt(mid)
	}

	return mid
}

// WithHTTPLogging logs one CLF-style access log line per request, skipping
// /health so liveness polling doesn't spam the log.
func WithHTTPLogging(opts ...LogMiddlewareOption) fiber.Handler {
	mid := buildOpts(opts...)

	return func(c *fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Next()
		}

		info := NewRequestInfo(c)

		err := c.Next()

		info.FinishRequestInfo(c.Response().StatusCode(), len(c.Response().Body()))

		logger := mid.Logger.WithFields(headerCorrelationID, info.CorrelationID)
		logger.Info(info.CLFString())

		return err
	}
}
