package service

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	jujuhttp "github.com/juju/http/v2"

	"restaurant-ordering/internal/common/logger"
)

// Doer performs the provider requests. *http.Client and *jujuhttp.Client
// both satisfy it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// httpLogger adapts logger.Logger to the printf style the juju http client
// logs through.
type httpLogger struct {
	log *logger.Logger
}

func (h httpLogger) IsTraceEnabled() bool { return false }
func (h httpLogger) IsDebugEnabled() bool { return h.log.DebugEnabled() }

func (h httpLogger) Errorf(msg string, args ...any) {
	h.log.Error("payment_http", fmt.Errorf(msg, args...), nil)
}

func (h httpLogger) Warningf(msg string, args ...any) {
	h.log.Warn("payment_http", map[string]any{"detail": fmt.Sprintf(msg, args...)})
}

func (h httpLogger) Infof(msg string, args ...any) {
	h.log.Info("payment_http", map[string]any{"detail": fmt.Sprintf(msg, args...)})
}

func (h httpLogger) Debugf(msg string, args ...any) {
	h.log.Debug("payment_http", map[string]any{"detail": fmt.Sprintf(msg, args...)})
}

func (h httpLogger) Tracef(msg string, args ...any) { h.Debugf(msg, args...) }

// requestRecorder writes one payment_http entry per provider round trip.
type requestRecorder struct {
	log *logger.Logger
}

func (r requestRecorder) Record(method string, u *url.URL, res *http.Response, rtt time.Duration) {
	r.log.Info("payment_http", map[string]any{
		"method":      method,
		"url":         redact(u),
		"status":      res.StatusCode,
		"duration_ms": rtt.Milliseconds(),
	})
}

func (r requestRecorder) RecordError(method string, u *url.URL, err error) {
	r.log.Error("payment_http", err, map[string]any{"method": method, "url": redact(u)})
}

// redact drops credentials and the query before a url reaches the log.
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	c := *u
	c.User = nil
	c.RawQuery = ""
	return c.String()
}

func newHTTPClient(log *logger.Logger) *jujuhttp.Client {
	return jujuhttp.NewClient(
		jujuhttp.WithLogger(httpLogger{log: log}),
		jujuhttp.WithRequestRecorder(requestRecorder{log: log}),
	)
}
