package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"DisputeDesk/pkg/correlation"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxLoggedBody = 8 * 1024

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// CorrelationMiddleware reuses X-Correlation-ID from the request or generates one,
// stores it in the request context and echoes it in the response.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlation.HeaderName)
		if id == "" {
			id = correlation.NewID()
		}

		c.Request = c.Request.WithContext(correlation.WithID(c.Request.Context(), id))
		c.Header(correlation.HeaderName, id)

		c.Next()
	}
}

// AccessLogger writes one zerolog line per HTTP request. Bodies are included
// (truncated) only for responses with status >= 400.
func AccessLogger(w io.Writer) gin.HandlerFunc {
	zl := zerolog.New(w).With().Timestamp().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(requestBody))
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec

		c.Next()

		status := c.Writer.Status()
		event := zl.Info()
		if status >= 500 {
			event = zl.Error()
		} else if status >= 400 {
			event = zl.Warn()
		}

		if id := correlation.FromContext(c.Request.Context()); id != "" {
			event = event.Str("correlation_id", id)
		}

		event = event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start))

		if status >= 400 {
			event = withBody(event, "request_body", requestBody)
			event = withBody(event, "response_body", rec.body.Bytes())
		}

		event.Msg("HTTP request")
	}
}

func withBody(e *zerolog.Event, key string, b []byte) *zerolog.Event {
	if len(b) > maxLoggedBody {
		b = b[:maxLoggedBody]
	}
	b = bytes.TrimSpace(b)

	if len(b) == 0 {
		return e.RawJSON(key, []byte("null"))
	}
	if json.Valid(b) {
		return e.RawJSON(key, b)
	}
	return e.Str(key, string(b))
}
