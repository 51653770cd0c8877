package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig controls what the request logger records.
type LoggerConfig struct {
	LogRequestBody bool
	MaxBodySize    int64
	SkipPaths      []string
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		LogRequestBody: true,
		MaxBodySize:    2048,
		SkipPaths:      []string{"/health"},
	}
}

func Logger(logger *zap.Logger) gin.HandlerFunc {
	return LoggerWithConfig(logger, DefaultLoggerConfig())
}

// LoggerWithConfig logs one line per request. JSON bodies are logged with
// sensitive fields masked; error responses also carry their body.
func LoggerWithConfig(logger *zap.Logger, config LoggerConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		start := time.Now()

		var requestBody string
		if config.LogRequestBody && c.Request.Body != nil && c.Request.ContentLength > 0 &&
			strings.Contains(c.GetHeader("Content-Type"), "application/json") {
			if c.Request.ContentLength > config.MaxBodySize {
				requestBody = "[too large]"
			} else {
				bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, config.MaxBodySize))
				if err == nil {
					c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
					requestBody = maskJSON(bodyBytes)
				}
			}
		}

		writer := &limitedResponseWriter{ResponseWriter: c.Writer, maxSize: config.MaxBodySize}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		fields := []zapcore.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int64("size", writer.size),
			zap.String("ip", c.ClientIP()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if id := GetRequestID(c); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if email := CurrentEmail(c); email != "" {
			fields = append(fields, zap.String("email", email))
		}
		if requestBody != "" {
			fields = append(fields, zap.String("body", requestBody))
		}
		if status >= 400 && writer.body.Len() > 0 {
			fields = append(fields, zap.String("response", writer.body.String()))
		}

		switch {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

type limitedResponseWriter struct {
	gin.ResponseWriter
	body    bytes.Buffer
	size    int64
	maxSize int64
}

func (w *limitedResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	if w.size+int64(n) <= w.maxSize {
		w.body.Write(b[:n])
	}
	w.size += int64(n)
	return n, err
}

func maskJSON(body []byte) string {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return "[unparsable]"
	}
	masked, err := json.Marshal(hideSensitiveFields(data))
	if err != nil {
		return "[unparsable]"
	}
	return string(masked)
}

func hideSensitiveFields(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitiveField(strings.ToLower(key)) {
				result[key] = "********"
			} else {
				result[key] = hideSensitiveFields(value)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = hideSensitiveFields(item)
		}
		return result
	default:
		return v
	}
}

func isSensitiveField(field string) bool {
	for _, s := range []string{"password", "token", "secret", "credential"} {
		if strings.Contains(field, s) {
			return true
		}
	}
	return false
}
