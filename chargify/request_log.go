// ABOUTME: Request/response logging side channel for Chargify API calls
// ABOUTME: Wraps the HTTP transport and writes JSON log lines without headers
package chargify

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// NewRequestLogger returns a JSON logger suitable for WithRequestLog.
func NewRequestLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

// OpenRequestLog opens path for appending, creating parent directories.
func OpenRequestLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create request log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open request log: %w", err)
	}
	return f, nil
}

// requestLogTransport logs method, URL, request body, status and response
// body of every round trip. Headers are never logged so credentials stay
// out of the file.
type requestLogTransport struct {
	next   http.RoundTripper
	logger *logrus.Logger
}

func (t *requestLogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	fields := logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	}

	if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			data, _ := io.ReadAll(body)
			_ = body.Close()
			fields["data"] = string(data)
		}
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.WithFields(fields).WithError(err).Error("request failed")
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		t.logger.WithFields(fields).WithError(err).Error("failed to read response")
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))

	fields["status"] = resp.StatusCode
	fields["response"] = string(data)
	t.logger.WithFields(fields).Info("request")

	return resp, nil
}
