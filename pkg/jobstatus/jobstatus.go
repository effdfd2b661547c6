// Package jobstatus records the outcome of a grid session with the provider's
// automation API, so CI dashboards show each session as passed or failed.
package jobstatus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

// Error is the class of status update failures.
var Error = errs.Class("job status")

// Status is the outcome recorded for a session.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// Valid reports whether s is one of the statuses the API accepts.
func (s Status) Valid() bool {
	return s == StatusPassed || s == StatusFailed
}

// Reporter records a session's status.
type Reporter interface {
	UpdateSession(ctx context.Context, sessionID string, status Status) error
}

// DefaultBaseURL is the provider's automation API.
const DefaultBaseURL = "https://api.lambdatest.com"

// maxErrorBody bounds how much of an error reply is read.
const maxErrorBody = 64 << 10

// Client updates session status over the provider's REST API.
// It makes exactly one request per update; there is no retry.
type Client struct {
	baseURL   string
	username  string
	accessKey string
	http      *http.Client
	log       *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client authenticating as username with accessKey.
func NewClient(username, accessKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		username:  username,
		accessKey: accessKey,
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type updateRequest struct {
	StatusInd Status `json:"status_ind"`
}

type apiReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UpdateSession sets the status of sessionID. The session id must be
// non-empty; no request is made otherwise.
func (c *Client) UpdateSession(ctx context.Context, sessionID string, status Status) error {
	if sessionID == "" {
		return Error.New("session id is required")
	}
	if !status.Valid() {
		return Error.New("invalid status %q", status)
	}

	body, err := json.Marshal(updateRequest{StatusInd: status})
	if err != nil {
		return Error.Wrap(err)
	}

	endpoint := c.baseURL + "/automation/api/v1/sessions/" + url.PathEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return Error.Wrap(err)
	}
	req.SetBasicAuth(c.username, c.accessKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Error.Wrap(fmt.Errorf("failed to update session %s: %w", sessionID, err))
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Error.New("failed to update session %s: %s", sessionID, replyMessage(resp.Status, raw))
	}

	c.log.Info("session status updated",
		zap.String("session", sessionID),
		zap.String("status", string(status)))
	return nil
}

func replyMessage(status string, raw []byte) string {
	var reply apiReply
	if err := json.Unmarshal(raw, &reply); err == nil && reply.Message != "" {
		return status + ": " + reply.Message
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return status + ": " + msg
	}
	return status
}

// Log is a Reporter for runs without a provider: it only logs.
type Log struct {
	log *zap.Logger
}

// NewLog creates a Reporter that writes each update to log.
func NewLog(log *zap.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) UpdateSession(ctx context.Context, sessionID string, status Status) error {
	if sessionID == "" {
		return Error.New("session id is required")
	}
	l.log.Info("session status", zap.String("session", sessionID), zap.String("status", string(status)))
	return nil
}
