package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Makepad-fr/planner/internal/logging"
	"github.com/Makepad-fr/planner/internal/model"
)

// DefaultBaseURL is the deployed stage the planner was built against.
const DefaultBaseURL = "https://smq0v7nrq9.execute-api.us-east-1.amazonaws.com/summer2023planner-stage"

// Endpoint paths, relative to the base URL.
const (
	PathList   = "/summer2023-food-retrieve"
	PathAppend = "/summer2023-food-append"
	PathDelete = "/summer2023-food-delete"
)

// Operation names carried by Error.
const (
	OpList   = "list"
	OpAppend = "append"
	OpDelete = "delete"
)

// ErrRejected is wrapped by the Error returned alongside a message when the
// server answered a mutation with a failure status.
var ErrRejected = errors.New("rejected")

// Error describes a failed remote call. Status is 0 when no response arrived.
type Error struct {
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: http %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client talks to the three planner endpoints.
type Client struct {
	http *resty.Client
	log  *slog.Logger
}

// Option tunes a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// New returns a client rooted at baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http: resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")),
		log:  logging.NewModuleLogger("remote", "client"),
	}
	for _, o := range opts {
		o(c)
	}
	c.http.SetHeader("Content-Type", "application/json")
	c.http.SetLogger(restyLogger{c.log})
	return c
}

// restyLogger routes resty's own diagnostics into slog so they never hit the
// terminal while the TUI owns it.
type restyLogger struct{ l *slog.Logger }

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.Error(fmt.Sprintf(format, v...)) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.Warn(fmt.Sprintf(format, v...)) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.Debug(fmt.Sprintf(format, v...)) }

// BaseURL reports the root the client sends requests to.
func (c *Client) BaseURL() string { return c.http.BaseURL }

// List fetches the full item sequence in store order.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	resp, err := c.http.R().SetContext(ctx).Get(PathList)
	if err != nil {
		return nil, &Error{Op: OpList, Err: err}
	}
	c.log.Debug("list response", "status", resp.StatusCode(), "bytes", len(resp.Body()))

	var items []model.Item
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, &Error{Op: OpList, Status: statusIfFailed(resp), Err: fmt.Errorf("json unmarshal: %w", err)}
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Append adds name to the remote list and returns the server's message.
// No validation happens here; an empty name is sent as is.
func (c *Client) Append(ctx context.Context, name string) (string, error) {
	return c.mutate(ctx, OpAppend, PathAppend, name)
}

// Delete removes name from the remote list and returns the server's message.
func (c *Client) Delete(ctx context.Context, name string) (string, error) {
	return c.mutate(ctx, OpDelete, PathDelete, name)
}

func (c *Client) mutate(ctx context.Context, op, path, name string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(model.FoodRequest{Food: name}).
		Post(path)
	if err != nil {
		return "", &Error{Op: op, Err: err}
	}
	c.log.Debug("mutation response", "op", op, "food", name, "status", resp.StatusCode())

	// A non-2xx body that still decodes is a message for the user, returned
	// together with the status.
	msg, err := DecodeMessage(resp.Body())
	if err != nil {
		return "", &Error{Op: op, Status: statusIfFailed(resp), Err: err}
	}
	if !resp.IsSuccess() {
		return msg, &Error{Op: op, Status: resp.StatusCode(), Err: ErrRejected}
	}
	return msg, nil
}

func statusIfFailed(resp *resty.Response) int {
	if resp.IsSuccess() {
		return 0
	}
	return resp.StatusCode()
}
