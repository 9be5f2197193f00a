package preferences

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/hashicorp/go-cleanhttp"
)

const (
	remoteRejectedCode  = "PREFERENCE_REMOTE_REJECTED"
	remoteTransportCode = "PREFERENCE_REMOTE_UNREACHABLE"

	defaultSinkTimeout = 5 * time.Second
)

var (
	// ErrRemoteRejected indicates the endpoint answered with a non-2xx status.
	ErrRemoteRejected = errors.New("preferences: remote endpoint rejected setting")
	ErrEndpointEmpty  = errors.New("preferences: remote endpoint is empty")
)

// Sink pushes a preference change to an external store.
type Sink interface {
	Push(ctx context.Context, setting string, value bool) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, setting string, value bool) error

// Push implements Sink.
func (fn SinkFunc) Push(ctx context.Context, setting string, value bool) error {
	return fn(ctx, setting, value)
}

type remotePayload struct {
	Setting string `json:"setting"`
	Value   bool   `json:"value"`
}

// RemoteSink POSTs settings as JSON to an HTTP endpoint. Requests are never
// retried.
type RemoteSink struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

// SinkOption configures a RemoteSink.
type SinkOption func(*RemoteSink)

// WithHTTPClient overrides the pooled client.
func WithHTTPClient(client *http.Client) SinkOption {
	return func(s *RemoteSink) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout bounds each push. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) SinkOption {
	return func(s *RemoteSink) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// NewRemoteSink constructs a sink for endpoint.
func NewRemoteSink(endpoint string, opts ...SinkOption) *RemoteSink {
	s := &RemoteSink{
		endpoint: strings.TrimSpace(endpoint),
		client:   cleanhttp.DefaultPooledClient(),
		timeout:  defaultSinkTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Endpoint returns the configured URL.
func (s *RemoteSink) Endpoint() string {
	return s.endpoint
}

// Push sends {"setting": ..., "value": ...}. Any 2xx status is success.
func (s *RemoteSink) Push(ctx context.Context, setting string, value bool) error {
	if s.endpoint == "" {
		return ErrEndpointEmpty
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := json.Marshal(remotePayload{Setting: setting, Value: value})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "remote preference request failed").
			WithTextCode(remoteTransportCode)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return goerrors.Wrap(
			fmt.Errorf("%w: status %d", ErrRemoteRejected, resp.StatusCode),
			goerrors.CategoryExternal,
			"remote preference rejected",
		).WithTextCode(remoteRejectedCode)
	}
	return nil
}
