/*
 * Copyright 2024 The questdb-go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package questdb

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// HTTPClient is the interface for HTTP client.
//
// Implementations must hand back the response body unread, so that the caller
// can stream it.
type HTTPClient interface {
	// Get sends a GET request to the QuestDB server.
	Get(context.Context, *url.URL) (*http.Response, error)
	// Post sends a POST request with the given content type and body to the QuestDB server.
	Post(ctx context.Context, u *url.URL, contentType string, body io.Reader) (*http.Response, error)
	// Close releases idle connections held by the client.
	Close()
}

type restyClient struct {
	client *resty.Client
}

// NewHTTPClient creates a new resty backed HTTP client.
func NewHTTPClient(config *Config) HTTPClient {
	c := resty.New()
	if config != nil && config.Timeout > 0 {
		c.SetTimeout(config.Timeout)
	}
	return &restyClient{client: c}
}

// Ensure restyClient implements HTTPClient.
var _ HTTPClient = (*restyClient)(nil)

func (c *restyClient) Get(ctx context.Context, u *url.URL) (*http.Response, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(u.String())
	return rawResponse(resp, err)
}

func (c *restyClient) Post(ctx context.Context, u *url.URL, contentType string, body io.Reader) (*http.Response, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		Post(u.String())
	return rawResponse(resp, err)
}

// rawResponse unwraps the underlying response, closing its body when resty also reports an error.
func rawResponse(resp *resty.Response, err error) (*http.Response, error) {
	if err != nil {
		if resp != nil && resp.RawResponse != nil {
			sneakyBodyClose(resp.RawResponse.Body)
		}
		return nil, err
	}
	return resp.RawResponse, nil
}

func (c *restyClient) Close() {
	c.client.GetClient().CloseIdleConnections()
}

// Client is a QuestDB HTTP client.
//
// A Client holds no mutable state and may be shared between goroutines.
type Client struct {
	config *Config
	http   HTTPClient
	fs     afero.Fs
	logger *zap.Logger
}

// Option customizes a Client created by NewClient.
type Option func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithFs sets the filesystem import files are read from. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(c *Client) {
		c.fs = fs
	}
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new client. No I/O happens until an operation is called.
func NewClient(config *Config, opts ...Option) *Client {
	c := &Client{
		config: config,
		fs:     afero.NewOsFs(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = NewHTTPClient(config)
	}
	return c
}

// New creates a client for the given endpoint with default settings.
//
//	c := questdb.New("http://localhost:9000")
func New(endpoint string) *Client {
	return NewClient(&Config{Endpoint: endpoint})
}

// Endpoint returns the base URL the client was created with.
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// Close closes the client.
//
// You don't typically need to call this as the garbage collector will release
// the resources when the client is no longer referenced. However, it can be
// useful to call this if you want to release the resources immediately.
func (c *Client) Close() {
	c.http.Close()
}
