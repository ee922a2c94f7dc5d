// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package http fetches JSON documents from upstream weather APIs.
package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"runtime"
	"time"

	"github.com/wneessen/agriwatch/internal/errs"
	"github.com/wneessen/agriwatch/internal/logger"
)

const (
	// DefaultTimeout applies to every request unless the context expires earlier
	DefaultTimeout = time.Second * 10

	// MaxBodySize caps the number of bytes decoded from a response
	MaxBodySize = 4 << 20

	errorSnippetSize = 256
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent identifies agriwatch towards the upstream APIs
	UserAgent = fmt.Sprintf("agriwatch/%s (%s/%s; +https://github.com/wneessen/agriwatch/)",
		version, runtime.GOOS, runtime.GOARCH)

	ErrNonPointerTarget = errors.New("target must be a non-nil pointer")
)

// StatusError is returned for responses outside the 2xx range. It unwraps to
// errs.ErrUpstreamUnavailable.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Snippet    string
}

func (e *StatusError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Snippet)
}

func (e *StatusError) Unwrap() error {
	return errs.ErrUpstreamUnavailable
}

// Client wraps the stdlib http.Client with JSON decoding and upstream error mapping.
type Client struct {
	*http.Client
	logger *logger.Logger
}

func New(log *logger.Logger) *Client {
	transport := &http.Transport{
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		Client: &http.Client{Timeout: DefaultTimeout, Transport: transport},
		logger: log,
	}
}

// GetJSON requests endpoint with the given query and decodes the JSON body into target.
// Transport failures and non-2xx responses wrap errs.ErrUpstreamUnavailable; a done
// context is returned as is.
func (c *Client) GetJSON(ctx context.Context, endpoint string, query url.Values, target any) error {
	if rv := reflect.ValueOf(target); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNonPointerTarget
	}
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	request.Header.Set("User-Agent", UserAgent)
	request.Header.Set("Accept", "application/json")

	response, err := c.Do(request)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to perform HTTP request to %s: %w: %w", reqURL.Host, errs.ErrUpstreamUnavailable,
			err)
	}
	defer func() {
		if closeErr := response.Body.Close(); closeErr != nil {
			c.logger.Error("failed to close HTTP response body", logger.Err(closeErr))
		}
	}()

	body := io.LimitReader(response.Body, MaxBodySize)
	if response.StatusCode < 200 || response.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(body, errorSnippetSize))
		return &StatusError{Endpoint: reqURL.Path, StatusCode: response.StatusCode, Snippet: string(snippet)}
	}
	if err = json.NewDecoder(body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode JSON from %s: %w: %w", reqURL.Path, errs.ErrUpstreamUnavailable, err)
	}
	return nil
}
