// Package client implements the HTTP request gateway for the JCE Consulta
// API: it builds requests against a configured base URL, attaches bearer
// tokens from the credential store, interprets status codes into typed
// failures, and exposes one wrapper per API resource.
package client

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jce-consulta/cedula-cli/internal/cli/credentials"
)

// Client is an HTTP client for the JCE Consulta API
type Client struct {
	baseURL        string
	httpClient     *http.Client
	creds          credentials.Store
	onUnauthorized func()
}

// New creates a new API client. The gateway applies no request timeout of
// its own; a custom http.Client can be injected with SetHTTPClient.
func New(baseURL string, creds credentials.Store) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Accept self-signed certificates on locally hosted servers
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			},
		},
		creds: creds,
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetUnauthorizedHandler registers a hook invoked after a 401 response has
// cleared the stored credentials. The CLI uses it to tell the user to log in
// again; it is the terminal analogue of a forced redirect to a login page.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// do issues one request and returns the decoded response envelope.
//
// When requiresAuth is set and no access token is stored, the request fails
// locally with an unauthenticated error before any network call is made
// (strict variant; requests never go out without an Authorization header).
// A 401 clears every stored credential key and fires the unauthorized hook
// before failing, regardless of whether the response body is parseable.
func (c *Client) do(method, path string, body any, requiresAuth bool) (*Envelope, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if requiresAuth {
		token, err := c.creds.Get(credentials.KeyAccessToken)
		if err != nil {
			if errors.Is(err, credentials.ErrNotFound) {
				return nil, ErrNotAuthenticated
			}
			return nil, err
		}
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "failed to send request", cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.handleUnauthorized()
		return nil, ErrUnauthorized

	case resp.StatusCode == http.StatusForbidden:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &Error{
			Kind:    KindForbidden,
			Status:  resp.StatusCode,
			Message: serverMessage(respBody, ErrForbidden.Message),
		}

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		respBody, _ := io.ReadAll(resp.Body)
		fallback := fmt.Sprintf("HTTP error (status %d)", resp.StatusCode)
		return nil, &Error{
			Kind:    KindHTTP,
			Status:  resp.StatusCode,
			Message: serverMessage(respBody, fallback),
		}
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &env, nil
}

// handleUnauthorized clears every credential key and fires the registered
// hook. Clearing is best-effort: a keyring failure must not mask the 401.
func (c *Client) handleUnauthorized() {
	_ = c.creds.Clear()
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// Get issues an authenticated GET request
func (c *Client) Get(path string) (*Envelope, error) {
	return c.do(http.MethodGet, path, nil, true)
}

// Post issues an authenticated POST request
func (c *Client) Post(path string, body any) (*Envelope, error) {
	return c.do(http.MethodPost, path, body, true)
}

// Put issues an authenticated PUT request
func (c *Client) Put(path string, body any) (*Envelope, error) {
	return c.do(http.MethodPut, path, body, true)
}

// Delete issues an authenticated DELETE request
func (c *Client) Delete(path string) (*Envelope, error) {
	return c.do(http.MethodDelete, path, nil, true)
}

// GetPublic issues a GET request without authentication
func (c *Client) GetPublic(path string) (*Envelope, error) {
	return c.do(http.MethodGet, path, nil, false)
}

// PostPublic issues a POST request without authentication
func (c *Client) PostPublic(path string, body any) (*Envelope, error) {
	return c.do(http.MethodPost, path, body, false)
}

// unwrap decodes the data field of a successful envelope into T. An envelope
// with success=false fails with the server-supplied message, falling back to
// the given default; this holds even on HTTP 200.
func unwrap[T any](env *Envelope, err error, fallback string) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		return out, errors.New(msg)
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return out, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return out, nil
}
