package client

import (
	"fmt"
	"net/url"
)

// LoginRequest is the body of /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email and password. The regular and admin flows
// share this endpoint; the caller differentiates by the returned user role.
func (c *Client) Login(email, password string) (*AuthPayload, error) {
	env, err := c.PostPublic("/auth/login", LoginRequest{Email: email, Password: password})
	payload, err := unwrap[AuthPayload](env, err, "login failed")
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// Register creates a new account
func (c *Client) Register(input RegisterInput) (*AuthPayload, error) {
	env, err := c.PostPublic("/auth/register", input)
	payload, err := unwrap[AuthPayload](env, err, "registration failed")
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// Logout notifies the server that the refresh token should be revoked.
// The server expects the refresh token as a query parameter.
func (c *Client) Logout(refreshToken string) error {
	path := fmt.Sprintf("/auth/logout?refreshToken=%s", url.QueryEscape(refreshToken))
	env, err := c.Post(path, nil)
	_, err = unwrap[struct{}](env, err, "logout failed")
	return err
}

// Refresh exchanges a refresh token for a new token pair. The server expects
// the refresh token as a query parameter.
func (c *Client) Refresh(refreshToken string) (*AuthPayload, error) {
	path := fmt.Sprintf("/auth/refresh?refreshToken=%s", url.QueryEscape(refreshToken))
	env, err := c.PostPublic(path, nil)
	payload, err := unwrap[AuthPayload](env, err, "token refresh failed")
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// Me fetches the currently authenticated user
func (c *Client) Me() (*AuthPayload, error) {
	env, err := c.Get("/auth/me")
	payload, err := unwrap[AuthPayload](env, err, "failed to get current user")
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// Validate checks the current access token against the server. The data
// field is a bare boolean; reaching the handler at all means the token
// passed the auth middleware.
func (c *Client) Validate() (bool, error) {
	env, err := c.Get("/auth/validate")
	return unwrap[bool](env, err, "token validation failed")
}

// ChangePassword changes the current user's password. The server expects all
// three values as query parameters.
func (c *Client) ChangePassword(current, new, confirm string) (string, error) {
	params := url.Values{}
	params.Set("currentPassword", current)
	params.Set("newPassword", new)
	params.Set("confirmPassword", confirm)

	env, err := c.Post("/auth/change-password?"+params.Encode(), nil)
	return unwrap[string](env, err, "password change failed")
}
