package client

import (
	"fmt"
	"net/url"
)

// ListUsers returns all users, paginated and sorted (admin)
func (c *Client) ListUsers(page, size int, sortBy, sortDir string) (*Page[UserProfile], error) {
	params := url.Values{}
	params.Set("page", fmt.Sprint(page))
	params.Set("size", fmt.Sprint(size))
	params.Set("sortBy", sortBy)
	params.Set("sortDir", sortDir)

	env, err := c.Get("/users?" + params.Encode())
	result, err := unwrap[Page[UserProfile]](env, err, "failed to list users")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchUsers finds users by name or email (admin)
func (c *Client) SearchUsers(term string, page, size int) (*Page[UserProfile], error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("page", fmt.Sprint(page))
	params.Set("size", fmt.Sprint(size))

	env, err := c.Get("/users/search?" + params.Encode())
	result, err := unwrap[Page[UserProfile]](env, err, "failed to search users")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUser returns a single user by ID (admin)
func (c *Client) GetUser(userID string) (*UserProfile, error) {
	env, err := c.Get("/users/" + url.PathEscape(userID))
	user, err := unwrap[UserProfile](env, err, "failed to get user")
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ToggleUserStatus activates or deactivates a user (admin)
func (c *Client) ToggleUserStatus(userID string) (*UserProfile, error) {
	env, err := c.Put("/users/"+url.PathEscape(userID)+"/toggle-status", nil)
	user, err := unwrap[UserProfile](env, err, "failed to toggle user status")
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserTokens sets a user's billing token balance (admin)
func (c *Client) SetUserTokens(userID string, tokens int) (*UserProfile, error) {
	path := fmt.Sprintf("/users/%s/tokens?tokens=%d", url.PathEscape(userID), tokens)
	env, err := c.Put(path, nil)
	user, err := unwrap[UserProfile](env, err, "failed to set user tokens")
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user account (admin)
func (c *Client) DeleteUser(userID string) error {
	env, err := c.Delete("/users/" + url.PathEscape(userID))
	_, err = unwrap[string](env, err, "failed to delete user")
	return err
}

// GetUserStats returns aggregate statistics over the user base (admin)
func (c *Client) GetUserStats() (*UserStats, error) {
	env, err := c.Get("/users/stats")
	stats, err := unwrap[UserStats](env, err, "failed to get user statistics")
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
