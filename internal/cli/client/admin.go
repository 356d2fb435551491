package client

import (
	"fmt"
	"net/url"
)

// Dashboard returns the admin dashboard statistics
func (c *Client) Dashboard() (*DashboardStats, error) {
	env, err := c.Get("/admin/dashboard")
	stats, err := unwrap[DashboardStats](env, err, "failed to get dashboard stats")
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// HealthCheck runs the server-side health checks
func (c *Client) HealthCheck() (*HealthStatus, error) {
	env, err := c.Get("/admin/health-check")
	health, err := unwrap[HealthStatus](env, err, "health check failed")
	if err != nil {
		return nil, err
	}
	return &health, nil
}

// SystemCleanup expires stale payment orders and abandoned queries
func (c *Client) SystemCleanup() (*CleanupResults, error) {
	env, err := c.Post("/admin/cleanup", nil)
	results, err := unwrap[CleanupResults](env, err, "system cleanup failed")
	if err != nil {
		return nil, err
	}
	return &results, nil
}

// SystemLogs tails the server log at the given level
func (c *Client) SystemLogs(lines int, level string) ([]LogEntry, error) {
	params := url.Values{}
	params.Set("lines", fmt.Sprint(lines))
	params.Set("level", level)

	env, err := c.Get("/admin/logs?" + params.Encode())
	return unwrap[[]LogEntry](env, err, "failed to get system logs")
}

// UpdateTokenPrice sets the per-token price
func (c *Client) UpdateTokenPrice(newPrice float64) (float64, error) {
	env, err := c.Put(fmt.Sprintf("/admin/token-price?newPrice=%g", newPrice), nil)
	return unwrap[float64](env, err, "failed to update token price")
}

// PublicSettings fetches the application settings without authentication,
// falling back to the authenticated admin endpoint if the public one fails.
func (c *Client) PublicSettings() (*AppSettings, error) {
	env, err := c.GetPublic("/settings/public")
	settings, err := unwrap[AppSettings](env, err, "failed to get settings")
	if err == nil {
		return &settings, nil
	}

	env, err = c.Get("/admin/settings")
	settings, err = unwrap[AppSettings](env, err, "failed to get settings")
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// TokenPrice fetches the current per-token price without authentication
func (c *Client) TokenPrice() (float64, error) {
	env, err := c.GetPublic("/settings/token-price")
	return unwrap[float64](env, err, "failed to get token price")
}

// UpdateSettings replaces the application settings (admin)
func (c *Client) UpdateSettings(settings AppSettings) (*AppSettings, error) {
	env, err := c.Put("/settings", settings)
	updated, err := unwrap[AppSettings](env, err, "failed to update settings")
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
