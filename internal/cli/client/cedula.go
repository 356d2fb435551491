package client

import (
	"fmt"
	"net/url"
)

// QueryRequest is the body of the cédula query endpoints
type QueryRequest struct {
	Cedula string `json:"cedula"`
}

// QueryCedula performs a synchronous cédula lookup, spending one billing token
func (c *Client) QueryCedula(cedula string) (*CedulaQuery, error) {
	env, err := c.Post("/cedula-queries/query", QueryRequest{Cedula: cedula})
	query, err := unwrap[CedulaQuery](env, err, "cedula query failed")
	if err != nil {
		return nil, err
	}
	return &query, nil
}

// QueryCedulaAsync enqueues an asynchronous lookup and returns the query ID
func (c *Client) QueryCedulaAsync(cedula string) (string, error) {
	env, err := c.Post("/cedula-queries/query-async", QueryRequest{Cedula: cedula})
	return unwrap[string](env, err, "async cedula query failed")
}

// CanQuery reports whether the user has billing tokens left to spend
func (c *Client) CanQuery() (bool, error) {
	env, err := c.Get("/cedula-queries/can-query")
	return unwrap[bool](env, err, "failed to check query availability")
}

// QueryHistory returns the user's paginated query history
func (c *Client) QueryHistory(page, size int, sortBy, sortDir string) (*Page[CedulaQuery], error) {
	params := url.Values{}
	params.Set("page", fmt.Sprint(page))
	params.Set("size", fmt.Sprint(size))
	params.Set("sortBy", sortBy)
	params.Set("sortDir", sortDir)

	env, err := c.Get("/cedula-queries/history?" + params.Encode())
	result, err := unwrap[Page[CedulaQuery]](env, err, "failed to get query history")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetQuery returns a single query by ID
func (c *Client) GetQuery(queryID string) (*CedulaQuery, error) {
	env, err := c.Get("/cedula-queries/" + url.PathEscape(queryID))
	query, err := unwrap[CedulaQuery](env, err, "failed to get query details")
	if err != nil {
		return nil, err
	}
	return &query, nil
}

// GetQueryStats returns the user's query statistics
func (c *Client) GetQueryStats() (*QueryStats, error) {
	env, err := c.Get("/cedula-queries/stats")
	stats, err := unwrap[QueryStats](env, err, "failed to get query stats")
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentQueries returns the user's most recent queries. The server accepts
// limits between 1 and 20; out-of-range values are clamped before sending.
func (c *Client) RecentQueries(limit int) ([]CedulaQuery, error) {
	limit = min(max(limit, 1), 20)

	env, err := c.Get(fmt.Sprintf("/cedula-queries/recent?limit=%d", limit))
	return unwrap[[]CedulaQuery](env, err, "failed to get recent queries")
}

// SearchQueries finds the user's past queries by full or partial cédula
func (c *Client) SearchQueries(cedula string) ([]CedulaQuery, error) {
	env, err := c.Get("/cedula-queries/search?cedula=" + url.QueryEscape(cedula))
	return unwrap[[]CedulaQuery](env, err, "search failed")
}
