package client

import (
	"fmt"
	"net/url"
)

// CreateOrderRequest is the body of /payments/create-order
type CreateOrderRequest struct {
	Tokens int `json:"tokens"`
}

// CreatePaymentOrder opens an order for the given number of billing tokens
func (c *Client) CreatePaymentOrder(tokens int) (*PaymentOrder, error) {
	env, err := c.Post("/payments/create-order", CreateOrderRequest{Tokens: tokens})
	order, err := unwrap[PaymentOrder](env, err, "failed to create payment order")
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyPayment asks the server whether an order has been paid
func (c *Client) VerifyPayment(orderID string) (*PaymentVerification, error) {
	env, err := c.Post("/payments/verify/"+url.PathEscape(orderID), nil)
	verification, err := unwrap[PaymentVerification](env, err, "payment verification failed")
	if err != nil {
		return nil, err
	}
	return &verification, nil
}

// PaymentHistory returns the user's paginated payment orders
func (c *Client) PaymentHistory(page, size int) (*Page[PaymentOrder], error) {
	env, err := c.Get(fmt.Sprintf("/payments/history?page=%d&size=%d", page, size))
	result, err := unwrap[Page[PaymentOrder]](env, err, "failed to get payment history")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// TokenBalance returns the user's current billing token balance
func (c *Client) TokenBalance() (int, error) {
	env, err := c.Get("/payments/tokens")
	balance, err := unwrap[struct {
		Tokens int `json:"tokens"`
	}](env, err, "failed to get token balance")
	if err != nil {
		return 0, err
	}
	return balance.Tokens, nil
}

// PendingPayments lists orders awaiting confirmation (admin)
func (c *Client) PendingPayments() ([]PaymentOrder, error) {
	env, err := c.Get("/payments/pending")
	return unwrap[[]PaymentOrder](env, err, "failed to get pending payments")
}

// ExpiredPayments lists orders that timed out unpaid (admin)
func (c *Client) ExpiredPayments() ([]PaymentOrder, error) {
	env, err := c.Get("/payments/expired")
	return unwrap[[]PaymentOrder](env, err, "failed to get expired payments")
}

// ConfirmPayment marks an order as paid (admin)
func (c *Client) ConfirmPayment(orderID string) (*PaymentOrder, error) {
	env, err := c.Post("/payments/"+url.PathEscape(orderID)+"/confirm", nil)
	order, err := unwrap[PaymentOrder](env, err, "failed to confirm payment")
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FailPayment marks an order as failed with a reason (admin)
func (c *Client) FailPayment(orderID, reason string) (*PaymentOrder, error) {
	path := fmt.Sprintf("/payments/%s/fail?reason=%s", url.PathEscape(orderID), url.QueryEscape(reason))
	env, err := c.Post(path, nil)
	order, err := unwrap[PaymentOrder](env, err, "failed to mark payment as failed")
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CleanupExpiredPayments expires pending orders older than hoursOld (admin)
func (c *Client) CleanupExpiredPayments(hoursOld int) (int64, error) {
	env, err := c.Post(fmt.Sprintf("/payments/cleanup-expired?hoursOld=%d", hoursOld), nil)
	return unwrap[int64](env, err, "failed to cleanup expired payments")
}

// TokenPackages returns the static package pricing table shown before a
// purchase. Pricing is client-side only; the server charges per token.
func TokenPackages() []TokenPackage {
	return []TokenPackage{
		{Tokens: 1, Price: 1.99},
		{Tokens: 5, Price: 8.99, Popular: true},
		{Tokens: 10, Price: 15.99},
		{Tokens: 25, Price: 35.99},
		{Tokens: 50, Price: 65.99},
		{Tokens: 100, Price: 120.99},
	}
}
