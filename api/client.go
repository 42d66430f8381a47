// Package api is a thin typed client for the storefront's HTTP API, used
// by specs to seed state and cross-check what the UI displays.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
)

// Product is a catalog entry as served by the API.
type Product struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int    `json:"stock"`
}

// CartItem is one line of a server-side cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartState is a server-side cart snapshot.
type CartState struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
	Total string     `json:"total"`
}

// Order is a checkout submission.
type Order struct {
	CartID     string `json:"cart_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// OrderConfirmation is the API's response to a placed order.
type OrderConfirmation struct {
	OrderNumber string `json:"order_number"`
	Total       string `json:"total"`
}

// Client wraps the storefront API.
type Client struct {
	c *req.Client
}

// New builds a client against the given API base URL.
func New(baseURL string) *Client {
	c := req.C().
		SetBaseURL(baseURL).
		SetCommonHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)
	return &Client{c: c}
}

// DevMode turns on request/response dumping for debugging a failing spec.
func (c *Client) DevMode() *Client {
	c.c.DevMode()
	return c
}

// apiError converts a non-2xx response into an error carrying status and
// body, so a failing spec shows what the server actually said.
func apiError(op string, resp *req.Response) error {
	return fmt.Errorf("api: %s: %s: %s", op, resp.Status, resp.String())
}

// Health checks the storefront's readiness endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.c.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return fmt.Errorf("api: health: %w", err)
	}
	if resp.IsErrorState() {
		return apiError("health", resp)
	}
	return nil
}

// Products lists the catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	resp, err := c.c.R().
		SetContext(ctx).
		SetSuccessResult(&products).
		Get("/api/products")
	if err != nil {
		return nil, fmt.Errorf("api: listing products: %w", err)
	}
	if resp.IsErrorState() {
		return nil, apiError("listing products", resp)
	}
	return products, nil
}

// Product fetches one catalog entry by ID.
func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var product Product
	resp, err := c.c.R().
		SetContext(ctx).
		SetSuccessResult(&product).
		SetPathParam("id", id).
		Get("/api/products/{id}")
	if err != nil {
		return nil, fmt.Errorf("api: fetching product %s: %w", id, err)
	}
	if resp.IsErrorState() {
		return nil, apiError("fetching product "+id, resp)
	}
	return &product, nil
}

// CreateCart makes an empty server-side cart.
func (c *Client) CreateCart(ctx context.Context) (*CartState, error) {
	var cart CartState
	resp, err := c.c.R().
		SetContext(ctx).
		SetSuccessResult(&cart).
		Post("/api/carts")
	if err != nil {
		return nil, fmt.Errorf("api: creating cart: %w", err)
	}
	if resp.IsErrorState() {
		return nil, apiError("creating cart", resp)
	}
	return &cart, nil
}

// AddToCart appends an item to a cart.
func (c *Client) AddToCart(ctx context.Context, cartID string, item CartItem) (*CartState, error) {
	var cart CartState
	resp, err := c.c.R().
		SetContext(ctx).
		SetBody(item).
		SetSuccessResult(&cart).
		SetPathParam("id", cartID).
		Post("/api/carts/{id}/items")
	if err != nil {
		return nil, fmt.Errorf("api: adding to cart %s: %w", cartID, err)
	}
	if resp.IsErrorState() {
		return nil, apiError("adding to cart "+cartID, resp)
	}
	return &cart, nil
}

// Cart fetches a cart snapshot.
func (c *Client) Cart(ctx context.Context, cartID string) (*CartState, error) {
	var cart CartState
	resp, err := c.c.R().
		SetContext(ctx).
		SetSuccessResult(&cart).
		SetPathParam("id", cartID).
		Get("/api/carts/{id}")
	if err != nil {
		return nil, fmt.Errorf("api: fetching cart %s: %w", cartID, err)
	}
	if resp.IsErrorState() {
		return nil, apiError("fetching cart "+cartID, resp)
	}
	return &cart, nil
}

// PlaceOrder submits a checkout.
func (c *Client) PlaceOrder(ctx context.Context, order Order) (*OrderConfirmation, error) {
	var conf OrderConfirmation
	resp, err := c.c.R().
		SetContext(ctx).
		SetBody(order).
		SetSuccessResult(&conf).
		Post("/api/orders")
	if err != nil {
		return nil, fmt.Errorf("api: placing order: %w", err)
	}
	if resp.IsErrorState() {
		return nil, apiError("placing order", resp)
	}
	return &conf, nil
}
