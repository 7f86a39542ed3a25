package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/giovaniif/fusion-store/cart/domain/product"
	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/infra/requestid"
	"github.com/giovaniif/fusion-store/infra/tracing"
)

// ProductGatewayHttp talks to the product service. Every call is a single
// attempt bounded by the http client's timeout.
type ProductGatewayHttp struct {
	httpClient *http.Client
	baseURL    string
}

func NewProductGatewayHttp(httpClient *http.Client, baseURL string) *ProductGatewayHttp {
	return &ProductGatewayHttp{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

type ReserveRequest struct {
	Quantity int `json:"quantity"`
}

type ReserveResponse struct {
	Success *bool `json:"success"`
}

type priceResponse struct {
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
}

type productDocument struct {
	Id    string         `json:"_id"`
	Title string         `json:"title"`
	Price *priceResponse `json:"price"`
	Stock *int           `json:"stock"`
}

type GetProductResponse struct {
	Product *productDocument `json:"product"`
}

func (p *ProductGatewayHttp) GetProduct(ctx context.Context, productId string) (*product.Product, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url(productId), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The catalog rejects ids it could never have issued with 400.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
		return nil, nil
	}
	if err := statusError(resp, "fetching product"); err != nil {
		return nil, err
	}

	var body GetProductResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	if body.Product == nil {
		return nil, nil
	}

	doc := body.Product
	out := &product.Product{
		Id:             doc.Id,
		Name:           doc.Title,
		AvailableStock: doc.Stock,
	}
	if out.Id == "" {
		out.Id = productId
	}
	if doc.Price != nil {
		out.Price = doc.Price.Amount
		out.Currency = doc.Price.Currency
	}
	return out, nil
}

func (p *ProductGatewayHttp) ReserveProduct(ctx context.Context, productId string, quantity int) (*product.ReservationResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	payloadBytes, err := json.Marshal(ReserveRequest{Quantity: quantity})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url(productId)+"/reserve", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Missing products and insufficient stock are a refused reservation.
	switch resp.StatusCode {
	case http.StatusConflict, http.StatusNotFound, http.StatusBadRequest:
		return &product.ReservationResult{Success: false}, nil
	}
	if err := statusError(resp, "reserving product"); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	result := &product.ReservationResult{Success: true}
	if len(bytes.TrimSpace(raw)) == 0 {
		return result, nil
	}
	var body ReserveResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode reservation: %w", err)
	}
	if body.Success != nil {
		result.Success = *body.Success
	}
	return result, nil
}

func (p *ProductGatewayHttp) url(productId string) string {
	return p.baseURL + "/products/" + url.PathEscape(productId)
}

func (p *ProductGatewayHttp) do(req *http.Request) (*http.Response, error) {
	tracing.Inject(req.Context(), req.Header)
	if id := requestid.FromContext(req.Context()); id != "" {
		req.Header.Set(requestid.Header, id)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, infra.NewTimeoutError("timeout calling product service"))
		}
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, infra.NewNetworkError(err.Error()))
	}
	return resp, nil
}

func statusError(resp *http.Response, action string) error {
	switch {
	case resp.StatusCode == http.StatusGatewayTimeout:
		return infra.NewTimeoutError("timeout " + action)
	case resp.StatusCode >= 500 && resp.StatusCode <= 599:
		return infra.NewNetworkError("network error " + action)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d %s", resp.StatusCode, action)
	}
	return nil
}
