// Package client calls a running scoring service over its JSON API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
	"github.com/go-resty/resty/v2"
)

const predictPath = "/api/v1/predict"

// Prediction is a successful scoring response.
type Prediction struct {
	State         string                `json:"state"`
	Score         float64               `json:"score"`
	Inputs        []domain.EchoField    `json:"inputs"`
	Contributions []domain.Contribution `json:"contributions"`
	ScoredAt      time.Time             `json:"scored_at"`
}

// FieldProblem is one invalid field reported by the server.
type FieldProblem struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Problem string `json:"problem"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int            `json:"-"`
	State   string         `json:"state"`
	Message string         `json:"error"`
	Fields  []FieldProblem `json:"fields"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("server returned %d: %s", e.Status, msg)
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Problem
	}
	return fmt.Sprintf("server returned %d: %s (%s)", e.Status, msg, strings.Join(parts, ", "))
}

// Client talks to one scoring service.
type Client struct {
	rest *resty.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	r := resty.New().SetBaseURL(strings.TrimRight(baseURL, "/"))
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(10 * time.Second)
	}
	return &Client{rest: r}
}

// Predict submits values keyed by display label or column name.
func (c *Client) Predict(ctx context.Context, values map[string]string) (*Prediction, error) {
	result := &Prediction{}
	apiErr := &APIError{}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(values).
		SetResult(result).
		SetError(apiErr).
		Post(predictPath)
	if err != nil {
		return nil, fmt.Errorf("predict request: %w", err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return nil, apiErr
	}
	return result, nil
}
