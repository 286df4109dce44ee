// Package govclient is a typed client for the governance HTTP API.
package govclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/edvin/governance/internal/model"
)

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) ListInstances(ctx context.Context) ([]model.Instance, error) {
	var out []model.Instance
	if err := c.do(ctx, http.MethodGet, "/api/v1/instances", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetInstanceEnabled(ctx context.Context, instanceID string, enabled bool) error {
	path := "/api/v1/instances/" + url.PathEscape(instanceID) + "/status"
	return c.do(ctx, http.MethodPut, path, statusBody{Enabled: enabled}, nil)
}

func (c *Client) ListReplicaDataSources(ctx context.Context) ([]model.ReplicaDataSource, error) {
	var out []model.ReplicaDataSource
	if err := c.do(ctx, http.MethodGet, "/api/v1/replica-data-sources", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetReplicaDataSourceEnabled(ctx context.Context, schemaName, dataSourceName string, enabled bool) error {
	path := "/api/v1/replica-data-sources/" + url.PathEscape(schemaName) + "/" + url.PathEscape(dataSourceName) + "/status"
	return c.do(ctx, http.MethodPut, path, statusBody{Enabled: enabled}, nil)
}

func (c *Client) ListSchemas(ctx context.Context) ([]model.Schema, error) {
	var out []model.Schema
	if err := c.do(ctx, http.MethodGet, "/api/v1/schemas", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type statusBody struct {
	Enabled bool `json:"enabled"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: string(respBody)}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse %s %s response: %w", method, path, err)
	}
	return nil
}
