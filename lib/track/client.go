// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package track

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// EntityPublishedFile is the entity type used for publish
// registrations.
const EntityPublishedFile = "PublishedFile"

// Client is the query and registration surface of the tracking
// service.
type Client interface {
	// Find returns all records of the given entity type matching
	// every filter. A nil filter list matches everything.
	Find(ctx context.Context, entityType string, filters []Filter) ([]Record, error)

	// FindOne returns the first matching record, or an error when
	// nothing matches.
	FindOne(ctx context.Context, entityType string, filters []Filter) (Record, error)

	// Create stores a new record and returns it with its assigned
	// id and type fields populated.
	Create(ctx context.Context, entityType string, data Record) (Record, error)
}

// Config holds configuration for creating an HTTP tracking client.
type Config struct {
	// BaseURL is the root URL of the tracking service. Required.
	BaseURL string

	// APIKey authenticates requests via the Authorization header.
	// Required; the service rejects unauthenticated requests.
	APIKey string

	// HTTPClient is used for all requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// HTTPClient talks to slate-track-service over its JSON API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewClient creates a tracking client from the given configuration.
func NewClient(config Config) (*HTTPClient, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("track: BaseURL is required")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("track: APIKey is required")
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type findRequest struct {
	EntityType string   `json:"entity_type"`
	Filters    []Filter `json:"filters,omitempty"`
}

type findResponse struct {
	Records []Record `json:"records"`
}

type createRequest struct {
	EntityType string `json:"entity_type"`
	Data       Record `json:"data"`
}

type createResponse struct {
	Record Record `json:"record"`
}

// Find implements Client.
func (c *HTTPClient) Find(ctx context.Context, entityType string, filters []Filter) ([]Record, error) {
	var response findResponse
	err := c.post(ctx, "/api/v1/find", findRequest{EntityType: entityType, Filters: filters}, &response)
	if err != nil {
		return nil, fmt.Errorf("track: finding %s: %w", entityType, err)
	}
	return response.Records, nil
}

// FindOne implements Client.
func (c *HTTPClient) FindOne(ctx context.Context, entityType string, filters []Filter) (Record, error) {
	records, err := c.Find(ctx, entityType, filters)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("track: no %s matches the given filters", entityType)
	}
	return records[0], nil
}

// Create implements Client.
func (c *HTTPClient) Create(ctx context.Context, entityType string, data Record) (Record, error) {
	var response createResponse
	err := c.post(ctx, "/api/v1/create", createRequest{EntityType: entityType, Data: data}, &response)
	if err != nil {
		return nil, fmt.Errorf("track: creating %s: %w", entityType, err)
	}
	return response.Record, nil
}

// RegisterPublish validates and stores a publish registration,
// returning the created PublishedFile record.
func RegisterPublish(ctx context.Context, client Client, reg PublishRegistration) (Record, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return client.Create(ctx, EntityPublishedFile, reg.Record())
}

func (c *HTTPClient) post(ctx context.Context, path string, request, response any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(httpResponse.Body, 4096))
		c.logger.Error("track request failed",
			"path", path,
			"status", httpResponse.StatusCode,
		)
		return fmt.Errorf("%s: %s", httpResponse.Status, strings.TrimSpace(string(message)))
	}

	if err := json.NewDecoder(httpResponse.Body).Decode(response); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
