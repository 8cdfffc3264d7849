// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/slateworks-vfx/slateworks/lib/track"
	"github.com/slateworks-vfx/slateworks/lib/track/store"
)

const testAPIKey = "test-api-key"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	trackStore, err := store.Open(filepath.Join(t.TempDir(), "track.db"), 2, logger)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { trackStore.Close() })

	server := httptest.NewServer(newHandler(trackStore, testAPIKey, logger))
	t.Cleanup(server.Close)
	return server
}

// post sends an authenticated JSON request and returns the response.
func post(t *testing.T, server *httptest.Server, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encoding payload: %v", err)
	}
	request, err := http.NewRequest(http.MethodPost, server.URL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+testAPIKey)
	response, err := server.Client().Do(request)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return response
}

func decodeBody(t *testing.T, response *http.Response, into any) {
	t.Helper()
	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(into); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestCreateAndFind(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	response := post(t, server, "/api/v1/create", createRequest{
		EntityType: "Asset",
		Data:       track.Record{"code": "chair", "asset_type": "prop"},
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d", response.StatusCode)
	}
	var created createResponse
	decodeBody(t, response, &created)
	if created.Record.ID() == 0 || created.Record.Type() != "Asset" {
		t.Errorf("created record = %v", created.Record)
	}

	response = post(t, server, "/api/v1/find", findRequest{
		EntityType: "Asset",
		Filters:    []track.Filter{track.Is("code", "chair")},
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("find status = %d", response.StatusCode)
	}
	var found findResponse
	decodeBody(t, response, &found)
	if len(found.Records) != 1 || found.Records[0].String("asset_type") != "prop" {
		t.Errorf("find = %v", found.Records)
	}
}

func TestFindEmptyResultIsJSONArray(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	response := post(t, server, "/api/v1/find", findRequest{EntityType: "Asset"})
	defer response.Body.Close()
	body, _ := io.ReadAll(response.Body)
	if !strings.Contains(string(body), `"records":[]`) {
		t.Errorf("empty find body = %s, want records:[]", body)
	}
}

func TestBadRequests(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	tests := []struct {
		name    string
		path    string
		payload any
	}{
		{"find without entity type", "/api/v1/find", findRequest{}},
		{"create without entity type", "/api/v1/create", createRequest{Data: track.Record{"a": 1}}},
		{"create without data", "/api/v1/create", createRequest{EntityType: "Asset"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := post(t, server, tt.path, tt.payload)
			response.Body.Close()
			if response.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", response.StatusCode)
			}
		})
	}

	// Malformed JSON.
	request, _ := http.NewRequest(http.MethodPost, server.URL+"/api/v1/find", strings.NewReader("{broken"))
	request.Header.Set("Authorization", "Bearer "+testAPIKey)
	response, err := server.Client().Do(request)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed JSON status = %d, want 400", response.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	body, _ := json.Marshal(findRequest{EntityType: "Asset"})
	request, _ := http.NewRequest(http.MethodPost, server.URL+"/api/v1/find", bytes.NewReader(body))
	response, err := server.Client().Do(request)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", response.StatusCode)
	}
}

func TestHealthzIsOpen(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	response, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", response.StatusCode)
	}
}

func TestClientAgainstService(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	client, err := track.NewClient(track.Config{
		BaseURL:    server.URL,
		APIKey:     testAPIKey,
		HTTPClient: server.Client(),
		Logger:     slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx := context.Background()
	created, err := client.Create(ctx, "PublishedFile", track.Record{
		"path":           "/p/show/cache/geo_v001.slgc",
		"version_number": 1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := client.FindOne(ctx, "PublishedFile", []track.Filter{
		track.Is("version_number", 1),
	})
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if found.ID() != created.ID() {
		t.Errorf("FindOne id = %d, want %d", found.ID(), created.ID())
	}
}
