// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/slateworks-vfx/slateworks/lib/service"
	"github.com/slateworks-vfx/slateworks/lib/track"
	"github.com/slateworks-vfx/slateworks/lib/track/store"
)

// maxRequestBody caps the size of a find or create payload. Tracking
// records are small; anything past this is a client bug.
const maxRequestBody = 1 << 20

type handler struct {
	store  *store.Store
	logger *slog.Logger
}

// newHandler builds the service's HTTP routing: the API endpoints
// behind bearer auth, the health probe open.
func newHandler(trackStore *store.Store, apiKey string, logger *slog.Logger) http.Handler {
	h := &handler{store: trackStore, logger: logger}

	api := http.NewServeMux()
	api.HandleFunc("POST /api/v1/find", h.handleFind)
	api.HandleFunc("POST /api/v1/create", h.handleCreate)

	mux := http.NewServeMux()
	mux.Handle("/api/", service.RequireBearer(apiKey, api))
	mux.HandleFunc("GET /healthz", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
		fmt.Fprintln(writer, "ok")
	})
	return mux
}

type findRequest struct {
	EntityType string         `json:"entity_type"`
	Filters    []track.Filter `json:"filters"`
}

type findResponse struct {
	Records []track.Record `json:"records"`
}

type createRequest struct {
	EntityType string       `json:"entity_type"`
	Data       track.Record `json:"data"`
}

type createResponse struct {
	Record track.Record `json:"record"`
}

func (h *handler) handleFind(writer http.ResponseWriter, request *http.Request) {
	var body findRequest
	if !h.decode(writer, request, &body) {
		return
	}
	if body.EntityType == "" {
		http.Error(writer, "entity_type is required", http.StatusBadRequest)
		return
	}

	records, err := h.store.Find(request.Context(), body.EntityType, body.Filters)
	if err != nil {
		h.logger.Error("find failed", "entity_type", body.EntityType, "error", err)
		http.Error(writer, "query failed", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []track.Record{}
	}
	h.respond(writer, findResponse{Records: records})
}

func (h *handler) handleCreate(writer http.ResponseWriter, request *http.Request) {
	var body createRequest
	if !h.decode(writer, request, &body) {
		return
	}
	if body.EntityType == "" {
		http.Error(writer, "entity_type is required", http.StatusBadRequest)
		return
	}
	if len(body.Data) == 0 {
		http.Error(writer, "data is required", http.StatusBadRequest)
		return
	}

	record, err := h.store.Create(request.Context(), body.EntityType, body.Data)
	if err != nil {
		h.logger.Error("create failed", "entity_type", body.EntityType, "error", err)
		http.Error(writer, "create failed", http.StatusInternalServerError)
		return
	}
	h.logger.Info("record created",
		"entity_type", body.EntityType,
		"id", record.ID(),
	)
	h.respond(writer, createResponse{Record: record})
}

// decode reads and parses the request body, writing a 400 and
// returning false on malformed input.
func (h *handler) decode(writer http.ResponseWriter, request *http.Request, into any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxRequestBody))
	if err := decoder.Decode(into); err != nil {
		http.Error(writer, fmt.Sprintf("malformed request: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *handler) respond(writer http.ResponseWriter, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}
