// file: internal/server/response_types.go
// version: 2.0.0
// guid: 7f8a9b0c-1d2e-3f4a-5b6c-7d8e9f0a1b2c

package server

import (
	"github.com/jdfalk/bookmeta/internal/batch"
	"github.com/jdfalk/bookmeta/internal/metadata"
)

// IdentifyRequest is the JSON body accepted by POST /api/v1/identify.
// Identifier order sets the candidate rank.
type IdentifyRequest struct {
	Title       string               `json:"title"`
	Authors     []string             `json:"authors"`
	Identifiers metadata.Identifiers `json:"identifiers"`
	Timeout     string               `json:"timeout,omitempty"`
}

// IdentifyResponse lists the records found, best match first.
type IdentifyResponse struct {
	RequestID string            `json:"request_id"`
	Count     int               `json:"count"`
	Records   []metadata.Record `json:"records"`
}

// BatchRequest is the JSON body accepted by POST /api/v1/batch.
type BatchRequest struct {
	ISBNs []string `json:"isbns" binding:"required"`
}

// BatchResponse provides a consistent format for bulk lookups
type BatchResponse struct {
	RequestID string         `json:"request_id"`
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Results   []batch.Result `json:"results"`
}

// CapabilitiesResponse describes the configured source.
type CapabilitiesResponse struct {
	Name          string   `json:"name"`
	Capabilities  []string `json:"capabilities"`
	TouchedFields []string `json:"touched_fields"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status       string         `json:"status"` // "ok", "degraded"
	Timestamp    int64          `json:"timestamp"`
	Version      string         `json:"version"`
	Source       string         `json:"source"`
	Index        map[string]int `json:"index,omitempty"`
	PartialError string         `json:"partial_error,omitempty"`
}
