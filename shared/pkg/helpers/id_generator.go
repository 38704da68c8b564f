package helpers

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID between the gateway and services
const RequestIDHeader = "X-Request-ID"

// IDGenerator generates request IDs
type IDGenerator struct{}

// NewIDGenerator creates a new ID generator
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// GenerateUUID generates a UUID v4
func (g *IDGenerator) GenerateUUID() string {
	return uuid.New().String()
}

// RequestID returns the incoming request ID when it is a valid UUID, or a new one
func (g *IDGenerator) RequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	return g.GenerateUUID()
}
