package handler

import (
	"net/http"
	"time"

	"github.com/Rrens/storefront-assistant/internal/api/response"
)

// HealthCheck reports that the server is up
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// APINotFound answers every /api path the server does not own
func APINotFound(w http.ResponseWriter, r *http.Request) {
	response.NotFound(w, "API endpoint not found")
}
