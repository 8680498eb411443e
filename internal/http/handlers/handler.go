// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the Handler aggregate and shared DTO pieces. Handlers
// are transport-thin: they bind and validate JSON/query input, delegate to
// the application services, and translate service taxonomy errors into the
// envelope in response.go.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sigmalab/assistant-backend/internal/services"
)

// Handler bundles the application services behind the HTTP surface.
type Handler struct {
	Sessions  *services.SessionService
	Knowledge *services.KnowledgeService
	Settings  *services.SettingsService
}

// New constructs a Handler over the given services.
func New(sessions *services.SessionService, knowledge *services.KnowledgeService, settings *services.SettingsService) *Handler {
	return &Handler{Sessions: sessions, Knowledge: knowledge, Settings: settings}
}

// Pagination is the metadata block returned by paginated list endpoints.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// failFromService maps a service taxonomy error onto the HTTP envelope.
// Unrecognized errors become a logged 500.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrDimensionMismatch):
		fail(c, http.StatusBadRequest, ErrCodeDimensionMismatch, err.Error())
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
