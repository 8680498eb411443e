// Config store HTTP handlers: widget configurations and context entries.
//
//   - GET /widgets/{name}   PUT /widgets/{name}
//   - GET /context/{key}    PUT /context/{key}
//
// Widget updates bind into the service's explicit field mask; a JSON field
// this store does not know about simply has nowhere to land and is dropped
// by decoding, which keeps schema drift between the configuration UI and
// the store harmless.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sigmalab/assistant-backend/internal/domain"
	"github.com/sigmalab/assistant-backend/internal/services"
)

// UpdateWidgetRequest mirrors services.WidgetUpdate field for field; absent
// JSON fields stay nil and leave their columns alone.
type UpdateWidgetRequest struct {
	WelcomeMessage  *string              `json:"welcome_message"`
	PlaceholderText *string              `json:"placeholder_text"`
	BotName         *string              `json:"bot_name"`
	BotAvatarURL    *string              `json:"bot_avatar_url"`
	PrimaryColor    *string              `json:"primary_color"`
	Position        *string              `json:"position"`
	AutoOpenDelay   *int                 `json:"auto_open_delay"`
	OfflineMessage  *string              `json:"offline_message"`
	IsActive        *bool                `json:"is_active"`
	BusinessHours   domain.BusinessHours `json:"business_hours"`
}

// SetContextRequest is the JSON payload for a context upsert.
type SetContextRequest struct {
	Value    string `json:"value"`
	Category string `json:"category"`
}

// GetWidget returns the widget configuration named in the route.
func (h *Handler) GetWidget(c *gin.Context) {
	w, err := h.Settings.GetWidgetConfig(c.Request.Context(), c.Param("name"))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, w)
}

// UpdateWidget upserts the named widget configuration and returns the
// resulting row.
func (h *Handler) UpdateWidget(c *gin.Context) {
	var req UpdateWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	w, err := h.Settings.SetWidgetConfig(c.Request.Context(), c.Param("name"), services.WidgetUpdate{
		WelcomeMessage:  req.WelcomeMessage,
		PlaceholderText: req.PlaceholderText,
		BotName:         req.BotName,
		BotAvatarURL:    req.BotAvatarURL,
		PrimaryColor:    req.PrimaryColor,
		Position:        req.Position,
		AutoOpenDelay:   req.AutoOpenDelay,
		OfflineMessage:  req.OfflineMessage,
		IsActive:        req.IsActive,
		BusinessHours:   req.BusinessHours,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, w)
}

// GetContext returns the value stored under the route key, 404 when absent.
func (h *Handler) GetContext(c *gin.Context) {
	key := c.Param("key")
	value, found, err := h.Settings.GetContext(c.Request.Context(), key)
	if err != nil {
		failFromService(c, err)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "context key not found")
		return
	}
	ok(c, http.StatusOK, gin.H{"key": key, "value": value})
}

// SetContext upserts a context entry under the route key.
func (h *Handler) SetContext(c *gin.Context) {
	var req SetContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.Settings.SetContext(c.Request.Context(), c.Param("key"), req.Value, req.Category); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}
