// Session ledger HTTP handlers.
//
// This file exposes REST endpoints for visitors, users, sessions, and
// messages:
//   - POST   /visitors/resolve         (upsert visitor by natural key)
//   - GET    /visitors/{id}/stats      (session count + newest update time)
//   - POST   /users                    (register a user)
//   - GET    /users/{id}               (fetch a user)
//   - POST   /sessions                 (open a session)
//   - GET    /sessions/by-token/{tok}  (resolve a session from its token)
//   - POST   /sessions/{id}/close      (close, optionally with a rating)
//   - DELETE /sessions/{id}            (cascade delete with messages)
//   - POST   /sessions/{id}/messages   (append one turn)
//   - GET    /sessions/{id}/messages   (list paginated, timestamp order)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sigmalab/assistant-backend/internal/domain"
	"github.com/sigmalab/assistant-backend/internal/services"
	"github.com/sigmalab/assistant-backend/internal/utils"
)

//
// DTOs
//

// ResolveVisitorRequest is the JSON payload for visitor resolution. All
// fields are optional; a missing visitor_id yields a freshly generated one.
type ResolveVisitorRequest struct {
	VisitorID  string `json:"visitor_id"`
	IPAddress  string `json:"ip_address"`
	UserAgent  string `json:"user_agent"`
	DeviceType string `json:"device_type"`
	Browser    string `json:"browser"`
}

// CreateUserRequest is the JSON payload for user registration.
type CreateUserRequest struct {
	Username string  `json:"username" binding:"required,min=1"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

// OpenSessionRequest is the JSON payload for opening a session.
type OpenSessionRequest struct {
	VisitorID *uint  `json:"visitor_id"`
	UserID    *uint  `json:"user_id"`
	Title     string `json:"title"`
	PageURL   string `json:"page_url"`
}

// OpenSessionResponse returns the new session's ID and its opaque token.
type OpenSessionResponse struct {
	ID    uint   `json:"id"`
	Token string `json:"token"`
}

// CloseSessionRequest optionally records a satisfaction rating (1..5).
type CloseSessionRequest struct {
	SatisfactionRating *int `json:"satisfaction_rating"`
}

// AppendMessageRequest is the JSON payload for appending one message turn.
type AppendMessageRequest struct {
	Role       string `json:"role"    binding:"required"`
	Content    string `json:"content" binding:"required,min=1"`
	TokensUsed *int   `json:"tokens_used"`
}

// ListMessagesResponse contains a page of messages plus pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// clampPagination parses page/page_size from query parameters, applying
// defaults and caps.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

// idParam parses the :id route parameter as an unsigned integer.
func idParam(c *gin.Context) (uint, bool) {
	n := utils.AtoiDefault(c.Param("id"), -1)
	if n < 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid id")
		return 0, false
	}
	return uint(n), true
}

//
// Handlers
//

// ResolveVisitor upserts a visitor by its public token and returns the
// surrogate ID.
func (h *Handler) ResolveVisitor(c *gin.Context) {
	var req ResolveVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	id, err := h.Sessions.ResolveVisitor(c.Request.Context(), services.ResolveVisitorInput{
		VisitorID:  req.VisitorID,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		DeviceType: req.DeviceType,
		Browser:    req.Browser,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id})
}

// VisitorStats reports how many sessions the visitor owns and when the
// newest one last changed; 404 for unknown visitors.
func (h *Handler) VisitorStats(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	count, maxAt, err := h.Sessions.VisitorStats(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"count": count, "updated_at": maxAt})
}

// CreateUser registers a new user. Duplicate username/email answers 409.
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username is required")
		return
	}
	id, err := h.Sessions.CreateUser(c.Request.Context(), req.Username, req.Email, req.Phone)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"id": id})
}

// GetUser returns a registered user; 404 for unknown IDs.
func (h *Handler) GetUser(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	u, err := h.Sessions.GetUser(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// GetSessionByToken looks a session up by the token issued at open time, so
// a returning client can resume a conversation.
func (h *Handler) GetSessionByToken(c *gin.Context) {
	sess, err := h.Sessions.GetSessionByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, sess)
}

// OpenSession creates an active session and returns its ID and token.
func (h *Handler) OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	id, token, err := h.Sessions.OpenSession(c.Request.Context(), req.VisitorID, req.UserID, req.Title, req.PageURL)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, OpenSessionResponse{ID: id, Token: token})
}

// CloseSession marks a session ended. Closing an unknown or already-closed
// session still answers 204; only a malformed rating is an error.
func (h *Handler) CloseSession(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	var req CloseSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	if err := h.Sessions.CloseSession(c.Request.Context(), id, req.SatisfactionRating); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// DeleteSession removes a session and its messages.
func (h *Handler) DeleteSession(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	if err := h.Sessions.DeleteSession(c.Request.Context(), id); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// AppendMessage appends one turn to a session; 404 when the session does
// not exist.
func (h *Handler) AppendMessage(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	var req AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "role and content are required")
		return
	}
	msgID, err := h.Sessions.AppendMessage(c.Request.Context(), id, req.Role, req.Content, req.TokensUsed)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"id": msgID})
}

// ListMessages returns a page of a session's messages in timestamp order.
func (h *Handler) ListMessages(c *gin.Context) {
	id, okID := idParam(c)
	if !okID {
		return
	}
	page, pageSize := clampPagination(c)
	items, total, err := h.Sessions.ListMessagesPage(c.Request.Context(), id, (page-1)*pageSize, pageSize)
	if err != nil {
		failFromService(c, err)
		return
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}
