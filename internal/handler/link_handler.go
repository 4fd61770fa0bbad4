package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shortlink/internal/domain"
	"shortlink/internal/service"
	"shortlink/pkg/logger"
)

// LinkHandler handles HTTP requests for link operations
type LinkHandler struct {
	service service.LinkService
	logger  *logger.Logger
}

// NewLinkHandler creates a new link handler with dependencies
func NewLinkHandler(service service.LinkService, logger *logger.Logger) *LinkHandler {
	return &LinkHandler{
		service: service,
		logger:  logger,
	}
}

// CreateLink handles POST /api/v1/links
// Creates a new shortened link; anonymous when no owner header is present
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req domain.CreateLinkRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	ownerID := c.GetHeader("X-Owner-ID")

	summary, err := h.service.CreateLink(c.Request.Context(), &req, ownerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

// Redirect handles GET /:code
// Resolves the short code, records the click and issues the redirect.
// A password-protected link takes the secret via the password query param.
func (h *LinkHandler) Redirect(c *gin.Context) {
	code := c.Param("code")
	password := c.Query("password")

	meta := domain.RequestMetadata{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
	}

	originalURL, err := h.service.ResolveAndRecord(c.Request.Context(), code, password, meta)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// Temporary redirect so every visit comes back through click recording
	c.Redirect(http.StatusFound, originalURL)
}

// ListLinks handles GET /api/v1/links
// Lists the owner's links with optional search/tag filters and sorting
func (h *LinkHandler) ListLinks(c *gin.Context) {
	filter := domain.ListFilter{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		SortBy: c.Query("sort_by"),
		Order:  c.Query("order"),
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}

	summaries, err := h.service.GetOwnedLinks(c.Request.Context(), ownerID(c), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": summaries})
}

// UpdateLink handles PATCH /api/v1/links/:id
// Applies an owner-initiated patch (title, description, active flag, tags)
func (h *LinkHandler) UpdateLink(c *gin.Context) {
	var patch domain.UpdateLinkRequest

	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	summary, err := h.service.UpdateLink(c.Request.Context(), c.Param("id"), ownerID(c), &patch)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DeleteLink handles DELETE /api/v1/links/:id
// Soft deletes the link; the record stays behind for history
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	if err := h.service.SoftDeleteLink(c.Request.Context(), c.Param("id"), ownerID(c)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Link deleted successfully",
	})
}

// GetStats handles GET /api/v1/links/:id/stats
// Returns aggregated click statistics for one link
func (h *LinkHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetLinkStats(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetDashboard handles GET /api/v1/dashboard
// Summarizes all of the owner's links
func (h *LinkHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context(), ownerID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// ownerID reads the owner identity set by RequireOwner
func ownerID(c *gin.Context) string {
	return c.GetString("owner_id")
}

// queryInt parses an integer query parameter with a fallback
func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// handleError processes domain errors and returns appropriate HTTP responses
func (h *LinkHandler) handleError(c *gin.Context, err error) {
	var denied *domain.AccessDeniedError
	var appErr *domain.AppError

	switch {
	case errors.As(err, &denied):
		h.handleDenied(c, denied)

	case errors.As(err, &appErr):
		// Log internal errors but don't expose details to users
		if appErr.Internal {
			h.logger.Error("Internal server error", "error", appErr.Err)
			c.JSON(appErr.StatusCode, domain.ErrorResponse{
				Error:   "internal_error",
				Message: "An internal error occurred",
				Code:    appErr.StatusCode,
			})
		} else {
			c.JSON(appErr.StatusCode, domain.ErrorResponse{
				Error:   "client_error",
				Message: appErr.Message,
				Code:    appErr.StatusCode,
			})
		}

	case errors.Is(err, domain.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, domain.ErrorResponse{
			Error:   "not_found",
			Message: "The requested link was not found",
			Code:    http.StatusNotFound,
		})

	case errors.Is(err, domain.ErrAliasTaken):
		c.JSON(http.StatusConflict, domain.ErrorResponse{
			Error:   "alias_taken",
			Message: "This custom alias is already in use",
			Code:    http.StatusConflict,
		})

	case errors.Is(err, domain.ErrInvalidAlias):
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_alias",
			Message: "The custom alias contains invalid characters",
			Code:    http.StatusBadRequest,
		})

	case errors.Is(err, domain.ErrInvalidURL):
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_url",
			Message: "The provided URL is invalid",
			Code:    http.StatusBadRequest,
		})

	case errors.Is(err, domain.ErrAllocationExhausted):
		// Operational failure: every generation attempt collided.
		// Retryable from the client's perspective.
		h.logger.Error("Allocation exhausted", "error", err)
		c.JSON(http.StatusServiceUnavailable, domain.ErrorResponse{
			Error:   "allocation_exhausted",
			Message: "Could not allocate a short code, please retry",
			Code:    http.StatusServiceUnavailable,
		})

	default:
		h.logger.Error("Unexpected error", "error", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
			Code:    http.StatusInternalServerError,
		})
	}
}

// handleDenied maps each deny reason to its status code. Password denials
// carry requires_password so the client knows to prompt instead of failing.
func (h *LinkHandler) handleDenied(c *gin.Context, denied *domain.AccessDeniedError) {
	switch denied.Reason {
	case domain.DenyNotFound:
		c.JSON(http.StatusNotFound, domain.ErrorResponse{
			Error:   "not_found",
			Message: "The requested link was not found",
			Code:    http.StatusNotFound,
		})

	case domain.DenyInactive:
		c.JSON(http.StatusGone, domain.ErrorResponse{
			Error:   "link_inactive",
			Message: "This link has been deactivated",
			Code:    http.StatusGone,
		})

	case domain.DenyExpired:
		c.JSON(http.StatusGone, domain.ErrorResponse{
			Error:   "link_expired",
			Message: "This link has expired",
			Code:    http.StatusGone,
		})

	case domain.DenyClickLimit:
		c.JSON(http.StatusGone, domain.ErrorResponse{
			Error:   "click_limit_reached",
			Message: "This link has reached its maximum number of clicks",
			Code:    http.StatusGone,
		})

	case domain.DenyPasswordRequired:
		c.JSON(http.StatusUnauthorized, domain.ErrorResponse{
			Error:            "password_required",
			Message:          "This link is password protected",
			Code:             http.StatusUnauthorized,
			RequiresPassword: true,
		})

	case domain.DenyPasswordIncorrect:
		c.JSON(http.StatusUnauthorized, domain.ErrorResponse{
			Error:            "password_incorrect",
			Message:          "Incorrect password",
			Code:             http.StatusUnauthorized,
			RequiresPassword: true,
		})

	default:
		c.JSON(http.StatusForbidden, domain.ErrorResponse{
			Error:   "access_denied",
			Message: "Access to this link was denied",
			Code:    http.StatusForbidden,
		})
	}
}
