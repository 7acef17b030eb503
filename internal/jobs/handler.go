package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumefit-backend/internal/documents"
	"resumefit-backend/internal/shared/server/middleware"
	"resumefit-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the jobs service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job-match routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/match", h.match)
}

type matchRequest struct {
	DocumentID string `json:"documentId"`
}

func (h *Handler) match(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	// Body is optional; without it the user's current resume is matched.
	var req matchRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	result, err := h.Svc.Match(c.Request.Context(), userID, req.DocumentID)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "upload a resume before matching jobs", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to match jobs", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, result)
}
