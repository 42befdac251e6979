package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/taskhub/backend/go-services/internal/models"
	"github.com/taskhub/taskhub/backend/go-services/internal/users"
	"github.com/taskhub/taskhub/backend/go-services/pkg/middleware"
)

// UserHandler exposes the user directory routes.
type UserHandler struct {
	svc *users.Service
}

func NewUserHandler(svc *users.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register mounts the user routes on an authenticated router group.
func (h *UserHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/profile", h.Profile)
	rg.PUT("/:id/role", middleware.RequireRole(models.RoleAdmin), h.UpdateRole)
}

// Profile returns the caller's directory record.
func (h *UserHandler) Profile(c *gin.Context) {
	actx := middleware.AuthContext(c)
	u, err := h.svc.GetBySubject(c.Request.Context(), actx.User.SubjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateRole is the administrative action that changes a user's stored role.
// The next request authenticated by that user picks up the new role without a
// token reissue.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}
	u, err := h.svc.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}
