package handlers

import (
	"errors"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskhub/taskhub/backend/go-services/internal/models"
	"github.com/taskhub/taskhub/backend/go-services/internal/storage"
	"github.com/taskhub/taskhub/backend/go-services/internal/tasks"
	"github.com/taskhub/taskhub/backend/go-services/pkg/logger"
	"github.com/taskhub/taskhub/backend/go-services/pkg/middleware"
)

// TaskHandler holds dependencies for the task routes. store may be nil, in
// which case attachment routes are not registered.
type TaskHandler struct {
	svc   *tasks.Service
	store *storage.AttachmentStore
}

func NewTaskHandler(svc *tasks.Service, store *storage.AttachmentStore) *TaskHandler {
	return &TaskHandler{svc: svc, store: store}
}

// Register mounts the task routes on an authenticated router group.
func (h *TaskHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), h.Delete)
	if h.store != nil {
		rg.POST("/:id/attachment", h.UploadAttachment)
		rg.GET("/:id/attachment/:key", h.AttachmentURL)
	}
}

func (h *TaskHandler) List(c *gin.Context) {
	actx := middleware.AuthContext(c)
	list, err := h.svc.ListFor(c.Request.Context(), actx.User.SubjectID, actx.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actx := middleware.AuthContext(c)
	t, err := h.svc.Create(c.Request.Context(), req.Title, req.Description, actx.User.SubjectID)
	if err != nil {
		if errors.Is(err, tasks.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actx := middleware.AuthContext(c)
	patch := tasks.Patch{Title: req.Title, Description: req.Description, Completed: req.Completed}
	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch, actx.User.SubjectID, actx.Role)
	if err != nil {
		switch {
		case errors.Is(err, tasks.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, tasks.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// UploadAttachment stores a multipart file for the task and returns its key.
func (h *TaskHandler) UploadAttachment(c *gin.Context) {
	actx := middleware.AuthContext(c)
	if _, err := h.svc.Get(c.Request.Context(), c.Param("id"), actx.User.SubjectID, actx.Role); err != nil {
		h.attachmentTaskError(c, err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	key := path.Join("tasks", c.Param("id"), uuid.NewString()+"-"+path.Base(fh.Filename))
	contentType := fh.Header.Get("Content-Type")
	if err := h.store.Upload(c.Request.Context(), key, f, fh.Size, contentType); err != nil {
		logger.Errorf("attachment upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

// AttachmentURL returns a short-lived presigned download URL for an attachment.
func (h *TaskHandler) AttachmentURL(c *gin.Context) {
	actx := middleware.AuthContext(c)
	if _, err := h.svc.Get(c.Request.Context(), c.Param("id"), actx.User.SubjectID, actx.Role); err != nil {
		h.attachmentTaskError(c, err)
		return
	}
	key := path.Join("tasks", c.Param("id"), c.Param("key"))
	url, err := h.store.PresignedURL(c.Request.Context(), key, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *TaskHandler) attachmentTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, tasks.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
