package v1

import (
	"net/http"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/middleware"
	"github.com/foodgram-api/services"
	"github.com/gin-gonic/gin"
)

// TagController handles tag endpoints
type TagController struct {
	tagService *services.TagService
}

// NewTagController creates a new tag controller
func NewTagController(tagService *services.TagService) *TagController {
	return &TagController{tagService: tagService}
}

// RegisterRoutes registers tag routes; writes are staff only
func (tc *TagController) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", tc.ListTags)
		tags.GET("/:id", tc.GetTag)
		tags.POST("", middleware.StaffMiddleware(), tc.CreateTag)
		tags.PATCH("/:id", middleware.StaffMiddleware(), tc.UpdateTag)
		tags.DELETE("/:id", middleware.StaffMiddleware(), tc.DeleteTag)
	}
}

// ListTags returns every tag
func (tc *TagController) ListTags(c *gin.Context) {
	tags, err := tc.tagService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, tags)
}

// GetTag returns a tag by ID
func (tc *TagController) GetTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	tag, err := tc.tagService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, tag)
}

// CreateTag adds a tag
func (tc *TagController) CreateTag(c *gin.Context) {
	var req dto.TagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := tc.tagService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, tag)
}

// UpdateTag changes a tag
func (tc *TagController) UpdateTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.TagUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := tc.tagService.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, tag)
}

// DeleteTag removes a tag
func (tc *TagController) DeleteTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := tc.tagService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
