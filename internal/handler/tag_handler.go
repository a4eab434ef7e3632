package handler

import (
	"net/http"

	"foodgram/backend/internal/database"
	"foodgram/backend/internal/models"
	"foodgram/backend/internal/store"

	"github.com/gin-gonic/gin"
)

type TagInput struct {
	Name string `json:"name" binding:"required,max=32" example:"Breakfast"`
	Slug string `json:"slug" binding:"max=32" example:"breakfast"`
}

// TagPatchInput updates only the fields present.
type TagPatchInput struct {
	Name *string `json:"name" binding:"omitempty,max=32"`
	Slug *string `json:"slug" binding:"omitempty,max=32"`
}

type TagResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"Breakfast"`
	Slug string `json:"slug" example:"breakfast"`
}

func newTagResponse(tag models.Tag) TagResponse {
	return TagResponse{
		ID:   tag.ID,
		Name: tag.Name,
		Slug: tag.Slug,
	}
}

func tagResponses(tags []models.Tag) []TagResponse {
	response := make([]TagResponse, len(tags))
	for i, tag := range tags {
		response[i] = newTagResponse(tag)
	}
	return response
}

// GetTags godoc
// @Summary      Get all tags
// @Description  Retrieves a list of all available tags.
// @Tags         tags
// @Produce      json
// @Success      200  {array}   TagResponse
// @Router       /tags [get]
func GetTags(c *gin.Context) {
	tags, err := store.ListTags(c.Request.Context(), database.DB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tagResponses(tags))
}

// GetTag godoc
// @Summary      Get a tag
// @Tags         tags
// @Produce      json
// @Param        id   path      int  true  "Tag ID"
// @Success      200  {object}  TagResponse
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Router       /tags/{id} [get]
func GetTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tag, err := store.GetTag(c.Request.Context(), database.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTagResponse(*tag))
}

// CreateTag godoc
// @Summary      Create a new tag
// @Description  Creates a new tag for recipes. A blank slug is derived from the name.
// @Tags         admin-tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body TagInput true "Tag Info"
// @Success      201  {object}  TagResponse
// @Failure      400  {object}  ErrorResponse "Invalid or duplicate tag"
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/tags [post]
func CreateTag(c *gin.Context) {
	var input TagInput
	if !bindJSON(c, &input) {
		return
	}

	tag, err := store.CreateTag(c.Request.Context(), database.DB, input.Name, input.Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTagResponse(*tag))
}

// UpdateTag godoc
// @Summary      Update a tag
// @Description  Updates the name and/or slug of an existing tag.
// @Tags         admin-tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int      true  "Tag ID"
// @Param        input body TagPatchInput true "New Tag Info"
// @Success      200  {object}  TagResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Router       /admin/tags/{id} [patch]
func UpdateTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input TagPatchInput
	if !bindJSON(c, &input) {
		return
	}

	tag, err := store.UpdateTag(c.Request.Context(), database.DB, id, input.Name, input.Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTagResponse(*tag))
}

// DeleteTag godoc
// @Summary      Delete a tag
// @Description  Deletes a tag and detaches it from recipes.
// @Tags         admin-tags
// @Security     BearerAuth
// @Param        id   path      int  true  "Tag ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Router       /admin/tags/{id} [delete]
func DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := store.DeleteTag(c.Request.Context(), database.DB, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
