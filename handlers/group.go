package handlers

import (
	"errors"
	"net/http"

	"postboard/models"
	"postboard/posts"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type GroupCreateRequest struct {
	Title       string `form:"title" json:"title" binding:"required"`
	Slug        string `form:"slug" json:"slug" binding:"required"`
	Description string `form:"description" json:"description"`
}

// GroupCreate adds a group, admins only
func (a *API) GroupCreate(c *gin.Context, _ *models.User) {
	r := GroupCreateRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := a.Posts.CreateGroup(c.Request.Context(), r.Title, r.Slug, r.Description)
	var formErrors posts.FormErrors
	if errors.As(err, &formErrors) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "errors": formErrors})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return
	}
	c.JSON(http.StatusOK, group)
}
