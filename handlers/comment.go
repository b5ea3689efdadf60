package handlers

import (
	"errors"
	"net/http"

	"postboard/models"
	"postboard/posts"

	"github.com/gin-gonic/gin"
)

type CommentForm struct {
	Text string `form:"text" json:"text"`
}

// AddComment redirects to the post, a blank comment shows the post again with the error
func (a *API) AddComment(c *gin.Context, user *models.User) {
	id, ok := postIDParam(c)
	if !ok {
		a.notFound(c)
		return
	}
	form := CommentForm{}
	_ = c.ShouldBind(&form)
	_, err := a.Posts.AddComment(c.Request.Context(), user, id, form.Text)
	var formErrors posts.FormErrors
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, postURL(id))
	case errors.As(err, &formErrors):
		a.renderPostDetail(c, id, form, err)
	default:
		a.fail(c, err)
	}
}
