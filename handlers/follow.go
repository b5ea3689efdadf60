package handlers

import (
	"net/http"

	"postboard/models"

	"github.com/gin-gonic/gin"
)

func (a *API) ProfileFollow(c *gin.Context, user *models.User) {
	author, err := a.Posts.Follow(c.Request.Context(), user, c.Param("username"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(&author))
}

func (a *API) ProfileUnfollow(c *gin.Context, user *models.User) {
	author, err := a.Posts.Unfollow(c.Request.Context(), user, c.Param("username"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(&author))
}
