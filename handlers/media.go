package handlers

import (
	"github.com/gin-gonic/gin"
)

// Media serves uploaded images and their thumbnails
func (a *API) Media(c *gin.Context) {
	a.Posts.Storage.Serve(c.Param("path"), c.Request, c.Writer)
}
