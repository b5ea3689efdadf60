package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"postboard/auth"
	"postboard/cache"
	"postboard/metrics"
	"postboard/models"
	"postboard/posts"
	"postboard/render"
	"postboard/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Response struct {
	Error string `json:"error"`
}

// API holds everything the HTTP handlers need, one instance per server
type API struct {
	DB       *gorm.DB
	Posts    *posts.Service
	Cache    cache.PageCache
	Renderer render.Renderer
	Metrics  *metrics.Metrics
	IndexTTL time.Duration
}

func NewAPI(db *gorm.DB, service *posts.Service, pageCache cache.PageCache, renderer render.Renderer, m *metrics.Metrics, indexTTL time.Duration) *API {
	return &API{
		DB:       db,
		Posts:    service,
		Cache:    pageCache,
		Renderer: renderer,
		Metrics:  m,
		IndexTTL: indexTTL,
	}
}

// renderBody renders name and returns the body so callers can cache it
func (a *API) renderBody(c *gin.Context, status int, name string, ctx render.Context) (cache.Entry, bool) {
	contentType, body, err := a.Renderer.Render(name, ctx)
	if err != nil {
		utils.Logger.WithError(err).WithField("template", name).Error("render failed")
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return cache.Entry{}, false
	}
	c.Data(status, contentType, body)
	return cache.Entry{ContentType: contentType, Body: body}, true
}

func (a *API) render(c *gin.Context, status int, name string, ctx render.Context) {
	a.renderBody(c, status, name, ctx)
}

func (a *API) notFound(c *gin.Context) {
	a.render(c, http.StatusNotFound, "core/404.html", render.Context{"path": c.Request.URL.Path})
}

// fail answers with the response matching err, form errors are handled by the callers
func (a *API) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, posts.ErrNotFound):
		a.notFound(c)
	case errors.Is(err, posts.ErrUnauthenticated):
		c.Redirect(http.StatusFound, auth.LoginURL(c.Request.URL.RequestURI()))
	default:
		_ = c.Error(err)
		utils.Logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		a.render(c, http.StatusInternalServerError, "core/500.html", render.Context{})
	}
}

func (a *API) NoRoute(c *gin.Context) {
	a.notFound(c)
}

func postIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	return id, err == nil && id > 0
}

func pageParam(c *gin.Context) string {
	return c.Query("page")
}

func profileURL(user *models.User) string {
	return "/profile/" + url.PathEscape(user.Username) + "/"
}

func postURL(id uint64) string {
	return "/posts/" + strconv.FormatUint(id, 10) + "/"
}
