package handlers

import (
	"net/http"
	"strconv"

	"postboard/models"
	"postboard/render"

	"github.com/gin-gonic/gin"
)

const indexCachePrefix = "index:"

func (a *API) countCache(result string) {
	if a.Metrics != nil {
		a.Metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}

// indexCacheKey depends on the page number only, other query parameters do not
// create new entries
func indexCacheKey(page string) (string, string) {
	number, err := strconv.Atoi(page)
	if err != nil || number < 1 {
		number = 1
	}
	page = strconv.Itoa(number)
	return indexCachePrefix + "/?page=" + page, page
}

// Index is the global feed. The rendered page is cached per page number for IndexTTL
// and new posts show up only when the entry expires or the cache is cleared.
func (a *API) Index(c *gin.Context, _ *models.User) {
	ctx := c.Request.Context()
	key, page := indexCacheKey(pageParam(c))
	if entry, ok := a.Cache.Get(ctx, key); ok {
		a.countCache("hit")
		c.Data(http.StatusOK, entry.ContentType, entry.Body)
		return
	}
	a.countCache("miss")
	feed, err := a.Posts.GlobalFeed(ctx, page)
	if err != nil {
		a.fail(c, err)
		return
	}
	entry, ok := a.renderBody(c, http.StatusOK, "posts/index.html", render.Context{
		"index":    true,
		"page_obj": feed,
	})
	if ok {
		a.Cache.Set(ctx, key, entry, a.IndexTTL)
	}
}

func (a *API) GroupPosts(c *gin.Context, _ *models.User) {
	view, err := a.Posts.GroupFeed(c.Request.Context(), c.Param("slug"), pageParam(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	a.render(c, http.StatusOK, "posts/group_list.html", render.Context{
		"group":    view.Group,
		"page_obj": view.Page,
	})
}

func (a *API) Profile(c *gin.Context, user *models.User) {
	view, err := a.Posts.ProfileFeed(c.Request.Context(), user, c.Param("username"), pageParam(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	a.render(c, http.StatusOK, "posts/profile.html", render.Context{
		"author":     view.Author,
		"post_count": view.PostCount,
		"following":  view.Following,
		"page_obj":   view.Page,
	})
}

func (a *API) FollowIndex(c *gin.Context, user *models.User) {
	page, err := a.Posts.FollowFeed(c.Request.Context(), user, pageParam(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	a.render(c, http.StatusOK, "posts/follow.html", render.Context{
		"follow":   true,
		"page_obj": page,
	})
}
