package handlers

import (
	"net/http"
	"testing"

	"postboard/models"

	"github.com/stretchr/testify/assert"
)

func TestFollowHandlers(t *testing.T) {
	s := newTestServer(t)
	s.user("author")
	reader := s.user("reader")
	c := s.loggedIn(reader)

	for i := 0; i < 2; i++ {
		w := c.get("/profile/author/follow/")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/author/", w.Header().Get("Location"))
	}
	assert.Equal(t, int64(1), s.count(&models.Follow{}))

	w := c.get("/profile/reader/follow/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/reader/", w.Header().Get("Location"))
	assert.Equal(t, int64(1), s.count(&models.Follow{}), "self follow is ignored")

	assert.Equal(t, http.StatusNotFound, c.get("/profile/ghost/follow/").Code)

	w = c.postForm("/profile/author/unfollow/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/author/", w.Header().Get("Location"))
	assert.Zero(t, s.count(&models.Follow{}))

	assert.Equal(t, http.StatusNotFound, c.get("/profile/author/unfollow/").Code, "no edge to remove")
}
