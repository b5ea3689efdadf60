package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"postboard/cache"
	"postboard/db"
	"postboard/metrics"
	"postboard/models"
	"postboard/posts"
	"postboard/processing"
	"postboard/render"
	"postboard/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	testPerPage  = 10
	testPassword = "correct horse"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	api    *API
	cache  *cache.MemoryCache
}

func newTestServer(t *testing.T) *testServer {
	tx := db.OpenTest(t)
	require.NoError(t, models.Init(tx))
	require.NoError(t, processing.Init(tx))
	m := metrics.New(prometheus.NewRegistry())
	svc := posts.NewService(tx, storage.NewDiskStorage(t.TempDir()), m)
	svc.PerPage = testPerPage
	pageCache := cache.NewMemoryCache()
	api := NewAPI(tx, svc, pageCache, render.JSONRenderer{}, m, 20*time.Second)

	engine := gin.New()
	engine.Use(sessions.Sessions("session", cookie.NewStore([]byte("test-secret"))))
	api.Routes(engine)
	return &testServer{t: t, engine: engine, api: api, cache: pageCache}
}

func (s *testServer) user(username string) *models.User {
	u, err := models.UserCreate(s.api.DB, username, "", testPassword)
	require.NoError(s.t, err)
	return &u
}

func (s *testServer) group(slug string) *models.Group {
	g, err := models.GroupCreate(s.api.DB, "Group "+slug, slug, "")
	require.NoError(s.t, err)
	return &g
}

func (s *testServer) post(author *models.User, group *models.Group, text string) models.Post {
	p := models.Post{AuthorID: author.ID, Text: text}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(s.t, s.api.DB.Create(&p).Error)
	return p
}

func (s *testServer) count(model any) int64 {
	var n int64
	require.NoError(s.t, s.api.DB.Model(model).Count(&n).Error)
	return n
}

// client keeps the session cookie between requests like a browser
type client struct {
	s       *testServer
	cookies map[string]*http.Cookie
}

func (s *testServer) anonymous() *client {
	return &client{s: s, cookies: map[string]*http.Cookie{}}
}

func (s *testServer) loggedIn(user *models.User) *client {
	c := s.anonymous()
	w := c.postForm("/auth/login/", url.Values{"username": {user.Username}, "password": {testPassword}})
	require.Equal(s.t, http.StatusFound, w.Code, w.Body.String())
	return c
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.s.engine.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) postMultipart(path string, fields map[string]string, fileName string, file []byte) *httptest.ResponseRecorder {
	body := bytes.Buffer{}
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(c.s.t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", fileName)
		require.NoError(c.s.t, err)
		_, err = io.Copy(fw, bytes.NewReader(file))
		require.NoError(c.s.t, err)
	}
	require.NoError(c.s.t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

// page is the JSON rendering of a template context
type page struct {
	Template  string           `json:"template"`
	PageObj   *posts.Page      `json:"page_obj"`
	Group     *models.Group    `json:"group"`
	Author    *models.User     `json:"author"`
	Follow    bool             `json:"following"`
	IndexNav  bool             `json:"index"`
	FollowNav bool             `json:"follow"`
	Count     int64            `json:"post_count"`
	Post      *models.Post     `json:"post"`
	Comments  []models.Comment `json:"comments"`
	Form      struct {
		Errors map[string]string `json:"errors"`
	} `json:"form"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) page {
	t.Helper()
	p := page{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p), w.Body.String())
	return p
}

func texts(p page) []string {
	result := []string{}
	if p.PageObj == nil {
		return result
	}
	for _, post := range p.PageObj.Posts {
		result = append(result, post.Text)
	}
	return result
}
