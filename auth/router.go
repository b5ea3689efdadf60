package auth

import (
	"net/http"
	"net/url"
	"strings"

	"postboard/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const LoginPath = "/auth/login/"

// HandlerFunc gets the current user, nil for anonymous visitors on public routes
type HandlerFunc func(c *gin.Context, user *models.User)

// Router is a wrapper class that adds auth checks + User pre-loading
type Router struct {
	Base gin.IRoutes
	DB   *gorm.DB
}

// LoginURL is the login page that sends the user back to next afterwards
func LoginURL(next string) string {
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

func (cr *Router) currentUser(c *gin.Context) *models.User {
	user := LoadSession(c).User(cr.DB.WithContext(c.Request.Context()))
	if user.ID == 0 {
		return nil
	}
	return &user
}

// baseExec answers with 401 when the user is missing a permission, used by the JSON endpoints
func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, required []models.Permission) {
	user := cr.currentUser(c)
	if user == nil || !user.HasPermissions(required) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	handler(c, user)
}

// loginExec redirects anonymous visitors to the login page
func (cr *Router) loginExec(c *gin.Context, handler HandlerFunc) {
	user := cr.currentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
		return
	}
	handler(c, user)
}

func (cr *Router) POST(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

// Login registers a route for logged in users only
func (cr *Router) Login(method, path string, handler HandlerFunc) {
	cr.Base.Handle(method, path, func(c *gin.Context) {
		cr.loginExec(c, handler)
	})
}

// Public registers a route open to everybody, the user is loaded when there is one
func (cr *Router) Public(method, path string, handler HandlerFunc) {
	cr.Base.Handle(method, path, func(c *gin.Context) {
		handler(c, cr.currentUser(c))
	})
}
