package handlers

import (
	"net/http"
	"strings"

	"postboard/auth"
	"postboard/config"
	"postboard/models"
	"postboard/posts"
	"postboard/render"
	"postboard/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserLoginRequest struct {
	Username string `form:"username" json:"username" binding:"notblank"`
	Password string `form:"password" json:"-" binding:"required"`
	Next     string `form:"next" json:"next"`
}

type UserCreateRequest struct {
	Username string `form:"username" json:"username" binding:"notblank,max=150"`
	Email    string `form:"email" json:"email" binding:"omitempty,email"`
	Password string `form:"password" json:"-" binding:"required,min=8"`
	Next     string `form:"next" json:"next"`
}

var userFieldNames = map[string]string{
	"Username": "username",
	"Email":    "email",
	"Password": "password",
}

// safeNext only allows local redirects
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}

func (a *API) LoginForm(c *gin.Context) {
	a.render(c, http.StatusOK, "registration/login.html", render.Context{
		"form": newFormView(UserLoginRequest{Next: c.Query("next")}, nil),
	})
}

func (a *API) UserLogin(c *gin.Context) {
	req := UserLoginRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		a.render(c, http.StatusOK, "registration/login.html", render.Context{
			"form": newFormView(req, posts.FormErrors(bindingErrors(err, userFieldNames))),
		})
		return
	}
	user, err := models.UserLogin(a.DB.WithContext(c.Request.Context()), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		a.render(c, http.StatusOK, "registration/login.html", render.Context{
			"form": newFormView(req, posts.FormErrors{"__all__": "Please enter a correct username and password."}),
		})
		return
	}
	if err = auth.LoadSession(c).LoginUser(&user); err != nil {
		a.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, safeNext(req.Next))
}

func (a *API) SignupForm(c *gin.Context) {
	a.render(c, http.StatusOK, "users/signup.html", render.Context{
		"form": newFormView(UserCreateRequest{Next: c.Query("next")}, nil),
	})
}

func (a *API) UserCreate(c *gin.Context) {
	req := UserCreateRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		a.render(c, http.StatusOK, "users/signup.html", render.Context{
			"form": newFormView(req, posts.FormErrors(bindingErrors(err, userFieldNames))),
		})
		return
	}
	tx := a.DB.WithContext(c.Request.Context())
	var taken int64
	if err := tx.Model(&models.User{}).Where("username = ?", strings.TrimSpace(req.Username)).Count(&taken).Error; err != nil {
		a.fail(c, err)
		return
	}
	if taken > 0 {
		a.render(c, http.StatusOK, "users/signup.html", render.Context{
			"form": newFormView(req, posts.FormErrors{"username": "A user with that username already exists."}),
		})
		return
	}
	user, err := models.UserCreate(tx, req.Username, req.Email, req.Password)
	if err != nil {
		a.fail(c, err)
		return
	}
	if config.IsAdminUsername(user.Username) {
		if err = user.Grant(tx, models.PermissionAdmin); err != nil {
			a.fail(c, err)
			return
		}
		utils.Logger.WithField("user", user.Username).Info("admin permission granted")
	}
	if err = auth.LoadSession(c).LoginUser(&user); err != nil {
		a.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, safeNext(req.Next))
}

func (a *API) UserLogout(c *gin.Context) {
	auth.LoadSession(c).LogoutUser()
	c.Redirect(http.StatusFound, "/")
}
