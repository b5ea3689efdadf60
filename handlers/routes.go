package handlers

import (
	"net/http"

	"postboard/auth"
	"postboard/models"
	"postboard/utils"

	"github.com/gin-gonic/gin"
)

const mediaCacheSeconds = 7 * 86400

// Routes registers every page of the site on router
func (a *API) Routes(router *gin.Engine) {
	RegisterValidators()
	authRouter := &auth.Router{Base: router, DB: a.DB}

	// Feeds
	authRouter.Public(http.MethodGet, "/", a.Index)
	authRouter.Public(http.MethodGet, "/group/:slug/", a.GroupPosts)
	authRouter.Public(http.MethodGet, "/profile/:username/", a.Profile)
	authRouter.Login(http.MethodGet, "/follow/", a.FollowIndex)
	// Posts
	authRouter.Public(http.MethodGet, "/posts/:post_id/", a.PostDetail)
	authRouter.Login(http.MethodGet, "/create/", a.PostCreateForm)
	authRouter.Login(http.MethodPost, "/create/", a.PostCreate)
	authRouter.Login(http.MethodGet, "/posts/:post_id/edit/", a.PostEditForm)
	authRouter.Login(http.MethodPost, "/posts/:post_id/edit/", a.PostEdit)
	authRouter.Login(http.MethodPost, "/posts/:post_id/comment/", a.AddComment)
	// Follow graph
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		authRouter.Login(method, "/profile/:username/follow/", a.ProfileFollow)
		authRouter.Login(method, "/profile/:username/unfollow/", a.ProfileUnfollow)
	}
	// Groups
	authRouter.POST("/group/", a.GroupCreate, models.PermissionAdmin)
	// Users
	router.GET(auth.LoginPath, a.LoginForm)
	router.POST(auth.LoginPath, a.UserLogin)
	router.GET("/auth/signup/", a.SignupForm)
	router.POST("/auth/signup/", a.UserCreate)
	router.GET("/auth/logout/", a.UserLogout)
	router.POST("/auth/logout/", a.UserLogout)
	// Uploaded images
	router.GET("/media/*path", (&utils.CacheRouter{CacheTime: mediaCacheSeconds, Public: true}).Handler(), a.Media)

	router.NoRoute(a.NoRoute)
}
