package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"postboard/models"
	"postboard/posts"
	"postboard/render"

	"github.com/gin-gonic/gin"
)

type PostForm struct {
	Text  string `form:"text" json:"text"`
	Group string `form:"group" json:"group"`
}

type formView struct {
	Data   any              `json:"data"`
	Errors posts.FormErrors `json:"errors"`
}

func newFormView(data any, err error) formView {
	view := formView{Data: data, Errors: posts.FormErrors{}}
	var formErrors posts.FormErrors
	if errors.As(err, &formErrors) {
		view.Errors = formErrors
	}
	return view
}

// bindPostForm reads text, group and the optional image of a post form
func (a *API) bindPostForm(c *gin.Context) (PostForm, posts.PostInput, error) {
	form := PostForm{}
	if err := c.ShouldBind(&form); err != nil {
		return form, posts.PostInput{}, posts.FormErrors{"__all__": err.Error()}
	}
	in := posts.PostInput{Text: form.Text}
	errs := posts.FormErrors{}
	if group := strings.TrimSpace(form.Group); group != "" {
		id, err := strconv.ParseUint(group, 10, 64)
		if err != nil {
			errs["group"] = "Select a valid choice."
		} else {
			in.GroupID = &id
		}
	}
	file, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		errs["image"] = err.Error()
	default:
		f, err := file.Open()
		if err != nil {
			return form, in, err
		}
		defer f.Close()
		limit := a.Posts.MaxImageBytes
		if limit <= 0 {
			limit = file.Size
		}
		data, err := io.ReadAll(io.LimitReader(f, limit+1))
		if err != nil {
			return form, in, err
		}
		in.Image = &posts.ImageUpload{Filename: filepath.Base(file.Filename), Data: data}
	}
	if len(errs) > 0 {
		return form, in, errs
	}
	return form, in, nil
}

func (a *API) renderPostForm(c *gin.Context, form any, err error, postID uint64) {
	groups, gerr := a.Posts.Groups(c.Request.Context())
	if gerr != nil {
		a.fail(c, gerr)
		return
	}
	a.render(c, http.StatusOK, "posts/create_post.html", render.Context{
		"form":    newFormView(form, err),
		"groups":  groups,
		"is_edit": postID != 0,
		"post_id": postID,
	})
}

func (a *API) PostDetail(c *gin.Context, _ *models.User) {
	id, ok := postIDParam(c)
	if !ok {
		a.notFound(c)
		return
	}
	a.renderPostDetail(c, id, PostForm{}, nil)
}

func (a *API) renderPostDetail(c *gin.Context, id uint64, form any, formErr error) {
	view, err := a.Posts.PostDetail(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	a.render(c, http.StatusOK, "posts/post_detail.html", render.Context{
		"post":              view.Post,
		"comments":          view.Comments,
		"author_post_count": view.AuthorPostCount,
		"form":              newFormView(form, formErr),
	})
}

func (a *API) PostCreateForm(c *gin.Context, _ *models.User) {
	a.renderPostForm(c, PostForm{}, nil, 0)
}

func (a *API) PostCreate(c *gin.Context, user *models.User) {
	form, in, err := a.bindPostForm(c)
	if err == nil {
		_, err = a.Posts.CreatePost(c.Request.Context(), user, in)
	}
	var formErrors posts.FormErrors
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, profileURL(user))
	case errors.As(err, &formErrors):
		a.renderPostForm(c, form, err, 0)
	default:
		a.fail(c, err)
	}
}

// PostEditForm shows the filled form to the author, everybody else is sent to the post
func (a *API) PostEditForm(c *gin.Context, user *models.User) {
	id, ok := postIDParam(c)
	if !ok {
		a.notFound(c)
		return
	}
	view, err := a.Posts.PostDetail(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if view.Post.AuthorID != user.ID {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}
	form := PostForm{Text: view.Post.Text}
	if view.Post.GroupID != nil {
		form.Group = strconv.FormatUint(*view.Post.GroupID, 10)
	}
	a.renderPostForm(c, form, nil, id)
}

func (a *API) PostEdit(c *gin.Context, user *models.User) {
	id, ok := postIDParam(c)
	if !ok {
		a.notFound(c)
		return
	}
	form, in, err := a.bindPostForm(c)
	if err == nil {
		_, err = a.Posts.EditPost(c.Request.Context(), user, id, in)
	} else if view, derr := a.Posts.PostDetail(c.Request.Context(), id); derr != nil {
		err = derr
	} else if view.Post.AuthorID != user.ID {
		err = posts.ErrNotAuthor
	}
	var formErrors posts.FormErrors
	switch {
	case err == nil, errors.Is(err, posts.ErrNotAuthor):
		c.Redirect(http.StatusFound, postURL(id))
	case errors.As(err, &formErrors):
		a.renderPostForm(c, form, err, id)
	default:
		a.fail(c, err)
	}
}
