package posts

import (
	"bytes"
	"errors"
	"testing"

	"postboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireFormError(t *testing.T, err error, field string) {
	t.Helper()
	var formErrors FormErrors
	require.True(t, errors.As(err, &formErrors), "expected form errors, got %v", err)
	assert.Contains(t, formErrors, field)
}

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	group := f.group(t, "cats")

	post, err := f.svc.CreatePost(f.ctx, author, PostInput{
		Text:    "  Hello cats  ",
		GroupID: &group.ID,
		Image:   &ImageUpload{Filename: "small.png", Data: pngImage(t)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.count(t, &models.Post{}))

	stored := models.Post{}
	require.NoError(t, f.svc.DB.First(&stored, post.ID).Error)
	assert.Equal(t, "Hello cats", stored.Text)
	assert.Equal(t, author.ID, stored.AuthorID)
	require.NotNil(t, stored.GroupID)
	assert.Equal(t, group.ID, *stored.GroupID)
	assert.Regexp(t, `^posts/[0-9a-f-]{36}\.png$`, stored.Image)
	assert.NotZero(t, stored.CreatedAt)

	saved := bytes.Buffer{}
	_, err = f.svc.Storage.Load(stored.Image, &saved)
	require.NoError(t, err)
	assert.Equal(t, pngImage(t), saved.Bytes())
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	missingGroup := uint64(42)

	tests := []struct {
		name  string
		in    PostInput
		field string
	}{
		{"empty text", PostInput{Text: ""}, "text"},
		{"blank text", PostInput{Text: " \n\t"}, "text"},
		{"unknown group", PostInput{Text: "x", GroupID: &missingGroup}, "group"},
		{"not an image", PostInput{Text: "x", Image: &ImageUpload{Filename: "a.txt", Data: []byte("text")}}, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreatePost(f.ctx, author, tt.in)
			requireFormError(t, err, tt.field)
			assert.Zero(t, f.count(t, &models.Post{}), "nothing is stored")
		})
	}

	f.svc.MaxImageBytes = 10
	_, err := f.svc.CreatePost(f.ctx, author, PostInput{Text: "x", Image: &ImageUpload{Data: pngImage(t)}})
	requireFormError(t, err, "image")

	_, err = f.svc.CreatePost(f.ctx, nil, PostInput{Text: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestEditPostByAuthor(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	group := f.group(t, "cats")
	original, err := f.svc.CreatePost(f.ctx, author, PostInput{
		Text:  "original",
		Image: &ImageUpload{Data: pngImage(t)},
	})
	require.NoError(t, err)

	edited, err := f.svc.EditPost(f.ctx, author, original.ID, PostInput{Text: "edited", GroupID: &group.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.count(t, &models.Post{}))
	assert.Equal(t, "edited", edited.Text)
	require.NotNil(t, edited.Group)
	assert.Equal(t, "cats", edited.Group.Slug)
	assert.Equal(t, original.Image, edited.Image, "omitted image keeps the current one")
	assert.Equal(t, author.ID, edited.AuthorID)
	assert.Equal(t, original.CreatedAt, edited.CreatedAt)

	edited, err = f.svc.EditPost(f.ctx, author, original.ID, PostInput{Text: "image", Image: &ImageUpload{Data: pngImage(t)}})
	require.NoError(t, err)
	assert.NotEqual(t, original.Image, edited.Image)
	assert.Nil(t, edited.GroupID, "group can be removed")
}

func TestEditPostByOtherUser(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	other := f.user(t, "other")
	post := f.post(t, author, nil, "original")

	_, err := f.svc.EditPost(f.ctx, other, post.ID, PostInput{Text: "hijacked"})
	assert.ErrorIs(t, err, ErrNotAuthor)

	stored := models.Post{}
	require.NoError(t, f.svc.DB.First(&stored, post.ID).Error)
	assert.Equal(t, "original", stored.Text)
	assert.Equal(t, author.ID, stored.AuthorID)
}

func TestEditPostErrors(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	post := f.post(t, author, nil, "original")

	_, err := f.svc.EditPost(f.ctx, author, 9999, PostInput{Text: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.EditPost(f.ctx, author, post.ID, PostInput{Text: ""})
	requireFormError(t, err, "text")

	_, err = f.svc.EditPost(f.ctx, nil, post.ID, PostInput{Text: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	stored := models.Post{}
	require.NoError(t, f.svc.DB.First(&stored, post.ID).Error)
	assert.Equal(t, "original", stored.Text)
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	reader := f.user(t, "reader")
	post := f.post(t, author, nil, "post")

	comment, err := f.svc.AddComment(f.ctx, reader, post.ID, "Nice post")
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.count(t, &models.Comment{}))
	assert.Equal(t, "Nice post", comment.Text)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, reader.ID, comment.AuthorID)

	_, err = f.svc.AddComment(f.ctx, reader, post.ID, "   ")
	requireFormError(t, err, "text")
	_, err = f.svc.AddComment(f.ctx, reader, 9999, "text")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.AddComment(f.ctx, nil, post.ID, "text")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, int64(1), f.count(t, &models.Comment{}))
}

func TestCreateGroup(t *testing.T) {
	f := newFixture(t)

	group, err := f.svc.CreateGroup(f.ctx, "Cats", "cats", "All about cats")
	require.NoError(t, err)
	assert.Equal(t, "cats", group.Slug)

	_, err = f.svc.CreateGroup(f.ctx, "Cats again", "cats", "")
	requireFormError(t, err, "slug")
	_, err = f.svc.CreateGroup(f.ctx, "Bad", "no spaces", "")
	requireFormError(t, err, "slug")
	_, err = f.svc.CreateGroup(f.ctx, "", "empty-title", "")
	requireFormError(t, err, "title")
}

func TestFormErrorsMessage(t *testing.T) {
	err := FormErrors{"text": "required", "group": "invalid"}
	assert.Equal(t, "invalid form: group: invalid; text: required", err.Error())
	assert.NoError(t, FormErrors{}.orNil())
}
