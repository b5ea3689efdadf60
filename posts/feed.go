package posts

import (
	"context"

	"postboard/models"

	"gorm.io/gorm"
)

type GroupView struct {
	Group models.Group `json:"group"`
	Page  Page         `json:"page_obj"`
}

type ProfileView struct {
	Author    models.User `json:"author"`
	PostCount int64       `json:"post_count"`
	Following bool        `json:"following"`
	Page      Page        `json:"page_obj"`
}

type PostView struct {
	Post            models.Post      `json:"post"`
	Comments        []models.Comment `json:"comments"`
	AuthorPostCount int64            `json:"author_post_count"`
}

func (s *Service) posts() *gorm.DB {
	return s.DB.Model(&models.Post{})
}

// GlobalFeed is every post of every author
func (s *Service) GlobalFeed(ctx context.Context, page string) (Page, error) {
	return Paginate(ctx, s.posts(), s.PerPage, page)
}

func (s *Service) GroupFeed(ctx context.Context, slug, page string) (GroupView, error) {
	view := GroupView{}
	if err := s.DB.WithContext(ctx).First(&view.Group, "slug = ?", slug).Error; err != nil {
		return view, notFound(err, "group "+slug)
	}
	var err error
	view.Page, err = Paginate(ctx, s.posts().Where("posts.group_id = ?", view.Group.ID), s.PerPage, page)
	return view, err
}

// ProfileFeed lists the posts of username, Following tells whether viewer follows them
func (s *Service) ProfileFeed(ctx context.Context, viewer *models.User, username, page string) (ProfileView, error) {
	view := ProfileView{}
	tx := s.DB.WithContext(ctx)
	if err := tx.First(&view.Author, "username = ?", username).Error; err != nil {
		return view, notFound(err, "user "+username)
	}
	if !isAnonymous(viewer) {
		var edges int64
		if err := tx.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", viewer.ID, view.Author.ID).
			Count(&edges).Error; err != nil {
			return view, err
		}
		view.Following = edges > 0
	}
	var err error
	view.Page, err = Paginate(ctx, s.posts().Where("posts.author_id = ?", view.Author.ID), s.PerPage, page)
	view.PostCount = view.Page.Count
	return view, err
}

// FollowFeed lists the posts of every author viewer follows
func (s *Service) FollowFeed(ctx context.Context, viewer *models.User, page string) (Page, error) {
	if isAnonymous(viewer) {
		return Page{}, ErrUnauthenticated
	}
	followed := s.DB.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", viewer.ID)
	return Paginate(ctx, s.posts().Where("posts.author_id IN (?)", followed), s.PerPage, page)
}

// PostDetail loads a post with its comments, oldest comment first
func (s *Service) PostDetail(ctx context.Context, id uint64) (PostView, error) {
	view := PostView{Comments: []models.Comment{}}
	tx := s.DB.WithContext(ctx)
	if err := tx.Preload("Author").Preload("Group").First(&view.Post, id).Error; err != nil {
		return view, notFound(err, "post")
	}
	if err := tx.Preload("Author").
		Where("post_id = ?", id).
		Order("created_at ASC").Order("id ASC").
		Find(&view.Comments).Error; err != nil {
		return view, err
	}
	err := tx.Model(&models.Post{}).Where("author_id = ?", view.Post.AuthorID).Count(&view.AuthorPostCount).Error
	return view, err
}

// Groups lists every group for the post form
func (s *Service) Groups(ctx context.Context) ([]models.Group, error) {
	groups := []models.Group{}
	err := s.DB.WithContext(ctx).Order("title").Order("id").Find(&groups).Error
	return groups, err
}
