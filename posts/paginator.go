package posts

import (
	"context"
	"strconv"

	"postboard/models"

	"gorm.io/gorm"
)

type Page struct {
	Number             int           `json:"number"`
	NumPages           int           `json:"num_pages"`
	Count              int64         `json:"count"`
	HasNext            bool          `json:"has_next"`
	HasPrevious        bool          `json:"has_previous"`
	NextPageNumber     int           `json:"next_page_number,omitempty"`
	PreviousPageNumber int           `json:"previous_page_number,omitempty"`
	Posts              []models.Post `json:"posts"`
}

// NewPage resolves the requested page number against count items. Missing,
// non-numeric and too small numbers give the first page, too big ones the last.
func NewPage(count int64, perPage int, requested string) Page {
	if perPage < 1 {
		perPage = 1
	}
	numPages := int((count + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	number, err := strconv.Atoi(requested)
	if err != nil || number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	page := Page{
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
		Posts:       []models.Post{},
	}
	if page.HasNext {
		page.NextPageNumber = number + 1
	}
	if page.HasPrevious {
		page.PreviousPageNumber = number - 1
	}
	return page
}

func (p Page) offset(perPage int) int {
	return (p.Number - 1) * perPage
}

// Paginate loads one page of the posts selected by query, newest first.
// Authors and groups of the whole page are loaded with one query each.
func Paginate(ctx context.Context, query *gorm.DB, perPage int, requested string) (Page, error) {
	if perPage < 1 {
		perPage = 1
	}
	query = query.WithContext(ctx).Session(&gorm.Session{})
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return Page{}, err
	}
	page := NewPage(count, perPage, requested)
	if count == 0 {
		return page, nil
	}
	err := query.
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(perPage).
		Offset(page.offset(perPage)).
		Find(&page.Posts).Error
	return page, err
}
