package blog

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/mirojov/clubhub/pkg"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrSlugTaken    = errors.New("slug already taken")
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type Post struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	CoverImage  string     `json:"coverImage,omitempty"`
	Tags        []string   `json:"tags"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Content     string     `json:"content"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SetPublished flips the publish flag; publishedAt is set on the first
// publish only and never cleared, so unpublish/republish keeps the
// original publish date.
func (p *Post) SetPublished(published bool) {
	p.Published = published
	if published && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
}

func (p *Post) Validate() []pkg.FieldError {
	var details []pkg.FieldError

	if strings.TrimSpace(p.Title) == "" {
		details = append(details, pkg.FieldError{
			Field: "title", Message: "Title is required",
		})
	}
	if p.Slug == "" {
		details = append(details, pkg.FieldError{
			Field: "slug", Message: "Slug is required",
		})
	} else if !slugRegex.MatchString(p.Slug) {
		details = append(details, pkg.FieldError{
			Field: "slug", Message: "Slug must contain only lowercase letters, digits and dashes",
		})
	}
	if strings.TrimSpace(p.Content) == "" {
		details = append(details, pkg.FieldError{
			Field: "content", Message: "Content is required",
		})
	}

	return details
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// PublishFilter narrows admin listings; public listings always see
// published posts only.
type PublishFilter string

const (
	PublishFilterAll       PublishFilter = "all"
	PublishFilterPublished PublishFilter = "published"
	PublishFilterDraft     PublishFilter = "draft"
)

func ValidPublishFilter(f PublishFilter) bool {
	switch f {
	case PublishFilterAll, PublishFilterPublished, PublishFilterDraft:
		return true
	}
	return false
}

type ListFilter struct {
	Query    string
	Tag      string
	Publish  PublishFilter
	Sort     string // newest or oldest
	Page     int
	PageSize int
}
