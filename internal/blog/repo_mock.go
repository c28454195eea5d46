package blog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type repoMock struct {
	mutex sync.Mutex
	Posts map[string]*Post
}

func newRepoMock() *repoMock {
	return &repoMock{
		Posts: make(map[string]*Post),
	}
}

func (r *repoMock) Create(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, p := range r.Posts {
		if p.Slug == post.Slug {
			return ErrSlugTaken
		}
	}

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	r.Posts[post.ID] = post
	return nil
}

func (r *repoMock) GetByID(_ context.Context, id string) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	post, ok := r.Posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (r *repoMock) GetBySlug(_ context.Context, slug string) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, post := range r.Posts {
		if post.Slug == slug && post.Published {
			return post, nil
		}
	}
	return nil, ErrPostNotFound
}

func (r *repoMock) Related(_ context.Context, post *Post) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var related []*Post
	for _, p := range r.Posts {
		if p.ID == post.ID || !p.Published {
			continue
		}
		if sharesTag(p.Tags, post.Tags) {
			related = append(related, p)
		}
	}

	sort.Slice(related, func(i, j int) bool {
		return related[i].CreatedAt.After(related[j].CreatedAt)
	})
	if len(related) > relatedPostsLimit {
		related = related[:relatedPostsLimit]
	}
	return related, nil
}

func sharesTag(tags1, tags2 []string) bool {
	for _, t1 := range tags1 {
		for _, t2 := range tags2 {
			if t1 == t2 {
				return true
			}
		}
	}
	return false
}

func (r *repoMock) List(_ context.Context, filter ListFilter) ([]*Post, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var filtered []*Post
	for _, post := range r.Posts {
		switch filter.Publish {
		case PublishFilterPublished:
			if !post.Published {
				continue
			}
		case PublishFilterDraft:
			if post.Published {
				continue
			}
		}
		if filter.Tag != "" && !sharesTag(post.Tags, []string{filter.Tag}) {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(post.Title), q) &&
				!strings.Contains(strings.ToLower(post.Excerpt), q) &&
				!tagsContain(post.Tags, q) {
				continue
			}
		}
		filtered = append(filtered, post)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filter.Sort == "oldest" {
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := len(filtered)
	offset := (filter.Page - 1) * filter.PageSize
	if offset >= total {
		return nil, total, nil
	}
	end := offset + filter.PageSize
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

func tagsContain(tags []string, q string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (r *repoMock) Update(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Posts[post.ID]; !ok {
		return ErrPostNotFound
	}
	for _, p := range r.Posts {
		if p.ID != post.ID && p.Slug == post.Slug {
			return ErrSlugTaken
		}
	}
	post.UpdatedAt = time.Now()
	r.Posts[post.ID] = post
	return nil
}

func (r *repoMock) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.Posts, id)
	return nil
}

func (r *repoMock) Tags(_ context.Context) ([]TagCount, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	counts := make(map[string]int)
	for _, post := range r.Posts {
		if !post.Published {
			continue
		}
		for _, tag := range post.Tags {
			counts[tag]++
		}
	}

	var tags []TagCount
	for tag, count := range counts {
		tags = append(tags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	return tags, nil
}
