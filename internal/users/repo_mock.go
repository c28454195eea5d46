package users

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
	Users map[string]*User
}

func newRepoMock() *repoMock {
	return &repoMock{
		Users: make(map[string]*User),
	}
}

func (r *repoMock) Add(_ context.Context, user *User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Status == "" {
		user.Status = StatusPending
	}
	r.Users[user.ID] = user
	return nil
}

func (r *repoMock) Get(_ context.Context, id string) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	user, ok := r.Users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *repoMock) List(_ context.Context, filter ListFilter) ([]*User, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var filtered []*User
	for _, user := range r.Users {
		if filter.Status != "" && user.Status != filter.Status {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(user.Name), q) &&
				!strings.Contains(user.MobileNumber, q) &&
				!strings.Contains(strings.ToLower(user.Email), q) {
				continue
			}
		}
		filtered = append(filtered, user)
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

func (r *repoMock) Update(_ context.Context, user *User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Users[user.ID]; !ok {
		return ErrUserNotFound
	}
	r.Users[user.ID] = user
	return nil
}

func (r *repoMock) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.Users, id)
	return nil
}

func (r *repoMock) SetPasswordHash(_ context.Context, id, passwordHash string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	user, ok := r.Users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}
