package audit

import (
	"context"
	"sync"
	"time"
)

type repoMock struct {
	mutex   sync.Mutex
	Entries []*Entry
}

func newRepoMock() *repoMock {
	return &repoMock{}
}

func (r *repoMock) Record(_ context.Context, entry *Entry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry.ID = int64(len(r.Entries) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.Entries = append(r.Entries, entry)
	return nil
}

func (r *repoMock) Count(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Entries), nil
}

func (r *repoMock) GetPage(_ context.Context, page, size int) ([]*Entry, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	// newest first, same as the sql repo
	var reversed []*Entry
	for i := len(r.Entries) - 1; i >= 0; i-- {
		reversed = append(reversed, r.Entries[i])
	}

	offset := (page - 1) * size
	if offset >= len(reversed) {
		return nil, nil
	}
	end := offset + size
	if end > len(reversed) {
		end = len(reversed)
	}
	return reversed[offset:end], nil
}
