package client

import "time"

// wire types, owned by the backend; the client holds only transient,
// request-scoped copies

type StatusTransition struct {
	At    time.Time `json:"at"`
	Actor string    `json:"actor"`
	From  string    `json:"from"`
	To    string    `json:"to"`
	Note  string    `json:"note,omitempty"`
}

type User struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	MobileNumber  string             `json:"mobileNumber"`
	Email         string             `json:"email,omitempty"`
	Whatsapp      string             `json:"whatsapp,omitempty"`
	Telegram      string             `json:"telegram,omitempty"`
	Status        string             `json:"status"`
	StatusHistory []StatusTransition `json:"statusHistory"`
	CreatedAt     time.Time          `json:"createdAt"`
}

type UsersPage struct {
	Items    []User `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Pages    int    `json:"pages"`
}

type AuditEntry struct {
	ID         int64     `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	UserID     string    `json:"userId"`
	FromStatus string    `json:"fromStatus,omitempty"`
	ToStatus   string    `json:"toStatus,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type AuditPage struct {
	Items    []AuditEntry `json:"items"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
	Pages    int          `json:"pages"`
}

type BlogPost struct {
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

type PostsPage struct {
	Items    []BlogPost `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	Pages    int        `json:"pages"`
}

type PostWithRelated struct {
	Post    BlogPost   `json:"post"`
	Related []BlogPost `json:"related"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type ResetToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
