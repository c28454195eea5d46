package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mirojov/clubhub/internal/telemetry/tracing"
	"github.com/mirojov/clubhub/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const relatedPostsLimit = 3

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, post *Post) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Create")
	defer span.End()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO posts
			(id, slug, title, excerpt, cover_image, tags, published, published_at, content, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		post.ID, post.Slug, post.Title, post.Excerpt, post.CoverImage, post.Tags,
		post.Published, post.PublishedAt, post.Content, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.GetByID")
	defer span.End()
	span.SetAttributes(attribute.String("post.id", id))

	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.GetBySlug")
	defer span.End()
	span.SetAttributes(attribute.String("post.slug", slug))

	return r.getOne(ctx, `WHERE slug = $1 AND published`, slug)
}

func (r *Repo) getOne(ctx context.Context, where string, args ...interface{}) (*Post, error) {
	rows, err := r.db.Query(
		ctx,
		fmt.Sprintf(`SELECT id, slug, title, excerpt, cover_image, tags, published, published_at, content, created_at, updated_at
			FROM posts %s;`, where),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts, err := rows2posts(rows)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return posts[0], nil
}

// Related returns up to relatedPostsLimit other published posts
// sharing at least one tag with the given post, newest first.
func (r *Repo) Related(ctx context.Context, post *Post) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Related")
	defer span.End()

	if len(post.Tags) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, slug, title, excerpt, cover_image, tags, published, published_at, content, created_at, updated_at
			FROM posts
			WHERE published AND id != $1 AND tags && $2
			ORDER BY published_at DESC
			LIMIT $3;`,
		post.ID, post.Tags, relatedPostsLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2posts(rows)
}

func (r *Repo) List(ctx context.Context, filter ListFilter) ([]*Post, int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.List")
	defer span.End()

	where, args := filter.whereClause()

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM posts %s;`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, -1, fmt.Errorf("get posts count: %w", err)
	}

	order := "DESC"
	if filter.Sort == "oldest" {
		order = "ASC"
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	query := fmt.Sprintf(
		`SELECT id, slug, title, excerpt, cover_image, tags, published, published_at, content, created_at, updated_at
			FROM posts %s
			ORDER BY created_at %s
			LIMIT $%d OFFSET $%d;`,
		where, order, limitArg, offsetArg,
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	posts, err := rows2posts(rows)
	if err != nil {
		return nil, -1, err
	}
	return posts, total, nil
}

func (f ListFilter) whereClause() (string, []interface{}) {
	var conditions []string
	var args []interface{}

	switch f.Publish {
	case PublishFilterPublished:
		conditions = append(conditions, "published")
	case PublishFilterDraft:
		conditions = append(conditions, "NOT published")
	case PublishFilterAll:
		// no condition
	}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		arg := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR excerpt ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE $%d))",
			arg, arg, arg,
		))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *Repo) Update(ctx context.Context, post *Post) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Update")
	defer span.End()

	post.UpdatedAt = time.Now()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE posts SET
			slug = $1, title = $2, excerpt = $3, cover_image = $4, tags = $5,
			published = $6, published_at = $7, content = $8, updated_at = $9
			WHERE id = $10;`,
		post.Slug, post.Title, post.Excerpt, post.CoverImage, post.Tags,
		post.Published, post.PublishedAt, post.Content, post.UpdatedAt, post.ID,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Delete")
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Tags aggregates tag usage over published posts.
func (r *Repo) Tags(ctx context.Context) ([]TagCount, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Tags")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT t, COUNT(*) FROM posts, unnest(tags) t
			WHERE published
			GROUP BY t
			ORDER BY COUNT(*) DESC, t ASC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		tags = append(tags, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

func rows2posts(rows pgx.Rows) ([]*Post, error) {
	var posts []*Post
	for rows.Next() {
		var post Post
		if err := rows.Scan(
			&post.ID, &post.Slug, &post.Title, &post.Excerpt, &post.CoverImage,
			&post.Tags, &post.Published, &post.PublishedAt, &post.Content,
			&post.CreatedAt, &post.UpdatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
