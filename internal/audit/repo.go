package audit

import (
	"context"
	"errors"
	"time"

	"github.com/mirojov/clubhub/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Recorder = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Record(ctx context.Context, entry *Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO audit_log (actor, action, user_id, from_status, to_status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		entry.Actor, entry.Action, entry.UserID, entry.FromStatus, entry.ToStatus, entry.CreatedAt,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	if rows.Next() {
		var id int64
		if err := rows.Scan(&id); err == nil {
			entry.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert audit entry")
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	rows, err := r.db.Query(ctx, `SELECT COUNT(*) FROM audit_log`)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get audit entries count")
}

func (r *Repo) GetPage(ctx context.Context, page, size int) ([]*Entry, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auditRepo.GetPage")
	defer span.End()

	limit := size
	offset := (page - 1) * size

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, actor, action, user_id, from_status, to_status, created_at
			FROM audit_log
			ORDER BY id DESC
			LIMIT $1
			OFFSET $2;
		`,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2entries(rows)
}

func rows2entries(rows pgx.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.ID, &entry.Actor, &entry.Action, &entry.UserID,
			&entry.FromStatus, &entry.ToStatus, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
