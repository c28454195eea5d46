package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mirojov/clubhub/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type ListFilter struct {
	Query    string
	Status   Status
	Sort     string // newest or oldest
	Page     int
	PageSize int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, user *User) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.Add")
	defer span.End()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Status == "" {
		user.Status = StatusPending
	}

	historyJson, err := json.Marshal(user.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO users
			(id, name, mobile_number, email, whatsapp, telegram, status, status_history, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id;`,
		user.ID, user.Name, user.MobileNumber, user.Email, user.Whatsapp, user.Telegram,
		user.Status, historyJson, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	if rows.Next() {
		return nil
	}

	return errors.New("unexpected error, failed to insert user")
}

func (r *Repo) Get(ctx context.Context, id string) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.Get")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, mobile_number, email, whatsapp, telegram, status, status_history, password_hash, created_at
			FROM users WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users, err := rows2users(rows)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

func (r *Repo) List(ctx context.Context, filter ListFilter) ([]*User, int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.List")
	defer span.End()

	where, args := filter.whereClause()

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM users %s;`, where)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, -1, fmt.Errorf("get users count: %w", err)
	}

	order := "DESC"
	if filter.Sort == "oldest" {
		order = "ASC"
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	query := fmt.Sprintf(
		`SELECT id, name, mobile_number, email, whatsapp, telegram, status, status_history, password_hash, created_at
			FROM users %s
			ORDER BY created_at %s
			LIMIT $%d OFFSET $%d;`,
		where, order, limitArg, offsetArg,
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	users, err := rows2users(rows)
	if err != nil {
		return nil, -1, err
	}
	return users, total, nil
}

func (f ListFilter) whereClause() (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		arg := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR mobile_number ILIKE $%d OR email ILIKE $%d)",
			arg, arg, arg,
		))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *Repo) Update(ctx context.Context, user *User) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.Update")
	defer span.End()

	historyJson, err := json.Marshal(user.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET
			name = $1, mobile_number = $2, email = $3, whatsapp = $4, telegram = $5,
			status = $6, status_history = $7
			WHERE id = $8;`,
		user.Name, user.MobileNumber, user.Email, user.Whatsapp, user.Telegram,
		user.Status, historyJson, user.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.Delete")
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) SetPasswordHash(ctx context.Context, id, passwordHash string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.SetPasswordHash")
	defer span.End()

	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2;`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func rows2users(rows pgx.Rows) ([]*User, error) {
	var users []*User
	for rows.Next() {
		var user User
		var historyJson []byte
		if err := rows.Scan(
			&user.ID, &user.Name, &user.MobileNumber, &user.Email, &user.Whatsapp,
			&user.Telegram, &user.Status, &historyJson, &user.PasswordHash, &user.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(historyJson) > 0 {
			if err := json.Unmarshal(historyJson, &user.StatusHistory); err != nil {
				return nil, fmt.Errorf("unmarshal status history: %w", err)
			}
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
