package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commondb "github.com/okovalenko/bloglist/internal/common/db"
	"github.com/okovalenko/bloglist/internal/user/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, username, name, password_hash) VALUES ($1, $2, $3, $4)`,
		string(user.ID),
		user.Username,
		user.Name,
		user.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			commondb.MeasureQueryDuration("create user", start)
			return ErrUsernameAlreadyExists
		}
		return commondb.HandleExecError(err, "create user", start)
	}
	commondb.MeasureQueryDuration("create user", start)
	return nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, name, password_hash, blog_ids, created_at FROM users WHERE username = $1`,
		username,
	)

	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, commondb.HandleQueryError(err, ErrUserNotFound, "find user by username", start)
	}

	commondb.MeasureQueryDuration("find user by username", start)
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, name, password_hash, blog_ids, created_at FROM users WHERE id = $1`,
		string(id),
	)

	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, commondb.HandleQueryError(err, ErrUserNotFound, "find user by id", start)
	}

	commondb.MeasureQueryDuration("find user by id", start)
	return user, nil
}

func (r *PgRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, username, name, password_hash, blog_ids, created_at FROM users ORDER BY username ASC`,
	)
	if err != nil {
		return nil, commondb.HandleQueryError(err, ErrUserNotFound, "list users", start)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	commondb.MeasureQueryDuration("list users", start)
	return users, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Name, &user.PasswordHash, &user.BlogIDs, &user.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}
	if user.BlogIDs == nil {
		user.BlogIDs = []string{}
	}
	return user, nil
}
