package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commondb "github.com/okovalenko/bloglist/internal/common/db"
	"github.com/okovalenko/bloglist/internal/blog/domain"
)

var ErrBlogNotFound = errors.New("blog not found")

type Repository interface {
	// Create inserts the blog and appends its id to the owner's blog_ids
	// in one transaction, so no orphan forward reference can be observed.
	Create(ctx context.Context, blog domain.Blog) error
	FindByID(ctx context.Context, id domain.ID) (domain.Blog, error)
	FindAllWithOwners(ctx context.Context) ([]domain.WithOwner, error)
	UpdateLikes(ctx context.Context, id domain.ID, likes int) (domain.Blog, error)
	// Delete removes the blog row and retracts its id from the owner's
	// blog_ids in one transaction.
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, blog domain.Blog) error {
	start := time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return commondb.HandleExecError(err, "begin create blog", start)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(
		ctx,
		`INSERT INTO blogs (id, title, author, url, likes, user_id) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(blog.ID),
		blog.Title,
		blog.Author,
		blog.URL,
		blog.Likes,
		string(blog.OwnerID),
	)
	if err != nil {
		return commondb.HandleExecError(err, "create blog", start)
	}

	_, err = tx.Exec(
		ctx,
		`UPDATE users SET blog_ids = array_append(blog_ids, $1) WHERE id = $2`,
		string(blog.ID),
		string(blog.OwnerID),
	)
	if err != nil {
		return commondb.HandleExecError(err, "append blog to user", start)
	}

	if err := tx.Commit(ctx); err != nil {
		return commondb.HandleExecError(err, "commit create blog", start)
	}

	commondb.MeasureQueryDuration("create blog", start)
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Blog, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, title, author, url, likes, user_id, created_at FROM blogs WHERE id = $1`,
		string(id),
	)

	var blog domain.Blog
	err := row.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.OwnerID, &blog.CreatedAt)
	if err != nil {
		return domain.Blog{}, commondb.HandleQueryError(err, ErrBlogNotFound, "find blog by id", start)
	}

	commondb.MeasureQueryDuration("find blog by id", start)
	return blog, nil
}

func (r *PgRepository) FindAllWithOwners(ctx context.Context) ([]domain.WithOwner, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, b.created_at,
		        u.username, u.name
		 FROM blogs b
		 JOIN users u ON u.id = b.user_id
		 ORDER BY b.created_at ASC`,
	)
	if err != nil {
		return nil, commondb.HandleQueryError(err, ErrBlogNotFound, "list blogs", start)
	}
	defer rows.Close()

	var blogs []domain.WithOwner
	for rows.Next() {
		var b domain.WithOwner
		err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.OwnerID, &b.CreatedAt,
			&b.Owner.Username, &b.Owner.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		b.Owner.ID = b.OwnerID
		blogs = append(blogs, b)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	commondb.MeasureQueryDuration("list blogs", start)
	return blogs, nil
}

func (r *PgRepository) UpdateLikes(ctx context.Context, id domain.ID, likes int) (domain.Blog, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`UPDATE blogs SET likes = $1 WHERE id = $2
		 RETURNING id, title, author, url, likes, user_id, created_at`,
		likes,
		string(id),
	)

	var blog domain.Blog
	err := row.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.OwnerID, &blog.CreatedAt)
	if err != nil {
		return domain.Blog{}, commondb.HandleQueryError(err, ErrBlogNotFound, "update blog likes", start)
	}

	commondb.MeasureQueryDuration("update blog likes", start)
	return blog, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return commondb.HandleExecError(err, "begin delete blog", start)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var ownerID string
	err = tx.QueryRow(
		ctx,
		`DELETE FROM blogs WHERE id = $1 RETURNING user_id`,
		string(id),
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			commondb.MeasureQueryDuration("delete blog", start)
			return ErrBlogNotFound
		}
		return commondb.HandleExecError(err, "delete blog", start)
	}

	_, err = tx.Exec(
		ctx,
		`UPDATE users SET blog_ids = array_remove(blog_ids, $1) WHERE id = $2`,
		string(id),
		ownerID,
	)
	if err != nil {
		return commondb.HandleExecError(err, "retract blog from user", start)
	}

	if err := tx.Commit(ctx); err != nil {
		return commondb.HandleExecError(err, "commit delete blog", start)
	}

	commondb.MeasureQueryDuration("delete blog", start)
	return nil
}
