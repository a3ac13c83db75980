package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blogapp/backend/internal/domain"
)

// PostRepository implements domain.Store[*domain.Post].
type PostRepository struct {
	db *pgxpool.Pool
}

func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) List(ctx context.Context, owner string) ([]*domain.Post, error) {
	query := `SELECT id, title, content, owner FROM posts`
	args := []any{}
	if owner != "" {
		query += ` WHERE owner = $1`
		args = append(args, owner)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post := &domain.Post{}
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.Owner); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query := `SELECT id, title, content, owner FROM posts WHERE id = $1`
	post := &domain.Post{}
	err := r.db.QueryRow(ctx, query, id).Scan(&post.ID, &post.Title, &post.Content, &post.Owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	query := `INSERT INTO posts (id, title, content, owner) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, post.ID, post.Title, post.Content, post.Owner)
	return err
}

func (r *PostRepository) Update(ctx context.Context, id uuid.UUID, post *domain.Post) (*domain.Post, error) {
	query := `
		UPDATE posts SET title = $2, content = $3
		WHERE id = $1
		RETURNING id, title, content, owner
	`
	updated := &domain.Post{}
	err := r.db.QueryRow(ctx, query, id, post.Title, post.Content).
		Scan(&updated.ID, &updated.Title, &updated.Content, &updated.Owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
