package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blogapp/backend/internal/domain"
)

// CommentRepository implements domain.Store[*domain.Comment].
type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) List(ctx context.Context, owner string) ([]*domain.Comment, error) {
	query := `SELECT id, content, post_id, owner FROM comments`
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

	var comments []*domain.Comment
	for rows.Next() {
		comment := &domain.Comment{}
		if err := rows.Scan(&comment.ID, &comment.Content, &comment.PostID, &comment.Owner); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := `SELECT id, content, post_id, owner FROM comments WHERE id = $1`
	comment := &domain.Comment{}
	err := r.db.QueryRow(ctx, query, id).Scan(&comment.ID, &comment.Content, &comment.PostID, &comment.Owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	query := `INSERT INTO comments (id, content, post_id, owner) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, comment.ID, comment.Content, comment.PostID, comment.Owner)
	return err
}

func (r *CommentRepository) Update(ctx context.Context, id uuid.UUID, comment *domain.Comment) (*domain.Comment, error) {
	query := `
		UPDATE comments SET content = $2
		WHERE id = $1
		RETURNING id, content, post_id, owner
	`
	updated := &domain.Comment{}
	err := r.db.QueryRow(ctx, query, id, comment.Content).
		Scan(&updated.ID, &updated.Content, &updated.PostID, &updated.Owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
