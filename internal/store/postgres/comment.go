package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tackboard/tack/internal/domain"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

const commentColumns = `id, card_id, author_id, content, created_at, updated_at`

func (r *CommentRepo) Create(ctx context.Context, c *domain.CardComment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO card_comments (id, card_id, author_id, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.CardID, c.AuthorID, c.Content, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("commentRepo.Create: %w", err)
	}

	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CardComment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM card_comments WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("commentRepo.GetByID: %w", err)
	}

	return c, nil
}

func (r *CommentRepo) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.CardComment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+commentColumns+` FROM card_comments WHERE card_id = $1 ORDER BY created_at`,
		cardID,
	)
	if err != nil {
		return nil, fmt.Errorf("commentRepo.ListByCard: %w", err)
	}
	defer rows.Close()

	var out []*domain.CardComment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("commentRepo.ListByCard: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("commentRepo.ListByCard: rows: %w", err)
	}

	return out, nil
}

func (r *CommentRepo) Update(ctx context.Context, c *domain.CardComment) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE card_comments SET content = $1, updated_at = now() WHERE id = $2`,
		c.Content, c.ID,
	)
	if err != nil {
		return fmt.Errorf("commentRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("commentRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM card_comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("commentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("commentRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func scanComment(row pgx.Row) (*domain.CardComment, error) {
	var c domain.CardComment

	err := row.Scan(&c.ID, &c.CardID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}
