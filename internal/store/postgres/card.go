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

type CardRepo struct {
	pool *pgxpool.Pool
}

func NewCardRepo(pool *pgxpool.Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

const cardColumns = `id, list_id, title, description, position, due_date, cover_image,
	created_by, assignee_id, is_archived, is_deleted, deleted_at, deleted_by, created_at, updated_at`

func (r *CardRepo) Create(ctx context.Context, c *domain.Card) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cards (id, list_id, title, description, position, due_date, cover_image,
		                    created_by, assignee_id, is_archived, is_deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.ListID, c.Title, c.Description, c.Position, c.DueDate, c.CoverImage,
		c.CreatedBy, c.AssigneeID, c.IsArchived, c.IsDeleted, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Create: %w", err)
	}

	return nil
}

func (r *CardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	c, err := scanCard(r.pool.QueryRow(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = $1 AND is_deleted = FALSE`, id))
	if err != nil {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", err)
	}

	return c, nil
}

// ListByList returns active cards in a list ordered by position with
// created_at as the tie-break.
func (r *CardRepo) ListByList(ctx context.Context, listID uuid.UUID) ([]*domain.Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+` FROM cards
		 WHERE list_id = $1 AND is_deleted = FALSE
		 ORDER BY position, created_at`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("cardRepo.ListByList: %w", err)
	}
	defer rows.Close()

	var out []*domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("cardRepo.ListByList: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cardRepo.ListByList: rows: %w", err)
	}

	return out, nil
}

func (r *CardRepo) Update(ctx context.Context, c *domain.Card) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET list_id = $1, title = $2, description = $3, position = $4, due_date = $5,
		        cover_image = $6, assignee_id = $7, is_archived = $8, updated_at = now()
		 WHERE id = $9 AND is_deleted = FALSE`,
		c.ListID, c.Title, c.Description, c.Position, c.DueDate,
		c.CoverImage, c.AssigneeID, c.IsArchived, c.ID,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CardRepo) Move(ctx context.Context, id, listID uuid.UUID, position float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET list_id = $1, position = $2, updated_at = now()
		 WHERE id = $3 AND is_deleted = FALSE`,
		listID, position, id,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Move: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.Move: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CardRepo) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET is_deleted = TRUE, deleted_at = now(), deleted_by = $1, updated_at = now()
		 WHERE id = $2 AND is_deleted = FALSE`,
		deletedBy, id,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.SoftDelete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.SoftDelete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CardRepo) MaxPosition(ctx context.Context, listID uuid.UUID) (float64, bool, error) {
	var pos float64

	err := r.pool.QueryRow(ctx,
		`SELECT position FROM cards
		 WHERE list_id = $1 AND is_deleted = FALSE
		 ORDER BY position DESC LIMIT 1`,
		listID,
	).Scan(&pos)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("cardRepo.MaxPosition: %w", err)
	}

	return pos, true, nil
}

func scanCard(row pgx.Row) (*domain.Card, error) {
	var c domain.Card

	err := row.Scan(
		&c.ID, &c.ListID, &c.Title, &c.Description, &c.Position, &c.DueDate, &c.CoverImage,
		&c.CreatedBy, &c.AssigneeID, &c.IsArchived, &c.IsDeleted, &c.DeletedAt, &c.DeletedBy,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}
