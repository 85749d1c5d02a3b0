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

type ListRepo struct {
	pool *pgxpool.Pool
}

func NewListRepo(pool *pgxpool.Pool) *ListRepo {
	return &ListRepo{pool: pool}
}

const listColumns = `id, board_id, name, position, is_archived, is_deleted, created_at, updated_at`

func (r *ListRepo) Create(ctx context.Context, l *domain.BoardList) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO board_lists (id, board_id, name, position, is_archived, is_deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.BoardID, l.Name, l.Position, l.IsArchived, l.IsDeleted, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("listRepo.Create: %w", err)
	}

	return nil
}

func (r *ListRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BoardList, error) {
	var l domain.BoardList

	err := r.pool.QueryRow(ctx,
		`SELECT `+listColumns+` FROM board_lists WHERE id = $1 AND is_deleted = FALSE`, id,
	).Scan(&l.ID, &l.BoardID, &l.Name, &l.Position, &l.IsArchived, &l.IsDeleted, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("listRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("listRepo.GetByID: %w", err)
	}

	return &l, nil
}

// ListByBoard returns active lists ordered by position with created_at
// as the tie-break, so equal positions iterate deterministically.
func (r *ListRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardList, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+listColumns+` FROM board_lists
		 WHERE board_id = $1 AND is_deleted = FALSE
		 ORDER BY position, created_at`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("listRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	var out []*domain.BoardList
	for rows.Next() {
		var l domain.BoardList
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Name, &l.Position, &l.IsArchived, &l.IsDeleted, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("listRepo.ListByBoard: scan: %w", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listRepo.ListByBoard: rows: %w", err)
	}

	return out, nil
}

func (r *ListRepo) Update(ctx context.Context, l *domain.BoardList) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE board_lists SET name = $1, position = $2, is_archived = $3, updated_at = now()
		 WHERE id = $4 AND is_deleted = FALSE`,
		l.Name, l.Position, l.IsArchived, l.ID,
	)
	if err != nil {
		return fmt.Errorf("listRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ListRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE board_lists SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND is_deleted = FALSE`, id,
	)
	if err != nil {
		return fmt.Errorf("listRepo.SoftDelete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listRepo.SoftDelete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ListRepo) MaxPosition(ctx context.Context, boardID uuid.UUID) (float64, bool, error) {
	var pos float64

	err := r.pool.QueryRow(ctx,
		`SELECT position FROM board_lists
		 WHERE board_id = $1 AND is_deleted = FALSE
		 ORDER BY position DESC LIMIT 1`,
		boardID,
	).Scan(&pos)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("listRepo.MaxPosition: %w", err)
	}

	return pos, true, nil
}
