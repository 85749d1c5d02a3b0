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

type ChecklistRepo struct {
	pool *pgxpool.Pool
}

func NewChecklistRepo(pool *pgxpool.Pool) *ChecklistRepo {
	return &ChecklistRepo{pool: pool}
}

const checklistColumns = `id, card_id, title, is_completed, position, created_at, updated_at`

func (r *ChecklistRepo) Create(ctx context.Context, item *domain.ChecklistItem) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO checklist_items (id, card_id, title, is_completed, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.CardID, item.Title, item.IsCompleted, item.Position, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("checklistRepo.Create: %w", err)
	}

	return nil
}

func (r *ChecklistRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error) {
	item, err := scanChecklistItem(r.pool.QueryRow(ctx,
		`SELECT `+checklistColumns+` FROM checklist_items WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("checklistRepo.GetByID: %w", err)
	}

	return item, nil
}

func (r *ChecklistRepo) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.ChecklistItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+checklistColumns+` FROM checklist_items
		 WHERE card_id = $1 ORDER BY position, created_at`,
		cardID,
	)
	if err != nil {
		return nil, fmt.Errorf("checklistRepo.ListByCard: %w", err)
	}
	defer rows.Close()

	var out []*domain.ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("checklistRepo.ListByCard: scan: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checklistRepo.ListByCard: rows: %w", err)
	}

	return out, nil
}

func (r *ChecklistRepo) Update(ctx context.Context, item *domain.ChecklistItem) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE checklist_items SET title = $1, is_completed = $2, position = $3, updated_at = now()
		 WHERE id = $4`,
		item.Title, item.IsCompleted, item.Position, item.ID,
	)
	if err != nil {
		return fmt.Errorf("checklistRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("checklistRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ChecklistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM checklist_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("checklistRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("checklistRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ChecklistRepo) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (*domain.ChecklistItem, error) {
	item, err := scanChecklistItem(r.pool.QueryRow(ctx,
		`UPDATE checklist_items SET is_completed = $1, updated_at = now()
		 WHERE id = $2
		 RETURNING `+checklistColumns,
		completed, id,
	))
	if err != nil {
		return nil, fmt.Errorf("checklistRepo.SetCompleted: %w", err)
	}

	return item, nil
}

func (r *ChecklistRepo) MaxPosition(ctx context.Context, cardID uuid.UUID) (float64, bool, error) {
	var pos float64

	err := r.pool.QueryRow(ctx,
		`SELECT position FROM checklist_items WHERE card_id = $1 ORDER BY position DESC LIMIT 1`,
		cardID,
	).Scan(&pos)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("checklistRepo.MaxPosition: %w", err)
	}

	return pos, true, nil
}

func scanChecklistItem(row pgx.Row) (*domain.ChecklistItem, error) {
	var item domain.ChecklistItem

	err := row.Scan(&item.ID, &item.CardID, &item.Title, &item.IsCompleted, &item.Position,
		&item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}
