package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tackboard/tack/internal/domain"
)

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

const activityColumns = `id, user_id, action, entity_type, entity_id, entity_name,
	board_id, workspace_id, details, created_at`

func (r *ActivityRepo) Create(ctx context.Context, a *domain.ActivityLog) error {
	details, err := json.Marshal(a.Details)
	if err != nil {
		return fmt.Errorf("activityRepo.Create: marshal details: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO activity_logs (id, user_id, action, entity_type, entity_id, entity_name,
		                            board_id, workspace_id, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.UserID, a.Action, a.EntityType, a.EntityID, a.EntityName,
		a.BoardID, a.WorkspaceID, details, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("activityRepo.Create: %w", err)
	}

	return nil
}

func (r *ActivityRepo) ListByBoard(ctx context.Context, boardID uuid.UUID, limit, offset int) ([]*domain.ActivityLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+activityColumns+` FROM activity_logs
		 WHERE board_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		boardID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("activityRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	return collectActivity(rows, "activityRepo.ListByBoard")
}

func (r *ActivityRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit, offset int) ([]*domain.ActivityLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+activityColumns+` FROM activity_logs
		 WHERE workspace_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		workspaceID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("activityRepo.ListByWorkspace: %w", err)
	}
	defer rows.Close()

	return collectActivity(rows, "activityRepo.ListByWorkspace")
}

func (r *ActivityRepo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]*domain.ActivityLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+activityColumns+` FROM activity_logs
		 WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		entityType, entityID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("activityRepo.ListByEntity: %w", err)
	}
	defer rows.Close()

	return collectActivity(rows, "activityRepo.ListByEntity")
}

func collectActivity(rows pgx.Rows, op string) ([]*domain.ActivityLog, error) {
	var out []*domain.ActivityLog
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return out, nil
}

func scanActivity(row pgx.Row) (*domain.ActivityLog, error) {
	var (
		a       domain.ActivityLog
		details []byte
	)

	err := row.Scan(&a.ID, &a.UserID, &a.Action, &a.EntityType, &a.EntityID, &a.EntityName,
		&a.BoardID, &a.WorkspaceID, &details, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(details) > 0 {
		if err := json.Unmarshal(details, &a.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
	}

	return &a, nil
}
