package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tackboard/tack/internal/domain"
)

type WorkspaceRepo struct {
	pool *pgxpool.Pool
}

func NewWorkspaceRepo(pool *pgxpool.Pool) *WorkspaceRepo {
	return &WorkspaceRepo{pool: pool}
}

const workspaceColumns = `id, owner_id, name, description, is_archived, is_deleted, created_at, updated_at`

func (r *WorkspaceRepo) Create(ctx context.Context, w *domain.Workspace) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO workspaces (id, owner_id, name, description, is_archived, is_deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.OwnerID, w.Name, w.Description, w.IsArchived, w.IsDeleted, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("workspaceRepo.Create: %w", err)
	}

	return nil
}

func (r *WorkspaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	var w domain.Workspace

	err := r.pool.QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1 AND is_deleted = FALSE`, id,
	).Scan(&w.ID, &w.OwnerID, &w.Name, &w.Description, &w.IsArchived, &w.IsDeleted, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("workspaceRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("workspaceRepo.GetByID: %w", err)
	}

	return &w, nil
}

// ListForUser returns workspaces the user owns or is a member of.
func (r *WorkspaceRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workspace, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT w.id, w.owner_id, w.name, w.description, w.is_archived, w.is_deleted, w.created_at, w.updated_at
		 FROM workspaces w
		 LEFT JOIN workspace_members m ON m.workspace_id = w.id
		 WHERE w.is_deleted = FALSE AND (w.owner_id = $1 OR m.user_id = $1)
		 ORDER BY w.created_at
		 LIMIT 500`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("workspaceRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	var out []*domain.Workspace
	for rows.Next() {
		var w domain.Workspace
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Name, &w.Description, &w.IsArchived, &w.IsDeleted, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("workspaceRepo.ListForUser: scan: %w", err)
		}
		out = append(out, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workspaceRepo.ListForUser: rows: %w", err)
	}

	return out, nil
}

func (r *WorkspaceRepo) Update(ctx context.Context, w *domain.Workspace) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE workspaces SET name = $1, description = $2, is_archived = $3, updated_at = now()
		 WHERE id = $4 AND is_deleted = FALSE`,
		w.Name, w.Description, w.IsArchived, w.ID,
	)
	if err != nil {
		return fmt.Errorf("workspaceRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workspaceRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *WorkspaceRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE workspaces SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND is_deleted = FALSE`, id,
	)
	if err != nil {
		return fmt.Errorf("workspaceRepo.SoftDelete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workspaceRepo.SoftDelete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *WorkspaceRepo) AddMember(ctx context.Context, m *domain.WorkspaceMember) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO workspace_members (id, workspace_id, user_id, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.WorkspaceID, m.UserID, m.Role, m.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("workspaceRepo.AddMember: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("workspaceRepo.AddMember: %w", err)
	}

	return nil
}

func (r *WorkspaceRepo) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	var m domain.WorkspaceMember

	err := r.pool.QueryRow(ctx,
		`SELECT id, workspace_id, user_id, role, created_at
		 FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID,
	).Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.Role, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("workspaceRepo.GetMember: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("workspaceRepo.GetMember: %w", err)
	}

	return &m, nil
}

func (r *WorkspaceRepo) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]*domain.WorkspaceMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, workspace_id, user_id, role, created_at
		 FROM workspace_members WHERE workspace_id = $1
		 ORDER BY created_at`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("workspaceRepo.ListMembers: %w", err)
	}
	defer rows.Close()

	var out []*domain.WorkspaceMember
	for rows.Next() {
		var m domain.WorkspaceMember
		if err := rows.Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("workspaceRepo.ListMembers: scan: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workspaceRepo.ListMembers: rows: %w", err)
	}

	return out, nil
}

func (r *WorkspaceRepo) UpdateMemberRole(ctx context.Context, workspaceID, userID uuid.UUID, role domain.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE workspace_members SET role = $1 WHERE workspace_id = $2 AND user_id = $3`,
		role, workspaceID, userID,
	)
	if err != nil {
		return fmt.Errorf("workspaceRepo.UpdateMemberRole: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workspaceRepo.UpdateMemberRole: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *WorkspaceRepo) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID,
	)
	if err != nil {
		return fmt.Errorf("workspaceRepo.RemoveMember: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workspaceRepo.RemoveMember: %w", domain.ErrNotFound)
	}

	return nil
}

// MemberRole returns nil without error when the user has no member row.
func (r *WorkspaceRepo) MemberRole(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Role, error) {
	var role domain.Role

	err := r.pool.QueryRow(ctx,
		`SELECT role FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID,
	).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("workspaceRepo.MemberRole: %w", err)
	}

	return &role, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
