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

type InvitationRepo struct {
	pool *pgxpool.Pool
}

func NewInvitationRepo(pool *pgxpool.Pool) *InvitationRepo {
	return &InvitationRepo{pool: pool}
}

const invitationColumns = `id, workspace_id, inviter_id, invitee_id, role, message, status,
	created_at, responded_at, expires_at`

func (r *InvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invitations (id, workspace_id, inviter_id, invitee_id, role, message, status,
		                          created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		inv.ID, inv.WorkspaceID, inv.InviterID, inv.InviteeID, inv.Role, inv.Message, inv.Status,
		inv.CreatedAt, inv.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invitationRepo.Create: %w", domain.ErrConflict)
		}
		return fmt.Errorf("invitationRepo.Create: %w", err)
	}

	return nil
}

func (r *InvitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	inv, err := scanInvitation(r.pool.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("invitationRepo.GetByID: %w", err)
	}

	return inv, nil
}

func (r *InvitationRepo) ListForInvitee(ctx context.Context, inviteeID uuid.UUID, status domain.InvitationStatus) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE invitee_id = $1`
	args := []any{inviteeID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("invitationRepo.ListForInvitee: %w", err)
	}
	defer rows.Close()

	return collectInvitations(rows, "invitationRepo.ListForInvitee")
}

func (r *InvitationRepo) ListSent(ctx context.Context, inviterID uuid.UUID) ([]*domain.Invitation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE inviter_id = $1 ORDER BY created_at DESC`,
		inviterID,
	)
	if err != nil {
		return nil, fmt.Errorf("invitationRepo.ListSent: %w", err)
	}
	defer rows.Close()

	return collectInvitations(rows, "invitationRepo.ListSent")
}

func (r *InvitationRepo) GetPending(ctx context.Context, workspaceID, inviteeID uuid.UUID) (*domain.Invitation, error) {
	inv, err := scanInvitation(r.pool.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE workspace_id = $1 AND invitee_id = $2 AND status = 'pending'`,
		workspaceID, inviteeID,
	))
	if err != nil {
		return nil, fmt.Errorf("invitationRepo.GetPending: %w", err)
	}

	return inv, nil
}

// Respond flips a pending invitation to its terminal status and, on
// accept, inserts the workspace member row in the same transaction.
// The status guard in the UPDATE makes concurrent responds lose
// cleanly: the second caller sees ErrAlreadyResponded.
func (r *InvitationRepo) Respond(ctx context.Context, id uuid.UUID, accept bool) (*domain.Invitation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("invitationRepo.Respond: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	status := domain.InvitationRejected
	if accept {
		status = domain.InvitationAccepted
	}

	inv, err := scanInvitation(tx.QueryRow(ctx,
		`UPDATE invitations SET status = $1, responded_at = now()
		 WHERE id = $2 AND status = 'pending'
		 RETURNING `+invitationColumns,
		status, id,
	))
	if errors.Is(err, domain.ErrNotFound) {
		// Row exists but is no longer pending, or is gone entirely.
		var exists bool
		if qerr := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM invitations WHERE id = $1)`, id).Scan(&exists); qerr != nil {
			return nil, fmt.Errorf("invitationRepo.Respond: %w", qerr)
		}
		if exists {
			return nil, fmt.Errorf("invitationRepo.Respond: %w", domain.ErrAlreadyResponded)
		}
		return nil, fmt.Errorf("invitationRepo.Respond: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("invitationRepo.Respond: %w", err)
	}

	if accept {
		_, err = tx.Exec(ctx,
			`INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
			 VALUES ($1, $2, $3, now())
			 ON CONFLICT (workspace_id, user_id) DO NOTHING`,
			inv.WorkspaceID, inv.InviteeID, inv.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("invitationRepo.Respond: add member: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("invitationRepo.Respond: commit: %w", err)
	}

	return inv, nil
}

func (r *InvitationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("invitationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invitationRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func collectInvitations(rows pgx.Rows, op string) ([]*domain.Invitation, error) {
	var out []*domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return out, nil
}

func scanInvitation(row pgx.Row) (*domain.Invitation, error) {
	var inv domain.Invitation

	err := row.Scan(&inv.ID, &inv.WorkspaceID, &inv.InviterID, &inv.InviteeID, &inv.Role,
		&inv.Message, &inv.Status, &inv.CreatedAt, &inv.RespondedAt, &inv.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &inv, nil
}
