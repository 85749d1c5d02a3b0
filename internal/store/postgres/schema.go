package postgres

import (
	"context"
	"fmt"
)

// schema is the initial DDL, applied idempotently at startup. There is
// no migration framework; schema changes beyond this bootstrap are out
// of scope.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	name          TEXT NOT NULL DEFAULT '',
	avatar_url    TEXT NOT NULL DEFAULT '',
	is_deleted    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS user_oauth_links (
	id          UUID PRIMARY KEY,
	user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	provider    TEXT NOT NULL,
	provider_id TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	UNIQUE (provider, provider_id)
);

CREATE TABLE IF NOT EXISTS workspaces (
	id          UUID PRIMARY KEY,
	owner_id    UUID NOT NULL REFERENCES users(id),
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	is_archived BOOLEAN NOT NULL DEFAULT FALSE,
	is_deleted  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS workspace_members (
	id           UUID PRIMARY KEY,
	workspace_id UUID NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
	user_id      UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role         TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	UNIQUE (workspace_id, user_id)
);

CREATE TABLE IF NOT EXISTS boards (
	id               UUID PRIMARY KEY,
	workspace_id     UUID NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
	owner_id         UUID NOT NULL REFERENCES users(id),
	name             TEXT NOT NULL,
	visibility       TEXT NOT NULL DEFAULT 'workspace',
	background_image TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS board_lists (
	id          UUID PRIMARY KEY,
	board_id    UUID NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	position    DOUBLE PRECISION NOT NULL,
	is_archived BOOLEAN NOT NULL DEFAULT FALSE,
	is_deleted  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_board_lists_board ON board_lists (board_id, position);

CREATE TABLE IF NOT EXISTS cards (
	id          UUID PRIMARY KEY,
	list_id     UUID NOT NULL REFERENCES board_lists(id) ON DELETE CASCADE,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	position    DOUBLE PRECISION NOT NULL,
	due_date    TIMESTAMPTZ,
	cover_image TEXT NOT NULL DEFAULT '',
	created_by  UUID NOT NULL REFERENCES users(id),
	assignee_id UUID REFERENCES users(id),
	is_archived BOOLEAN NOT NULL DEFAULT FALSE,
	is_deleted  BOOLEAN NOT NULL DEFAULT FALSE,
	deleted_at  TIMESTAMPTZ,
	deleted_by  UUID,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cards_list ON cards (list_id, position);

CREATE TABLE IF NOT EXISTS card_comments (
	id         UUID PRIMARY KEY,
	card_id    UUID NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
	author_id  UUID NOT NULL REFERENCES users(id),
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS checklist_items (
	id           UUID PRIMARY KEY,
	card_id      UUID NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
	title        TEXT NOT NULL,
	is_completed BOOLEAN NOT NULL DEFAULT FALSE,
	position     DOUBLE PRECISION NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS invitations (
	id           UUID PRIMARY KEY,
	workspace_id UUID NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
	inviter_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	invitee_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role         TEXT NOT NULL DEFAULT 'member',
	message      TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'pending',
	created_at   TIMESTAMPTZ NOT NULL,
	responded_at TIMESTAMPTZ,
	expires_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_invitations_invitee ON invitations (invitee_id, status);

CREATE TABLE IF NOT EXISTS notifications (
	id             UUID PRIMARY KEY,
	user_id        UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	type           TEXT NOT NULL,
	title          TEXT NOT NULL,
	message        TEXT NOT NULL,
	reference_id   UUID,
	reference_type TEXT NOT NULL DEFAULT '',
	is_read        BOOLEAN NOT NULL DEFAULT FALSE,
	created_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, is_read, created_at DESC);

CREATE TABLE IF NOT EXISTS activity_logs (
	id           UUID PRIMARY KEY,
	user_id      UUID NOT NULL REFERENCES users(id),
	action       TEXT NOT NULL,
	entity_type  TEXT NOT NULL,
	entity_id    UUID NOT NULL,
	entity_name  TEXT NOT NULL DEFAULT '',
	board_id     UUID,
	workspace_id UUID,
	details      JSONB NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_board ON activity_logs (board_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_activity_workspace ON activity_logs (workspace_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_activity_entity ON activity_logs (entity_type, entity_id, created_at DESC);
`

// Migrate applies the initial schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres.Migrate: %w", err)
	}
	return nil
}
