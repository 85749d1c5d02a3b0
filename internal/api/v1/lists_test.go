package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/tackboard/tack/internal/api/v1"
	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/position"
)

func TestCreateList(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	wsID := uuid.New()
	boardID := uuid.New()
	ws := &domain.Workspace{ID: wsID, OwnerID: ownerID, Name: "Team"}
	board := &domain.Board{ID: boardID, WorkspaceID: wsID, Name: "Sprint"}

	boardRepo := &mockBoardRepo{
		getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Board, error) {
			if id != boardID {
				return nil, domain.ErrNotFound
			}
			return board, nil
		},
	}

	t.Run("first_list_gets_base_position", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			workspaces: memberWorkspaceRepo(ws, ownerID, nil),
			boards:     boardRepo,
			lists: &mockListRepo{
				maxPositionFunc: func(_ context.Context, _ uuid.UUID) (float64, bool, error) {
					return 0, false, nil
				},
				createFunc: func(_ context.Context, l *domain.BoardList) error {
					assert.Equal(t, position.First(), l.Position)
					return nil
				},
			},
			activity: &mockActivityRepo{},
		}
		v1.RegisterListRoutes(api, store, &captureBroadcaster{})

		resp := api.PostCtx(userCtx(ownerID), "/lists", map[string]any{
			"board_id": boardID.String(),
			"name":     "To Do",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.BoardList
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, position.First(), body.Position)
	})

	t.Run("appended_after_max", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			workspaces: memberWorkspaceRepo(ws, ownerID, nil),
			boards:     boardRepo,
			lists: &mockListRepo{
				maxPositionFunc: func(_ context.Context, _ uuid.UUID) (float64, bool, error) {
					return 131072, true, nil
				},
				createFunc: func(_ context.Context, l *domain.BoardList) error {
					assert.Equal(t, position.Next(131072), l.Position)
					return nil
				},
			},
			activity: &mockActivityRepo{},
		}
		v1.RegisterListRoutes(api, store, &captureBroadcaster{})

		resp := api.PostCtx(userCtx(ownerID), "/lists", map[string]any{
			"board_id": boardID.String(),
			"name":     "Done",
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("explicit_position_kept", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			workspaces: memberWorkspaceRepo(ws, ownerID, nil),
			boards:     boardRepo,
			lists: &mockListRepo{
				createFunc: func(_ context.Context, l *domain.BoardList) error {
					assert.Equal(t, 42.5, l.Position)
					return nil
				},
			},
			activity: &mockActivityRepo{},
		}
		v1.RegisterListRoutes(api, store, &captureBroadcaster{})

		resp := api.PostCtx(userCtx(ownerID), "/lists", map[string]any{
			"board_id": boardID.String(),
			"name":     "Squeezed in",
			"position": 42.5,
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("observer_forbidden", func(t *testing.T) {
		t.Parallel()

		observerID := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			workspaces: memberWorkspaceRepo(ws, observerID, rolePtr(domain.RoleObserver)),
			boards:     boardRepo,
			lists:      &mockListRepo{},
			activity:   &mockActivityRepo{},
		}
		v1.RegisterListRoutes(api, store, &captureBroadcaster{})

		resp := api.PostCtx(userCtx(observerID), "/lists", map[string]any{
			"board_id": boardID.String(),
			"name":     "Nope",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

func TestDeleteList(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	wsID := uuid.New()
	boardID := uuid.New()
	listID := uuid.New()
	ws := &domain.Workspace{ID: wsID, OwnerID: ownerID, Name: "Team"}
	board := &domain.Board{ID: boardID, WorkspaceID: wsID}
	list := &domain.BoardList{ID: listID, BoardID: boardID, Name: "Doing"}

	t.Run("member_soft_deletes", func(t *testing.T) {
		t.Parallel()

		memberID := uuid.New()
		var deleted bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			workspaces: memberWorkspaceRepo(ws, memberID, rolePtr(domain.RoleMember)),
			boards: &mockBoardRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Board, error) {
					return board, nil
				},
			},
			lists: &mockListRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.BoardList, error) {
					if id != listID {
						return nil, domain.ErrNotFound
					}
					return list, nil
				},
				softDeleteFunc: func(_ context.Context, id uuid.UUID) error {
					deleted = true
					assert.Equal(t, listID, id)
					return nil
				},
			},
			activity: &mockActivityRepo{},
		}
		v1.RegisterListRoutes(api, store, &captureBroadcaster{})

		resp := api.DeleteCtx(userCtx(memberID), "/lists/"+listID.String())

		require.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, deleted)
	})
}
