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
	"github.com/tackboard/tack/internal/events"
)

func TestCreateComment(t *testing.T) {
	t.Parallel()

	t.Run("observer_can_comment_and_event_fires", func(t *testing.T) {
		t.Parallel()

		f, store := newCardFixture(rolePtr(domain.RoleObserver))
		cardID := uuid.New()
		creatorID := uuid.New()
		card := &domain.Card{ID: cardID, ListID: f.listA.ID, Title: "Design review", CreatedBy: creatorID}

		store.cards = &mockCardRepo{
			getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
				return card, nil
			},
		}
		store.comments = &mockCommentRepo{
			createFunc: func(_ context.Context, c *domain.CardComment) error {
				assert.Equal(t, cardID, c.CardID)
				assert.Equal(t, f.userID, c.AuthorID)
				return nil
			},
		}
		dispatcher := &captureDispatcher{}
		_, api := humatest.New(t)
		v1.RegisterCommentRoutes(api, store, dispatcher)

		resp := api.PostCtx(userCtx(f.userID), "/comments", map[string]any{
			"card_id": cardID.String(),
			"content": "Looks good to me",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		dispatched := dispatcher.all()
		require.Len(t, dispatched, 1)
		added, ok := dispatched[0].(events.CommentAdded)
		require.True(t, ok)
		assert.Equal(t, "Design review", added.CardTitle)
		assert.Equal(t, "Looks good to me", added.Content)
		assert.Equal(t, f.userID, added.CommenterID)
		// No assignee, so the event targets the card creator.
		require.NotNil(t, added.Target.OwnerID)
		assert.Equal(t, creatorID, *added.Target.OwnerID)
	})

	t.Run("non_member_forbidden", func(t *testing.T) {
		t.Parallel()

		f, store := newCardFixture(nil)
		cardID := uuid.New()
		store.cards = &mockCardRepo{
			getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
				return &domain.Card{ID: cardID, ListID: f.listA.ID}, nil
			},
		}
		store.comments = &mockCommentRepo{}
		_, api := humatest.New(t)
		v1.RegisterCommentRoutes(api, store, &captureDispatcher{})

		resp := api.PostCtx(userCtx(f.userID), "/comments", map[string]any{
			"card_id": cardID.String(),
			"content": "Sneaky",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

func TestUpdateComment(t *testing.T) {
	t.Parallel()

	authorID := uuid.New()
	commentID := uuid.New()
	comment := func() *domain.CardComment {
		return &domain.CardComment{ID: commentID, CardID: uuid.New(), AuthorID: authorID, Content: "v1"}
	}

	t.Run("author_edits", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			comments: &mockCommentRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.CardComment, error) {
					return comment(), nil
				},
				updateFunc: func(_ context.Context, c *domain.CardComment) error {
					assert.Equal(t, "v2", c.Content)
					return nil
				},
			},
		}
		v1.RegisterCommentRoutes(api, store, &captureDispatcher{})

		resp := api.PatchCtx(userCtx(authorID), "/comments/"+commentID.String(), map[string]any{
			"content": "v2",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.CardComment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "v2", body.Content)
	})

	t.Run("non_author_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			comments: &mockCommentRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.CardComment, error) {
					return comment(), nil
				},
			},
		}
		v1.RegisterCommentRoutes(api, store, &captureDispatcher{})

		resp := api.PatchCtx(userCtx(uuid.New()), "/comments/"+commentID.String(), map[string]any{
			"content": "hijack",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

func TestDeleteComment(t *testing.T) {
	t.Parallel()

	t.Run("author_deletes_own", func(t *testing.T) {
		t.Parallel()

		authorID := uuid.New()
		commentID := uuid.New()
		var deleted bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			comments: &mockCommentRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.CardComment, error) {
					return &domain.CardComment{ID: commentID, AuthorID: authorID}, nil
				},
				deleteFunc: func(_ context.Context, id uuid.UUID) error {
					deleted = true
					assert.Equal(t, commentID, id)
					return nil
				},
			},
		}
		v1.RegisterCommentRoutes(api, store, &captureDispatcher{})

		resp := api.DeleteCtx(userCtx(authorID), "/comments/"+commentID.String())

		require.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, deleted)
	})

	t.Run("admin_deletes_any", func(t *testing.T) {
		t.Parallel()

		f, store := newCardFixture(rolePtr(domain.RoleAdmin))
		cardID := uuid.New()
		commentID := uuid.New()
		store.cards = &mockCardRepo{
			getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
				return &domain.Card{ID: cardID, ListID: f.listA.ID}, nil
			},
		}

		var deleted bool
		store.comments = &mockCommentRepo{
			getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.CardComment, error) {
				return &domain.CardComment{ID: commentID, CardID: cardID, AuthorID: uuid.New()}, nil
			},
			deleteFunc: func(_ context.Context, _ uuid.UUID) error {
				deleted = true
				return nil
			},
		}
		_, api := humatest.New(t)
		v1.RegisterCommentRoutes(api, store, &captureDispatcher{})

		resp := api.DeleteCtx(userCtx(f.userID), "/comments/"+commentID.String())

		require.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, deleted)
	})

	t.Run("member_cannot_delete_others", func(t *testing.T) {
		t.Parallel()

		f, store := newCardFixture(rolePtr(domain.RoleMember))
		cardID := uuid.New()
		commentID := uuid.New()
		store.cards = &mockCardRepo{
			getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
				return &domain.Card{ID: cardID, ListID: f.listA.ID}, nil
			},
		}
		store.comments = &mockCommentRepo{
			getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.CardComment, error) {
				return &domain.CardComment{ID: commentID, CardID: cardID, AuthorID: uuid.New()}, nil
			},
		}
		_, api := humatest.New(t)
		v1.RegisterCommentRoutes(api, store, &captureDispatcher{})

		resp := api.DeleteCtx(userCtx(f.userID), "/comments/"+commentID.String())

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
