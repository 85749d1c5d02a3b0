package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/perm"
)

type CreateWorkspaceInput struct {
	Body struct {
		Name        string `json:"name" minLength:"1" maxLength:"255" doc:"Workspace name"`
		Description string `json:"description,omitempty" maxLength:"2000" doc:"Workspace description"`
	}
}

type CreateWorkspaceOutput struct {
	Body *domain.Workspace
}

type ListWorkspacesOutput struct {
	Body []*domain.Workspace
}

type GetWorkspaceInput struct {
	ID uuid.UUID `path:"id" doc:"Workspace ID"`
}

type GetWorkspaceOutput struct {
	Body *domain.Workspace
}

type UpdateWorkspaceInput struct {
	ID   uuid.UUID `path:"id" doc:"Workspace ID"`
	Body struct {
		Name        *string `json:"name,omitempty" maxLength:"255" doc:"Workspace name"`
		Description *string `json:"description,omitempty" maxLength:"2000" doc:"Workspace description"`
		IsArchived  *bool   `json:"is_archived,omitempty" doc:"Archive flag"`
	}
}

type UpdateWorkspaceOutput struct {
	Body *domain.Workspace
}

type DeleteWorkspaceInput struct {
	ID uuid.UUID `path:"id" doc:"Workspace ID"`
}

type ListMembersInput struct {
	ID uuid.UUID `path:"id" doc:"Workspace ID"`
}

type ListMembersOutput struct {
	Body []*domain.WorkspaceMember
}

type UpdateMemberRoleInput struct {
	ID     uuid.UUID `path:"id" doc:"Workspace ID"`
	UserID uuid.UUID `path:"userId" doc:"Member user ID"`
	Body   struct {
		Role domain.Role `json:"role" enum:"admin,member,observer" doc:"New role"`
	}
}

type UpdateMemberRoleOutput struct {
	Body *domain.WorkspaceMember
}

type RemoveMemberInput struct {
	ID     uuid.UUID `path:"id" doc:"Workspace ID"`
	UserID uuid.UUID `path:"userId" doc:"Member user ID"`
}

// RegisterWorkspaceRoutes registers workspace CRUD and member
// management. Editing and deleting a workspace is owner-only; member
// role changes go through the permission matrix.
func RegisterWorkspaceRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-workspace",
		Method:      http.MethodPost,
		Path:        "/workspaces",
		Summary:     "Create a workspace",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *CreateWorkspaceInput) (*CreateWorkspaceOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		ws := &domain.Workspace{
			ID:          uuid.New(),
			OwnerID:     userID,
			Name:        input.Body.Name,
			Description: input.Body.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Workspaces().Create(ctx, ws); err != nil {
			return nil, huma.Error500InternalServerError("failed to create workspace", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionCreated,
			EntityType:  domain.EntityWorkspace,
			EntityID:    ws.ID,
			EntityName:  ws.Name,
			WorkspaceID: &ws.ID,
		})

		return &CreateWorkspaceOutput{Body: ws}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-workspaces",
		Method:      http.MethodGet,
		Path:        "/workspaces",
		Summary:     "List workspaces the user belongs to",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, _ *struct{}) (*ListWorkspacesOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		workspaces, err := store.Workspaces().ListForUser(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list workspaces", err)
		}

		return &ListWorkspacesOutput{Body: workspaces}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-workspace",
		Method:      http.MethodGet,
		Path:        "/workspaces/{id}",
		Summary:     "Get a workspace",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *GetWorkspaceInput) (*GetWorkspaceOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		ws, err := authorize(ctx, store, input.ID, userID, perm.ActionViewBoard)
		if err != nil {
			return nil, err
		}

		return &GetWorkspaceOutput{Body: ws}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-workspace",
		Method:      http.MethodPatch,
		Path:        "/workspaces/{id}",
		Summary:     "Update a workspace",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *UpdateWorkspaceInput) (*UpdateWorkspaceOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		ws, err := store.Workspaces().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("workspace not found")
			}
			return nil, huma.Error500InternalServerError("failed to load workspace", err)
		}

		// Workspace settings are owner-only, regardless of role.
		if !ws.IsOwner(userID) {
			return nil, huma.Error403Forbidden("only the workspace owner can update it")
		}

		if input.Body.Name != nil {
			if *input.Body.Name == "" {
				return nil, huma.Error400BadRequest("name cannot be empty")
			}
			ws.Name = *input.Body.Name
		}
		if input.Body.Description != nil {
			ws.Description = *input.Body.Description
		}
		if input.Body.IsArchived != nil {
			ws.IsArchived = *input.Body.IsArchived
		}
		ws.UpdatedAt = time.Now()

		if err := store.Workspaces().Update(ctx, ws); err != nil {
			return nil, huma.Error500InternalServerError("failed to update workspace", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionUpdated,
			EntityType:  domain.EntityWorkspace,
			EntityID:    ws.ID,
			EntityName:  ws.Name,
			WorkspaceID: &ws.ID,
		})

		return &UpdateWorkspaceOutput{Body: ws}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-workspace",
		Method:      http.MethodDelete,
		Path:        "/workspaces/{id}",
		Summary:     "Delete a workspace",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *DeleteWorkspaceInput) (*struct{}, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		ws, err := store.Workspaces().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("workspace not found")
			}
			return nil, huma.Error500InternalServerError("failed to load workspace", err)
		}

		if !ws.IsOwner(userID) {
			return nil, huma.Error403Forbidden("only the workspace owner can delete it")
		}

		if err := store.Workspaces().SoftDelete(ctx, ws.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete workspace", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionDeleted,
			EntityType:  domain.EntityWorkspace,
			EntityID:    ws.ID,
			EntityName:  ws.Name,
			WorkspaceID: &ws.ID,
		})

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-workspace-members",
		Method:      http.MethodGet,
		Path:        "/workspaces/{id}/members",
		Summary:     "List workspace members",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := authorize(ctx, store, input.ID, userID, perm.ActionViewBoard); err != nil {
			return nil, err
		}

		members, err := store.Workspaces().ListMembers(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list members", err)
		}

		return &ListMembersOutput{Body: members}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-member-role",
		Method:      http.MethodPatch,
		Path:        "/workspaces/{id}/members/{userId}",
		Summary:     "Change a member's role",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *UpdateMemberRoleInput) (*UpdateMemberRoleOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		if !input.Body.Role.Valid() {
			return nil, huma.Error400BadRequest("invalid role")
		}

		ws, err := authorize(ctx, store, input.ID, userID, perm.ActionInviteMember)
		if err != nil {
			return nil, err
		}

		// The owner's access comes from ownership, not a member row.
		if ws.IsOwner(input.UserID) {
			return nil, huma.Error400BadRequest("cannot change the owner's role")
		}

		if err := store.Workspaces().UpdateMemberRole(ctx, input.ID, input.UserID, input.Body.Role); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("member not found")
			}
			return nil, huma.Error500InternalServerError("failed to update member role", err)
		}

		member, err := store.Workspaces().GetMember(ctx, input.ID, input.UserID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load member", err)
		}

		return &UpdateMemberRoleOutput{Body: member}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-member",
		Method:      http.MethodDelete,
		Path:        "/workspaces/{id}/members/{userId}",
		Summary:     "Remove a member from the workspace",
		Tags:        []string{"Workspaces"},
	}, func(ctx context.Context, input *RemoveMemberInput) (*struct{}, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		// Members may always remove themselves; removing others needs
		// the remove_member permission.
		if input.UserID != userID {
			if _, err := authorize(ctx, store, input.ID, userID, perm.ActionRemoveMember); err != nil {
				return nil, err
			}
		}

		ws, err := store.Workspaces().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("workspace not found")
			}
			return nil, huma.Error500InternalServerError("failed to load workspace", err)
		}

		if ws.IsOwner(input.UserID) {
			return nil, huma.Error400BadRequest("the workspace owner cannot be removed")
		}

		if err := store.Workspaces().RemoveMember(ctx, input.ID, input.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("member not found")
			}
			return nil, huma.Error500InternalServerError("failed to remove member", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionLeft,
			EntityType:  domain.EntityMember,
			EntityID:    input.UserID,
			WorkspaceID: &ws.ID,
		})

		return nil, nil
	})
}
