package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/events"
	"github.com/tackboard/tack/internal/perm"
)

type CreateInvitationInput struct {
	Body struct {
		WorkspaceID  uuid.UUID   `json:"workspace_id" doc:"Workspace ID"`
		InviteeEmail string      `json:"invitee_email" minLength:"3" maxLength:"255" doc:"Email of the user to invite"`
		Role         domain.Role `json:"role,omitempty" enum:"admin,member,observer" doc:"Role granted on accept (default member)"`
		Message      string      `json:"message,omitempty" maxLength:"2000" doc:"Personal message"`
	}
}

type CreateInvitationOutput struct {
	Body *domain.Invitation
}

type ListInvitationsInput struct {
	Status string `query:"status" enum:"pending,accepted,rejected,expired" doc:"Filter received invitations by status"`
	Sent   bool   `query:"sent" doc:"List invitations you sent instead of received"`
}

type ListInvitationsOutput struct {
	Body []*domain.Invitation
}

type RespondInvitationInput struct {
	ID   uuid.UUID `path:"id" doc:"Invitation ID"`
	Body struct {
		Accept bool `json:"accept" doc:"true to accept, false to reject"`
	}
}

type RespondInvitationOutput struct {
	Body *domain.Invitation
}

type DeleteInvitationInput struct {
	ID uuid.UUID `path:"id" doc:"Invitation ID"`
}

func RegisterInvitationRoutes(api huma.API, store DataStore, dispatcher EventDispatcher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-invitation",
		Method:      http.MethodPost,
		Path:        "/invitations",
		Summary:     "Invite a user to a workspace",
		Tags:        []string{"Invitations"},
	}, func(ctx context.Context, input *CreateInvitationInput) (*CreateInvitationOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		ws, err := authorize(ctx, store, input.Body.WorkspaceID, userID, perm.ActionInviteMember)
		if err != nil {
			return nil, err
		}

		role := input.Body.Role
		if role == "" {
			role = domain.RoleMember
		}
		if !role.Valid() {
			return nil, huma.Error400BadRequest("invalid role")
		}

		invitee, err := store.Users().GetByEmail(ctx, input.Body.InviteeEmail)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("no user with that email")
			}
			return nil, huma.Error500InternalServerError("failed to look up invitee", err)
		}

		if ws.IsOwner(invitee.ID) {
			return nil, huma.Error409Conflict("user already belongs to the workspace")
		}
		existingRole, err := store.Workspaces().MemberRole(ctx, ws.ID, invitee.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to check membership", err)
		}
		if existingRole != nil {
			return nil, huma.Error409Conflict("user already belongs to the workspace")
		}

		// One pending invitation per workspace and invitee.
		if _, err := store.Invitations().GetPending(ctx, ws.ID, invitee.ID); err == nil {
			return nil, huma.Error409Conflict("an invitation is already pending")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error500InternalServerError("failed to check pending invitations", err)
		}

		inv := &domain.Invitation{
			ID:          uuid.New(),
			WorkspaceID: ws.ID,
			InviterID:   userID,
			InviteeID:   invitee.ID,
			Role:        role,
			Message:     input.Body.Message,
			Status:      domain.InvitationPending,
			CreatedAt:   time.Now(),
		}

		if err := store.Invitations().Create(ctx, inv); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("an invitation is already pending")
			}
			return nil, huma.Error500InternalServerError("failed to create invitation", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionInvited,
			EntityType:  domain.EntityMember,
			EntityID:    invitee.ID,
			EntityName:  invitee.DisplayName(),
			WorkspaceID: &ws.ID,
		})

		inviter, _ := store.Users().GetByID(ctx, userID)
		inviterName := ""
		if inviter != nil {
			inviterName = inviter.DisplayName()
		}
		dispatcher.Dispatch(ctx, events.InvitationSent{
			InvitationID:  inv.ID,
			WorkspaceID:   ws.ID,
			WorkspaceName: ws.Name,
			InviterID:     userID,
			InviterName:   inviterName,
			InviteeID:     invitee.ID,
			InviteeEmail:  invitee.Email,
		})

		return &CreateInvitationOutput{Body: inv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-invitations",
		Method:      http.MethodGet,
		Path:        "/invitations",
		Summary:     "List invitations you received or sent",
		Tags:        []string{"Invitations"},
	}, func(ctx context.Context, input *ListInvitationsInput) (*ListInvitationsOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		var invitations []*domain.Invitation
		if input.Sent {
			invitations, err = store.Invitations().ListSent(ctx, userID)
		} else {
			invitations, err = store.Invitations().ListForInvitee(ctx, userID, domain.InvitationStatus(input.Status))
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list invitations", err)
		}

		return &ListInvitationsOutput{Body: invitations}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "respond-invitation",
		Method:      http.MethodPost,
		Path:        "/invitations/{id}/respond",
		Summary:     "Accept or reject an invitation",
		Tags:        []string{"Invitations"},
	}, func(ctx context.Context, input *RespondInvitationInput) (*RespondInvitationOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		inv, err := store.Invitations().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("invitation not found")
			}
			return nil, huma.Error500InternalServerError("failed to load invitation", err)
		}

		if err := inv.CanRespond(userID); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotInvitee):
				return nil, huma.Error403Forbidden("this invitation is addressed to another user")
			case errors.Is(err, domain.ErrAlreadyResponded):
				return nil, huma.Error409Conflict("invitation already responded to")
			default:
				return nil, huma.Error500InternalServerError("cannot respond to invitation", err)
			}
		}

		inv, err = store.Invitations().Respond(ctx, inv.ID, input.Body.Accept)
		if err != nil {
			// A concurrent respond may have won between the guard
			// check and the transition.
			if errors.Is(err, domain.ErrAlreadyResponded) {
				return nil, huma.Error409Conflict("invitation already responded to")
			}
			return nil, huma.Error500InternalServerError("failed to respond to invitation", err)
		}

		ws, err := store.Workspaces().GetByID(ctx, inv.WorkspaceID)
		wsName := ""
		if err == nil {
			wsName = ws.Name
		}

		if input.Body.Accept {
			recordActivity(ctx, store, &domain.ActivityLog{
				UserID:      userID,
				Action:      domain.ActionJoined,
				EntityType:  domain.EntityMember,
				EntityID:    userID,
				WorkspaceID: &inv.WorkspaceID,
			})
		}

		responder, _ := store.Users().GetByID(ctx, userID)
		responderName := ""
		if responder != nil {
			responderName = responder.DisplayName()
		}
		dispatcher.Dispatch(ctx, events.InvitationResponded{
			InvitationID:  inv.ID,
			WorkspaceID:   inv.WorkspaceID,
			WorkspaceName: wsName,
			Accepted:      input.Body.Accept,
			ResponderID:   userID,
			ResponderName: responderName,
			InviterID:     inv.InviterID,
		})

		return &RespondInvitationOutput{Body: inv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-invitation",
		Method:      http.MethodDelete,
		Path:        "/invitations/{id}",
		Summary:     "Withdraw an invitation you sent",
		Tags:        []string{"Invitations"},
	}, func(ctx context.Context, input *DeleteInvitationInput) (*struct{}, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		inv, err := store.Invitations().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("invitation not found")
			}
			return nil, huma.Error500InternalServerError("failed to load invitation", err)
		}

		if inv.InviterID != userID {
			return nil, huma.Error403Forbidden("only the inviter can withdraw an invitation")
		}
		if inv.Status != domain.InvitationPending {
			return nil, huma.Error409Conflict("only pending invitations can be withdrawn")
		}

		if err := store.Invitations().Delete(ctx, inv.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete invitation", err)
		}

		return nil, nil
	})
}
