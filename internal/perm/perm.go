// Package perm holds the static workspace permission matrix. It is the
// single place that maps actions to the roles allowed to perform them;
// route handlers never hard-code role checks.
package perm

import "github.com/tackboard/tack/internal/domain"

// Action identifies an operation subject to the permission matrix.
type Action string

const (
	ActionInviteMember Action = "invite_member"
	ActionRemoveMember Action = "remove_member"

	ActionCreateBoard Action = "create_board"
	ActionEditBoard   Action = "edit_board"
	ActionDeleteBoard Action = "delete_board"
	ActionViewBoard   Action = "view_board"

	ActionCreateList Action = "create_list"
	ActionEditList   Action = "edit_list"
	ActionDeleteList Action = "delete_list"

	ActionCreateCard Action = "create_card"
	ActionEditCard   Action = "edit_card"
	ActionDeleteCard Action = "delete_card"
	ActionMoveCard   Action = "move_card"

	ActionCreateComment    Action = "create_comment"
	ActionDeleteAnyComment Action = "delete_any_comment"

	ActionCreateChecklist Action = "create_checklist"
	ActionToggleChecklist Action = "toggle_checklist"
)

// matrix is the allow-list per action. An action absent from the table
// is permitted to nobody (deny by default); only the owner override
// passes for it.
var matrix = map[Action][]domain.Role{
	ActionInviteMember: {domain.RoleAdmin},
	ActionRemoveMember: {domain.RoleAdmin},

	ActionCreateBoard: {domain.RoleAdmin, domain.RoleMember},
	ActionEditBoard:   {domain.RoleAdmin, domain.RoleMember},
	ActionDeleteBoard: {domain.RoleAdmin},
	ActionViewBoard:   {domain.RoleAdmin, domain.RoleMember, domain.RoleObserver},

	ActionCreateList: {domain.RoleAdmin, domain.RoleMember},
	ActionEditList:   {domain.RoleAdmin, domain.RoleMember},
	ActionDeleteList: {domain.RoleAdmin, domain.RoleMember},

	ActionCreateCard: {domain.RoleAdmin, domain.RoleMember},
	ActionEditCard:   {domain.RoleAdmin, domain.RoleMember},
	ActionDeleteCard: {domain.RoleAdmin, domain.RoleMember},
	ActionMoveCard:   {domain.RoleAdmin, domain.RoleMember},

	ActionCreateComment:    {domain.RoleAdmin, domain.RoleMember, domain.RoleObserver},
	ActionDeleteAnyComment: {domain.RoleAdmin},

	ActionCreateChecklist: {domain.RoleAdmin, domain.RoleMember},
	ActionToggleChecklist: {domain.RoleAdmin, domain.RoleMember, domain.RoleObserver},
}

// Has reports whether the action is authorized. role is nil when the
// user has no member row in the workspace. The check is pure: turning
// false into a 403 is the caller's job.
func Has(role *domain.Role, action Action, isOwner bool) bool {
	if isOwner {
		return true
	}
	if role == nil {
		return false
	}
	for _, allowed := range matrix[action] {
		if *role == allowed {
			return true
		}
	}
	return false
}

// AllowedRoles returns a copy of the allow-list configured for an
// action. Introspection only; authorization goes through Has.
func AllowedRoles(action Action) []domain.Role {
	roles := matrix[action]
	out := make([]domain.Role, len(roles))
	copy(out, roles)
	return out
}
