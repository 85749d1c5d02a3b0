package v1_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tackboard/tack/internal/auth"
	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/events"
	"github.com/tackboard/tack/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers: inject the authenticated user for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.ContextKeyUserID, userID)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users         domain.UserRepository
	workspaces    domain.WorkspaceRepository
	boards        domain.BoardRepository
	lists         domain.ListRepository
	cards         domain.CardRepository
	comments      domain.CommentRepository
	checklists    domain.ChecklistRepository
	invitations   domain.InvitationRepository
	notifications domain.NotificationRepository
	activity      domain.ActivityRepository
}

func (m *mockDataStore) Users() domain.UserRepository                 { return m.users }
func (m *mockDataStore) Workspaces() domain.WorkspaceRepository       { return m.workspaces }
func (m *mockDataStore) Boards() domain.BoardRepository               { return m.boards }
func (m *mockDataStore) Lists() domain.ListRepository                 { return m.lists }
func (m *mockDataStore) Cards() domain.CardRepository                 { return m.cards }
func (m *mockDataStore) Comments() domain.CommentRepository           { return m.comments }
func (m *mockDataStore) Checklists() domain.ChecklistRepository       { return m.checklists }
func (m *mockDataStore) Invitations() domain.InvitationRepository     { return m.invitations }
func (m *mockDataStore) Notifications() domain.NotificationRepository { return m.notifications }
func (m *mockDataStore) Activity() domain.ActivityRepository          { return m.activity }

// ---------------------------------------------------------------------------
// Event capture
// ---------------------------------------------------------------------------

type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Dispatch(_ context.Context, e events.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *captureDispatcher) all() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.Event, len(d.events))
	copy(out, d.events)
	return out
}

// captureBroadcaster records published pub/sub payloads by channel.
type captureBroadcaster struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
}

func (b *captureBroadcaster) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.channels = append(b.channels, channel)
	b.payloads = append(b.payloads, payload)
	return nil
}

func (b *captureBroadcaster) published() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.channels))
	copy(out, b.channels)
	return out
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc          func(ctx context.Context, u *domain.User) error
	getByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc      func(ctx context.Context, email string) (*domain.User, error)
	updateFunc          func(ctx context.Context, u *domain.User) error
	createOAuthLinkFunc func(ctx context.Context, link *domain.UserOAuthLink) error
	getOAuthLinkFunc    func(ctx context.Context, provider, providerID string) (*domain.UserOAuthLink, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) CreateOAuthLink(ctx context.Context, link *domain.UserOAuthLink) error {
	return m.createOAuthLinkFunc(ctx, link)
}

func (m *mockUserRepo) GetOAuthLink(ctx context.Context, provider, providerID string) (*domain.UserOAuthLink, error) {
	return m.getOAuthLinkFunc(ctx, provider, providerID)
}

// ---------------------------------------------------------------------------
// Mock WorkspaceRepository
// ---------------------------------------------------------------------------

type mockWorkspaceRepo struct {
	createFunc           func(ctx context.Context, w *domain.Workspace) error
	getByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Workspace, error)
	listForUserFunc      func(ctx context.Context, userID uuid.UUID) ([]*domain.Workspace, error)
	updateFunc           func(ctx context.Context, w *domain.Workspace) error
	softDeleteFunc       func(ctx context.Context, id uuid.UUID) error
	addMemberFunc        func(ctx context.Context, m *domain.WorkspaceMember) error
	getMemberFunc        func(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error)
	listMembersFunc      func(ctx context.Context, workspaceID uuid.UUID) ([]*domain.WorkspaceMember, error)
	updateMemberRoleFunc func(ctx context.Context, workspaceID, userID uuid.UUID, role domain.Role) error
	removeMemberFunc     func(ctx context.Context, workspaceID, userID uuid.UUID) error
	memberRoleFunc       func(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Role, error)
}

func (m *mockWorkspaceRepo) Create(ctx context.Context, w *domain.Workspace) error {
	return m.createFunc(ctx, w)
}

func (m *mockWorkspaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockWorkspaceRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workspace, error) {
	return m.listForUserFunc(ctx, userID)
}

func (m *mockWorkspaceRepo) Update(ctx context.Context, w *domain.Workspace) error {
	return m.updateFunc(ctx, w)
}

func (m *mockWorkspaceRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.softDeleteFunc(ctx, id)
}

func (m *mockWorkspaceRepo) AddMember(ctx context.Context, member *domain.WorkspaceMember) error {
	return m.addMemberFunc(ctx, member)
}

func (m *mockWorkspaceRepo) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	return m.getMemberFunc(ctx, workspaceID, userID)
}

func (m *mockWorkspaceRepo) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]*domain.WorkspaceMember, error) {
	return m.listMembersFunc(ctx, workspaceID)
}

func (m *mockWorkspaceRepo) UpdateMemberRole(ctx context.Context, workspaceID, userID uuid.UUID, role domain.Role) error {
	return m.updateMemberRoleFunc(ctx, workspaceID, userID, role)
}

func (m *mockWorkspaceRepo) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	return m.removeMemberFunc(ctx, workspaceID, userID)
}

func (m *mockWorkspaceRepo) MemberRole(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Role, error) {
	if m.memberRoleFunc == nil {
		return nil, nil
	}
	return m.memberRoleFunc(ctx, workspaceID, userID)
}

// ---------------------------------------------------------------------------
// Mock BoardRepository
// ---------------------------------------------------------------------------

type mockBoardRepo struct {
	createFunc          func(ctx context.Context, b *domain.Board) error
	getByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	listByWorkspaceFunc func(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Board, error)
	updateFunc          func(ctx context.Context, b *domain.Board) error
	deleteFunc          func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	return m.createFunc(ctx, b)
}

func (m *mockBoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBoardRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Board, error) {
	return m.listByWorkspaceFunc(ctx, workspaceID)
}

func (m *mockBoardRepo) Update(ctx context.Context, b *domain.Board) error {
	return m.updateFunc(ctx, b)
}

func (m *mockBoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ListRepository
// ---------------------------------------------------------------------------

type mockListRepo struct {
	createFunc      func(ctx context.Context, l *domain.BoardList) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.BoardList, error)
	listByBoardFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardList, error)
	updateFunc      func(ctx context.Context, l *domain.BoardList) error
	softDeleteFunc  func(ctx context.Context, id uuid.UUID) error
	maxPositionFunc func(ctx context.Context, boardID uuid.UUID) (float64, bool, error)
}

func (m *mockListRepo) Create(ctx context.Context, l *domain.BoardList) error {
	return m.createFunc(ctx, l)
}

func (m *mockListRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BoardList, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockListRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardList, error) {
	return m.listByBoardFunc(ctx, boardID)
}

func (m *mockListRepo) Update(ctx context.Context, l *domain.BoardList) error {
	return m.updateFunc(ctx, l)
}

func (m *mockListRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.softDeleteFunc(ctx, id)
}

func (m *mockListRepo) MaxPosition(ctx context.Context, boardID uuid.UUID) (float64, bool, error) {
	if m.maxPositionFunc == nil {
		return 0, false, nil
	}
	return m.maxPositionFunc(ctx, boardID)
}

// ---------------------------------------------------------------------------
// Mock CardRepository
// ---------------------------------------------------------------------------

type mockCardRepo struct {
	createFunc      func(ctx context.Context, c *domain.Card) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	listByListFunc  func(ctx context.Context, listID uuid.UUID) ([]*domain.Card, error)
	updateFunc      func(ctx context.Context, c *domain.Card) error
	moveFunc        func(ctx context.Context, id, listID uuid.UUID, position float64) error
	softDeleteFunc  func(ctx context.Context, id, deletedBy uuid.UUID) error
	maxPositionFunc func(ctx context.Context, listID uuid.UUID) (float64, bool, error)
}

func (m *mockCardRepo) Create(ctx context.Context, c *domain.Card) error {
	return m.createFunc(ctx, c)
}

func (m *mockCardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockCardRepo) ListByList(ctx context.Context, listID uuid.UUID) ([]*domain.Card, error) {
	return m.listByListFunc(ctx, listID)
}

func (m *mockCardRepo) Update(ctx context.Context, c *domain.Card) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCardRepo) Move(ctx context.Context, id, listID uuid.UUID, position float64) error {
	return m.moveFunc(ctx, id, listID, position)
}

func (m *mockCardRepo) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error {
	return m.softDeleteFunc(ctx, id, deletedBy)
}

func (m *mockCardRepo) MaxPosition(ctx context.Context, listID uuid.UUID) (float64, bool, error) {
	if m.maxPositionFunc == nil {
		return 0, false, nil
	}
	return m.maxPositionFunc(ctx, listID)
}

// ---------------------------------------------------------------------------
// Mock CommentRepository
// ---------------------------------------------------------------------------

type mockCommentRepo struct {
	createFunc     func(ctx context.Context, c *domain.CardComment) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.CardComment, error)
	listByCardFunc func(ctx context.Context, cardID uuid.UUID) ([]*domain.CardComment, error)
	updateFunc     func(ctx context.Context, c *domain.CardComment) error
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCommentRepo) Create(ctx context.Context, c *domain.CardComment) error {
	return m.createFunc(ctx, c)
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CardComment, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockCommentRepo) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.CardComment, error) {
	return m.listByCardFunc(ctx, cardID)
}

func (m *mockCommentRepo) Update(ctx context.Context, c *domain.CardComment) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ChecklistRepository
// ---------------------------------------------------------------------------

type mockChecklistRepo struct {
	createFunc       func(ctx context.Context, item *domain.ChecklistItem) error
	getByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error)
	listByCardFunc   func(ctx context.Context, cardID uuid.UUID) ([]*domain.ChecklistItem, error)
	updateFunc       func(ctx context.Context, item *domain.ChecklistItem) error
	deleteFunc       func(ctx context.Context, id uuid.UUID) error
	setCompletedFunc func(ctx context.Context, id uuid.UUID, completed bool) (*domain.ChecklistItem, error)
	maxPositionFunc  func(ctx context.Context, cardID uuid.UUID) (float64, bool, error)
}

func (m *mockChecklistRepo) Create(ctx context.Context, item *domain.ChecklistItem) error {
	return m.createFunc(ctx, item)
}

func (m *mockChecklistRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockChecklistRepo) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.ChecklistItem, error) {
	return m.listByCardFunc(ctx, cardID)
}

func (m *mockChecklistRepo) Update(ctx context.Context, item *domain.ChecklistItem) error {
	return m.updateFunc(ctx, item)
}

func (m *mockChecklistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockChecklistRepo) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (*domain.ChecklistItem, error) {
	return m.setCompletedFunc(ctx, id, completed)
}

func (m *mockChecklistRepo) MaxPosition(ctx context.Context, cardID uuid.UUID) (float64, bool, error) {
	if m.maxPositionFunc == nil {
		return 0, false, nil
	}
	return m.maxPositionFunc(ctx, cardID)
}

// ---------------------------------------------------------------------------
// Mock InvitationRepository
// ---------------------------------------------------------------------------

type mockInvitationRepo struct {
	createFunc         func(ctx context.Context, inv *domain.Invitation) error
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)
	listForInviteeFunc func(ctx context.Context, inviteeID uuid.UUID, status domain.InvitationStatus) ([]*domain.Invitation, error)
	listSentFunc       func(ctx context.Context, inviterID uuid.UUID) ([]*domain.Invitation, error)
	getPendingFunc     func(ctx context.Context, workspaceID, inviteeID uuid.UUID) (*domain.Invitation, error)
	respondFunc        func(ctx context.Context, id uuid.UUID, accept bool) (*domain.Invitation, error)
	deleteFunc         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	return m.createFunc(ctx, inv)
}

func (m *mockInvitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockInvitationRepo) ListForInvitee(ctx context.Context, inviteeID uuid.UUID, status domain.InvitationStatus) ([]*domain.Invitation, error) {
	return m.listForInviteeFunc(ctx, inviteeID, status)
}

func (m *mockInvitationRepo) ListSent(ctx context.Context, inviterID uuid.UUID) ([]*domain.Invitation, error) {
	return m.listSentFunc(ctx, inviterID)
}

func (m *mockInvitationRepo) GetPending(ctx context.Context, workspaceID, inviteeID uuid.UUID) (*domain.Invitation, error) {
	if m.getPendingFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.getPendingFunc(ctx, workspaceID, inviteeID)
}

func (m *mockInvitationRepo) Respond(ctx context.Context, id uuid.UUID, accept bool) (*domain.Invitation, error) {
	return m.respondFunc(ctx, id, accept)
}

func (m *mockInvitationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock NotificationRepository
// ---------------------------------------------------------------------------

type mockNotificationRepo struct {
	createFunc      func(ctx context.Context, n *domain.Notification) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	listForUserFunc func(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, error)
	countUnreadFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
	markReadFunc    func(ctx context.Context, id uuid.UUID) error
	markAllReadFunc func(ctx context.Context, userID uuid.UUID) error
	deleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return m.createFunc(ctx, n)
}

func (m *mockNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockNotificationRepo) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, error) {
	return m.listForUserFunc(ctx, userID, unreadOnly, limit, offset)
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.countUnreadFunc(ctx, userID)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	return m.markReadFunc(ctx, id)
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return m.markAllReadFunc(ctx, userID)
}

func (m *mockNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ActivityRepository
// ---------------------------------------------------------------------------

type mockActivityRepo struct {
	createFunc          func(ctx context.Context, a *domain.ActivityLog) error
	listByBoardFunc     func(ctx context.Context, boardID uuid.UUID, limit, offset int) ([]*domain.ActivityLog, error)
	listByWorkspaceFunc func(ctx context.Context, workspaceID uuid.UUID, limit, offset int) ([]*domain.ActivityLog, error)
	listByEntityFunc    func(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]*domain.ActivityLog, error)
}

func (m *mockActivityRepo) Create(ctx context.Context, a *domain.ActivityLog) error {
	if m.createFunc == nil {
		return nil
	}
	return m.createFunc(ctx, a)
}

func (m *mockActivityRepo) ListByBoard(ctx context.Context, boardID uuid.UUID, limit, offset int) ([]*domain.ActivityLog, error) {
	return m.listByBoardFunc(ctx, boardID, limit, offset)
}

func (m *mockActivityRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit, offset int) ([]*domain.ActivityLog, error) {
	return m.listByWorkspaceFunc(ctx, workspaceID, limit, offset)
}

func (m *mockActivityRepo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]*domain.ActivityLog, error) {
	return m.listByEntityFunc(ctx, entityType, entityID, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc     func(ctx context.Context, email, password, name string) (*domain.User, error)
	loginFunc        func(ctx context.Context, email, password string) (*domain.User, *auth.TokenPair, error)
	oauthLoginFunc   func(ctx context.Context, provider, providerID, email, name, avatarURL string) (*domain.User, *auth.TokenPair, bool, error)
	refreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
	getUserFunc      func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	return m.registerFunc(ctx, email, password, name)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*domain.User, *auth.TokenPair, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) OAuthLogin(ctx context.Context, provider, providerID, email, name, avatarURL string) (*domain.User, *auth.TokenPair, bool, error) {
	return m.oauthLoginFunc(ctx, provider, providerID, email, name, avatarURL)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

func (m *mockAuthService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.getUserFunc(ctx, userID)
}

// ---------------------------------------------------------------------------
// Workspace fixtures
// ---------------------------------------------------------------------------

// memberWorkspaceRepo builds a workspace repo where the given user has
// the given role. A nil role means non-member.
func memberWorkspaceRepo(ws *domain.Workspace, userID uuid.UUID, role *domain.Role) *mockWorkspaceRepo {
	return &mockWorkspaceRepo{
		getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Workspace, error) {
			if id != ws.ID {
				return nil, domain.ErrNotFound
			}
			return ws, nil
		},
		memberRoleFunc: func(_ context.Context, _, uid uuid.UUID) (*domain.Role, error) {
			if uid == userID {
				return role, nil
			}
			return nil, nil
		},
	}
}

func rolePtr(r domain.Role) *domain.Role { return &r }
