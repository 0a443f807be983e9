package persistence

import "context"

// Handler aggregates the per-entity storage backends. The caching layer in
// package persistencecache decorates a Handler and exposes the same
// interfaces, so callers cannot tell a cached handler from a bare one.
type Handler interface {
	UserHandler() UserHandler
	LocationHandler() LocationHandler
}

// UserHandler is the storage backend for users, roles, policies and role
// assignments. Load methods fail with a NotFoundError when the entity does
// not exist; that failure is never cached by the decorating layer.
type UserHandler interface {
	Create(ctx context.Context, user User) (User, error)
	Load(ctx context.Context, userID int64) (User, error)
	LoadByLogin(ctx context.Context, login string) (User, error)
	LoadByEmail(ctx context.Context, email string) (User, error)
	// LoadUsersByEmail returns every user with the given email; emails are
	// not guaranteed unique.
	LoadUsersByEmail(ctx context.Context, email string) ([]User, error)
	LoadUserByToken(ctx context.Context, hash string) (User, error)
	Update(ctx context.Context, user User) (User, error)
	UpdatePassword(ctx context.Context, user User) error
	UpdateUserToken(ctx context.Context, token UserTokenUpdate) error
	ExpireUserToken(ctx context.Context, hash string) error
	Delete(ctx context.Context, userID int64) error

	CreateRole(ctx context.Context, rc RoleCreate) (Role, error)
	CreateRoleDraft(ctx context.Context, roleID int64) (Role, error)
	CopyRole(ctx context.Context, rc RoleCopy) (Role, error)
	LoadRole(ctx context.Context, roleID int64, status Status) (Role, error)
	LoadRoleByIdentifier(ctx context.Context, identifier string, status Status) (Role, error)
	LoadRoleDraftByRoleID(ctx context.Context, roleID int64) (Role, error)
	LoadRoles(ctx context.Context) ([]Role, error)
	UpdateRole(ctx context.Context, ru RoleUpdate) error
	DeleteRole(ctx context.Context, roleID int64, status Status) error
	PublishRoleDraft(ctx context.Context, roleDraftID int64) error

	AddPolicy(ctx context.Context, roleID int64, policy Policy) (Policy, error)
	AddPolicyByRoleDraft(ctx context.Context, roleID int64, policy Policy) (Policy, error)
	UpdatePolicy(ctx context.Context, policy Policy) (Policy, error)
	DeletePolicy(ctx context.Context, policyID, roleID int64) error
	LoadPoliciesByUserID(ctx context.Context, userID int64) ([]Policy, error)

	LoadRoleAssignment(ctx context.Context, roleAssignmentID int64) (RoleAssignment, error)
	LoadRoleAssignmentsByRoleID(ctx context.Context, roleID int64) ([]RoleAssignment, error)
	// LoadRoleAssignmentsByGroupID returns the assignments of a user or
	// group; with inherit set it also includes assignments inherited from
	// ancestor groups in the content tree.
	LoadRoleAssignmentsByGroupID(ctx context.Context, groupID int64, inherit bool) ([]RoleAssignment, error)
	AssignRole(ctx context.Context, contentID, roleID int64, limitation *RoleLimitation) error
	UnassignRole(ctx context.Context, contentID, roleID int64) error
	RemoveRoleAssignment(ctx context.Context, roleAssignmentID int64) error
}

// LocationHandler is the storage backend for the content tree.
type LocationHandler interface {
	Load(ctx context.Context, locationID int64) (Location, error)
	LoadLocationsByContent(ctx context.Context, contentID int64) ([]Location, error)
	Create(ctx context.Context, location Location) (Location, error)
	Move(ctx context.Context, locationID, newParentID int64) error
	Delete(ctx context.Context, locationID int64) error
}
