package persistence

// Status is the lifecycle state of a role. Only defined roles are long
// lived; drafts exist while an editor works on them and are discarded or
// published shortly after.
type Status int

const (
	StatusDefined Status = 0
	StatusDraft   Status = 1
)

// NoOriginalRole marks a role draft created from scratch rather than from
// an existing role.
const NoOriginalRole int64 = -1

// User is a repository user. A user is itself a content item: ID doubles as
// the content id of the account object, which is why user mutations also
// invalidate content caches.
type User struct {
	ID                int64
	Login             string
	Email             string
	PasswordHash      string
	HashAlgorithm     int
	PasswordUpdatedAt int64
	Enabled           bool
}

// UserTokenUpdate rotates a user's account key (for example a password
// reset token). HashKey is the new token hash.
type UserTokenUpdate struct {
	UserID    int64
	HashKey   string
	ExpiresAt int64
}

// Role groups policies and can be assigned to user groups. OriginalID is
// NoOriginalRole unless the role is a draft derived from an existing role.
type Role struct {
	ID         int64
	OriginalID int64
	Identifier string
	Status     Status
	Policies   []Policy
}

// RoleCreate is the input for creating a role.
type RoleCreate struct {
	Identifier string
	Status     Status
	Policies   []Policy
}

// RoleUpdate is the input for updating a role's own fields.
type RoleUpdate struct {
	ID         int64
	Identifier string
}

// RoleCopy is the input for copying an existing role under a new identifier.
type RoleCopy struct {
	SourceRoleID  int64
	NewIdentifier string
}

// Policy grants a module/function capability, optionally narrowed by
// limitations. Policies are always loaded as part of their role.
type Policy struct {
	ID          int64
	RoleID      int64
	Module      string
	Function    string
	Limitations map[string][]string
}

// RoleAssignment attaches a role to a user or user group (both addressed by
// their content id), optionally narrowed by a limitation.
type RoleAssignment struct {
	ID                   int64
	RoleID               int64
	ContentID            int64
	LimitationIdentifier string
	LimitationValues     []string
}

// RoleLimitation narrows a role assignment, e.g. to a subtree.
type RoleLimitation struct {
	Identifier string
	Values     []string
}

// Location is a node of the content tree. PathString is the materialized
// path of the node including itself, e.g. "/1/2/7/", which lets ancestor ids
// be derived without recursive queries.
type Location struct {
	ID         int64
	ParentID   int64
	ContentID  int64
	Depth      int
	PathString string
}
