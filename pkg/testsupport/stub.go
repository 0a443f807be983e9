package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-persistence-cache/persistence"
)

// StubHandler is a persistence.Handler whose per-method behavior is plugged
// in by the test. Every call is counted, so tests can assert how often the
// decorating cache reached the backend.
type StubHandler struct {
	Users     *StubUserHandler
	Locations *StubLocationHandler
}

var _ persistence.Handler = (*StubHandler)(nil)

func NewStubHandler() *StubHandler {
	return &StubHandler{
		Users:     &StubUserHandler{},
		Locations: &StubLocationHandler{},
	}
}

func (h *StubHandler) UserHandler() persistence.UserHandler         { return h.Users }
func (h *StubHandler) LocationHandler() persistence.LocationHandler { return h.Locations }

type callCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *callCounter) count(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[method]++
}

// CallCount returns how often the named method was invoked.
func (c *callCounter) CallCount(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[method]
}

func notStubbed(method string) error {
	return fmt.Errorf("testsupport: %s not stubbed", method)
}

// StubUserHandler implements persistence.UserHandler through func fields. A
// call to a method whose field is nil fails, which keeps tests honest about
// the backend calls they expect.
type StubUserHandler struct {
	callCounter

	CreateFunc            func(ctx context.Context, user persistence.User) (persistence.User, error)
	LoadFunc              func(ctx context.Context, userID int64) (persistence.User, error)
	LoadByLoginFunc       func(ctx context.Context, login string) (persistence.User, error)
	LoadByEmailFunc       func(ctx context.Context, email string) (persistence.User, error)
	LoadUsersByEmailFunc  func(ctx context.Context, email string) ([]persistence.User, error)
	LoadUserByTokenFunc   func(ctx context.Context, hash string) (persistence.User, error)
	UpdateFunc            func(ctx context.Context, user persistence.User) (persistence.User, error)
	UpdatePasswordFunc    func(ctx context.Context, user persistence.User) error
	UpdateUserTokenFunc   func(ctx context.Context, token persistence.UserTokenUpdate) error
	ExpireUserTokenFunc   func(ctx context.Context, hash string) error
	DeleteFunc            func(ctx context.Context, userID int64) error
	CreateRoleFunc        func(ctx context.Context, rc persistence.RoleCreate) (persistence.Role, error)
	CreateRoleDraftFunc   func(ctx context.Context, roleID int64) (persistence.Role, error)
	CopyRoleFunc          func(ctx context.Context, rc persistence.RoleCopy) (persistence.Role, error)
	LoadRoleFunc          func(ctx context.Context, roleID int64, status persistence.Status) (persistence.Role, error)
	LoadRoleByIdentifierFunc func(ctx context.Context, identifier string, status persistence.Status) (persistence.Role, error)
	LoadRoleDraftByRoleIDFunc func(ctx context.Context, roleID int64) (persistence.Role, error)
	LoadRolesFunc         func(ctx context.Context) ([]persistence.Role, error)
	UpdateRoleFunc        func(ctx context.Context, ru persistence.RoleUpdate) error
	DeleteRoleFunc        func(ctx context.Context, roleID int64, status persistence.Status) error
	PublishRoleDraftFunc  func(ctx context.Context, roleDraftID int64) error
	AddPolicyFunc         func(ctx context.Context, roleID int64, policy persistence.Policy) (persistence.Policy, error)
	AddPolicyByRoleDraftFunc func(ctx context.Context, roleID int64, policy persistence.Policy) (persistence.Policy, error)
	UpdatePolicyFunc      func(ctx context.Context, policy persistence.Policy) (persistence.Policy, error)
	DeletePolicyFunc      func(ctx context.Context, policyID, roleID int64) error
	LoadPoliciesByUserIDFunc func(ctx context.Context, userID int64) ([]persistence.Policy, error)
	LoadRoleAssignmentFunc func(ctx context.Context, roleAssignmentID int64) (persistence.RoleAssignment, error)
	LoadRoleAssignmentsByRoleIDFunc func(ctx context.Context, roleID int64) ([]persistence.RoleAssignment, error)
	LoadRoleAssignmentsByGroupIDFunc func(ctx context.Context, groupID int64, inherit bool) ([]persistence.RoleAssignment, error)
	AssignRoleFunc        func(ctx context.Context, contentID, roleID int64, limitation *persistence.RoleLimitation) error
	UnassignRoleFunc      func(ctx context.Context, contentID, roleID int64) error
	RemoveRoleAssignmentFunc func(ctx context.Context, roleAssignmentID int64) error
}

var _ persistence.UserHandler = (*StubUserHandler)(nil)

func (s *StubUserHandler) Create(ctx context.Context, user persistence.User) (persistence.User, error) {
	s.count("Create")
	if s.CreateFunc == nil {
		return persistence.User{}, notStubbed("Create")
	}
	return s.CreateFunc(ctx, user)
}

func (s *StubUserHandler) Load(ctx context.Context, userID int64) (persistence.User, error) {
	s.count("Load")
	if s.LoadFunc == nil {
		return persistence.User{}, notStubbed("Load")
	}
	return s.LoadFunc(ctx, userID)
}

func (s *StubUserHandler) LoadByLogin(ctx context.Context, login string) (persistence.User, error) {
	s.count("LoadByLogin")
	if s.LoadByLoginFunc == nil {
		return persistence.User{}, notStubbed("LoadByLogin")
	}
	return s.LoadByLoginFunc(ctx, login)
}

func (s *StubUserHandler) LoadByEmail(ctx context.Context, email string) (persistence.User, error) {
	s.count("LoadByEmail")
	if s.LoadByEmailFunc == nil {
		return persistence.User{}, notStubbed("LoadByEmail")
	}
	return s.LoadByEmailFunc(ctx, email)
}

func (s *StubUserHandler) LoadUsersByEmail(ctx context.Context, email string) ([]persistence.User, error) {
	s.count("LoadUsersByEmail")
	if s.LoadUsersByEmailFunc == nil {
		return nil, notStubbed("LoadUsersByEmail")
	}
	return s.LoadUsersByEmailFunc(ctx, email)
}

func (s *StubUserHandler) LoadUserByToken(ctx context.Context, hash string) (persistence.User, error) {
	s.count("LoadUserByToken")
	if s.LoadUserByTokenFunc == nil {
		return persistence.User{}, notStubbed("LoadUserByToken")
	}
	return s.LoadUserByTokenFunc(ctx, hash)
}

func (s *StubUserHandler) Update(ctx context.Context, user persistence.User) (persistence.User, error) {
	s.count("Update")
	if s.UpdateFunc == nil {
		return persistence.User{}, notStubbed("Update")
	}
	return s.UpdateFunc(ctx, user)
}

func (s *StubUserHandler) UpdatePassword(ctx context.Context, user persistence.User) error {
	s.count("UpdatePassword")
	if s.UpdatePasswordFunc == nil {
		return notStubbed("UpdatePassword")
	}
	return s.UpdatePasswordFunc(ctx, user)
}

func (s *StubUserHandler) UpdateUserToken(ctx context.Context, token persistence.UserTokenUpdate) error {
	s.count("UpdateUserToken")
	if s.UpdateUserTokenFunc == nil {
		return notStubbed("UpdateUserToken")
	}
	return s.UpdateUserTokenFunc(ctx, token)
}

func (s *StubUserHandler) ExpireUserToken(ctx context.Context, hash string) error {
	s.count("ExpireUserToken")
	if s.ExpireUserTokenFunc == nil {
		return notStubbed("ExpireUserToken")
	}
	return s.ExpireUserTokenFunc(ctx, hash)
}

func (s *StubUserHandler) Delete(ctx context.Context, userID int64) error {
	s.count("Delete")
	if s.DeleteFunc == nil {
		return notStubbed("Delete")
	}
	return s.DeleteFunc(ctx, userID)
}

func (s *StubUserHandler) CreateRole(ctx context.Context, rc persistence.RoleCreate) (persistence.Role, error) {
	s.count("CreateRole")
	if s.CreateRoleFunc == nil {
		return persistence.Role{}, notStubbed("CreateRole")
	}
	return s.CreateRoleFunc(ctx, rc)
}

func (s *StubUserHandler) CreateRoleDraft(ctx context.Context, roleID int64) (persistence.Role, error) {
	s.count("CreateRoleDraft")
	if s.CreateRoleDraftFunc == nil {
		return persistence.Role{}, notStubbed("CreateRoleDraft")
	}
	return s.CreateRoleDraftFunc(ctx, roleID)
}

func (s *StubUserHandler) CopyRole(ctx context.Context, rc persistence.RoleCopy) (persistence.Role, error) {
	s.count("CopyRole")
	if s.CopyRoleFunc == nil {
		return persistence.Role{}, notStubbed("CopyRole")
	}
	return s.CopyRoleFunc(ctx, rc)
}

func (s *StubUserHandler) LoadRole(ctx context.Context, roleID int64, status persistence.Status) (persistence.Role, error) {
	s.count("LoadRole")
	if s.LoadRoleFunc == nil {
		return persistence.Role{}, notStubbed("LoadRole")
	}
	return s.LoadRoleFunc(ctx, roleID, status)
}

func (s *StubUserHandler) LoadRoleByIdentifier(ctx context.Context, identifier string, status persistence.Status) (persistence.Role, error) {
	s.count("LoadRoleByIdentifier")
	if s.LoadRoleByIdentifierFunc == nil {
		return persistence.Role{}, notStubbed("LoadRoleByIdentifier")
	}
	return s.LoadRoleByIdentifierFunc(ctx, identifier, status)
}

func (s *StubUserHandler) LoadRoleDraftByRoleID(ctx context.Context, roleID int64) (persistence.Role, error) {
	s.count("LoadRoleDraftByRoleID")
	if s.LoadRoleDraftByRoleIDFunc == nil {
		return persistence.Role{}, notStubbed("LoadRoleDraftByRoleID")
	}
	return s.LoadRoleDraftByRoleIDFunc(ctx, roleID)
}

func (s *StubUserHandler) LoadRoles(ctx context.Context) ([]persistence.Role, error) {
	s.count("LoadRoles")
	if s.LoadRolesFunc == nil {
		return nil, notStubbed("LoadRoles")
	}
	return s.LoadRolesFunc(ctx)
}

func (s *StubUserHandler) UpdateRole(ctx context.Context, ru persistence.RoleUpdate) error {
	s.count("UpdateRole")
	if s.UpdateRoleFunc == nil {
		return notStubbed("UpdateRole")
	}
	return s.UpdateRoleFunc(ctx, ru)
}

func (s *StubUserHandler) DeleteRole(ctx context.Context, roleID int64, status persistence.Status) error {
	s.count("DeleteRole")
	if s.DeleteRoleFunc == nil {
		return notStubbed("DeleteRole")
	}
	return s.DeleteRoleFunc(ctx, roleID, status)
}

func (s *StubUserHandler) PublishRoleDraft(ctx context.Context, roleDraftID int64) error {
	s.count("PublishRoleDraft")
	if s.PublishRoleDraftFunc == nil {
		return notStubbed("PublishRoleDraft")
	}
	return s.PublishRoleDraftFunc(ctx, roleDraftID)
}

func (s *StubUserHandler) AddPolicy(ctx context.Context, roleID int64, policy persistence.Policy) (persistence.Policy, error) {
	s.count("AddPolicy")
	if s.AddPolicyFunc == nil {
		return persistence.Policy{}, notStubbed("AddPolicy")
	}
	return s.AddPolicyFunc(ctx, roleID, policy)
}

func (s *StubUserHandler) AddPolicyByRoleDraft(ctx context.Context, roleID int64, policy persistence.Policy) (persistence.Policy, error) {
	s.count("AddPolicyByRoleDraft")
	if s.AddPolicyByRoleDraftFunc == nil {
		return persistence.Policy{}, notStubbed("AddPolicyByRoleDraft")
	}
	return s.AddPolicyByRoleDraftFunc(ctx, roleID, policy)
}

func (s *StubUserHandler) UpdatePolicy(ctx context.Context, policy persistence.Policy) (persistence.Policy, error) {
	s.count("UpdatePolicy")
	if s.UpdatePolicyFunc == nil {
		return persistence.Policy{}, notStubbed("UpdatePolicy")
	}
	return s.UpdatePolicyFunc(ctx, policy)
}

func (s *StubUserHandler) DeletePolicy(ctx context.Context, policyID, roleID int64) error {
	s.count("DeletePolicy")
	if s.DeletePolicyFunc == nil {
		return notStubbed("DeletePolicy")
	}
	return s.DeletePolicyFunc(ctx, policyID, roleID)
}

func (s *StubUserHandler) LoadPoliciesByUserID(ctx context.Context, userID int64) ([]persistence.Policy, error) {
	s.count("LoadPoliciesByUserID")
	if s.LoadPoliciesByUserIDFunc == nil {
		return nil, notStubbed("LoadPoliciesByUserID")
	}
	return s.LoadPoliciesByUserIDFunc(ctx, userID)
}

func (s *StubUserHandler) LoadRoleAssignment(ctx context.Context, roleAssignmentID int64) (persistence.RoleAssignment, error) {
	s.count("LoadRoleAssignment")
	if s.LoadRoleAssignmentFunc == nil {
		return persistence.RoleAssignment{}, notStubbed("LoadRoleAssignment")
	}
	return s.LoadRoleAssignmentFunc(ctx, roleAssignmentID)
}

func (s *StubUserHandler) LoadRoleAssignmentsByRoleID(ctx context.Context, roleID int64) ([]persistence.RoleAssignment, error) {
	s.count("LoadRoleAssignmentsByRoleID")
	if s.LoadRoleAssignmentsByRoleIDFunc == nil {
		return nil, notStubbed("LoadRoleAssignmentsByRoleID")
	}
	return s.LoadRoleAssignmentsByRoleIDFunc(ctx, roleID)
}

func (s *StubUserHandler) LoadRoleAssignmentsByGroupID(ctx context.Context, groupID int64, inherit bool) ([]persistence.RoleAssignment, error) {
	s.count("LoadRoleAssignmentsByGroupID")
	if s.LoadRoleAssignmentsByGroupIDFunc == nil {
		return nil, notStubbed("LoadRoleAssignmentsByGroupID")
	}
	return s.LoadRoleAssignmentsByGroupIDFunc(ctx, groupID, inherit)
}

func (s *StubUserHandler) AssignRole(ctx context.Context, contentID, roleID int64, limitation *persistence.RoleLimitation) error {
	s.count("AssignRole")
	if s.AssignRoleFunc == nil {
		return notStubbed("AssignRole")
	}
	return s.AssignRoleFunc(ctx, contentID, roleID, limitation)
}

func (s *StubUserHandler) UnassignRole(ctx context.Context, contentID, roleID int64) error {
	s.count("UnassignRole")
	if s.UnassignRoleFunc == nil {
		return notStubbed("UnassignRole")
	}
	return s.UnassignRoleFunc(ctx, contentID, roleID)
}

func (s *StubUserHandler) RemoveRoleAssignment(ctx context.Context, roleAssignmentID int64) error {
	s.count("RemoveRoleAssignment")
	if s.RemoveRoleAssignmentFunc == nil {
		return notStubbed("RemoveRoleAssignment")
	}
	return s.RemoveRoleAssignmentFunc(ctx, roleAssignmentID)
}

// StubLocationHandler implements persistence.LocationHandler through func
// fields, mirroring StubUserHandler.
type StubLocationHandler struct {
	callCounter

	LoadFunc                   func(ctx context.Context, locationID int64) (persistence.Location, error)
	LoadLocationsByContentFunc func(ctx context.Context, contentID int64) ([]persistence.Location, error)
	CreateFunc                 func(ctx context.Context, location persistence.Location) (persistence.Location, error)
	MoveFunc                   func(ctx context.Context, locationID, newParentID int64) error
	DeleteFunc                 func(ctx context.Context, locationID int64) error
}

var _ persistence.LocationHandler = (*StubLocationHandler)(nil)

func (s *StubLocationHandler) Load(ctx context.Context, locationID int64) (persistence.Location, error) {
	s.count("Load")
	if s.LoadFunc == nil {
		return persistence.Location{}, notStubbed("Load")
	}
	return s.LoadFunc(ctx, locationID)
}

func (s *StubLocationHandler) LoadLocationsByContent(ctx context.Context, contentID int64) ([]persistence.Location, error) {
	s.count("LoadLocationsByContent")
	if s.LoadLocationsByContentFunc == nil {
		return nil, notStubbed("LoadLocationsByContent")
	}
	return s.LoadLocationsByContentFunc(ctx, contentID)
}

func (s *StubLocationHandler) Create(ctx context.Context, location persistence.Location) (persistence.Location, error) {
	s.count("Create")
	if s.CreateFunc == nil {
		return persistence.Location{}, notStubbed("Create")
	}
	return s.CreateFunc(ctx, location)
}

func (s *StubLocationHandler) Move(ctx context.Context, locationID, newParentID int64) error {
	s.count("Move")
	if s.MoveFunc == nil {
		return notStubbed("Move")
	}
	return s.MoveFunc(ctx, locationID, newParentID)
}

func (s *StubLocationHandler) Delete(ctx context.Context, locationID int64) error {
	s.count("Delete")
	if s.DeleteFunc == nil {
		return notStubbed("Delete")
	}
	return s.DeleteFunc(ctx, locationID)
}
