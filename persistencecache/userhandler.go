package persistencecache

import (
	"context"
	"strconv"

	"github.com/goliatone/go-persistence-cache/cache"
	"github.com/goliatone/go-persistence-cache/persistence"
)

// Key suffix segments for derived lookups. A suffix appended to a canonical
// prefix + lookup argument composes the exact string the matching
// *_with_*_suffix kind generates, so read keys and fill fan-out keys meet.
const (
	byLoginSuffix      = "by_login_suffix"
	byEmailSuffix      = "by_email_suffix"
	byIdentifierSuffix = "by_identifier_suffix"
	byAccountKeySuffix = "by_account_key_suffix"
)

// UserHandler decorates the backend's user/role/policy/assignment storage
// with tag-based caching. Reads go through the cache; writes go to the
// backend first and then invalidate the tags and keys that could hold
// stale data, never fewer and occasionally deliberately more.
type UserHandler struct {
	base
	paths LocationPathConverter

	users       strategy[persistence.User]
	roles       strategy[persistence.Role]
	assignments strategy[persistence.RoleAssignment]
}

// NewUserHandler builds a UserHandler caching in front of backend.
func NewUserHandler(
	store cache.Store,
	backend persistence.Handler,
	ids cache.IdentifierGenerator,
	esc cache.IdentifierSanitizer,
	log cache.ActivityLogger,
) *UserHandler {
	h := &UserHandler{
		base: base{store: store, backend: backend, ids: ids, esc: esc, log: log},
	}

	// A user is also a content item, so user entries always carry the
	// content tag as well; invalidating either reaches them.
	h.users = strategy[persistence.User]{
		tags: func(u persistence.User) ([]string, error) {
			var l idList
			l.add(ids.GenerateTag(cache.KindContent, u.ID))
			l.add(ids.GenerateTag(cache.KindUser, u.ID))
			return l.result()
		},
		keys: func(u persistence.User) ([]string, error) {
			var l idList
			l.add(ids.GenerateKey(cache.KindUser, true, u.ID))
			l.add(ids.GenerateKey(cache.KindUserWithByLoginSuffix, true, esc.EscapeForCacheKey(u.Login)))
			l.add(ids.GenerateKey(cache.KindUserWithByEmailSuffix, true, esc.EscapeForCacheKey(u.Email)))
			return l.result()
		},
	}
	h.roles = strategy[persistence.Role]{
		tags: func(r persistence.Role) ([]string, error) {
			var l idList
			l.add(ids.GenerateTag(cache.KindRole, r.ID))
			return l.result()
		},
		keys: func(r persistence.Role) ([]string, error) {
			var l idList
			l.add(ids.GenerateKey(cache.KindRole, true, r.ID))
			l.add(ids.GenerateKey(cache.KindRoleWithByIDSuffix, true, esc.EscapeForCacheKey(r.Identifier)))
			return l.result()
		},
	}
	h.assignments = strategy[persistence.RoleAssignment]{
		tags: func(ra persistence.RoleAssignment) ([]string, error) {
			var l idList
			l.add(ids.GenerateTag(cache.KindRoleAssignment, ra.ID))
			l.add(ids.GenerateTag(cache.KindRoleAssignmentGroupList, ra.ContentID))
			l.add(ids.GenerateTag(cache.KindRoleAssignmentRoleList, ra.RoleID))
			return l.result()
		},
		keys: func(ra persistence.RoleAssignment) ([]string, error) {
			var l idList
			l.add(ids.GenerateKey(cache.KindRoleAssignment, true, ra.ID))
			return l.result()
		},
	}

	return h
}

var _ persistence.UserHandler = (*UserHandler)(nil)

func (h *UserHandler) inner() persistence.UserHandler {
	return h.backend.UserHandler()
}

// Create writes the user through to the backend, then clears the content
// tag for the new id and proactively deletes the candidate alternate-lookup
// keys. A fresh id should have no cached entry, but external data linked to
// the content id might, and id reuse or a racing fill could have left a
// by-login or by-email entry behind.
func (h *UserHandler) Create(ctx context.Context, user persistence.User) (persistence.User, error) {
	h.log.LogCall("UserHandler.Create", map[string]any{"login": user.Login})

	created, err := h.inner().Create(ctx, user)
	if err != nil {
		return persistence.User{}, err
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindContent, created.ID))
	invalidate, err := tags.result()
	if err != nil {
		return created, err
	}
	if err := h.store.InvalidateTags(ctx, invalidate); err != nil {
		return created, err
	}

	var keys idList
	keys.add(h.ids.GenerateKey(cache.KindUser, true, created.ID))
	keys.add(h.ids.GenerateKey(cache.KindUserWithByLoginSuffix, true, h.esc.EscapeForCacheKey(created.Login)))
	keys.add(h.ids.GenerateKey(cache.KindUserWithByEmailSuffix, true, h.esc.EscapeForCacheKey(created.Email)))
	keys.add(h.ids.GenerateKey(cache.KindUsersWithByEmailSuffix, true, h.esc.EscapeForCacheKey(created.Email)))
	del, err := keys.result()
	if err != nil {
		return created, err
	}
	if err := h.store.DeleteItems(ctx, del); err != nil {
		return created, err
	}
	return created, nil
}

func (h *UserHandler) Load(ctx context.Context, userID int64) (persistence.User, error) {
	prefix, err := h.keyPrefix(cache.KindUser)
	if err != nil {
		return persistence.User{}, err
	}
	return getCacheValue(ctx, h.base, "UserHandler.Load",
		strconv.FormatInt(userID, 10), prefix,
		func(ctx context.Context) (persistence.User, error) {
			return h.inner().Load(ctx, userID)
		},
		h.users, "")
}

func (h *UserHandler) LoadByLogin(ctx context.Context, login string) (persistence.User, error) {
	prefix, err := h.keyPrefix(cache.KindUser)
	if err != nil {
		return persistence.User{}, err
	}
	return getCacheValue(ctx, h.base, "UserHandler.LoadByLogin",
		h.esc.EscapeForCacheKey(login), prefix,
		func(ctx context.Context) (persistence.User, error) {
			return h.inner().LoadByLogin(ctx, login)
		},
		h.users, byLoginSuffix)
}

func (h *UserHandler) LoadByEmail(ctx context.Context, email string) (persistence.User, error) {
	prefix, err := h.keyPrefix(cache.KindUser)
	if err != nil {
		return persistence.User{}, err
	}
	return getCacheValue(ctx, h.base, "UserHandler.LoadByEmail",
		h.esc.EscapeForCacheKey(email), prefix,
		func(ctx context.Context) (persistence.User, error) {
			return h.inner().LoadByEmail(ctx, email)
		},
		h.users, byEmailSuffix)
}

// LoadUsersByEmail caches a list: emails are not guaranteed unique, so the
// result is a slice even though most lookups yield zero or one entries.
// There is no email-list tag; the empty-result entry is cleared through the
// explicit key deletes every user write performs.
func (h *UserHandler) LoadUsersByEmail(ctx context.Context, email string) ([]persistence.User, error) {
	key, err := h.ids.GenerateKey(cache.KindUsersWithByEmailSuffix, true, h.esc.EscapeForCacheKey(email))
	if err != nil {
		return nil, err
	}
	return getListCacheValue(ctx, h.base, "UserHandler.LoadUsersByEmail", key,
		func(ctx context.Context) ([]persistence.User, error) {
			return h.inner().LoadUsersByEmail(ctx, email)
		},
		h.users, nil)
}

// LoadUserByToken resolves a user through an account-key hash. The entry is
// additionally tagged per user id with the account-key tag, so rotating a
// token can invalidate the old hash's entry without knowing the old hash.
func (h *UserHandler) LoadUserByToken(ctx context.Context, hash string) (persistence.User, error) {
	prefix, err := h.keyPrefix(cache.KindUser)
	if err != nil {
		return persistence.User{}, err
	}
	strat := strategy[persistence.User]{
		tags: func(u persistence.User) ([]string, error) {
			tags, err := h.users.tags(u)
			if err != nil {
				return nil, err
			}
			var l idList
			l.ids = tags
			// See UpdateUserToken.
			l.add(h.ids.GenerateTag(cache.KindUserWithAccountKeySuffix, u.ID))
			return l.result()
		},
		keys: func(u persistence.User) ([]string, error) {
			keys, err := h.users.keys(u)
			if err != nil {
				return nil, err
			}
			var l idList
			l.ids = keys
			l.add(h.ids.GenerateKey(cache.KindUserWithByAccountKeySuffix, true, hash))
			return l.result()
		},
	}
	return getCacheValue(ctx, h.base, "UserHandler.LoadUserByToken",
		hash, prefix,
		func(ctx context.Context) (persistence.User, error) {
			return h.inner().LoadUserByToken(ctx, hash)
		},
		strat, byAccountKeySuffix)
}

// Update writes through to the backend and invalidates the content and user
// tags. By-email entries are keyed by the email value, so the entries for
// the pre-update email are not reachable from the new struct; the previous
// record is loaded first and its email keys deleted explicitly.
func (h *UserHandler) Update(ctx context.Context, user persistence.User) (persistence.User, error) {
	h.log.LogCall("UserHandler.Update", map[string]any{"user": user.ID})

	previous, err := h.inner().Load(ctx, user.ID)
	if err != nil {
		return persistence.User{}, err
	}

	updated, err := h.inner().Update(ctx, user)
	if err != nil {
		return persistence.User{}, err
	}

	if err := h.invalidateUserTags(ctx, user.ID); err != nil {
		return updated, err
	}
	if err := h.deleteEmailKeys(ctx, previous.Email); err != nil {
		return updated, err
	}
	return updated, nil
}

// UpdatePassword invalidates like Update; the email cannot change here, so
// the struct's own email addresses the stale by-email entries.
func (h *UserHandler) UpdatePassword(ctx context.Context, user persistence.User) error {
	h.log.LogCall("UserHandler.UpdatePassword", map[string]any{"user-login": user.Login})

	if err := h.inner().UpdatePassword(ctx, user); err != nil {
		return err
	}
	if err := h.invalidateUserTags(ctx, user.ID); err != nil {
		return err
	}
	return h.deleteEmailKeys(ctx, user.Email)
}

// UpdateUserToken rotates a user's account key. The original hash is
// unknown here and hashes are not guaranteed unique, so the old entry is
// reached through the per-user account-key tag, and the new hash's key is
// deleted in case something already sits under it.
func (h *UserHandler) UpdateUserToken(ctx context.Context, token persistence.UserTokenUpdate) error {
	h.log.LogCall("UserHandler.UpdateUserToken", map[string]any{"user": token.UserID})

	if err := h.inner().UpdateUserToken(ctx, token); err != nil {
		return err
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindUserWithAccountKeySuffix, token.UserID))
	invalidate, err := tags.result()
	if err != nil {
		return err
	}
	if err := h.store.InvalidateTags(ctx, invalidate); err != nil {
		return err
	}

	var keys idList
	keys.add(h.ids.GenerateKey(cache.KindUserWithByAccountKeySuffix, true, token.HashKey))
	del, err := keys.result()
	if err != nil {
		return err
	}
	return h.store.DeleteItems(ctx, del)
}

func (h *UserHandler) ExpireUserToken(ctx context.Context, hash string) error {
	h.log.LogCall("UserHandler.ExpireUserToken", map[string]any{"hash": hash})

	if err := h.inner().ExpireUserToken(ctx, hash); err != nil {
		return err
	}

	var keys idList
	keys.add(h.ids.GenerateKey(cache.KindUserWithByAccountKeySuffix, true, hash))
	del, err := keys.result()
	if err != nil {
		return err
	}
	return h.store.DeleteItems(ctx, del)
}

func (h *UserHandler) Delete(ctx context.Context, userID int64) error {
	h.log.LogCall("UserHandler.Delete", map[string]any{"user": userID})

	if err := h.inner().Delete(ctx, userID); err != nil {
		return err
	}
	// user id == content id == group id
	return h.invalidateUserTags(ctx, userID)
}

func (h *UserHandler) CreateRole(ctx context.Context, rc persistence.RoleCreate) (persistence.Role, error) {
	h.log.LogCall("UserHandler.CreateRole", map[string]any{"identifier": rc.Identifier})
	return h.inner().CreateRole(ctx, rc)
}

func (h *UserHandler) CreateRoleDraft(ctx context.Context, roleID int64) (persistence.Role, error) {
	h.log.LogCall("UserHandler.CreateRoleDraft", map[string]any{"role": roleID})
	return h.inner().CreateRoleDraft(ctx, roleID)
}

func (h *UserHandler) CopyRole(ctx context.Context, rc persistence.RoleCopy) (persistence.Role, error) {
	h.log.LogCall("UserHandler.CopyRole", map[string]any{"role": rc.SourceRoleID})
	return h.inner().CopyRole(ctx, rc)
}

// LoadRole caches only defined roles. Drafts are short-lived and rarely
// re-read, so they always hit the backend.
func (h *UserHandler) LoadRole(ctx context.Context, roleID int64, status persistence.Status) (persistence.Role, error) {
	if status != persistence.StatusDefined {
		h.log.LogCall("UserHandler.LoadRole", map[string]any{"role": roleID})
		return h.inner().LoadRole(ctx, roleID, status)
	}

	prefix, err := h.keyPrefix(cache.KindRole)
	if err != nil {
		return persistence.Role{}, err
	}
	return getCacheValue(ctx, h.base, "UserHandler.LoadRole",
		strconv.FormatInt(roleID, 10), prefix,
		func(ctx context.Context) (persistence.Role, error) {
			return h.inner().LoadRole(ctx, roleID, persistence.StatusDefined)
		},
		h.roles, "")
}

func (h *UserHandler) LoadRoleByIdentifier(ctx context.Context, identifier string, status persistence.Status) (persistence.Role, error) {
	if status != persistence.StatusDefined {
		h.log.LogCall("UserHandler.LoadRoleByIdentifier", map[string]any{"role": identifier})
		return h.inner().LoadRoleByIdentifier(ctx, identifier, status)
	}

	prefix, err := h.keyPrefix(cache.KindRole)
	if err != nil {
		return persistence.Role{}, err
	}
	return getCacheValue(ctx, h.base, "UserHandler.LoadRoleByIdentifier",
		h.esc.EscapeForCacheKey(identifier), prefix,
		func(ctx context.Context) (persistence.Role, error) {
			return h.inner().LoadRoleByIdentifier(ctx, identifier, persistence.StatusDefined)
		},
		h.roles, byIdentifierSuffix)
}

func (h *UserHandler) LoadRoleDraftByRoleID(ctx context.Context, roleID int64) (persistence.Role, error) {
	h.log.LogCall("UserHandler.LoadRoleDraftByRoleID", map[string]any{"role": roleID})
	return h.inner().LoadRoleDraftByRoleID(ctx, roleID)
}

func (h *UserHandler) LoadRoles(ctx context.Context) ([]persistence.Role, error) {
	h.log.LogCall("UserHandler.LoadRoles", nil)
	return h.inner().LoadRoles(ctx)
}

func (h *UserHandler) UpdateRole(ctx context.Context, ru persistence.RoleUpdate) error {
	h.log.LogCall("UserHandler.UpdateRole", map[string]any{"role": ru.ID})

	if err := h.inner().UpdateRole(ctx, ru); err != nil {
		return err
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindRole, ru.ID))
	invalidate, err := tags.result()
	if err != nil {
		return err
	}
	return h.store.InvalidateTags(ctx, invalidate)
}

func (h *UserHandler) DeleteRole(ctx context.Context, roleID int64, status persistence.Status) error {
	h.log.LogCall("UserHandler.DeleteRole", map[string]any{"role": roleID})

	if err := h.inner().DeleteRole(ctx, roleID, status); err != nil {
		return err
	}
	if status != persistence.StatusDefined {
		return nil
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindRole, roleID))
	tags.add(h.ids.GenerateTag(cache.KindRoleAssignmentRoleList, roleID))
	invalidate, err := tags.result()
	if err != nil {
		return err
	}
	return h.store.InvalidateTags(ctx, invalidate)
}

// PublishRoleDraft publishes a draft. When the draft was derived from an
// existing role, the published result replaces that role, so the original's
// tag is invalidated; a from-scratch draft has nothing cached to clear.
func (h *UserHandler) PublishRoleDraft(ctx context.Context, roleDraftID int64) error {
	h.log.LogCall("UserHandler.PublishRoleDraft", map[string]any{"role": roleDraftID})

	draft, err := h.inner().LoadRole(ctx, roleDraftID, persistence.StatusDraft)
	if err != nil {
		return err
	}
	if err := h.inner().PublishRoleDraft(ctx, roleDraftID); err != nil {
		return err
	}
	if draft.OriginalID <= persistence.NoOriginalRole {
		return nil
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindRole, draft.OriginalID))
	invalidate, err := tags.result()
	if err != nil {
		return err
	}
	return h.store.InvalidateTags(ctx, invalidate)
}

// AddPolicy invalidates the owning role: policies have no cache entries of
// their own, they are always loaded as part of their role.
func (h *UserHandler) AddPolicy(ctx context.Context, roleID int64, policy persistence.Policy) (persistence.Policy, error) {
	h.log.LogCall("UserHandler.AddPolicy", map[string]any{"role": roleID})

	created, err := h.inner().AddPolicy(ctx, roleID, policy)
	if err != nil {
		return persistence.Policy{}, err
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindRole, roleID))
	invalidate, err := tags.result()
	if err != nil {
		return created, err
	}
	return created, h.store.InvalidateTags(ctx, invalidate)
}

func (h *UserHandler) AddPolicyByRoleDraft(ctx context.Context, roleID int64, policy persistence.Policy) (persistence.Policy, error) {
	h.log.LogCall("UserHandler.AddPolicyByRoleDraft", map[string]any{"role": roleID})
	return h.inner().AddPolicyByRoleDraft(ctx, roleID, policy)
}

func (h *UserHandler) UpdatePolicy(ctx context.Context, policy persistence.Policy) (persistence.Policy, error) {
	h.log.LogCall("UserHandler.UpdatePolicy", map[string]any{"policy": policy.ID})

	updated, err := h.inner().UpdatePolicy(ctx, policy)
	if err != nil {
		return persistence.Policy{}, err
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindPolicy, policy.ID))
	tags.add(h.ids.GenerateTag(cache.KindRole, policy.RoleID))
	invalidate, err := tags.result()
	if err != nil {
		return updated, err
	}
	return updated, h.store.InvalidateTags(ctx, invalidate)
}

func (h *UserHandler) DeletePolicy(ctx context.Context, policyID, roleID int64) error {
	h.log.LogCall("UserHandler.DeletePolicy", map[string]any{"policy": policyID})

	if err := h.inner().DeletePolicy(ctx, policyID, roleID); err != nil {
		return err
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindPolicy, policyID))
	tags.add(h.ids.GenerateTag(cache.KindRole, roleID))
	invalidate, err := tags.result()
	if err != nil {
		return err
	}
	return h.store.InvalidateTags(ctx, invalidate)
}

func (h *UserHandler) LoadPoliciesByUserID(ctx context.Context, userID int64) ([]persistence.Policy, error) {
	h.log.LogCall("UserHandler.LoadPoliciesByUserID", map[string]any{"user": userID})
	return h.inner().LoadPoliciesByUserID(ctx, userID)
}

func (h *UserHandler) LoadRoleAssignment(ctx context.Context, roleAssignmentID int64) (persistence.RoleAssignment, error) {
	prefix, err := h.keyPrefix(cache.KindRoleAssignment)
	if err != nil {
		return persistence.RoleAssignment{}, err
	}
	return getCacheValue(ctx, h.base, "UserHandler.LoadRoleAssignment",
		strconv.FormatInt(roleAssignmentID, 10), prefix,
		func(ctx context.Context) (persistence.RoleAssignment, error) {
			return h.inner().LoadRoleAssignment(ctx, roleAssignmentID)
		},
		h.assignments, "")
}

func (h *UserHandler) LoadRoleAssignmentsByRoleID(ctx context.Context, roleID int64) ([]persistence.RoleAssignment, error) {
	key, err := h.ids.GenerateKey(cache.KindRoleAssignmentWithByRoleSuffix, true, roleID)
	if err != nil {
		return nil, err
	}
	return getListCacheValue(ctx, h.base, "UserHandler.LoadRoleAssignmentsByRoleID", key,
		func(ctx context.Context) ([]persistence.RoleAssignment, error) {
			return h.inner().LoadRoleAssignmentsByRoleID(ctx, roleID)
		},
		h.assignments,
		// Role updates change assignment ids; the list tag also covers the
		// empty result.
		func(context.Context) ([]string, error) {
			var l idList
			l.add(h.ids.GenerateTag(cache.KindRoleAssignmentRoleList, roleID))
			l.add(h.ids.GenerateTag(cache.KindRole, roleID))
			return l.result()
		})
}

// LoadRoleAssignmentsByGroupID caches the inherited and non-inherited
// variants under distinct keys. Both carry the group-list tag even when
// empty; on top of that every entry is tagged per ancestor path segment of
// every location of the group, so tree operations that change what falls
// under the group can clear these entries without touching any assignment.
func (h *UserHandler) LoadRoleAssignmentsByGroupID(ctx context.Context, groupID int64, inherit bool) ([]persistence.RoleAssignment, error) {
	kind := cache.KindRoleAssignmentWithByGroupSuffix
	if inherit {
		kind = cache.KindRoleAssignmentWithByGroupInheritedSuffix
	}
	key, err := h.ids.GenerateKey(kind, true, groupID)
	if err != nil {
		return nil, err
	}

	return getListCacheValue(ctx, h.base, "UserHandler.LoadRoleAssignmentsByGroupID", key,
		func(ctx context.Context) ([]persistence.RoleAssignment, error) {
			return h.inner().LoadRoleAssignmentsByGroupID(ctx, groupID, inherit)
		},
		h.assignments,
		func(ctx context.Context) ([]string, error) {
			var l idList
			l.add(h.ids.GenerateTag(cache.KindRoleAssignmentGroupList, groupID))
			tags, err := l.result()
			if err != nil {
				return nil, err
			}
			pathTags, err := h.locationPathTags(ctx, groupID)
			if err != nil {
				return nil, err
			}
			return append(tags, pathTags...), nil
		})
}

// AssignRole invalidates both list tags and, for every location of the
// content, a location_path tag per ancestor segment: location-scoped
// permission caches key off path segments, and this assignment changes what
// they would resolve to.
func (h *UserHandler) AssignRole(ctx context.Context, contentID, roleID int64, limitation *persistence.RoleLimitation) error {
	h.log.LogCall("UserHandler.AssignRole", map[string]any{"group": contentID, "role": roleID})

	if err := h.inner().AssignRole(ctx, contentID, roleID, limitation); err != nil {
		return err
	}

	var l idList
	l.add(h.ids.GenerateTag(cache.KindRoleAssignmentGroupList, contentID))
	l.add(h.ids.GenerateTag(cache.KindRoleAssignmentRoleList, roleID))
	tags, err := l.result()
	if err != nil {
		return err
	}
	pathTags, err := h.locationPathTags(ctx, contentID)
	if err != nil {
		return err
	}
	return h.store.InvalidateTags(ctx, dedupeStrings(append(tags, pathTags...)))
}

func (h *UserHandler) UnassignRole(ctx context.Context, contentID, roleID int64) error {
	h.log.LogCall("UserHandler.UnassignRole", map[string]any{"group": contentID, "role": roleID})

	if err := h.inner().UnassignRole(ctx, contentID, roleID); err != nil {
		return err
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindRoleAssignmentGroupList, contentID))
	tags.add(h.ids.GenerateTag(cache.KindRoleAssignmentRoleList, roleID))
	invalidate, err := tags.result()
	if err != nil {
		return err
	}
	return h.store.InvalidateTags(ctx, invalidate)
}

func (h *UserHandler) RemoveRoleAssignment(ctx context.Context, roleAssignmentID int64) error {
	h.log.LogCall("UserHandler.RemoveRoleAssignment", map[string]any{"assignment": roleAssignmentID})

	if err := h.inner().RemoveRoleAssignment(ctx, roleAssignmentID); err != nil {
		return err
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindRoleAssignment, roleAssignmentID))
	invalidate, err := tags.result()
	if err != nil {
		return err
	}
	return h.store.InvalidateTags(ctx, invalidate)
}

func (h *UserHandler) invalidateUserTags(ctx context.Context, userID int64) error {
	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindContent, userID))
	tags.add(h.ids.GenerateTag(cache.KindUser, userID))
	invalidate, err := tags.result()
	if err != nil {
		return err
	}
	return h.store.InvalidateTags(ctx, invalidate)
}

func (h *UserHandler) deleteEmailKeys(ctx context.Context, email string) error {
	escaped := h.esc.EscapeForCacheKey(email)
	var keys idList
	keys.add(h.ids.GenerateKey(cache.KindUserWithByEmailSuffix, true, escaped))
	keys.add(h.ids.GenerateKey(cache.KindUsersWithByEmailSuffix, true, escaped))
	del, err := keys.result()
	if err != nil {
		return err
	}
	return h.store.DeleteItems(ctx, del)
}

// locationPathTags derives a location_path tag for every ancestor segment
// of every location of the given content.
func (h *UserHandler) locationPathTags(ctx context.Context, contentID int64) ([]string, error) {
	locations, err := h.backend.LocationHandler().LoadLocationsByContent(ctx, contentID)
	if err != nil {
		return nil, err
	}

	var l idList
	for _, location := range locations {
		pathIDs, err := h.paths.ToPathIDs(location.PathString)
		if err != nil {
			return nil, err
		}
		for _, pathID := range pathIDs {
			l.add(h.ids.GenerateTag(cache.KindLocationPath, pathID))
		}
	}
	return l.result()
}
