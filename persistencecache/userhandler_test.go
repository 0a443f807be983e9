package persistencecache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-persistence-cache/cache"
	"github.com/goliatone/go-persistence-cache/persistence"
	"github.com/goliatone/go-persistence-cache/pkg/testsupport"
)

type userHandlerFixture struct {
	handler *UserHandler
	store   *testsupport.FakeStore
	backend *testsupport.StubHandler
	log     *testsupport.SpyLogger
}

func newUserHandlerFixture(t *testing.T) *userHandlerFixture {
	t.Helper()

	store := testsupport.NewFakeStore()
	backend := testsupport.NewStubHandler()
	log := testsupport.NewSpyLogger()
	handler := NewUserHandler(store, backend,
		cache.NewIdentifierGenerator("pc"),
		cache.NewIdentifierSanitizer(),
		log)

	return &userHandlerFixture{handler: handler, store: store, backend: backend, log: log}
}

func (f *userHandlerFixture) stubUser(u persistence.User) {
	f.backend.Users.LoadFunc = func(_ context.Context, id int64) (persistence.User, error) {
		if id != u.ID {
			return persistence.User{}, persistence.NewNotFound("user", id)
		}
		return u, nil
	}
	f.backend.Users.LoadByLoginFunc = func(_ context.Context, login string) (persistence.User, error) {
		if login != u.Login {
			return persistence.User{}, persistence.NewNotFound("user", login)
		}
		return u, nil
	}
	f.backend.Users.LoadByEmailFunc = func(_ context.Context, email string) (persistence.User, error) {
		if email != u.Email {
			return persistence.User{}, persistence.NewNotFound("user", email)
		}
		return u, nil
	}
}

func TestUserHandler_Load_MissFillsAlternateKeys(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	user := persistence.User{ID: 14, Login: "alice", Email: "alice@example.com"}
	f.stubUser(user)

	got, err := f.handler.Load(ctx, 14)
	require.NoError(t, err)
	require.Equal(t, user, got)
	require.Equal(t, 1, f.backend.Users.CallCount("Load"))
	require.Equal(t, 1, f.log.Misses["UserHandler.Load"])

	// One fill saves the primary key and both lookup views.
	require.ElementsMatch(t, []string{
		"pc-user-14",
		"pc-user-alice-by_login_suffix",
		"pc-user-alice_40example_2ecom-by_email_suffix",
	}, f.store.SavedKeys)

	// Every saved entry carries the full user tag set.
	for _, key := range f.store.SavedKeys {
		item := f.store.Item(key)
		require.NotNil(t, item)
		require.ElementsMatch(t, []string{"pc-content-14", "pc-user-14"}, item.Tags)
	}
}

func TestUserHandler_Load_SecondReadIsHit(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.stubUser(testsupport.NewUser(14))

	_, err := f.handler.Load(ctx, 14)
	require.NoError(t, err)
	_, err = f.handler.Load(ctx, 14)
	require.NoError(t, err)

	require.Equal(t, 1, f.backend.Users.CallCount("Load"))
	require.Equal(t, 1, f.log.Hits["UserHandler.Load"])
}

func TestUserHandler_LoadByLogin_ServedByIdFill(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.stubUser(persistence.User{ID: 14, Login: "alice", Email: "alice@example.com"})

	_, err := f.handler.Load(ctx, 14)
	require.NoError(t, err)

	got, err := f.handler.LoadByLogin(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(14), got.ID)
	require.Zero(t, f.backend.Users.CallCount("LoadByLogin"))
}

func TestUserHandler_LoadByLogin_FillServesLoadById(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	user := testsupport.NewUser(14)
	f.stubUser(user)

	_, err := f.handler.LoadByLogin(ctx, user.Login)
	require.NoError(t, err)

	_, err = f.handler.Load(ctx, 14)
	require.NoError(t, err)
	require.Zero(t, f.backend.Users.CallCount("Load"))
}

func TestUserHandler_Load_NotFoundIsNeverCached(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadFunc = func(context.Context, int64) (persistence.User, error) {
		return persistence.User{}, persistence.NewNotFound("user", 99)
	}

	_, err := f.handler.Load(ctx, 99)
	require.True(t, persistence.IsNotFound(err))
	_, err = f.handler.Load(ctx, 99)
	require.True(t, persistence.IsNotFound(err))

	// Both reads reached the backend; nothing negative was stored.
	require.Equal(t, 2, f.backend.Users.CallCount("Load"))
	require.Zero(t, f.store.Len())
}

func TestUserHandler_Delete_InvalidatesEveryView(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.stubUser(persistence.User{ID: 14, Login: "alice", Email: "alice@example.com"})
	f.backend.Users.DeleteFunc = func(context.Context, int64) error { return nil }

	_, err := f.handler.Load(ctx, 14)
	require.NoError(t, err)
	_, err = f.handler.LoadByLogin(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, f.handler.Delete(ctx, 14))
	require.Contains(t, f.store.InvalidatedTags, "pc-user-14")
	require.Contains(t, f.store.InvalidatedTags, "pc-content-14")

	require.False(t, f.store.Has("pc-user-14"))
	require.False(t, f.store.Has("pc-user-alice-by_login_suffix"))

	// The next read goes back to the backend.
	_, err = f.handler.Load(ctx, 14)
	require.NoError(t, err)
	require.Equal(t, 2, f.backend.Users.CallCount("Load"))
}

func TestUserHandler_Update_DeletesPreviousEmailKeys(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	before := persistence.User{ID: 14, Login: "alice", Email: "old@example.com"}
	f.stubUser(before)
	f.backend.Users.UpdateFunc = func(_ context.Context, u persistence.User) (persistence.User, error) {
		return u, nil
	}

	// Fill the by-email view for the old address.
	_, err := f.handler.LoadByEmail(ctx, "old@example.com")
	require.NoError(t, err)
	oldKey := "pc-user-old_40example_2ecom-by_email_suffix"
	require.True(t, f.store.Has(oldKey))

	after := before
	after.Email = "new@example.com"
	_, err = f.handler.Update(ctx, after)
	require.NoError(t, err)

	// The old address's entries are unreachable from the updated struct, so
	// they must have been deleted by key.
	require.False(t, f.store.Has(oldKey))
	require.Contains(t, f.store.DeletedKeys, oldKey)
	require.Contains(t, f.store.DeletedKeys, "pc-users-old_40example_2ecom-by_email_suffix")
}

func TestUserHandler_Create_PassesThroughAndClearsCandidates(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.CreateFunc = func(_ context.Context, u persistence.User) (persistence.User, error) {
		u.ID = 21
		return u, nil
	}

	created, err := f.handler.Create(ctx, persistence.User{Login: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	require.Equal(t, int64(21), created.ID)
	require.Equal(t, 1, f.log.Calls["UserHandler.Create"])
	require.Contains(t, f.store.InvalidatedTags, "pc-content-21")
	require.Contains(t, f.store.DeletedKeys, "pc-user-bob-by_login_suffix")
	require.Contains(t, f.store.DeletedKeys, "pc-users-bob_40example_2ecom-by_email_suffix")
}

func TestUserHandler_LoadUsersByEmail_CachesList(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	users := []persistence.User{{ID: 1, Email: "shared@example.com"}, {ID: 2, Email: "shared@example.com"}}
	f.backend.Users.LoadUsersByEmailFunc = func(context.Context, string) ([]persistence.User, error) {
		return users, nil
	}

	got, err := f.handler.LoadUsersByEmail(ctx, "shared@example.com")
	require.NoError(t, err)
	require.Equal(t, users, got)

	_, err = f.handler.LoadUsersByEmail(ctx, "shared@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, f.backend.Users.CallCount("LoadUsersByEmail"))

	// The list entry carries every member's tags, so invalidating one member
	// clears it.
	item := f.store.Item("pc-users-shared_40example_2ecom-by_email_suffix")
	require.NotNil(t, item)
	require.Contains(t, item.Tags, "pc-user-1")
	require.Contains(t, item.Tags, "pc-user-2")
}

func TestUserHandler_LoadUserByToken_TaggedForRotation(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	user := persistence.User{ID: 14, Login: "alice", Email: "alice@example.com"}
	f.backend.Users.LoadUserByTokenFunc = func(context.Context, string) (persistence.User, error) {
		return user, nil
	}
	f.backend.Users.UpdateUserTokenFunc = func(context.Context, persistence.UserTokenUpdate) error {
		return nil
	}

	_, err := f.handler.LoadUserByToken(ctx, "cafe1234")
	require.NoError(t, err)
	tokenKey := "pc-user-cafe1234-by_account_key_suffix"
	item := f.store.Item(tokenKey)
	require.NotNil(t, item)
	require.Contains(t, item.Tags, "pc-user-14-account_key_suffix")

	// Rotating the token reaches the old entry through the per-user tag even
	// though the old hash is unknown at that point.
	err = f.handler.UpdateUserToken(ctx, persistence.UserTokenUpdate{UserID: 14, HashKey: "feed5678"})
	require.NoError(t, err)
	require.False(t, f.store.Has(tokenKey))
}

func TestUserHandler_ExpireUserToken_DeletesHashKey(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadUserByTokenFunc = func(context.Context, string) (persistence.User, error) {
		return persistence.User{ID: 14}, nil
	}
	f.backend.Users.ExpireUserTokenFunc = func(context.Context, string) error { return nil }

	_, err := f.handler.LoadUserByToken(ctx, "cafe1234")
	require.NoError(t, err)
	require.NoError(t, f.handler.ExpireUserToken(ctx, "cafe1234"))
	require.False(t, f.store.Has("pc-user-cafe1234-by_account_key_suffix"))
}

func TestUserHandler_LoadRole_CachesDefinedOnly(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadRoleFunc = func(_ context.Context, id int64, status persistence.Status) (persistence.Role, error) {
		return persistence.Role{ID: id, Identifier: "editor", Status: status}, nil
	}

	_, err := f.handler.LoadRole(ctx, 3, persistence.StatusDefined)
	require.NoError(t, err)
	_, err = f.handler.LoadRole(ctx, 3, persistence.StatusDefined)
	require.NoError(t, err)
	require.Equal(t, 1, f.backend.Users.CallCount("LoadRole"))

	// The fill also covers the by-identifier view.
	require.True(t, f.store.Has("pc-role-editor-by_identifier_suffix"))
}

func TestUserHandler_LoadRole_DraftBypassesCache(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadRoleFunc = func(_ context.Context, id int64, status persistence.Status) (persistence.Role, error) {
		return persistence.Role{ID: id, Status: status}, nil
	}

	_, err := f.handler.LoadRole(ctx, 3, persistence.StatusDraft)
	require.NoError(t, err)
	_, err = f.handler.LoadRole(ctx, 3, persistence.StatusDraft)
	require.NoError(t, err)

	require.Equal(t, 2, f.backend.Users.CallCount("LoadRole"))
	require.Equal(t, 2, f.log.Calls["UserHandler.LoadRole"])
	require.Zero(t, f.store.Len())
}

func TestUserHandler_LoadRoleByIdentifier_DraftBypassesCache(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadRoleByIdentifierFunc = func(_ context.Context, id string, status persistence.Status) (persistence.Role, error) {
		return persistence.Role{ID: 3, Identifier: id, Status: status}, nil
	}

	_, err := f.handler.LoadRoleByIdentifier(ctx, "editor", persistence.StatusDraft)
	require.NoError(t, err)
	require.Zero(t, f.store.Len())
	require.Equal(t, 1, f.backend.Users.CallCount("LoadRoleByIdentifier"))
}

func TestUserHandler_UpdateRole_InvalidatesRoleTag(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadRoleFunc = func(_ context.Context, id int64, status persistence.Status) (persistence.Role, error) {
		return persistence.Role{ID: id, Identifier: "editor", Status: status}, nil
	}
	f.backend.Users.UpdateRoleFunc = func(context.Context, persistence.RoleUpdate) error { return nil }

	_, err := f.handler.LoadRole(ctx, 3, persistence.StatusDefined)
	require.NoError(t, err)

	require.NoError(t, f.handler.UpdateRole(ctx, persistence.RoleUpdate{ID: 3, Identifier: "writer"}))
	require.False(t, f.store.Has("pc-role-3"))
	require.False(t, f.store.Has("pc-role-editor-by_identifier_suffix"))
}

func TestUserHandler_PublishRoleDraft_InvalidatesOriginal(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadRoleFunc = func(_ context.Context, id int64, status persistence.Status) (persistence.Role, error) {
		if status == persistence.StatusDraft {
			return persistence.Role{ID: id, OriginalID: 5, Status: status}, nil
		}
		return persistence.Role{ID: id, Status: status}, nil
	}
	f.backend.Users.PublishRoleDraftFunc = func(context.Context, int64) error { return nil }

	require.NoError(t, f.handler.PublishRoleDraft(ctx, 9))
	require.Contains(t, f.store.InvalidatedTags, "pc-role-5")
}

func TestUserHandler_PublishRoleDraft_FromScratchInvalidatesNothing(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadRoleFunc = func(_ context.Context, id int64, status persistence.Status) (persistence.Role, error) {
		return persistence.Role{ID: id, OriginalID: persistence.NoOriginalRole, Status: status}, nil
	}
	f.backend.Users.PublishRoleDraftFunc = func(context.Context, int64) error { return nil }

	require.NoError(t, f.handler.PublishRoleDraft(ctx, 9))
	require.Empty(t, f.store.InvalidatedTags)
}

func TestUserHandler_AddPolicy_InvalidatesOwningRole(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.AddPolicyFunc = func(_ context.Context, roleID int64, p persistence.Policy) (persistence.Policy, error) {
		p.ID = 42
		p.RoleID = roleID
		return p, nil
	}

	created, err := f.handler.AddPolicy(ctx, 3, persistence.Policy{Module: "content", Function: "read"})
	require.NoError(t, err)
	require.Equal(t, int64(42), created.ID)
	require.Contains(t, f.store.InvalidatedTags, "pc-role-3")
}

func TestUserHandler_LoadRoleAssignmentsByGroupID_EmptyListStillTagged(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadRoleAssignmentsByGroupIDFunc = func(context.Context, int64, bool) ([]persistence.RoleAssignment, error) {
		return nil, nil
	}
	f.backend.Users.AssignRoleFunc = func(context.Context, int64, int64, *persistence.RoleLimitation) error {
		return nil
	}
	f.backend.Locations.LoadLocationsByContentFunc = func(context.Context, int64) ([]persistence.Location, error) {
		return nil, nil
	}

	got, err := f.handler.LoadRoleAssignmentsByGroupID(ctx, 12, false)
	require.NoError(t, err)
	require.Empty(t, got)

	// The empty result is cached under the group-list tag.
	item := f.store.Item("pc-role_assignment-12-by_group_suffix")
	require.NotNil(t, item)
	require.Contains(t, item.Tags, "pc-role_assignment_group_list-12")

	// The first assignment makes the empty list observable as stale.
	require.NoError(t, f.handler.AssignRole(ctx, 12, 3, nil))
	require.False(t, f.store.Has("pc-role_assignment-12-by_group_suffix"))

	_, err = f.handler.LoadRoleAssignmentsByGroupID(ctx, 12, false)
	require.NoError(t, err)
	require.Equal(t, 2, f.backend.Users.CallCount("LoadRoleAssignmentsByGroupID"))
}

func TestUserHandler_LoadRoleAssignmentsByGroupID_VariantsCachedSeparately(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadRoleAssignmentsByGroupIDFunc = func(_ context.Context, _ int64, inherit bool) ([]persistence.RoleAssignment, error) {
		if inherit {
			return []persistence.RoleAssignment{
				testsupport.NewRoleAssignment(1, 3, 12),
				testsupport.NewRoleAssignment(2, 4, 2),
			}, nil
		}
		return []persistence.RoleAssignment{testsupport.NewRoleAssignment(1, 3, 12)}, nil
	}
	f.backend.Locations.LoadLocationsByContentFunc = func(context.Context, int64) ([]persistence.Location, error) {
		return nil, nil
	}

	plain, err := f.handler.LoadRoleAssignmentsByGroupID(ctx, 12, false)
	require.NoError(t, err)
	require.Len(t, plain, 1)

	inherited, err := f.handler.LoadRoleAssignmentsByGroupID(ctx, 12, true)
	require.NoError(t, err)
	require.Len(t, inherited, 2)

	require.Equal(t, 2, f.backend.Users.CallCount("LoadRoleAssignmentsByGroupID"))
	require.True(t, f.store.Has("pc-role_assignment-12-by_group_suffix"))
	require.True(t, f.store.Has("pc-role_assignment-12-by_group_inherited_suffix"))
}

func TestUserHandler_AssignRole_InvalidatesAncestorPathTags(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.AssignRoleFunc = func(context.Context, int64, int64, *persistence.RoleLimitation) error {
		return nil
	}
	f.backend.Locations.LoadLocationsByContentFunc = func(_ context.Context, contentID int64) ([]persistence.Location, error) {
		return []persistence.Location{{ID: 7, ContentID: contentID, PathString: "/1/2/7/"}}, nil
	}

	require.NoError(t, f.handler.AssignRole(ctx, 12, 3, nil))

	require.Contains(t, f.store.InvalidatedTags, "pc-role_assignment_group_list-12")
	require.Contains(t, f.store.InvalidatedTags, "pc-role_assignment_role_list-3")
	for _, tag := range []string{"pc-location_path-1", "pc-location_path-2", "pc-location_path-7"} {
		require.Contains(t, f.store.InvalidatedTags, tag)
	}
}

func TestUserHandler_LoadRoleAssignmentsByRoleID_ClearedByRoleDelete(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadRoleAssignmentsByRoleIDFunc = func(context.Context, int64) ([]persistence.RoleAssignment, error) {
		return []persistence.RoleAssignment{testsupport.NewRoleAssignment(1, 3, 12)}, nil
	}
	f.backend.Users.DeleteRoleFunc = func(context.Context, int64, persistence.Status) error { return nil }

	_, err := f.handler.LoadRoleAssignmentsByRoleID(ctx, 3)
	require.NoError(t, err)
	require.True(t, f.store.Has("pc-role_assignment-3-by_role_suffix"))

	require.NoError(t, f.handler.DeleteRole(ctx, 3, persistence.StatusDefined))
	require.False(t, f.store.Has("pc-role_assignment-3-by_role_suffix"))
}

func TestUserHandler_DeleteRole_DraftSkipsInvalidation(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.DeleteRoleFunc = func(context.Context, int64, persistence.Status) error { return nil }

	require.NoError(t, f.handler.DeleteRole(ctx, 3, persistence.StatusDraft))
	require.Empty(t, f.store.InvalidatedTags)
}

func TestUserHandler_UncachedMethodsPassThrough(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	u := f.backend.Users
	u.CreateRoleFunc = func(_ context.Context, rc persistence.RoleCreate) (persistence.Role, error) {
		return persistence.Role{ID: 1, Identifier: rc.Identifier, Status: rc.Status}, nil
	}
	u.CreateRoleDraftFunc = func(_ context.Context, roleID int64) (persistence.Role, error) {
		return persistence.Role{ID: 9, OriginalID: roleID, Status: persistence.StatusDraft}, nil
	}
	u.CopyRoleFunc = func(_ context.Context, rc persistence.RoleCopy) (persistence.Role, error) {
		return persistence.Role{ID: 2, Identifier: rc.NewIdentifier}, nil
	}
	u.LoadRoleDraftByRoleIDFunc = func(context.Context, int64) (persistence.Role, error) {
		return persistence.Role{ID: 9, Status: persistence.StatusDraft}, nil
	}
	u.LoadRolesFunc = func(context.Context) ([]persistence.Role, error) {
		return []persistence.Role{testsupport.NewRole(1)}, nil
	}
	u.AddPolicyByRoleDraftFunc = func(_ context.Context, roleID int64, p persistence.Policy) (persistence.Policy, error) {
		p.RoleID = roleID
		return p, nil
	}
	u.LoadPoliciesByUserIDFunc = func(context.Context, int64) ([]persistence.Policy, error) {
		return []persistence.Policy{{ID: 1}}, nil
	}

	_, err := f.handler.CreateRole(ctx, persistence.RoleCreate{Identifier: "editor"})
	require.NoError(t, err)
	_, err = f.handler.CreateRoleDraft(ctx, 1)
	require.NoError(t, err)
	_, err = f.handler.CopyRole(ctx, persistence.RoleCopy{SourceRoleID: 1, NewIdentifier: "editor2"})
	require.NoError(t, err)
	_, err = f.handler.LoadRoleDraftByRoleID(ctx, 1)
	require.NoError(t, err)
	_, err = f.handler.LoadRoles(ctx)
	require.NoError(t, err)
	_, err = f.handler.AddPolicyByRoleDraft(ctx, 9, persistence.Policy{})
	require.NoError(t, err)
	_, err = f.handler.LoadPoliciesByUserID(ctx, 14)
	require.NoError(t, err)

	// None of these touch the cache; all of them log a pass-through call.
	require.Zero(t, f.store.Len())
	require.Empty(t, f.store.InvalidatedTags)
	require.Equal(t, 7, f.log.TotalCalls())
}

func TestUserHandler_ExtraContextTags(t *testing.T) {
	f := newUserHandlerFixture(t)
	f.stubUser(persistence.User{ID: 14, Login: "alice", Email: "alice@example.com"})

	ctx := WithExtraTags(context.Background(), "render-pass-7")
	_, err := f.handler.Load(ctx, 14)
	require.NoError(t, err)

	item := f.store.Item("pc-user-14")
	require.NotNil(t, item)
	require.Contains(t, item.Tags, "render-pass-7")

	require.NoError(t, f.store.InvalidateTags(context.Background(), []string{"render-pass-7"}))
	require.False(t, f.store.Has("pc-user-14"))
}

func TestUserHandler_RemoveRoleAssignment_InvalidatesAssignmentTag(t *testing.T) {
	f := newUserHandlerFixture(t)
	ctx := context.Background()
	f.backend.Users.LoadRoleAssignmentFunc = func(_ context.Context, id int64) (persistence.RoleAssignment, error) {
		return testsupport.NewRoleAssignment(id, 3, 12), nil
	}
	f.backend.Users.RemoveRoleAssignmentFunc = func(context.Context, int64) error { return nil }

	_, err := f.handler.LoadRoleAssignment(ctx, 8)
	require.NoError(t, err)
	require.True(t, f.store.Has("pc-role_assignment-8"))

	require.NoError(t, f.handler.RemoveRoleAssignment(ctx, 8))
	require.False(t, f.store.Has("pc-role_assignment-8"))
}
