package legacy

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-persistence-cache/persistence"
)

type userHandler struct {
	h *Handler
}

var _ persistence.UserHandler = (*userHandler)(nil)

func (uh *userHandler) db() *bun.DB { return uh.h.db }

func toUser(r userRow) persistence.User {
	return persistence.User{
		ID:                r.ID,
		Login:             r.Login,
		Email:             r.Email,
		PasswordHash:      r.PasswordHash,
		HashAlgorithm:     r.HashAlgorithm,
		PasswordUpdatedAt: r.PasswordUpdatedAt,
		Enabled:           r.Enabled,
	}
}

func fromUser(u persistence.User) userRow {
	return userRow{
		ID:                u.ID,
		Login:             u.Login,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		HashAlgorithm:     u.HashAlgorithm,
		PasswordUpdatedAt: u.PasswordUpdatedAt,
		Enabled:           u.Enabled,
	}
}

func (uh *userHandler) Create(ctx context.Context, user persistence.User) (persistence.User, error) {
	row := fromUser(user)
	res, err := uh.db().NewInsert().Model(&row).Exec(ctx)
	if err != nil {
		return persistence.User{}, err
	}
	if row.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return persistence.User{}, err
		}
		row.ID = id
	}
	return toUser(row), nil
}

func (uh *userHandler) Load(ctx context.Context, userID int64) (persistence.User, error) {
	var row userRow
	err := uh.db().NewSelect().Model(&row).Where("u.id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.User{}, persistence.NewNotFound("user", userID)
	}
	if err != nil {
		return persistence.User{}, err
	}
	return toUser(row), nil
}

func (uh *userHandler) LoadByLogin(ctx context.Context, login string) (persistence.User, error) {
	var row userRow
	// Logins are matched case-insensitively, as the legacy schema always did.
	err := uh.db().NewSelect().Model(&row).Where("u.login = ? COLLATE NOCASE", login).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.User{}, persistence.NewNotFound("user", login)
	}
	if err != nil {
		return persistence.User{}, err
	}
	return toUser(row), nil
}

func (uh *userHandler) LoadByEmail(ctx context.Context, email string) (persistence.User, error) {
	var row userRow
	err := uh.db().NewSelect().Model(&row).
		Where("u.email = ? COLLATE NOCASE", email).
		Order("u.id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.User{}, persistence.NewNotFound("user", email)
	}
	if err != nil {
		return persistence.User{}, err
	}
	return toUser(row), nil
}

func (uh *userHandler) LoadUsersByEmail(ctx context.Context, email string) ([]persistence.User, error) {
	var rows []userRow
	err := uh.db().NewSelect().Model(&rows).
		Where("u.email = ? COLLATE NOCASE", email).
		Order("u.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]persistence.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, toUser(row))
	}
	return users, nil
}

func (uh *userHandler) LoadUserByToken(ctx context.Context, hash string) (persistence.User, error) {
	var row userRow
	err := uh.db().NewSelect().Model(&row).
		Join("JOIN user_tokens AS ut ON ut.user_id = u.id").
		Where("ut.hash_key = ?", hash).
		Where("ut.expires_at > ?", uh.h.now().Unix()).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.User{}, persistence.NewNotFound("user token", hash)
	}
	if err != nil {
		return persistence.User{}, err
	}
	return toUser(row), nil
}

func (uh *userHandler) Update(ctx context.Context, user persistence.User) (persistence.User, error) {
	row := fromUser(user)
	res, err := uh.db().NewUpdate().Model(&row).WherePK().Exec(ctx)
	if err != nil {
		return persistence.User{}, err
	}
	if err := requireAffected(res, "user", user.ID); err != nil {
		return persistence.User{}, err
	}
	return toUser(row), nil
}

func (uh *userHandler) UpdatePassword(ctx context.Context, user persistence.User) error {
	res, err := uh.db().NewUpdate().Model((*userRow)(nil)).
		Set("password_hash = ?", user.PasswordHash).
		Set("hash_algorithm = ?", user.HashAlgorithm).
		Set("password_updated_at = ?", user.PasswordUpdatedAt).
		Where("id = ?", user.ID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res, "user", user.ID)
}

// UpdateUserToken replaces the user's account key; a user holds at most one
// token at a time.
func (uh *userHandler) UpdateUserToken(ctx context.Context, token persistence.UserTokenUpdate) error {
	return uh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*userTokenRow)(nil)).
			Where("user_id = ?", token.UserID).
			Exec(ctx); err != nil {
			return err
		}
		row := userTokenRow{UserID: token.UserID, HashKey: token.HashKey, ExpiresAt: token.ExpiresAt}
		_, err := tx.NewInsert().Model(&row).Exec(ctx)
		return err
	})
}

func (uh *userHandler) ExpireUserToken(ctx context.Context, hash string) error {
	_, err := uh.db().NewUpdate().Model((*userTokenRow)(nil)).
		Set("expires_at = 0").
		Where("hash_key = ?", hash).
		Exec(ctx)
	return err
}

func (uh *userHandler) Delete(ctx context.Context, userID int64) error {
	return uh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*userTokenRow)(nil)).
			Where("user_id = ?", userID).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*roleAssignmentRow)(nil)).
			Where("content_id = ?", userID).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().Model((*userRow)(nil)).
			Where("id = ?", userID).
			Exec(ctx)
		if err != nil {
			return err
		}
		return requireAffected(res, "user", userID)
	})
}

func (uh *userHandler) CreateRole(ctx context.Context, rc persistence.RoleCreate) (persistence.Role, error) {
	var role persistence.Role
	err := uh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := roleRow{
			OriginalID: persistence.NoOriginalRole,
			Identifier: rc.Identifier,
			Status:     int(rc.Status),
		}
		if err := insertReturningID(ctx, tx, &row, &row.ID); err != nil {
			return err
		}
		role = persistence.Role{
			ID:         row.ID,
			OriginalID: persistence.NoOriginalRole,
			Identifier: rc.Identifier,
			Status:     rc.Status,
		}
		for _, p := range rc.Policies {
			created, err := insertPolicy(ctx, tx, row.ID, p)
			if err != nil {
				return err
			}
			role.Policies = append(role.Policies, created)
		}
		return nil
	})
	if err != nil {
		return persistence.Role{}, err
	}
	return role, nil
}

func (uh *userHandler) CreateRoleDraft(ctx context.Context, roleID int64) (persistence.Role, error) {
	source, err := uh.LoadRole(ctx, roleID, persistence.StatusDefined)
	if err != nil {
		return persistence.Role{}, err
	}

	var draft persistence.Role
	err = uh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		draft, err = copyRoleRows(ctx, tx, source, source.Identifier, persistence.StatusDraft, roleID)
		return err
	})
	if err != nil {
		return persistence.Role{}, err
	}
	return draft, nil
}

func (uh *userHandler) CopyRole(ctx context.Context, rc persistence.RoleCopy) (persistence.Role, error) {
	source, err := uh.LoadRole(ctx, rc.SourceRoleID, persistence.StatusDefined)
	if err != nil {
		return persistence.Role{}, err
	}

	var role persistence.Role
	err = uh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		role, err = copyRoleRows(ctx, tx, source, rc.NewIdentifier, persistence.StatusDefined, persistence.NoOriginalRole)
		return err
	})
	if err != nil {
		return persistence.Role{}, err
	}
	return role, nil
}

func (uh *userHandler) LoadRole(ctx context.Context, roleID int64, status persistence.Status) (persistence.Role, error) {
	var row roleRow
	err := uh.db().NewSelect().Model(&row).
		Where("r.id = ?", roleID).
		Where("r.status = ?", int(status)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Role{}, persistence.NewNotFound("role", roleID)
	}
	if err != nil {
		return persistence.Role{}, err
	}
	return uh.assembleRole(ctx, row)
}

func (uh *userHandler) LoadRoleByIdentifier(ctx context.Context, identifier string, status persistence.Status) (persistence.Role, error) {
	var row roleRow
	err := uh.db().NewSelect().Model(&row).
		Where("r.identifier = ?", identifier).
		Where("r.status = ?", int(status)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Role{}, persistence.NewNotFound("role", identifier)
	}
	if err != nil {
		return persistence.Role{}, err
	}
	return uh.assembleRole(ctx, row)
}

func (uh *userHandler) LoadRoleDraftByRoleID(ctx context.Context, roleID int64) (persistence.Role, error) {
	var row roleRow
	err := uh.db().NewSelect().Model(&row).
		Where("r.original_id = ?", roleID).
		Where("r.status = ?", int(persistence.StatusDraft)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Role{}, persistence.NewNotFound("role draft", roleID)
	}
	if err != nil {
		return persistence.Role{}, err
	}
	return uh.assembleRole(ctx, row)
}

func (uh *userHandler) LoadRoles(ctx context.Context) ([]persistence.Role, error) {
	var rows []roleRow
	err := uh.db().NewSelect().Model(&rows).
		Where("r.status = ?", int(persistence.StatusDefined)).
		Order("r.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	roles := make([]persistence.Role, 0, len(rows))
	for _, row := range rows {
		role, err := uh.assembleRole(ctx, row)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (uh *userHandler) UpdateRole(ctx context.Context, ru persistence.RoleUpdate) error {
	res, err := uh.db().NewUpdate().Model((*roleRow)(nil)).
		Set("identifier = ?", ru.Identifier).
		Where("id = ?", ru.ID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res, "role", ru.ID)
}

func (uh *userHandler) DeleteRole(ctx context.Context, roleID int64, status persistence.Status) error {
	return uh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*roleRow)(nil)).
			Where("id = ?", roleID).
			Where("status = ?", int(status)).
			Exec(ctx)
		if err != nil {
			return err
		}
		if err := requireAffected(res, "role", roleID); err != nil {
			return err
		}
		if err := deletePoliciesOfRole(ctx, tx, roleID); err != nil {
			return err
		}
		_, err = tx.NewDelete().Model((*roleAssignmentRow)(nil)).
			Where("role_id = ?", roleID).
			Exec(ctx)
		return err
	})
}

// PublishRoleDraft turns a draft into the defined role. A draft derived
// from an existing role replaces it: the original's rows go away and its
// assignments move over to the published role.
func (uh *userHandler) PublishRoleDraft(ctx context.Context, roleDraftID int64) error {
	return uh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var draft roleRow
		err := tx.NewSelect().Model(&draft).
			Where("r.id = ?", roleDraftID).
			Where("r.status = ?", int(persistence.StatusDraft)).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.NewNotFound("role draft", roleDraftID)
		}
		if err != nil {
			return err
		}

		if draft.OriginalID > persistence.NoOriginalRole {
			if err := deletePoliciesOfRole(ctx, tx, draft.OriginalID); err != nil {
				return err
			}
			if _, err := tx.NewDelete().Model((*roleRow)(nil)).
				Where("id = ?", draft.OriginalID).
				Exec(ctx); err != nil {
				return err
			}
			if _, err := tx.NewUpdate().Model((*roleAssignmentRow)(nil)).
				Set("role_id = ?", draft.ID).
				Where("role_id = ?", draft.OriginalID).
				Exec(ctx); err != nil {
				return err
			}
		}

		_, err = tx.NewUpdate().Model((*roleRow)(nil)).
			Set("status = ?", int(persistence.StatusDefined)).
			Set("original_id = ?", persistence.NoOriginalRole).
			Where("id = ?", draft.ID).
			Exec(ctx)
		return err
	})
}

func (uh *userHandler) AddPolicy(ctx context.Context, roleID int64, policy persistence.Policy) (persistence.Policy, error) {
	var created persistence.Policy
	err := uh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		created, err = insertPolicy(ctx, tx, roleID, policy)
		return err
	})
	if err != nil {
		return persistence.Policy{}, err
	}
	return created, nil
}

func (uh *userHandler) AddPolicyByRoleDraft(ctx context.Context, roleID int64, policy persistence.Policy) (persistence.Policy, error) {
	return uh.AddPolicy(ctx, roleID, policy)
}

func (uh *userHandler) UpdatePolicy(ctx context.Context, policy persistence.Policy) (persistence.Policy, error) {
	err := uh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*policyRow)(nil)).
			Set("module = ?", policy.Module).
			Set("function = ?", policy.Function).
			Where("id = ?", policy.ID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if err := requireAffected(res, "policy", policy.ID); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*policyLimitationRow)(nil)).
			Where("policy_id = ?", policy.ID).
			Exec(ctx); err != nil {
			return err
		}
		return insertLimitations(ctx, tx, policy.ID, policy.Limitations)
	})
	if err != nil {
		return persistence.Policy{}, err
	}
	return policy, nil
}

func (uh *userHandler) DeletePolicy(ctx context.Context, policyID, roleID int64) error {
	return uh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*policyLimitationRow)(nil)).
			Where("policy_id = ?", policyID).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().Model((*policyRow)(nil)).
			Where("id = ?", policyID).
			Where("role_id = ?", roleID).
			Exec(ctx)
		if err != nil {
			return err
		}
		return requireAffected(res, "policy", policyID)
	})
}

func (uh *userHandler) LoadPoliciesByUserID(ctx context.Context, userID int64) ([]persistence.Policy, error) {
	assignments, err := uh.LoadRoleAssignmentsByGroupID(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	var policies []persistence.Policy
	seenRoles := make(map[int64]struct{}, len(assignments))
	for _, ra := range assignments {
		if _, ok := seenRoles[ra.RoleID]; ok {
			continue
		}
		seenRoles[ra.RoleID] = struct{}{}
		rolePolicies, err := uh.loadPolicies(ctx, uh.db(), ra.RoleID)
		if err != nil {
			return nil, err
		}
		policies = append(policies, rolePolicies...)
	}
	return policies, nil
}

func (uh *userHandler) LoadRoleAssignment(ctx context.Context, roleAssignmentID int64) (persistence.RoleAssignment, error) {
	var row roleAssignmentRow
	err := uh.db().NewSelect().Model(&row).Where("ra.id = ?", roleAssignmentID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.RoleAssignment{}, persistence.NewNotFound("role assignment", roleAssignmentID)
	}
	if err != nil {
		return persistence.RoleAssignment{}, err
	}
	return toRoleAssignment(row)
}

func (uh *userHandler) LoadRoleAssignmentsByRoleID(ctx context.Context, roleID int64) ([]persistence.RoleAssignment, error) {
	var rows []roleAssignmentRow
	err := uh.db().NewSelect().Model(&rows).
		Where("ra.role_id = ?", roleID).
		Order("ra.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toRoleAssignments(rows)
}

// LoadRoleAssignmentsByGroupID loads the group's own assignments; with
// inherit set, assignments of every ancestor group reachable through the
// group's locations are included as well.
func (uh *userHandler) LoadRoleAssignmentsByGroupID(ctx context.Context, groupID int64, inherit bool) ([]persistence.RoleAssignment, error) {
	contentIDs := []int64{groupID}
	if inherit {
		ancestors, err := uh.ancestorContentIDs(ctx, groupID)
		if err != nil {
			return nil, err
		}
		contentIDs = append(contentIDs, ancestors...)
	}

	var rows []roleAssignmentRow
	err := uh.db().NewSelect().Model(&rows).
		Where("ra.content_id IN (?)", bun.In(contentIDs)).
		Order("ra.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toRoleAssignments(rows)
}

func (uh *userHandler) AssignRole(ctx context.Context, contentID, roleID int64, limitation *persistence.RoleLimitation) error {
	row := roleAssignmentRow{
		RoleID:           roleID,
		ContentID:        contentID,
		LimitationValues: "[]",
	}
	if limitation != nil {
		values, err := json.Marshal(limitation.Values)
		if err != nil {
			return err
		}
		row.LimitationIdentifier = limitation.Identifier
		row.LimitationValues = string(values)
	}
	_, err := uh.db().NewInsert().Model(&row).Exec(ctx)
	return err
}

func (uh *userHandler) UnassignRole(ctx context.Context, contentID, roleID int64) error {
	res, err := uh.db().NewDelete().Model((*roleAssignmentRow)(nil)).
		Where("content_id = ?", contentID).
		Where("role_id = ?", roleID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res, "role assignment", fmt.Sprintf("content %d role %d", contentID, roleID))
}

func (uh *userHandler) RemoveRoleAssignment(ctx context.Context, roleAssignmentID int64) error {
	res, err := uh.db().NewDelete().Model((*roleAssignmentRow)(nil)).
		Where("id = ?", roleAssignmentID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res, "role assignment", roleAssignmentID)
}

// ancestorContentIDs resolves the content ids of every ancestor location of
// every location of the given content, the content's own locations excluded.
func (uh *userHandler) ancestorContentIDs(ctx context.Context, contentID int64) ([]int64, error) {
	var locs []locationRow
	err := uh.db().NewSelect().Model(&locs).Where("l.content_id = ?", contentID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	own := make(map[int64]struct{}, len(locs))
	for _, loc := range locs {
		own[loc.ID] = struct{}{}
	}
	ancestorIDs := make(map[int64]struct{})
	for _, loc := range locs {
		for _, pathID := range pathIDs(loc.Path) {
			if _, self := own[pathID]; !self {
				ancestorIDs[pathID] = struct{}{}
			}
		}
	}
	if len(ancestorIDs) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(ancestorIDs))
	for id := range ancestorIDs {
		ids = append(ids, id)
	}
	var ancestors []locationRow
	err = uh.db().NewSelect().Model(&ancestors).Where("l.id IN (?)", bun.In(ids)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(ancestors))
	out := make([]int64, 0, len(ancestors))
	for _, loc := range ancestors {
		if _, ok := seen[loc.ContentID]; ok {
			continue
		}
		seen[loc.ContentID] = struct{}{}
		out = append(out, loc.ContentID)
	}
	return out, nil
}

func (uh *userHandler) assembleRole(ctx context.Context, row roleRow) (persistence.Role, error) {
	policies, err := uh.loadPolicies(ctx, uh.db(), row.ID)
	if err != nil {
		return persistence.Role{}, err
	}
	return persistence.Role{
		ID:         row.ID,
		OriginalID: row.OriginalID,
		Identifier: row.Identifier,
		Status:     persistence.Status(row.Status),
		Policies:   policies,
	}, nil
}

func (uh *userHandler) loadPolicies(ctx context.Context, db bun.IDB, roleID int64) ([]persistence.Policy, error) {
	var rows []policyRow
	err := db.NewSelect().Model(&rows).
		Where("p.role_id = ?", roleID).
		Order("p.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	policyIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		policyIDs = append(policyIDs, row.ID)
	}
	var limitations []policyLimitationRow
	err = db.NewSelect().Model(&limitations).
		Where("pl.policy_id IN (?)", bun.In(policyIDs)).
		Order("pl.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	byPolicy := make(map[int64]map[string][]string)
	for _, lim := range limitations {
		if byPolicy[lim.PolicyID] == nil {
			byPolicy[lim.PolicyID] = make(map[string][]string)
		}
		byPolicy[lim.PolicyID][lim.Identifier] = append(byPolicy[lim.PolicyID][lim.Identifier], lim.Value)
	}

	policies := make([]persistence.Policy, 0, len(rows))
	for _, row := range rows {
		policies = append(policies, persistence.Policy{
			ID:          row.ID,
			RoleID:      row.RoleID,
			Module:      row.Module,
			Function:    row.Function,
			Limitations: byPolicy[row.ID],
		})
	}
	return policies, nil
}

func insertPolicy(ctx context.Context, tx bun.Tx, roleID int64, policy persistence.Policy) (persistence.Policy, error) {
	row := policyRow{RoleID: roleID, Module: policy.Module, Function: policy.Function}
	if err := insertReturningID(ctx, tx, &row, &row.ID); err != nil {
		return persistence.Policy{}, err
	}
	if err := insertLimitations(ctx, tx, row.ID, policy.Limitations); err != nil {
		return persistence.Policy{}, err
	}
	policy.ID = row.ID
	policy.RoleID = roleID
	return policy, nil
}

func insertLimitations(ctx context.Context, tx bun.Tx, policyID int64, limitations map[string][]string) error {
	for identifier, values := range limitations {
		for _, value := range values {
			row := policyLimitationRow{PolicyID: policyID, Identifier: identifier, Value: value}
			if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyRoleRows(ctx context.Context, tx bun.Tx, source persistence.Role, identifier string, status persistence.Status, originalID int64) (persistence.Role, error) {
	row := roleRow{OriginalID: originalID, Identifier: identifier, Status: int(status)}
	if err := insertReturningID(ctx, tx, &row, &row.ID); err != nil {
		return persistence.Role{}, err
	}

	out := persistence.Role{
		ID:         row.ID,
		OriginalID: originalID,
		Identifier: identifier,
		Status:     status,
	}
	for _, p := range source.Policies {
		created, err := insertPolicy(ctx, tx, row.ID, p)
		if err != nil {
			return persistence.Role{}, err
		}
		out.Policies = append(out.Policies, created)
	}
	return out, nil
}

func deletePoliciesOfRole(ctx context.Context, tx bun.Tx, roleID int64) error {
	var policyIDs []int64
	err := tx.NewSelect().Model((*policyRow)(nil)).
		Column("p.id").
		Where("p.role_id = ?", roleID).
		Scan(ctx, &policyIDs)
	if err != nil {
		return err
	}
	if len(policyIDs) > 0 {
		if _, err := tx.NewDelete().Model((*policyLimitationRow)(nil)).
			Where("policy_id IN (?)", bun.In(policyIDs)).
			Exec(ctx); err != nil {
			return err
		}
	}
	_, err = tx.NewDelete().Model((*policyRow)(nil)).
		Where("role_id = ?", roleID).
		Exec(ctx)
	return err
}

func toRoleAssignment(row roleAssignmentRow) (persistence.RoleAssignment, error) {
	ra := persistence.RoleAssignment{
		ID:                   row.ID,
		RoleID:               row.RoleID,
		ContentID:            row.ContentID,
		LimitationIdentifier: row.LimitationIdentifier,
	}
	if row.LimitationValues != "" && row.LimitationValues != "[]" {
		if err := json.Unmarshal([]byte(row.LimitationValues), &ra.LimitationValues); err != nil {
			return persistence.RoleAssignment{}, fmt.Errorf("decode limitation values of assignment %d: %w", row.ID, err)
		}
	}
	return ra, nil
}

func toRoleAssignments(rows []roleAssignmentRow) ([]persistence.RoleAssignment, error) {
	out := make([]persistence.RoleAssignment, 0, len(rows))
	for _, row := range rows {
		ra, err := toRoleAssignment(row)
		if err != nil {
			return nil, err
		}
		out = append(out, ra)
	}
	return out, nil
}

func insertReturningID(ctx context.Context, tx bun.Tx, model any, id *int64) error {
	res, err := tx.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		return err
	}
	if *id == 0 {
		last, err := res.LastInsertId()
		if err != nil {
			return err
		}
		*id = last
	}
	return nil
}

func requireAffected(res sql.Result, kind string, id any) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.NewNotFound(kind, id)
	}
	return nil
}
