package legacy

import (
	"context"

	"github.com/uptrace/bun"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                int64  `bun:"id,pk,autoincrement"`
	Login             string `bun:"login,notnull,unique"`
	Email             string `bun:"email,notnull"`
	PasswordHash      string `bun:"password_hash,notnull"`
	HashAlgorithm     int    `bun:"hash_algorithm,notnull"`
	PasswordUpdatedAt int64  `bun:"password_updated_at,notnull"`
	Enabled           bool   `bun:"enabled,notnull"`
}

type userTokenRow struct {
	bun.BaseModel `bun:"table:user_tokens,alias:ut"`

	ID        int64  `bun:"id,pk,autoincrement"`
	UserID    int64  `bun:"user_id,notnull"`
	HashKey   string `bun:"hash_key,notnull,unique"`
	ExpiresAt int64  `bun:"expires_at,notnull"`
}

type roleRow struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID         int64  `bun:"id,pk,autoincrement"`
	OriginalID int64  `bun:"original_id,notnull"`
	Identifier string `bun:"identifier,notnull"`
	Status     int    `bun:"status,notnull"`
}

type policyRow struct {
	bun.BaseModel `bun:"table:policies,alias:p"`

	ID       int64  `bun:"id,pk,autoincrement"`
	RoleID   int64  `bun:"role_id,notnull"`
	Module   string `bun:"module,notnull"`
	Function string `bun:"function,notnull"`
}

type policyLimitationRow struct {
	bun.BaseModel `bun:"table:policy_limitations,alias:pl"`

	ID         int64  `bun:"id,pk,autoincrement"`
	PolicyID   int64  `bun:"policy_id,notnull"`
	Identifier string `bun:"identifier,notnull"`
	Value      string `bun:"value,notnull"`
}

type roleAssignmentRow struct {
	bun.BaseModel `bun:"table:role_assignments,alias:ra"`

	ID                   int64  `bun:"id,pk,autoincrement"`
	RoleID               int64  `bun:"role_id,notnull"`
	ContentID            int64  `bun:"content_id,notnull"`
	LimitationIdentifier string `bun:"limitation_identifier,notnull,default:''"`
	// LimitationValues is a JSON array; sqlite has no native array type.
	LimitationValues string `bun:"limitation_values,notnull,default:'[]'"`
}

type locationRow struct {
	bun.BaseModel `bun:"table:locations,alias:l"`

	ID        int64  `bun:"id,pk,autoincrement"`
	ParentID  int64  `bun:"parent_id,notnull"`
	ContentID int64  `bun:"content_id,notnull"`
	Depth     int    `bun:"depth,notnull"`
	// Path is the materialized path including the node itself, "/1/2/7/".
	Path string `bun:"path,notnull"`
}

var schemaModels = []any{
	(*userRow)(nil),
	(*userTokenRow)(nil),
	(*roleRow)(nil),
	(*policyRow)(nil),
	(*policyLimitationRow)(nil),
	(*roleAssignmentRow)(nil),
	(*locationRow)(nil),
}

// Schema creates the legacy tables if they do not exist yet.
func (h *Handler) Schema(ctx context.Context) error {
	for _, model := range schemaModels {
		if _, err := h.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
