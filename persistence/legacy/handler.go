// Package legacy is the SQL storage backend of the persistence layer. It
// implements the persistence handler interfaces on a relational schema
// (users, roles, policies, role assignments, a materialized-path location
// tree) through bun. It performs no caching of its own; the caching
// decorators in package persistencecache sit in front of it.
package legacy

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-persistence-cache/persistence"
)

// Handler is the legacy storage backend.
type Handler struct {
	db  *bun.DB
	now func() time.Time

	users     *userHandler
	locations *locationHandler
}

// New wraps an existing bun handle.
func New(db *bun.DB) *Handler {
	h := &Handler{db: db, now: time.Now}
	h.users = &userHandler{h: h}
	h.locations = &locationHandler{h: h}
	return h
}

// NewSQLite opens a sqlite database at dsn (":memory:" works for tests) and
// returns a Handler on it. The schema is not created automatically; call
// Schema once after opening.
func NewSQLite(dsn string) (*Handler, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	return New(bun.NewDB(sqldb, sqlitedialect.New())), nil
}

var _ persistence.Handler = (*Handler)(nil)

func (h *Handler) UserHandler() persistence.UserHandler {
	return h.users
}

func (h *Handler) LocationHandler() persistence.LocationHandler {
	return h.locations
}

// Close releases the underlying database handle.
func (h *Handler) Close() error {
	return h.db.Close()
}
