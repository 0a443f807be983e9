package persistencecache

import (
	"github.com/goliatone/go-persistence-cache/cache"
	"github.com/goliatone/go-persistence-cache/persistence"
)

// Handler is the caching persistence handler: it implements
// persistence.Handler by decorating every sub-handler of the wrapped
// backend, so callers cannot tell it apart from the backend itself.
type Handler struct {
	users     *UserHandler
	locations *LocationHandler
}

// New builds a caching Handler in front of backend.
func New(
	store cache.Store,
	backend persistence.Handler,
	ids cache.IdentifierGenerator,
	esc cache.IdentifierSanitizer,
	log cache.ActivityLogger,
) *Handler {
	return &Handler{
		users:     NewUserHandler(store, backend, ids, esc, log),
		locations: NewLocationHandler(store, backend, ids, esc, log),
	}
}

var _ persistence.Handler = (*Handler)(nil)

func (h *Handler) UserHandler() persistence.UserHandler {
	return h.users
}

func (h *Handler) LocationHandler() persistence.LocationHandler {
	return h.locations
}
