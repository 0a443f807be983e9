package legacy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-persistence-cache/persistence"
)

type locationHandler struct {
	h *Handler
}

var _ persistence.LocationHandler = (*locationHandler)(nil)

func (lh *locationHandler) db() *bun.DB { return lh.h.db }

func toLocation(r locationRow) persistence.Location {
	return persistence.Location{
		ID:         r.ID,
		ParentID:   r.ParentID,
		ContentID:  r.ContentID,
		Depth:      r.Depth,
		PathString: r.Path,
	}
}

func (lh *locationHandler) Load(ctx context.Context, locationID int64) (persistence.Location, error) {
	var row locationRow
	err := lh.db().NewSelect().Model(&row).Where("l.id = ?", locationID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Location{}, persistence.NewNotFound("location", locationID)
	}
	if err != nil {
		return persistence.Location{}, err
	}
	return toLocation(row), nil
}

func (lh *locationHandler) LoadLocationsByContent(ctx context.Context, contentID int64) ([]persistence.Location, error) {
	var rows []locationRow
	err := lh.db().NewSelect().Model(&rows).
		Where("l.content_id = ?", contentID).
		Order("l.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	locations := make([]persistence.Location, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, toLocation(row))
	}
	return locations, nil
}

// Create inserts a location under location.ParentID. Depth and path are
// derived from the parent row, never taken from the input.
func (lh *locationHandler) Create(ctx context.Context, location persistence.Location) (persistence.Location, error) {
	var created persistence.Location
	err := lh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// ParentID zero creates a tree root.
		parent := locationRow{Path: "/"}
		if location.ParentID != 0 {
			err := tx.NewSelect().Model(&parent).Where("l.id = ?", location.ParentID).Scan(ctx)
			if errors.Is(err, sql.ErrNoRows) {
				return persistence.NewNotFound("location", location.ParentID)
			}
			if err != nil {
				return err
			}
		}

		row := locationRow{
			ParentID:  location.ParentID,
			ContentID: location.ContentID,
			Depth:     parent.Depth + 1,
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return err
		}
		row.Path = fmt.Sprintf("%s%d/", parent.Path, row.ID)
		if _, err := tx.NewUpdate().Model(&row).
			Column("path").
			WherePK().
			Exec(ctx); err != nil {
			return err
		}
		created = toLocation(row)
		return nil
	})
	if err != nil {
		return persistence.Location{}, err
	}
	return created, nil
}

// Move reparents a subtree. Every descendant path gets the moved node's old
// path prefix rewritten in place, and depths shift by the difference between
// the old and new parent.
func (lh *locationHandler) Move(ctx context.Context, locationID, newParentID int64) error {
	return lh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var node locationRow
		err := tx.NewSelect().Model(&node).Where("l.id = ?", locationID).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.NewNotFound("location", locationID)
		}
		if err != nil {
			return err
		}

		var parent locationRow
		err = tx.NewSelect().Model(&parent).Where("l.id = ?", newParentID).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.NewNotFound("location", newParentID)
		}
		if err != nil {
			return err
		}
		if strings.HasPrefix(parent.Path, node.Path) {
			return fmt.Errorf("cannot move location %d under its own descendant %d", locationID, newParentID)
		}

		oldPath := node.Path
		newPath := fmt.Sprintf("%s%d/", parent.Path, node.ID)
		depthDelta := parent.Depth + 1 - node.Depth

		if _, err := tx.NewUpdate().Model((*locationRow)(nil)).
			Set("path = ? || substr(path, ?)", newPath, len(oldPath)+1).
			Set("depth = depth + ?", depthDelta).
			Where("path LIKE ?", oldPath+"%").
			Exec(ctx); err != nil {
			return err
		}
		_, err = tx.NewUpdate().Model((*locationRow)(nil)).
			Set("parent_id = ?", newParentID).
			Where("id = ?", locationID).
			Exec(ctx)
		return err
	})
}

// Delete removes a location and its whole subtree.
func (lh *locationHandler) Delete(ctx context.Context, locationID int64) error {
	return lh.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var node locationRow
		err := tx.NewSelect().Model(&node).Where("l.id = ?", locationID).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.NewNotFound("location", locationID)
		}
		if err != nil {
			return err
		}
		_, err = tx.NewDelete().Model((*locationRow)(nil)).
			Where("path LIKE ?", node.Path+"%").
			Exec(ctx)
		return err
	})
}

// pathIDs splits a materialized path "/1/2/7/" into its location ids.
func pathIDs(path string) []int64 {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
