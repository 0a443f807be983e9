package persistencecache

import (
	"fmt"
	"strconv"
	"strings"
)

// LocationPathConverter turns a materialized path string like "/1/2/7/"
// into the ordered list of location ids it encodes, the node itself
// included. Location-scoped caches tag themselves per path segment, so a
// tree mutation can invalidate everything under an ancestor by tagging just
// that ancestor's id.
type LocationPathConverter struct{}

// ToPathIDs parses pathString into location ids. An empty path yields nil;
// a non-numeric segment is a data error and fails.
func (LocationPathConverter) ToPathIDs(pathString string) ([]int64, error) {
	trimmed := strings.Trim(pathString, "/")
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, "/")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed location path %q: %w", pathString, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
