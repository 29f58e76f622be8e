package handlers

import (
	"fmt"
	"strconv"
)

// parseIDs converts Discord snowflake strings to int64 IDs.
func parseIDs(raw ...string) ([]int64, error) {
	ids := make([]int64, len(raw))
	for i, r := range raw {
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid snowflake %q: %w", r, err)
		}
		ids[i] = id
	}
	return ids, nil
}
