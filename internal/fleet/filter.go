// internal/fleet/filter.go
package fleet

import (
	"fmt"
	"strings"

	"uav-maintenance-service/internal/domain/uav"
)

// StatusFilter is either FilterAll or one uav.Status value.
type StatusFilter string

const FilterAll StatusFilter = "all"

// ParseStatusFilter accepts "all" (or empty) and the status enum.
func ParseStatusFilter(s string) (StatusFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	if !uav.Status(s).Valid() {
		return "", fmt.Errorf("invalid status filter %q", s)
	}
	return StatusFilter(s), nil
}

// MatchesSearch is a case-insensitive substring match over the
// identifier, location and malfunction text.
func MatchesSearch(r uav.UAV, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(r.UAVNumber), needle) ||
		strings.Contains(strings.ToLower(r.Location), needle) ||
		strings.Contains(strings.ToLower(r.Malfunctions), needle)
}

func MatchesStatus(r uav.UAV, filter StatusFilter) bool {
	return filter == FilterAll || filter == "" || string(r.Status) == string(filter)
}

// Filter keeps the records matching both predicates, preserving order.
// The result is never nil.
func Filter(records []uav.UAV, term string, filter StatusFilter) []uav.UAV {
	out := make([]uav.UAV, 0, len(records))
	for _, r := range records {
		if MatchesSearch(r, term) && MatchesStatus(r, filter) {
			out = append(out, r)
		}
	}
	return out
}
