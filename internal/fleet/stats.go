// internal/fleet/stats.go
package fleet

import (
	"math"
	"sort"
	"strings"
	"time"

	"uav-maintenance-service/internal/domain/uav"
)

const (
	DefaultWindowDays       = 30
	DefaultMalfunctionLimit = 5
	DefaultRecentLimit      = 5
	MaxWindowDays           = 366
	MaxLimit                = 100
	recentArrivalDays       = 7
)

type DashboardStats struct {
	Total          int `json:"total"`
	Operational    int `json:"operational"`
	Maintenance    int `json:"maintenance"`
	Repair         int `json:"repair"`
	Critical       int `json:"critical"`
	Unknown        int `json:"unknown"`
	RecentArrivals int `json:"recent_arrivals"`
	CompletedToday int `json:"completed_today"`
}

type StatusCount struct {
	Status uav.Status `json:"status"`
	Count  int        `json:"count"`
}

type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

type DailyCount struct {
	Date  uav.Date `json:"date"`
	Count int      `json:"count"`
}

type MalfunctionCount struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// ComputeDashboardStats buckets records by status and counts recent
// arrivals and same-day completions relative to now.
//
// The day difference is floor((now - local midnight of arrival) / 24h),
// so arrivals dated in the future count as recent.
func ComputeDashboardStats(records []uav.UAV, now time.Time) DashboardStats {
	stats := DashboardStats{Total: len(records)}
	today := uav.DateOf(now)

	for _, r := range records {
		switch r.Status.Normalize() {
		case uav.StatusOperational:
			stats.Operational++
		case uav.StatusMaintenance:
			stats.Maintenance++
		case uav.StatusRepair:
			stats.Repair++
		case uav.StatusCritical:
			stats.Critical++
		default:
			stats.Unknown++
		}

		if !r.ArrivalDate.IsZero() && daysSince(r.ArrivalDate, now) <= recentArrivalDays {
			stats.RecentArrivals++
		}
		if r.CompletionDate != nil && r.CompletionDate.Equal(today) {
			stats.CompletedToday++
		}
	}
	return stats
}

func daysSince(d uav.Date, now time.Time) int {
	elapsed := now.Sub(d.Midnight(now.Location()))
	return int(math.Floor(elapsed.Hours() / 24))
}

// StatusDistribution returns one entry per status in uav.Statuses order.
func StatusDistribution(records []uav.UAV) []StatusCount {
	counts := make(map[uav.Status]int, len(uav.Statuses))
	for _, r := range records {
		counts[r.Status.Normalize()]++
	}
	out := make([]StatusCount, 0, len(uav.Statuses))
	for _, s := range uav.Statuses {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}

// LocationDistribution counts records per observed location in first-seen order.
func LocationDistribution(records []uav.UAV) []LocationCount {
	index := make(map[string]int)
	out := make([]LocationCount, 0)
	for _, r := range records {
		i, ok := index[r.Location]
		if !ok {
			index[r.Location] = len(out)
			out = append(out, LocationCount{Location: r.Location, Count: 1})
			continue
		}
		out[i].Count++
	}
	return out
}

// ArrivalsTimeSeries returns windowDays entries, oldest first, ending on
// the calendar date of now. Each entry counts exact arrival-date matches.
func ArrivalsTimeSeries(records []uav.UAV, now time.Time, windowDays int) []DailyCount {
	if windowDays <= 0 {
		return []DailyCount{}
	}
	today := uav.DateOf(now)
	out := make([]DailyCount, windowDays)
	index := make(map[uav.Date]int, windowDays)
	for i := 0; i < windowDays; i++ {
		d := today.AddDays(i - windowDays + 1)
		out[i] = DailyCount{Date: d}
		index[d] = i
	}
	for _, r := range records {
		if i, ok := index[r.ArrivalDate]; ok {
			out[i].Count++
		}
	}
	return out
}

// TopMalfunctions groups by trimmed malfunction text and returns the
// limit most frequent groups. Ties keep first-seen order.
func TopMalfunctions(records []uav.UAV, limit int) []MalfunctionCount {
	if limit <= 0 {
		return []MalfunctionCount{}
	}
	index := make(map[string]int)
	groups := make([]MalfunctionCount, 0)
	for _, r := range records {
		text := strings.TrimSpace(r.Malfunctions)
		i, ok := index[text]
		if !ok {
			index[text] = len(groups)
			groups = append(groups, MalfunctionCount{Description: text, Count: 1})
			continue
		}
		groups[i].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// RecentArrivals returns the limit records with the latest arrival dates.
func RecentArrivals(records []uav.UAV, limit int) []uav.UAV {
	if limit <= 0 {
		return []uav.UAV{}
	}
	sorted := make([]uav.UAV, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].ArrivalDate.Before(sorted[i].ArrivalDate)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
