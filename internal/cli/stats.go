package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"uav-maintenance-service/internal/fleet"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// StatsCmd prints the dashboard and fleet statistics
func StatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show fleet statistics",
		Long: `Reload the fleet and print dashboard counters, status and location
distributions, daily arrivals and the most frequent malfunctions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			limit, _ := cmd.Flags().GetInt("limit")
			if days < 0 || days > fleet.MaxWindowDays {
				return fmt.Errorf("--days must be between 0 and %d", fleet.MaxWindowDays)
			}
			if limit < 0 || limit > fleet.MaxLimit {
				return fmt.Errorf("--limit must be between 0 and %d", fleet.MaxLimit)
			}

			return withStore(cmd.Context(), func(store *fleet.Store) error {
				displayStats(cmd.OutOrStdout(), store, days, limit)
				return nil
			})
		},
	}

	cmd.Flags().Int("days", fleet.DefaultWindowDays, "Arrival window in days")
	cmd.Flags().Int("limit", fleet.DefaultMalfunctionLimit, "Number of top malfunctions")

	return cmd
}

// statsSource is the read side of fleet.Store used for display
type statsSource interface {
	DashboardStats() fleet.DashboardStats
	StatusDistribution() []fleet.StatusCount
	LocationDistribution() []fleet.LocationCount
	ArrivalsTimeSeries(windowDays int) []fleet.DailyCount
	TopMalfunctions(limit int) []fleet.MalfunctionCount
	Now() time.Time
}

func displayStats(w io.Writer, src statsSource, days, limit int) {
	bold := color.New(color.Bold)
	d := src.DashboardStats()

	bold.Fprintf(w, "Fleet dashboard (%s)\n", src.Now().Format("2006-01-02"))
	fmt.Fprintf(w, "  Total:           %d\n", d.Total)
	fmt.Fprintf(w, "  Operational:     %s\n", color.New(color.FgGreen).Sprint(d.Operational))
	fmt.Fprintf(w, "  Maintenance:     %s\n", color.New(color.FgBlue).Sprint(d.Maintenance))
	fmt.Fprintf(w, "  Repair:          %s\n", color.New(color.FgYellow).Sprint(d.Repair))
	fmt.Fprintf(w, "  Critical:        %s\n", color.New(color.FgRed).Sprint(d.Critical))
	fmt.Fprintf(w, "  Unknown:         %d\n", d.Unknown)
	fmt.Fprintf(w, "  Recent arrivals: %d\n", d.RecentArrivals)
	fmt.Fprintf(w, "  Completed today: %d\n", d.CompletedToday)
	fmt.Fprintln(w)

	bold.Fprintln(w, "Status distribution")
	for _, sc := range src.StatusDistribution() {
		fmt.Fprintf(w, "  %-12s %d\n", sc.Status, sc.Count)
	}
	fmt.Fprintln(w)

	bold.Fprintln(w, "Locations")
	locations := src.LocationDistribution()
	if len(locations) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, lc := range locations {
		fmt.Fprintf(w, "  %-20s %d\n", lc.Location, lc.Count)
	}
	fmt.Fprintln(w)

	bold.Fprintf(w, "Arrivals, last %d days\n", days)
	for _, dc := range src.ArrivalsTimeSeries(days) {
		if dc.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s %s %d\n", dc.Date, strings.Repeat("#", dc.Count), dc.Count)
	}
	fmt.Fprintln(w)

	bold.Fprintf(w, "Top %d malfunctions\n", limit)
	top := src.TopMalfunctions(limit)
	if len(top) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for i, mc := range top {
		desc := mc.Description
		if desc == "" {
			desc = "(none reported)"
		}
		fmt.Fprintf(w, "  %d. %s (%d)\n", i+1, desc, mc.Count)
	}
}
