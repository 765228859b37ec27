package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"uav-maintenance-service/internal/domain/uav"
	"uav-maintenance-service/internal/fleet"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ListCmd prints the filtered fleet
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List UAV maintenance records",
		Long: `Reload the fleet and print the records matching the filters.

Examples:
  fleetctl list
  fleetctl list --search "hangar b"
  fleetctl list --status repair`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			statusFlag, _ := cmd.Flags().GetString("status")

			status, err := fleet.ParseStatusFilter(statusFlag)
			if err != nil {
				return err
			}

			return withStore(cmd.Context(), func(store *fleet.Store) error {
				store.SetSearchTerm(search)
				store.SetStatusFilter(status)
				displayRecords(cmd.OutOrStdout(), store.FilteredRecords(), len(store.Records()))
				return nil
			})
		},
	}

	cmd.Flags().String("search", "", "Case-insensitive match on number, location or malfunctions")
	cmd.Flags().String("status", "all", "Status filter (all, operational, maintenance, repair, critical, unknown)")

	return cmd
}

func displayRecords(w io.Writer, records []uav.UAV, total int) {
	if len(records) == 0 {
		fmt.Fprintf(w, "No records match (%d total)\n", total)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UAV\tSTATUS\tLOCATION\tARRIVED\tCOMPLETED\tSIGNED\tMALFUNCTIONS")
	for _, r := range records {
		completed := "-"
		if r.CompletionDate != nil {
			completed = r.CompletionDate.String()
		}
		signed := "no"
		if r.HasSignature() {
			signed = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.UAVNumber, statusLabel(r.Status), r.Location, r.ArrivalDate, completed, signed, r.Malfunctions)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d of %d records\n", len(records), total)
}

func statusLabel(s uav.Status) string {
	switch s.Normalize() {
	case uav.StatusOperational:
		return color.New(color.FgGreen).Sprint(s)
	case uav.StatusMaintenance:
		return color.New(color.FgBlue).Sprint(s)
	case uav.StatusRepair:
		return color.New(color.FgYellow).Sprint(s)
	case uav.StatusCritical:
		return color.New(color.FgRed).Sprint(s)
	}
	return color.New(color.FgHiBlack).Sprint(uav.StatusUnknown)
}
