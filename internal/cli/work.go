package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"GENBA-backend/internal/attendance"
	"GENBA-backend/internal/export"
	"GENBA-backend/internal/worklog"
)

var (
	workYear    int
	workMonth   int
	workSite    string
	workUser    string
	workMachine string
	workJSON    bool
)

var workCmd = &cobra.Command{
	Use:   "work",
	Short: "月別の作業時間集計（作業員 × 日，現場 / 機械の内訳付き）",
	RunE:  runWork,
}

func init() {
	now := time.Now()
	f := workCmd.Flags()
	f.IntVar(&workYear, "year", now.Year(), "year")
	f.IntVar(&workMonth, "month", int(now.Month()), "month (1-12)")
	f.StringVar(&workSite, "site", "", "filter by site name")
	f.StringVar(&workUser, "user", "", "filter by user key")
	f.StringVar(&workMachine, "machine", "", "filter by machine id")
	f.BoolVar(&workJSON, "json", false, "output JSON")

	rootCmd.AddCommand(workCmd)
}

func runWork(cmd *cobra.Command, _ []string) error {
	o, err := override(cmd)
	if err != nil {
		return err
	}
	svc, done, err := openService(cfgPath)
	if err != nil {
		return err
	}
	defer done()

	res, err := svc.AggregateWorkByMonth(cmd.Context(), attendance.WorkQuery{
		Year:    workYear,
		Month:   workMonth,
		Filters: worklog.Filters{SiteName: workSite, UserKey: workUser, MachineID: workMachine},
	}, o)
	if err != nil {
		return err
	}
	if workJSON {
		return writeJSON(cmd.OutOrStdout(), res)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USER\tDAY\tHOURS\tBREAKDOWN")
	for _, u := range res.Users {
		for _, d := range u.Days {
			parts := make([]string, 0, len(d.Breakdown))
			for _, b := range d.Breakdown {
				parts = append(parts, fmt.Sprintf("%s=%gmin", b.Label, b.Minutes))
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.UserName, d.Day, export.FormatHours(d.Hours), strings.Join(parts, ", "))
		}
	}
	return tw.Flush()
}
